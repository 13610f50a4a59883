package sid

import (
	"errors"

	"github.com/sony/sonyflake"
)

type Sid struct {
	sf *sonyflake.Sonyflake
}

func NewSid() *Sid {
	sf := sonyflake.NewSonyflake(sonyflake.Settings{})
	if sf == nil {
		panic("sonyflake not created")
	}
	return &Sid{sf}
}

func (s Sid) GenString() (string, error) {
	id, err := s.sf.NextID()
	if err != nil {
		return "", errors.New("failed to generate sonyflake id")
	}
	return IntToBase62(int(id)), nil
}

func (s Sid) GenUint64() (uint64, error) {
	id, err := s.sf.NextID()
	if err != nil {
		return 0, errors.New("failed to generate sonyflake id")
	}
	return id, nil
}
