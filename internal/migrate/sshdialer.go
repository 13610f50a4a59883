package migrate

import (
	"context"
	"time"

	"pvefleet/pkg/sshchan"

	"github.com/spf13/viper"
)

type sshDialer struct {
	keyPath     string
	dialTimeout time.Duration
}

// NewSSHDialer 基于 SSH 私钥的默认通道实现
func NewSSHDialer(conf *viper.Viper) Dialer {
	dialTimeout := conf.GetDuration("migrate.ssh_dial_timeout")
	if dialTimeout <= 0 {
		dialTimeout = 30 * time.Second
	}
	return &sshDialer{
		keyPath:     conf.GetString("migrate.ssh_key_path"),
		dialTimeout: dialTimeout,
	}
}

func (d *sshDialer) Dial(ctx context.Context, ep Endpoint) (Channel, error) {
	c, err := sshchan.Dial(ctx, sshchan.Config{
		Host:        ep.Host,
		Port:        ep.Port,
		User:        ep.User,
		KeyPath:     d.keyPath,
		DialTimeout: d.dialTimeout,
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}
