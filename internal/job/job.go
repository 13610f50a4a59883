package job

import (
	"pvefleet/internal/repository"
	"pvefleet/pkg/log"
)

type Job struct {
	logger *log.Logger
	tm     repository.Transaction
}

func NewJob(
	tm repository.Transaction,
	logger *log.Logger,
) *Job {
	return &Job{
		logger: logger,
		tm:     tm,
	}
}
