package server

import (
	"context"
	"time"

	"pvefleet/internal/job"
	"pvefleet/pkg/log"

	"github.com/go-co-op/gocron"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type JobServer struct {
	log       *log.Logger
	conf      *viper.Viper
	scheduler *gocron.Scheduler

	nodeSyncJob *job.NodeSyncJob
}

func NewJobServer(
	log *log.Logger,
	conf *viper.Viper,
	nodeSyncJob *job.NodeSyncJob,
) *JobServer {
	return &JobServer{
		log:         log,
		conf:        conf,
		nodeSyncJob: nodeSyncJob,
	}
}

func (j *JobServer) Start(ctx context.Context) error {
	gocron.SetPanicHandler(func(jobName string, recoverData interface{}) {
		j.log.Error("job panic", zap.String("job", jobName), zap.Any("recover", recoverData))
	})

	j.scheduler = gocron.NewScheduler(time.UTC)

	interval := j.conf.GetDuration("job.node_sync_interval")
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	_, err := j.scheduler.Every(interval).Do(func() {
		j.nodeSyncJob.Run(ctx)
	})
	if err != nil {
		j.log.Error("register node sync job error", zap.Error(err))
	}

	j.scheduler.StartBlocking()
	return nil
}

func (j *JobServer) Stop(ctx context.Context) error {
	if j.scheduler != nil {
		j.scheduler.Stop()
	}
	j.log.Info("job server stop")
	return nil
}
