package job

import (
	"context"

	"pvefleet/internal/service"

	"go.uber.org/zap"
)

// NodeSyncJob 周期性同步所有节点的客户机清单
type NodeSyncJob struct {
	*Job
	nodeService service.NodeService
}

func NewNodeSyncJob(job *Job, nodeService service.NodeService) *NodeSyncJob {
	return &NodeSyncJob{
		Job:         job,
		nodeService: nodeService,
	}
}

func (j *NodeSyncJob) Run(ctx context.Context) {
	if err := j.nodeService.SyncAllNodes(ctx); err != nil {
		j.logger.Error("node sync job failed", zap.Error(err))
		return
	}
	j.logger.Info("node sync job finished")
}
