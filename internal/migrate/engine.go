package migrate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pvefleet/internal/model"
	"pvefleet/internal/repository"
	"pvefleet/pkg/log"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config 引擎可调参数，缺省值与 PVE 远程操作的量级匹配
type Config struct {
	PollInterval    time.Duration // 脱离操作的轮询间隔
	GlobalTimeout   time.Duration // 单个脱离操作的总时长上限
	StaleTimeout    time.Duration // 日志无变化上限
	QueryTimeout    time.Duration // 只读查询命令超时
	CommandTimeout  time.Duration // 普通变更命令超时（stop/destroy/set 等）
	FallbackDumpDir string        // 工作目录自动探测失败时的保底目录
}

func NewEngineConfig(conf *viper.Viper) Config {
	cfg := Config{
		PollInterval:    conf.GetDuration("migrate.poll_interval"),
		GlobalTimeout:   conf.GetDuration("migrate.global_timeout"),
		StaleTimeout:    conf.GetDuration("migrate.stale_timeout"),
		QueryTimeout:    conf.GetDuration("migrate.query_timeout"),
		CommandTimeout:  conf.GetDuration("migrate.command_timeout"),
		FallbackDumpDir: conf.GetString("migrate.fallback_dump_dir"),
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 3 * time.Second
	}
	if cfg.GlobalTimeout <= 0 {
		cfg.GlobalTimeout = 2 * time.Hour
	}
	if cfg.StaleTimeout <= 0 {
		cfg.StaleTimeout = 10 * time.Minute
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = 30 * time.Second
	}
	if cfg.CommandTimeout <= 0 {
		cfg.CommandTimeout = 60 * time.Second
	}
	if cfg.FallbackDumpDir == "" {
		cfg.FallbackDumpDir = "/var/lib/vz/dump"
	}
	return cfg
}

// GuestOptions 单个客户机的迁移选项，JSON 序列化后存在步骤记录里
type GuestOptions struct {
	TargetVMID     uint32            `json:"target_vmid,omitempty"`
	AutoVMID       bool              `json:"auto_vmid,omitempty"`
	Storage        string            `json:"storage,omitempty"`
	BridgeMap      map[string]string `json:"bridge_map,omitempty"`
	Online         bool              `json:"online,omitempty"`
	Bwlimit        int               `json:"bwlimit,omitempty"`
	WithLocalDisks bool              `json:"with_local_disks,omitempty"`
}

// guestContext 单个客户机迁移的工作集（派生状态，不落库）
type guestContext struct {
	vmid      uint32
	guestType string
	opts      GuestOptions

	source Channel
	target Channel

	sourceName string // 解析出的规范节点名
	targetName string

	targetStorage string // opts.Storage 与任务默认值合并后的结果
	targetBridge  string

	logf func(format string, args ...interface{})
}

// Engine 迁移编排引擎
// worker 只持有任务 id 和注入的仓储句柄，所有进度通过仓储落库
type Engine struct {
	cfg       Config
	dialer    Dialer
	taskRepo  repository.MigrationTaskRepository
	stepRepo  repository.MigrationStepRepository
	nodeRepo  repository.NodeRepository
	refresher InventoryRefresher
	logger    *log.Logger
	locks     *hostPairLocks
}

func NewEngine(
	conf *viper.Viper,
	logger *log.Logger,
	dialer Dialer,
	taskRepo repository.MigrationTaskRepository,
	stepRepo repository.MigrationStepRepository,
	nodeRepo repository.NodeRepository,
	refresher InventoryRefresher,
) *Engine {
	return &Engine{
		cfg:       NewEngineConfig(conf),
		dialer:    dialer,
		taskRepo:  taskRepo,
		stepRepo:  stepRepo,
		nodeRepo:  nodeRepo,
		refresher: refresher,
		logger:    logger,
		locks:     newHostPairLocks(),
	}
}

// RunTask 执行一个已落库的迁移任务，设计为独立后台单元（go e.RunTask(...)）
// 步骤严格按序执行；单个客户机失败不阻断后续客户机；
// 每个客户机开始前检查任务状态，外部取消在客户机边界生效
func (e *Engine) RunTask(ctx context.Context, taskID int64) {
	task, err := e.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		e.logger.Error("load migration task failed", zap.Int64("task_id", taskID), zap.Error(err))
		return
	}
	if task == nil {
		e.logger.Error("migration task not found", zap.Int64("task_id", taskID))
		return
	}
	if task.Status != model.MigrationTaskStatusPending {
		e.logger.Warn("migration task is not pending, refusing to run",
			zap.Int64("task_id", taskID), zap.String("status", task.Status))
		return
	}

	now := time.Now()
	if err := e.taskRepo.UpdateFields(ctx, taskID, map[string]interface{}{
		"status":     model.MigrationTaskStatusRunning,
		"start_time": &now,
	}); err != nil {
		e.logger.Error("mark migration task running failed", zap.Int64("task_id", taskID), zap.Error(err))
		return
	}

	logf := func(format string, args ...interface{}) {
		line := fmt.Sprintf(format, args...)
		e.logger.Info("migration", zap.Int64("task_id", taskID), zap.String("msg", line))
		stamp := time.Now().Format("2006-01-02 15:04:05")
		if err := e.taskRepo.AppendLog(ctx, taskID, fmt.Sprintf("[%s] %s\n", stamp, line)); err != nil {
			e.logger.Error("append task log failed", zap.Int64("task_id", taskID), zap.Error(err))
		}
	}

	steps, err := e.stepRepo.ListByTask(ctx, taskID)
	if err != nil {
		e.logger.Error("load migration steps failed", zap.Int64("task_id", taskID), zap.Error(err))
		e.finishTask(ctx, taskID, model.MigrationTaskStatusFailed)
		return
	}

	logf("migration task %d started: node %d -> node %d, %d steps",
		taskID, task.SourceNodeID, task.TargetNodeID, len(steps))

	var sourceNode, targetNode *model.Node
	failedGuests := 0
	cancelled := false

	for i, step := range steps {
		if cancelled {
			e.markStep(ctx, step.Id, model.MigrationStepStatusSkipped, "skipped: task cancelled", "")
			continue
		}

		switch step.Kind {
		case model.MigrationStepKindConfig:
			e.markStep(ctx, step.Id, model.MigrationStepStatusRunning, "resolving node records", "")
			sourceNode, targetNode, err = e.loadNodes(ctx, task)
			if err != nil {
				logf("prepare failed: %v", err)
				e.markStep(ctx, step.Id, model.MigrationStepStatusFailed, "", err.Error())
				// 准备失败无从继续，余下步骤全部跳过
				for _, rest := range steps[i+1:] {
					e.markStep(ctx, rest.Id, model.MigrationStepStatusSkipped, "skipped: prepare failed", "")
				}
				e.finishTask(ctx, taskID, model.MigrationTaskStatusFailed)
				logf("migration task %d failed during prepare", taskID)
				return
			}
			logf("prepare: source %s (%s), target %s (%s)",
				sourceNode.NodeName, sourceNode.SSHHost, targetNode.NodeName, targetNode.SSHHost)
			e.markStep(ctx, step.Id, model.MigrationStepStatusCompleted, "node records resolved", "")

		case model.MigrationStepKindVM, model.MigrationStepKindLxc:
			// 客户机边界：观察外部取消请求（进行中的客户机不受影响）
			status, serr := e.taskRepo.GetStatus(ctx, taskID)
			if serr == nil && status == model.MigrationTaskStatusCancelled {
				cancelled = true
				logf("cancellation observed, %s %d and later guests will not start", step.GuestType, step.VMID)
				e.markStep(ctx, step.Id, model.MigrationStepStatusSkipped, "skipped: task cancelled", "")
				continue
			}

			e.markStep(ctx, step.Id, model.MigrationStepStatusRunning, "migrating", "")
			if err := e.migrateGuest(ctx, task, step, sourceNode, targetNode, logf); err != nil {
				failedGuests++
				logf("guest %s %d migration failed: %v", step.GuestType, step.VMID, err)
				e.markStep(ctx, step.Id, model.MigrationStepStatusFailed, "", err.Error())
				continue // 尽力而为：下一个客户机照常执行
			}
			e.markStep(ctx, step.Id, model.MigrationStepStatusCompleted, "migrated", "")

		case model.MigrationStepKindFinalize:
			e.markStep(ctx, step.Id, model.MigrationStepStatusRunning, "refreshing inventory", "")
			e.refreshInventory(ctx, task, logf)
			e.markStep(ctx, step.Id, model.MigrationStepStatusCompleted, "inventory refreshed", "")
		}
	}

	final := model.MigrationTaskStatusCompleted
	if cancelled {
		final = model.MigrationTaskStatusCancelled
	} else if failedGuests > 0 {
		final = model.MigrationTaskStatusFailed
	}
	e.finishTask(ctx, taskID, final)
	logf("migration task %d finished with status %s (%d failed guests)", taskID, final, failedGuests)
}

// loadNodes 解析任务引用的节点记录
func (e *Engine) loadNodes(ctx context.Context, task *model.MigrationTask) (*model.Node, *model.Node, error) {
	source, err := e.nodeRepo.GetByID(ctx, task.SourceNodeID)
	if err != nil {
		return nil, nil, fmt.Errorf("load source node %d: %w", task.SourceNodeID, err)
	}
	if source == nil {
		return nil, nil, fmt.Errorf("source node %d does not exist", task.SourceNodeID)
	}
	target, err := e.nodeRepo.GetByID(ctx, task.TargetNodeID)
	if err != nil {
		return nil, nil, fmt.Errorf("load target node %d: %w", task.TargetNodeID, err)
	}
	if target == nil {
		return nil, nil, fmt.Errorf("target node %d does not exist", task.TargetNodeID)
	}
	if source.SSHHost == "" || target.SSHHost == "" {
		return nil, nil, fmt.Errorf("node records are missing SSH addresses")
	}
	return source, target, nil
}

// migrateGuest 迁移单个客户机：并发建立两条通道，探测集群归属后分发策略
func (e *Engine) migrateGuest(
	ctx context.Context,
	task *model.MigrationTask,
	step *model.MigrationStep,
	sourceNode, targetNode *model.Node,
	logf func(format string, args ...interface{}),
) (err error) {
	var opts GuestOptions
	if step.Options != "" {
		if uerr := json.Unmarshal([]byte(step.Options), &opts); uerr != nil {
			return fmt.Errorf("unreadable guest options: %w", uerr)
		}
	}

	// 主机对咨询锁：同一对主机上的流水线串行
	unlock := e.locks.Acquire(sourceNode.SSHHost, targetNode.SSHHost)
	defer unlock()

	type dialResult struct {
		ch  Channel
		err error
	}
	srcCh := make(chan dialResult, 1)
	tgtCh := make(chan dialResult, 1)
	go func() {
		ch, derr := e.dialer.Dial(ctx, endpointFor(sourceNode))
		srcCh <- dialResult{ch, derr}
	}()
	go func() {
		ch, derr := e.dialer.Dial(ctx, endpointFor(targetNode))
		tgtCh <- dialResult{ch, derr}
	}()
	src, tgt := <-srcCh, <-tgtCh

	// 两条连接都归本次流水线独占，无论结果如何都要关掉
	defer func() {
		if src.ch != nil {
			_ = src.ch.Close()
		}
		if tgt.ch != nil {
			_ = tgt.ch.Close()
		}
	}()
	if src.err != nil {
		return fmt.Errorf("connect source node %s: %w", sourceNode.SSHHost, src.err)
	}
	if tgt.err != nil {
		return fmt.Errorf("connect target node %s: %w", targetNode.SSHHost, tgt.err)
	}

	g := &guestContext{
		vmid:          step.VMID,
		guestType:     step.GuestType,
		opts:          opts,
		source:        src.ch,
		target:        tgt.ch,
		targetStorage: opts.Storage,
		targetBridge:  task.TargetBridge,
		logf:          logf,
	}
	if g.targetStorage == "" {
		g.targetStorage = task.TargetStorage
	}

	g.sourceName = ResolveNodeName(ctx, g.source, e.cfg.QueryTimeout)
	g.targetName = ResolveNodeName(ctx, g.target, e.cfg.QueryTimeout)
	logf("guest %s %d: resolved node names source=%s target=%s", g.guestType, g.vmid, g.sourceName, g.targetName)

	sourceCluster := ClusterName(ctx, g.source, e.cfg.QueryTimeout)
	targetCluster := ClusterName(ctx, g.target, e.cfg.QueryTimeout)

	if sourceCluster != "" && sourceCluster == targetCluster {
		logf("guest %s %d: both nodes belong to cluster %q, using native migration", g.guestType, g.vmid, sourceCluster)
		return e.runLocal(ctx, g)
	}
	logf("guest %s %d: nodes are in different clusters (source=%q target=%q), using dump/transfer/restore pipeline",
		g.guestType, g.vmid, sourceCluster, targetCluster)
	return e.runRemote(ctx, g)
}

// refreshInventory 源目标节点各刷一次资产，失败只记日志
func (e *Engine) refreshInventory(ctx context.Context, task *model.MigrationTask, logf func(string, ...interface{})) {
	if e.refresher == nil {
		return
	}
	for _, nodeID := range []int64{task.SourceNodeID, task.TargetNodeID} {
		if err := e.refresher.RefreshGuestInventory(ctx, nodeID); err != nil {
			logf("warning: inventory refresh of node %d failed: %v", nodeID, err)
		}
	}
}

func (e *Engine) markStep(ctx context.Context, stepID int64, status, detail, errMsg string) {
	if err := e.stepRepo.UpdateStatus(ctx, stepID, status, detail, errMsg); err != nil {
		e.logger.Error("update migration step failed", zap.Int64("step_id", stepID), zap.Error(err))
	}
}

// finishTask 写终态；守卫更新在仓储层，外部抢先置的 cancelled 不会被改写
func (e *Engine) finishTask(ctx context.Context, taskID int64, status string) {
	now := time.Now()
	if err := e.taskRepo.Finish(ctx, taskID, status, &now); err != nil {
		e.logger.Error("finish migration task failed", zap.Int64("task_id", taskID), zap.Error(err))
	}
}

func endpointFor(node *model.Node) Endpoint {
	ep := Endpoint{Host: node.SSHHost, Port: node.SSHPort, User: node.SSHUser}
	if ep.Port <= 0 {
		ep.Port = 22
	}
	if ep.User == "" {
		ep.User = "root"
	}
	return ep
}
