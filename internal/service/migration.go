package service

import (
	"context"
	"encoding/json"
	"time"

	v1 "pvefleet/api/v1"
	"pvefleet/internal/migrate"
	"pvefleet/internal/model"
	"pvefleet/internal/repository"

	"go.uber.org/zap"
)

type MigrationService interface {
	StartMigration(ctx context.Context, userId string, req *v1.StartMigrationRequest) (int64, error)
	GetTask(ctx context.Context, id int64) (*v1.MigrationTaskItem, error)
	ListTasks(ctx context.Context, req *v1.ListMigrationTasksRequest) (*v1.ListMigrationTasksResponseData, error)
	CancelTask(ctx context.Context, id int64) error
}

func NewMigrationService(
	service *Service,
	taskRepo repository.MigrationTaskRepository,
	stepRepo repository.MigrationStepRepository,
	nodeRepo repository.NodeRepository,
	engine *migrate.Engine,
) MigrationService {
	return &migrationService{
		taskRepo: taskRepo,
		stepRepo: stepRepo,
		nodeRepo: nodeRepo,
		engine:   engine,
		Service:  service,
	}
}

type migrationService struct {
	taskRepo repository.MigrationTaskRepository
	stepRepo repository.MigrationStepRepository
	nodeRepo repository.NodeRepository
	engine   *migrate.Engine
	*Service
}

// StartMigration 落库任务和步骤后立刻返回任务 id，执行交给后台 worker
// 步骤序列固定：config → 每客户机一步 → finalize
func (s *migrationService) StartMigration(ctx context.Context, userId string, req *v1.StartMigrationRequest) (int64, error) {
	if len(req.Guests) == 0 {
		return 0, v1.ErrNoGuestsGiven
	}

	source, err := s.nodeRepo.GetByID(ctx, req.SourceNodeID)
	if err != nil {
		return 0, err
	}
	if source == nil {
		return 0, v1.ErrNodeNotFound
	}
	target, err := s.nodeRepo.GetByID(ctx, req.TargetNodeID)
	if err != nil {
		return 0, err
	}
	if target == nil {
		return 0, v1.ErrNodeNotFound
	}

	task := &model.MigrationTask{
		SourceNodeID:  req.SourceNodeID,
		TargetNodeID:  req.TargetNodeID,
		TargetStorage: req.TargetStorage,
		TargetBridge:  req.TargetBridge,
		Status:        model.MigrationTaskStatusPending,
		Creator:       userId,
		CreateTime:    time.Now(),
	}

	steps := make([]*model.MigrationStep, 0, len(req.Guests)+2)
	steps = append(steps, &model.MigrationStep{
		Seq:    0,
		Kind:   model.MigrationStepKindConfig,
		Status: model.MigrationStepStatusPending,
	})
	for i, guest := range req.Guests {
		kind := model.MigrationStepKindVM
		if guest.GuestType == model.GuestTypeLxc {
			kind = model.MigrationStepKindLxc
		}
		opts := migrate.GuestOptions{
			TargetVMID:     guest.TargetVMID,
			AutoVMID:       guest.AutoVMID,
			Storage:        guest.Storage,
			BridgeMap:      guest.BridgeMap,
			Online:         guest.Online,
			Bwlimit:        req.Bwlimit,
			WithLocalDisks: req.WithLocalDisks,
		}
		encoded, merr := json.Marshal(opts)
		if merr != nil {
			return 0, merr
		}
		steps = append(steps, &model.MigrationStep{
			Seq:       i + 1,
			Kind:      kind,
			VMID:      guest.VMID,
			GuestType: guest.GuestType,
			Options:   string(encoded),
			Status:    model.MigrationStepStatusPending,
		})
	}
	steps = append(steps, &model.MigrationStep{
		Seq:    len(req.Guests) + 1,
		Kind:   model.MigrationStepKindFinalize,
		Status: model.MigrationStepStatusPending,
	})

	if err := s.taskRepo.CreateWithSteps(ctx, task, steps); err != nil {
		return 0, err
	}

	s.logger.WithContext(ctx).Info("migration task created",
		zap.Int64("task_id", task.Id),
		zap.Int64("source_node", req.SourceNodeID),
		zap.Int64("target_node", req.TargetNodeID),
		zap.Int("guests", len(req.Guests)))

	// 请求上下文随响应结束，worker 用独立的背景上下文
	go s.engine.RunTask(context.Background(), task.Id)

	return task.Id, nil
}

func (s *migrationService) GetTask(ctx context.Context, id int64) (*v1.MigrationTaskItem, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, v1.ErrTaskNotFound
	}

	steps, err := s.stepRepo.ListByTask(ctx, id)
	if err != nil {
		return nil, err
	}

	item := s.taskToItem(ctx, task, true)
	item.Steps = make([]v1.MigrationStepItem, 0, len(steps))
	for _, step := range steps {
		item.Steps = append(item.Steps, v1.MigrationStepItem{
			Id:           step.Id,
			Seq:          step.Seq,
			Kind:         step.Kind,
			VMID:         step.VMID,
			GuestType:    step.GuestType,
			Status:       step.Status,
			Detail:       step.Detail,
			ErrorMessage: step.ErrorMessage,
		})
	}
	return &item, nil
}

func (s *migrationService) ListTasks(ctx context.Context, req *v1.ListMigrationTasksRequest) (*v1.ListMigrationTasksResponseData, error) {
	page := req.Page
	if page <= 0 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	tasks, total, err := s.taskRepo.ListWithPagination(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}

	items := make([]v1.MigrationTaskItem, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, s.taskToItem(ctx, task, false))
	}
	return &v1.ListMigrationTasksResponseData{Total: total, Items: items}, nil
}

// CancelTask 协作式取消：只置状态，正在迁移的客户机不被打断
func (s *migrationService) CancelTask(ctx context.Context, id int64) error {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if task == nil {
		return v1.ErrTaskNotFound
	}

	ok, err := s.taskRepo.Cancel(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return v1.ErrTaskNotCancelable
	}
	return nil
}

func (s *migrationService) taskToItem(ctx context.Context, task *model.MigrationTask, withLog bool) v1.MigrationTaskItem {
	item := v1.MigrationTaskItem{
		Id:            task.Id,
		SourceNodeID:  task.SourceNodeID,
		TargetNodeID:  task.TargetNodeID,
		TargetStorage: task.TargetStorage,
		TargetBridge:  task.TargetBridge,
		Status:        task.Status,
		CreateTime:    task.CreateTime,
		StartTime:     task.StartTime,
		EndTime:       task.EndTime,
	}
	if withLog {
		item.Log = task.Log
	}
	nodes, err := s.nodeRepo.GetByIDs(ctx, []int64{task.SourceNodeID, task.TargetNodeID})
	if err != nil {
		s.logger.WithContext(ctx).Warn("resolve node names failed", zap.Int64("task_id", task.Id), zap.Error(err))
		return item
	}
	if node, ok := nodes[task.SourceNodeID]; ok {
		item.SourceNodeName = node.NodeName
	}
	if node, ok := nodes[task.TargetNodeID]; ok {
		item.TargetNodeName = node.NodeName
	}
	return item
}
