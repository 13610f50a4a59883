package migrate

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"pvefleet/internal/model"
	"pvefleet/pkg/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeTaskRepo 内存任务仓储
// cancelAfterStatusCalls>0 时从第 N 次 GetStatus 起返回 cancelled，模拟外部取消
type fakeTaskRepo struct {
	mu                     sync.Mutex
	task                   *model.MigrationTask
	updates                []map[string]interface{}
	logs                   []string
	statusCalls            int
	cancelAfterStatusCalls int
	// cancelBeforeFinish 在终态写入落库前把任务置为 cancelled，模拟取消恰好抢在终态前
	cancelBeforeFinish bool
}

func (r *fakeTaskRepo) CreateWithSteps(ctx context.Context, task *model.MigrationTask, steps []*model.MigrationStep) error {
	return nil
}

func (r *fakeTaskRepo) GetByID(ctx context.Context, id int64) (*model.MigrationTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.task == nil || r.task.Id != id {
		return nil, nil
	}
	return r.task, nil
}

func (r *fakeTaskRepo) GetStatus(ctx context.Context, id int64) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statusCalls++
	if r.cancelAfterStatusCalls > 0 && r.statusCalls >= r.cancelAfterStatusCalls {
		return model.MigrationTaskStatusCancelled, nil
	}
	return r.task.Status, nil
}

func (r *fakeTaskRepo) ListWithPagination(ctx context.Context, page, pageSize int) ([]*model.MigrationTask, int64, error) {
	return nil, 0, nil
}

func (r *fakeTaskRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, fields)
	if s, ok := fields["status"].(string); ok {
		r.task.Status = s
	}
	if t, ok := fields["start_time"].(*time.Time); ok {
		r.task.StartTime = t
	}
	if t, ok := fields["end_time"].(*time.Time); ok {
		r.task.EndTime = t
	}
	return nil
}

// Finish 复刻仓储的守卫语义：已取消的行状态不回退，结束时间始终补写
func (r *fakeTaskRepo) Finish(ctx context.Context, id int64, status string, endTime *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancelBeforeFinish {
		r.task.Status = model.MigrationTaskStatusCancelled
	}
	cancelled := r.task.Status == model.MigrationTaskStatusCancelled ||
		(r.cancelAfterStatusCalls > 0 && r.statusCalls >= r.cancelAfterStatusCalls)
	fields := map[string]interface{}{"end_time": endTime}
	if !cancelled {
		fields["status"] = status
		r.task.Status = status
	}
	r.updates = append(r.updates, fields)
	r.task.EndTime = endTime
	return nil
}

func (r *fakeTaskRepo) AppendLog(ctx context.Context, id int64, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, text)
	return nil
}

func (r *fakeTaskRepo) Cancel(ctx context.Context, id int64) (bool, error) {
	return false, nil
}

func (r *fakeTaskRepo) lastUpdate() map[string]interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.updates) == 0 {
		return nil
	}
	return r.updates[len(r.updates)-1]
}

type fakeStepRepo struct {
	mu    sync.Mutex
	steps []*model.MigrationStep
}

func (r *fakeStepRepo) ListByTask(ctx context.Context, taskID int64) ([]*model.MigrationStep, error) {
	return r.steps, nil
}

func (r *fakeStepRepo) UpdateStatus(ctx context.Context, id int64, status, detail, errorMessage string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.steps {
		if s.Id == id {
			s.Status = status
			s.Detail = detail
			s.ErrorMessage = errorMessage
		}
	}
	return nil
}

type fakeNodeRepo struct {
	nodes map[int64]*model.Node
}

func (r *fakeNodeRepo) Create(ctx context.Context, node *model.Node) error { return nil }
func (r *fakeNodeRepo) Update(ctx context.Context, node *model.Node) error { return nil }
func (r *fakeNodeRepo) Delete(ctx context.Context, id int64) error         { return nil }
func (r *fakeNodeRepo) GetByID(ctx context.Context, id int64) (*model.Node, error) {
	return r.nodes[id], nil
}
func (r *fakeNodeRepo) GetByNodeName(ctx context.Context, nodeName string) (*model.Node, error) {
	return nil, nil
}
func (r *fakeNodeRepo) List(ctx context.Context) ([]*model.Node, error) { return nil, nil }
func (r *fakeNodeRepo) GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.Node, error) {
	return r.nodes, nil
}
func (r *fakeNodeRepo) UpdateStatus(ctx context.Context, id int64, status string) error { return nil }
func (r *fakeNodeRepo) UpdateSyncResult(ctx context.Context, id int64, nodeName, clusterName, status string) error {
	return nil
}

type fakeRefresher struct {
	mu      sync.Mutex
	nodeIDs []int64
}

func (f *fakeRefresher) RefreshGuestInventory(ctx context.Context, nodeID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nodeIDs = append(f.nodeIDs, nodeID)
	return nil
}

// clusterChannel 同集群节点的标准脚本：主机名解析 + 集群成员 + 集群名
func clusterChannel(host, nodeName string) *fakeChannel {
	return newFakeChannel(host).
		on("hostname", nodeName+"\n").
		on("pvesh get /nodes --output-format json", `[{"node":"pve1"},{"node":"pve2"}]`).
		on("pvesh get /cluster/status", `[{"type":"cluster","name":"prod"},{"type":"node","name":"`+nodeName+`","online":1}]`)
}

type engineFixture struct {
	engine    *Engine
	taskRepo  *fakeTaskRepo
	stepRepo  *fakeStepRepo
	refresher *fakeRefresher
	source    *fakeChannel
	target    *fakeChannel
}

func newEngineFixture(vmids ...uint32) *engineFixture {
	source := clusterChannel("src1", "pve1")
	target := clusterChannel("tgt1", "pve2")

	taskRepo := &fakeTaskRepo{task: &model.MigrationTask{
		Id:           7,
		SourceNodeID: 1,
		TargetNodeID: 2,
		Status:       model.MigrationTaskStatusPending,
	}}

	steps := []*model.MigrationStep{
		{Id: 10, TaskID: 7, Seq: 0, Kind: model.MigrationStepKindConfig, Status: model.MigrationStepStatusPending},
	}
	for i, vmid := range vmids {
		steps = append(steps, &model.MigrationStep{
			Id: int64(11 + i), TaskID: 7, Seq: 1 + i,
			Kind: model.MigrationStepKindVM, VMID: vmid, GuestType: model.GuestTypeQemu,
			Status: model.MigrationStepStatusPending,
		})
	}
	steps = append(steps, &model.MigrationStep{
		Id: int64(11 + len(vmids)), TaskID: 7, Seq: 1 + len(vmids),
		Kind: model.MigrationStepKindFinalize, Status: model.MigrationStepStatusPending,
	})
	stepRepo := &fakeStepRepo{steps: steps}

	nodeRepo := &fakeNodeRepo{nodes: map[int64]*model.Node{
		1: {Id: 1, NodeName: "pve1", SSHHost: "src1", SSHPort: 22, SSHUser: "root"},
		2: {Id: 2, NodeName: "pve2", SSHHost: "tgt1", SSHPort: 22, SSHUser: "root"},
	}}
	refresher := &fakeRefresher{}

	return &engineFixture{
		engine: &Engine{
			cfg:       testConfig(),
			dialer:    &fakeDialer{channels: map[string]*fakeChannel{"src1": source, "tgt1": target}},
			taskRepo:  taskRepo,
			stepRepo:  stepRepo,
			nodeRepo:  nodeRepo,
			refresher: refresher,
			logger:    &log.Logger{Logger: zap.NewNop()},
			locks:     newHostPairLocks(),
		},
		taskRepo:  taskRepo,
		stepRepo:  stepRepo,
		refresher: refresher,
		source:    source,
		target:    target,
	}
}

// scriptNativeSuccess 让指定客户机的原生迁移任务一次性成功
func scriptNativeSuccess(source *fakeChannel, vmid uint32) {
	source.on(fmt.Sprintf("/qemu/%d/migrate", vmid), testUPID+"\n")
	source.on("tasks/"+testUPID+"/status", `{"status":"stopped","exitstatus":"OK"}`)
}

func TestRunTask_AllGuestsSucceed(t *testing.T) {
	f := newEngineFixture(100, 101)
	scriptNativeSuccess(f.source, 100)
	scriptNativeSuccess(f.source, 101)

	f.engine.RunTask(context.Background(), 7)

	assert.Equal(t, model.MigrationTaskStatusCompleted, f.taskRepo.task.Status)
	require.NotNil(t, f.taskRepo.task.StartTime)
	require.NotNil(t, f.taskRepo.task.EndTime)

	for _, step := range f.stepRepo.steps {
		assert.Equal(t, model.MigrationStepStatusCompleted, step.Status, "step %d (%s)", step.Id, step.Kind)
	}

	// finalize 阶段源、目标节点各刷新一次资产
	assert.Equal(t, []int64{1, 2}, f.refresher.nodeIDs)

	// 任务日志落库且记录了开始与结束
	joined := ""
	for _, l := range f.taskRepo.logs {
		joined += l
	}
	assert.Contains(t, joined, "migration task 7 started")
	assert.Contains(t, joined, "finished with status completed")
}

func TestRunTask_BestEffortAcrossGuests(t *testing.T) {
	f := newEngineFixture(100, 101)
	// 100 提交后拿不到 UPID，101 正常
	f.source.on("/qemu/100/migrate", "some unrelated noise\n")
	scriptNativeSuccess(f.source, 101)

	f.engine.RunTask(context.Background(), 7)

	// 单个客户机失败不阻断后续客户机，任务终态为 failed
	assert.Equal(t, model.MigrationTaskStatusFailed, f.taskRepo.task.Status)

	var step100, step101 *model.MigrationStep
	for _, s := range f.stepRepo.steps {
		switch s.VMID {
		case 100:
			step100 = s
		case 101:
			step101 = s
		}
	}
	require.NotNil(t, step100)
	require.NotNil(t, step101)
	assert.Equal(t, model.MigrationStepStatusFailed, step100.Status)
	assert.Contains(t, step100.ErrorMessage, "did not return a UPID")
	assert.Equal(t, model.MigrationStepStatusCompleted, step101.Status)

	// 101 的迁移确实提交过
	assert.True(t, f.source.sawCommand("/qemu/101/migrate"))
	// finalize 仍然执行
	assert.Len(t, f.refresher.nodeIDs, 2)
}

func TestRunTask_CancellationAtGuestBoundary(t *testing.T) {
	f := newEngineFixture(100, 101)
	scriptNativeSuccess(f.source, 100)
	// 第一个客户机边界检查放行，之后的检查都报告已取消
	f.taskRepo.cancelAfterStatusCalls = 2

	f.engine.RunTask(context.Background(), 7)

	// 进行中的客户机不受影响，后续客户机与 finalize 全部跳过
	var step100, step101 *model.MigrationStep
	for _, s := range f.stepRepo.steps {
		switch s.VMID {
		case 100:
			step100 = s
		case 101:
			step101 = s
		}
	}
	assert.Equal(t, model.MigrationStepStatusCompleted, step100.Status)
	assert.Equal(t, model.MigrationStepStatusSkipped, step101.Status)
	assert.Equal(t, "skipped: task cancelled", step101.Detail)
	assert.False(t, f.source.sawCommand("/qemu/101/migrate"))

	// 终态写入只补 end_time，不把 cancelled 改写成别的状态
	last := f.taskRepo.lastUpdate()
	require.NotNil(t, last)
	_, hasStatus := last["status"]
	assert.False(t, hasStatus)
	_, hasEnd := last["end_time"]
	assert.True(t, hasEnd)
}

func TestRunTask_CancelConcurrentWithTerminalWrite(t *testing.T) {
	f := newEngineFixture(100)
	scriptNativeSuccess(f.source, 100)
	// 所有边界检查都看到 running，取消在终态落库前最后一刻到达
	f.taskRepo.cancelBeforeFinish = true

	f.engine.RunTask(context.Background(), 7)

	// 客户机本身迁移成功，但任务状态保持 cancelled，不被 completed 覆盖
	assert.Equal(t, model.MigrationTaskStatusCancelled, f.taskRepo.task.Status)
	require.NotNil(t, f.taskRepo.task.EndTime)
	last := f.taskRepo.lastUpdate()
	require.NotNil(t, last)
	_, hasStatus := last["status"]
	assert.False(t, hasStatus)
}

func TestRunTask_PrepareFailureSkipsEverything(t *testing.T) {
	f := newEngineFixture(100)
	// 源节点记录不存在
	f.engine.nodeRepo = &fakeNodeRepo{nodes: map[int64]*model.Node{
		2: {Id: 2, NodeName: "pve2", SSHHost: "tgt1"},
	}}

	f.engine.RunTask(context.Background(), 7)

	assert.Equal(t, model.MigrationTaskStatusFailed, f.taskRepo.task.Status)
	assert.Equal(t, model.MigrationStepStatusFailed, f.stepRepo.steps[0].Status)
	assert.Contains(t, f.stepRepo.steps[0].ErrorMessage, "source node 1 does not exist")
	for _, s := range f.stepRepo.steps[1:] {
		assert.Equal(t, model.MigrationStepStatusSkipped, s.Status)
		assert.Equal(t, "skipped: prepare failed", s.Detail)
	}
	// 没有任何 SSH 活动
	assert.Empty(t, f.source.commands())
	assert.Empty(t, f.target.commands())
}

func TestRunTask_RefusesNonPendingTask(t *testing.T) {
	f := newEngineFixture(100)
	f.taskRepo.task.Status = model.MigrationTaskStatusCompleted

	f.engine.RunTask(context.Background(), 7)

	assert.Empty(t, f.taskRepo.updates)
	assert.Empty(t, f.source.commands())
}
