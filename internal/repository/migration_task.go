package repository

import (
	"context"
	"errors"
	"time"

	"pvefleet/internal/model"

	"gorm.io/gorm"
)

type MigrationTaskRepository interface {
	// CreateWithSteps 同一事务内创建任务及其全部步骤，保证调用方拿到 task id 时步骤已就位
	CreateWithSteps(ctx context.Context, task *model.MigrationTask, steps []*model.MigrationStep) error
	GetByID(ctx context.Context, id int64) (*model.MigrationTask, error)
	GetStatus(ctx context.Context, id int64) (string, error)
	ListWithPagination(ctx context.Context, page, pageSize int) ([]*model.MigrationTask, int64, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	// Finish 写终态；status 是条件更新，已取消的任务不回退，end_time 始终补写
	Finish(ctx context.Context, id int64, status string, endTime *time.Time) error
	AppendLog(ctx context.Context, id int64, text string) error
	// Cancel 仅当任务处于 pending/running 时置为 cancelled，返回是否生效
	Cancel(ctx context.Context, id int64) (bool, error)
}

func NewMigrationTaskRepository(r *Repository, tm Transaction) MigrationTaskRepository {
	return &migrationTaskRepository{Repository: r, tm: tm}
}

type migrationTaskRepository struct {
	*Repository
	tm Transaction
}

func (r *migrationTaskRepository) CreateWithSteps(ctx context.Context, task *model.MigrationTask, steps []*model.MigrationStep) error {
	return r.tm.Transaction(ctx, func(ctx context.Context) error {
		if err := r.DB(ctx).Create(task).Error; err != nil {
			return err
		}
		for _, step := range steps {
			step.TaskID = task.Id
		}
		if len(steps) > 0 {
			if err := r.DB(ctx).Create(steps).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *migrationTaskRepository) GetByID(ctx context.Context, id int64) (*model.MigrationTask, error) {
	var task model.MigrationTask
	if err := r.DB(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}

// GetStatus 只读当前状态，worker 在推进到下一个客户机前用它观察外部取消请求
func (r *migrationTaskRepository) GetStatus(ctx context.Context, id int64) (string, error) {
	var task model.MigrationTask
	if err := r.DB(ctx).Select("status").Where("id = ?", id).First(&task).Error; err != nil {
		return "", err
	}
	return task.Status, nil
}

func (r *migrationTaskRepository) ListWithPagination(ctx context.Context, page, pageSize int) ([]*model.MigrationTask, int64, error) {
	var tasks []*model.MigrationTask
	var total int64

	query := r.DB(ctx).Model(&model.MigrationTask{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("id DESC").Offset(offset).Limit(pageSize).Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

func (r *migrationTaskRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.DB(ctx).Model(&model.MigrationTask{}).Where("id = ?", id).Updates(fields).Error
}

// Finish 单条守卫更新写终态，取消与完成并发时取消胜出
// 状态写入没生效说明任务已被取消，此时只补写结束时间
func (r *migrationTaskRepository) Finish(ctx context.Context, id int64, status string, endTime *time.Time) error {
	result := r.DB(ctx).Model(&model.MigrationTask{}).
		Where("id = ? AND status <> ?", id, model.MigrationTaskStatusCancelled).
		Updates(map[string]interface{}{"status": status, "end_time": endTime})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.DB(ctx).Model(&model.MigrationTask{}).Where("id = ?", id).
			Update("end_time", endTime).Error
	}
	return nil
}

// AppendLog 追加任务日志
// worker 是唯一的日志写方，读-改-写不会丢更新
func (r *migrationTaskRepository) AppendLog(ctx context.Context, id int64, text string) error {
	var task model.MigrationTask
	if err := r.DB(ctx).Select("id", "log").Where("id = ?", id).First(&task).Error; err != nil {
		return err
	}
	return r.DB(ctx).Model(&model.MigrationTask{}).Where("id = ?", id).
		Update("log", task.Log+text).Error
}

// Cancel 只改状态，不写结束时间
// 取消是协作式的：worker 在客户机边界观察到 cancelled 后停止推进并补写 end_time
func (r *migrationTaskRepository) Cancel(ctx context.Context, id int64) (bool, error) {
	result := r.DB(ctx).Model(&model.MigrationTask{}).
		Where("id = ? AND status IN ?", id, []string{model.MigrationTaskStatusPending, model.MigrationTaskStatusRunning}).
		Update("status", model.MigrationTaskStatusCancelled)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
