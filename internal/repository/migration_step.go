package repository

import (
	"context"

	"pvefleet/internal/model"
)

type MigrationStepRepository interface {
	ListByTask(ctx context.Context, taskID int64) ([]*model.MigrationStep, error)
	// UpdateStatus 步骤状态只会 pending→running→{completed|failed|skipped} 单向推进
	UpdateStatus(ctx context.Context, id int64, status, detail, errorMessage string) error
}

func NewMigrationStepRepository(r *Repository) MigrationStepRepository {
	return &migrationStepRepository{Repository: r}
}

type migrationStepRepository struct {
	*Repository
}

func (r *migrationStepRepository) ListByTask(ctx context.Context, taskID int64) ([]*model.MigrationStep, error) {
	var steps []*model.MigrationStep
	if err := r.DB(ctx).Where("task_id = ?", taskID).Order("seq").Find(&steps).Error; err != nil {
		return nil, err
	}
	return steps, nil
}

func (r *migrationStepRepository) UpdateStatus(ctx context.Context, id int64, status, detail, errorMessage string) error {
	fields := map[string]interface{}{
		"status": status,
	}
	if detail != "" {
		fields["detail"] = detail
	}
	if errorMessage != "" {
		fields["error_message"] = errorMessage
	}
	return r.DB(ctx).Model(&model.MigrationStep{}).Where("id = ?", id).Updates(fields).Error
}
