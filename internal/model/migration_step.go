package model

import "time"

// MigrationStep 迁移任务中的单个步骤
// 每个客户机对应一个 vm/lxc 步骤，首尾各有一个 config/finalize 记账步骤
// 步骤状态单向推进 pending→running→{completed|failed}，单个客户机失败不阻断后续步骤
type MigrationStep struct {
	Id     int64 `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	TaskID int64 `json:"task_id" gorm:"column:task_id;not null;index"`
	Seq    int   `json:"seq" gorm:"column:seq;not null"` // 严格按 Seq 升序执行

	Kind      string `json:"kind" gorm:"column:kind;size:20;not null"` // config / vm / lxc / finalize
	VMID      uint32 `json:"vmid" gorm:"column:vmid"`
	GuestType string `json:"guest_type" gorm:"column:guest_type;size:10"`

	// 每客户机选项（JSON 序列化存储）
	Options string `json:"options" gorm:"column:options;type:text"`

	Status       string `json:"status" gorm:"column:status;size:50;not null;default:'pending'"`
	Detail       string `json:"detail" gorm:"column:detail;size:500"`
	ErrorMessage string `json:"error_message" gorm:"column:error_message;type:text"`

	CreateTime time.Time `json:"create_time" gorm:"column:gmt_create;autoCreateTime"`
	UpdateTime time.Time `json:"update_time" gorm:"column:gmt_modified;autoUpdateTime"`
}

func (MigrationStep) TableName() string {
	return "migration_step"
}

// 步骤类型常量
const (
	MigrationStepKindConfig   = "config"
	MigrationStepKindVM       = "vm"
	MigrationStepKindLxc      = "lxc"
	MigrationStepKindFinalize = "finalize"
)

// 步骤状态常量
const (
	MigrationStepStatusPending   = "pending"
	MigrationStepStatusRunning   = "running"
	MigrationStepStatusCompleted = "completed"
	MigrationStepStatusFailed    = "failed"
	MigrationStepStatusSkipped   = "skipped"
)
