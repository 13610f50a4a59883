package model

import "time"

// MigrationTask 一次迁移任务（把 N 个客户机从源节点搬到目标节点）
// 任务记录创建后立即落库，后台 worker 是唯一的写方；终态后不再变更
type MigrationTask struct {
	Id            int64  `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	SourceNodeID  int64  `json:"source_node_id" gorm:"column:source_node_id;not null;index"`
	TargetNodeID  int64  `json:"target_node_id" gorm:"column:target_node_id;not null;index"`
	TargetStorage string `json:"target_storage" gorm:"column:target_storage;size:100"` // 任务级默认目标存储
	TargetBridge  string `json:"target_bridge" gorm:"column:target_bridge;size:100"`   // 任务级默认目标网桥
	Status        string `json:"status" gorm:"column:status;size:50;not null;default:'pending';index"`
	Log           string `json:"log" gorm:"column:log;type:text"` // 累计日志，只追加

	Creator    string     `json:"creator" gorm:"column:creator;size:100"`
	CreateTime time.Time  `json:"create_time" gorm:"column:gmt_create;autoCreateTime"`
	UpdateTime time.Time  `json:"update_time" gorm:"column:gmt_modified;autoUpdateTime"`
	StartTime  *time.Time `json:"start_time" gorm:"column:start_time"`
	EndTime    *time.Time `json:"end_time" gorm:"column:end_time"`
}

func (MigrationTask) TableName() string {
	return "migration_task"
}

// 任务状态常量
const (
	MigrationTaskStatusPending   = "pending"
	MigrationTaskStatusRunning   = "running"
	MigrationTaskStatusCompleted = "completed"
	MigrationTaskStatusFailed    = "failed"
	MigrationTaskStatusCancelled = "cancelled"
)

// IsTerminal 任务是否已到终态（终态后记录不可变）
func IsTerminalTaskStatus(status string) bool {
	switch status {
	case MigrationTaskStatusCompleted, MigrationTaskStatusFailed, MigrationTaskStatusCancelled:
		return true
	}
	return false
}
