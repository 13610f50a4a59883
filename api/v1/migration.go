package v1

import "time"

// Migration 相关 API 定义

// MigrationGuestSpec 单个客户机的迁移参数
type MigrationGuestSpec struct {
	VMID       uint32            `json:"vmid" binding:"required" example:"100"`   // 源 VMID
	GuestType  string            `json:"guest_type" binding:"required" example:"qemu"` // qemu 或 lxc
	TargetVMID uint32            `json:"target_vmid,omitempty" example:"200"`     // 目标 VMID（0 表示沿用源 VMID 或自动分配）
	AutoVMID   bool              `json:"auto_vmid,omitempty" example:"true"`      // 是否在目标集群自动分配 VMID
	Storage    string            `json:"storage,omitempty" example:"local-lvm"`   // 目标存储覆盖（为空用任务默认值）
	BridgeMap  map[string]string `json:"bridge_map,omitempty"`                    // 网卡到网桥的映射，如 {"net0":"vmbr1"}
	Online     bool              `json:"online,omitempty" example:"false"`        // 在线迁移（跨集群时为 snapshot dump 模式，默认离线）
}

// StartMigrationRequest 发起迁移任务请求
type StartMigrationRequest struct {
	SourceNodeID  int64                `json:"source_node_id" binding:"required" example:"1"`
	TargetNodeID  int64                `json:"target_node_id" binding:"required" example:"2"`
	Guests        []MigrationGuestSpec `json:"guests" binding:"required"`
	TargetStorage string               `json:"target_storage,omitempty" example:"local-lvm"` // 任务级默认目标存储
	TargetBridge  string               `json:"target_bridge,omitempty" example:"vmbr0"`      // 任务级默认目标网桥
	Bwlimit       int                  `json:"bwlimit,omitempty" example:"1000"`             // 带宽限制（KiB/s，仅同集群迁移生效）
	WithLocalDisks bool                `json:"with_local_disks,omitempty" example:"true"`    // 是否迁移本地磁盘（仅同集群迁移生效）
}

// StartMigrationResponseData 发起迁移任务响应数据
type StartMigrationResponseData struct {
	TaskID int64 `json:"task_id"`
}

// StartMigrationResponse 发起迁移任务响应
type StartMigrationResponse struct {
	Response
	Data StartMigrationResponseData `json:"data"`
}

// MigrationStepItem 迁移步骤
type MigrationStepItem struct {
	Id           int64  `json:"id"`
	Seq          int    `json:"seq"`
	Kind         string `json:"kind"` // config / vm / lxc / finalize
	VMID         uint32 `json:"vmid,omitempty"`
	GuestType    string `json:"guest_type,omitempty"`
	Status       string `json:"status"`
	Detail       string `json:"detail,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// MigrationTaskItem 迁移任务
type MigrationTaskItem struct {
	Id             int64               `json:"id"`
	SourceNodeID   int64               `json:"source_node_id"`
	TargetNodeID   int64               `json:"target_node_id"`
	SourceNodeName string              `json:"source_node_name,omitempty"`
	TargetNodeName string              `json:"target_node_name,omitempty"`
	TargetStorage  string              `json:"target_storage,omitempty"`
	TargetBridge   string              `json:"target_bridge,omitempty"`
	Status         string              `json:"status"`
	Steps          []MigrationStepItem `json:"steps,omitempty"`
	Log            string              `json:"log,omitempty"`
	CreateTime     time.Time           `json:"create_time"`
	StartTime      *time.Time          `json:"start_time,omitempty"`
	EndTime        *time.Time          `json:"end_time,omitempty"`
}

// GetMigrationTaskResponse 迁移任务详情响应
type GetMigrationTaskResponse struct {
	Response
	Data MigrationTaskItem `json:"data"`
}

// ListMigrationTasksRequest 迁移任务列表请求
type ListMigrationTasksRequest struct {
	Page     int `form:"page" example:"1"`
	PageSize int `form:"page_size" example:"20"`
}

// ListMigrationTasksResponseData 迁移任务列表响应数据
type ListMigrationTasksResponseData struct {
	Total int64               `json:"total"`
	Items []MigrationTaskItem `json:"items"`
}

// ListMigrationTasksResponse 迁移任务列表响应
type ListMigrationTasksResponse struct {
	Response
	Data ListMigrationTasksResponseData `json:"data"`
}

// CancelMigrationTaskResponse 取消迁移任务响应
type CancelMigrationTaskResponse struct {
	Response
}
