package model

import (
	"time"
)

// Guest 节点上的客户机（VM 或容器），由资产同步任务从 PVE API 拉取
type Guest struct {
	Id         int64  `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	NodeID     int64  `json:"node_id" gorm:"column:node_id;index"`
	VMID       uint32 `json:"vmid" gorm:"column:vmid;index"`
	GuestName  string `json:"guest_name" gorm:"column:guest_name;size:255"`
	GuestType  string `json:"guest_type" gorm:"column:guest_type;size:10"` // qemu / lxc
	Status     string `json:"status" gorm:"column:status;size:50"`
	CPUNum     int    `json:"cpu_num" gorm:"column:cpu_num"`
	MemorySize int64  `json:"memory_size" gorm:"column:memory_size"` // 字节
	DiskSize   int64  `json:"disk_size" gorm:"column:disk_size"`     // 字节

	CreateTime   time.Time `json:"create_time" gorm:"column:gmt_create;autoCreateTime"`
	UpdateTime   time.Time `json:"update_time" gorm:"column:gmt_modified;autoUpdateTime"`
	LastSyncTime time.Time `json:"last_sync_time" gorm:"column:last_sync_time"`

	// 仅用于查询时填充，不落库
	NodeName string `json:"node_name,omitempty" gorm:"-"`
}

func (Guest) TableName() string {
	return "guest"
}

// 客户机类型常量
const (
	GuestTypeQemu = "qemu"
	GuestTypeLxc  = "lxc"
)
