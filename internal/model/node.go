package model

import (
	"time"
)

// Node 纳管的 PVE 节点（可能属于某个集群，也可能是独立节点）
type Node struct {
	Id          int64  `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	NodeName    string `json:"node_name" gorm:"column:node_name;size:100;uniqueIndex"`
	SSHHost     string `json:"ssh_host" gorm:"column:ssh_host;size:255;not null"`
	SSHPort     int    `json:"ssh_port" gorm:"column:ssh_port;default:22"`
	SSHUser     string `json:"ssh_user" gorm:"column:ssh_user;size:100;default:'root'"`
	ApiUrl      string `json:"api_url" gorm:"column:api_url;size:255"`
	ApiTokenId  string `json:"api_token_id" gorm:"column:api_token_id;size:255"`
	ApiToken    string `json:"-" gorm:"column:api_token;size:255"`
	ClusterName string `json:"cluster_name" gorm:"column:cluster_name;size:100"` // 所属集群名缓存（独立节点为空）
	Status      string `json:"status" gorm:"column:status;size:50"`
	Description string `json:"descriptions" gorm:"column:descriptions"`
	Creator     string `json:"creator" gorm:"column:creator;size:100"`
	Modifier    string `json:"modifier" gorm:"column:modifier;size:100"`

	CreateTime   time.Time `json:"create_time" gorm:"column:gmt_create;autoCreateTime"`
	UpdateTime   time.Time `json:"update_time" gorm:"column:gmt_modified;autoUpdateTime"`
	LastSyncTime time.Time `json:"last_sync_time" gorm:"column:last_sync_time"`
}

func (Node) TableName() string {
	return "node"
}

// 节点状态常量
const (
	NodeStatusUnknown = "unknown"
	NodeStatusOnline  = "online"
	NodeStatusOffline = "offline"
)
