package v1

import "time"

// Node 相关 API 定义

// CreateNodeRequest 注册节点请求
type CreateNodeRequest struct {
	NodeName    string `json:"node_name" binding:"required" example:"pve-node1"`      // 节点名称（PVE 节点名，可留空待探测）
	SSHHost     string `json:"ssh_host" binding:"required" example:"10.0.0.11"`       // SSH 地址
	SSHPort     int    `json:"ssh_port" example:"22"`                                 // SSH 端口，默认 22
	SSHUser     string `json:"ssh_user" example:"root"`                               // SSH 用户，默认 root
	ApiUrl      string `json:"api_url" example:"https://10.0.0.11:8006"`              // PVE API 地址（用于资产同步）
	ApiTokenId  string `json:"api_token_id" example:"root@pam!pvefleet"`              // API Token ID
	ApiToken    string `json:"api_token" example:"xxxx-xxxx"`                         // API Token Secret
	Description string `json:"description" example:"rack A1"`
}

// UpdateNodeRequest 更新节点请求
type UpdateNodeRequest struct {
	SSHHost     string `json:"ssh_host" example:"10.0.0.11"`
	SSHPort     int    `json:"ssh_port" example:"22"`
	SSHUser     string `json:"ssh_user" example:"root"`
	ApiUrl      string `json:"api_url" example:"https://10.0.0.11:8006"`
	ApiTokenId  string `json:"api_token_id" example:"root@pam!pvefleet"`
	ApiToken    string `json:"api_token" example:"xxxx-xxxx"`
	Description string `json:"description" example:"rack A1"`
}

// NodeItem 节点信息
type NodeItem struct {
	Id           int64     `json:"id"`
	NodeName     string    `json:"node_name"`
	SSHHost      string    `json:"ssh_host"`
	SSHPort      int       `json:"ssh_port"`
	SSHUser      string    `json:"ssh_user"`
	ApiUrl       string    `json:"api_url"`
	ClusterName  string    `json:"cluster_name"`
	Status       string    `json:"status"`
	Description  string    `json:"description"`
	LastSyncTime time.Time `json:"last_sync_time"`
}

// ListNodesResponse 节点列表响应
type ListNodesResponse struct {
	Response
	Data []NodeItem `json:"data"`
}

// GetNodeResponse 节点详情响应
type GetNodeResponse struct {
	Response
	Data NodeItem `json:"data"`
}

// TestNodeResponseData 节点连通性测试结果
type TestNodeResponseData struct {
	SSHReachable bool   `json:"ssh_reachable"`
	ApiReachable bool   `json:"api_reachable"`
	NodeName     string `json:"node_name"`  // 探测到的 PVE 节点名
	PveVersion   string `json:"pve_version"`
	Message      string `json:"message,omitempty"`
}

// TestNodeResponse 节点连通性测试响应
type TestNodeResponse struct {
	Response
	Data TestNodeResponseData `json:"data"`
}

// GuestItem 客户机（VM/容器）信息
type GuestItem struct {
	Id           int64     `json:"id"`
	NodeID       int64     `json:"node_id"`
	NodeName     string    `json:"node_name,omitempty"`
	VMID         uint32    `json:"vmid"`
	GuestName    string    `json:"guest_name"`
	GuestType    string    `json:"guest_type"` // qemu 或 lxc
	Status       string    `json:"status"`
	CPUNum       int       `json:"cpu_num"`
	MemorySize   int64     `json:"memory_size"`
	DiskSize     int64     `json:"disk_size"`
	LastSyncTime time.Time `json:"last_sync_time"`
}

// ListGuestsRequest 客户机列表请求
type ListGuestsRequest struct {
	NodeID int64 `form:"node_id" example:"1"` // 可选，按节点过滤
}

// ListGuestsResponse 客户机列表响应
type ListGuestsResponse struct {
	Response
	Data []GuestItem `json:"data"`
}
