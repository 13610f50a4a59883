package migrate

import (
	"context"
	"time"
)

// Channel 远程命令执行通道，迁移引擎只依赖这个抽象
type Channel interface {
	Host() string
	// Exec 执行命令并返回合并输出，超时由调用方按命令类型给定
	Exec(ctx context.Context, command string, timeout time.Duration) (string, error)
	// ExecInteractive 以 pty 模式执行命令（部分远程任务提交命令无 pty 会挂起）
	ExecInteractive(ctx context.Context, command string, timeout time.Duration) (string, error)
	Close() error
}

// Endpoint 通道的连接目标
type Endpoint struct {
	Host string
	Port int
	User string
}

// Dialer 按端点建立通道
type Dialer interface {
	Dial(ctx context.Context, ep Endpoint) (Channel, error)
}

// InventoryRefresher 迁移完成后的资产刷新回调，失败只记日志不影响迁移结果
type InventoryRefresher interface {
	RefreshGuestInventory(ctx context.Context, nodeID int64) error
}
