package sshchan

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
)

// Client 基于 SSH 的远程命令执行通道
// 迁移引擎的所有远程操作（qm/pct/vzdump/scp 等）都通过它下发
type Client struct {
	host   string
	client *ssh.Client
}

// Config SSH 连接配置
type Config struct {
	Host        string
	Port        int
	User        string
	KeyPath     string
	DialTimeout time.Duration
}

// resolveKeyPath 解析私钥路径（支持 ~/ 前缀）
func resolveKeyPath(keyPath string) (string, error) {
	if strings.HasPrefix(keyPath, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not get home directory: %w", err)
		}
		return filepath.Join(homeDir, keyPath[2:]), nil
	}
	return keyPath, nil
}

// Dial 建立 SSH 连接
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	keyPath, err := resolveKeyPath(cfg.KeyPath)
	if err != nil {
		return nil, err
	}

	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read private key from %s: %w", keyPath, err)
	}
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("unable to parse private key: %w", err)
	}

	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	port := cfg.Port
	if port <= 0 {
		port = 22
	}

	sshConf := &ssh.ClientConfig{
		User: cfg.User,
		Auth: []ssh.AuthMethod{
			ssh.PublicKeys(signer),
		},
		// 节点由管理员录入，指纹校验交给 known_hosts 之外的运维流程
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         timeout,
	}

	addr := net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", port))
	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", addr, err)
	}
	c, chans, reqs, err := ssh.NewClientConn(conn, addr, sshConf)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ssh handshake with %s failed: %w", addr, err)
	}

	return &Client{host: cfg.Host, client: ssh.NewClient(c, chans, reqs)}, nil
}

func (c *Client) Host() string {
	return c.host
}

// Exec 执行命令并返回合并输出，超时后强制关闭会话
func (c *Client) Exec(ctx context.Context, command string, timeout time.Duration) (string, error) {
	return c.run(ctx, command, timeout, false)
}

// ExecInteractive 以 pty 模式执行命令
// 部分远程任务提交命令（如 pvesh create）在无 pty 时会挂起
func (c *Client) ExecInteractive(ctx context.Context, command string, timeout time.Duration) (string, error) {
	return c.run(ctx, command, timeout, true)
}

func (c *Client) run(ctx context.Context, command string, timeout time.Duration, pty bool) (string, error) {
	session, err := c.client.NewSession()
	if err != nil {
		return "", fmt.Errorf("failed to create session on %s: %w", c.host, err)
	}
	defer session.Close()

	if pty {
		modes := ssh.TerminalModes{
			ssh.ECHO:          0,
			ssh.TTY_OP_ISPEED: 14400,
			ssh.TTY_OP_OSPEED: 14400,
		}
		if err := session.RequestPty("xterm", 40, 120, modes); err != nil {
			return "", fmt.Errorf("request pty on %s failed: %w", c.host, err)
		}
	}

	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		out []byte
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := session.CombinedOutput(command)
		done <- result{out: out, err: err}
	}()

	select {
	case <-ctx.Done():
		// 关闭会话让远端命令收到 EOF，goroutine 随之退出
		_ = session.Close()
		return "", fmt.Errorf("command timed out after %s on %s: %s", timeout, c.host, command)
	case r := <-done:
		if r.err != nil {
			return string(r.out), fmt.Errorf("command failed on %s: %w", c.host, r.err)
		}
		return string(r.out), nil
	}
}

func (c *Client) Close() error {
	return c.client.Close()
}
