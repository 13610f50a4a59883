package migrate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// runPreFlight 破坏性动作前的一次性检查，逐项写日志，遇到不可恢复的问题立即硬失败
//  1. 源主机可达
//  2. 目标主机可达
//  3. 修复可恢复的客户机状态（paused/prelaunch、残留 lock），修不好也只告警
//  4. 目标存储存在（列举失败降级为告警；列举成功但名字不存在则硬失败并给出有效名单）
//  5. 源到目标的免密 SSH 可达（传输走主机直连，不经编排进程）
func runPreFlight(ctx context.Context, g *guestContext, cfg Config) error {
	if err := checkReachable(ctx, g.source, cfg); err != nil {
		return fmt.Errorf("source host %s is not reachable: %w", g.source.Host(), err)
	}
	g.logf("pre-flight: source host %s reachable", g.source.Host())

	if err := checkReachable(ctx, g.target, cfg); err != nil {
		return fmt.Errorf("target host %s is not reachable: %w", g.target.Host(), err)
	}
	g.logf("pre-flight: target host %s reachable", g.target.Host())

	recoverGuestState(ctx, g, cfg)

	if err := checkTargetStorage(ctx, g, cfg); err != nil {
		return err
	}

	if err := checkHostToHost(ctx, g, cfg); err != nil {
		return err
	}
	g.logf("pre-flight: host-to-host SSH from %s to %s verified", g.source.Host(), g.target.Host())

	return nil
}

func checkReachable(ctx context.Context, ch Channel, cfg Config) error {
	out, err := ch.Exec(ctx, "echo ok", cfg.QueryTimeout)
	if err != nil {
		return err
	}
	if !strings.Contains(out, "ok") {
		return fmt.Errorf("unexpected echo output %q", strings.TrimSpace(out))
	}
	return nil
}

// recoverGuestState 尝试把客户机从 paused/prelaunch 拉回干净的停止态，清掉残留 lock
// 修复不完美不算检查失败：真有问题留给后续 stop/backup 步骤暴露
func recoverGuestState(ctx context.Context, g *guestContext, cfg Config) {
	cmd := guestCommand(g.guestType)

	statusOut, err := g.source.Exec(ctx, fmt.Sprintf("%s status %d", cmd, g.vmid), cfg.QueryTimeout)
	if err != nil {
		g.logf("pre-flight: warning: could not read status of %s %d: %v", g.guestType, g.vmid, err)
		return
	}
	status := parseGuestStatus(statusOut)
	g.logf("pre-flight: %s %d status is %q", g.guestType, g.vmid, status)

	if status == "paused" || status == "prelaunch" {
		g.logf("pre-flight: %s %d is %s, trying resume then stop to reach a clean state", g.guestType, g.vmid, status)
		if _, err := g.source.Exec(ctx, fmt.Sprintf("%s resume %d", cmd, g.vmid), cfg.CommandTimeout); err != nil {
			g.logf("pre-flight: warning: resume failed: %v", err)
		}
		if _, err := g.source.Exec(ctx, fmt.Sprintf("%s stop %d", cmd, g.vmid), cfg.CommandTimeout); err != nil {
			g.logf("pre-flight: warning: stop failed: %v", err)
		}
	}

	config, err := fetchGuestConfig(ctx, g.source, g.guestType, g.vmid, cfg.QueryTimeout)
	if err == nil && hasLockMarker(config) {
		g.logf("pre-flight: %s %d carries a stale lock marker, clearing it", g.guestType, g.vmid)
		if _, err := g.source.Exec(ctx, fmt.Sprintf("%s unlock %d", cmd, g.vmid), cfg.CommandTimeout); err != nil {
			g.logf("pre-flight: warning: unlock failed: %v", err)
		}
	}
}

func parseGuestStatus(out string) string {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "status:") {
			return strings.TrimSpace(strings.TrimPrefix(line, "status:"))
		}
	}
	return strings.TrimSpace(out)
}

// checkTargetStorage 确认目标存储存在
// 优先结构化列举，不可用时退回解析 pvesm status 的纯文本表格；
// 两种列举都失败只告警（有的环境限制了列举权限），列举成功但名字对不上则硬失败
func checkTargetStorage(ctx context.Context, g *guestContext, cfg Config) error {
	if g.targetStorage == "" {
		g.logf("pre-flight: no target storage requested, restore will use the default")
		return nil
	}

	names := listStorages(ctx, g.target, cfg)
	if names == nil {
		g.logf("pre-flight: warning: could not list storages on %s, skipping storage existence check", g.target.Host())
		return nil
	}

	for _, name := range names {
		if name == g.targetStorage {
			g.logf("pre-flight: target storage %q exists on %s", g.targetStorage, g.target.Host())
			return nil
		}
	}
	return fmt.Errorf("target storage %q does not exist on %s, valid storages are: %s",
		g.targetStorage, g.target.Host(), strings.Join(names, ", "))
}

// listStorages 有序降级的存储列举：pvesh JSON → pvesm status 文本表
func listStorages(ctx context.Context, ch Channel, cfg Config) []string {
	listers := []func() []string{
		func() []string {
			out, err := ch.Exec(ctx, "pvesh get /storage --output-format json", cfg.QueryTimeout)
			if err != nil {
				return nil
			}
			var entries []struct {
				Storage string `json:"storage"`
			}
			if err := json.Unmarshal([]byte(extractJSON(out)), &entries); err != nil {
				return nil
			}
			names := make([]string, 0, len(entries))
			for _, e := range entries {
				if e.Storage != "" {
					names = append(names, e.Storage)
				}
			}
			if len(names) == 0 {
				return nil
			}
			return names
		},
		func() []string {
			out, err := ch.Exec(ctx, "pvesm status", cfg.QueryTimeout)
			if err != nil {
				return nil
			}
			var names []string
			for i, line := range strings.Split(out, "\n") {
				if i == 0 { // 表头
					continue
				}
				fields := strings.Fields(line)
				if len(fields) >= 2 {
					names = append(names, fields[0])
				}
			}
			if len(names) == 0 {
				return nil
			}
			return names
		},
	}
	for _, list := range listers {
		if names := list(); names != nil {
			return names
		}
	}
	return nil
}

// checkHostToHost 从源主机向目标主机发起一次非交互 SSH 往返
// 传输步骤是源→目标直拷，这里不通后面必挂，所以报错时直接给出补救命令
func checkHostToHost(ctx context.Context, g *guestContext, cfg Config) error {
	probe := fmt.Sprintf(
		"ssh -o BatchMode=yes -o StrictHostKeyChecking=no -o ConnectTimeout=10 root@%s echo ok",
		g.target.Host(),
	)
	out, err := g.source.Exec(ctx, probe, cfg.CommandTimeout)
	if err != nil || !strings.Contains(out, "ok") {
		return fmt.Errorf(
			"source host %s cannot reach target host %s over non-interactive SSH (required for the direct data copy); "+
				"install the source host's public key on the target: run `ssh-copy-id root@%s` on %s",
			g.source.Host(), g.target.Host(), g.target.Host(), g.source.Host(),
		)
	}
	return nil
}
