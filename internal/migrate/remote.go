package migrate

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"
)

// 停止客户机可能要等 guest agent 落盘，给足时间
const guestStopTimeout = 5 * time.Minute

// runRemote 跨集群流水线：Preparing → Dumping → Transferring → Restoring → Finalizing
// 任一状态失败都会尽力删除已产生的归档文件，再抛出带三个最可能原因的合并错误
func (e *Engine) runRemote(ctx context.Context, g *guestContext) error {
	// --- Preparing ---
	if err := runPreFlight(ctx, g, e.cfg); err != nil {
		return err
	}

	targetVMID, err := e.resolveTargetVMID(ctx, g)
	if err != nil {
		return err
	}
	g.logf("guest %s %d: target VMID resolved to %d", g.guestType, g.vmid, targetVMID)

	// 幂等重跑：上次失败残留的目标客户机先清掉
	if e.guestExists(ctx, g.target, g.guestType, targetVMID) {
		g.logf("guest %s %d: VMID %d already exists on target (stale from a previous attempt), destroying it", g.guestType, g.vmid, targetVMID)
		if err := e.destroyGuest(ctx, g.target, g.guestType, targetVMID); err != nil {
			return fmt.Errorf("destroy stale guest %d on target: %w", targetVMID, err)
		}
	}

	var srcArchive, tgtArchive string
	pipelineErr := e.runRemotePipeline(ctx, g, targetVMID, &srcArchive, &tgtArchive)
	if pipelineErr == nil {
		return nil
	}

	// 清理只针对本次操作产生的归档，不碰工作目录里其他文件
	if srcArchive != "" {
		_, _ = g.source.Exec(ctx, fmt.Sprintf("rm -f %s", srcArchive), e.cfg.CommandTimeout)
	}
	if tgtArchive != "" {
		_, _ = g.target.Exec(ctx, fmt.Sprintf("rm -f %s", tgtArchive), e.cfg.CommandTimeout)
	}

	return fmt.Errorf(
		"cross-cluster migration of %s %d failed: %w; most likely causes: "+
			"(1) host-to-host SSH trust from %s to %s is broken, "+
			"(2) not enough free space in the working directories, "+
			"(3) target storage %q is unreachable or misnamed",
		g.guestType, g.vmid, pipelineErr,
		g.source.Host(), g.target.Host(), g.targetStorage,
	)
}

func (e *Engine) runRemotePipeline(ctx context.Context, g *guestContext, targetVMID uint32, srcArchive, tgtArchive *string) error {
	// --- Dumping ---
	estimate := e.estimateGuestDisk(ctx, g)
	required := estimate + estimate/5 // 1.2x：压缩元数据等开销的余量
	g.logf("guest %s %d: estimated disk footprint %d bytes, need %d bytes of working space", g.guestType, g.vmid, estimate, required)

	srcDir := e.pickWorkDir(ctx, g.source, required, g.logf)

	if !g.opts.Online {
		// 默认离线：一致性优先于可用性，在线 snapshot 模式是显式 opt-in
		if e.guestRunning(ctx, g.source, g.guestType, g.vmid) {
			g.logf("guest %s %d: offline mode requested and guest is running, stopping it first", g.guestType, g.vmid)
			if _, err := g.source.Exec(ctx, fmt.Sprintf("%s stop %d", guestCommand(g.guestType), g.vmid), guestStopTimeout); err != nil {
				return fmt.Errorf("stop guest before dump: %w", err)
			}
		}
	}

	mode := "stop"
	if g.opts.Online {
		mode = "snapshot"
	}
	token := fmt.Sprintf("pvefleet-%s-%d-%d", g.guestType, g.vmid, time.Now().Unix())

	dumpCmd := fmt.Sprintf("vzdump %d --dumpdir %s --mode %s --compress zstd", g.vmid, srcDir, mode)
	g.logf("guest %s %d: dumping with: %s", g.guestType, g.vmid, dumpCmd)
	dumpOp, err := StartDetached(ctx, g.source, dumpCmd, srcDir, token+"-dump", e.cfg.CommandTimeout)
	if err != nil {
		return err
	}
	// vzdump 部分失败也可能退 0，必须同时验日志里的成功标记
	if _, err := dumpOp.Await(ctx, g.source, AwaitOptions{
		GlobalTimeout: e.cfg.GlobalTimeout,
		StaleTimeout:  e.cfg.StaleTimeout,
		PollInterval:  e.cfg.PollInterval,
		QueryTimeout:  e.cfg.QueryTimeout,
		SuccessMarker: "Backup job finished successfully",
	}); err != nil {
		return fmt.Errorf("dump: %w", err)
	}
	dumpOp.Cleanup(ctx, g.source, e.cfg.QueryTimeout)

	archive, err := e.locateArchive(ctx, g, srcDir)
	if err != nil {
		return err
	}
	*srcArchive = archive
	g.logf("guest %s %d: dump archive %s", g.guestType, g.vmid, archive)

	// --- Transferring ---
	tgtDir := e.pickWorkDir(ctx, g.target, required, g.logf)
	remoteArchive := path.Join(tgtDir, path.Base(archive))
	*tgtArchive = remoteArchive

	// 数据流源→目标直拷，不经编排进程
	scpCmd := fmt.Sprintf("scp -o BatchMode=yes -o StrictHostKeyChecking=no %s root@%s:%s",
		archive, g.target.Host(), remoteArchive)
	g.logf("guest %s %d: transferring archive to %s", g.guestType, g.vmid, g.target.Host())
	scpOp, err := StartDetached(ctx, g.source, scpCmd, srcDir, token+"-scp", e.cfg.CommandTimeout)
	if err != nil {
		return err
	}
	if _, err := scpOp.Await(ctx, g.source, AwaitOptions{
		GlobalTimeout: e.cfg.GlobalTimeout,
		StaleTimeout:  e.cfg.StaleTimeout,
		PollInterval:  e.cfg.PollInterval,
		QueryTimeout:  e.cfg.QueryTimeout,
	}); err != nil {
		return fmt.Errorf("transfer: %w", err)
	}
	scpOp.Cleanup(ctx, g.source, e.cfg.QueryTimeout)

	// --- Restoring ---
	var restoreCmd string
	if g.guestType == "lxc" {
		restoreCmd = fmt.Sprintf("pct restore %d %s", targetVMID, remoteArchive)
	} else {
		restoreCmd = fmt.Sprintf("qmrestore %s %d", remoteArchive, targetVMID)
	}
	if g.targetStorage != "" {
		restoreCmd += " --storage " + g.targetStorage
	}
	g.logf("guest %s %d: restoring as VMID %d with: %s", g.guestType, g.vmid, targetVMID, restoreCmd)
	restoreOp, err := StartDetached(ctx, g.target, restoreCmd, tgtDir, token+"-restore", e.cfg.CommandTimeout)
	if err != nil {
		return err
	}
	// 恢复工具的退出码在这里是权威的，不再叠加日志标记启发式
	if _, err := restoreOp.Await(ctx, g.target, AwaitOptions{
		GlobalTimeout: e.cfg.GlobalTimeout,
		StaleTimeout:  e.cfg.StaleTimeout,
		PollInterval:  e.cfg.PollInterval,
		QueryTimeout:  e.cfg.QueryTimeout,
	}); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	restoreOp.Cleanup(ctx, g.target, e.cfg.QueryTimeout)

	// --- Finalizing ---
	if _, err := g.source.Exec(ctx, fmt.Sprintf("rm -f %s", archive), e.cfg.CommandTimeout); err != nil {
		g.logf("guest %s %d: warning: could not delete source archive: %v", g.guestType, g.vmid, err)
	}
	if _, err := g.target.Exec(ctx, fmt.Sprintf("rm -f %s", remoteArchive), e.cfg.CommandTimeout); err != nil {
		g.logf("guest %s %d: warning: could not delete transferred archive: %v", g.guestType, g.vmid, err)
	}
	*srcArchive, *tgtArchive = "", ""

	// 迁移是 move 不是 clone：成功后源客户机按设计被销毁
	g.logf("guest %s %d: destroying source guest (migration is a move, not a copy)", g.guestType, g.vmid)
	if err := e.destroyGuest(ctx, g.source, g.guestType, g.vmid); err != nil {
		return fmt.Errorf("destroy source guest after successful restore: %w", err)
	}

	e.remapBridges(ctx, g, targetVMID)

	g.logf("guest %s %d: migrated to %s as VMID %d", g.guestType, g.vmid, g.targetName, targetVMID)
	return nil
}

// resolveTargetVMID 目标 VMID 解析：显式指定 > 自动分配 > 沿用源 VMID
func (e *Engine) resolveTargetVMID(ctx context.Context, g *guestContext) (uint32, error) {
	if g.opts.TargetVMID > 0 {
		return g.opts.TargetVMID, nil
	}
	if g.opts.AutoVMID {
		out, err := g.target.Exec(ctx, "pvesh get /cluster/nextid", e.cfg.QueryTimeout)
		if err != nil {
			return 0, fmt.Errorf("query next free VMID on target: %w", err)
		}
		next, err := strconv.ParseUint(strings.Trim(strings.TrimSpace(out), `"`), 10, 32)
		if err != nil {
			return 0, fmt.Errorf("query next free VMID on target: unreadable answer %q", strings.TrimSpace(out))
		}
		return uint32(next), nil
	}
	return g.vmid, nil
}

// estimateGuestDisk 配置解析估算磁盘占用，失败降级为默认值并告警
func (e *Engine) estimateGuestDisk(ctx context.Context, g *guestContext) int64 {
	config, err := fetchGuestConfig(ctx, g.source, g.guestType, g.vmid, e.cfg.QueryTimeout)
	if err != nil {
		g.logf("guest %s %d: warning: could not read config for disk estimation, assuming %d bytes: %v",
			g.guestType, g.vmid, DefaultDiskEstimate, err)
		return DefaultDiskEstimate
	}
	return EstimateDiskBytes(config)
}

// pickWorkDir 自动探测工作目录，探测失败降级到配置的保底目录
// 自动探测失败绝不单独导致迁移中止
func (e *Engine) pickWorkDir(ctx context.Context, ch Channel, required int64, logf func(string, ...interface{})) string {
	dir, err := SelectWorkingPath(ctx, ch, required, e.cfg.QueryTimeout)
	if err != nil {
		logf("warning: working directory auto-detection on %s failed (%v), falling back to %s", ch.Host(), err, e.cfg.FallbackDumpDir)
		_, _ = ch.Exec(ctx, fmt.Sprintf("mkdir -p %s", e.cfg.FallbackDumpDir), e.cfg.QueryTimeout)
		return e.cfg.FallbackDumpDir
	}
	return dir
}

// locateArchive 列出工作目录里最新的匹配归档
func (e *Engine) locateArchive(ctx context.Context, g *guestContext, dir string) (string, error) {
	pattern := fmt.Sprintf("%s/vzdump-%s-%d-*.vma*", dir, g.guestType, g.vmid)
	if g.guestType == "lxc" {
		pattern = fmt.Sprintf("%s/vzdump-lxc-%d-*.tar*", dir, g.vmid)
	}
	out, err := g.source.Exec(ctx, fmt.Sprintf("ls -t %s 2>/dev/null | head -n 1", pattern), e.cfg.QueryTimeout)
	if err != nil {
		return "", fmt.Errorf("locate dump archive: %w", err)
	}
	archive := strings.TrimSpace(out)
	if archive == "" {
		return "", fmt.Errorf("dump reported success but no archive matching %s was found", pattern)
	}
	return archive, nil
}

// guestExists 目标上是否已有该 VMID
func (e *Engine) guestExists(ctx context.Context, ch Channel, guestType string, vmid uint32) bool {
	out, err := ch.Exec(ctx, fmt.Sprintf("%s status %d >/dev/null 2>&1; echo $?", guestCommand(guestType), vmid), e.cfg.QueryTimeout)
	return err == nil && strings.TrimSpace(out) == "0"
}

// guestRunning 客户机是否在运行
func (e *Engine) guestRunning(ctx context.Context, ch Channel, guestType string, vmid uint32) bool {
	out, err := ch.Exec(ctx, fmt.Sprintf("%s status %d", guestCommand(guestType), vmid), e.cfg.QueryTimeout)
	return err == nil && parseGuestStatus(out) == "running"
}

// destroyGuest 先停再强制销毁（停失败不阻断销毁，销毁是权威动作）
func (e *Engine) destroyGuest(ctx context.Context, ch Channel, guestType string, vmid uint32) error {
	cmd := guestCommand(guestType)
	_, _ = ch.Exec(ctx, fmt.Sprintf("%s stop %d", cmd, vmid), guestStopTimeout)
	destroy := fmt.Sprintf("qm destroy %d --purge --skiplock", vmid)
	if guestType == "lxc" {
		destroy = fmt.Sprintf("pct destroy %d --purge --force", vmid)
	}
	if _, err := ch.Exec(ctx, destroy, e.cfg.CommandTimeout); err != nil {
		return err
	}
	return nil
}

// remapBridges 按映射逐网卡改桥，单网卡失败只记日志
// 未给映射但任务有默认网桥时，所有网卡都切到默认网桥
func (e *Engine) remapBridges(ctx context.Context, g *guestContext, targetVMID uint32) {
	config, err := fetchGuestConfig(ctx, g.target, g.guestType, targetVMID, e.cfg.QueryTimeout)
	if err != nil {
		g.logf("guest %s %d: warning: could not read restored config for bridge remapping: %v", g.guestType, g.vmid, err)
		return
	}
	nics := parseNICLines(config)
	if len(nics) == 0 {
		return
	}

	mapping := g.opts.BridgeMap
	if len(mapping) == 0 {
		if g.targetBridge == "" {
			return
		}
		mapping = make(map[string]string, len(nics))
		for name := range nics {
			mapping[name] = g.targetBridge
		}
	}

	cmd := guestCommand(g.guestType)
	for nic, bridge := range mapping {
		val, ok := nics[nic]
		if !ok {
			g.logf("guest %s %d: warning: bridge remap skipped, interface %s not present in restored config", g.guestType, g.vmid, nic)
			continue
		}
		newVal := replaceBridge(val, bridge)
		set := fmt.Sprintf("%s set %d --%s %s", cmd, targetVMID, nic, newVal)
		if _, err := g.target.Exec(ctx, set, e.cfg.CommandTimeout); err != nil {
			g.logf("guest %s %d: warning: remap %s to bridge %s failed: %v", g.guestType, g.vmid, nic, bridge, err)
			continue
		}
		g.logf("guest %s %d: interface %s remapped to bridge %s", g.guestType, g.vmid, nic, bridge)
	}
}
