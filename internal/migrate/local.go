package migrate

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"pvefleet/internal/model"
)

var upidRe = regexp.MustCompile(`UPID:[A-Za-z0-9._\-]+:[0-9A-Fa-f]+:[0-9A-Fa-f]+:[0-9A-Fa-f]+:[^:\s"]+:[^:\s"]*:[^:\s"]*:`)

// runLocal 同集群策略：交给 hypervisor 自带的迁移任务，轮询远端任务直到终态
func (e *Engine) runLocal(ctx context.Context, g *guestContext) error {
	// 迁回自身节点是无意义操作，直接拒绝
	if g.sourceName != "" && g.sourceName == g.targetName {
		return fmt.Errorf("guest %d is already on node %s, migrating a guest to its own node is a no-op", g.vmid, g.sourceName)
	}

	kind := "qemu"
	if g.guestType == model.GuestTypeLxc {
		kind = "lxc"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "pvesh create /nodes/%s/%s/%d/migrate --target %s", g.sourceName, kind, g.vmid, g.targetName)
	if g.opts.Online {
		if g.guestType == model.GuestTypeLxc {
			b.WriteString(" --restart 1")
		} else {
			b.WriteString(" --online 1")
		}
	}
	if g.targetStorage != "" {
		b.WriteString(" --targetstorage " + g.targetStorage)
	}
	if g.opts.Bwlimit > 0 {
		fmt.Fprintf(&b, " --bwlimit %d", g.opts.Bwlimit)
	}
	if g.opts.WithLocalDisks && g.guestType != model.GuestTypeLxc {
		b.WriteString(" --with-local-disks 1")
	}

	// 任务提交命令需要 pty，否则会挂起
	out, err := g.source.ExecInteractive(ctx, b.String(), e.cfg.CommandTimeout)
	if err != nil {
		return fmt.Errorf("submit native migration job: %w (output: %s)", err, lastLines(out, 3))
	}
	upid := upidRe.FindString(out)
	if upid == "" {
		return fmt.Errorf("native migration job did not return a UPID, output: %s", lastLines(out, 3))
	}
	g.logf("guest %s %d: native migration job %s submitted, polling", g.guestType, g.vmid, upid)

	return e.pollNodeTask(ctx, g.source, g.sourceName, upid, g.logf)
}

// pollNodeTask 轮询一个 PVE 节点任务（UPID）直到终态
// 终态 exitstatus 非 OK 时带上任务日志尾部报错
func (e *Engine) pollNodeTask(ctx context.Context, ch Channel, nodeName, upid string, logf func(string, ...interface{})) error {
	started := time.Now()
	for {
		if time.Since(started) > e.cfg.GlobalTimeout {
			return fmt.Errorf("native migration job %s timed out after %s", upid, e.cfg.GlobalTimeout)
		}

		out, err := ch.Exec(ctx,
			fmt.Sprintf("pvesh get /nodes/%s/tasks/%s/status --output-format json", nodeName, upid),
			e.cfg.QueryTimeout)
		if err == nil {
			var st struct {
				Status     string      `json:"status"`
				ExitStatus interface{} `json:"exitstatus"`
			}
			if jerr := json.Unmarshal([]byte(extractJSON(out)), &st); jerr == nil && st.Status != "" && st.Status != "running" {
				exit := fmt.Sprintf("%v", st.ExitStatus)
				if exit == "OK" {
					return nil
				}
				tail := e.nodeTaskLogTail(ctx, ch, nodeName, upid)
				return fmt.Errorf("native migration job %s finished with %q: %s", upid, exit, tail)
			}
		} else {
			logf("warning: polling job %s failed: %v", upid, err)
		}

		if !sleepPoll(ctx, e.cfg.PollInterval) {
			return ctx.Err()
		}
	}
}

// nodeTaskLogTail 取任务日志最后几行，用于错误上下文
func (e *Engine) nodeTaskLogTail(ctx context.Context, ch Channel, nodeName, upid string) string {
	out, err := ch.Exec(ctx,
		fmt.Sprintf("pvesh get /nodes/%s/tasks/%s/log --output-format json", nodeName, upid),
		e.cfg.QueryTimeout)
	if err != nil {
		return "(task log unavailable)"
	}
	var entries []struct {
		N int    `json:"n"`
		T string `json:"t"`
	}
	if err := json.Unmarshal([]byte(extractJSON(out)), &entries); err != nil {
		return "(task log unreadable)"
	}
	var lines []string
	for _, e := range entries {
		lines = append(lines, e.T)
	}
	return lastLines(strings.Join(lines, "\n"), 8)
}
