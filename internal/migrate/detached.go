package migrate

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DetachedOp 远端后台化的长任务
// 命令通过 nohup 脱离会话执行，输出重定向到日志哨兵文件，退出码写入返回码哨兵文件；
// 跟踪只依赖 pid + 两个哨兵文件，不要求通道长时间保持打开
type DetachedOp struct {
	Pid     int
	LogFile string
	RCFile  string
}

// AwaitOptions 轮询参数
type AwaitOptions struct {
	GlobalTimeout time.Duration // 总时长上限（默认 2 小时）
	StaleTimeout  time.Duration // 日志无变化上限（默认 10 分钟），抓挂死的传输
	PollInterval  time.Duration
	QueryTimeout  time.Duration // 单次轮询命令的超时
	SuccessMarker string        // 非空时额外要求日志含成功标记（部分工具部分失败也返回 0）
}

func (o *AwaitOptions) withDefaults() AwaitOptions {
	opts := *o
	if opts.GlobalTimeout <= 0 {
		opts.GlobalTimeout = 2 * time.Hour
	}
	if opts.StaleTimeout <= 0 {
		opts.StaleTimeout = 10 * time.Minute
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 3 * time.Second
	}
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = 30 * time.Second
	}
	return opts
}

// StartDetached 后台启动远端命令并捕获 pid
// token 区分同一工作目录里的并发操作，哨兵文件以它命名
func StartDetached(ctx context.Context, ch Channel, command, workDir, token string, timeout time.Duration) (*DetachedOp, error) {
	logFile := fmt.Sprintf("%s/%s.log", workDir, token)
	rcFile := fmt.Sprintf("%s/%s.rc", workDir, token)

	launch := fmt.Sprintf(
		"rm -f %s %s && nohup sh -c \"%s > %s 2>&1; echo \\$? > %s\" >/dev/null 2>&1 & echo $!",
		logFile, rcFile, command, logFile, rcFile,
	)
	out, err := ch.Exec(ctx, launch, timeout)
	if err != nil {
		return nil, fmt.Errorf("launch detached command on %s: %w", ch.Host(), err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil || pid <= 0 {
		return nil, fmt.Errorf("launch detached command on %s: bad pid %q", ch.Host(), strings.TrimSpace(out))
	}
	return &DetachedOp{Pid: pid, LogFile: logFile, RCFile: rcFile}, nil
}

// Await 轮询直至操作终结
// 返回日志尾部内容；失败时保留哨兵文件供排障，成功后由调用方 Cleanup
func (op *DetachedOp) Await(ctx context.Context, ch Channel, o AwaitOptions) (string, error) {
	opts := o.withDefaults()

	started := time.Now()
	lastTail := ""
	lastChange := time.Now()
	deadPolls := 0
	failedPolls := 0

	for {
		if time.Since(started) > opts.GlobalTimeout {
			return lastTail, fmt.Errorf("detached operation on %s timed out after %s (pid %d)", ch.Host(), opts.GlobalTimeout, op.Pid)
		}

		rcOut, err := ch.Exec(ctx, fmt.Sprintf("cat %s 2>/dev/null", op.RCFile), opts.QueryTimeout)
		if err != nil {
			// 单次轮询失败容忍，连续失败才放弃
			failedPolls++
			if failedPolls >= 5 {
				return lastTail, fmt.Errorf("polling detached operation on %s failed %d times in a row: %w", ch.Host(), failedPolls, err)
			}
			if !sleepPoll(ctx, opts.PollInterval) {
				return lastTail, ctx.Err()
			}
			continue
		}
		failedPolls = 0

		if rc := strings.TrimSpace(rcOut); rc != "" {
			tail := op.tailLog(ctx, ch, opts.QueryTimeout)
			code, convErr := strconv.Atoi(rc)
			if convErr != nil {
				return tail, fmt.Errorf("detached operation on %s wrote unreadable return code %q", ch.Host(), rc)
			}
			if code != 0 {
				return tail, fmt.Errorf("detached operation on %s exited with code %d: %s", ch.Host(), code, lastLines(tail, 5))
			}
			if opts.SuccessMarker != "" && !strings.Contains(tail, opts.SuccessMarker) {
				// tail 窗口可能太小，整篇再查一次
				found, _ := ch.Exec(ctx, fmt.Sprintf("grep -c %q %s 2>/dev/null", opts.SuccessMarker, op.LogFile), opts.QueryTimeout)
				if strings.TrimSpace(found) == "" || strings.TrimSpace(found) == "0" {
					return tail, fmt.Errorf("detached operation on %s exited 0 but success marker %q is missing from its log", ch.Host(), opts.SuccessMarker)
				}
			}
			return tail, nil
		}

		// 返回码未落盘，先确认进程还活着
		aliveOut, err := ch.Exec(ctx, fmt.Sprintf("kill -0 %d 2>/dev/null; echo $?", op.Pid), opts.QueryTimeout)
		if err == nil && strings.TrimSpace(aliveOut) != "0" {
			// 进程已死但返回码还没写出来，宽限几轮再定性为失败
			deadPolls++
			if deadPolls >= 3 {
				tail := op.tailLog(ctx, ch, opts.QueryTimeout)
				return tail, fmt.Errorf("detached operation on %s (pid %d) died without writing a return code: %s", ch.Host(), op.Pid, lastLines(tail, 5))
			}
		} else {
			deadPolls = 0
		}

		tail := op.tailLog(ctx, ch, opts.QueryTimeout)
		if tail != lastTail {
			lastTail = tail
			lastChange = time.Now()
		} else if time.Since(lastChange) > opts.StaleTimeout {
			return lastTail, fmt.Errorf("detached operation on %s stalled: no output change for %s (pid %d)", ch.Host(), opts.StaleTimeout, op.Pid)
		}

		if !sleepPoll(ctx, opts.PollInterval) {
			return lastTail, ctx.Err()
		}
	}
}

// Cleanup 删除哨兵文件（仅成功后调用，失败现场保留）
func (op *DetachedOp) Cleanup(ctx context.Context, ch Channel, timeout time.Duration) {
	_, _ = ch.Exec(ctx, fmt.Sprintf("rm -f %s %s", op.LogFile, op.RCFile), timeout)
}

func (op *DetachedOp) tailLog(ctx context.Context, ch Channel, timeout time.Duration) string {
	out, err := ch.Exec(ctx, fmt.Sprintf("tail -c 4096 %s 2>/dev/null", op.LogFile), timeout)
	if err != nil {
		return ""
	}
	return out
}

func sleepPoll(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

// lastLines 取文本末尾 n 行，拼进错误消息
func lastLines(text string, n int) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, " | ")
}
