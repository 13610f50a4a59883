package migrate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastAwaitOptions() AwaitOptions {
	return AwaitOptions{
		GlobalTimeout: 3 * time.Second,
		StaleTimeout:  time.Second,
		PollInterval:  10 * time.Millisecond,
		QueryTimeout:  time.Second,
	}
}

func TestStartDetached(t *testing.T) {
	ch := newFakeChannel("pve1").on("nohup sh -c", "12345\n")

	op, err := StartDetached(context.Background(), ch, "vzdump 100", "/data", "job-1", testTimeout)
	require.NoError(t, err)
	assert.Equal(t, 12345, op.Pid)
	assert.Equal(t, "/data/job-1.log", op.LogFile)
	assert.Equal(t, "/data/job-1.rc", op.RCFile)

	// 启动命令要先清掉旧哨兵再后台化
	cmds := ch.commands()
	require.Len(t, cmds, 1)
	assert.Contains(t, cmds[0], "rm -f /data/job-1.log /data/job-1.rc")
	assert.Contains(t, cmds[0], "echo $!")
}

func TestStartDetached_BadPid(t *testing.T) {
	ch := newFakeChannel("pve1").on("nohup sh -c", "not-a-pid\n")

	_, err := StartDetached(context.Background(), ch, "vzdump 100", "/data", "job-1", testTimeout)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad pid")
}

func TestAwait_Success(t *testing.T) {
	ch := newFakeChannel("pve1").
		on("cat /data/job-1.rc", "", "0\n").
		on("kill -0", "0\n").
		on("tail -c 4096", "INFO: Backup job finished successfully\n")

	op := &DetachedOp{Pid: 1, LogFile: "/data/job-1.log", RCFile: "/data/job-1.rc"}
	opts := fastAwaitOptions()
	opts.SuccessMarker = "Backup job finished successfully"

	tail, err := op.Await(context.Background(), ch, opts)
	require.NoError(t, err)
	assert.Contains(t, tail, "finished successfully")
}

func TestAwait_NonZeroExit(t *testing.T) {
	ch := newFakeChannel("pve1").
		on("cat /data/job-1.rc", "255\n").
		on("tail -c 4096", "ERROR: storage offline\n")

	op := &DetachedOp{Pid: 1, LogFile: "/data/job-1.log", RCFile: "/data/job-1.rc"}
	_, err := op.Await(context.Background(), ch, fastAwaitOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exited with code 255")
	assert.Contains(t, err.Error(), "storage offline")
}

func TestAwait_ZeroExitButMarkerMissing(t *testing.T) {
	// 退 0 但日志没有成功标记：部分失败也必须按失败处理
	ch := newFakeChannel("pve1").
		on("cat /data/job-1.rc", "0\n").
		on("tail -c 4096", "INFO: starting backup\n").
		on("grep -c", "0\n")

	op := &DetachedOp{Pid: 1, LogFile: "/data/job-1.log", RCFile: "/data/job-1.rc"}
	opts := fastAwaitOptions()
	opts.SuccessMarker = "Backup job finished successfully"

	_, err := op.Await(context.Background(), ch, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "success marker")
}

func TestAwait_StalledOutput(t *testing.T) {
	// 返回码一直不落盘、进程活着、日志不再变化 → 按假死处理
	ch := newFakeChannel("pve1").
		on("cat /data/job-1.rc", "").
		on("kill -0", "0\n").
		on("tail -c 4096", "copying disk image...\n")

	op := &DetachedOp{Pid: 1, LogFile: "/data/job-1.log", RCFile: "/data/job-1.rc"}
	opts := fastAwaitOptions()
	opts.StaleTimeout = 100 * time.Millisecond

	_, err := op.Await(context.Background(), ch, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stalled")
}

func TestAwait_ProcessDiedWithoutRC(t *testing.T) {
	ch := newFakeChannel("pve1").
		on("cat /data/job-1.rc", "").
		on("kill -0", "1\n").
		on("tail -c 4096", "Killed\n")

	op := &DetachedOp{Pid: 1, LogFile: "/data/job-1.log", RCFile: "/data/job-1.rc"}
	_, err := op.Await(context.Background(), ch, fastAwaitOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "died without writing a return code")
}

func TestCleanup_RemovesSentinels(t *testing.T) {
	ch := newFakeChannel("pve1")
	op := &DetachedOp{Pid: 1, LogFile: "/data/job-1.log", RCFile: "/data/job-1.rc"}
	op.Cleanup(context.Background(), ch, testTimeout)
	assert.True(t, ch.sawCommand("rm -f /data/job-1.log /data/job-1.rc"))
}

func TestLastLines(t *testing.T) {
	assert.Equal(t, "c | d", lastLines("a\nb\nc\nd", 2))
	assert.Equal(t, "a", lastLines("a\n", 5))
}
