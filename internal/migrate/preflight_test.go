package migrate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		PollInterval:    10 * time.Millisecond,
		GlobalTimeout:   3 * time.Second,
		StaleTimeout:    time.Second,
		QueryTimeout:    time.Second,
		CommandTimeout:  time.Second,
		FallbackDumpDir: "/var/lib/vz/dump",
	}
}

func preflightContext(source, target *fakeChannel) *guestContext {
	return &guestContext{
		vmid:          100,
		guestType:     "qemu",
		source:        source,
		target:        target,
		targetStorage: "local-lvm",
		logf:          testLogf(nil),
	}
}

func TestPreFlight_HappyPath(t *testing.T) {
	source := newFakeChannel("src").
		on("echo ok", "ok\n").
		on("qm status 100", "status: stopped\n").
		on("qm config 100", "memory: 2048\n").
		on("ssh -o BatchMode=yes", "ok\n")
	target := newFakeChannel("tgt").
		on("echo ok", "ok\n").
		on("pvesh get /storage", `[{"storage":"local"},{"storage":"local-lvm"}]`)

	err := runPreFlight(context.Background(), preflightContext(source, target), testConfig())
	require.NoError(t, err)

	// 检查阶段不允许出现任何破坏性命令
	for _, cmds := range [][]string{source.commands(), target.commands()} {
		for _, cmd := range cmds {
			assert.NotContains(t, cmd, "vzdump")
			assert.NotContains(t, cmd, "destroy")
			assert.NotContains(t, cmd, "qmrestore")
		}
	}
}

func TestPreFlight_SourceUnreachable(t *testing.T) {
	source := newFakeChannel("src").onErr("echo ok", errors.New("broken pipe"))
	target := newFakeChannel("tgt").on("echo ok", "ok\n")

	err := runPreFlight(context.Background(), preflightContext(source, target), testConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source host src is not reachable")
	// 源不可达时不应再去碰目标
	assert.Empty(t, target.commands())
}

func TestPreFlight_RecoversPausedGuest(t *testing.T) {
	source := newFakeChannel("src").
		on("echo ok", "ok\n").
		on("qm status 100", "status: paused\n").
		on("qm config 100", "memory: 2048\nlock: backup\n").
		on("ssh -o BatchMode=yes", "ok\n")
	target := newFakeChannel("tgt").
		on("echo ok", "ok\n").
		on("pvesh get /storage", `[{"storage":"local-lvm"}]`)

	err := runPreFlight(context.Background(), preflightContext(source, target), testConfig())
	require.NoError(t, err)
	assert.True(t, source.sawCommand("qm resume 100"))
	assert.True(t, source.sawCommand("qm stop 100"))
	assert.True(t, source.sawCommand("qm unlock 100"))
}

func TestPreFlight_StorageMissing(t *testing.T) {
	source := newFakeChannel("src").
		on("echo ok", "ok\n").
		on("qm status 100", "status: stopped\n").
		on("qm config 100", "memory: 2048\n")
	target := newFakeChannel("tgt").
		on("echo ok", "ok\n").
		on("pvesh get /storage", `[{"storage":"local"},{"storage":"ceph-pool"}]`)

	err := runPreFlight(context.Background(), preflightContext(source, target), testConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `target storage "local-lvm" does not exist`)
	assert.Contains(t, err.Error(), "local, ceph-pool")
}

func TestPreFlight_StorageListingFallsBackToPvesm(t *testing.T) {
	source := newFakeChannel("src").
		on("echo ok", "ok\n").
		on("qm status 100", "status: stopped\n").
		on("qm config 100", "memory: 2048\n").
		on("ssh -o BatchMode=yes", "ok\n")
	target := newFakeChannel("tgt").
		on("echo ok", "ok\n").
		onErr("pvesh get /storage", errors.New("permission denied")).
		on("pvesm status", "Name       Type     Status           Total            Used       Available        %\nlocal      dir      active        51474912        21474912        30000000   41.72%\nlocal-lvm  lvmthin  active       214748364         4294967       210453397    2.00%\n")

	err := runPreFlight(context.Background(), preflightContext(source, target), testConfig())
	require.NoError(t, err)
	assert.True(t, target.sawCommand("pvesm status"))
}

func TestPreFlight_StorageListingUnavailableIsWarning(t *testing.T) {
	// 两种列举都失败：只告警不阻断
	source := newFakeChannel("src").
		on("echo ok", "ok\n").
		on("qm status 100", "status: stopped\n").
		on("qm config 100", "memory: 2048\n").
		on("ssh -o BatchMode=yes", "ok\n")
	target := newFakeChannel("tgt").
		on("echo ok", "ok\n").
		onErr("pvesh get /storage", errors.New("permission denied")).
		onErr("pvesm status", errors.New("permission denied"))

	err := runPreFlight(context.Background(), preflightContext(source, target), testConfig())
	require.NoError(t, err)
}

func TestPreFlight_HostToHostSSHBroken(t *testing.T) {
	source := newFakeChannel("src").
		on("echo ok", "ok\n").
		on("qm status 100", "status: stopped\n").
		on("qm config 100", "memory: 2048\n").
		onErr("ssh -o BatchMode=yes", errors.New("Permission denied (publickey)"))
	target := newFakeChannel("tgt").
		on("echo ok", "ok\n").
		on("pvesh get /storage", `[{"storage":"local-lvm"}]`)

	err := runPreFlight(context.Background(), preflightContext(source, target), testConfig())
	require.Error(t, err)
	// 报错要带上补救命令
	assert.Contains(t, err.Error(), "ssh-copy-id root@tgt")
}

func TestParseGuestStatus(t *testing.T) {
	assert.Equal(t, "running", parseGuestStatus("status: running\n"))
	assert.Equal(t, "stopped", parseGuestStatus("status: stopped"))
}
