package migrate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUPID = "UPID:pve1:0000C350:015D3A8C:65F1A2B3:qmigrate:100:root@pam:"

func localEngine() *Engine {
	return &Engine{cfg: testConfig(), locks: newHostPairLocks()}
}

func localContext(source *fakeChannel, opts GuestOptions) *guestContext {
	return &guestContext{
		vmid:          100,
		guestType:     "qemu",
		opts:          opts,
		source:        source,
		sourceName:    "pve1",
		targetName:    "pve2",
		targetStorage: "local-lvm",
		logf:          testLogf(nil),
	}
}

func TestRunLocal_RejectsSameNode(t *testing.T) {
	g := localContext(newFakeChannel("src"), GuestOptions{})
	g.targetName = "pve1"

	err := localEngine().runLocal(context.Background(), g)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already on node pve1")
}

func TestRunLocal_CommandConstructionQemu(t *testing.T) {
	source := newFakeChannel("src").
		on("pvesh create /nodes/pve1/qemu/100/migrate", testUPID+"\n").
		on("tasks/"+testUPID+"/status", `{"status":"stopped","exitstatus":"OK"}`)

	g := localContext(source, GuestOptions{Online: true, Bwlimit: 1000, WithLocalDisks: true})
	err := localEngine().runLocal(context.Background(), g)
	require.NoError(t, err)

	// 任务提交必须走 pty
	require.Len(t, source.interactive, 1)
	cmd := source.interactive[0]
	assert.Contains(t, cmd, "--target pve2")
	assert.Contains(t, cmd, "--online 1")
	assert.Contains(t, cmd, "--targetstorage local-lvm")
	assert.Contains(t, cmd, "--bwlimit 1000")
	assert.Contains(t, cmd, "--with-local-disks 1")
}

func TestRunLocal_CommandConstructionLxc(t *testing.T) {
	source := newFakeChannel("src").
		on("pvesh create /nodes/pve1/lxc/100/migrate", testUPID+"\n").
		on("tasks/"+testUPID+"/status", `{"status":"stopped","exitstatus":"OK"}`)

	g := localContext(source, GuestOptions{Online: true, WithLocalDisks: true})
	g.guestType = "lxc"

	err := localEngine().runLocal(context.Background(), g)
	require.NoError(t, err)

	cmd := source.interactive[0]
	// 容器在线迁移是 --restart，且没有 with-local-disks
	assert.Contains(t, cmd, "--restart 1")
	assert.NotContains(t, cmd, "--online")
	assert.NotContains(t, cmd, "--with-local-disks")
}

func TestRunLocal_NoUPIDInOutput(t *testing.T) {
	source := newFakeChannel("src").
		on("pvesh create /nodes/pve1/qemu/100/migrate", "some error text\n")

	err := localEngine().runLocal(context.Background(), localContext(source, GuestOptions{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not return a UPID")
}

func TestRunLocal_JobFails(t *testing.T) {
	source := newFakeChannel("src").
		on("pvesh create /nodes/pve1/qemu/100/migrate", testUPID+"\n").
		on("tasks/"+testUPID+"/status", `{"status":"stopped","exitstatus":"migration aborted"}`).
		on("tasks/"+testUPID+"/log", `[{"n":1,"t":"starting migration"},{"n":2,"t":"ERROR: no shared storage"}]`)

	err := localEngine().runLocal(context.Background(), localContext(source, GuestOptions{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration aborted")
	assert.Contains(t, err.Error(), "no shared storage")
}

func TestRunLocal_PollsUntilTerminal(t *testing.T) {
	source := newFakeChannel("src").
		on("pvesh create /nodes/pve1/qemu/100/migrate", testUPID+"\n").
		on("tasks/"+testUPID+"/status",
			`{"status":"running"}`,
			`{"status":"running"}`,
			`{"status":"stopped","exitstatus":"OK"}`)

	err := localEngine().runLocal(context.Background(), localContext(source, GuestOptions{}))
	require.NoError(t, err)
}
