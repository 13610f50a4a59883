package migrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateDiskBytes(t *testing.T) {
	config := `boot: order=scsi0
scsi0: local-lvm:vm-100-disk-0,size=32G
scsi1: local-lvm:vm-100-disk-1,size=512M
memory: 4096
`
	assert.Equal(t, int64(32)<<30+int64(512)<<20, EstimateDiskBytes(config))
}

func TestEstimateDiskBytes_NoSizeMarkers(t *testing.T) {
	assert.Equal(t, DefaultDiskEstimate, EstimateDiskBytes("memory: 2048\ncores: 2\n"))
	assert.Equal(t, DefaultDiskEstimate, EstimateDiskBytes(""))
}

func TestHasLockMarker(t *testing.T) {
	assert.True(t, hasLockMarker("memory: 2048\nlock: backup\n"))
	assert.False(t, hasLockMarker("memory: 2048\nname: unlocked-vm\n"))
}

func TestParseNICLines(t *testing.T) {
	config := `net0: virtio=AA:BB:CC:DD:EE:FF,bridge=vmbr0,firewall=1
net1: e1000=11:22:33:44:55:66,bridge=vmbr1
memory: 2048
`
	nics := parseNICLines(config)
	assert.Len(t, nics, 2)
	assert.Equal(t, "virtio=AA:BB:CC:DD:EE:FF,bridge=vmbr0,firewall=1", nics["net0"])
	assert.Equal(t, "e1000=11:22:33:44:55:66,bridge=vmbr1", nics["net1"])
}

func TestReplaceBridge(t *testing.T) {
	assert.Equal(t,
		"virtio=AA:BB:CC:DD:EE:FF,bridge=vmbr9,firewall=1",
		replaceBridge("virtio=AA:BB:CC:DD:EE:FF,bridge=vmbr0,firewall=1", "vmbr9"))

	// 没有 bridge= 时追加
	assert.Equal(t,
		"virtio=AA:BB:CC:DD:EE:FF,bridge=vmbr9",
		replaceBridge("virtio=AA:BB:CC:DD:EE:FF", "vmbr9"))
}

func TestGuestCommand(t *testing.T) {
	assert.Equal(t, "qm", guestCommand("qemu"))
	assert.Equal(t, "pct", guestCommand("lxc"))
}
