package migrate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dfFixture = `Filesystem      1-blocks        Used   Available Capacity Mounted on
udev           16777216000           0 16777216000       0% /dev
tmpfs           3355443200     1048576  3354394624       1% /run
/dev/sda3      52428800000 20971520000 31457280000      40% /
/dev/sdb1     214748364800  4294967296 210453397504       2% /data
/dev/sda2       1073741824   104857600   968884224      10% /boot/efi
`

func TestSelectWorkingPath_PicksLargestFree(t *testing.T) {
	ch := newFakeChannel("pve1").on("df -PB1", dfFixture)

	path, err := SelectWorkingPath(context.Background(), ch, 10<<30, testTimeout)
	require.NoError(t, err)
	assert.Equal(t, "/data", path)
	assert.True(t, ch.sawCommand("mkdir -p /data"))
}

func TestSelectWorkingPath_ExcludesPseudoFsAndBoot(t *testing.T) {
	// tmpfs 和 /boot/efi 空间再大也不能选
	fixture := `Filesystem      1-blocks        Used   Available Capacity Mounted on
tmpfs         429496729600           0 429496729600       0% /run
/dev/sda2     429496729600           0 429496729600       0% /boot/efi
/dev/sda3      52428800000 20971520000 31457280000      40% /
`
	ch := newFakeChannel("pve1").on("df -PB1", fixture)

	path, err := SelectWorkingPath(context.Background(), ch, 10<<30, testTimeout)
	require.NoError(t, err)
	assert.Equal(t, rootFsWorkDir, path)
}

func TestSelectWorkingPath_RootUsesFixedSubdir(t *testing.T) {
	fixture := `Filesystem      1-blocks        Used   Available Capacity Mounted on
/dev/sda3      52428800000 20971520000 31457280000      40% /
`
	ch := newFakeChannel("pve1").on("df -PB1", fixture)

	path, err := SelectWorkingPath(context.Background(), ch, 1<<30, testTimeout)
	require.NoError(t, err)
	assert.Equal(t, "/var/tmp/pvefleet-migrate", path)
	assert.True(t, ch.sawCommand("mkdir -p /var/tmp/pvefleet-migrate"))
}

func TestSelectWorkingPath_InsufficientSpace(t *testing.T) {
	ch := newFakeChannel("pve1").on("df -PB1", dfFixture)

	_, err := SelectWorkingPath(context.Background(), ch, 300<<30, testTimeout)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no filesystem")
}

func TestSelectWorkingPath_IgnoresMalformedLines(t *testing.T) {
	fixture := `Filesystem      1-blocks        Used   Available Capacity Mounted on
garbage line
/dev/sdb1     214748364800  4294967296 notanumber       2% /data
/dev/sda3      52428800000 20971520000 31457280000      40% /
`
	ch := newFakeChannel("pve1").on("df -PB1", fixture)

	path, err := SelectWorkingPath(context.Background(), ch, 1<<30, testTimeout)
	require.NoError(t, err)
	assert.Equal(t, rootFsWorkDir, path)
}
