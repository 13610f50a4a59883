package migrate

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// 根文件系统被选中时使用的固定工作子目录，避免直接写在 / 下
const rootFsWorkDir = "/var/tmp/pvefleet-migrate"

// 伪文件系统设备前缀，不能作为转储工作目录
var pseudoFsDevices = []string{
	"proc", "sysfs", "devtmpfs", "udev", "tmpfs", "devpts",
	"cgroup", "efivarfs", "overlay", "none", "fuse",
}

// 引导类挂载点，同样排除
var excludedMounts = []string{"/boot", "/boot/efi", "/efi"}

// SelectWorkingPath 在远端挑选一个剩余空间足够的工作目录
// 解析 df 输出，剔除伪文件系统和引导挂载，取剩余空间最大者（而不是默认数据卷，
// 避免把系统盘写满）；选中根文件系统时落到固定子目录；目录不存在则创建。
// 没有任何候选满足 requiredBytes 时报错，调用方降级到配置的默认目录并告警。
func SelectWorkingPath(ctx context.Context, ch Channel, requiredBytes int64, timeout time.Duration) (string, error) {
	out, err := ch.Exec(ctx, "df -PB1", timeout)
	if err != nil {
		return "", fmt.Errorf("list mounted filesystems on %s: %w", ch.Host(), err)
	}

	type candidate struct {
		mount string
		avail int64
	}
	var candidates []candidate

	lines := strings.Split(out, "\n")
	for i, line := range lines {
		if i == 0 || strings.TrimSpace(line) == "" {
			continue // 表头
		}
		fields := strings.Fields(line)
		if len(fields) < 6 {
			continue
		}
		device, mount := fields[0], fields[5]
		avail, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			continue
		}
		if isPseudoFs(device) || isExcludedMount(mount) {
			continue
		}
		if avail <= requiredBytes {
			continue
		}
		candidates = append(candidates, candidate{mount: mount, avail: avail})
	}

	if len(candidates) == 0 {
		return "", fmt.Errorf("no filesystem on %s has more than %d bytes free", ch.Host(), requiredBytes)
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.avail > best.avail {
			best = c
		}
	}

	path := best.mount
	if path == "/" {
		path = rootFsWorkDir
	}
	if _, err := ch.Exec(ctx, fmt.Sprintf("mkdir -p %s", path), timeout); err != nil {
		return "", fmt.Errorf("create working directory %s on %s: %w", path, ch.Host(), err)
	}
	return path, nil
}

func isPseudoFs(device string) bool {
	for _, p := range pseudoFsDevices {
		if strings.HasPrefix(device, p) {
			return true
		}
	}
	return false
}

func isExcludedMount(mount string) bool {
	for _, m := range excludedMounts {
		if mount == m || strings.HasPrefix(mount, m+"/") {
			return true
		}
	}
	return false
}
