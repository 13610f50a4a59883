package migrate

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"pvefleet/internal/model"
)

// DefaultDiskEstimate 配置解析不出磁盘大小时的保守估计（10 GiB）
const DefaultDiskEstimate = int64(10) << 30

var diskSizeRe = regexp.MustCompile(`size=(\d+)([KMGT]?)`)

// guestCommand 按客户机类型返回 qm 或 pct 子命令
func guestCommand(guestType string) string {
	if guestType == model.GuestTypeLxc {
		return "pct"
	}
	return "qm"
}

// fetchGuestConfig 读取客户机配置文本（qm config / pct config）
func fetchGuestConfig(ctx context.Context, ch Channel, guestType string, vmid uint32, timeout time.Duration) (string, error) {
	out, err := ch.Exec(ctx, fmt.Sprintf("%s config %d", guestCommand(guestType), vmid), timeout)
	if err != nil {
		return "", err
	}
	return out, nil
}

// EstimateDiskBytes 从配置文本估算磁盘总占用
// 累加所有 size= 标记；一个都解析不出时返回保守默认值，估算失败永不阻塞迁移
func EstimateDiskBytes(config string) int64 {
	var total int64
	for _, m := range diskSizeRe.FindAllStringSubmatch(config, -1) {
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}
		switch m[2] {
		case "K":
			n <<= 10
		case "M":
			n <<= 20
		case "G":
			n <<= 30
		case "T":
			n <<= 40
		}
		total += n
	}
	if total <= 0 {
		return DefaultDiskEstimate
	}
	return total
}

// hasLockMarker 配置里是否残留 lock 标记
func hasLockMarker(config string) bool {
	for _, line := range strings.Split(config, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "lock:") {
			return true
		}
	}
	return false
}

var nicLineRe = regexp.MustCompile(`(?m)^(net\d+):\s*(.+)$`)
var bridgeRe = regexp.MustCompile(`bridge=[^,]+`)

// parseNICLines 提取配置里的网卡定义，键形如 net0
func parseNICLines(config string) map[string]string {
	nics := make(map[string]string)
	for _, m := range nicLineRe.FindAllStringSubmatch(config, -1) {
		nics[m[1]] = strings.TrimSpace(m[2])
	}
	return nics
}

// replaceBridge 把网卡定义里的 bridge= 换成目标网桥
func replaceBridge(nicValue, bridge string) string {
	if bridgeRe.MatchString(nicValue) {
		return bridgeRe.ReplaceAllString(nicValue, "bridge="+bridge)
	}
	return nicValue + ",bridge=" + bridge
}
