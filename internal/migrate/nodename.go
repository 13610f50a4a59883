package migrate

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

// ResolveNodeName 确定主机在 PVE 里的规范节点名
// 按序尝试，第一个命中即返回，永不失败：
//  (a) OS hostname 与某个集群成员名完全一致
//  (b) 集群只有一个成员时直接取它（主机改名后 hostname 可能对不上）
//  (c) 成员名与 hostname 互为前缀/后缀
//  (d) 退回原始 hostname
func ResolveNodeName(ctx context.Context, ch Channel, timeout time.Duration) string {
	hostname := osHostname(ctx, ch, timeout)
	members := clusterMemberNames(ctx, ch, timeout)

	resolvers := []func() (string, bool){
		func() (string, bool) {
			for _, m := range members {
				if m == hostname && m != "" {
					return m, true
				}
			}
			return "", false
		},
		func() (string, bool) {
			if len(members) == 1 && members[0] != "" {
				return members[0], true
			}
			return "", false
		},
		func() (string, bool) {
			if hostname == "" {
				return "", false
			}
			for _, m := range members {
				if m == "" {
					continue
				}
				if strings.HasPrefix(hostname, m) || strings.HasSuffix(hostname, m) ||
					strings.HasPrefix(m, hostname) || strings.HasSuffix(m, hostname) {
					return m, true
				}
			}
			return "", false
		},
		func() (string, bool) {
			return hostname, true
		},
	}

	for _, resolve := range resolvers {
		if name, ok := resolve(); ok {
			return name
		}
	}
	return hostname
}

func osHostname(ctx context.Context, ch Channel, timeout time.Duration) string {
	out, err := ch.Exec(ctx, "hostname", timeout)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// clusterMemberNames 列出集群成员节点名，失败时返回 nil（解析链会降级到 hostname）
func clusterMemberNames(ctx context.Context, ch Channel, timeout time.Duration) []string {
	out, err := ch.Exec(ctx, "pvesh get /nodes --output-format json", timeout)
	if err != nil {
		return nil
	}
	var nodes []struct {
		Node string `json:"node"`
	}
	if err := json.Unmarshal([]byte(extractJSON(out)), &nodes); err != nil {
		return nil
	}
	names := make([]string, 0, len(nodes))
	for _, n := range nodes {
		names = append(names, n.Node)
	}
	return names
}

// ClusterName 查询主机所属集群名，独立节点或查询失败返回空串
func ClusterName(ctx context.Context, ch Channel, timeout time.Duration) string {
	out, err := ch.Exec(ctx, "pvesh get /cluster/status --output-format json", timeout)
	if err != nil {
		return ""
	}
	var entries []struct {
		Type string `json:"type"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal([]byte(extractJSON(out)), &entries); err != nil {
		return ""
	}
	for _, e := range entries {
		if e.Type == "cluster" {
			return e.Name
		}
	}
	return ""
}

// extractJSON 剥掉 pvesh 输出里混入的告警行，只保留 JSON 主体
func extractJSON(out string) string {
	start := strings.IndexAny(out, "[{")
	if start < 0 {
		return out
	}
	end := strings.LastIndexAny(out, "]}")
	if end < start {
		return out
	}
	return out[start : end+1]
}
