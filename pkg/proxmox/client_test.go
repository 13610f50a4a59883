package proxmox

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetVMResources(t *testing.T) {
	var gotPath, gotType, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotType = r.URL.Query().Get("type")
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"data":[{"vmid":100,"name":"web01","node":"pve1","type":"qemu","status":"running","maxcpu":4,"maxmem":8589934592,"maxdisk":34359738368,"uptime":3600}]}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "root@pam!sync", "secret")
	require.NoError(t, err)

	resources, err := client.GetVMResources(context.Background())
	require.NoError(t, err)

	// 查询参数必须落在 query 上，路径里混入 ?type=vm 会被转义成 %3F
	assert.Equal(t, "/api2/json/cluster/resources", gotPath)
	assert.Equal(t, "vm", gotType)
	assert.Equal(t, "PVEAPIToken=root@pam!sync=secret", gotAuth)

	require.Len(t, resources, 1)
	assert.Equal(t, int64(100), resources[0].VMID)
	assert.Equal(t, "pve1", resources[0].Node)
	assert.Equal(t, "qemu", resources[0].Type)
}

func TestGetClusterStatus(t *testing.T) {
	var gotPath, gotRawQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRawQuery = r.URL.RawQuery
		w.Write([]byte(`{"data":[{"type":"cluster","name":"prod","online":0},{"type":"node","name":"pve1","online":1}]}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "root@pam!sync", "secret")
	require.NoError(t, err)

	items, err := client.GetClusterStatus(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/api2/json/cluster/status", gotPath)
	assert.Empty(t, gotRawQuery)
	require.Len(t, items, 2)
	assert.Equal(t, "prod", items[0].Name)
}

func TestGetErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "authentication failure", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "root@pam!sync", "bad")
	require.NoError(t, err)

	_, err = client.GetVMResources(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
