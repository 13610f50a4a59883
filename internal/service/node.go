package service

import (
	"context"
	"time"

	v1 "pvefleet/api/v1"
	"pvefleet/internal/migrate"
	"pvefleet/internal/model"
	"pvefleet/internal/repository"
	"pvefleet/pkg/proxmox"

	"go.uber.org/zap"
)

type NodeService interface {
	CreateNode(ctx context.Context, userId string, req *v1.CreateNodeRequest) (int64, error)
	UpdateNode(ctx context.Context, userId string, id int64, req *v1.UpdateNodeRequest) error
	DeleteNode(ctx context.Context, id int64) error
	GetNode(ctx context.Context, id int64) (*v1.NodeItem, error)
	ListNodes(ctx context.Context) ([]v1.NodeItem, error)
	TestNode(ctx context.Context, id int64) (*v1.TestNodeResponseData, error)
	ListGuests(ctx context.Context, req *v1.ListGuestsRequest) ([]v1.GuestItem, error)
	RefreshGuestInventory(ctx context.Context, nodeID int64) error
	SyncAllNodes(ctx context.Context) error
}

func NewNodeService(
	service *Service,
	nodeRepo repository.NodeRepository,
	guestRepo repository.GuestRepository,
	dialer migrate.Dialer,
) NodeService {
	return &nodeService{
		nodeRepo:  nodeRepo,
		guestRepo: guestRepo,
		dialer:    dialer,
		Service:   service,
	}
}

// NewInventoryRefresher NodeService 同时承担迁移后的资产刷新
func NewInventoryRefresher(svc NodeService) migrate.InventoryRefresher {
	return svc
}

type nodeService struct {
	nodeRepo  repository.NodeRepository
	guestRepo repository.GuestRepository
	dialer    migrate.Dialer
	*Service
}

func (s *nodeService) CreateNode(ctx context.Context, userId string, req *v1.CreateNodeRequest) (int64, error) {
	existing, err := s.nodeRepo.GetByNodeName(ctx, req.NodeName)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, v1.ErrNodeNameConflict
	}

	node := &model.Node{
		NodeName:    req.NodeName,
		SSHHost:     req.SSHHost,
		SSHPort:     req.SSHPort,
		SSHUser:     req.SSHUser,
		ApiUrl:      req.ApiUrl,
		ApiTokenId:  req.ApiTokenId,
		ApiToken:    req.ApiToken,
		Status:      model.NodeStatusUnknown,
		Description: req.Description,
		Creator:     userId,
		Modifier:    userId,
	}
	if node.SSHPort <= 0 {
		node.SSHPort = 22
	}
	if node.SSHUser == "" {
		node.SSHUser = "root"
	}
	if err := s.nodeRepo.Create(ctx, node); err != nil {
		return 0, err
	}

	// 注册后立即探一次，失败不阻断注册
	if err := s.RefreshGuestInventory(ctx, node.Id); err != nil {
		s.logger.WithContext(ctx).Warn("initial inventory sync failed", zap.Int64("node_id", node.Id), zap.Error(err))
	}
	return node.Id, nil
}

func (s *nodeService) UpdateNode(ctx context.Context, userId string, id int64, req *v1.UpdateNodeRequest) error {
	node, err := s.nodeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if node == nil {
		return v1.ErrNodeNotFound
	}

	if req.SSHHost != "" {
		node.SSHHost = req.SSHHost
	}
	if req.SSHPort > 0 {
		node.SSHPort = req.SSHPort
	}
	if req.SSHUser != "" {
		node.SSHUser = req.SSHUser
	}
	if req.ApiUrl != "" {
		node.ApiUrl = req.ApiUrl
	}
	if req.ApiTokenId != "" {
		node.ApiTokenId = req.ApiTokenId
	}
	if req.ApiToken != "" {
		node.ApiToken = req.ApiToken
	}
	if req.Description != "" {
		node.Description = req.Description
	}
	node.Modifier = userId
	return s.nodeRepo.Update(ctx, node)
}

func (s *nodeService) DeleteNode(ctx context.Context, id int64) error {
	node, err := s.nodeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if node == nil {
		return v1.ErrNodeNotFound
	}
	return s.nodeRepo.Delete(ctx, id)
}

func (s *nodeService) GetNode(ctx context.Context, id int64) (*v1.NodeItem, error) {
	node, err := s.nodeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, v1.ErrNodeNotFound
	}
	item := nodeToItem(node)
	return &item, nil
}

func (s *nodeService) ListNodes(ctx context.Context) ([]v1.NodeItem, error) {
	nodes, err := s.nodeRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]v1.NodeItem, 0, len(nodes))
	for _, node := range nodes {
		items = append(items, nodeToItem(node))
	}
	return items, nil
}

// TestNode 连通性测试：SSH 通道 + PVE API 各测一次，顺带探测节点名和版本
func (s *nodeService) TestNode(ctx context.Context, id int64) (*v1.TestNodeResponseData, error) {
	node, err := s.nodeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, v1.ErrNodeNotFound
	}

	result := &v1.TestNodeResponseData{}

	ch, err := s.dialer.Dial(ctx, migrate.Endpoint{Host: node.SSHHost, Port: node.SSHPort, User: node.SSHUser})
	if err != nil {
		result.Message = "ssh: " + err.Error()
	} else {
		result.SSHReachable = true
		result.NodeName = migrate.ResolveNodeName(ctx, ch, 30*time.Second)
		_ = ch.Close()
	}

	if node.ApiUrl != "" {
		client, cerr := proxmox.NewClient(node.ApiUrl, node.ApiTokenId, node.ApiToken)
		if cerr == nil {
			if version, verr := client.GetVersion(ctx); verr == nil {
				result.ApiReachable = true
				result.PveVersion = version.Version
			} else if result.Message == "" {
				result.Message = "api: " + verr.Error()
			}
		}
	}

	status := model.NodeStatusOffline
	if result.SSHReachable {
		status = model.NodeStatusOnline
	}
	if err := s.nodeRepo.UpdateStatus(ctx, id, status); err != nil {
		s.logger.WithContext(ctx).Warn("update node status failed", zap.Int64("node_id", id), zap.Error(err))
	}
	return result, nil
}

func (s *nodeService) ListGuests(ctx context.Context, req *v1.ListGuestsRequest) ([]v1.GuestItem, error) {
	var guests []*model.Guest
	var err error
	if req.NodeID > 0 {
		guests, err = s.guestRepo.ListByNode(ctx, req.NodeID)
	} else {
		guests, err = s.guestRepo.List(ctx)
	}
	if err != nil {
		return nil, err
	}

	nodeIDs := make([]int64, 0, len(guests))
	seen := make(map[int64]bool)
	for _, g := range guests {
		if !seen[g.NodeID] {
			seen[g.NodeID] = true
			nodeIDs = append(nodeIDs, g.NodeID)
		}
	}
	nodes, err := s.nodeRepo.GetByIDs(ctx, nodeIDs)
	if err != nil {
		return nil, err
	}

	items := make([]v1.GuestItem, 0, len(guests))
	for _, g := range guests {
		item := v1.GuestItem{
			Id:           g.Id,
			NodeID:       g.NodeID,
			VMID:         g.VMID,
			GuestName:    g.GuestName,
			GuestType:    g.GuestType,
			Status:       g.Status,
			CPUNum:       g.CPUNum,
			MemorySize:   g.MemorySize,
			DiskSize:     g.DiskSize,
			LastSyncTime: g.LastSyncTime,
		}
		if node, ok := nodes[g.NodeID]; ok {
			item.NodeName = node.NodeName
		}
		items = append(items, item)
	}
	return items, nil
}

// RefreshGuestInventory 从节点 PVE API 拉取客户机清单并落库
// 同步窗口开始前的记录在结束时清除，保证删除的客户机不会残留
func (s *nodeService) RefreshGuestInventory(ctx context.Context, nodeID int64) error {
	node, err := s.nodeRepo.GetByID(ctx, nodeID)
	if err != nil {
		return err
	}
	if node == nil {
		return v1.ErrNodeNotFound
	}
	if node.ApiUrl == "" {
		// 未配置 API 的节点跳过同步，不算失败
		s.logger.WithContext(ctx).Debug("node has no api url, skipping inventory sync", zap.Int64("node_id", nodeID))
		return nil
	}

	client, err := proxmox.NewClient(node.ApiUrl, node.ApiTokenId, node.ApiToken)
	if err != nil {
		return err
	}

	clusterName := ""
	nodeName := node.NodeName
	if status, serr := client.GetClusterStatus(ctx); serr == nil {
		for _, item := range status {
			if item.Type == "cluster" {
				clusterName = item.Name
			}
		}
	}

	resources, err := client.GetVMResources(ctx)
	if err != nil {
		if uerr := s.nodeRepo.UpdateStatus(ctx, nodeID, model.NodeStatusOffline); uerr != nil {
			s.logger.WithContext(ctx).Warn("update node status failed", zap.Int64("node_id", nodeID), zap.Error(uerr))
		}
		return err
	}

	syncStart := time.Now()
	synced := 0
	for _, res := range resources {
		// API 报告的是整个集群的资源，只收属于本节点的
		if nodeName != "" && res.Node != nodeName {
			continue
		}
		guest := &model.Guest{
			NodeID:       nodeID,
			VMID:         uint32(res.VMID),
			GuestName:    res.Name,
			GuestType:    res.Type,
			Status:       res.Status,
			CPUNum:       int(res.MaxCPU),
			MemorySize:   res.MaxMem,
			DiskSize:     res.MaxDisk,
			LastSyncTime: syncStart,
		}
		if err := s.guestRepo.Upsert(ctx, guest); err != nil {
			s.logger.WithContext(ctx).Warn("upsert guest failed",
				zap.Int64("node_id", nodeID), zap.Uint32("vmid", guest.VMID), zap.Error(err))
			continue
		}
		synced++
	}

	if err := s.guestRepo.DeleteStale(ctx, nodeID, syncStart); err != nil {
		s.logger.WithContext(ctx).Warn("delete stale guests failed", zap.Int64("node_id", nodeID), zap.Error(err))
	}
	if err := s.nodeRepo.UpdateSyncResult(ctx, nodeID, nodeName, clusterName, model.NodeStatusOnline); err != nil {
		s.logger.WithContext(ctx).Warn("update sync result failed", zap.Int64("node_id", nodeID), zap.Error(err))
	}

	s.logger.WithContext(ctx).Info("guest inventory synced",
		zap.Int64("node_id", nodeID), zap.Int("guests", synced), zap.String("cluster", clusterName))
	return nil
}

// SyncAllNodes 全量同步，由定时任务调用
func (s *nodeService) SyncAllNodes(ctx context.Context) error {
	nodes, err := s.nodeRepo.List(ctx)
	if err != nil {
		return err
	}
	for _, node := range nodes {
		if err := s.RefreshGuestInventory(ctx, node.Id); err != nil {
			s.logger.WithContext(ctx).Warn("inventory sync failed",
				zap.Int64("node_id", node.Id), zap.String("node", node.NodeName), zap.Error(err))
		}
	}
	return nil
}

func nodeToItem(node *model.Node) v1.NodeItem {
	return v1.NodeItem{
		Id:           node.Id,
		NodeName:     node.NodeName,
		SSHHost:      node.SSHHost,
		SSHPort:      node.SSHPort,
		SSHUser:      node.SSHUser,
		ApiUrl:       node.ApiUrl,
		ClusterName:  node.ClusterName,
		Status:       node.Status,
		Description:  node.Description,
		LastSyncTime: node.LastSyncTime,
	}
}
