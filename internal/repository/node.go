package repository

import (
	"context"
	"errors"
	"time"

	"pvefleet/internal/model"

	"gorm.io/gorm"
)

type NodeRepository interface {
	Create(ctx context.Context, node *model.Node) error
	Update(ctx context.Context, node *model.Node) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*model.Node, error)
	GetByNodeName(ctx context.Context, nodeName string) (*model.Node, error)
	List(ctx context.Context) ([]*model.Node, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.Node, error) // 批量查询节点，返回 map[id]*node
	UpdateStatus(ctx context.Context, id int64, status string) error
	UpdateSyncResult(ctx context.Context, id int64, nodeName, clusterName, status string) error
}

func NewNodeRepository(r *Repository) NodeRepository {
	return &nodeRepository{Repository: r}
}

type nodeRepository struct {
	*Repository
}

func (r *nodeRepository) Create(ctx context.Context, node *model.Node) error {
	return r.DB(ctx).Create(node).Error
}

func (r *nodeRepository) Update(ctx context.Context, node *model.Node) error {
	return r.DB(ctx).Save(node).Error
}

func (r *nodeRepository) Delete(ctx context.Context, id int64) error {
	return r.DB(ctx).Where("id = ?", id).Delete(&model.Node{}).Error
}

func (r *nodeRepository) GetByID(ctx context.Context, id int64) (*model.Node, error) {
	var node model.Node
	if err := r.DB(ctx).Where("id = ?", id).First(&node).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &node, nil
}

func (r *nodeRepository) GetByNodeName(ctx context.Context, nodeName string) (*model.Node, error) {
	var node model.Node
	if err := r.DB(ctx).Where("node_name = ?", nodeName).First(&node).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &node, nil
}

func (r *nodeRepository) List(ctx context.Context) ([]*model.Node, error) {
	var nodes []*model.Node
	if err := r.DB(ctx).Order("id").Find(&nodes).Error; err != nil {
		return nil, err
	}
	return nodes, nil
}

// GetByIDs 批量查询节点，返回 map[id]*node，用于批量填充名称
func (r *nodeRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.Node, error) {
	if len(ids) == 0 {
		return make(map[int64]*model.Node), nil
	}

	var nodes []*model.Node
	if err := r.DB(ctx).Where("id IN ?", ids).Find(&nodes).Error; err != nil {
		return nil, err
	}

	result := make(map[int64]*model.Node, len(nodes))
	for _, node := range nodes {
		result[node.Id] = node
	}
	return result, nil
}

func (r *nodeRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	return r.DB(ctx).Model(&model.Node{}).Where("id = ?", id).
		Update("status", status).Error
}

// UpdateSyncResult 资产同步后回写探测到的节点名/集群名和状态
func (r *nodeRepository) UpdateSyncResult(ctx context.Context, id int64, nodeName, clusterName, status string) error {
	return r.DB(ctx).Model(&model.Node{}).Where("id = ?", id).Updates(map[string]interface{}{
		"node_name":      nodeName,
		"cluster_name":   clusterName,
		"status":         status,
		"last_sync_time": time.Now(),
	}).Error
}
