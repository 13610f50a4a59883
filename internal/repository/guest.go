package repository

import (
	"context"
	"errors"
	"time"

	"pvefleet/internal/model"

	"gorm.io/gorm"
)

type GuestRepository interface {
	GetByNodeAndVMID(ctx context.Context, nodeID int64, vmid uint32) (*model.Guest, error)
	ListByNode(ctx context.Context, nodeID int64) ([]*model.Guest, error)
	List(ctx context.Context) ([]*model.Guest, error)
	Upsert(ctx context.Context, guest *model.Guest) error
	DeleteStale(ctx context.Context, nodeID int64, before time.Time) error
	DeleteByNodeAndVMID(ctx context.Context, nodeID int64, vmid uint32) error
}

func NewGuestRepository(r *Repository) GuestRepository {
	return &guestRepository{Repository: r}
}

type guestRepository struct {
	*Repository
}

func (r *guestRepository) GetByNodeAndVMID(ctx context.Context, nodeID int64, vmid uint32) (*model.Guest, error) {
	var guest model.Guest
	if err := r.DB(ctx).Where("node_id = ? AND vmid = ?", nodeID, vmid).First(&guest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &guest, nil
}

func (r *guestRepository) ListByNode(ctx context.Context, nodeID int64) ([]*model.Guest, error) {
	var guests []*model.Guest
	if err := r.DB(ctx).Where("node_id = ?", nodeID).Order("vmid").Find(&guests).Error; err != nil {
		return nil, err
	}
	return guests, nil
}

func (r *guestRepository) List(ctx context.Context) ([]*model.Guest, error) {
	var guests []*model.Guest
	if err := r.DB(ctx).Order("node_id, vmid").Find(&guests).Error; err != nil {
		return nil, err
	}
	return guests, nil
}

// Upsert 按 (node_id, vmid) 新增或更新客户机记录
func (r *guestRepository) Upsert(ctx context.Context, guest *model.Guest) error {
	existing, err := r.GetByNodeAndVMID(ctx, guest.NodeID, guest.VMID)
	if err != nil {
		return err
	}
	guest.LastSyncTime = time.Now()
	if existing == nil {
		return r.DB(ctx).Create(guest).Error
	}
	guest.Id = existing.Id
	guest.CreateTime = existing.CreateTime
	return r.DB(ctx).Save(guest).Error
}

// DeleteStale 删除一次全量同步后未被刷新的残留记录
func (r *guestRepository) DeleteStale(ctx context.Context, nodeID int64, before time.Time) error {
	return r.DB(ctx).Where("node_id = ? AND last_sync_time < ?", nodeID, before).
		Delete(&model.Guest{}).Error
}

func (r *guestRepository) DeleteByNodeAndVMID(ctx context.Context, nodeID int64, vmid uint32) error {
	return r.DB(ctx).Where("node_id = ? AND vmid = ?", nodeID, vmid).Delete(&model.Guest{}).Error
}
