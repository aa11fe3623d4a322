package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sabstore/backend/internal/domain/inventory"
	"github.com/sabstore/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormSyncLogRepository implements inventory.SyncLogRepository using GORM
type GormSyncLogRepository struct {
	db *gorm.DB
}

// NewGormSyncLogRepository creates a new sync log repository
func NewGormSyncLogRepository(db *gorm.DB) *GormSyncLogRepository {
	return &GormSyncLogRepository{db: db}
}

// FindByID retrieves a sync log entry by ID
func (r *GormSyncLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.SyncLogEntry, error) {
	var entry inventory.SyncLogEntry
	err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindByOrder retrieves the sync history of one order, newest first
func (r *GormSyncLogRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]inventory.SyncLogEntry, error) {
	var entries []inventory.SyncLogEntry
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at desc").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// FindAll retrieves sync log entries matching the filter
func (r *GormSyncLogRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.SyncLogEntry, int64, error) {
	query := r.db.WithContext(ctx).Model(&inventory.SyncLogEntry{})

	if status, ok := filter.Filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if syncType, ok := filter.Filters["sync_type"].(string); ok && syncType != "" {
		query = query.Where("sync_type = ?", syncType)
	}
	if productID, ok := filter.Filters["product_id"].(string); ok && productID != "" {
		query = query.Where("product_id = ?", productID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []inventory.SyncLogEntry
	if err := applyFilter(query, filter).Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// Save creates or updates a sync log entry
func (r *GormSyncLogRepository) Save(ctx context.Context, entry *inventory.SyncLogEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

var _ inventory.SyncLogRepository = (*GormSyncLogRepository)(nil)
