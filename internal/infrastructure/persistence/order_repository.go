package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sabstore/backend/internal/domain/order"
	"github.com/sabstore/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new order repository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID retrieves an order with its items by ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&o, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByReference retrieves an order with its items by its public reference
func (r *GormOrderRepository) FindByReference(ctx context.Context, reference string) (*order.Order, error) {
	var o order.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&o, "order_reference = ?", reference).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByOwner retrieves the orders of a user or guest session
func (r *GormOrderRepository) FindByOwner(ctx context.Context, userID *uuid.UUID, sessionID *string, filter shared.Filter) ([]order.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&order.Order{})
	switch {
	case userID != nil:
		query = query.Where("user_id = ?", *userID)
	case sessionID != nil:
		query = query.Where("session_id = ?", *sessionID)
	default:
		return []order.Order{}, 0, nil
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []order.Order
	if err := applyFilter(query.Preload("Items"), filter).Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// FindAll retrieves all orders for the back office
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&order.Order{})

	if status, ok := filter.Filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if fulfillment, ok := filter.Filters["order_status"].(string); ok && fulfillment != "" {
		query = query.Where("order_status = ?", fulfillment)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []order.Order
	if err := applyFilter(query.Preload("Items"), filter).Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ExistsByReference reports whether an order with the reference exists
func (r *GormOrderRepository) ExistsByReference(ctx context.Context, reference string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&order.Order{}).
		Where("order_reference = ?", reference).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an order together with its item snapshots
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(o).Error
}

// MarkPaid persists the pending-to-paid transition guarded by the current
// status. The guard makes replayed confirmations harmless: the second writer
// matches zero rows and gets ErrInvalidState.
func (r *GormOrderRepository) MarkPaid(ctx context.Context, o *order.Order) error {
	result := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Where("id = ? AND status = ?", o.ID, order.StatusPending).
		Updates(map[string]any{
			"status":            o.Status,
			"total":             o.Total,
			"payment_method":    o.PaymentMethod,
			"gateway_reference": o.GatewayReference,
			"paid_at":           o.PaidAt,
			"version":           o.Version,
			"updated_at":        o.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrInvalidState
	}
	return nil
}

// UpdateFulfillment persists a fulfillment status change
func (r *GormOrderRepository) UpdateFulfillment(ctx context.Context, o *order.Order) error {
	result := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Where("id = ?", o.ID).
		Updates(map[string]any{
			"order_status": o.OrderStatus,
			"version":      o.Version,
			"updated_at":   o.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ order.Repository = (*GormOrderRepository)(nil)
