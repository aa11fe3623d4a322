package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sabstore/backend/internal/domain/cart"
	"github.com/sabstore/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormCartRepository implements cart.Repository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new cart repository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByID retrieves a cart with its items by ID
func (r *GormCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*cart.Cart, error) {
	var c cart.Cart
	err := r.db.WithContext(ctx).Preload("Items").First(&c, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByOwner retrieves the cart belonging to a user or guest session
func (r *GormCartRepository) FindByOwner(ctx context.Context, owner cart.OwnerKey) (*cart.Cart, error) {
	query := r.db.WithContext(ctx).Preload("Items")
	if owner.IsUser() {
		query = query.Where("user_id = ?", *owner.UserID)
	} else if owner.SessionID != nil {
		query = query.Where("session_id = ?", *owner.SessionID)
	} else {
		return nil, shared.ErrNotFound
	}

	var c cart.Cart
	if err := query.First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Save creates or updates a cart together with its items
func (r *GormCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(c).Error
}

// DeleteItems removes every line of a cart
func (r *GormCartRepository) DeleteItems(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&cart.CartItem{}).Error
}

// Delete removes a cart and its items
func (r *GormCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", id).Delete(&cart.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&cart.Cart{}, "id = ?", id).Error
	})
}

var _ cart.Repository = (*GormCartRepository)(nil)
