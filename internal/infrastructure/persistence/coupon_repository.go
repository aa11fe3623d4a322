package persistence

import (
	"context"
	"errors"

	"github.com/sabstore/backend/internal/domain/coupon"
	"github.com/sabstore/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormCouponRepository implements coupon.Repository using GORM
type GormCouponRepository struct {
	db *gorm.DB
}

// NewGormCouponRepository creates a new coupon repository
func NewGormCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// FindByCode retrieves a coupon by its code
func (r *GormCouponRepository) FindByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	var c coupon.Coupon
	err := r.db.WithContext(ctx).First(&c, "code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// IncrementUsage bumps times_used in a single guarded UPDATE so two orders
// racing for the last use of a capped coupon cannot both win.
func (r *GormCouponRepository) IncrementUsage(ctx context.Context, code string) error {
	result := r.db.WithContext(ctx).
		Model(&coupon.Coupon{}).
		Where("code = ? AND is_active = ? AND (usage_limit IS NULL OR times_used < usage_limit)", code, true).
		Update("times_used", gorm.Expr("times_used + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Distinguish an exhausted coupon from an unknown code.
		var count int64
		if err := r.db.WithContext(ctx).Model(&coupon.Coupon{}).
			Where("code = ?", code).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return shared.ErrNotFound
		}
		return shared.ErrCouponExhausted
	}
	return nil
}

// Save creates or updates a coupon
func (r *GormCouponRepository) Save(ctx context.Context, c *coupon.Coupon) error {
	return r.db.WithContext(ctx).Save(c).Error
}

var _ coupon.Repository = (*GormCouponRepository)(nil)
