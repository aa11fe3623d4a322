package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sabstore/backend/internal/domain/inventory"
	"github.com/sabstore/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormStockRepository implements inventory.StockRepository using GORM
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository creates a new stock repository
func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

// FindByProductID retrieves the stock record for a product
func (r *GormStockRepository) FindByProductID(ctx context.Context, productID uuid.UUID) (*inventory.StockItem, error) {
	var item inventory.StockItem
	err := r.db.WithContext(ctx).First(&item, "product_id = ?", productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByBarcode retrieves a stock record by barcode
func (r *GormStockRepository) FindByBarcode(ctx context.Context, barcode string) (*inventory.StockItem, error) {
	var item inventory.StockItem
	err := r.db.WithContext(ctx).First(&item, "barcode = ?", barcode).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Save creates or updates a stock record
func (r *GormStockRepository) Save(ctx context.Context, item *inventory.StockItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// SaveWithLock persists the item guarded by its previous version
func (r *GormStockRepository) SaveWithLock(ctx context.Context, item *inventory.StockItem) error {
	result := r.db.WithContext(ctx).
		Model(item).
		Where("id = ? AND version = ?", item.ID, item.Version-1).
		Updates(item)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// TryDeduct performs a single-row compare-and-swap decrement clamped at zero.
// The valuation columns are recomputed in the same UPDATE so a winning swap
// never leaves them stale.
func (r *GormStockRepository) TryDeduct(ctx context.Context, productID uuid.UUID, quantity, expectedCurrent int) (int, bool, error) {
	newValue := expectedCurrent - quantity
	if newValue < 0 {
		newValue = 0
	}

	result := r.db.WithContext(ctx).
		Model(&inventory.StockItem{}).
		Where("product_id = ? AND current_stock = ?", productID, expectedCurrent).
		Updates(map[string]any{
			"current_stock": newValue,
			"total_cost":    gorm.Expr("round(cost_price * ?, 2)", newValue),
			"total_value":   gorm.Expr("round(sales_price * ?, 2)", newValue),
			"margin":        gorm.Expr("round((sales_price - cost_price) * ?, 2)", newValue),
			"margin_percentage": gorm.Expr(
				"CASE WHEN ? = 0 OR cost_price <= 0 THEN 0 ELSE round((sales_price - cost_price) / cost_price * 100, 2) END",
				newValue),
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return 0, false, result.Error
	}
	if result.RowsAffected == 0 {
		// Lost the swap or unknown product; report the live value so the
		// caller can retry with a fresh expectation.
		current, err := r.FindByProductID(ctx, productID)
		if err != nil {
			return 0, false, err
		}
		return current.CurrentStock, false, nil
	}
	return newValue, true, nil
}

var _ inventory.StockRepository = (*GormStockRepository)(nil)
