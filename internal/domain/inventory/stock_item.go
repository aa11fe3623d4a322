package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sabstore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StockItem is the aggregate root for per-product stock. Valuation fields are
// derived from CurrentStock and the two unit prices and are recomputed on
// every stock movement.
type StockItem struct {
	shared.BaseAggregateRoot
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Barcode          string          `gorm:"size:64;index"`
	Name             string          `gorm:"size:255"`
	CurrentStock     int             `gorm:"not null;default:0"`
	TotalStock       int             `gorm:"not null;default:0"`
	CostPrice        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	SalesPrice       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalCost        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalValue       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Margin           decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	MarginPercentage decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (StockItem) TableName() string {
	return "stock_items"
}

// NewStockItem creates a stock record for a product
func NewStockItem(productID uuid.UUID, barcode, name string, initialStock int, costPrice, salesPrice decimal.Decimal) *StockItem {
	item := &StockItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		Barcode:           barcode,
		Name:              name,
		CurrentStock:      initialStock,
		TotalStock:        initialStock,
		CostPrice:         costPrice,
		SalesPrice:        salesPrice,
	}
	item.recomputeValuation()
	return item
}

// recomputeValuation derives the valuation fields from current stock and unit
// prices. MarginPercentage is zero whenever TotalCost is zero or negative.
func (s *StockItem) recomputeValuation() {
	qty := decimal.NewFromInt(int64(s.CurrentStock))
	s.TotalCost = s.CostPrice.Mul(qty).Round(2)
	s.TotalValue = s.SalesPrice.Mul(qty).Round(2)
	s.Margin = s.TotalValue.Sub(s.TotalCost).Round(2)
	if s.TotalCost.LessThanOrEqual(decimal.Zero) {
		s.MarginPercentage = decimal.Zero
	} else {
		s.MarginPercentage = s.Margin.Div(s.TotalCost).Mul(decimal.NewFromInt(100)).Round(2)
	}
}

// Deduct removes quantity from current stock. It fails with
// INSUFFICIENT_STOCK when the full quantity is not available; partial
// deductions never happen.
func (s *StockItem) Deduct(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Deduction quantity must be positive")
	}
	if s.CurrentStock < quantity {
		return shared.ErrInsufficientStock
	}
	s.CurrentStock -= quantity
	s.recomputeValuation()
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// DeductClamped removes quantity from current stock, flooring at zero.
// Used for externally originated sales that already happened and cannot be
// rejected.
func (s *StockItem) DeductClamped(quantity int) int {
	if quantity <= 0 {
		return s.CurrentStock
	}
	s.CurrentStock -= quantity
	if s.CurrentStock < 0 {
		s.CurrentStock = 0
	}
	s.recomputeValuation()
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return s.CurrentStock
}

// Restock adds quantity to both current and total stock
func (s *StockItem) Restock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Restock quantity must be positive")
	}
	s.CurrentStock += quantity
	s.TotalStock += quantity
	s.recomputeValuation()
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// StockRepository defines persistence operations for stock items
type StockRepository interface {
	FindByProductID(ctx context.Context, productID uuid.UUID) (*StockItem, error)
	FindByBarcode(ctx context.Context, barcode string) (*StockItem, error)
	Save(ctx context.Context, item *StockItem) error
	// SaveWithLock persists the item guarded by its previous version.
	// Returns a CONCURRENCY_CONFLICT domain error when another writer won.
	SaveWithLock(ctx context.Context, item *StockItem) error
	// TryDeduct performs a single-row compare-and-swap decrement:
	// the row is updated only when current_stock still equals
	// expectedCurrent. Returns the new stock value and whether the swap
	// won. Losing the swap is not an error; callers re-read and retry.
	TryDeduct(ctx context.Context, productID uuid.UUID, quantity, expectedCurrent int) (newValue int, ok bool, err error)
}
