package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/sabstore/backend/internal/domain/shared"
	"github.com/sabstore/backend/internal/domain/shared/valueobject"
)

// Product is the storefront catalog entry referenced by carts, orders and
// stock records. Pricing for cart lines is snapshotted from here.
type Product struct {
	shared.BaseAggregateRoot
	Name             string            `gorm:"size:255;not null"`
	Slug             string            `gorm:"size:255;uniqueIndex"`
	Barcode          string            `gorm:"size:64;index"`
	Price            valueobject.Money `gorm:"type:decimal(18,2);not null;default:0"`
	EposnowProductID *string           `gorm:"size:64;index"` // external POS product id, nil when unmapped
	Customizable     bool              `gorm:"not null;default:false"`
	IsActive         bool              `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// HasEposnowMapping reports whether the product is linked to the external POS
func (p *Product) HasEposnowMapping() bool {
	return p.EposnowProductID != nil && *p.EposnowProductID != ""
}

// ProductRepository defines persistence operations for products
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	FindByEposnowID(ctx context.Context, eposnowProductID string) (*Product, error)
	Save(ctx context.Context, product *Product) error
}
