package coupon

import (
	"context"
	"time"

	"github.com/sabstore/backend/internal/domain/shared"
	"github.com/sabstore/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Type discriminates how a coupon's value is applied
type Type string

const (
	TypePercent Type = "percent" // Value is a percentage of the subtotal
	TypeFixed   Type = "fixed"   // Value is a fixed amount
)

// Coupon is a promotion code applied at checkout.
// TimesUsed is incremented exactly once per order the coupon is applied to;
// the increment is rejected once the usage limit is reached.
type Coupon struct {
	shared.BaseAggregateRoot
	Code          string          `gorm:"size:64;not null;uniqueIndex"`
	PromotionName string          `gorm:"size:255"`
	Type          Type            `gorm:"size:16;not null"`
	Value         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	StartDate     *time.Time
	ExpiresAt     *time.Time
	UsageLimit    *int
	TimesUsed     int  `gorm:"not null;default:0"`
	IsActive      bool `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Coupon) TableName() string {
	return "coupons"
}

// IsValid reports whether the coupon can be applied at the given time.
// A nil StartDate means no lower bound; a nil ExpiresAt means no expiry;
// a nil UsageLimit means unlimited uses.
func (c *Coupon) IsValid(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	if c.StartDate != nil && now.Before(*c.StartDate) {
		return false
	}
	if c.ExpiresAt != nil && now.After(*c.ExpiresAt) {
		return false
	}
	if c.UsageLimit != nil && c.TimesUsed >= *c.UsageLimit {
		return false
	}
	return true
}

// DiscountFor computes the discount this coupon yields on the given subtotal.
// The discount never exceeds the subtotal.
func (c *Coupon) DiscountFor(subtotal valueobject.Money) valueobject.Money {
	var discount valueobject.Money
	switch c.Type {
	case TypePercent:
		discount = subtotal.CalculatePercentage(c.Value)
	case TypeFixed:
		discount = valueobject.NewMoneyNGN(c.Value)
	default:
		return valueobject.ZeroNGN()
	}

	capped, err := discount.Min(subtotal)
	if err != nil {
		return valueobject.ZeroNGN()
	}
	if capped.IsNegative() {
		return valueobject.ZeroNGN()
	}
	return capped.Round(2)
}

// Repository defines persistence operations for coupons
type Repository interface {
	FindByCode(ctx context.Context, code string) (*Coupon, error)
	// IncrementUsage atomically bumps times_used, failing when the usage
	// limit has already been reached.
	IncrementUsage(ctx context.Context, code string) error
	Save(ctx context.Context, coupon *Coupon) error
}
