package coupon

import (
	"testing"
	"time"

	"github.com/sabstore/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func TestCoupon_IsValid(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name   string
		coupon Coupon
		want   bool
	}{
		{
			name:   "active with no bounds",
			coupon: Coupon{IsActive: true, Type: TypePercent, Value: decimal.NewFromInt(10)},
			want:   true,
		},
		{
			name:   "inactive",
			coupon: Coupon{IsActive: false},
			want:   false,
		},
		{
			name:   "not yet started",
			coupon: Coupon{IsActive: true, StartDate: timePtr(now.Add(time.Hour))},
			want:   false,
		},
		{
			name:   "expired",
			coupon: Coupon{IsActive: true, ExpiresAt: timePtr(now.Add(-time.Hour))},
			want:   false,
		},
		{
			name:   "usage limit reached",
			coupon: Coupon{IsActive: true, UsageLimit: intPtr(5), TimesUsed: 5},
			want:   false,
		},
		{
			name:   "under usage limit",
			coupon: Coupon{IsActive: true, UsageLimit: intPtr(5), TimesUsed: 4},
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.coupon.IsValid(now))
		})
	}
}

func TestCoupon_DiscountFor(t *testing.T) {
	subtotal := valueobject.NewMoneyNGNFromFloat(100)

	percent := Coupon{IsActive: true, Type: TypePercent, Value: decimal.NewFromInt(10)}
	assert.Equal(t, "10.00", percent.DiscountFor(subtotal).StringFixed(2))

	fixed := Coupon{IsActive: true, Type: TypeFixed, Value: decimal.NewFromInt(30)}
	assert.Equal(t, "30.00", fixed.DiscountFor(subtotal).StringFixed(2))
}

func TestCoupon_DiscountNeverExceedsSubtotal(t *testing.T) {
	subtotal := valueobject.NewMoneyNGNFromFloat(20)

	fixed := Coupon{IsActive: true, Type: TypeFixed, Value: decimal.NewFromInt(50)}
	discount := fixed.DiscountFor(subtotal)
	assert.Equal(t, "20.00", discount.StringFixed(2))

	unknown := Coupon{IsActive: true, Type: "bogus", Value: decimal.NewFromInt(50)}
	assert.True(t, unknown.DiscountFor(subtotal).IsZero())
}
