package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/sabstore/backend/internal/domain/coupon"
	"github.com/sabstore/backend/internal/domain/shared"
	"github.com/sabstore/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Quote is the priced breakdown of a checkout.
// Total = Subtotal - Discount + Tax + DeliveryFee, all rounded to 2dp.
// Tax is computed on the discounted subtotal; the delivery fee is not taxed.
type Quote struct {
	Subtotal    valueobject.Money
	Discount    valueobject.Money
	DeliveryFee valueobject.Money
	TaxRate     decimal.Decimal
	TaxAmount   valueobject.Money
	Total       valueobject.Money
	CouponCode  *string
}

// Service prices checkouts. It is side-effect free: coupon usage counters are
// bumped by the caller once the order is actually persisted.
type Service struct {
	coupons coupon.Repository
	logger  *zap.Logger
}

// NewService creates a pricing service
func NewService(coupons coupon.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{coupons: coupons, logger: logger}
}

// Quote prices a checkout. An unknown, inactive, expired or exhausted coupon
// fails the whole quote rather than being silently ignored.
func (s *Service) Quote(ctx context.Context, subtotal valueobject.Money, couponCode string, deliveryFee valueobject.Money, taxRate decimal.Decimal) (*Quote, error) {
	if subtotal.IsNegative() {
		return nil, shared.NewDomainError("INVALID_SUBTOTAL", "Subtotal cannot be negative")
	}

	quote := &Quote{
		Subtotal:    subtotal.Round(2),
		Discount:    valueobject.ZeroNGN(),
		DeliveryFee: deliveryFee.Round(2),
		TaxRate:     taxRate,
		TaxAmount:   valueobject.ZeroNGN(),
	}

	if couponCode != "" {
		c, err := s.coupons.FindByCode(ctx, couponCode)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.ErrCouponInvalid
			}
			return nil, err
		}
		if !c.IsValid(time.Now()) {
			if c.UsageLimit != nil && c.TimesUsed >= *c.UsageLimit {
				return nil, shared.ErrCouponExhausted
			}
			return nil, shared.ErrCouponInvalid
		}
		quote.Discount = c.DiscountFor(quote.Subtotal)
		quote.CouponCode = &c.Code
		s.logger.Debug("coupon applied",
			zap.String("code", c.Code),
			zap.String("discount", quote.Discount.StringFixed(2)),
		)
	}

	discounted := quote.Subtotal.MustSubtract(quote.Discount)
	if taxRate.GreaterThan(decimal.Zero) {
		quote.TaxAmount = discounted.CalculatePercentage(taxRate).Round(2)
	}

	quote.Total = discounted.MustAdd(quote.TaxAmount).MustAdd(quote.DeliveryFee).Round(2)
	return quote, nil
}
