package checkout

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sabstore/backend/internal/application/pricing"
	"github.com/sabstore/backend/internal/application/scope"
	"github.com/sabstore/backend/internal/domain/cart"
	"github.com/sabstore/backend/internal/domain/catalog"
	"github.com/sabstore/backend/internal/domain/order"
	"github.com/sabstore/backend/internal/domain/shared"
	"github.com/sabstore/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// referenceAttempts bounds the collision-retry loop for order references
const referenceAttempts = 5

// Input carries the checkout request. TaxRate overrides the store-wide rate
// when set.
type Input struct {
	Owner           cart.OwnerKey
	ShippingAddress string
	PaymentMethod   string
	CouponCode      string
	DeliveryFee     valueobject.Money
	TaxRate         *decimal.Decimal
}

// Service turns a cart into a pending order. The whole operation runs in one
// database transaction: pricing anomalies, reference collisions past the
// retry budget or a coupon racing past its cap roll everything back, leaving
// the cart untouched.
type Service struct {
	txScope scope.TransactionScope
	pricer  *pricing.Service
	taxRate decimal.Decimal
	logger  *zap.Logger
}

// NewService creates a checkout service. taxRate is the store-wide percentage
// applied to discounted subtotals; zero disables tax.
func NewService(txScope scope.TransactionScope, pricer *pricing.Service, taxRate decimal.Decimal, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		txScope: txScope,
		pricer:  pricer,
		taxRate: taxRate,
		logger:  logger,
	}
}

// Checkout prices the owner's cart and creates a pending order with immutable
// item snapshots, then clears the cart.
func (s *Service) Checkout(ctx context.Context, input Input) (*order.Order, error) {
	var placed *order.Order

	err := s.txScope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
		c, err := repos.Carts().FindByOwner(ctx, input.Owner)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.ErrEmptyCart
			}
			return err
		}
		if c.IsEmpty() {
			return shared.ErrEmptyCart
		}

		// Totals are recomputed from the live rows, never trusted from
		// the stored column.
		c.RecalculateTotal()

		taxRate := s.taxRate
		if input.TaxRate != nil {
			taxRate = *input.TaxRate
		}
		quote, err := s.pricer.Quote(ctx, c.Total, input.CouponCode, input.DeliveryFee, taxRate)
		if err != nil {
			return err
		}

		reference, err := s.uniqueReference(ctx, repos)
		if err != nil {
			return err
		}

		products, err := s.productsByID(ctx, repos, c)
		if err != nil {
			return err
		}

		o := &order.Order{
			BaseAggregateRoot: shared.NewBaseAggregateRoot(),
			UserID:            input.Owner.UserID,
			SessionID:         input.Owner.SessionID,
			OrderReference:    reference,
			Subtotal:          quote.Subtotal,
			DeliveryFee:       quote.DeliveryFee,
			CouponCode:        quote.CouponCode,
			DiscountAmount:    quote.Discount,
			TaxRate:           quote.TaxRate,
			TaxAmount:         quote.TaxAmount,
			Total:             quote.Total,
			ShippingAddress:   input.ShippingAddress,
			PaymentMethod:     input.PaymentMethod,
			Status:            order.StatusPending,
			OrderStatus:       order.FulfillmentOrderPlaced,
			Items:             make([]order.OrderItem, 0, len(c.Items)),
		}

		for idx := range c.Items {
			line := &c.Items[idx]
			name := ""
			if p, ok := products[line.ProductID]; ok {
				name = p.Name
			}
			o.Items = append(o.Items, order.OrderItem{
				BaseEntity:      shared.NewBaseEntity(),
				OrderID:         o.ID,
				ProductID:       line.ProductID,
				ProductName:     name,
				Quantity:        line.Quantity,
				Price:           line.Price,
				Color:           line.Color,
				CustomizationID: line.CustomizationID,
			})
		}

		if err := repos.Orders().Save(ctx, o); err != nil {
			return err
		}

		if quote.CouponCode != nil {
			if err := repos.Coupons().IncrementUsage(ctx, *quote.CouponCode); err != nil {
				return err
			}
		}

		if err := repos.Carts().DeleteItems(ctx, c.ID); err != nil {
			return err
		}
		c.Items = nil
		c.RecalculateTotal()
		if err := repos.Carts().Save(ctx, c); err != nil {
			return err
		}

		placed = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order placed",
		zap.String("order_id", placed.ID.String()),
		zap.String("order_reference", placed.OrderReference),
		zap.String("total", placed.Total.StringFixed(2)),
		zap.Int("lines", len(placed.Items)),
	)
	return placed, nil
}

// uniqueReference generates an order reference, regenerating on collision
func (s *Service) uniqueReference(ctx context.Context, repos scope.TransactionalRepositories) (string, error) {
	for i := 0; i < referenceAttempts; i++ {
		candidate := order.GenerateReference()
		exists, err := repos.Orders().ExistsByReference(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", shared.NewDomainError("REFERENCE_EXHAUSTED", "Could not generate a unique order reference")
}

// productsByID loads the products referenced by the cart, keyed by ID
func (s *Service) productsByID(ctx context.Context, repos scope.TransactionalRepositories, c *cart.Cart) (map[uuid.UUID]catalog.Product, error) {
	ids := make([]uuid.UUID, 0, len(c.Items))
	for idx := range c.Items {
		ids = append(ids, c.Items[idx].ProductID)
	}
	products, err := repos.Products().FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}
