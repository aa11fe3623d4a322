package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/sabstore/backend/internal/domain/cart"
	"github.com/sabstore/backend/internal/domain/order"
	"github.com/sabstore/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Service exposes order queries and the fulfillment pipeline
type Service struct {
	orders order.Repository
	events shared.EventPublisher
	logger *zap.Logger
}

// NewService creates an order service
func NewService(orders order.Repository, events shared.EventPublisher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		orders: orders,
		events: events,
		logger: logger,
	}
}

// Get returns one order by ID
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return s.orders.FindByID(ctx, id)
}

// GetByReference returns one order by its public reference
func (s *Service) GetByReference(ctx context.Context, reference string) (*order.Order, error) {
	return s.orders.FindByReference(ctx, reference)
}

// ListForOwner returns the orders belonging to a user or guest session
func (s *Service) ListForOwner(ctx context.Context, owner cart.OwnerKey, filter shared.Filter) (shared.Paginated[order.Order], error) {
	orders, total, err := s.orders.FindByOwner(ctx, owner.UserID, owner.SessionID, filter)
	if err != nil {
		return shared.Paginated[order.Order]{}, err
	}
	return shared.NewPaginated(orders, total, filter.Page, filter.PageSize), nil
}

// ListAll returns all orders for the back office
func (s *Service) ListAll(ctx context.Context, filter shared.Filter) (shared.Paginated[order.Order], error) {
	orders, total, err := s.orders.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[order.Order]{}, err
	}
	return shared.NewPaginated(orders, total, filter.Page, filter.PageSize), nil
}

// UpdateFulfillment moves an order through the fulfillment pipeline and
// notifies interested handlers. Notification failures never fail the update.
func (s *Service) UpdateFulfillment(ctx context.Context, id uuid.UUID, status order.FulfillmentStatus) (*order.Order, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := o.UpdateFulfillmentStatus(status); err != nil {
		return nil, err
	}
	if err := s.orders.UpdateFulfillment(ctx, o); err != nil {
		return nil, err
	}

	if s.events != nil {
		if err := s.events.Publish(ctx, o.GetDomainEvents()...); err != nil {
			s.logger.Warn("failed to publish fulfillment events",
				zap.String("order_reference", o.OrderReference), zap.Error(err))
		}
	}
	o.ClearDomainEvents()

	s.logger.Info("fulfillment status updated",
		zap.String("order_reference", o.OrderReference),
		zap.String("status", string(o.OrderStatus)),
	)
	return o, nil
}
