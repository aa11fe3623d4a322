package order

import (
	"github.com/google/uuid"
	"github.com/sabstore/backend/internal/domain/shared"
)

// Event type names
const (
	EventTypeOrderPaid          = "order.paid"
	EventTypeFulfillmentChanged = "order.fulfillment_changed"
)

// OrderPaidEvent is emitted when payment for an order is confirmed
type OrderPaidEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID `json:"order_id"`
	OrderReference string    `json:"order_reference"`
	Total          string    `json:"total"`
}

// NewOrderPaidEvent creates an OrderPaidEvent from the order
func NewOrderPaidEvent(o *Order) *OrderPaidEvent {
	return &OrderPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPaid, "Order", o.ID),
		OrderID:         o.ID,
		OrderReference:  o.OrderReference,
		Total:           o.Total.StringFixed(2),
	}
}

// FulfillmentChangedEvent is emitted when an admin advances the fulfillment
// status. Subscribers notify the customer; delivery failures never fail the
// update.
type FulfillmentChangedEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID         `json:"order_id"`
	OrderReference string            `json:"order_reference"`
	Previous       FulfillmentStatus `json:"previous"`
	Current        FulfillmentStatus `json:"current"`
}

// NewFulfillmentChangedEvent creates a FulfillmentChangedEvent
func NewFulfillmentChangedEvent(o *Order, previous, current FulfillmentStatus) *FulfillmentChangedEvent {
	return &FulfillmentChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFulfillmentChanged, "Order", o.ID),
		OrderID:         o.ID,
		OrderReference:  o.OrderReference,
		Previous:        previous,
		Current:         current,
	}
}
