package order

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/google/uuid"
	"github.com/sabstore/backend/internal/domain/shared"
	"github.com/sabstore/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Status is the payment status of an order
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

// FulfillmentStatus tracks the physical progress of an order
type FulfillmentStatus string

const (
	FulfillmentOrderPlaced    FulfillmentStatus = "Order Placed"
	FulfillmentProcessing     FulfillmentStatus = "Processing"
	FulfillmentPacked         FulfillmentStatus = "Packed"
	FulfillmentShipped        FulfillmentStatus = "Shipped"
	FulfillmentOutForDelivery FulfillmentStatus = "Out for Delivery"
	FulfillmentDelivered      FulfillmentStatus = "Delivered"
)

// ValidFulfillmentStatuses lists every accepted fulfillment value
var ValidFulfillmentStatuses = []FulfillmentStatus{
	FulfillmentOrderPlaced,
	FulfillmentProcessing,
	FulfillmentPacked,
	FulfillmentShipped,
	FulfillmentOutForDelivery,
	FulfillmentDelivered,
}

// IsValidFulfillmentStatus reports whether the value is a known fulfillment status
func IsValidFulfillmentStatus(s FulfillmentStatus) bool {
	for _, v := range ValidFulfillmentStatuses {
		if v == s {
			return true
		}
	}
	return false
}

const (
	referencePrefix  = "SAB-"
	referenceLength  = 10
	referenceCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GenerateReference produces a candidate order reference of the form
// "SAB-" followed by 10 uppercase alphanumerics. Callers must check for
// collisions and regenerate as needed.
func GenerateReference() string {
	buf := make([]byte, referenceLength)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	for i, b := range buf {
		buf[i] = referenceCharset[int(b)%len(referenceCharset)]
	}
	return referencePrefix + string(buf)
}

// Order is the aggregate root for a placed order. Item snapshots are
// immutable once the order is created; later product or price changes never
// affect past orders.
type Order struct {
	shared.BaseAggregateRoot
	UserID           *uuid.UUID        `gorm:"type:uuid;index"`
	SessionID        *string           `gorm:"size:64;index"`
	OrderReference   string            `gorm:"size:32;not null;uniqueIndex"`
	Subtotal         valueobject.Money `gorm:"type:decimal(18,2);not null"`
	DeliveryFee      valueobject.Money `gorm:"type:decimal(18,2);not null;default:0"`
	CouponCode       *string           `gorm:"size:64"`
	DiscountAmount   valueobject.Money `gorm:"type:decimal(18,2);not null;default:0"`
	TaxRate          decimal.Decimal   `gorm:"type:decimal(8,4);not null;default:0"`
	TaxAmount        valueobject.Money `gorm:"type:decimal(18,2);not null;default:0"`
	Total            valueobject.Money `gorm:"type:decimal(18,2);not null"`
	ShippingAddress  string            `gorm:"size:512"`
	PaymentMethod    string            `gorm:"size:32"`
	Status           Status            `gorm:"size:16;not null;default:'pending';index"`
	OrderStatus      FulfillmentStatus `gorm:"size:32;not null;default:'Order Placed'"`
	GatewayReference *string           `gorm:"size:128;index"`
	PaidAt           *time.Time

	Items []OrderItem `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// OrderItem is an immutable snapshot of a cart line at checkout time
type OrderItem struct {
	shared.BaseEntity
	OrderID         uuid.UUID         `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID         `gorm:"type:uuid;not null"`
	ProductName     string            `gorm:"size:255;not null"`
	Quantity        int               `gorm:"not null"`
	Price           valueobject.Money `gorm:"type:decimal(18,2);not null"`
	Color           *string           `gorm:"size:64"`
	CustomizationID *uuid.UUID        `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// Subtotal returns price * quantity for this line
func (i *OrderItem) Subtotal() valueobject.Money {
	return i.Price.MultiplyByInt(int64(i.Quantity))
}

// MarkPaid transitions a pending order to paid. The gateway-settled amount
// replaces the stored total, and the gateway reference and channel are
// recorded.
func (o *Order) MarkPaid(gatewayReference, channel string, settledAmount valueobject.Money) error {
	if o.Status != StatusPending {
		return shared.ErrInvalidState
	}
	now := time.Now()
	o.Status = StatusPaid
	o.Total = settledAmount
	o.GatewayReference = &gatewayReference
	if channel != "" {
		o.PaymentMethod = channel
	}
	o.PaidAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()
	o.AddDomainEvent(NewOrderPaidEvent(o))
	return nil
}

// UpdateFulfillmentStatus moves the order through the fulfillment pipeline
func (o *Order) UpdateFulfillmentStatus(status FulfillmentStatus) error {
	if !IsValidFulfillmentStatus(status) {
		return shared.ErrInvalidFulfillmentState
	}
	previous := o.OrderStatus
	o.OrderStatus = status
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	o.AddDomainEvent(NewFulfillmentChangedEvent(o, previous, status))
	return nil
}

// Repository defines persistence operations for orders
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByReference(ctx context.Context, reference string) (*Order, error)
	FindByOwner(ctx context.Context, userID *uuid.UUID, sessionID *string, filter shared.Filter) ([]Order, int64, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, int64, error)
	ExistsByReference(ctx context.Context, reference string) (bool, error)
	Save(ctx context.Context, order *Order) error
	// MarkPaid persists the pending-to-paid transition guarded by the
	// current status. Returns ErrInvalidState when the order was already
	// paid or cancelled, which makes replayed confirmations harmless.
	MarkPaid(ctx context.Context, order *Order) error
	UpdateFulfillment(ctx context.Context, order *Order) error
}
