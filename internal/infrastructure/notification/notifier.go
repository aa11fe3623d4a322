package notification

import (
	"context"
	"fmt"

	"github.com/sabstore/backend/internal/domain/order"
	"github.com/sabstore/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Message is an outbound customer notification
type Message struct {
	Subject   string
	Body      string
	Reference string
}

// Sender delivers notifications to the customer. Delivery is best effort;
// callers never fail an order update on a send error.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender writes notifications to the application log. Stands in for a real
// mail provider in development and single-tenant deployments.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a log-backed sender
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the notification
func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("customer notification",
		zap.String("subject", msg.Subject),
		zap.String("order_reference", msg.Reference),
		zap.String("body", msg.Body),
	)
	return nil
}

// FulfillmentNotifier notifies the customer when an order moves through the
// fulfillment pipeline.
type FulfillmentNotifier struct {
	sender Sender
	logger *zap.Logger
}

// NewFulfillmentNotifier creates a notifier backed by the given sender
func NewFulfillmentNotifier(sender Sender, logger *zap.Logger) *FulfillmentNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FulfillmentNotifier{sender: sender, logger: logger}
}

// EventTypes returns the event types this handler subscribes to
func (n *FulfillmentNotifier) EventTypes() []string {
	return []string{order.EventTypeFulfillmentChanged}
}

// Handle sends a status notification for a fulfillment change
func (n *FulfillmentNotifier) Handle(ctx context.Context, ev shared.DomainEvent) error {
	changed, ok := ev.(*order.FulfillmentChangedEvent)
	if !ok {
		return nil
	}

	msg := Message{
		Subject:   subjectFor(changed.Current),
		Body:      fmt.Sprintf("Order %s is now %q.", changed.OrderReference, changed.Current),
		Reference: changed.OrderReference,
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		n.logger.Warn("failed to send fulfillment notification",
			zap.String("order_reference", changed.OrderReference),
			zap.Error(err),
		)
	}
	return nil
}

func subjectFor(status order.FulfillmentStatus) string {
	switch status {
	case order.FulfillmentOrderPlaced, order.FulfillmentPacked, order.FulfillmentProcessing:
		return "Thank you for your order!"
	case order.FulfillmentShipped, order.FulfillmentOutForDelivery:
		return "Your order is on its way!"
	case order.FulfillmentDelivered:
		return "Your order has been delivered."
	default:
		return "Order Update"
	}
}

var _ shared.EventHandler = (*FulfillmentNotifier)(nil)
