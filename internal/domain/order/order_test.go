package order

import (
	"regexp"
	"testing"

	"github.com/sabstore/backend/internal/domain/shared"
	"github.com/sabstore/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateReference_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^SAB-[A-Z0-9]{10}$`)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ref := GenerateReference()
		assert.Regexp(t, pattern, ref)
		seen[ref] = true
	}
	// 100 draws from a 36^10 space should not collide
	assert.Len(t, seen, 100)
}

func TestOrder_MarkPaid(t *testing.T) {
	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderReference:    GenerateReference(),
		Status:            StatusPending,
		Total:             valueobject.NewMoneyNGNFromFloat(90),
	}

	settled := valueobject.NewMoneyNGNFromFloat(101.75)
	require.NoError(t, o.MarkPaid("PSK_REF_1", "card", settled))

	assert.Equal(t, StatusPaid, o.Status)
	assert.True(t, o.Total.Equals(settled))
	require.NotNil(t, o.GatewayReference)
	assert.Equal(t, "PSK_REF_1", *o.GatewayReference)
	assert.Equal(t, "card", o.PaymentMethod)
	assert.NotNil(t, o.PaidAt)
	assert.Len(t, o.GetDomainEvents(), 1)
}

func TestOrder_MarkPaidRejectsNonPending(t *testing.T) {
	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Status:            StatusPaid,
	}

	err := o.MarkPaid("PSK_REF_2", "card", valueobject.NewMoneyNGNFromFloat(10))
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestOrder_UpdateFulfillmentStatus(t *testing.T) {
	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderStatus:       FulfillmentOrderPlaced,
	}

	require.NoError(t, o.UpdateFulfillmentStatus(FulfillmentShipped))
	assert.Equal(t, FulfillmentShipped, o.OrderStatus)

	events := o.GetDomainEvents()
	require.Len(t, events, 1)
	evt, ok := events[0].(*FulfillmentChangedEvent)
	require.True(t, ok)
	assert.Equal(t, FulfillmentOrderPlaced, evt.Previous)
	assert.Equal(t, FulfillmentShipped, evt.Current)

	err := o.UpdateFulfillmentStatus("Teleported")
	assert.ErrorIs(t, err, shared.ErrInvalidFulfillmentState)
}
