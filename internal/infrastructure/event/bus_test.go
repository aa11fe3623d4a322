package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sabstore/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testHandler struct {
	mu       sync.Mutex
	received []shared.DomainEvent
	types    []string
	fail     bool
	panics   bool
}

func (h *testHandler) Handle(_ context.Context, ev shared.DomainEvent) error {
	if h.panics {
		panic("boom")
	}
	h.mu.Lock()
	h.received = append(h.received, ev)
	h.mu.Unlock()
	if h.fail {
		return errors.New("handler failed")
	}
	return nil
}

func (h *testHandler) EventTypes() []string {
	return h.types
}

func (h *testHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.received)
}

func newTestEvent(eventType string) shared.DomainEvent {
	ev := shared.NewBaseDomainEvent(eventType, "order", uuid.New())
	return &ev
}

func TestInMemoryEventBus_PublishToSubscribedHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &testHandler{types: []string{"order.paid"}}
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(), newTestEvent("order.paid"))
	require.NoError(t, err)
	assert.Equal(t, 1, handler.count())
}

func TestInMemoryEventBus_IgnoresUnrelatedEventTypes(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &testHandler{types: []string{"order.paid"}}
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(), newTestEvent("order.fulfillment_changed"))
	require.NoError(t, err)
	assert.Zero(t, handler.count())
}

func TestInMemoryEventBus_WildcardHandlerReceivesEverything(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &testHandler{}
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(),
		newTestEvent("order.paid"),
		newTestEvent("order.fulfillment_changed"),
	)
	require.NoError(t, err)
	assert.Equal(t, 2, handler.count())
}

func TestInMemoryEventBus_FailingHandlerDoesNotBlockOthers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := &testHandler{types: []string{"order.paid"}, fail: true}
	healthy := &testHandler{types: []string{"order.paid"}}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newTestEvent("order.paid"))
	require.NoError(t, err)
	assert.Equal(t, 1, healthy.count())
}

func TestInMemoryEventBus_RecoversFromHandlerPanic(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	panicking := &testHandler{types: []string{"order.paid"}, panics: true}
	healthy := &testHandler{types: []string{"order.paid"}}
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	require.NotPanics(t, func() {
		_ = bus.Publish(context.Background(), newTestEvent("order.paid"))
	})
	assert.Equal(t, 1, healthy.count())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &testHandler{types: []string{"order.paid"}}
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	err := bus.Publish(context.Background(), newTestEvent("order.paid"))
	require.NoError(t, err)
	assert.Zero(t, handler.count())
}
