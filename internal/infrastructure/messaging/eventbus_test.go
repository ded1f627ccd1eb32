package messaging

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/classtrack-backend/internal/domain/shared"
)

type capturingHandler struct {
	mu       sync.Mutex
	types    []shared.EventType
	received []shared.Event
}

func (h *capturingHandler) InterestedIn() []shared.EventType { return h.types }

func (h *capturingHandler) Handle(e shared.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.received = append(h.received, e)
	return nil
}

func (h *capturingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.received)
}

func testBus() *EventBus {
	return NewEventBus(EventBusConfig{
		AsyncMode: false,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestEventBus_RoutesByType(t *testing.T) {
	bus := testBus()

	grades := &capturingHandler{types: []shared.EventType{shared.EventGradeRecorded}}
	require.NoError(t, bus.Subscribe(grades))

	bus.Publish(shared.NewBaseEvent(shared.EventGradeRecorded, "1"))
	bus.Publish(shared.NewBaseEvent(shared.EventStudentEnrolled, "1"))

	assert.Equal(t, 1, grades.count())
}

func TestEventBus_GlobalSubscription(t *testing.T) {
	bus := testBus()

	// empty declaration subscribes to everything
	all := &capturingHandler{}
	require.NoError(t, bus.Subscribe(all))

	bus.Publish(shared.NewBaseEvent(shared.EventGradeRecorded, "1"))
	bus.Publish(shared.NewBaseEvent(shared.EventAttendanceMarked, "1"))

	assert.Equal(t, 2, all.count())
}

func TestEventBus_AsyncDelivery(t *testing.T) {
	bus := NewEventBus(EventBusConfig{
		AsyncMode:      true,
		WorkerPoolSize: 2,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	handler := &capturingHandler{types: []shared.EventType{shared.EventGradeRecorded}}
	require.NoError(t, bus.Subscribe(handler))

	for i := 0; i < 10; i++ {
		bus.Publish(shared.NewBaseEvent(shared.EventGradeRecorded, "1"))
	}

	assert.Eventually(t, func() bool { return handler.count() == 10 },
		2*time.Second, 10*time.Millisecond)
	require.NoError(t, bus.Close())
}

func TestEventBus_ClosedBusDropsEvents(t *testing.T) {
	bus := testBus()
	handler := &capturingHandler{}
	require.NoError(t, bus.Subscribe(handler))

	require.NoError(t, bus.Close())
	require.NoError(t, bus.Close(), "double close is a no-op")

	bus.Publish(shared.NewBaseEvent(shared.EventGradeRecorded, "1"))
	assert.Equal(t, 0, handler.count())

	err := bus.Subscribe(&capturingHandler{})
	assert.ErrorIs(t, err, ErrEventBusClosed)
}

func TestEventBus_NilArguments(t *testing.T) {
	bus := testBus()

	assert.Error(t, bus.Subscribe(nil))
	assert.NotPanics(t, func() { bus.Publish(nil) })
}

type fakeInvalidator struct {
	calls int
}

func (f *fakeInvalidator) Invalidate(ctx context.Context, keys ...string) error {
	f.calls++
	return nil
}

func TestCacheInvalidator(t *testing.T) {
	bus := testBus()
	cache := &fakeInvalidator{}
	inv := NewCacheInvalidator(cache, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, bus.Subscribe(inv))

	// write events drop the cache, report-only events do not
	bus.Publish(shared.NewBaseEvent(shared.EventGradeRecorded, "1"))
	bus.Publish(shared.NewBaseEvent(shared.EventAttendanceMarked, "1"))
	bus.Publish(shared.NewBaseEvent(shared.EventReportsRebuilt, "1"))

	assert.Equal(t, 2, cache.calls)
}
