// Package messaging implements the in-memory event bus for the school
// dashboard. Domain events decouple writes from derived state: command
// handlers publish, subscribers invalidate report caches or flag
// at-risk students without the command layer knowing about either.
package messaging

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/classtrack/classtrack-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrEventBusClosed is returned when operations are attempted on a closed bus.
	ErrEventBusClosed = errors.New("event bus is closed")
)

// ══════════════════════════════════════════════════════════════════════════════
// IN-MEMORY EVENT BUS
// ══════════════════════════════════════════════════════════════════════════════

// EventBus is an in-memory event bus. Suitable for single-instance
// deployments and testing. Implements shared.EventPublisher.
type EventBus struct {
	mu          sync.RWMutex
	handlers    map[shared.EventType][]shared.EventHandler
	allHandlers []shared.EventHandler
	asyncMode   bool
	workerPool  chan struct{}
	logger      *slog.Logger
	closed      bool
	closeCh     chan struct{}
	wg          sync.WaitGroup
}

// EventBusConfig contains configuration for EventBus.
type EventBusConfig struct {
	// AsyncMode enables asynchronous event processing.
	AsyncMode bool

	// WorkerPoolSize is the number of concurrent workers for async processing.
	WorkerPoolSize int

	// Logger for structured logging.
	Logger *slog.Logger
}

// DefaultEventBusConfig returns sensible defaults.
func DefaultEventBusConfig() EventBusConfig {
	return EventBusConfig{
		AsyncMode:      true,
		WorkerPoolSize: 10,
	}
}

// NewEventBus creates a new in-memory event bus.
func NewEventBus(config EventBusConfig) *EventBus {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.WorkerPoolSize <= 0 {
		config.WorkerPoolSize = 10
	}

	return &EventBus{
		handlers:    make(map[shared.EventType][]shared.EventHandler),
		allHandlers: make([]shared.EventHandler, 0),
		asyncMode:   config.AsyncMode,
		workerPool:  make(chan struct{}, config.WorkerPoolSize),
		logger:      config.Logger,
		closeCh:     make(chan struct{}),
	}
}

// Subscribe registers a handler for the event types it declares via
// InterestedIn. An empty declaration subscribes to all events.
func (b *EventBus) Subscribe(handler shared.EventHandler) error {
	if handler == nil {
		return errors.New("handler cannot be nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrEventBusClosed
	}

	types := handler.InterestedIn()
	if len(types) == 0 {
		b.allHandlers = append(b.allHandlers, handler)
		b.logger.Debug("subscribed global handler")
		return nil
	}

	for _, t := range types {
		b.handlers[t] = append(b.handlers[t], handler)
		b.logger.Debug("subscribed handler", "event_type", t)
	}

	return nil
}

// Publish sends an event to all subscribed handlers.
// A closed bus drops events silently so late publishers during
// shutdown don't have to care.
func (b *EventBus) Publish(event shared.Event) {
	if event == nil {
		return
	}

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return
	}

	handlers := make([]shared.EventHandler, 0)
	handlers = append(handlers, b.handlers[event.EventType()]...)
	handlers = append(handlers, b.allHandlers...)
	b.mu.RUnlock()

	if len(handlers) == 0 {
		b.logger.Debug("no handlers for event", "event_type", event.EventType())
		return
	}

	if b.asyncMode {
		for _, handler := range handlers {
			b.executeAsync(event, handler)
		}
		return
	}
	for _, handler := range handlers {
		if err := b.executeSync(event, handler); err != nil {
			b.logger.Error("handler error", "event_type", event.EventType(), "error", err)
		}
	}
}

// executeAsync executes a handler asynchronously using the worker pool.
func (b *EventBus) executeAsync(event shared.Event, handler shared.EventHandler) {
	b.wg.Add(1)

	go func() {
		defer b.wg.Done()

		select {
		case b.workerPool <- struct{}{}:
			defer func() { <-b.workerPool }()
		case <-b.closeCh:
			return
		}

		start := time.Now()
		if err := handler.Handle(event); err != nil {
			b.logger.Error("async handler error",
				"event_type", event.EventType(),
				"duration", time.Since(start),
				"error", err,
			)
		}
	}()
}

// executeSync executes a handler synchronously.
func (b *EventBus) executeSync(event shared.Event, handler shared.EventHandler) error {
	return handler.Handle(event)
}

// Close gracefully shuts down the event bus.
func (b *EventBus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.closeCh)
	b.mu.Unlock()

	b.wg.Wait()

	b.logger.Info("event bus closed")
	return nil
}
