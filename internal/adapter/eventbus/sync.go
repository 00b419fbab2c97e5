// Package eventbus provides implementations of the EventBus interface.
// This package contains the synchronous event bus implementation.
package eventbus

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/tejashwikalptaru/mixviz/internal/domain"
	"github.com/tejashwikalptaru/mixviz/internal/ports"
)

// SyncEventBus is a synchronous implementation of the EventBus interface.
// Events are delivered on the publisher's goroutine, in subscription order.
//
// The sync engine publishes from its poll and seek-check goroutines, so
// handlers run off the UI thread. Views must marshal their updates themselves.
//
// Thread-safety: This implementation is thread-safe. Multiple goroutines can
// publish events and subscribe/unsubscribe handlers concurrently.
type SyncEventBus struct {
	logger *slog.Logger

	// subscribers map event types to their subscriptions, in subscription order
	subscribers map[domain.EventType][]subscription

	// allSubscribers contains handlers that receive all events
	allSubscribers []subscription

	// mu protects subscribers, allSubscribers and closed
	mu sync.RWMutex

	idCounter uint64
	published atomic.Uint64

	closed bool
}

// a subscription represents a single event subscription.
type subscription struct {
	id      domain.SubscriptionID
	handler domain.EventHandler
	filter  ports.EventFilter
}

// NewSyncEventBus creates a new synchronous event bus.
// A nil logger discards handler panics silently.
func NewSyncEventBus(logger *slog.Logger) *SyncEventBus {
	return &SyncEventBus{
		logger:      logger,
		subscribers: make(map[domain.EventType][]subscription),
	}
}

// Publish delivers an event to the subscribers of its type, then to wildcard subscribers.
// Publishing on a closed bus is a no-op.
//
// Panics in handlers are recovered and logged, but do not stop other handlers
// from being called.
func (bus *SyncEventBus) Publish(event domain.Event) {
	if event == nil {
		return
	}

	bus.mu.RLock()
	if bus.closed {
		bus.mu.RUnlock()
		return
	}
	// Snapshot so handlers may subscribe or unsubscribe without deadlocking
	targets := make([]subscription, 0, len(bus.subscribers[event.Type()])+len(bus.allSubscribers))
	targets = append(targets, bus.subscribers[event.Type()]...)
	targets = append(targets, bus.allSubscribers...)
	bus.mu.RUnlock()

	bus.published.Add(1)
	for _, sub := range targets {
		if sub.filter != nil && !sub.filter(event) {
			continue
		}
		bus.callHandler(sub, event)
	}
}

// callHandler calls an event handler and recovers from panics.
func (bus *SyncEventBus) callHandler(sub subscription, event domain.Event) {
	defer func() {
		if r := recover(); r != nil && bus.logger != nil {
			bus.logger.Error("event handler panicked",
				slog.Any("panic", r),
				slog.String("event_type", string(event.Type())),
				slog.String("subscription", string(sub.id)))
		}
	}()
	sub.handler(event)
}

// Subscribe registers a handler for events of the specified type.
// Returns a unique subscription ID that can be used to unsubscribe.
// Subscribing to a closed bus returns an empty ID and registers nothing.
func (bus *SyncEventBus) Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID {
	return bus.SubscribeFiltered(eventType, nil, handler)
}

// SubscribeFiltered registers a handler that only sees events passing filter.
func (bus *SyncEventBus) SubscribeFiltered(eventType domain.EventType, filter ports.EventFilter, handler domain.EventHandler) domain.SubscriptionID {
	if handler == nil {
		panic("event handler cannot be nil")
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()

	if bus.closed {
		return ""
	}

	id := domain.SubscriptionID(fmt.Sprintf("%s#%d", eventType, atomic.AddUint64(&bus.idCounter, 1)))
	bus.subscribers[eventType] = append(bus.subscribers[eventType], subscription{
		id:      id,
		handler: handler,
		filter:  filter,
	})
	return id
}

// SubscribeAll registers a handler that receives all events regardless of type.
// This is useful for logging and debugging.
func (bus *SyncEventBus) SubscribeAll(handler domain.EventHandler) domain.SubscriptionID {
	if handler == nil {
		panic("event handler cannot be nil")
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()

	if bus.closed {
		return ""
	}

	id := domain.SubscriptionID(fmt.Sprintf("*#%d", atomic.AddUint64(&bus.idCounter, 1)))
	bus.allSubscribers = append(bus.allSubscribers, subscription{id: id, handler: handler})
	return id
}

// Unsubscribe removes a previously registered event handler.
// The remaining handlers keep their relative order.
// If the subscription ID is invalid or already unsubscribed, this is a no-op.
func (bus *SyncEventBus) Unsubscribe(id domain.SubscriptionID) {
	if id == "" {
		return
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()

	for eventType, subs := range bus.subscribers {
		if idx := indexOf(subs, id); idx >= 0 {
			bus.subscribers[eventType] = append(subs[:idx:idx], subs[idx+1:]...)
			return
		}
	}
	if idx := indexOf(bus.allSubscribers, id); idx >= 0 {
		bus.allSubscribers = append(bus.allSubscribers[:idx:idx], bus.allSubscribers[idx+1:]...)
	}
}

func indexOf(subs []subscription, id domain.SubscriptionID) int {
	for i, sub := range subs {
		if sub.id == id {
			return i
		}
	}
	return -1
}

// HasSubscribers returns true if there are any active subscriptions for the given event type.
// The sync engine uses it to skip building TimeUpdated events nobody listens to.
func (bus *SyncEventBus) HasSubscribers(eventType domain.EventType) bool {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	return len(bus.subscribers[eventType]) > 0 || len(bus.allSubscribers) > 0
}

// Close shuts down the event bus and clears all subscriptions.
//
// Returns domain.ErrClosed if already closed.
func (bus *SyncEventBus) Close() error {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	if bus.closed {
		return fmt.Errorf("event bus: %w", domain.ErrClosed)
	}
	bus.closed = true
	bus.subscribers = make(map[domain.EventType][]subscription)
	bus.allSubscribers = nil
	return nil
}

// SubscriberCount returns the number of active subscriptions for debugging.
// This counts both type-specific and wildcard subscriptions.
func (bus *SyncEventBus) SubscriberCount() int {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	count := len(bus.allSubscribers)
	for _, subs := range bus.subscribers {
		count += len(subs)
	}
	return count
}

// PublishedCount returns how many events were accepted for delivery.
func (bus *SyncEventBus) PublishedCount() uint64 {
	return bus.published.Load()
}

// Verify that SyncEventBus implements the FilteringEventBus interface
var _ ports.FilteringEventBus = (*SyncEventBus)(nil)
