package eventbus

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/mixviz/internal/domain"
	"github.com/tejashwikalptaru/mixviz/internal/logger"
)

func newTestBus(t *testing.T) *SyncEventBus {
	t.Helper()
	bus := NewSyncEventBus(logger.NewTestLogger())
	t.Cleanup(func() { _ = bus.Close() })
	return bus
}

// TestPublishSubscribe tests basic publish/subscribe functionality.
func TestPublishSubscribe(t *testing.T) {
	bus := newTestBus(t)

	var received domain.Event
	subID := bus.Subscribe(domain.EventTimeUpdated, func(event domain.Event) {
		received = event
	})
	require.NotEmpty(t, subID)

	bus.Publish(domain.NewTimeUpdatedEvent(42.5))

	require.NotNil(t, received)
	assert.Equal(t, domain.EventTimeUpdated, received.Type())
	assert.InDelta(t, 42.5, received.(domain.TimeUpdatedEvent).Time, 1e-9)
	assert.Equal(t, uint64(1), bus.PublishedCount())
}

// TestDeliveryOrder checks handlers run in subscription order, including after an unsubscribe.
func TestDeliveryOrder(t *testing.T) {
	bus := newTestBus(t)

	var order []string
	record := func(name string) domain.EventHandler {
		return func(domain.Event) { order = append(order, name) }
	}

	bus.Subscribe(domain.EventSeekDetected, record("a"))
	b := bus.Subscribe(domain.EventSeekDetected, record("b"))
	bus.Subscribe(domain.EventSeekDetected, record("c"))
	bus.Subscribe(domain.EventSeekDetected, record("d"))
	bus.SubscribeAll(record("all"))

	bus.Unsubscribe(b)
	bus.Publish(domain.NewSeekDetectedEvent(10, 300))

	assert.Equal(t, []string{"a", "c", "d", "all"}, order)
}

// TestUnsubscribe tests unsubscribing handlers.
func TestUnsubscribe(t *testing.T) {
	bus := newTestBus(t)

	var calls int32
	subID := bus.Subscribe(domain.EventTimeUpdated, func(domain.Event) {
		atomic.AddInt32(&calls, 1)
	})

	bus.Publish(domain.NewTimeUpdatedEvent(1))
	bus.Unsubscribe(subID)
	bus.Publish(domain.NewTimeUpdatedEvent(2))

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	// Unknown and repeated IDs are no-ops
	bus.Unsubscribe(subID)
	bus.Unsubscribe("invalid-id")
	bus.Unsubscribe("")
}

// TestSubscribeAll tests wildcard subscriptions.
func TestSubscribeAll(t *testing.T) {
	bus := newTestBus(t)

	var types []domain.EventType
	allID := bus.SubscribeAll(func(event domain.Event) {
		types = append(types, event.Type())
	})

	bus.Publish(domain.NewTimeUpdatedEvent(1))
	bus.Publish(domain.NewPlaybackStateChangedEvent(domain.PlayerPlaying, true, 1))
	bus.Publish(domain.NewActiveElementsChangedEvent(domain.ActiveSet{}, false))

	assert.Equal(t, []domain.EventType{
		domain.EventTimeUpdated,
		domain.EventPlaybackStateChanged,
		domain.EventActiveElementsChanged,
	}, types)

	bus.Unsubscribe(allID)
	assert.Zero(t, bus.SubscriberCount())
}

func TestSubscribeFiltered(t *testing.T) {
	bus := newTestBus(t)

	var forced []float64
	bus.SubscribeFiltered(domain.EventActiveElementsChanged, func(e domain.Event) bool {
		return e.(domain.ActiveElementsChangedEvent).Forced
	}, func(e domain.Event) {
		forced = append(forced, e.(domain.ActiveElementsChangedEvent).Active.Time)
	})

	bus.Publish(domain.NewActiveElementsChangedEvent(domain.ActiveSet{Time: 1}, false))
	bus.Publish(domain.NewActiveElementsChangedEvent(domain.ActiveSet{Time: 2}, true))
	bus.Publish(domain.NewActiveElementsChangedEvent(domain.ActiveSet{Time: 3}, false))

	assert.Equal(t, []float64{2}, forced)
}

// TestHasSubscribers tests the HasSubscribers method.
func TestHasSubscribers(t *testing.T) {
	bus := newTestBus(t)

	assert.False(t, bus.HasSubscribers(domain.EventTimeUpdated))

	bus.Subscribe(domain.EventTimeUpdated, func(domain.Event) {})
	assert.True(t, bus.HasSubscribers(domain.EventTimeUpdated))
	assert.False(t, bus.HasSubscribers(domain.EventSeekDetected))

	bus.SubscribeAll(func(domain.Event) {})
	assert.True(t, bus.HasSubscribers(domain.EventSeekDetected), "wildcard counts for every type")
}

// TestHandlerPanic tests that panicking handlers don't crash the bus.
func TestHandlerPanic(t *testing.T) {
	bus := newTestBus(t)

	var calls int32
	bus.Subscribe(domain.EventPlayerError, func(domain.Event) { panic("test panic") })
	bus.Subscribe(domain.EventPlayerError, func(domain.Event) { atomic.AddInt32(&calls, 1) })

	assert.NotPanics(t, func() {
		bus.Publish(domain.NewPlayerErrorEvent("seek", errors.New("boom")))
	})
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

// TestClose tests closing the event bus.
func TestClose(t *testing.T) {
	bus := NewSyncEventBus(nil)

	var calls int32
	bus.Subscribe(domain.EventTimeUpdated, func(domain.Event) { atomic.AddInt32(&calls, 1) })
	bus.SubscribeAll(func(domain.Event) {})
	require.Equal(t, 2, bus.SubscriberCount())

	require.NoError(t, bus.Close())
	assert.Zero(t, bus.SubscriberCount())

	bus.Publish(domain.NewTimeUpdatedEvent(1))
	assert.Zero(t, atomic.LoadInt32(&calls))

	assert.Empty(t, bus.Subscribe(domain.EventTimeUpdated, func(domain.Event) {}))
	assert.Empty(t, bus.SubscribeAll(func(domain.Event) {}))

	err := bus.Close()
	assert.ErrorIs(t, err, domain.ErrClosed)
}

func TestNilHandlerPanics(t *testing.T) {
	bus := newTestBus(t)
	assert.Panics(t, func() { bus.Subscribe(domain.EventTimeUpdated, nil) })
	assert.Panics(t, func() { bus.SubscribeAll(nil) })
}

// TestConcurrentPublishAndSubscribe tests concurrent publishing and subscribing (run with -race).
func TestConcurrentPublishAndSubscribe(t *testing.T) {
	bus := newTestBus(t)

	var eventCount int32
	bus.Subscribe(domain.EventTimeUpdated, func(domain.Event) {
		atomic.AddInt32(&eventCount, 1)
	})

	const publishers = 8
	const eventsPerPublisher = 100

	var wg sync.WaitGroup
	for i := 0; i < publishers; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < eventsPerPublisher; j++ {
				bus.Publish(domain.NewTimeUpdatedEvent(float64(j)))
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				id := bus.Subscribe(domain.EventSeekDetected, func(domain.Event) {})
				bus.Unsubscribe(id)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(publishers*eventsPerPublisher), atomic.LoadInt32(&eventCount))
	assert.Equal(t, 1, bus.SubscriberCount())
}
