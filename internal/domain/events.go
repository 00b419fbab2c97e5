// Package domain defines events for the event-driven architecture.
// Events decouple the sync engine from the renderers and panels that observe it.
package domain

import (
	"time"
)

// Event is the base interface for all events in the system.
// All events must implement this interface to be published via the event bus.
type Event interface {
	// Type returns the event type identifier
	Type() EventType

	// Timestamp returns when the event occurred
	Timestamp() time.Time
}

// EventType is a string identifier for different event types.
type EventType string

// Event type constants define all possible events in the system.
const (
	// Data events
	EventAnnotationsLoaded EventType = "annotations.loaded"

	// Playback events
	EventPlaybackStateChanged EventType = "playback.state_changed"
	EventTimeUpdated          EventType = "playback.time_updated"
	EventSeekDetected         EventType = "playback.seek_detected"
	EventPlayerError          EventType = "playback.error"

	// Resolution events
	EventActiveElementsChanged EventType = "elements.active_changed"
)

// EventHandler is a function that handles events.
type EventHandler func(event Event)

// SubscriptionID uniquely identifies an event subscription.
type SubscriptionID string

// baseEvent provides common event functionality.
// All concrete events should embed this struct.
type baseEvent struct {
	timestamp time.Time
}

// Timestamp returns when the event occurred.
func (e baseEvent) Timestamp() time.Time {
	return e.timestamp
}

// newBaseEvent creates a new base event with the current timestamp.
func newBaseEvent() baseEvent {
	return baseEvent{timestamp: time.Now()}
}

// AnnotationsLoadedEvent is published once the annotation store finished loading.
type AnnotationsLoadedEvent struct {
	baseEvent
	Annotations *MixAnnotations
}

// Type returns the event type.
func (e AnnotationsLoadedEvent) Type() EventType {
	return EventAnnotationsLoaded
}

// NewAnnotationsLoadedEvent creates a new AnnotationsLoadedEvent.
func NewAnnotationsLoadedEvent(annotations *MixAnnotations) AnnotationsLoadedEvent {
	return AnnotationsLoadedEvent{
		baseEvent:   newBaseEvent(),
		Annotations: annotations,
	}
}

// PlaybackStateChangedEvent is published when the external player reports a state code.
type PlaybackStateChangedEvent struct {
	baseEvent
	State     PlayerState
	IsPlaying bool
	Time      float64
}

// Type returns the event type.
func (e PlaybackStateChangedEvent) Type() EventType {
	return EventPlaybackStateChanged
}

// NewPlaybackStateChangedEvent creates a new PlaybackStateChangedEvent.
func NewPlaybackStateChangedEvent(state PlayerState, isPlaying bool, t float64) PlaybackStateChangedEvent {
	return PlaybackStateChangedEvent{
		baseEvent: newBaseEvent(),
		State:     state,
		IsPlaying: isPlaying,
		Time:      t,
	}
}

// TimeUpdatedEvent is published on every poll tick with the mirrored player position.
// This event fires frequently, subscribers should handle it quickly.
type TimeUpdatedEvent struct {
	baseEvent
	Time float64
}

// Type returns the event type.
func (e TimeUpdatedEvent) Type() EventType {
	return EventTimeUpdated
}

// NewTimeUpdatedEvent creates a new TimeUpdatedEvent.
func NewTimeUpdatedEvent(t float64) TimeUpdatedEvent {
	return TimeUpdatedEvent{
		baseEvent: newBaseEvent(),
		Time:      t,
	}
}

// SeekDetectedEvent is published when the seek checker observes a discontinuous jump.
type SeekDetectedEvent struct {
	baseEvent
	From float64
	To   float64
}

// Type returns the event type.
func (e SeekDetectedEvent) Type() EventType {
	return EventSeekDetected
}

// NewSeekDetectedEvent creates a new SeekDetectedEvent.
func NewSeekDetectedEvent(from, to float64) SeekDetectedEvent {
	return SeekDetectedEvent{
		baseEvent: newBaseEvent(),
		From:      from,
		To:        to,
	}
}

// PlayerErrorEvent is published when a player command fails.
// It is surfaced to the user as a best-effort notification; the command is not retried.
type PlayerErrorEvent struct {
	baseEvent
	Op    string
	Error error
}

// Type returns the event type.
func (e PlayerErrorEvent) Type() EventType {
	return EventPlayerError
}

// NewPlayerErrorEvent creates a new PlayerErrorEvent.
func NewPlayerErrorEvent(op string, err error) PlayerErrorEvent {
	return PlayerErrorEvent{
		baseEvent: newBaseEvent(),
		Op:        op,
		Error:     err,
	}
}

// ActiveElementsChangedEvent is published after every re-resolution.
type ActiveElementsChangedEvent struct {
	baseEvent
	Active ActiveSet

	// Forced is true when the resolution bypassed the poll throttle (seek, state change)
	Forced bool
}

// Type returns the event type.
func (e ActiveElementsChangedEvent) Type() EventType {
	return EventActiveElementsChanged
}

// NewActiveElementsChangedEvent creates a new ActiveElementsChangedEvent.
func NewActiveElementsChangedEvent(active ActiveSet, forced bool) ActiveElementsChangedEvent {
	return ActiveElementsChangedEvent{
		baseEvent: newBaseEvent(),
		Active:    active,
		Forced:    forced,
	}
}
