// Package fyne provides Fyne UI adapter implementations.
// This package implements the UI layer using the Fyne toolkit.
package fyne

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/tejashwikalptaru/mixviz/internal/domain"
	"github.com/tejashwikalptaru/mixviz/internal/ports"
	"github.com/tejashwikalptaru/mixviz/internal/render"
	"github.com/tejashwikalptaru/mixviz/internal/service"
)

// Presenter implements the Presenter pattern (MVP architecture).
// It coordinates between services and the UI, handling all event-driven updates.
//
// Responsibilities:
// - Subscribe to events from the event bus
// - Map domain events to UI updates
// - Translate UI commands to service method calls
// - Skip view updates that would redraw identical content
//
// Thread-safety: All operations are thread-safe via sync.Mutex. Event handlers
// run on the publishing goroutine (poll loop, seek checker or UI thread).
type Presenter struct {
	// Dependencies
	logger *slog.Logger

	// Services (injected)
	syncService *service.SyncService
	store       *service.AnnotationStore

	eventBus ports.EventBus

	// UI view
	view ports.UI

	// timelineOverride pins the timeline length; 0 derives it from the data
	timelineOverride float64

	// Presentation state, used to skip redundant view updates
	mu          sync.Mutex
	initialized bool
	activeNames []string
	song        string
	jungle      string
	dnb         string

	subscriptions []domain.SubscriptionID
	shutdownOnce  sync.Once
}

// NewPresenter creates a new presenter, subscribes it to the bus and pushes
// the current state into the view.
func NewPresenter(
	logger *slog.Logger,
	syncService *service.SyncService,
	store *service.AnnotationStore,
	eventBus ports.EventBus,
	view ports.UI,
	timelineOverride float64,
) *Presenter {
	p := &Presenter{
		logger:           logger.With(slog.String("adapter", "presenter")),
		syncService:      syncService,
		store:            store,
		eventBus:         eventBus,
		view:             view,
		timelineOverride: timelineOverride,
	}

	p.subscribeToEvents()
	p.syncInitialState()

	return p
}

// subscribeToEvents subscribes to all relevant events from the event bus.
func (p *Presenter) subscribeToEvents() {
	subscriptions := map[domain.EventType]domain.EventHandler{
		// Data events
		domain.EventAnnotationsLoaded: p.onAnnotationsLoaded,

		// Playback events
		domain.EventPlaybackStateChanged: p.onPlaybackStateChanged,
		domain.EventTimeUpdated:          p.onTimeUpdated,
		domain.EventSeekDetected:         p.onSeekDetected,
		domain.EventPlayerError:          p.onPlayerError,

		// Resolution events
		domain.EventActiveElementsChanged: p.onActiveElementsChanged,
	}

	for eventType, handler := range subscriptions {
		p.subscriptions = append(p.subscriptions, p.eventBus.Subscribe(eventType, handler))
	}
}

// syncInitialState pushes whatever was loaded or resolved before the
// presenter subscribed.
func (p *Presenter) syncInitialState() {
	p.showAnnotations(p.store.Annotations())

	state := p.syncService.State()
	p.view.SetCurrentTime(state.CurrentTime)
	p.view.SetPlayState(state.IsPlaying)
	p.view.SetControlsEnabled(p.syncService.CanControl())

	p.applyActive(p.syncService.Active())
}

func (p *Presenter) showAnnotations(annotations *domain.MixAnnotations) {
	p.view.SetAnnotations(annotations)
	p.view.SetTimelineDuration(render.TimelineDuration(annotations, p.timelineOverride))
}

// Event handlers

func (p *Presenter) onAnnotationsLoaded(event domain.Event) {
	e, ok := event.(domain.AnnotationsLoadedEvent)
	if !ok {
		return
	}

	p.mu.Lock()
	p.initialized = false
	p.mu.Unlock()

	p.showAnnotations(e.Annotations)
}

func (p *Presenter) onPlaybackStateChanged(event domain.Event) {
	e, ok := event.(domain.PlaybackStateChangedEvent)
	if !ok {
		return
	}

	p.view.SetPlayState(e.IsPlaying)
	p.view.SetCurrentTime(e.Time)
}

func (p *Presenter) onTimeUpdated(event domain.Event) {
	e, ok := event.(domain.TimeUpdatedEvent)
	if !ok {
		return
	}

	p.view.SetCurrentTime(e.Time)
}

func (p *Presenter) onSeekDetected(event domain.Event) {
	e, ok := event.(domain.SeekDetectedEvent)
	if !ok {
		return
	}

	p.logger.Debug("seek detected", slog.Float64("from", e.From), slog.Float64("to", e.To))
	p.view.SetCurrentTime(e.To)
}

func (p *Presenter) onPlayerError(event domain.Event) {
	e, ok := event.(domain.PlayerErrorEvent)
	if !ok {
		return
	}

	// Players may wrap their own PlayerError; show the innermost cause
	cause := e.Error
	for {
		pe, ok := cause.(*domain.PlayerError)
		if !ok || pe.Err == nil {
			break
		}
		cause = pe.Err
	}
	p.view.ShowNotification("Player Error", fmt.Sprintf("Failed to %s: %v", e.Op, cause))
}

func (p *Presenter) onActiveElementsChanged(event domain.Event) {
	e, ok := event.(domain.ActiveElementsChangedEvent)
	if !ok {
		return
	}

	p.applyActive(e.Active)
}

// applyActive forwards the parts of a resolution that differ from what the
// view already shows. Panels are keyed by pattern name, so a pattern that stays
// active keeps its panel (and its sample lookup) untouched.
func (p *Presenter) applyActive(active domain.ActiveSet) {
	names := active.Names()
	song := active.SongTitle()
	jungle := patternName(active.Jungle)
	dnb := patternName(active.DnB)

	p.mu.Lock()
	first := !p.initialized
	namesChanged := first || !slices.Equal(p.activeNames, names)
	songChanged := first || p.song != song
	jungleChanged := first || p.jungle != jungle
	dnbChanged := first || p.dnb != dnb

	p.initialized = true
	p.activeNames = names
	p.song = song
	p.jungle = jungle
	p.dnb = dnb
	p.mu.Unlock()

	if namesChanged {
		p.view.SetActiveElements(active)
	}
	if songChanged {
		p.view.SetCurrentSong(song)
	}
	if jungleChanged {
		p.view.SetJunglePanel(active.Jungle, p.sample(active.Jungle))
	}
	if dnbChanged {
		p.view.SetDnBPanel(active.DnB, p.sample(active.DnB))
	}
}

func (p *Presenter) sample(pattern *domain.Pattern) *domain.SampleInfo {
	if pattern == nil {
		return nil
	}
	return p.store.Sample(*pattern)
}

func patternName(pattern *domain.Pattern) string {
	if pattern == nil {
		return ""
	}
	return pattern.Name
}

// UI Command handlers (called by UI)

// OnSeekRequested handles a tap on the timeline or an appearance row.
func (p *Presenter) OnSeekRequested(seconds float64) {
	if err := p.syncService.Seek(seconds); err != nil {
		p.logger.Error("seek failed", slog.Float64("time", seconds), slog.Any("error", err))
		p.notifyCommandError("Seek Error", err)
	}
}

// OnPlayPauseClicked toggles playback on a controllable player.
func (p *Presenter) OnPlayPauseClicked() {
	var err error
	if p.syncService.State().IsPlaying {
		err = p.syncService.Pause()
	} else {
		err = p.syncService.Play()
	}

	if err != nil {
		p.logger.Error("play/pause failed", slog.Any("error", err))
		p.notifyCommandError("Playback Error", err)
	}
}

// notifyCommandError shows errors the sync service did not already publish.
// Player failures arrive through PlayerErrorEvent.
func (p *Presenter) notifyCommandError(title string, err error) {
	if errors.Is(err, errors.ErrUnsupported) {
		p.view.ShowNotification(title, "The connected player does not support this command")
		return
	}
	var playerErr *domain.PlayerError
	if errors.As(err, &playerErr) {
		return
	}
	p.view.ShowNotification(title, err.Error())
}

// Shutdown unsubscribes from the bus.
// It's safe to call multiple times (idempotent).
func (p *Presenter) Shutdown() {
	p.shutdownOnce.Do(func() {
		for _, id := range p.subscriptions {
			p.eventBus.Unsubscribe(id)
		}
	})
}
