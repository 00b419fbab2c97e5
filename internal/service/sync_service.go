// Package service provides business logic for the MixViz application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/tejashwikalptaru/mixviz/internal/domain"
	"github.com/tejashwikalptaru/mixviz/internal/ports"
)

// SyncConfig tunes the time-sync engine.
type SyncConfig struct {
	// PollInterval is how often the player clock is read while playing
	PollInterval time.Duration

	// SeekCheckInterval is how often the seek checker compares positions
	SeekCheckInterval time.Duration

	// Throttle is the minimum wall-clock gap between two polled resolutions
	Throttle time.Duration

	// SeekThreshold is the jump, in seconds, above which a position change is a seek
	SeekThreshold float64
}

// DefaultSyncConfig returns the standard timings: 100ms poll, 200ms seek check,
// 100ms throttle and a 1s seek threshold.
func DefaultSyncConfig() SyncConfig {
	return SyncConfig{
		PollInterval:      100 * time.Millisecond,
		SeekCheckInterval: 200 * time.Millisecond,
		Throttle:          100 * time.Millisecond,
		SeekThreshold:     1.0,
	}
}

// resolveMode says how a resolution request interacts with the throttle.
type resolveMode int

const (
	// resolveThrottled is used by the poll loop
	resolveThrottled resolveMode = iota

	// resolveSeek bypasses the throttle, but never resolves the same instant twice
	resolveSeek

	// resolveAlways is used by explicit seeks and state changes
	resolveAlways
)

// SyncService mirrors the external player's clock and keeps the active set current.
//
// Two loops run while the service is started: the seek checker (always) and the
// poll loop (only while the player reports "playing"). Both stop on Close, on
// every path.
type SyncService struct {
	// Dependencies (injected)
	logger      *slog.Logger
	player      ports.Player
	resolver    *Resolver
	annotations *domain.MixAnnotations
	bus         ports.EventBus
	clock       ports.Clock
	cfg         SyncConfig

	// State
	mu          sync.Mutex
	state       domain.PlaybackState
	active      domain.ActiveSet
	resolved    bool
	resolutions uint64
	closed      bool

	// seekGen increases on every explicit seek. A position sample taken under an
	// older generation is dropped.
	seekGen uint64

	// resolveMu orders resolutions and their events
	resolveMu sync.Mutex

	// Loop control
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	pollCancel  context.CancelFunc
	pollDone    chan struct{}
	unsubscribe func()
	startOnce   sync.Once
	closeOnce   sync.Once
}

// NewSyncService creates a new time-sync engine. The loops do not run until Start.
// A nil player is allowed: every player call then becomes a no-op.
func NewSyncService(
	logger *slog.Logger,
	player ports.Player,
	resolver *Resolver,
	annotations *domain.MixAnnotations,
	bus ports.EventBus,
	clock ports.Clock,
	cfg SyncConfig,
) *SyncService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if resolver == nil {
		resolver = NewResolver()
	}
	if annotations == nil {
		annotations = domain.NewEmptyAnnotations()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &SyncService{
		logger:      logger.With(slog.String("service", "sync")),
		player:      player,
		resolver:    resolver,
		annotations: annotations,
		bus:         bus,
		clock:       clock,
		cfg:         cfg,
		ctx:         ctx,
		cancel:      cancel,
	}

	s.logger.Debug("sync service initialized",
		slog.Duration("poll", cfg.PollInterval),
		slog.Duration("seek_check", cfg.SeekCheckInterval),
		slog.Duration("throttle", cfg.Throttle))

	return s
}

// Start subscribes to player state changes and starts the seek checker.
// Calling Start more than once has no effect.
func (s *SyncService) Start() {
	s.startOnce.Do(func() {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		s.wg.Add(1)
		s.mu.Unlock()

		if s.player != nil {
			unsubscribe := s.player.OnStateChange(s.handleStateChange)
			s.mu.Lock()
			s.unsubscribe = unsubscribe
			s.mu.Unlock()
		}

		go func() {
			defer s.wg.Done()
			runTicker(s.ctx, s.cfg.SeekCheckInterval, s.seekCheckTick)
		}()
	})
}

// Close stops both loops, waits for them to exit and detaches from the player.
// It is safe to call Close multiple times and before Start.
func (s *SyncService) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		unsubscribe := s.unsubscribe
		s.unsubscribe = nil
		s.pollCancel = nil
		s.pollDone = nil
		s.mu.Unlock()

		if unsubscribe != nil {
			unsubscribe()
		}

		// Cancelling the root context also cancels the poll loop's child context
		s.cancel()
		s.wg.Wait()

		s.logger.Debug("sync service closed")
	})
	return nil
}

// Seek asks the player to jump to t and resolves t right away,
// independent of polling and throttle.
//
// A player that is absent or not ready makes this a no-op. A failure reported by
// the player is logged, published as a PlayerErrorEvent and returned; it is not retried.
func (s *SyncService) Seek(t float64) error {
	if math.IsNaN(t) || math.IsInf(t, 0) || t < 0 {
		return fmt.Errorf("seek to %v: %w", t, domain.ErrInvalidPosition)
	}

	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return domain.ErrClosed
	}

	if !s.playerReady() {
		s.logger.Debug("seek ignored, player not ready", slog.Float64("time", t))
		return nil
	}

	if err := s.player.SeekTo(t); err != nil {
		return s.reportPlayerError("seek", err)
	}

	s.mu.Lock()
	s.seekGen++
	gen := s.seekGen
	s.state.CurrentTime = t
	s.state.LastObservedTime = t
	s.mu.Unlock()

	s.publishTime(t)
	s.resolve(t, resolveAlways, gen)
	return nil
}

// Play resumes playback when the player accepts transport commands.
func (s *SyncService) Play() error {
	return s.transport("play", func(c ports.Controllable) error { return c.Play() })
}

// Pause pauses playback when the player accepts transport commands.
func (s *SyncService) Pause() error {
	return s.transport("pause", func(c ports.Controllable) error { return c.Pause() })
}

// CanControl reports whether Play and Pause are supported by the player.
func (s *SyncService) CanControl() bool {
	_, ok := s.player.(ports.Controllable)
	return ok
}

func (s *SyncService) transport(op string, fn func(ports.Controllable) error) error {
	c, ok := s.player.(ports.Controllable)
	if !ok {
		return domain.NewPlayerError(op, errors.ErrUnsupported)
	}
	if !c.Ready() {
		return nil
	}
	if err := fn(c); err != nil {
		return s.reportPlayerError(op, err)
	}
	return nil
}

// State returns a copy of the mirrored playback state.
func (s *SyncService) State() domain.PlaybackState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Active returns the most recent resolution.
func (s *SyncService) Active() domain.ActiveSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Annotations returns the mix the engine resolves against.
func (s *SyncService) Annotations() *domain.MixAnnotations {
	return s.annotations
}

// PollRunning reports whether the poll loop is currently scheduled.
func (s *SyncService) PollRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pollCancel != nil
}

// handleStateChange reacts to the player's numeric state codes.
//
// Playing starts the poll loop and resolves immediately. Every other code stops
// the poll loop and clears IsPlaying, since the clock is no longer advancing;
// paused additionally resolves once so the display matches the paused instant.
func (s *SyncService) handleStateChange(state domain.PlayerState) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.state.IsPlaying = state == domain.PlayerPlaying
	if s.state.IsPlaying {
		s.startPollLocked()
	}
	gen := s.seekGen
	s.mu.Unlock()

	if state != domain.PlayerPlaying {
		s.stopPoll()
	}

	s.logger.Debug("player state changed", slog.String("state", state.String()))

	t, ok := s.readPosition()

	s.mu.Lock()
	if ok && gen == s.seekGen {
		s.state.CurrentTime = t
	} else {
		// An explicit seek landed while reading; its position is newer
		t = s.state.CurrentTime
		gen = s.seekGen
	}
	isPlaying := s.state.IsPlaying
	s.mu.Unlock()

	s.publish(domain.NewPlaybackStateChangedEvent(state, isPlaying, t))

	if state == domain.PlayerPlaying || state == domain.PlayerPaused {
		s.resolve(t, resolveAlways, gen)
	}
}

// startPollLocked schedules the poll loop. Caller must hold s.mu.
func (s *SyncService) startPollLocked() {
	if s.closed || s.pollCancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan struct{})
	s.pollCancel = cancel
	s.pollDone = done

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(done)
		runTicker(ctx, s.cfg.PollInterval, s.pollTick)
	}()
}

// stopPoll cancels the poll loop and waits for it to exit.
// Must not be called from the poll goroutine itself.
func (s *SyncService) stopPoll() {
	s.mu.Lock()
	cancel, done := s.pollCancel, s.pollDone
	s.pollCancel, s.pollDone = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// pollTick reads the clock, publishes the time and resolves subject to the throttle.
func (s *SyncService) pollTick() {
	gen := s.currentSeekGen()
	t, ok := s.readPosition()
	if !ok {
		return
	}

	s.mu.Lock()
	if gen != s.seekGen {
		s.mu.Unlock()
		return
	}
	s.state.CurrentTime = t
	s.mu.Unlock()

	s.publishTime(t)
	s.resolve(t, resolveThrottled, gen)
}

// seekCheckTick compares the observed position with the previous observation.
// A jump larger than the threshold is a seek and forces a resolution.
func (s *SyncService) seekCheckTick() {
	gen := s.currentSeekGen()
	t, ok := s.readPosition()
	if !ok {
		return
	}

	s.mu.Lock()
	if gen != s.seekGen {
		// Sampled before an explicit seek finished
		s.mu.Unlock()
		return
	}
	last := s.state.LastObservedTime
	s.state.LastObservedTime = t
	jumped := math.Abs(t-last) > s.cfg.SeekThreshold
	if jumped {
		s.state.CurrentTime = t
	}
	s.mu.Unlock()

	if !jumped {
		return
	}

	s.logger.Debug("seek detected", slog.Float64("from", last), slog.Float64("to", t))
	s.publish(domain.NewSeekDetectedEvent(last, t))
	s.resolve(t, resolveSeek, gen)
}

// resolve recomputes the active set at t unless the mode forbids it or an
// explicit seek made the sample stale. Events leave in resolution order.
// Reports whether a resolution happened.
func (s *SyncService) resolve(t float64, mode resolveMode, gen uint64) bool {
	s.resolveMu.Lock()
	defer s.resolveMu.Unlock()

	s.mu.Lock()
	if gen != s.seekGen {
		s.mu.Unlock()
		return false
	}
	now := s.clock.Now()

	if s.resolved {
		switch mode {
		case resolveThrottled:
			if now.Sub(s.state.LastUpdate) < s.cfg.Throttle {
				s.mu.Unlock()
				return false
			}
		case resolveSeek:
			// Seeks are not held to the poll throttle; only a repeat of the resolved instant is skipped
			if s.active.Time == t {
				s.mu.Unlock()
				return false
			}
		}
	}

	active := s.resolver.Resolve(t, s.annotations)
	s.active = active
	s.resolved = true
	s.resolutions++
	s.state.LastUpdate = now
	s.mu.Unlock()

	s.publish(domain.NewActiveElementsChangedEvent(active, mode != resolveThrottled))
	return true
}

func (s *SyncService) currentSeekGen() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seekGen
}

// Resolutions returns how many resolutions happened so far.
func (s *SyncService) Resolutions() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolutions
}

func (s *SyncService) playerReady() bool {
	return s.player != nil && s.player.Ready()
}

// readPosition reads the player clock behind the readiness guard.
func (s *SyncService) readPosition() (float64, bool) {
	if !s.playerReady() {
		return 0, false
	}
	t, err := s.player.CurrentTime()
	if err != nil {
		s.logger.Debug("failed to read player position", slog.Any("error", err))
		return 0, false
	}
	return t, true
}

func (s *SyncService) reportPlayerError(op string, err error) error {
	perr := domain.NewPlayerError(op, err)
	s.logger.Warn("player command failed", slog.String("op", op), slog.Any("error", err))
	s.publish(domain.NewPlayerErrorEvent(op, perr))
	return perr
}

func (s *SyncService) publishTime(t float64) {
	if s.bus != nil && s.bus.HasSubscribers(domain.EventTimeUpdated) {
		s.bus.Publish(domain.NewTimeUpdatedEvent(t))
	}
}

func (s *SyncService) publish(event domain.Event) {
	if s.bus != nil {
		s.bus.Publish(event)
	}
}

// runTicker calls fn every interval until ctx is cancelled.
func runTicker(ctx context.Context, interval time.Duration, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}
