// Package mock provides a simulated implementation of the Player interface.
// The position advances with a clock while "playing", which makes it usable both
// for demos without a browser and for driving services in tests.
package mock

import (
	"errors"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/tejashwikalptaru/mixviz/internal/domain"
	"github.com/tejashwikalptaru/mixviz/internal/ports"
)

// errSimulated is the cause of every failure the player is configured to produce.
var errSimulated = errors.New("simulated player failure")

// Player is a simulated ports.Controllable.
//
// Thread-safety: This implementation is thread-safe. State-change handlers are
// invoked synchronously by the caller of Play, Pause or Emit, outside the lock.
type Player struct {
	// Dependencies
	logger *slog.Logger
	clock  ports.Clock

	mu sync.RWMutex

	// Clock state: position is the offset at anchor; while playing the
	// current position is position + (now - anchor).
	ready    bool
	playing  bool
	position float64
	anchor   time.Time
	duration float64

	handlers map[int]func(domain.PlayerState)
	nextID   int

	// Behavior configuration (for testing error scenarios)
	failSeek bool
	failPlay bool
	seeks    []float64
}

// Compile-time interface check
var _ ports.Controllable = (*Player)(nil)

// NewPlayer creates a ready, paused player for a video of the given length in seconds.
// A nil clock uses the system clock.
func NewPlayer(duration float64, clock ports.Clock) *Player {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &Player{
		clock:    clock,
		ready:    true,
		duration: duration,
		handlers: make(map[int]func(domain.PlayerState)),
	}
}

// SetLogger sets the logger for this player.
func (p *Player) SetLogger(logger *slog.Logger) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.logger = logger
}

// SetReady toggles readiness, simulating the embed loading or going away.
func (p *Player) SetReady(ready bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ready = ready
}

// SetFailSeek configures the player to reject seeks (for testing).
func (p *Player) SetFailSeek(fail bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failSeek = fail
}

// SetFailPlay configures the player to reject play/pause (for testing).
func (p *Player) SetFailPlay(fail bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failPlay = fail
}

// Ready reports whether the player accepts calls.
func (p *Player) Ready() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ready
}

// Playing reports whether the simulated clock is running.
func (p *Player) Playing() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.playing
}

// Seeks returns every position passed to a successful SeekTo, in order.
func (p *Player) Seeks() []float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]float64, len(p.seeks))
	copy(out, p.seeks)
	return out
}

// CurrentTime returns the simulated position, clamped to the video length.
func (p *Player) CurrentTime() (float64, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.ready {
		return 0, domain.ErrPlayerNotReady
	}
	return p.positionLocked(), nil
}

func (p *Player) positionLocked() float64 {
	pos := p.position
	if p.playing {
		pos += p.clock.Now().Sub(p.anchor).Seconds()
	}
	if p.duration > 0 {
		pos = math.Min(pos, p.duration)
	}
	return pos
}

// SeekTo moves the simulated position.
func (p *Player) SeekTo(seconds float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.ready {
		return domain.ErrPlayerNotReady
	}
	if p.failSeek {
		return domain.NewPlayerError("seek", errSimulated)
	}
	if seconds < 0 || math.IsNaN(seconds) || (p.duration > 0 && seconds > p.duration) {
		return domain.ErrInvalidPosition
	}

	p.position = seconds
	p.anchor = p.clock.Now()
	p.seeks = append(p.seeks, seconds)
	p.debug("seek", slog.Float64("position", seconds))
	return nil
}

// Play starts the simulated clock and notifies handlers with PlayerPlaying.
func (p *Player) Play() error {
	return p.transition(true)
}

// Pause freezes the simulated clock and notifies handlers with PlayerPaused.
func (p *Player) Pause() error {
	return p.transition(false)
}

func (p *Player) transition(play bool) error {
	p.mu.Lock()
	if !p.ready {
		p.mu.Unlock()
		return domain.ErrPlayerNotReady
	}
	if p.failPlay {
		p.mu.Unlock()
		op := "pause"
		if play {
			op = "play"
		}
		return domain.NewPlayerError(op, errSimulated)
	}

	p.position = p.positionLocked()
	p.anchor = p.clock.Now()
	p.playing = play
	state := domain.PlayerPaused
	if play {
		state = domain.PlayerPlaying
	}
	p.debug("state change", slog.String("state", state.String()))
	p.mu.Unlock()

	p.Emit(state)
	return nil
}

// OnStateChange registers a handler for state-change notifications.
func (p *Player) OnStateChange(handler func(domain.PlayerState)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextID
	p.nextID++
	p.handlers[id] = handler

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			delete(p.handlers, id)
		})
	}
}

// Emit delivers a raw state code to every handler, as if the player reported it.
func (p *Player) Emit(state domain.PlayerState) {
	p.mu.RLock()
	handlers := make([]func(domain.PlayerState), 0, len(p.handlers))
	for id := 0; id < p.nextID; id++ {
		if h, ok := p.handlers[id]; ok {
			handlers = append(handlers, h)
		}
	}
	p.mu.RUnlock()

	for _, h := range handlers {
		h(state)
	}
}

// HandlerCount returns the number of registered state handlers.
func (p *Player) HandlerCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.handlers)
}

func (p *Player) debug(msg string, attrs ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, attrs...)
	}
}
