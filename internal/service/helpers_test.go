package service

import (
	"context"
	"sync"
	"time"

	"github.com/tejashwikalptaru/mixviz/internal/domain"
)

// manualClock is a ports.Clock that only moves when told to.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakePlayer is a hand-driven ports.Controllable.
type fakePlayer struct {
	mu       sync.Mutex
	ready    bool
	position float64
	seekErr  error
	seeks    []float64
	handlers map[int]func(domain.PlayerState)
	nextID   int

	// when set, the next CurrentTime parks after sampling until gate closes
	gate   chan struct{}
	parked chan struct{}
}

func newFakePlayer() *fakePlayer {
	return &fakePlayer{ready: true, handlers: make(map[int]func(domain.PlayerState))}
}

func (p *fakePlayer) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ready
}

func (p *fakePlayer) SetReady(ready bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ready = ready
}

func (p *fakePlayer) CurrentTime() (float64, error) {
	p.mu.Lock()
	if !p.ready {
		p.mu.Unlock()
		return 0, domain.ErrPlayerNotReady
	}
	pos := p.position
	gate, parked := p.gate, p.parked
	p.gate, p.parked = nil, nil
	p.mu.Unlock()

	if gate != nil {
		close(parked)
		<-gate
	}
	return pos, nil
}

// HoldNextRead makes the next CurrentTime call sample the position, then wait
// for release. parked closes once the sample is taken.
func (p *fakePlayer) HoldNextRead() (parked <-chan struct{}, release func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	gate := make(chan struct{})
	p.gate = gate
	p.parked = make(chan struct{})
	return p.parked, func() { close(gate) }
}

func (p *fakePlayer) SetPosition(t float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position = t
}

func (p *fakePlayer) SeekTo(t float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.seekErr != nil {
		return p.seekErr
	}
	p.seeks = append(p.seeks, t)
	p.position = t
	return nil
}

func (p *fakePlayer) Seeks() []float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]float64(nil), p.seeks...)
}

func (p *fakePlayer) OnStateChange(handler func(domain.PlayerState)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.handlers[id] = handler
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.handlers, id)
	}
}

func (p *fakePlayer) HandlerCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.handlers)
}

// Emit delivers a state code to every handler, outside the lock.
func (p *fakePlayer) Emit(state domain.PlayerState) {
	p.mu.Lock()
	handlers := make([]func(domain.PlayerState), 0, len(p.handlers))
	for _, h := range p.handlers {
		handlers = append(handlers, h)
	}
	p.mu.Unlock()

	for _, h := range handlers {
		h(state)
	}
}

func (p *fakePlayer) Play() error  { p.Emit(domain.PlayerPlaying); return nil }
func (p *fakePlayer) Pause() error { p.Emit(domain.PlayerPaused); return nil }

// stubSource is a ports.AnnotationSource returning canned data.
type stubSource struct {
	annotations *domain.MixAnnotations
	analysis    domain.AnalysisIndex
	annErr      error
	anaErr      error
}

func (s *stubSource) FetchAnnotations(context.Context) (*domain.MixAnnotations, error) {
	return s.annotations, s.annErr
}

func (s *stubSource) FetchAnalysis(context.Context) (domain.AnalysisIndex, error) {
	return s.analysis, s.anaErr
}

func (s *stubSource) Describe() string { return "stub" }

// amenMix is the two-record mix used across scenarios.
func amenMix() *domain.MixAnnotations {
	return &domain.MixAnnotations{
		YouTubeVideoID: "abc123",
		Patterns: []domain.Pattern{
			{
				Name:       "Amen Break",
				Type:       "jungle",
				Category:   domain.CategoryJungle,
				Timestamps: []domain.Timestamp{{Start: 10, End: 20}},
			},
		},
		Songs: []domain.Song{{Title: "Original Nuttah", Start: 0, End: 30}},
	}
}
