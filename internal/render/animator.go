package render

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Default animation timings: roughly one frame per display refresh.
const (
	DefaultFrameInterval = 16 * time.Millisecond
	DefaultPhaseStep     = 0.05
)

// Animator owns the frame loop of one visual slot.
//
// Run always cancels and joins the previous loop before doing anything else,
// so at most one loop is live per Animator at any instant.
type Animator struct {
	interval time.Duration
	step     float64

	// runMu serializes Run and Stop
	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	live atomic.Int32
}

// NewAnimator creates an animator. Non-positive values use the defaults.
func NewAnimator(interval time.Duration, step float64) *Animator {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	if step <= 0 {
		step = DefaultPhaseStep
	}
	return &Animator{interval: interval, step: step}
}

// Run replaces whatever the animator was doing.
//
// When playing, a loop calls frame with a phase starting at 0 and advancing by
// the phase step every frame interval. When not playing, frame is called exactly
// once with phase 0 and no loop is scheduled.
func (a *Animator) Run(playing bool, frame func(phase float64)) {
	a.runMu.Lock()
	defer a.runMu.Unlock()

	a.stopLocked()

	if !playing {
		frame(0)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	a.cancel = cancel
	a.done = done

	a.live.Add(1)
	go func() {
		defer close(done)
		defer a.live.Add(-1)

		ticker := time.NewTicker(a.interval)
		defer ticker.Stop()

		phase := 0.0
		for {
			frame(phase)
			phase += a.step

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop cancels the running loop, if any, and waits for it to exit.
func (a *Animator) Stop() {
	a.runMu.Lock()
	defer a.runMu.Unlock()
	a.stopLocked()
}

func (a *Animator) stopLocked() {
	if a.cancel == nil {
		return
	}
	a.cancel()
	<-a.done
	a.cancel = nil
	a.done = nil
}

// Live reports how many frame loops are running (0 or 1).
func (a *Animator) Live() int {
	return int(a.live.Load())
}
