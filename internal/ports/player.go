// Package ports define interfaces for dependency inversion.
// These interfaces allow the core business logic to remain independent of external frameworks.
package ports

import (
	"github.com/tejashwikalptaru/mixviz/internal/domain"
)

// Player is the capability the sync engine needs from the external video player.
// The engine never knows which player it talks to: a browser-hosted YouTube embed
// behind the remote bridge, or the simulated clock used in demos and tests.
//
// Every call into a Player is guarded by Ready. A player that is not ready is
// treated as absent, not as an error.
//
// Thread-safety: Implementations must be thread-safe. The poll loop, the seek
// checker and the UI thread call into the player concurrently.
type Player interface {
	// Ready reports whether the player can answer queries and accept commands.
	Ready() bool

	// CurrentTime returns the current playback position in seconds.
	//
	// Returns domain.ErrPlayerNotReady if the player went away.
	CurrentTime() (float64, error)

	// SeekTo requests a jump to the given position in seconds.
	// The request is sent once; failures are reported, never retried.
	SeekTo(seconds float64) error

	// OnStateChange registers a handler for state-change notifications.
	// The handler receives the raw numeric state code (1 playing, 2 paused, ...).
	//
	// Returns a function that removes the handler. Calling it twice is a no-op.
	OnStateChange(handler func(state domain.PlayerState)) (unsubscribe func())
}

// Controllable is implemented by players that accept transport commands.
// The UI shows play/pause controls only when the configured player implements it.
type Controllable interface {
	Player

	// Play starts or resumes playback.
	Play() error

	// Pause pauses playback at the current position.
	Pause() error
}
