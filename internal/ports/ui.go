// Package ports define the UI interface for view abstraction.
// This interface allows the presenter to update the UI without depending on Fyne directly.
package ports

import (
	"github.com/tejashwikalptaru/mixviz/internal/domain"
)

// UI is the interface for the user interface layer.
// This abstracts the Fyne UI implementation and allows for testing without a real UI.
//
// The presenter receives events from the event bus and calls these methods
// to update the UI accordingly. This creates a clean separation between business logic
// (services), presentation logic (presenter), and view rendering (UI).
//
// Thread-safety: Implementations must marshal updates onto the UI thread themselves,
// since the presenter calls them from the poll and seek-check goroutines.
type UI interface {
	// Data methods

	// SetAnnotations hands the loaded mix to the view (timeline bands, title).
	// Empty annotations switch the view into its "no data" state.
	SetAnnotations(annotations *domain.MixAnnotations)

	// SetTimelineDuration sets the total duration the timeline is scaled to.
	SetTimelineDuration(seconds float64)

	// Playback methods

	// SetCurrentTime moves the playhead and updates the time label.
	SetCurrentTime(seconds float64)

	// SetPlayState switches element animations between live and static.
	SetPlayState(playing bool)

	// SetControlsEnabled shows or hides play/pause controls.
	SetControlsEnabled(enabled bool)

	// Resolution methods

	// SetActiveElements updates the active pattern list and element visualizations.
	SetActiveElements(active domain.ActiveSet)

	// SetCurrentSong updates the "now playing" banner ("" clears it).
	SetCurrentSong(title string)

	// SetJunglePanel shows the given pattern, or the genre default when nil.
	SetJunglePanel(pattern *domain.Pattern, sample *domain.SampleInfo)

	// SetDnBPanel shows the given pattern, or the genre default when nil.
	SetDnBPanel(pattern *domain.Pattern, sample *domain.SampleInfo)

	// Notification methods

	// ShowNotification displays a temporary notification to the user.
	ShowNotification(title, message string)

	// Lifecycle methods

	// Run starts the UI event loop.
	// This is a blocking call that runs until the application quits.
	Run() error

	// Quit closes the application.
	Quit()
}

// UIFactory is a function that creates a UI instance.
// This allows for dependency injection of different UI implementations.
type UIFactory func() (UI, error)
