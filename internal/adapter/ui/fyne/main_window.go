package fyne

import (
	"log/slog"
	"sync"
	"time"

	fyneapp "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/tejashwikalptaru/mixviz/internal/adapter/ui/fyne/widgets"
	"github.com/tejashwikalptaru/mixviz/internal/domain"
	"github.com/tejashwikalptaru/mixviz/internal/ports"
	"github.com/tejashwikalptaru/mixviz/internal/render"
)

// Window defaults.
const (
	APPNAME = "MixViz"
	WIDTH   = 1100
	HEIGHT  = 720

	// songWidth is the number of characters the song banner shows before scrolling
	songWidth = 40
)

// WindowConfig holds the view settings that do not come from the presenter.
type WindowConfig struct {
	// Title is the window title prefix
	Title string

	// Version is shown in the about dialog
	Version string

	// PlayerURL is the browser page of the remote bridge ("" with the simulated player)
	PlayerURL string

	// FrameInterval and PhaseStep drive the element animations
	FrameInterval time.Duration
	PhaseStep     float64
}

// MainWindow is the main UI window implementing ports.UI.
// It handles all UI rendering and user interactions.
//
// The MainWindow follows the MVP pattern:
// - It's a "dumb view" that just displays data
// - All business logic is in the Presenter
// - User interactions are forwarded to the Presenter
//
// Every ports.UI method may be called from any goroutine; updates are
// marshalled onto the Fyne thread with fyne.Do.
type MainWindow struct {
	app    fyneapp.App
	window fyneapp.Window
	cfg    WindowConfig
	logger *slog.Logger

	// UI components
	mixTitle    *widget.Label
	mixDesc     *widget.Label
	songInfo    *widget.Label
	timeLabel   *widget.Label
	playButton  *widget.Button
	timeline    *widgets.TimelineView
	emptyLabel  *widget.Label
	elementGrid *fyneapp.Container
	junglePanel *widgets.InfoPanel
	dnbPanel    *widgets.InfoPanel

	// State, only touched on the Fyne thread
	views    []*widgets.ElementView
	playing  bool
	duration float64
	marquee  *widgets.Marquee

	// Lifecycle management
	closeOnce sync.Once

	// Presenter (set after construction)
	presenter *Presenter
}

// NewMainWindow creates a new main window.
func NewMainWindow(app fyneapp.App, cfg WindowConfig, logger *slog.Logger) *MainWindow {
	if cfg.Title == "" {
		cfg.Title = APPNAME
	}

	w := &MainWindow{
		app:      app,
		cfg:      cfg,
		logger:   logger.With(slog.String("adapter", "main_window")),
		duration: render.DefaultMixDuration,
		marquee:  widgets.NewMarquee("", songWidth),
	}

	w.window = app.NewWindow(cfg.Title)
	w.buildUI()

	w.window.Resize(fyneapp.NewSize(WIDTH, HEIGHT))
	w.window.SetOnClosed(w.stopAnimations)

	return w
}

// SetPresenter connects the presenter to this view.
// This must be called before showing the window.
func (w *MainWindow) SetPresenter(presenter *Presenter) {
	w.presenter = presenter
	w.addShortcuts()
}

// buildUI constructs the UI components.
func (w *MainWindow) buildUI() {
	w.mixTitle = widget.NewLabelWithStyle(w.cfg.Title, fyneapp.TextAlignLeading, fyneapp.TextStyle{Bold: true})
	w.mixDesc = widget.NewLabel("")
	w.mixDesc.Wrapping = fyneapp.TextWrapWord
	w.mixDesc.Hide()

	// Song banner
	w.songInfo = widget.NewLabel("")
	w.songInfo.Truncation = fyneapp.TextTruncateClip
	w.songInfo.TextStyle = fyneapp.TextStyle{
		Bold:   true,
		Italic: true,
	}

	w.playButton = widget.NewButtonWithIcon("", theme.MediaPlayIcon(), w.onPlayPause)
	w.playButton.Hide()
	w.timeLabel = widget.NewLabel(render.FormatTime(0) + " / " + render.FormatTime(w.duration))

	w.timeline = widgets.NewTimelineView(w.onSeek)

	// Active elements
	w.emptyLabel = widget.NewLabel("No elements currently active")
	w.elementGrid = container.NewGridWrap(fyneapp.NewSize(220, 150))

	w.junglePanel = widgets.NewInfoPanel(domain.CategoryJungle, w.onSeek)
	w.dnbPanel = widgets.NewInfoPanel(domain.CategoryDnB, w.onSeek)

	header := container.NewVBox(
		w.mixTitle,
		w.mixDesc,
		container.NewBorder(nil, nil, w.playButton, w.timeLabel, w.songInfo),
		w.timeline,
	)
	elements := container.NewBorder(
		widget.NewLabelWithStyle("Active Elements", fyneapp.TextAlignLeading, fyneapp.TextStyle{Bold: true}),
		nil, nil, nil,
		container.NewVScroll(container.NewVBox(w.emptyLabel, w.elementGrid)),
	)
	panels := container.NewGridWithColumns(2, w.junglePanel, w.dnbPanel)
	body := container.NewVSplit(elements, panels)
	body.SetOffset(0.45)

	w.window.SetContent(container.NewPadded(container.NewBorder(header, nil, nil, nil, body)))
	w.window.SetMainMenu(fyneapp.NewMainMenu(w.createMenu()...))
}

// createMenu creates the application menu.
func (w *MainWindow) createMenu() []*fyneapp.Menu {
	playerPage := fyneapp.NewMenuItem("Player Page", func() {
		NewPlayerPageDialog(w.window, w.cfg.PlayerURL, w.logger).Show()
	})
	about := fyneapp.NewMenuItem("About", func() {
		NewAboutDialog(w.window, w.cfg.Version).Show()
	})

	// Fyne adds Quit to the first menu
	return []*fyneapp.Menu{
		fyneapp.NewMenu("File", playerPage),
		fyneapp.NewMenu("Help", about),
	}
}

// addShortcuts adds keyboard shortcuts.
func (w *MainWindow) addShortcuts() {
	w.window.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyneapp.KeySpace,
		Modifier: fyneapp.KeyModifierShortcutDefault,
	}, func(fyneapp.Shortcut) {
		w.onPlayPause()
	})
}

func (w *MainWindow) onPlayPause() {
	if w.presenter != nil {
		w.presenter.OnPlayPauseClicked()
	}
}

func (w *MainWindow) onSeek(seconds float64) {
	if w.presenter != nil {
		w.presenter.OnSeekRequested(seconds)
	}
}

// Run shows the window and runs the application.
func (w *MainWindow) Run() error {
	w.window.ShowAndRun()
	return nil
}

// Quit stops the animations and closes the application.
// It's safe to call multiple times (idempotent).
func (w *MainWindow) Quit() {
	w.closeOnce.Do(func() {
		fyneapp.Do(func() {
			w.stopAnimations()
			w.app.Quit()
		})
	})
}

func (w *MainWindow) stopAnimations() {
	for _, v := range w.views {
		v.Stop()
	}
}

// GetWindow returns the underlying Fyne window.
func (w *MainWindow) GetWindow() fyneapp.Window {
	return w.window
}

// ports.UI implementation

// SetAnnotations shows the mix title and description and redraws the timeline bands.
func (w *MainWindow) SetAnnotations(annotations *domain.MixAnnotations) {
	fyneapp.Do(func() {
		title := w.cfg.Title
		if annotations != nil && annotations.MixTitle != "" {
			title = annotations.MixTitle
			w.window.SetTitle(w.cfg.Title + " - " + annotations.MixTitle)
		}
		w.mixTitle.SetText(title)

		if annotations != nil && annotations.MixDescription != "" {
			w.mixDesc.SetText(annotations.MixDescription)
			w.mixDesc.Show()
		} else {
			w.mixDesc.Hide()
		}

		if annotations.Empty() {
			w.emptyLabel.SetText("No annotation data loaded")
		} else {
			w.emptyLabel.SetText("No elements currently active")
		}
		w.timeline.SetAnnotations(annotations)
	})
}

// SetTimelineDuration rescales the timeline.
func (w *MainWindow) SetTimelineDuration(seconds float64) {
	fyneapp.Do(func() {
		w.duration = seconds
		w.timeline.SetDuration(seconds)
	})
}

// SetCurrentTime moves the playhead and updates the time label.
// While playing, each update also scrolls a long song title by one character.
func (w *MainWindow) SetCurrentTime(seconds float64) {
	fyneapp.Do(func() {
		w.timeline.SetCurrentTime(seconds)
		w.timeLabel.SetText(render.FormatTime(seconds) + " / " + render.FormatTime(w.duration))
		if w.playing && w.marquee.Scrolls() {
			w.songInfo.SetText(w.marquee.Next())
		}
	})
}

// SetPlayState updates the play/pause button and switches element animations.
func (w *MainWindow) SetPlayState(playing bool) {
	fyneapp.Do(func() {
		w.playing = playing
		if playing {
			w.playButton.SetIcon(theme.MediaPauseIcon())
		} else {
			w.playButton.SetIcon(theme.MediaPlayIcon())
		}
		for _, v := range w.views {
			v.SetPlaying(playing)
		}
	})
}

// SetControlsEnabled shows the play/pause button for controllable players.
func (w *MainWindow) SetControlsEnabled(enabled bool) {
	fyneapp.Do(func() {
		if enabled {
			w.playButton.Show()
		} else {
			w.playButton.Hide()
		}
	})
}

// SetActiveElements replaces the element cards with one animated card per active pattern.
func (w *MainWindow) SetActiveElements(active domain.ActiveSet) {
	patterns := active.Patterns
	fyneapp.Do(func() {
		w.stopAnimations()
		w.views = w.views[:0]

		cards := make([]fyneapp.CanvasObject, 0, len(patterns))
		for i := range patterns {
			view := widgets.NewElementView(w.cfg.FrameInterval, w.cfg.PhaseStep)
			view.SetPlaying(w.playing)
			view.SetPattern(&patterns[i])
			w.views = append(w.views, view)

			subtitle := patterns[i].Category.String() + " element · " + render.SelectStyle(patterns[i]).String()
			cards = append(cards, widget.NewCard(patterns[i].Name, subtitle, view))
		}

		w.elementGrid.Objects = cards
		w.elementGrid.Refresh()
		if len(cards) == 0 {
			w.emptyLabel.Show()
		} else {
			w.emptyLabel.Hide()
		}
	})
}

// SetCurrentSong updates the "now playing" banner.
func (w *MainWindow) SetCurrentSong(title string) {
	fyneapp.Do(func() {
		if title != "" {
			title = "Now playing: " + title
		}
		w.marquee.SetText(title)
		w.songInfo.SetText(w.marquee.Text())
	})
}

// SetJunglePanel shows the active jungle pattern or the jungle overview.
func (w *MainWindow) SetJunglePanel(pattern *domain.Pattern, sample *domain.SampleInfo) {
	fyneapp.Do(func() {
		w.junglePanel.ShowPattern(pattern, sample)
	})
}

// SetDnBPanel shows the active drum & bass pattern or the DnB overview.
func (w *MainWindow) SetDnBPanel(pattern *domain.Pattern, sample *domain.SampleInfo) {
	fyneapp.Do(func() {
		w.dnbPanel.ShowPattern(pattern, sample)
	})
}

// ShowNotification displays a system notification.
func (w *MainWindow) ShowNotification(title, message string) {
	w.logger.Info("notification", slog.String("title", title), slog.String("message", message))
	w.app.SendNotification(fyneapp.NewNotification(title, message))
}

// Verify ports.UI implementation
var _ ports.UI = (*MainWindow)(nil)
