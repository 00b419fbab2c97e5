// Package app provides application-level orchestration and dependency injection.
// This package wires together all components and manages the application lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"github.com/tejashwikalptaru/mixviz/internal/adapter/annotations"
	"github.com/tejashwikalptaru/mixviz/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/mixviz/internal/adapter/player/mock"
	"github.com/tejashwikalptaru/mixviz/internal/adapter/player/remote"
	"github.com/tejashwikalptaru/mixviz/internal/adapter/samples"
	fyneui "github.com/tejashwikalptaru/mixviz/internal/adapter/ui/fyne"
	"github.com/tejashwikalptaru/mixviz/internal/config"
	"github.com/tejashwikalptaru/mixviz/internal/domain"
	"github.com/tejashwikalptaru/mixviz/internal/logger"
	"github.com/tejashwikalptaru/mixviz/internal/ports"
	"github.com/tejashwikalptaru/mixviz/internal/render"
	"github.com/tejashwikalptaru/mixviz/internal/service"
)

// shutdownTimeout bounds how long the bridge may take to close.
const shutdownTimeout = 5 * time.Second

// Application is the root application structure that holds all dependencies.
// It follows the Dependency Injection pattern with constructor-based injection.
//
// The Application struct is responsible for:
// - Creating and wiring all dependencies
// - Managing the application lifecycle (startup, shutdown)
// - Providing a clean entry point for main.go
type Application struct {
	// Core dependencies
	logger  *slog.Logger
	fyneApp fyne.App
	config  Config

	// Infrastructure
	eventBus ports.EventBus
	player   ports.Player
	bridge   *remote.Bridge

	// Services
	store       *service.AnnotationStore
	syncService *service.SyncService

	// UI
	presenter  *fyneui.Presenter
	mainWindow *fyneui.MainWindow

	shutdownOnce sync.Once
	shutdownErr  error
}

// Config holds application configuration.
type Config struct {
	// AppID is the unique application identifier
	AppID string

	// AppName is the display name
	AppName string

	// Settings is the file configuration (data source, player, timings, logging)
	Settings config.Config

	// Logger overrides the logger built from Settings.Log (nil in production)
	Logger *slog.Logger

	// TestFyneApp allows injecting a test Fyne app for testing (nil for production)
	TestFyneApp fyne.App
}

// DefaultConfig returns the default application configuration.
func DefaultConfig() Config {
	return Config{
		AppID:    "com.mixviz.app",
		AppName:  "MixViz",
		Settings: config.Default(),
	}
}

// NewApplication creates a new application with all dependencies wired.
// This is the main dependency injection function.
//
// Data problems never fail construction: missing or invalid annotation files
// produce an empty mix. Only an unusable configuration or a bridge that cannot
// bind its listen address are fatal.
func NewApplication(cfg Config) (*Application, error) {
	if err := cfg.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{config: cfg}

	// Step 1: Create logger
	if cfg.Logger != nil {
		app.logger = cfg.Logger
	} else {
		app.logger = logger.NewLogger(logger.FromSettings(cfg.Settings.Log.Level, cfg.Settings.Log.Format))
	}
	app.logger.Info("initializing application",
		slog.String("app_id", cfg.AppID),
		slog.String("version", GetVersionInfo().FullString()))

	// Step 2: Create Fyne application
	if cfg.TestFyneApp != nil {
		app.fyneApp = cfg.TestFyneApp
	} else {
		app.fyneApp = fyneapp.NewWithID(cfg.AppID)
	}

	// Step 3: Create an event bus
	app.eventBus = eventbus.NewSyncEventBus(app.logger)
	app.subscribeEventLog()

	// Step 4: Load the mix
	app.store = service.NewAnnotationStore(app.logger, app.newSource(), app.newSampleLibrary(), app.eventBus)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Settings.Data.Timeout)
	mix := app.store.Load(ctx)
	cancel()

	// Step 5: Create the player
	if err := app.createPlayer(mix); err != nil {
		_ = app.eventBus.Close()
		return nil, err
	}

	// Step 6: Create the sync engine
	settings := cfg.Settings
	app.syncService = service.NewSyncService(
		app.logger,
		app.player,
		service.NewResolver(),
		mix,
		app.eventBus,
		ports.SystemClock{},
		service.SyncConfig{
			PollInterval:      settings.Sync.PollInterval,
			SeekCheckInterval: settings.Sync.SeekCheckInterval,
			Throttle:          settings.Sync.Throttle,
			SeekThreshold:     settings.Sync.SeekThreshold,
		},
	)

	// Step 7: Create UI
	playerURL := ""
	if app.bridge != nil {
		playerURL = app.bridge.URL()
	}
	app.mainWindow = fyneui.NewMainWindow(app.fyneApp, fyneui.WindowConfig{
		Title:         cfg.AppName,
		Version:       GetVersionInfo().FullString(),
		PlayerURL:     playerURL,
		FrameInterval: settings.Render.FrameInterval,
		PhaseStep:     settings.Render.PhaseStep,
	}, app.logger)

	// Step 8: Create Presenter and wire with UI
	app.presenter = fyneui.NewPresenter(
		app.logger,
		app.syncService,
		app.store,
		app.eventBus,
		app.mainWindow,
		settings.Render.TimelineDuration,
	)
	app.mainWindow.SetPresenter(app.presenter)

	// Step 9: Start following the player clock
	app.syncService.Start()

	return app, nil
}

// subscribeEventLog logs every bus event at debug level. Time updates are
// left out, they arrive on every poll tick.
func (a *Application) subscribeEventLog() {
	if !a.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	events := a.logger.With(slog.String("component", "events"))
	a.eventBus.SubscribeAll(func(event domain.Event) {
		if event.Type() == domain.EventTimeUpdated {
			return
		}
		events.Debug("event", slog.String("type", string(event.Type())))
	})
}

func (a *Application) newSource() ports.AnnotationSource {
	data := a.config.Settings.Data
	source, err := annotations.NewSource(data.Source, data.Timeout, a.logger)
	if err != nil {
		a.logger.Warn("annotation source unusable, showing empty mix",
			slog.String("source", data.Source), slog.Any("error", err))
		return nil
	}
	return source
}

func (a *Application) newSampleLibrary() ports.SampleLibrary {
	dir := a.config.Settings.Data.SamplesDir
	if dir == "" {
		return nil
	}
	library, err := samples.NewLibrary(dir, a.logger)
	if err != nil {
		a.logger.Info("samples disabled", slog.String("dir", dir), slog.Any("error", err))
		return nil
	}
	return library
}

// createPlayer builds the configured player. The remote bridge starts
// listening right away so the player page URL is known before the UI is built.
func (a *Application) createPlayer(mix *domain.MixAnnotations) error {
	settings := a.config.Settings.Player

	switch settings.Mode {
	case config.PlayerMock:
		duration := settings.MockDuration
		if duration <= 0 {
			duration = render.TimelineDuration(mix, a.config.Settings.Render.TimelineDuration)
		}
		player := mock.NewPlayer(duration, ports.SystemClock{})
		player.SetLogger(a.logger)
		a.player = player
		a.logger.Info("using simulated player", slog.Float64("duration", duration))

	default:
		bridge := remote.NewBridge(remote.Config{
			Addr:    settings.Listen,
			VideoID: mix.YouTubeVideoID,
			Title:   mix.MixTitle,
		}, a.logger, ports.SystemClock{})
		if err := bridge.Start(); err != nil {
			return fmt.Errorf("failed to start player bridge: %w", err)
		}
		if mix.YouTubeVideoID == "" {
			a.logger.Warn("no video id in the annotations, the player page will stay empty")
		}
		a.bridge = bridge
		a.player = bridge
		a.logger.Info("open the player page in a browser", slog.String("url", bridge.URL()))
	}
	return nil
}

// Run shows the UI and blocks until the window is closed.
func (a *Application) Run() error {
	a.logger.Info("MixViz started")
	return a.mainWindow.Run()
}

// Shutdown gracefully shuts down the application.
// It's safe to call multiple times; later calls return the first result.
func (a *Application) Shutdown() error {
	a.shutdownOnce.Do(func() {
		a.logger.Info("shutting down application")

		var errs []error

		// Shutdown UI and presenter
		if a.presenter != nil {
			a.presenter.Shutdown()
		}

		// Shutdown services (in reverse order of creation)
		if a.syncService != nil {
			if err := a.syncService.Close(); err != nil {
				errs = append(errs, fmt.Errorf("sync service: %w", err))
			}
		}

		if a.bridge != nil {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			if err := a.bridge.Close(ctx); err != nil {
				errs = append(errs, fmt.Errorf("player bridge: %w", err))
			}
			cancel()
		}

		if a.eventBus != nil {
			if err := a.eventBus.Close(); err != nil && !errors.Is(err, domain.ErrClosed) {
				errs = append(errs, fmt.Errorf("event bus: %w", err))
			}
		}

		a.shutdownErr = errors.Join(errs...)
		if a.shutdownErr != nil {
			a.logger.Warn("shutdown finished with errors", slog.Any("error", a.shutdownErr))
			return
		}
		a.logger.Info("application shutdown complete")
	})
	return a.shutdownErr
}

// GetEventBus returns the event bus.
func (a *Application) GetEventBus() ports.EventBus {
	return a.eventBus
}

// GetFyneApp returns the Fyne application.
func (a *Application) GetFyneApp() fyne.App {
	return a.fyneApp
}

// GetServices returns the annotation store and the sync engine.
func (a *Application) GetServices() (*service.AnnotationStore, *service.SyncService) {
	return a.store, a.syncService
}

// GetPlayer returns the configured player.
func (a *Application) GetPlayer() ports.Player {
	return a.player
}

// PlayerURL returns the player page address, or "" with the simulated player.
func (a *Application) PlayerURL() string {
	if a.bridge == nil {
		return ""
	}
	return a.bridge.URL()
}
