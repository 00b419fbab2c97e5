// Package main is the production entry point for the MixViz visualizer.
//
// MixViz follows the clock of an external YouTube player and shows which
// annotated patterns of a DJ mix are playing:
// - Event-driven communication between the sync engine and the UI
// - Dependency injection for testability
// - MVP pattern for UI decoupling
//
// Build:
//
//	go build -o build/mixviz ./cmd
//
// Run:
//
//	./build/mixviz -config mixviz.yaml
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/tejashwikalptaru/mixviz/internal/app"
	"github.com/tejashwikalptaru/mixviz/internal/config"
)

func main() {
	var (
		configPath  string
		playerMode  string
		showVersion bool
	)
	flag.StringVar(&configPath, "config", "", "Config file path (default: search ./mixviz.yaml, ~/.config/mixviz)")
	flag.StringVar(&playerMode, "player", "", "Player mode override: remote or mock")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(app.GetVersionInfo().FullString())
		return
	}

	settings, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if playerMode != "" {
		settings.Player.Mode = playerMode
	}

	appConfig := app.DefaultConfig()
	appConfig.Settings = settings

	// Create the application with dependency injection
	application, err := app.NewApplication(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Ensure a graceful shutdown
	defer func() {
		if err := application.Shutdown(); err != nil {
			fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
		}
	}()

	// Run application (blocks until the window closed)
	if err := application.Run(); err != nil {
		log.Printf("Application error: %v", err)
	}
}
