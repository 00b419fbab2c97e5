// Package config loads the MixViz configuration file.
//
// YAML (.yaml, .yml) and TOML (.toml) are accepted; the format is chosen by file
// extension. Every field has a default, so the file is optional and may be partial.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/tejashwikalptaru/mixviz/internal/domain"
)

// Player modes.
const (
	PlayerRemote = "remote"
	PlayerMock   = "mock"
)

// Environment overrides, applied after the file.
const (
	EnvData   = "MIXVIZ_DATA"
	EnvPlayer = "MIXVIZ_PLAYER"
	EnvListen = "MIXVIZ_LISTEN"
)

// Config is the complete file configuration.
type Config struct {
	Data   DataConfig   `yaml:"data" toml:"data"`
	Player PlayerConfig `yaml:"player" toml:"player"`
	Sync   SyncConfig   `yaml:"sync" toml:"sync"`
	Render RenderConfig `yaml:"render" toml:"render"`
	Log    LogConfig    `yaml:"log" toml:"log"`
}

// DataConfig locates the annotation files and samples.
type DataConfig struct {
	// Source is a directory or an http(s):// base URL holding
	// mix_annotations.json and element_analysis.json
	Source string `yaml:"source" toml:"source"`

	// Timeout bounds each HTTP fetch
	Timeout time.Duration `yaml:"timeout" toml:"timeout"`

	// SamplesDir holds per-pattern audio samples; empty or missing disables them
	SamplesDir string `yaml:"samples_dir" toml:"samples_dir"`
}

// PlayerConfig selects the external player.
type PlayerConfig struct {
	// Mode is "remote" (browser bridge) or "mock" (simulated clock)
	Mode string `yaml:"mode" toml:"mode"`

	// Listen is the bridge listen address
	Listen string `yaml:"listen" toml:"listen"`

	// MockDuration is the simulated video length in seconds (0 uses the mix length)
	MockDuration float64 `yaml:"mock_duration" toml:"mock_duration"`
}

// SyncConfig tunes the time-sync engine.
type SyncConfig struct {
	PollInterval      time.Duration `yaml:"poll_interval" toml:"poll_interval"`
	SeekCheckInterval time.Duration `yaml:"seek_check_interval" toml:"seek_check_interval"`
	Throttle          time.Duration `yaml:"throttle" toml:"throttle"`

	// SeekThreshold is the jump, in seconds, that counts as a seek
	SeekThreshold float64 `yaml:"seek_threshold" toml:"seek_threshold"`
}

// RenderConfig tunes animation and the timeline.
type RenderConfig struct {
	FrameInterval time.Duration `yaml:"frame_interval" toml:"frame_interval"`
	PhaseStep     float64       `yaml:"phase_step" toml:"phase_step"`

	// TimelineDuration pins the timeline length in seconds; 0 derives it from the data
	TimelineDuration float64 `yaml:"timeline_duration" toml:"timeline_duration"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Data: DataConfig{
			Source:     "./data",
			Timeout:    10 * time.Second,
			SamplesDir: "./samples",
		},
		Player: PlayerConfig{
			Mode:   PlayerRemote,
			Listen: "127.0.0.1:8090",
		},
		Sync: SyncConfig{
			PollInterval:      100 * time.Millisecond,
			SeekCheckInterval: 200 * time.Millisecond,
			Throttle:          100 * time.Millisecond,
			SeekThreshold:     1.0,
		},
		Render: RenderConfig{
			FrameInterval: 16 * time.Millisecond,
			PhaseStep:     0.05,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Find returns the first existing config file in the standard locations, or "".
func Find() string {
	home := homeDir()
	locations := []string{
		"./mixviz.yaml",
		"./mixviz.yml",
		"./mixviz.toml",
	}
	if home != "" {
		locations = append(locations,
			filepath.Join(home, ".config", "mixviz", "config.yaml"),
			filepath.Join(home, ".config", "mixviz", "config.toml"),
		)
	}

	for _, path := range locations {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// Load reads the config file at path over the defaults, applies environment
// overrides and validates the result. An empty path searches the standard
// locations; a missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = Find()
	}
	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.Data.Source = ExpandHome(cfg.Data.Source)
	cfg.Data.SamplesDir = ExpandHome(cfg.Data.SamplesDir)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("decode TOML %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("decode YAML %s: %w", path, err)
		}
	default:
		return domain.NewValidationError("config", path, "unsupported config file extension (want .yaml, .yml or .toml)")
	}
	return nil
}

// ApplyEnvOverrides replaces file values with MIXVIZ_* environment variables.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv(EnvData); v != "" {
		c.Data.Source = v
	}
	if v := os.Getenv(EnvPlayer); v != "" {
		c.Player.Mode = v
	}
	if v := os.Getenv(EnvListen); v != "" {
		c.Player.Listen = v
	}
}

// Validate reports the first invalid setting as a *domain.ValidationError.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Data.Source) == "" {
		return domain.NewValidationError("data.source", c.Data.Source, "must not be empty")
	}

	switch c.Player.Mode {
	case PlayerRemote:
		if c.Player.Listen == "" {
			return domain.NewValidationError("player.listen", c.Player.Listen, "required in remote mode")
		}
	case PlayerMock:
		if c.Player.MockDuration < 0 {
			return domain.NewValidationError("player.mock_duration", c.Player.MockDuration, "must not be negative")
		}
	default:
		return domain.NewValidationError("player.mode", c.Player.Mode, "must be remote or mock")
	}

	durations := []struct {
		field string
		value time.Duration
	}{
		{"data.timeout", c.Data.Timeout},
		{"sync.poll_interval", c.Sync.PollInterval},
		{"sync.seek_check_interval", c.Sync.SeekCheckInterval},
		{"sync.throttle", c.Sync.Throttle},
		{"render.frame_interval", c.Render.FrameInterval},
	}
	for _, d := range durations {
		if d.value <= 0 {
			return domain.NewValidationError(d.field, d.value, "must be positive")
		}
	}

	if c.Sync.SeekThreshold <= 0 {
		return domain.NewValidationError("sync.seek_threshold", c.Sync.SeekThreshold, "must be positive")
	}
	if c.Render.PhaseStep <= 0 {
		return domain.NewValidationError("render.phase_step", c.Render.PhaseStep, "must be positive")
	}
	if c.Render.TimelineDuration < 0 {
		return domain.NewValidationError("render.timeline_duration", c.Render.TimelineDuration, "must not be negative")
	}
	if f := c.Log.Format; f != "" && f != "text" && f != "json" {
		return domain.NewValidationError("log.format", f, "must be text or json")
	}
	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home := homeDir(); home != "" {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}
