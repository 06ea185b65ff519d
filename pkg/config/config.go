// Package config handles loading and saving mma configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/mma/config.yaml
//   - Data:    ~/.local/share/mma/ (exported catalogs)
//   - State:   ~/.local/state/mma/ (debug log)
//
// Environment variables override the file; command-line flags override
// both.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const appName = "mma"

// UIConfig holds UI preference settings.
type UIConfig struct {
	Presentation bool   `yaml:"presentation,omitempty" env:"MMA_PRESENTATION"` // Start sessions in presentation mode
	Theme        string `yaml:"theme,omitempty" env:"MMA_THEME"`               // auto, dark, light
}

// TimingsConfig holds transition timings in milliseconds.
type TimingsConfig struct {
	TransitionMs     int `yaml:"transition_ms,omitempty" env:"MMA_TRANSITION_MS"`
	ScrollSettleMs   int `yaml:"scroll_settle_ms,omitempty" env:"MMA_SCROLL_SETTLE_MS"`
	ScrollDurationMs int `yaml:"scroll_duration_ms,omitempty" env:"MMA_SCROLL_DURATION_MS"`
	ScrollOffsetRows int `yaml:"scroll_offset_rows,omitempty" env:"MMA_SCROLL_OFFSET_ROWS"`
}

// WatchConfig controls live reload of the catalog file.
type WatchConfig struct {
	Enabled    bool `yaml:"enabled,omitempty" env:"MMA_WATCH"`
	Poll       bool `yaml:"poll,omitempty" env:"MMA_WATCH_POLL"`
	DebounceMs int  `yaml:"debounce_ms,omitempty" env:"MMA_WATCH_DEBOUNCE_MS"`
}

// Config is the top-level configuration for mma.
type Config struct {
	Catalog string        `yaml:"catalog,omitempty" env:"MMA_CATALOG"` // Explicit catalog file or database
	UI      UIConfig      `yaml:"ui,omitempty"`
	Timings TimingsConfig `yaml:"timings,omitempty"`
	Watch   WatchConfig   `yaml:"watch,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		UI: UIConfig{
			Theme: "auto",
		},
		Timings: TimingsConfig{
			TransitionMs:     300,
			ScrollSettleMs:   150,
			ScrollDurationMs: 1000,
			ScrollOffsetRows: 1,
		},
		Watch: WatchConfig{
			DebounceMs: 200,
		},
	}
}

// ConfigDir returns the XDG config directory for mma.
func ConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DataDir returns the XDG data directory for mma.
func DataDir() string {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// StateDir returns the XDG state directory for mma.
func StateDir() string {
	return xdgDir("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func xdgDir(envVar, homeRel string) string {
	if dir := os.Getenv(envVar); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, homeRel, appName)
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory and applies
// environment overrides. Returns defaults if the file doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()
	if path := ConfigPath(); path != "" {
		var err error
		if cfg, err = LoadFrom(path); err != nil {
			return cfg, err
		}
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// LoadFrom reads config from a specific path without environment
// overrides. Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Catalog = expandHome(cfg.Catalog)
	return cfg, nil
}

// ApplyEnv overlays MMA_* environment variables onto cfg. Unset variables
// leave the existing value alone.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	cfg.Catalog = expandHome(cfg.Catalog)
	return nil
}

// Validate rejects negative timings and unknown themes.
func (c Config) Validate() error {
	var errs []error
	for name, v := range map[string]int{
		"timings.transition_ms":      c.Timings.TransitionMs,
		"timings.scroll_settle_ms":   c.Timings.ScrollSettleMs,
		"timings.scroll_duration_ms": c.Timings.ScrollDurationMs,
		"timings.scroll_offset_rows": c.Timings.ScrollOffsetRows,
		"watch.debounce_ms":          c.Watch.DebounceMs,
	} {
		if v < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative (got %d)", name, v))
		}
	}
	switch strings.ToLower(c.UI.Theme) {
	case "", "auto", "dark", "light":
	default:
		errs = append(errs, fmt.Errorf("ui.theme must be auto, dark or light (got %q)", c.UI.Theme))
	}
	return errors.Join(errs...)
}

// Transition returns the deferred transition delay.
func (t TimingsConfig) Transition() time.Duration {
	return time.Duration(t.TransitionMs) * time.Millisecond
}

// ScrollSettle returns the pause before the takeaways scroll starts.
func (t TimingsConfig) ScrollSettle() time.Duration {
	return time.Duration(t.ScrollSettleMs) * time.Millisecond
}

// ScrollDuration returns the length of the takeaways scroll animation.
func (t TimingsConfig) ScrollDuration() time.Duration {
	return time.Duration(t.ScrollDurationMs) * time.Millisecond
}

// Debounce returns the watcher debounce window.
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMs) * time.Millisecond
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
