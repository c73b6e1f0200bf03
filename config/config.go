// Package config loads calder settings from a TOML file, falling back to
// defaults when no file is present.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// View holds display-surface settings.
type View struct {
	Width       float64 `toml:"width"`
	Height      float64 `toml:"height"`
	FadeOpacity float64 `toml:"fade_opacity"`
	TickMillis  int     `toml:"tick_millis"`
	Palette     string  `toml:"palette"`
}

// Physics holds simulation parameters. Zero values defer to the
// simulation's own defaults.
type Physics struct {
	Repulsion      float64 `toml:"repulsion"`
	SpringLength   float64 `toml:"spring_length"`
	CollideRadius  float64 `toml:"collide_radius"`
	VelocityDecay  float64 `toml:"velocity_decay"`
	AlphaDecay     float64 `toml:"alpha_decay"`
	DriftAmplitude float64 `toml:"drift_amplitude"`
}

// Server holds HTTP server settings.
type Server struct {
	Addr            string `toml:"addr"`
	FramesPerSecond int    `toml:"frames_per_second"`
	ShutdownSeconds int    `toml:"shutdown_seconds"`
}

// Config is the full settings tree.
type Config struct {
	View    View    `toml:"view"`
	Physics Physics `toml:"physics"`
	Server  Server  `toml:"server"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		View: View{
			Width:       800,
			Height:      600,
			FadeOpacity: 0.2,
			TickMillis:  16,
			Palette:     "default",
		},
		Server: Server{
			Addr:            ":8080",
			FramesPerSecond: 60,
			ShutdownSeconds: 10,
		},
	}
}

// Load reads a TOML config file. A missing file is not an error: the
// defaults are returned. An unreadable or malformed file is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("loading config %s: %w", path, err)
	}
	return cfg, nil
}

// TickInterval converts the configured tick period to a duration.
func (v View) TickInterval() time.Duration {
	if v.TickMillis <= 0 {
		return 0
	}
	return time.Duration(v.TickMillis) * time.Millisecond
}

// ShutdownTimeout converts the configured grace period to a duration.
func (s Server) ShutdownTimeout() time.Duration {
	if s.ShutdownSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(s.ShutdownSeconds) * time.Second
}
