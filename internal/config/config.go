// Package config provides YAML-based configuration loading for the
// pixel reveal clicker.
package config

import (
	"fmt"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/vovakirdan/pixel-reveal/internal/progress"
)

// ClickerConfig contains all configuration for the clicker.
type ClickerConfig struct {
	Flush       FlushConfig       `yaml:"flush"`
	Render      RenderConfig      `yaml:"render"`
	Toast       ToastConfig       `yaml:"toast"`
	Leaderboard LeaderboardConfig `yaml:"leaderboard"`
}

// FlushConfig controls how often progress reaches the database.
type FlushConfig struct {
	Policy string `yaml:"policy"` // "immediate" or "batched"
	Every  int    `yaml:"every"`  // Batch size for the batched policy
}

// RenderConfig defines how the canvas is drawn.
type RenderConfig struct {
	CellWidth       int    `yaml:"cell_width"` // Terminal columns per pixel
	HiddenColor     string `yaml:"hidden_color"`
	BackgroundColor string `yaml:"background_color"`
	CursorColor     string `yaml:"cursor_color"`
}

// ToastConfig defines the level-complete banner.
type ToastConfig struct {
	DurationMS int `yaml:"duration_ms"`
}

// LeaderboardConfig defines the leaderboard view.
type LeaderboardConfig struct {
	Limit int `yaml:"limit"`
}

// FlushPolicy returns the parsed flush policy.
func (c ClickerConfig) FlushPolicy() (progress.Policy, error) {
	return progress.ParsePolicy(c.Flush.Policy)
}

// ToastDuration returns the toast lifetime.
func (c ClickerConfig) ToastDuration() time.Duration {
	return time.Duration(c.Toast.DurationMS) * time.Millisecond
}

// Validate checks values that would break rendering or persistence.
func (c ClickerConfig) Validate() error {
	if _, err := c.FlushPolicy(); err != nil {
		return err
	}
	if c.Flush.Every < 1 {
		return fmt.Errorf("config: flush.every must be at least 1, got %d", c.Flush.Every)
	}
	if c.Render.CellWidth < 1 || c.Render.CellWidth > 4 {
		return fmt.Errorf("config: render.cell_width must be 1-4, got %d", c.Render.CellWidth)
	}
	for name, hex := range map[string]string{
		"hidden_color":     c.Render.HiddenColor,
		"background_color": c.Render.BackgroundColor,
		"cursor_color":     c.Render.CursorColor,
	} {
		if _, err := colorful.Hex(hex); err != nil {
			return fmt.Errorf("config: render.%s %q: %w", name, hex, err)
		}
	}
	if c.Toast.DurationMS < 0 {
		return fmt.Errorf("config: toast.duration_ms must not be negative, got %d", c.Toast.DurationMS)
	}
	return nil
}
