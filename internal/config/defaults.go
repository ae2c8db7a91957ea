package config

import (
	_ "embed"
)

//go:embed defaults/clicker.yaml
var defaultClickerYAML []byte

// DefaultClickerConfig returns the hardcoded configuration.
// Hidden cells use the placeholder gray (128,128,128).
func DefaultClickerConfig() ClickerConfig {
	return ClickerConfig{
		Flush: FlushConfig{
			Policy: "immediate",
			Every:  10,
		},
		Render: RenderConfig{
			CellWidth:       2,
			HiddenColor:     "#808080",
			BackgroundColor: "#1e1e2e",
			CursorColor:     "#f5e0dc",
		},
		Toast: ToastConfig{
			DurationMS: 2000,
		},
		Leaderboard: LeaderboardConfig{
			Limit: 10,
		},
	}
}
