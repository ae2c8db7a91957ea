package core

// RuntimeConfig contains the session parameters the platform hands to a
// game view at startup.
type RuntimeConfig struct {
	ScreenW   int    // Screen width in characters
	ScreenH   int    // Screen height in characters
	CellWidth int    // Terminal columns per image pixel
	Seed      int64  // Bonus reveal RNG seed, 0 means time-based
	Player    string // Display name of the player
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:   80,
		ScreenH:   24,
		CellWidth: 2,
		Seed:      0,
	}
}
