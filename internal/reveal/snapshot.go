package reveal

// Snapshot is a read-only view of the engine for display.
type Snapshot struct {
	Level         int
	Width         int
	Height        int
	RevealedCount int
	TotalCells    int
	Clicks        int
	Motif         Motif
	BonusActive   bool // Each click reveals an extra cell
}

// Snapshot returns the current display state.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Level:         e.level,
		Width:         e.layout.Dims.Width,
		Height:        e.layout.Dims.Height,
		RevealedCount: e.tracker.Count(),
		TotalCells:    e.layout.TotalCells,
		Clicks:        e.clicks,
		Motif:         e.layout.Motif,
		BonusActive:   e.level >= BonusLevel,
	}
}

// Remaining returns how many more reveals complete the level.
func (s Snapshot) Remaining() int {
	return max(s.TotalCells-s.RevealedCount, 0)
}
