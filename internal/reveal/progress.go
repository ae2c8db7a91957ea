package reveal

import (
	"context"
	"errors"
	"slices"
)

// ErrNotFound is returned by Gateway.Load when no progress has been saved yet.
// The engine treats it as a first run.
var ErrNotFound = errors.New("reveal: progress not found")

// Progress is the persisted state of one player's game.
type Progress struct {
	TotalClicks   int
	CurrentLevel  int
	CurrentPixels []int // Revealed indices of the in-progress level
}

// DefaultProgress is the state of a fresh game.
func DefaultProgress() Progress {
	return Progress{
		TotalClicks:   0,
		CurrentLevel:  1,
		CurrentPixels: []int{},
	}
}

// Field selects which Progress fields a Delta carries.
type Field uint8

const (
	FieldClicks Field = 1 << iota
	FieldLevel
	FieldPixels

	FieldAll = FieldClicks | FieldLevel | FieldPixels
)

// Delta is a partial Progress update. Only the fields named in Fields are
// meaningful; the rest must be left untouched by the gateway.
type Delta struct {
	Fields        Field
	TotalClicks   int
	CurrentLevel  int
	CurrentPixels []int
}

// Has reports whether the delta carries field f.
func (d Delta) Has(f Field) bool {
	return d.Fields&f != 0
}

// IsZero reports whether the delta carries no fields.
func (d Delta) IsZero() bool {
	return d.Fields == 0
}

// Merge returns d updated with every field carried by next.
// Fields carried only by d survive, so a pending level change is never lost.
func (d Delta) Merge(next Delta) Delta {
	out := d
	if next.Has(FieldClicks) {
		out.TotalClicks = next.TotalClicks
	}
	if next.Has(FieldLevel) {
		out.CurrentLevel = next.CurrentLevel
	}
	if next.Has(FieldPixels) {
		out.CurrentPixels = slices.Clone(next.CurrentPixels)
	}
	out.Fields |= next.Fields
	return out
}

// Apply returns p with the fields carried by d applied.
func (p Progress) Apply(d Delta) Progress {
	out := p
	if d.Has(FieldClicks) {
		out.TotalClicks = d.TotalClicks
	}
	if d.Has(FieldLevel) {
		out.CurrentLevel = d.CurrentLevel
	}
	if d.Has(FieldPixels) {
		out.CurrentPixels = slices.Clone(d.CurrentPixels)
	}
	return out
}

// FullDelta returns a delta that carries every field of p.
func (p Progress) FullDelta() Delta {
	return Delta{
		Fields:        FieldAll,
		TotalClicks:   p.TotalClicks,
		CurrentLevel:  p.CurrentLevel,
		CurrentPixels: slices.Clone(p.CurrentPixels),
	}
}

// Gateway is the persistence contract the engine reads from and writes to.
// Save must apply a delta atomically: all carried fields or none.
type Gateway interface {
	Load(ctx context.Context) (Progress, error)
	Save(ctx context.Context, d Delta) error
}
