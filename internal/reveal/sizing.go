// Package reveal implements the level-progression and pixel-reveal engine.
// It is UI-agnostic and deterministic apart from the injected Picker used
// for bonus reveals.
package reveal

import (
	"errors"
	"fmt"
)

// ErrInvalidLevel is returned for levels below 1.
var ErrInvalidLevel = errors.New("reveal: invalid level")

// Dims is the shape of a level's reveal grid.
type Dims struct {
	Width  int
	Height int
}

// Cells returns the number of addressable cells in the grid.
// This can exceed the level's total cell count.
func (d Dims) Cells() int {
	return d.Width * d.Height
}

// Contains reports whether (x, y) lies inside the grid.
func (d Dims) Contains(x, y int) bool {
	return x >= 0 && x < d.Width && y >= 0 && y < d.Height
}

// Index converts a coordinate to a row-major cell index.
func (d Dims) Index(x, y int) int {
	return y*d.Width + x
}

// Coord converts a row-major cell index back to a coordinate.
func (d Dims) Coord(index int) (x, y int) {
	if d.Width == 0 {
		return 0, 0
	}
	return index % d.Width, index / d.Width
}

// TotalCells returns how many cells must be revealed to complete a level.
//
// Level 1 needs 10 cells, levels 2-10 add 10 cells per level, and from level
// 11 on every full ten levels adds 200 cells with 20 cells per level in between.
func TotalCells(level int) (int, error) {
	if level < 1 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidLevel, level)
	}
	if level == 1 {
		return 10, nil
	}
	if level <= 10 {
		return 10 + (level-1)*10, nil
	}

	extra := level - 10
	return 100 + (extra/10)*200 + (extra%10)*20, nil
}

// MustTotalCells is like TotalCells but panics on an invalid level.
func MustTotalCells(level int) int {
	total, err := TotalCells(level)
	if err != nil {
		panic(err)
	}
	return total
}

// Dimensions returns the most nearly square grid that holds total cells:
// width = ceil(sqrt(total)), height = ceil(total / width).
func Dimensions(total int) Dims {
	if total <= 0 {
		return Dims{}
	}
	w := ceilSqrt(total)
	return Dims{
		Width:  w,
		Height: (total + w - 1) / w,
	}
}

// ceilSqrt returns the smallest n with n*n >= v, using integers only.
func ceilSqrt(v int) int {
	n := 0
	for n*n < v {
		n++
	}
	return n
}

// Layout describes everything derived from a level number.
type Layout struct {
	Level      int
	TotalCells int
	Dims       Dims
	Motif      Motif
}

// LevelLayout derives the sizing and motif for a level.
func LevelLayout(level int) (Layout, error) {
	total, err := TotalCells(level)
	if err != nil {
		return Layout{}, err
	}
	return Layout{
		Level:      level,
		TotalCells: total,
		Dims:       Dimensions(total),
		Motif:      MotifForLevel(level),
	}, nil
}
