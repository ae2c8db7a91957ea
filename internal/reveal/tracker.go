package reveal

import (
	"sort"

	"github.com/zyedidia/generic/mapset"
)

// Tracker holds the set of revealed cell indices for the current level.
// Indices are always within [0, cells).
type Tracker struct {
	cells    int
	revealed mapset.Set[int]
}

// NewTracker creates an empty tracker for a grid with the given cell count.
func NewTracker(cells int) *Tracker {
	return &Tracker{
		cells:    cells,
		revealed: mapset.New[int](),
	}
}

// Reveal marks index as revealed. Returns true if the cell was newly revealed.
// Out-of-range indices and repeats are no-ops.
func (t *Tracker) Reveal(index int) bool {
	if index < 0 || index >= t.cells || t.revealed.Has(index) {
		return false
	}
	t.revealed.Put(index)
	return true
}

// IsRevealed reports whether index has been revealed.
func (t *Tracker) IsRevealed(index int) bool {
	return t.revealed.Has(index)
}

// Count returns the number of revealed cells.
func (t *Tracker) Count() int {
	return t.revealed.Size()
}

// Indices returns the revealed indices in ascending order.
func (t *Tracker) Indices() []int {
	out := make([]int, 0, t.revealed.Size())
	t.revealed.Each(func(i int) {
		out = append(out, i)
	})
	sort.Ints(out)
	return out
}

// Unrevealed returns every hidden index in ascending order.
func (t *Tracker) Unrevealed() []int {
	out := make([]int, 0, t.cells-t.revealed.Size())
	for i := 0; i < t.cells; i++ {
		if !t.revealed.Has(i) {
			out = append(out, i)
		}
	}
	return out
}

// Reset empties the set.
func (t *Tracker) Reset() {
	t.revealed = mapset.New[int]()
}

// Resize empties the set and changes the grid cell count.
func (t *Tracker) Resize(cells int) {
	t.cells = cells
	t.Reset()
}
