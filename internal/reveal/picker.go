package reveal

import (
	"math/rand"
	"time"
)

// Picker chooses one index uniformly from a non-empty candidate list.
// It is the only source of nondeterminism in the engine.
type Picker interface {
	Pick(candidates []int) int
}

// RandPicker picks with a seeded math/rand source.
type RandPicker struct {
	rng *rand.Rand
}

// NewRandPicker creates a picker. A zero seed uses the current time.
func NewRandPicker(seed int64) *RandPicker {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandPicker{rng: rand.New(rand.NewSource(seed))}
}

// Pick returns a uniformly chosen element of candidates.
func (p *RandPicker) Pick(candidates []int) int {
	return candidates[p.rng.Intn(len(candidates))]
}

// PickerFunc adapts a function to the Picker interface.
type PickerFunc func(candidates []int) int

// Pick calls f(candidates).
func (f PickerFunc) Pick(candidates []int) int {
	return f(candidates)
}
