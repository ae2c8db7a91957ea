// Package progress provides Gateway adapters that sit between the reveal
// engine and durable storage: an in-memory store, a serializing asynchronous
// saver and a batching flush policy.
package progress

import (
	"context"
	"slices"
	"sync"

	"github.com/vovakirdan/pixel-reveal/internal/reveal"
)

// Memory is an in-process Gateway. Sessions fall back to it when the
// database cannot be opened, so the game still works without persistence.
type Memory struct {
	mu     sync.Mutex
	stored *reveal.Progress
	saves  int
}

// NewMemory creates an empty gateway. Load reports ErrNotFound until the first Save.
func NewMemory() *Memory {
	return &Memory{}
}

// Load returns the stored progress.
func (m *Memory) Load(_ context.Context) (reveal.Progress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stored == nil {
		return reveal.Progress{}, reveal.ErrNotFound
	}
	p := *m.stored
	p.CurrentPixels = slices.Clone(p.CurrentPixels)
	return p, nil
}

// Save merges d into the stored progress.
func (m *Memory) Save(_ context.Context, d reveal.Delta) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	base := reveal.DefaultProgress()
	if m.stored != nil {
		base = *m.stored
	}
	next := base.Apply(d)
	m.stored = &next
	m.saves++
	return nil
}

// Saves returns how many Save calls reached the store.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
