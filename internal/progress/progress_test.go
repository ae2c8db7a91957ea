package progress

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/pixel-reveal/internal/reveal"
)

// gatedGateway blocks every Save until released and records what it wrote.
type gatedGateway struct {
	mu       sync.Mutex
	writes   []reveal.Delta
	inFlight int
	maxSeen  int
	gate     chan struct{}
	failNext int
}

func newGatedGateway() *gatedGateway {
	return &gatedGateway{gate: make(chan struct{})}
}

func (g *gatedGateway) Load(context.Context) (reveal.Progress, error) {
	return reveal.Progress{}, reveal.ErrNotFound
}

func (g *gatedGateway) Save(_ context.Context, d reveal.Delta) error {
	g.mu.Lock()
	g.inFlight++
	g.maxSeen = max(g.maxSeen, g.inFlight)
	g.mu.Unlock()

	<-g.gate

	g.mu.Lock()
	defer g.mu.Unlock()
	g.inFlight--
	if g.failNext > 0 {
		g.failNext--
		return errors.New("database is locked")
	}
	g.writes = append(g.writes, d)
	return nil
}

func (g *gatedGateway) snapshot() ([]reveal.Delta, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]reveal.Delta(nil), g.writes...), g.maxSeen
}

func (g *gatedGateway) waitInFlight(t *testing.T) {
	t.Helper()
	require.Eventually(t, func() bool {
		g.mu.Lock()
		defer g.mu.Unlock()
		return g.inFlight == 1
	}, time.Second, time.Millisecond)
}

func clicks(n int, pixels ...int) reveal.Delta {
	return reveal.Delta{
		Fields:        reveal.FieldClicks | reveal.FieldPixels,
		TotalClicks:   n,
		CurrentPixels: pixels,
	}
}

func TestMemoryGateway(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.Load(ctx)
	require.ErrorIs(t, err, reveal.ErrNotFound)

	require.NoError(t, m.Save(ctx, clicks(3, 1, 2)))
	require.NoError(t, m.Save(ctx, reveal.Delta{Fields: reveal.FieldLevel, CurrentLevel: 4}))

	p, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, reveal.Progress{TotalClicks: 3, CurrentLevel: 4, CurrentPixels: []int{1, 2}}, p)
	assert.Equal(t, 2, m.Saves())

	// Callers cannot mutate the stored slice.
	p.CurrentPixels[0] = 99
	again, _ := m.Load(ctx)
	assert.Equal(t, []int{1, 2}, again.CurrentPixels)
}

func TestSaverWritesLatestState(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	s := NewSaver(m, nil)

	for i := 1; i <= 50; i++ {
		require.NoError(t, s.Save(ctx, clicks(i, i)))
	}
	require.NoError(t, s.Close(ctx))

	p, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, p.TotalClicks)
	assert.Equal(t, []int{50}, p.CurrentPixels)
	assert.LessOrEqual(t, m.Saves(), 50)
}

func TestSaverCoalescesWhileWriteInFlight(t *testing.T) {
	ctx := context.Background()
	g := newGatedGateway()
	s := NewSaver(g, nil)

	require.NoError(t, s.Save(ctx, clicks(1, 0)))
	g.waitInFlight(t)

	// These arrive while the first write is blocked and must collapse into one.
	require.NoError(t, s.Save(ctx, clicks(2, 0, 1)))
	require.NoError(t, s.Save(ctx, reveal.Delta{Fields: reveal.FieldLevel, CurrentLevel: 2}))
	require.NoError(t, s.Save(ctx, clicks(3)))

	close(g.gate)
	require.NoError(t, s.Close(ctx))

	writes, maxInFlight := g.snapshot()
	assert.Equal(t, 1, maxInFlight)
	require.Len(t, writes, 2)
	assert.Equal(t, clicks(1, 0), writes[0])
	assert.Equal(t, reveal.Delta{
		Fields:        reveal.FieldAll,
		TotalClicks:   3,
		CurrentLevel:  2,
		CurrentPixels: nil,
	}, writes[1])
}

func TestSaverRetriesFailedWrite(t *testing.T) {
	ctx := context.Background()
	g := newGatedGateway()
	g.failNext = 1
	close(g.gate)
	s := NewSaver(g, nil)

	require.NoError(t, s.Save(ctx, reveal.Delta{Fields: reveal.FieldLevel, CurrentLevel: 5}))
	require.Eventually(t, func() bool {
		g.mu.Lock()
		defer g.mu.Unlock()
		return g.failNext == 0
	}, time.Second, time.Millisecond)

	require.NoError(t, s.Save(ctx, clicks(7, 1)))
	require.NoError(t, s.Close(ctx))

	writes, _ := g.snapshot()
	require.NotEmpty(t, writes)
	merged := reveal.Delta{}
	for _, w := range writes {
		merged = merged.Merge(w)
	}
	assert.True(t, merged.Has(reveal.FieldLevel), "failed level write was dropped")
	assert.Equal(t, 5, merged.CurrentLevel)
	assert.Equal(t, 7, merged.TotalClicks)
}

func TestSaverRejectsAfterClose(t *testing.T) {
	ctx := context.Background()
	s := NewSaver(NewMemory(), nil)
	require.NoError(t, s.Close(ctx))
	require.NoError(t, s.Close(ctx))
	assert.ErrorIs(t, s.Save(ctx, clicks(1)), ErrClosed)
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		input    string
		expected Policy
		wantErr  bool
	}{
		{"", PolicyImmediate, false},
		{"immediate", PolicyImmediate, false},
		{" Batched ", PolicyBatched, false},
		{"sometimes", "", true},
	}

	for _, tc := range tests {
		got, err := ParsePolicy(tc.input)
		if tc.wantErr {
			assert.Error(t, err, tc.input)
			continue
		}
		require.NoError(t, err, tc.input)
		assert.Equal(t, tc.expected, got, tc.input)
	}
}

func TestBatcherFlushesEveryN(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	b := NewBatcher(m, 3)

	require.NoError(t, b.Save(ctx, clicks(1, 0)))
	require.NoError(t, b.Save(ctx, clicks(2, 0, 1)))
	assert.Equal(t, 0, m.Saves())

	require.NoError(t, b.Save(ctx, clicks(3, 0, 1, 2)))
	assert.Equal(t, 1, m.Saves())

	p, _ := m.Load(ctx)
	assert.Equal(t, 3, p.TotalClicks)
	assert.Equal(t, []int{0, 1, 2}, p.CurrentPixels)
}

func TestBatcherFlushesLevelChangeImmediately(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	b := NewBatcher(m, 100)

	require.NoError(t, b.Save(ctx, clicks(9, 3)))
	require.NoError(t, b.Save(ctx, reveal.Delta{
		Fields:        reveal.FieldAll,
		TotalClicks:   10,
		CurrentLevel:  2,
		CurrentPixels: []int{},
	}))
	assert.Equal(t, 1, m.Saves())

	p, _ := m.Load(ctx)
	assert.Equal(t, reveal.Progress{TotalClicks: 10, CurrentLevel: 2, CurrentPixels: []int{}}, p)
}

func TestBatcherFlushOnDemand(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	b := NewBatcher(m, 0)
	assert.Equal(t, 1, b.every)

	b = NewBatcher(m, 10)
	require.NoError(t, b.Save(ctx, clicks(1, 4)))
	require.NoError(t, b.Flush(ctx))
	require.NoError(t, b.Flush(ctx))
	assert.Equal(t, 1, m.Saves())
}

func TestPipelineEndToEnd(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	p := NewPipeline(m, PolicyBatched, 4, nil)

	e := reveal.NewEngine(p, reveal.WithPicker(reveal.PickerFunc(func(c []int) int { return c[0] })))
	require.NoError(t, e.Load(ctx))

	// Level 1 is a 4x3 grid of which the first 10 cells count.
	for i := 0; i < 12; i++ {
		e.HandleClick(ctx, i%4, i/4)
	}
	require.NoError(t, p.Close(ctx))

	stored, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, e.Progress(), stored)
	assert.Equal(t, 2, stored.CurrentLevel)
	assert.Equal(t, 12, stored.TotalClicks)
}
