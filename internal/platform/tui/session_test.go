package tui

import (
	"context"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/pixel-reveal/internal/config"
	"github.com/vovakirdan/pixel-reveal/internal/reveal"
	"github.com/vovakirdan/pixel-reveal/internal/storage"
)

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "progress.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSessionPersistsAcrossReconnects(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	cfg := config.DefaultClickerConfig()
	cfg.Flush.Policy = "batched"
	cfg.Flush.Every = 50

	first, err := OpenSession(ctx, SessionOptions{Store: store, Player: "ada", Config: cfg, Seed: 7})
	require.NoError(t, err)
	assert.False(t, first.Offline)

	for i := 0; i < 10; i++ {
		first.Engine.HandleClick(ctx, i%4, i/4)
	}
	first.Engine.HandleClick(ctx, 2, 2)
	want := first.Engine.Progress()
	require.NoError(t, first.Close(ctx))

	second, err := OpenSession(ctx, SessionOptions{Store: store, Player: "ada", Config: cfg, Seed: 7})
	require.NoError(t, err)
	defer second.Close(ctx)

	assert.Equal(t, want, second.Engine.Progress())
	assert.Equal(t, first.Player.ID, second.Player.ID)
}

func TestSessionRecordsCompletions(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	s, err := OpenSession(ctx, SessionOptions{Store: store, Player: "bob", Config: config.DefaultClickerConfig(), Seed: 3})
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		s.Engine.HandleClick(ctx, i%4, i/4)
	}
	require.NoError(t, s.Close(ctx))

	history, err := store.Completions(s.Player.ID, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 1, history[0].Level)
	assert.Equal(t, 10, history[0].TotalClicks)
}

func TestSessionRejectsForeignKey(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	owner, err := OpenSession(ctx, SessionOptions{Store: store, Player: "cat", Fingerprint: "SHA256:one", Config: config.DefaultClickerConfig()})
	require.NoError(t, err)
	require.NoError(t, owner.Close(ctx))

	_, err = OpenSession(ctx, SessionOptions{Store: store, Player: "cat", Fingerprint: "SHA256:two", Config: config.DefaultClickerConfig()})
	assert.ErrorIs(t, err, storage.ErrKeyMismatch)
}

func TestSessionWithoutStore(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSession(ctx, SessionOptions{Player: "guest", Config: config.DefaultClickerConfig()})
	require.NoError(t, err)
	defer s.Close(ctx)

	assert.True(t, s.Offline)
	assert.Equal(t, "guest", s.Player.Name)
	assert.Equal(t, 1, s.Engine.Snapshot().Level)

	// Completions without a store are only logged.
	for i := 0; i < 10; i++ {
		s.Engine.HandleClick(ctx, i%4, i/4)
	}
	assert.Equal(t, 2, s.Engine.Snapshot().Level)
}

// gatedHistory blocks every write until release is closed.
type gatedHistory struct {
	release chan struct{}

	mu     sync.Mutex
	levels []int
}

func (g *gatedHistory) RecordCompletion(_ int64, level, _ int) error {
	<-g.release
	g.mu.Lock()
	defer g.mu.Unlock()
	g.levels = append(g.levels, level)
	return nil
}

func TestCompletionLogDoesNotBlockCaller(t *testing.T) {
	store := &gatedHistory{release: make(chan struct{})}
	c := newCompletionLog(store, 1, log.New(io.Discard))

	added := make(chan struct{})
	go func() {
		for level := 1; level <= 3; level++ {
			c.Add(reveal.LevelCompleted{Level: level, NewLevel: level + 1})
		}
		close(added)
	}()

	select {
	case <-added:
	case <-time.After(2 * time.Second):
		t.Fatal("Add waited on a blocked store write")
	}

	close(store.release)
	c.Close()

	assert.Equal(t, []int{1, 2, 3}, store.levels)
}

func TestCompletionLogDropsAfterClose(t *testing.T) {
	store := &gatedHistory{release: make(chan struct{})}
	close(store.release)
	c := newCompletionLog(store, 1, log.New(io.Discard))

	c.Add(reveal.LevelCompleted{Level: 1})
	c.Close()
	c.Close()
	c.Add(reveal.LevelCompleted{Level: 2})

	assert.Equal(t, []int{1}, store.levels)
}
