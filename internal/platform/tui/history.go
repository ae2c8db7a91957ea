package tui

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pixel-reveal/internal/reveal"
)

// historyWriter is the part of the store completions are written to.
type historyWriter interface {
	RecordCompletion(playerID int64, level, totalClicks int) error
}

// completionLog writes finished levels to the store from its own goroutine,
// so the game loop never waits on the database. Entries are written in the
// order they were added.
type completionLog struct {
	store    historyWriter
	playerID int64
	logger   *log.Logger

	mu     sync.Mutex
	queue  []reveal.LevelCompleted
	closed bool

	wake chan struct{}
	done chan struct{}
}

func newCompletionLog(store historyWriter, playerID int64, logger *log.Logger) *completionLog {
	c := &completionLog{
		store:    store,
		playerID: playerID,
		logger:   logger,
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	go c.run()
	return c
}

// Add queues lc and returns at once. Entries added after Close are dropped.
func (c *completionLog) Add(lc reveal.LevelCompleted) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.logger.Warn("completion dropped after close", "level", lc.Level)
		return
	}
	c.queue = append(c.queue, lc)
	c.mu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *completionLog) run() {
	defer close(c.done)
	for range c.wake {
		c.drain()
	}
	c.drain()
}

// drain writes everything queued so far.
func (c *completionLog) drain() {
	for {
		c.mu.Lock()
		batch := c.queue
		c.queue = nil
		c.mu.Unlock()

		if len(batch) == 0 {
			return
		}
		for _, lc := range batch {
			if err := c.store.RecordCompletion(c.playerID, lc.Level, lc.TotalClicks); err != nil {
				c.logger.Warn("cannot record completion", "level", lc.Level, "error", err)
			}
		}
	}
}

// Close writes what is queued and stops the worker. Safe to call more than once.
func (c *completionLog) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	close(c.wake)
	<-c.done
}
