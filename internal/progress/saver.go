package progress

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pixel-reveal/internal/reveal"
)

// ErrClosed is returned by Save after Close.
var ErrClosed = errors.New("progress: saver closed")

// Saver makes persistence fire-and-forget. Save merges the delta into a
// single pending update and returns immediately; one worker goroutine writes
// the latest merged state to the next gateway. At most one write is in flight,
// so an older state can never land after a newer one.
//
// A failed write is logged and folded back under any newer pending delta,
// to be retried with the next Save or on Close.
type Saver struct {
	next   reveal.Gateway
	logger *log.Logger

	mu      sync.Mutex
	pending reveal.Delta
	closed  bool

	writeMu sync.Mutex // Serializes writes to next

	wake     chan struct{}
	quit     chan struct{}
	finished chan struct{}
}

// NewSaver starts a saver in front of next.
func NewSaver(next reveal.Gateway, logger *log.Logger) *Saver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Saver{
		next:     next,
		logger:   logger,
		wake:     make(chan struct{}, 1),
		quit:     make(chan struct{}),
		finished: make(chan struct{}),
	}
	go s.run()
	return s
}

// Load reads straight through to the next gateway.
func (s *Saver) Load(ctx context.Context) (reveal.Progress, error) {
	return s.next.Load(ctx)
}

// Save queues d for writing and returns without waiting.
func (s *Saver) Save(_ context.Context, d reveal.Delta) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.pending = s.pending.Merge(d)
	s.mu.Unlock()

	// Wake the worker; if a wake-up is already queued it will see this delta.
	select {
	case s.wake <- struct{}{}:
	default:
	}
	return nil
}

// run is the worker loop.
func (s *Saver) run() {
	defer close(s.finished)
	for {
		select {
		case <-s.wake:
			//nolint:errcheck // Logged in flush, retried on next wake
			s.flush(context.Background())
		case <-s.quit:
			return
		}
	}
}

// flush writes the pending delta, if any.
func (s *Saver) flush(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	d := s.pending
	s.pending = reveal.Delta{}
	s.mu.Unlock()

	if d.IsZero() {
		return nil
	}

	if err := s.next.Save(ctx, d); err != nil {
		s.logger.Warn("progress write failed, will retry", "fields", d.Fields, "error", err)
		s.mu.Lock()
		s.pending = d.Merge(s.pending)
		s.mu.Unlock()
		return err
	}
	return nil
}

// Flush synchronously writes whatever is pending.
func (s *Saver) Flush(ctx context.Context) error {
	return s.flush(ctx)
}

// Close stops the worker and writes the last pending delta.
// Safe to call more than once.
func (s *Saver) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	close(s.quit)
	<-s.finished
	return s.flush(ctx)
}
