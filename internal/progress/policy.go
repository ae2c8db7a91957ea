package progress

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pixel-reveal/internal/reveal"
)

// Policy names a flush cadence.
type Policy string

const (
	PolicyImmediate Policy = "immediate" // Every delta goes to the saver
	PolicyBatched   Policy = "batched"   // Every Nth delta, level changes and close
)

// ParsePolicy converts a config string to a Policy. Empty means immediate.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyImmediate:
		return PolicyImmediate, nil
	case PolicyBatched:
		return PolicyBatched, nil
	default:
		return "", fmt.Errorf("progress: unknown flush policy %q", s)
	}
}

// Batcher forwards merged deltas every N saves. Deltas that change the level
// are forwarded at once so a completed level is never held back.
type Batcher struct {
	next  reveal.Gateway
	every int

	mu      sync.Mutex
	pending reveal.Delta
	count   int
}

// NewBatcher wraps next. every < 1 is treated as 1.
func NewBatcher(next reveal.Gateway, every int) *Batcher {
	return &Batcher{
		next:  next,
		every: max(every, 1),
	}
}

// Load reads straight through to the next gateway.
func (b *Batcher) Load(ctx context.Context) (reveal.Progress, error) {
	return b.next.Load(ctx)
}

// Save merges d and forwards when the batch is full or the level changed.
func (b *Batcher) Save(ctx context.Context, d reveal.Delta) error {
	b.mu.Lock()
	b.pending = b.pending.Merge(d)
	b.count++
	due := b.count >= b.every || d.Has(reveal.FieldLevel)
	b.mu.Unlock()

	if !due {
		return nil
	}
	return b.Flush(ctx)
}

// Flush forwards the pending delta now.
func (b *Batcher) Flush(ctx context.Context) error {
	b.mu.Lock()
	d := b.pending
	b.pending = reveal.Delta{}
	b.count = 0
	b.mu.Unlock()

	if d.IsZero() {
		return nil
	}
	if err := b.next.Save(ctx, d); err != nil {
		b.mu.Lock()
		b.pending = d.Merge(b.pending)
		b.mu.Unlock()
		return err
	}
	return nil
}

// Pipeline is the Gateway handed to the engine: an optional Batcher in front
// of a Saver in front of durable storage.
type Pipeline struct {
	batcher *Batcher
	saver   *Saver
	head    reveal.Gateway
}

// NewPipeline assembles the gateway chain for a flush policy.
func NewPipeline(store reveal.Gateway, policy Policy, every int, logger *log.Logger) *Pipeline {
	p := &Pipeline{saver: NewSaver(store, logger)}
	p.head = p.saver
	if policy == PolicyBatched {
		p.batcher = NewBatcher(p.saver, every)
		p.head = p.batcher
	}
	return p
}

// Load reads progress from storage.
func (p *Pipeline) Load(ctx context.Context) (reveal.Progress, error) {
	return p.head.Load(ctx)
}

// Save hands a delta to the head of the chain.
func (p *Pipeline) Save(ctx context.Context, d reveal.Delta) error {
	return p.head.Save(ctx, d)
}

// Close flushes any batched delta and drains the saver.
func (p *Pipeline) Close(ctx context.Context) error {
	var batchErr error
	if p.batcher != nil {
		batchErr = p.batcher.Flush(ctx)
	}
	if err := p.saver.Close(ctx); err != nil {
		return err
	}
	return batchErr
}
