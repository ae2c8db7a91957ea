package reveal

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/charmbracelet/log"
)

// BonusLevel is the first level at which every click reveals an extra cell.
const BonusLevel = 2

// LevelCompleted is emitted when the revealed count reaches the level total.
type LevelCompleted struct {
	Level       int // Level that was just completed
	NewLevel    int // Level now being played
	TotalClicks int
}

// ClickResult describes what a single click changed.
type ClickResult struct {
	Accepted  bool  // False for out-of-bounds clicks, which change nothing
	Index     int   // Clicked cell index
	Revealed  []int // Newly revealed indices, clicked cell first
	Completed *LevelCompleted
}

// Option configures an Engine.
type Option func(*Engine)

// WithPicker sets the bonus reveal source.
func WithPicker(p Picker) Option {
	return func(e *Engine) {
		e.picker = p
	}
}

// WithLogger sets the logger used for persistence failures.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithListener registers a callback for level completions. It runs after
// the engine has entered the new level and before the completion is saved.
func WithListener(fn func(LevelCompleted)) Option {
	return func(e *Engine) {
		e.onComplete = fn
	}
}

// Engine owns the state of one game session: level, grid, image, revealed
// cells and click count. All mutation goes through its methods; it is not
// safe for concurrent use.
type Engine struct {
	gateway    Gateway
	picker     Picker
	logger     *log.Logger
	onComplete func(LevelCompleted)

	level   int
	clicks  int
	layout  Layout
	image   *image.RGBA
	tracker *Tracker
}

// NewEngine creates an engine at level 1. Call Load to restore saved progress.
func NewEngine(gw Gateway, opts ...Option) *Engine {
	e := &Engine{
		gateway: gw,
		logger:  log.New(io.Discard),
		tracker: NewTracker(0),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.picker == nil {
		e.picker = NewRandPicker(0)
	}
	e.enterLevel(1)
	return e
}

// Load restores progress from the gateway. A missing record starts a fresh
// game. Any other error is returned, and the engine keeps the fresh state.
func (e *Engine) Load(ctx context.Context) error {
	e.clicks = 0
	e.enterLevel(1)

	p, err := e.gateway.Load(ctx)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reveal: load progress: %w", err)
	}

	level := p.CurrentLevel
	if level < 1 {
		e.logger.Warn("stored level out of range, starting at 1", "level", level)
		level = 1
	}
	e.clicks = max(p.TotalClicks, 0)
	e.enterLevel(level)

	// Indices outside the grid are dropped by the tracker.
	for _, idx := range p.CurrentPixels {
		e.tracker.Reveal(idx)
	}
	return nil
}

// enterLevel derives sizing and image for level and empties the tracker.
func (e *Engine) enterLevel(level int) {
	layout, err := LevelLayout(level)
	if err != nil {
		panic(err) // level is always >= 1 here
	}
	e.level = level
	e.layout = layout
	e.image = Synthesize(layout.Dims.Width, layout.Dims.Height, level)
	e.tracker.Resize(layout.Dims.Cells())
}

// HandleClick processes a click on cell (x, y).
//
// Out-of-bounds clicks are ignored. Otherwise the click is counted, the cell
// revealed, a bonus cell revealed from level 2 on, and completion checked.
// Exactly one Save is issued per accepted click.
func (e *Engine) HandleClick(ctx context.Context, x, y int) ClickResult {
	dims := e.layout.Dims
	if !dims.Contains(x, y) {
		return ClickResult{}
	}

	index := dims.Index(x, y)
	result := ClickResult{Accepted: true, Index: index}
	e.clicks++

	if e.tracker.Reveal(index) {
		result.Revealed = append(result.Revealed, index)
	}

	if e.level >= BonusLevel {
		if hidden := e.tracker.Unrevealed(); len(hidden) > 0 {
			bonus := e.picker.Pick(hidden)
			if e.tracker.Reveal(bonus) {
				result.Revealed = append(result.Revealed, bonus)
			}
		}
	}

	if e.tracker.Count() >= e.layout.TotalCells {
		done := LevelCompleted{
			Level:       e.level,
			NewLevel:    e.level + 1,
			TotalClicks: e.clicks,
		}
		e.enterLevel(done.NewLevel)
		result.Completed = &done
		if e.onComplete != nil {
			e.onComplete(done)
		}

		e.save(ctx, Delta{
			Fields:        FieldAll,
			TotalClicks:   e.clicks,
			CurrentLevel:  e.level,
			CurrentPixels: []int{},
		})
		return result
	}

	e.save(ctx, Delta{
		Fields:        FieldClicks | FieldPixels,
		TotalClicks:   e.clicks,
		CurrentPixels: e.tracker.Indices(),
	})
	return result
}

// ResetGame returns to level 1 with no clicks and persists the reset state.
func (e *Engine) ResetGame(ctx context.Context) {
	e.clicks = 0
	e.enterLevel(1)
	e.save(ctx, DefaultProgress().FullDelta())
}

// save forwards a delta to the gateway. Failures are logged and never touch
// in-memory state.
func (e *Engine) save(ctx context.Context, d Delta) {
	if e.gateway == nil {
		return
	}
	if err := e.gateway.Save(ctx, d); err != nil {
		e.logger.Warn("progress save failed", "level", e.level, "clicks", e.clicks, "error", err)
	}
}

// Progress returns the full in-memory progress record.
func (e *Engine) Progress() Progress {
	return Progress{
		TotalClicks:   e.clicks,
		CurrentLevel:  e.level,
		CurrentPixels: e.tracker.Indices(),
	}
}

// Dims returns the current grid shape.
func (e *Engine) Dims() Dims {
	return e.layout.Dims
}

// Image returns the current level's synthesized image. Callers must not modify it.
func (e *Engine) Image() *image.RGBA {
	return e.image
}

// IsRevealed reports whether cell (x, y) shows its true color.
func (e *Engine) IsRevealed(x, y int) bool {
	if !e.layout.Dims.Contains(x, y) {
		return false
	}
	return e.tracker.IsRevealed(e.layout.Dims.Index(x, y))
}

// CellColor returns the image color at (x, y) and whether it is revealed.
func (e *Engine) CellColor(x, y int) (color.RGBA, bool) {
	if !e.layout.Dims.Contains(x, y) {
		return color.RGBA{}, false
	}
	return e.image.RGBAAt(x, y), e.tracker.IsRevealed(e.layout.Dims.Index(x, y))
}

// MaskedImage returns a copy of the current image with every hidden cell
// painted hidden.
func (e *Engine) MaskedImage(hidden color.RGBA) *image.RGBA {
	out := image.NewRGBA(e.image.Bounds())
	copy(out.Pix, e.image.Pix)
	d := e.layout.Dims
	for y := 0; y < d.Height; y++ {
		for x := 0; x < d.Width; x++ {
			if !e.tracker.IsRevealed(d.Index(x, y)) {
				out.SetRGBA(x, y, hidden)
			}
		}
	}
	return out
}
