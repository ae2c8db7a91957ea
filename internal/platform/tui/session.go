package tui

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pixel-reveal/internal/config"
	"github.com/vovakirdan/pixel-reveal/internal/progress"
	"github.com/vovakirdan/pixel-reveal/internal/reveal"
	"github.com/vovakirdan/pixel-reveal/internal/storage"
)

// SessionOptions describes one player's game session.
type SessionOptions struct {
	Store       *storage.Store // nil plays without persistence
	Player      string
	Fingerprint string // SSH key fingerprint, empty for local play
	Config      config.ClickerConfig
	Seed        int64
	Logger      *log.Logger
}

// Session wires a player to an engine: authentication, the progress
// gateway chain and completion history.
type Session struct {
	Player  *storage.Player
	Engine  *reveal.Engine
	Offline bool // Progress is kept in memory only

	store    *storage.Store
	pipeline *progress.Pipeline
	history  *completionLog // nil when offline
	logger   *log.Logger
}

// OpenSession authenticates the player and restores their progress.
//
// If the stored progress cannot be read the session continues in memory,
// so a broken database never overwrites a player's real progress with a
// fresh game.
func OpenSession(ctx context.Context, opts SessionOptions) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Session{store: opts.Store, logger: logger}

	var gw reveal.Gateway
	if opts.Store != nil {
		player, err := opts.Store.Authenticate(opts.Player, opts.Fingerprint)
		if err != nil {
			return nil, err
		}
		s.Player = player
		gw = opts.Store.ProgressGateway(player.ID)
		s.history = newCompletionLog(opts.Store, player.ID, logger.With("player", player.Name))
	} else {
		s.Player = &storage.Player{Name: opts.Player}
		s.Offline = true
		gw = progress.NewMemory()
	}

	policy, err := opts.Config.FlushPolicy()
	if err != nil {
		logger.Warn("bad flush policy, saving every click", "error", err)
		policy = progress.PolicyImmediate
	}

	s.pipeline = progress.NewPipeline(gw, policy, opts.Config.Flush.Every, logger)
	s.Engine = s.newEngine(s.pipeline, opts.Seed)

	if err := s.Engine.Load(ctx); err != nil {
		logger.Error("cannot load progress, playing offline", "player", s.Player.Name, "error", err)
		//nolint:errcheck // Nothing was queued yet
		s.pipeline.Close(ctx)

		s.Offline = true
		if s.history != nil {
			s.history.Close()
			s.history = nil
		}
		s.pipeline = progress.NewPipeline(progress.NewMemory(), progress.PolicyImmediate, 1, logger)
		s.Engine = s.newEngine(s.pipeline, opts.Seed)
		//nolint:errcheck // Memory gateway cannot fail
		s.Engine.Load(ctx)
	}

	snap := s.Engine.Snapshot()
	logger.Info("session opened",
		"player", s.Player.Name,
		"level", snap.Level,
		"clicks", snap.Clicks,
		"offline", s.Offline,
	)
	return s, nil
}

func (s *Session) newEngine(gw reveal.Gateway, seed int64) *reveal.Engine {
	return reveal.NewEngine(gw,
		reveal.WithPicker(reveal.NewRandPicker(seed)),
		reveal.WithLogger(s.logger),
		reveal.WithListener(s.recordCompletion),
	)
}

// recordCompletion queues a finished level for the player's history.
func (s *Session) recordCompletion(lc reveal.LevelCompleted) {
	s.logger.Info("level completed", "player", s.Player.Name, "level", lc.Level, "clicks", lc.TotalClicks)
	if s.history == nil {
		return
	}
	s.history.Add(lc)
}

// Close flushes pending progress and completion history.
func (s *Session) Close(ctx context.Context) error {
	err := s.pipeline.Close(ctx)
	if s.history != nil {
		s.history.Close()
	}
	return err
}
