package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/google/uuid"
	gossh "golang.org/x/crypto/ssh"

	"github.com/vovakirdan/pixel-reveal/internal/config"
	"github.com/vovakirdan/pixel-reveal/internal/core"
	"github.com/vovakirdan/pixel-reveal/internal/storage"
)

// Context keys for per-connection values.
type contextKey string

const (
	fingerprintKey contextKey = "fingerprint"
	sessionIDKey   contextKey = "session-id"
	gameSessionKey contextKey = "game-session"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.clicker/host_key.
	HostKeyPath string

	// DBPath is the path to the progress database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	Clicker config.ClickerConfig
	Seed    int64
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.clicker/progress.db",
		IdleTimeout: 30 * time.Minute,
		Clicker:     config.DefaultClickerConfig(),
	}
}

// SSHServer serves the clicker over SSH. The SSH user name is the player
// name; the first public key that logs in under a name owns it.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "clicker-ssh",
		})
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open progress database, sessions will not be saved", "error", err)
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".clicker", "host_key")
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithPublicKeyAuth(srv.publicKeyHandler),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.sessionMiddleware,
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// publicKeyHandler binds the user name to the offered key. A name already
// claimed by another key is refused.
func (s *SSHServer) publicKeyHandler(ctx ssh.Context, key ssh.PublicKey) bool {
	fingerprint := gossh.FingerprintSHA256(key)
	ctx.SetValue(fingerprintKey, fingerprint)

	if s.store == nil {
		return true
	}
	if _, err := s.store.Authenticate(ctx.User(), fingerprint); err != nil {
		s.logger.Warn("login refused", "user", ctx.User(), "fingerprint", fingerprint, "error", err)
		return false
	}
	return true
}

// sessionMiddleware opens the game session before the program starts and
// flushes it once the connection ends, however the program exited.
func (s *SSHServer) sessionMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		ctx := sshSession.Context()
		fingerprint, _ := ctx.Value(fingerprintKey).(string)
		sessionID, _ := ctx.Value(sessionIDKey).(string)

		game, err := OpenSession(ctx, SessionOptions{
			Store:       s.store,
			Player:      sshSession.User(),
			Fingerprint: fingerprint,
			Config:      s.config.Clicker,
			Seed:        s.config.Seed,
			Logger:      s.logger.With("session", sessionID),
		})
		if errors.Is(err, storage.ErrKeyMismatch) {
			wish.Fatalln(sshSession, "That player name belongs to a different key.")
			return
		}
		if err != nil {
			s.logger.Error("cannot open session", "user", sshSession.User(), "error", err)
			wish.Fatalln(sshSession, "Could not start your game, please try again.")
			return
		}

		ctx.SetValue(gameSessionKey, game)
		next(sshSession)

		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := game.Close(flushCtx); err != nil {
			s.logger.Warn("progress flush failed", "user", sshSession.User(), "error", err)
		}
	}
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		wish.Fatalln(sshSession, "A terminal is required: connect with ssh -t.")
		return nil, nil
	}

	game, ok := sshSession.Context().Value(gameSessionKey).(*Session)
	if !ok {
		return nil, nil
	}

	cfg := core.RuntimeConfig{
		ScreenW:   pty.Window.Width,
		ScreenH:   pty.Window.Height,
		CellWidth: s.config.Clicker.Render.CellWidth,
		Seed:      s.config.Seed,
		Player:    sshSession.User(),
	}

	model := NewGameModel(game, cfg, s.config.Clicker, bubbletea.MakeRenderer(sshSession))

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
}

// loggingMiddleware tags each connection with an ID and logs its lifetime.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		id := uuid.NewString()
		sshSession.Context().SetValue(sessionIDKey, id)
		start := time.Now()

		s.logger.Info("session started",
			"session", id,
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"session", id,
			"user", sshSession.User(),
			"duration", time.Since(start).Round(time.Second),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server. Open sessions flush their progress
// before the store closes.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	if s.store != nil {
		s.store.Close()
	}
	return err
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
