package main

import (
	"context"
	"fmt"
	"os"
	"os/user"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/pixel-reveal/internal/core"
	"github.com/vovakirdan/pixel-reveal/internal/platform/tui"
	"github.com/vovakirdan/pixel-reveal/internal/storage"
)

var (
	flagPlayer  string
	flagOffline bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start the clicker in the current terminal.

Progress is stored per player in the database given by --db. Click a cell
with the mouse, or move with the arrow keys and press space.

Examples:
  clicker play                  # Play as the current OS user
  clicker play --player ada     # Play as "ada"
  clicker play --offline        # Do not touch the database
  clicker play --seed 42        # Reproducible bonus reveals`,
	Run: runPlay,
}

func init() {
	playCmd.Flags().StringVarP(&flagPlayer, "player", "p", defaultPlayerName(), "Player name")
	playCmd.Flags().BoolVar(&flagOffline, "offline", false, "Play without saving progress")
}

func defaultPlayerName() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "player"
}

func runPlay(_ *cobra.Command, _ []string) {
	clicker := loadConfig()

	logger, closeLog := openLogFile()
	defer closeLog()

	cfg := core.DefaultConfig()
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.CellWidth = clicker.Render.CellWidth
	cfg.Seed = flagSeed
	cfg.Player = flagPlayer

	var store *storage.Store
	if !flagOffline {
		var err error
		store, err = storage.Open(flagDBPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not open progress database: %v\n", err)
			fmt.Fprintln(os.Stderr, "Progress will not be saved.")
		}
	}

	session, err := tui.OpenSession(context.Background(), tui.SessionOptions{
		Store:  store,
		Player: flagPlayer,
		Config: clicker,
		Seed:   flagSeed,
		Logger: logger,
	})
	if err != nil {
		if store != nil {
			store.Close()
		}
		fmt.Fprintf(os.Stderr, "Error starting game: %v\n", err)
		os.Exit(1)
	}

	runErr := tui.Run(session, cfg, clicker)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
