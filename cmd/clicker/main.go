// clicker is a pixel-reveal clicker played in the terminal, locally or over SSH.
//
// Usage:
//
//	clicker play               - Play in this terminal
//	clicker serve              - Start SSH server for remote play
//	clicker leaderboard        - Show the standings
//	clicker levels             - List level sizes and motifs
//	clicker export             - Write a level image as PNG
//	clicker reset <player>     - Reset a player's progress
//
// Global flags:
//
//	--seed <value>    - Set RNG seed for the bonus reveal
//	--db <path>       - Set database path (default: ~/.clicker/progress.db)
//	--config <path>   - Load settings from a YAML file
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/pixel-reveal/internal/config"
)

var (
	// Global flags
	flagSeed       int64
	flagDBPath     string
	flagConfigPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "clicker",
	Short: "Pixel reveal - uncover a hidden picture one click at a time",
	Long: `Pixel reveal is a terminal clicker. Every level hides a picture behind
gray cells; each click uncovers one cell and every tenth click uncovers a
random bonus cell. Levels grow as you go.

Available commands:
  play         - Play in this terminal
  serve        - Start SSH server for remote play
  leaderboard  - Show the standings
  levels       - List level sizes and motifs
  export       - Write a level image as PNG
  reset        - Reset a player's progress

Examples:
  clicker play
  clicker play --player ada
  clicker serve --ssh :2222
  clicker leaderboard --plain
  clicker export --level 5 --scale 16 -o level5.png`,
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.clicker/progress.db", "Path to progress database")
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Path to a clicker.yaml settings file")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(resetCmd)
}

// loadConfig reads settings or exits with a message.
func loadConfig() config.ClickerConfig {
	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// openLogFile returns a logger writing to ~/.clicker/clicker.log, since the
// terminal belongs to the game while it runs. The returned func closes it.
func openLogFile() (*log.Logger, func()) {
	discard := log.New(io.Discard)

	home, err := os.UserHomeDir()
	if err != nil {
		return discard, func() {}
	}
	dir := filepath.Join(home, ".clicker")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return discard, func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "clicker.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return discard, func() {}
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "clicker",
	})
	return logger, func() { f.Close() }
}
