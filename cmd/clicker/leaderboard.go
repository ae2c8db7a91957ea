package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/pixel-reveal/internal/platform/tui"
	"github.com/vovakirdan/pixel-reveal/internal/storage"
)

var (
	flagBoardLimit int
	flagPlain      bool
	flagHistory    string
)

var leaderboardCmd = &cobra.Command{
	Use:     "leaderboard",
	Aliases: []string{"scores"},
	Short:   "Show the standings",
	Long: `Display players ranked by level, then cells revealed on that level,
then fewest clicks.

When stdout is not a terminal, or with --plain, the table is printed as
text instead of opening the interactive view.

Examples:
  clicker leaderboard
  clicker leaderboard --limit 25 --plain
  clicker leaderboard --history ada`,
	Run: runLeaderboard,
}

func init() {
	leaderboardCmd.Flags().IntVarP(&flagBoardLimit, "limit", "n", 0, "Number of players to show (default from config)")
	leaderboardCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print a text table instead of the interactive view")
	leaderboardCmd.Flags().StringVar(&flagHistory, "history", "", "Show the level history of one player")
}

func runLeaderboard(_ *cobra.Command, _ []string) {
	clicker := loadConfig()
	limit := flagBoardLimit
	if limit <= 0 {
		limit = clicker.Leaderboard.Limit
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening progress database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagHistory != "" {
		if err := printHistory(store, flagHistory, limit); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fd := int(os.Stdout.Fd())
	if flagPlain || !term.IsTerminal(fd) {
		if err := printStandings(store, limit); err != nil {
			fmt.Fprintf(os.Stderr, "Error retrieving standings: %v\n", err)
			os.Exit(1)
		}
		return
	}

	w, h := 80, 24
	if tw, th, termErr := term.GetSize(fd); termErr == nil {
		w, h = tw, th
	}
	if err := tui.RunLeaderboard(store, limit, w, h); err != nil {
		fmt.Fprintf(os.Stderr, "Error running leaderboard: %v\n", err)
		os.Exit(1)
	}
}

func printStandings(store *storage.Store, limit int) error {
	standings, err := store.TopPlayers(limit)
	if err != nil {
		return err
	}

	fmt.Println("Leaderboard")
	fmt.Println()

	if len(standings) == 0 {
		fmt.Println("  No players yet. Be the first!")
		return nil
	}

	fmt.Printf("  %-4s  %-16s  %5s  %8s  %8s  %s\n", "Rank", "Player", "Level", "Revealed", "Clicks", "Last played")
	fmt.Printf("  %-4s  %-16s  %5s  %8s  %8s  %s\n", "----", "------", "-----", "--------", "------", "-----------")
	for i, s := range standings {
		fmt.Printf("  %-4d  %-16s  %5d  %8s  %8s  %s\n",
			i+1,
			truncate(s.Name, 16),
			s.Level,
			humanize.Comma(int64(s.Revealed)),
			humanize.Comma(int64(s.TotalClicks)),
			humanize.Time(s.UpdatedAt),
		)
	}
	return nil
}

func printHistory(store *storage.Store, name string, limit int) error {
	player, err := store.PlayerByName(name)
	if err != nil {
		return err
	}
	if player == nil {
		return fmt.Errorf("unknown player %q", name)
	}

	history, err := store.Completions(player.ID, limit)
	if err != nil {
		return err
	}

	fmt.Printf("Level history - %s\n", player.Name)
	fmt.Println()

	if len(history) == 0 {
		fmt.Println("  No levels completed yet.")
		return nil
	}

	fmt.Printf("  %-5s  %8s  %s\n", "Level", "Clicks", "Completed")
	fmt.Printf("  %-5s  %8s  %s\n", "-----", "------", "---------")
	for _, c := range history {
		fmt.Printf("  %-5d  %8s  %s\n", c.Level, humanize.Comma(int64(c.TotalClicks)), humanize.Time(c.CompletedAt))
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
