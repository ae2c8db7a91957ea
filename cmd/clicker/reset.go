package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pixel-reveal/internal/storage"
)

var flagResetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset <player>",
	Short: "Reset a player's progress",
	Long: `Send a player back to level 1 with no clicks. Their completed-level
history is kept.

Examples:
  clicker reset ada
  clicker reset ada --yes`,
	Args: cobra.ExactArgs(1),
	Run:  runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&flagResetYes, "yes", "y", false, "Do not ask for confirmation")
}

func runReset(_ *cobra.Command, args []string) {
	name := args[0]

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening progress database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	player, err := store.PlayerByName(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if player == nil {
		fmt.Fprintf(os.Stderr, "Error: unknown player %q\n", name)
		os.Exit(1)
	}

	if !flagResetYes && !confirm(fmt.Sprintf("Reset all progress for %s?", player.Name)) {
		fmt.Println("Cancelled.")
		return
	}

	if err := store.ResetProgress(player.ID); err != nil {
		fmt.Fprintf(os.Stderr, "Error resetting progress: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s is back on level 1.\n", player.Name)
}

func confirm(question string) bool {
	fmt.Printf("%s [y/N] ", question)
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
