package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/pixel-reveal/internal/core"
	"github.com/vovakirdan/pixel-reveal/internal/reveal"
)

var (
	flagLevelsFrom  int
	flagLevelsCount int
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List level sizes and motifs",
	Long: `Print the cell count, grid shape, motif and color of a range of levels.

Examples:
  clicker levels
  clicker levels --from 20 --count 5`,
	Run: runLevels,
}

func init() {
	levelsCmd.Flags().IntVar(&flagLevelsFrom, "from", 1, "First level to list")
	levelsCmd.Flags().IntVar(&flagLevelsCount, "count", 10, "Number of levels to list")
}

func runLevels(_ *cobra.Command, _ []string) {
	layouts, err := levelTable(flagLevelsFrom, flagLevelsCount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("  %5s  %8s  %9s  %-9s  %s\n", "Level", "Cells", "Grid", "Motif", "Color")
	fmt.Printf("  %5s  %8s  %9s  %-9s  %s\n", "-----", "-----", "----", "-----", "-----")
	for _, l := range layouts {
		fmt.Printf("  %5d  %8s  %9s  %-9s  %s\n",
			l.Level,
			humanize.Comma(int64(l.TotalCells)),
			fmt.Sprintf("%dx%d", l.Dims.Width, l.Dims.Height),
			l.Motif,
			core.FromRGBA(reveal.ForegroundColor(l.Level)).Hex(),
		)
	}
}

// levelTable derives count layouts starting at from.
func levelTable(from, count int) ([]reveal.Layout, error) {
	if count < 1 {
		return nil, fmt.Errorf("count must be at least 1, got %d", count)
	}
	layouts := make([]reveal.Layout, 0, count)
	for level := from; level < from+count; level++ {
		l, err := reveal.LevelLayout(level)
		if err != nil {
			return nil, err
		}
		layouts = append(layouts, l)
	}
	return layouts, nil
}
