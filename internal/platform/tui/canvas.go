package tui

import (
	"fmt"
	"image/color"

	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/pixel-reveal/internal/core"
	"github.com/vovakirdan/pixel-reveal/internal/reveal"
)

// pixelSource is the part of the engine the canvas reads.
type pixelSource interface {
	Dims() reveal.Dims
	CellColor(x, y int) (color.RGBA, bool)
}

// cursorBlend is how far the cursor color is mixed into the pixel under it.
const cursorBlend = 0.55

// drawCanvas paints the image into s through v. Revealed pixels show their
// true color, hidden ones the theme's placeholder. Pixels outside the
// viewport's visible area are skipped.
func drawCanvas(s *core.Screen, src pixelSource, v core.Viewport, cur core.Cursor, showCursor bool, th Theme) {
	d := src.Dims()
	visible := v.Visible()
	if visible.W <= 0 || visible.H <= 0 {
		return
	}
	for y := 0; y < d.Height; y++ {
		for x := 0; x < d.Width; x++ {
			bg := th.Hidden
			if c, revealed := src.CellColor(x, y); revealed {
				bg = core.FromRGBA(c)
			}

			cell := core.Cell{Rune: ' ', BG: bg}
			if showCursor && cur.X == x && cur.Y == y {
				cell = core.Cell{Rune: '▪', FG: th.Cursor, BG: blend(bg, th.Cursor, cursorBlend)}
			}

			col, row := v.CellOf(x, y)
			if !visible.Contains(col, row) {
				continue
			}
			for i := 0; i < v.CellWidth && visible.Contains(col+i, row); i++ {
				s.Set(col+i, row, cell)
				cell.Rune = ' '
			}
		}
	}

	frame := core.NewRect(visible.X-1, visible.Y-1, visible.W+2, visible.H+2)
	s.DrawBox(frame, th.Muted)
}

// hudLine is the status line above the canvas.
func hudLine(player string, snap reveal.Snapshot) string {
	line := fmt.Sprintf("Level %d   Clicks %s   Revealed %s/%s   Canvas %d×%d",
		snap.Level,
		humanize.Comma(int64(snap.Clicks)),
		humanize.Comma(int64(snap.RevealedCount)),
		humanize.Comma(int64(snap.TotalCells)),
		snap.Width, snap.Height,
	)
	if player != "" {
		line = player + "   " + line
	}
	return line
}

// hintLine explains the current click rule.
func hintLine(snap reveal.Snapshot) string {
	if snap.BonusActive {
		return fmt.Sprintf("Each click reveals 2 pixels. %s to go.", humanize.Comma(int64(snap.Remaining())))
	}
	return fmt.Sprintf("Click a pixel to reveal it. %s to go.", humanize.Comma(int64(snap.Remaining())))
}
