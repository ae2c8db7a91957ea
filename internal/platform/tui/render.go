package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/vovakirdan/pixel-reveal/internal/config"
	"github.com/vovakirdan/pixel-reveal/internal/core"
)

// Theme holds the resolved UI colors.
type Theme struct {
	Hidden     core.Color // Unrevealed pixel
	Background core.Color // Terminal area around the image
	Cursor     core.Color
	Text       core.Color
	Accent     core.Color
	Muted      core.Color
}

// NewTheme resolves configured hex colors. Unparsable values fall back to
// the defaults.
func NewTheme(cfg config.RenderConfig) Theme {
	def := config.DefaultClickerConfig().Render
	return Theme{
		Hidden:     parseHex(cfg.HiddenColor, def.HiddenColor),
		Background: parseHex(cfg.BackgroundColor, def.BackgroundColor),
		Cursor:     parseHex(cfg.CursorColor, def.CursorColor),
		Text:       core.RGB(205, 214, 244),
		Accent:     core.RGB(249, 226, 175),
		Muted:      core.RGB(127, 132, 156),
	}
}

func parseHex(hex, fallback string) core.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		c, _ = colorful.Hex(fallback)
	}
	return fromColorful(c)
}

func fromColorful(c colorful.Color) core.Color {
	r, g, b := c.Clamped().RGB255()
	return core.RGB(r, g, b)
}

func toColorful(c core.Color) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// blend mixes a toward b by t in [0, 1].
func blend(a, b core.Color, t float64) core.Color {
	return fromColorful(toColorful(a).BlendRgb(toColorful(b), t))
}

// styleKey identifies a run of cells that share colors.
type styleKey struct {
	fg, bg core.Color
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same colors to minimize ANSI escape sequences.
// r decides the color profile; SSH sessions pass a per-session renderer.
func RenderScreen(r *lipgloss.Renderer, s *core.Screen) string {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	styles := make(map[styleKey]lipgloss.Style)
	styleFor := func(k styleKey) lipgloss.Style {
		if st, ok := styles[k]; ok {
			return st
		}
		st := r.NewStyle()
		if k.fg.Set {
			st = st.Foreground(lipgloss.Color(k.fg.Hex()))
		}
		if k.bg.Set {
			st = st.Background(lipgloss.Color(k.bg.Hex()))
		}
		styles[k] = st
		return st
	}

	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		row := s.Row(y)
		x := 0
		for x < len(row) {
			k := styleKey{fg: row[x].FG, bg: row[x].BG}

			var run strings.Builder
			for x < len(row) && row[x].FG == k.fg && row[x].BG == k.bg {
				run.WriteRune(row[x].Rune)
				x++
			}

			if !k.fg.Set && !k.bg.Set {
				sb.WriteString(run.String())
				continue
			}
			sb.WriteString(styleFor(k).Render(run.String()))
		}
	}
	return sb.String()
}
