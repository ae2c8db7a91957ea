package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/pixel-reveal/internal/config"
	"github.com/vovakirdan/pixel-reveal/internal/core"
	"github.com/vovakirdan/pixel-reveal/internal/reveal"
)

// Layout rows outside the canvas.
const (
	hudRows    = 2 // Status line and hint
	statusRows = 1 // Toast or prompt
)

// GameModel is the Bubble Tea model for one player's game.
type GameModel struct {
	session  *Session
	engine   *reveal.Engine
	renderer *lipgloss.Renderer
	theme    Theme
	keys     GameKeyMap
	help     help.Model
	config   core.RuntimeConfig
	screen   *core.Screen

	cursor     core.Cursor
	showCursor bool // Hidden after a mouse click, shown on keyboard use

	toast    string
	toastID  int
	toastTTL time.Duration

	confirmReset bool
	board        *LeaderboardModel // nil without a store
	showBoard    bool
	boardLimit   int
	quitting     bool
}

// NewGameModel creates the game view for session.
func NewGameModel(session *Session, cfg core.RuntimeConfig, clicker config.ClickerConfig, renderer *lipgloss.Renderer) GameModel {
	if renderer == nil {
		renderer = lipgloss.DefaultRenderer()
	}
	if cfg.CellWidth < 1 {
		cfg.CellWidth = clicker.Render.CellWidth
	}

	h := help.New()
	h.ShowAll = false
	h.Width = cfg.ScreenW

	return GameModel{
		session:    session,
		engine:     session.Engine,
		renderer:   renderer,
		theme:      NewTheme(clicker.Render),
		keys:       DefaultGameKeyMap(),
		help:       h,
		config:     cfg,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		toastTTL:   clicker.ToastDuration(),
		boardLimit: clicker.Leaderboard.Limit,
		showCursor: true,
	}
}

// Init initializes the model.
func (m GameModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		if m.board != nil {
			board, _ := m.board.Update(msg)
			b := board.(LeaderboardModel)
			m.board = &b
		}
		return m, nil

	case toastExpiredMsg:
		if msg.id == m.toastID {
			m.toast = ""
		}
		return m, nil
	}

	if m.showBoard && m.board != nil {
		return m.updateBoard(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

// updateBoard forwards input to the leaderboard overlay.
func (m GameModel) updateBoard(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.board.Update(msg)
	board := next.(LeaderboardModel)
	m.board = &board

	if board.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if board.Closed() {
		m.showBoard = false
	}
	return m, cmd
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keys.Action(msg)

	if action == core.ActionQuit {
		m.quitting = true
		return m, tea.Quit
	}

	// A pending reset swallows everything but its answer.
	if m.confirmReset {
		m.confirmReset = false
		if action == core.ActionConfirm {
			m.engine.ResetGame(context.Background())
			m.cursor = core.Cursor{}
			return m.showToast("Progress reset. Back to level 1.")
		}
		return m, nil
	}

	switch action {
	case core.ActionUp, core.ActionDown, core.ActionLeft, core.ActionRight:
		d := m.engine.Dims()
		m.cursor = m.cursor.Move(action, d.Width, d.Height)
		m.showCursor = true

	case core.ActionReveal:
		m.showCursor = true
		return m.click(m.cursor.X, m.cursor.Y)

	case core.ActionReset:
		m.confirmReset = true

	case core.ActionLeaderboard:
		m.openBoard()

	case core.ActionHelp:
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// handleMouse maps a left click on the canvas to a pixel.
func (m GameModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !isPrimaryClick(msg) || m.confirmReset {
		return m, nil
	}
	x, y, ok := m.viewport().PixelAt(msg.X, msg.Y)
	if !ok {
		return m, nil
	}
	m.showCursor = false
	return m.click(x, y)
}

// click forwards a pixel click to the engine and reacts to its result.
func (m GameModel) click(x, y int) (tea.Model, tea.Cmd) {
	res := m.engine.HandleClick(context.Background(), x, y)
	if !res.Accepted {
		return m, nil
	}
	m.cursor = core.Cursor{X: x, Y: y}

	if res.Completed != nil {
		d := m.engine.Dims()
		m.cursor = m.cursor.Move(core.ActionNone, d.Width, d.Height)
		return m.showToast(fmt.Sprintf("Level %d complete! Welcome to level %d.",
			res.Completed.Level, res.Completed.NewLevel))
	}
	return m, nil
}

// showToast displays text until its timer fires.
func (m GameModel) showToast(text string) (tea.Model, tea.Cmd) {
	m.toastID++
	m.toast = text
	if m.toastTTL <= 0 {
		return m, nil
	}
	return m, toastCmd(m.toastTTL, m.toastID)
}

// openBoard shows the leaderboard overlay with fresh standings.
func (m *GameModel) openBoard() {
	if m.session.store == nil {
		return
	}
	if m.board == nil {
		b := NewLeaderboardModel(m.session.store, m.boardLimit, m.config.ScreenW, m.config.ScreenH)
		b.embedded = true
		b.highlight = m.session.Player.Name
		m.board = &b
	}
	m.board.closed = false
	m.board.Refresh()
	m.showBoard = true
}

// canvasArea is the terminal region the image may occupy, inside its frame.
func (m GameModel) canvasArea() core.Rect {
	helpH := lipgloss.Height(m.help.View(m.keys))
	return core.NewRect(
		1,
		hudRows+1,
		m.config.ScreenW-2,
		m.config.ScreenH-hudRows-statusRows-helpH-2,
	)
}

// viewport places the current level's image on screen.
func (m GameModel) viewport() core.Viewport {
	d := m.engine.Dims()
	return core.NewViewport(m.canvasArea(), d.Width, d.Height, m.config.CellWidth)
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	if m.showBoard && m.board != nil {
		return m.board.View()
	}

	helpView := m.help.View(m.keys)
	m.screen.Resize(m.config.ScreenW, m.config.ScreenH-lipgloss.Height(helpView))
	m.screen.Fill(core.Cell{Rune: ' ', BG: m.theme.Background})

	snap := m.engine.Snapshot()
	m.screen.DrawText(1, 0, hudLine(m.session.Player.Name, snap), m.theme.Text)
	hint := hintLine(snap)
	if m.session.Offline {
		hint += "  (progress is not being saved)"
	}
	m.screen.DrawText(1, 1, hint, m.theme.Muted)

	drawCanvas(m.screen, m.engine, m.viewport(), m.cursor, m.showCursor, m.theme)

	status := m.toast
	if m.confirmReset {
		status = "Reset all progress and return to level 1? (y/n)"
	}
	if status != "" {
		m.screen.DrawTextCentered(m.screen.Height()-1, status, m.theme.Accent)
	}

	return RenderScreen(m.renderer, m.screen) + "\n" + m.renderer.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render(helpView)
}

// IsQuitting returns true if user requested to quit.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// Run plays session in the local terminal and flushes progress on exit.
func Run(session *Session, cfg core.RuntimeConfig, clicker config.ClickerConfig) error {
	model := NewGameModel(session, cfg, clicker, nil)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, runErr := p.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := session.Close(ctx); err != nil && runErr == nil {
		return fmt.Errorf("tui: flush progress: %w", err)
	}
	return runErr
}
