package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/pixel-reveal/internal/storage"
)

// standingsSource is the part of the store the leaderboard reads.
type standingsSource interface {
	TopPlayers(limit int) ([]storage.Standing, error)
}

// LeaderboardKeyMap defines the key bindings for the leaderboard.
type LeaderboardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Refresh key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k LeaderboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Refresh, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k LeaderboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Refresh}, {k.Back, k.Quit}}
}

// DefaultLeaderboardKeyMap returns default key bindings.
func DefaultLeaderboardKeyMap() LeaderboardKeyMap {
	return LeaderboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r", "f5"),
			key.WithHelp("ctrl+r", "refresh"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "tab", "b"),
			key.WithHelp("esc/tab", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// LeaderboardModel shows the top players by level reached.
// Standalone (the leaderboard command) Back quits the program; embedded in
// the game it only marks the board closed.
type LeaderboardModel struct {
	source    standingsSource
	limit     int
	standings []storage.Standing
	err       error
	highlight string // Player name to mark
	table     table.Model
	help      help.Model
	keys      LeaderboardKeyMap
	width     int
	height    int
	embedded  bool
	closed    bool
	quitting  bool
}

// NewLeaderboardModel creates a leaderboard and loads the first page.
func NewLeaderboardModel(source standingsSource, limit, width, height int) LeaderboardModel {
	if limit <= 0 {
		limit = 10
	}
	h := help.New()
	h.ShowAll = false

	m := LeaderboardModel{
		source: source,
		limit:  limit,
		keys:   DefaultLeaderboardKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.Refresh()
	return m
}

// createTable creates a new table sized to the window.
func (m *LeaderboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Player", Width: 16},
		{Title: "Level", Width: 6},
		{Title: "Revealed", Width: 9},
		{Title: "Clicks", Width: 10},
		{Title: "Last seen", Width: 16},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)), // Leave room for title and help
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// Refresh reloads standings from the source.
func (m *LeaderboardModel) Refresh() {
	m.standings, m.err = nil, nil
	if m.source != nil {
		m.standings, m.err = m.source.TopPlayers(m.limit)
	}
	m.table.SetRows(standingRows(m.standings, m.highlight))
	m.table.GotoTop()
}

// standingRows formats standings for the table.
func standingRows(standings []storage.Standing, highlight string) []table.Row {
	rows := make([]table.Row, len(standings))
	for i, s := range standings {
		name := s.Name
		if name == highlight {
			name = "▸ " + name
		}
		seen := "never"
		if !s.UpdatedAt.IsZero() {
			seen = humanize.Time(s.UpdatedAt)
		}
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			name,
			fmt.Sprintf("%d", s.Level),
			humanize.Comma(int64(s.Revealed)),
			humanize.Comma(int64(s.TotalClicks)),
			seen,
		}
	}
	return rows
}

// Init initializes the leaderboard model.
func (m LeaderboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the leaderboard.
func (m LeaderboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.closed = true
			if m.embedded {
				return m, nil
			}
			return m, tea.Quit

		case key.Matches(msg, m.keys.Refresh):
			m.Refresh()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.table.SetRows(standingRows(m.standings, m.highlight))
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the leaderboard.
func (m LeaderboardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	b.WriteString(titleStyle.Render(centerLine("LEADERBOARD", m.width)))
	b.WriteString("\n\n")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	var body string
	switch {
	case m.err != nil:
		body = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).
			Render("Could not load the leaderboard:\n" + m.err.Error())
	case len(m.standings) == 0:
		body = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).Padding(1, 4).
			Render("Nobody has revealed a pixel yet.")
	default:
		body = m.table.View()
	}
	b.WriteString(boxStyle.Render(body))

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// Closed reports whether the user left the board.
func (m LeaderboardModel) Closed() bool {
	return m.closed
}

// IsQuitting returns true if user wants to quit entirely.
func (m LeaderboardModel) IsQuitting() bool {
	return m.quitting
}

// centerLine pads text so it sits in the middle of width columns.
func centerLine(text string, width int) string {
	pad := (width - lipgloss.Width(text)) / 2
	if pad <= 0 {
		return text
	}
	return strings.Repeat(" ", pad) + text
}

// RunLeaderboard shows the leaderboard until the user leaves it.
func RunLeaderboard(store *storage.Store, limit, width, height int) error {
	p := tea.NewProgram(
		NewLeaderboardModel(store, limit, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
