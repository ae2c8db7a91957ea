// Package tui provides the Bubble Tea integration for the clicker.
// It handles the terminal UI loop, input mapping, rendering and SSH serving.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// toastExpiredMsg clears the toast it belongs to. Newer toasts carry a
// higher id, so a stale expiry never hides them.
type toastExpiredMsg struct {
	id int
}

// toastCmd expires toast id after d.
func toastCmd(d time.Duration, id int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}
