package core

// Action represents a semantic input, abstracted from physical key presses
// and mouse events.
type Action int

const (
	ActionNone        Action = iota
	ActionUp                 // K, Up arrow - move cursor up
	ActionDown               // J, Down arrow - move cursor down
	ActionLeft               // H, Left arrow - move cursor left
	ActionRight              // L, Right arrow - move cursor right
	ActionReveal             // Space, Enter, left click - click the pixel
	ActionReset              // R - ask to restart from level 1
	ActionConfirm            // Y - confirm a pending reset
	ActionCancel             // N, Escape - dismiss a prompt
	ActionLeaderboard        // Tab - toggle the leaderboard
	ActionHelp               // ? - toggle full help
	ActionQuit               // Q, Ctrl+C - exit session
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionReveal:
		return "Reveal"
	case ActionReset:
		return "Reset"
	case ActionConfirm:
		return "Confirm"
	case ActionCancel:
		return "Cancel"
	case ActionLeaderboard:
		return "Leaderboard"
	case ActionHelp:
		return "Help"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Step returns the cursor offset for a movement action.
func (a Action) Step() (dx, dy int) {
	switch a {
	case ActionUp:
		return 0, -1
	case ActionDown:
		return 0, 1
	case ActionLeft:
		return -1, 0
	case ActionRight:
		return 1, 0
	default:
		return 0, 0
	}
}

// Cursor is the keyboard selection on the image grid.
type Cursor struct {
	X, Y int
}

// Move applies a movement action and keeps the cursor inside w x h.
func (c Cursor) Move(a Action, w, h int) Cursor {
	dx, dy := a.Step()
	return Cursor{
		X: Clamp(c.X+dx, 0, max(w-1, 0)),
		Y: Clamp(c.Y+dy, 0, max(h-1, 0)),
	}
}
