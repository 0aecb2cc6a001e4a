// Package screen defines the contract between the TUI router and the
// individual screens.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/sfassess/internal/ui/layout"
)

// Screen is one page of the TUI.
type Screen interface {
	Init() tea.Cmd

	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area, without header and footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider lets a screen replace the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// EscapeHandler is implemented by screens that consume Esc themselves,
// for example to close an overlay, instead of letting the app pop them.
type EscapeHandler interface {
	HandlesEscape() bool
}
