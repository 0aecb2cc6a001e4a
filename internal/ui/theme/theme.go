package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette, Salesforce blues on a dark background.
var (
	Primary   = lipgloss.Color("#0176D3") // Salesforce blue
	Secondary = lipgloss.Color("#06A59A") // Teal
	Accent    = lipgloss.Color("#FE9339") // Orange
	Success   = lipgloss.Color("#2E844A") // Green
	Error     = lipgloss.Color("#EA001E") // Red
	Text      = lipgloss.Color("#F3F3F3")
	TextDim   = lipgloss.Color("#939393")
	BgDark    = lipgloss.Color("#032D60") // Navy
	BgCard    = lipgloss.Color("#0B1F3A")
	Border    = lipgloss.Color("#3E4F66")
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Warning = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 2)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Disabled = lipgloss.NewStyle().
			Foreground(TextDim)

	Answered = lipgloss.NewStyle().
			Foreground(Success)
)

// Components
var (
	ButtonActive = lipgloss.NewStyle().
			Background(Primary).
			Foreground(Text).
			Bold(true).
			Padding(0, 2)

	ButtonInactive = lipgloss.NewStyle().
			Foreground(TextDim).
			Padding(0, 2)
)

// ScoreColor maps a 0-100 percentage to red, orange or green.
func ScoreColor(pct float64) color.Color {
	switch {
	case pct >= 80:
		return Success
	case pct >= 50:
		return Accent
	default:
		return Error
	}
}
