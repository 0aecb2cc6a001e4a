// Package home is the TUI main menu.
package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sfassess/internal/assessment"
	"github.com/abhisek/sfassess/internal/router"
	"github.com/abhisek/sfassess/internal/screen"
	"github.com/abhisek/sfassess/internal/session"
	"github.com/abhisek/sfassess/internal/ui/components"
	"github.com/abhisek/sfassess/internal/ui/theme"
)

// Screens builds the screens reachable from the menu.
type Screens struct {
	Start         func() screen.Screen
	Questionnaire func() screen.Screen
	Report        func() screen.Screen
}

// HomeScreen offers starting a new assessment, continuing the current
// one, opening its report and quitting. Continue and report are disabled
// while no assessment exists.
type HomeScreen struct {
	manager *session.Manager
	screens Screens
	menu    components.Menu
	current *assessment.Assessment
}

var _ screen.Screen = (*HomeScreen)(nil)

func New(manager *session.Manager, screens Screens) *HomeScreen {
	h := &HomeScreen{manager: manager, screens: screens}
	h.refresh()
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Inicio"
}

// refresh rebuilds the menu from the manager's current assessment.
func (h *HomeScreen) refresh() {
	h.current, _ = h.manager.Current()
	none := h.current == nil

	continueHint := ""
	if !none {
		continueHint = fmt.Sprintf("%s · %.0f%% respondido", h.current.ClientName(), h.current.Progress()*100)
	}

	selected := h.menu.Selected
	h.menu = components.NewMenu([]components.MenuItem{
		{Label: "Nueva evaluación", Action: push(h.screens.Start)},
		{Label: "Continuar evaluación", Hint: continueHint, Action: push(h.screens.Questionnaire), Disabled: none},
		{Label: "Ver informe", Action: push(h.screens.Report), Disabled: none},
		{Label: "Salir", Action: func() tea.Cmd { return tea.Quit }},
	})
	if selected < len(h.menu.Items) && !h.menu.Items[selected].Disabled {
		h.menu.Selected = selected
	}
}

func push(factory func() screen.Screen) func() tea.Cmd {
	return func() tea.Cmd {
		if factory == nil {
			return nil
		}
		next := factory()
		return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(router.RevealedMsg); ok {
		h.refresh()
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := min(width-4, 64)

	sections := []string{
		theme.Title.Width(cw).Render("Salesforce Assessment"),
		theme.Subtitle.Width(cw).Render("Evaluación técnica de organizaciones Salesforce"),
		"",
		h.renderCurrent(cw),
		"",
		theme.Card.Width(cw).Render(strings.TrimRight(h.menu.View(), "\n")),
	}
	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (h *HomeScreen) renderCurrent(width int) string {
	if h.current == nil {
		return theme.Card.Width(width).Render(theme.Hint.Render("No hay ninguna evaluación en curso."))
	}
	a := h.current
	c := a.Counts()
	lines := []string{
		lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(a.ClientName()),
		theme.Hint.Render(fmt.Sprintf("%s · %s", a.Assessor(), a.CreatedAt().Format("2006-01-02"))),
		"",
		components.NewProgressBar("Respondidas", a.Progress()*100, width-6).View(),
		fmt.Sprintf("%d de %d preguntas · %d sin información · puntuación %.1f%%",
			c.Answered, c.Questions, c.Unknown, a.Percentage()),
	}
	return theme.Card.Width(width).Render(strings.Join(lines, "\n"))
}
