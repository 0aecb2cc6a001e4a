// Package startform collects the client and assessor names and starts a
// new assessment.
package startform

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sfassess/internal/router"
	"github.com/abhisek/sfassess/internal/screen"
	"github.com/abhisek/sfassess/internal/session"
	"github.com/abhisek/sfassess/internal/ui/components"
	"github.com/abhisek/sfassess/internal/ui/layout"
	"github.com/abhisek/sfassess/internal/ui/theme"
)

const (
	focusClient = iota
	focusAssessor
	focusButton
	focusCount
)

// StartForm is the "new assessment" form. On submit it starts and saves
// the assessment and replaces itself with the screen built by next.
type StartForm struct {
	manager  *session.Manager
	next     func() screen.Screen
	client   components.TextInput
	assessor components.TextInput
	button   components.Button
	focus    int
	replaces string
	err      string
}

var _ screen.Screen = (*StartForm)(nil)
var _ screen.KeyHintProvider = (*StartForm)(nil)

func New(manager *session.Manager, next func() screen.Screen) *StartForm {
	f := &StartForm{
		manager:  manager,
		next:     next,
		client:   components.NewTextInput("Cliente", "Nombre de la organización", 120),
		assessor: components.NewTextInput("Evaluador", "Su nombre", 80),
	}
	f.button = components.NewButton("Comenzar evaluación", f.submit)
	if a, err := manager.Current(); err == nil {
		f.replaces = a.ClientName()
	}
	return f
}

func (f *StartForm) Init() tea.Cmd {
	return f.client.Focus()
}

func (f *StartForm) Title() string {
	return "Nueva evaluación"
}

func (f *StartForm) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Siguiente campo"},
		{Key: "Enter", Description: "Continuar"},
		{Key: "Esc", Description: "Volver"},
	}
}

func (f *StartForm) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "tab", "down":
			return f, f.setFocus((f.focus + 1) % focusCount)
		case "shift+tab", "up":
			return f, f.setFocus((f.focus + focusCount - 1) % focusCount)
		case "enter":
			if f.focus == focusButton {
				var cmd tea.Cmd
				f.button, cmd = f.button.Update(msg)
				return f, cmd
			}
			if f.focus == focusAssessor && strings.TrimSpace(f.client.Value()) != "" {
				return f, f.submit()
			}
			return f, f.setFocus(f.focus + 1)
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case focusClient:
		f.client, cmd = f.client.Update(msg)
	case focusAssessor:
		f.assessor, cmd = f.assessor.Update(msg)
	}
	return f, cmd
}

func (f *StartForm) setFocus(i int) tea.Cmd {
	f.focus = i
	f.client.Blur()
	f.assessor.Blur()
	f.button.Focused = i == focusButton
	switch i {
	case focusClient:
		return f.client.Focus()
	case focusAssessor:
		return f.assessor.Focus()
	}
	return nil
}

// submit validates both names, then starts and persists the assessment.
func (f *StartForm) submit() tea.Cmd {
	client := strings.TrimSpace(f.client.Value())
	assessor := strings.TrimSpace(f.assessor.Value())

	f.client.Err, f.assessor.Err, f.err = "", "", ""
	if client == "" {
		f.client.Err = "El nombre del cliente es obligatorio"
	}
	if assessor == "" {
		f.assessor.Err = "El nombre del evaluador es obligatorio"
	}
	if client == "" {
		return f.setFocus(focusClient)
	}
	if assessor == "" {
		return f.setFocus(focusAssessor)
	}

	f.manager.Start(client, assessor)
	if err := f.manager.Save(context.Background()); err != nil {
		f.err = fmt.Sprintf("No se pudo guardar la evaluación: %v", err)
		return nil
	}
	next := f.next()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (f *StartForm) View(width, height int) string {
	parts := []string{
		theme.Title.Render("Nueva evaluación"),
		"",
		f.client.View(),
		"",
		f.assessor.View(),
		"",
		f.button.View(),
	}
	if f.replaces != "" {
		parts = append(parts, "", theme.Hint.Render(
			fmt.Sprintf("Se reemplazará la evaluación en curso de %s.", f.replaces)))
	}
	if f.err != "" {
		parts = append(parts, "", theme.Warning.Render(f.err))
	}

	card := theme.Card.Width(min(width-4, 70)).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
