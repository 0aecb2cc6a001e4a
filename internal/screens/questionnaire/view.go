package questionnaire

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/sfassess/internal/assessment"
	"github.com/abhisek/sfassess/internal/catalog"
	"github.com/abhisek/sfassess/internal/ui/components"
	"github.com/abhisek/sfassess/internal/ui/layout"
	"github.com/abhisek/sfassess/internal/ui/theme"
)

func (s *QuestionnaireScreen) KeyHints() []layout.KeyHint {
	if s.fatal != "" {
		return []layout.KeyHint{{Key: "any key", Description: "Volver"}}
	}
	if s.picker != nil {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Mover"},
			{Key: "Enter", Description: "Usar sugerencia"},
			{Key: "Esc", Description: "Cerrar"},
		}
	}

	hints := []layout.KeyHint{{Key: "Enter", Description: "Responder"}}
	switch {
	case s.kind == catalog.KindCheckbox:
		hints = append(hints, layout.KeyHint{Key: "Espacio", Description: "Marcar"})
	case s.kind.IsFreeText():
		hints = append(hints, layout.KeyHint{Key: "Ctrl+G", Description: "Sugerencias"})
	}
	return append(hints,
		layout.KeyHint{Key: "Ctrl+U", Description: "No sé"},
		layout.KeyHint{Key: "PgUp/PgDn", Description: "Pregunta"},
		layout.KeyHint{Key: "Tab", Description: "Sección"},
		layout.KeyHint{Key: "Ctrl+R", Description: "Informe"},
		layout.KeyHint{Key: "Esc", Description: "Salir"},
	)
}

func (s *QuestionnaireScreen) View(width, height int) string {
	if s.fatal != "" {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Warning.Render(s.fatal)+"\n\n"+theme.Hint.Render("Pulse cualquier tecla para volver"))
	}
	a, err := s.opts.Manager.Current()
	if err != nil {
		return ""
	}
	q, err := a.Question(s.ref.ModuleID, s.ref.SectionID, s.ref.QuestionID)
	if err != nil {
		return ""
	}

	cw := min(width-4, 100)
	var b strings.Builder

	b.WriteString(s.renderLocation(a, cw))
	b.WriteString("\n")
	b.WriteString(components.NewProgressBar("Progreso", a.Progress()*100, cw).View())
	b.WriteString("\n\n")

	b.WriteString(renderQuestion(q, cw))
	b.WriteString("\n\n")

	switch {
	case s.picker != nil:
		b.WriteString(theme.Subtitle.Render("Sugerencias"))
		b.WriteString("\n")
		b.WriteString(s.picker.View())
	case s.kind.IsFreeText():
		b.WriteString(s.input.View())
		b.WriteString("\n")
		b.WriteString(s.renderSuggestionHint())
	default:
		b.WriteString(s.options.View())
	}

	if s.warning != "" {
		b.WriteString("\n")
		b.WriteString(theme.Warning.Render(s.warning))
	}
	if s.status != "" {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render(s.status))
	}

	return lipgloss.NewStyle().Padding(0, 2).Width(width).Render(b.String())
}

// renderLocation renders "Módulo i/n · Sección" on the left and the
// question position on the right.
func (s *QuestionnaireScreen) renderLocation(a *assessment.Assessment, width int) string {
	modules := a.Modules()
	mi, moduleName, sectionName := 0, "", ""
	for i := range modules {
		if modules[i].ID() == s.ref.ModuleID {
			mi = i
			moduleName = modules[i].Name()
			if sec, ok := modules[i].Section(s.ref.SectionID); ok {
				sectionName = sec.Name()
			}
			break
		}
	}

	pos, total := s.cursor.Position()
	left := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("Módulo %d/%d · %s", mi+1, len(modules), moduleName)) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(" › "+sectionName)
	right := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("Pregunta %d/%d", pos+1, total))

	gap := max(1, width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", gap) + right
}

func renderQuestion(q *assessment.Question, width int) string {
	var b strings.Builder

	prompt := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(width).Render(q.Prompt())
	b.WriteString(prompt)

	if d := q.Description(); d != "" {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Width(width).Render(d))
	}

	meta := q.Kind().DisplayName()
	if q.Critical() {
		meta += " · " + lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render("crítica")
	}
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(meta))

	if q.Answered() {
		b.WriteString("\n")
		b.WriteString(theme.Answered.Render(fmt.Sprintf("Respuesta actual: %s  (%.1f/%.0f)",
			q.Answer().Display(), q.Score(), q.MaxScore())))
	}
	return b.String()
}

func (s *QuestionnaireScreen) renderSuggestionHint() string {
	switch {
	case s.loading:
		return theme.Hint.Render("Buscando sugerencias…")
	case len(s.suggestions) > 0:
		return theme.Hint.Render(fmt.Sprintf("%d sugerencias disponibles (Ctrl+G)", len(s.suggestions)))
	}
	return ""
}
