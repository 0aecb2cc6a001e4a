// Package questionnaire is the TUI screen that walks the assessment one
// question at a time.
package questionnaire

import (
	"context"
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/sfassess/internal/assessment"
	"github.com/abhisek/sfassess/internal/catalog"
	"github.com/abhisek/sfassess/internal/metrics"
	"github.com/abhisek/sfassess/internal/router"
	"github.com/abhisek/sfassess/internal/screen"
	"github.com/abhisek/sfassess/internal/session"
	"github.com/abhisek/sfassess/internal/suggest"
	"github.com/abhisek/sfassess/internal/ui/components"
)

// Options are the collaborators of the questionnaire. Suggester, Metrics
// and Report may be nil.
type Options struct {
	Manager   *session.Manager
	Suggester suggest.Suggester
	Metrics   *metrics.Metrics

	// Report builds the screen pushed by ctrl+r.
	Report func() screen.Screen
}

// QuestionnaireScreen shows the question under a session.Cursor with the
// widget for its kind: a list for boolean, scale and choice questions, a
// text field for free text.
type QuestionnaireScreen struct {
	opts   Options
	cursor *session.Cursor

	ref     catalog.Ref
	kind    catalog.Kind
	options components.OptionList
	input   components.TextInput

	suggestions []string
	picker      *components.OptionList
	loading     bool

	status  string
	warning string
	fatal   string
}

var _ screen.Screen = (*QuestionnaireScreen)(nil)
var _ screen.KeyHintProvider = (*QuestionnaireScreen)(nil)
var _ screen.EscapeHandler = (*QuestionnaireScreen)(nil)

// New opens the current assessment at its first unanswered question.
func New(opts Options) *QuestionnaireScreen {
	s := &QuestionnaireScreen{opts: opts}
	a, err := opts.Manager.Current()
	if err != nil {
		s.fatal = "No hay una evaluación en curso."
		return s
	}
	s.cursor = session.NewCursor(a)
	ref := s.cursor.Current()
	if q, err := a.Question(ref.ModuleID, ref.SectionID, ref.QuestionID); err == nil && q.Answered() {
		s.cursor.SkipToUnanswered(a)
	}
	return s
}

func (s *QuestionnaireScreen) Init() tea.Cmd {
	if s.cursor == nil {
		return nil
	}
	return s.load()
}

func (s *QuestionnaireScreen) Title() string {
	if a, err := s.opts.Manager.Current(); err == nil {
		if m, ok := a.Module(s.ref.ModuleID); ok {
			return m.Name()
		}
	}
	return "Cuestionario"
}

// HandlesEscape keeps Esc inside the screen while the suggestion picker
// is open.
func (s *QuestionnaireScreen) HandlesEscape() bool {
	return s.picker != nil
}

// load rebuilds the widget for the question under the cursor.
func (s *QuestionnaireScreen) load() tea.Cmd {
	s.picker = nil
	s.suggestions = nil
	s.loading = false

	a, err := s.opts.Manager.Current()
	if err != nil {
		s.fatal = "No hay una evaluación en curso."
		return nil
	}
	s.ref = s.cursor.Current()
	q, err := a.Question(s.ref.ModuleID, s.ref.SectionID, s.ref.QuestionID)
	if err != nil {
		s.fatal = err.Error()
		return nil
	}
	s.kind = q.Kind()

	if !s.kind.IsFreeText() {
		s.options = newOptionList(q)
		return nil
	}

	s.input = components.NewTextInput("", "Escriba la respuesta", 0)
	if ans := q.Answer(); !ans.IsUnknown() {
		if text, ok := ans.TextValue(); ok {
			s.input.SetValue(text)
		}
	}
	cmds := []tea.Cmd{s.input.Focus()}
	if s.kind == catalog.KindAutocomplete {
		cmds = append(cmds, s.fetchSuggestions(false))
	}
	return tea.Batch(cmds...)
}

func (s *QuestionnaireScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case suggestionsMsg:
		return s, s.handleSuggestions(msg)
	case router.RevealedMsg:
		if s.cursor != nil {
			return s, s.load()
		}
		return s, nil
	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if s.cursor != nil && s.kind.IsFreeText() && s.picker == nil {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *QuestionnaireScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if s.fatal != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	if s.picker != nil {
		return s, s.handlePickerKey(msg)
	}

	key := msg.String()
	switch key {
	case "ctrl+u":
		return s, s.record(assessment.Unknown())
	case "pgdown", "ctrl+n":
		return s, s.move(s.cursor.Next, "Esta es la última pregunta.")
	case "pgup", "ctrl+p":
		return s, s.move(s.cursor.Prev, "Esta es la primera pregunta.")
	case "tab":
		return s, s.move(s.cursor.NextSection, "Esta es la última sección.")
	case "shift+tab":
		return s, s.move(s.cursor.PrevSection, "Esta es la primera sección.")
	case "ctrl+f":
		a, _ := s.opts.Manager.Current()
		return s, s.move(func() bool { return s.cursor.SkipToUnanswered(a) }, "No quedan preguntas sin responder.")
	case "ctrl+s":
		s.save()
		return s, nil
	case "ctrl+r":
		if s.opts.Report == nil {
			return s, nil
		}
		next := s.opts.Report()
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
	case "ctrl+g":
		if s.kind.IsFreeText() {
			return s, s.openSuggestions()
		}
		return s, nil
	}

	if s.kind.IsFreeText() {
		if key == "enter" {
			return s, s.submitText()
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}

	s.options, _ = s.options.Update(msg)
	if s.options.Submitted {
		s.options.Submitted = false
		return s, s.record(listAnswer(s.kind, s.options))
	}
	return s, nil
}

func (s *QuestionnaireScreen) submitText() tea.Cmd {
	if s.input.Value() == "" {
		s.input.Err = "Escriba una respuesta o pulse Ctrl+U si no dispone de la información."
		return nil
	}
	return s.record(assessment.Text(s.input.Value()))
}

// record stores ans for the current question and moves on. A rejected
// answer stays on the question with the reason shown; an answer that was
// recorded but not saved moves on with a warning.
func (s *QuestionnaireScreen) record(ans assessment.Answer) tea.Cmd {
	a, err := s.opts.Manager.Answer(context.Background(), s.ref, ans)
	if a == nil {
		s.showError(rejection(err))
		return nil
	}
	s.status, s.warning = "", ""
	if err != nil {
		s.warning = fmt.Sprintf("Respuesta registrada pero no guardada: %v", err)
	}

	c := a.Counts()
	if c.Answered == c.Questions {
		s.status = "Todas las preguntas están respondidas. Ctrl+R abre el informe."
	}
	if s.cursor.Next() {
		return s.load()
	}
	if s.cursor.SkipToUnanswered(a) {
		s.status = fmt.Sprintf("Quedan %d preguntas sin responder.", c.Questions-c.Answered)
	}
	return s.load()
}

func rejection(err error) string {
	var invalid *assessment.InvalidAnswerError
	switch {
	case errors.As(err, &invalid):
		return fmt.Sprintf("Respuesta no válida: %v", err)
	case errors.Is(err, assessment.ErrNotFound):
		return "La pregunta no existe en esta evaluación."
	default:
		return err.Error()
	}
}

func (s *QuestionnaireScreen) showError(msg string) {
	if s.kind.IsFreeText() {
		s.input.Err = msg
		return
	}
	s.warning = msg
}

func (s *QuestionnaireScreen) move(step func() bool, atEdge string) tea.Cmd {
	s.warning = ""
	if !step() {
		s.status = atEdge
		return nil
	}
	s.status = ""
	return s.load()
}

func (s *QuestionnaireScreen) save() {
	if err := s.opts.Manager.Save(context.Background()); err != nil {
		s.warning = fmt.Sprintf("No se pudo guardar: %v", err)
		return
	}
	s.warning = ""
	s.status = "Evaluación guardada."
}

func (s *QuestionnaireScreen) openSuggestions() tea.Cmd {
	if len(s.suggestions) > 0 {
		picker := components.NewOptionList(s.suggestions, false, "")
		s.picker = &picker
		return nil
	}
	if s.loading {
		return nil
	}
	return s.fetchSuggestions(true)
}

func (s *QuestionnaireScreen) fetchSuggestions(open bool) tea.Cmd {
	if s.opts.Suggester == nil {
		if open {
			s.status = "No hay sugerencias disponibles."
		}
		return nil
	}
	a, err := s.opts.Manager.Current()
	if err != nil {
		return nil
	}
	sc, err := suggest.ContextFor(a, s.ref)
	if err != nil {
		return nil
	}

	s.loading = true
	ref, sugg := s.ref, s.opts.Suggester
	return func() tea.Msg {
		items, err := sugg.Suggest(context.Background(), sc)
		return suggestionsMsg{ref: ref, items: items, err: err, open: open}
	}
}

func (s *QuestionnaireScreen) handleSuggestions(msg suggestionsMsg) tea.Cmd {
	if msg.ref != s.ref {
		return nil
	}
	s.loading = false
	if msg.err != nil {
		s.warning = fmt.Sprintf("No se pudieron obtener sugerencias: %v", msg.err)
		return nil
	}
	if s.opts.Metrics != nil {
		s.opts.Metrics.Suggestions.WithLabelValues("tui").Inc()
	}
	s.suggestions = msg.items
	if !msg.open {
		return nil
	}
	if len(msg.items) == 0 {
		s.status = "No hay sugerencias para esta pregunta."
		return nil
	}
	return s.openSuggestions()
}

func (s *QuestionnaireScreen) handlePickerKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		s.picker = nil
		return nil
	case "enter":
		s.input.SetValue(s.picker.Options[s.picker.Cursor])
		s.picker = nil
		return s.input.Focus()
	}
	updated, _ := s.picker.Update(msg)
	s.picker = &updated
	return nil
}
