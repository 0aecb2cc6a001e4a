// Package app wires the TUI screens together and runs the Bubble Tea
// program.
package app

import (
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/sfassess/internal/metrics"
	"github.com/abhisek/sfassess/internal/objstore"
	"github.com/abhisek/sfassess/internal/router"
	"github.com/abhisek/sfassess/internal/screen"
	"github.com/abhisek/sfassess/internal/screens/home"
	"github.com/abhisek/sfassess/internal/screens/questionnaire"
	"github.com/abhisek/sfassess/internal/screens/reportview"
	"github.com/abhisek/sfassess/internal/screens/startform"
	"github.com/abhisek/sfassess/internal/screens/welcome"
	"github.com/abhisek/sfassess/internal/session"
	"github.com/abhisek/sfassess/internal/suggest"
	"github.com/abhisek/sfassess/internal/ui/layout"
)

// Options are the dependencies of the TUI. Manager is required.
type Options struct {
	Manager   *session.Manager
	Suggester suggest.Suggester
	Metrics   *metrics.Metrics
	Uploader  objstore.Uploader
	Log       *zap.Logger

	ExportDir string
	Now       func() time.Time

	// SkipWelcome opens the home screen directly.
	SkipWelcome bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	opts   Options
	router *router.Router
	width  int
	height int
}

func newAppModel(opts Options) AppModel {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	m := AppModel{opts: opts}

	homeFactory := func() screen.Screen {
		return home.New(opts.Manager, home.Screens{
			Start: func() screen.Screen {
				return startform.New(opts.Manager, m.questionnaire)
			},
			Questionnaire: m.questionnaire,
			Report:        m.report,
		})
	}

	var first screen.Screen
	if opts.SkipWelcome {
		first = homeFactory()
	} else {
		first = welcome.New(opts.Manager.Catalog().Version, homeFactory)
	}
	m.router = router.New(first)
	return m
}

func (m AppModel) questionnaire() screen.Screen {
	return questionnaire.New(questionnaire.Options{
		Manager:   m.opts.Manager,
		Suggester: m.opts.Suggester,
		Metrics:   m.opts.Metrics,
		Report:    m.report,
	})
}

func (m AppModel) report() screen.Screen {
	return reportview.New(reportview.Options{
		Manager:   m.opts.Manager,
		Metrics:   m.opts.Metrics,
		Uploader:  m.opts.Uploader,
		ExportDir: m.opts.ExportDir,
		Now:       m.opts.Now,
	})
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render draws the frame for the current window size, or nothing before
// the first WindowSizeMsg.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	client, progress := "", 0.0
	if a, err := m.opts.Manager.Current(); err == nil {
		client, progress = a.ClientName(), a.Progress()*100
	}
	header := layout.RenderHeader(title, client, progress, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	contentHeight := max(0, m.height-lipgloss.Height(header)-lipgloss.Height(footer))
	content := m.router.View(m.width, contentHeight)

	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		if hints := p.KeyHints(); len(hints) > 0 {
			return hints
		}
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Volver"},
			{Key: "Ctrl+C", Description: "Salir"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Mover"},
		{Key: "Enter", Description: "Elegir"},
		{Key: "Ctrl+C", Description: "Salir"},
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	if opts.Manager == nil {
		return fmt.Errorf("app: Manager is required")
	}
	model := newAppModel(opts)
	log := model.opts.Log
	log.Info("tui started")

	_, err := tea.NewProgram(model).Run()
	if err != nil {
		log.Error("tui failed", zap.Error(err))
		return fmt.Errorf("run tui: %w", err)
	}
	log.Info("tui stopped")
	return nil
}
