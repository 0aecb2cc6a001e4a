package welcome

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sfassess/internal/router"
	"github.com/abhisek/sfassess/internal/screen"
	"github.com/abhisek/sfassess/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	taglineAt    = 500 * time.Millisecond
	hintAt       = 1200 * time.Millisecond
	totalDur     = 1500 * time.Millisecond
)

const cloudArt = `      .-~~~-.
  .- ~ ~-(       )_ _
 /                    ~ -.
|                          \
 \                         .'
   ~- . _____________ . -~`

type tickMsg time.Time

// WelcomeScreen shows the banner and the version of the loaded catalog,
// then hands over to the home screen on the first key press.
type WelcomeScreen struct {
	homeFactory    func() screen.Screen
	catalogVersion string
	elapsed        time.Duration
	transitioned   bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

func New(catalogVersion string, homeFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		homeFactory:    homeFactory,
		catalogVersion: catalogVersion,
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.elapsed >= totalDur {
			return w, nil
		}
		w.elapsed += tickInterval
		if w.elapsed >= totalDur {
			return w, nil
		}
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}
	return w, nil
}

// transition builds the home screen once; later key presses are ignored
// until the router swaps this screen out.
func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	home := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: home}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	sections := []string{
		lipgloss.NewStyle().Foreground(theme.Secondary).Render(cloudArt),
		RenderBanner(width),
	}

	if w.elapsed >= taglineAt {
		sections = append(sections, "",
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
				Render("Evaluación técnica de organizaciones Salesforce"))
		if w.catalogVersion != "" {
			sections = append(sections,
				lipgloss.NewStyle().Foreground(theme.TextDim).
					Render(fmt.Sprintf("catálogo %s", w.catalogVersion)))
		}
	}

	if w.elapsed >= hintAt {
		sections = append(sections, "", theme.Hint.Render("pulse cualquier tecla para continuar"))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.TrimPrefix(content, "\n"))
}
