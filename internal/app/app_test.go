package app

import (
	"fmt"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/sfassess/internal/catalog"
	"github.com/abhisek/sfassess/internal/router"
	"github.com/abhisek/sfassess/internal/screen"
	"github.com/abhisek/sfassess/internal/session"
	"github.com/abhisek/sfassess/internal/store"
)

func newManager(t *testing.T) *session.Manager {
	t.Helper()
	s, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return session.NewManager(catalog.Default(), s.AssessmentRepo(), session.Options{})
}

// step feeds msg to the model and then runs the returned command once,
// feeding its message back in, the way the Bubble Tea loop would.
func step(t *testing.T, m AppModel, msg tea.Msg) AppModel {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(AppModel)
	if cmd == nil {
		return m
	}
	if out := cmd(); out != nil {
		if _, ok := out.(tea.QuitMsg); ok {
			return m
		}
		next, _ = m.Update(out)
		m = next.(AppModel)
	}
	return m
}

type pickerScreen struct {
	open bool
	got  []tea.Msg
}

func (p *pickerScreen) Init() tea.Cmd        { return nil }
func (p *pickerScreen) View(int, int) string { return "picker" }
func (p *pickerScreen) Title() string        { return "picker" }
func (p *pickerScreen) HandlesEscape() bool  { return p.open }
func (p *pickerScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	p.got = append(p.got, msg)
	return p, nil
}

func TestApp_WelcomeLeadsHome(t *testing.T) {
	m := newAppModel(Options{Manager: newManager(t)})
	assert.Empty(t, m.router.Active().Title())

	m = step(t, m, tea.KeyPressMsg{Code: 'a', Text: "a"})
	assert.Equal(t, "Inicio", m.router.Active().Title())
	assert.Equal(t, 1, m.router.Depth())
}

func TestApp_EscPops(t *testing.T) {
	m := newAppModel(Options{Manager: newManager(t), SkipWelcome: true})
	require.Equal(t, "Inicio", m.router.Active().Title())

	m = step(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Equal(t, "Nueva evaluación", m.router.Active().Title())
	assert.Equal(t, 2, m.router.Depth())

	m = step(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Equal(t, 1, m.router.Depth())

	m = step(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Equal(t, 1, m.router.Depth(), "esc at the root is a no-op")
}

func TestApp_EscapeHandlerKeepsEsc(t *testing.T) {
	m := newAppModel(Options{Manager: newManager(t), SkipWelcome: true})
	p := &pickerScreen{open: true}
	m.router.Push(p)

	esc := tea.KeyPressMsg{Code: tea.KeyEscape}
	m = step(t, m, esc)
	assert.Equal(t, 2, m.router.Depth())
	require.Len(t, p.got, 1)
	assert.Equal(t, esc, p.got[0])

	p.open = false
	m = step(t, m, esc)
	assert.Equal(t, 1, m.router.Depth())
}

func TestApp_CtrlCQuits(t *testing.T) {
	m := newAppModel(Options{Manager: newManager(t), SkipWelcome: true})
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestApp_View(t *testing.T) {
	manager := newManager(t)
	manager.Start("Acme", "Dana")
	m := newAppModel(Options{Manager: manager, SkipWelcome: true})

	assert.Empty(t, m.render(), "no size yet")
	assert.True(t, m.View().AltScreen)

	m = step(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	view := m.render()
	assert.Contains(t, view, "SF Assess")
	assert.Contains(t, view, "Acme")
	assert.Contains(t, view, "Continuar evaluación")

	m = step(t, m, tea.WindowSizeMsg{Width: 20, Height: 5})
	assert.NotContains(t, m.render(), "Continuar evaluación")
}

func TestApp_RevealRefreshesHome(t *testing.T) {
	manager := newManager(t)
	m := newAppModel(Options{Manager: manager, SkipWelcome: true})
	m.router.Push(&pickerScreen{})

	manager.Start("Acme", "Dana")
	m = step(t, m, router.PopScreenMsg{})
	m = step(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Contains(t, m.render(), "Acme · 0% respondido")
}

func TestRun_RequiresManager(t *testing.T) {
	assert.Error(t, Run(Options{}))
}
