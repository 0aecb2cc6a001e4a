package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/sfassess/internal/screen"
)

type stubScreen struct {
	title   string
	initRan bool
	got     []tea.Msg
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}
func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.got = append(s.got, msg)
	return s, nil
}
func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }

func TestPush(t *testing.T) {
	r := New(&stubScreen{title: "home"})

	s2 := &stubScreen{title: "start"}
	r.Update(PushScreenMsg{Screen: s2})

	if r.Depth() != 2 {
		t.Errorf("Depth() = %d, want 2", r.Depth())
	}
	if r.Active().Title() != "start" {
		t.Errorf("Active() = %q, want %q", r.Active().Title(), "start")
	}
	if !s2.initRan {
		t.Error("expected Init() to run on pushed screen")
	}
}

func TestPop(t *testing.T) {
	r := New(&stubScreen{title: "home"})
	r.Push(&stubScreen{title: "report"})
	cmd := r.Update(PopScreenMsg{})

	if r.Depth() != 1 {
		t.Errorf("Depth() = %d, want 1", r.Depth())
	}
	if r.Active().Title() != "home" {
		t.Errorf("Active() = %q, want %q", r.Active().Title(), "home")
	}

	if cmd == nil {
		t.Fatal("expected a RevealedMsg command after pop")
	}
	if _, ok := cmd().(RevealedMsg); !ok {
		t.Errorf("pop command produced %T, want RevealedMsg", cmd())
	}

	if cmd := r.Update(PopScreenMsg{}); cmd != nil {
		t.Error("pop at root should not produce a command")
	}
	if r.Depth() != 1 {
		t.Errorf("Depth() after pop at root = %d, want 1", r.Depth())
	}
}

func TestReplacePreservesStackDepth(t *testing.T) {
	r := New(&stubScreen{title: "home"})
	r.Push(&stubScreen{title: "start"})

	q := &stubScreen{title: "questionnaire"}
	r.Update(ReplaceScreenMsg{Screen: q})

	if r.Depth() != 2 {
		t.Errorf("Depth() = %d, want 2", r.Depth())
	}
	if r.Active().Title() != "questionnaire" {
		t.Errorf("Active() = %q, want %q", r.Active().Title(), "questionnaire")
	}
	if !q.initRan {
		t.Error("expected Init() to run via ReplaceScreenMsg")
	}
}

func TestPopToRoot_RevealsRoot(t *testing.T) {
	home := &stubScreen{title: "home"}
	r := New(home)
	r.Push(&stubScreen{title: "questionnaire"})
	r.Push(&stubScreen{title: "report"})

	cmd := r.Update(PopToRootMsg{})
	if r.Depth() != 1 {
		t.Fatalf("Depth() = %d, want 1", r.Depth())
	}
	if cmd == nil {
		t.Fatal("expected a command after PopToRootMsg")
	}

	r.Update(cmd())
	if len(home.got) != 1 {
		t.Fatalf("root received %d messages, want 1", len(home.got))
	}
	if _, ok := home.got[0].(RevealedMsg); !ok {
		t.Errorf("root received %T, want RevealedMsg", home.got[0])
	}
}

func TestUpdateForwardsToActive(t *testing.T) {
	home := &stubScreen{title: "home"}
	top := &stubScreen{title: "top"}
	r := New(home)
	r.Push(top)

	r.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})

	if len(top.got) != 1 {
		t.Errorf("active received %d messages, want 1", len(top.got))
	}
	if len(home.got) != 0 {
		t.Errorf("inactive screen received %d messages, want 0", len(home.got))
	}
	if got := r.View(80, 24); got != "top" {
		t.Errorf("View() = %q, want %q", got, "top")
	}
}
