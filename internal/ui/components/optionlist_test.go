package components

import (
	"slices"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func press(o OptionList, keys ...tea.KeyPressMsg) OptionList {
	for _, k := range keys {
		o, _ = o.Update(k)
	}
	return o
}

var (
	down  = tea.KeyPressMsg{Code: tea.KeyDown}
	up    = tea.KeyPressMsg{Code: tea.KeyUp}
	enter = tea.KeyPressMsg{Code: tea.KeyEnter}
	space = tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
)

func num(r rune) tea.KeyPressMsg { return tea.KeyPressMsg{Code: r, Text: string(r)} }

func TestOptionList_Single(t *testing.T) {
	o := NewOptionList([]string{"a", "b", "c"}, false, "?")

	o = press(o, up, down, down, down, down)
	if o.Cursor != 3 {
		t.Errorf("Cursor = %d, want 3 (clamped at the unknown entry)", o.Cursor)
	}

	o = press(o, num('2'), enter)
	if !o.Submitted {
		t.Fatal("expected Submitted after enter")
	}
	if got := o.Chosen(); !slices.Equal(got, []string{"b"}) {
		t.Errorf("Chosen() = %v, want [b]", got)
	}
	if o.UnknownChosen() {
		t.Error("UnknownChosen() = true, want false")
	}
}

func TestOptionList_MultiUnknownIsExclusive(t *testing.T) {
	o := NewOptionList([]string{"a", "b", "c"}, true, "?")

	o = press(o, num('1'), num('3'))
	if got := o.Chosen(); !slices.Equal(got, []string{"a", "c"}) {
		t.Fatalf("Chosen() = %v, want [a c]", got)
	}

	o = press(o, num('4'))
	if !o.UnknownChosen() || len(o.Chosen()) != 0 {
		t.Errorf("unknown should clear other marks, got chosen=%v unknown=%v", o.Chosen(), o.UnknownChosen())
	}

	o = press(o, up, up, space)
	if o.UnknownChosen() {
		t.Error("checking an option should clear unknown")
	}
	if got := o.Chosen(); !slices.Equal(got, []string{"b"}) {
		t.Errorf("Chosen() = %v, want [b]", got)
	}

	o = press(o, space)
	if len(o.Chosen()) != 0 {
		t.Errorf("space should toggle off, got %v", o.Chosen())
	}
}

func TestOptionList_Preselect(t *testing.T) {
	o := NewOptionList([]string{"a", "b", "c"}, true, "?")
	o.Preselect([]string{"c", "b"}, false)
	if o.Cursor != 1 {
		t.Errorf("Cursor = %d, want 1", o.Cursor)
	}
	if got := o.Chosen(); !slices.Equal(got, []string{"b", "c"}) {
		t.Errorf("Chosen() = %v, want [b c]", got)
	}

	o.Preselect(nil, true)
	if !o.UnknownChosen() || o.Cursor != 3 {
		t.Errorf("Preselect unknown: cursor=%d unknown=%v", o.Cursor, o.UnknownChosen())
	}
}

func TestOptionList_NoUnknownEntry(t *testing.T) {
	o := NewOptionList([]string{"a"}, false, "")
	o = press(o, down, num('2'))
	if o.Cursor != 0 {
		t.Errorf("Cursor = %d, want 0", o.Cursor)
	}
	if o.UnknownChosen() {
		t.Error("UnknownChosen() without an unknown entry")
	}
}
