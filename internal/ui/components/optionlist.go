package components

import (
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/sfassess/internal/ui/theme"
)

// OptionList is a vertical list of options with single or multiple
// selection. An optional trailing "unknown" entry is exclusive: checking
// it clears every other mark, and checking any other option clears it.
//
// Keys: up/down move, number keys jump, space toggles in multi mode,
// enter submits. In single mode enter selects the highlighted option.
type OptionList struct {
	Options   []string
	Multi     bool
	Cursor    int
	Checked   map[int]bool
	Unknown   string
	Submitted bool
}

// NewOptionList builds a list. unknownLabel, when not empty, is appended
// as the last entry.
func NewOptionList(options []string, multi bool, unknownLabel string) OptionList {
	return OptionList{
		Options: slices.Clone(options),
		Multi:   multi,
		Checked: map[int]bool{},
		Unknown: unknownLabel,
	}
}

func (o OptionList) len() int {
	if o.Unknown != "" {
		return len(o.Options) + 1
	}
	return len(o.Options)
}

func (o OptionList) unknownIndex() int {
	if o.Unknown == "" {
		return -1
	}
	return len(o.Options)
}

// Preselect moves the cursor to and marks the given options. It is used
// to show the stored answer when revisiting a question.
func (o *OptionList) Preselect(selected []string, unknown bool) {
	o.Checked = map[int]bool{}
	if unknown && o.Unknown != "" {
		o.Checked[o.unknownIndex()] = true
		o.Cursor = o.unknownIndex()
		return
	}
	first := -1
	for i, opt := range o.Options {
		if slices.Contains(selected, opt) {
			o.Checked[i] = true
			if first < 0 {
				first = i
			}
		}
	}
	if first >= 0 {
		o.Cursor = first
	}
}

func (o OptionList) Update(msg tea.Msg) (OptionList, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return o, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if o.Cursor > 0 {
			o.Cursor--
		}
	case "down", "j":
		if o.Cursor < o.len()-1 {
			o.Cursor++
		}
	case "space", " ":
		if o.Multi {
			o.toggle(o.Cursor)
		}
	case "enter":
		if !o.Multi {
			o.Checked = map[int]bool{o.Cursor: true}
		}
		o.Submitted = true
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < o.len() {
				o.Cursor = i
				if o.Multi {
					o.toggle(i)
				}
			}
		}
	}
	return o, nil
}

func (o *OptionList) toggle(i int) {
	if o.Checked[i] {
		delete(o.Checked, i)
		return
	}
	u := o.unknownIndex()
	if i == u {
		o.Checked = map[int]bool{}
	} else if u >= 0 {
		delete(o.Checked, u)
	}
	o.Checked[i] = true
}

// UnknownChosen reports whether the unknown entry is the selection.
func (o OptionList) UnknownChosen() bool {
	u := o.unknownIndex()
	return u >= 0 && o.Checked[u]
}

// Chosen returns the checked options in list order, without the unknown
// entry.
func (o OptionList) Chosen() []string {
	var out []string
	for i, opt := range o.Options {
		if o.Checked[i] {
			out = append(out, opt)
		}
	}
	return out
}

func (o OptionList) View() string {
	var b strings.Builder
	for i := 0; i < o.len(); i++ {
		label := o.Unknown
		if i < len(o.Options) {
			label = o.Options[i]
		}

		mark := ""
		if o.Multi {
			mark = "[ ] "
			if o.Checked[i] {
				mark = "[x] "
			}
		} else if o.Checked[i] {
			mark = "● "
		} else {
			mark = "○ "
		}

		prefix := "  "
		if i == o.Cursor {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d) %s%s", prefix, i+1, mark, label)

		switch {
		case i == o.Cursor:
			b.WriteString(theme.Selected.Render(line))
		case i == o.unknownIndex():
			b.WriteString(theme.Hint.Render(line))
		case o.Checked[i]:
			b.WriteString(theme.Answered.Render(line))
		default:
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
