package questionnaire

import (
	"strconv"

	"github.com/abhisek/sfassess/internal/assessment"
	"github.com/abhisek/sfassess/internal/catalog"
	"github.com/abhisek/sfassess/internal/ui/components"
)

const (
	labelYes = "Sí"
	labelNo  = "No"

	defaultScaleLevels = 5
)

// optionLabels returns the entries shown for a question answered from a
// list. Scale questions without option labels get 1..5.
func optionLabels(q *assessment.Question) []string {
	switch q.Kind() {
	case catalog.KindBoolean:
		return []string{labelYes, labelNo}
	case catalog.KindScale:
		if opts := q.Options(); len(opts) > 0 {
			return opts
		}
		levels := make([]string, defaultScaleLevels)
		for i := range levels {
			levels[i] = strconv.Itoa(i + 1)
		}
		return levels
	}
	return q.Options()
}

// newOptionList builds the list widget for q with its stored answer
// preselected.
func newOptionList(q *assessment.Question) components.OptionList {
	labels := optionLabels(q)
	list := components.NewOptionList(labels, q.Kind() == catalog.KindCheckbox, assessment.UnknownChoiceLabel)

	ans := q.Answer()
	if ans.IsUnknown() {
		list.Preselect(nil, true)
		return list
	}

	var selected []string
	if v, ok := ans.BoolValue(); ok {
		selected = []string{labelNo}
		if v {
			selected = []string{labelYes}
		}
	} else if l, ok := ans.LevelValue(); ok && l >= 1 && l <= len(labels) {
		selected = []string{labels[l-1]}
	} else if choices, ok := ans.ChoicesValue(); ok {
		selected = choices
	} else if text, ok := ans.TextValue(); ok {
		selected = []string{text}
	}
	list.Preselect(selected, false)
	return list
}

// listAnswer converts the submitted list state into an answer for kind.
// Single-choice kinds use the highlighted entry.
func listAnswer(kind catalog.Kind, list components.OptionList) assessment.Answer {
	if list.UnknownChosen() {
		return assessment.Unknown()
	}
	switch kind {
	case catalog.KindBoolean:
		return assessment.Bool(list.Cursor == 0)
	case catalog.KindScale:
		return assessment.Level(list.Cursor + 1)
	case catalog.KindMultipleChoice:
		return assessment.Choice(list.Options[list.Cursor])
	case catalog.KindCheckbox:
		return assessment.Choices(list.Chosen()...)
	}
	return assessment.Answer{}
}
