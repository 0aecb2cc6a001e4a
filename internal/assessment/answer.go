// Package assessment holds the per-session assessment aggregate: the tree
// of module, section and question instances built from a catalog, the
// scoring rule and the answer transition that keeps scores consistent.
package assessment

import (
	"fmt"
	"slices"
	"strings"
)

// Sentinel labels offered by the questionnaire for "no information".
// Answers carrying them score zero and are listed as unknown in reports.
const (
	UnknownChoiceLabel = "No tengo información"
	UnknownTextLabel   = "No tengo información disponible"
)

// Variant discriminates the shape of an Answer.
type Variant int

const (
	VariantUnset Variant = iota
	VariantBool
	VariantLevel
	VariantText
	VariantChoice
	VariantChoices
	VariantUnknown
)

func (v Variant) String() string {
	switch v {
	case VariantUnset:
		return "unset"
	case VariantBool:
		return "boolean"
	case VariantLevel:
		return "level"
	case VariantText:
		return "text"
	case VariantChoice:
		return "choice"
	case VariantChoices:
		return "choices"
	case VariantUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// Answer is a recorded response. The zero value is "unanswered".
// Answers are immutable; build them with the constructors below.
type Answer struct {
	variant Variant
	b       bool
	level   int
	text    string
	choices []string
}

// Bool answers a boolean question.
func Bool(v bool) Answer { return Answer{variant: VariantBool, b: v} }

// Level answers a scale question with a 1-based level.
func Level(l int) Answer { return Answer{variant: VariantLevel, level: l} }

// Text answers a free-text question.
func Text(s string) Answer { return Answer{variant: VariantText, text: s} }

// Choice answers a multiple-choice question with one option label.
func Choice(option string) Answer { return Answer{variant: VariantChoice, text: option} }

// Choices answers a checkbox question. Duplicate labels are dropped,
// first occurrence wins.
func Choices(options ...string) Answer {
	seen := make(map[string]bool, len(options))
	out := make([]string, 0, len(options))
	for _, o := range options {
		if seen[o] {
			continue
		}
		seen[o] = true
		out = append(out, o)
	}
	return Answer{variant: VariantChoices, choices: out}
}

// Unknown is the explicit "respondent has no information" answer.
func Unknown() Answer { return Answer{variant: VariantUnknown} }

// Variant returns the answer's shape.
func (a Answer) Variant() Variant { return a.variant }

// IsSet reports whether an answer has been recorded.
func (a Answer) IsSet() bool { return a.variant != VariantUnset }

// IsUnknown reports whether the answer means "no information": the
// explicit Unknown variant, the choice sentinel picked from an option list,
// or the exact text sentinel typed as free text.
func (a Answer) IsUnknown() bool {
	switch a.variant {
	case VariantUnknown:
		return true
	case VariantChoice:
		return a.text == UnknownChoiceLabel
	case VariantText:
		return a.text == UnknownTextLabel
	}
	return false
}

// BoolValue returns the boolean payload.
func (a Answer) BoolValue() (bool, bool) { return a.b, a.variant == VariantBool }

// LevelValue returns the scale level payload.
func (a Answer) LevelValue() (int, bool) { return a.level, a.variant == VariantLevel }

// TextValue returns the free-text or single-choice payload.
func (a Answer) TextValue() (string, bool) {
	return a.text, a.variant == VariantText || a.variant == VariantChoice
}

// ChoicesValue returns a copy of the checkbox selections.
func (a Answer) ChoicesValue() ([]string, bool) {
	return slices.Clone(a.choices), a.variant == VariantChoices
}

// Equal reports whether two answers carry the same variant and payload.
func (a Answer) Equal(b Answer) bool {
	return a.variant == b.variant && a.b == b.b && a.level == b.level &&
		a.text == b.text && slices.Equal(a.choices, b.choices)
}

// Display renders the answer the way reports show it.
func (a Answer) Display() string {
	if a.IsUnknown() {
		return UnknownTextLabel
	}
	switch a.variant {
	case VariantUnset:
		return "No respondida"
	case VariantBool:
		if a.b {
			return "Sí"
		}
		return "No"
	case VariantLevel:
		return fmt.Sprintf("%d", a.level)
	case VariantText, VariantChoice:
		return a.text
	case VariantChoices:
		if len(a.choices) == 0 {
			return "No seleccionado"
		}
		return strings.Join(a.choices, ", ")
	}
	return ""
}

func (a Answer) String() string {
	return fmt.Sprintf("%s(%s)", a.variant, a.Display())
}
