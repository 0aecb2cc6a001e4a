package assessment

import (
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/sfassess/internal/catalog"
)

const (
	defaultScaleOptions  = 5
	defaultChoiceOptions = 1

	// scoreEpsilon absorbs float drift when comparing sums to max scores.
	scoreEpsilon = 1e-9
)

// Score computes a question's score from its kind, answer, max score and
// option count. It is total: every kind/answer combination yields a value
// in [0, maxScore], and mismatched shapes score zero.
func Score(kind catalog.Kind, a Answer, maxScore float64, options []string) float64 {
	if maxScore <= 0 || !a.IsSet() || a.IsUnknown() {
		return 0
	}
	return clamp(rawScore(kind, a, maxScore, options), maxScore)
}

func rawScore(kind catalog.Kind, a Answer, maxScore float64, options []string) float64 {
	switch kind {
	case catalog.KindBoolean:
		if v, ok := a.BoolValue(); ok && v {
			return maxScore
		}
		return 0

	case catalog.KindScale:
		l, ok := a.LevelValue()
		if !ok || l <= 0 {
			return 0
		}
		n := len(options)
		if n == 0 {
			n = defaultScaleOptions
		}
		return float64(l) * maxScore / float64(n)

	case catalog.KindMultipleChoice:
		if a.Variant() != VariantChoice {
			return 0
		}
		idx := slices.Index(options, a.text)
		if idx < 0 {
			return 0
		}
		n := len(options)
		if n == 0 {
			n = defaultChoiceOptions
		}
		return float64(idx+1) * maxScore / float64(n)

	case catalog.KindCheckbox:
		if a.Variant() != VariantChoices {
			return 0
		}
		n := len(options)
		if n == 0 {
			n = defaultChoiceOptions
		}
		return math.Min(maxScore, float64(len(a.choices))*maxScore/float64(n))

	case catalog.KindText, catalog.KindAutocomplete:
		if a.Variant() != VariantText || strings.TrimSpace(a.text) == "" {
			return 0
		}
		return math.Min(maxScore, float64(utf8.RuneCountInString(a.text)/10+1))
	}
	return 0
}

func clamp(v, maxScore float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return math.Min(v, maxScore)
}

// Status is the derived progress state of a section or module.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// DisplayName returns the report label for a status.
func (s Status) DisplayName() string {
	switch s {
	case StatusPending:
		return "Pendiente"
	case StatusInProgress:
		return "En progreso"
	case StatusCompleted:
		return "Completado"
	default:
		return string(s)
	}
}

// StatusFor derives a status from a score and its fixed maximum. Only a
// score equal to the maximum completes a node; a fully answered node with
// non-maximal answers stays in progress.
func StatusFor(score, maxScore float64) Status {
	switch {
	case score <= 0:
		return StatusPending
	case score >= maxScore-scoreEpsilon:
		return StatusCompleted
	default:
		return StatusInProgress
	}
}
