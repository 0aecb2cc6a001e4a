package assessment

import (
	"math"
	"testing"

	"github.com/abhisek/sfassess/internal/catalog"
)

var (
	yesNo    = []string{"Sí", "No"}
	users    = []string{"1-10", "11-20", "21-50", "Más de 50"}
	sixTools = []string{"Flows", "Process Builder", "Workflow Rules", "Apex Triggers", "Scheduled Jobs", "Platform Events"}
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestScore(t *testing.T) {
	tests := []struct {
		name    string
		kind    catalog.Kind
		answer  Answer
		max     float64
		options []string
		want    float64
	}{
		{"boolean true", catalog.KindBoolean, Bool(true), 5, yesNo, 5},
		{"boolean false", catalog.KindBoolean, Bool(false), 5, yesNo, 0},
		{"boolean unknown", catalog.KindBoolean, Unknown(), 5, yesNo, 0},
		{"boolean unset", catalog.KindBoolean, Answer{}, 5, yesNo, 0},
		{"boolean low max", catalog.KindBoolean, Bool(true), 3, yesNo, 3},

		{"scale default options", catalog.KindScale, Level(3), 5, nil, 3},
		{"scale four options", catalog.KindScale, Level(2), 8, []string{"a", "b", "c", "d"}, 4},
		{"scale zero", catalog.KindScale, Level(0), 5, nil, 0},
		{"scale negative", catalog.KindScale, Level(-2), 5, nil, 0},
		{"scale above range clamps", catalog.KindScale, Level(9), 5, nil, 5},

		{"choice third of four", catalog.KindMultipleChoice, Choice("21-50"), 5, users, 3.75},
		{"choice first", catalog.KindMultipleChoice, Choice("1-10"), 5, users, 1.25},
		{"choice last", catalog.KindMultipleChoice, Choice("Más de 50"), 5, users, 5},
		{"choice not listed", catalog.KindMultipleChoice, Choice("9000"), 5, users, 0},
		{"choice sentinel", catalog.KindMultipleChoice, Choice(UnknownChoiceLabel), 5, users, 0},
		{"choice unknown", catalog.KindMultipleChoice, Unknown(), 5, users, 0},

		{"checkbox three of six", catalog.KindCheckbox, Choices("Flows", "Process Builder", "Workflow Rules"), 5, sixTools, 2.5},
		{"checkbox all", catalog.KindCheckbox, Choices(sixTools...), 5, sixTools, 5},
		{"checkbox none", catalog.KindCheckbox, Choices(), 5, sixTools, 0},
		{"checkbox duplicates collapse", catalog.KindCheckbox, Choices("Flows", "Flows"), 6, sixTools, 1},
		{"checkbox unknown", catalog.KindCheckbox, Unknown(), 5, sixTools, 0},
		{"checkbox no options", catalog.KindCheckbox, Choices("x", "y"), 5, nil, 5},

		{"text short", catalog.KindText, Text("hola"), 5, nil, 1},
		{"text 25 chars", catalog.KindText, Text("abcdefghijklmnopqrstuvwxy"), 5, nil, 3},
		{"text long clamps", catalog.KindText, Text(string(make([]byte, 200))), 5, nil, 5},
		{"text whitespace", catalog.KindText, Text("   "), 5, nil, 0},
		{"text empty", catalog.KindText, Text(""), 5, nil, 0},
		{"text sentinel", catalog.KindText, Text(UnknownTextLabel), 5, nil, 0},
		{"text matching the choice sentinel", catalog.KindText, Text(UnknownChoiceLabel), 5, nil, 3},
		{"text spelling unknown", catalog.KindAutocomplete, Text("unknown"), 5, nil, 1},
		{"text counts runes", catalog.KindAutocomplete, Text("ñññññññññ"), 5, nil, 1},
		{"autocomplete", catalog.KindAutocomplete, Text("Completamente implementado"), 5, nil, 3},

		{"shape mismatch scores zero", catalog.KindBoolean, Choices("a"), 5, yesNo, 0},
		{"non-positive max", catalog.KindBoolean, Bool(true), 0, yesNo, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.kind, tt.answer, tt.max, tt.options)
			if !approx(got, tt.want) {
				t.Errorf("Score = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScore_WithinBounds(t *testing.T) {
	answers := []Answer{
		{}, Unknown(), Bool(true), Bool(false), Level(-1), Level(0), Level(3), Level(100),
		Text(""), Text("x"), Text(string(make([]byte, 1000))), Choice("1-10"), Choice("nope"),
		Choices(), Choices(sixTools...), Choices("a", "b", "c", "d", "e", "f", "g", "h"),
	}
	for _, kind := range catalog.AllKinds() {
		for _, a := range answers {
			for _, opts := range [][]string{nil, users, sixTools} {
				got := Score(kind, a, 5, opts)
				if got < 0 || got > 5 {
					t.Errorf("Score(%s, %s, 5, %v) = %v, out of [0, 5]", kind, a, opts, got)
				}
			}
		}
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		score, max float64
		want       Status
	}{
		{0, 10, StatusPending},
		{0.5, 10, StatusInProgress},
		{9.999, 10, StatusInProgress},
		{10, 10, StatusCompleted},
		{0.1 + 0.2, 0.3, StatusCompleted},
		{0, 0, StatusPending},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.score, tt.max); got != tt.want {
			t.Errorf("StatusFor(%v, %v) = %q, want %q", tt.score, tt.max, got, tt.want)
		}
	}
}
