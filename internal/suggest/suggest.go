// Package suggest proposes answers for free-text questions, from a static
// knowledge base or from an LLM.
package suggest

import (
	"context"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/abhisek/sfassess/internal/assessment"
	"github.com/abhisek/sfassess/internal/catalog"
)

// Limits on how many suggestions are returned.
const (
	RankedLimit   = 8
	CombinedLimit = 10
)

// Suggestion is a ranked candidate answer.
type Suggestion struct {
	Text       string   `json:"text"`
	Category   string   `json:"category"`
	Confidence float64  `json:"confidence"`
	Tags       []string `json:"tags,omitempty"`
}

// Context describes the question being answered.
type Context struct {
	ModuleID     string
	ModuleName   string
	SectionID    string
	SectionName  string
	QuestionID   string
	QuestionText string
	Kind         catalog.Kind
	Options      []string

	// PreviousAnswers maps question id to the display text of every other
	// answered text or choice question.
	PreviousAnswers map[string]string
}

// Suggester returns candidate answers for a question, best first.
type Suggester interface {
	Suggest(ctx context.Context, c Context) ([]string, error)
}

// ContextFor builds the suggestion context for the question at ref.
func ContextFor(a *assessment.Assessment, ref catalog.Ref) (Context, error) {
	q, err := a.Question(ref.ModuleID, ref.SectionID, ref.QuestionID)
	if err != nil {
		return Context{}, err
	}
	m, _ := a.Module(ref.ModuleID)
	s, _ := m.Section(ref.SectionID)

	c := Context{
		ModuleID:        m.ID(),
		ModuleName:      m.Name(),
		SectionID:       s.ID(),
		SectionName:     s.Name(),
		QuestionID:      q.ID(),
		QuestionText:    q.Prompt(),
		Kind:            q.Kind(),
		Options:         q.Options(),
		PreviousAnswers: map[string]string{},
	}
	a.Visit(func(_ *assessment.Module, _ *assessment.Section, other *assessment.Question) {
		if other.ID() == q.ID() {
			return
		}
		ans := other.Answer()
		if ans.IsUnknown() {
			return
		}
		if text, ok := ans.TextValue(); ok {
			c.PreviousAnswers[other.ID()] = text
		}
	})
	return c, nil
}

// normalizeKey lower-cases s, strips diacritics and joins words with '-'.
func normalizeKey(s string) string {
	return strings.Join(strings.Fields(fold(s)), "-")
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// fold lower-cases s and strips diacritics so "Implementación" matches
// "implementacion".
func fold(s string) string {
	out, _, err := transform.String(foldTransformer, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// dedupe drops empty and repeated strings, keeping first occurrences, and
// truncates to limit.
func dedupe(in []string, limit int) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, min(len(in), limit))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
		if len(out) == limit {
			break
		}
	}
	return out
}
