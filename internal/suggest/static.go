package suggest

import (
	"cmp"
	"context"
	"slices"
	"strings"
)

// Static suggests answers from the built-in knowledge base. It never fails.
type Static struct{}

// Suggest returns the combined list followed by contextual hints, deduped
// and capped at CombinedLimit.
func (Static) Suggest(_ context.Context, c Context) ([]string, error) {
	out := Combined(c)
	for _, s := range Contextual(c) {
		out = append(out, s.Text)
	}
	return dedupe(out, CombinedLimit), nil
}

// Ranked returns knowledge-base suggestions for c, best first, at most
// RankedLimit of them.
//
// The product is looked up by module name or id and the area by section
// name, section id or question id. Topics whose keyword appears in the
// question text win; with no topic match every topic of the area is used.
// Generic keyword groups are appended on top.
func Ranked(c Context) []Suggestion {
	question := fold(c.QuestionText)
	var found []entry

	if a := findArea(c); a != nil {
		for _, t := range a.topics {
			if strings.Contains(question, strings.ReplaceAll(t.key, "-", " ")) {
				found = append(found, t.entries...)
			}
		}
		if len(found) == 0 {
			for _, t := range a.topics {
				found = append(found, t.entries...)
			}
		}
	}

	for _, g := range generic {
		if containsAny(question, g.words) {
			found = append(found, g.entries...)
		}
	}

	out := make([]Suggestion, 0, len(found))
	seen := make(map[string]bool, len(found))
	for _, e := range found {
		if seen[e.text] {
			continue
		}
		seen[e.text] = true
		out = append(out, e.suggestion())
	}
	slices.SortStableFunc(out, func(a, b Suggestion) int {
		return cmp.Compare(b.Confidence, a.Confidence)
	})
	if len(out) > RankedLimit {
		out = out[:RankedLimit]
	}
	return out
}

// Quick returns one-line answers for status, complexity and priority
// questions. Only the first keyword of each group triggers it.
func Quick(c Context) []string {
	question := fold(c.QuestionText)
	for _, g := range generic {
		if strings.Contains(question, g.words[0]) {
			return slices.Clone(g.quick)
		}
	}
	return nil
}

// Contextual derives follow-up hints from earlier answers: an implemented
// feature suggests further optimization and an integrated system suggests
// security work.
func Contextual(c Context) []Suggestion {
	var implemented, integrated bool
	for _, ans := range c.PreviousAnswers {
		folded := fold(ans)
		implemented = implemented || strings.Contains(folded, "implementado")
		integrated = integrated || strings.Contains(folded, "integrado")
	}

	var out []Suggestion
	if implemented {
		out = append(out, advancedConfig.suggestion())
	}
	if integrated {
		out = append(out, securityConfig.suggestion())
	}
	return out
}

// Combined merges the ranked texts with the quick answers, deduped and
// capped at CombinedLimit.
func Combined(c Context) []string {
	ranked := Ranked(c)
	texts := make([]string, 0, len(ranked)+4)
	for _, s := range ranked {
		texts = append(texts, s.Text)
	}
	return dedupe(append(texts, Quick(c)...), CombinedLimit)
}

func findArea(c Context) *area {
	var p *product
	for _, key := range []string{normalizeKey(c.ModuleName), c.ModuleID} {
		if i := slices.IndexFunc(knowledge, func(p product) bool { return p.key == key }); i >= 0 {
			p = &knowledge[i]
			break
		}
	}
	if p == nil {
		return nil
	}
	for _, key := range []string{normalizeKey(c.SectionName), c.SectionID, c.QuestionID} {
		if i := slices.IndexFunc(p.areas, func(a area) bool { return a.key == key }); i >= 0 {
			return &p.areas[i]
		}
	}
	return nil
}

func containsAny(s string, words []string) bool {
	return slices.ContainsFunc(words, func(w string) bool { return strings.Contains(s, w) })
}

func (e entry) suggestion() Suggestion {
	return Suggestion{
		Text:       e.text,
		Category:   e.category,
		Confidence: e.confidence,
		Tags:       slices.Clone(e.tags),
	}
}
