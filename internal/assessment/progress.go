package assessment

import "github.com/abhisek/sfassess/internal/catalog"

// Counts tallies question states under a node.
type Counts struct {
	Questions int
	Answered  int
	Unknown   int
}

// Progress is the answered fraction in [0, 1].
func (c Counts) Progress() float64 {
	if c.Questions == 0 {
		return 0
	}
	return float64(c.Answered) / float64(c.Questions)
}

func (c *Counts) add(o Counts) {
	c.Questions += o.Questions
	c.Answered += o.Answered
	c.Unknown += o.Unknown
}

// Counts tallies the section's questions.
func (s *Section) Counts() Counts {
	var c Counts
	for i := range s.questions {
		c.Questions++
		ans := s.questions[i].answer
		if ans.IsSet() {
			c.Answered++
		}
		if ans.IsUnknown() {
			c.Unknown++
		}
	}
	return c
}

// Counts tallies the module's questions.
func (m *Module) Counts() Counts {
	var c Counts
	for i := range m.sections {
		c.add(m.sections[i].Counts())
	}
	return c
}

// Counts tallies every question in the aggregate.
func (a *Assessment) Counts() Counts {
	var c Counts
	for i := range a.modules {
		c.add(a.modules[i].Counts())
	}
	return c
}

// Progress is the overall answered fraction in [0, 1].
func (a *Assessment) Progress() float64 { return a.Counts().Progress() }

// ModulesCompleted counts modules whose status is completed.
func (a *Assessment) ModulesCompleted() int {
	n := 0
	for i := range a.modules {
		if a.modules[i].status == StatusCompleted {
			n++
		}
	}
	return n
}

// Visit calls fn for every question in catalog order.
func (a *Assessment) Visit(fn func(m *Module, s *Section, q *Question)) {
	for mi := range a.modules {
		m := a.modules[mi]
		for si := range m.sections {
			s := m.sections[si]
			for qi := range s.questions {
				q := s.questions[qi]
				fn(&m, &s, &q)
			}
		}
	}
}

// NextUnanswered returns the first unanswered question after the given
// position, wrapping around. Passing empty ids starts from the beginning.
func (a *Assessment) NextUnanswered(moduleID, sectionID, questionID string) (catalog.Ref, bool) {
	var (
		refs     []catalog.Ref
		answered []bool
	)
	start := -1
	a.Visit(func(m *Module, s *Section, q *Question) {
		if m.id == moduleID && s.id == sectionID && q.def.ID == questionID {
			start = len(refs)
		}
		refs = append(refs, catalog.Ref{ModuleID: m.id, SectionID: s.id, QuestionID: q.def.ID})
		answered = append(answered, q.Answered())
	})
	n := len(refs)
	for i := 1; i <= n; i++ {
		j := (start + i + n) % n
		if !answered[j] {
			return refs[j], true
		}
	}
	return catalog.Ref{}, false
}
