package session

import (
	"github.com/abhisek/sfassess/internal/assessment"
	"github.com/abhisek/sfassess/internal/catalog"
)

// Cursor walks the questions of an assessment in catalog order. The TUI
// questionnaire keeps one per screen.
type Cursor struct {
	refs []catalog.Ref
	pos  int
}

func NewCursor(a *assessment.Assessment) *Cursor {
	c := &Cursor{}
	a.Visit(func(m *assessment.Module, s *assessment.Section, q *assessment.Question) {
		c.refs = append(c.refs, catalog.Ref{ModuleID: m.ID(), SectionID: s.ID(), QuestionID: q.ID()})
	})
	return c
}

// Current returns the question under the cursor. It is the zero Ref when
// the assessment has no questions.
func (c *Cursor) Current() catalog.Ref {
	if len(c.refs) == 0 {
		return catalog.Ref{}
	}
	return c.refs[c.pos]
}

// Position returns the 0-based index of the current question and the
// question count.
func (c *Cursor) Position() (int, int) { return c.pos, len(c.refs) }

// Next moves one question forward. It returns false at the last question.
func (c *Cursor) Next() bool {
	if c.pos+1 >= len(c.refs) {
		return false
	}
	c.pos++
	return true
}

// Prev moves one question back. It returns false at the first question.
func (c *Cursor) Prev() bool {
	if c.pos == 0 {
		return false
	}
	c.pos--
	return true
}

// NextSection moves to the first question of the following section, which
// may belong to the next module.
func (c *Cursor) NextSection() bool {
	cur := c.Current()
	for i := c.pos + 1; i < len(c.refs); i++ {
		if !sameSection(c.refs[i], cur) {
			c.pos = i
			return true
		}
	}
	return false
}

// PrevSection moves to the first question of the preceding section.
func (c *Cursor) PrevSection() bool {
	start := c.sectionStart(c.pos)
	if start == 0 {
		return false
	}
	c.pos = c.sectionStart(start - 1)
	return true
}

// Seek moves to ref and reports whether it exists.
func (c *Cursor) Seek(ref catalog.Ref) bool {
	for i, r := range c.refs {
		if r == ref {
			c.pos = i
			return true
		}
	}
	return false
}

// SkipToUnanswered moves to the next unanswered question of a after the
// current one, wrapping around. It returns false when everything is
// answered.
func (c *Cursor) SkipToUnanswered(a *assessment.Assessment) bool {
	cur := c.Current()
	ref, ok := a.NextUnanswered(cur.ModuleID, cur.SectionID, cur.QuestionID)
	if !ok {
		return false
	}
	return c.Seek(ref)
}

func (c *Cursor) sectionStart(i int) int {
	for i > 0 && sameSection(c.refs[i-1], c.refs[i]) {
		i--
	}
	return i
}

func sameSection(a, b catalog.Ref) bool {
	return a.ModuleID == b.ModuleID && a.SectionID == b.SectionID
}
