package assessment

import (
	"slices"

	"github.com/abhisek/sfassess/internal/catalog"
)

// acceptedVariants lists the answer shapes each kind takes besides Unknown.
var acceptedVariants = map[catalog.Kind]Variant{
	catalog.KindBoolean:        VariantBool,
	catalog.KindScale:          VariantLevel,
	catalog.KindMultipleChoice: VariantChoice,
	catalog.KindCheckbox:       VariantChoices,
	catalog.KindText:           VariantText,
	catalog.KindAutocomplete:   VariantText,
}

// CheckShape returns an *InvalidAnswerError when ans does not fit q.
func CheckShape(q catalog.Question, ans Answer) error {
	if ans.Variant() == VariantUnknown {
		return nil
	}
	if !ans.IsSet() {
		return &InvalidAnswerError{QuestionID: q.ID, Kind: q.Kind, Variant: ans.Variant(), Reason: "answer is empty"}
	}
	want, ok := acceptedVariants[q.Kind]
	if !ok || ans.Variant() != want {
		return &InvalidAnswerError{QuestionID: q.ID, Kind: q.Kind, Variant: ans.Variant()}
	}
	return nil
}

// RecordAnswer returns a new aggregate in which the addressed question
// carries ans and every enclosing score and status is recomputed. The
// input aggregate is left untouched; only the path from the question to
// the root is copied.
//
// Fails with *NotFoundError for an unknown id triple and with
// *InvalidAnswerError when the answer shape does not fit the question's
// kind. On failure nothing changes.
func RecordAnswer(a *Assessment, moduleID, sectionID, questionID string, ans Answer) (*Assessment, error) {
	mi, si, qi, err := a.locate(moduleID, sectionID, questionID)
	if err != nil {
		return nil, err
	}

	old := a.modules[mi].sections[si].questions[qi]
	if err := CheckShape(old.def, ans); err != nil {
		return nil, err
	}

	q := old
	q.answer = ans
	q.score = Score(q.def.Kind, ans, q.def.MaxScore, q.def.Options)

	sec := a.modules[mi].sections[si]
	sec.questions = slices.Clone(sec.questions)
	sec.questions[qi] = q
	sec.recompute()

	mod := a.modules[mi]
	mod.sections = slices.Clone(mod.sections)
	mod.sections[si] = sec
	mod.recompute()

	next := *a
	next.modules = slices.Clone(a.modules)
	next.modules[mi] = mod
	next.recompute()
	return &next, nil
}

func (a *Assessment) locate(moduleID, sectionID, questionID string) (mi, si, qi int, err error) {
	mi = slices.IndexFunc(a.modules, func(m Module) bool { return m.id == moduleID })
	if mi < 0 {
		return 0, 0, 0, &NotFoundError{Level: "module", ModuleID: moduleID, SectionID: sectionID, QuestionID: questionID}
	}
	m := &a.modules[mi]
	si = slices.IndexFunc(m.sections, func(s Section) bool { return s.id == sectionID })
	if si < 0 {
		return 0, 0, 0, &NotFoundError{Level: "section", ModuleID: moduleID, SectionID: sectionID, QuestionID: questionID}
	}
	s := &m.sections[si]
	qi = slices.IndexFunc(s.questions, func(q Question) bool { return q.def.ID == questionID })
	if qi < 0 {
		return 0, 0, 0, &NotFoundError{Level: "question", ModuleID: moduleID, SectionID: sectionID, QuestionID: questionID}
	}
	return mi, si, qi, nil
}
