package assessment

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/sfassess/internal/catalog"
)

// Question is a question instance: the static definition plus the
// recorded answer and its derived score.
type Question struct {
	def    catalog.Question
	answer Answer
	score  float64
}

func (q *Question) ID() string          { return q.def.ID }
func (q *Question) Prompt() string      { return q.def.Prompt }
func (q *Question) Description() string { return q.def.Description }
func (q *Question) Kind() catalog.Kind  { return q.def.Kind }
func (q *Question) Options() []string   { return slices.Clone(q.def.Options) }
func (q *Question) MaxScore() float64   { return q.def.MaxScore }
func (q *Question) Weight() float64     { return q.def.Weight }
func (q *Question) Category() string    { return q.def.Category }
func (q *Question) Critical() bool      { return q.def.Critical }
func (q *Question) Answer() Answer      { return q.answer }
func (q *Question) Score() float64      { return q.score }

// Answered reports whether any answer, including Unknown, was recorded.
func (q *Question) Answered() bool { return q.answer.IsSet() }

// Definition returns a copy of the static question definition.
func (q *Question) Definition() catalog.Question {
	d := q.def
	d.Options = slices.Clone(d.Options)
	return d
}

// Section is a section instance.
type Section struct {
	id        string
	name      string
	questions []Question
	score     float64
	maxScore  float64
	status    Status
}

func (s *Section) ID() string        { return s.id }
func (s *Section) Name() string      { return s.name }
func (s *Section) Score() float64    { return s.score }
func (s *Section) MaxScore() float64 { return s.maxScore }
func (s *Section) Status() Status    { return s.status }

// Questions returns the section's question instances in catalog order.
func (s *Section) Questions() []Question { return slices.Clone(s.questions) }

// Question returns the question instance with the given ID.
func (s *Section) Question(id string) (*Question, bool) {
	i := slices.IndexFunc(s.questions, func(q Question) bool { return q.def.ID == id })
	if i < 0 {
		return nil, false
	}
	q := s.questions[i]
	return &q, true
}

func (s *Section) recompute() {
	var total float64
	for i := range s.questions {
		total += s.questions[i].score
	}
	s.score = total
	s.status = StatusFor(s.score, s.maxScore)
}

// Module is a module instance.
type Module struct {
	id       string
	name     string
	icon     string
	color    string
	sections []Section
	score    float64
	maxScore float64
	status   Status
}

func (m *Module) ID() string        { return m.id }
func (m *Module) Name() string      { return m.name }
func (m *Module) Icon() string      { return m.icon }
func (m *Module) Color() string     { return m.color }
func (m *Module) Score() float64    { return m.score }
func (m *Module) MaxScore() float64 { return m.maxScore }
func (m *Module) Status() Status    { return m.status }

// Sections returns the module's section instances in catalog order.
func (m *Module) Sections() []Section { return slices.Clone(m.sections) }

// Section returns the section instance with the given ID.
func (m *Module) Section(id string) (*Section, bool) {
	i := slices.IndexFunc(m.sections, func(s Section) bool { return s.id == id })
	if i < 0 {
		return nil, false
	}
	s := m.sections[i]
	return &s, true
}

// Percentage is score over max score in [0, 100]; zero when the module
// has no scorable questions.
func (m *Module) Percentage() float64 {
	return percentage(m.score, m.maxScore)
}

func (m *Module) recompute() {
	var total float64
	for i := range m.sections {
		total += m.sections[i].score
	}
	m.score = total
	m.status = StatusFor(m.score, m.maxScore)
}

// Assessment is the aggregate for one assessment session. Values are
// never modified in place: RecordAnswer and WithFindings return new
// aggregates that share untouched branches with the original.
type Assessment struct {
	id             string
	clientName     string
	assessor       string
	createdAt      time.Time
	catalogVersion string
	modules        []Module
	overall        float64
	maxScore       float64

	recommendations []Recommendation
	criticalPoints  []CriticalPoint
}

func (a *Assessment) ID() string             { return a.id }
func (a *Assessment) ClientName() string     { return a.clientName }
func (a *Assessment) Assessor() string       { return a.assessor }
func (a *Assessment) CreatedAt() time.Time   { return a.createdAt }
func (a *Assessment) CatalogVersion() string { return a.catalogVersion }
func (a *Assessment) OverallScore() float64  { return a.overall }
func (a *Assessment) MaxScore() float64      { return a.maxScore }

// Percentage is the overall score over the overall max score, in [0, 100].
func (a *Assessment) Percentage() float64 {
	return percentage(a.overall, a.maxScore)
}

// Modules returns the module instances in catalog order.
func (a *Assessment) Modules() []Module { return slices.Clone(a.modules) }

// Module returns the module instance with the given ID.
func (a *Assessment) Module(id string) (*Module, bool) {
	i := slices.IndexFunc(a.modules, func(m Module) bool { return m.id == id })
	if i < 0 {
		return nil, false
	}
	m := a.modules[i]
	return &m, true
}

// Question resolves an id triple to a question instance.
func (a *Assessment) Question(moduleID, sectionID, questionID string) (*Question, error) {
	mi, si, qi, err := a.locate(moduleID, sectionID, questionID)
	if err != nil {
		return nil, err
	}
	q := a.modules[mi].sections[si].questions[qi]
	return &q, nil
}

// Recommendations returns the findings attached by the report generator.
func (a *Assessment) Recommendations() []Recommendation { return slices.Clone(a.recommendations) }

// CriticalPoints returns the findings attached by the report generator.
func (a *Assessment) CriticalPoints() []CriticalPoint { return slices.Clone(a.criticalPoints) }

// Start builds a fresh aggregate from the catalog with a new identity
// and the current time.
func Start(c *catalog.Catalog, clientName, assessor string) *Assessment {
	return StartAt(c, clientName, assessor, uuid.NewString(), time.Now())
}

// StartAt builds a fresh aggregate with an explicit identity and
// creation time. Every question is unanswered and every score is zero.
func StartAt(c *catalog.Catalog, clientName, assessor, id string, now time.Time) *Assessment {
	a := &Assessment{
		id:             id,
		clientName:     clientName,
		assessor:       assessor,
		createdAt:      now.UTC(),
		catalogVersion: c.Version,
		modules:        make([]Module, 0, len(c.Modules)),
	}
	for _, md := range c.Modules {
		m := Module{
			id:       md.ID,
			name:     md.Name,
			icon:     md.Icon,
			color:    md.Color,
			sections: make([]Section, 0, len(md.Sections)),
			status:   StatusPending,
		}
		for _, sd := range md.Sections {
			s := Section{
				id:        sd.ID,
				name:      sd.Name,
				questions: make([]Question, 0, len(sd.Questions)),
				status:    StatusPending,
			}
			for _, qd := range sd.Questions {
				def := qd
				def.Options = slices.Clone(qd.Options)
				s.questions = append(s.questions, Question{def: def})
				s.maxScore += qd.MaxScore
			}
			m.sections = append(m.sections, s)
			m.maxScore += s.maxScore
		}
		a.modules = append(a.modules, m)
		a.maxScore += m.maxScore
	}
	return a
}

func (a *Assessment) recompute() {
	var total float64
	for i := range a.modules {
		total += a.modules[i].score
	}
	a.overall = total
}

func percentage(score, maxScore float64) float64 {
	if maxScore <= 0 {
		return 0
	}
	return score / maxScore * 100
}
