// Package report derives summaries and findings from an assessment and
// renders them as plain text or an Excel workbook.
package report

import (
	"time"

	"github.com/abhisek/sfassess/internal/assessment"
	"github.com/abhisek/sfassess/internal/catalog"
)

// Summary is the headline view of an assessment.
type Summary struct {
	ClientName     string    `json:"clientName"`
	Assessor       string    `json:"assessor"`
	Date           time.Time `json:"assessmentDate"`
	CatalogVersion string    `json:"catalogVersion,omitempty"`

	TotalScore float64 `json:"totalScore"`
	MaxScore   float64 `json:"maxScore"`
	Percentage float64 `json:"percentage"`

	Questions int     `json:"questions"`
	Answered  int     `json:"answered"`
	Unknown   int     `json:"unknown"`
	Progress  float64 `json:"progress"`

	ModulesCompleted int `json:"modulesCompleted"`
	ModulesTotal     int `json:"modulesTotal"`

	// CriticalGaps lists critical questions that are unanswered or scored
	// zero.
	CriticalGaps []QuestionRef `json:"criticalGaps"`

	// UrgentRecommendations counts high and critical recommendations
	// carried by the aggregate.
	UrgentRecommendations int `json:"urgentRecommendations"`

	Modules []ModuleSummary `json:"modules"`
}

// ModuleSummary is one row of the module table.
type ModuleSummary struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Score      float64           `json:"score"`
	MaxScore   float64           `json:"maxScore"`
	Percentage float64           `json:"percentage"`
	Status     assessment.Status `json:"status"`
	Answered   int               `json:"answered"`
	Questions  int               `json:"questions"`
}

// QuestionRef locates a question together with the names shown to people.
type QuestionRef struct {
	catalog.Ref
	ModuleName  string       `json:"moduleName"`
	SectionName string       `json:"sectionName"`
	Prompt      string       `json:"question"`
	Kind        catalog.Kind `json:"type"`
}

// Summarize computes the Summary of a.
func Summarize(a *assessment.Assessment) Summary {
	counts := a.Counts()
	s := Summary{
		ClientName:       a.ClientName(),
		Assessor:         a.Assessor(),
		Date:             a.CreatedAt(),
		CatalogVersion:   a.CatalogVersion(),
		TotalScore:       a.OverallScore(),
		MaxScore:         a.MaxScore(),
		Percentage:       a.Percentage(),
		Questions:        counts.Questions,
		Answered:         counts.Answered,
		Unknown:          counts.Unknown,
		Progress:         counts.Progress(),
		ModulesCompleted: a.ModulesCompleted(),
		CriticalGaps:     []QuestionRef{},
	}

	for _, m := range a.Modules() {
		mc := m.Counts()
		s.Modules = append(s.Modules, ModuleSummary{
			ID:         m.ID(),
			Name:       m.Name(),
			Score:      m.Score(),
			MaxScore:   m.MaxScore(),
			Percentage: m.Percentage(),
			Status:     m.Status(),
			Answered:   mc.Answered,
			Questions:  mc.Questions,
		})
	}
	s.ModulesTotal = len(s.Modules)

	a.Visit(func(m *assessment.Module, sec *assessment.Section, q *assessment.Question) {
		if q.Critical() && (!q.Answered() || q.Score() <= 0) {
			s.CriticalGaps = append(s.CriticalGaps, refOf(m, sec, q))
		}
	})

	for _, r := range a.Recommendations() {
		if r.Priority == assessment.PriorityHigh || r.Priority == assessment.PriorityCritical {
			s.UrgentRecommendations++
		}
	}
	return s
}

// Generate returns a copy of a carrying the recommendations and critical
// points the rule tables produce for its current scores.
func Generate(a *assessment.Assessment) *assessment.Assessment {
	return a.WithFindings(Recommendations(a), CriticalPoints(a))
}

// Unknowns lists the questions answered with "no information", in catalog
// order.
func Unknowns(a *assessment.Assessment) []QuestionRef {
	out := []QuestionRef{}
	a.Visit(func(m *assessment.Module, s *assessment.Section, q *assessment.Question) {
		if q.Answer().IsUnknown() {
			out = append(out, refOf(m, s, q))
		}
	})
	return out
}

func refOf(m *assessment.Module, s *assessment.Section, q *assessment.Question) QuestionRef {
	return QuestionRef{
		Ref:         catalog.Ref{ModuleID: m.ID(), SectionID: s.ID(), QuestionID: q.ID()},
		ModuleName:  m.Name(),
		SectionName: s.Name(),
		Prompt:      q.Prompt(),
		Kind:        q.Kind(),
	}
}
