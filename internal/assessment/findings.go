package assessment

import "slices"

// Priority ranks recommendations and critical points.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Recommendation is an improvement suggested for a module.
type Recommendation struct {
	ID                  string   `json:"id"`
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	Priority            Priority `json:"priority"`
	Module              string   `json:"module"`
	EstimatedEffort     string   `json:"estimatedEffort"`
	BusinessImpact      string   `json:"businessImpact"`
	TechnicalComplexity string   `json:"technicalComplexity"`
	Implementation      []string `json:"implementation"`
}

// CriticalPoint is a risk flagged for a module.
type CriticalPoint struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    Priority `json:"severity"`
	Module      string   `json:"module"`
	Impact      string   `json:"impact"`
	Risk        string   `json:"risk"`
	Mitigation  string   `json:"mitigation"`
}

// WithFindings returns a copy of the aggregate carrying the given
// recommendations and critical points. Scores are unaffected.
func (a *Assessment) WithFindings(recs []Recommendation, points []CriticalPoint) *Assessment {
	next := *a
	next.recommendations = slices.Clone(recs)
	next.criticalPoints = slices.Clone(points)
	return &next
}
