// Package session owns the one in-progress assessment: it starts, answers,
// saves, loads and discards it, and records the activity in logs and
// metrics.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/sfassess/internal/assessment"
	"github.com/abhisek/sfassess/internal/catalog"
	"github.com/abhisek/sfassess/internal/metrics"
	"github.com/abhisek/sfassess/internal/report"
	"github.com/abhisek/sfassess/internal/store"
)

// ErrNoAssessment is returned when an operation needs a current assessment
// and none has been started or loaded.
var ErrNoAssessment = errors.New("no assessment in progress")

// Options configures a Manager. Every field is optional.
type Options struct {
	// SessionKey is the store key of the assessment blob.
	SessionKey string

	// AutoSave persists the aggregate after every accepted answer.
	AutoSave bool

	Log     *zap.Logger
	Metrics *metrics.Metrics

	// Now and NewID replace the clock and id source in tests.
	Now   func() time.Time
	NewID func() string
}

// Manager is not safe for concurrent use; the CLI and the TUI each drive
// one from a single goroutine.
type Manager struct {
	catalog *catalog.Catalog
	repo    store.AssessmentRepo
	key     string
	auto    bool
	log     *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
	newID   func() string

	current *assessment.Assessment
}

func NewManager(c *catalog.Catalog, repo store.AssessmentRepo, opts Options) *Manager {
	m := &Manager{
		catalog: c,
		repo:    repo,
		key:     opts.SessionKey,
		auto:    opts.AutoSave,
		log:     opts.Log,
		metrics: opts.Metrics,
		now:     opts.Now,
		newID:   opts.NewID,
	}
	if m.key == "" {
		m.key = "currentAssessment"
	}
	if m.log == nil {
		m.log = zap.NewNop()
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.newID == nil {
		m.newID = uuid.NewString
	}
	return m
}

func (m *Manager) Catalog() *catalog.Catalog { return m.catalog }

// Start replaces the current assessment with a fresh one for client. The
// new aggregate is not persisted until Save or the first answer with
// AutoSave.
func (m *Manager) Start(clientName, assessor string) *assessment.Assessment {
	a := assessment.StartAt(m.catalog, clientName, assessor, m.newID(), m.now())
	m.current = a
	m.log.Info("assessment started",
		zap.String("id", a.ID()),
		zap.String("client", clientName),
		zap.String("catalog_version", a.CatalogVersion()),
	)
	if m.metrics != nil {
		m.metrics.AssessmentsStarted.Inc()
	}
	m.observe()
	return a
}

// Current returns the in-memory assessment or ErrNoAssessment.
func (m *Manager) Current() (*assessment.Assessment, error) {
	if m.current == nil {
		return nil, ErrNoAssessment
	}
	return m.current, nil
}

// Answer records ans for ref. The updated aggregate becomes current even
// when the follow-up save fails; the save error is returned alongside it.
func (m *Manager) Answer(ctx context.Context, ref catalog.Ref, ans assessment.Answer) (*assessment.Assessment, error) {
	if m.current == nil {
		return nil, ErrNoAssessment
	}
	next, err := assessment.RecordAnswer(m.current, ref.ModuleID, ref.SectionID, ref.QuestionID, ans)
	if err != nil {
		m.rejected(ref, err)
		return nil, err
	}
	m.current = next

	q, _ := next.Question(ref.ModuleID, ref.SectionID, ref.QuestionID)
	m.log.Debug("answer recorded",
		zap.Stringer("question", ref),
		zap.Stringer("answer", ans),
		zap.Float64("score", q.Score()),
		zap.Float64("overall", next.OverallScore()),
	)
	if m.metrics != nil {
		m.metrics.AnswersRecorded.WithLabelValues(string(q.Kind())).Inc()
	}
	m.observe()

	if m.auto {
		if err := m.Save(ctx); err != nil {
			return next, err
		}
	}
	return next, nil
}

// AnswerText parses raw against the question's type before recording it.
func (m *Manager) AnswerText(ctx context.Context, ref catalog.Ref, raw string) (*assessment.Assessment, error) {
	if m.current == nil {
		return nil, ErrNoAssessment
	}
	q, err := m.current.Question(ref.ModuleID, ref.SectionID, ref.QuestionID)
	if err != nil {
		m.rejected(ref, err)
		return nil, err
	}
	ans, err := assessment.ParseAnswer(q.Definition(), raw)
	if err != nil {
		m.rejected(ref, err)
		return nil, err
	}
	return m.Answer(ctx, ref, ans)
}

// GenerateFindings attaches the rule-table findings to the current
// assessment and saves it.
func (m *Manager) GenerateFindings(ctx context.Context) (*assessment.Assessment, error) {
	if m.current == nil {
		return nil, ErrNoAssessment
	}
	m.current = report.Generate(m.current)
	m.log.Info("findings generated",
		zap.Int("recommendations", len(m.current.Recommendations())),
		zap.Int("critical_points", len(m.current.CriticalPoints())),
	)
	return m.current, m.Save(ctx)
}

// Save overwrites the stored blob with the current assessment.
func (m *Manager) Save(ctx context.Context) error {
	if m.current == nil {
		return ErrNoAssessment
	}
	data, err := m.current.MarshalJSON()
	if err != nil {
		m.saved("error")
		return fmt.Errorf("encode assessment: %w", err)
	}
	rev, err := m.repo.Save(ctx, m.key, data, m.current.CatalogVersion())
	if err != nil {
		m.saved("error")
		m.log.Error("failed to save assessment", zap.String("key", m.key), zap.Error(err))
		return fmt.Errorf("save assessment: %w", err)
	}
	m.saved("ok")
	m.log.Debug("assessment saved", zap.String("key", m.key), zap.Int64("revision", rev))
	return nil
}

// Load replaces the current assessment with the stored one. It returns
// ErrNoAssessment when nothing is stored. A blob written against a catalog
// with a different major version still loads, with a warning.
func (m *Manager) Load(ctx context.Context) (*assessment.Assessment, error) {
	saved, err := m.repo.Load(ctx, m.key)
	if err != nil {
		return nil, fmt.Errorf("load assessment: %w", err)
	}
	if saved == nil {
		return nil, ErrNoAssessment
	}
	a, err := assessment.Decode(saved.Data)
	if err != nil {
		return nil, err
	}
	if want := m.catalog.Version; !catalog.Compatible(a.CatalogVersion(), want) {
		m.log.Warn("stored assessment uses an incompatible catalog version",
			zap.String("stored", a.CatalogVersion()),
			zap.String("catalog", want),
		)
	}
	m.current = a
	m.log.Info("assessment loaded",
		zap.String("id", a.ID()),
		zap.Int64("revision", saved.Revision),
		zap.Time("updated_at", saved.UpdatedAt),
	)
	m.observe()
	return a, nil
}

// LoadOrNil is Load without ErrNoAssessment: it returns nil, nil when
// nothing is stored.
func (m *Manager) LoadOrNil(ctx context.Context) (*assessment.Assessment, error) {
	a, err := m.Load(ctx)
	if errors.Is(err, ErrNoAssessment) {
		return nil, nil
	}
	return a, err
}

// Discard deletes the stored blob, then drops the current assessment. When
// the delete fails the current assessment is kept.
func (m *Manager) Discard(ctx context.Context) error {
	if err := m.repo.Delete(ctx, m.key); err != nil {
		return fmt.Errorf("discard assessment: %w", err)
	}
	m.current = nil
	m.observe()
	m.log.Info("assessment discarded", zap.String("key", m.key))
	return nil
}

func (m *Manager) rejected(ref catalog.Ref, err error) {
	reason := "other"
	switch {
	case errors.Is(err, assessment.ErrNotFound):
		reason = "not_found"
	case errors.Is(err, assessment.ErrInvalidAnswerShape):
		reason = "invalid_shape"
	}
	m.log.Warn("answer rejected", zap.Stringer("question", ref), zap.String("reason", reason), zap.Error(err))
	if m.metrics != nil {
		m.metrics.AnswerErrors.WithLabelValues(reason).Inc()
	}
}

func (m *Manager) saved(result string) {
	if m.metrics != nil {
		m.metrics.Saves.WithLabelValues(result).Inc()
	}
}

func (m *Manager) observe() {
	if m.metrics == nil {
		return
	}
	if m.current == nil {
		m.metrics.Progress.Set(0)
		m.metrics.OverallScore.Set(0)
		return
	}
	m.metrics.Progress.Set(m.current.Progress())
	m.metrics.OverallScore.Set(m.current.OverallScore())
}
