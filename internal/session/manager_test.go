package session

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/sfassess/internal/assessment"
	"github.com/abhisek/sfassess/internal/catalog"
	"github.com/abhisek/sfassess/internal/metrics"
	"github.com/abhisek/sfassess/internal/store"
)

var (
	leadRef  = catalog.Ref{ModuleID: "sales-cloud", SectionID: "sales-functional", QuestionID: "lead-management"}
	usersRef = catalog.Ref{ModuleID: "data-volumetry", SectionID: "current-volume", QuestionID: "user-count"}
)

func openRepo(t *testing.T) store.AssessmentRepo {
	t.Helper()
	s, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s.AssessmentRepo()
}

func newTestManager(t *testing.T, repo store.AssessmentRepo, opts Options) *Manager {
	t.Helper()
	ids := 0
	opts.Now = func() time.Time { return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC) }
	opts.NewID = func() string { ids++; return fmt.Sprintf("id-%d", ids) }
	return NewManager(catalog.Default(), repo, opts)
}

// failingRepo rejects every write.
type failingRepo struct{ err error }

func (r failingRepo) Save(context.Context, string, []byte, string) (int64, error) { return 0, r.err }
func (r failingRepo) Load(context.Context, string) (*store.SavedAssessment, error) { return nil, r.err }
func (r failingRepo) Delete(context.Context, string) error                        { return r.err }

func TestManager_NoAssessment(t *testing.T) {
	m := newTestManager(t, openRepo(t), Options{})
	ctx := context.Background()

	if _, err := m.Current(); !errors.Is(err, ErrNoAssessment) {
		t.Errorf("Current() error = %v, want %v", err, ErrNoAssessment)
	}
	if _, err := m.Answer(ctx, leadRef, assessment.Bool(true)); !errors.Is(err, ErrNoAssessment) {
		t.Errorf("Answer() error = %v, want %v", err, ErrNoAssessment)
	}
	if err := m.Save(ctx); !errors.Is(err, ErrNoAssessment) {
		t.Errorf("Save() error = %v, want %v", err, ErrNoAssessment)
	}
	if _, err := m.Load(ctx); !errors.Is(err, ErrNoAssessment) {
		t.Errorf("Load() error = %v, want %v", err, ErrNoAssessment)
	}
	if _, err := m.GenerateFindings(ctx); !errors.Is(err, ErrNoAssessment) {
		t.Errorf("GenerateFindings() error = %v, want %v", err, ErrNoAssessment)
	}
	a, err := m.LoadOrNil(ctx)
	if err != nil || a != nil {
		t.Errorf("LoadOrNil() = %v, %v, want nil, nil", a, err)
	}
}

func TestManager_StartAnswerSaveLoad(t *testing.T) {
	repo := openRepo(t)
	met := metrics.New()
	m := newTestManager(t, repo, Options{AutoSave: true, Metrics: met})
	ctx := context.Background()

	a := m.Start("Acme", "Dana")
	assert.Equal(t, "id-1", a.ID())
	assert.Zero(t, a.OverallScore())

	_, err := m.Answer(ctx, leadRef, assessment.Bool(true))
	require.NoError(t, err)
	a, err = m.AnswerText(ctx, usersRef, "21-50")
	require.NoError(t, err)
	assert.InDelta(t, 5+3.75, a.OverallScore(), 1e-9)

	// A second manager over the same store sees the autosaved state.
	other := newTestManager(t, repo, Options{})
	loaded, err := other.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "id-1", loaded.ID())
	assert.InDelta(t, a.OverallScore(), loaded.OverallScore(), 1e-9)
	cur, err := other.Current()
	require.NoError(t, err)
	assert.Same(t, loaded, cur)

	assert.Equal(t, 1.0, testutil.ToFloat64(met.AssessmentsStarted))
	assert.Equal(t, 1.0, testutil.ToFloat64(met.AnswersRecorded.WithLabelValues("boolean")))
	assert.Equal(t, 1.0, testutil.ToFloat64(met.AnswersRecorded.WithLabelValues("multiple-choice")))
	assert.Equal(t, 2.0, testutil.ToFloat64(met.Saves.WithLabelValues("ok")))
	assert.InDelta(t, a.OverallScore(), testutil.ToFloat64(met.OverallScore), 1e-9)
}

func TestManager_StartReplacesWithoutSaving(t *testing.T) {
	repo := openRepo(t)
	m := newTestManager(t, repo, Options{})
	ctx := context.Background()

	m.Start("Acme", "Dana")
	require.NoError(t, m.Save(ctx))
	b := m.Start("Beta", "Dana")
	assert.Equal(t, "id-2", b.ID())

	stored, err := newTestManager(t, repo, Options{}).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Acme", stored.ClientName())
}

func TestManager_RejectedAnswers(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	met := metrics.New()
	m := newTestManager(t, openRepo(t), Options{Log: zap.New(core), Metrics: met})
	ctx := context.Background()
	before := m.Start("Acme", "Dana")

	_, err := m.Answer(ctx, catalog.Ref{ModuleID: "sales-cloud", SectionID: "nope", QuestionID: "x"}, assessment.Bool(true))
	assert.ErrorIs(t, err, assessment.ErrNotFound)

	_, err = m.Answer(ctx, leadRef, assessment.Level(3))
	assert.ErrorIs(t, err, assessment.ErrInvalidAnswerShape)

	_, err = m.AnswerText(ctx, usersRef, "9")
	assert.ErrorIs(t, err, assessment.ErrInvalidAnswerShape)

	cur, _ := m.Current()
	assert.Same(t, before, cur, "rejected answers leave the aggregate untouched")

	assert.Equal(t, 3, logs.FilterMessage("answer rejected").Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(met.AnswerErrors.WithLabelValues("not_found")))
	assert.Equal(t, 2.0, testutil.ToFloat64(met.AnswerErrors.WithLabelValues("invalid_shape")))
}

func TestManager_SaveFailureKeepsAnswer(t *testing.T) {
	boom := errors.New("disk full")
	m := newTestManager(t, failingRepo{err: boom}, Options{AutoSave: true})
	ctx := context.Background()
	m.Start("Acme", "Dana")

	a, err := m.Answer(ctx, leadRef, assessment.Bool(true))
	if !errors.Is(err, boom) {
		t.Fatalf("Answer() error = %v, want %v", err, boom)
	}
	if a == nil || a.OverallScore() != 5 {
		t.Fatalf("Answer() aggregate = %v, want score 5", a)
	}
	cur, _ := m.Current()
	if cur.OverallScore() != 5 {
		t.Errorf("current score = %v, want %v", cur.OverallScore(), 5)
	}
}

func TestManager_LoadIncompatibleCatalogWarns(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	old := catalog.Default()
	legacy := *old
	legacy.Version = "v0.9.0"
	a := assessment.StartAt(&legacy, "Acme", "Dana", "old", time.Now())
	data, err := a.MarshalJSON()
	require.NoError(t, err)
	_, err = repo.Save(ctx, "currentAssessment", data, legacy.Version)
	require.NoError(t, err)

	core, logs := observer.New(zapcore.WarnLevel)
	m := newTestManager(t, repo, Options{Log: zap.New(core)})
	got, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "old", got.ID())

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "v0.9.0", fields["stored"])
	assert.Equal(t, "v1.0.0", fields["catalog"])
}

func TestManager_GenerateFindings(t *testing.T) {
	m := newTestManager(t, openRepo(t), Options{})
	ctx := context.Background()
	m.Start("Acme", "Dana")

	a, err := m.GenerateFindings(ctx)
	require.NoError(t, err)
	// The built-in catalog has no module the rule tables name, so only the
	// generic low-score rules fire, once per module.
	assert.Len(t, a.Recommendations(), len(a.Modules()))
	assert.Len(t, a.CriticalPoints(), len(a.Modules()))

	loaded, err := newTestManager(t, m.repo, Options{}).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, a.Recommendations(), loaded.Recommendations())
}

func TestManager_Discard(t *testing.T) {
	repo := openRepo(t)
	m := newTestManager(t, repo, Options{SessionKey: "custom"})
	ctx := context.Background()
	m.Start("Acme", "Dana")
	require.NoError(t, m.Save(ctx))

	saved, err := repo.Load(ctx, "custom")
	require.NoError(t, err)
	require.NotNil(t, saved)

	require.NoError(t, m.Discard(ctx))
	_, err = m.Current()
	assert.ErrorIs(t, err, ErrNoAssessment)
	saved, err = repo.Load(ctx, "custom")
	require.NoError(t, err)
	assert.Nil(t, saved)

	locked := errors.New("locked")
	failing := newTestManager(t, failingRepo{err: locked}, Options{})
	started := failing.Start("Acme", "Dana")
	assert.ErrorIs(t, failing.Discard(ctx), locked)
	kept, err := failing.Current()
	require.NoError(t, err, "a failed delete keeps the assessment")
	assert.Equal(t, started.ID(), kept.ID())
}
