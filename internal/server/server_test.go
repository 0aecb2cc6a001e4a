package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/abhisek/sfassess/internal/assessment"
	"github.com/abhisek/sfassess/internal/catalog"
	"github.com/abhisek/sfassess/internal/report"
	"github.com/abhisek/sfassess/internal/store"
	"github.com/abhisek/sfassess/internal/suggest"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
}

func openRepo(t *testing.T) store.AssessmentRepo {
	t.Helper()
	s, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s.AssessmentRepo()
}

func seed(t *testing.T, repo store.AssessmentRepo) *assessment.Assessment {
	t.Helper()
	a := assessment.StartAt(catalog.Default(), "Acme", "Dana", "seeded", testNow)
	var err error
	a, err = assessment.RecordAnswer(a, "sales-cloud", "sales-functional", "lead-management", assessment.Bool(true))
	require.NoError(t, err)
	a, err = assessment.RecordAnswer(a, "data-volumetry", "current-volume", "user-count", assessment.Unknown())
	require.NoError(t, err)
	data, err := a.MarshalJSON()
	require.NoError(t, err)
	_, err = repo.Save(context.Background(), "currentAssessment", data, a.CatalogVersion())
	require.NoError(t, err)
	return a
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealthz(t *testing.T) {
	w := get(t, New(openRepo(t), Options{}), "/healthz")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"status":"ok"}` {
		t.Errorf("body = %s", got)
	}
}

func TestNoAssessment(t *testing.T) {
	s := New(openRepo(t), Options{})
	for _, path := range []string{"/api/assessment", "/api/report", "/api/report.xlsx", "/api/suggestions?module=a&section=b&question=c"} {
		t.Run(path, func(t *testing.T) {
			w := get(t, s, path)
			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.JSONEq(t, `{"error":"no assessment in progress"}`, w.Body.String())
		})
	}
}

func TestGetAssessment(t *testing.T) {
	repo := openRepo(t)
	a := seed(t, repo)

	w := get(t, New(repo, Options{}), "/api/assessment")
	require.Equal(t, http.StatusOK, w.Code)

	got, err := assessment.Decode(w.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, a.ID(), got.ID())
	assert.Equal(t, a.OverallScore(), got.OverallScore())
}

func TestGetReport(t *testing.T) {
	repo := openRepo(t)
	seed(t, repo)
	s := New(repo, Options{})

	w := get(t, s, "/api/report")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Summary         report.Summary              `json:"summary"`
		Recommendations []assessment.Recommendation `json:"recommendations"`
		Unknowns        []report.QuestionRef        `json:"unknowns"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Acme", body.Summary.ClientName)
	assert.Equal(t, 5.0, body.Summary.TotalScore)
	assert.Equal(t, 1, body.Summary.Unknown)
	assert.NotEmpty(t, body.Recommendations)
	require.Len(t, body.Unknowns, 1)
	assert.Equal(t, "user-count", body.Unknowns[0].QuestionID)

	text := get(t, s, "/api/report?format=text")
	require.Equal(t, http.StatusOK, text.Code)
	assert.Equal(t, "text/plain; charset=utf-8", text.Header().Get("Content-Type"))
	assert.Contains(t, text.Body.String(), "Acme")

	stored, err := repo.Load(context.Background(), "currentAssessment")
	require.NoError(t, err)
	decoded, err := assessment.Decode(stored.Data)
	require.NoError(t, err)
	assert.Empty(t, decoded.Recommendations(), "report requests never write findings back")
}

func TestGetWorkbook(t *testing.T) {
	repo := openRepo(t)
	seed(t, repo)

	w := get(t, New(repo, Options{Now: func() time.Time { return testNow }}), "/api/report.xlsx")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, report.ContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Salesforce_Assessment_Acme_2026-03-14.xlsx"`, w.Header().Get("Content-Disposition"))

	f, err := excelize.OpenReader(w.Body)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), report.SheetMissing)
}

type stubSuggester struct {
	list []string
	err  error
	got  suggest.Context
}

func (s *stubSuggester) Suggest(_ context.Context, c suggest.Context) ([]string, error) {
	s.got = c
	return s.list, s.err
}

func TestGetSuggestions(t *testing.T) {
	repo := openRepo(t)
	seed(t, repo)

	stub := &stubSuggester{list: []string{"Lead scoring", "Web-to-Lead"}}
	s := New(repo, Options{Suggester: stub})

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"missing params", "module=sales-cloud", http.StatusBadRequest},
		{"unknown question", "module=sales-cloud&section=sales-functional&question=nope", http.StatusNotFound},
		{"ok", "module=sales-cloud&section=sales-functional&question=lead-management", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, s, "/api/suggestions?"+tt.query)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}

	w := get(t, s, "/api/suggestions?module=sales-cloud&section=sales-functional&question=lead-management")
	var body struct {
		Question    catalog.Ref `json:"question"`
		Suggestions []string    `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "lead-management", body.Question.QuestionID)
	assert.Equal(t, stub.list, body.Suggestions)
	assert.Equal(t, "Sales Cloud", stub.got.ModuleName)

	stub.err = errors.New("provider down")
	w = get(t, s, "/api/suggestions?module=sales-cloud&section=sales-functional&question=lead-management")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	repo := openRepo(t)
	seed(t, repo)
	s := New(repo, Options{})
	get(t, s, "/api/report.xlsx")

	w := get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `sfassess_exports_total{format="xlsx"} 1`)
	assert.Contains(t, w.Body.String(), `sfassess_http_requests_total{endpoint="/api/report.xlsx",method="GET",status="200"} 1`)
}
