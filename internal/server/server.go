// Package server exposes the persisted assessment over a read-only HTTP
// API. Every request reloads the stored blob; nothing here writes it.
package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhisek/sfassess/internal/assessment"
	"github.com/abhisek/sfassess/internal/catalog"
	"github.com/abhisek/sfassess/internal/metrics"
	"github.com/abhisek/sfassess/internal/report"
	"github.com/abhisek/sfassess/internal/store"
	"github.com/abhisek/sfassess/internal/suggest"
)

const shutdownTimeout = 5 * time.Second

type Options struct {
	SessionKey string
	// Mode is the gin mode; empty keeps gin's current mode.
	Mode      string
	Suggester suggest.Suggester
	Metrics   *metrics.Metrics
	Log       *zap.Logger
	Now       func() time.Time
}

type Server struct {
	repo      store.AssessmentRepo
	key       string
	suggester suggest.Suggester
	metrics   *metrics.Metrics
	log       *zap.Logger
	now       func() time.Time
	engine    *gin.Engine
}

func New(repo store.AssessmentRepo, opts Options) *Server {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}
	s := &Server{
		repo:      repo,
		key:       opts.SessionKey,
		suggester: opts.Suggester,
		metrics:   opts.Metrics,
		log:       opts.Log,
		now:       opts.Now,
	}
	if s.key == "" {
		s.key = "currentAssessment"
	}
	if s.suggester == nil {
		s.suggester = suggest.Static{}
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger(), s.metrics.Middleware())

	r.GET("/healthz", s.health)
	r.GET("/metrics", s.metrics.GinHandler())

	api := r.Group("/api")
	api.GET("/assessment", s.getAssessment)
	api.GET("/report", s.getReport)
	api.GET("/report.xlsx", s.getWorkbook)
	api.GET("/suggestions", s.getSuggestions)
	return r
}

// Handler returns the router for use with httptest or a custom server.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// load decodes the stored assessment or writes the error response and
// returns nil.
func (s *Server) load(c *gin.Context) *assessment.Assessment {
	saved, err := s.repo.Load(c.Request.Context(), s.key)
	if err != nil {
		s.log.Error("failed to load assessment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorBody{Error: "failed to load assessment"})
		return nil
	}
	if saved == nil {
		c.JSON(http.StatusNotFound, errorBody{Error: "no assessment in progress"})
		return nil
	}
	a, err := assessment.Decode(saved.Data)
	if err != nil {
		s.log.Error("stored assessment is unreadable", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorBody{Error: "stored assessment is unreadable"})
		return nil
	}
	return a
}

func (s *Server) getAssessment(c *gin.Context) {
	a := s.load(c)
	if a == nil {
		return
	}
	c.JSON(http.StatusOK, a)
}

type reportBody struct {
	Summary         report.Summary             `json:"summary"`
	Recommendations []assessment.Recommendation `json:"recommendations"`
	CriticalPoints  []assessment.CriticalPoint  `json:"criticalPoints"`
	Unknowns        []report.QuestionRef        `json:"unknowns"`
}

// getReport renders JSON by default and the plain-text report for
// ?format=text.
func (s *Server) getReport(c *gin.Context) {
	a := s.load(c)
	if a == nil {
		return
	}
	a = report.Generate(a)

	if c.Query("format") == "text" {
		var buf bytes.Buffer
		if err := report.WriteText(&buf, a); err != nil {
			s.log.Error("failed to render report", zap.Error(err))
			c.JSON(http.StatusInternalServerError, errorBody{Error: "failed to render report"})
			return
		}
		s.metrics.Exports.WithLabelValues("text").Inc()
		c.Data(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
		return
	}

	s.metrics.Exports.WithLabelValues("json").Inc()
	c.JSON(http.StatusOK, reportBody{
		Summary:         report.Summarize(a),
		Recommendations: nonNil(a.Recommendations()),
		CriticalPoints:  nonNil(a.CriticalPoints()),
		Unknowns:        report.Unknowns(a),
	})
}

func (s *Server) getWorkbook(c *gin.Context) {
	a := s.load(c)
	if a == nil {
		return
	}
	var buf bytes.Buffer
	if err := report.WriteXLSX(&buf, a); err != nil {
		s.log.Error("failed to export workbook", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorBody{Error: "failed to export workbook"})
		return
	}
	s.metrics.Exports.WithLabelValues("xlsx").Inc()
	c.Header("Content-Disposition", `attachment; filename="`+report.FileName(a, s.now())+`"`)
	c.Data(http.StatusOK, report.ContentType, buf.Bytes())
}

func (s *Server) getSuggestions(c *gin.Context) {
	ref := catalog.Ref{
		ModuleID:   c.Query("module"),
		SectionID:  c.Query("section"),
		QuestionID: c.Query("question"),
	}
	if ref.ModuleID == "" || ref.SectionID == "" || ref.QuestionID == "" {
		c.JSON(http.StatusBadRequest, errorBody{Error: "module, section and question are required"})
		return
	}
	a := s.load(c)
	if a == nil {
		return
	}
	sc, err := suggest.ContextFor(a, ref)
	if errors.Is(err, assessment.ErrNotFound) {
		c.JSON(http.StatusNotFound, errorBody{Error: err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorBody{Error: err.Error()})
		return
	}

	list, err := s.suggester.Suggest(c.Request.Context(), sc)
	if err != nil {
		s.log.Warn("suggestion lookup failed", zap.Stringer("question", ref), zap.Error(err))
		c.JSON(http.StatusBadGateway, errorBody{Error: "suggestions unavailable"})
		return
	}
	s.metrics.Suggestions.WithLabelValues("http").Inc()
	c.JSON(http.StatusOK, gin.H{"question": ref, "suggestions": nonNil(list)})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
