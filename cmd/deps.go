package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/sfassess/internal/catalog"
	"github.com/abhisek/sfassess/internal/config"
	"github.com/abhisek/sfassess/internal/llm"
	"github.com/abhisek/sfassess/internal/logging"
	"github.com/abhisek/sfassess/internal/metrics"
	"github.com/abhisek/sfassess/internal/session"
	"github.com/abhisek/sfassess/internal/store"
	"github.com/abhisek/sfassess/internal/suggest"
)

// deps bundles everything a command needs. Build it with openDeps and
// release it with close.
type deps struct {
	cfg     *config.Config
	log     *zap.Logger
	store   *store.Store
	catalog *catalog.Catalog
	metrics *metrics.Metrics
	manager *session.Manager
}

// openDeps loads config, builds the logger (console output goes to
// console, nil for none), opens the store and loads the catalog.
func openDeps(cmd *cobra.Command, console io.Writer) (*deps, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.Log, console)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	cat, err := loadCatalog(cmd, cfg)
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(cmd, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.Debug("store opened", zap.String("path", dbPath))

	m := metrics.New()
	return &deps{
		cfg:     cfg,
		log:     log,
		store:   st,
		catalog: cat,
		metrics: m,
		manager: session.NewManager(cat, st.AssessmentRepo(), session.Options{
			SessionKey: cfg.SessionKey,
			AutoSave:   true,
			Log:        log,
			Metrics:    m,
		}),
	}, nil
}

func (d *deps) close() {
	_ = d.log.Sync()
	d.store.Close()
}

// loadCatalog resolves --catalog, then catalog_path, then the built-in
// catalog.
func loadCatalog(cmd *cobra.Command, cfg *config.Config) (*catalog.Catalog, error) {
	path, _ := cmd.Flags().GetString("catalog")
	if path == "" {
		path = cfg.CatalogPath
	}
	if path == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(path)
}

// suggester returns the LLM-backed suggester with static fallback when a
// provider is configured, and the static knowledge base otherwise.
func (d *deps) suggester(ctx context.Context) suggest.Suggester {
	provider, err := llm.NewProvider(ctx, d.cfg.LLM.Provider(), d.store.EventRepo(), d.log)
	switch {
	case errors.Is(err, llm.ErrDisabled):
		return suggest.Static{}
	case err != nil:
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Using the built-in suggestions.")
		return suggest.Static{}
	}
	return suggest.New(provider, d.log)
}

// current loads the stored assessment into the manager.
func (d *deps) current(ctx context.Context) error {
	if _, err := d.manager.Load(ctx); err != nil {
		if errors.Is(err, session.ErrNoAssessment) {
			return errors.New("no assessment in progress; run `sfassess start` first")
		}
		return err
	}
	return nil
}
