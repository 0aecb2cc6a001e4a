// Package store persists the current assessment blob and the LLM request
// log in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

const (
	tableAssessments = "assessments"
	tableLLMEvents   = "llm_events"
)

// Store owns the database handle and provides access to repositories.
type Store struct {
	db  *sql.DB
	seq *sequenceCounter
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates missing tables.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	seq, err := newSequenceCounter(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, seq: seq}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// AssessmentRepo returns an AssessmentRepo backed by this store.
func (s *Store) AssessmentRepo() AssessmentRepo {
	return &assessmentRepo{db: s.db, seq: s.seq}
}

// EventRepo returns an EventRepo backed by this store.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{db: s.db, seq: s.seq}
}

// builder returns an SQL builder for the SQLite dialect.
func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []*entsql.TableBuilder{
		builder().CreateTable(tableAssessments).IfNotExists().
			Columns(
				entsql.Column("session_key").Type("TEXT").Attr("NOT NULL"),
				entsql.Column("data").Type("TEXT").Attr("NOT NULL"),
				entsql.Column("catalog_version").Type("TEXT").Attr("NOT NULL DEFAULT ''"),
				entsql.Column("revision").Type("INTEGER").Attr("NOT NULL"),
				entsql.Column("updated_at").Type("INTEGER").Attr("NOT NULL"),
			).
			PrimaryKey("session_key"),
		builder().CreateTable(tableLLMEvents).IfNotExists().
			Columns(
				entsql.Column("id").Type("INTEGER").Attr("PRIMARY KEY AUTOINCREMENT"),
				entsql.Column("sequence").Type("INTEGER").Attr("NOT NULL"),
				entsql.Column("timestamp").Type("INTEGER").Attr("NOT NULL"),
				entsql.Column("provider").Type("TEXT").Attr("NOT NULL"),
				entsql.Column("model").Type("TEXT").Attr("NOT NULL"),
				entsql.Column("purpose").Type("TEXT").Attr("NOT NULL"),
				entsql.Column("input_tokens").Type("INTEGER").Attr("NOT NULL DEFAULT 0"),
				entsql.Column("output_tokens").Type("INTEGER").Attr("NOT NULL DEFAULT 0"),
				entsql.Column("latency_ms").Type("INTEGER").Attr("NOT NULL DEFAULT 0"),
				entsql.Column("success").Type("INTEGER").Attr("NOT NULL"),
				entsql.Column("error_message").Type("TEXT").Attr("NOT NULL DEFAULT ''"),
				entsql.Column("request_body").Type("TEXT").Attr("NOT NULL DEFAULT ''"),
				entsql.Column("response_body").Type("TEXT").Attr("NOT NULL DEFAULT ''"),
			),
	}
	for _, t := range stmts {
		query, args := t.Query()
		if _, err := db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%s: %w", query, err)
		}
	}
	return nil
}

// applyPragmas configures SQLite for single-user use.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. SFASSESS_DB environment variable
// 2. $XDG_DATA_HOME/sfassess/sfassess.db
// 3. ~/.local/share/sfassess/sfassess.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("SFASSESS_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "sfassess", "sfassess.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
