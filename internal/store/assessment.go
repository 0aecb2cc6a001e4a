package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// assessmentRepo implements AssessmentRepo on the assessments table.
type assessmentRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *assessmentRepo) Save(ctx context.Context, key string, data []byte, catalogVersion string) (int64, error) {
	rev, err := r.seq.Next(ctx)
	if err != nil {
		return 0, err
	}

	query, args := builder().Insert(tableAssessments).
		Columns("session_key", "data", "catalog_version", "revision", "updated_at").
		Values(key, string(data), catalogVersion, rev, time.Now().UnixMilli()).
		OnConflict(
			entsql.ConflictColumns("session_key"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("save assessment %q: %w", key, err)
	}
	return rev, nil
}

func (r *assessmentRepo) Load(ctx context.Context, key string) (*SavedAssessment, error) {
	query, args := builder().
		Select("data", "catalog_version", "revision", "updated_at").
		From(entsql.Table(tableAssessments)).
		Where(entsql.EQ("session_key", key)).
		Query()

	var (
		data      string
		saved     = SavedAssessment{SessionKey: key}
		updatedMs int64
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&data, &saved.CatalogVersion, &saved.Revision, &updatedMs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load assessment %q: %w", key, err)
	}
	saved.Data = []byte(data)
	saved.UpdatedAt = time.UnixMilli(updatedMs).UTC()
	return &saved, nil
}

func (r *assessmentRepo) Delete(ctx context.Context, key string) error {
	query, args := builder().Delete(tableAssessments).
		Where(entsql.EQ("session_key", key)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete assessment %q: %w", key, err)
	}
	return nil
}
