package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/darijapress/darijapress/internal/domain"
)

// JobRepository provides database operations for pipeline job records.
// Every write is committed before the call returns, so a crash between
// pipeline stages never loses the last durable status.
type JobRepository struct {
	db *sqlx.DB
}

// NewJobRepository creates a new job repository instance
func NewJobRepository(db *sqlx.DB) *JobRepository {
	return &JobRepository{db: db}
}

// WasCompleted reports whether the URL already has a completed record.
func (r *JobRepository) WasCompleted(ctx context.Context, sourceURL string) (bool, error) {
	var one int
	query := `SELECT 1 FROM posts WHERE source_url = $1 AND status = $2 LIMIT 1`

	err := r.db.GetContext(ctx, &one, query, sourceURL, domain.JobStatusCompleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check completion: %w", err)
	}
	return true, nil
}

// MarkStarted upserts the record to status=started, refreshing the title
// and updated_at. A previous error message is left in place so it stays
// visible until the retry reaches a terminal state.
func (r *JobRepository) MarkStarted(ctx context.Context, sourceURL, sourceTitle string) error {
	query := `
		INSERT INTO posts (source_url, source_title, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (source_url) DO UPDATE SET
			source_title = EXCLUDED.source_title,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query, sourceURL, nullable(sourceTitle), domain.JobStatusStarted, time.Now())
	if err != nil {
		return fmt.Errorf("failed to mark started: %w", err)
	}
	return nil
}

// MarkCompleted sets status=completed, records the output prefix and
// clears any earlier error.
func (r *JobRepository) MarkCompleted(ctx context.Context, sourceURL, outputPrefix string) error {
	query := `
		UPDATE posts
		SET status = $1, output_prefix = $2, error_message = NULL, updated_at = $3, completed_at = $3
		WHERE source_url = $4
	`

	_, err := r.db.ExecContext(ctx, query, domain.JobStatusCompleted, outputPrefix, time.Now(), sourceURL)
	if err != nil {
		return fmt.Errorf("failed to mark completed: %w", err)
	}
	return nil
}

// MarkFailed sets status=failed and stores the error text, truncated so a
// runaway stack trace cannot grow the table without bound. The cut is by
// rune: error text quotes generated Arabic-script output, and a mid-rune
// byte cut would hand the driver invalid UTF-8 that Postgres rejects.
func (r *JobRepository) MarkFailed(ctx context.Context, sourceURL, errorText string) error {
	if runes := []rune(errorText); len(runes) > domain.MaxJobErrorLength {
		errorText = string(runes[:domain.MaxJobErrorLength])
	}

	query := `
		UPDATE posts
		SET status = $1, error_message = $2, updated_at = $3
		WHERE source_url = $4
	`

	_, err := r.db.ExecContext(ctx, query, domain.JobStatusFailed, errorText, time.Now(), sourceURL)
	if err != nil {
		return fmt.Errorf("failed to mark failed: %w", err)
	}
	return nil
}

// GetByURL returns the record for a source URL.
func (r *JobRepository) GetByURL(ctx context.Context, sourceURL string) (*domain.JobRecord, error) {
	var record domain.JobRecord
	query := `
		SELECT id, source_url, source_title, status, output_prefix, error_message,
		       created_at, updated_at, completed_at
		FROM posts
		WHERE source_url = $1
	`

	err := r.db.GetContext(ctx, &record, query, sourceURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get job record: %w", err)
	}
	return &record, nil
}

// Recent returns the most recently updated records, newest first.
func (r *JobRepository) Recent(ctx context.Context, limit int) ([]domain.JobRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	var records []domain.JobRecord
	query := `
		SELECT id, source_url, source_title, status, output_prefix, error_message,
		       created_at, updated_at, completed_at
		FROM posts
		ORDER BY updated_at DESC
		LIMIT $1
	`

	err := r.db.SelectContext(ctx, &records, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list job records: %w", err)
	}
	return records, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
