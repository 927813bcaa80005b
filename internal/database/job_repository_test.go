package database_test

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/darijapress/darijapress/internal/database"
	"github.com/darijapress/darijapress/internal/domain"
)

func newMockRepo(t *testing.T) (*database.JobRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	sqlxDB := sqlx.NewDb(db, "postgres")
	return database.NewJobRepository(sqlxDB), mock, func() { db.Close() }
}

func TestJobRepository_WasCompleted(t *testing.T) {
	repo, mock, cleanup := newMockRepo(t)
	defer cleanup()
	ctx := context.Background()

	testCases := []struct {
		name      string
		setupMock func()
		want      bool
		wantErr   bool
	}{
		{
			name: "completed record exists",
			setupMock: func() {
				rows := sqlmock.NewRows([]string{"?column?"}).AddRow(1)
				mock.ExpectQuery("SELECT 1 FROM posts").
					WithArgs("https://example.test/a", string(domain.JobStatusCompleted)).
					WillReturnRows(rows)
			},
			want: true,
		},
		{
			name: "no completed record",
			setupMock: func() {
				mock.ExpectQuery("SELECT 1 FROM posts").
					WithArgs("https://example.test/a", string(domain.JobStatusCompleted)).
					WillReturnError(sql.ErrNoRows)
			},
			want: false,
		},
		{
			name: "database failure",
			setupMock: func() {
				mock.ExpectQuery("SELECT 1 FROM posts").
					WithArgs("https://example.test/a", string(domain.JobStatusCompleted)).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMock()

			got, err := repo.WasCompleted(ctx, "https://example.test/a")
			if (err != nil) != tc.wantErr {
				t.Errorf("WasCompleted() error = %v, wantErr %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("WasCompleted() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestJobRepository_MarkStarted(t *testing.T) {
	repo, mock, cleanup := newMockRepo(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO posts").
		WithArgs("https://example.test/a", sqlmock.AnyArg(), string(domain.JobStatusStarted), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.MarkStarted(context.Background(), "https://example.test/a", "Title"); err != nil {
		t.Errorf("MarkStarted() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestJobRepository_MarkCompleted(t *testing.T) {
	repo, mock, cleanup := newMockRepo(t)
	defer cleanup()

	mock.ExpectExec("UPDATE posts").
		WithArgs(string(domain.JobStatusCompleted), "2026-08-27/slug", sqlmock.AnyArg(), "https://example.test/a").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.MarkCompleted(context.Background(), "https://example.test/a", "2026-08-27/slug"); err != nil {
		t.Errorf("MarkCompleted() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestJobRepository_MarkFailedTruncatesError(t *testing.T) {
	repo, mock, cleanup := newMockRepo(t)
	defer cleanup()

	longErr := strings.Repeat("x", domain.MaxJobErrorLength+500)
	mock.ExpectExec("UPDATE posts").
		WithArgs(string(domain.JobStatusFailed), strings.Repeat("x", domain.MaxJobErrorLength), sqlmock.AnyArg(), "https://example.test/a").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.MarkFailed(context.Background(), "https://example.test/a", longErr); err != nil {
		t.Errorf("MarkFailed() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestJobRepository_MarkFailedTruncatesOnRuneBoundary(t *testing.T) {
	repo, mock, cleanup := newMockRepo(t)
	defer cleanup()

	// Error text quoting generated Darija output. A byte-based cut at the
	// limit would split a rune and send invalid UTF-8 to the driver.
	longErr := "x" + strings.Repeat("ش", domain.MaxJobErrorLength+500)
	want := "x" + strings.Repeat("ش", domain.MaxJobErrorLength-1)
	if !utf8.ValidString(want) {
		t.Fatalf("expected truncation is not valid UTF-8")
	}

	mock.ExpectExec("UPDATE posts").
		WithArgs(string(domain.JobStatusFailed), want, sqlmock.AnyArg(), "https://example.test/a").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.MarkFailed(context.Background(), "https://example.test/a", longErr); err != nil {
		t.Errorf("MarkFailed() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestJobRepository_GetByURL(t *testing.T) {
	repo, mock, cleanup := newMockRepo(t)
	defer cleanup()
	ctx := context.Background()

	t.Run("not found maps to domain error", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, source_url").
			WithArgs("https://example.test/missing").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByURL(ctx, "https://example.test/missing")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("GetByURL() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("returns record", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{
			"id", "source_url", "source_title", "status", "output_prefix",
			"error_message", "created_at", "updated_at", "completed_at",
		}).AddRow(
			int64(7), "https://example.test/a", "Title", string(domain.JobStatusFailed), nil,
			"boom", time.Now(), time.Now(), nil,
		)
		mock.ExpectQuery("SELECT id, source_url").
			WithArgs("https://example.test/a").
			WillReturnRows(rows)

		record, err := repo.GetByURL(ctx, "https://example.test/a")
		if err != nil {
			t.Fatalf("GetByURL() error = %v", err)
		}
		if record.SourceURL != "https://example.test/a" {
			t.Errorf("SourceURL = %q", record.SourceURL)
		}
		if record.Status != domain.JobStatusFailed {
			t.Errorf("Status = %q, want failed", record.Status)
		}
		if record.ErrorMessage == nil || *record.ErrorMessage != "boom" {
			t.Errorf("ErrorMessage = %v, want boom", record.ErrorMessage)
		}
	})
}

func TestJobRepository_Recent(t *testing.T) {
	repo, mock, cleanup := newMockRepo(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{
		"id", "source_url", "source_title", "status", "output_prefix",
		"error_message", "created_at", "updated_at", "completed_at",
	}).
		AddRow(int64(2), "https://example.test/b", "B", string(domain.JobStatusCompleted), "d/b", nil, time.Now(), time.Now(), time.Now()).
		AddRow(int64(1), "https://example.test/a", "A", string(domain.JobStatusStarted), nil, nil, time.Now(), time.Now(), nil)

	mock.ExpectQuery("SELECT id, source_url").
		WithArgs(20).
		WillReturnRows(rows)

	records, err := repo.Recent(context.Background(), 0)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Recent() returned %d records, want 2", len(records))
	}
	if records[0].SourceURL != "https://example.test/b" {
		t.Errorf("records[0].SourceURL = %q", records[0].SourceURL)
	}
}
