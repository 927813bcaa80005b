package domain

import (
	"errors"
	"time"
)

// ErrNotFound is returned when an entity is not found in the database.
var ErrNotFound = errors.New("entity not found")

// JobStatus represents the lifecycle state of one source URL.
type JobStatus string

const (
	JobStatusStarted   JobStatus = "started"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// MaxJobErrorLength bounds the stored error text so runaway stack traces
// cannot grow the table without limit.
const MaxJobErrorLength = 2000

// JobRecord tracks the processing state of a single source URL.
// One row per URL; a completed row is never reprocessed unless deleted.
type JobRecord struct {
	ID           int64      `db:"id"            json:"id"`
	SourceURL    string     `db:"source_url"    json:"source_url"`
	SourceTitle  *string    `db:"source_title"  json:"source_title,omitempty"`
	Status       JobStatus  `db:"status"        json:"status"`
	OutputPrefix *string    `db:"output_prefix" json:"output_prefix,omitempty"`
	ErrorMessage *string    `db:"error_message" json:"error_message,omitempty"`
	CreatedAt    time.Time  `db:"created_at"    json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"    json:"updated_at"`
	CompletedAt  *time.Time `db:"completed_at"  json:"completed_at,omitempty"`
}

// IsTerminal reports whether the record is in a state that a later run
// would not restart automatically.
func (j *JobRecord) IsTerminal() bool {
	return j.Status == JobStatusCompleted
}
