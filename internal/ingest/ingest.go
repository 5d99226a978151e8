package ingest

import (
	"errors"
	"time"
)

var (
	// ErrUnsupportedFormat is returned when a payload is neither JSON nor CSV.
	ErrUnsupportedFormat = errors.New("only JSON or CSV payloads are supported")
	// ErrMalformedPayload is returned when the document structure cannot be
	// read at all. Per-item problems never produce it.
	ErrMalformedPayload = errors.New("malformed payload")
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// Run statuses.
const (
	StatusRunning   = "RUNNING"
	StatusCompleted = "COMPLETED"
	StatusCanceled  = "CANCELED"
	StatusFailed    = "FAILED"
)

// Run is the stored history entry of one Import call.
type Run struct {
	ID         int64      `json:"id" db:"id"`
	OwnerID    int64      `json:"-" db:"owner_id"`
	FileName   string     `json:"file_name" db:"file_name"`
	Format     string     `json:"format" db:"format"`
	Status     string     `json:"status" db:"status"`
	Created    int        `json:"created" db:"created"`
	Skipped    int        `json:"skipped" db:"skipped"`
	ErrorCount int        `json:"error_count" db:"error_count"`
	Error      string     `json:"error,omitempty" db:"error"`
	StartedAt  time.Time  `json:"started_at" db:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty" db:"finished_at"`
}
