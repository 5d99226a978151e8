package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookcatalog/internal/book"
	"bookcatalog/internal/logging"
	"bookcatalog/internal/platform/clock"
	"bookcatalog/internal/platform/metrics"
)

// BookWriter inserts a validated record owned by ownerID.
type BookWriter interface {
	Insert(ctx context.Context, rec book.Record, authorID, ownerID int64) (int64, error)
}

// Recorder receives import outcome counts.
type Recorder interface {
	ImportRow(outcome string)
	ImportDocument(format, result string)
}

type Service struct {
	validator *book.Validator
	authors   book.AuthorResolver
	books     BookWriter
	runs      RunRepository
	metrics   Recorder
	clock     clock.Clock
}

type Option func(*Service)

// WithRuns records every import in the run history.
func WithRuns(runs RunRepository) Option {
	return func(s *Service) { s.runs = runs }
}

func WithMetrics(m Recorder) Option {
	return func(s *Service) { s.metrics = m }
}

func WithClock(c clock.Clock) Option {
	return func(s *Service) { s.clock = c }
}

func NewService(validator *book.Validator, authors book.AuthorResolver, books BookWriter, opts ...Option) *Service {
	s := &Service{
		validator: validator,
		authors:   authors,
		books:     books,
		clock:     clock.System(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Import decodes payload and writes every item in file order on behalf of
// ownerID. Each item succeeds or fails on its own: there is no batch
// transaction and committed rows stay when a later item fails.
//
// Only an undetectable format or an unreadable document fails the whole
// call. When ctx is canceled the loop stops before the next item and the
// partial report is returned together with the wrapped context error.
func (s *Service) Import(ctx context.Context, payload []byte, fileName, contentType string, ownerID int64) (Report, error) {
	format, err := DetectFormat(fileName, contentType)
	if err != nil {
		s.document("unknown", "unsupported")
		return Report{}, err
	}
	items, err := decode(format, payload)
	if err != nil {
		s.document(string(format), "malformed")
		return Report{}, err
	}

	run := s.startRun(ctx, ownerID, fileName, format)

	report := newReport()
	var stopErr error
	for _, it := range items {
		if err := ctx.Err(); err != nil {
			stopErr = fmt.Errorf("import stopped after %d of %d items: %w", report.Created+report.Skipped, len(items), err)
			break
		}
		s.importItem(ctx, &report, it, ownerID)
	}

	s.finishRun(ctx, run, report, stopErr)
	if stopErr != nil {
		s.document(string(format), "canceled")
	} else {
		s.document(string(format), "ok")
	}
	logging.WithFields(ctx, "owner_id", ownerID, "format", format).Info("import finished",
		"items", len(items),
		"created", report.Created,
		"skipped", report.Skipped,
	)
	return report, stopErr
}

func (s *Service) importItem(ctx context.Context, report *Report, it item, ownerID int64) {
	if it.problem != "" {
		s.skip(report, it.row, it.problem)
		return
	}
	rec, err := s.validator.Validate(it.raw)
	if err != nil {
		s.skip(report, it.row, err.Error())
		return
	}
	authorID, err := s.authors.Resolve(ctx, rec.Author)
	if err != nil {
		s.skip(report, it.row, msgDBError+err.Error())
		return
	}
	if _, err := s.books.Insert(ctx, rec, authorID, ownerID); err != nil {
		if errors.Is(err, book.ErrDuplicate) {
			s.skip(report, it.row, msgDuplicate)
			return
		}
		s.skip(report, it.row, msgDBError+err.Error())
		return
	}
	report.created()
	if s.metrics != nil {
		s.metrics.ImportRow(metrics.OutcomeCreated)
	}
}

func (s *Service) skip(report *Report, row int, msg string) {
	report.skip(row, msg)
	if s.metrics != nil {
		s.metrics.ImportRow(metrics.OutcomeSkipped)
	}
}

func (s *Service) document(format, result string) {
	if s.metrics != nil {
		s.metrics.ImportDocument(format, result)
	}
}

// startRun stores a RUNNING history entry. History is best effort: a
// failure is logged and the import proceeds without it.
func (s *Service) startRun(ctx context.Context, ownerID int64, fileName string, format Format) *Run {
	if s.runs == nil {
		return nil
	}
	run := &Run{
		OwnerID:   ownerID,
		FileName:  fileName,
		Format:    string(format),
		Status:    StatusRunning,
		StartedAt: s.clock.Now(),
	}
	id, err := s.runs.CreateRun(ctx, run)
	if err != nil {
		logging.FromContext(ctx).Warn("failed to record import run", "error", err)
		return nil
	}
	run.ID = id
	return run
}

func (s *Service) finishRun(ctx context.Context, run *Run, report Report, stopErr error) {
	if run == nil {
		return
	}
	now := s.clock.Now()
	run.FinishedAt = &now
	run.Created = report.Created
	run.Skipped = report.Skipped
	run.ErrorCount = report.ErrorCount
	run.Status = StatusCompleted
	if stopErr != nil {
		run.Status = StatusCanceled
		run.Error = stopErr.Error()
	}

	// The request context may already be canceled; the final status still
	// has to be written.
	updateCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.runs.FinishRun(updateCtx, run); err != nil {
		logging.FromContext(ctx).Warn("failed to update import run", "run_id", run.ID, "error", err)
	}
}

// Runs lists the most recent imports of ownerID, newest first.
func (s *Service) Runs(ctx context.Context, ownerID int64, limit int) ([]Run, error) {
	if s.runs == nil {
		return []Run{}, nil
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.runs.ListRuns(ctx, ownerID, limit)
}
