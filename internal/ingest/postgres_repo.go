package ingest

import (
	"context"
	"fmt"
	"time"

	"bookcatalog/internal/platform/postgres"

	"github.com/jackc/pgx/v5"
)

// RunRepository stores import history.
type RunRepository interface {
	CreateRun(ctx context.Context, run *Run) (int64, error)
	FinishRun(ctx context.Context, run *Run) error
	ListRuns(ctx context.Context, ownerID int64, limit int) ([]Run, error)
}

type PostgresRepo struct {
	db      postgres.DBTX
	timeout time.Duration
}

func NewPostgresRepo(db postgres.DBTX, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) CreateRun(ctx context.Context, run *Run) (int64, error) {
	const sql = `
		INSERT INTO import_runs (owner_id, file_name, format, status, started_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var id int64
	err := r.db.QueryRow(timeoutCtx, sql, run.OwnerID, run.FileName, run.Format, run.Status, run.StartedAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create import run: %w", err)
	}
	return id, nil
}

func (r *PostgresRepo) FinishRun(ctx context.Context, run *Run) error {
	const sql = `
		UPDATE import_runs SET
			finished_at = $1,
			status = $2,
			created = $3,
			skipped = $4,
			error_count = $5,
			error = $6
		WHERE id = $7`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, sql, run.FinishedAt, run.Status, run.Created, run.Skipped, run.ErrorCount, run.Error, run.ID)
	if err != nil {
		return fmt.Errorf("finish import run: %w", err)
	}
	return nil
}

func (r *PostgresRepo) ListRuns(ctx context.Context, ownerID int64, limit int) ([]Run, error) {
	const sql = `
		SELECT id, owner_id, file_name, format, status, created, skipped, error_count, error, started_at, finished_at
		FROM import_runs
		WHERE owner_id = $1
		ORDER BY started_at DESC, id DESC
		LIMIT $2`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, sql, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list import runs: %w", err)
	}
	runs, err := pgx.CollectRows(rows, pgx.RowToStructByName[Run])
	if err != nil {
		return nil, fmt.Errorf("list import runs: %w", err)
	}
	if runs == nil {
		runs = []Run{}
	}
	return runs, nil
}
