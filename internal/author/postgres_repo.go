package author

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookcatalog/internal/platform/postgres"

	"github.com/jackc/pgx/v5"
)

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

func (r *PostgresRepo) FindByName(ctx context.Context, name string) (Author, error) {
	const query = `SELECT id, name FROM authors WHERE name = $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, name)
	if err != nil {
		return Author{}, fmt.Errorf("find author: %w", err)
	}
	a, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[Author])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Author{}, ErrNotFound
		}
		return Author{}, fmt.Errorf("find author: %w", err)
	}
	return a, nil
}

func (r *PostgresRepo) Create(ctx context.Context, name string) (Author, error) {
	const query = `INSERT INTO authors (name) VALUES ($1) RETURNING id, name`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, name)
	if err == nil {
		var a Author
		a, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[Author])
		if err == nil {
			return a, nil
		}
	}
	// The conflict may surface on Query or while reading the RETURNING row.
	if postgres.IsUniqueViolation(err) {
		return Author{}, ErrDuplicate
	}
	return Author{}, fmt.Errorf("create author: %w", err)
}
