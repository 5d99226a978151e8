package ingest

import (
	"context"
	"testing"
	"time"

	"bookcatalog/internal/author"
	"bookcatalog/internal/book"
	"bookcatalog/internal/platform/clock"
	"bookcatalog/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImport_AgainstPostgres(t *testing.T) {
	pool := testutil.OpenTestDB(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, pool, "importer@example.com")

	runs := NewPostgresRepo(pool, 5*time.Second)
	svc := NewService(
		book.NewValidator(clock.System()),
		author.NewResolver(author.NewPostgresRepo(pool, 5*time.Second)),
		book.NewPostgresRepo(pool, 5*time.Second),
		WithRuns(runs),
	)

	payload := "title,author,genre,published_year\n" +
		"Dune,Frank Herbert,Fiction,1965\n" +
		"dune,Frank Herbert,Fiction,1965\n" +
		"Cosmos,Carl Sagan,Science,1980\n"

	report, err := svc.Import(ctx, []byte(payload), "books.csv", "text/csv", owner)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Created)
	assert.Equal(t, []RowError{{Row: 3, Error: "duplicate (already exists)"}}, report.Errors)

	// Re-importing the same file creates nothing.
	report, err = svc.Import(ctx, []byte(payload), "books.csv", "text/csv", owner)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Created)
	assert.Equal(t, 3, report.Skipped)

	history, err := svc.Runs(ctx, owner, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, StatusCompleted, history[0].Status)
	assert.Equal(t, 3, history[0].Skipped)
	assert.NotNil(t, history[0].FinishedAt)
}
