// Command seed loads books into the catalog through the same import path
// the HTTP API uses, on behalf of a user account.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"bookcatalog/internal/auth"
	"bookcatalog/internal/author"
	"bookcatalog/internal/book"
	"bookcatalog/internal/config"
	"bookcatalog/internal/ingest"
	"bookcatalog/internal/logging"
	"bookcatalog/internal/platform/clock"
	"bookcatalog/internal/platform/postgres"
	"bookcatalog/internal/user"
)

func main() {
	var (
		email    = flag.String("email", "", "Owner account email (created when missing)")
		password = flag.String("password", "Seed123!", "Password used when the owner account is created")
		file     = flag.String("file", "", "JSON or CSV file to import; built-in samples when empty")
		samples  = flag.String("write-samples", "", "Write books.json and books.csv into this directory and exit")
	)
	flag.Parse()

	cfg, err := config.LoadTool()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	if *samples != "" {
		paths, err := writeSamples(*samples)
		if err != nil {
			slog.Error("write samples failed", "error", err)
			os.Exit(1)
		}
		slog.Info("sample files written", "files", paths)
		return
	}

	if *email == "" {
		slog.Error("-email is required")
		os.Exit(2)
	}

	report, err := seed(context.Background(), cfg.Database, *email, *password, *file)
	if err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(report)
}

func seed(ctx context.Context, dbCfg config.DatabaseConfig, email, password, file string) (ingest.Report, error) {
	pool, err := postgres.Open(ctx, postgres.PoolConfig{DSN: dbCfg.DSN, MaxConns: dbCfg.MaxConns})
	if err != nil {
		return ingest.Report{}, err
	}
	defer pool.Close()

	users := user.NewService(user.NewPostgresRepo(pool, dbCfg.Timeout))
	owner, err := users.GetByEmail(ctx, email)
	if errors.Is(err, user.ErrNotFound) {
		// Token issuing is never used here, so the secret is irrelevant.
		signup := auth.NewService(users, auth.NewTokenService("seed", time.Minute, nil))
		owner, err = signup.Signup(ctx, email, password)
		if err == nil {
			slog.Info("owner account created", "email", owner.Email, "id", owner.ID)
		}
	}
	if err != nil {
		return ingest.Report{}, fmt.Errorf("resolve owner %s: %w", email, err)
	}

	payload, name, err := loadPayload(file)
	if err != nil {
		return ingest.Report{}, err
	}

	clk := clock.System()
	svc := ingest.NewService(
		book.NewValidator(clk),
		author.NewResolver(author.NewPostgresRepo(pool, dbCfg.Timeout)),
		book.NewPostgresRepo(pool, dbCfg.Timeout),
		ingest.WithRuns(ingest.NewPostgresRepo(pool, dbCfg.Timeout)),
		ingest.WithClock(clk),
	)
	report, err := svc.Import(ctx, payload, name, "", owner.ID)
	if err != nil {
		return report, fmt.Errorf("import %s: %w", name, err)
	}
	slog.Info("seed finished", "file", name, "created", report.Created, "skipped", report.Skipped)
	return report, nil
}

func loadPayload(file string) ([]byte, string, error) {
	if file == "" {
		body, err := samplesJSON()
		return body, "samples.json", err
	}
	body, err := os.ReadFile(file)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", file, err)
	}
	return body, filepath.Base(file), nil
}
