// @title Book Catalog API
// @version 1.0
// @description Book catalog with bulk import and export.
// @BasePath /
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"bookcatalog/internal/auth"
	"bookcatalog/internal/author"
	"bookcatalog/internal/book"
	"bookcatalog/internal/config"
	"bookcatalog/internal/httpx"
	"bookcatalog/internal/ingest"
	"bookcatalog/internal/logging"
	"bookcatalog/internal/platform/clock"
	"bookcatalog/internal/platform/metrics"
	"bookcatalog/internal/platform/objectstore"
	"bookcatalog/internal/platform/postgres"
	"bookcatalog/internal/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.Open(ctx, postgres.PoolConfig{
		DSN:      cfg.Database.DSN,
		MaxConns: cfg.Database.MaxConns,
	})
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	slog.Info("database connection OK", "dsn", postgres.RedactDSN(cfg.Database.DSN))

	clk := clock.System()
	m := metrics.New()
	validator := book.NewValidator(clk)
	authors := author.NewResolver(author.NewPostgresRepo(pool, cfg.Database.Timeout))
	bookRepo := book.NewPostgresRepo(pool, cfg.Database.Timeout)

	var bookOpts []book.Option
	if cfg.ArchiveEnabled() {
		store, err := objectstore.New(ctx, objectstore.Config{
			Bucket:    cfg.Export.S3Bucket,
			Region:    cfg.Export.S3Region,
			Endpoint:  cfg.Export.S3Endpoint,
			PathStyle: cfg.Export.S3PathStyle,
		})
		if err != nil {
			slog.Error("failed to configure export archive", "error", err)
			os.Exit(1)
		}
		bookOpts = append(bookOpts, book.WithArchiver(store))
		slog.Info("export archive enabled", "bucket", cfg.Export.S3Bucket)
	}
	bookSvc := book.NewService(bookRepo, authors, validator, bookOpts...)

	importSvc := ingest.NewService(validator, authors, bookRepo,
		ingest.WithRuns(ingest.NewPostgresRepo(pool, cfg.Database.Timeout)),
		ingest.WithMetrics(m),
		ingest.WithClock(clk),
	)

	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL, clk)
	users := user.NewService(user.NewPostgresRepo(pool, cfg.Database.Timeout))

	limiter := httpx.NewRateLimitMiddleware(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)
	go limiter.Run(ctx)

	handler := newRouter(routerDeps{
		books:          book.NewHTTPHandler(bookSvc),
		imports:        ingest.NewHTTPHandler(importSvc),
		auth:           auth.NewHTTPHandler(auth.NewService(users, tokens)),
		authn:          tokens,
		metrics:        m,
		limiter:        limiter,
		ready:          pool.Ping,
		allowedOrigins: cfg.HTTP.AllowedOrigins,
		hsts:           cfg.HTTP.EnableHSTS,
		maxUploadBytes: cfg.HTTP.MaxUploadBytes,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}
}
