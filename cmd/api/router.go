package main

import (
	"context"
	"net/http"
	"time"

	"bookcatalog/internal/auth"
	"bookcatalog/internal/book"
	"bookcatalog/internal/httpx"
	"bookcatalog/internal/ingest"
	"bookcatalog/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
)

type routerDeps struct {
	books   *book.HTTPHandler
	imports *ingest.HTTPHandler
	auth    *auth.HTTPHandler
	authn   httpx.Authenticator
	metrics *metrics.Metrics
	limiter *httpx.RateLimitMiddleware

	// ready reports whether the database answers; nil means always ready.
	ready          func(ctx context.Context) error
	allowedOrigins []string
	hsts           bool
	maxUploadBytes int64
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(httpx.RequestIDMiddleware)
	r.Use(httpx.AccessLogMiddleware)
	r.Use(httpx.RecoveryMiddleware)
	r.Use(d.metrics.Middleware)
	r.Use(httpx.SecurityHeadersMiddleware(d.hsts))
	r.Use(httpx.CORSMiddleware(d.allowedOrigins))
	r.Use(d.limiter.Middleware)
	r.Use(httpx.RequestSizeLimitMiddleware(d.maxUploadBytes))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Resource not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONSuccess(w, r, map[string]string{"status": "ok"}, nil)
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if d.ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
			defer cancel()
			if err := d.ready(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	r.Method(http.MethodGet, "/metrics", d.metrics.Handler())

	requireAuth := httpx.AuthMiddleware(d.authn)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", d.auth.Signup)
		r.Post("/token", d.auth.Token)
		r.With(requireAuth).Get("/me", d.auth.Me)
	})

	r.Route("/books", func(r chi.Router) {
		r.Get("/", d.books.List)
		r.Get("/id/{id}", d.books.Get)
		r.Get("/export", d.books.Export)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/by-owner", d.books.ListOwned)
			r.Post("/", d.books.Create)
			r.Put("/{id}", d.books.Update)
			r.Delete("/{id}", d.books.Delete)
			r.Post("/import", d.imports.Import)
			r.Get("/import/runs", d.imports.Runs)
			r.Post("/export/archive", d.books.Archive)
		})
	})

	return r
}
