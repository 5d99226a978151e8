package httpx

import (
	"errors"
	"net/http"
	"runtime/debug"

	"bookcatalog/internal/logging"
)

// RecoveryMiddleware turns a handler panic into an opaque 500. A panic
// with http.ErrAbortHandler is left to net/http, which aborts the
// connection quietly.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordStatus(w)
		defer func() {
			p := recover()
			if p == nil {
				return
			}
			if err, ok := p.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(p)
			}
			logging.FromContext(r.Context()).Error("panic recovered",
				"panic", p,
				"stack", string(debug.Stack()),
			)
			if !rec.started {
				InternalError(rec, r)
			}
		}()
		next.ServeHTTP(rec, r)
	})
}
