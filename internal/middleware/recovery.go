package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	chimw "github.com/go-chi/chi/v5/middleware"

	"cabinets/internal/httputil"
)

// Recovery turns a handler panic into a logged 500 problem response.
// Aborted handlers keep panicking so net/http can drop the connection.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				reqID := chimw.GetReqID(r.Context())
				logger.Error("panic recovered",
					"panic", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"request_id", reqID,
					"stack", string(debug.Stack()),
				)

				// Too late for a problem body once the handler started the response
				if sw.wroteHeader {
					return
				}
				httputil.RespondErrorWithExtras(sw, http.StatusInternalServerError,
					"internal server error", map[string]any{"request_id": reqID})
			}()

			next.ServeHTTP(sw, r)
		})
	}
}
