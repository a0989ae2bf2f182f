package middlewares

import (
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"
)

// Recover returns a middleware that converts panics into the generic 500
// envelope. Full detail is logged server-side; nothing internal reaches the
// client.
func Recover(log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Errorw("panic recovered",
						"request_id", RequestIDFromContext(r.Context()),
						"panic", rec,
						"stack", string(debug.Stack()),
					)
					writeError(w, http.StatusInternalServerError, "Internal server error", "internal_server_error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
