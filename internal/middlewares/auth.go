package middlewares

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cortexsupport/backend-api/internal/logger"
	"github.com/cortexsupport/backend-api/internal/models"
)

// Tokener defines the token operations the middleware needs.
type Tokener interface {
	FromRequest(ctx context.Context, r *http.Request) (string, error)
	Subject(ctx context.Context, tokenString string) (string, error)
}

// UserLoader resolves a token subject to a stored user.
type UserLoader interface {
	GetByUsername(ctx context.Context, username string) (*models.UserDB, error)
}

// Auth returns a middleware implementing the per-request authentication
// chain. It fails closed at the first unmet condition: a missing header, an
// invalid token and an unknown subject all yield the same 401, a disabled
// user yields 400, and success stores the loaded user in the context.
func Auth(tokener Tokener, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenString, err := tokener.FromRequest(ctx, r)
			if err != nil {
				unauthenticated(w)
				return
			}

			subject, err := tokener.Subject(ctx, tokenString)
			if err != nil {
				unauthenticated(w)
				return
			}

			user, err := users.GetByUsername(ctx, subject)
			if err != nil {
				logger.Log.Errorw("failed to load token subject", "err", err)
				writeError(w, http.StatusInternalServerError, "Internal server error", "internal_server_error")
				return
			}
			if user == nil {
				unauthenticated(w)
				return
			}

			if user.Disabled {
				writeError(w, http.StatusBadRequest, "Inactive user", "inactive_user")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(ctx, user)))
		})
	}
}

func unauthenticated(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, http.StatusUnauthorized, "Could not validate credentials", "unauthenticated")
}

func writeError(w http.ResponseWriter, status int, detail, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.ErrorResponse{Detail: detail, Code: code})
}
