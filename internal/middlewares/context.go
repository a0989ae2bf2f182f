package middlewares

import (
	"context"

	"github.com/cortexsupport/backend-api/internal/models"
)

// contextKey is an unexported type for keys in context
type contextKey int

const (
	userKey contextKey = iota
	requestIDKey
)

// WithUser stores the authenticated user in the context.
func WithUser(ctx context.Context, user *models.UserDB) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext retrieves the authenticated user placed by the auth
// middleware. Returns nil if not present.
func UserFromContext(ctx context.Context) *models.UserDB {
	user, _ := ctx.Value(userKey).(*models.UserDB)
	return user
}

func setRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext retrieves the request id. Returns "" if not present.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
