package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cortexsupport/backend-api/internal/logger"
	"github.com/cortexsupport/backend-api/internal/middlewares"
	"github.com/cortexsupport/backend-api/internal/models"
	"github.com/cortexsupport/backend-api/internal/services"
)

// UserGetter defines the interface that the user lookup service must implement.
type UserGetter interface {
	Get(ctx context.Context, id string) (*models.UserResponse, error)
}

// NewGetUserHandler returns a user by id. Regular users may only read their
// own record; superusers may read anyone's.
// @Summary Get user by ID
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.UserResponse "Requested user"
// @Failure 401 {object} models.ErrorResponse "Not authenticated"
// @Failure 403 {object} models.ErrorResponse "Not enough permissions"
// @Failure 404 {object} models.ErrorResponse "User not found"
// @Security BearerAuth
// @Router /users/{id} [get]
func NewGetUserHandler(svc UserGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requester := middlewares.UserFromContext(r.Context())
		id := chi.URLParam(r, "id")

		user, err := svc.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				respondError(w, http.StatusNotFound, "User not found", "not_found")
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			respondError(w, http.StatusInternalServerError, "Internal server error", "internal_server_error")
			return
		}

		if !requester.IsSuperuser && user.ID != requester.ID.Hex() {
			respondError(w, http.StatusForbidden, "Not enough permissions", "forbidden")
			return
		}

		respondJSON(w, http.StatusOK, user)
	}
}
