package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cortexsupport/backend-api/internal/logger"
	"github.com/cortexsupport/backend-api/internal/middlewares"
	"github.com/cortexsupport/backend-api/internal/models"
	"github.com/cortexsupport/backend-api/internal/services"
	"github.com/cortexsupport/backend-api/internal/validation"
)

// UserUpdater defines the interface that the profile update service must implement.
type UserUpdater interface {
	Update(ctx context.Context, id string, in models.UserUpdate) (*models.UserResponse, error)
}

// UserDeleter defines the interface that the account deletion service must implement.
type UserDeleter interface {
	Delete(ctx context.Context, id string) error
}

// NewGetMeHandler returns the authenticated user's own profile.
// @Summary Get current user
// @Tags users
// @Produce json
// @Success 200 {object} models.UserResponse "Current user"
// @Failure 401 {object} models.ErrorResponse "Not authenticated"
// @Security BearerAuth
// @Router /users/me [get]
func NewGetMeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.UserFromContext(r.Context())
		respondJSON(w, http.StatusOK, models.NewUserResponse(user))
	}
}

// NewUpdateMeHandler applies a partial update to the authenticated user.
// Only supplied fields change; a new password is re-hashed before storage.
// @Summary Update current user
// @Tags users
// @Accept json
// @Produce json
// @Param userUpdate body models.UserUpdate true "Partial user update"
// @Success 200 {object} models.UserResponse "Updated user"
// @Failure 401 {object} models.ErrorResponse "Not authenticated"
// @Failure 409 {object} models.ErrorResponse "Email or username already in use"
// @Failure 422 {object} models.ErrorResponse "Validation error"
// @Security BearerAuth
// @Router /users/me [put]
func NewUpdateMeHandler(svc UserUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.UserFromContext(r.Context())

		var req models.UserUpdate
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondInvalidBody(w)
			return
		}

		if fields := validation.Struct(req); len(fields) > 0 {
			respondValidation(w, fields)
			return
		}

		updated, err := svc.Update(r.Context(), user.ID.Hex(), req)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserNotFound):
				respondError(w, http.StatusNotFound, "User not found", "not_found")
			case errors.Is(err, services.ErrEmailTaken):
				respondError(w, http.StatusConflict, "Email already registered", "conflict")
			case errors.Is(err, services.ErrUsernameTaken):
				respondError(w, http.StatusConflict, "Username already taken", "conflict")
			case errors.Is(err, services.ErrUserAlreadyExists):
				respondError(w, http.StatusConflict, "Username or email already exists", "conflict")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				respondError(w, http.StatusInternalServerError, "Internal server error", "internal_server_error")
			}
			return
		}

		respondJSON(w, http.StatusOK, updated)
	}
}

// NewDeleteMeHandler hard-deletes the authenticated user's account.
// @Summary Delete current user
// @Description Permanently deletes the current account. Irreversible.
// @Tags users
// @Success 204 "User deleted"
// @Failure 401 {object} models.ErrorResponse "Not authenticated"
// @Security BearerAuth
// @Router /users/me [delete]
func NewDeleteMeHandler(svc UserDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.UserFromContext(r.Context())

		if err := svc.Delete(r.Context(), user.ID.Hex()); err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				respondError(w, http.StatusNotFound, "User not found", "not_found")
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			respondError(w, http.StatusInternalServerError, "Internal server error", "internal_server_error")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
