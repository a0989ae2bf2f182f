package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cortexsupport/backend-api/internal/logger"
	"github.com/cortexsupport/backend-api/internal/models"
	"github.com/cortexsupport/backend-api/internal/services"
	"github.com/cortexsupport/backend-api/internal/validation"
)

// Registerer defines the interface that the registration service must implement.
type Registerer interface {
	Register(ctx context.Context, in models.UserCreate) (*models.UserResponse, error)
}

// NewRegisterHandler returns an HTTP handler for user registration.
// @Summary Register a new user
// @Description Creates a new user account. Email and username must be unique. Password is hashed before storing.
// @Tags auth
// @Accept json
// @Produce json
// @Param userCreate body models.UserCreate true "User registration request"
// @Success 201 {object} models.UserResponse "User successfully registered"
// @Failure 400 {object} models.ErrorResponse "Email or username already exists"
// @Failure 422 {object} models.ErrorResponse "Validation error"
// @Router /auth/register [post]
func NewRegisterHandler(svc Registerer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.UserCreate

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondInvalidBody(w)
			return
		}

		if fields := validation.Struct(req); len(fields) > 0 {
			respondValidation(w, fields)
			return
		}

		user, err := svc.Register(r.Context(), req)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrEmailTaken):
				respondError(w, http.StatusBadRequest, "Email already registered", "conflict")
			case errors.Is(err, services.ErrUsernameTaken):
				respondError(w, http.StatusBadRequest, "Username already taken", "conflict")
			case errors.Is(err, services.ErrUserAlreadyExists):
				respondError(w, http.StatusBadRequest, "Username or email already exists", "conflict")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				respondError(w, http.StatusInternalServerError, "Internal server error", "internal_server_error")
			}
			return
		}

		respondJSON(w, http.StatusCreated, user)
	}
}
