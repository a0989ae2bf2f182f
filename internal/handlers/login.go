package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/cortexsupport/backend-api/internal/logger"
	"github.com/cortexsupport/backend-api/internal/models"
	"github.com/cortexsupport/backend-api/internal/services"
	"github.com/cortexsupport/backend-api/internal/validation"
)

// Loginer defines the interface that the login service must implement.
type Loginer interface {
	Login(ctx context.Context, username, password string) (*models.Token, error)
}

// NewLoginHandler returns an OAuth2-compatible token login handler. The
// request body is form-encoded, per the password flow.
// @Summary User login
// @Description Authenticate with a form-encoded username and password and receive a bearer access token.
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Success 200 {object} models.Token "Access token returned"
// @Failure 401 {object} models.ErrorResponse "Incorrect username or password"
// @Failure 422 {object} models.ErrorResponse "Missing form fields"
// @Router /auth/login/access-token [post]
func NewLoginHandler(svc Loginer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			respondInvalidBody(w)
			return
		}

		username := r.PostFormValue("username")
		password := r.PostFormValue("password")

		var fields []validation.FieldError
		if username == "" {
			fields = append(fields, validation.FieldError{Field: "username", Rule: "required", Message: "is required"})
		}
		if password == "" {
			fields = append(fields, validation.FieldError{Field: "password", Rule: "required", Message: "is required"})
		}
		if len(fields) > 0 {
			respondValidation(w, fields)
			return
		}

		token, err := svc.Login(r.Context(), username, password)
		if err != nil {
			if errors.Is(err, services.ErrInvalidCredentials) {
				w.Header().Set("WWW-Authenticate", "Bearer")
				respondError(w, http.StatusUnauthorized, "Incorrect username or password", "invalid_credentials")
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			respondError(w, http.StatusInternalServerError, "Internal server error", "internal_server_error")
			return
		}

		respondJSON(w, http.StatusOK, token)
	}
}
