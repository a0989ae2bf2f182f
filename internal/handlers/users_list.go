package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/cortexsupport/backend-api/internal/logger"
	"github.com/cortexsupport/backend-api/internal/middlewares"
	"github.com/cortexsupport/backend-api/internal/models"
	"github.com/cortexsupport/backend-api/internal/validation"
)

// UserLister defines the interface that the listing service must implement.
type UserLister interface {
	List(ctx context.Context, requester *models.UserDB, skip, limit int64) (*models.Page[models.UserResponse], error)
}

// NewListUsersHandler returns an HTTP handler for the paginated user listing.
// Superusers see all users; everyone else receives exactly their own record.
// @Summary List users
// @Description Superusers get the full paginated listing; regular users always receive exactly their own record.
// @Tags users
// @Produce json
// @Param skip query int false "Number of records to skip" default(0)
// @Param limit query int false "Number of records to return (1-100)" default(10)
// @Success 200 {object} models.Page[models.UserResponse] "Paginated user listing"
// @Failure 401 {object} models.ErrorResponse "Not authenticated"
// @Security BearerAuth
// @Router /users/ [get]
func NewListUsersHandler(svc UserLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requester := middlewares.UserFromContext(r.Context())

		skip, fields := queryInt(r, "skip", 0)
		limit, f := queryInt(r, "limit", 10)
		fields = append(fields, f...)
		if len(fields) > 0 {
			respondValidation(w, fields)
			return
		}

		page, err := svc.List(r.Context(), requester, skip, limit)
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			respondError(w, http.StatusInternalServerError, "Internal server error", "internal_server_error")
			return
		}

		respondJSON(w, http.StatusOK, page)
	}
}

func queryInt(r *http.Request, name string, def int64) (int64, []validation.FieldError) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0, []validation.FieldError{
			{Field: name, Rule: "integer", Message: "must be a non-negative integer"},
		}
	}
	return v, nil
}
