package handlers

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Pinger checks database connectivity. *mongo.Client satisfies it.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// NewHealthHandler reports liveness, including a database ping.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string "Service healthy"
// @Failure 503 {object} models.ErrorResponse "Database unreachable"
// @Router /healthz [get]
func NewHealthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context(), readpref.Primary()); err != nil {
			respondError(w, http.StatusServiceUnavailable, "Database unreachable", "database_error")
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
