package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/cortexsupport/backend-api/internal/models"
	"github.com/cortexsupport/backend-api/internal/validation"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func respondError(w http.ResponseWriter, status int, detail, code string) {
	respondJSON(w, status, models.ErrorResponse{Detail: detail, Code: code})
}

func respondValidation(w http.ResponseWriter, fields []validation.FieldError) {
	respondJSON(w, http.StatusUnprocessableEntity, models.ErrorResponse{
		Detail: "Validation Error",
		Code:   "validation_error",
		Errors: map[string]any{"fields": fields},
	})
}

// respondInvalidBody covers undecodable request bodies, which are reported
// through the same validation envelope as field-level failures.
func respondInvalidBody(w http.ResponseWriter) {
	respondValidation(w, []validation.FieldError{
		{Field: "_schema", Rule: "json", Message: "invalid request body"},
	})
}
