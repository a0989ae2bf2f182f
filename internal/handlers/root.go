package handlers

import "net/http"

// NewRootHandler returns a welcome message with documentation links.
// @Summary Root endpoint
// @Tags root
// @Produce json
// @Success 200 {object} map[string]any "Welcome message"
// @Router / [get]
func NewRootHandler(projectName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{
			"message": "Welcome to " + projectName,
			"documentation": map[string]string{
				"swagger": "/swagger/index.html",
				"openapi": "/swagger/doc.json",
			},
		})
	}
}
