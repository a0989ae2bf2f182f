package models

// ErrorResponse is the single error envelope every failure is normalized to.
// swagger:model ErrorResponse
type ErrorResponse struct {
	// Human-readable error message
	// default: An error occurred
	Detail string `json:"detail"`

	// Stable code for programmatic handling
	// default: error_code
	Code string `json:"code,omitempty"`

	// Detailed error information, e.g. per-field validation failures
	Errors any `json:"errors,omitempty"`
}
