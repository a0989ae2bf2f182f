package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError is one (field, reason) pair produced by request validation.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message,omitempty"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report JSON field names, not Go struct field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// Struct validates v against its declarative field constraints and returns
// the full list of failures, or nil. It runs before any domain logic.
func Struct(v any) []FieldError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "_schema", Rule: "invalid", Message: "invalid request format"}}
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Param:   fe.Param(),
			Message: message(fe.Tag(), fe.Param()),
		})
	}
	return fields
}

func message(rule, param string) string {
	switch rule {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", param)
	case "max":
		return fmt.Sprintf("must be at most %s characters", param)
	case "oneof":
		return fmt.Sprintf("must be one of: %s", param)
	default:
		if param != "" {
			return fmt.Sprintf("failed rule %s=%s", rule, param)
		}
		return fmt.Sprintf("failed rule %s", rule)
	}
}
