package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// FieldViolation names one rejected field and why.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldMessages overrides the generic tag message for specific fields
var FieldMessages = map[string]map[string]string{
	"name":         {"min": "Name must be at least 2 characters"},
	"message":      {"min": "Message must be at least 10 characters"},
	"industry":     {"min": "Industry is required"},
	"volume":       {"min": "Volume must be at least 1"},
	"contactName":  {"min": "Contact name is required"},
	"consent":      {"accepted": "Consent is required"},
	"email":        {"email": "Invalid email address", "tld_email": "Invalid email address"},
	"contactEmail": {"email": "Invalid email address", "tld_email": "Invalid email address"},
}

// FormatValidationErrors converts validator.ValidationErrors to field violations.
// validator reports at most one failing tag per field, so each field appears once.
func FormatValidationErrors(err error) []FieldViolation {
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		// Not a validation error, return generic message
		return []FieldViolation{{Field: "", Message: err.Error()}}
	}

	violations := make([]FieldViolation, 0, len(validationErrors))
	for _, e := range validationErrors {
		violations = append(violations, FieldViolation{
			Field:   e.Field(),
			Message: formatSingleError(e),
		})
	}
	return violations
}

// formatSingleError formats a single validation error to a user-friendly message
func formatSingleError(e validator.FieldError) string {
	if msgs, ok := FieldMessages[e.Field()]; ok {
		if msg, ok := msgs[e.Tag()]; ok {
			return msg
		}
	}

	param := e.Param()
	switch e.Tag() {
	case "required":
		return "Required"

	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("Must be at least %s characters", param)
		}
		return fmt.Sprintf("Must be at least %s", param)

	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("Must be at most %s characters", param)
		}
		return fmt.Sprintf("Must be at most %s", param)

	case "email", "tld_email":
		return "Invalid email address"

	case "accepted":
		return "Must be accepted"

	default:
		return fmt.Sprintf("Invalid value (%s)", e.Tag())
	}
}
