package domain

import (
	"errors"
	"fmt"

	"leadgen-backend/pkg/validation"
)

var (
	// ErrSpam marks a submission whose honeypot field was filled in.
	ErrSpam = errors.New("submission rejected")
	// ErrMalformedPayload marks a body that is not a JSON object.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrNotFound is returned by repositories for unknown record ids.
	ErrNotFound = errors.New("record not found")
	// ErrNotificationDisabled is returned by notifiers without delivery configuration.
	ErrNotificationDisabled = errors.New("notification channel not configured")
)

// ValidationError carries every field violation found in one payload.
type ValidationError struct {
	Kind       Kind
	Violations []validation.FieldViolation
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s submission failed validation on %d field(s)", e.Kind, len(e.Violations))
}
