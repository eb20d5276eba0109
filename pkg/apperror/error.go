package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"leadgen-backend/pkg/validation"
)

// Client-facing messages. Spam, malformed bodies and unreadable bodies all
// share MsgInvalidSubmission so rejections cannot be told apart.
const (
	MsgInvalidSubmission = "Invalid submission"
	MsgPayloadTooLarge   = "Payload too large"
	MsgInternal          = "Internal server error"
)

// AppError is a failure that already knows how the client should see it.
// Violations, when present, are rendered instead of Message. Err keeps the
// cause for logs and is never rendered.
type AppError struct {
	Code       int
	Message    string
	Violations []validation.FieldViolation
	Err        error
}

func (e *AppError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case len(e.Violations) > 0:
		return fmt.Sprintf("%d invalid field(s)", len(e.Violations))
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// IsServerError reports whether the failure is ours rather than the client's.
func (e *AppError) IsServerError() bool {
	return e.Code >= http.StatusInternalServerError
}

func New(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// From returns err as an AppError. Anything that is not one already becomes
// an Internal error so its text never reaches the client.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// Invalid reports every rejected field of a submission.
func Invalid(violations []validation.FieldViolation) *AppError {
	return &AppError{Code: http.StatusBadRequest, Violations: violations}
}

// InvalidSubmission hides why a body was refused. cause stays available to
// errors.Is for logging.
func InvalidSubmission(cause error) *AppError {
	return New(http.StatusBadRequest, MsgInvalidSubmission, cause)
}

func PayloadTooLarge(cause error) *AppError {
	return New(http.StatusRequestEntityTooLarge, MsgPayloadTooLarge, cause)
}

func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, message, nil)
}

func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, message, nil)
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message, nil)
}

func Internal(err error) *AppError {
	return New(http.StatusInternalServerError, MsgInternal, err)
}
