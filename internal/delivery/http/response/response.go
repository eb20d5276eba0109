package response

import (
	"leadgen-backend/pkg/apperror"
	"leadgen-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

// Response standardizes the API JSON response
type Response struct {
	Success bool                        `json:"success"`
	Message string                      `json:"message,omitempty"`
	Errors  []validation.FieldViolation `json:"errors,omitempty"`
	Data    interface{}                 `json:"data,omitempty"`
}

// Success sends a success response
func Success(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error sends an error response
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Success: false,
		Message: message,
	})
}

// ValidationFailed sends the full list of field violations
func ValidationFailed(c *gin.Context, code int, violations []validation.FieldViolation) {
	c.JSON(code, Response{
		Success: false,
		Errors:  violations,
	})
}

// Fail renders an AppError. The cause is never part of the body.
func Fail(c *gin.Context, appErr *apperror.AppError) {
	if len(appErr.Violations) > 0 {
		ValidationFailed(c, appErr.Code, appErr.Violations)
		return
	}
	Error(c, appErr.Code, appErr.Message)
}
