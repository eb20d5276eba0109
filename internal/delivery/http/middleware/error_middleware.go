package middleware

import (
	"leadgen-backend/internal/delivery/http/response"
	"leadgen-backend/pkg/apperror"
	"leadgen-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders errors attached with c.Error once the handler chain is done.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		appErr := apperror.From(err)
		if appErr.IsServerError() {
			logger.Log.Error("request failed", "error", err, "request_id", c.GetString(RequestIDKey))
		}
		response.Fail(c, appErr)
	}
}
