package middleware

import (
	"errors"

	"job-tracker-backend/internal/delivery/http/response"
	"job-tracker-backend/pkg/apperror"
	"job-tracker-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			appErr = apperror.Internal(err)
		}

		if appErr.Err != nil {
			// the cause stays server-side
			logger.Log.Error(appErr.Message,
				"kind", appErr.Kind,
				"error", appErr.Err,
				"path", c.FullPath(),
				"request_id", response.RequestID(c),
			)
		}
		response.Error(c, appErr.Code, appErr.Message, nil)
	}
}
