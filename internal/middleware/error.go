package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "fitr/internal/errors"
	"fitr/internal/logger"
	"fitr/internal/session"
)

// ErrorHandler renders the last error recorded with c.Error as
// {"error":{"code","message"}}. Responses a handler already wrote are left
// alone. Errors that are not AppErrors never reach the client verbatim.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil || c.Writer.Written() {
			return
		}

		appErr := resolveError(last)
		fields := []interface{}{
			"code", appErr.Code,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		}
		if id, ok := c.Get(requestIDKey); ok {
			fields = append(fields, "request_id", id)
		}
		if v, ok := c.Get(SessionKey); ok {
			if sess, ok := v.(session.Session); ok {
				fields = append(fields, "user_id", sess.UserID)
			}
		}

		log := logger.Named("http")
		switch {
		case appErr.StatusCode >= 500:
			log.Errorw("request failed", append(fields, "error", last.Err.Error())...)
		case appErr.Internal != nil:
			log.Warnw("request rejected", append(fields, "internal", appErr.Internal.Error())...)
		}

		c.AbortWithStatusJSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
	}
}

func resolveError(ginErr *gin.Error) *apperrors.AppError {
	var appErr *apperrors.AppError
	switch {
	case errors.As(ginErr.Err, &appErr):
		return appErr
	case ginErr.IsType(gin.ErrorTypeBind):
		return apperrors.WithMessage(apperrors.ErrInvalidInput, ginErr.Err.Error())
	case errors.Is(ginErr.Err, context.DeadlineExceeded):
		return apperrors.Wrap(apperrors.ErrGateway, ginErr.Err)
	default:
		return apperrors.Wrap(apperrors.ErrInternalServer, ginErr.Err)
	}
}
