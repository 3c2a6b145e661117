package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "fitr/internal/errors"
	"fitr/internal/logger"
	"fitr/internal/middleware"
	"fitr/internal/session"
)

// getSession extracts the authenticated session from the Gin context.
// Returns ErrUnauthorized if not present.
func getSession(c *gin.Context) (session.Session, error) {
	v, exists := c.Get(middleware.SessionKey)
	if !exists {
		return session.Session{}, apperrors.ErrUnauthorized
	}
	sess, ok := v.(session.Session)
	if !ok || sess.UserID == "" {
		return session.Session{}, apperrors.ErrUnauthorized
	}
	return sess, nil
}

// bindError converts a binding failure into an INVALID_INPUT error.
func bindError(err error) error {
	return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrInternalServer.Code,
			"message": apperrors.ErrInternalServer.Message,
		},
	})
}

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
