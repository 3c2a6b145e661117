package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fitr/internal/errors"
	"fitr/internal/session"
)

// SessionKey is the Gin context key holding the authenticated session.Session.
const SessionKey = "session"

// Authenticator resolves a bearer token to a session.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*session.Session, error)
}

// SessionAuth verifies the bearer token and stores the session in the
// context. Failures are recorded with c.Error for ErrorHandler to render.
func SessionAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Authorization header is required"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			abort(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid authorization header format"))
			return
		}

		sess, err := auth.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			abort(c, err)
			return
		}
		if sess.Expired(time.Now()) {
			abort(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Session expired, please sign in again"))
			return
		}

		c.Set(SessionKey, *sess)
		c.Next()
	}
}

func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
