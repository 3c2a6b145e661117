package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	apperrors "fitr/internal/errors"
	"fitr/internal/gateway"
	"fitr/internal/logger"
	"fitr/internal/session"
)

// authService wraps the authenticator, translating provider failures into
// readable messages and announcing session transitions.
type authService struct {
	auth   gateway.Authenticator
	broker *session.Broker
}

// NewAuthService creates a new AuthServicer.
func NewAuthService(auth gateway.Authenticator, broker *session.Broker) AuthServicer {
	return &authService{auth: auth, broker: broker}
}

// SignUp registers a user. A session is only announced when the provider
// signs the user in immediately.
func (s *authService) SignUp(ctx context.Context, email, password string) (*gateway.SignUpResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email and password are required")
	}

	result, err := s.auth.SignUp(ctx, email, password)
	if err != nil {
		return nil, mapAuthError(err)
	}
	if result.Session != nil {
		s.broker.Publish(session.Event{Type: session.SignedIn, Session: *result.Session})
	}
	return result, nil
}

// SignIn checks email and password.
func (s *authService) SignIn(ctx context.Context, email, password string) (*session.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email and password are required")
	}

	sess, err := s.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, mapAuthError(err)
	}
	logger.Get().Infow("User signed in", "user_id", sess.UserID)
	s.broker.Publish(session.Event{Type: session.SignedIn, Session: *sess})
	return sess, nil
}

// OAuthURL returns where to send the browser for provider sign-in.
func (s *authService) OAuthURL(ctx context.Context, provider string) (string, error) {
	url, err := s.auth.SignInWithOAuth(ctx, strings.ToLower(strings.TrimSpace(provider)))
	if err != nil {
		return "", mapAuthError(err)
	}
	return url, nil
}

// Refresh exchanges a refresh token for a new session.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*session.Session, error) {
	if refreshToken == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "refresh token is required")
	}
	sess, err := s.auth.Refresh(ctx, refreshToken)
	if err != nil {
		return nil, mapAuthError(err)
	}
	s.broker.Publish(session.Event{Type: session.TokenRefreshed, Session: *sess})
	return sess, nil
}

// Authenticate resolves a bearer token.
func (s *authService) Authenticate(ctx context.Context, accessToken string) (*session.Session, error) {
	if accessToken == "" {
		return nil, apperrors.ErrUnauthorized
	}
	sess, err := s.auth.Verify(ctx, accessToken)
	if err != nil {
		return nil, mapAuthError(err)
	}
	return sess, nil
}

// SignOut revokes the session and announces it, even when the provider
// call fails, so local state is always dropped.
func (s *authService) SignOut(ctx context.Context, sess session.Session) error {
	err := s.auth.SignOut(ctx, sess)
	s.broker.Publish(session.Event{Type: session.SignedOut, Session: sess})
	if err != nil {
		logger.Get().Warnw("Provider sign-out failed", "user_id", sess.UserID, "error", err)
		return failed("sign out", err)
	}
	return nil
}

// authMessages maps fragments of provider error text to client errors.
// Matching is case-insensitive and the first hit wins.
var authMessages = []struct {
	fragment string
	err      *apperrors.AppError
}{
	{"invalid login credentials", apperrors.ErrInvalidCredentials},
	{"email not confirmed", apperrors.ErrEmailNotConfirmed},
	{"password should be at least", apperrors.ErrWeakPassword},
	{"rate limit", apperrors.ErrAuthRateLimited},
	{"too many requests", apperrors.ErrAuthRateLimited},
	{"error sending", apperrors.ErrEmailDeliveryFailed},
	{"email sending failed", apperrors.ErrEmailDeliveryFailed},
	{"already registered", apperrors.ErrDuplicateEmail},
	{"already exists", apperrors.ErrDuplicateEmail},
}

// mapAuthError converts an authenticator failure to an AppError.
func mapAuthError(err error) error {
	var pe *gateway.ProviderError
	if !errors.As(err, &pe) {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return failed("reach the sign-in service", err)
	}

	msg := strings.ToLower(pe.Message)
	for _, m := range authMessages {
		if strings.Contains(msg, m.fragment) {
			return apperrors.Wrap(m.err, err)
		}
	}
	if pe.StatusCode == http.StatusTooManyRequests {
		return apperrors.Wrap(apperrors.ErrAuthRateLimited, err)
	}
	if pe.StatusCode >= http.StatusInternalServerError {
		return failed("reach the sign-in service", err)
	}
	if pe.Message != "" {
		return apperrors.Wrap(apperrors.WithMessage(apperrors.ErrAuthFailed, pe.Message), err)
	}
	return apperrors.Wrap(apperrors.ErrAuthFailed, err)
}
