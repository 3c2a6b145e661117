package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "fitr/internal/errors"
	"fitr/internal/gateway"
	"fitr/internal/session"
)

var providerPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

var _ gateway.Authenticator = (*Client)(nil)

type authUser struct {
	ID          string            `json:"id"`
	Email       string            `json:"email"`
	Identities  []json.RawMessage `json:"identities"`
	AppMetadata struct {
		Provider string `json:"provider"`
	} `json:"app_metadata"`
}

// tokenResponse is returned by the token and signup endpoints. Signup without
// auto-confirm returns the bare user instead, which fills the embedded fields.
type tokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"`
	ExpiresAt    int64     `json:"expires_at"`
	User         *authUser `json:"user"`
	authUser
}

func (c *Client) toSession(tr *tokenResponse) *session.Session {
	user := tr.User
	if user == nil {
		user = &tr.authUser
	}
	sess := &session.Session{
		UserID:       user.ID,
		Email:        user.Email,
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		Provider:     user.AppMetadata.Provider,
	}
	switch {
	case tr.ExpiresAt > 0:
		sess.ExpiresAt = time.Unix(tr.ExpiresAt, 0)
	case tr.ExpiresIn > 0:
		sess.ExpiresAt = c.now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}
	return sess
}

// SignUp registers a user. When the project requires email confirmation no
// session is returned.
func (c *Client) SignUp(ctx context.Context, email, password string) (*gateway.SignUpResult, error) {
	var query url.Values
	if c.redirectURL != "" {
		query = url.Values{"redirect_to": {c.redirectURL}}
	}

	var tr tokenResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/signup",
		query:  query,
		body:   map[string]string{"email": email, "password": password},
	}, &tr)
	if err != nil {
		return nil, authError(err)
	}

	if tr.AccessToken != "" {
		sess := c.toSession(&tr)
		return &gateway.SignUpResult{Email: sess.Email, Session: sess}, nil
	}

	// An existing address comes back as a user without identities.
	if tr.Identities != nil && len(tr.Identities) == 0 {
		return nil, &gateway.ProviderError{StatusCode: http.StatusUnprocessableEntity, Code: "user_already_exists", Message: "User already exists"}
	}
	return &gateway.SignUpResult{Email: tr.Email, ConfirmationRequired: true}, nil
}

// SignInWithPassword exchanges credentials for a session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*session.Session, error) {
	var tr tokenResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  url.Values{"grant_type": {"password"}},
		body:   map[string]string{"email": email, "password": password},
	}, &tr)
	if err != nil {
		return nil, authError(err)
	}
	return c.toSession(&tr), nil
}

// SignInWithOAuth returns the authorize URL for provider.
func (c *Client) SignInWithOAuth(_ context.Context, provider string) (string, error) {
	if !providerPattern.MatchString(provider) {
		return "", apperrors.ErrOAuthUnsupported
	}
	query := url.Values{"provider": {provider}}
	if c.redirectURL != "" {
		query.Set("redirect_to", c.redirectURL)
	}
	return c.baseURL + "/auth/v1/authorize?" + query.Encode(), nil
}

// Refresh exchanges a refresh token for a new session.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*session.Session, error) {
	var tr tokenResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  url.Values{"grant_type": {"refresh_token"}},
		body:   map[string]string{"refresh_token": refreshToken},
	}, &tr)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && se.Status < http.StatusInternalServerError {
			return nil, apperrors.Wrap(apperrors.ErrUnauthorized, err)
		}
		return nil, apperrors.Wrap(apperrors.ErrGateway, err)
	}
	return c.toSession(&tr), nil
}

// Verify resolves an access token through the user endpoint. The expiry is
// read from the token itself; GoTrue has already checked its signature.
func (c *Client) Verify(ctx context.Context, accessToken string) (*session.Session, error) {
	var user authUser
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/auth/v1/user",
		token:  accessToken,
	}, &user)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && (se.Status == http.StatusUnauthorized || se.Status == http.StatusForbidden) {
			return nil, apperrors.Wrap(apperrors.ErrUnauthorized, err)
		}
		return nil, apperrors.Wrap(apperrors.ErrGateway, err)
	}

	sess := &session.Session{
		UserID:      user.ID,
		Email:       user.Email,
		AccessToken: accessToken,
		Provider:    user.AppMetadata.Provider,
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, &claims); err == nil && claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	return sess, nil
}

// SignOut revokes the session's refresh tokens. An already invalid token
// counts as signed out.
func (c *Client) SignOut(ctx context.Context, sess session.Session) error {
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/logout",
		token:  sess.AccessToken,
	}, nil)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && (se.Status == http.StatusUnauthorized || se.Status == http.StatusNotFound) {
			return nil
		}
		return apperrors.Wrap(apperrors.ErrGateway, err)
	}
	return nil
}

// authError turns a provider response into a gateway.ProviderError, keeping
// 5xx ones too since GoTrue reports mail delivery failures that way.
func authError(err error) error {
	var se *statusError
	if errors.As(err, &se) {
		return &gateway.ProviderError{StatusCode: se.Status, Code: se.Code, Message: se.Message}
	}
	return apperrors.Wrap(apperrors.ErrGateway, err)
}
