package store

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "fitr/internal/errors"
	"fitr/internal/gateway"
	"fitr/internal/models"
	"fitr/internal/session"
)

const minPasswordLength = 6

// Failures are reported with the same wording as the hosted provider so the
// auth service maps both backends identically.
var (
	errInvalidLogin = &gateway.ProviderError{StatusCode: http.StatusBadRequest, Code: "invalid_credentials", Message: "Invalid login credentials"}
	errUserExists   = &gateway.ProviderError{StatusCode: http.StatusUnprocessableEntity, Code: "user_already_exists", Message: "User already registered"}
	errWeakPassword = &gateway.ProviderError{StatusCode: http.StatusUnprocessableEntity, Code: "weak_password", Message: "Password should be at least 6 characters"}
)

// AuthOptions configures token issuance.
type AuthOptions struct {
	JWTSecret string
	AccessTTL time.Duration
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// Auth is a gateway.Authenticator over the users table. It has no email
// confirmation step and no OAuth providers.
type Auth struct {
	db     *gorm.DB
	tokens *tokenIssuer
}

// NewAuth creates an Auth.
func NewAuth(db *gorm.DB, opts AuthOptions) *Auth {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	ttl := opts.AccessTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Auth{
		db:     db,
		tokens: &tokenIssuer{key: []byte(opts.JWTSecret), accessTTL: ttl, now: now},
	}
}

var _ gateway.Authenticator = (*Auth)(nil)

// SignUp registers a user and signs them in immediately.
func (a *Auth) SignUp(ctx context.Context, email, password string) (*gateway.SignUpResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email is required")
	}
	if len(password) < minPasswordLength {
		return nil, errWeakPassword
	}

	db := a.db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrGateway, err)
	}
	if count > 0 {
		return nil, errUserExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{Email: email, Password: string(hashedPassword)}
	if err := db.Create(user).Error; err != nil {
		if isDuplicate(err) {
			return nil, errUserExists
		}
		return nil, apperrors.Wrap(apperrors.ErrGateway, err)
	}

	sess, err := a.issue(ctx, user)
	if err != nil {
		return nil, err
	}
	return &gateway.SignUpResult{Email: user.Email, Session: sess}, nil
}

// SignInWithPassword checks the credentials and issues a new session.
func (a *Auth) SignInWithPassword(ctx context.Context, email, password string) (*session.Session, error) {
	var user models.User
	err := a.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errInvalidLogin
		}
		return nil, apperrors.Wrap(apperrors.ErrGateway, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, errInvalidLogin
	}
	return a.issue(ctx, &user)
}

// SignInWithOAuth is not available without a hosted identity provider.
func (a *Auth) SignInWithOAuth(_ context.Context, provider string) (string, error) {
	return "", apperrors.WithMessage(apperrors.ErrOAuthUnsupported, "Sign-in with "+provider+" is not available")
}

// Refresh exchanges a refresh token for a new session. The presented token
// must be the most recently issued one; it is rotated on success.
func (a *Auth) Refresh(ctx context.Context, refreshToken string) (*session.Session, error) {
	claims, err := a.tokens.parse(refreshToken, tokenTypeRefresh)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, err)
	}

	var user models.User
	if err := a.db.WithContext(ctx).Where("id = ?", claims.Subject).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, apperrors.Wrap(apperrors.ErrGateway, err)
	}
	if user.RefreshTokenHash == "" || user.RefreshTokenHash != hashToken(refreshToken) {
		return nil, apperrors.ErrUnauthorized
	}
	return a.issue(ctx, &user)
}

// Verify resolves an access token to its session.
func (a *Auth) Verify(_ context.Context, accessToken string) (*session.Session, error) {
	claims, err := a.tokens.parse(accessToken, tokenTypeAccess)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, err)
	}
	sess := &session.Session{
		UserID:      claims.Subject,
		Email:       claims.Email,
		AccessToken: accessToken,
		Provider:    "email",
	}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	return sess, nil
}

// SignOut revokes the user's refresh token.
func (a *Auth) SignOut(ctx context.Context, sess session.Session) error {
	if err := a.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", sess.UserID).
		Update("refresh_token_hash", "").Error; err != nil {
		return apperrors.Wrap(apperrors.ErrGateway, err)
	}
	return nil
}

// issue signs a token pair and stores the refresh token hash.
func (a *Auth) issue(ctx context.Context, user *models.User) (*session.Session, error) {
	access, expiresAt, err := a.tokens.sign(user, tokenTypeAccess, a.tokens.accessTTL)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	refresh, _, err := a.tokens.sign(user, tokenTypeRefresh, refreshTokenExpiry)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := a.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("refresh_token_hash", hashToken(refresh)).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrGateway, err)
	}

	return &session.Session{
		UserID:       user.ID,
		Email:        user.Email,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
		Provider:     "email",
	}, nil
}
