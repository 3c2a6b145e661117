package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fitr/internal/services"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	authService services.AuthServicer
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService services.AuthServicer) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SignUpRequest represents the registration request payload
type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=128"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries the refresh token to exchange.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// OAuthRequest names the identity provider in the path.
type OAuthRequest struct {
	Provider string `uri:"provider" binding:"required,oauth_provider"`
}

// OAuthResponse holds the provider authorization URL.
type OAuthResponse struct {
	URL string `json:"url"`
}

// SignUp handles user registration
// @Summary     Sign up
// @Description Register with email and password. When the provider requires email confirmation no session is returned.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body SignUpRequest true "Registration data"
// @Success     201 {object} gateway.SignUpResult "Registered"
// @Failure     400 {object} ErrorResponse "Invalid input or weak password"
// @Failure     409 {object} ErrorResponse "Email already registered"
// @Failure     429 {object} ErrorResponse "Rate limited"
// @Failure     502 {object} ErrorResponse "Sign-in service unavailable"
// @Router      /auth/signup [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.authService.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Login handles password sign-in
// @Summary     Sign in
// @Description Authenticate with email and password and get a session
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "Credentials"
// @Success     200 {object} session.Session "Signed in"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Failure     403 {object} ErrorResponse "Email not confirmed"
// @Failure     429 {object} ErrorResponse "Rate limited"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	sess, err := h.authService.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, sess)
}

// OAuth returns the authorization URL for a provider
// @Summary     Start OAuth sign-in
// @Description Get the URL the browser should open to sign in with the provider
// @Tags        auth
// @Produce     json
// @Param       provider path string true "Provider name, e.g. google"
// @Success     200 {object} OAuthResponse "Authorization URL"
// @Failure     400 {object} ErrorResponse "Unknown or unsupported provider"
// @Router      /auth/oauth/{provider} [get]
func (h *AuthHandler) OAuth(c *gin.Context) {
	var req OAuthRequest
	if err := c.ShouldBindUri(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	url, err := h.authService.OAuthURL(c.Request.Context(), req.Provider)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, OAuthResponse{URL: url})
}

// Refresh exchanges a refresh token for a new session
// @Summary     Refresh session
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RefreshRequest true "Refresh token"
// @Success     200 {object} session.Session "New session"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid or revoked token"
// @Router      /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	sess, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, sess)
}

// Logout signs the current session out
// @Summary     Sign out
// @Description Revoke the session and drop the loaded workspace
// @Tags        auth
// @Security    BearerAuth
// @Success     204 "Signed out"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Sign-out failed at the provider"
// @Router      /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	sess, err := getSession(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.authService.SignOut(c.Request.Context(), sess); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
