package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fitr/internal/errors"
	"fitr/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAuth struct {
	sess *session.Session
	err  error
}

func (s *stubAuth) Authenticate(_ context.Context, token string) (*session.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := *s.sess
	out.AccessToken = token
	return &out, nil
}

func setupRouter(auth Authenticator) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogging(), ErrorHandler())
	r.GET("/private", SessionAuth(auth), func(c *gin.Context) {
		sess := c.MustGet(SessionKey).(session.Session)
		c.JSON(http.StatusOK, gin.H{"user_id": sess.UserID, "token": sess.AccessToken})
	})
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("driver: bad connection"))
	})
	r.GET("/bind", func(c *gin.Context) {
		_ = c.Error(errors.New("page must be a number")).SetType(gin.ErrorTypeBind)
	})
	r.GET("/slow", func(c *gin.Context) {
		_ = c.Error(fmt.Errorf("list expenses: %w", context.DeadlineExceeded))
	})
	r.GET("/written", func(c *gin.Context) {
		c.JSON(http.StatusTeapot, gin.H{"ok": true})
		_ = c.Error(errors.New("late failure"))
	})
	return r
}

func doRequest(r *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse response body: %v", err)
	}
	return result
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	errObj, ok := parseBody(t, rec)["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got %s", rec.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

func TestSessionAuth(t *testing.T) {
	valid := &stubAuth{sess: &session.Session{UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)}}

	tests := []struct {
		name       string
		auth       Authenticator
		header     string
		wantStatus int
		wantCode   string
	}{
		{name: "valid_token", auth: valid, header: "Bearer abc", wantStatus: http.StatusOK},
		{name: "lowercase_scheme", auth: valid, header: "bearer abc", wantStatus: http.StatusOK},
		{name: "missing_header", auth: valid, wantStatus: http.StatusUnauthorized, wantCode: "UNAUTHORIZED"},
		{name: "wrong_scheme", auth: valid, header: "Basic abc", wantStatus: http.StatusUnauthorized, wantCode: "UNAUTHORIZED"},
		{name: "empty_token", auth: valid, header: "Bearer ", wantStatus: http.StatusUnauthorized, wantCode: "UNAUTHORIZED"},
		{name: "rejected_token", auth: &stubAuth{err: apperrors.ErrUnauthorized}, header: "Bearer abc", wantStatus: http.StatusUnauthorized, wantCode: "UNAUTHORIZED"},
		{
			name:       "expired_session",
			auth:       &stubAuth{sess: &session.Session{UserID: "u1", ExpiresAt: time.Now().Add(-time.Minute)}},
			header:     "Bearer abc",
			wantStatus: http.StatusUnauthorized,
			wantCode:   "UNAUTHORIZED",
		},
		{
			name:       "provider_unreachable",
			auth:       &stubAuth{err: apperrors.Wrap(apperrors.ErrGateway, errors.New("timeout"))},
			header:     "Bearer abc",
			wantStatus: http.StatusBadGateway,
			wantCode:   "GATEWAY_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(setupRouter(tt.auth), "/private", tt.header)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantCode != "" {
				if code := errorCode(t, rec); code != tt.wantCode {
					t.Errorf("error code = %q, want %q", code, tt.wantCode)
				}
				return
			}
			body := parseBody(t, rec)
			if body["user_id"] != "u1" || body["token"] != "abc" {
				t.Errorf("expected session in context, got %v", body)
			}
		})
	}
}

func TestErrorHandler_UnexpectedError(t *testing.T) {
	rec := doRequest(setupRouter(&stubAuth{}), "/boom", "")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if code := errorCode(t, rec); code != "INTERNAL_ERROR" {
		t.Errorf("error code = %q, want INTERNAL_ERROR", code)
	}
}

func TestErrorHandler_Resolution(t *testing.T) {
	tests := []struct {
		path       string
		wantStatus int
		wantCode   string
	}{
		{path: "/bind", wantStatus: http.StatusBadRequest, wantCode: "INVALID_INPUT"},
		{path: "/slow", wantStatus: http.StatusBadGateway, wantCode: "GATEWAY_ERROR"},
		{path: "/written", wantStatus: http.StatusTeapot},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := doRequest(setupRouter(&stubAuth{}), tt.path, "")

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantCode == "" {
				if _, ok := parseBody(t, rec)["error"]; ok {
					t.Errorf("expected handler response untouched, got %s", rec.Body.String())
				}
				return
			}
			if code := errorCode(t, rec); code != tt.wantCode {
				t.Errorf("error code = %q, want %q", code, tt.wantCode)
			}
		})
	}
}

func TestRequestLogging_SetsRequestID(t *testing.T) {
	rec := doRequest(setupRouter(&stubAuth{err: apperrors.ErrUnauthorized}), "/private", "")

	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}
