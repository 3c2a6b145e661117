// Package supabase implements the data gateway and authenticator against a
// hosted Supabase project: PostgREST for tables and GoTrue for auth.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"fitr/internal/logger"
)

// Config holds the connection parameters of a project.
type Config struct {
	URL     string
	AnonKey string
	// RedirectURL is where OAuth and confirmation flows land.
	RedirectURL string
}

// Client talks to one Supabase project. It is safe for concurrent use.
type Client struct {
	baseURL     string
	apiKey      string
	redirectURL string
	httpClient  *http.Client
	log         *zap.SugaredLogger
	now         func() time.Time
}

// New creates a client. A nil httpClient uses http.DefaultClient.
func New(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.URL, "/"),
		apiKey:      cfg.AnonKey,
		redirectURL: cfg.RedirectURL,
		httpClient:  httpClient,
		log:         logger.Named("supabase"),
		now:         time.Now,
	}
}

// request describes one backend call.
type request struct {
	method string
	path   string
	query  url.Values
	// token is the user's access token; empty sends the anon key as bearer.
	token  string
	body   any
	prefer string
}

// statusError is a non-2xx response from either API.
type statusError struct {
	Status  int
	Code    string
	Message string
}

func (e *statusError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("unexpected status %d: %s (%s)", e.Status, e.Message, e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Status, e.Message)
}

// errorBody covers the error shapes of PostgREST and GoTrue. GoTrue sends
// a numeric "code", PostgREST a string one.
type errorBody struct {
	Code             json.RawMessage `json:"code"`
	ErrorCode        string          `json:"error_code"`
	Message          string          `json:"message"`
	Msg              string          `json:"msg"`
	Error            string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	endpoint := c.baseURL + r.path
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		jsonBody, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	token := r.token
	if token == "" {
		token = c.apiKey
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.prefer != "" {
		req.Header.Set("Prefer", r.prefer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := parseError(resp)
		c.log.Debugw("Backend request failed", "method", r.method, "path", r.path, "status", resp.StatusCode, "code", apiErr.Code)
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("decoding %s response: %w", r.path, err)
	}
	return nil
}

func parseError(resp *http.Response) *statusError {
	apiErr := &statusError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(raw) == 0 {
		return apiErr
	}

	var eb errorBody
	if json.Unmarshal(raw, &eb) != nil {
		apiErr.Message = strings.TrimSpace(string(raw))
		return apiErr
	}

	var code string
	if json.Unmarshal(eb.Code, &code) == nil {
		apiErr.Code = code
	}
	if eb.ErrorCode != "" {
		apiErr.Code = eb.ErrorCode
	}
	for _, msg := range []string{eb.Msg, eb.Message, eb.ErrorDescription, eb.Error} {
		if msg != "" {
			apiErr.Message = msg
			break
		}
	}
	return apiErr
}
