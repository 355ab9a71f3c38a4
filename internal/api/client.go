// Package api is the HTTP gateway to the HabitX backend. It attaches bearer
// auth to outbound calls, normalizes transport and status failures into
// typed errors, and hosts the per-endpoint reliability guards.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/habitx-app/habitx-cli/internal/breaker"
	"github.com/habitx-app/habitx-cli/internal/logger"
)

// TokenSource supplies the backend bearer token. An empty token with a nil
// error means the client is signed out and the request goes unauthenticated.
type TokenSource func() (string, error)

// Client talks to the HabitX backend. Construct with New; the zero value is
// not usable.
type Client struct {
	baseURL string
	http    *http.Client
	token   TokenSource

	// signOut is invoked when the backend answers 401, before the error
	// propagates, so callers observing the error can assume the local
	// session is already invalidated.
	signOut func()

	// friendBreaker guards the friend-request endpoint family. All fetches
	// go through it; there is no bypass path.
	friendBreaker *breaker.Breaker
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTokenSource sets the bearer-token supplier.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.token = ts }
}

// WithSignOut sets the hook invoked on a 401 response.
func WithSignOut(fn func()) Option {
	return func(c *Client) { c.signOut = fn }
}

// New returns a Client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:       baseURL,
		http:          &http.Client{Timeout: 30 * time.Second},
		token:         func() (string, error) { return "", nil },
		signOut:       func() {},
		friendBreaker: breaker.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FriendBreakerOpen reports whether the friend-request breaker is currently
// suppressing calls. Informational only; enforcement happens inside the
// friend-request methods themselves.
func (c *Client) FriendBreakerOpen() bool {
	return c.friendBreaker.IsOpen()
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.token()
	if err != nil {
		return fmt.Errorf("failed to read credentials: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: method + " " + path, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return c.statusError(method, path, res)
	}

	if out == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response for %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) statusError(method, path string, res *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(res.Body, 64<<10))

	apiErr := &Error{Status: res.StatusCode, Body: string(raw)}

	// Prefer the structured {code, message} shape; fall back to raw body
	// string matching for backends that predate it.
	var envelope struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Error   struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		apiErr.Code = envelope.Code
		apiErr.Message = envelope.Message
		if apiErr.Code == "" {
			apiErr.Code = envelope.Error.Code
		}
		if apiErr.Message == "" {
			apiErr.Message = envelope.Error.Message
		}
	}

	if res.StatusCode == http.StatusUnauthorized {
		// Session is dead server-side; invalidate it locally before the
		// error reaches the caller.
		logger.Info("Received 401, signing out", "path", path)
		c.signOut()
	}

	logger.Debug("Request failed", "method", method, "path", path, "status", res.StatusCode, "code", apiErr.Code)
	return apiErr
}
