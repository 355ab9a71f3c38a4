package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Firebase Identity Toolkit REST endpoints. Email-verification-gated
// registration obtains an ID token here, which then feeds the backend's
// bearer auth alongside its own token.
const (
	defaultIdentityBaseURL    = "https://identitytoolkit.googleapis.com/v1"
	defaultSecureTokenBaseURL = "https://securetoken.googleapis.com/v1"
)

// FirebaseClient issues Identity Toolkit calls: account creation, out-of-band
// action codes (email verification, password reset), and ID token refresh.
type FirebaseClient struct {
	apiKey string
	http   *http.Client

	// Overridable for tests.
	identityBaseURL    string
	secureTokenBaseURL string
}

// FirebaseOption configures a FirebaseClient.
type FirebaseOption func(*FirebaseClient)

// WithFirebaseHTTPClient replaces the underlying HTTP client.
func WithFirebaseHTTPClient(h *http.Client) FirebaseOption {
	return func(c *FirebaseClient) { c.http = h }
}

// WithIdentityBaseURL overrides the Identity Toolkit endpoint.
func WithIdentityBaseURL(u string) FirebaseOption {
	return func(c *FirebaseClient) { c.identityBaseURL = u }
}

// WithSecureTokenBaseURL overrides the token refresh endpoint.
func WithSecureTokenBaseURL(u string) FirebaseOption {
	return func(c *FirebaseClient) { c.secureTokenBaseURL = u }
}

// NewFirebaseClient returns a client for the given web API key.
func NewFirebaseClient(apiKey string, opts ...FirebaseOption) *FirebaseClient {
	c := &FirebaseClient{
		apiKey:             apiKey,
		http:               &http.Client{Timeout: 30 * time.Second},
		identityBaseURL:    defaultIdentityBaseURL,
		secureTokenBaseURL: defaultSecureTokenBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FirebaseTokens is the credential pair from sign-up or refresh.
type FirebaseTokens struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
	LocalID      string `json:"localId,omitempty"`
	Email        string `json:"email,omitempty"`
}

// SignUp creates a Firebase account for email/password.
func (c *FirebaseClient) SignUp(ctx context.Context, email, password string) (FirebaseTokens, error) {
	var tokens FirebaseTokens
	err := c.post(ctx, c.identityBaseURL+"/accounts:signUp", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &tokens)
	return tokens, err
}

// SendVerificationEmail requests an email-verification oob code for the
// account behind idToken.
func (c *FirebaseClient) SendVerificationEmail(ctx context.Context, idToken string) error {
	return c.post(ctx, c.identityBaseURL+"/accounts:sendOobCode", map[string]any{
		"requestType": "VERIFY_EMAIL",
		"idToken":     idToken,
	}, nil)
}

// SendPasswordReset requests a password-reset oob code for the email.
func (c *FirebaseClient) SendPasswordReset(ctx context.Context, email string) error {
	return c.post(ctx, c.identityBaseURL+"/accounts:sendOobCode", map[string]any{
		"requestType": "PASSWORD_RESET",
		"email":       email,
	}, nil)
}

// ApplyOobCode applies an out-of-band action code from a verification or
// reset link and returns the affected email address.
func (c *FirebaseClient) ApplyOobCode(ctx context.Context, oobCode string) (string, error) {
	var res struct {
		Email string `json:"email"`
	}
	err := c.post(ctx, c.identityBaseURL+"/accounts:update", map[string]any{
		"oobCode": oobCode,
	}, &res)
	return res.Email, err
}

// RefreshIDToken exchanges a refresh token for a fresh ID token.
func (c *FirebaseClient) RefreshIDToken(ctx context.Context, refreshToken string) (FirebaseTokens, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	endpoint := c.secureTokenBaseURL + "/token?key=" + url.QueryEscape(c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBufferString(form.Encode()))
	if err != nil {
		return FirebaseTokens{}, fmt.Errorf("failed to build refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.http.Do(req)
	if err != nil {
		return FirebaseTokens{}, &NetworkError{Op: "firebase token refresh", Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return FirebaseTokens{}, firebaseError(res)
	}

	// The securetoken endpoint uses snake_case field names.
	var payload struct {
		IDToken      string `json:"id_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    string `json:"expires_in"`
		UserID       string `json:"user_id"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return FirebaseTokens{}, fmt.Errorf("failed to decode refresh response: %w", err)
	}
	return FirebaseTokens{
		IDToken:      payload.IDToken,
		RefreshToken: payload.RefreshToken,
		ExpiresIn:    payload.ExpiresIn,
		LocalID:      payload.UserID,
	}, nil
}

func (c *FirebaseClient) post(ctx context.Context, endpoint string, body map[string]any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode firebase request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"?key="+url.QueryEscape(c.apiKey), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build firebase request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: "firebase " + endpoint, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return firebaseError(res)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func firebaseError(res *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(res.Body, 64<<10))
	var envelope struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	_ = json.Unmarshal(raw, &envelope)
	return &Error{
		Status:  res.StatusCode,
		Code:    envelope.Error.Message,
		Message: envelope.Error.Message,
		Body:    string(raw),
	}
}
