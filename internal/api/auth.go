package api

import (
	"context"
	"net/http"

	"github.com/habitx-app/habitx-cli/internal/models"
)

// LoginRequest is the payload of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the payload of POST /auth/register. IDToken carries the
// Firebase ID token from the email-verification flow.
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	IDToken  string `json:"id_token,omitempty"`
}

// UpdateProfileRequest is the payload of PUT /auth/profile. Nil fields are
// left unchanged.
type UpdateProfileRequest struct {
	Username    *string `json:"username,omitempty"`
	DisplayName *string `json:"display_name,omitempty"`
}

// Login exchanges credentials for a backend session.
func (c *Client) Login(ctx context.Context, req LoginRequest) (models.Session, error) {
	var session models.Session
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &session); err != nil {
		return models.Session{}, err
	}
	return session, nil
}

// Register creates a backend account and returns the initial session.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (models.Session, error) {
	var session models.Session
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &session); err != nil {
		return models.Session{}, err
	}
	return session, nil
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// UpdateProfile applies a partial profile update and returns the updated user.
func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPut, "/auth/profile", req, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Health checks backend reachability via GET /health.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}
