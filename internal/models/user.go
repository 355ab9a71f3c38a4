package models

import "time"

// User is the authenticated account as reported by GET /auth/me.
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Username      string    `json:"username"`
	DisplayName   string    `json:"display_name,omitempty"`
	XP            int       `json:"xp"`
	Level         int       `json:"level"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

// Session pairs the backend bearer token with the signed-in user.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
