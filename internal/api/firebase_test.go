package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirebaseSignUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts:signUp", r.URL.Path)
		assert.Equal(t, "web-key", r.URL.Query().Get("key"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "a@b.co", req["email"])
		assert.Equal(t, true, req["returnSecureToken"])

		_ = json.NewEncoder(w).Encode(FirebaseTokens{
			IDToken:      "id-token",
			RefreshToken: "refresh-token",
			ExpiresIn:    "3600",
			LocalID:      "uid-1",
		})
	}))
	defer srv.Close()

	fc := NewFirebaseClient("web-key", WithIdentityBaseURL(srv.URL))
	tokens, err := fc.SignUp(context.Background(), "a@b.co", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "id-token", tokens.IDToken)
	assert.Equal(t, "refresh-token", tokens.RefreshToken)
}

func TestFirebaseSendVerificationEmail(t *testing.T) {
	var gotType, gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts:sendOobCode", r.URL.Path)
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotType = req["requestType"]
		gotToken = req["idToken"]
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	fc := NewFirebaseClient("web-key", WithIdentityBaseURL(srv.URL))
	require.NoError(t, fc.SendVerificationEmail(context.Background(), "id-token"))
	assert.Equal(t, "VERIFY_EMAIL", gotType)
	assert.Equal(t, "id-token", gotToken)
}

func TestFirebaseApplyOobCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts:update", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]string{"email": "a@b.co"})
	}))
	defer srv.Close()

	fc := NewFirebaseClient("web-key", WithIdentityBaseURL(srv.URL))
	email, err := fc.ApplyOobCode(context.Background(), "oob-123")
	require.NoError(t, err)
	assert.Equal(t, "a@b.co", email)
}

func TestFirebaseRefreshIDToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/token", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "old-refresh", r.PostForm.Get("refresh_token"))

		_ = json.NewEncoder(w).Encode(map[string]string{
			"id_token":      "new-id",
			"refresh_token": "new-refresh",
			"expires_in":    "3600",
			"user_id":       "uid-1",
		})
	}))
	defer srv.Close()

	fc := NewFirebaseClient("web-key", WithSecureTokenBaseURL(srv.URL))
	tokens, err := fc.RefreshIDToken(context.Background(), "old-refresh")
	require.NoError(t, err)
	assert.Equal(t, "new-id", tokens.IDToken)
	assert.Equal(t, "new-refresh", tokens.RefreshToken)
}

func TestFirebaseErrorSurfacesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"EMAIL_EXISTS"}}`))
	}))
	defer srv.Close()

	fc := NewFirebaseClient("web-key", WithIdentityBaseURL(srv.URL))
	_, err := fc.SignUp(context.Background(), "a@b.co", "pw")
	require.Error(t, err)

	var ae *Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "EMAIL_EXISTS", ae.Code)
}
