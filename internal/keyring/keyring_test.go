package keyring

import (
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetAndGetToken(t *testing.T) {
	// Use mock keyring for testing
	gokeyring.MockInit()

	token := "hx_test_bearer_token_abc123"

	if err := SetToken(token); err != nil {
		t.Fatalf("SetToken() failed: %v", err)
	}

	retrieved, err := GetToken()
	if err != nil {
		t.Fatalf("GetToken() failed: %v", err)
	}

	if retrieved != token {
		t.Errorf("GetToken() = %q, want %q", retrieved, token)
	}
}

func TestSetTokenEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := SetToken(""); err == nil {
		t.Error("SetToken(\"\") should return an error")
	}
}

func TestGetTokenNotFound(t *testing.T) {
	gokeyring.MockInit()

	// Ensure nothing is stored
	_ = DeleteToken()

	if _, err := GetToken(); err != ErrNotFound {
		t.Errorf("GetToken() error = %v, want %v", err, ErrNotFound)
	}
}

func TestRefreshTokenIsSeparateEntry(t *testing.T) {
	gokeyring.MockInit()

	if err := SetToken("bearer-token"); err != nil {
		t.Fatalf("SetToken() failed: %v", err)
	}
	if err := SetRefreshToken("refresh-token"); err != nil {
		t.Fatalf("SetRefreshToken() failed: %v", err)
	}

	bearer, err := GetToken()
	if err != nil {
		t.Fatalf("GetToken() failed: %v", err)
	}
	refresh, err := GetRefreshToken()
	if err != nil {
		t.Fatalf("GetRefreshToken() failed: %v", err)
	}

	if bearer == refresh {
		t.Error("bearer and refresh tokens should be stored under separate keyring entries")
	}
}

func TestDeleteToken(t *testing.T) {
	gokeyring.MockInit()

	if err := SetToken("to-be-deleted"); err != nil {
		t.Fatalf("SetToken() failed: %v", err)
	}
	if err := DeleteToken(); err != nil {
		t.Fatalf("DeleteToken() failed: %v", err)
	}
	if _, err := GetToken(); err != ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}
