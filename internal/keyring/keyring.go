package keyring

import (
	"errors"
	"fmt"

	"github.com/habitx-app/habitx-cli/internal/constants"
	"github.com/zalando/go-keyring"
)

var (
	// ErrNotFound is returned when no credentials are found in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// GetToken retrieves the backend bearer token from the OS keyring.
// Returns ErrNotFound if no token is stored.
func GetToken() (string, error) {
	return get(constants.DefaultKeyringUser)
}

// SetToken stores the backend bearer token in the OS keyring.
func SetToken(token string) error {
	return set(constants.DefaultKeyringUser, token)
}

// DeleteToken removes the backend bearer token from the OS keyring.
func DeleteToken() error {
	return del(constants.DefaultKeyringUser)
}

// GetRefreshToken retrieves the Firebase refresh token from the OS keyring.
func GetRefreshToken() (string, error) {
	return get(constants.RefreshTokenUser)
}

// SetRefreshToken stores the Firebase refresh token in the OS keyring.
func SetRefreshToken(token string) error {
	return set(constants.RefreshTokenUser, token)
}

// DeleteRefreshToken removes the Firebase refresh token from the OS keyring.
func DeleteRefreshToken() error {
	return del(constants.RefreshTokenUser)
}

func get(user string) (string, error) {
	value, err := keyring.Get(constants.AppName, user)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return value, nil
}

func set(user, value string) error {
	if value == "" {
		return errors.New("token cannot be empty")
	}
	if err := keyring.Set(constants.AppName, user, value); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

func del(user string) error {
	err := keyring.Delete(constants.AppName, user)
	if err != nil {
		if err == keyring.ErrNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	// ErrNotFound means the keyring is available but empty; any other error
	// likely indicates the keyring is not usable.
	return err == nil || err == keyring.ErrNotFound
}
