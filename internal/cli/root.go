package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/habitx-app/habitx-cli/internal/api"
	"github.com/habitx-app/habitx-cli/internal/constants"
	"github.com/habitx-app/habitx-cli/internal/keyring"
	"github.com/habitx-app/habitx-cli/internal/logger"
	"github.com/habitx-app/habitx-cli/internal/models"
	"github.com/habitx-app/habitx-cli/internal/notifier"
	"github.com/habitx-app/habitx-cli/internal/storage"
)

// Context carries the shared services into every command's Run method.
type Context struct {
	Store    storage.Provider
	API      *api.Client
	Firebase *api.FirebaseClient
	Notifier *notifier.Notifier
	Debug    bool
}

// SignOut clears every trace of the local session: both keyring tokens and
// the cached profile. Safe to call when already signed out.
func (c *Context) SignOut() {
	if err := keyring.DeleteToken(); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		logger.Warn("Failed to delete API token", "error", err)
	}
	if err := keyring.DeleteRefreshToken(); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		logger.Warn("Failed to delete refresh token", "error", err)
	}
	if err := c.Store.ClearCachedUser(); err != nil {
		logger.Warn("Failed to clear cached profile", "error", err)
	}
}

// SignedIn reports whether a bearer token is present in the keyring.
func (c *Context) SignedIn() bool {
	_, err := keyring.GetToken()
	return err == nil
}

// CurrentUser returns the signed-in user, preferring the server and falling
// back to the cached profile when the backend is unreachable.
func (c *Context) CurrentUser(ctx context.Context) (models.User, error) {
	user, err := c.API.Me(ctx)
	if err == nil {
		if saveErr := c.Store.SaveCachedUser(user); saveErr != nil {
			logger.Warn("Failed to cache profile", "error", saveErr)
		}
		return user, nil
	}

	if api.IsNetwork(err) {
		cached, ok, cacheErr := c.Store.GetCachedUser()
		if cacheErr == nil && ok {
			logger.Info("Backend unreachable, using cached profile")
			return cached, nil
		}
	}
	return models.User{}, err
}

// Notify sends a local notification through the tray app, falling back to
// stdout when the tray is unreachable. It never fails the calling command.
func (c *Context) Notify(kind notifier.Kind, title, text string) {
	if err := c.Notifier.Notify(kind, title, text); err != nil {
		logger.Debug("Tray notification failed, printing instead", "error", err)
		fmt.Printf("%s: %s\n", title, text)
	}
}

// RequireAuth is the shared Validate guard for commands that need a session.
func RequireAuth(c *Context) error {
	if !c.SignedIn() {
		return fmt.Errorf("not signed in (run 'habitx login')")
	}
	return nil
}

func todayString() string {
	return time.Now().Format(constants.DateFormat)
}
