package system

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/habitx-app/habitx-cli/internal/cli"
	"github.com/habitx-app/habitx-cli/internal/storage"
)

func setupTestInitDB(t *testing.T) (*cli.Context, string, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store := storage.NewSQLiteStore(dbPath)

	ctx := &cli.Context{
		Store: store,
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}

	return ctx, dbPath, cleanup
}

func TestInitCmd_Success(t *testing.T) {
	ctx, dbPath, cleanup := setupTestInitDB(t)
	defer cleanup()

	cmd := &InitCmd{}
	err := cmd.Run(ctx)

	if err != nil {
		t.Errorf("init command failed: %v", err)
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("database file was not created at %s", dbPath)
	}
}

func TestInitCmd_Idempotent(t *testing.T) {
	ctx, _, cleanup := setupTestInitDB(t)
	defer cleanup()

	cmd := &InitCmd{}

	err := cmd.Run(ctx)
	if err != nil {
		t.Fatalf("first init failed: %v", err)
	}

	err = cmd.Run(ctx)
	if err != nil {
		t.Errorf("second init failed (should be idempotent): %v", err)
	}
}

func TestInitCmd_ForceDeletesExisting(t *testing.T) {
	ctx, dbPath, cleanup := setupTestInitDB(t)
	defer cleanup()

	normalCmd := &InitCmd{}
	if err := normalCmd.Run(ctx); err != nil {
		t.Fatalf("initial init failed: %v", err)
	}

	// Persist something that must not survive a forced reset.
	if err := ctx.Store.SaveSettings(storage.Settings{NotificationsEnabled: false, ReminderTime: "23:59"}); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}

	forceCmd := &InitCmd{Force: true}
	if err := forceCmd.Run(ctx); err != nil {
		t.Fatalf("forced init failed: %v", err)
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("database file missing after forced init")
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatalf("failed to read settings after forced init: %v", err)
	}
	defaults := storage.DefaultSettings()
	if settings.NotificationsEnabled != defaults.NotificationsEnabled || settings.ReminderTime != defaults.ReminderTime {
		t.Errorf("forced init did not restore default settings: %+v", settings)
	}
}
