package settings

import (
	"path/filepath"
	"testing"

	"github.com/habitx-app/habitx-cli/internal/cli"
	"github.com/habitx-app/habitx-cli/internal/storage"
)

func setupTestDB(t *testing.T) (*cli.Context, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store := storage.NewSQLiteStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	ctx := &cli.Context{
		Store: store,
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}

	return ctx, cleanup
}

func TestSettingsCmd_List(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	cmd := &SettingsCmd{
		List: true,
	}

	err := cmd.Run(ctx)
	if err != nil {
		t.Errorf("settings list failed: %v", err)
	}
}

func TestSettingsCmd_UpdateStreakAlerts(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}

	newValue := !settings.StreakAlerts
	cmd := &SettingsCmd{
		StreakAlerts: &newValue,
	}

	err = cmd.Run(ctx)
	if err != nil {
		t.Errorf("settings update failed: %v", err)
	}

	updated, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatalf("failed to get updated settings: %v", err)
	}

	if updated.StreakAlerts != newValue {
		t.Errorf("expected StreakAlerts to be %v, got %v", newValue, updated.StreakAlerts)
	}
}

func TestSettingsCmd_UpdateReminderTime(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	newTime := "07:45"
	cmd := &SettingsCmd{
		ReminderTime: &newTime,
	}

	if err := cmd.Run(ctx); err != nil {
		t.Errorf("settings update failed: %v", err)
	}

	updated, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatalf("failed to get updated settings: %v", err)
	}
	if updated.ReminderTime != newTime {
		t.Errorf("expected ReminderTime to be %q, got %q", newTime, updated.ReminderTime)
	}
}

func TestSettingsCmd_RejectsInvalidReminderTime(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	before, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}

	bad := "25:99"
	cmd := &SettingsCmd{
		ReminderTime: &bad,
	}

	if err := cmd.Run(ctx); err == nil {
		t.Error("expected an error for an invalid reminder time")
	}

	after, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}
	if after.ReminderTime != before.ReminderTime {
		t.Errorf("invalid update must not persist: %q changed to %q", before.ReminderTime, after.ReminderTime)
	}
}

func TestSettingsCmd_NoChanges(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	cmd := &SettingsCmd{}
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("no-op settings run failed: %v", err)
	}
}
