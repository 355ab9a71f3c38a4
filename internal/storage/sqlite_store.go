package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/habitx-app/habitx-cli/internal/migration"
	"github.com/habitx-app/habitx-cli/internal/models"
	"github.com/habitx-app/habitx-cli/migrations"
)

// ErrSettingsNotFound is returned when the settings table is empty.
var ErrSettingsNotFound = errors.New("settings not found")

type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		path: path,
	}
}

func (s *SQLiteStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Seed defaults on first init so partial updates always merge against a
	// complete settings row set.
	if _, err := s.GetSettings(); err != nil {
		if err := s.SaveSettings(DefaultSettings()); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'habitx init' first")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}

func (s *SQLiteStore) runMigrations() error {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS).Run()
}

func (s *SQLiteStore) GetSettings() (Settings, error) {
	return scanSettings(s.db.Query("SELECT key, value FROM settings"))
}

func (s *SQLiteStore) SaveSettings(settings Settings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for key, value := range settingsRows(settings) {
		if _, err := stmt.Exec(key, value); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetState() (ClientState, error) {
	return scanState(s.db.Query("SELECT key, value FROM client_state"))
}

func (s *SQLiteStore) SaveState(state ClientState) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO client_state (key, value, updated_at) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().Format(time.RFC3339)
	for key, value := range stateRows(state) {
		if _, err := stmt.Exec(key, value, now); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetCachedUser() (models.User, bool, error) {
	var raw string
	err := s.db.QueryRow("SELECT value FROM client_state WHERE key = ?", stateKeyCachedUser).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, false, nil
		}
		return models.User{}, false, err
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return models.User{}, false, fmt.Errorf("failed to decode cached user: %w", err)
	}
	return user, true, nil
}

func (s *SQLiteStore) SaveCachedUser(user models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode cached user: %w", err)
	}
	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO client_state (key, value, updated_at) VALUES (?, ?, ?)",
		stateKeyCachedUser, string(raw), time.Now().Format(time.RFC3339),
	)
	return err
}

func (s *SQLiteStore) ClearCachedUser() error {
	_, err := s.db.Exec("DELETE FROM client_state WHERE key = ?", stateKeyCachedUser)
	return err
}

// Key-value row mapping shared with the postgres store.

const (
	stateKeyFriendRequestCount = "last_friend_request_count"
	stateKeySplashShown        = "splash_shown"
	stateKeyCachedUser         = "cached_user"
)

func settingsRows(settings Settings) map[string]string {
	return map[string]string{
		"notifications_enabled": strconv.FormatBool(settings.NotificationsEnabled),
		"friend_request_alerts": strconv.FormatBool(settings.FriendRequestAlerts),
		"streak_alerts":         strconv.FormatBool(settings.StreakAlerts),
		"daily_reminder":        strconv.FormatBool(settings.DailyReminder),
		"reminder_time":         settings.ReminderTime,
	}
}

func scanSettings(rows *sql.Rows, qerr error) (Settings, error) {
	if qerr != nil {
		return Settings{}, qerr
	}
	defer rows.Close()

	// Start from defaults so rows written by an older build still yield a
	// complete settings struct.
	settings := DefaultSettings()
	count := 0
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return Settings{}, err
		}
		switch key {
		case "notifications_enabled":
			settings.NotificationsEnabled = value == "true"
		case "friend_request_alerts":
			settings.FriendRequestAlerts = value == "true"
		case "streak_alerts":
			settings.StreakAlerts = value == "true"
		case "daily_reminder":
			settings.DailyReminder = value == "true"
		case "reminder_time":
			settings.ReminderTime = value
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return Settings{}, err
	}

	if count == 0 {
		return Settings{}, ErrSettingsNotFound
	}
	return settings, nil
}

func stateRows(state ClientState) map[string]string {
	return map[string]string{
		stateKeyFriendRequestCount: strconv.Itoa(state.LastFriendRequestCount),
		stateKeySplashShown:        strconv.FormatBool(state.SplashShown),
	}
}

func scanState(rows *sql.Rows, qerr error) (ClientState, error) {
	if qerr != nil {
		return ClientState{}, qerr
	}
	defer rows.Close()

	var state ClientState
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return ClientState{}, err
		}
		switch key {
		case stateKeyFriendRequestCount:
			n, err := strconv.Atoi(value)
			if err != nil {
				return ClientState{}, fmt.Errorf("parsing %s: %w", stateKeyFriendRequestCount, err)
			}
			state.LastFriendRequestCount = n
		case stateKeySplashShown:
			state.SplashShown = value == "true"
		}
	}
	if err := rows.Err(); err != nil {
		return ClientState{}, err
	}
	return state, nil
}
