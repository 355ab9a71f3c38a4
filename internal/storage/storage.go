// Package storage persists client-side state that survives between runs:
// notification settings, the last-known friend-request count, the first-run
// flag, and the cached signed-in profile. Habits, friends, and challenges
// are server-owned and never stored here.
package storage

import (
	"net/url"
	"strings"

	"github.com/habitx-app/habitx-cli/internal/models"
)

// Settings are the user-configurable notification preferences. They are
// merged with defaults on load and written back on any partial update.
type Settings struct {
	NotificationsEnabled bool   `json:"notifications_enabled"` // master switch
	FriendRequestAlerts  bool   `json:"friend_request_alerts"` // notify on new friend requests
	StreakAlerts         bool   `json:"streak_alerts"`         // notify on streak milestones
	DailyReminder        bool   `json:"daily_reminder"`        // daily completion reminder
	ReminderTime         string `json:"reminder_time"`         // HH:MM, local clock
}

// DefaultSettings returns the out-of-the-box notification preferences.
func DefaultSettings() Settings {
	return Settings{
		NotificationsEnabled: true,
		FriendRequestAlerts:  true,
		StreakAlerts:         true,
		DailyReminder:        false,
		ReminderTime:         "09:00",
	}
}

// ClientState is small non-preference state the client tracks between runs.
type ClientState struct {
	LastFriendRequestCount int  `json:"last_friend_request_count"`
	SplashShown            bool `json:"splash_shown"`
}

// Provider is the storage backend contract. Two implementations exist:
// sqlite (default) and postgres (shared state across machines).
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (Settings, error)
	SaveSettings(Settings) error

	// Client state
	GetState() (ClientState, error)
	SaveState(ClientState) error

	// Cached profile. The bool reports whether a profile is stored.
	GetCachedUser() (models.User, bool, error)
	SaveCachedUser(models.User) error
	ClearCachedUser() error

	// Utils
	GetConfigPath() string
}

// HasEmbeddedCredentials reports whether a PostgreSQL connection string
// carries an inline password. Those are rejected; credentials belong in the
// OS keyring, environment, or .pgpass.
func HasEmbeddedCredentials(connStr string) bool {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		u, err := url.Parse(connStr)
		if err != nil {
			return false
		}
		if u.User != nil {
			if _, set := u.User.Password(); set {
				return true
			}
		}
		return false
	}

	// DSN format: space-separated key=value pairs.
	for _, part := range strings.Fields(connStr) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 && strings.EqualFold(kv[0], "password") {
			return true
		}
	}
	return false
}
