package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName            = "habitx"
	DefaultKeyringUser = "api-token"
	RefreshTokenUser   = "firebase-refresh-token"
	DefaultConfigPath  = "~/.config/habitx/habitx.db"
	Version            = "v0.3.1"

	// DefaultAPIBaseURL is the production backend. Override with HABITX_API_URL.
	DefaultAPIBaseURL = "https://api.habitx.app"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format for reminder times (HH:MM)
	TimeFormat = "15:04"

	// Circuit breaker policy for the friend-request endpoint family
	BreakerFailureThreshold = 3
	BreakerResetWindow      = 60 * time.Second

	// Friend-request polling
	WatchPollInterval = 30 * time.Second

	// Streak milestones that earn a bonus celebration. Bonus amounts come
	// from the server; the client only recognizes membership.
	StreakMilestoneWeek    = 7
	StreakMilestoneMonth   = 30
	StreakMilestoneHundred = 100

	// Notify constants
	NotifierLockfileName   = "habitx-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.habitx.tray"
)

// Session States. The first NumMainTabs states are the tab row.
const (
	StateHabits SessionState = iota
	StateFriends
	StateLeaderboard
	StateSettings
	NumMainTabs

	StateAddHabit
	StateEditSettings
	StateConfirmDelete
)
