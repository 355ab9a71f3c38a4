package models

import "time"

type HabitCategory string

const (
	CategoryHealth       HabitCategory = "health"
	CategoryFitness      HabitCategory = "fitness"
	CategoryMindfulness  HabitCategory = "mindfulness"
	CategoryProductivity HabitCategory = "productivity"
	CategoryLearning     HabitCategory = "learning"
	CategoryOther        HabitCategory = "other"
)

type HabitFrequency string

const (
	FrequencyDaily  HabitFrequency = "daily"
	FrequencyWeekly HabitFrequency = "weekly"
)

// Habit is a server-owned entity. The client holds a transient copy per
// session; streak and completion dates are computed server-side.
type Habit struct {
	ID              string         `json:"id"`
	UserID          string         `json:"user_id"`
	Name            string         `json:"name"`
	Category        HabitCategory  `json:"category"`
	Frequency       HabitFrequency `json:"frequency"`
	StartDate       string         `json:"start_date,omitempty"`        // YYYY-MM-DD
	LastCompletedOn string         `json:"last_completed_on,omitempty"` // YYYY-MM-DD, empty when never completed
	Streak          int            `json:"streak"`
	CreatedAt       time.Time      `json:"created_at"`
}

// CompletedOn reports whether the habit was completed on the given day
// (YYYY-MM-DD, local clock).
func (h Habit) CompletedOn(day string) bool {
	return h.LastCompletedOn == day
}

// ToggleResult is the server's response to a habit toggle. Reward amounts
// are server-computed and authoritative; the client never derives them.
type ToggleResult struct {
	Habit          Habit `json:"habit"`
	XPAwarded      int   `json:"xp_awarded"`
	MilestoneBonus int   `json:"milestone_bonus"`
	LeveledUp      bool  `json:"leveled_up"`
	NewLevel       int   `json:"new_level"`
}

// Achievement is an unlocked gamification badge.
type Achievement struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	UnlockedAt  *time.Time `json:"unlocked_at,omitempty"`
}
