// Package validation holds the synchronous pre-network checks: they run
// before any request is dispatched so bad input never reaches the backend.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/habitx-app/habitx-cli/internal/constants"
	"github.com/habitx-app/habitx-cli/internal/models"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,24}$`)

// HabitName checks a habit name: required, trimmed, bounded.
func HabitName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("habit name is required")
	}
	if len(trimmed) > 80 {
		return fmt.Errorf("habit name must be at most 80 characters")
	}
	return nil
}

// HabitCategory checks that the category is one of the known values.
func HabitCategory(category string) error {
	switch models.HabitCategory(category) {
	case models.CategoryHealth, models.CategoryFitness, models.CategoryMindfulness,
		models.CategoryProductivity, models.CategoryLearning, models.CategoryOther:
		return nil
	}
	return fmt.Errorf("invalid category %q (health, fitness, mindfulness, productivity, learning, other)", category)
}

// HabitFrequency checks that the frequency is one of the known values.
func HabitFrequency(frequency string) error {
	switch models.HabitFrequency(frequency) {
	case models.FrequencyDaily, models.FrequencyWeekly:
		return nil
	}
	return fmt.Errorf("invalid frequency %q (daily, weekly)", frequency)
}

// Email checks the rough shape of an email address. The backend and Firebase
// apply the authoritative rules; this catches obvious typos early.
func Email(email string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("email is required")
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("invalid email address: %s", email)
	}
	return nil
}

// Username checks the allowed username shape.
func Username(username string) error {
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("username must be 3-24 characters of letters, digits, or underscores")
	}
	return nil
}

// Password enforces the minimum password length. Strength rules beyond
// length are Firebase's concern.
func Password(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}

// ReminderTime checks an HH:MM local-clock time.
func ReminderTime(value string) error {
	if _, err := time.Parse(constants.TimeFormat, value); err != nil {
		return fmt.Errorf("invalid time %q (expected HH:MM)", value)
	}
	return nil
}

// Date checks a YYYY-MM-DD date string.
func Date(value string) error {
	if _, err := time.Parse(constants.DateFormat, value); err != nil {
		return fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", value)
	}
	return nil
}
