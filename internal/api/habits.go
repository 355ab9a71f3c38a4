package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/habitx-app/habitx-cli/internal/models"
)

// CreateHabitRequest is the payload of POST /habits.
type CreateHabitRequest struct {
	Name      string                `json:"name"`
	Category  models.HabitCategory  `json:"category"`
	Frequency models.HabitFrequency `json:"frequency"`
	StartDate string                `json:"start_date,omitempty"` // YYYY-MM-DD
}

// toggleRequest carries the idempotency key so the server can treat a
// replayed completion event for the same habit and day as a no-op.
type toggleRequest struct {
	IdempotencyKey string `json:"idempotency_key"`
}

// ListHabits returns the caller's habits.
func (c *Client) ListHabits(ctx context.Context) ([]models.Habit, error) {
	var habits []models.Habit
	if err := c.do(ctx, http.MethodGet, "/habits", nil, &habits); err != nil {
		return nil, err
	}
	return habits, nil
}

// CreateHabit creates a habit and returns the server entity (streak 0, no
// completion date).
func (c *Client) CreateHabit(ctx context.Context, req CreateHabitRequest) (models.Habit, error) {
	var habit models.Habit
	if err := c.do(ctx, http.MethodPost, "/habits", req, &habit); err != nil {
		return models.Habit{}, err
	}
	return habit, nil
}

// ToggleHabit flips a habit's completion for today. Streak arithmetic and
// reward amounts are computed server-side; the response is authoritative.
func (c *Client) ToggleHabit(ctx context.Context, habitID, idempotencyKey string) (models.ToggleResult, error) {
	var result models.ToggleResult
	path := fmt.Sprintf("/habits/%s/toggle", habitID)
	if err := c.do(ctx, http.MethodPost, path, toggleRequest{IdempotencyKey: idempotencyKey}, &result); err != nil {
		return models.ToggleResult{}, err
	}
	return result, nil
}

// DeleteHabit removes a habit.
func (c *Client) DeleteHabit(ctx context.Context, habitID string) error {
	return c.do(ctx, http.MethodDelete, "/habits/"+habitID, nil, nil)
}

// CheckAchievements asks the server to scan for newly unlocked achievements
// and returns only the fresh unlocks.
func (c *Client) CheckAchievements(ctx context.Context) ([]models.Achievement, error) {
	var unlocked []models.Achievement
	if err := c.do(ctx, http.MethodPost, "/achievements/check", nil, &unlocked); err != nil {
		return nil, err
	}
	return unlocked, nil
}
