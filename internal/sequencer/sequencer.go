// Package sequencer turns a single "toggle habit" user intent into a safe
// state transition plus best-effort gamification feedback. No optimistic
// update is applied before the server confirms: streak and completion-date
// arithmetic live server-side and the client must not diverge from them.
package sequencer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/habitx-app/habitx-cli/internal/api"
	"github.com/habitx-app/habitx-cli/internal/constants"
	"github.com/habitx-app/habitx-cli/internal/logger"
	"github.com/habitx-app/habitx-cli/internal/models"
)

// API is the slice of the backend client the sequencer needs.
type API interface {
	ListHabits(ctx context.Context) ([]models.Habit, error)
	CreateHabit(ctx context.Context, req api.CreateHabitRequest) (models.Habit, error)
	ToggleHabit(ctx context.Context, habitID, idempotencyKey string) (models.ToggleResult, error)
	DeleteHabit(ctx context.Context, habitID string) error
	CheckAchievements(ctx context.Context) ([]models.Achievement, error)
}

// Celebrations are the reward-feedback hooks. Nil fields are skipped, so
// callers wire only what they surface. Hooks must not block.
type Celebrations struct {
	XP              func(awarded int, leveledUp bool, newLevel int)
	StreakMilestone func(habit models.Habit, bonus int)
	PerfectDay      func(completedCount int)
	Achievement     func(a models.Achievement)
	Error           func(msg string)
}

// Sequencer owns the session-scoped habit list and orchestrates toggles.
// Construct with New; instances are independent.
type Sequencer struct {
	api       API
	celebrate Celebrations

	mu       sync.Mutex
	habits   []models.Habit
	toggling map[string]struct{}

	now func() time.Time
}

// New returns a Sequencer with an empty habit list.
func New(apiClient API, celebrate Celebrations) *Sequencer {
	return &Sequencer{
		api:       apiClient,
		celebrate: celebrate,
		toggling:  make(map[string]struct{}),
		now:       time.Now,
	}
}

// Habits returns a copy of the current habit list.
func (s *Sequencer) Habits() []models.Habit {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Habit, len(s.habits))
	copy(out, s.habits)
	return out
}

// Refresh replaces the local habit list with the server's.
func (s *Sequencer) Refresh(ctx context.Context) error {
	habits, err := s.api.ListHabits(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.habits = habits
	s.mu.Unlock()
	return nil
}

// Add creates a habit and appends it locally. The returned bool reports
// whether this was the user's first habit (the welcome-state transition).
func (s *Sequencer) Add(ctx context.Context, req api.CreateHabitRequest) (models.Habit, bool, error) {
	habit, err := s.api.CreateHabit(ctx, req)
	if err != nil {
		return models.Habit{}, false, err
	}

	s.mu.Lock()
	wasFirst := len(s.habits) == 0
	s.habits = append(s.habits, habit)
	s.mu.Unlock()

	return habit, wasFirst, nil
}

// Delete removes a habit remotely and locally.
func (s *Sequencer) Delete(ctx context.Context, habitID string) error {
	if err := s.api.DeleteHabit(ctx, habitID); err != nil {
		return err
	}
	s.mu.Lock()
	for i, h := range s.habits {
		if h.ID == habitID {
			s.habits = append(s.habits[:i], s.habits[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// Toggling reports whether a toggle is currently in flight for the habit.
func (s *Sequencer) Toggling(habitID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, inFlight := s.toggling[habitID]
	return inFlight
}

// Toggle flips a habit's completion for today. A toggle already in flight
// for the same habit makes the call a no-op; that per-habit guard is the
// sole concurrency control. On a fresh completion (not-today to today) the
// reward cascade runs exactly once; an un-toggle runs it zero times.
func (s *Sequencer) Toggle(ctx context.Context, habitID string) error {
	s.mu.Lock()
	if _, inFlight := s.toggling[habitID]; inFlight {
		s.mu.Unlock()
		return nil
	}
	s.toggling[habitID] = struct{}{}

	var pre models.Habit
	found := false
	for _, h := range s.habits {
		if h.ID == habitID {
			pre = h
			found = true
			break
		}
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.toggling, habitID)
		s.mu.Unlock()
	}()

	if !found {
		// Should not happen under correct UI wiring.
		err := fmt.Errorf("habit %s not found in local state", habitID)
		s.showError("This habit could not be found. Pull to refresh and try again.")
		return err
	}

	today := s.now().Format(constants.DateFormat)

	// Stable per-day key lets the server treat replays of the same logical
	// completion event as idempotent.
	result, err := s.api.ToggleHabit(ctx, habitID, habitID+":"+today)
	if err != nil {
		logger.Error("Habit toggle failed", "habit", habitID, "error", err)
		s.showError(api.UserMessage(err))
		// No optimistic state to roll back; re-fetch to converge on the
		// server's view.
		if rerr := s.Refresh(ctx); rerr != nil {
			logger.Warn("Post-failure refresh failed", "error", rerr)
		}
		return err
	}

	s.mu.Lock()
	for i, h := range s.habits {
		if h.ID == habitID {
			s.habits[i] = result.Habit
			break
		}
	}
	snapshot := make([]models.Habit, len(s.habits))
	copy(snapshot, s.habits)
	s.mu.Unlock()

	wasCompleted := pre.CompletedOn(today)
	isNowCompleted := result.Habit.CompletedOn(today)

	if !wasCompleted && isNowCompleted {
		s.runRewardCascade(ctx, result, snapshot, today)
	}

	return nil
}

// runRewardCascade fires the independent reward checks. Each step is
// recovered on its own so one failure does not abort the siblings; a failed
// step triggers a full refresh to resynchronize.
func (s *Sequencer) runRewardCascade(ctx context.Context, result models.ToggleResult, habits []models.Habit, today string) {
	cascadeFailed := false

	// XP / level-up display. Amounts are server-computed.
	if result.XPAwarded > 0 && s.celebrate.XP != nil {
		s.celebrate.XP(result.XPAwarded, result.LeveledUp, result.NewLevel)
	}

	// Streak milestone at exactly 7, 30, or 100 days.
	if IsMilestone(result.Habit.Streak) && s.celebrate.StreakMilestone != nil {
		s.celebrate.StreakMilestone(result.Habit, result.MilestoneBonus)
	}

	// Perfect day: every habit completed today.
	if s.celebrate.PerfectDay != nil {
		completed := 0
		for _, h := range habits {
			if h.CompletedOn(today) {
				completed++
			}
		}
		if completed > 0 && completed == len(habits) {
			s.celebrate.PerfectDay(completed)
		}
	}

	// Achievement unlock scan.
	unlocked, err := s.api.CheckAchievements(ctx)
	if err != nil {
		logger.Warn("Achievement check failed", "error", err)
		cascadeFailed = true
	} else if s.celebrate.Achievement != nil {
		for _, a := range unlocked {
			s.celebrate.Achievement(a)
		}
	}

	if cascadeFailed {
		if err := s.Refresh(ctx); err != nil {
			logger.Warn("Post-cascade refresh failed", "error", err)
		}
	}
}

func (s *Sequencer) showError(msg string) {
	if s.celebrate.Error != nil {
		s.celebrate.Error(msg)
	}
}

// IsMilestone reports whether a streak length is one of the celebrated
// milestones. Membership only; bonus amounts come from the server.
func IsMilestone(streak int) bool {
	switch streak {
	case constants.StreakMilestoneWeek, constants.StreakMilestoneMonth, constants.StreakMilestoneHundred:
		return true
	}
	return false
}
