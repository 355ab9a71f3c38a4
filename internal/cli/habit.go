package cli

import (
	"context"
	"fmt"

	"github.com/habitx-app/habitx-cli/internal/api"
	"github.com/habitx-app/habitx-cli/internal/models"
	"github.com/habitx-app/habitx-cli/internal/notifier"
	"github.com/habitx-app/habitx-cli/internal/sequencer"
	"github.com/habitx-app/habitx-cli/internal/validation"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Create a new habit."`
	List   HabitListCmd   `cmd:"" help:"List your habits."`
	Toggle HabitToggleCmd `cmd:"" help:"Toggle a habit's completion for today."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit."`
}

// newSequencer builds a sequencer whose celebrations print to the terminal
// and mirror to the tray notifier where the settings allow it.
func newSequencer(ctx *Context) *sequencer.Sequencer {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		settings.StreakAlerts = false
		settings.NotificationsEnabled = false
	}
	streakAlerts := settings.NotificationsEnabled && settings.StreakAlerts

	return sequencer.New(ctx.API, sequencer.Celebrations{
		XP: func(awarded int, leveledUp bool, newLevel int) {
			fmt.Printf("+%d XP\n", awarded)
			if leveledUp {
				fmt.Printf("Level up! You reached level %d.\n", newLevel)
			}
		},
		StreakMilestone: func(h models.Habit, bonus int) {
			msg := fmt.Sprintf("%d-day streak on %q", h.Streak, h.Name)
			if bonus > 0 {
				msg += fmt.Sprintf(" (+%d bonus XP)", bonus)
			}
			fmt.Println("🔥 " + msg)
			if streakAlerts {
				ctx.Notify(notifier.KindStreak, "Streak milestone", msg)
			}
		},
		PerfectDay: func(count int) {
			msg := fmt.Sprintf("Perfect day! All %d habits completed.", count)
			fmt.Println("⭐ " + msg)
			if streakAlerts {
				ctx.Notify(notifier.KindPerfectDay, "Perfect Day", msg)
			}
		},
		Achievement: func(a models.Achievement) {
			fmt.Printf("🏆 Achievement unlocked: %s — %s\n", a.Name, a.Description)
			if streakAlerts {
				ctx.Notify(notifier.KindAchievement, "Achievement unlocked", a.Name)
			}
		},
		Error: func(msg string) {
			fmt.Println(msg)
		},
	})
}

type HabitAddCmd struct {
	Name      string `arg:"" help:"Habit name."`
	Category  string `help:"Category (health, fitness, mindfulness, productivity, learning, other)." default:"other"`
	Frequency string `help:"Frequency (daily, weekly)." default:"daily"`
	StartDate string `help:"Start date in YYYY-MM-DD format (default: today)."`
}

func (c *HabitAddCmd) Validate(ctx *Context) error { return RequireAuth(ctx) }

func (c *HabitAddCmd) Run(ctx *Context) error {
	if err := validation.HabitName(c.Name); err != nil {
		return err
	}
	if err := validation.HabitCategory(c.Category); err != nil {
		return err
	}
	if err := validation.HabitFrequency(c.Frequency); err != nil {
		return err
	}
	if c.StartDate != "" {
		if err := validation.Date(c.StartDate); err != nil {
			return err
		}
	}

	seq := newSequencer(ctx)
	if err := seq.Refresh(context.Background()); err != nil {
		return fmt.Errorf("failed to load habits: %s", api.UserMessage(err))
	}

	habit, wasFirst, err := seq.Add(context.Background(), api.CreateHabitRequest{
		Name:      c.Name,
		Category:  models.HabitCategory(c.Category),
		Frequency: models.HabitFrequency(c.Frequency),
		StartDate: c.StartDate,
	})
	if err != nil {
		return fmt.Errorf("failed to create habit: %s", api.UserMessage(err))
	}

	fmt.Printf("Added habit: %s\n", habit.Name)
	if wasFirst {
		fmt.Println("That's your first habit — welcome aboard. Toggle it done with 'habitx habit toggle'.")
	}
	return nil
}

type HabitListCmd struct{}

func (c *HabitListCmd) Validate(ctx *Context) error { return RequireAuth(ctx) }

func (c *HabitListCmd) Run(ctx *Context) error {
	habits, err := ctx.API.ListHabits(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load habits: %s", api.UserMessage(err))
	}

	if len(habits) == 0 {
		fmt.Println("No habits yet. Add one with 'habitx habit add'.")
		return nil
	}

	today := todayString()
	for _, h := range habits {
		status := "[ ]"
		if h.CompletedOn(today) {
			status = "[x]"
		}
		streak := ""
		if h.Streak > 0 {
			streak = fmt.Sprintf("  (%d-day streak)", h.Streak)
		}
		fmt.Printf("%s %s%s\n", status, h.Name, streak)
	}
	return nil
}

type HabitToggleCmd struct {
	Name string `arg:"" help:"Name of the habit to toggle."`
}

func (c *HabitToggleCmd) Validate(ctx *Context) error { return RequireAuth(ctx) }

func (c *HabitToggleCmd) Run(ctx *Context) error {
	seq := newSequencer(ctx)
	if err := seq.Refresh(context.Background()); err != nil {
		return fmt.Errorf("failed to load habits: %s", api.UserMessage(err))
	}

	habit, err := findHabitByName(seq.Habits(), c.Name)
	if err != nil {
		return err
	}

	if err := seq.Toggle(context.Background(), habit.ID); err != nil {
		// The sequencer already surfaced user-facing copy.
		return fmt.Errorf("toggle failed")
	}

	today := todayString()
	for _, h := range seq.Habits() {
		if h.ID == habit.ID {
			if h.CompletedOn(today) {
				fmt.Printf("Completed %q for today.\n", h.Name)
			} else {
				fmt.Printf("Unmarked %q for today.\n", h.Name)
			}
		}
	}
	return nil
}

type HabitDeleteCmd struct {
	Name string `arg:"" help:"Name of the habit to delete."`
}

func (c *HabitDeleteCmd) Validate(ctx *Context) error { return RequireAuth(ctx) }

func (c *HabitDeleteCmd) Run(ctx *Context) error {
	seq := newSequencer(ctx)
	if err := seq.Refresh(context.Background()); err != nil {
		return fmt.Errorf("failed to load habits: %s", api.UserMessage(err))
	}

	habit, err := findHabitByName(seq.Habits(), c.Name)
	if err != nil {
		return err
	}

	if err := seq.Delete(context.Background(), habit.ID); err != nil {
		return fmt.Errorf("failed to delete habit: %s", api.UserMessage(err))
	}

	fmt.Printf("Deleted habit: %s\n", habit.Name)
	return nil
}

func findHabitByName(habits []models.Habit, name string) (models.Habit, error) {
	for _, h := range habits {
		if h.Name == name {
			return h, nil
		}
	}
	return models.Habit{}, fmt.Errorf("habit %q not found", name)
}
