package settings

import (
	"fmt"

	"github.com/habitx-app/habitx-cli/internal/cli"
	"github.com/habitx-app/habitx-cli/internal/validation"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	NotificationsEnabled *bool   `help:"Master switch for local notifications."`
	FriendRequestAlerts  *bool   `help:"Notify on new friend requests."`
	StreakAlerts         *bool   `help:"Notify on streak milestones and perfect days."`
	DailyReminder        *bool   `help:"Send a daily completion reminder."`
	ReminderTime         *string `help:"Reminder time in HH:MM."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		fmt.Println("Notification Settings:")
		fmt.Printf("  Notifications Enabled: %v\n", settings.NotificationsEnabled)
		fmt.Printf("  Friend Request Alerts: %v\n", settings.FriendRequestAlerts)
		fmt.Printf("  Streak Alerts:         %v\n", settings.StreakAlerts)
		fmt.Printf("  Daily Reminder:        %v\n", settings.DailyReminder)
		fmt.Printf("  Reminder Time:         %s\n", settings.ReminderTime)
		return nil
	}

	updated := false
	if c.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *c.NotificationsEnabled
		updated = true
	}
	if c.FriendRequestAlerts != nil {
		settings.FriendRequestAlerts = *c.FriendRequestAlerts
		updated = true
	}
	if c.StreakAlerts != nil {
		settings.StreakAlerts = *c.StreakAlerts
		updated = true
	}
	if c.DailyReminder != nil {
		settings.DailyReminder = *c.DailyReminder
		updated = true
	}
	if c.ReminderTime != nil {
		if err := validation.ReminderTime(*c.ReminderTime); err != nil {
			return err
		}
		settings.ReminderTime = *c.ReminderTime
		updated = true
	}

	if updated {
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		fmt.Println("Settings updated successfully.")
	} else {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
	}

	return nil
}
