package system

import (
	"fmt"

	"github.com/habitx-app/habitx-cli/internal/cli"
	"github.com/habitx-app/habitx-cli/internal/notifier"
)

// NotifyCmd exercises the tray notification path. Hidden; used for manual
// testing and by scripts.
type NotifyCmd struct {
	Title string `help:"Notification title." default:"HabitX"`
	Text  string `arg:"" help:"Notification text."`
	Kind  string `help:"Kind: friend_request, streak, perfect_day, achievement, reminder." default:"reminder"`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	switch notifier.Kind(c.Kind) {
	case notifier.KindFriendRequest, notifier.KindStreak, notifier.KindPerfectDay,
		notifier.KindAchievement, notifier.KindReminder:
	default:
		return fmt.Errorf("invalid kind %q", c.Kind)
	}

	if err := ctx.Notifier.Notify(notifier.Kind(c.Kind), c.Title, c.Text); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	fmt.Println("Notification sent.")
	return nil
}
