package cli

import (
	"context"
	"fmt"

	"github.com/habitx-app/habitx-cli/internal/api"
	"github.com/habitx-app/habitx-cli/internal/models"
)

type LeaderboardCmd struct {
	Scope string `arg:"" optional:"" help:"Scope: global or friends." default:"global"`
}

func (c *LeaderboardCmd) Validate(ctx *Context) error {
	if err := RequireAuth(ctx); err != nil {
		return err
	}
	switch models.LeaderboardScope(c.Scope) {
	case models.LeaderboardGlobal, models.LeaderboardFriends:
		return nil
	}
	return fmt.Errorf("invalid scope %q (global, friends)", c.Scope)
}

func (c *LeaderboardCmd) Run(ctx *Context) error {
	entries, err := ctx.API.Leaderboard(context.Background(), models.LeaderboardScope(c.Scope))
	if err != nil {
		return fmt.Errorf("failed to load leaderboard: %s", api.UserMessage(err))
	}

	if len(entries) == 0 {
		fmt.Println("Leaderboard is empty.")
		return nil
	}

	for _, e := range entries {
		marker := "  "
		if e.IsSelf {
			marker = "→ "
		}
		fmt.Printf("%s%3d. %-24s level %-3d %6d XP  %d-day streak\n",
			marker, e.Rank, e.Username, e.Level, e.XP, e.Streak)
	}
	return nil
}
