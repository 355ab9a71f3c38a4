package cli

import (
	"context"
	"fmt"

	"github.com/habitx-app/habitx-cli/internal/api"
)

type ChallengeCmd struct {
	List  ChallengeListCmd  `cmd:"" help:"List group challenges." default:"1"`
	Show  ChallengeShowCmd  `cmd:"" help:"Show a challenge with standings."`
	Join  ChallengeJoinCmd  `cmd:"" help:"Join a challenge."`
	Leave ChallengeLeaveCmd `cmd:"" help:"Leave a challenge."`
}

type ChallengeListCmd struct{}

func (c *ChallengeListCmd) Validate(ctx *Context) error { return RequireAuth(ctx) }

func (c *ChallengeListCmd) Run(ctx *Context) error {
	challenges, err := ctx.API.ListChallenges(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load challenges: %s", api.UserMessage(err))
	}

	if len(challenges) == 0 {
		fmt.Println("No challenges available right now.")
		return nil
	}

	for _, ch := range challenges {
		joined := " "
		if ch.Joined {
			joined = "*"
		}
		fmt.Printf("%s %-28s %-8s %s → %s  %d participants  (id %s)\n",
			joined, ch.Name, ch.Status, ch.StartDate, ch.EndDate, ch.ParticipantCount, ch.ID)
	}
	return nil
}

type ChallengeShowCmd struct {
	ID string `arg:"" help:"Challenge id."`
}

func (c *ChallengeShowCmd) Validate(ctx *Context) error { return RequireAuth(ctx) }

func (c *ChallengeShowCmd) Run(ctx *Context) error {
	detail, err := ctx.API.GetChallenge(context.Background(), c.ID)
	if err != nil {
		return fmt.Errorf("failed to load challenge: %s", api.UserMessage(err))
	}

	ch := detail.Challenge
	fmt.Printf("%s (%s)\n", ch.Name, ch.Status)
	if ch.Description != "" {
		fmt.Println(ch.Description)
	}
	fmt.Printf("%s → %s\n\n", ch.StartDate, ch.EndDate)

	if len(detail.Participants) == 0 {
		fmt.Println("No participants yet.")
		return nil
	}
	for _, p := range detail.Participants {
		fmt.Printf("%3d. %-24s %d days completed\n", p.Rank, p.User.Username, p.CompletedDays)
	}
	return nil
}

type ChallengeJoinCmd struct {
	ID string `arg:"" help:"Challenge id."`
}

func (c *ChallengeJoinCmd) Validate(ctx *Context) error { return RequireAuth(ctx) }

func (c *ChallengeJoinCmd) Run(ctx *Context) error {
	if err := ctx.API.JoinChallenge(context.Background(), c.ID); err != nil {
		return fmt.Errorf("failed to join challenge: %s", api.UserMessage(err))
	}
	fmt.Println("Joined the challenge. Good luck!")
	return nil
}

type ChallengeLeaveCmd struct {
	ID string `arg:"" help:"Challenge id."`
}

func (c *ChallengeLeaveCmd) Validate(ctx *Context) error { return RequireAuth(ctx) }

func (c *ChallengeLeaveCmd) Run(ctx *Context) error {
	if err := ctx.API.LeaveChallenge(context.Background(), c.ID); err != nil {
		return fmt.Errorf("failed to leave challenge: %s", api.UserMessage(err))
	}
	fmt.Println("Left the challenge.")
	return nil
}
