package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/habitx-app/habitx-cli/internal/api"
	"github.com/habitx-app/habitx-cli/internal/breaker"
	"github.com/habitx-app/habitx-cli/internal/models"
	"github.com/habitx-app/habitx-cli/internal/validation"
)

type FriendsCmd struct {
	List     FriendsListCmd     `cmd:"" help:"List your friends." default:"1"`
	Requests FriendsRequestsCmd `cmd:"" help:"Show pending friend requests."`
	Add      FriendsAddCmd      `cmd:"" help:"Send a friend request."`
	Accept   FriendsAcceptCmd   `cmd:"" help:"Accept a pending request."`
	Decline  FriendsDeclineCmd  `cmd:"" help:"Decline a pending request."`
	Cancel   FriendsCancelCmd   `cmd:"" help:"Withdraw a request you sent."`
}

type FriendsListCmd struct{}

func (c *FriendsListCmd) Validate(ctx *Context) error { return RequireAuth(ctx) }

func (c *FriendsListCmd) Run(ctx *Context) error {
	friends, err := ctx.API.ListFriends(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load friends: %s", api.UserMessage(err))
	}

	if len(friends) == 0 {
		fmt.Println("No friends yet. Send a request with 'habitx friends add <username>'.")
		return nil
	}

	for _, f := range friends {
		name := f.User.DisplayName
		if name == "" {
			name = f.User.Username
		}
		fmt.Printf("%-24s level %d, %d-day streak\n", name, f.User.Level, f.Streak)
	}
	return nil
}

type FriendsRequestsCmd struct{}

func (c *FriendsRequestsCmd) Validate(ctx *Context) error { return RequireAuth(ctx) }

func (c *FriendsRequestsCmd) Run(ctx *Context) error {
	list, err := ctx.API.FriendRequests(context.Background())
	if err != nil {
		if errors.Is(err, breaker.ErrOpen) {
			fmt.Println("Friend requests are temporarily unavailable. Try again in a minute.")
			return nil
		}
		return fmt.Errorf("failed to load friend requests: %s", api.UserMessage(err))
	}

	if len(list.Received) == 0 && len(list.Sent) == 0 {
		fmt.Println("No pending friend requests.")
		return nil
	}

	if len(list.Received) > 0 {
		fmt.Println("Received:")
		for _, fr := range list.Received {
			fmt.Printf("  %s  (id %s)\n", requesterName(fr), fr.ID)
		}
	}
	if len(list.Sent) > 0 {
		fmt.Println("Sent:")
		for _, fr := range list.Sent {
			fmt.Printf("  %s  (id %s)\n", fr.Recipient.Username, fr.ID)
		}
	}
	return nil
}

type FriendsAddCmd struct {
	Username string `arg:"" help:"Username to befriend."`
}

func (c *FriendsAddCmd) Validate(ctx *Context) error {
	if err := RequireAuth(ctx); err != nil {
		return err
	}
	return validation.Username(c.Username)
}

func (c *FriendsAddCmd) Run(ctx *Context) error {
	fr, err := ctx.API.SendFriendRequest(context.Background(), c.Username)
	if err != nil {
		return fmt.Errorf("failed to send friend request: %s", api.UserMessage(err))
	}
	fmt.Printf("Friend request sent to %s.\n", fr.Recipient.Username)
	return nil
}

type FriendsAcceptCmd struct {
	ID string `arg:"" help:"Request id (see 'habitx friends requests')."`
}

func (c *FriendsAcceptCmd) Validate(ctx *Context) error { return RequireAuth(ctx) }

func (c *FriendsAcceptCmd) Run(ctx *Context) error {
	if err := ctx.API.AcceptFriendRequest(context.Background(), c.ID); err != nil {
		return fmt.Errorf("failed to accept request: %s", api.UserMessage(err))
	}
	fmt.Println("Friend request accepted.")
	return nil
}

type FriendsDeclineCmd struct {
	ID string `arg:"" help:"Request id (see 'habitx friends requests')."`
}

func (c *FriendsDeclineCmd) Validate(ctx *Context) error { return RequireAuth(ctx) }

func (c *FriendsDeclineCmd) Run(ctx *Context) error {
	if err := ctx.API.DeclineFriendRequest(context.Background(), c.ID); err != nil {
		return fmt.Errorf("failed to decline request: %s", api.UserMessage(err))
	}
	fmt.Println("Friend request declined.")
	return nil
}

type FriendsCancelCmd struct {
	ID string `arg:"" help:"Request id (see 'habitx friends requests')."`
}

func (c *FriendsCancelCmd) Validate(ctx *Context) error { return RequireAuth(ctx) }

func (c *FriendsCancelCmd) Run(ctx *Context) error {
	if err := ctx.API.CancelFriendRequest(context.Background(), c.ID); err != nil {
		return fmt.Errorf("failed to cancel request: %s", api.UserMessage(err))
	}
	fmt.Println("Friend request withdrawn.")
	return nil
}

func requesterName(fr models.FriendRequest) string {
	if fr.Requester.DisplayName != "" {
		return fr.Requester.DisplayName
	}
	return fr.Requester.Username
}
