package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/habitx-app/habitx-cli/internal/api"
	"github.com/habitx-app/habitx-cli/internal/keyring"
	"github.com/habitx-app/habitx-cli/internal/logger"
	"github.com/habitx-app/habitx-cli/internal/validation"
)

type LoginCmd struct {
	Email    string `help:"Account email. Prompted when omitted."`
	Password string `help:"Account password. Prompted when omitted."`
}

func (c *LoginCmd) Run(ctx *Context) error {
	if c.Email == "" || c.Password == "" {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Email").
					Value(&c.Email).
					Validate(validation.Email),
				huh.NewInput().
					Title("Password").
					EchoMode(huh.EchoModePassword).
					Value(&c.Password),
			),
		).WithTheme(huh.ThemeDracula())
		if err := form.Run(); err != nil {
			return err
		}
	}
	if err := validation.Email(c.Email); err != nil {
		return err
	}

	session, err := ctx.API.Login(context.Background(), api.LoginRequest{
		Email:    c.Email,
		Password: c.Password,
	})
	if err != nil {
		return fmt.Errorf("login failed: %s", api.UserMessage(err))
	}

	if err := keyring.SetToken(session.Token); err != nil {
		return fmt.Errorf("failed to store session token: %w", err)
	}
	if err := ctx.Store.SaveCachedUser(session.User); err != nil {
		logger.Warn("Failed to cache profile", "error", err)
	}

	fmt.Printf("Signed in as %s\n", session.User.Username)
	if !session.User.EmailVerified {
		fmt.Println("Your email is not verified yet. Run 'habitx verify' after clicking the link we sent you.")
	}
	return nil
}

type RegisterCmd struct {
	Email    string `help:"Account email. Prompted when omitted."`
	Username string `help:"Public username. Prompted when omitted."`
	Password string `help:"Account password. Prompted when omitted."`
}

func (c *RegisterCmd) Run(ctx *Context) error {
	if c.Email == "" || c.Username == "" || c.Password == "" {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Email").
					Value(&c.Email).
					Validate(validation.Email),
				huh.NewInput().
					Title("Username").
					Value(&c.Username).
					Validate(validation.Username),
				huh.NewInput().
					Title("Password").
					EchoMode(huh.EchoModePassword).
					Value(&c.Password).
					Validate(validation.Password),
			),
		).WithTheme(huh.ThemeDracula())
		if err := form.Run(); err != nil {
			return err
		}
	}
	if err := validation.Email(c.Email); err != nil {
		return err
	}
	if err := validation.Username(c.Username); err != nil {
		return err
	}
	if err := validation.Password(c.Password); err != nil {
		return err
	}

	bg := context.Background()

	// Firebase account first: its ID token proves email ownership to the
	// backend and drives the verification email.
	tokens, err := ctx.Firebase.SignUp(bg, c.Email, c.Password)
	if err != nil {
		return fmt.Errorf("account creation failed: %s", api.UserMessage(err))
	}
	if err := ctx.Firebase.SendVerificationEmail(bg, tokens.IDToken); err != nil {
		logger.Warn("Failed to send verification email", "error", err)
		fmt.Println("Could not send the verification email. You can resend it later with 'habitx verify --resend'.")
	}

	session, err := ctx.API.Register(bg, api.RegisterRequest{
		Email:    c.Email,
		Username: c.Username,
		Password: c.Password,
		IDToken:  tokens.IDToken,
	})
	if err != nil {
		return fmt.Errorf("registration failed: %s", api.UserMessage(err))
	}

	if err := keyring.SetToken(session.Token); err != nil {
		return fmt.Errorf("failed to store session token: %w", err)
	}
	if tokens.RefreshToken != "" {
		if err := keyring.SetRefreshToken(tokens.RefreshToken); err != nil {
			logger.Warn("Failed to store refresh token", "error", err)
		}
	}
	if err := ctx.Store.SaveCachedUser(session.User); err != nil {
		logger.Warn("Failed to cache profile", "error", err)
	}

	fmt.Printf("Welcome to HabitX, %s!\n", session.User.Username)
	fmt.Println("Check your inbox for a verification link, then run 'habitx verify --code <code>'.")
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *Context) error {
	ctx.SignOut()
	fmt.Println("Signed out.")
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Validate(ctx *Context) error { return RequireAuth(ctx) }

func (c *WhoamiCmd) Run(ctx *Context) error {
	user, err := ctx.CurrentUser(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load profile: %s", api.UserMessage(err))
	}

	fmt.Printf("Username:  %s\n", user.Username)
	if user.DisplayName != "" {
		fmt.Printf("Display:   %s\n", user.DisplayName)
	}
	fmt.Printf("Email:     %s", user.Email)
	if !user.EmailVerified {
		fmt.Print(" (unverified)")
	}
	fmt.Println()
	fmt.Printf("Level:     %d (%d XP)\n", user.Level, user.XP)
	return nil
}

type ProfileCmd struct {
	Username    *string `help:"Change your public username."`
	DisplayName *string `help:"Change your display name."`
}

func (c *ProfileCmd) Validate(ctx *Context) error {
	if err := RequireAuth(ctx); err != nil {
		return err
	}
	if c.Username != nil {
		return validation.Username(*c.Username)
	}
	return nil
}

func (c *ProfileCmd) Run(ctx *Context) error {
	if c.Username == nil && c.DisplayName == nil {
		user, err := ctx.CurrentUser(context.Background())
		if err != nil {
			return fmt.Errorf("failed to load profile: %s", api.UserMessage(err))
		}
		fmt.Printf("Username: %s\n", user.Username)
		if user.DisplayName != "" {
			fmt.Printf("Display:  %s\n", user.DisplayName)
		}
		return nil
	}

	user, err := ctx.API.UpdateProfile(context.Background(), api.UpdateProfileRequest{
		Username:    c.Username,
		DisplayName: c.DisplayName,
	})
	if err != nil {
		return fmt.Errorf("failed to update profile: %s", api.UserMessage(err))
	}

	if err := ctx.Store.SaveCachedUser(user); err != nil {
		logger.Warn("Failed to cache profile", "error", err)
	}
	fmt.Println("Profile updated.")
	return nil
}

type VerifyCmd struct {
	Code   string `help:"Out-of-band code from the verification link."`
	Resend bool   `help:"Resend the verification email instead."`
}

func (c *VerifyCmd) Run(ctx *Context) error {
	bg := context.Background()

	if c.Resend {
		refresh, err := keyring.GetRefreshToken()
		if err != nil {
			return fmt.Errorf("no stored credentials to resend with (log in again)")
		}
		tokens, err := ctx.Firebase.RefreshIDToken(bg, refresh)
		if err != nil {
			return fmt.Errorf("failed to refresh credentials: %s", api.UserMessage(err))
		}
		if err := ctx.Firebase.SendVerificationEmail(bg, tokens.IDToken); err != nil {
			return fmt.Errorf("failed to resend verification email: %s", api.UserMessage(err))
		}
		fmt.Println("Verification email sent. Check your inbox.")
		return nil
	}

	if c.Code == "" {
		return fmt.Errorf("provide --code from the verification link, or --resend")
	}

	email, err := ctx.Firebase.ApplyOobCode(bg, c.Code)
	if err != nil {
		return fmt.Errorf("verification failed: %s", api.UserMessage(err))
	}
	fmt.Printf("Email %s verified.\n", email)
	return nil
}

type ResetPasswordCmd struct {
	Email string `arg:"" help:"Email of the account to reset."`
}

func (c *ResetPasswordCmd) Run(ctx *Context) error {
	if err := validation.Email(c.Email); err != nil {
		return err
	}
	if err := ctx.Firebase.SendPasswordReset(context.Background(), c.Email); err != nil {
		return fmt.Errorf("failed to send reset email: %s", api.UserMessage(err))
	}
	fmt.Printf("Password reset email sent to %s.\n", c.Email)
	return nil
}
