package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/habitx-app/habitx-cli/internal/api"
	"github.com/habitx-app/habitx-cli/internal/cli"
	"github.com/habitx-app/habitx-cli/internal/cli/settings"
	"github.com/habitx-app/habitx-cli/internal/cli/system"
	"github.com/habitx-app/habitx-cli/internal/constants"
	apperrors "github.com/habitx-app/habitx-cli/internal/errors"
	"github.com/habitx-app/habitx-cli/internal/keyring"
	"github.com/habitx-app/habitx-cli/internal/logger"
	"github.com/habitx-app/habitx-cli/internal/notifier"
	"github.com/habitx-app/habitx-cli/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Debug   bool   `help:"Enable debug logging."`
	Config  string `help:"Local store path or PostgreSQL connection string. For PostgreSQL, credentials must NOT be embedded in the connection string. Use environment variables or .pgpass instead." type:"string" default:"~/.config/habitx/habitx.db"`

	Init          system.InitCmd       `cmd:"" help:"Initialize the local store."`
	Doctor        system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Tui           system.TuiCmd        `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Login         cli.LoginCmd         `cmd:"" help:"Sign in to your HabitX account."`
	Register      cli.RegisterCmd      `cmd:"" help:"Create a new HabitX account."`
	Logout        cli.LogoutCmd        `cmd:"" help:"Sign out and clear stored credentials."`
	Whoami        cli.WhoamiCmd        `cmd:"" help:"Show the signed-in profile."`
	Profile       cli.ProfileCmd       `cmd:"" help:"Show or update your profile."`
	Verify        cli.VerifyCmd        `cmd:"" help:"Verify your email address."`
	ResetPassword cli.ResetPasswordCmd `cmd:"" name:"reset-password" help:"Send a password reset email."`
	Habit         cli.HabitCmd         `cmd:"" help:"Manage habits and completions."`
	Friends       cli.FriendsCmd       `cmd:"" help:"Manage friends and friend requests."`
	Challenge     cli.ChallengeCmd     `cmd:"" help:"Browse and join challenges."`
	Leaderboard   cli.LeaderboardCmd   `cmd:"" help:"Show the leaderboard."`
	Watch         cli.WatchCmd         `cmd:"" help:"Poll for new friend requests and notify."`
	Settings      settings.SettingsCmd `cmd:"" help:"Manage notification settings."`
	Notify        system.NotifyCmd     `cmd:"" hidden:"" help:"Send a notification (used internally)."`
}

func main() {
	// Optional .env for local development; silently absent in production.
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with streaks, friends, and challenges"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	config := CLI.Config
	if conn := os.Getenv("HABITX_DB_CONNECTION"); conn != "" {
		config = conn
	}

	var store storage.Provider
	var configDir string
	if strings.HasPrefix(config, "postgres://") || strings.HasPrefix(config, "postgresql://") {
		if storage.HasEmbeddedCredentials(config) {
			fmt.Fprintf(os.Stderr, "❌ Error: PostgreSQL connection strings with embedded credentials are NOT allowed.\n")
			fmt.Fprintf(os.Stderr, "       Use one of these alternatives:\n")
			fmt.Fprintf(os.Stderr, "       1. Environment:  export HABITX_DB_CONNECTION=\"postgresql://user@host:5432/habitx\" with PGPASSWORD\n")
			fmt.Fprintf(os.Stderr, "       2. .pgpass file: connection string without a password\n")
			os.Exit(1)
		}
		store = storage.NewPostgresStore(config)
		configDir = expandHome("~/.config/habitx")
	} else {
		path := expandHome(config)
		store = storage.NewSQLiteStore(path)
		configDir = filepath.Dir(path)
	}

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	apiURL := os.Getenv("HABITX_API_URL")
	if apiURL == "" {
		apiURL = constants.DefaultAPIBaseURL
	}

	appCtx := &cli.Context{
		Store:    store,
		Firebase: api.NewFirebaseClient(os.Getenv("HABITX_FIREBASE_API_KEY")),
		Notifier: notifier.New(),
		Debug:    CLI.Debug,
	}
	appCtx.API = api.New(apiURL,
		api.WithTokenSource(func() (string, error) {
			token, err := keyring.GetToken()
			if errors.Is(err, keyring.ErrNotFound) {
				// Signed out is not an error; the request goes unauthenticated.
				return "", nil
			}
			return token, err
		}),
		api.WithSignOut(appCtx.SignOut),
	)

	// Load the store before running the command; the init command handles
	// its own bootstrap.
	if ctx.Selected() != nil && ctx.Selected().Name != "init" {
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}
	}

	apperrors.Fatal(ctx.Run(appCtx))
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
