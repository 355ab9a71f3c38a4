package system

import (
	"context"
	"fmt"
	"time"

	"github.com/habitx-app/habitx-cli/internal/cli"
	"github.com/habitx-app/habitx-cli/internal/keyring"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false

	// Check 1: local storage reachable
	if err := checkStorage(ctx); err != nil {
		fmt.Printf("❌ Local storage: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Local storage: OK (%s)\n", ctx.Store.GetConfigPath())
	}

	// Check 2: backend reachable
	if err := checkBackend(ctx); err != nil {
		fmt.Printf("❌ Backend reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Backend reachable: OK\n")
	}

	// Check 3: keyring available
	if !keyring.IsAvailable() {
		fmt.Printf("❌ OS keyring: FAIL\n")
		fmt.Printf("   Error: keyring is not usable on this system\n")
		hasError = true
	} else if ctx.SignedIn() {
		fmt.Printf("✓ OS keyring: OK (signed in)\n")
	} else {
		fmt.Printf("✓ OS keyring: OK (signed out)\n")
	}

	// Check 4: tray notifier (warning only; stdout fallback exists)
	if err := ctx.Notifier.Probe(); err != nil {
		fmt.Printf("⚠ Tray notifier: WARNING\n")
		fmt.Printf("   %v (notifications will print to the terminal)\n", err)
	} else {
		fmt.Printf("✓ Tray notifier: OK\n")
	}

	// Check 5: friend-request breaker
	if ctx.API.FriendBreakerOpen() {
		fmt.Printf("⚠ Friend requests: WARNING\n")
		fmt.Printf("   Circuit open after repeated failures; polling resumes within a minute\n")
	} else {
		fmt.Printf("✓ Friend requests: OK\n")
	}

	// Check 6: clock sanity
	if err := checkClock(); err != nil {
		fmt.Printf("❌ Clock: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock: OK\n")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkStorage(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	if _, err := ctx.Store.GetSettings(); err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	return nil
}

func checkBackend(ctx *cli.Context) error {
	bg, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return ctx.API.Health(bg)
}

// Clock skew breaks today-string comparison against server completion dates.
func checkClock() error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
