package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/habitx-app/habitx-cli/internal/notifier"
	"github.com/habitx-app/habitx-cli/internal/watcher"
)

type WatchCmd struct {
	Interval time.Duration `help:"Poll interval." default:"30s"`
}

func (c *WatchCmd) Validate(ctx *Context) error { return RequireAuth(ctx) }

// Run polls for new friend requests until interrupted. Notifications go
// through the tray app when it is running and degrade to stdout otherwise.
func (c *WatchCmd) Run(ctx *Context) error {
	bg, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := watcher.New(ctx.API, ctx.Store, func(kind notifier.Kind, title, text string) error {
		if err := ctx.Notifier.Notify(kind, title, text); err != nil {
			// Stdout fallback still counts as delivered.
			fmt.Printf("%s: %s\n", title, text)
		}
		return nil
	}, watcher.WithInterval(c.Interval))

	if err := w.Init(bg); err != nil {
		return err
	}
	defer w.Close()

	fmt.Printf("Watching for friend requests every %s. Press Ctrl+C to stop.\n", c.Interval)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	fmt.Println("\nStopping.")
	return nil
}
