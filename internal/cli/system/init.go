package system

import (
	"fmt"
	"os"

	"github.com/habitx-app/habitx-cli/internal/cli"
	"github.com/habitx-app/habitx-cli/internal/storage"
)

type InitCmd struct {
	Force bool `help:"Force reset by deleting the existing local database before initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if _, ok := ctx.Store.(*storage.SQLiteStore); !ok {
			return fmt.Errorf("--force only applies to the sqlite backend")
		}
		dbPath := ctx.Store.GetConfigPath()
		if _, err := os.Stat(dbPath); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized habitx storage at: %s\n", ctx.Store.GetConfigPath())
	fmt.Println("Next: 'habitx login' or 'habitx register'.")
	return nil
}
