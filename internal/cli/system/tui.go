package system

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/habitx-app/habitx-cli/internal/cli"
	"github.com/habitx-app/habitx-cli/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Validate(ctx *cli.Context) error { return cli.RequireAuth(ctx) }

func (c *TuiCmd) Run(ctx *cli.Context) error {
	p := tea.NewProgram(
		tui.NewModel(ctx.API, ctx.Store, ctx.Notifier),
		tea.WithAltScreen(),
		tea.WithReportFocus(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
	return nil
}
