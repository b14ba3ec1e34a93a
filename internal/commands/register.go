package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// RegisterAll adds every subcommand to app and makes the TUI its default
// action.
func RegisterAll(app *cli.Command, flags *Flags) *cli.Command {
	tuiCmd := NewTuiCmd(flags)

	app = NewListCmd(flags).Register(app)
	app = NewAddCmd(flags).Register(app)
	app = NewTaskCmd(flags).Register(app)
	app = NewEditCmd(flags).Register(app)
	app = NewSortCmd(flags).Register(app)
	app = NewExportCmd(flags).Register(app)
	app = NewSyncCmd(flags).Register(app)
	app = tuiCmd.Register(app)

	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'intentions --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}
	return app
}
