package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/stefanpenner/intentions/pkg/session"
)

type SortCmd struct {
	flags *Flags
}

// NewSortCmd creates a new sort command
func NewSortCmd(flags *Flags) *SortCmd {
	return &SortCmd{flags: flags}
}

// Register adds the sort command to the application
func (cmd *SortCmd) Register(app *cli.Command) *cli.Command {
	keys := make([]string, 0, len(session.SortKeys()))
	for _, k := range session.SortKeys() {
		keys = append(keys, string(k))
	}

	app.Commands = append(app.Commands, &cli.Command{
		Name:        "sort",
		Usage:       "Reorder the task list",
		ArgsUsage:   "<key>",
		Description: "Stably sorts the list by one of: " + strings.Join(keys, ", "),
		Action:      cmd.run,
	})
	return app
}

func (cmd *SortCmd) run(ctx context.Context, c *cli.Command) error {
	key, err := session.ParseSortKey(c.Args().First())
	if err != nil {
		return err
	}
	if err := cmd.flags.Session.Sort(key); err != nil {
		return err
	}
	if cmd.flags.JSON {
		return writeJSON(c.Root().Writer, map[string]any{"sorted_by": key, "tasks": cmd.flags.Session.Len()})
	}
	_, err = fmt.Fprintf(c.Root().Writer, "Sorted %d tasks by %s\n", cmd.flags.Session.Len(), key)
	return err
}
