package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/stefanpenner/intentions/pkg/task"
)

const dateLayout = "2006-01-02"

type AddCmd struct {
	flags *Flags

	// flags
	description string
	priority    string
	due         string
	labels      []string
}

// NewAddCmd creates a new add command
func NewAddCmd(flags *Flags) *AddCmd {
	return &AddCmd{flags: flags}
}

// Register adds the add command to the application
func (cmd *AddCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "add",
		Usage:     "Add a task to the end of the list",
		UsageText: "intentions add [options] <title...>",
		Description: `Adds a task. Words in the title starting with '#' are labels; --label
appends more.

Example:
  intentions add --priority B --due 2025-03-01 --label work file the report`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "desc",
				Aliases:     []string{"d"},
				Usage:       "description",
				Destination: &cmd.description,
			},
			&cli.StringFlag{
				Name:        "priority",
				Aliases:     []string{"p"},
				Usage:       "priority letter A-Z",
				Destination: &cmd.priority,
			},
			&cli.StringFlag{
				Name:        "due",
				Usage:       "due date (YYYY-MM-DD)",
				Destination: &cmd.due,
			},
			&cli.StringSliceFlag{
				Name:        "label",
				Aliases:     []string{"l"},
				Usage:       "label to add (repeatable)",
				Destination: &cmd.labels,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *AddCmd) run(ctx context.Context, c *cli.Command) error {
	title := joinArgs(c.Args().Slice())
	if title == "" {
		return fmt.Errorf("a title is required")
	}

	priority, err := parsePriority(cmd.priority)
	if err != nil {
		return err
	}
	due, err := parseDue(cmd.due)
	if err != nil {
		return err
	}

	t := task.New(title, cmd.description, priority, due)
	t.AddLabels(cmd.labels...)

	i, err := cmd.flags.Session.Add(t)
	if err != nil {
		return err
	}
	return cmd.flags.report(c.Root().Writer, "Added", i)
}

func parsePriority(s string) (task.Priority, error) {
	if s == "" {
		return task.PriorityNone, nil
	}
	p := task.ParsePriority(strings.ToUpper(s))
	if !p.IsSet() {
		return task.PriorityNone, fmt.Errorf("priority %q is not a letter A-Z", s)
	}
	return p, nil
}

func parseDue(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return nil, fmt.Errorf("due date %q: want YYYY-MM-DD", s)
	}
	return &d, nil
}
