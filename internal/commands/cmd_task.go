package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/stefanpenner/intentions/pkg/task"
)

type TaskCmd struct {
	flags *Flags

	// flags
	count    int
	title    string
	priority string
	due      string
	clearDue bool
}

// NewTaskCmd creates the commands that act on a single task
func NewTaskCmd(flags *Flags) *TaskCmd {
	return &TaskCmd{flags: flags}
}

// Register adds the single-task commands to the application
func (cmd *TaskCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands,
		cmd.statusCmd("done", "Mark a task done", func(i int) error {
			return cmd.flags.Session.SetCompleted(i, true)
		}),
		cmd.statusCmd("undone", "Mark a task not done", func(i int) error {
			return cmd.flags.Session.SetCompleted(i, false)
		}),
		cmd.statusCmd("start", "Start logging work on a task", func(i int) error {
			return cmd.flags.Session.SetInProgress(i, true)
		}),
		cmd.statusCmd("stop", "Stop logging work on a task", func(i int) error {
			return cmd.flags.Session.SetInProgress(i, false)
		}),
		&cli.Command{
			Name:      "clear-progress",
			Usage:     "Drop logged work from a task",
			ArgsUsage: "<n>",
			Description: `Removes the oldest --count start/stop pairs from the task's work log, or
all of them by default. A running work period is kept.`,
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:        "count",
					Usage:       "number of work periods to drop (-1 for all)",
					Value:       -1,
					Destination: &cmd.count,
				},
			},
			Action: func(ctx context.Context, c *cli.Command) error {
				return cmd.withTask(c, "Cleared", func(i int) error {
					return cmd.flags.Session.ClearProgress(i, cmd.count)
				})
			},
		},
		&cli.Command{
			Name:      "set",
			Usage:     "Change a task's title, priority or due date",
			ArgsUsage: "<n>",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "title", Usage: "new title", Destination: &cmd.title},
				&cli.StringFlag{Name: "priority", Aliases: []string{"p"}, Usage: "priority letter A-Z, or 'none'", Destination: &cmd.priority},
				&cli.StringFlag{Name: "due", Usage: "due date (YYYY-MM-DD)", Destination: &cmd.due},
				&cli.BoolFlag{Name: "clear-due", Usage: "remove the due date", Destination: &cmd.clearDue},
			},
			Action: cmd.runSet,
		},
		&cli.Command{
			Name:      "delete",
			Aliases:   []string{"rm"},
			Usage:     "Delete a task",
			ArgsUsage: "<n>",
			Action:    cmd.runDelete,
		},
		&cli.Command{
			Name:      "move",
			Usage:     "Swap a task with its neighbour",
			ArgsUsage: "<n> up|down",
			Action:    cmd.runMove,
		},
		&cli.Command{
			Name:      "show",
			Usage:     "Print a task as markdown with YAML frontmatter",
			ArgsUsage: "<n>",
			Action:    cmd.runShow,
		},
	)
	return app
}

func (cmd *TaskCmd) statusCmd(name, usage string, fn func(i int) error) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "<n>",
		Action: func(ctx context.Context, c *cli.Command) error {
			return cmd.withTask(c, "Updated", fn)
		},
	}
}

// withTask resolves the task number argument, applies fn and reports the
// result.
func (cmd *TaskCmd) withTask(c *cli.Command, verb string, fn func(i int) error) error {
	i, _, err := cmd.flags.taskAt(c.Args().First())
	if err != nil {
		return err
	}
	if err := fn(i); err != nil {
		return err
	}
	return cmd.flags.report(c.Root().Writer, verb, i)
}

func (cmd *TaskCmd) runSet(ctx context.Context, c *cli.Command) error {
	var priority task.Priority
	if cmd.priority != "" && cmd.priority != "none" {
		p, err := parsePriority(cmd.priority)
		if err != nil {
			return err
		}
		priority = p
	}
	due, err := parseDue(cmd.due)
	if err != nil {
		return err
	}

	return cmd.withTask(c, "Updated", func(i int) error {
		return cmd.flags.Session.Update(i, func(t *task.Task) error {
			if cmd.title != "" {
				t.Title = cmd.title
			}
			if cmd.priority != "" {
				t.SetPriority(priority)
			}
			if due != nil {
				t.SetDue(due)
			}
			if cmd.clearDue {
				t.SetDue(nil)
			}
			return nil
		})
	})
}

func (cmd *TaskCmd) runDelete(ctx context.Context, c *cli.Command) error {
	i, _, err := cmd.flags.taskAt(c.Args().First())
	if err != nil {
		return err
	}
	t, err := cmd.flags.Session.Delete(i)
	if err != nil {
		return err
	}
	out := c.Root().Writer
	if cmd.flags.JSON {
		return writeJSON(out, newTaskInfo(i, t))
	}
	_, err = fmt.Fprintf(out, "Deleted %d: %s\n", i+1, t.Summary())
	return err
}

func (cmd *TaskCmd) runMove(ctx context.Context, c *cli.Command) error {
	i, _, err := cmd.flags.taskAt(c.Args().First())
	if err != nil {
		return err
	}

	var delta int
	switch c.Args().Get(1) {
	case "up":
		delta = -1
	case "down":
		delta = 1
	default:
		return fmt.Errorf("direction must be up or down")
	}

	dest, err := cmd.flags.Session.Move(i, delta)
	if err != nil {
		return err
	}
	return cmd.flags.report(c.Root().Writer, "Moved to", dest)
}

func (cmd *TaskCmd) runShow(ctx context.Context, c *cli.Command) error {
	i, t, err := cmd.flags.taskAt(c.Args().First())
	if err != nil {
		return err
	}
	out := c.Root().Writer
	if cmd.flags.JSON {
		return writeJSON(out, newTaskInfo(i, t))
	}
	md, err := t.Markdown()
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(out, md)
	return err
}
