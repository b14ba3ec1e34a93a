package commands

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/stefanpenner/intentions/pkg/session"
)

type ListCmd struct {
	flags *Flags

	// flags
	labels []string
}

// NewListCmd creates a new list command
func NewListCmd(flags *Flags) *ListCmd {
	return &ListCmd{flags: flags}
}

// Register adds the list and labels commands to the application
func (cmd *ListCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands,
		&cli.Command{
			Name:      "list",
			Aliases:   []string{"ls"},
			Usage:     "List tasks",
			UsageText: "intentions list [--label pattern]... [words...]",
			Description: `Prints the task list with the numbers other commands take.

Words must all appear in a task's title or description (case-sensitive).
Each --label is a glob over label names, e.g. --label 'work/**'.`,
			Flags: []cli.Flag{
				&cli.StringSliceFlag{
					Name:        "label",
					Aliases:     []string{"l"},
					Usage:       "label pattern the task must match (repeatable)",
					Destination: &cmd.labels,
				},
			},
			Action: cmd.run,
		},
		&cli.Command{
			Name:   "labels",
			Usage:  "List every label in use",
			Action: cmd.runLabels,
		},
	)
	return app
}

func (cmd *ListCmd) run(ctx context.Context, c *cli.Command) error {
	f := session.Filter{Query: joinArgs(c.Args().Slice()), Labels: cmd.labels}
	indices, err := cmd.flags.Session.Find(f)
	if err != nil {
		return err
	}

	tasks := cmd.flags.Session.Tasks()
	out := c.Root().Writer

	if cmd.flags.JSON {
		infos := make([]taskInfo, 0, len(indices))
		for _, i := range indices {
			infos = append(infos, newTaskInfo(i, tasks[i]))
		}
		return writeJSON(out, infos)
	}

	if len(indices) == 0 {
		_, err := fmt.Fprintln(out, "No tasks.")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "#\tSTATUS\tPRI\tDUE\tTITLE")
	for _, i := range indices {
		t := tasks[i]
		pri, due := "-", "-"
		if t.Priority.IsSet() {
			pri = t.Priority.String()
		}
		if t.Due != nil {
			due = t.Due.Local().Format("2006-01-02")
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i+1, t.StatusGlyph(), pri, due, t.Title)
	}
	return w.Flush()
}

func (cmd *ListCmd) runLabels(ctx context.Context, c *cli.Command) error {
	labels := cmd.flags.Session.Labels()
	out := c.Root().Writer
	if cmd.flags.JSON {
		if labels == nil {
			labels = []string{}
		}
		return writeJSON(out, labels)
	}
	if len(labels) == 0 {
		return nil
	}
	_, err := fmt.Fprintln(out, strings.Join(labels, "\n"))
	return err
}
