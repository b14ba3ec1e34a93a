package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/stefanpenner/intentions/pkg/store"
	"github.com/stefanpenner/intentions/pkg/task"
)

type ExportCmd struct {
	flags *Flags

	// flags
	out     string
	file    string
	replace bool
}

// NewExportCmd creates the export and import commands
func NewExportCmd(flags *Flags) *ExportCmd {
	return &ExportCmd{flags: flags}
}

// Register adds the export and import commands to the application
func (cmd *ExportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands,
		&cli.Command{
			Name:      "export",
			Usage:     "Write the task list as todo.txt, JSON or markdown",
			UsageText: "intentions export todotxt|json|markdown [--out path]",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:        "out",
					Aliases:     []string{"o"},
					Usage:       "write to a file instead of stdout",
					Destination: &cmd.out,
				},
			},
			Action: cmd.runExport,
		},
		&cli.Command{
			Name:      "import",
			Usage:     "Add tasks from a JSON task list",
			UsageText: "intentions import [--file path] [--replace] < tasks.json",
			Description: `Reads a JSON array of tasks in the same format as the task list file
(and 'intentions export json') and appends them to the list.

With --replace the imported tasks take the place of the whole list.`,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:        "file",
					Aliases:     []string{"f"},
					Usage:       "path to JSON file (reads from stdin if not provided)",
					Destination: &cmd.file,
				},
				&cli.BoolFlag{
					Name:        "replace",
					Usage:       "replace the list instead of appending",
					Destination: &cmd.replace,
				},
			},
			Action: cmd.runImport,
		},
	)
	return app
}

func (cmd *ExportCmd) runExport(ctx context.Context, c *cli.Command) error {
	var export func(w io.Writer) error
	switch format := c.Args().First(); format {
	case "todotxt", "todo.txt", "":
		export = cmd.flags.Session.ExportTodoTxt
	case "json":
		export = cmd.flags.Session.ExportJSON
	case "markdown", "md":
		export = cmd.flags.Session.ExportMarkdown
	default:
		return fmt.Errorf("unknown format %q (want todotxt, json or markdown)", format)
	}

	if cmd.out == "" {
		return export(c.Root().Writer)
	}

	var buf bytes.Buffer
	if err := export(&buf); err != nil {
		return err
	}
	if err := store.WriteFile(cmd.out, buf.Bytes()); err != nil {
		return err
	}
	if cmd.flags.JSON {
		return writeJSON(c.Root().Writer, map[string]any{"path": cmd.out, "tasks": cmd.flags.Session.Len()})
	}
	_, err := fmt.Fprintf(c.Root().Writer, "Exported %d tasks to %s\n", cmd.flags.Session.Len(), cmd.out)
	return err
}

func (cmd *ExportCmd) runImport(ctx context.Context, c *cli.Command) error {
	data, err := readInput(c.Root().Reader, cmd.file)
	if err != nil {
		return err
	}
	tasks, err := store.Decode[[]*task.Task](bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	sess := cmd.flags.Session
	added, err := sess.Import(tasks, cmd.replace)
	if err != nil {
		return err
	}

	if cmd.flags.JSON {
		return writeJSON(c.Root().Writer, map[string]any{"imported": added, "tasks": sess.Len()})
	}
	_, err = fmt.Fprintf(c.Root().Writer, "Imported %d tasks (%d total)\n", added, sess.Len())
	return err
}
