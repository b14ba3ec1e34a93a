package commands

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/urfave/cli/v3"
)

type EditCmd struct {
	flags *Flags

	// flags
	file string
}

// NewEditCmd creates a new edit command
func NewEditCmd(flags *Flags) *EditCmd {
	return &EditCmd{flags: flags}
}

// Register adds the edit command to the application
func (cmd *EditCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "edit",
		Usage:     "Edit a task as markdown",
		UsageText: "intentions edit <n> [--file path]",
		Description: `Opens the task in $EDITOR as markdown with YAML frontmatter (title,
priority, due, status, labels) above the description.

When stdin is piped or --file is given, the document is read from there
instead, so 'intentions show 3 | sed ... | intentions edit 3' works.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "file",
				Aliases:     []string{"f"},
				Usage:       "read the edited document from a file",
				Destination: &cmd.file,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *EditCmd) run(ctx context.Context, c *cli.Command) error {
	i, t, err := cmd.flags.taskAt(c.Args().First())
	if err != nil {
		return err
	}

	var content []byte
	if cmd.file != "" || !isTerminal(c.Root().Reader) {
		content, err = readInput(c.Root().Reader, cmd.file)
	} else {
		var md string
		md, err = t.Markdown()
		if err == nil {
			content, err = editInEditor(ctx, md)
		}
	}
	if err != nil {
		return err
	}

	if err := cmd.flags.Session.Edit(i, string(content)); err != nil {
		return err
	}
	return cmd.flags.report(c.Root().Writer, "Edited", i)
}

// editInEditor lets the user edit text in $EDITOR and returns the result.
func editInEditor(ctx context.Context, text string) ([]byte, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vim"
	}

	f, err := os.CreateTemp("", "intentions-*.md")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	_, err = f.WriteString(text)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("write temp file: %w", err)
	}

	c := exec.CommandContext(ctx, editor, path)
	c.Stdin, c.Stdout, c.Stderr = os.Stdin, os.Stdout, os.Stderr
	if err := c.Run(); err != nil {
		return nil, fmt.Errorf("run %s: %w", editor, err)
	}
	return os.ReadFile(path)
}
