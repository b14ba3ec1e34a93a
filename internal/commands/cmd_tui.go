package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/stefanpenner/intentions/pkg/tui"
)

type TuiCmd struct {
	flags *Flags
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags) *TuiCmd {
	return &TuiCmd{flags: flags}
}

// Register adds the tui command to the application
func (cmd *TuiCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:   "tui",
		Usage:  "Open the interactive task list (the default)",
		Action: cmd.Run,
	})
	return app
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, _ *cli.Command) error {
	sess := cmd.flags.Session
	p := tea.NewProgram(tui.NewModel(sess), tea.WithAltScreen(), tea.WithContext(ctx))

	cleanup, err := tui.StartWatcher(sess.LocalPath(), cmd.flags.Logger, func() {
		p.Send(tui.FileChangedMsg{})
	})
	if err != nil {
		cmd.flags.Logger.Warn().Err(err).Msg("file watcher failed, outside edits need a manual reload")
	} else {
		defer cleanup()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
