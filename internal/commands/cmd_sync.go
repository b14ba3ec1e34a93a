package commands

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/urfave/cli/v3"
)

type SyncCmd struct {
	flags *Flags
}

// NewSyncCmd creates a new sync command
func NewSyncCmd(flags *Flags) *SyncCmd {
	return &SyncCmd{flags: flags}
}

// Register adds the sync command to the application
func (cmd *SyncCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "sync",
		Usage: "Cloud copy commands",
		Description: `The task list is mirrored to a single blob at the cloud save location,
a pre-signed URL kept in the preferences file. Every change is pushed in the
background; these commands push, pull or change the location explicitly.`,
		Commands: []*cli.Command{
			{
				Name:   "push",
				Usage:  "Upload the local list now and wait for it to land",
				Action: cmd.runPush,
			},
			{
				Name:   "pull",
				Usage:  "Replace the local list with the cloud copy",
				Action: cmd.runPull,
			},
			{
				Name:      "url",
				Usage:     "Set the cloud save location (empty disables uploads)",
				ArgsUsage: "<url>",
				Action:    cmd.runURL,
			},
			{
				Name:   "status",
				Usage:  "Show the background uploader's state",
				Action: cmd.runStatus,
			},
		},
	})
	return app
}

func (cmd *SyncCmd) runPush(ctx context.Context, c *cli.Command) error {
	if err := cmd.flags.Session.PushRemote(ctx); err != nil {
		return err
	}
	return cmd.print(c, "Pushed %d tasks\n", cmd.flags.Session.Len())
}

func (cmd *SyncCmd) runPull(ctx context.Context, c *cli.Command) error {
	if err := cmd.flags.Session.PullRemote(ctx); err != nil {
		return err
	}
	return cmd.print(c, "Pulled %d tasks\n", cmd.flags.Session.Len())
}

func (cmd *SyncCmd) runURL(ctx context.Context, c *cli.Command) error {
	raw := c.Args().First()
	if raw != "" {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("cloud save location must be an http(s) URL")
		}
	}
	if err := cmd.flags.Session.SetCloudLocation(raw); err != nil {
		return err
	}
	if raw == "" {
		return cmd.print(c, "Cloud save location cleared\n")
	}
	return cmd.print(c, "Cloud save location set\n")
}

func (cmd *SyncCmd) runStatus(ctx context.Context, c *cli.Command) error {
	sess := cmd.flags.Session
	st := sess.SyncStatus()
	configured := sess.Preferences().CloudSaveLocation != ""

	if cmd.flags.JSON {
		info := map[string]any{
			"enabled":    sess.SyncEnabled(),
			"configured": configured,
			"pending":    st.Pending,
		}
		if st.LastErr != nil {
			info["last_error"] = st.LastErr.Error()
		}
		if !st.LastWrite.IsZero() {
			info["last_write"] = st.LastWrite.Format(time.RFC3339)
		}
		return writeJSON(c.Root().Writer, info)
	}

	switch {
	case !sess.SyncEnabled():
		return cmd.print(c, "Sync is off (offline or disabled in config)\n")
	case !configured:
		return cmd.print(c, "Sync is on but no cloud save location is set\n")
	case st.LastErr != nil:
		return cmd.print(c, "Last upload failed: %v\n", st.LastErr)
	case st.Pending:
		return cmd.print(c, "Upload pending\n")
	default:
		return cmd.print(c, "Up to date\n")
	}
}

func (cmd *SyncCmd) print(c *cli.Command, format string, args ...any) error {
	if cmd.flags.JSON {
		return writeJSON(c.Root().Writer, map[string]any{"message": fmt.Sprintf(format, args...)})
	}
	_, err := fmt.Fprintf(c.Root().Writer, format, args...)
	return err
}
