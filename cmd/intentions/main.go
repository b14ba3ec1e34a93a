package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/urfave/cli/v3"

	"github.com/stefanpenner/intentions/internal/commands"
	"github.com/stefanpenner/intentions/pkg/config"
	"github.com/stefanpenner/intentions/pkg/logutils"
	"github.com/stefanpenner/intentions/pkg/session"
	"github.com/stefanpenner/intentions/pkg/store"
)

var version = "dev"

func buildVersion() string {
	if version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				return mv
			}
		}
	}
	return version
}

func main() {
	ctx := context.Background()

	var logCloser func()
	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "intentions",
		Usage:     "Track tasks, the work logged on them and the time set aside for them",
		UsageText: "intentions [global options] [command [command options]]",
		Description: `Keeps a task list in a local JSON file and, when a cloud save location is
set, mirrors it to a remote blob after every change.

Run 'intentions' with no arguments to open the interactive task list.
Tasks are numbered from 1 in list order; 'intentions list' shows the numbers.`,
		Version: buildVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (trace, debug, info, warn, error); overrides the config file",
				Sources:     cli.EnvVars("INTENTIONS_LOG_LEVEL"),
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file, or '-' for stderr (defaults to <data-dir>/intentions.log)",
				Sources:     cli.EnvVars("INTENTIONS_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file (defaults to <data-dir>/config.yaml)",
				Sources:     cli.EnvVars("INTENTIONS_CONFIG"),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars(store.DataDirEnv),
				Value:       store.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.BoolFlag{
				Name:        "offline",
				Usage:       "skip the cloud copy for this run",
				Destination: &flags.Offline,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print command output as JSON",
				Destination: &flags.JSON,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			configPath := flags.ConfigPath
			if configPath == "" {
				configPath = config.DefaultPath(flags.DataDir)
			}
			cfg, err := config.Load(configPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			level := cfg.LogLevel
			if flags.LogLevel != "" {
				level = flags.LogLevel
			}
			logFile := flags.LogFile
			if logFile == "" {
				logFile = cfg.LogFile
			}
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "intentions.log")
			}
			pretty := logFile == "-"
			if pretty {
				logFile = ""
			}

			logger, closer, err := logutils.New(level, logFile, pretty)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			flags.Logger = logger
			logCloser = closer

			sess, err := session.Open(ctx, session.Options{
				DataDir:         cfg.DataDir,
				PreferencesFile: cfg.PreferencesFile,
				SyncEnabled:     cfg.Sync.Enabled && !flags.Offline,
				SyncTimeout:     cfg.Sync.Timeout,
				UndoDepth:       cfg.Undo.MaxDepth,
				Logger:          logger,
			})
			if err != nil {
				return ctx, fmt.Errorf("open task list: %w", err)
			}
			flags.Session = sess
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			var err error
			if flags.Session != nil {
				// Give queued cloud writes a chance to land before exiting
				closeCtx, cancel := context.WithTimeout(context.Background(), flags.Config.Sync.Timeout)
				defer cancel()
				if err = flags.Session.Close(closeCtx); err != nil {
					flags.Logger.Error().Err(err).Msg("pending cloud write did not finish")
				}
			}

			if logCloser != nil {
				logCloser()
			}
			return err
		},
	}

	app = commands.RegisterAll(app, flags)

	exitCode := 0
	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		exitCode = 1
	}

	os.Exit(exitCode)
}
