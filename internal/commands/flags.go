package commands

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/stefanpenner/intentions/pkg/config"
	"github.com/stefanpenner/intentions/pkg/session"
	"github.com/stefanpenner/intentions/pkg/task"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string
	Offline    bool
	JSON       bool

	// Config, Logger and Session are set up in the Before hook and available
	// to all commands
	Config  *config.Config
	Logger  zerolog.Logger
	Session *session.Session
}

// taskAt resolves a 1-based task number given on the command line.
func (f *Flags) taskAt(arg string) (int, *task.Task, error) {
	if arg == "" {
		return 0, nil, fmt.Errorf("missing task number")
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, nil, fmt.Errorf("task number %q is not a number", arg)
	}
	if n < 1 || n > f.Session.Len() {
		return 0, nil, fmt.Errorf("no task %d (have %d)", n, f.Session.Len())
	}
	t, err := f.Session.Get(n - 1)
	if err != nil {
		return 0, nil, err
	}
	return n - 1, t, nil
}
