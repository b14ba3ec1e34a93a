package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/stefanpenner/intentions/pkg/task"
)

// taskInfo is the JSON form of a task in command output. Number is 1-based.
type taskInfo struct {
	Number int        `json:"number"`
	Status string     `json:"status"`
	Labels []string   `json:"labels,omitempty"`
	Task   *task.Task `json:"task"`
}

func newTaskInfo(i int, t *task.Task) taskInfo {
	return taskInfo{Number: i + 1, Status: string(t.Status()), Labels: t.Labels(), Task: t}
}

func writeJSON(w io.Writer, v any) error {
	bits, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// report prints the task a command acted on, as JSON or as a one-line summary
// after verb.
func (f *Flags) report(w io.Writer, verb string, i int) error {
	t, err := f.Session.Get(i)
	if err != nil {
		return err
	}
	if f.JSON {
		return writeJSON(w, newTaskInfo(i, t))
	}
	_, err = fmt.Fprintf(w, "%s %d: %s\n", verb, i+1, t.Summary())
	return err
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// readInput reads piped input from r, refusing to block on a terminal.
func readInput(r io.Reader, file string) ([]byte, error) {
	if file != "" {
		return os.ReadFile(file)
	}
	if r == nil || isTerminal(r) {
		return nil, fmt.Errorf("no input provided (stdin is a terminal); use --file or pipe input")
	}
	return io.ReadAll(r)
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
