package session

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/stefanpenner/intentions/pkg/store"
	"github.com/stefanpenner/intentions/pkg/task"
)

// Labels returns the sorted union of every task's labels.
func (s *Session) Labels() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool)
	var labels []string
	for _, t := range s.tasks {
		for _, l := range t.Labels() {
			if !seen[l] {
				seen[l] = true
				labels = append(labels, l)
			}
		}
	}
	slices.Sort(labels)
	return labels
}

// Filter is a search over the task list.
type Filter struct {
	// Query words must each appear, case-sensitively, in the title or the
	// description. An empty query matches everything.
	Query string
	// Labels are glob patterns; each must match at least one of the task's
	// labels. "work/**" matches "work/q3/planning".
	Labels []string
}

// Validate checks that every label pattern is well formed.
func (f Filter) Validate() error {
	for _, p := range f.Labels {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid label pattern %q", p)
		}
	}
	return nil
}

// Match reports whether t satisfies the filter. Malformed patterns match
// nothing; use Validate to report them.
func (f Filter) Match(t *task.Task) bool {
	for _, word := range strings.Fields(f.Query) {
		if !strings.Contains(t.Title, word) && !strings.Contains(t.Description, word) {
			return false
		}
	}
	if len(f.Labels) == 0 {
		return true
	}
	labels := t.Labels()
	for _, pattern := range f.Labels {
		if !slices.ContainsFunc(labels, func(l string) bool {
			ok, err := doublestar.Match(pattern, l)
			return err == nil && ok
		}) {
			return false
		}
	}
	return true
}

// Find returns the indices of the tasks matching f, in list order.
func (s *Session) Find(f Filter) ([]int, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []int
	for i, t := range s.tasks {
		if f.Match(t) {
			out = append(out, i)
		}
	}
	return out, nil
}

// ExportTodoTxt writes the list in todo.txt format.
func (s *Session) ExportTodoTxt(w io.Writer) error {
	s.mu.Lock()
	out := task.TodoTxtList(s.tasks)
	s.mu.Unlock()

	if _, err := io.WriteString(w, out); err != nil {
		return fmt.Errorf("export todo.txt: %w", err)
	}
	return nil
}

// ExportJSON writes the list in the same JSON form as the local file.
func (s *Session) ExportJSON(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := store.Encode(w, s.tasks); err != nil {
		return fmt.Errorf("export json: %w", err)
	}
	return nil
}

// ExportMarkdown writes the list as a markdown checklist.
func (s *Session) ExportMarkdown(w io.Writer) error {
	s.mu.Lock()
	out := task.MarkdownList(s.tasks)
	s.mu.Unlock()

	if _, err := io.WriteString(w, out); err != nil {
		return fmt.Errorf("export markdown: %w", err)
	}
	return nil
}
