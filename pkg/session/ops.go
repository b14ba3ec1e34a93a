package session

import (
	"fmt"
	"slices"

	"github.com/stefanpenner/intentions/pkg/task"
)

// Len returns the number of tasks.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Tasks returns copies of every task in list order.
func (s *Session) Tasks() []*task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*task.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

// Get returns a copy of the task at index i.
func (s *Session) Get(i int) (*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.at(i)
	if err != nil {
		return nil, err
	}
	return t.Clone(), nil
}

// Add appends a copy of t and returns its index.
func (s *Session) Add(t *task.Task) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = append(s.tasks, t.Clone())
	return len(s.tasks) - 1, s.commit("add")
}

// Import appends copies of tasks, or replaces the whole list with them when
// replace is set, as a single undoable step. Nil entries are skipped. It
// returns the number of tasks added.
func (s *Session) Import(tasks []*task.Task, replace bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if replace {
		s.tasks = nil
	}
	added := 0
	for _, t := range sanitize(tasks) {
		s.tasks = append(s.tasks, t.Clone())
		added++
	}
	return added, s.commit("import")
}

// Update applies fn to a copy of the task at index i and, if fn succeeds,
// replaces the task with the copy.
func (s *Session) Update(i int, fn func(t *task.Task) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.at(i)
	if err != nil {
		return err
	}
	edited := t.Clone()
	if err := fn(edited); err != nil {
		return err
	}
	s.tasks[i] = edited
	return s.commit("update")
}

// Edit applies a markdown document produced by task.Markdown to the task at
// index i.
func (s *Session) Edit(i int, markdown string) error {
	return s.Update(i, func(t *task.Task) error {
		return t.ApplyMarkdown(markdown)
	})
}

// Delete removes the task at index i and returns it.
func (s *Session) Delete(i int) (*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.at(i)
	if err != nil {
		return nil, err
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	return t, s.commit("delete")
}

// SetCompleted marks the task at index i done or not done.
func (s *Session) SetCompleted(i int, completed bool) error {
	return s.Update(i, func(t *task.Task) error {
		t.SetCompleted(completed)
		return nil
	})
}

// ToggleCompleted flips the completed flag of the task at index i.
func (s *Session) ToggleCompleted(i int) error {
	return s.Update(i, func(t *task.Task) error {
		t.SetCompleted(!t.Completed())
		return nil
	})
}

// SetInProgress starts or stops work on the task at index i.
func (s *Session) SetInProgress(i int, inProgress bool) error {
	return s.Update(i, func(t *task.Task) error {
		t.SetInProgress(inProgress)
		return nil
	})
}

// ToggleProgress starts work on the task at index i, or stops it if running.
func (s *Session) ToggleProgress(i int) error {
	return s.Update(i, func(t *task.Task) error {
		t.SetInProgress(!t.InProgress())
		return nil
	})
}

// ClearProgress drops count completed start/stop pairs from the task at
// index i. A negative count clears them all.
func (s *Session) ClearProgress(i, count int) error {
	return s.Update(i, func(t *task.Task) error {
		t.ClearProgress(count)
		return nil
	})
}

// Move swaps the task at index i with the one delta places away and returns
// the task's new index. Moving past either end leaves the list unchanged.
func (s *Session) Move(i, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.at(i); err != nil {
		return i, err
	}
	dest := i + delta
	if delta == 0 || dest < 0 || dest >= len(s.tasks) {
		return i, nil
	}
	s.tasks[i], s.tasks[dest] = s.tasks[dest], s.tasks[i]
	return dest, s.commit("move")
}

// Sort stably reorders the list by key.
func (s *Session) Sort(key SortKey) error {
	cmp, ok := comparators[key]
	if !ok {
		return fmt.Errorf("unknown sort key %q", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	slices.SortStableFunc(s.tasks, cmp)
	return s.commit("sort " + string(key))
}

// Copy puts a serialized copy of the task at index i on the clipboard.
func (s *Session) Copy(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked(i)
}

// Cut copies the task at index i to the clipboard and deletes it.
func (s *Session) Cut(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.copyLocked(i); err != nil {
		return err
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	return s.commit("cut")
}

// Paste appends a fresh copy of the clipboard task and returns its index.
func (s *Session) Paste() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.clipboard == nil {
		return -1, ErrEmptyClipboard
	}
	t, err := task.Parse(s.clipboard)
	if err != nil {
		return -1, err
	}
	s.tasks = append(s.tasks, t)
	return len(s.tasks) - 1, s.commit("paste")
}

func (s *Session) copyLocked(i int) error {
	t, err := s.at(i)
	if err != nil {
		return err
	}
	data, err := t.MarshalJSON()
	if err != nil {
		return fmt.Errorf("copy task: %w", err)
	}
	s.clipboard = data
	return nil
}

// CanUndo reports whether Undo would change the list.
func (s *Session) CanUndo() bool {
	return s.history.CanUndo()
}

// CanRedo reports whether Redo would change the list.
func (s *Session) CanRedo() bool {
	return s.history.CanRedo()
}

// Undo restores the previous list state and persists it. With nothing to
// undo the list is unchanged.
func (s *Session) Undo() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.history.CanUndo() {
		return nil
	}
	return s.restore(s.history.UndoSnapshot(), "undo")
}

// Redo reapplies the most recently undone state and persists it.
func (s *Session) Redo() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.history.CanRedo() {
		return nil
	}
	return s.restore(s.history.RedoSnapshot(), "redo")
}

func (s *Session) restore(snap []byte, op string) error {
	if err := s.install(snap); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.persist(snap)
	s.logger.Debug().Str("op", op).Int("tasks", len(s.tasks)).Msg("restored")
	return nil
}
