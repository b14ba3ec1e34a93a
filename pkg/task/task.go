// Package task models a single to-do item: its priority, due date, labels,
// planned time blocks (intentions) and logged work (progress).
package task

import (
	"fmt"
	"regexp"
	"slices"
	"time"

	"github.com/mitchellh/hashstructure/v2"
)

// nowFunc is the clock used for progress stamps. Tests replace it.
var nowFunc = time.Now

var whitespaceRun = regexp.MustCompile(`\s+`)

// Task is a single item in a to-do list.
//
// Title, Description, Priority, Due, Reminders and Intentions may be changed
// freely. Completion and progress only change through SetCompleted,
// SetInProgress and ClearProgress, which keep the two mutually exclusive:
// a task is in progress iff its progress log has an odd number of entries.
type Task struct {
	Title       string
	Description string
	Priority    Priority
	Due         *time.Time
	Reminders   Reminders
	Intentions  Intentions

	completed bool
	progress  []time.Time
}

// New creates a task with the given title, description, priority and due date.
// due may be nil.
func New(title, description string, priority Priority, due *time.Time) *Task {
	t := &Task{
		Title:       title,
		Description: description,
	}
	t.SetPriority(priority)
	t.SetDue(due)
	return t
}

// NewWithLetter is New with the priority given as a letter such as "A".
// Invalid letters give no priority.
func NewWithLetter(title, description, priority string, due *time.Time) *Task {
	return New(title, description, ParsePriority(priority), due)
}

// NewWithRune is New with the priority given as a character such as 'B'.
func NewWithRune(title, description string, priority rune, due *time.Time) *Task {
	return New(title, description, PriorityFromRune(priority), due)
}

// SetPriority sets the priority, coercing anything outside A..Z to none.
func (t *Task) SetPriority(p Priority) {
	if !p.IsSet() {
		p = PriorityNone
	}
	t.Priority = p
}

// SetDue sets the due date; nil clears it.
func (t *Task) SetDue(due *time.Time) {
	if due == nil {
		t.Due = nil
		return
	}
	d := normalize(*due)
	t.Due = &d
}

// Completed reports whether the task is marked done.
func (t *Task) Completed() bool {
	return t.completed
}

// SetCompleted marks the task done or not done. Completing a task that is in
// progress stops it first.
func (t *Task) SetCompleted(completed bool) {
	if completed && t.InProgress() {
		t.SetInProgress(false)
	}
	t.completed = completed
}

// InProgress reports whether work on the task has been started and not stopped.
func (t *Task) InProgress() bool {
	return len(t.progress)%2 != 0
}

// SetInProgress starts or stops work on the task, appending the current time
// to the progress log when the value changes. Starting a completed task
// reopens it.
func (t *Task) SetInProgress(inProgress bool) {
	if inProgress && t.completed {
		t.SetCompleted(false)
	}
	if inProgress != t.InProgress() {
		t.progress = append(t.progress, normalize(nowFunc()))
	}
}

// Status returns the single lifecycle state derived from the completed flag
// and the progress log.
func (t *Task) Status() Status {
	switch {
	case t.completed:
		return StatusDone
	case t.InProgress():
		return StatusInProgress
	default:
		return StatusTodo
	}
}

// Progress returns a copy of the progress log. Even entries are start stamps,
// odd entries are stop stamps.
func (t *Task) Progress() []time.Time {
	out := make([]time.Time, len(t.progress))
	copy(out, t.progress)
	return out
}

// TimeSpent sums the completed start/stop pairs in the progress log.
func (t *Task) TimeSpent() time.Duration {
	var total time.Duration
	for i := 0; i+1 < len(t.progress); i += 2 {
		total += t.progress[i+1].Sub(t.progress[i])
	}
	return total
}

// ClearProgress drops the oldest count start/stop pairs from the progress log.
// A negative count drops every complete pair. A trailing start stamp is never
// removed, so InProgress is unchanged.
func (t *Task) ClearProgress(count int) {
	pairs := len(t.progress) / 2
	if count < 0 || count > pairs {
		count = pairs
	}
	t.progress = slices.Clone(t.progress[2*count:])
}

// ClearAllProgress drops every complete start/stop pair.
func (t *Task) ClearAllProgress() {
	t.ClearProgress(-1)
}

// Labels returns the distinct "#label" tokens of the title, without the '#',
// in order of first appearance.
func (t *Task) Labels() []string {
	var labels []string
	seen := make(map[string]bool)
	for _, token := range whitespaceRun.Split(t.Title, -1) {
		if !isLabel(token) {
			continue
		}
		label := token[1:]
		if seen[label] {
			continue
		}
		seen[label] = true
		labels = append(labels, label)
	}
	return labels
}

// HasLabel reports whether label appears among the task's labels.
func (t *Task) HasLabel(label string) bool {
	return slices.Contains(t.Labels(), label)
}

// Clone returns a deep copy of t.
func (t *Task) Clone() *Task {
	c := *t
	if t.Due != nil {
		d := *t.Due
		c.Due = &d
	}
	c.Reminders = t.Reminders.clone()
	c.Intentions = t.Intentions.clone()
	c.progress = slices.Clone(t.progress)
	return &c
}

// Equal compares every field, including the progress log. Two tasks that
// reached the same status at different times are not equal.
func (t *Task) Equal(other *Task) bool {
	if t == other {
		return true
	}
	if t == nil || other == nil {
		return false
	}
	if t.Title != other.Title || t.Description != other.Description || t.Priority != other.Priority {
		return false
	}
	if (t.Due == nil) != (other.Due == nil) {
		return false
	}
	if t.Due != nil && !t.Due.Equal(*other.Due) {
		return false
	}
	return t.completed == other.completed &&
		t.Reminders.equal(other.Reminders) &&
		t.Intentions.equal(other.Intentions) &&
		equalTimes(t.progress, other.progress)
}

// hashView exposes every field of a Task, timestamps as Unix nanoseconds, so
// the hash agrees with Equal.
type hashView struct {
	Title       string
	Description string
	Priority    byte
	HasDue      bool
	Due         int64
	Completed   bool
	Reminders   []int64
	Starts      []int64
	Ends        []int64
	Progress    []int64
}

// Hash returns a structural hash consistent with Equal.
func (t *Task) Hash() (uint64, error) {
	v := hashView{
		Title:       t.Title,
		Description: t.Description,
		Priority:    byte(t.Priority),
		Completed:   t.completed,
		Reminders:   unixNanos(t.Reminders.items),
		Progress:    unixNanos(t.progress),
	}
	if t.Due != nil {
		v.HasDue = true
		v.Due = t.Due.UnixNano()
	}
	for _, in := range t.Intentions.items {
		v.Starts = append(v.Starts, in.Start.UnixNano())
		v.Ends = append(v.Ends, in.End.UnixNano())
	}
	h, err := hashstructure.Hash(v, hashstructure.FormatV2, nil)
	if err != nil {
		return 0, fmt.Errorf("hashing task %q: %w", t.Title, err)
	}
	return h, nil
}

func unixNanos(ts []time.Time) []int64 {
	out := make([]int64, len(ts))
	for i, t := range ts {
		out[i] = t.UnixNano()
	}
	return out
}

// String returns the canonical JSON encoding of the task.
func (t *Task) String() string {
	b, err := t.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("task(%q)", t.Title)
	}
	return string(b)
}
