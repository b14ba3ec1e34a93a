package task

import (
	"strings"
	"time"
)

// Priority is a task priority letter. Earlier letters rank higher.
// The zero value means the task has no priority.
type Priority byte

const PriorityNone Priority = 0

const (
	PriorityA Priority = 'A' + iota
	PriorityB
	PriorityC
	PriorityD
	PriorityE
	PriorityF
	PriorityG
	PriorityH
	PriorityI
	PriorityJ
	PriorityK
	PriorityL
	PriorityM
	PriorityN
	PriorityO
	PriorityP
	PriorityQ
	PriorityR
	PriorityS
	PriorityT
	PriorityU
	PriorityV
	PriorityW
	PriorityX
	PriorityY
	PriorityZ
)

// Aliases for the first four priority letters.
const (
	PriorityUrgent = PriorityA
	PriorityHigh   = PriorityB
	PriorityMedium = PriorityC
	PriorityLow    = PriorityD
)

// ParsePriority converts a single uppercase letter to a Priority.
// Anything else yields PriorityNone.
func ParsePriority(s string) Priority {
	if len(s) != 1 {
		return PriorityNone
	}
	return PriorityFromRune(rune(s[0]))
}

// PriorityFromRune converts an uppercase letter to a Priority.
func PriorityFromRune(r rune) Priority {
	if r < 'A' || r > 'Z' {
		return PriorityNone
	}
	return Priority(r)
}

// IsSet reports whether p is a concrete priority.
func (p Priority) IsSet() bool {
	return p >= PriorityA && p <= PriorityZ
}

func (p Priority) String() string {
	if !p.IsSet() {
		return ""
	}
	return string(rune(p))
}

// Status is the derived lifecycle state of a task.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// Intention is a planned block of time for working on a task.
type Intention struct {
	Start time.Time
	End   time.Time
}

// Intentions maps start times to end times, kept ordered by start.
// Overlapping blocks are allowed.
type Intentions struct {
	items []Intention
}

func (in *Intentions) search(start time.Time) (int, bool) {
	lo, hi := 0, len(in.items)
	for lo < hi {
		mid := (lo + hi) / 2
		if in.items[mid].Start.Before(start) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo, lo < len(in.items) && in.items[lo].Start.Equal(start)
}

// Set adds or replaces the block starting at start.
func (in *Intentions) Set(start, end time.Time) {
	start, end = normalize(start), normalize(end)
	i, found := in.search(start)
	if found {
		in.items[i].End = end
		return
	}
	in.items = append(in.items, Intention{})
	copy(in.items[i+1:], in.items[i:])
	in.items[i] = Intention{Start: start, End: end}
}

// Get returns the end of the block starting at start.
func (in *Intentions) Get(start time.Time) (time.Time, bool) {
	i, found := in.search(normalize(start))
	if !found {
		return time.Time{}, false
	}
	return in.items[i].End, true
}

// Contains reports whether a block starts at start.
func (in *Intentions) Contains(start time.Time) bool {
	_, found := in.search(normalize(start))
	return found
}

// Delete removes the block starting at start.
func (in *Intentions) Delete(start time.Time) {
	i, found := in.search(normalize(start))
	if found {
		in.items = append(in.items[:i], in.items[i+1:]...)
	}
}

// Len returns the number of blocks.
func (in *Intentions) Len() int {
	return len(in.items)
}

// All returns the blocks ordered by start time.
func (in *Intentions) All() []Intention {
	out := make([]Intention, len(in.items))
	copy(out, in.items)
	return out
}

// Floor returns the block with the greatest start not after t.
func (in *Intentions) Floor(t time.Time) (Intention, bool) {
	t = normalize(t)
	i, found := in.search(t)
	if found {
		return in.items[i], true
	}
	if i == 0 {
		return Intention{}, false
	}
	return in.items[i-1], true
}

// Ceiling returns the block with the least start not before t.
func (in *Intentions) Ceiling(t time.Time) (Intention, bool) {
	i, _ := in.search(normalize(t))
	if i >= len(in.items) {
		return Intention{}, false
	}
	return in.items[i], true
}

// Overlapping returns pairs of adjacent blocks whose ranges intersect.
// Nothing enforces non-overlap; this only reports it.
func (in *Intentions) Overlapping() [][2]Intention {
	var out [][2]Intention
	for i := 1; i < len(in.items); i++ {
		prev, cur := in.items[i-1], in.items[i]
		if cur.Start.Before(prev.End) {
			out = append(out, [2]Intention{prev, cur})
		}
	}
	return out
}

func (in Intentions) clone() Intentions {
	return Intentions{items: in.All()}
}

func (in Intentions) equal(other Intentions) bool {
	if len(in.items) != len(other.items) {
		return false
	}
	for i := range in.items {
		if !in.items[i].Start.Equal(other.items[i].Start) || !in.items[i].End.Equal(other.items[i].End) {
			return false
		}
	}
	return true
}

// Reminders is a set of reminder timestamps, iterated in time order.
type Reminders struct {
	items []time.Time
}

func (r *Reminders) search(t time.Time) (int, bool) {
	lo, hi := 0, len(r.items)
	for lo < hi {
		mid := (lo + hi) / 2
		if r.items[mid].Before(t) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo, lo < len(r.items) && r.items[lo].Equal(t)
}

// Add inserts t; adding an existing reminder is a no-op.
func (r *Reminders) Add(t time.Time) {
	t = normalize(t)
	i, found := r.search(t)
	if found {
		return
	}
	r.items = append(r.items, time.Time{})
	copy(r.items[i+1:], r.items[i:])
	r.items[i] = t
}

// Remove deletes t if present.
func (r *Reminders) Remove(t time.Time) {
	i, found := r.search(normalize(t))
	if found {
		r.items = append(r.items[:i], r.items[i+1:]...)
	}
}

// Contains reports whether t is a reminder.
func (r *Reminders) Contains(t time.Time) bool {
	_, found := r.search(normalize(t))
	return found
}

// Len returns the number of reminders.
func (r *Reminders) Len() int {
	return len(r.items)
}

// All returns the reminders in time order.
func (r *Reminders) All() []time.Time {
	out := make([]time.Time, len(r.items))
	copy(out, r.items)
	return out
}

func (r Reminders) clone() Reminders {
	return Reminders{items: r.All()}
}

func (r Reminders) equal(other Reminders) bool {
	return equalTimes(r.items, other.items)
}

func equalTimes(a, b []time.Time) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// normalize drops the monotonic reading and location so timestamps compare
// and serialize as instants.
func normalize(t time.Time) time.Time {
	return t.UTC()
}

// isLabel reports whether a title token is a label ("#" plus at least one character).
func isLabel(token string) bool {
	return len(token) > 1 && strings.HasPrefix(token, "#")
}
