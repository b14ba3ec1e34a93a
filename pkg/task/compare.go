package task

import "strings"

// Comparator orders two tasks, returning a negative number when a sorts
// before b, zero when they tie and a positive number otherwise. It has the
// shape slices.SortStableFunc expects.
type Comparator func(a, b *Task) int

// Then breaks ties in c with next.
func (c Comparator) Then(next Comparator) Comparator {
	return func(a, b *Task) int {
		if r := c(a, b); r != 0 {
			return r
		}
		return next(a, b)
	}
}

// Reverse inverts the order of c.
func (c Comparator) Reverse() Comparator {
	return func(a, b *Task) int {
		return c(b, a)
	}
}

// ByTitle orders tasks lexicographically by title.
func ByTitle(a, b *Task) int {
	return strings.Compare(a.Title, b.Title)
}

// ByDescription orders tasks lexicographically by description.
func ByDescription(a, b *Task) int {
	return strings.Compare(a.Description, b.Description)
}

// ByPriority puts higher priorities first and tasks without a priority last.
func ByPriority(a, b *Task) int {
	switch {
	case !a.Priority.IsSet() && !b.Priority.IsSet():
		return 0
	case !a.Priority.IsSet():
		return 1
	case !b.Priority.IsSet():
		return -1
	}
	return int(a.Priority) - int(b.Priority)
}

// ByDue puts earlier due dates first and tasks without a due date last.
func ByDue(a, b *Task) int {
	switch {
	case a.Due == nil && b.Due == nil:
		return 0
	case a.Due == nil:
		return 1
	case b.Due == nil:
		return -1
	}
	return a.Due.Compare(*b.Due)
}

// ByCompleted puts incomplete tasks before completed ones.
func ByCompleted(a, b *Task) int {
	return compareBool(a.completed, b.completed)
}

// ByInProgress puts tasks in progress before the rest.
func ByInProgress(a, b *Task) int {
	return compareBool(b.InProgress(), a.InProgress())
}

// ByStatus groups incomplete tasks first, in-progress ones leading.
var ByStatus = Comparator(ByCompleted).Then(ByInProgress)

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}
