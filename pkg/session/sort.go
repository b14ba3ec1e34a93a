package session

import (
	"fmt"
	"slices"
	"strings"

	"github.com/stefanpenner/intentions/pkg/task"
)

// SortKey names an ordering of the task list.
type SortKey string

const (
	SortTitle        SortKey = "title"
	SortTitleDesc    SortKey = "title-desc"
	SortStatus       SortKey = "status"
	SortPriority     SortKey = "priority"
	SortPriorityDesc SortKey = "priority-desc"
	SortDue          SortKey = "due"
	SortDueDesc      SortKey = "due-desc"
)

var comparators = map[SortKey]task.Comparator{
	SortTitle:        task.ByTitle,
	SortTitleDesc:    task.Comparator(task.ByTitle).Reverse(),
	SortStatus:       task.ByStatus,
	SortPriority:     task.ByPriority,
	SortPriorityDesc: task.Comparator(task.ByPriority).Reverse(),
	SortDue:          task.ByDue,
	SortDueDesc:      task.Comparator(task.ByDue).Reverse(),
}

// SortKeys lists every sort key in menu order.
func SortKeys() []SortKey {
	return []SortKey{
		SortTitle, SortTitleDesc,
		SortStatus,
		SortPriority, SortPriorityDesc,
		SortDue, SortDueDesc,
	}
}

// ParseSortKey validates s as a sort key.
func ParseSortKey(s string) (SortKey, error) {
	key := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := comparators[key]; !ok {
		names := make([]string, 0, len(comparators))
		for _, k := range SortKeys() {
			names = append(names, string(k))
		}
		return "", fmt.Errorf("unknown sort key %q (want one of %s)", s, strings.Join(names, ", "))
	}
	return key, nil
}

// Next returns the key after k in SortKeys order, wrapping around.
func (k SortKey) Next() SortKey {
	keys := SortKeys()
	i := slices.Index(keys, k)
	return keys[(i+1)%len(keys)]
}
