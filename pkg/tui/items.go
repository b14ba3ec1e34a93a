package tui

import (
	"strings"

	"github.com/stefanpenner/intentions/pkg/session"
	"github.com/stefanpenner/intentions/pkg/task"
)

// ListItem is one visible row of the task list.
type ListItem struct {
	Index int // position in the session's list
	Task  *task.Task
	Match bool // matched an active search
}

// BuildListItems returns the rows to show for tasks. With an empty filter
// every task is visible.
func BuildListItems(tasks []*task.Task, f session.Filter) []ListItem {
	active := f.Query != "" || len(f.Labels) > 0
	var items []ListItem
	for i, t := range tasks {
		if active && !f.Match(t) {
			continue
		}
		items = append(items, ListItem{Index: i, Task: t, Match: active})
	}
	return items
}

// ParseSearch splits a search box query into plain words and label
// patterns. Tokens starting with '#' are label patterns ("#work/**").
func ParseSearch(query string) session.Filter {
	var f session.Filter
	var words []string
	for _, token := range strings.Fields(query) {
		if len(token) > 1 && strings.HasPrefix(token, "#") {
			f.Labels = append(f.Labels, token[1:])
			continue
		}
		words = append(words, token)
	}
	f.Query = strings.Join(words, " ")
	return f
}

// indexOf returns the row showing list index i, or -1.
func indexOf(items []ListItem, i int) int {
	for row, item := range items {
		if item.Index == i {
			return row
		}
	}
	return -1
}
