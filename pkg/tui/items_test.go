package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stefanpenner/intentions/pkg/session"
	"github.com/stefanpenner/intentions/pkg/task"
)

func TestParseSearch(t *testing.T) {
	tests := []struct {
		query string
		want  session.Filter
	}{
		{"", session.Filter{}},
		{"milk", session.Filter{Query: "milk"}},
		{"buy  #home milk", session.Filter{Query: "buy milk", Labels: []string{"home"}}},
		{"#work/** #q3", session.Filter{Labels: []string{"work/**", "q3"}}},
		{"#", session.Filter{Query: "#"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSearch(tt.query))
		})
	}
}

func TestBuildListItems(t *testing.T) {
	tasks := []*task.Task{
		task.New("write report #work", "", task.PriorityNone, nil),
		task.New("buy milk #home", "", task.PriorityNone, nil),
		task.New("plan offsite #work/q3", "", task.PriorityNone, nil),
	}

	all := BuildListItems(tasks, session.Filter{})
	assert.Len(t, all, 3)
	for i, item := range all {
		assert.Equal(t, i, item.Index)
		assert.False(t, item.Match)
	}

	work := BuildListItems(tasks, ParseSearch("#work/**"))
	if assert.Len(t, work, 1) {
		assert.Equal(t, 2, work[0].Index)
		assert.True(t, work[0].Match)
	}

	assert.Empty(t, BuildListItems(tasks, ParseSearch("Milk")), "search is case-sensitive")
	assert.Equal(t, 0, indexOf(BuildListItems(tasks, ParseSearch("milk")), 1))
	assert.Equal(t, -1, indexOf(work, 0))
}
