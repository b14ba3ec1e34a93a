package session

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanpenner/intentions/pkg/task"
	"github.com/stefanpenner/intentions/pkg/undo"
)

func setupQuerySession(t *testing.T) *Session {
	t.Helper()
	s := newFixture(t).open(t, undo.Unlimited)
	for _, tk := range []*task.Task{
		task.New("buy milk #home", "from the corner shop", task.PriorityNone, nil),
		task.New("quarterly report #work/q3 #writing", "draft and review", task.PriorityB, nil),
		task.New("fix sink #home #diy", "", task.PriorityNone, nil),
		task.New("plan offsite #work/q4", "book the venue", task.PriorityA, nil),
	} {
		_, err := s.Add(tk)
		require.NoError(t, err)
	}
	return s
}

func TestLabels(t *testing.T) {
	s := setupQuerySession(t)
	assert.Equal(t, []string{"diy", "home", "work/q3", "work/q4", "writing"}, s.Labels())
}

func TestFind(t *testing.T) {
	s := setupQuerySession(t)

	tests := []struct {
		name   string
		filter Filter
		want   []int
	}{
		{name: "empty filter", filter: Filter{}, want: []int{0, 1, 2, 3}},
		{name: "word in title", filter: Filter{Query: "milk"}, want: []int{0}},
		{name: "word in description", filter: Filter{Query: "venue"}, want: []int{3}},
		{name: "all words required", filter: Filter{Query: "draft  report"}, want: []int{1}},
		{name: "words across fields", filter: Filter{Query: "plan book"}, want: []int{3}},
		{name: "case sensitive", filter: Filter{Query: "Milk"}, want: nil},
		{name: "exact label", filter: Filter{Labels: []string{"home"}}, want: []int{0, 2}},
		{name: "all labels required", filter: Filter{Labels: []string{"home", "diy"}}, want: []int{2}},
		{name: "label glob", filter: Filter{Labels: []string{"work/**"}}, want: []int{1, 3}},
		{name: "label glob and query", filter: Filter{Query: "review", Labels: []string{"work/*"}}, want: []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Find(tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindInvalidPattern(t *testing.T) {
	s := setupQuerySession(t)
	_, err := s.Find(Filter{Labels: []string{"work/[q"}})
	assert.ErrorContains(t, err, "invalid label pattern")
}

func TestExports(t *testing.T) {
	s := setupQuerySession(t)

	var js bytes.Buffer
	require.NoError(t, s.ExportJSON(&js))
	assert.Contains(t, js.String(), `{"title":"buy milk #home","description":"from the corner shop"}`)

	var todo bytes.Buffer
	require.NoError(t, s.ExportTodoTxt(&todo))
	assert.Contains(t, todo.String(), "(B) quarterly report @work/q3 @writing")

	var md bytes.Buffer
	require.NoError(t, s.ExportMarkdown(&md))
	assert.Contains(t, md.String(), "- [ ] **(A)** plan offsite #work/q4\n  book the venue\n")
}
