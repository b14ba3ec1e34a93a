package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddLabels(t *testing.T) {
	tk := New("plan trip #travel", "", PriorityNone, nil)
	tk.AddLabels("#travel", "work  home", "", "#")
	assert.Equal(t, "plan trip #travel #work #home", tk.Title)
	assert.Equal(t, []string{"travel", "work", "home"}, tk.Labels())
}

func TestSummary(t *testing.T) {
	stepClock(t, epoch)

	tests := []struct {
		name  string
		setup func() *Task
		want  string
	}{
		{
			name:  "todo without priority",
			setup: func() *Task { return New("water plants", "", PriorityNone, nil) },
			want:  "☐ water plants",
		},
		{
			name: "done urgent",
			setup: func() *Task {
				tk := New("file taxes", "", PriorityUrgent, nil)
				tk.SetCompleted(true)
				return tk
			},
			want: "☑ ❗❗❗❗ file taxes",
		},
		{
			name: "in progress low",
			setup: func() *Task {
				tk := New("read", "", PriorityLow, nil)
				tk.SetInProgress(true)
				return tk
			},
			want: "▶ ❗ read",
		},
		{
			name:  "letter beyond the named priorities",
			setup: func() *Task { return NewWithLetter("someday", "", "Q", nil) },
			want:  "☐ (Q) someday",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.setup().Summary())
		})
	}
}
