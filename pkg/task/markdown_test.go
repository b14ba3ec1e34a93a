package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownRoundTrip(t *testing.T) {
	stepClock(t, epoch)

	due := time.Date(2026, 2, 8, 10, 0, 0, 0, time.UTC)
	tk := New("ship the #release", "# Notes\n\nCut the branch first.", PriorityB, &due)
	tk.SetInProgress(true)
	tk.Reminders.Add(due.Add(-time.Hour))

	content, err := tk.Markdown()
	require.NoError(t, err)
	assert.Contains(t, content, "ship the #release")
	assert.Contains(t, content, "priority: B")
	assert.Contains(t, content, "status: in-progress")
	assert.Contains(t, content, "labels: [")
	assert.Contains(t, content, "# Notes")

	edited := tk.Clone()
	require.NoError(t, edited.ApplyMarkdown(content))
	assert.True(t, tk.Equal(edited), "unedited document leaves the task unchanged")
}

func TestApplyMarkdown(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		check   func(t *testing.T, tk *Task)
	}{
		{
			name: "edits every field",
			input: `---
title: "Fix bug #work"
priority: a
due: 2026-03-01T09:00:00Z
status: done
---

Quick fix needed.
`,
			check: func(t *testing.T, tk *Task) {
				assert.Equal(t, "Fix bug #work", tk.Title)
				assert.Equal(t, PriorityA, tk.Priority)
				require.NotNil(t, tk.Due)
				assert.True(t, tk.Due.Equal(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)))
				assert.Equal(t, StatusDone, tk.Status())
				assert.Equal(t, "Quick fix needed.", tk.Description)
				assert.Len(t, tk.Progress(), 2, "completing stops the running timer")
			},
		},
		{
			name:  "no frontmatter replaces the description only",
			input: "Just some notes without frontmatter.",
			check: func(t *testing.T, tk *Task) {
				assert.Equal(t, "original", tk.Title)
				assert.Equal(t, "Just some notes without frontmatter.", tk.Description)
				assert.Equal(t, StatusInProgress, tk.Status())
			},
		},
		{
			name:  "todo status stops progress",
			input: "---\ntitle: original\nstatus: todo\n---\n",
			check: func(t *testing.T, tk *Task) {
				assert.Equal(t, StatusTodo, tk.Status())
				assert.Empty(t, tk.Description)
				assert.Nil(t, tk.Due)
				assert.Equal(t, PriorityNone, tk.Priority)
			},
		},
		{
			name:    "unclosed frontmatter",
			input:   "---\ntitle: broken\n",
			wantErr: true,
		},
		{
			name:    "missing title",
			input:   "---\nstatus: todo\n---\nbody",
			wantErr: true,
		},
		{
			name:    "unknown status",
			input:   "---\ntitle: x\nstatus: blocked\n---\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stepClock(t, epoch)
			tk := New("original", "before", PriorityNone, nil)
			tk.SetInProgress(true)

			err := tk.ApplyMarkdown(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, tk)
		})
	}
}

func TestMarkdownList(t *testing.T) {
	stepClock(t, epoch)

	done := New("write docs", "", PriorityNone, nil)
	done.SetCompleted(true)
	working := New("review", "line one\n\nline two", PriorityC, nil)
	working.SetInProgress(true)

	got := MarkdownList([]*Task{done, working})
	assert.Equal(t,
		"- [x] write docs\n"+
			"- [ ] **(C)** review _(in progress)_\n"+
			"  line one\n"+
			"  line two\n",
		got)
}
