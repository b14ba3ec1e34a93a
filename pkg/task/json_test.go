package task

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringIsMinimalJSON(t *testing.T) {
	tk := New("this is a task", "it has a description", PriorityNone, nil)
	assert.Equal(t, `{"title":"this is a task","description":"it has a description"}`, tk.String())

	assert.Equal(t, `{}`, New("", "", PriorityNone, nil).String())
}

func TestParse(t *testing.T) {
	tk, err := Parse([]byte(`{"title": "this is a task","description": "it has a description"}`))
	require.NoError(t, err)
	assert.Equal(t, "this is a task", tk.Title)
	assert.Equal(t, "it has a description", tk.Description)
	assert.Equal(t, PriorityNone, tk.Priority)
	assert.Nil(t, tk.Due)
	assert.False(t, tk.Completed())
	assert.Zero(t, tk.Reminders.Len())
	assert.Zero(t, tk.Intentions.Len())
	assert.Empty(t, tk.Progress())
	assert.False(t, tk.InProgress())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", `title: nope`},
		{"bad due", `{"due":"yesterday"}`},
		{"bad intention key", `{"intentions":{"soon":"1970-01-01T00:00:00Z"}}`},
		{"bad progress", `{"progress":["x"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestParseCoercesUnknownPriority(t *testing.T) {
	tk, err := Parse([]byte(`{"title":"t","priority":"AA"}`))
	require.NoError(t, err)
	assert.Equal(t, PriorityNone, tk.Priority)
}

func TestFieldOrder(t *testing.T) {
	stepClock(t, epoch)

	tk := New("t", "d", PriorityC, ptr(epoch))
	tk.Reminders.Add(epoch)
	tk.Intentions.Set(epoch, epoch.Add(time.Hour))
	tk.SetInProgress(true)
	tk.SetCompleted(true)

	want := `{"title":"t","description":"d","priority":"C","due":"1970-01-01T00:00:00Z",` +
		`"completed":true,"reminders":["1970-01-01T00:00:00Z"],` +
		`"intentions":{"1970-01-01T00:00:00Z":"1970-01-01T01:00:00Z"},` +
		`"progress":["1970-01-01T00:00:01Z","1970-01-01T00:00:02Z"]}`
	assert.Equal(t, want, tk.String())
}

func TestIntentionKeysAreChronological(t *testing.T) {
	var in Intentions
	in.Set(epoch.Add(500*time.Millisecond), epoch.Add(time.Hour))
	in.Set(epoch, epoch.Add(time.Hour))

	b, err := json.Marshal(&in)
	require.NoError(t, err)
	assert.Equal(t, `{"1970-01-01T00:00:00Z":"1970-01-01T01:00:00Z","1970-01-01T00:00:00.5Z":"1970-01-01T01:00:00Z"}`, string(b))
}

func TestRoundTrip(t *testing.T) {
	stepClock(t, time.Now())

	full := New("write #report for #work", "quarterly numbers", PriorityB, ptr(time.Now().Add(48*time.Hour)))
	full.Reminders.Add(time.Now().Add(time.Hour))
	full.Reminders.Add(time.Now().Add(2 * time.Hour))
	full.Intentions.Set(time.Now(), time.Now().Add(30*time.Minute))
	full.Intentions.Set(time.Now().Add(10*time.Minute), time.Now().Add(time.Hour))
	full.SetInProgress(true)
	full.SetInProgress(false)
	full.SetInProgress(true)

	done := New("done", "", PriorityZ, nil)
	done.SetCompleted(true)

	for _, tk := range []*Task{New("", "", PriorityNone, nil), full, done} {
		b, err := json.Marshal(tk)
		require.NoError(t, err)
		got, err := Parse(b)
		require.NoError(t, err)
		assert.True(t, tk.Equal(got), "round trip of %s", b)
	}
}

func TestListSerialization(t *testing.T) {
	tasks := []*Task{
		New("t1", "desc", PriorityNone, nil),
		New("t2", "desc", PriorityNone, nil),
		New("t3", "desc", PriorityNone, nil),
		New("t4", "desc", PriorityNone, nil),
		New("t5", "desc", PriorityNone, nil),
	}

	b, err := json.Marshal(tasks)
	require.NoError(t, err)
	assert.Equal(t, `[{"title":"t1","description":"desc"},`+
		`{"title":"t2","description":"desc"},`+
		`{"title":"t3","description":"desc"},`+
		`{"title":"t4","description":"desc"},`+
		`{"title":"t5","description":"desc"}]`, string(b))

	var decoded []*Task
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Len(t, decoded, len(tasks))
	for i := range tasks {
		assert.True(t, tasks[i].Equal(decoded[i]))
	}
}
