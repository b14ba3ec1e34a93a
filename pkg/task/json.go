package task

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// wireTask is the on-disk shape of a Task. Fields at their default value are
// omitted, so a fresh task encodes as {"title":...,"description":...}.
type wireTask struct {
	Title       string      `json:"title,omitempty"`
	Description string      `json:"description,omitempty"`
	Priority    string      `json:"priority,omitempty"`
	Due         *time.Time  `json:"due,omitempty"`
	Completed   bool        `json:"completed,omitempty"`
	Reminders   []time.Time `json:"reminders,omitempty"`
	Intentions  *Intentions `json:"intentions,omitempty"`
	Progress    []time.Time `json:"progress,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (t *Task) MarshalJSON() ([]byte, error) {
	w := wireTask{
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority.String(),
		Due:         t.Due,
		Completed:   t.completed,
		Reminders:   t.Reminders.items,
		Progress:    t.progress,
	}
	if t.Intentions.Len() > 0 {
		w.Intentions = &t.Intentions
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler. Unknown priority letters decode
// as no priority.
func (t *Task) UnmarshalJSON(data []byte) error {
	var w wireTask
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*t = Task{
		Title:       w.Title,
		Description: w.Description,
		Priority:    ParsePriority(w.Priority),
		completed:   w.Completed,
	}
	t.SetDue(w.Due)
	for _, r := range w.Reminders {
		t.Reminders.Add(r)
	}
	if w.Intentions != nil {
		t.Intentions = *w.Intentions
	}
	if len(w.Progress) > 0 {
		t.progress = make([]time.Time, len(w.Progress))
		for i, p := range w.Progress {
			t.progress[i] = normalize(p)
		}
	}
	return nil
}

// Parse decodes a task from its JSON encoding.
func Parse(data []byte) (*Task, error) {
	var t Task
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing task: %w", err)
	}
	return &t, nil
}

// MarshalJSON encodes intentions as an object of start → end, keys in
// chronological order.
func (in *Intentions) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, item := range in.items {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(item.Start.Format(time.RFC3339Nano))
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(item.End.Format(time.RFC3339Nano))
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (in *Intentions) UnmarshalJSON(data []byte) error {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	in.items = nil
	for k, v := range raw {
		start, err := time.Parse(time.RFC3339Nano, k)
		if err != nil {
			return fmt.Errorf("parsing intention start %q: %w", k, err)
		}
		end, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return fmt.Errorf("parsing intention end %q: %w", v, err)
		}
		in.Set(start, end)
	}
	return nil
}
