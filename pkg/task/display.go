package task

import (
	"slices"
	"strings"
)

// AddLabels appends " #label" to the title for each label not already
// present. Leading '#' characters and surrounding whitespace are ignored;
// labels containing whitespace are split into several.
func (t *Task) AddLabels(labels ...string) {
	have := t.Labels()
	var b strings.Builder
	b.WriteString(t.Title)
	for _, l := range labels {
		for _, word := range strings.Fields(l) {
			word = strings.TrimLeft(word, "#")
			if word == "" || slices.Contains(have, word) {
				continue
			}
			have = append(have, word)
			b.WriteString(" #")
			b.WriteString(word)
		}
	}
	t.Title = b.String()
}

// StatusGlyph is the check-box shown in front of a task in lists.
func (t *Task) StatusGlyph() string {
	switch t.Status() {
	case StatusDone:
		return "☑"
	case StatusInProgress:
		return "▶"
	default:
		return "☐"
	}
}

// PriorityGlyph marks the four named priorities with one to four
// exclamation marks and shows any other letter in parentheses.
func (t *Task) PriorityGlyph() string {
	switch t.Priority {
	case PriorityNone:
		return ""
	case PriorityUrgent:
		return "❗❗❗❗"
	case PriorityHigh:
		return "❗❗❗"
	case PriorityMedium:
		return "❗❗"
	case PriorityLow:
		return "❗"
	default:
		return "(" + t.Priority.String() + ")"
	}
}

// Summary is the one-line form of a task used in lists.
func (t *Task) Summary() string {
	var b strings.Builder
	b.WriteString(t.StatusGlyph())
	b.WriteString(" ")
	if p := t.PriorityGlyph(); p != "" {
		b.WriteString(p)
		b.WriteString(" ")
	}
	b.WriteString(t.Title)
	return b.String()
}
