package task

import (
	"net/url"
	"regexp"
	"strings"
	"time"
)

var whitespaceChar = regexp.MustCompile(`\s`)

const dateLayout = "2006-01-02"

// TodoTxt renders the task as a single todo.txt line. Only the title,
// description, priority, due date (date only) and completion survive.
// Labels become todo.txt contexts (#work → @work) and the description is
// URL-encoded into a "desc:" tag. The completion date is the day of the last
// progress stamp, or today if there is none. Dates use the local time zone.
func (t *Task) TodoTxt() string {
	tokens := whitespaceChar.Split(t.Title, -1)
	for i, token := range tokens {
		if isLabel(token) {
			tokens[i] = "@" + token[1:]
		}
	}
	title := strings.Join(tokens, " ") + " "

	var desc string
	if t.Description != "" {
		desc = "desc:" + url.QueryEscape(t.Description) + " "
	}

	var pri string
	if t.Priority.IsSet() {
		if t.completed {
			pri = "pri:" + t.Priority.String() + " "
		} else {
			pri = "(" + t.Priority.String() + ") "
		}
	}

	var due string
	if t.Due != nil {
		due = "due:" + localDate(*t.Due) + " "
	}

	var b strings.Builder
	if t.completed {
		b.WriteString("x " + t.completionDate() + " ")
	} else {
		b.WriteString(pri)
	}
	b.WriteString(title)
	b.WriteString(desc)
	if t.completed {
		b.WriteString(pri)
	}
	b.WriteString(due)
	b.WriteString("\n")
	return b.String()
}

func (t *Task) completionDate() string {
	if n := len(t.progress); n > 0 {
		return localDate(t.progress[n-1])
	}
	return localDate(nowFunc())
}

func localDate(ts time.Time) string {
	return ts.In(time.Local).Format(dateLayout)
}

// TodoTxtList renders every task as consecutive todo.txt lines.
func TodoTxtList(tasks []*Task) string {
	var b strings.Builder
	for _, t := range tasks {
		b.WriteString(t.TodoTxt())
	}
	return b.String()
}
