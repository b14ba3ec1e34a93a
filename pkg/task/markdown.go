package task

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const frontmatterDelimiter = "---"

// frontmatter holds the editable fields of a task as YAML.
type frontmatter struct {
	Title    string     `yaml:"title"`
	Priority string     `yaml:"priority,omitempty"`
	Due      *time.Time `yaml:"due,omitempty"`
	Status   Status     `yaml:"status"`
	Labels   []string   `yaml:"labels,omitempty,flow"`
}

// Markdown renders the task as a markdown document with YAML frontmatter.
// The description becomes the body. Labels are informational; they are
// always recomputed from the title.
func (t *Task) Markdown() (string, error) {
	fm := frontmatter{
		Title:    t.Title,
		Priority: t.Priority.String(),
		Due:      t.Due,
		Status:   t.Status(),
		Labels:   t.Labels(),
	}
	yamlBytes, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("serializing frontmatter YAML: %w", err)
	}

	var b strings.Builder
	b.WriteString(frontmatterDelimiter)
	b.WriteString("\n")
	b.WriteString(strings.TrimRight(string(yamlBytes), "\n"))
	b.WriteString("\n")
	b.WriteString(frontmatterDelimiter)
	b.WriteString("\n")
	if t.Description != "" {
		b.WriteString("\n")
		b.WriteString(t.Description)
		if !strings.HasSuffix(t.Description, "\n") {
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// ApplyMarkdown updates the task from a document produced by Markdown,
// typically after the user has edited it. Progress, reminders and intentions
// are kept. A status change goes through SetCompleted/SetInProgress so the
// progress log stays consistent.
//
// Content without frontmatter replaces only the description.
func (t *Task) ApplyMarkdown(content string) error {
	content = strings.TrimSpace(content)

	if !strings.HasPrefix(content, frontmatterDelimiter) {
		t.Description = content
		return nil
	}

	rest := content[len(frontmatterDelimiter):]
	idx := strings.Index(rest, "\n"+frontmatterDelimiter)
	if idx == -1 {
		return fmt.Errorf("unclosed frontmatter delimiter")
	}

	var fm frontmatter
	if err := yaml.Unmarshal([]byte(rest[:idx]), &fm); err != nil {
		return fmt.Errorf("parsing frontmatter YAML: %w", err)
	}
	if strings.TrimSpace(fm.Title) == "" {
		return fmt.Errorf("frontmatter: title is required")
	}

	body := rest[idx+len("\n"+frontmatterDelimiter):]
	t.Title = fm.Title
	t.Description = strings.TrimSpace(body)
	t.SetPriority(ParsePriority(strings.ToUpper(fm.Priority)))
	t.SetDue(fm.Due)

	switch fm.Status {
	case StatusDone:
		t.SetCompleted(true)
	case StatusInProgress:
		t.SetInProgress(true)
	case StatusTodo, "":
		t.SetCompleted(false)
		t.SetInProgress(false)
	default:
		return fmt.Errorf("frontmatter: unknown status %q", fm.Status)
	}
	return nil
}

// MarkdownList renders tasks as a single markdown checklist, one line per
// task, with descriptions indented beneath.
func MarkdownList(tasks []*Task) string {
	var b strings.Builder
	for _, t := range tasks {
		box := " "
		if t.Completed() {
			box = "x"
		}
		fmt.Fprintf(&b, "- [%s] ", box)
		if t.Priority.IsSet() {
			fmt.Fprintf(&b, "**(%s)** ", t.Priority)
		}
		b.WriteString(t.Title)
		if t.InProgress() {
			b.WriteString(" _(in progress)_")
		}
		if t.Due != nil {
			fmt.Fprintf(&b, " (due %s)", localDate(*t.Due))
		}
		b.WriteString("\n")
		for _, line := range strings.Split(strings.TrimSpace(t.Description), "\n") {
			if line == "" {
				continue
			}
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String()
}
