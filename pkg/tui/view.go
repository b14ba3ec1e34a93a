package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/stefanpenner/intentions/pkg/task"
)

const minWidth = 40
const minHeight = 10

// View implements tea.Model.
func (m Model) View() string {
	w := m.width
	h := m.height
	if w < minWidth {
		w = minWidth
	}
	if h < minHeight {
		h = minHeight
	}

	if m.showHelpModal {
		modal := m.renderHelpModal()
		return placeOverlay(modal, w, h)
	}

	if m.showDeleteConfirm {
		modal := m.renderDeleteModal()
		return placeOverlay(modal, w, h)
	}

	var b strings.Builder

	b.WriteString(m.renderHeader(w))
	b.WriteString("\n")

	b.WriteString(m.renderLabelTabs(w))
	b.WriteString("\n")

	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")

	headerLines := 3
	footerLines := 2

	// Search bar takes a line if active
	searchActive := m.isSearching || m.searchQuery != ""
	if searchActive {
		headerLines++
	}

	contentHeight := h - headerLines - footerLines

	if searchActive {
		b.WriteString(m.renderSearchBar(w))
		b.WriteString("\n")
	}

	leftWidth := max(w*2/5, 20)
	rightWidth := max(w-leftWidth-1, 20)

	leftPanel := m.renderListPanel(leftWidth, contentHeight)
	rightPanel := m.renderDetailPanel(rightWidth, contentHeight)

	sep := separatorStyle(m.focusedPane == 1 || m.isEditing).Render("│")
	for i := 0; i < contentHeight; i++ {
		b.WriteString(getLine(leftPanel, i, leftWidth))
		b.WriteString(sep)
		b.WriteString(getLine(rightPanel, i, rightWidth))
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")

	b.WriteString(m.renderFooter(w))

	return b.String()
}

func (m Model) renderHeader(width int) string {
	title := HeaderStyle.Render("Intentions")

	done := 0
	for _, t := range m.tasks {
		if t.Completed() {
			done++
		}
	}
	stats := MutedStyle.Render(fmt.Sprintf("%d/%d done", done, len(m.tasks)))
	if s := m.syncSummary(); s != "" {
		stats = MutedStyle.Render(s+"  ") + stats
	}

	status := ""
	if m.statusMsg != "" && time.Now().Before(m.statusTimeout) {
		status = "  " + StatusMsgStyle.Render(m.statusMsg)
	}

	gap := width - lipgloss.Width(title) - lipgloss.Width(stats) - lipgloss.Width(status)
	if gap < 1 {
		gap = 1
	}

	return title + strings.Repeat(" ", gap) + status + stats
}

// syncSummary describes the background cloud writer, or "" when sync is off.
func (m Model) syncSummary() string {
	if !m.sess.SyncEnabled() {
		return ""
	}
	st := m.sess.SyncStatus()
	switch {
	case st.Pending:
		return "☁ syncing"
	case st.LastErr != nil:
		return "☁ sync failed"
	case st.LastWrite.IsZero():
		return "☁ idle"
	default:
		return "☁ synced " + st.LastWrite.Local().Format("15:04")
	}
}

// renderLabelTabs shows the sort order and every label in use. Labels that
// the search is filtering on are highlighted.
func (m Model) renderLabelTabs(width int) string {
	var tabs []string
	sortName := "manual"
	if m.sortKey != "" {
		sortName = string(m.sortKey)
	}
	tabs = append(tabs, MutedStyle.Render("Sort: "+sortName+"  Labels: "))

	labels := m.sess.Labels()
	if len(labels) == 0 {
		tabs = append(tabs, MutedStyle.Render("(none, add #words to titles)"))
	}
	active := make(map[string]bool)
	for _, l := range m.literalSearchLabels() {
		active[l] = true
	}
	for _, l := range labels {
		if active[l] {
			tabs = append(tabs, ActiveLabelTab.Render("#"+l))
		} else {
			tabs = append(tabs, InactiveLabelTab.Render("#"+l))
		}
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(tabs, ""))
}

func (m Model) renderSearchBar(width int) string {
	prefix := SearchBarStyle.Render(" / ")
	query := SearchBarStyle.Render(m.searchQuery)
	cursor := ""
	if m.isSearching {
		cursor = SearchBarStyle.Render("█")
	}

	countStr := ""
	switch {
	case m.searchErr != nil:
		countStr = OverdueStyle.Render(" " + m.searchErr.Error())
	case m.searchQuery != "":
		countStr = MutedStyle.Render(fmt.Sprintf(" %d matches", len(m.visibleItems)))
	}

	left := prefix + query + cursor
	padWidth := width - lipgloss.Width(left) - lipgloss.Width(countStr)
	if padWidth < 1 {
		padWidth = 1
	}

	return left + strings.Repeat(" ", padWidth) + countStr
}

func (m Model) renderListPanel(width, height int) string {
	var lines []string

	// Reserve last line for the task file path
	listHeight := height - 1
	if listHeight < 1 {
		listHeight = 1
	}

	if len(m.visibleItems) == 0 && m.input != inputAdd {
		if m.searchQuery != "" {
			lines = append(lines, MutedStyle.Render("Nothing matches the search."))
		} else {
			lines = append(lines, MutedStyle.Render("No tasks yet. Press 'a' to add one."))
		}
	}

	// Scrolling window
	startIdx := 0
	endIdx := len(m.visibleItems)
	if len(m.visibleItems) > listHeight {
		half := listHeight / 2
		startIdx = m.cursor - half
		if startIdx < 0 {
			startIdx = 0
		}
		endIdx = startIdx + listHeight
		if endIdx > len(m.visibleItems) {
			endIdx = len(m.visibleItems)
			startIdx = endIdx - listHeight
			if startIdx < 0 {
				startIdx = 0
			}
		}
	}

	for i := startIdx; i < endIdx; i++ {
		item := m.visibleItems[i]

		// Inline prompt replaces the row being renamed or re-dated
		if (m.input == inputRename || m.input == inputDue) && item.Index == m.inputIndex {
			prompt := PromptStyle.Render("✎ ")
			if m.input == inputDue {
				prompt = PromptStyle.Render("due ")
			}
			lines = append(lines, prompt+m.textInput.View())
			continue
		}

		lines = append(lines, m.renderRow(item, i == m.cursor, width))
	}

	if m.input == inputAdd {
		prompt := PromptStyle.Render("> ")
		lines = append(lines, prompt+m.textInput.View())
	}

	for len(lines) < listHeight {
		lines = append(lines, "")
	}

	pathLine := FaintStyle.Render(fileHyperlink(m.sess.LocalPath()))
	lines = append(lines, pathLine)

	return strings.Join(lines, "\n")
}

func (m Model) renderRow(item ListItem, isSelected bool, width int) string {
	t := item.Task

	statusIcon := statusStyles[t.Status()].Render(t.StatusGlyph())

	movePrefix := ""
	isMoveTarget := m.isMoveMode && isSelected
	if isMoveTarget {
		movePrefix = IconMove + " "
	}

	priority := ""
	if p := t.PriorityGlyph(); p != "" {
		priority = priorityStyle(t.Priority).Render(p) + " "
	}

	name := t.Title
	if item.Match {
		word := firstWord(ParseSearch(m.searchQuery).Query)
		if isSelected {
			name = highlightMatch(name, word, MatchCharCursorStyle, CursorStyle)
		} else {
			name = highlightMatch(name, word, MatchCharStyle, MatchRowStyle)
		}
	}

	due := ""
	if t.Due != nil {
		style := DueStyle
		if isOverdue(t, time.Now()) {
			style = OverdueStyle
		}
		due = " " + style.Render(t.Due.Local().Format("Jan 2"))
	}

	line := movePrefix + statusIcon + " " + priority + name + due
	line = lipgloss.NewStyle().MaxWidth(width).Render(line)

	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		line += strings.Repeat(" ", width-lineWidth)
	}

	if isMoveTarget {
		line = MovingStyle.Render(line)
	} else if item.Match && !isSelected {
		line = MatchRowStyle.Render(line)
	} else if isSelected {
		line = CursorStyle.Render(line)
	}

	return line
}

func (m Model) renderDetailPanel(width, height int) string {
	item, ok := m.selected()
	if !ok {
		return MutedStyle.Render(" Select a task to view details")
	}
	t := item.Task

	// Reserve last line for the position indicator
	bodyHeight := height - 1
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	header := taskHeader(t, time.Now())
	posLine := FaintStyle.Render(fmt.Sprintf("task %d of %d", item.Index+1, len(m.tasks)))

	if m.isEditing {
		headerRendered := m.renderMarkdown(header)
		var lines []string
		lines = append(lines, strings.Split(headerRendered, "\n")...)
		lines = append(lines, strings.Split(m.noteEditor.View(), "\n")...)

		if len(lines) > bodyHeight {
			lines = lines[:bodyHeight]
		}
		for len(lines) < bodyHeight {
			lines = append(lines, "")
		}
		lines = append(lines, posLine)
		return strings.Join(lines, "\n")
	}

	var md strings.Builder
	md.WriteString(header)
	if t.Description != "" {
		md.WriteString(t.Description)
		if !strings.HasSuffix(t.Description, "\n") {
			md.WriteString("\n")
		}
	}

	lines := strings.Split(m.renderMarkdown(md.String()), "\n")

	scroll := m.notesScroll
	if scroll > len(lines)-1 {
		scroll = len(lines) - 1
	}
	if scroll < 0 {
		scroll = 0
	}
	lines = lines[scroll:]

	if len(lines) > bodyHeight {
		lines = lines[:bodyHeight]
	}
	for len(lines) < bodyHeight {
		lines = append(lines, "")
	}
	lines = append(lines, posLine)

	return strings.Join(lines, "\n")
}

// renderMarkdown renders md with the cached glamour renderer, falling back to
// the raw text.
func (m Model) renderMarkdown(md string) string {
	rendered := md
	if m.glamourRenderer != nil {
		if out, err := m.glamourRenderer.Render(md); err == nil {
			rendered = out
		}
	}
	return strings.TrimRight(rendered, "\n ")
}

// taskHeader builds the markdown shown above a task's description.
func taskHeader(t *task.Task, now time.Time) string {
	var md strings.Builder

	md.WriteString("# " + t.Title + "\n\n")

	meta := []string{"**Status:** " + string(t.Status())}
	if t.Priority.IsSet() {
		meta = append(meta, "**Priority:** "+t.Priority.String())
	}
	if t.Due != nil {
		due := t.Due.Local().Format(dueLayout)
		if isOverdue(t, now) {
			due += " (overdue)"
		}
		meta = append(meta, "**Due:** "+due)
	}
	if labels := t.Labels(); len(labels) > 0 {
		meta = append(meta, "**Labels:** "+strings.Join(labels, ", "))
	}
	md.WriteString(strings.Join(meta, " | ") + "\n\n")

	if spent := t.TimeSpent(); spent > 0 {
		md.WriteString("**Time spent:** " + spent.Round(time.Second).String() + "\n\n")
	}

	if reminders := t.Reminders.All(); len(reminders) > 0 {
		md.WriteString("**Reminders**\n\n")
		for _, r := range reminders {
			md.WriteString("- " + r.Local().Format("2006-01-02 15:04") + "\n")
		}
		md.WriteString("\n")
	}

	if intentions := t.Intentions.All(); len(intentions) > 0 {
		md.WriteString("**Planned work**\n\n")
		for _, in := range intentions {
			md.WriteString(fmt.Sprintf("- %s to %s\n",
				in.Start.Local().Format("2006-01-02 15:04"),
				in.End.Local().Format("15:04")))
		}
		md.WriteString("\n")
	}

	return md.String()
}

func isOverdue(t *task.Task, now time.Time) bool {
	if t.Due == nil || t.Completed() {
		return false
	}
	y, mo, d := now.Date()
	return t.Due.Before(time.Date(y, mo, d, 0, 0, 0, 0, now.Location()))
}

func (m Model) renderFooter(width int) string {
	help := m.keys.ShortHelp()
	if m.input != inputNone {
		help = "enter confirm  esc cancel"
	} else if m.isEditing {
		help = "esc save & exit  ctrl+s save  ctrl+c cancel"
	} else if m.isSearching {
		help = "type words or #label globs  enter/↓ keep filter  esc clear"
	} else if m.searchQuery != "" {
		help = "esc/enter clear filter  ↑↓ nav  a adds with filtered labels"
	} else if m.isMoveMode {
		help = "↑↓ reorder  enter/esc exit move"
	} else if m.focusedPane == 1 {
		help = "↑↓ scroll details  tab list  e edit  E $EDITOR  ? help"
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(MutedStyle.Render(help))
}

func (m Model) renderHelpModal() string {
	var b strings.Builder

	b.WriteString(ModalTitleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")


	for _, binding := range m.keys.FullHelp() {
		b.WriteString(HelpKeyStyle.Render(binding[0]))
		b.WriteString(HelpDescStyle.Render(binding[1]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(MutedStyle.Render("Press Esc or ? to close"))

	return ModalStyle.Render(b.String())
}

func (m Model) renderDeleteModal() string {
	var b strings.Builder

	title := ""
	if m.deleteIndex >= 0 && m.deleteIndex < len(m.tasks) {
		title = m.tasks[m.deleteIndex].Title
	}

	b.WriteString(ModalTitleStyle.Render("Delete Task"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Delete '%s'? Undo brings it back.\n\n", title))
	b.WriteString(ConfirmYesStyle.Render("[y]") + " Yes  ")
	b.WriteString(ConfirmNoStyle.Render("[n]") + " No")

	return ModalStyle.Render(b.String())
}

// highlightMatch splits name into before/match/after and styles the match
// portion with charStyle, and the rest with rowStyle. Matching is
// case-sensitive, like the search itself.
func highlightMatch(name, query string, charStyle, rowStyle lipgloss.Style) string {
	idx := -1
	if query != "" {
		idx = strings.Index(name, query)
	}
	if idx < 0 {
		return rowStyle.Render(name)
	}
	before := name[:idx]
	match := name[idx : idx+len(query)]
	after := name[idx+len(query):]

	var result string
	if before != "" {
		result += rowStyle.Render(before)
	}
	result += charStyle.Render(match)
	if after != "" {
		result += rowStyle.Render(after)
	}
	return result
}

func firstWord(s string) string {
	if fields := strings.Fields(s); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

// fileHyperlink wraps a file path in an OSC 8 terminal hyperlink so it's clickable.
func fileHyperlink(path string) string {
	url := "file://" + path
	return fmt.Sprintf("\x1b]8;;%s\x1b\\%s\x1b]8;;\x1b\\", url, path)
}

// Helper functions

func getLine(block string, idx int, width int) string {
	lines := strings.Split(block, "\n")
	if idx < len(lines) {
		line := lines[idx]
		lineWidth := lipgloss.Width(line)
		if lineWidth < width {
			return line + strings.Repeat(" ", width-lineWidth)
		}
		return line
	}
	return strings.Repeat(" ", width)
}

func placeOverlay(modal string, width, height int) string {
	modalLines := strings.Split(modal, "\n")

	topPadding := (height - len(modalLines)) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	leftPadding := (width - lipgloss.Width(modalLines[0])) / 2
	if leftPadding < 0 {
		leftPadding = 0
	}

	var result strings.Builder
	for i := 0; i < topPadding; i++ {
		result.WriteString("\n")
	}

	for _, line := range modalLines {
		result.WriteString(strings.Repeat(" ", leftPadding))
		result.WriteString(line)
		result.WriteString("\n")
	}

	return result.String()
}
