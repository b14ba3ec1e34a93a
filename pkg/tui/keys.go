package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the TUI.
type KeyMap struct {
	Up            key.Binding
	Down          key.Binding
	Tab           key.Binding
	Space         key.Binding
	Progress      key.Binding
	InlineEdit    key.Binding
	ExternalEdit  key.Binding
	Add           key.Binding
	Delete        key.Binding
	Rename        key.Binding
	Due           key.Binding
	Priority      key.Binding
	ClearPriority key.Binding
	ClearProgress key.Binding
	Undo          key.Binding
	Redo          key.Binding
	Copy          key.Binding
	Cut           key.Binding
	Paste         key.Binding
	Sort          key.Binding
	Move          key.Binding
	Search        key.Binding
	Reload        key.Binding
	Sync          key.Binding
	Pull          key.Binding
	Help          key.Binding
	Quit          key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		Space: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle done"),
		),
		Progress: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "start/stop work"),
		),
		InlineEdit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit description"),
		),
		ExternalEdit: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "$EDITOR"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add task"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Rename: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rename"),
		),
		Due: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "set due date"),
		),
		Priority: key.NewBinding(
			key.WithKeys("1", "2", "3", "4"),
			key.WithHelp("1-4", "priority urgent..low"),
		),
		ClearPriority: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "clear priority"),
		),
		ClearProgress: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "clear logged work"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u", "ctrl+z"),
			key.WithHelp("u", "undo"),
		),
		Redo: key.NewBinding(
			key.WithKeys("U", "ctrl+y"),
			key.WithHelp("U", "redo"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy"),
		),
		Cut: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "cut"),
		),
		Paste: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "paste"),
		),
		Sort: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "sort"),
		),
		Move: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "move mode"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Reload: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reload"),
		),
		Sync: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "push to cloud"),
		),
		Pull: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "pull from cloud"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the footer help text.
func (k KeyMap) ShortHelp() string {
	return "↑↓ nav  space done  p work  a add  e edit  E $EDITOR  / search  o sort  u/U undo/redo  ? help"
}

// FullHelp returns all key bindings for the help modal.
func (k KeyMap) FullHelp() [][]string {
	return [][]string{
		{"↑/k", "Move up"},
		{"↓/j", "Move down"},
		{"tab", "Switch pane (list / details)"},
		{"space", "Toggle done"},
		{"p", "Start / stop work"},
		{"X", "Clear logged work"},
		{"a", "Add task (#words become labels)"},
		{"r", "Rename task"},
		{"e", "Edit description"},
		{"E", "Edit task in $EDITOR"},
		{"D", "Set due date (YYYY-MM-DD, empty clears)"},
		{"1-4", "Priority urgent / high / medium / low"},
		{"0", "Clear priority"},
		{"d", "Delete task (with confirmation)"},
		{"y / x / P", "Copy / cut / paste"},
		{"u / U", "Undo / redo"},
		{"o", "Cycle sort order"},
		{"m", "Move mode (reorder)"},
		{"/", "Search (#label filters, globs allowed)"},
		{"R", "Reload from disk"},
		{"s", "Push to cloud now"},
		{"S", "Replace list with the cloud copy"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
}
