package tui

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/stefanpenner/intentions/pkg/session"
	"github.com/stefanpenner/intentions/pkg/task"
)

const (
	dueLayout   = "2006-01-02"
	syncTimeout = 30 * time.Second
)

// FileChangedMsg is sent when the file watcher detects changes.
type FileChangedMsg struct{}

// SyncDoneMsg is sent when a push to or pull from the cloud completes.
type SyncDoneMsg struct {
	Pull bool
	Err  error
}

// EditorFinishedMsg is sent when $EDITOR returns.
type EditorFinishedMsg struct {
	Index int
	Path  string
	Err   error
}

type inputKind int

const (
	inputNone inputKind = iota
	inputAdd
	inputRename
	inputDue
)

// Model is the Bubble Tea model for the task list TUI.
type Model struct {
	sess         *session.Session
	keys         KeyMap
	width        int
	height       int
	tasks        []*task.Task
	visibleItems []ListItem
	cursor       int
	focusedPane  int // 0 = list, 1 = details
	notesScroll  int
	sortKey      session.SortKey

	// Modal state
	showHelpModal     bool
	showDeleteConfirm bool
	deleteIndex       int

	isMoveMode bool

	// Single-line prompt for add, rename and due date
	input      inputKind
	inputIndex int
	textInput  textinput.Model

	// Inline description edit
	isEditing  bool
	noteEditor textarea.Model
	editIndex  int

	// Search state
	isSearching bool
	searchQuery string
	searchErr   error

	// Status message
	statusMsg     string
	statusTimeout time.Time

	// Cached glamour renderer (expensive to create)
	glamourRenderer *glamour.TermRenderer
	glamourWidth    int
}

// NewModel creates a new TUI model over an open session.
func NewModel(s *session.Session) Model {
	ti := textinput.New()
	ti.CharLimit = 256

	m := Model{
		sess:      s,
		keys:      DefaultKeyMap(),
		textInput: ti,
	}
	m.reload()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.getGlamourRenderer(m.detailWidth() - 2)
		if m.isEditing {
			m.sizeEditor()
		}
		m.reload()
		return m, tea.ClearScreen

	case FileChangedMsg:
		changed, err := m.sess.Reload()
		if err != nil {
			m.setStatus("Reload failed: " + err.Error())
		} else if changed {
			m.setStatus("Picked up outside changes")
		}
		m.reload()
		return m, nil

	case SyncDoneMsg:
		switch {
		case msg.Err != nil:
			m.setStatus("Sync failed: " + msg.Err.Error())
		case msg.Pull:
			m.setStatus("Replaced list with the cloud copy")
		default:
			m.setStatus("Pushed to cloud")
		}
		m.reload()
		return m, nil

	case EditorFinishedMsg:
		m.finishEditor(msg)
		m.reload()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	if m.input != inputNone {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}

	if m.isEditing {
		var cmd tea.Cmd
		m.noteEditor, cmd = m.noteEditor.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.input != inputNone {
		return m.handleInput(msg)
	}

	if m.isEditing {
		return m.handleEditMode(msg)
	}

	if m.isSearching {
		return m.handleSearchInput(msg)
	}

	if m.showHelpModal {
		switch msg.String() {
		case "esc", "enter", "?", "q":
			m.showHelpModal = false
		}
		return m, nil
	}

	if m.isMoveMode {
		return m.handleMoveMode(msg)
	}

	if m.showDeleteConfirm {
		switch msg.String() {
		case "y", "Y":
			if t, err := m.sess.Delete(m.deleteIndex); err != nil {
				m.setStatus("Delete failed: " + err.Error())
			} else {
				m.setStatus("Deleted: " + t.Title)
				m.reload()
			}
			m.showDeleteConfirm = false
		case "n", "N", "esc":
			m.showDeleteConfirm = false
		}
		return m, nil
	}

	// If search filter is active (not typing), Esc/Enter clears it
	if m.searchQuery != "" && (msg.Type == tea.KeyEsc || msg.Type == tea.KeyEnter) {
		cur, ok := m.selected()
		m.searchQuery = ""
		m.rebuildVisible()
		if ok {
			m.selectIndex(cur.Index)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.focusedPane == 1 {
			if m.notesScroll > 0 {
				m.notesScroll--
			}
		} else {
			if m.cursor > 0 {
				m.cursor--
			}
			m.notesScroll = 0
		}

	case key.Matches(msg, m.keys.Down):
		if m.focusedPane == 1 {
			m.notesScroll++
		} else {
			if m.cursor < len(m.visibleItems)-1 {
				m.cursor++
			}
			m.notesScroll = 0
		}

	case key.Matches(msg, m.keys.Tab):
		m.focusedPane = (m.focusedPane + 1) % 2

	case key.Matches(msg, m.keys.Space):
		if item, ok := m.selected(); ok {
			m.apply(m.sess.ToggleCompleted(item.Index), "")
		}

	case key.Matches(msg, m.keys.Progress):
		if item, ok := m.selected(); ok {
			status := "Started: " + item.Task.Title
			if item.Task.InProgress() {
				status = "Stopped: " + item.Task.Title
			}
			m.apply(m.sess.ToggleProgress(item.Index), status)
		}

	case key.Matches(msg, m.keys.ClearProgress):
		if item, ok := m.selected(); ok {
			m.apply(m.sess.ClearProgress(item.Index, -1), "Cleared logged work")
		}

	case key.Matches(msg, m.keys.Priority):
		if item, ok := m.selected(); ok {
			p := task.PriorityA + task.Priority(msg.String()[0]-'1')
			m.apply(m.setPriority(item.Index, p), "Priority "+p.String())
		}

	case key.Matches(msg, m.keys.ClearPriority):
		if item, ok := m.selected(); ok {
			m.apply(m.setPriority(item.Index, task.PriorityNone), "Priority cleared")
		}

	case key.Matches(msg, m.keys.InlineEdit):
		if item, ok := m.selected(); ok {
			m.enterEditMode(item)
			return m, textarea.Blink
		}

	case key.Matches(msg, m.keys.ExternalEdit):
		if item, ok := m.selected(); ok {
			return m, m.openEditor(item)
		}

	case key.Matches(msg, m.keys.Add):
		m.startInput(inputAdd, -1, "", "new task (#words become labels)")
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Rename):
		if item, ok := m.selected(); ok {
			m.startInput(inputRename, item.Index, item.Task.Title, "new title")
			return m, textinput.Blink
		}

	case key.Matches(msg, m.keys.Due):
		if item, ok := m.selected(); ok {
			value := ""
			if item.Task.Due != nil {
				value = item.Task.Due.Local().Format(dueLayout)
			}
			m.startInput(inputDue, item.Index, value, "YYYY-MM-DD, empty clears")
			return m, textinput.Blink
		}

	case key.Matches(msg, m.keys.Delete):
		if item, ok := m.selected(); ok {
			m.deleteIndex = item.Index
			m.showDeleteConfirm = true
		}

	case key.Matches(msg, m.keys.Undo):
		if !m.sess.CanUndo() {
			m.setStatus("Nothing to undo")
			break
		}
		m.apply(m.sess.Undo(), "Undone")

	case key.Matches(msg, m.keys.Redo):
		if !m.sess.CanRedo() {
			m.setStatus("Nothing to redo")
			break
		}
		m.apply(m.sess.Redo(), "Redone")

	case key.Matches(msg, m.keys.Copy):
		if item, ok := m.selected(); ok {
			m.apply(m.sess.Copy(item.Index), "Copied: "+item.Task.Title)
		}

	case key.Matches(msg, m.keys.Cut):
		if item, ok := m.selected(); ok {
			m.apply(m.sess.Cut(item.Index), "Cut: "+item.Task.Title)
		}

	case key.Matches(msg, m.keys.Paste):
		i, err := m.sess.Paste()
		m.apply(err, "Pasted")
		if err == nil {
			m.selectIndex(i)
		}

	case key.Matches(msg, m.keys.Sort):
		m.sortKey = m.sortKey.Next()
		m.apply(m.sess.Sort(m.sortKey), "Sorted by "+string(m.sortKey))

	case key.Matches(msg, m.keys.Move):
		if item, ok := m.selected(); ok {
			m.isMoveMode = true
			m.moveCursor(item.Index)
			m.setStatus("Move mode: j/k reorder, enter/esc exit")
		}

	case key.Matches(msg, m.keys.Search):
		m.isSearching = true
		m.searchQuery = ""
		m.rebuildVisible()

	case key.Matches(msg, m.keys.Reload):
		changed, err := m.sess.Reload()
		switch {
		case err != nil:
			m.setStatus("Reload failed: " + err.Error())
		case changed:
			m.setStatus("Reloaded")
		default:
			m.setStatus("Already up to date")
		}
		m.reload()

	case key.Matches(msg, m.keys.Sync):
		return m, m.doSync(false)

	case key.Matches(msg, m.keys.Pull):
		return m, m.doSync(true)

	case key.Matches(msg, m.keys.Help):
		m.showHelpModal = !m.showHelpModal
	}

	return m, nil
}

// handleInput handles key messages while the single-line prompt is open.
func (m Model) handleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.input = inputNone
		return m, nil
	case tea.KeyEnter:
		m.submitInput(strings.TrimSpace(m.textInput.Value()))
		m.input = inputNone
		return m, nil
	default:
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
}

func (m *Model) startInput(kind inputKind, index int, value, placeholder string) {
	m.input = kind
	m.inputIndex = index
	m.textInput.Reset()
	m.textInput.SetValue(value)
	m.textInput.Placeholder = placeholder
	m.textInput.Focus()
}

func (m *Model) submitInput(value string) {
	switch m.input {
	case inputAdd:
		if value == "" {
			return
		}
		t := task.New(value, "", task.PriorityNone, nil)
		// New tasks pick up the labels being filtered on.
		t.AddLabels(m.literalSearchLabels()...)
		i, err := m.sess.Add(t)
		m.apply(err, "Added: "+t.Title)
		if err == nil {
			m.selectIndex(i)
		}

	case inputRename:
		if value == "" {
			return
		}
		m.apply(m.sess.Update(m.inputIndex, func(t *task.Task) error {
			t.Title = value
			return nil
		}), "Renamed to: "+value)

	case inputDue:
		var due *time.Time
		if value != "" {
			d, err := time.ParseInLocation(dueLayout, value, time.Local)
			if err != nil {
				m.setStatus("Bad date: " + value)
				return
			}
			due = &d
		}
		status := "Due date cleared"
		if due != nil {
			status = "Due " + value
		}
		m.apply(m.sess.Update(m.inputIndex, func(t *task.Task) error {
			t.SetDue(due)
			return nil
		}), status)
	}
}

// literalSearchLabels returns the active label filters that name a single
// label rather than a glob.
func (m Model) literalSearchLabels() []string {
	var out []string
	for _, l := range ParseSearch(m.searchQuery).Labels {
		if !strings.ContainsAny(l, `*?[]{}\`) {
			out = append(out, l)
		}
	}
	return out
}

// handleEditMode handles key messages while inline editing.
func (m Model) handleEditMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		// Save and exit
		m.saveInlineEdit()
		m.isEditing = false
		m.noteEditor.Blur()
		m.reload()
		return m, nil

	case msg.Type == tea.KeyCtrlS:
		// Save but stay in edit mode
		m.saveInlineEdit()
		m.reload()
		return m, nil

	case msg.Type == tea.KeyCtrlC:
		// Cancel without saving
		m.isEditing = false
		m.noteEditor.Blur()
		m.setStatus("Edit cancelled")
		return m, nil

	default:
		var cmd tea.Cmd
		m.noteEditor, cmd = m.noteEditor.Update(msg)
		return m, cmd
	}
}

// handleSearchInput handles key messages while typing in the search bar.
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		// Exit search and clear filter
		m.isSearching = false
		m.searchQuery = ""
		m.rebuildVisible()
		return m, nil

	case tea.KeyEnter, tea.KeyDown, tea.KeyTab:
		// Exit search input but keep filter active
		m.isSearching = false
		return m, nil

	case tea.KeyBackspace:
		if len(m.searchQuery) > 0 {
			_, size := utf8.DecodeLastRuneInString(m.searchQuery)
			m.searchQuery = m.searchQuery[:len(m.searchQuery)-size]
		}
		m.rebuildVisible()
		return m, nil

	case tea.KeySpace:
		m.searchQuery += " "
		m.rebuildVisible()
		return m, nil

	default:
		if msg.Type == tea.KeyRunes {
			m.searchQuery += string(msg.Runes)
			m.rebuildVisible()
		}
		return m, nil
	}
}

func (m Model) handleMoveMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc || msg.Type == tea.KeyEnter || key.Matches(msg, m.keys.Quit):
		m.isMoveMode = false
		m.setStatus("Move complete")

	case key.Matches(msg, m.keys.Down):
		m.moveSelected(1)

	case key.Matches(msg, m.keys.Up):
		m.moveSelected(-1)
	}
	return m, nil
}

func (m *Model) moveSelected(delta int) {
	item, ok := m.selected()
	if !ok {
		return
	}
	i, err := m.sess.Move(item.Index, delta)
	if err != nil {
		m.setStatus("Move error: " + err.Error())
		return
	}
	m.reload()
	m.moveCursor(i)
}

// moveCursor is selectIndex for move mode, which always shows the whole list.
func (m *Model) moveCursor(i int) {
	if m.searchQuery != "" {
		m.searchQuery = ""
		m.rebuildVisible()
	}
	m.selectIndex(i)
}

// enterEditMode sets up the textarea for inline editing of a description.
func (m *Model) enterEditMode(item ListItem) {
	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.SetValue(item.Task.Description)
	ta.Focus()

	m.isEditing = true
	m.noteEditor = ta
	m.editIndex = item.Index
	m.focusedPane = 1
	m.sizeEditor()
}

func (m *Model) sizeEditor() {
	m.noteEditor.SetWidth(max(m.detailWidth(), 20))
	// outer chrome, the rendered task header and the file path line
	m.noteEditor.SetHeight(max(m.height-5-6-1, 3))
}

// saveInlineEdit writes the textarea content back as the description.
func (m *Model) saveInlineEdit() {
	body := m.noteEditor.Value()
	err := m.sess.Update(m.editIndex, func(t *task.Task) error {
		t.Description = body
		return nil
	})
	if err != nil {
		m.setStatus("Save error: " + err.Error())
		return
	}
	m.setStatus("Saved")
}

func (m *Model) setPriority(i int, p task.Priority) error {
	return m.sess.Update(i, func(t *task.Task) error {
		t.SetPriority(p)
		return nil
	})
}

// apply reports the outcome of a session mutation and refreshes the list.
// An empty status leaves the status line alone on success.
func (m *Model) apply(err error, status string) {
	if err != nil {
		m.setStatus("Error: " + err.Error())
		return
	}
	if status != "" {
		m.setStatus(status)
	}
	m.reload()
}

func (m Model) selected() (ListItem, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visibleItems) {
		return ListItem{}, false
	}
	return m.visibleItems[m.cursor], true
}

// selectIndex puts the cursor on the row showing list index i, if visible.
func (m *Model) selectIndex(i int) {
	if row := indexOf(m.visibleItems, i); row >= 0 {
		m.cursor = row
	}
}

func (m *Model) reload() {
	m.tasks = m.sess.Tasks()
	m.rebuildVisible()
}

func (m *Model) rebuildVisible() {
	f := ParseSearch(m.searchQuery)
	m.searchErr = f.Validate()
	if m.searchErr != nil {
		f.Labels = nil
	}
	m.visibleItems = BuildListItems(m.tasks, f)

	// Clamp cursor
	if m.cursor >= len(m.visibleItems) {
		m.cursor = len(m.visibleItems) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) detailWidth() int {
	return m.width - m.listWidth() - 1
}

func (m Model) listWidth() int {
	return max(m.width*2/5, 20)
}

// getGlamourRenderer returns a cached glamour renderer, creating one if needed
// or if the width changed.
func (m *Model) getGlamourRenderer(width int) *glamour.TermRenderer {
	if width < 20 {
		width = 20
	}
	if m.glamourRenderer != nil && m.glamourWidth == width {
		return m.glamourRenderer
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	m.glamourRenderer = r
	m.glamourWidth = width
	return r
}

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusTimeout = time.Now().Add(3 * time.Second)
}

// openEditor writes the task as markdown to a temp file and opens $EDITOR on
// it. The result is applied when EditorFinishedMsg arrives.
func (m *Model) openEditor(item ListItem) tea.Cmd {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vim"
	}

	content, err := item.Task.Markdown()
	if err != nil {
		m.setStatus("Error: " + err.Error())
		return nil
	}
	f, err := os.CreateTemp("", "intentions-*.md")
	if err != nil {
		m.setStatus("Error: " + err.Error())
		return nil
	}
	path := f.Name()
	_, err = f.WriteString(content)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		m.setStatus("Error: " + err.Error())
		return nil
	}

	index := item.Index
	c := exec.Command(editor, path)
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return EditorFinishedMsg{Index: index, Path: path, Err: err}
	})
}

func (m *Model) finishEditor(msg EditorFinishedMsg) {
	defer os.Remove(msg.Path)
	if msg.Err != nil {
		m.setStatus("Editor failed: " + msg.Err.Error())
		return
	}
	data, err := os.ReadFile(msg.Path)
	if err != nil {
		m.setStatus("Error: " + err.Error())
		return
	}
	if err := m.sess.Edit(msg.Index, string(data)); err != nil {
		m.setStatus("Edit rejected: " + err.Error())
		return
	}
	m.setStatus("Saved")
}

func (m Model) doSync(pull bool) tea.Cmd {
	sess := m.sess
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()

		if pull {
			return SyncDoneMsg{Pull: true, Err: sess.PullRemote(ctx)}
		}
		return SyncDoneMsg{Err: sess.PushRemote(ctx)}
	}
}
