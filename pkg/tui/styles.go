package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/stefanpenner/intentions/pkg/task"
)

var (
	colorAccent    = lipgloss.Color("#7D56F4")
	colorDone      = lipgloss.Color("#25A065")
	colorKey       = lipgloss.Color("#4285F4")
	colorAlert     = lipgloss.Color("#E05252")
	colorActive    = lipgloss.Color("#E5C07B")
	colorMuted     = lipgloss.Color("#626262")
	colorFaint     = lipgloss.Color("#404040")
	colorText      = lipgloss.Color("#FFFFFF")
	colorTextDim   = lipgloss.Color("#D0D0D0")
	colorInfo      = lipgloss.Color("#56B6C2")
	colorWarm      = lipgloss.Color("#D19A66")
	colorCursorBg  = lipgloss.Color("#2D3B4D")
	colorMoveBg    = lipgloss.Color("#3E2F1F")
	colorMatchBg   = lipgloss.Color("#1E1A2E")
	colorMatchChar = lipgloss.Color("#2E2545")
)

// Chrome
var (
	HeaderStyle      = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	MutedStyle       = lipgloss.NewStyle().Foreground(colorMuted)
	FaintStyle       = lipgloss.NewStyle().Foreground(colorFaint)
	StatusMsgStyle   = lipgloss.NewStyle().Foreground(colorInfo)
	PromptStyle      = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	ActiveLabelTab   = lipgloss.NewStyle().Bold(true).Foreground(colorText).Background(colorAccent).Padding(0, 1)
	InactiveLabelTab = lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1)
)

// Rows
var (
	CursorStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorText).Background(colorCursorBg)
	MovingStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorWarm).Background(colorMoveBg)
	DueStyle     = lipgloss.NewStyle().Foreground(colorInfo)
	OverdueStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAlert)

	// statusStyles colours the check-box glyph by lifecycle state.
	statusStyles = map[task.Status]lipgloss.Style{
		task.StatusTodo:       lipgloss.NewStyle().Foreground(colorTextDim),
		task.StatusInProgress: lipgloss.NewStyle().Foreground(colorActive),
		task.StatusDone:       lipgloss.NewStyle().Foreground(colorDone),
	}
)

// priorityStyle fades from red for A through to grey past D.
func priorityStyle(p task.Priority) lipgloss.Style {
	switch p {
	case task.PriorityUrgent:
		return lipgloss.NewStyle().Bold(true).Foreground(colorAlert)
	case task.PriorityHigh:
		return lipgloss.NewStyle().Foreground(colorWarm)
	case task.PriorityMedium:
		return lipgloss.NewStyle().Foreground(colorActive)
	case task.PriorityLow:
		return lipgloss.NewStyle().Foreground(colorKey)
	default:
		return MutedStyle
	}
}

// Search
var (
	SearchBarStyle       = lipgloss.NewStyle().Foreground(colorText)
	MatchRowStyle        = lipgloss.NewStyle().Background(colorMatchBg)
	MatchCharStyle       = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Background(colorMatchChar)
	MatchCharCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Background(colorCursorBg)
)

// Modals
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(1, 2)

	ModalTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	HelpKeyStyle    = lipgloss.NewStyle().Foreground(colorKey).Width(16)
	HelpDescStyle   = lipgloss.NewStyle().Foreground(colorText)
	ConfirmYesStyle = lipgloss.NewStyle().Foreground(colorDone)
	ConfirmNoStyle  = lipgloss.NewStyle().Foreground(colorAlert)
)

// separatorStyle draws the divider between panes, lit while the details pane
// has focus.
func separatorStyle(focused bool) lipgloss.Style {
	if focused {
		return lipgloss.NewStyle().Foreground(colorAccent)
	}
	return FaintStyle
}

// IconMove marks the task being reordered.
const IconMove = "↕"
