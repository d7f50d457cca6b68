package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/streamexec/internal/domain/script"
)

// EventMsg delivers one settled statement event to the view.
type EventMsg struct {
	Event script.Event
}

// DoneMsg reports that the run has finished with its terminal result.
type DoneMsg struct {
	Result script.Result
}

// entry is a rendered statement outcome.
type entry struct {
	statement string
	line      int
	logs      string
	err       *script.Error
}

// Model contains the Bubbletea state for the statement stream view.
type Model struct {
	title     string
	entries   []entry
	executed  int
	failed    int
	finished  bool
	cancelled bool
	result    script.Result
	spinner   spinner.Model

	// interrupt cancels the underlying run when the user quits early.
	// May be nil.
	interrupt func()
}

// NewModel constructs a stream view for the given source location.
func NewModel(title string, interrupt func()) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return Model{
		title:     title,
		entries:   make([]entry, 0),
		spinner:   s,
		interrupt: interrupt,
	}
}

// Init starts the Bubbletea program.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// ExecutedStatements returns the number of statements observed so far.
func (m Model) ExecutedStatements() int {
	return m.executed
}

// FailedStatements returns the number of failed statements observed so far.
func (m Model) FailedStatements() int {
	return m.failed
}

// IsFinished reports whether the run has reached its terminal result.
func (m Model) IsFinished() bool {
	return m.finished
}

// IsCancelled reports whether the user interrupted the run.
func (m Model) IsCancelled() bool {
	return m.cancelled
}

// Result returns the terminal result. Only meaningful once IsFinished is true.
func (m Model) Result() script.Result {
	return m.result
}
