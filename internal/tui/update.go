package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles Bubbletea messages and updates model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.finished {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case EventMsg:
		m.entries = append(m.entries, entry{
			statement: msg.Event.Statement,
			line:      msg.Event.Line,
			logs:      msg.Event.Logs,
			err:       msg.Event.Err,
		})
		m.executed++
		if msg.Event.Failed() {
			m.failed++
		}
		return m, nil
	case DoneMsg:
		m.finished = true
		m.result = msg.Result
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			m.cancelled = true
			if m.interrupt != nil {
				m.interrupt()
			}
			return m, tea.Quit
		}
	}

	return m, nil
}
