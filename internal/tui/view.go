package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/streamexec/internal/domain/script"
)

// View renders the current state of the model.
func (m Model) View() string {
	var sections []string

	title := titleStyle.Render(fmt.Sprintf("streamexec • %s", m.title))
	sections = append(sections, title)

	if len(m.entries) > 0 {
		sections = append(sections, sectionStyle.Render("Statements"))
		sections = append(sections, m.renderEntries())
	}

	if m.finished {
		sections = append(sections, sectionStyle.Render("Summary"), summaryStyle.Render(m.renderSummary()))
	} else if m.cancelled {
		sections = append(sections, summaryStyle.Render(failureStyle.Render("interrupted")))
	} else {
		sections = append(sections, summaryStyle.Render(fmt.Sprintf("%s executing", m.spinner.View())))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderEntries() string {
	var lines []string
	for _, e := range m.entries {
		icon := successStyle.Render("✓")
		if e.err != nil {
			icon = failureStyle.Render("✗")
		}
		lines = append(lines, fmt.Sprintf(" %s %s %s", icon, lineStyle.Render(fmt.Sprintf("%3d", e.line)), headline(e.statement)))
		if logs := strings.TrimRight(e.logs, "\n"); logs != "" {
			for _, logLine := range strings.Split(logs, "\n") {
				lines = append(lines, logStyle.Render("     │ "+logLine))
			}
		}
		if e.err != nil {
			lines = append(lines, failureStyle.Render("     "+errorLabel(e.err)))
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderSummary() string {
	counts := fmt.Sprintf("%d statements, %d failed", m.executed, m.failed)
	if m.result.Err != nil {
		return fmt.Sprintf("%s\n%s", counts, failureStyle.Render(errorLabel(m.result.Err)))
	}
	return fmt.Sprintf("%s\n%s", counts, successStyle.Render("completed"))
}

// headline reduces a statement to its first line for display.
func headline(statement string) string {
	if i := strings.IndexByte(statement, '\n'); i >= 0 {
		return statement[:i] + " …"
	}
	return statement
}

func errorLabel(err *script.Error) string {
	switch err.Kind {
	case script.KindParse:
		return fmt.Sprintf("parse error: %s", err.Message)
	case script.KindTimeout:
		return fmt.Sprintf("timeout: %s", err.Message)
	default:
		return fmt.Sprintf("error: %s", err.Message)
	}
}
