package tui

import (
	"fmt"
	"strings"

	"github.com/rshade/uistate/internal/batch"
)

// View renders the current view.
func (m *BatchModel[R]) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(m.title))
	b.WriteString("\n\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")

	if m.state.Progress.TotalItems > 0 {
		b.WriteString(m.bar.ViewAs(m.state.Progress.Fraction()))
		b.WriteString("\n")
		b.WriteString(RenderProgressLine(m.state.Progress))
		b.WriteString("\n")
	}

	if m.startErr != nil {
		b.WriteString(ErrorStyle.Render("Cannot start: " + m.startErr.Error()))
		b.WriteString("\n")
	}

	if rows := m.renderResults(); rows != "" {
		b.WriteString("\n")
		b.WriteString(rows)
	}

	b.WriteString("\n")
	b.WriteString(RenderBatchHelp(m.state.Running))
	return b.String()
}

func (m *BatchModel[R]) renderStatus() string {
	if m.state.Running {
		return m.spinner.View() + " " + ValueStyle.Render("Running")
	}

	switch m.state.Outcome {
	case batch.OutcomeCompleted:
		return SuccessStyle.Render("Completed")
	case batch.OutcomeCanceled:
		return WarningStyle.Render("Canceled")
	case batch.OutcomeFailed:
		msg := "Failed"
		if m.state.Err != nil {
			msg += ": " + m.state.Err.Error()
		}
		return ErrorStyle.Render(msg)
	case batch.OutcomeNone:
	}
	return SubtleStyle.Render("Idle")
}

// renderResults renders the visible window of results with counts of the
// rows scrolled out above and below.
func (m *BatchModel[R]) renderResults() string {
	if m.results.Len() == 0 || m.render == nil {
		return ""
	}

	from, to := m.results.Window()
	var b strings.Builder
	if from > 0 {
		b.WriteString(SubtleStyle.Render(fmt.Sprintf("… %s earlier results", FormatCount(from))))
		b.WriteString("\n")
	}
	b.WriteString(m.results.View())
	b.WriteString("\n")
	if later := m.results.Len() - to; later > 0 {
		b.WriteString(SubtleStyle.Render(fmt.Sprintf("… %s later results", FormatCount(later))))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderProgressLine renders "processed/total items · batch x/y".
func RenderProgressLine(p batch.ProgressSnapshot) string {
	return LabelStyle.Render(fmt.Sprintf("%s/%s items · batch %d/%d · %s",
		FormatCount(p.ProcessedItems),
		FormatCount(p.TotalItems),
		p.ProcessedBatches,
		p.TotalBatches,
		FormatPercent(p.PercentComplete),
	))
}

// RenderBatchHelp renders the keyboard shortcut help text.
func RenderBatchHelp(running bool) string {
	shortcuts := []string{"s: Start", "↑/↓: Scroll", "q: Quit"}
	if running {
		shortcuts = []string{"c: Cancel", "↑/↓: Scroll", "q: Quit"}
	}
	return HelpStyle.Render(strings.Join(shortcuts, " | "))
}
