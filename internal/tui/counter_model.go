package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/uistate/internal/counter"
)

// CounterModel is the Bubble Tea model for an interactive bounded counter.
type CounterModel struct {
	counter  *counter.Counter
	title    string
	quitting bool
}

// NewCounterModel wraps c in a model.
func NewCounterModel(c *counter.Counter, title string) *CounterModel {
	if title == "" {
		title = "Counter"
	}
	return &CounterModel{counter: c, title: title}
}

// Init initializes the model (required for tea.Model interface).
func (m *CounterModel) Init() tea.Cmd {
	return nil
}

// Update handles key presses.
func (m *CounterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "+", "=", "up", "k":
		m.counter.Increment()
	case "-", "_", "down", "j":
		m.counter.Decrement()
	case "r":
		m.counter.Reset()
	case "q", "esc", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// View renders the count, its bounds and the help line.
func (m *CounterModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(m.title))
	b.WriteString("\n\n")

	value := ValueStyle.Render(fmt.Sprintf("%d", m.counter.Count()))
	if m.counter.AtMin() || m.counter.AtMax() {
		value = WarningStyle.Render(fmt.Sprintf("%d", m.counter.Count()))
	}
	b.WriteString(LabelStyle.Render("Count: "))
	b.WriteString(value)
	b.WriteString("  ")
	b.WriteString(SubtleStyle.Render(RenderBounds(m.counter.Bounds())))
	b.WriteString("\n\n")
	b.WriteString(HelpStyle.Render("+/↑: Increment | -/↓: Decrement | r: Reset | q: Quit"))
	return b.String()
}

// Count returns the current counter value.
func (m *CounterModel) Count() int {
	return m.counter.Count()
}

// RenderBounds renders "[min .. max]" with "-∞"/"∞" for missing bounds.
func RenderBounds(lower, upper *int) string {
	lo, hi := "-∞", "∞"
	if lower != nil {
		lo = fmt.Sprintf("%d", *lower)
	}
	if upper != nil {
		hi = fmt.Sprintf("%d", *upper)
	}
	return fmt.Sprintf("[%s .. %s]", lo, hi)
}
