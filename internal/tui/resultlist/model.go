package resultlist

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// RenderFunc renders one row. selected is true for the row under the cursor.
type RenderFunc[T any] func(item T, selected bool) string

// Model is a scroll window of height rows over items.
type Model[T any] struct {
	items  []T
	render RenderFunc[T]

	// cursor is the selected item index (0-based)
	cursor int

	// from and to bound the rendered window [from, to)
	from int
	to   int

	height int

	// follow keeps the cursor on the last item as items are added.
	follow bool
}

// New creates an empty list that shows height rows at a time.
func New[T any](height int, render RenderFunc[T]) *Model[T] {
	return &Model[T]{
		render: render,
		height: max(height, 1),
		follow: true,
	}
}

// SetItems replaces the items, typically with a longer copy of the previous slice.
func (m *Model[T]) SetItems(items []T) {
	m.items = items
	if m.follow {
		m.cursor = len(items) - 1
	}
	m.clampCursor()
	m.updateWindow()
}

// SetHeight changes how many rows are shown.
func (m *Model[T]) SetHeight(height int) {
	m.height = max(height, 1)
	m.updateWindow()
}

// HandleKey moves the cursor for navigation keys and reports whether msg was one.
//
//nolint:exhaustive // Only navigation keys are handled.
func (m *Model[T]) HandleKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyUp:
		m.moveTo(m.cursor - 1)
	case tea.KeyDown:
		m.moveTo(m.cursor + 1)
	case tea.KeyPgUp:
		m.moveTo(m.cursor - m.height)
	case tea.KeyPgDown:
		m.moveTo(m.cursor + m.height)
	case tea.KeyHome:
		m.moveTo(0)
	case tea.KeyEnd:
		m.moveTo(len(m.items) - 1)
	case tea.KeyRunes:
		switch string(msg.Runes) {
		case "k":
			m.moveTo(m.cursor - 1)
		case "j":
			m.moveTo(m.cursor + 1)
		case "g":
			m.moveTo(0)
		case "G":
			m.moveTo(len(m.items) - 1)
		default:
			return false
		}
	default:
		return false
	}
	return true
}

func (m *Model[T]) moveTo(index int) {
	if len(m.items) == 0 {
		return
	}
	m.cursor = index
	m.clampCursor()
	m.follow = m.cursor == len(m.items)-1
	m.updateWindow()
}

func (m *Model[T]) clampCursor() {
	m.cursor = min(max(m.cursor, 0), max(len(m.items)-1, 0))
}

// updateWindow scrolls as little as needed to keep the cursor visible.
func (m *Model[T]) updateWindow() {
	if m.cursor < m.from {
		m.from = m.cursor
	}
	if m.cursor >= m.from+m.height {
		m.from = m.cursor - m.height + 1
	}
	m.from = min(max(m.from, 0), max(len(m.items)-m.height, 0))
	m.to = min(m.from+m.height, len(m.items))
}

// View renders the rows inside the window.
func (m *Model[T]) View() string {
	if len(m.items) == 0 || m.render == nil {
		return ""
	}

	rows := make([]string, 0, m.to-m.from)
	for i := m.from; i < m.to; i++ {
		rows = append(rows, m.render(m.items[i], i == m.cursor))
	}
	return strings.Join(rows, "\n")
}

// Len returns the number of items.
func (m *Model[T]) Len() int {
	return len(m.items)
}

// Cursor returns the selected index.
func (m *Model[T]) Cursor() int {
	return m.cursor
}

// Window returns the rendered range [from, to).
func (m *Model[T]) Window() (from, to int) {
	return m.from, m.to
}

// Following reports whether new items move the cursor to the end.
func (m *Model[T]) Following() bool {
	return m.follow
}

// Selected returns the item under the cursor.
func (m *Model[T]) Selected() (T, bool) {
	var zero T
	if len(m.items) == 0 {
		return zero, false
	}
	return m.items[m.cursor], true
}
