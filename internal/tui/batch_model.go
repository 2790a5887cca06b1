package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/uistate/internal/batch"
	"github.com/rshade/uistate/internal/tui/resultlist"
)

// Default dimensions for the batch model.
const (
	batchDefaultWidth   = 80
	batchDefaultRows    = 10
	progressMaxWidth    = 60
	progressSidePadding = 4
)

// Runner is the part of batch.Runner the model drives.
type Runner[R any] interface {
	Start(ctx context.Context) error
	Cancel()
	Close() error
	Snapshot() batch.State[R]
}

// RenderFunc renders a single result line.
type RenderFunc[R any] func(result R) string

// StateMsg carries a runner snapshot into the Bubble Tea loop. Send it from
// the runner's observer with tea.Program.Send.
type StateMsg[R any] struct {
	State batch.State[R]
}

// runSettledMsg is sent when a Start call returns.
type runSettledMsg struct {
	err error
}

// BatchModel is the Bubble Tea model for watching and controlling a batch run.
type BatchModel[R any] struct {
	ctx    context.Context
	runner Runner[R]
	render RenderFunc[R]
	title  string

	// Latest applied snapshot
	state batch.State[R]

	// startErr holds a Start rejection other than ErrAlreadyRunning.
	startErr error

	autoStart bool
	quitting  bool

	spinner spinner.Model
	bar     progress.Model
	results *resultlist.Model[R]

	width int
}

// BatchOption configures a BatchModel.
type BatchOption[R any] func(*BatchModel[R])

// WithTitle sets the header line.
func WithTitle[R any](title string) BatchOption[R] {
	return func(m *BatchModel[R]) {
		m.title = title
	}
}

// WithAutoStart starts the run from Init.
func WithAutoStart[R any]() BatchOption[R] {
	return func(m *BatchModel[R]) {
		m.autoStart = true
	}
}

// WithMaxRows sets how many result rows are shown at once.
func WithMaxRows[R any](rows int) BatchOption[R] {
	return func(m *BatchModel[R]) {
		if rows > 0 {
			m.results.SetHeight(rows)
		}
	}
}

// NewBatchModel creates a model bound to runner. ctx is passed to every Start.
func NewBatchModel[R any](
	ctx context.Context,
	runner Runner[R],
	render RenderFunc[R],
	opts ...BatchOption[R],
) *BatchModel[R] {
	m := &BatchModel[R]{
		ctx:     ctx,
		runner:  runner,
		render:  render,
		title:   "Batch run",
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(SpinnerStyle)),
		bar:     progress.New(progress.WithDefaultGradient()),
		width:   batchDefaultWidth,
	}
	m.results = resultlist.New[R](batchDefaultRows, m.renderRow)
	for _, opt := range opts {
		opt(m)
	}
	m.resizeBar()
	m.applyState(runner.Snapshot())
	return m
}

// Init starts the spinner and, with WithAutoStart, the run.
func (m *BatchModel[R]) Init() tea.Cmd {
	if m.autoStart {
		return tea.Batch(m.spinner.Tick, m.startCmd())
	}
	return m.spinner.Tick
}

// Update handles runner snapshots, key presses and resizes.
func (m *BatchModel[R]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.resizeBar()
		return m, nil

	case StateMsg[R]:
		m.applyState(msg.State)
		return m, nil

	case runSettledMsg:
		if msg.err != nil && !errors.Is(msg.err, batch.ErrAlreadyRunning) {
			m.startErr = msg.err
		}
		m.applyState(m.runner.Snapshot())
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

// handleKeyMsg processes keyboard input.
func (m *BatchModel[R]) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		_ = m.runner.Close()
		m.quitting = true
		return m, tea.Quit

	case "s", "enter":
		if m.state.Running {
			return m, nil
		}
		m.startErr = nil
		return m, m.startCmd()

	case "c", "esc":
		m.runner.Cancel()
		m.applyState(m.runner.Snapshot())
		return m, nil
	}

	m.results.HandleKey(msg)
	return m, nil
}

// startCmd runs Start off the UI goroutine.
func (m *BatchModel[R]) startCmd() tea.Cmd {
	// Capture references before the goroutine to avoid sharing model fields.
	ctx := m.ctx
	runner := m.runner

	return func() tea.Msg {
		return runSettledMsg{err: runner.Start(ctx)}
	}
}

// applyState keeps the newest snapshot; older ones can arrive late because
// observers run on whichever goroutine caused the transition.
func (m *BatchModel[R]) applyState(s batch.State[R]) {
	if s.Seq < m.state.Seq {
		return
	}
	m.state = s
	m.results.SetItems(s.Results)
}

// renderRow marks the row under the cursor.
func (m *BatchModel[R]) renderRow(r R, selected bool) string {
	if m.render == nil {
		return ""
	}
	if selected {
		return SelectedStyle.Render("> " + m.render(r))
	}
	return "  " + m.render(r)
}

func (m *BatchModel[R]) resizeBar() {
	m.bar.Width = min(max(m.width-progressSidePadding, 10), progressMaxWidth)
}

// State returns the latest snapshot applied to the model.
func (m *BatchModel[R]) State() batch.State[R] {
	return m.state
}

// Quitting reports whether the user asked to exit.
func (m *BatchModel[R]) Quitting() bool {
	return m.quitting
}
