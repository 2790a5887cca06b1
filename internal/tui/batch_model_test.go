package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/uistate/internal/batch"
)

// fakeRunner records calls made by the model.
type fakeRunner struct {
	state    batch.State[int]
	startErr error
	starts   int
	cancels  int
	closes   int
}

func (f *fakeRunner) Start(context.Context) error {
	f.starts++
	return f.startErr
}

func (f *fakeRunner) Cancel() { f.cancels++ }

func (f *fakeRunner) Close() error {
	f.closes++
	return nil
}

func (f *fakeRunner) Snapshot() batch.State[int] { return f.state }

func renderInt(v int) string { return fmt.Sprintf("result %d", v) }

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBatchModel_Keys(t *testing.T) {
	t.Run("start runs Start off the update loop", func(t *testing.T) {
		f := &fakeRunner{}
		m := NewBatchModel[int](context.Background(), f, renderInt)

		_, cmd := m.Update(runes("s"))
		require.NotNil(t, cmd)
		assert.Zero(t, f.starts)

		msg := cmd()
		assert.Equal(t, 1, f.starts)
		_, cmd = m.Update(msg)
		assert.Nil(t, cmd)
		assert.NoError(t, m.startErr)
	})

	t.Run("start is ignored while running", func(t *testing.T) {
		f := &fakeRunner{}
		m := NewBatchModel[int](context.Background(), f, renderInt)
		m.Update(StateMsg[int]{State: batch.State[int]{Running: true, Seq: 1}})

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		assert.Nil(t, cmd)
	})

	t.Run("start rejection is shown", func(t *testing.T) {
		f := &fakeRunner{startErr: batch.ErrClosed}
		m := NewBatchModel[int](context.Background(), f, renderInt)

		_, cmd := m.Update(runes("s"))
		m.Update(cmd())
		assert.ErrorIs(t, m.startErr, batch.ErrClosed)
		assert.Contains(t, m.View(), "Cannot start")
	})

	t.Run("already running is not an error", func(t *testing.T) {
		f := &fakeRunner{startErr: batch.ErrAlreadyRunning}
		m := NewBatchModel[int](context.Background(), f, renderInt)
		m.Update(runSettledMsg{err: f.startErr})
		assert.NoError(t, m.startErr)
	})

	t.Run("cancel", func(t *testing.T) {
		f := &fakeRunner{}
		m := NewBatchModel[int](context.Background(), f, renderInt)
		m.Update(runes("c"))
		assert.Equal(t, 1, f.cancels)
	})

	t.Run("quit closes the runner", func(t *testing.T) {
		f := &fakeRunner{}
		m := NewBatchModel[int](context.Background(), f, renderInt)

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		require.NotNil(t, cmd)
		assert.Equal(t, tea.QuitMsg{}, cmd())
		assert.Equal(t, 1, f.closes)
		assert.True(t, m.Quitting())
		assert.Empty(t, m.View())
	})
}

func TestBatchModel_State(t *testing.T) {
	f := &fakeRunner{}
	m := NewBatchModel[int](context.Background(), f, renderInt, WithTitle[int]("Fetching"), WithMaxRows[int](2))

	m.Update(StateMsg[int]{State: batch.State[int]{Seq: 5, Outcome: batch.OutcomeCompleted, Results: []int{1, 2, 3}}})
	m.Update(StateMsg[int]{State: batch.State[int]{Seq: 3, Running: true}})

	assert.Equal(t, uint64(5), m.State().Seq, "stale snapshot is dropped")
	view := m.View()
	assert.Contains(t, view, "Fetching")
	assert.Contains(t, view, "Completed")
	assert.Contains(t, view, "result 3")
	assert.NotContains(t, view, "result 1")
	assert.Contains(t, view, "1 earlier results")
}

func TestBatchModel_Views(t *testing.T) {
	tests := []struct {
		name  string
		state batch.State[int]
		want  string
	}{
		{name: "idle", state: batch.State[int]{}, want: "Idle"},
		{name: "running", state: batch.State[int]{Running: true}, want: "Running"},
		{name: "canceled", state: batch.State[int]{Outcome: batch.OutcomeCanceled}, want: "Canceled"},
		{
			name:  "failed",
			state: batch.State[int]{Outcome: batch.OutcomeFailed, Err: errors.New("boom")},
			want:  "Failed: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewBatchModel[int](context.Background(), &fakeRunner{state: tt.state}, renderInt)
			assert.Contains(t, m.View(), tt.want)
		})
	}
}

func TestBatchModel_WithRunner(t *testing.T) {
	r, err := batch.NewRunner([]int{1, 2, 3, 4, 5}, func(_ context.Context, v int) (int, error) {
		return v * 10, nil
	}, batch.WithBatchSize(2))
	require.NoError(t, err)

	var msgs []tea.Msg
	r.Observe(func(s batch.State[int]) {
		msgs = append(msgs, StateMsg[int]{State: s})
	})

	m := NewBatchModel[int](context.Background(), r, renderInt, WithAutoStart[int]())
	require.NotNil(t, m.Init())

	_, cmd := m.Update(runes("s"))
	require.NotNil(t, cmd)
	settled := cmd()

	for _, msg := range msgs {
		m.Update(msg)
	}
	m.Update(settled)

	state := m.State()
	assert.False(t, state.Running)
	assert.Equal(t, []int{10, 20, 30, 40, 50}, state.Results)
	assert.Equal(t, batch.OutcomeCompleted, state.Outcome)

	view := m.View()
	assert.Contains(t, view, "5/5 items")
	assert.Contains(t, view, "batch 3/3")
	assert.Contains(t, view, "result 50")
}

func TestBatchModel_Resize(t *testing.T) {
	m := NewBatchModel[int](context.Background(), &fakeRunner{}, renderInt)
	m.Update(tea.WindowSizeMsg{Width: 200, Height: 40})
	assert.Equal(t, progressMaxWidth, m.bar.Width)

	m.Update(tea.WindowSizeMsg{Width: 30, Height: 40})
	assert.Equal(t, 26, m.bar.Width)
}

func TestBatchModel_ScrollResults(t *testing.T) {
	m := NewBatchModel[int](context.Background(), &fakeRunner{}, renderInt, WithMaxRows[int](2))
	m.Update(StateMsg[int]{State: batch.State[int]{Seq: 1, Results: []int{1, 2, 3, 4, 5}}})

	assert.Contains(t, m.View(), "3 earlier results")
	assert.NotContains(t, m.View(), "later results")

	m.Update(tea.KeyMsg{Type: tea.KeyHome})
	view := m.View()
	assert.Contains(t, view, "> result 1")
	assert.Contains(t, view, "3 later results")
	assert.NotContains(t, view, "earlier results")

	// New results do not move a cursor the user parked.
	m.Update(StateMsg[int]{State: batch.State[int]{Seq: 2, Results: []int{1, 2, 3, 4, 5, 6}}})
	assert.Contains(t, m.View(), "4 later results")
}
