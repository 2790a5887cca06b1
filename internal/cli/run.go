package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/uistate/internal/batch"
	"github.com/rshade/uistate/internal/config"
	"github.com/rshade/uistate/internal/logging"
	"github.com/rshade/uistate/internal/tui"
)

// runFlags holds the flags shared by commands that drive a batch run.
type runFlags struct {
	batchSize int
	timeout   string
	plain     bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.batchSize, "batch-size", batch.DefaultBatchSize,
		"number of requests dispatched concurrently per batch (overrides batch.size)")
	cmd.Flags().StringVar(&f.timeout, "timeout", config.DefaultTimeout,
		"per-request timeout, e.g. 5s; 0 disables it (overrides batch.timeout)")
	cmd.Flags().BoolVar(&f.plain, "plain", false,
		"print progress lines instead of the interactive view")
}

// runSettings are the effective run parameters after flags override config.
type runSettings struct {
	batchSize   int
	timeout     time.Duration
	interactive bool
}

// resolve applies explicitly set flags over cfg and validates the result.
func (f *runFlags) resolve(cmd *cobra.Command, cfg *config.Config) (runSettings, error) {
	eff := *cfg
	if cmd.Flags().Changed("batch-size") {
		eff.Batch.Size = f.batchSize
	}
	if cmd.Flags().Changed("timeout") {
		eff.Batch.Timeout = f.timeout
	}
	if err := eff.Validate(); err != nil {
		return runSettings{}, err
	}

	timeout, err := eff.RequestTimeout()
	if err != nil {
		return runSettings{}, err
	}

	return runSettings{
		batchSize:   eff.Batch.Size,
		timeout:     timeout,
		interactive: !f.plain && isTerminal(os.Stdout) && isTerminal(os.Stdin),
	}, nil
}

// runJob describes one batch run started from the command line.
type runJob[R any] struct {
	title  string
	items  []string
	fn     batch.RequestFunc[string, R]
	render func(R) string
}

// executeRun builds a runner for job and drives it through the TUI or the
// plain renderer. A failed run returns the recorded error; a canceled one
// returns nil.
func executeRun[R any](cmd *cobra.Command, a *app, settings runSettings, job runJob[R]) error {
	runLogger := logging.ComponentLogger(logger, "batch")
	if settings.interactive && (a.logResult == nil || !a.logResult.UsingFile) {
		// stderr logging would tear the alternate screen.
		runLogger = zerolog.Nop()
	}

	runner, err := batch.NewRunner(job.items, job.fn,
		batch.WithBatchSize(settings.batchSize),
		batch.WithLogger(runLogger),
	)
	if err != nil {
		return err
	}
	defer func() { _ = runner.Close() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Debug().Ctx(ctx).
		Str("job", job.title).
		Int("items", len(job.items)).
		Int("batch_size", settings.batchSize).
		Dur("timeout", settings.timeout).
		Bool("interactive", settings.interactive).
		Msg("starting batch run")

	if settings.interactive {
		err = runInteractive(ctx, runner, job)
	} else {
		err = runPlain(ctx, cmd.OutOrStdout(), runner, job)
	}
	if err != nil {
		return err
	}

	state := runner.Snapshot()
	if state.Outcome == batch.OutcomeFailed {
		return fmt.Errorf("%s failed after %d results: %w", job.title, len(state.Results), state.Err)
	}
	return nil
}

// runInteractive shows the run in a Bubble Tea program until the user quits.
func runInteractive[R any](ctx context.Context, runner *batch.Runner[string, R], job runJob[R]) error {
	model := tui.NewBatchModel[R](ctx, runner, job.render,
		tui.WithTitle[R](job.title),
		tui.WithAutoStart[R](),
	)
	p := tea.NewProgram(model)

	// Send from a fresh goroutine: Cancel and Close notify from inside Update,
	// where a direct Send would block the event loop. StateMsg.Seq restores order.
	unsubscribe := runner.Observe(func(s batch.State[R]) {
		go p.Send(tui.StateMsg[R]{State: s})
	})
	defer unsubscribe()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run interactive TUI: %w", err)
	}
	return nil
}

// runPlain runs to completion, printing each batch's results and a progress
// line as the batch is published, then a summary.
func runPlain[R any](ctx context.Context, w io.Writer, runner *batch.Runner[string, R], job runJob[R]) error {
	printedResults, printedBatches := 0, 0
	unsubscribe := runner.Observe(func(s batch.State[R]) {
		if s.Progress.ProcessedBatches == printedBatches {
			return
		}
		for _, res := range s.Results[printedResults:] {
			fmt.Fprintln(w, job.render(res))
		}
		printedResults = len(s.Results)
		printedBatches = s.Progress.ProcessedBatches
		fmt.Fprintln(w, plainProgressLine(s.Progress))
	})
	defer unsubscribe()

	if err := runner.Start(ctx); err != nil {
		return err
	}

	fmt.Fprintln(w, plainSummary(job.title, runner.Snapshot()))
	return nil
}

// plainProgressLine renders "batch 2/3: 20/25 items (80.0%)".
func plainProgressLine(p batch.ProgressSnapshot) string {
	return fmt.Sprintf("batch %d/%d: %s/%s items (%s)",
		p.ProcessedBatches,
		p.TotalBatches,
		tui.FormatCount(p.ProcessedItems),
		tui.FormatCount(p.TotalItems),
		tui.FormatPercent(p.PercentComplete),
	)
}

// plainSummary renders the final line of a plain run.
func plainSummary[R any](title string, s batch.State[R]) string {
	p := s.Progress
	line := fmt.Sprintf("%s: %s, %s of %s items in %s",
		title,
		s.Outcome,
		tui.FormatCount(len(s.Results)),
		tui.FormatCount(p.TotalItems),
		p.Elapsed.Round(time.Millisecond),
	)
	if s.Err != nil {
		line += ": " + s.Err.Error()
	}
	return line
}
