package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/uistate/internal/config"
	"github.com/rshade/uistate/internal/counter"
	"github.com/rshade/uistate/internal/tui"
)

// ErrUnknownCounterOp is returned for a counter operation other than inc, dec or reset.
var ErrUnknownCounterOp = errors.New("unknown counter operation")

// newCounterCmd creates the counter command.
func newCounterCmd(a *app) *cobra.Command {
	var (
		minVal, maxVal, initial int
		plain                   bool
	)

	cmd := &cobra.Command{
		Use:   "counter [inc|dec|reset ...]",
		Short: "Apply operations to a bounded counter",
		Long: `Counter applies each operation in order and prints the final count. With no
operations on a terminal it opens an interactive counter instead. Increment
stops at --max and decrement stops at --min; reset returns to --initial.`,
		Example: `  # Prints 1
  uistate counter inc inc dec

  # Prints 2: the third increment is ignored
  uistate counter inc inc inc --max 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := a.cfg.Counter
			if cmd.Flags().Changed("min") {
				cc.Min = &minVal
			}
			if cmd.Flags().Changed("max") {
				cc.Max = &maxVal
			}
			if cmd.Flags().Changed("initial") {
				cc.Initial = initial
			}
			if cc.Min != nil && cc.Max != nil && *cc.Min > *cc.Max {
				return usageError(fmt.Errorf("%w: min=%d max=%d", config.ErrInvalidBounds, *cc.Min, *cc.Max))
			}

			c := newCounter(cc)
			if len(args) == 0 && !plain && isTerminal(os.Stdout) && isTerminal(os.Stdin) {
				p := tea.NewProgram(tui.NewCounterModel(c, "Counter"))
				if _, err := p.Run(); err != nil {
					return fmt.Errorf("failed to run interactive TUI: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), c.Count())
				return nil
			}

			if err := applyCounterOps(c, args); err != nil {
				return usageError(err)
			}
			logger.Debug().Ctx(cmd.Context()).Strs("ops", args).Int("count", c.Count()).Msg("counter ops applied")
			fmt.Fprintln(cmd.OutOrStdout(), c.Count())
			return nil
		},
	}

	cmd.Flags().IntVar(&minVal, "min", 0, "lower bound (overrides counter.min)")
	cmd.Flags().IntVar(&maxVal, "max", 0, "upper bound (overrides counter.max)")
	cmd.Flags().IntVar(&initial, "initial", 0, "starting and reset value (overrides counter.initial)")
	cmd.Flags().BoolVar(&plain, "plain", false, "never open the interactive counter")
	return cmd
}

func newCounter(cc config.CounterConfig) *counter.Counter {
	opts := []counter.Option{counter.WithInitial(cc.Initial)}
	if cc.Min != nil {
		opts = append(opts, counter.WithMin(*cc.Min))
	}
	if cc.Max != nil {
		opts = append(opts, counter.WithMax(*cc.Max))
	}
	return counter.New(opts...)
}

// applyCounterOps applies ops in order. Nothing is applied when any op is unknown.
func applyCounterOps(c *counter.Counter, ops []string) error {
	steps := make([]func(), 0, len(ops))
	for _, op := range ops {
		switch strings.ToLower(op) {
		case "inc", "increment", "+":
			steps = append(steps, c.Increment)
		case "dec", "decrement", "-":
			steps = append(steps, c.Decrement)
		case "reset":
			steps = append(steps, c.Reset)
		default:
			return fmt.Errorf("%w: %q", ErrUnknownCounterOp, op)
		}
	}
	for _, step := range steps {
		step()
	}
	return nil
}
