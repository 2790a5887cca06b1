// Package cli implements the uistate command line.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/uistate/internal/config"
	"github.com/rshade/uistate/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger = zerolog.Nop() //nolint:gochecknoglobals // Required for zerolog context integration

// app holds what PersistentPreRunE prepares for the subcommands.
type app struct {
	cfg       *config.Config
	logResult *logging.Result
}

// NewRootCmd creates the root Cobra command for the uistate CLI.
// It loads configuration, wires up logging and tracing, and registers the
// fetch, probe, counter and version subcommands.
func NewRootCmd(ver string) *cobra.Command {
	a := &app{cfg: config.Default()}

	cmd := &cobra.Command{
		Use:           "uistate",
		Short:         "Batch request runner and counter helpers with a terminal UI",
		Long:          "uistate: Run requests in sequential batches of concurrent calls and watch them settle",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			a.cfg = cfg

			result := setupLogging(cmd, cfg)
			a.logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, a.logResult)
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	cmd.PersistentFlags().String("config", "", "config file (YAML or TOML, default ~/.uistate/config.yaml)")
	cmd.PersistentFlags().String("project-dir", "", "directory containing "+config.ProjectOverlayName+" (default: nearest parent)")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error")
	cmd.AddCommand(newFetchCmd(a), newProbeCmd(a), newCounterCmd(a), newVersionCmd(ver))

	return cmd
}

// loadConfig reads the config file named by --config (or the defaults), the
// project overlay found through --project-dir or the working directory, and
// the environment.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	projectFlag, _ := cmd.Flags().GetString("project-dir")
	wd, _ := os.Getwd()
	dir := config.ResolveProjectDir(cmd.Context(), projectFlag, wd)

	cfg, err := config.Load(path, config.WithProjectDir(dir))
	if err != nil {
		return nil, usageError(fmt.Errorf("loading config: %w", err))
	}
	return cfg, nil
}

const rootCmdExample = `  # Fetch URLs listed in a file, 5 at a time
  uistate fetch urls.txt --batch-size 5

  # Fetch URLs from stdin with plain progress output
  cat urls.txt | uistate fetch --plain

  # Probe gRPC health endpoints with a 2 second timeout
  uistate probe targets.txt --timeout 2s --service api

  # Apply counter operations between bounds
  uistate counter inc inc dec --min 0 --max 10

  # Open the interactive counter
  uistate counter`
