package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rshade/uistate/internal/config"
	"github.com/rshade/uistate/internal/logging"
)

// setupLogging configures logging based on config file, environment, and CLI flags.
func setupLogging(cmd *cobra.Command, cfg *config.Config) logging.Result {
	loggingCfg := cfg.LoggingConfig()

	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = logging.FormatConsole
		loggingCfg.Output = logging.OutputStderr
		loggingCfg.File = ""
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" && !debug {
		loggingCfg.Level = level
	}

	result := logging.New(loggingCfg)
	logger = logging.ComponentLogger(result.Logger, "cli")

	if result.FallbackUsed {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)
	ctx = logger.WithContext(ctx)
	cmd.SetContext(ctx)

	logger.Info().Ctx(ctx).Str("command", cmd.Name()).Msg("command started")

	return result
}

// cleanupLogging closes the log file handle.
func cleanupLogging(_ *cobra.Command, logResult *logging.Result) error {
	if logResult != nil {
		return logResult.Close()
	}
	return nil
}
