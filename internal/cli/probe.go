package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/uistate/internal/transport"
)

// newProbeCmd creates the probe command, which runs gRPC health checks through the batch runner.
func newProbeCmd(a *app) *cobra.Command {
	var (
		flags   runFlags
		service string
	)

	cmd := &cobra.Command{
		Use:   "probe [FILE]",
		Short: "Check gRPC health endpoints in sequential batches",
		Long: `Probe reads one host:port target per line from FILE (or stdin) and calls the
standard grpc.health.v1 Check on each. A server that answers NOT_SERVING is
reported, not treated as a failure; an unreachable target stops the run.`,
		Example: `  # Probe the whole server on each target
  uistate probe targets.txt

  # Probe a named service, 2 seconds per target
  uistate probe targets.txt --service api --timeout 2s`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := flags.resolve(cmd, a.cfg)
			if err != nil {
				return usageError(err)
			}
			targets, err := readInputs(cmd, args)
			if err != nil {
				return err
			}

			prober := &transport.HealthProber{
				Service: service,
				Timeout: settings.timeout,
			}
			return executeRun(cmd, a, settings, runJob[transport.ProbeResult]{
				title:  "probe",
				items:  targets,
				fn:     prober.Probe,
				render: renderProbeResult,
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&service, "service", "", "health service name (empty checks the whole server)")
	return cmd
}

func renderProbeResult(r transport.ProbeResult) string {
	return fmt.Sprintf("%-14s %s (%s)", r.Status, r.Target, r.Duration.Round(time.Millisecond))
}
