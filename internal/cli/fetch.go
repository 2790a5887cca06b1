package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/uistate/internal/transport"
	"github.com/rshade/uistate/pkg/version"
)

// newFetchCmd creates the fetch command, which GETs every URL through the batch runner.
func newFetchCmd(a *app) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "fetch [FILE]",
		Short: "Fetch URLs in sequential batches of concurrent requests",
		Long: `Fetch reads one URL per line from FILE (or stdin) and issues GET requests in
batches. Blank lines and lines starting with # are skipped. The run stops at
the first failed request; results of completed batches are kept.`,
		Example: `  # Fetch 3 URLs at a time
  uistate fetch urls.txt --batch-size 3

  # Read URLs from stdin
  printf 'https://example.com\n' | uistate fetch --plain`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := flags.resolve(cmd, a.cfg)
			if err != nil {
				return usageError(err)
			}
			urls, err := readInputs(cmd, args)
			if err != nil {
				return err
			}

			fetcher := &transport.HTTPFetcher{
				Timeout:   settings.timeout,
				UserAgent: transport.DefaultUserAgent + "/" + version.GetVersion(),
			}
			return executeRun(cmd, a, settings, runJob[transport.FetchResult]{
				title:  "fetch",
				items:  urls,
				fn:     fetcher.Fetch,
				render: renderFetchResult,
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func renderFetchResult(r transport.FetchResult) string {
	return fmt.Sprintf("%d %s (%d bytes, %s)", r.StatusCode, r.URL, r.Bytes, r.Duration.Round(time.Millisecond))
}
