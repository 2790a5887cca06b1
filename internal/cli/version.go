package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/uistate/pkg/version"
)

// newVersionCmd creates the version command.
func newVersionCmd(ver string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the uistate version",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			sv, err := version.Semver()
			if err != nil {
				fmt.Fprintf(out, "uistate %s\n", ver)
				return nil
			}

			line := fmt.Sprintf("uistate v%s", sv.String())
			if version.IsDevelopment() {
				line += " (development build)"
			}
			fmt.Fprintln(out, line)
			return nil
		},
	}
}
