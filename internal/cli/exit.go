package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

// Process exit codes.
const (
	ExitCodeFailure = 1
	ExitCodeUsage   = 2
)

// ExitError carries the exit code main should use for Err.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps a command error to the process exit status: 0 for nil, the
// code of the first *ExitError in the chain, ExitCodeFailure otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCodeFailure
}

// usageError marks err as a usage mistake. nil stays nil.
func usageError(err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: ExitCodeUsage, Err: err}
}

// usageArgs wraps an argument validator so its errors exit with ExitCodeUsage.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return usageError(validate(cmd, args))
	}
}
