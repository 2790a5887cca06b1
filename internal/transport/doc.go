// Package transport provides request functions for batch runs: HTTP fetches
// and gRPC health probes. Both honor the run context and report cancellation
// with context.Canceled in the error chain, so a cancelled run stops silently
// while timeouts and transport failures are recorded as errors.
package transport
