package transport

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// ProbeResult describes one completed health check.
type ProbeResult struct {
	Target   string
	Status   string
	Serving  bool
	Duration time.Duration
}

// HealthProber checks targets with the standard gRPC health protocol.
type HealthProber struct {
	// Service is the health service name; empty checks the whole server.
	Service string

	// Timeout bounds each probe; zero means no per-probe timeout.
	Timeout time.Duration

	// DialOptions replace the default insecure transport credentials.
	DialOptions []grpc.DialOption
}

// Probe checks target. Its signature matches batch.RequestFunc[string, ProbeResult].
// A reachable server that is not serving is a result, not an error.
func (p *HealthProber) Probe(ctx context.Context, target string) (ProbeResult, error) {
	start := time.Now()

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	opts := p.DialOptions
	if len(opts) == 0 {
		opts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}

	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return ProbeResult{}, fmt.Errorf("connecting to %s: %w", target, err)
	}
	defer conn.Close()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: p.Service})
	if err != nil {
		return ProbeResult{}, translateRPCError(target, err)
	}

	return ProbeResult{
		Target:   target,
		Status:   resp.GetStatus().String(),
		Serving:  resp.GetStatus() == healthpb.HealthCheckResponse_SERVING,
		Duration: time.Since(start),
	}, nil
}

// translateRPCError maps context related status codes back onto the context
// errors so callers can use errors.Is.
func translateRPCError(target string, err error) error {
	switch status.Code(err) {
	case codes.Canceled:
		return fmt.Errorf("probe %s: %w: %w", target, context.Canceled, err)
	case codes.DeadlineExceeded:
		return fmt.Errorf("probe %s: %w: %w", target, context.DeadlineExceeded, err)
	default:
		return fmt.Errorf("probe %s: %w", target, err)
	}
}
