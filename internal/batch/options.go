package batch

import "github.com/rs/zerolog"

// DefaultBatchSize is the number of items dispatched concurrently per batch
// when no size is configured.
const DefaultBatchSize = 10

type options struct {
	batchSize int
	logger    zerolog.Logger
}

func defaultOptions() options {
	return options{
		batchSize: DefaultBatchSize,
		logger:    zerolog.Nop(),
	}
}

// Option configures a Runner.
type Option func(*options)

// WithBatchSize sets how many items run concurrently per batch.
// Values below 1 make NewRunner fail with ErrInvalidBatchSize.
func WithBatchSize(n int) Option {
	return func(o *options) {
		o.batchSize = n
	}
}

// WithLogger sets the logger used for run lifecycle events.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
