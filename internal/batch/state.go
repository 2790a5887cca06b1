package batch

// Outcome describes how the most recent run ended.
type Outcome int

const (
	// OutcomeNone means no run has finished yet (or one is in flight).
	OutcomeNone Outcome = iota
	// OutcomeCompleted means every item was processed.
	OutcomeCompleted
	// OutcomeCanceled means the run stopped early because of cancellation.
	OutcomeCanceled
	// OutcomeFailed means an item failed and Err holds the failure.
	OutcomeFailed
)

// String returns the lowercase name of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeCompleted:
		return "completed"
	case OutcomeCanceled:
		return "canceled"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is an immutable snapshot of a Runner, delivered to observers after
// every transition.
type State[R any] struct {
	// RunID identifies the current or most recent run. Empty before the first run.
	RunID string

	// Running is true while a run is in flight.
	Running bool

	// Results holds the outputs published so far, in input order.
	Results []R

	// Err is the first non-cancellation failure of the run, if any.
	Err error

	// Outcome is how the most recent run ended.
	Outcome Outcome

	// Progress describes the current or most recent run.
	Progress ProgressSnapshot

	// Seq increases on every transition. Observers use it to discard
	// snapshots that arrive out of order.
	Seq uint64
}
