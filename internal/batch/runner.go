package batch

import (
	"context"
	"fmt"
	"runtime/debug"
	"slices"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// RequestFunc processes a single item. The context is shared by every item of
// the run and is cancelled when the run is cancelled; implementations should
// observe it and return an error wrapping context.Canceled (or ErrCanceled).
type RequestFunc[T, R any] func(ctx context.Context, item T) (R, error)

// run is the token of one in-flight run. A run may only mutate Runner state
// while it is still the Runner's active run.
type run[T any] struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc
	items  []T
}

type observer[R any] struct {
	id uint64
	fn func(State[R])
}

// Runner executes items in sequential batches of concurrent requests.
// The zero value is not usable; create one with NewRunner.
type Runner[T, R any] struct {
	requestFn RequestFunc[T, R]
	batchSize int
	logger    zerolog.Logger
	now       func() time.Time

	closeOnce sync.Once

	// mu guards everything below.
	mu           sync.Mutex
	items        []T
	active       *run[T]
	runID        string
	results      []R
	err          error
	outcome      Outcome
	progress     progress
	seq          uint64
	closed       bool
	observers    []observer[R]
	nextObserver uint64
}

// NewRunner creates a runner over items using fn for each item.
func NewRunner[T, R any](items []T, fn RequestFunc[T, R], opts ...Option) (*Runner[T, R], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.batchSize < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, o.batchSize)
	}
	if fn == nil {
		return nil, ErrNilRequestFunc
	}

	return &Runner[T, R]{
		requestFn: fn,
		batchSize: o.batchSize,
		logger:    o.logger,
		now:       time.Now,
		items:     slices.Clone(items),
	}, nil
}

// Start runs every batch and blocks until the run settles. Item failures are
// never returned; they are recorded and exposed through Err and Snapshot.
//
// Start returns ErrAlreadyRunning when a run is in flight and ErrClosed after
// Close. In both cases the runner state is left untouched.
func (r *Runner[T, R]) Start(ctx context.Context) error {
	rn, err := r.begin(ctx)
	if err != nil {
		return err
	}

	outcome := OutcomeFailed
	defer func() {
		r.finish(rn, outcome)
	}()

	outcome = r.loop(rn)
	return nil
}

// Cancel stops the active run. Already published results are kept.
// Items still in flight are only asked to stop through their context; the
// runner becomes idle immediately and ignores anything the stale run produces.
// Cancel is a no-op when no run is active.
func (r *Runner[T, R]) Cancel() {
	r.mu.Lock()
	rn := r.active
	if rn == nil {
		r.mu.Unlock()
		return
	}

	rn.cancel()
	r.active = nil
	r.outcome = OutcomeCanceled
	notify := r.changedLocked()
	r.mu.Unlock()

	r.logger.Info().Str("run_id", rn.id).Msg("batch run canceled")
	notify()
}

// Close cancels any active run and rejects later calls to Start.
// It is safe to call more than once; cancellation happens exactly once.
func (r *Runner[T, R]) Close() error {
	r.closeOnce.Do(func() {
		r.mu.Lock()
		r.closed = true
		r.mu.Unlock()

		r.Cancel()
	})
	return nil
}

// SetItems replaces the items used by the next run.
func (r *Runner[T, R]) SetItems(items []T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active != nil {
		return ErrAlreadyRunning
	}
	r.items = slices.Clone(items)
	return nil
}

// Observe registers fn to receive a snapshot after every state transition.
// fn runs on the goroutine that caused the transition and must not block.
// The returned function removes the observer.
func (r *Runner[T, R]) Observe(fn func(State[R])) (unsubscribe func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextObserver
	r.nextObserver++
	r.observers = append(r.observers, observer[R]{id: id, fn: fn})

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.observers = slices.DeleteFunc(r.observers, func(o observer[R]) bool {
			return o.id == id
		})
	}
}

// Running reports whether a run is in flight.
func (r *Runner[T, R]) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active != nil
}

// Results returns a copy of the results published so far.
func (r *Runner[T, R]) Results() []R {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.results)
}

// Err returns the failure recorded by the current or most recent run.
func (r *Runner[T, R]) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Snapshot returns the current state.
func (r *Runner[T, R]) Snapshot() State[R] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// BatchSize returns the configured batch size.
func (r *Runner[T, R]) BatchSize() int {
	return r.batchSize
}

// Spans returns the batch boundaries the next run will use.
func (r *Runner[T, R]) Spans() []Span {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Partition(len(r.items), r.batchSize)
}

// begin performs the Idle -> Running transition.
func (r *Runner[T, R]) begin(parent context.Context) (*run[T], error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrClosed
	}
	if r.active != nil {
		r.mu.Unlock()
		return nil, ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(parent)
	rn := &run[T]{
		id:     ulid.Make().String(),
		ctx:    ctx,
		cancel: cancel,
		items:  r.items,
	}

	r.active = rn
	r.runID = rn.id
	r.results = make([]R, 0, len(rn.items))
	r.err = nil
	r.outcome = OutcomeNone
	r.progress = newProgress(len(rn.items), r.batchSize, r.now())
	notify := r.changedLocked()
	r.mu.Unlock()

	notify()
	return rn, nil
}

// loop dispatches the batches of rn in order and reports how the run ended.
func (r *Runner[T, R]) loop(rn *run[T]) Outcome {
	spans := Partition(len(rn.items), r.batchSize)
	log := r.logger.With().Str("run_id", rn.id).Logger()

	log.Info().
		Int("items", len(rn.items)).
		Int("batch_size", r.batchSize).
		Int("batches", len(spans)).
		Msg("batch run started")

	for i, span := range spans {
		// A context error ends the run the same way here as inside a batch:
		// cancellation is silent, a deadline is a recorded failure.
		if err := rn.ctx.Err(); err != nil {
			if IsCanceled(err) {
				log.Info().Int("batch", i).Msg("batch run stopped before dispatch")
				return OutcomeCanceled
			}
			log.Warn().Err(err).Int("batch", i).Msg("batch run stopped before dispatch")
			r.fail(rn, fmt.Errorf("batch %d not dispatched: %w", i, err))
			return OutcomeFailed
		}

		log.Debug().
			Int("batch", i).
			Int("from", span.Start+1).
			Int("to", span.End).
			Msg("dispatching batch")

		out, err := r.dispatch(rn, i, span)
		if err != nil {
			if IsCanceled(err) {
				log.Info().Int("batch", i).Msg("batch canceled")
				return OutcomeCanceled
			}
			log.Warn().Err(err).Int("batch", i).Msg("batch failed")
			r.fail(rn, err)
			return OutcomeFailed
		}

		if !r.publish(rn, out) {
			return OutcomeCanceled
		}
	}

	return OutcomeCompleted
}

// dispatch runs every item of span concurrently and joins them.
// Only the first failure is kept; sibling outcomes are discarded.
func (r *Runner[T, R]) dispatch(rn *run[T], batchIndex int, span Span) ([]R, error) {
	out := make([]R, span.Len())

	var g errgroup.Group
	for j, item := range rn.items[span.Start:span.End] {
		g.Go(func() error {
			res, err := r.call(rn.ctx, item)
			if err != nil {
				return &ItemError{Index: span.Start + j, Batch: batchIndex, Err: err}
			}
			out[j] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// call invokes the request function, turning a panic into a *PanicError.
func (r *Runner[T, R]) call(ctx context.Context, item T) (res R, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &PanicError{Value: p, Stack: debug.Stack()}
		}
	}()
	return r.requestFn(ctx, item)
}

// publish appends a completed batch. It returns false when rn is no longer
// the active run, in which case nothing is published.
func (r *Runner[T, R]) publish(rn *run[T], out []R) bool {
	r.mu.Lock()
	if r.active != rn {
		r.mu.Unlock()
		return false
	}

	r.results = append(r.results, out...)
	r.progress.addBatch(len(out), r.now())
	notify := r.changedLocked()
	r.mu.Unlock()

	notify()
	return true
}

func (r *Runner[T, R]) fail(rn *run[T], err error) {
	r.mu.Lock()
	if r.active != rn || r.err != nil {
		r.mu.Unlock()
		return
	}

	r.err = err
	notify := r.changedLocked()
	r.mu.Unlock()

	notify()
}

// finish performs the Running -> Idle transition for rn. It always releases
// the run context, even when Cancel already made the runner idle.
func (r *Runner[T, R]) finish(rn *run[T], outcome Outcome) {
	rn.cancel()

	r.mu.Lock()
	if r.active != rn {
		r.mu.Unlock()
		return
	}

	r.active = nil
	r.outcome = outcome
	published := len(r.results)
	elapsed := r.now().Sub(r.progress.startTime)
	notify := r.changedLocked()
	r.mu.Unlock()

	r.logger.Info().
		Str("run_id", rn.id).
		Str("outcome", outcome.String()).
		Int("results", published).
		Dur("elapsed", elapsed).
		Msg("batch run finished")
	notify()
}

// changedLocked bumps the sequence number and returns a function that
// delivers the new snapshot to observers. Call it with mu held and invoke the
// result after unlocking.
func (r *Runner[T, R]) changedLocked() func() {
	r.seq++
	if len(r.observers) == 0 {
		return func() {}
	}

	snap := r.snapshotLocked()
	fns := make([]func(State[R]), len(r.observers))
	for i, o := range r.observers {
		fns[i] = o.fn
	}

	return func() {
		for _, fn := range fns {
			fn(snap)
		}
	}
}

func (r *Runner[T, R]) snapshotLocked() State[R] {
	return State[R]{
		RunID:    r.runID,
		Running:  r.active != nil,
		Results:  slices.Clone(r.results),
		Err:      r.err,
		Outcome:  r.outcome,
		Progress: r.progress.snapshot(r.now()),
		Seq:      r.seq,
	}
}
