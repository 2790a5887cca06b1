// Package batch runs an ordered sequence of requests in fixed-size batches.
//
// A Runner partitions its items into contiguous batches, dispatches every item of
// a batch concurrently, and waits for the whole batch before moving to the next
// one. Key properties:
//   - Batches run strictly in order; batch N+1 never starts before batch N resolves
//   - Results are published once per completed batch, always in input order
//   - The first non-cancellation failure is recorded and stops further dispatch
//   - Cancellation is cooperative: one context per run is shared with every item
//   - Observers receive a State snapshot after every transition, which makes the
//     Runner suitable for driving a UI that re-renders on change
//
// A Runner is owned by a single logical caller. Start blocks until the run
// settles; callers that need a responsive UI run it on its own goroutine and
// follow progress through Observe.
//
// Owners must call Close in their cleanup path so an in-flight run is cancelled
// when the owning context goes away.
package batch
