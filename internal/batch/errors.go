package batch

import (
	"context"
	"errors"
	"fmt"
)

// Common runner errors.
var (
	ErrInvalidBatchSize = errors.New("batch size must be at least 1")
	ErrNilRequestFunc   = errors.New("batch request function cannot be nil")
	ErrAlreadyRunning   = errors.New("batch run already in progress")
	ErrClosed           = errors.New("batch runner is closed")

	// ErrCanceled can be returned by a RequestFunc to report that it stopped
	// because it observed cancellation. context.Canceled is treated the same way.
	ErrCanceled = errors.New("batch request canceled")
)

// IsCanceled reports whether err signals cooperative cancellation rather than
// a real failure.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, ErrCanceled)
}

// ItemError wraps the failure of a single item.
type ItemError struct {
	// Index is the 0-based position of the item in the run's input.
	Index int

	// Batch is the 0-based index of the batch the item belonged to.
	Batch int

	// Err is the error returned by the request function.
	Err error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d (batch %d) failed: %v", e.Index, e.Batch, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// PanicError is recorded when a request function panics.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("request panicked: %v", e.Value)
}
