// Package counter provides a bounded integer counter for interactive state.
package counter

// Counter holds an integer that moves in steps of one between optional bounds.
// It is not safe for concurrent use; it is meant to be owned by a single UI model.
type Counter struct {
	count   int
	initial int
	min     *int
	max     *int
}

// Option configures a Counter.
type Option func(*Counter)

// WithMin sets the lower bound used by Decrement.
func WithMin(n int) Option {
	return func(c *Counter) {
		c.min = &n
	}
}

// WithMax sets the upper bound used by Increment.
func WithMax(n int) Option {
	return func(c *Counter) {
		c.max = &n
	}
}

// WithInitial sets the starting value and the value Reset returns to.
// It is not clamped to the bounds.
func WithInitial(n int) Option {
	return func(c *Counter) {
		c.initial = n
	}
}

// New creates a counter starting at its initial value (0 by default).
func New(opts ...Option) *Counter {
	c := &Counter{}
	for _, opt := range opts {
		opt(c)
	}
	c.count = c.initial
	return c
}

// Count returns the current value.
func (c *Counter) Count() int {
	return c.count
}

// Increment adds one unless the count has reached the upper bound.
func (c *Counter) Increment() {
	if c.max != nil && c.count >= *c.max {
		return
	}
	c.count++
}

// Decrement subtracts one unless the count has reached the lower bound.
func (c *Counter) Decrement() {
	if c.min != nil && c.count <= *c.min {
		return
	}
	c.count--
}

// Reset returns the count to its initial value, not to the lower bound.
func (c *Counter) Reset() {
	c.count = c.initial
}

// Bounds returns copies of the configured bounds; nil means unbounded.
func (c *Counter) Bounds() (lower, upper *int) {
	if c.min != nil {
		v := *c.min
		lower = &v
	}
	if c.max != nil {
		v := *c.max
		upper = &v
	}
	return lower, upper
}

// AtMin reports whether Decrement would be a no-op.
func (c *Counter) AtMin() bool {
	return c.min != nil && c.count <= *c.min
}

// AtMax reports whether Increment would be a no-op.
func (c *Counter) AtMax() bool {
	return c.max != nil && c.count >= *c.max
}
