// Package clock provides the logical clock that orders everything obsw
// writes to its store.
//
// Events and traces are stamped with a strictly increasing seq number,
// never with wall-clock time, so stored logs order identically on every
// run.
package clock

import "sync/atomic"

// Sequencer hands out strictly increasing sequence numbers.
// Implemented by Clock (production) and testutil.DeterministicClock (tests).
type Sequencer interface {
	Next() int64
}

// Clock is a monotonic logical clock.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations).
type Clock struct {
	seq atomic.Int64
}

// New creates a clock starting at 0. The first call to Next returns 1.
func New() *Clock {
	return &Clock{}
}

// NewAt creates a clock positioned at start. Used to resume after the last
// seq found in an existing store.
func NewAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
