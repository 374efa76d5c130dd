package seam

import (
	"context"
	"sync"
)

// Deferred is a single-assignment result cell: it settles exactly once with
// either a value or an error, and every settlement attempt after the first
// is a no-op. It is the meeting point for the bridge's racing completion
// signals; whichever signal fires first wins.
type Deferred struct {
	once sync.Once
	done chan struct{}
	val  any
	err  error
}

// NewDeferred returns an unsettled cell.
func NewDeferred() *Deferred {
	return &Deferred{done: make(chan struct{})}
}

// Resolve settles the cell with a value. No-op if already settled.
func (d *Deferred) Resolve(v any) {
	d.once.Do(func() {
		d.val = v
		close(d.done)
	})
}

// Reject settles the cell with an error. No-op if already settled.
func (d *Deferred) Reject(err error) {
	d.once.Do(func() {
		d.err = err
		close(d.done)
	})
}

// Done returns a channel closed on settlement.
func (d *Deferred) Done() <-chan struct{} {
	return d.done
}

// Settled reports whether the cell has settled.
func (d *Deferred) Settled() bool {
	select {
	case <-d.done:
		return true
	default:
		return false
	}
}

// Await blocks until the cell settles or ctx is done. A context error does
// not settle the cell; the underlying handler may still complete later.
func (d *Deferred) Await(ctx context.Context) (any, error) {
	select {
	case <-d.done:
		return d.val, d.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
