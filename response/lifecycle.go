package response

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Signal identifies a response lifecycle transition.
type Signal int

const (
	// SignalClose fires when the response has been fully delivered.
	SignalClose Signal = iota
	// SignalError fires when the response stream fails before delivery.
	SignalError
)

var regIDCounter atomic.Uint64

func nextRegID() string {
	id := regIDCounter.Add(1)
	return fmt.Sprintf("reg-%d", id)
}

// registration holds a single one-shot callback for a lifecycle signal.
type registration struct {
	id     string
	signal Signal
	fn     func(error)
}

// lifecycle manages one-shot callbacks for a single response's close and
// error signals. Each signal fires at most once per response; each
// registration is removed before its callback runs, so a callback can never
// be delivered twice even if both signals are emitted.
type lifecycle struct {
	mu    sync.Mutex
	regs  map[string]*registration // id -> registration
	fired map[Signal]bool
}

func newLifecycle() *lifecycle {
	return &lifecycle{
		regs:  make(map[string]*registration),
		fired: make(map[Signal]bool),
	}
}

// on registers a one-shot callback for the given signal. Returns the
// registration ID for later removal.
func (lc *lifecycle) on(sig Signal, fn func(error)) string {
	id := nextRegID()
	lc.mu.Lock()
	defer lc.mu.Unlock()
	lc.regs[id] = &registration{id: id, signal: sig, fn: fn}
	return id
}

// off removes a registration by ID. Unknown IDs are ignored, so callers may
// remove registrations that already fired or were never taken.
func (lc *lifecycle) off(id string) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	delete(lc.regs, id)
}

// emit fires all registrations for the given signal and removes them.
// A signal that already fired is dropped; the matching registrations were
// consumed the first time around.
func (lc *lifecycle) emit(sig Signal, err error) {
	lc.mu.Lock()
	if lc.fired[sig] {
		lc.mu.Unlock()
		return
	}
	lc.fired[sig] = true

	matched := make([]*registration, 0, len(lc.regs))
	for _, reg := range lc.regs {
		if reg.signal == sig {
			matched = append(matched, reg)
		}
	}
	for _, reg := range matched {
		delete(lc.regs, reg.id)
	}
	lc.mu.Unlock()

	// Callbacks run outside the lock: they commonly call off() for their
	// sibling registration, which would otherwise deadlock.
	for _, reg := range matched {
		reg.fn(err)
	}
}

// pending reports the number of live registrations. Used by leak tests.
func (lc *lifecycle) pending() int {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return len(lc.regs)
}
