// Package seam bridges two request-handling conventions: raw handlers
// (terminal listeners and continuation-aware middleware operating directly
// on a request/response pair) and unified event handlers (a single function
// receiving the event wrapper and returning a result or error).
//
// The bridge converts in both directions. ToEventHandler lifts a raw
// handler into the unified shape; ToListener drives an App's root event
// handler from a plain HTTP listener, normalizing every failure into
// httperror.Error and dispatching it through a pluggable FailureSink.
// Call is the primitive underneath both: it settles a Deferred exactly once
// regardless of whether the handler completes via the continuation, via the
// response lifecycle, by returning a value, or by panicking.
package seam
