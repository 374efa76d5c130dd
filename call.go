package seam

import (
	"net/http"
	"sync"

	"github.com/seamhttp/seam/httperror"
	"github.com/seamhttp/seam/response"
)

// Call invokes a raw handler and produces exactly one settled Deferred, no
// matter which completion signal the handler uses.
//
// Three signals race for middleware: a direct next call, the response's
// close signal, and the response's error signal. The first to fire wins;
// next detaches both lifecycle registrations before settling, so the losing
// signals become inert. Listeners (and middleware returning a non-nil
// value) settle immediately when the synchronous call returns — a
// listener's later asynchronous activity on the response is deliberately
// not awaited; register such a handler as middleware instead.
//
// A middleware that never calls next and whose response never closes or
// errors leaves the Deferred pending forever; no timeout is imposed here.
func Call(h Handler, w *response.Writer, r *http.Request) *Deferred {
	d := NewDeferred()
	if !h.valid() {
		d.Reject(httperror.From(ErrInvalidHandler))
		return d
	}

	// The registration IDs are taken only after the handler call returns,
	// but the handler may invoke next from another goroutine before then.
	// Publish them under a lock, and record under the same lock that next
	// ran: a next that fires before the IDs exist cannot detach them, so
	// the subscription step below must do it instead.
	var mu sync.Mutex
	var closeID, errorID string
	var nextRan bool

	next := Next(func(err error) {
		if h.IsMiddleware() {
			mu.Lock()
			nextRan = true
			cid, eid := closeID, errorID
			mu.Unlock()
			w.Off(cid)
			w.Off(eid)
		}
		if err != nil {
			d.Reject(httperror.From(err))
			return
		}
		d.Resolve(nil)
	})

	ret, perr := protect(h, w, r, next)
	if perr != nil {
		next(perr)
		return d
	}

	if h.IsMiddleware() && ret == nil {
		// The handler intends to complete asynchronously: via next, or via
		// the response lifecycle. One-shot subscriptions on both signals;
		// next removes them on first settlement.
		mu.Lock()
		closeID = w.OnClose(func() { next(nil) })
		errorID = w.OnError(func(err error) { next(err) })
		ran := nextRan
		mu.Unlock()

		// next may have fired before the registrations existed; sweep them
		// here so they cannot outlive the settlement. The lock makes the
		// two sections atomic: either next saw the IDs, or we see nextRan.
		if ran {
			w.Off(closeID)
			w.Off(errorID)
		}
		return d
	}

	d.Resolve(ret)
	return d
}

// protect calls the handler, converting a panic into a normalized error.
func protect(h Handler, w *response.Writer, r *http.Request, next Next) (ret any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			ret = nil
			err = httperror.From(rec)
		}
	}()
	return h.invoke(w, r, next), nil
}
