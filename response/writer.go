package response

import (
	"net/http"
	"sync"
)

// Writer wraps an http.ResponseWriter with delivery tracking and a
// close/error lifecycle that per-request callbacks can subscribe to.
// All methods are safe for use from multiple goroutines; a handler may
// write from one goroutine while a bridge callback observes from another.
type Writer struct {
	mu     sync.Mutex
	w      http.ResponseWriter
	status int
	bytes  int64
	wrote  bool // WriteHeader sent
	ended  bool // Finish or Abort called
	lc     *lifecycle
}

// NewWriter wraps w. The zero state reports status 0 until the first header
// or body write.
func NewWriter(w http.ResponseWriter) *Writer {
	return &Writer{w: w, lc: newLifecycle()}
}

// Header returns the header map that will be sent with the response.
func (rw *Writer) Header() http.Header {
	return rw.w.Header()
}

// WriteHeader sends the status code. Repeated calls keep the first status.
func (rw *Writer) WriteHeader(status int) {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	if rw.wrote {
		return
	}
	rw.wrote = true
	rw.status = status
	rw.w.WriteHeader(status)
}

// Write writes body bytes, sending a 200 status first if none was sent.
// The lock is held across the underlying write so concurrent writers do not
// interleave on the wrapped ResponseWriter.
func (rw *Writer) Write(b []byte) (int, error) {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	if !rw.wrote {
		rw.wrote = true
		rw.status = http.StatusOK
	}
	n, err := rw.w.Write(b)
	rw.bytes += int64(n)
	return n, err
}

// Status returns the status code sent to the client, or 0 if none yet.
func (rw *Writer) Status() int {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	return rw.status
}

// BytesWritten returns the number of body bytes written so far.
func (rw *Writer) BytesWritten() int64 {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	return rw.bytes
}

// Ended reports whether the response has been finished or aborted.
func (rw *Writer) Ended() bool {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	return rw.ended
}

// Finish marks the response as delivered and fires the close signal.
// Calling Finish after Abort (or vice versa) has no effect: the response
// ends exactly once.
func (rw *Writer) Finish() {
	rw.mu.Lock()
	if rw.ended {
		rw.mu.Unlock()
		return
	}
	rw.ended = true
	rw.mu.Unlock()
	rw.lc.emit(SignalClose, nil)
}

// End writes the remaining body bytes, then finishes the response.
func (rw *Writer) End(b []byte) error {
	var err error
	if len(b) > 0 {
		_, err = rw.Write(b)
	}
	rw.Finish()
	return err
}

// Abort marks the response stream as failed and fires the error signal
// with err.
func (rw *Writer) Abort(err error) {
	rw.mu.Lock()
	if rw.ended {
		rw.mu.Unlock()
		return
	}
	rw.ended = true
	rw.mu.Unlock()
	rw.lc.emit(SignalError, err)
}

// OnClose registers a one-shot callback for the close signal.
// Returns a registration ID usable with Off.
func (rw *Writer) OnClose(fn func()) string {
	return rw.lc.on(SignalClose, func(error) { fn() })
}

// OnError registers a one-shot callback for the error signal.
// Returns a registration ID usable with Off.
func (rw *Writer) OnError(fn func(error)) string {
	return rw.lc.on(SignalError, fn)
}

// Off removes a registration by ID. Safe to call with an ID that already
// fired or with the empty string.
func (rw *Writer) Off(id string) {
	if id == "" {
		return
	}
	rw.lc.off(id)
}

// Pending reports the number of live lifecycle registrations.
func (rw *Writer) Pending() int {
	return rw.lc.pending()
}
