package event

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/seamhttp/seam/response"
)

// Event is the per-request wrapper uniting a request and its response
// writer. It carries no behavior of its own: construction is pure
// association, and handlers decide what to do with the pair.
type Event struct {
	ID       string
	Request  *http.Request
	Response *response.Writer
}

// New associates a request/response pair under a fresh event ID.
func New(w *response.Writer, r *http.Request) *Event {
	return &Event{
		ID:       uuid.NewString(),
		Request:  r,
		Response: w,
	}
}

// Context returns the request's context.
func (ev *Event) Context() context.Context {
	return ev.Request.Context()
}

// Method returns the request method.
func (ev *Event) Method() string {
	return ev.Request.Method
}

// Path returns the request URL path.
func (ev *Event) Path() string {
	return ev.Request.URL.Path
}
