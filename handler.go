package seam

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/seamhttp/seam/event"
	"github.com/seamhttp/seam/response"
)

// Sentinel errors.
var (
	// ErrInvalidHandler is returned when a value that is none of the
	// recognized handler shapes is passed where a handler is required.
	ErrInvalidHandler = errors.New("seam: value is not a usable handler")
)

// EventHandler is the unified shape: one function receiving the event,
// returning a result value or an error.
type EventHandler func(ctx context.Context, ev *event.Event) (any, error)

// Next is the single-use continuation handed to middleware. Calling it with
// nil resolves the bridged result; calling it with an error rejects with the
// normalized form. Calls after the first settlement are no-ops.
type Next func(err error)

// Listener is the terminal raw-handler shape: it signals completion by
// ending the response, and the bridge resolves with its return value as soon
// as the call returns.
type Listener func(w *response.Writer, r *http.Request) any

// Middleware is the continuation-aware raw-handler shape: it completes by
// calling next, by returning a non-nil value, or by letting the response
// lifecycle settle the bridged result.
type Middleware func(w *response.Writer, r *http.Request, next Next) any

type handlerKind int

const (
	kindListener handlerKind = iota
	kindMiddleware
)

// Handler is the explicit tagged union over the two raw shapes. Callers
// declare the shape at construction time; the bridge never guesses.
type Handler struct {
	kind       handlerKind
	listener   Listener
	middleware Middleware
}

// NewListener tags fn as a terminal listener.
func NewListener(fn Listener) Handler {
	return Handler{kind: kindListener, listener: fn}
}

// NewMiddleware tags fn as continuation-aware middleware.
func NewMiddleware(fn Middleware) Handler {
	return Handler{kind: kindMiddleware, middleware: fn}
}

// IsMiddleware reports whether the handler was registered as middleware.
func (h Handler) IsMiddleware() bool {
	return h.kind == kindMiddleware
}

// valid reports whether the tagged function is actually present.
func (h Handler) valid() bool {
	if h.kind == kindMiddleware {
		return h.middleware != nil
	}
	return h.listener != nil
}

// invoke dispatches to the tagged function. Listeners never see the
// continuation.
func (h Handler) invoke(w *response.Writer, r *http.Request, next Next) any {
	if h.kind == kindMiddleware {
		return h.middleware(w, r, next)
	}
	return h.listener(w, r)
}

// EventHandler adapts the raw handler into the unified shape. The produced
// handler drives the pair through Call and hands back its settlement
// untouched.
func (h Handler) EventHandler() EventHandler {
	return func(ctx context.Context, ev *event.Event) (any, error) {
		return Call(h, ev.Response, ev.Request).Await(ctx)
	}
}

// ToEventHandler converts any recognized handler value into an EventHandler.
// A value that already is one comes back unchanged, so wrapping is
// idempotent. Raw shapes are tagged and bridged through Call. Anything else
// fails synchronously with ErrInvalidHandler.
func ToEventHandler(v any) (EventHandler, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: nil", ErrInvalidHandler)
	}
	switch h := v.(type) {
	case EventHandler:
		if h == nil {
			return nil, fmt.Errorf("%w: nil %T", ErrInvalidHandler, v)
		}
		return h, nil
	case func(context.Context, *event.Event) (any, error):
		return EventHandler(h), nil
	case Handler:
		if !h.valid() {
			return nil, fmt.Errorf("%w: empty %T", ErrInvalidHandler, v)
		}
		return h.EventHandler(), nil
	case Listener:
		return NewListener(h).EventHandler(), nil
	case func(*response.Writer, *http.Request) any:
		return NewListener(h).EventHandler(), nil
	case Middleware:
		return NewMiddleware(h).EventHandler(), nil
	case func(*response.Writer, *http.Request, Next) any:
		return NewMiddleware(h).EventHandler(), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidHandler, v)
	}
}
