package seam

import (
	"context"
	"net/http"

	"github.com/hashicorp/go-multierror"
	"github.com/yaoapp/kun/log"

	"github.com/seamhttp/seam/event"
	"github.com/seamhttp/seam/httperror"
	"github.com/seamhttp/seam/response"
)

// Options configures an App's failure handling.
type Options struct {
	// OnError, when set, replaces the default failure sink. The driver
	// awaits it and does not inspect what it does; if it fails, the default
	// sink runs with both failures combined.
	OnError func(ctx context.Context, err *httperror.Error, ev *event.Event) error

	// Debug exposes internal failure detail (cause, unhandled flag) in
	// client responses.
	Debug bool
}

// App pairs a root event handler with its failure-handling options.
type App struct {
	Handler EventHandler
	Options Options
}

// FailureSink receives every normalized failure the driver collects. The
// sink is chosen once, at listener construction, never per request.
type FailureSink interface {
	Handle(ctx context.Context, err *httperror.Error, ev *event.Event)
}

// logSendSink is the default sink: a severity-tagged diagnostic for fatal
// and unhandled failures, then the client-facing error response.
type logSendSink struct {
	debug bool
}

func (s logSendSink) Handle(ctx context.Context, err *httperror.Error, ev *event.Event) {
	if err.Fatal || err.Unhandled {
		tag := "unhandled"
		if err.Fatal {
			tag = "fatal"
		}
		log.With(log.F{
			"severity": tag,
			"event":    ev.ID,
			"status":   err.StatusCode,
		}).Error("[%s] %s %s: %s", tag, ev.Method(), ev.Path(), err.Message)
	}
	httperror.Send(ev, err, s.debug)
}

// callbackSink delegates to the configured OnError, falling back to the
// default sink when the callback itself fails.
type callbackSink struct {
	onError  func(ctx context.Context, err *httperror.Error, ev *event.Event) error
	fallback logSendSink
}

func (s callbackSink) Handle(ctx context.Context, err *httperror.Error, ev *event.Event) {
	cbErr := s.onError(ctx, err, ev)
	if cbErr == nil {
		return
	}
	combined := multierror.Append(err, cbErr)
	log.Error("error callback failed: event=%s err=%v", ev.ID, combined)
	s.fallback.Handle(ctx, err, ev)
}

// sinkFor selects the failure sink for the given options.
func sinkFor(opts Options) FailureSink {
	if opts.OnError != nil {
		return callbackSink{onError: opts.OnError, fallback: logSendSink{debug: opts.Debug}}
	}
	return logSendSink{debug: opts.Debug}
}

// ToListener adapts an App's root event handler into a plain HTTP listener
// and owns top-level failure handling. The produced listener never panics
// and never reports failure outward: every failure is normalized and routed
// to the failure sink, so the host always sees a normal return.
func ToListener(app *App) http.HandlerFunc {
	sink := sinkFor(app.Options)
	return func(w http.ResponseWriter, r *http.Request) {
		rw := response.NewWriter(w)
		ev := event.New(rw, r)
		ctx := r.Context()

		_, err := guard(ctx, app.Handler, ev)
		if err == nil {
			return
		}
		sink.Handle(ctx, httperror.From(err), ev)
	}
}

// guard runs the root handler, converting a panic into a returned error.
func guard(ctx context.Context, h EventHandler, ev *event.Event) (ret any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			ret = nil
			err = httperror.From(rec)
		}
	}()
	return h(ctx, ev)
}
