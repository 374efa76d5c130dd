package httperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cast"
)

// Error is the normalized failure shape every bridge path reports through.
// Unhandled marks failures that did not originate as an *Error; Fatal marks
// failures the producer considers unrecoverable at the process level. Both
// flags influence diagnostics only, never the settlement discipline.
type Error struct {
	StatusCode    int    `json:"statusCode"`
	StatusMessage string `json:"statusMessage,omitempty"`
	Message       string `json:"message"`
	Data          any    `json:"data,omitempty"`
	Cause         error  `json:"-"`
	Unhandled     bool   `json:"-"`
	Fatal         bool   `json:"-"`
}

// New creates a recognized error with the given status code and message.
// A zero status defaults to 500.
func New(status int, message string) *Error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return &Error{
		StatusCode:    status,
		StatusMessage: http.StatusText(status),
		Message:       message,
	}
}

// From normalizes any failure value into an *Error.
//
//   - an *Error (possibly wrapped) passes through with its fields preserved;
//   - any other error is wrapped with Unhandled set and the original kept
//     as the cause;
//   - a non-error value (a recovered panic payload, typically) is
//     stringified and wrapped the same way.
func From(v any) *Error {
	switch failure := v.(type) {
	case nil:
		return New(http.StatusInternalServerError, "internal server error")
	case *Error:
		return failure
	case error:
		var herr *Error
		if errors.As(failure, &herr) {
			return herr
		}
		e := New(http.StatusInternalServerError, failure.Error())
		e.Cause = failure
		e.Unhandled = true
		return e
	default:
		e := New(http.StatusInternalServerError, cast.ToString(v))
		e.Cause = fmt.Errorf("%v", v)
		e.Unhandled = true
		return e
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.StatusMessage != "" {
		return e.StatusMessage
	}
	return http.StatusText(e.StatusCode)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithData attaches extra payload to be serialized into the client response.
func (e *Error) WithData(data any) *Error {
	e.Data = data
	return e
}

// AsFatal marks the error unrecoverable at the process level.
func (e *Error) AsFatal() *Error {
	e.Fatal = true
	return e
}
