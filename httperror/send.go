package httperror

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/yaoapp/kun/log"

	"github.com/seamhttp/seam/event"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// body is the client-facing serialization of an Error. The cause string is
// populated only in debug mode; production responses never leak internals.
type body struct {
	StatusCode    int    `json:"statusCode"`
	StatusMessage string `json:"statusMessage,omitempty"`
	Message       string `json:"message"`
	Data          any    `json:"data,omitempty"`
	Cause         string `json:"cause,omitempty"`
	Unhandled     bool   `json:"unhandled,omitempty"`
}

// Send writes err as the terminal JSON response for the event. When the
// response already ended, there is nothing left to send to the client and
// the error is logged instead. Send itself never fails outward.
func Send(ev *event.Event, err *Error, debug bool) {
	w := ev.Response
	if w.Ended() {
		log.Warn("error response dropped, response already ended: event=%s status=%d %s", ev.ID, err.StatusCode, err.Message)
		return
	}

	b := body{
		StatusCode:    err.StatusCode,
		StatusMessage: err.StatusMessage,
		Message:       err.Message,
		Data:          err.Data,
	}
	if debug {
		b.Unhandled = err.Unhandled
		if err.Cause != nil {
			b.Cause = err.Cause.Error()
		}
	}

	payload, merr := json.Marshal(b)
	if merr != nil {
		payload = []byte(`{"statusCode":500,"message":"internal server error"}`)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(err.StatusCode)
	if werr := w.End(payload); werr != nil {
		log.Error("error response write failed: event=%s err=%v", ev.ID, werr)
	}
}
