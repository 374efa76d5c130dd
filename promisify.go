package seam

import (
	"net/http"

	"github.com/seamhttp/seam/response"
)

// Promisify adapts a raw handler into a function that always hands back a
// Deferred for the invocation. Pure delegation to Call; no extra state.
func Promisify(h Handler) func(w *response.Writer, r *http.Request) *Deferred {
	return func(w *response.Writer, r *http.Request) *Deferred {
		return Call(h, w, r)
	}
}
