// Package ginadapter hosts seam applications inside a gin engine.
package ginadapter

import (
	"github.com/gin-gonic/gin"

	"github.com/seamhttp/seam"
)

// Wrap adapts an App into a gin handler. Failure handling stays inside the
// seam driver; gin only supplies routing and the underlying writer.
func Wrap(app *seam.App) gin.HandlerFunc {
	listener := seam.ToListener(app)
	return func(c *gin.Context) {
		listener(c.Writer, c.Request)
	}
}

// WrapHandler adapts a bare event handler with the given options.
func WrapHandler(h seam.EventHandler, opts seam.Options) gin.HandlerFunc {
	return Wrap(&seam.App{Handler: h, Options: opts})
}

// Attach registers an App on the router group for the given method and
// relative path.
func Attach(group *gin.RouterGroup, method, path string, app *seam.App) {
	group.Handle(method, path, Wrap(app))
}
