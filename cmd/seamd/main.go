package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/yaoapp/kun/log"

	"github.com/seamhttp/seam"
	"github.com/seamhttp/seam/config"
	"github.com/seamhttp/seam/event"
	"github.com/seamhttp/seam/ginadapter"
	"github.com/seamhttp/seam/httperror"
	"github.com/seamhttp/seam/response"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "seamd",
	Short: "Demo server for the seam handler bridge",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}

		gin.SetMode(cfg.Mode)
		engine := gin.New()
		engine.Use(gin.Recovery())

		group := engine.Group("/")
		ginadapter.Attach(group, http.MethodGet, "/ping", &seam.App{
			Handler: pingHandler,
			Options: seam.Options{Debug: cfg.Debug},
		})
		ginadapter.Attach(group, http.MethodGet, "/fail", &seam.App{
			Handler: failHandler,
			Options: seam.Options{Debug: cfg.Debug},
		})

		color.Green("seamd listening on %s (debug=%v)", cfg.Addr(), cfg.Debug)
		if err := engine.Run(cfg.Addr()); err != nil {
			log.Error("server stopped: %v", err)
			return err
		}
		return nil
	},
}

// pingHandler answers through the raw listener convention to exercise the
// bridge end to end.
func pingHandler(ctx context.Context, ev *event.Event) (any, error) {
	h, err := seam.ToEventHandler(seam.NewListener(func(w *response.Writer, r *http.Request) any {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = w.End([]byte(`{"message":"pong"}`))
		return nil
	}))
	if err != nil {
		return nil, err
	}
	return h(ctx, ev)
}

// failHandler always fails, showing the driver's terminal error path.
func failHandler(ctx context.Context, ev *event.Event) (any, error) {
	return nil, httperror.New(http.StatusTeapot, "always fails")
}

func main() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "path to the env file")
	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
