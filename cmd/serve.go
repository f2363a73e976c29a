package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/conneroisu/bifrostdocs/internal/server"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	serveCmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"s"},
		Short:   "Start the documentation server",
		Long: `Start the documentation server.

In development mode the server watches the samples directory, reloads
connected browsers when a sample changes and renders failures in an
error overlay instead of a bare status page.

Examples:
  bifrostdocs serve                          # Serve on localhost:8080
  bifrostdocs serve -p 3000                  # Serve on another port
  bifrostdocs serve --dev --samples ./samples # Live reload edited samples`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	serveCmd.Flags().IntP("port", "p", 8080, "Port to serve on")
	serveCmd.Flags().String("host", "localhost", "Host to bind to")
	serveCmd.Flags().Bool("dev", false, "Enable live reload and the error overlay")
	serveCmd.Flags().String("samples", "", "Directory overriding the embedded code samples")

	cobra.CheckErr(bindFlags(opts.v, serveCmd.Flags(), map[string]string{
		"port":    "server.port",
		"host":    "server.host",
		"dev":     "docs.dev",
		"samples": "docs.samples_dir",
	}))

	return serveCmd
}

func runServe(cmd *cobra.Command, opts *rootOptions) error {
	app, err := opts.buildApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Shutdown(shutdownCtx); err != nil {
			app.Logger.Warn(shutdownCtx, err, "Error during application shutdown")
		}
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Serving documentation at http://%s\n", app.Config.Addr())
	return server.New(app).Start(ctx)
}
