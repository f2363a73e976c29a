package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/conneroisu/bifrostdocs/internal/errors"
)

func newRenderCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "render <path>",
		Short: "Print the highlighted markup of one page",
		Long: `Mount the page routed at path, run its stable-render hook and print the
resulting markup with every code sample highlighted.

Examples:
  bifrostdocs render /sewing-machine
  bifrostdocs render /bifrost/ts/store-basics > store-basics.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.buildApp(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Shutdown(cmd.Context())

			mounted, ok := app.Lookup(args[0])
			if !ok {
				return errors.NewRoutingError(errors.CodePageNotFound, "no page is routed here").
					WithRoute(args[0])
			}

			html, err := app.Renderer.RenderHTML(cmd.Context(), mounted.Route.Component)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), html+"\n")
			return err
		},
	}
}
