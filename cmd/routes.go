package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/bifrostdocs/internal/registry"
)

func newRoutesCmd(opts *rootOptions) *cobra.Command {
	var format string

	routesCmd := &cobra.Command{
		Use:     "routes",
		Aliases: []string{"ls"},
		Short:   "List every mounted route",
		Long: `List every route of the application with the page it mounts.

Examples:
  bifrostdocs routes              # Table output
  bifrostdocs routes -o json      # Output as JSON
  bifrostdocs routes -o yaml      # Output as YAML`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.buildApp(io.Discard)
			if err != nil {
				return err
			}
			defer app.Shutdown(cmd.Context())

			pages := app.Registry.GetAll()
			out := cmd.OutOrStdout()
			switch strings.ToLower(format) {
			case "table":
				return outputRoutesTable(out, pages)
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(pages)
			case "yaml":
				return outputYAML(out, pages)
			default:
				return fmt.Errorf("unsupported format: %s (supported: table, json, yaml)", format)
			}
		},
	}

	routesCmd.Flags().StringVarP(&format, "output", "o", "table", "Output format (table, json, yaml)")
	return routesCmd
}

func outputRoutesTable(w io.Writer, pages []*registry.PageInfo) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ROUTE\tMATCH\tMODULE\tPAGE\tSECTION\tTITLE")
	for _, p := range pages {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", p.Route, p.Match, p.Module, p.Name, p.Section, p.Title)
	}
	return tw.Flush()
}

func outputYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
