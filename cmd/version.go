package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/bifrostdocs/internal/version"
)

func newVersionCmd() *cobra.Command {
	var (
		format string
		short  bool
	)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Display version information for bifrostdocs.

Examples:
  bifrostdocs version              # Show version
  bifrostdocs version --short      # Show short version only
  bifrostdocs version -f json      # Output as JSON`,
		Args: cobra.NoArgs,
		// Version needs no configuration.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch format {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(version.GetBuildInfo())
			case "text":
				if short {
					fmt.Fprintln(out, version.GetShortVersion())
					return nil
				}
				fmt.Fprintln(out, "bifrostdocs "+version.GetShortVersion())
				fmt.Fprintln(out, version.GetDetailedVersion())
				return nil
			default:
				return fmt.Errorf("unsupported format: %s (supported: text, json)", format)
			}
		},
	}

	versionCmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text, json)")
	versionCmd.Flags().BoolVar(&short, "short", false, "Show short version only")
	return versionCmd
}
