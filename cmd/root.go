// Package cmd provides the command-line interface for bifrostdocs.
//
// Configuration System:
//
//	The CLI reads configuration from several sources with clear precedence:
//	1. Command-line flags (--config, --port, etc.) - highest priority
//	2. Individual environment variables (BIFROSTDOCS_SERVER_PORT, etc.)
//	3. The file named by --config or BIFROSTDOCS_CONFIG_FILE
//	4. .bifrostdocs.yml in the current directory - lowest priority
//
// Environment Variables:
//
//	BIFROSTDOCS_CONFIG_FILE: Path to a custom configuration file
//	BIFROSTDOCS_SERVER_PORT: Override server port
//	BIFROSTDOCS_DOCS_DEV: Enable development mode
//	And every other option following the BIFROSTDOCS_<SECTION>_<OPTION> pattern
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/bifrostdocs/internal/config"
)

// ConfigFileEnv names the environment variable holding a config file path.
const ConfigFileEnv = config.EnvPrefix + "_CONFIG_FILE"

// rootOptions is the state shared by every subcommand of one root command.
type rootOptions struct {
	cfgFile string
	v       *viper.Viper
}

// NewRootCmd builds the command tree. Every call gets its own viper instance
// so flags bound by one invocation never leak into another.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "bifrostdocs",
		Short: "Documentation and sample site for the Bifrost bus",
		Long: `bifrostdocs serves the Bifrost TypeScript documentation pages and the
sewing machine sample application.

Every page highlights its code samples once, right after its first stable
render, and marks its documentation section active in the navigation.

Quick Start:
  bifrostdocs serve               Start the documentation server
  bifrostdocs serve --dev         Serve with live reload and the error overlay
  bifrostdocs routes              List every mounted route
  bifrostdocs render /bifrost/ts/logging
                                  Print the highlighted markup of one page
  bifrostdocs config schema       Print the configuration JSON schema`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.initConfig(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "",
		"config file (default is .bifrostdocs.yml, can also use "+ConfigFileEnv+" env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	cobra.CheckErr(bindFlags(opts.v, rootCmd.PersistentFlags(), map[string]string{
		"log-level": "logging.level",
	}))

	rootCmd.AddCommand(
		newServeCmd(opts),
		newRoutesCmd(opts),
		newRenderCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the root command with the process arguments.
func Execute() error {
	return NewRootCmd().Execute()
}

// initConfig selects the configuration file and enables environment overrides.
//
// Configuration file priority (highest to lowest):
//  1. --config flag
//  2. BIFROSTDOCS_CONFIG_FILE environment variable
//  3. .bifrostdocs.yml in the current directory
//
// A missing default file is not an error. A file named explicitly must load.
func (o *rootOptions) initConfig(cmd *cobra.Command) error {
	explicit := true
	switch {
	case o.cfgFile != "":
		o.v.SetConfigFile(o.cfgFile)
	case os.Getenv(ConfigFileEnv) != "":
		o.v.SetConfigFile(os.Getenv(ConfigFileEnv))
	default:
		explicit = false
		o.v.AddConfigPath(".")
		o.v.SetConfigType("yaml")
		o.v.SetConfigName(".bifrostdocs")
	}

	config.ConfigureEnv(o.v)

	if err := o.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !explicit && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "Using config file:", o.v.ConfigFileUsed())
	return nil
}
