package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/conneroisu/bifrostdocs/internal/config"
	"github.com/conneroisu/bifrostdocs/internal/logging"
	"github.com/conneroisu/bifrostdocs/internal/shell"
)

func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFrom(o.v)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// buildApp loads the configuration and bootstraps the application module.
// Log output goes to w.
func (o *rootOptions) buildApp(w io.Writer) (*shell.App, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:      level,
		Format:     cfg.Logging.Format,
		Output:     w,
		TimeFormat: "15:04:05.000",
		Component:  "bifrostdocs",
	})

	app, err := shell.Bootstrap(shell.NewAppModule(cfg, logger))
	if err != nil {
		return nil, fmt.Errorf("failed to bootstrap application: %w", err)
	}
	return app, nil
}

// bindFlags binds each flag in flags to the configuration key it maps to.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) error {
	for name, key := range keys {
		flag := flags.Lookup(name)
		if flag == nil {
			return fmt.Errorf("unknown flag %q", name)
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("binding --%s to %s: %w", name, key, err)
		}
	}
	return nil
}
