// Package config provides configuration management for the documentation server
// using Viper for flexible configuration loading from files, environment
// variables, and command-line flags.
//
// The configuration system supports YAML files (.bifrostdocs.yml), environment
// variable overrides with the BIFROSTDOCS_ prefix and validation. It covers the
// HTTP server, the documentation samples, the syntax highlighter, the render
// lifecycle and logging.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "BIFROSTDOCS"

type Config struct {
	Server    ServerConfig    `mapstructure:"server" yaml:"server" json:"server"`
	Docs      DocsConfig      `mapstructure:"docs" yaml:"docs" json:"docs"`
	Highlight HighlightConfig `mapstructure:"highlight" yaml:"highlight" json:"highlight"`
	Render    RenderConfig    `mapstructure:"render" yaml:"render" json:"render"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging" json:"logging"`
}

type ServerConfig struct {
	Port           int             `mapstructure:"port" yaml:"port" json:"port" jsonschema:"minimum=0,maximum=65535,default=8080"`
	Host           string          `mapstructure:"host" yaml:"host" json:"host" jsonschema:"default=localhost"`
	AllowedOrigins []string        `mapstructure:"allowed_origins" yaml:"allowed_origins" json:"allowed_origins,omitempty"`
	// TrustProxy takes the client address from X-Forwarded-For and X-Real-IP.
	// Only enable it behind a proxy that overwrites those headers.
	TrustProxy     bool            `mapstructure:"trust_proxy" yaml:"trust_proxy" json:"trust_proxy"`
	RateLimit      RateLimitConfig `mapstructure:"rate_limit" yaml:"rate_limit" json:"rate_limit"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" yaml:"requests_per_second" json:"requests_per_second" jsonschema:"minimum=0"`
	Burst             int     `mapstructure:"burst" yaml:"burst" json:"burst" jsonschema:"minimum=0"`
}

type DocsConfig struct {
	// SamplesDir overrides the embedded code samples when set.
	SamplesDir string `mapstructure:"samples_dir" yaml:"samples_dir" json:"samples_dir,omitempty"`
	// Dev enables sample watching, live reload and the error overlay.
	Dev bool `mapstructure:"dev" yaml:"dev" json:"dev"`
	// Home is the path "/" redirects to.
	Home string `mapstructure:"home" yaml:"home" json:"home" jsonschema:"default=/sewing-machine"`
}

type HighlightConfig struct {
	Style       string `mapstructure:"style" yaml:"style" json:"style" jsonschema:"default=github"`
	Classes     bool   `mapstructure:"classes" yaml:"classes" json:"classes"`
	LineNumbers bool   `mapstructure:"line_numbers" yaml:"line_numbers" json:"line_numbers"`
	TabWidth    int    `mapstructure:"tab_width" yaml:"tab_width" json:"tab_width" jsonschema:"minimum=1,maximum=16,default=4"`
}

type RenderConfig struct {
	// StableChecks is how many times the stable-render hook fires after a mount.
	StableChecks int `mapstructure:"stable_checks" yaml:"stable_checks" json:"stable_checks" jsonschema:"minimum=1,default=2"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
	Format string `mapstructure:"format" yaml:"format" json:"format" jsonschema:"enum=text,enum=json"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.trust_proxy", false)
	v.SetDefault("server.rate_limit.enabled", true)
	v.SetDefault("server.rate_limit.requests_per_second", 20.0)
	v.SetDefault("server.rate_limit.burst", 40)
	v.SetDefault("docs.home", "/sewing-machine")
	v.SetDefault("highlight.style", "github")
	v.SetDefault("highlight.classes", true)
	v.SetDefault("highlight.tab_width", 4)
	v.SetDefault("render.stable_checks", 2)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// ConfigureEnv enables BIFROSTDOCS_<SECTION>_<OPTION> environment overrides on v.
func ConfigureEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(envKeyReplacer())
}

func envKeyReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_", "-", "_")
}

// Load reads the configuration from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads the configuration from v, applies defaults and validates it.
func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Slices set through env vars arrive as a single comma separated string
	if v.IsSet("server.allowed_origins") && len(config.Server.AllowedOrigins) == 0 {
		config.Server.AllowedOrigins = v.GetStringSlice("server.allowed_origins")
	}
	config.Logging.Level = strings.ToLower(config.Logging.Level)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the configuration with every default applied.
func Default() *Config {
	config, err := LoadFrom(viper.New())
	if err != nil {
		panic(fmt.Sprintf("default configuration is invalid: %v", err))
	}
	return config
}

// Addr returns the host:port the server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// validateConfig validates configuration values for security and correctness
func validateConfig(config *Config) error {
	if err := validateServerConfig(&config.Server); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if err := validateDocsConfig(&config.Docs); err != nil {
		return fmt.Errorf("docs config: %w", err)
	}
	if config.Highlight.TabWidth < 1 || config.Highlight.TabWidth > 16 {
		return fmt.Errorf("highlight config: tab_width %d is not in range 1-16", config.Highlight.TabWidth)
	}
	if config.Render.StableChecks < 1 {
		return fmt.Errorf("render config: stable_checks must be at least 1, got %d", config.Render.StableChecks)
	}
	switch config.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging config: unsupported format %q", config.Logging.Format)
	}

	return nil
}

// validateServerConfig validates server configuration values
func validateServerConfig(config *ServerConfig) error {
	// Allow 0 for system-assigned ports in testing
	if config.Port < 0 || config.Port > 65535 {
		return fmt.Errorf("port %d is not in valid range 0-65535", config.Port)
	}

	if config.Host != "" {
		dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'", "\\"}
		for _, char := range dangerousChars {
			if strings.Contains(config.Host, char) {
				return fmt.Errorf("host contains dangerous character: %s", char)
			}
		}
	}

	if config.RateLimit.Enabled && config.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("rate_limit.requests_per_second must be positive when enabled")
	}

	return nil
}

func validateDocsConfig(config *DocsConfig) error {
	if config.SamplesDir != "" {
		if err := validatePath(config.SamplesDir); err != nil {
			return fmt.Errorf("invalid samples_dir '%s': %w", config.SamplesDir, err)
		}
	}
	if config.Home != "" && !strings.HasPrefix(config.Home, "/") {
		return fmt.Errorf("home must be an absolute path, got %q", config.Home)
	}
	return nil
}

// validatePath validates a file path for security
func validatePath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path contains traversal: %s", path)
	}

	dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'"}
	for _, char := range dangerousChars {
		if strings.Contains(cleanPath, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}

	return nil
}
