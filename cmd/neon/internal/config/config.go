// Package config loads the neon CLI configuration.
//
// Values come from neon.yaml in the working directory (or the file given
// with --config), NEON_* environment variables and command flags, resolved
// by viper. Template data files are plain YAML documents.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/livefir/neon"
)

const (
	// ConfigName is the base name of the config file searched for
	ConfigName = "neon"

	// EnvPrefix prefixes environment overrides, e.g. NEON_ADDR
	EnvPrefix = "NEON"

	// DefaultAddr is the preview server address
	DefaultAddr = ":8080"
)

// Config represents the neon CLI configuration
type Config struct {
	// Partials maps partial names to template files, relative to the config file
	Partials map[string]string `mapstructure:"partials" yaml:"partials,omitempty" validate:"dive,keys,required,endkeys,required"`

	// Minify minifies rendered markup
	Minify bool `mapstructure:"minify" yaml:"minify,omitempty"`

	// Addr is the address the preview server listens on
	Addr string `mapstructure:"addr" yaml:"addr,omitempty" validate:"required,hostname_port"`

	// LogLevel is one of debug, info, warn or error
	LogLevel string `mapstructure:"log_level" yaml:"log_level,omitempty" validate:"required,oneof=debug info warn error"`

	dir string
}

// DefaultConfig returns a new Config with default values
func DefaultConfig() *Config {
	return &Config{
		Partials: map[string]string{},
		Addr:     DefaultAddr,
		LogLevel: "info",
	}
}

var validate = validator.New()

// Validate checks the configuration values
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		msgs := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			msgs = append(msgs, fmt.Sprintf("%s: failed %q", strings.ToLower(fe.Field()), fe.Tag()))
		}
		return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// Load reads the configuration into v. An explicit file must exist; without
// one, a missing neon.yaml leaves the defaults in place.
func Load(v *viper.Viper, file string) (*Config, error) {
	defaults := DefaultConfig()
	v.SetDefault("addr", defaults.Addr)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("minify", defaults.Minify)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Partials == nil {
		cfg.Partials = map[string]string{}
	}
	if used := v.ConfigFileUsed(); used != "" {
		cfg.dir = filepath.Dir(used)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Dir returns the directory of the config file, or "" without one.
func (c *Config) Dir() string { return c.dir }

// LoadPartials reads every configured partial into a registry
func (c *Config) LoadPartials() (*neon.Partials, error) {
	partials := neon.NewPartials()

	names := make([]string, 0, len(c.Partials))
	for name := range c.Partials {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		path := c.Partials[name]
		if !filepath.IsAbs(path) && c.dir != "" {
			path = filepath.Join(c.dir, path)
		}
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read partial %q: %w", name, err)
		}
		partials.Register(name, string(src))
	}
	return partials, nil
}

// LoadData reads a YAML mapping used as template data. An empty path yields
// empty data.
func LoadData(path string) (map[string]any, error) {
	data := map[string]any{}
	if path == "" {
		return data, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse data file %s: %w", path, err)
	}
	if data == nil {
		data = map[string]any{}
	}
	return data, nil
}

// ParseLevel maps a configured level name to a slog level
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger returns a text logger writing to w at the configured level
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(c.LogLevel)}))
}
