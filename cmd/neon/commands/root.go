// Package commands implements the neon command line.
package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/livefir/neon"
	"github.com/livefir/neon/cmd/neon/internal/config"
	"github.com/livefir/neon/internal/metrics"
)

// flagKeys maps command flags to configuration keys.
var flagKeys = map[string]string{
	"log-level": "log_level",
	"minify":    "minify",
	"addr":      "addr",
}

// app carries the state shared by every command of one invocation.
type app struct {
	v        *viper.Viper
	cfgFile  string
	config   *config.Config
	logger   *slog.Logger
	metrics  *metrics.Collector
	partials *neon.Partials
}

// NewRootCmd builds the neon command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{v: viper.New()})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "neon",
		Short: "Compile, render and diff reactive HTML templates",
		Long: `neon compiles HTML templates with {key}, {if}, {for} and {>partial}
directives, renders them against YAML data and reconciles the result into a
live tree, reporting the minimal set of DOM changes.

Configuration is read from ./neon.yaml (or --config), NEON_* environment
variables and flags, in increasing order of precedence.

Examples:
  neon render page.html --data data.yaml
  neon check page.html
  neon diff page.html --from before.yaml --to after.yaml
  neon watch page.html --data data.yaml
  neon serve page.html --data data.yaml --addr :8080`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.load,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./neon.yaml)")
	root.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")

	root.AddCommand(
		newRenderCmd(a),
		newCheckCmd(a),
		newDiffCmd(a),
		newWatchCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// load resolves configuration for the executing command and builds the
// logger, metrics and partials it runs with.
func (a *app) load(cmd *cobra.Command, _ []string) error {
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := a.v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.config = cfg
	a.logger = cfg.NewLogger(cmd.ErrOrStderr())
	a.metrics = metrics.NewCollector()

	a.partials, err = cfg.LoadPartials()
	if err != nil {
		return err
	}
	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug("loaded config", "file", used, "partials", a.partials.Len())
	}
	return nil
}

// options returns the component options for the loaded configuration.
func (a *app) options() []neon.Option {
	opts := []neon.Option{
		neon.WithLogger(a.logger),
		neon.WithMetrics(a.metrics),
	}
	if a.partials.Len() > 0 {
		opts = append(opts, neon.WithPartials(a.partials))
	}
	if a.config.Minify {
		opts = append(opts, neon.WithMinify())
	}
	return opts
}

// mount compiles the template file and mounts it with the data file.
func (a *app) mount(templatePath, dataPath string) (*neon.Component, error) {
	src, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	data, err := config.LoadData(dataPath)
	if err != nil {
		return nil, err
	}
	c, err := neon.Mount(string(src), data, a.options()...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", templatePath, err)
	}
	return c, nil
}
