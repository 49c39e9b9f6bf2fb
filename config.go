package neon

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/livefir/neon/internal/compiler"
	"github.com/livefir/neon/internal/metrics"
)

// Config holds component and preview configuration options
type Config struct {
	Logger            *slog.Logger
	Metrics           *metrics.Collector
	Partials          *compiler.Partials
	Minify            bool // Minify rendered markup before reconciling
	Upgrader          *websocket.Upgrader
	WebSocketDisabled bool
}

// Option is a functional option for configuring a Component or Handler
type Option func(*Config)

// WithMinify minifies rendered markup before it is reconciled
func WithMinify() Option {
	return func(c *Config) {
		c.Minify = true
	}
}

// WithLogger sets the logger diagnostics and render failures are reported to
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithMetrics records compiles, renders and reconciliations in collector
func WithMetrics(collector *metrics.Collector) Option {
	return func(c *Config) {
		c.Metrics = collector
	}
}

// WithPartials resolves {>name} includes against partials. Templates
// compiled with partials use a cache of their own.
func WithPartials(partials *compiler.Partials) Option {
	return func(c *Config) {
		c.Partials = partials
	}
}

// WithUpgrader sets a custom WebSocket upgrader
func WithUpgrader(upgrader *websocket.Upgrader) Option {
	return func(c *Config) {
		c.Upgrader = upgrader
	}
}

// WithWebSocketDisabled disables WebSocket support, serving markup only
func WithWebSocketDisabled() Option {
	return func(c *Config) {
		c.WebSocketDisabled = true
	}
}

func newConfig(opts []Option) Config {
	config := Config{
		Upgrader: &websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Metrics == nil {
		config.Metrics = metrics.NewCollector()
	}
	return config
}

// newCompiler returns the process-wide compiler, or a private one when
// partials are configured.
func (c Config) newCompiler() *compiler.Compiler {
	if c.Partials == nil {
		return compiler.Default()
	}
	return compiler.New(
		compiler.WithCache(compiler.NewCache()),
		compiler.WithPartials(c.Partials),
		compiler.WithLogger(c.Logger),
	)
}
