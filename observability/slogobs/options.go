package slogobs

import (
	"io"
	"log/slog"
	"os"
)

// Option is a functional option for configuring the Observer.
type Option func(*config)

type config struct {
	format Format
	level  slog.Level
	output io.Writer
	colors bool
	logger *slog.Logger
}

// WithFormat sets the log output format.
func WithFormat(format Format) Option {
	return func(c *config) { c.format = format }
}

// WithLevel sets the minimum log level.
func WithLevel(level slog.Level) Option {
	return func(c *config) { c.level = level }
}

// WithOutput sets the output writer for logs.
func WithOutput(output io.Writer) Option {
	return func(c *config) { c.output = output }
}

// WithColors enables ANSI color codes for compact/pretty formats. With false,
// colors are still turned on when the output is a terminal.
func WithColors(enabled bool) Option {
	return func(c *config) { c.colors = enabled }
}

// WithLogger uses an existing slog.Logger instead of a custom handler.
// Takes precedence over format/level/output/colors options.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

func defaultConfig() *config {
	return &config{
		format: GetFormatFromEnv(),
		level:  GetLogLevelFromEnv(),
		output: os.Stdout,
		colors: false,
		logger: nil,
	}
}

func applyOptions(opts ...Option) *config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
