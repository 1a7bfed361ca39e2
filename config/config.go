// Package config loads runtime configuration from environment variables and
// an optional .env file via github.com/joho/godotenv.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/hollowlab/rasterflow/observability/slogobs"
)

// Config holds the tunables cmd/rastergraph reads at startup.
type Config struct {
	LogLevel   string
	LogFormat  string
	TileWidth  int
	TileHeight int
}

// Default returns the configuration rasterflow falls back to when no
// environment variables are set.
func Default() Config {
	return Config{
		LogLevel:   "info",
		LogFormat:  "pretty",
		TileWidth:  256,
		TileHeight: 256,
	}
}

// Load reads a .env file at path (if present — a missing file is not an
// error, mirroring godotenv.Load's typical use as a best-effort local
// developer convenience) and then overlays RASTERFLOW_* environment
// variables onto Default. Load never panics; a malformed numeric value
// leaves the corresponding field at its default.
func Load(path string) Config {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err == nil {
		_ = godotenv.Load(path)
	}

	cfg := Default()

	if v := os.Getenv("RASTERFLOW_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("RASTERFLOW_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("RASTERFLOW_TILE_WIDTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TileWidth = n
		}
	}
	if v := os.Getenv("RASTERFLOW_TILE_HEIGHT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TileHeight = n
		}
	}

	return cfg
}

// LogLevelOption converts cfg's string log level into a slogobs.Option,
// falling back silently to slogobs' own default on an unrecognized value.
func (c Config) LogLevelOption() slogobs.Option {
	return slogobs.WithLevel(slogobs.ParseLogLevel(c.LogLevel))
}

// LogFormatOption converts cfg's string log format into a slogobs.Option.
func (c Config) LogFormatOption() slogobs.Option {
	return slogobs.WithFormat(slogobs.ParseFormat(c.LogFormat))
}
