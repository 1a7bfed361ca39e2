package slogobs

import (
	"log/slog"
	"os"
	"strings"
)

// GetLogLevelFromEnv reads the log level from RASTERFLOW_LOG_LEVEL, falling
// back to LOG_LEVEL, defaulting to INFO when neither is set.
func GetLogLevelFromEnv() slog.Level {
	level := os.Getenv("RASTERFLOW_LOG_LEVEL")
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	if level == "" {
		return slog.LevelInfo
	}
	return ParseLogLevel(level)
}

// ParseLogLevel parses a level string (case-insensitive), returning INFO for
// unrecognized values.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "TRACE":
		return slog.LevelDebug - 4
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
