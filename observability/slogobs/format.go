package slogobs

import (
	"os"
	"strings"
)

// Format represents the output format for logs.
type Format string

const (
	// FormatCompact is a single-line format with JSON attributes (default).
	// Example: 2025-11-03 10:40:35 DEBUG Message -> {"key":"value"}
	FormatCompact Format = "compact"

	// FormatPretty is a multi-line, tree-indented format for interactive debugging.
	FormatPretty Format = "pretty"

	// FormatJSON is standard JSON-per-line output for log aggregation.
	FormatJSON Format = "json"
)

// ParseFormat parses a format string, defaulting to FormatCompact for
// anything unrecognized.
func ParseFormat(s string) Format {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "compact":
		return FormatCompact
	case "pretty":
		return FormatPretty
	case "json":
		return FormatJSON
	default:
		return FormatCompact
	}
}

// GetFormatFromEnv reads RASTERFLOW_LOG_FORMAT, falling back to LOG_FORMAT,
// defaulting to FormatCompact when neither is set.
func GetFormatFromEnv() Format {
	if format := os.Getenv("RASTERFLOW_LOG_FORMAT"); format != "" {
		return ParseFormat(format)
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		return ParseFormat(format)
	}
	return FormatCompact
}

// String returns the string representation of the Format.
func (f Format) String() string {
	return string(f)
}
