package slogobs

import (
	"log/slog"
	"os"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected slog.Level
	}{
		{"Trace uppercase", "TRACE", slog.LevelDebug - 4},
		{"Trace lowercase", "trace", slog.LevelDebug - 4},
		{"Debug uppercase", "DEBUG", slog.LevelDebug},
		{"Debug lowercase", "debug", slog.LevelDebug},
		{"Debug mixed case", "DeBuG", slog.LevelDebug},
		{"Info uppercase", "INFO", slog.LevelInfo},
		{"Info lowercase", "info", slog.LevelInfo},
		{"Warn uppercase", "WARN", slog.LevelWarn},
		{"Warn lowercase", "warn", slog.LevelWarn},
		{"Warning uppercase", "WARNING", slog.LevelWarn},
		{"Warning lowercase", "warning", slog.LevelWarn},
		{"Error uppercase", "ERROR", slog.LevelError},
		{"Error lowercase", "error", slog.LevelError},
		{"Unknown value", "UNKNOWN", slog.LevelInfo},
		{"Empty string", "", slog.LevelInfo},
		{"Whitespace", "  ", slog.LevelInfo},
		{"With whitespace", "  DEBUG  ", slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseLogLevel(tt.input)
			if result != tt.expected {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGetLogLevelFromEnv(t *testing.T) {
	tests := []struct {
		name             string
		rasterLevel      string
		logLevel         string
		expectedLevel    slog.Level
		shouldSetRaster  bool
		shouldSetGeneric bool
	}{
		{
			name:             "RASTERFLOW_LOG_LEVEL takes precedence",
			rasterLevel:      "DEBUG",
			logLevel:         "ERROR",
			expectedLevel:    slog.LevelDebug,
			shouldSetRaster:  true,
			shouldSetGeneric: true,
		},
		{
			name:             "Fallback to LOG_LEVEL",
			logLevel:         "WARN",
			expectedLevel:    slog.LevelWarn,
			shouldSetGeneric: true,
		},
		{
			name:          "Default to INFO when neither set",
			expectedLevel: slog.LevelInfo,
		},
		{
			name:            "RASTERFLOW_LOG_LEVEL only",
			rasterLevel:     "ERROR",
			expectedLevel:   slog.LevelError,
			shouldSetRaster: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Unsetenv("RASTERFLOW_LOG_LEVEL")
			os.Unsetenv("LOG_LEVEL")

			if tt.shouldSetRaster {
				os.Setenv("RASTERFLOW_LOG_LEVEL", tt.rasterLevel)
			}
			if tt.shouldSetGeneric {
				os.Setenv("LOG_LEVEL", tt.logLevel)
			}

			result := GetLogLevelFromEnv()
			if result != tt.expectedLevel {
				t.Errorf("GetLogLevelFromEnv() = %v, want %v", result, tt.expectedLevel)
			}

			os.Unsetenv("RASTERFLOW_LOG_LEVEL")
			os.Unsetenv("LOG_LEVEL")
		})
	}
}
