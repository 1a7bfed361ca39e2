package slogobs

import (
	"os"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Format
	}{
		{"compact lowercase", "compact", FormatCompact},
		{"compact uppercase", "COMPACT", FormatCompact},
		{"pretty lowercase", "pretty", FormatPretty},
		{"pretty uppercase", "PRETTY", FormatPretty},
		{"json lowercase", "json", FormatJSON},
		{"json uppercase", "JSON", FormatJSON},
		{"unknown defaults to compact", "unknown", FormatCompact},
		{"empty defaults to compact", "", FormatCompact},
		{"whitespace defaults to compact", "  ", FormatCompact},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseFormat(tt.input)
			if result != tt.expected {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGetFormatFromEnv(t *testing.T) {
	tests := []struct {
		name          string
		rasterFormat  string
		logFormat     string
		expected      Format
		setRaster     bool
		setGeneric    bool
	}{
		{
			name:         "RASTERFLOW_LOG_FORMAT takes precedence",
			rasterFormat: "pretty",
			logFormat:    "json",
			expected:     FormatPretty,
			setRaster:    true,
			setGeneric:   true,
		},
		{
			name:       "fallback to LOG_FORMAT",
			logFormat:  "json",
			expected:   FormatJSON,
			setGeneric: true,
		},
		{
			name:     "default to compact when neither set",
			expected: FormatCompact,
		},
		{
			name:         "RASTERFLOW_LOG_FORMAT only",
			rasterFormat: "pretty",
			expected:     FormatPretty,
			setRaster:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Unsetenv("RASTERFLOW_LOG_FORMAT")
			os.Unsetenv("LOG_FORMAT")

			if tt.setRaster {
				os.Setenv("RASTERFLOW_LOG_FORMAT", tt.rasterFormat)
			}
			if tt.setGeneric {
				os.Setenv("LOG_FORMAT", tt.logFormat)
			}

			result := GetFormatFromEnv()
			if result != tt.expected {
				t.Errorf("GetFormatFromEnv() = %v, want %v", result, tt.expected)
			}

			os.Unsetenv("RASTERFLOW_LOG_FORMAT")
			os.Unsetenv("LOG_FORMAT")
		})
	}
}

func TestFormatString(t *testing.T) {
	tests := []struct {
		format   Format
		expected string
	}{
		{FormatCompact, "compact"},
		{FormatPretty, "pretty"},
		{FormatJSON, "json"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := tt.format.String()
			if result != tt.expected {
				t.Errorf("Format.String() = %v, want %v", result, tt.expected)
			}
		})
	}
}
