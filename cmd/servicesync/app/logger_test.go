package app

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetermineLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected string
		warns    bool
	}{
		{"default", &Config{}, "info", false},
		{"verbose", &Config{Verbose: true}, "debug", false},
		{"quiet", &Config{Quiet: true}, "warn", false},
		{"explicit overrides verbose", &Config{LogLevel: "error", Verbose: true}, "error", false},
		{"explicit overrides quiet", &Config{LogLevel: "trace", Quiet: true}, "trace", false},
		{"verbose and quiet", &Config{Verbose: true, Quiet: true}, "warn", true},
		{"invalid level", &Config{LogLevel: "loud"}, "info", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var warn bytes.Buffer
			assert.Equal(t, tt.expected, determineLogLevel(tt.config, &warn))
			assert.Equal(t, tt.warns, warn.Len() > 0)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var warn bytes.Buffer
	logger := NewLogger(&Config{LogLevel: "warn", LogFormat: "json", LogOutput: "discard"}, &warn)
	assert.Equal(t, "warn", logger.GetLevel().String())
	assert.Empty(t, warn.String())
}
