package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLogLevelOrDebug(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"bogus", zerolog.DebugLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GetLogLevelOrDebug(tt.in), tt.in)
	}
}

func TestSetupDefaultLoggerWriter(t *testing.T) {
	saved := log.Logger
	defer func() { log.Logger = saved }()

	var buf bytes.Buffer
	Setup("default", "info", &buf)

	log.Debug().Msg("hidden")
	log.Info().Msg("console line")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	assert.Contains(t, out, "console line")
	assert.NotContains(t, out, `"message":`)
}

func TestSetupJSONLogger(t *testing.T) {
	saved := log.Logger
	defer func() { log.Logger = saved }()

	var buf bytes.Buffer
	Setup("JSON", "warn", &buf)

	log.Info().Msg("hidden")
	log.Warn().Int("bits", 25).Msg("shown")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"message":"shown"`)
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"bits":25`)
	assert.Contains(t, out, `"time":`)
}
