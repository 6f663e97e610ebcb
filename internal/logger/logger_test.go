package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/dirscan/internal/logger"
)

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer

	log, err := logger.New(&buf, logger.Config{Level: "WARN", Format: "json"})
	require.NoError(t, err)

	log.Info().Msg("hidden")
	log.Warn().Str("path", "/a").Msg("shown")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["message"])
	assert.Equal(t, "/a", entry["path"])
	assert.Equal(t, "warn", entry["level"])
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer

	log, err := logger.New(&buf, logger.Config{})
	require.NoError(t, err)

	log.Debug().Msg("hidden")
	log.Info().Msg("visible")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "visible")
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestInvalidConfig(t *testing.T) {
	_, err := logger.New(&bytes.Buffer{}, logger.Config{Level: "loud"})
	require.Error(t, err)

	_, err = logger.New(&bytes.Buffer{}, logger.Config{Format: "xml"})
	require.Error(t, err)
}
