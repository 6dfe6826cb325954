package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}

func TestNewWithWriter(t *testing.T) {
	t.Run("json output carries service attribute", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewWithWriter(&buf, "info", "json")
		log.Info("hello", "sak_id", "abc")

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "supstonad", line["service"])
		assert.Equal(t, "abc", line["sak_id"])
	})

	t.Run("level filters debug", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewWithWriter(&buf, "info", "text")
		log.Debug("hidden")
		assert.Empty(t, buf.String())
	})
}
