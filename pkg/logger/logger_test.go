package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docufile/authkit/pkg/logger"
)

func TestNew(t *testing.T) {
	t.Run("json output by default", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf))
		log.Info("hello", slog.String("key", "value"))

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "hello", record["msg"])
		assert.Equal(t, "value", record["key"])
	})

	t.Run("text format", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithFormat(logger.FormatText))
		log.Info("hello")

		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("static attributes on every record", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(
			logger.WithOutput(&buf),
			logger.WithAttr(slog.String("service", "authkit")),
		)
		log.Info("one")
		log.Info("two")

		for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
			assert.Contains(t, line, `"service":"authkit"`)
		}
	})

	t.Run("level filtering", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithLevel(slog.LevelWarn))
		log.Info("dropped")
		log.Warn("kept")

		assert.NotContains(t, buf.String(), "dropped")
		assert.Contains(t, buf.String(), "kept")
	})

	t.Run("invalid format panics", func(t *testing.T) {
		assert.Panics(t, func() {
			logger.New(logger.WithFormat("yaml"))
		})
	})

	t.Run("development preset uses text at debug", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(logger.WithDevelopment("authkit"), logger.WithOutput(&buf))
		log.Debug("visible")

		assert.Contains(t, buf.String(), "visible")
		assert.Contains(t, buf.String(), "service=authkit")
	})
}
