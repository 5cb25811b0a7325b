package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secyourflow/authkit/pkg/logger"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("defaults to JSON at info level", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf))

		log.Debug("hidden")
		log.Info("visible", "key", "value")

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "visible", record["msg"])
		assert.Equal(t, "value", record["key"])
		assert.NotContains(t, buf.String(), "hidden")
	})

	t.Run("text format", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithFormat(logger.FormatText))

		log.Info("hello")
		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("level override", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithLevel(slog.LevelDebug))

		log.Debug("now visible")
		assert.Contains(t, buf.String(), "now visible")
	})

	t.Run("static attrs on every record", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithAttr(slog.String("service", "authkit")))

		log.Info("first")
		log.Info("second")

		for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
			assert.Contains(t, line, `"service":"authkit"`)
		}
	})

	t.Run("nil output ignored", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(nil), logger.WithOutput(&buf))
		log.Info("still works")
		assert.Contains(t, buf.String(), "still works")
	})
}

func TestWithFormatPanicsOnInvalid(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() {
		logger.New(logger.WithFormat("yaml"))
	})
}

func TestEnvironmentPresets(t *testing.T) {
	t.Parallel()

	t.Run("development", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithDevelopment("authkit"), logger.WithOutput(&buf))

		log.Debug("debug on in development")
		out := buf.String()
		assert.Contains(t, out, "debug on in development")
		assert.Contains(t, out, "service=authkit")
		assert.Contains(t, out, "env=development")
	})

	t.Run("production", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithProduction("authkit"), logger.WithOutput(&buf))

		log.Debug("suppressed")
		log.Info("shipped")

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "shipped", record["msg"])
		assert.Equal(t, "production", record["env"])
		assert.NotContains(t, buf.String(), "suppressed")
	})

	t.Run("empty service name keeps defaults", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithDevelopment(""), logger.WithOutput(&buf))

		log.Debug("still suppressed")
		assert.Empty(t, buf.String())
	})
}
