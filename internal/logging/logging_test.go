package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artpar/favtag/internal/config"
)

func TestNew(t *testing.T) {
	t.Run("stderr text logger", func(t *testing.T) {
		logger, err := New(config.LogConfig{Level: "debug", Formatter: "text", File: "-"})
		require.NoError(t, err)
		assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
		assert.Equal(t, os.Stderr, logger.Out)
		assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
	})

	t.Run("json formatter", func(t *testing.T) {
		logger, err := New(config.LogConfig{Formatter: "json", File: "-"})
		require.NoError(t, err)
		assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)
		assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	})

	t.Run("writes to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "favtag.log")
		logger, err := New(config.LogConfig{Level: "info", Formatter: "text", File: path})
		require.NoError(t, err)

		logger.WithField("result_id", 42).Info("toggled favorite")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "toggled favorite")
		assert.Contains(t, string(data), "result_id=42")
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := New(config.LogConfig{Level: "loud", File: "-"})
		assert.Error(t, err)
	})
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	assert.NotPanics(t, func() { logger.Error("dropped") })
}
