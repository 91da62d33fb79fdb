package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/erp/pricesync/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Run("writes json to a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pricesync.log")

		log, err := New(config.LogConfig{Level: "debug", Format: "json", Output: path})
		require.NoError(t, err)
		log.Info("price export scheduled")
		require.NoError(t, log.Sync())

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), `"msg":"price export scheduled"`)
		assert.Contains(t, string(content), `"level":"info"`)
	})

	t.Run("fails when the file cannot be opened", func(t *testing.T) {
		_, err := New(config.LogConfig{Output: filepath.Join(t.TempDir(), "missing", "x.log")})
		assert.Error(t, err)
	})

	t.Run("stdout by default", func(t *testing.T) {
		log, err := New(config.LogConfig{})
		require.NoError(t, err)
		assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
	})
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}
	for input, want := range tests {
		t.Run(input, func(t *testing.T) {
			assert.Equal(t, want, parseLevel(input))
		})
	}
}
