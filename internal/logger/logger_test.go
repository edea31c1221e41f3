package logger_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pfes/joborder-api/internal/config"
	"github.com/pfes/joborder-api/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	t.Run("invalid level falls back to info", func(t *testing.T) {
		l, err := logger.NewLogger(&config.LoggingConfig{Level: "loud", Format: "json"}, &config.AppConfig{Name: "joborder-api", Environment: "test"})
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("debug level", func(t *testing.T) {
		l, err := logger.NewLogger(&config.LoggingConfig{Level: "debug", Format: "console"}, &config.AppConfig{Name: "joborder-api", Environment: "development"})
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("file output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "api.log")
		l, err := logger.NewLogger(&config.LoggingConfig{Level: "info", Format: "json", Output: path}, &config.AppConfig{Name: "joborder-api", Environment: "production"})
		require.NoError(t, err)
		l.Info("register archived")
		_ = l.Sync()

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "register archived")
		assert.Contains(t, string(data), `"logger":"joborder"`)
	})
}

func TestContextHelpers(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	l := logger.WithRequest(base, "GET", "/api/v1/job-orders", "req-1")
	l = logger.WithUser(l, "u-1", "ops@example.com", "operations")
	l = logger.WithJobOrder(l, "DOM-1")
	l.Info("hello")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "ops@example.com", fields["user_email"])
	assert.Equal(t, "operations", fields["user_type"])
	assert.Equal(t, "DOM-1", fields["job_order_number"])
}
