package logger_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hasura-metrics-adapter/pkg/config"
	"github.com/hasura-metrics-adapter/pkg/logger"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"DBG":   zapcore.DebugLevel,
		"info":  zapcore.InfoLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
		"fatal": zapcore.FatalLevel,
		"bogus": zapcore.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, logger.ParseLevel(in), in)
	}
}

func TestCollectorFieldAttached(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := logger.Replace(zap.New(core))
	defer restore()

	logger.Warn("collect failed", "cron", zap.String("reason", "status 500"))
	logger.Info("cycle done", "")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "cron", entries[0].ContextMap()["collector"])
	assert.Equal(t, "status 500", entries[0].ContextMap()["reason"])
	assert.Equal(t, logger.GetDefaultCollector(), entries[1].ContextMap()["collector"])
	assert.NotEmpty(t, entries[1].ContextMap()["goid"])
}

func TestLevelFiltering(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	restore := logger.Replace(zap.New(core))
	defer restore()

	logger.Debug("hidden", "")
	logger.Info("hidden", "")
	logger.Error("shown", "")

	assert.Equal(t, 1, logs.Len())
}

func TestInitWritesRotatedFile(t *testing.T) {
	dir := t.TempDir()
	err := logger.Init(config.ZapLogConfig{
		Level:   "debug",
		Format:  "console",
		Path:    dir,
		MaxSize: 1,
		MaxAge:  1,
	})
	require.NoError(t, err)

	logger.Info("hello", "test")
	// stdout 为管道时 Sync 可能返回 EINVAL，忽略
	_ = logger.Sync()

	matches, err := filepath.Glob(filepath.Join(dir, "adapter-*.log"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"collector":"test"`)
}
