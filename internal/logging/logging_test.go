package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/petrijr/parwork/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "level %q", tt.in)
	}
}

func TestLogger_JSONToStdout(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.DefaultLogConfig()
	cfg.Format = "json"

	logger := newLogger(cfg, &buf)
	logger.Debug("hidden")
	logger.Info("task_completed", zap.Int64("worker_id", 3))
	require.NoError(t, logger.Sync())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "task_completed", rec["msg"])
	assert.Equal(t, "info", rec["level"])
	assert.Equal(t, float64(3), rec["worker_id"])
}

func TestLogger_ConsoleLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.DefaultLogConfig()
	cfg.Level = "warn"

	logger := newLogger(cfg, &buf)
	logger.Info("quiet")
	logger.Warn("loud")
	require.NoError(t, logger.Sync())

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
	assert.Contains(t, buf.String(), "WARN")
}

func TestLogger_FileOutput(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "parwork.log")
	cfg := config.DefaultLogConfig()
	cfg.Output = "file"
	cfg.FilePath = path

	logger := newLogger(cfg, &buf)
	logger.Info("to file")
	require.NoError(t, logger.Sync())

	assert.Empty(t, buf.String())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestLogger_BothOutputs(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "parwork.log")
	cfg := config.DefaultLogConfig()
	cfg.Output = "both"
	cfg.FilePath = path

	logger := newLogger(cfg, &buf)
	logger.Error("everywhere")
	require.NoError(t, logger.Sync())

	assert.Contains(t, buf.String(), "everywhere")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "everywhere")
}
