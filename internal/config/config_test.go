package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "parwork.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), *cfg)
	assert.False(t, cfg.Monitor)
	assert.Equal(t, DefaultWorkers, cfg.Workers)
	assert.Equal(t, BackendMemory, cfg.Queue.Backend)
}

func TestLoad_ValidFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "parwork.yaml")
	content := `monitor: true
workers: 8
log:
  level: debug
  format: json
  output: both
  file_path: /tmp/parwork.log
  max_size: 10
queue:
  backend: redis
  redis_addr: redis:6379
  redis_prefix: jobs
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Monitor)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "both", cfg.Log.Output)
	assert.Equal(t, "/tmp/parwork.log", cfg.Log.FilePath)
	assert.Equal(t, 10, cfg.Log.MaxSize)
	assert.Equal(t, DefaultLogMaxBackups, cfg.Log.MaxBackups)
	assert.Equal(t, BackendRedis, cfg.Queue.Backend)
	assert.Equal(t, "redis:6379", cfg.Queue.RedisAddr)
	assert.Equal(t, "jobs", cfg.Queue.RedisPrefix)
}

func TestParse_PartialKeepsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte("workers: 2\n"))
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, DefaultLogConfig(), cfg.Log)
	assert.Equal(t, DefaultQueueConfig(), cfg.Queue)
}

func TestParse_InvalidYAML(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("workers: [1, 2"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestParse_ValidationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		yaml  string
		field string
	}{
		{"zero workers", "workers: 0", "workers"},
		{"bad level", "log: {level: verbose}", "log.level"},
		{"bad format", "log: {format: xml}", "log.format"},
		{"bad output", "log: {output: syslog}", "log.output"},
		{"file without path", "log: {output: file}", "log.file_path"},
		{"negative rotation", "log: {max_age: -1}", "log"},
		{"bad backend", "queue: {backend: kafka}", "queue.backend"},
		{"zero capacity", "queue: {capacity: 0}", "queue.capacity"},
		{"empty dsn", "queue: {backend: sqlite, sqlite_dsn: ''}", "queue.sqlite_dsn"},
		{"empty redis addr", "queue: {backend: redis, redis_addr: ''}", "queue.redis_addr"},
		{"empty redis prefix", "queue: {backend: redis, redis_prefix: ''}", "queue.redis_prefix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)

			var ve ValidationError
			require.True(t, errors.As(err, &ve), "expected ValidationError, got %T", err)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestLoad_UnreadablePath(t *testing.T) {
	t.Parallel()

	// A directory cannot be read as a file.
	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}
