// Package config loads parwork runtime settings from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default values for Config.
const (
	DefaultWorkers       = 4
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogOutput     = "stdout"
	DefaultLogMaxSize    = 100
	DefaultLogMaxBackups = 3
	DefaultLogMaxAge     = 7
	DefaultQueueBackend  = BackendMemory
	DefaultQueueCapacity = 1024
	DefaultSQLiteDSN     = "file:parwork.db"
	DefaultRedisAddr     = "localhost:6379"
	DefaultRedisPrefix   = "parwork:"
)

// Queue backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config holds everything needed to assemble a local parfor runner.
type Config struct {
	// Monitor enables worker statistics.
	Monitor bool        `yaml:"monitor"`
	Workers int         `yaml:"workers"`
	Log     LogConfig   `yaml:"log"`
	Queue   QueueConfig `yaml:"queue"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level      string `yaml:"level"`  // debug, info, warn, error
	Format     string `yaml:"format"` // json, console
	Output     string `yaml:"output"` // stdout, file, both
	FilePath   string `yaml:"file_path"`
	MaxSize    int    `yaml:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"` // days
}

// QueueConfig selects and configures the task queue.
type QueueConfig struct {
	Backend     string `yaml:"backend"`
	Capacity    int    `yaml:"capacity"`
	SQLiteDSN   string `yaml:"sqlite_dsn"`
	RedisAddr   string `yaml:"redis_addr"`
	RedisPrefix string `yaml:"redis_prefix"`
}

// DefaultLogConfig returns logging defaults: console output at info level.
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:      DefaultLogLevel,
		Format:     DefaultLogFormat,
		Output:     DefaultLogOutput,
		MaxSize:    DefaultLogMaxSize,
		MaxBackups: DefaultLogMaxBackups,
		MaxAge:     DefaultLogMaxAge,
	}
}

// DefaultQueueConfig returns an in-memory queue configuration.
func DefaultQueueConfig() QueueConfig {
	return QueueConfig{
		Backend:     DefaultQueueBackend,
		Capacity:    DefaultQueueCapacity,
		SQLiteDSN:   DefaultSQLiteDSN,
		RedisAddr:   DefaultRedisAddr,
		RedisPrefix: DefaultRedisPrefix,
	}
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Workers: DefaultWorkers,
		Log:     DefaultLogConfig(),
		Queue:   DefaultQueueConfig(),
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// Load reads and parses the YAML file at path.
// If the file doesn't exist, returns default config.
// Applies defaults for any missing fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that all config values are valid.
func Validate(cfg *Config) error {
	if cfg.Workers <= 0 {
		return ValidationError{Field: "workers", Message: "must be positive"}
	}
	if err := ValidateLog(&cfg.Log); err != nil {
		return err
	}
	return ValidateQueue(&cfg.Queue)
}

// ValidateLog checks the logging section.
func ValidateLog(cfg *LogConfig) error {
	switch cfg.Level {
	case "debug", "info", "warn", "error":
	default:
		return ValidationError{Field: "log.level", Message: "must be one of debug, info, warn, error"}
	}
	switch cfg.Format {
	case "json", "console":
	default:
		return ValidationError{Field: "log.format", Message: "must be json or console"}
	}
	switch cfg.Output {
	case "stdout":
	case "file", "both":
		if cfg.FilePath == "" {
			return ValidationError{Field: "log.file_path", Message: "required when output is " + cfg.Output}
		}
	default:
		return ValidationError{Field: "log.output", Message: "must be one of stdout, file, both"}
	}
	if cfg.MaxSize < 0 || cfg.MaxBackups < 0 || cfg.MaxAge < 0 {
		return ValidationError{Field: "log", Message: "rotation limits must not be negative"}
	}
	return nil
}

// ValidateQueue checks the queue section.
func ValidateQueue(cfg *QueueConfig) error {
	switch cfg.Backend {
	case BackendMemory:
		if cfg.Capacity <= 0 {
			return ValidationError{Field: "queue.capacity", Message: "must be positive"}
		}
	case BackendSQLite:
		if cfg.SQLiteDSN == "" {
			return ValidationError{Field: "queue.sqlite_dsn", Message: "must not be empty"}
		}
	case BackendRedis:
		if cfg.RedisAddr == "" {
			return ValidationError{Field: "queue.redis_addr", Message: "must not be empty"}
		}
		if cfg.RedisPrefix == "" {
			return ValidationError{Field: "queue.redis_prefix", Message: "must not be empty"}
		}
	default:
		return ValidationError{Field: "queue.backend", Message: "must be one of memory, sqlite, redis"}
	}
	return nil
}
