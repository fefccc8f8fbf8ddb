package parwork

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/petrijr/parwork/internal/config"
	"github.com/petrijr/parwork/internal/logging"
	"github.com/petrijr/parwork/internal/taskqueue"
	"github.com/petrijr/parwork/pkg/api"
	"github.com/petrijr/parwork/pkg/monitor"
)

type (
	// Config is the YAML-loadable runtime configuration.
	Config = config.Config
	// LogConfig configures logging.
	LogConfig = config.LogConfig
	// QueueConfig selects the queue backend.
	QueueConfig = config.QueueConfig
)

var (
	LoadConfig    = config.Load
	ParseConfig   = config.Parse
	DefaultConfig = config.DefaultConfig
)

// Runtime is a LocalRunner assembled from a Config together with the
// resources it owns.
type Runtime struct {
	Runner *LocalRunner
	Logger *zap.Logger
	// Monitor is nil unless monitoring is enabled.
	Monitor *monitor.Monitor

	closers []func() error
}

// NewRunnerFromConfig builds the logger, queue, statistic sink and runner
// described by cfg. bodies holds either one body, shared by all
// cfg.Workers workers, or exactly one body per worker.
func NewRunnerFromConfig(cfg *Config, bodies ...Body) (*Runtime, error) {
	if cfg == nil {
		def := config.DefaultConfig()
		cfg = &def
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	perWorker, err := expandBodies(bodies, cfg.Workers)
	if err != nil {
		return nil, err
	}

	rt := &Runtime{Logger: logging.New(cfg.Log)}

	q, err := rt.openQueue(cfg.Queue)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}

	wcfg := WorkerConfig{Logger: rt.Logger}
	if cfg.Monitor {
		rt.Monitor = monitor.New()
		wcfg.Monitor = true
		wcfg.Sink = api.NewCompositeSink(rt.Monitor, api.NewLoggingSink(rt.Logger))
	}

	rt.Runner = NewLocalRunner(q, perWorker, wcfg)
	rt.Logger.Info("runtime_ready",
		zap.Int("workers", len(perWorker)),
		zap.String("queue", cfg.Queue.Backend),
		zap.Bool("monitor", cfg.Monitor),
	)
	return rt, nil
}

func expandBodies(bodies []Body, workers int) ([]Body, error) {
	switch len(bodies) {
	case 0:
		return nil, errors.New("parwork: at least one body is required")
	case 1:
		out := make([]Body, workers)
		for i := range out {
			out[i] = bodies[0]
		}
		return out, nil
	case workers:
		return bodies, nil
	}
	return nil, fmt.Errorf("parwork: got %d bodies for %d workers", len(bodies), workers)
}

func (rt *Runtime) openQueue(cfg QueueConfig) (Queue, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		db, err := sql.Open("sqlite", cfg.SQLiteDSN)
		if err != nil {
			return nil, fmt.Errorf("open sqlite queue: %w", err)
		}
		// One connection keeps concurrent claims from failing with SQLITE_BUSY.
		db.SetMaxOpenConns(1)
		rt.closers = append(rt.closers, db.Close)

		q, err := taskqueue.NewSQLiteQueue(db)
		if err != nil {
			return nil, fmt.Errorf("init sqlite queue: %w", err)
		}
		return q, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		rt.closers = append(rt.closers, client.Close)
		return taskqueue.NewRedisQueue(client, cfg.RedisPrefix, rt.Logger), nil
	}
	return taskqueue.NewInMemoryQueue(cfg.Capacity), nil
}

// Close stops the runner and releases the queue connection.
func (rt *Runtime) Close() error {
	if rt.Runner != nil {
		rt.Runner.Stop()
	}

	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	rt.closers = nil

	if rt.Logger != nil {
		_ = rt.Logger.Sync()
	}
	return errors.Join(errs...)
}
