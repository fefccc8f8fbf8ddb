package parwork

import (
	"database/sql"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/petrijr/parwork/internal/taskqueue"
	"github.com/petrijr/parwork/pkg/api"
	"github.com/petrijr/parwork/pkg/monitor"
	"github.com/petrijr/parwork/pkg/worker"
)

// Re-export key types so users don't need to dig into pkg/api.

type (
	Task             = api.Task
	SetTask          = api.SetTask
	RangeTask        = api.RangeTask
	Binding          = api.Binding
	TaskRecord       = api.TaskRecord
	Block            = api.Block
	BlockFunc        = api.BlockFunc
	Env              = api.Env
	Body             = api.Body
	ExecutionContext = api.ExecutionContext
	BlockError       = api.BlockError
	StatKind         = api.StatKind
	StatSink         = api.StatSink
	NoopSink         = api.NoopSink

	Worker       = worker.Worker
	WorkerConfig = worker.Config
	Executor     = worker.Executor

	Monitor        = monitor.Monitor
	MonitorSummary = monitor.Summary

	// Queue supplies task records to workers.
	Queue = taskqueue.Queue
	// QueuedTask is a task record together with its queue metadata.
	QueuedTask = taskqueue.Task
)

// Re-export constructors and helpers.

var (
	NewSetTask       = api.NewSetTask
	NewRangeTask     = api.NewRangeTask
	NewBlock         = api.NewBlock
	ToRecord         = api.ToRecord
	FromRecord       = api.FromRecord
	NewCompositeSink = api.NewCompositeSink
	NewLoggingSink   = api.NewLoggingSink
	IsUnsupported    = api.IsUnsupported
	IsExecutionFault = api.IsExecutionFault

	NewWorker         = worker.New
	NewDeferredWorker = worker.NewDeferred
	NewMonitor        = monitor.New
	NewQueuedTask     = taskqueue.NewTask
)

// Re-export errors and stat kinds.

var (
	ErrUnsupportedOperation = api.ErrUnsupportedOperation
	ErrInvalidTask          = api.ErrInvalidTask
	ErrInvalidIncrement     = api.ErrInvalidIncrement
	ErrRangeTooLarge        = api.ErrRangeTooLarge
	ErrCorruptTask          = taskqueue.ErrCorruptTask
)

const (
	StatIterationTime = api.StatIterationTime
	StatTaskTime      = api.StatTaskTime
	StatTaskSize      = api.StatTaskSize
)

// Queue constructors
// These wrap the internal/taskqueue package so external callers
// never need to import internal packages.

// NewInMemoryQueue returns a channel-backed queue holding up to capacity tasks.
func NewInMemoryQueue(capacity int) Queue {
	return taskqueue.NewInMemoryQueue(capacity)
}

// NewSQLiteQueue returns a durable queue stored in db. The caller imports
// the driver, e.g. _ "modernc.org/sqlite".
func NewSQLiteQueue(db *sql.DB) (Queue, error) {
	q, err := taskqueue.NewSQLiteQueue(db)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// NewRedisQueue returns a queue backed by a Redis list under prefix.
func NewRedisQueue(client *redis.Client, prefix string, logger *zap.Logger) Queue {
	return taskqueue.NewRedisQueue(client, prefix, logger)
}
