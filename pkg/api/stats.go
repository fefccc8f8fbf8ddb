package api

import (
	"go.uber.org/zap"
)

// StatKind identifies a per-worker statistic.
type StatKind string

const (
	// StatIterationTime is the elapsed time of a single iteration, in ms.
	StatIterationTime StatKind = "PARWRK_ITER_T"
	// StatTaskTime is the elapsed time of a whole task, in ms.
	StatTaskTime StatKind = "PARWRK_TASK_T"
	// StatTaskSize is the number of iterations of a completed task.
	StatTaskSize StatKind = "PARWRK_TASKSIZE"
)

// StatSink receives monitoring data from workers.
//
// Many workers report into the same sink concurrently, so implementations
// must be safe for concurrent use. They should also be fast; PutStat is
// called on the iteration path.
type StatSink interface {
	PutStat(workerID int64, kind StatKind, value float64)
}

// NoopSink is a StatSink that discards everything.
type NoopSink struct{}

func (NoopSink) PutStat(workerID int64, kind StatKind, value float64) {}

// CompositeSink fans out stats to multiple sinks.
type CompositeSink struct {
	sinks []StatSink
}

// NewCompositeSink creates a StatSink that forwards to each non-nil sink.
func NewCompositeSink(sinks ...StatSink) StatSink {
	filtered := make([]StatSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			filtered = append(filtered, s)
		}
	}
	if len(filtered) == 0 {
		return NoopSink{}
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &CompositeSink{sinks: filtered}
}

func (c *CompositeSink) PutStat(workerID int64, kind StatKind, value float64) {
	for _, s := range c.sinks {
		s.PutStat(workerID, kind, value)
	}
}

// LoggingSink writes every stat as a debug-level structured log record.
type LoggingSink struct {
	Logger *zap.Logger
}

// NewLoggingSink creates a StatSink that logs through logger. If logger is
// nil, zap's global logger is used.
func NewLoggingSink(logger *zap.Logger) StatSink {
	if logger == nil {
		logger = zap.L()
	}
	return &LoggingSink{Logger: logger}
}

func (s *LoggingSink) PutStat(workerID int64, kind StatKind, value float64) {
	s.Logger.Debug("worker_stat",
		zap.Int64("worker_id", workerID),
		zap.String("kind", string(kind)),
		zap.Float64("value", value),
	)
}
