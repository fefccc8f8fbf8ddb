// Package parwork provides the worker side of a parallel for-loop: given a
// unit of iteration work, a worker replays a fixed sequence of blocks once
// per loop index, threads a variable environment through them and keeps
// completion statistics.
//
// Partitioning a loop's index range into tasks is the caller's business;
// parwork executes whatever tasks it is handed.
//
// # Core Concepts
//
// The programming model is intentionally small:
//
//  1. Task
//  2. Block
//  3. Worker
//  4. LocalRunner
//
// # Task
//
// A Task describes the iterations a worker should run. There are exactly two
// kinds:
//
//   - SetTask lists every loop-variable value explicitly.
//   - RangeTask covers from..to inclusive, stepping by a positive increment.
//
//	task, err := parwork.NewRangeTask("i", 1, 100, 1)
//
// # Block
//
// A Block is one executable unit of the loop body. For every iteration the
// worker binds the loop variable into the environment and then calls each
// block in order; each block sees the environment returned by the previous
// one. BodyBuilder assembles blocks, initial variables and an opaque
// execution context into a Body:
//
//	body := parwork.NewBody().
//	    Block("load", load).
//	    Block("accumulate", accumulate).
//	    Var("acc", int64(0)).
//	    Build()
//
// # Worker
//
// A Worker executes tasks sequentially and counts completed tasks and
// iterations. The first block failure aborts a task; iterations that
// finished before it stay counted, the task does not. With monitoring
// enabled, iteration time, task time and task size go to a StatSink such as
// Monitor.
//
// A Worker must be owned by a single goroutine. Workers whose body arrives
// later, e.g. in a remote process, are built with NewDeferredWorker; see the
// remote package.
//
// # LocalRunner
//
// LocalRunner drives several workers from a shared queue, one goroutine per
// worker. Queues are in-memory, SQLite (durable across restarts, see
// NewSQLiteBundle) or Redis. NewRunnerFromConfig assembles a runner, its
// logger and its queue from a YAML Config.
//
// For complete programs, see the /examples directory.
package parwork
