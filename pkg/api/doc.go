// Package api contains the core types shared by parwork workers, queues and
// remote adapters. It describes what a unit of loop work looks like, how
// child blocks are invoked, and where monitoring data goes.
//
// Most users interact with the higher-level parwork package, which re-exports
// selected types and helpers from this package. The api package is intended
// for custom integrations: new queue backends, remote execution adapters or
// statistic sinks.
//
// # Tasks
//
// A Task is one unit of parallel-loop work. There are exactly two kinds:
//
//   - SetTask lists the loop-variable value of every iteration explicitly.
//   - RangeTask describes iterations compactly as (from, to, incr).
//
// Task is a sealed interface. Branching on the kind goes through Dispatch
// and a TaskVisitor, so introducing a new kind breaks every visitor at
// compile time instead of falling into a default case at run time.
//
// TaskRecord is the wire form used by queues. FromRecord validates records
// coming from outside the process.
//
// # Blocks and Environments
//
// A Block is an opaque executable unit. Workers call Execute once per
// iteration for every block, in order, passing the current Env and keeping
// the Env the block returns. Block i+1 therefore always observes every
// change made by block i.
//
// The ExecutionContext is an opaque handle passed unchanged to every block.
//
// # Statistics
//
// When monitoring is enabled, workers report per-iteration time, per-task
// time and task size to a StatSink. Sinks are shared between workers and
// must accept concurrent writes. NoopSink, CompositeSink and LoggingSink are
// provided here; the monitor package offers a histogram-backed sink.
//
// # Errors
//
// Block failures reach callers wrapped in *BlockError. IsUnsupported
// distinguishes unsupported operations from ordinary execution faults.
package api
