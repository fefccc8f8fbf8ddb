// Package worker implements the parfor worker: the component that runs the
// body of a parallel loop for every iteration of a task.
//
// A Worker owns a list of child blocks, a variable environment and an
// opaque execution context. ExecuteTask binds the loop variable for each
// iteration, runs the blocks in order and keeps count of completed tasks
// and iterations. When monitoring is enabled in Config, iteration time,
// task time and task size are reported to a StatSink.
//
// Workers are built either eagerly with New or, when the body only becomes
// known later, through NewDeferred and Bind.
//
// A Driver couples a Worker to a taskqueue.Queue and executes one queued
// task per ProcessOne call.
package worker
