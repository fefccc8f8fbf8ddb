package parwork

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/petrijr/parwork/internal/taskqueue"
	"github.com/petrijr/parwork/pkg/worker"
)

var (
	// ErrRunnerStarted is returned by Start on a running runner.
	ErrRunnerStarted = errors.New("parwork: LocalRunner already started")

	// ErrRunnerNotStarted is returned by Wait when no workers are running.
	ErrRunnerNotStarted = errors.New("parwork: LocalRunner not started")
)

const waitPollInterval = 5 * time.Millisecond

// LocalRunner bundles a task queue and a fixed set of workers, each driven
// by its own goroutine, to provide a simple in-process parfor executor.
//
// Typical usage:
//
//	body := parwork.NewBody().Block("work", work).Build()
//	runner := parwork.NewLocalRunner(parwork.NewInMemoryQueue(1024),
//	    []parwork.Body{body, body}, parwork.WorkerConfig{})
//
//	_ = runner.Start(ctx)
//	task, _ := parwork.NewRangeTask("i", 1, 100, 1)
//	_ = runner.Submit(ctx, task)
//	_ = runner.Wait(ctx)
//	runner.Stop()
//
// Every worker is owned by exactly one goroutine while the runner is
// running. Worker counters and variables may be read after Stop.
type LocalRunner struct {
	// Queue is the task queue consumed by the workers.
	Queue Queue

	workers []*worker.Worker
	logger  *zap.Logger

	// submitMu orders Submit against Start so the backlog count taken at
	// Start never misses an in-flight Submit.
	submitMu sync.RWMutex
	pending  atomic.Int64
	alive    atomic.Int64

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool

	firstErr atomic.Pointer[error]
}

// NewLocalRunner creates one worker per body, with ids 1..len(bodies),
// all sharing cfg.
func NewLocalRunner(q Queue, bodies []Body, cfg WorkerConfig) *LocalRunner {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	workers := make([]*worker.Worker, len(bodies))
	for i, body := range bodies {
		workers[i] = worker.New(int64(i+1), body, cfg)
	}

	return &LocalRunner{
		Queue:   q,
		workers: workers,
		logger:  logger,
	}
}

// Workers returns the runner's workers. Read their state only after Stop.
func (r *LocalRunner) Workers() []*Worker {
	out := make([]*Worker, len(r.workers))
	copy(out, r.workers)
	return out
}

// Start launches one goroutine per worker. Tasks already queued when Start
// is called, e.g. left in a durable queue by an earlier process, count as
// pending for Wait.
func (r *LocalRunner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return ErrRunnerStarted
	}

	r.submitMu.Lock()
	r.pending.Store(int64(r.Queue.Len()))
	r.submitMu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.running = true

	r.alive.Store(int64(len(r.workers)))
	r.wg.Add(len(r.workers))
	for _, w := range r.workers {
		go r.loop(ctx, worker.NewDriver(w, r.Queue))
	}

	r.logger.Info("runner_started", zap.Int("workers", len(r.workers)))
	return nil
}

func (r *LocalRunner) loop(ctx context.Context, d *worker.Driver) {
	defer r.wg.Done()
	defer r.alive.Add(-1)

	for {
		processed, err := d.ProcessOne(ctx)
		if processed {
			if err != nil {
				// A failed task stops this worker; the rest keep consuming.
				r.recordErr(err)
				r.pending.Add(-1)
				r.logger.Error("worker_stopped", zap.Int64("worker_id", d.Worker().ID()), zap.Error(err))
				return
			}
			r.pending.Add(-1)
			continue
		}
		if err == nil {
			continue
		}

		// Cancellation is the shutdown signal.
		if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return
		}
		// Keep going so a transient queue error doesn't kill the worker.
		r.logger.Warn("dequeue_failed", zap.Int64("worker_id", d.Worker().ID()), zap.Error(err))
		select {
		case <-ctx.Done():
			return
		case <-time.After(waitPollInterval):
		}
	}
}

func (r *LocalRunner) recordErr(err error) {
	r.firstErr.CompareAndSwap(nil, &err)
}

// Submit enqueues task for execution by the next free worker.
func (r *LocalRunner) Submit(ctx context.Context, task Task) error {
	if task == nil {
		return ErrInvalidTask
	}

	r.submitMu.RLock()
	defer r.submitMu.RUnlock()

	r.pending.Add(1)
	if err := r.Queue.Enqueue(ctx, taskqueue.NewTask(task)); err != nil {
		r.pending.Add(-1)
		return err
	}
	return nil
}

// Wait blocks until every pending task has been taken off the queue and
// executed, every worker has stopped, or ctx ends. It returns the first
// task failure, if any.
func (r *LocalRunner) Wait(ctx context.Context) error {
	r.mu.Lock()
	running := r.running
	r.mu.Unlock()
	if !running {
		return ErrRunnerNotStarted
	}

	ticker := time.NewTicker(waitPollInterval)
	defer ticker.Stop()

	for {
		if r.pending.Load() <= 0 || r.alive.Load() == 0 {
			return r.Err()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Stop cancels all worker goroutines and waits for them to exit. Blocks of
// a task in flight see the cancellation through their context.
func (r *LocalRunner) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	cancel := r.cancel
	r.running = false
	r.cancel = nil
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	r.wg.Wait()
	r.logger.Info("runner_stopped")
}

// Err returns the first task failure seen by any worker, or nil.
func (r *LocalRunner) Err() error {
	if p := r.firstErr.Load(); p != nil {
		return *p
	}
	return nil
}
