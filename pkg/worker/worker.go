package worker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/petrijr/parwork/pkg/api"
)

// ErrAlreadyBound is returned when a Deferred is bound a second time.
var ErrAlreadyBound = errors.New("worker: deferred worker already bound")

// Config controls monitoring and logging of a Worker.
type Config struct {
	// Monitor enables statistics reporting. When false, or when Sink is nil,
	// the worker never calls a sink and takes no timings.
	Monitor bool

	// Sink receives iteration time, task time and task size.
	Sink api.StatSink

	// Logger receives task lifecycle records. Nil means no logging.
	Logger *zap.Logger
}

func (c Config) monitoring() bool {
	return c.Monitor && c.Sink != nil
}

// Executor is the contract a parfor worker offers to whatever drives it.
type Executor interface {
	ID() int64
	ExecuteTask(ctx context.Context, task api.Task) error
	Variables() api.Env
	ExecutedTasks() int64
	ExecutedIterations() int64
}

// Worker executes tasks by running its child blocks once per iteration.
//
// A Worker is not safe for concurrent use: whoever drives it must own it
// exclusively. Separate workers never share state other than the sink.
type Worker struct {
	id     int64
	blocks []api.Block
	vars   api.Env
	ec     api.ExecutionContext

	cfg    Config
	logger *zap.Logger

	numTasks int64
	numIters int64
}

var _ Executor = (*Worker)(nil)

// New returns a fully initialized Worker. The body's blocks are shared;
// its variables are copied so the caller's map is never mutated.
func New(id int64, body api.Body, cfg Config) *Worker {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	blocks := make([]api.Block, len(body.Blocks))
	copy(blocks, body.Blocks)

	return &Worker{
		id:     id,
		blocks: blocks,
		vars:   body.Variables.Clone(),
		ec:     body.Context,
		cfg:    cfg,
		logger: logger.With(zap.Int64("worker_id", id)),
	}
}

// Deferred holds the configuration of a worker whose identity and body are
// not known yet, e.g. in a remote process waiting for its descriptor.
type Deferred struct {
	cfg   Config
	bound bool
}

// NewDeferred returns a Deferred that will produce a Worker with cfg.
func NewDeferred(cfg Config) *Deferred {
	return &Deferred{cfg: cfg}
}

// Bind injects the worker id and body and returns the resulting Worker,
// which is indistinguishable from one built with New. A Deferred can be
// bound only once.
func (d *Deferred) Bind(id int64, body api.Body) (*Worker, error) {
	if d.bound {
		return nil, ErrAlreadyBound
	}
	d.bound = true
	return New(id, body, d.cfg), nil
}

// ID returns the worker's identity, used as the statistics key.
func (w *Worker) ID() int64 { return w.id }

// Variables returns a copy of the current environment. It may reflect a
// partially executed task.
func (w *Worker) Variables() api.Env { return w.vars.Clone() }

// ExecutedTasks returns the number of fully completed tasks.
func (w *Worker) ExecutedTasks() int64 { return w.numTasks }

// ExecutedIterations returns the number of completed iterations, including
// those of tasks that later failed.
func (w *Worker) ExecutedIterations() int64 { return w.numIters }

// ExecuteTask runs every iteration of task. The first block failure aborts
// the task and is returned as *api.BlockError; iterations finished before
// the failure stay counted but the task does not.
//
// ctx is handed to the blocks. The worker itself does not check it; a task
// runs to completion or failure.
func (w *Worker) ExecuteTask(ctx context.Context, task api.Task) error {
	err := api.Dispatch(task, &taskRunner{w: w, ctx: ctx})
	if err != nil {
		w.logger.Error("task_failed",
			zap.Stringp("kind", kindOf(task)),
			zap.Int64("iterations", w.numIters),
			zap.Error(err),
		)
		return err
	}
	w.logger.Debug("task_completed",
		zap.String("kind", string(task.Kind())),
		zap.Int64("size", task.Size()),
		zap.Int64("tasks", w.numTasks),
	)
	return nil
}

// taskRunner binds one ExecuteTask call to the worker.
type taskRunner struct {
	w   *Worker
	ctx context.Context
}

func (r *taskRunner) VisitSet(t api.SetTask) error {
	w := r.w
	var iterTimer, taskTimer timer
	if w.cfg.monitoring() {
		iterTimer.start()
		taskTimer.start()
	}

	for _, b := range t.Iterations {
		if err := w.runIteration(r.ctx, b); err != nil {
			return err
		}
		w.numIters++

		if w.cfg.monitoring() {
			w.cfg.Sink.PutStat(w.id, api.StatIterationTime, iterTimer.lap())
		}
	}

	w.finishTask(t, &taskTimer)
	return nil
}

func (r *taskRunner) VisitRange(t api.RangeTask) error {
	w := r.w
	if err := t.Validate(); err != nil {
		return err
	}

	var iterTimer, taskTimer timer
	if w.cfg.monitoring() {
		iterTimer.start()
		taskTimer.start()
	}

	// Counting iterations instead of stepping i until i > To keeps the
	// loop finite when To is near math.MaxInt64.
	n := t.Size()
	for k := int64(0); k < n; k++ {
		b := api.Binding{Name: t.Var, Value: t.Value(k)}
		if err := w.runIteration(r.ctx, b); err != nil {
			return err
		}
		w.numIters++

		if w.cfg.monitoring() {
			w.cfg.Sink.PutStat(w.id, api.StatIterationTime, iterTimer.lap())
		}
	}

	w.finishTask(t, &taskTimer)
	return nil
}

// runIteration binds the loop variable and runs the child blocks in order,
// each one seeing the environment returned by the previous one.
func (w *Worker) runIteration(ctx context.Context, b api.Binding) error {
	if w.vars == nil {
		w.vars = make(api.Env)
	}
	w.vars[b.Name] = b.Value

	for i, blk := range w.blocks {
		out, err := blk.Execute(ctx, w.ec, w.vars)
		if err != nil {
			return &api.BlockError{
				WorkerID:  w.id,
				Block:     blk.Name(),
				Index:     i,
				Iteration: b,
				Err:       err,
			}
		}
		if out == nil {
			out = make(api.Env)
		}
		w.vars = out
	}
	return nil
}

func (w *Worker) finishTask(t api.Task, taskTimer *timer) {
	w.numTasks++

	if w.cfg.monitoring() {
		w.cfg.Sink.PutStat(w.id, api.StatTaskSize, float64(t.Size()))
		w.cfg.Sink.PutStat(w.id, api.StatTaskTime, taskTimer.elapsed())
	}
}

func kindOf(t api.Task) *string {
	if t == nil {
		return nil
	}
	k := string(t.Kind())
	return &k
}

// timer measures elapsed milliseconds.
type timer struct {
	t0 time.Time
}

func (t *timer) start() { t.t0 = time.Now() }

func (t *timer) elapsed() float64 {
	return float64(time.Since(t.t0)) / float64(time.Millisecond)
}

// lap returns the elapsed time and restarts the timer.
func (t *timer) lap() float64 {
	now := time.Now()
	ms := float64(now.Sub(t.t0)) / float64(time.Millisecond)
	t.t0 = now
	return ms
}
