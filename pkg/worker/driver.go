package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/petrijr/parwork/internal/taskqueue"
	"github.com/petrijr/parwork/pkg/api"
)

// Driver pulls task records from a Queue and executes them on a Worker.
type Driver struct {
	worker *Worker
	queue  taskqueue.Queue
}

// NewDriver couples w to q. The driver takes exclusive ownership of w.
func NewDriver(w *Worker, q taskqueue.Queue) *Driver {
	return &Driver{
		worker: w,
		queue:  q,
	}
}

// Worker returns the driven worker.
func (d *Driver) Worker() *Worker { return d.worker }

// Enqueue wraps t in a queue task and adds it to the driver's queue.
// It does NOT execute the task; that is done by ProcessOne.
func (d *Driver) Enqueue(ctx context.Context, t api.Task) error {
	return d.queue.Enqueue(ctx, taskqueue.NewTask(t))
}

// ProcessOne pulls a single task from the queue and executes it.
// Returns (processed, error):
//   - processed == false: nothing was dequeued; err is the dequeue error
//     (usually context cancellation).
//   - processed == true: a record was taken off the queue; err reports a
//     corrupt or malformed record or the task's failure.
func (d *Driver) ProcessOne(ctx context.Context) (bool, error) {
	qt, err := d.queue.Dequeue(ctx)
	if err != nil {
		if errors.Is(err, taskqueue.ErrCorruptTask) {
			return true, fmt.Errorf("decode queued task: %w", err)
		}
		return false, err
	}
	if qt == nil {
		return false, nil
	}

	task, err := api.FromRecord(qt.Record)
	if err != nil {
		return true, fmt.Errorf("decode queued task %s: %w", qt.ID, err)
	}
	return true, d.worker.ExecuteTask(ctx, task)
}
