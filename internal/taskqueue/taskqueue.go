package taskqueue

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/petrijr/parwork/pkg/api"
)

// ErrCorruptTask is returned by Dequeue when a record was taken off the
// queue but could not be decoded. The record is gone; callers must treat it
// as consumed.
var ErrCorruptTask = errors.New("taskqueue: corrupt task record")

// Task is a queued unit of loop work together with its queue metadata.
type Task struct {
	ID     string
	Record api.TaskRecord

	EnqueuedAt time.Time
}

// NewTask wraps t for enqueueing under a fresh UUID.
func NewTask(t api.Task) Task {
	id := uuid.NewString()
	rec := api.ToRecord(t)
	rec.ID = id
	return Task{
		ID:         id,
		Record:     rec,
		EnqueuedAt: time.Now(),
	}
}

// Queue is a simple async task queue interface.
type Queue interface {
	// Enqueue adds a task to the queue. It should respect ctx for cancellation.
	Enqueue(ctx context.Context, t Task) error

	// Dequeue removes and returns the next task, blocking until one is available
	// or the context is cancelled.
	Dequeue(ctx context.Context) (*Task, error)

	// Len returns the approximate number of tasks queued.
	Len() int
}
