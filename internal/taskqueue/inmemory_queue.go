package taskqueue

import (
	"context"
)

const defaultInMemoryCapacity = 1024

// InMemoryQueue is a Queue backed by a buffered channel. Tasks are lost when
// the process exits; use SQLiteQueue when they must survive a restart.
type InMemoryQueue struct {
	tasks chan Task
}

// NewInMemoryQueue creates a queue holding up to capacity tasks before
// Enqueue blocks. Non-positive capacities fall back to 1024.
func NewInMemoryQueue(capacity int) *InMemoryQueue {
	if capacity <= 0 {
		capacity = defaultInMemoryCapacity
	}
	return &InMemoryQueue{tasks: make(chan Task, capacity)}
}

var _ Queue = (*InMemoryQueue)(nil)

// Enqueue blocks while the queue is full.
func (q *InMemoryQueue) Enqueue(ctx context.Context, t Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case q.tasks <- t:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dequeue never hands out a task once ctx is done, so a stopped consumer
// leaves queued work in place.
func (q *InMemoryQueue) Dequeue(ctx context.Context) (*Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	select {
	case t := <-q.tasks:
		return &t, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *InMemoryQueue) Len() int {
	return len(q.tasks)
}
