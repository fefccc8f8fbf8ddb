package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedOperation is returned (possibly wrapped) by blocks whose
	// operation is not supported in the current execution mode.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrInvalidTask reports a malformed task.
	ErrInvalidTask = errors.New("invalid task")

	// ErrInvalidIncrement reports a range task with a non-positive increment.
	ErrInvalidIncrement = errors.New("range increment must be positive")

	// ErrRangeTooLarge reports a range with more than math.MaxInt64
	// iterations. It matches ErrInvalidTask.
	ErrRangeTooLarge = fmt.Errorf("%w: range exceeds math.MaxInt64 iterations", ErrInvalidTask)
)

// BlockError wraps a failure raised by a child block while a worker was
// executing a task.
type BlockError struct {
	WorkerID  int64
	Block     string
	Index     int
	Iteration Binding
	Err       error
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("worker %d: block %d (%s) failed at %s=%d: %v",
		e.WorkerID, e.Index, e.Block, e.Iteration.Name, e.Iteration.Value, e.Err)
}

func (e *BlockError) Unwrap() error { return e.Err }

// IsUnsupported reports whether err stems from an unsupported operation.
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupportedOperation)
}

// IsExecutionFault reports whether err is a block failure other than an
// unsupported operation.
func IsExecutionFault(err error) bool {
	var be *BlockError
	return errors.As(err, &be) && !IsUnsupported(err)
}
