package api

import (
	"fmt"
	"math"
)

// TaskKind identifies how a task describes its iterations.
type TaskKind string

const (
	// TaskKindSet is an explicit, ordered list of loop-variable values.
	TaskKindSet TaskKind = "ITERATION_SET"
	// TaskKindRange is a compact (from, to, incr) descriptor.
	TaskKindRange TaskKind = "ITERATION_RANGE"
)

// Binding is a named integer value, e.g. the loop variable for one iteration.
type Binding struct {
	Name  string
	Value int64
}

// Task is one unit of parallel-loop work.
//
// The set of implementations is closed: only SetTask and RangeTask satisfy
// it. Code that needs to branch on the kind does so through Dispatch and a
// TaskVisitor, so a new kind shows up as a compile error in every visitor.
type Task interface {
	// Kind returns the task's tag.
	Kind() TaskKind
	// Size returns the number of iterations the task describes.
	Size() int64
	// Bindings returns the task in its positional binding form.
	Bindings() []Binding

	accept(v TaskVisitor) error
}

// TaskVisitor handles each task kind.
type TaskVisitor interface {
	VisitSet(t SetTask) error
	VisitRange(t RangeTask) error
}

// Dispatch routes t to the visitor method matching its kind.
func Dispatch(t Task, v TaskVisitor) error {
	if t == nil {
		return fmt.Errorf("%w: nil task", ErrInvalidTask)
	}
	return t.accept(v)
}

// SetTask lists one binding per iteration, in execution order. The binding
// name is usually the same for every entry but is not required to be.
type SetTask struct {
	Iterations []Binding
}

var _ Task = SetTask{}

// NewSetTask builds a SetTask binding name to each of values in turn.
func NewSetTask(name string, values ...int64) SetTask {
	its := make([]Binding, len(values))
	for i, v := range values {
		its[i] = Binding{Name: name, Value: v}
	}
	return SetTask{Iterations: its}
}

func (t SetTask) Kind() TaskKind { return TaskKindSet }

func (t SetTask) Size() int64 { return int64(len(t.Iterations)) }

func (t SetTask) Bindings() []Binding {
	out := make([]Binding, len(t.Iterations))
	copy(out, t.Iterations)
	return out
}

func (t SetTask) accept(v TaskVisitor) error { return v.VisitSet(t) }

// RangeTask iterates Var from From to To inclusive, stepping by Incr.
type RangeTask struct {
	Var  string
	From int64
	To   int64
	Incr int64
}

var _ Task = RangeTask{}

// NewRangeTask validates and builds a RangeTask. A non-positive increment
// is rejected, as is a range with more than math.MaxInt64 iterations;
// From > To is allowed and yields an empty range.
func NewRangeTask(name string, from, to, incr int64) (RangeTask, error) {
	t := RangeTask{Var: name, From: from, To: to, Incr: incr}
	if err := t.Validate(); err != nil {
		return RangeTask{}, err
	}
	return t, nil
}

// Validate reports ErrInvalidIncrement for Incr <= 0 and ErrRangeTooLarge
// when the iteration count does not fit in an int64.
func (t RangeTask) Validate() error {
	if t.Incr <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidIncrement, t.Incr)
	}
	if _, ok := t.count(); !ok {
		return fmt.Errorf("%w: %d..%d step %d", ErrRangeTooLarge, t.From, t.To, t.Incr)
	}
	return nil
}

func (t RangeTask) Kind() TaskKind { return TaskKindRange }

// Size is floor((To-From)/Incr)+1 for a non-empty range, 0 otherwise.
// A RangeTask built as a literal can describe more iterations than an int64
// holds; Size then caps at math.MaxInt64 and Validate reports the range.
func (t RangeTask) Size() int64 {
	n, ok := t.count()
	if !ok {
		return math.MaxInt64
	}
	return n
}

// count takes the difference in unsigned arithmetic so extreme bounds do
// not overflow. ok is false when the count exceeds math.MaxInt64.
func (t RangeTask) count() (n int64, ok bool) {
	if t.Incr <= 0 || t.From > t.To {
		return 0, true
	}
	span := uint64(t.To) - uint64(t.From)
	u := span/uint64(t.Incr) + 1
	if u == 0 || u > math.MaxInt64 {
		return 0, false
	}
	return int64(u), true
}

// Value returns the loop-variable value of the k-th iteration (0-based).
func (t RangeTask) Value(k int64) int64 {
	return t.From + k*t.Incr
}

// Bindings renders the positional form: from, to, incr. Only the first
// name is meaningful.
func (t RangeTask) Bindings() []Binding {
	return []Binding{
		{Name: t.Var, Value: t.From},
		{Name: t.Var, Value: t.To},
		{Name: t.Var, Value: t.Incr},
	}
}

func (t RangeTask) accept(v TaskVisitor) error { return v.VisitRange(t) }

// TaskRecord is the wire form of a Task, used by queues and remote workers.
type TaskRecord struct {
	ID       string
	Kind     TaskKind
	Bindings []Binding
}

// ToRecord converts t into its wire form.
func ToRecord(t Task) TaskRecord {
	return TaskRecord{
		Kind:     t.Kind(),
		Bindings: t.Bindings(),
	}
}

// FromRecord validates r and converts it back into a Task.
func FromRecord(r TaskRecord) (Task, error) {
	switch r.Kind {
	case TaskKindSet:
		if len(r.Bindings) == 0 {
			return nil, fmt.Errorf("%w: set task %q has no iterations", ErrInvalidTask, r.ID)
		}
		its := make([]Binding, len(r.Bindings))
		copy(its, r.Bindings)
		return SetTask{Iterations: its}, nil

	case TaskKindRange:
		if len(r.Bindings) != 3 {
			return nil, fmt.Errorf("%w: range task %q needs 3 bindings, got %d", ErrInvalidTask, r.ID, len(r.Bindings))
		}
		return NewRangeTask(r.Bindings[0].Name, r.Bindings[0].Value, r.Bindings[1].Value, r.Bindings[2].Value)
	}
	return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidTask, r.Kind)
}
