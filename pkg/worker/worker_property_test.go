package worker

import (
	"context"
	"errors"
	"testing"

	"pgregory.net/rapid"

	"github.com/petrijr/parwork/pkg/api"
)

var errBoom = errors.New("boom")

// A set task with N bindings adds exactly N iterations and one task, and
// the blocks observe the bindings in order.
func TestProperty_SetTaskCounters(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		values := rapid.SliceOfN(rapid.Int64(), 0, 50).Draw(t, "values")
		tasks := rapid.IntRange(1, 4).Draw(t, "tasks")

		var seen []int64
		w := New(1, api.Body{Blocks: []api.Block{seenBlock("seen", &seen)}}, Config{})

		for k := 0; k < tasks; k++ {
			if err := w.ExecuteTask(context.Background(), api.NewSetTask("i", values...)); err != nil {
				t.Fatalf("ExecuteTask failed: %v", err)
			}
		}

		if got, want := w.ExecutedIterations(), int64(len(values)*tasks); got != want {
			t.Fatalf("iterations = %d, want %d", got, want)
		}
		if got := w.ExecutedTasks(); got != int64(tasks) {
			t.Fatalf("tasks = %d, want %d", got, tasks)
		}
		for k := 0; k < tasks; k++ {
			for j, v := range values {
				if seen[k*len(values)+j] != v {
					t.Fatalf("task %d iteration %d saw %d, want %d", k, j, seen[k*len(values)+j], v)
				}
			}
		}
	})
}

// A range task visits from, from+incr, ... up to and including to, and the
// number of iterations matches the range size.
func TestProperty_RangeTaskVisitsArithmeticProgression(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		from := rapid.Int64Range(-1000, 1000).Draw(t, "from")
		to := rapid.Int64Range(-1000, 1000).Draw(t, "to")
		incr := rapid.Int64Range(1, 64).Draw(t, "incr")

		var seen []int64
		w := New(1, api.Body{Blocks: []api.Block{seenBlock("seen", &seen)}}, Config{})

		task, err := api.NewRangeTask("i", from, to, incr)
		if err != nil {
			t.Fatalf("NewRangeTask failed: %v", err)
		}
		if err := w.ExecuteTask(context.Background(), task); err != nil {
			t.Fatalf("ExecuteTask failed: %v", err)
		}

		var want []int64
		for i := from; i <= to; i += incr {
			want = append(want, i)
		}
		if len(seen) != len(want) {
			t.Fatalf("saw %d iterations, want %d", len(seen), len(want))
		}
		for k := range want {
			if seen[k] != want[k] {
				t.Fatalf("iteration %d saw %d, want %d", k, seen[k], want[k])
			}
		}
		if w.ExecutedIterations() != task.Size() {
			t.Fatalf("iterations = %d, size = %d", w.ExecutedIterations(), task.Size())
		}
		if w.ExecutedTasks() != 1 {
			t.Fatalf("tasks = %d, want 1", w.ExecutedTasks())
		}
	})
}

// A failure at iteration f of n leaves exactly f-1 completed iterations and
// no completed task.
func TestProperty_FailureKeepsPartialIterations(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 40).Draw(t, "n")
		f := rapid.IntRange(1, n).Draw(t, "failAt")

		values := make([]int64, n)
		for k := range values {
			values[k] = int64(k + 1)
		}

		w := New(1, api.Body{Blocks: []api.Block{accBlock(), failAt(int64(f), errBoom)}}, Config{})
		err := w.ExecuteTask(context.Background(), api.NewSetTask("i", values...))
		if err == nil {
			t.Fatalf("expected failure at iteration %d", f)
		}

		if got := w.ExecutedIterations(); got != int64(f-1) {
			t.Fatalf("iterations = %d, want %d", got, f-1)
		}
		if w.ExecutedTasks() != 0 {
			t.Fatalf("tasks = %d, want 0", w.ExecutedTasks())
		}
		// acc ran in the failing iteration too, before the failing block.
		if acc, _ := w.Variables().Int64("acc"); acc != int64(f) {
			t.Fatalf("acc = %d, want %d", acc, f)
		}
	})
}
