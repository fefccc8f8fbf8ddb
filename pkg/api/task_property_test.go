package api

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// The number of values a range yields matches floor((to-from)/incr)+1 for
// non-empty ranges and 0 otherwise.
func TestRangeTask_SizeMatchesEnumeration(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("size equals enumerated count", prop.ForAll(
		func(from, to, incr int64) bool {
			task := RangeTask{Var: "i", From: from, To: to, Incr: incr}

			var n int64
			for i := from; i <= to; i += incr {
				n++
			}

			want := int64(0)
			if from <= to {
				want = (to-from)/incr + 1
			}
			return task.Size() == n && n == want
		},
		gen.Int64Range(-500, 500),
		gen.Int64Range(-500, 500),
		gen.Int64Range(1, 50),
	))

	properties.Property("last value never exceeds to", prop.ForAll(
		func(from, span, incr int64) bool {
			task := RangeTask{Var: "i", From: from, To: from + span, Incr: incr}
			last := task.Value(task.Size() - 1)
			return last <= task.To && last+incr > task.To
		},
		gen.Int64Range(-1000, 1000),
		gen.Int64Range(0, 1000),
		gen.Int64Range(1, 100),
	))

	properties.TestingRun(t)
}
