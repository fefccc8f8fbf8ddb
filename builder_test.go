package parwork

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBodyBuilder_BuildsOrderedBody(t *testing.T) {
	type handle struct{}
	h := &handle{}

	body := NewBody().
		Block("first", func(ctx context.Context, ec ExecutionContext, env Env) (Env, error) { return env, nil }).
		Use(SetBlock("flag", true)).
		Var("acc", int64(0)).
		Context(h).
		Build()

	require.Len(t, body.Blocks, 2)
	assert.Equal(t, "first", body.Blocks[0].Name())
	assert.Equal(t, "set:flag", body.Blocks[1].Name())
	assert.Equal(t, Env{"acc": int64(0)}, body.Variables)
	assert.Same(t, h, body.Context)
}

func TestBodyBuilder_BuildIsASnapshot(t *testing.T) {
	b := NewBody().Use(SetBlock("x", 1)).Var("a", 1)
	first := b.Build()

	b.Use(SetBlock("y", 2)).Var("a", 2)
	second := b.Build()

	assert.Len(t, first.Blocks, 1)
	assert.Equal(t, 1, first.Variables["a"])
	assert.Len(t, second.Blocks, 2)
	assert.Equal(t, 2, second.Variables["a"])
}

func TestBodyBuilder_PanicsOnInvalidInput(t *testing.T) {
	noop := func(ctx context.Context, ec ExecutionContext, env Env) (Env, error) { return env, nil }

	assert.Panics(t, func() { NewBody().Block("", noop) })
	assert.Panics(t, func() { NewBody().Block("nil", nil) })
	assert.Panics(t, func() { NewBody().Var("", 1) })
	assert.Panics(t, func() { NewBody().Use(nil) })
	assert.Panics(t, func() { FuncBlock("nil", nil) })
}

func TestHelperBlocks(t *testing.T) {
	ctx := context.Background()

	env, err := SetBlock("x", 5).Execute(ctx, nil, Env{})
	require.NoError(t, err)
	assert.Equal(t, 5, env["x"])

	env, err = SleepBlock(time.Millisecond).Execute(ctx, nil, Env{"k": 1})
	require.NoError(t, err)
	assert.Equal(t, Env{"k": 1}, env)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = SleepBlock(time.Hour).Execute(cancelled, nil, Env{})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = UnsupportedBlock("remote-read").Execute(ctx, nil, Env{})
	assert.ErrorIs(t, err, ErrUnsupportedOperation)
	assert.Contains(t, err.Error(), "remote-read")

	boom := errors.New("boom")
	_, err = FuncBlock("fail", func(env Env) error { return boom }).Execute(ctx, nil, Env{})
	assert.ErrorIs(t, err, boom)
}

// The documented accumulation example: a block adding 1 to acc, run over
// the range 1..5, leaves acc == 5.
func TestBodyBuilder_AccumulateExample(t *testing.T) {
	body := NewBody().
		Use(FuncBlock("inc", func(env Env) error {
			acc, _ := env.Int64("acc")
			env["acc"] = acc + 1
			return nil
		})).
		Var("acc", int64(0)).
		Build()

	w := NewWorker(1, body, WorkerConfig{})
	task, err := NewRangeTask("i", 1, 5, 1)
	require.NoError(t, err)
	require.NoError(t, w.ExecuteTask(context.Background(), task))

	assert.Equal(t, int64(5), w.Variables()["acc"])
	assert.Equal(t, int64(5), w.ExecutedIterations())
	assert.Equal(t, int64(1), w.ExecutedTasks())
}
