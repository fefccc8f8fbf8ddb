package parwork

import (
	"context"
	"fmt"
	"time"

	"github.com/petrijr/parwork/pkg/api"
)

// SetBlock returns a block that assigns value to the named variable.
func SetBlock(name string, value any) Block {
	return api.NewBlock("set:"+name, func(ctx context.Context, ec api.ExecutionContext, env api.Env) (api.Env, error) {
		env[name] = value
		return env, nil
	})
}

// SleepBlock returns a block that sleeps for d and passes the environment
// through. It returns ctx.Err() if the context ends first.
func SleepBlock(d time.Duration) Block {
	return api.NewBlock("sleep", func(ctx context.Context, ec api.ExecutionContext, env api.Env) (api.Env, error) {
		timer := time.NewTimer(d)
		defer timer.Stop()

		select {
		case <-timer.C:
			return env, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
}

// UnsupportedBlock returns a block that always fails with
// ErrUnsupportedOperation, e.g. for operations a remote worker cannot run.
func UnsupportedBlock(op string) Block {
	return api.NewBlock("unsupported:"+op, func(ctx context.Context, ec api.ExecutionContext, env api.Env) (api.Env, error) {
		return nil, fmt.Errorf("%w: %s", api.ErrUnsupportedOperation, op)
	})
}

// FuncBlock adapts a function that only reads and writes the environment.
func FuncBlock(name string, fn func(env Env) error) Block {
	if fn == nil {
		panic(fmt.Sprintf("parwork: block %q has nil function", name))
	}
	return api.NewBlock(name, func(ctx context.Context, ec api.ExecutionContext, env api.Env) (api.Env, error) {
		if err := fn(env); err != nil {
			return nil, err
		}
		return env, nil
	})
}
