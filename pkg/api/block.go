package api

import (
	"context"
	"fmt"
)

// Env is the variable environment threaded through a worker's child blocks.
type Env map[string]any

// Clone returns a shallow copy of e. Cloning a nil Env yields an empty one.
func (e Env) Clone() Env {
	out := make(Env, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Int64 returns the named variable as an int64 if it holds any Go integer.
func (e Env) Int64(name string) (int64, bool) {
	switch v := e[name].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int16:
		return int64(v), true
	case int8:
		return int64(v), true
	}
	return 0, false
}

// ExecutionContext is an opaque runtime handle. Workers pass it unchanged
// to every block invocation and never inspect it.
type ExecutionContext any

// Block is an executable unit invoked once per loop iteration.
//
// Execute receives the current environment and returns the environment the
// next block should see. The map passed in belongs to the block for the
// duration of the call; it may be mutated and returned, or replaced.
type Block interface {
	Name() string
	Execute(ctx context.Context, ec ExecutionContext, env Env) (Env, error)
}

// BlockFunc is the function form of Block.Execute.
type BlockFunc func(ctx context.Context, ec ExecutionContext, env Env) (Env, error)

type funcBlock struct {
	name string
	fn   BlockFunc
}

// NewBlock wraps fn as a named Block.
func NewBlock(name string, fn BlockFunc) Block {
	if fn == nil {
		panic(fmt.Sprintf("parwork: block %q has nil function", name))
	}
	return &funcBlock{name: name, fn: fn}
}

func (b *funcBlock) Name() string { return b.name }

func (b *funcBlock) Execute(ctx context.Context, ec ExecutionContext, env Env) (Env, error) {
	return b.fn(ctx, ec, env)
}

// Body bundles what an eagerly constructed worker needs: its child blocks,
// the initial environment and the execution context. Blocks are shared and
// never modified by workers.
type Body struct {
	Blocks    []Block
	Variables Env
	Context   ExecutionContext
}
