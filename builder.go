package parwork

import (
	"fmt"

	"github.com/petrijr/parwork/pkg/api"
)

// BodyBuilder provides a fluent API for assembling a worker body:
//
//	body := parwork.NewBody().
//	    Block("load", load).
//	    Block("accumulate", accumulate).
//	    Var("acc", int64(0)).
//	    Build()
//
//	w := parwork.NewWorker(1, body, parwork.WorkerConfig{})
type BodyBuilder struct {
	blocks []api.Block
	vars   api.Env
	ec     api.ExecutionContext
}

// NewBody creates an empty body builder.
func NewBody() *BodyBuilder {
	return &BodyBuilder{
		blocks: make([]api.Block, 0),
		vars:   make(api.Env),
	}
}

// Block appends a function block. Blocks run in the order they are added.
func (b *BodyBuilder) Block(name string, fn BlockFunc) *BodyBuilder {
	if name == "" {
		panic("parwork: block name must not be empty")
	}
	if fn == nil {
		panic(fmt.Sprintf("parwork: block %q has nil function", name))
	}
	b.blocks = append(b.blocks, api.NewBlock(name, fn))
	return b
}

// Use appends ready-made blocks, e.g. the helpers from this package.
func (b *BodyBuilder) Use(blocks ...Block) *BodyBuilder {
	for _, blk := range blocks {
		if blk == nil {
			panic("parwork: nil block")
		}
		b.blocks = append(b.blocks, blk)
	}
	return b
}

// Var sets an initial environment variable.
func (b *BodyBuilder) Var(name string, value any) *BodyBuilder {
	if name == "" {
		panic("parwork: variable name must not be empty")
	}
	b.vars[name] = value
	return b
}

// Context sets the execution context handed to every block.
func (b *BodyBuilder) Context(ec ExecutionContext) *BodyBuilder {
	b.ec = ec
	return b
}

// Build returns the body. The builder can keep being used afterwards;
// later changes do not affect bodies already built.
func (b *BodyBuilder) Build() Body {
	blocks := make([]api.Block, len(b.blocks))
	copy(blocks, b.blocks)
	return Body{
		Blocks:    blocks,
		Variables: b.vars.Clone(),
		Context:   b.ec,
	}
}
