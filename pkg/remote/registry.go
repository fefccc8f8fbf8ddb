// Package remote configures workers whose body arrives from elsewhere.
//
// A remote process cannot receive executable blocks over the wire, only
// their names. It registers the blocks it knows in a Registry, waits for a
// Descriptor naming the blocks and the initial variables, and then binds a
// deferred worker with Mapper.Configure. Tasks are pulled from a queue by
// Mapper.Run.
package remote

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/petrijr/parwork/pkg/api"
)

var (
	// ErrDuplicateBlock is returned when a block name is registered twice.
	ErrDuplicateBlock = errors.New("remote: block already registered")

	// ErrUnknownBlock is returned when a descriptor names an unregistered block.
	ErrUnknownBlock = errors.New("remote: unknown block")
)

// Registry maps block names to blocks. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	blocks map[string]api.Block
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{blocks: make(map[string]api.Block)}
}

// Register adds b under its own name.
func (r *Registry) Register(b api.Block) error {
	if b == nil {
		return errors.New("remote: nil block")
	}
	name := b.Name()
	if name == "" {
		return errors.New("remote: block name must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.blocks[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateBlock, name)
	}
	r.blocks[name] = b
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(b api.Block) {
	if err := r.Register(b); err != nil {
		panic(err)
	}
}

// Lookup returns the block registered under name.
func (r *Registry) Lookup(name string) (api.Block, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.blocks[name]
	return b, ok
}

// Names returns all registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.blocks))
	for n := range r.blocks {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Resolve looks up every name in order. The first unknown name fails the
// whole resolution.
func (r *Registry) Resolve(names []string) ([]api.Block, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]api.Block, 0, len(names))
	for _, n := range names {
		b, ok := r.blocks[n]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownBlock, n)
		}
		out = append(out, b)
	}
	return out, nil
}
