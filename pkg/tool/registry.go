package tool

import (
	"context"
	"fmt"
	"sync"
)

// Registry is a concurrency-safe collection of tools. Listing preserves
// registration order; re-registering a name replaces the tool in place.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Tool
	order   []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Tool)}
}

// Register adds or replaces a tool. The name keeps its original position in
// the listing order when replaced.
func (r *Registry) Register(t Tool) error {
	if t.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidTool)
	}
	if t.Handler == nil {
		return fmt.Errorf("%w: %q has no handler", ErrInvalidTool, t.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[t.Name]; !exists {
		r.order = append(r.order, t.Name)
	}
	r.entries[t.Name] = t
	return nil
}

// List returns descriptors in registration order.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		t := r.entries[name]
		out = append(out, Descriptor{Name: t.Name, Description: t.Description, Params: t.Params})
	}
	return out
}

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.entries[name]
	if !ok {
		return Tool{}, fmt.Errorf("%w: %q", ErrToolNotFound, name)
	}
	return t, nil
}

// Execute looks up name and runs its handler. An unknown name fails without
// side effects; a handler failure is returned as an *ExecutionError.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (any, error) {
	t, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	result, err := t.Handler(ctx, args)
	if err != nil {
		return nil, &ExecutionError{Tool: name, Err: err}
	}
	return result, nil
}
