package worker

import (
	"context"
	"fmt"
)

// Handler is the domain-specific work a job name performs. Handlers are
// registered externally, as explicit configuration at worker startup;
// the worker loop only dispatches by name, never through global
// mutation.
type Handler func(ctx context.Context, payload map[string]any) error

// Registry is a process-local mapping from job name to Handler.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry builds an empty Registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register binds name to h. Registering the same name twice is a
// programmer error and panics at startup rather than silently
// overwriting a handler mid-run.
func (r *Registry) Register(name string, h Handler) {
	if _, exists := r.handlers[name]; exists {
		panic(fmt.Sprintf("worker: handler %q already registered", name))
	}
	r.handlers[name] = h
}

// Lookup returns the handler bound to name, if any.
func (r *Registry) Lookup(name string) (Handler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}
