// Package router dispatches an action discriminator to one handler from a
// closed set registered at startup.
package router

import (
	"context"
	"fmt"
	"sort"

	"travel-assistant/internal/params"
	"travel-assistant/internal/usecase"
)

// Request is what an action receives for one invocation.
type Request struct {
	Name              string
	Params            params.Map
	SessionAttributes map[string]string
}

// SessionAttr returns a session attribute or the empty string.
func (r Request) SessionAttr(key string) string {
	if r.SessionAttributes == nil {
		return ""
	}
	return r.SessionAttributes[key]
}

// Action handles one discriminator value.
type Action[T any] interface {
	Execute(ctx context.Context, req Request) (T, error)
}

// Func adapts a plain function to Action.
type Func[T any] func(ctx context.Context, req Request) (T, error)

// Execute calls f.
func (f Func[T]) Execute(ctx context.Context, req Request) (T, error) {
	return f(ctx, req)
}

// Registry maps discriminators to actions.
type Registry[T any] struct {
	actions map[string]Action[T]
}

// New returns an empty registry.
func New[T any]() *Registry[T] {
	return &Registry[T]{actions: make(map[string]Action[T])}
}

// Register adds an action. Registering a name twice is a programming error.
func (r *Registry[T]) Register(name string, a Action[T]) *Registry[T] {
	if name == "" || a == nil {
		panic("router: name and action are required")
	}
	if _, dup := r.actions[name]; dup {
		panic(fmt.Sprintf("router: action %q registered twice", name))
	}
	r.actions[name] = a
	return r
}

// Names lists registered discriminators in sorted order.
func (r *Registry[T]) Names() []string {
	names := make([]string, 0, len(r.actions))
	for n := range r.actions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Dispatch runs the action registered for req.Name. An unknown name returns an
// UNSUPPORTED_OPERATION error carrying user-facing text.
func (r *Registry[T]) Dispatch(ctx context.Context, req Request) (T, error) {
	a, ok := r.actions[req.Name]
	if !ok {
		var zero T
		return zero, usecase.Unsupported(req.Name)
	}
	return a.Execute(ctx, req)
}
