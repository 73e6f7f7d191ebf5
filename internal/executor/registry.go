package executor

import (
	"fmt"
	"sort"
)

// Callable is a host function invocable from inside the sandbox. Arguments
// arrive as decoded native values in call order; the return value is encoded
// back through the wire codec before it reaches the script's caller.
//
// Any Go function matching this shape can be registered — the bridge is
// deliberately duck-typed so embedding applications can expose domain logic
// without the sandbox gaining direct host access.
type Callable func(args []any) (any, error)

// Registry maps names to host callables exposed inside the sandbox.
//
// Lifecycle: populated once at startup, then read-only while serving. Because
// no registration happens after serving begins, concurrent reads from
// simultaneous requests need no locking. Register panics if called twice with
// the same name — a wiring bug we want at boot, not in production traffic.
type Registry struct {
	callables map[string]Callable
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{callables: make(map[string]Callable)}
}

// Register adds a host function under the given name.
func (r *Registry) Register(name string, fn Callable) {
	if name == "" {
		panic("executor: callable name must not be empty")
	}
	if fn == nil {
		panic(fmt.Sprintf("executor: callable %q is nil", name))
	}
	if _, exists := r.callables[name]; exists {
		panic(fmt.Sprintf("executor: callable %q registered twice", name))
	}
	r.callables[name] = fn
}

// Get returns the callable registered under name.
func (r *Registry) Get(name string) (Callable, bool) {
	fn, ok := r.callables[name]
	return fn, ok
}

// Names returns all registered names, sorted for stable iteration.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.callables))
	for name := range r.callables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered callables.
func (r *Registry) Len() int {
	return len(r.callables)
}
