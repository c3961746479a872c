package matching

import "fmt"

// Entry is one registered route.
type Entry[T any] struct {
	Matcher Matcher
	Value   T
}

// Registry resolves paths against routes in registration order. The first
// matching route wins, so more specific patterns must be registered before
// broader ones.
//
// A Registry is not safe for concurrent Register calls. Once populated it
// may be shared and resolved from any number of goroutines.
type Registry[T any] struct {
	entries []Entry[T]
}

// NewRegistry creates an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{}
}

// Register compiles pattern and appends it with its value.
func (r *Registry[T]) Register(pattern string, value T) error {
	m, err := CompileRoute(pattern)
	if err != nil {
		return err
	}
	for _, e := range r.entries {
		if e.Matcher.pattern == pattern {
			return fmt.Errorf("%w %q: already registered", ErrInvalidPattern, pattern)
		}
	}
	r.entries = append(r.entries, Entry[T]{Matcher: m, Value: value})
	return nil
}

// Resolve returns the value of the first route matching path.
func (r *Registry[T]) Resolve(path string) (T, Params, bool) {
	for _, e := range r.entries {
		if params, ok := e.Matcher.Match(path); ok {
			return e.Value, params, true
		}
	}
	var zero T
	return zero, nil, false
}

// Entries returns the registered routes in order. The slice must not be modified.
func (r *Registry[T]) Entries() []Entry[T] {
	return r.entries
}

// Len returns the number of registered routes.
func (r *Registry[T]) Len() int {
	return len(r.entries)
}
