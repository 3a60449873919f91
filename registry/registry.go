// Package registry provides a small generic registry of named constructors.
//
// It replaces "construct an object from its dotted name" dynamics with
// explicit registration: packages register a constructor under a name, and
// callers build instances from a name plus a loose configuration map. The
// Build helper decodes the map into the constructor's typed config struct,
// applying struct-tag defaults first.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/creasty/defaults"
	"github.com/go-viper/mapstructure/v2"
)

// Constructor builds a T from a loose configuration map.
type Constructor[T any] func(config map[string]any) (T, error)

// Registry maps names to constructors for one kind of object. Safe for
// concurrent use.
type Registry[T any] struct {
	kind  string
	mu    sync.RWMutex
	ctors map[string]Constructor[T]
}

// New returns an empty registry. kind names what the registry holds and only
// appears in error messages.
func New[T any](kind string) *Registry[T] {
	return &Registry[T]{
		kind:  kind,
		ctors: make(map[string]Constructor[T]),
	}
}

// Register adds a constructor under name. Names are case-sensitive and
// duplicate registration is an error.
func (r *Registry[T]) Register(name string, ctor Constructor[T]) error {
	if name == "" {
		return fmt.Errorf("registry: empty %s name", r.kind)
	}
	if ctor == nil {
		return fmt.Errorf("registry: nil constructor for %s %q", r.kind, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.ctors[name]; exists {
		return fmt.Errorf("registry: %s %q already registered", r.kind, name)
	}
	r.ctors[name] = ctor
	return nil
}

// MustRegister is Register, panicking on error. Intended for package init.
func (r *Registry[T]) MustRegister(name string, ctor Constructor[T]) {
	if err := r.Register(name, ctor); err != nil {
		panic(err)
	}
}

// Construct builds the object registered under name. Unknown names return an
// error listing what is registered.
func (r *Registry[T]) Construct(name string, config map[string]any) (T, error) {
	r.mu.RLock()
	ctor, ok := r.ctors[name]
	r.mu.RUnlock()

	if !ok {
		var zero T
		return zero, fmt.Errorf("registry: unknown %s %q (registered: %s)",
			r.kind, name, strings.Join(r.Names(), ", "))
	}
	return ctor(config)
}

// Names returns the registered names in sorted order.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.ctors))
	for name := range r.ctors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build wraps a typed constructor into a Constructor. The configuration map
// is decoded into a fresh C with weak type conversion, after `default:`
// struct tags have been applied, so omitted fields keep their defaults.
func Build[T any, C any](fn func(C) (T, error)) Constructor[T] {
	return func(config map[string]any) (T, error) {
		var zero T
		var cfg C
		if err := defaults.Set(&cfg); err != nil {
			return zero, fmt.Errorf("registry: failed to apply defaults: %w", err)
		}
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			ErrorUnused:      true,
		})
		if err != nil {
			return zero, fmt.Errorf("registry: failed to build decoder: %w", err)
		}
		if err := decoder.Decode(config); err != nil {
			return zero, fmt.Errorf("registry: invalid config: %w", err)
		}
		return fn(cfg)
	}
}
