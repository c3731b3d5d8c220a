package plugin

import (
	"fmt"
	"iter"
	"reflect"
	"sync"

	"github.com/kbukum/initkit/logger"
)

// Factory builds one plugin instance.
type Factory func() any

type entry struct {
	name    string
	factory Factory
}

// Registry keeps plugin registrations in registration order.
type Registry struct {
	mu      sync.RWMutex
	entries []entry
	log     *logger.Logger
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{log: logger.Get("plugin")}
}

// Register adds a ready instance under the name of its concrete type. The
// same instance is yielded by every discovery.
func (r *Registry) Register(impl any) {
	if impl == nil {
		return
	}
	r.RegisterFactory(fmt.Sprintf("%T", impl), func() any { return impl })
}

// RegisterFactory adds a named factory. The factory runs once per discovery.
func (r *Registry) RegisterFactory(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry{name: name, factory: factory})
	r.log.Debug("plugin registered", logger.Fields("plugin", name))
}

// Discover yields, in registration order, every instance assignable to
// contract. A nil contract yields every instance. Factories returning nil,
// including a typed nil such as (*T)(nil), are skipped.
func (r *Registry) Discover(contract reflect.Type) iter.Seq[any] {
	entries := r.snapshot()
	return func(yield func(any) bool) {
		for _, e := range entries {
			v := e.factory()
			if isNil(v) {
				continue
			}
			if contract != nil && !reflect.TypeOf(v).AssignableTo(contract) {
				continue
			}
			if !yield(v) {
				return
			}
		}
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.name
	}
	return names
}

// Len returns the number of registrations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func (r *Registry) snapshot() []entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]entry(nil), r.entries...)
}

// Load discovers the instances in r that implement T.
func Load[T any](r *Registry) iter.Seq[T] {
	return func(yield func(T) bool) {
		for v := range r.Discover(reflect.TypeFor[T]()) {
			t, ok := v.(T)
			if !ok {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

// Default is the process-wide registry used by Register and RegisterFactory.
var Default = NewRegistry()

// Register adds impl to the Default registry.
func Register(impl any) {
	Default.Register(impl)
}

// RegisterFactory adds a named factory to the Default registry.
func RegisterFactory(name string, factory Factory) {
	Default.RegisterFactory(name, factory)
}
