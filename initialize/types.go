package initialize

import (
	"slices"

	"github.com/kbukum/initkit/errors"
)

// Types maps type keys to implementations. It is built by SelectByType and
// is read-only afterwards.
type Types[T Typed] struct {
	byType map[string]T
	order  []string
}

func newTypes[T Typed]() *Types[T] {
	return &Types[T]{byType: make(map[string]T)}
}

func (t *Types[T]) add(key string, impl T) {
	t.byType[key] = impl
	t.order = append(t.order, key)
}

// ImplementationByType returns the implementation registered for key.
func (t *Types[T]) ImplementationByType(key string) (T, error) {
	impl, ok := t.byType[key]
	if !ok {
		var zero T
		return zero, errors.TypeNotFound(key)
	}
	return impl, nil
}

// Has reports whether key is registered.
func (t *Types[T]) Has(key string) bool {
	_, ok := t.byType[key]
	return ok
}

// Keys returns the registered type keys, sorted.
func (t *Types[T]) Keys() []string {
	keys := slices.Clone(t.order)
	slices.Sort(keys)
	return keys
}

// Len returns the number of registered types.
func (t *Types[T]) Len() int {
	return len(t.byType)
}

// retype narrows a Types built over type-erased candidates. Every value in
// src is known to be a T because the facade only feeds it T values.
func retype[T Typed](src *Types[Typed]) *Types[T] {
	dst := newTypes[T]()
	for _, key := range src.order {
		dst.add(key, src.byType[key].(T))
	}
	return dst
}
