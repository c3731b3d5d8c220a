package initialize

import (
	"iter"
	"reflect"
	"slices"
)

// Storage is a sample capability resolved by select order or as the only one.
type Storage interface {
	Orderable
	Name() string
}

// Handler is a sample capability resolved by select type.
type Handler interface {
	Typed
	Handle() string
}

type orderedStorage struct {
	name  string
	order int
}

func (s *orderedStorage) SelectOrder() int { return s.order }
func (s *orderedStorage) Name() string     { return s.name }

type typedHandler struct {
	name string
	typ  string
}

func (h *typedHandler) SelectType() string { return h.typ }
func (h *typedHandler) Handle() string     { return h.name }

func ordered(orders ...int) []*orderedStorage {
	out := make([]*orderedStorage, len(orders))
	for i, o := range orders {
		out[i] = &orderedStorage{name: "s" + string(rune('0'+i)), order: o}
	}
	return out
}

func typed(keys ...string) []*typedHandler {
	out := make([]*typedHandler, len(keys))
	for i, k := range keys {
		out[i] = &typedHandler{name: "h" + string(rune('0'+i)), typ: k}
	}
	return out
}

// staticDiscoverer yields the same values for every contract and counts how
// often it was asked.
type staticDiscoverer struct {
	values    []any
	contracts []reflect.Type
}

func discovererOf[T any](values ...T) *staticDiscoverer {
	d := &staticDiscoverer{}
	for _, v := range values {
		d.values = append(d.values, v)
	}
	return d
}

func (d *staticDiscoverer) Discover(contract reflect.Type) iter.Seq[any] {
	d.contracts = append(d.contracts, contract)
	return slices.Values(d.values)
}
