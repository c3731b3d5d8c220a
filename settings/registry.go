package settings

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/kbukum/initkit/errors"
	"github.com/kbukum/initkit/logger"
	"github.com/kbukum/initkit/observability"
)

// Registry is a replaceable mapping of setting names to values.
type Registry struct {
	mu      sync.RWMutex
	values  map[string]string
	logged  map[string]struct{}
	log     *logger.Logger
	metrics *observability.Metrics
}

// Option configures a Registry.
type Option func(*Registry)

// WithMetrics records every lookup on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(r *Registry) {
		r.metrics = m
	}
}

// New creates an empty Registry. Every lookup fails until Set is called.
func New(log *logger.Logger, opts ...Option) *Registry {
	if log == nil {
		log = logger.Get("settings")
	}
	r := &Registry{
		log:    log,
		logged: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Set replaces the whole mapping with a copy of values. A nil or empty map
// makes every lookup fail. Names already logged stay logged.
func (r *Registry) Set(values map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = maps.Clone(values)
}

// Get returns the value of name.
func (r *Registry) Get(name string) (string, error) {
	r.mu.Lock()
	value, ok := r.values[name]
	first := false
	if ok {
		if _, seen := r.logged[name]; !seen {
			r.logged[name] = struct{}{}
			first = true
		}
	}
	r.mu.Unlock()

	if !ok {
		err := errors.SettingNotFound(name)
		r.log.Fatal(err.Message, logger.Fields("code", string(err.Code)))
		r.record(observability.StatusError)
		return "", err
	}
	if first {
		r.log.Info("Found: " + value + " as: " + name)
	}
	r.record(observability.StatusOK)
	return value, nil
}

// MustGet is like Get but panics when name is missing.
func (r *Registry) MustGet(name string) string {
	v, err := r.Get(name)
	if err != nil {
		panic(err)
	}
	return v
}

// Names returns the names in the current mapping, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.values))
}

// Snapshot returns a copy of the current mapping. It does not count as an
// access, so nothing is logged.
func (r *Registry) Snapshot() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.values)
}

// Reset clears the mapping and forgets which names were logged.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = nil
	r.logged = make(map[string]struct{})
}

// ResetLogged forgets which names were logged, keeping the mapping.
func (r *Registry) ResetLogged() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logged = make(map[string]struct{})
}

func (r *Registry) record(status string) {
	if r.metrics != nil {
		r.metrics.RecordSettingLookup(context.Background(), status)
	}
}
