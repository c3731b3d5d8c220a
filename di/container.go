package di

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/kbukum/initkit/logger"
)

// RegistrationMode determines how a component is resolved.
type RegistrationMode int

const (
	Eager     RegistrationMode = iota // Initialize immediately on registration
	Lazy                              // Initialize on first resolve
	Singleton                         // Pre-created instance
)

func (m RegistrationMode) String() string {
	switch m {
	case Eager:
		return "eager"
	case Lazy:
		return "lazy"
	case Singleton:
		return "singleton"
	default:
		return "unknown"
	}
}

// Container defines the interface for a dependency injection container.
type Container interface {
	Register(key string, constructor any) error
	RegisterEager(key string, constructor any) error
	RegisterSingleton(key string, instance any) error
	Resolve(key string) (any, error)
	Close() error

	// Registrations lists every component, sorted by key.
	Registrations() []RegistrationInfo
}

// RegistrationInfo describes a registered component for introspection.
type RegistrationInfo struct {
	Key         string
	Mode        RegistrationMode
	Initialized bool
}

type container struct {
	mu         sync.RWMutex
	components map[string]*registration
	singletons map[string]any
	log        *logger.Logger
}

type registration struct {
	mu          sync.Mutex
	key         string
	constructor any
	mode        RegistrationMode
	instance    any
	initialized bool
}

// NewContainer creates an empty Container.
func NewContainer() Container {
	return &container{
		components: make(map[string]*registration),
		singletons: make(map[string]any),
		log:        logger.Get("di"),
	}
}

// Register registers a constructor that runs on first Resolve. A failed
// construction is not cached; the next Resolve tries again.
//
// Accepted constructor shapes are func() T, func() (T, error) and the same
// taking a context.Context or a Container.
func (c *container) Register(key string, constructor any) error {
	if err := checkConstructor(constructor); err != nil {
		return fmt.Errorf("register %s: %w", key, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.components[key] = &registration{key: key, constructor: constructor, mode: Lazy}
	return nil
}

// RegisterEager registers a component and constructs it immediately.
func (c *container) RegisterEager(key string, constructor any) error {
	if err := checkConstructor(constructor); err != nil {
		return fmt.Errorf("register %s: %w", key, err)
	}
	instance, err := c.callConstructor(constructor)
	if err != nil {
		return fmt.Errorf("failed to initialize eager component '%s': %w", key, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.components[key] = &registration{
		key:         key,
		constructor: constructor,
		mode:        Eager,
		instance:    instance,
		initialized: true,
	}
	return nil
}

// RegisterSingleton registers a pre-created instance. Singletons shadow
// components registered under the same key.
func (c *container) RegisterSingleton(key string, instance any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.singletons[key] = instance
	return nil
}

// Resolve returns the component registered under key.
func (c *container) Resolve(key string) (any, error) {
	c.mu.RLock()
	if singleton, ok := c.singletons[key]; ok {
		c.mu.RUnlock()
		return singleton, nil
	}
	reg, ok := c.components[key]
	c.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("component not registered: %s", key)
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if reg.initialized {
		return reg.instance, nil
	}

	instance, err := c.callConstructor(reg.constructor)
	if err != nil {
		c.log.Debug("lazy component initialization failed", logger.ErrorFields(reg.key, err))
		return nil, fmt.Errorf("failed to initialize lazy component '%s': %w", reg.key, err)
	}
	reg.instance = instance
	reg.initialized = true
	c.log.Debug("lazy component initialized", logger.Fields(logger.FieldComponent, reg.key))
	return instance, nil
}

// Registrations returns info about all registered components, sorted by key.
func (c *container) Registrations() []RegistrationInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]RegistrationInfo, 0, len(c.components)+len(c.singletons))
	for key, reg := range c.components {
		if _, shadowed := c.singletons[key]; shadowed {
			continue
		}
		reg.mu.Lock()
		result = append(result, RegistrationInfo{Key: key, Mode: reg.mode, Initialized: reg.initialized})
		reg.mu.Unlock()
	}
	for key := range c.singletons {
		result = append(result, RegistrationInfo{Key: key, Mode: Singleton, Initialized: true})
	}
	slices.SortFunc(result, func(a, b RegistrationInfo) int {
		return strings.Compare(a.Key, b.Key)
	})
	return result
}

// Close closes every initialized component and singleton implementing
// Close() error. All of them are closed; the first error is returned.
func (c *container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var first error
	closeOne := func(key string, v any) {
		closer, ok := v.(interface{ Close() error })
		if !ok {
			return
		}
		if err := closer.Close(); err != nil && first == nil {
			first = fmt.Errorf("close %s: %w", key, err)
		}
	}
	for key, reg := range c.components {
		if reg.initialized {
			closeOne(key, reg.instance)
		}
	}
	for key, singleton := range c.singletons {
		closeOne(key, singleton)
	}
	return first
}

var (
	contextType   = reflect.TypeFor[context.Context]()
	containerType = reflect.TypeFor[Container]()
	errorType     = reflect.TypeFor[error]()
)

func checkConstructor(constructor any) error {
	fn := reflect.TypeOf(constructor)
	if fn == nil || fn.Kind() != reflect.Func {
		return fmt.Errorf("constructor must be a function")
	}
	switch fn.NumIn() {
	case 0:
	case 1:
		if in := fn.In(0); in != contextType && in != containerType {
			return fmt.Errorf("constructor argument must be context.Context or di.Container, got %s", in)
		}
	default:
		return fmt.Errorf("constructor takes at most one argument")
	}
	switch fn.NumOut() {
	case 1:
	case 2:
		if fn.Out(1) != errorType {
			return fmt.Errorf("constructor second result must be error")
		}
	default:
		return fmt.Errorf("constructor must return either (instance) or (instance, error)")
	}
	return nil
}

func (c *container) callConstructor(constructor any) (any, error) {
	fn := reflect.ValueOf(constructor)
	var args []reflect.Value
	if fn.Type().NumIn() == 1 {
		if fn.Type().In(0) == contextType {
			args = []reflect.Value{reflect.ValueOf(context.Background())}
		} else {
			args = []reflect.Value{reflect.ValueOf(Container(c))}
		}
	}
	results := fn.Call(args)
	if len(results) == 2 && !results[1].IsNil() {
		return nil, results[1].Interface().(error)
	}
	return results[0].Interface(), nil
}
