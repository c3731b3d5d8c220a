package di

import "fmt"

// MustResolve is Resolve for wiring code that cannot continue without the
// component. It panics when key is missing or holds another type.
//
//	reg := di.MustResolve[*settings.Registry](app.Container, di.Keys.Settings)
func MustResolve[T any](c Container, key string) T {
	v, err := Resolve[T](c, key)
	if err != nil {
		panic(err.Error())
	}
	return v
}

// Resolve returns the component under key as a T.
//
//	in, err := di.Resolve[*initialize.Initializer](c, di.Keys.Initializer)
//	if err != nil {
//	    return fmt.Errorf("initializer: %w", err)
//	}
func Resolve[T any](c Container, key string) (T, error) {
	var zero T
	instance, err := c.Resolve(key)
	if err != nil {
		return zero, fmt.Errorf("di: failed to resolve %s: %w", key, err)
	}
	result, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("di: component %s is %T, expected %T", key, instance, zero)
	}
	return result, nil
}
