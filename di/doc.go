// Package di provides a small dependency injection container.
//
// Components are registered as singletons, eager constructors or lazy
// constructors and resolved by key with type-safe generic helpers:
//
//	c := di.NewContainer()
//	_ = c.RegisterSingleton(di.Keys.Settings, reg)
//	_ = c.Register("cache", func(c di.Container) (*Cache, error) {
//	    return NewCache(di.MustResolve[*settings.Registry](c, di.Keys.Settings))
//	})
//
//	cache := di.MustResolve[*Cache](c, "cache")
package di
