// Package plugin is the in-process discovery mechanism for initialize.
//
// Implementations register themselves, usually from an init function, either
// as a ready instance or as a factory that builds a fresh instance on every
// discovery:
//
//	func init() {
//	    plugin.Register(&diskStorage{})
//	    plugin.RegisterFactory("memory", func() any { return newMemoryStorage() })
//	}
//
// A Registry satisfies initialize.Discoverer, so it can be handed directly to
// initialize.New:
//
//	in := initialize.New(plugin.Default)
package plugin
