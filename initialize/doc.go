// Package initialize selects, at process startup, which implementation of a
// capability contract to use when several candidates are discoverable.
//
// Three selection modes are provided, both as generic functions over an
// iter.Seq of candidates and through the Initializer facade that asks a
// Discoverer for the candidates:
//
//   - by select order: the candidate with the highest SelectOrder wins, the
//     earliest one on ties;
//   - only one: exactly one candidate must exist;
//   - by select type: one candidate per SelectType key, collected into Types.
//
// Every candidate inspected is logged at info level. Every failure is logged
// once at fatal level with the exact text of the returned error.
//
// # Usage
//
//	in := initialize.New(plugin.Default)
//	storage, err := initialize.LoadOneImplementationBySelectOrder[StorageFactory](ctx, in)
//	handlers, err := initialize.LoadImplementationsBySelectType[Handler](ctx, in)
//	h, err := handlers.ImplementationByType("json")
package initialize
