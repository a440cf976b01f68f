// Package machine implements the key binding resolution engine.
//
// A Machine owns the raw bindings, the context and scheme hierarchies and
// the active snapshot (contexts, scheme, platform, locale, mode). Derived
// views are computed lazily and cached:
//
//	Unbuilt        no binding tree
//	BuiltUnsolved  tree built, resolution stale
//	Solved         tree resolved against the active snapshot
//
// Changing bindings or hierarchies returns the machine to Unbuilt.
// Changing the active snapshot returns it to BuiltUnsolved. Changing the
// mode (the partially typed sequence) only drops the mode-scoped views.
// Setters given a value equal to the current one change nothing.
//
// All methods are safe for concurrent use. Returned maps and slices are
// copies.
package machine
