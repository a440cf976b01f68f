// Package state provides the hierarchical coordinates used to rank key
// bindings against the active application state.
//
// A Path is a bounded, root-to-leaf list of identifiers: the ancestor chain
// of a context or scheme, or the subtags of a platform or locale. A State
// is a small tuple of Paths compared slot by slot. Matching a State against
// another produces a single specificity score where 0 is an exact match and
// larger values are more general. Earlier slots dominate later ones: a one
// step mismatch in slot 0 always outweighs any mismatch in slot 1.
//
// Hierarchy turns an id → parent map into memoised ancestor Paths and
// reports cycles instead of looping forever.
package state
