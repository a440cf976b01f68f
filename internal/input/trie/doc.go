// Package trie stores key bindings in a tree keyed by strokes and resolves
// every node to at most one command for the active state.
//
// Each node holds the bindings whose sequence ends there, indexed by
// context, scheme, rank, platform and locale. Solve walks the tree and
// caches the winning Match on every node; the flatten functions turn a
// solved tree into sequence and command maps. A sequence whose extension
// resolves to a command is never exposed itself, so the first stroke of a
// two-stroke binding can never fire a one-stroke binding on the same key.
package trie
