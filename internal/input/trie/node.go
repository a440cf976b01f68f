package trie

import (
	"maps"
	"slices"

	"github.com/dshills/keyresolve/internal/input/key"
)

// Nested binding index: context → scheme → rank → platform → locale → commands.
type (
	contextIndex  map[string]schemeIndex
	schemeIndex   map[string]rankIndex
	rankIndex     map[int]platformIndex
	platformIndex map[string]localeIndex
	localeIndex   map[string]commandSet
	commandSet    map[string]struct{}
)

// Coord locates a binding within a node's index.
type Coord struct {
	Context  string
	Scheme   string
	Rank     int
	Platform string
	Locale   string
}

// Node is one stroke position in the binding tree.
type Node struct {
	children map[key.Stroke]*Node
	bindings contextIndex
	match    Match
}

// New creates an empty tree.
func New() *Node {
	return &Node{}
}

// Child returns the child reached by stroke, or nil.
func (n *Node) Child(stroke key.Stroke) *Node {
	return n.children[stroke]
}

// Strokes returns the strokes leading to children, in ascending order.
func (n *Node) Strokes() []key.Stroke {
	return slices.Sorted(maps.Keys(n.children))
}

// HasChildren reports whether any sequence continues past this node.
func (n *Node) HasChildren() bool {
	return len(n.children) > 0
}

// HasBindings reports whether any binding ends at this node.
func (n *Node) HasBindings() bool {
	return len(n.bindings) > 0
}

// Match returns the result of the last Solve for this node.
func (n *Node) Match() Match {
	return n.match
}

// Add records that seq maps to commandID at coordinates c.
// An empty commandID records an explicit unbinding. Adding a different
// command at the same coordinates makes them ambiguous.
func Add(root *Node, seq key.Sequence, c Coord, commandID string) {
	node := root
	for _, s := range seq.Strokes() {
		child, ok := node.children[s]
		if !ok {
			if node.children == nil {
				node.children = make(map[key.Stroke]*Node)
			}
			child = &Node{}
			node.children[s] = child
		}
		node = child
	}

	if node.bindings == nil {
		node.bindings = make(contextIndex)
	}
	schemes, ok := node.bindings[c.Context]
	if !ok {
		schemes = make(schemeIndex)
		node.bindings[c.Context] = schemes
	}
	ranks, ok := schemes[c.Scheme]
	if !ok {
		ranks = make(rankIndex)
		schemes[c.Scheme] = ranks
	}
	platforms, ok := ranks[c.Rank]
	if !ok {
		platforms = make(platformIndex)
		ranks[c.Rank] = platforms
	}
	locales, ok := platforms[c.Platform]
	if !ok {
		locales = make(localeIndex)
		platforms[c.Platform] = locales
	}
	commands, ok := locales[c.Locale]
	if !ok {
		commands = make(commandSet)
		locales[c.Locale] = commands
	}
	commands[commandID] = struct{}{}
}

// Remove undoes Add. Empty index levels and nodes left without bindings
// or children are pruned. It returns false if nothing was recorded.
func Remove(root *Node, seq key.Sequence, c Coord, commandID string) bool {
	strokes := seq.Strokes()

	// Track path for pruning
	path := make([]*Node, 0, len(strokes)+1)
	path = append(path, root)
	node := root
	for _, s := range strokes {
		child, ok := node.children[s]
		if !ok {
			return false
		}
		path = append(path, child)
		node = child
	}

	if !node.removeBinding(c, commandID) {
		return false
	}

	for i := len(path) - 1; i > 0; i-- {
		current := path[i]
		if current.HasBindings() || current.HasChildren() {
			break
		}
		delete(path[i-1].children, strokes[i-1])
	}
	return true
}

func (n *Node) removeBinding(c Coord, commandID string) bool {
	schemes := n.bindings[c.Context]
	ranks := schemes[c.Scheme]
	platforms := ranks[c.Rank]
	locales := platforms[c.Platform]
	commands := locales[c.Locale]
	if _, ok := commands[commandID]; !ok {
		return false
	}

	delete(commands, commandID)
	if len(commands) == 0 {
		delete(locales, c.Locale)
	}
	if len(locales) == 0 {
		delete(platforms, c.Platform)
	}
	if len(platforms) == 0 {
		delete(ranks, c.Rank)
	}
	if len(ranks) == 0 {
		delete(schemes, c.Scheme)
	}
	if len(schemes) == 0 {
		delete(n.bindings, c.Context)
	}
	return true
}

// Find returns the subtree reached by following prefix from root.
// When a stroke is missing it returns an empty node.
func Find(root *Node, prefix key.Sequence) *Node {
	node := root
	for _, s := range prefix.Strokes() {
		child, ok := node.children[s]
		if !ok {
			return New()
		}
		node = child
	}
	return node
}

// Size returns the number of nodes below n, excluding n.
func (n *Node) Size() int {
	total := 0
	for _, child := range n.children {
		total += 1 + child.Size()
	}
	return total
}
