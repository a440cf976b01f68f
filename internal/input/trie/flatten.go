package trie

import (
	"slices"

	"github.com/dshills/keyresolve/internal/input/key"
)

// CommandMap returns the sequences below n that resolve to a command,
// keyed by their full sequence (prefix followed by the path from n).
// A node whose descendants include any command is omitted, so only the
// longest bindings along a branch are exposed. n itself is excluded.
func CommandMap(n *Node, prefix key.Sequence) map[key.Sequence]string {
	out := make(map[key.Sequence]string)
	walkCommands(n, prefix, func(seq key.Sequence, m Match) {
		out[seq] = m.CommandID
	})
	return out
}

// KeySequenceMap inverts CommandMap: each command maps to its bound
// sequences in ascending order.
func KeySequenceMap(n *Node, prefix key.Sequence) map[string][]key.Sequence {
	out := make(map[string][]key.Sequence)
	walkCommands(n, prefix, func(seq key.Sequence, m Match) {
		out[m.CommandID] = append(out[m.CommandID], seq)
	})
	for _, seqs := range out {
		slices.SortFunc(seqs, key.Sequence.Compare)
	}
	return out
}

// MatchMap returns every resolved node below n, shadowed or not,
// including unbound and ambiguous ones.
func MatchMap(n *Node, prefix key.Sequence) map[key.Sequence]Match {
	out := make(map[key.Sequence]Match)
	var walk func(*Node, key.Sequence)
	walk = func(node *Node, seq key.Sequence) {
		for s, child := range node.children {
			next := seq.Append(s)
			if child.match.Resolved() {
				out[next] = child.match
			}
			walk(child, next)
		}
	}
	walk(n, prefix)
	return out
}

// walkCommands visits exposed command nodes below n and reports whether
// any node below n resolves to a command.
func walkCommands(n *Node, prefix key.Sequence, visit func(key.Sequence, Match)) bool {
	found := false
	for s, child := range n.children {
		seq := prefix.Append(s)
		shadowed := walkCommands(child, seq, visit)
		if child.match.IsCommand() {
			if !shadowed {
				visit(seq, child.match)
			}
			found = true
		}
		found = found || shadowed
	}
	return found
}
