package state

import (
	"fmt"
	"strings"
)

// MaxStateArity bounds the number of Paths in a State.
const MaxStateArity = 8

// slotBits is the width of one slot's distance in a match score.
const slotBits = 4

// State is an immutable tuple of Paths compared slot by slot.
type State struct {
	paths []Path
}

// NewState creates a state from paths, slot 0 first.
func NewState(paths ...Path) (State, error) {
	if len(paths) > MaxStateArity {
		return State{}, fmt.Errorf("%w: state of arity %d", ErrCapacity, len(paths))
	}
	out := make([]Path, len(paths))
	copy(out, paths)
	return State{paths: out}, nil
}

// MustState is like NewState but panics on error.
func MustState(paths ...Path) State {
	s, err := NewState(paths...)
	if err != nil {
		panic(err)
	}
	return s
}

// Arity returns the number of slots.
func (s State) Arity() int {
	return len(s.paths)
}

// Path returns the path in slot i.
func (s State) Path(i int) Path {
	return s.paths[i]
}

// Equal reports whether both states hold equal paths in every slot.
func (s State) Equal(other State) bool {
	if len(s.paths) != len(other.paths) {
		return false
	}
	for i := range s.paths {
		if !s.paths[i].Equal(other.paths[i]) {
			return false
		}
	}
	return true
}

// Match scores other against s. Each slot of s must match the same slot
// of other (see Path.Match). The per-slot distances are packed four bits
// each, slot 0 most significant, so a smaller score is a closer match.
// It returns -1 when the arities differ or any slot fails.
func (s State) Match(other State) int {
	n := len(s.paths)
	if n != len(other.paths) {
		return -1
	}
	score := 0
	for i := range n {
		d := s.paths[i].Match(other.paths[i])
		if d < 0 {
			return -1
		}
		score += d << (slotBits * (n - 1 - i))
	}
	return score
}

func (s State) String() string {
	parts := make([]string, len(s.paths))
	for i, p := range s.paths {
		parts[i] = p.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
