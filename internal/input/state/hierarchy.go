package state

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// Hierarchy resolves ids to their ancestor Paths using a parent map.
// A parent of "" marks a root. Ids missing from the map are roots too.
//
// Paths are computed on first use and memoised, including failures.
// A Hierarchy is not safe for concurrent use.
type Hierarchy struct {
	parents map[string]string
	paths   map[string]Path
	errs    map[string]error
}

// NewHierarchy creates a hierarchy from an id → parent map.
// The map is copied.
func NewHierarchy(parents map[string]string) *Hierarchy {
	return &Hierarchy{
		parents: maps.Clone(parents),
		paths:   make(map[string]Path),
		errs:    make(map[string]error),
	}
}

// Path returns the root-to-leaf path ending in id.
// It fails with ErrCycle when id's ancestry loops and with ErrCapacity
// when the chain is too deep.
func (h *Hierarchy) Path(id string) (Path, error) {
	if id == "" {
		return Path{}, fmt.Errorf("%w: empty id", ErrInvalidToken)
	}
	if p, ok := h.paths[id]; ok {
		return p, nil
	}
	if err, ok := h.errs[id]; ok {
		return Path{}, err
	}

	chain := make([]string, 0, 4)
	seen := make(map[string]bool)
	for cur := id; cur != ""; cur = h.parents[cur] {
		if seen[cur] {
			err := fmt.Errorf("%w: %q reaches %q again", ErrCycle, id, cur)
			h.errs[id] = err
			return Path{}, err
		}
		seen[cur] = true
		chain = append(chain, cur)
	}
	slices.Reverse(chain)

	p, err := NewPath(chain...)
	if err != nil {
		err = fmt.Errorf("hierarchy path for %q: %w", id, err)
		h.errs[id] = err
		return Path{}, err
	}
	h.paths[id] = p
	return p, nil
}

// Parents returns a copy of the parent map.
func (h *Hierarchy) Parents() map[string]string {
	return maps.Clone(h.parents)
}

// Equal reports whether both hierarchies have the same parent map.
func (h *Hierarchy) Equal(other *Hierarchy) bool {
	if h == nil || other == nil {
		return h == other
	}
	return maps.Equal(h.parents, other.parents)
}

// Cycles returns the sorted ids whose ancestry contains a cycle.
func (h *Hierarchy) Cycles() []string {
	var out []string
	for id := range h.parents {
		if _, err := h.Path(id); errors.Is(err, ErrCycle) {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}
