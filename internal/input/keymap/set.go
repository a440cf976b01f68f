package keymap

import (
	"fmt"
	"maps"
	"slices"
)

// Set is what a source yields: definitions plus the parent maps of the
// contexts and schemes it declares. A parent of "" marks a root.
type Set struct {
	// Name identifies the set in reports.
	Name string

	Bindings []Definition
	Contexts map[string]string
	Schemes  map[string]string
}

// NewSet creates an empty set with the given name.
func NewSet(name string) *Set {
	return &Set{
		Name:     name,
		Contexts: make(map[string]string),
		Schemes:  make(map[string]string),
	}
}

// Add adds a binding in the default context and scheme.
func (s *Set) Add(keys, command string) *Set {
	s.Bindings = append(s.Bindings, Bind(keys, command))
	return s
}

// AddDefinition adds a fully configured definition.
func (s *Set) AddDefinition(defs ...Definition) *Set {
	s.Bindings = append(s.Bindings, defs...)
	return s
}

// Context declares a context and its parent.
func (s *Set) Context(id, parent string) *Set {
	if s.Contexts == nil {
		s.Contexts = make(map[string]string)
	}
	s.Contexts[id] = parent
	return s
}

// Scheme declares a scheme and its parent.
func (s *Set) Scheme(id, parent string) *Set {
	if s.Schemes == nil {
		s.Schemes = make(map[string]string)
	}
	s.Schemes[id] = parent
	return s
}

// Validate checks that all definitions parse.
func (s *Set) Validate() error {
	for i, d := range s.Bindings {
		if _, err := d.Parse(s.Name, 0); err != nil {
			return &DefinitionError{Source: s.Name, Index: i, Keys: d.Keys, Err: err}
		}
	}
	for id := range s.Contexts {
		if id == "" {
			return fmt.Errorf("%s: context with empty id", s.Name)
		}
	}
	for id := range s.Schemes {
		if id == "" {
			return fmt.Errorf("%s: scheme with empty id", s.Name)
		}
	}
	return nil
}

// Clone creates a deep copy of the set.
func (s *Set) Clone() *Set {
	return &Set{
		Name:     s.Name,
		Bindings: slices.Clone(s.Bindings),
		Contexts: maps.Clone(s.Contexts),
		Schemes:  maps.Clone(s.Schemes),
	}
}
