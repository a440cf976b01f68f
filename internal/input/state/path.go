package state

import (
	"fmt"
	"slices"
	"strings"
)

// MaxPathLength bounds both the number of tokens in a Path and the
// distance Match can report.
const MaxPathLength = 16

// Path is an immutable ordered list of identifier tokens, root first.
// The zero value is the empty path, which every path descends from.
type Path struct {
	tokens []string
}

// NewPath creates a path from tokens.
// It fails with ErrCapacity when there are MaxPathLength tokens or more.
func NewPath(tokens ...string) (Path, error) {
	if len(tokens) >= MaxPathLength {
		return Path{}, fmt.Errorf("%w: path of %d tokens", ErrCapacity, len(tokens))
	}
	for i, t := range tokens {
		if t == "" {
			return Path{}, fmt.Errorf("%w: token %d is empty", ErrInvalidToken, i)
		}
	}
	return Path{tokens: slices.Clone(tokens)}, nil
}

// MustPath is like NewPath but panics on error.
func MustPath(tokens ...string) Path {
	p, err := NewPath(tokens...)
	if err != nil {
		panic(err)
	}
	return p
}

// Len returns the number of tokens.
func (p Path) Len() int {
	return len(p.tokens)
}

// Tokens returns a copy of the tokens.
func (p Path) Tokens() []string {
	return slices.Clone(p.tokens)
}

// Last returns the leaf token, or "" for the empty path.
func (p Path) Last() string {
	if len(p.tokens) == 0 {
		return ""
	}
	return p.tokens[len(p.tokens)-1]
}

// Equal reports whether both paths hold the same tokens.
func (p Path) Equal(other Path) bool {
	return slices.Equal(p.tokens, other.tokens)
}

// Compare orders paths lexicographically by token; a prefix sorts first.
func (p Path) Compare(other Path) int {
	return slices.Compare(p.tokens, other.tokens)
}

// IsChildOf reports whether other's tokens are a prefix of p's.
// With allowEqual the paths may also be identical.
func (p Path) IsChildOf(other Path, allowEqual bool) bool {
	if len(other.tokens) > len(p.tokens) {
		return false
	}
	if !allowEqual && len(other.tokens) == len(p.tokens) {
		return false
	}
	return slices.Equal(p.tokens[:len(other.tokens)], other.tokens)
}

// Match returns how many tokens candidate has beyond p when candidate
// descends from (or equals) p, and -1 otherwise.
func (p Path) Match(candidate Path) int {
	if !candidate.IsChildOf(p, true) {
		return -1
	}
	d := len(candidate.tokens) - len(p.tokens)
	if d >= MaxPathLength {
		return -1
	}
	return d
}

// String joins the tokens with "/".
func (p Path) String() string {
	return strings.Join(p.tokens, "/")
}
