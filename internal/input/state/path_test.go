package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPath(t *testing.T) {
	p, err := NewPath("global", "editor", "editor.text")
	require.NoError(t, err)
	assert.Equal(t, 3, p.Len())
	assert.Equal(t, "global/editor/editor.text", p.String())
	assert.Equal(t, "editor.text", p.Last())

	tokens := make([]string, MaxPathLength-1)
	for i := range tokens {
		tokens[i] = "t"
	}
	_, err = NewPath(tokens...)
	assert.NoError(t, err)

	_, err = NewPath(append(tokens, "t")...)
	assert.ErrorIs(t, err, ErrCapacity)

	_, err = NewPath("a", "", "c")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPathTokensIsCopy(t *testing.T) {
	src := []string{"a", "b"}
	p := MustPath(src...)
	src[0] = "x"
	got := p.Tokens()
	got[1] = "y"
	assert.Equal(t, []string{"a", "b"}, p.Tokens())
}

func TestPathIsChildOf(t *testing.T) {
	root := MustPath("global")
	child := MustPath("global", "editor")
	other := MustPath("terminal")

	tests := []struct {
		name       string
		p, other   Path
		allowEqual bool
		want       bool
	}{
		{"strict child", child, root, false, true},
		{"equal disallowed", root, root, false, false},
		{"equal allowed", root, root, true, true},
		{"parent of child", root, child, true, false},
		{"unrelated", child, other, true, false},
		{"empty is ancestor", child, Path{}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.IsChildOf(tt.other, tt.allowEqual))
		})
	}
}

func TestPathMatch(t *testing.T) {
	root := MustPath("global")
	editor := MustPath("global", "editor")
	text := MustPath("global", "editor", "text")

	assert.Equal(t, 0, root.Match(root))
	assert.Equal(t, 1, root.Match(editor))
	assert.Equal(t, 2, root.Match(text))
	assert.Equal(t, -1, text.Match(root))
	assert.Equal(t, -1, MustPath("terminal").Match(text))
	assert.Equal(t, 3, Path{}.Match(text))
}

func TestPathMatchMonotonic(t *testing.T) {
	chain := []string{"a", "b", "c", "d", "e", "f"}
	for i := range chain {
		for j := i; j < len(chain); j++ {
			for k := j; k < len(chain); k++ {
				a := MustPath(chain[:i+1]...)
				b := MustPath(chain[:j+1]...)
				c := MustPath(chain[:k+1]...)

				viaA := a.Match(c)
				viaB := b.Match(c)
				require.GreaterOrEqual(t, viaB, 0)
				if i < j {
					assert.Greater(t, viaA, viaB, "a=%s b=%s c=%s", a, b, c)
				} else {
					assert.Equal(t, viaA, viaB)
				}
			}
		}
	}
}

func TestPathCompare(t *testing.T) {
	assert.Equal(t, 0, MustPath("a", "b").Compare(MustPath("a", "b")))
	assert.Equal(t, -1, MustPath("a").Compare(MustPath("a", "b")))
	assert.Equal(t, 1, MustPath("b").Compare(MustPath("a", "z")))
	assert.True(t, MustPath("a").Equal(MustPath("a")))
	assert.False(t, MustPath("a").Equal(MustPath("a", "b")))
}
