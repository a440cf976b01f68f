package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStateArity(t *testing.T) {
	paths := make([]Path, MaxStateArity)
	_, err := NewState(paths...)
	require.NoError(t, err)

	_, err = NewState(append(paths, Path{})...)
	assert.ErrorIs(t, err, ErrCapacity)
}

func TestStateMatch(t *testing.T) {
	global := MustPath("global")
	editor := MustPath("global", "editor")
	def := MustPath("default")
	emacs := MustPath("default", "emacs")

	active := MustState(editor, emacs)

	tests := []struct {
		name      string
		reference State
		want      int
	}{
		{"exact", MustState(editor, emacs), 0},
		{"scheme parent", MustState(editor, def), 1},
		{"context parent", MustState(global, emacs), 1 << 4},
		{"both parents", MustState(global, def), 1<<4 + 1},
		{"context mismatch", MustState(MustPath("terminal"), emacs), -1},
		{"scheme mismatch", MustState(editor, MustPath("vim")), -1},
		{"arity mismatch", MustState(editor), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.reference.Match(active))
		})
	}
}

func TestStateMatchSlotDominance(t *testing.T) {
	deepScheme := MustPath("s0", "s1", "s2", "s3", "s4", "s5", "s6", "s7", "s8", "s9", "s10", "s11", "s12", "s13", "s14")
	active := MustState(MustPath("c0", "c1"), deepScheme)

	contextOff := MustState(MustPath("c0"), deepScheme)
	schemeFarOff := MustState(MustPath("c0", "c1"), MustPath("s0"))

	assert.Greater(t, contextOff.Match(active), schemeFarOff.Match(active))
}

func TestStateEqual(t *testing.T) {
	a := MustState(MustPath("x"), MustPath("y"))
	assert.True(t, a.Equal(MustState(MustPath("x"), MustPath("y"))))
	assert.False(t, a.Equal(MustState(MustPath("x"))))
	assert.False(t, a.Equal(MustState(MustPath("x"), MustPath("z"))))
	assert.Equal(t, "[x, y]", a.String())
}
