package key

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSequence(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"", nil},
		{"Ctrl+K Ctrl+C", []string{"Ctrl+K", "Ctrl+C"}},
		{"g g", []string{"g", "g"}},
		{"dd", []string{"d", "d"}},
		{"Ctrl+S", []string{"Ctrl+S"}},
		{"<C-x><C-s>", []string{"Ctrl+X", "Ctrl+S"}},
		{"a<Esc>", []string{"a", "Escape"}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			seq, err := ParseSequence(tt.text)
			require.NoError(t, err)
			require.Equal(t, len(tt.want), seq.Len())
			for i, want := range tt.want {
				assert.Equal(t, want, seq.At(i).String())
			}
		})
	}
}

func TestParseSequenceError(t *testing.T) {
	for _, text := range []string{
		"Ctrl+K Bogus+C",
		"Ctrl+Shft+S",
		"Hyper+S",
		"Nope+X",
		"Ctrl+",
		"a<C-x>+b",
	} {
		t.Run(text, func(t *testing.T) {
			seq, err := ParseSequence(text)
			assert.ErrorIs(t, err, ErrInvalidSpec)
			assert.True(t, seq.IsEmpty())
		})
	}
	assert.Panics(t, func() { MustParseSequence("<X-y> a") })
}

func TestParseSequenceBracketedPlus(t *testing.T) {
	seq, err := ParseSequence("<C-x><Plus>")
	require.NoError(t, err)
	assert.Equal(t, "Ctrl+X Plus", seq.String())
}

func TestSequenceIsComparable(t *testing.T) {
	a := MustParseSequence("Ctrl+K Ctrl+C")
	b := NewSequence(NewRuneStroke('k', ModCtrl), NewRuneStroke('c', ModCtrl))

	assert.Equal(t, a, b)
	assert.True(t, a == b)

	m := map[Sequence]string{a: "comment"}
	assert.Equal(t, "comment", m[b])
}

func TestSequenceAccessors(t *testing.T) {
	seq := MustParseSequence("Ctrl+X Ctrl+S")

	assert.Equal(t, 2, seq.Len())
	assert.False(t, seq.IsEmpty())
	assert.Equal(t, "Ctrl+S", seq.Last().String())
	assert.Equal(t, NoStroke, seq.At(2))
	assert.Equal(t, NoStroke, seq.At(-1))
	assert.Equal(t, "Ctrl+X Ctrl+S", seq.String())
	assert.Len(t, seq.Strokes(), 2)

	assert.Equal(t, MustParseSequence("Ctrl+X"), seq.Prefix(1))
	assert.Equal(t, Sequence{}, seq.Prefix(0))
	assert.Equal(t, seq, seq.Prefix(5))

	assert.True(t, Sequence{}.IsEmpty())
	assert.Equal(t, "", Sequence{}.String())
}

func TestSequenceAppendIsImmutable(t *testing.T) {
	base := MustParseSequence("Ctrl+K")
	extended := base.Append(MustParseStroke("Ctrl+C"))

	assert.Equal(t, 1, base.Len())
	assert.Equal(t, 2, extended.Len())
	assert.Equal(t, MustParseSequence("Ctrl+K Ctrl+C"), extended)
}

func TestSequenceIsChildOf(t *testing.T) {
	prefix := MustParseSequence("Ctrl+K")
	full := MustParseSequence("Ctrl+K Ctrl+C")
	other := MustParseSequence("Ctrl+X Ctrl+C")

	assert.True(t, full.IsChildOf(prefix, false))
	assert.True(t, full.IsChildOf(full, true))
	assert.False(t, full.IsChildOf(full, false))
	assert.False(t, other.IsChildOf(prefix, true))
	assert.False(t, prefix.IsChildOf(full, true))
	assert.True(t, full.IsChildOf(Sequence{}, false))
}

func TestSequenceCompare(t *testing.T) {
	seqs := []Sequence{
		MustParseSequence("b"),
		MustParseSequence("a b"),
		MustParseSequence("a"),
		MustParseSequence("Ctrl+A"),
		MustParseSequence("a a"),
	}

	sort.Slice(seqs, func(i, j int) bool { return seqs[i].Compare(seqs[j]) < 0 })

	got := make([]string, len(seqs))
	for i, s := range seqs {
		got[i] = s.String()
	}
	assert.Equal(t, []string{"a", "a a", "a b", "b", "Ctrl+A"}, got)
	assert.Equal(t, 0, MustParseSequence("a").Compare(MustParseSequence("a")))
}

func TestSequenceTextMarshaling(t *testing.T) {
	seq := MustParseSequence("Ctrl+K Ctrl+C")

	text, err := seq.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "Ctrl+K Ctrl+C", string(text))

	var decoded Sequence
	require.NoError(t, decoded.UnmarshalText(text))
	assert.Equal(t, seq, decoded)
	assert.Error(t, decoded.UnmarshalText([]byte("Nope+X")))
}
