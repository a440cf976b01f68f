package key

import (
	"encoding/binary"
	"strings"
)

// Sequence is an immutable, ordered list of strokes.
// Examples: "Ctrl+K Ctrl+C", "g g", "Ctrl+X Ctrl+S"
//
// Strokes are packed big-endian into a string, which makes Sequence
// comparable (usable as a map key) and makes byte order coincide with
// lexicographic stroke order. The zero value is the empty sequence.
type Sequence struct {
	packed string
}

// NewSequence creates a sequence from the given strokes.
func NewSequence(strokes ...Stroke) Sequence {
	if len(strokes) == 0 {
		return Sequence{}
	}
	buf := make([]byte, 4*len(strokes))
	for i, s := range strokes {
		binary.BigEndian.PutUint32(buf[4*i:], uint32(s))
	}
	return Sequence{packed: string(buf)}
}

// Len returns the number of strokes in the sequence.
func (s Sequence) Len() int {
	return len(s.packed) / 4
}

// IsEmpty returns true if the sequence has no strokes.
func (s Sequence) IsEmpty() bool {
	return s.packed == ""
}

// At returns the stroke at the given index, or NoStroke if out of bounds.
func (s Sequence) At(index int) Stroke {
	if index < 0 || index >= s.Len() {
		return NoStroke
	}
	return Stroke(binary.BigEndian.Uint32([]byte(s.packed[4*index : 4*index+4])))
}

// Last returns the final stroke, or NoStroke if empty.
func (s Sequence) Last() Stroke {
	return s.At(s.Len() - 1)
}

// Strokes returns a copy of the strokes in order.
func (s Sequence) Strokes() []Stroke {
	out := make([]Stroke, s.Len())
	for i := range out {
		out[i] = s.At(i)
	}
	return out
}

// Append returns a new sequence with the stroke added at the end.
func (s Sequence) Append(stroke Stroke) Sequence {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(stroke))
	return Sequence{packed: s.packed + string(buf[:])}
}

// Prefix returns the first n strokes. n is clamped to [0, Len].
func (s Sequence) Prefix(n int) Sequence {
	if n <= 0 {
		return Sequence{}
	}
	if n >= s.Len() {
		return s
	}
	return Sequence{packed: s.packed[:4*n]}
}

// Compare orders sequences lexicographically by stroke value.
// A proper prefix sorts before its extensions.
func (s Sequence) Compare(other Sequence) int {
	return strings.Compare(s.packed, other.packed)
}

// IsChildOf reports whether s extends prefix.
// With allowEqual the sequences may also be identical.
func (s Sequence) IsChildOf(prefix Sequence, allowEqual bool) bool {
	if !strings.HasPrefix(s.packed, prefix.packed) {
		return false
	}
	return allowEqual || len(s.packed) > len(prefix.packed)
}

// String returns a human-readable representation with strokes separated by spaces.
// Examples: "Ctrl+K Ctrl+C", "g g"
func (s Sequence) String() string {
	if s.IsEmpty() {
		return ""
	}

	parts := make([]string, s.Len())
	for i := range parts {
		parts[i] = s.At(i).String()
	}
	return strings.Join(parts, " ")
}

// MarshalText implements encoding.TextMarshaler.
func (s Sequence) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Sequence) UnmarshalText(text []byte) error {
	seq, err := ParseSequence(string(text))
	if err != nil {
		return err
	}
	*s = seq
	return nil
}

// ParseSequence parses a key sequence string into a Sequence.
// The string can contain space-separated strokes or a continuous Vim-style sequence.
// Examples: "Ctrl+K Ctrl+C", "g g", "<C-x><C-s>", "dd"
func ParseSequence(text string) (Sequence, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Sequence{}, nil
	}

	strokes := make([]Stroke, 0, 4)

	// Space-separated format
	if strings.ContainsAny(text, " \t") {
		for _, part := range strings.Fields(text) {
			stroke, err := ParseStroke(part)
			if err != nil {
				return Sequence{}, err
			}
			strokes = append(strokes, stroke)
		}
		return NewSequence(strokes...), nil
	}

	// A single readable stroke such as "Ctrl+S" or "Enter". Modifier
	// notation that fails here is a typo, not a run of characters.
	stroke, err := ParseStroke(text)
	if err == nil {
		return NewSequence(stroke), nil
	}
	if hasBarePlus(text) {
		return Sequence{}, err
	}

	// Continuous sequence
	runes := []rune(text)
	for i := 0; i < len(runes); {
		if runes[i] == '<' {
			end := indexRune(runes[i:], '>')
			if end > 1 {
				stroke, err := ParseStroke(string(runes[i : i+end+1]))
				if err != nil {
					return Sequence{}, err
				}
				strokes = append(strokes, stroke)
				i += end + 1
				continue
			}
		}
		strokes = append(strokes, NewRuneStroke(runes[i], ModNone))
		i++
	}

	return NewSequence(strokes...), nil
}

// hasBarePlus reports whether text has a '+' outside <...> groups.
func hasBarePlus(text string) bool {
	depth := 0
	for _, r := range text {
		switch r {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		case '+':
			if depth == 0 {
				return true
			}
		}
	}
	return false
}

func indexRune(runes []rune, r rune) int {
	for i, c := range runes {
		if c == r {
			return i
		}
	}
	return -1
}

// MustParseSequence parses a sequence string and panics on error.
// Use only for known-valid sequences in initialization code.
func MustParseSequence(text string) Sequence {
	seq, err := ParseSequence(text)
	if err != nil {
		panic("invalid key sequence: " + text + ": " + err.Error())
	}
	return seq
}
