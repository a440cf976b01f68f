package key

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Stroke is a single key press packed into an integer.
//
// Layout: modifiers occupy bits 24-31, bit 22 marks a special key, and the
// low bits hold either the rune or the Key code. Strokes are totally
// ordered by their integer value.
type Stroke uint32

const (
	runeMask     = 0x001FFFFF
	specialFlag  = 1 << 22
	modifierBits = 24
)

// NoStroke is the zero stroke. It never appears in a parsed sequence.
const NoStroke Stroke = 0

// NewRuneStroke creates a stroke for a character.
//
// Character strokes are normalised so that equal key presses always encode
// identically: with Ctrl, Alt or Meta held the letter is stored lowercase
// (Shift stays explicit), otherwise Shift is carried by the letter case.
func NewRuneStroke(r rune, mods Modifier) Stroke {
	if r == 0 {
		return NoStroke
	}
	if mods.Has(chordMods) {
		r = unicode.ToLower(r)
	} else if unicode.IsLetter(r) {
		if mods.Has(ModShift) {
			r = unicode.ToUpper(r)
		} else if unicode.IsUpper(r) {
			mods = mods.With(ModShift)
		}
	}
	return Stroke(uint32(mods)<<modifierBits | uint32(r)&runeMask)
}

// NewKeyStroke creates a stroke for a special key.
func NewKeyStroke(k Key, mods Modifier) Stroke {
	if !k.IsSpecial() {
		return NoStroke
	}
	return Stroke(uint32(mods)<<modifierBits | specialFlag | uint32(k))
}

// Modifiers returns the modifiers held during the stroke.
func (s Stroke) Modifiers() Modifier {
	return Modifier(s >> modifierBits)
}

// IsSpecial returns true if the stroke is a special (non-character) key.
func (s Stroke) IsSpecial() bool {
	return s&specialFlag != 0
}

// Key returns the special key, or KeyRune for character strokes.
func (s Stroke) Key() Key {
	if s == NoStroke {
		return KeyNone
	}
	if s.IsSpecial() {
		return Key(s & 0xFFFF)
	}
	return KeyRune
}

// Rune returns the character for character strokes, 0 otherwise.
func (s Stroke) Rune() rune {
	if s.IsSpecial() {
		return 0
	}
	return rune(s & runeMask)
}

// IsValid returns true if the stroke encodes a key press.
func (s Stroke) IsValid() bool {
	return s.Key() != KeyNone
}

// String returns the canonical form, e.g. "a", "A", "Ctrl+K", "Ctrl+Shift+P", "F5".
// The result parses back to the same stroke with ParseStroke.
func (s Stroke) String() string {
	if !s.IsValid() {
		return ""
	}

	mods := s.Modifiers()
	var name string
	if s.IsSpecial() {
		name = s.Key().String()
	} else {
		r := s.Rune()
		if unicode.IsLetter(r) && unicode.IsUpper(r) {
			mods = mods.Without(ModShift)
		}
		name = runeName(r)
		if mods.Has(chordMods) && utf8.RuneCountInString(name) == 1 {
			name = strings.ToUpper(name)
		}
	}

	if mods.IsEmpty() {
		return name
	}
	return mods.String() + "+" + name
}

// GoString implements fmt.GoStringer for debugging.
func (s Stroke) GoString() string {
	return fmt.Sprintf("Stroke(%#08x %q)", uint32(s), s.String())
}

// runeName names runes that would otherwise be ambiguous in a specification.
func runeName(r rune) string {
	switch r {
	case ' ':
		return "Space"
	case '+':
		return "Plus"
	case '-':
		return "Minus"
	default:
		return string(r)
	}
}
