package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// runeAliases maps names (lowercase) to the characters they stand for.
var runeAliases = map[string]rune{
	"space":  ' ',
	"plus":   '+',
	"minus":  '-',
	"lt":     '<',
	"gt":     '>',
	"bar":    '|',
	"bslash": '\\',
}

// ParseStroke parses a key specification string into a Stroke.
//
// Supported formats:
//   - Single character: "a", "A", "1", "@"
//   - Special keys: "Enter", "Escape", "Tab", "Backspace", "Space"
//   - With modifiers: "Ctrl+S", "Alt+F4", "Ctrl+Shift+P"
//   - Vim-style: "<C-s>", "<A-f>", "<C-S-p>", "<CR>", "<Esc>"
func ParseStroke(spec string) (Stroke, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return NoStroke, ErrEmptySpec
	}

	// Vim-style <...> notation
	if len(spec) > 2 && strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") {
		return parseVimStyle(spec[1 : len(spec)-1])
	}

	// Modifier+key format (Ctrl+S, Alt+F4); a lone "+" is a character
	if len(spec) > 1 && strings.Contains(spec, "+") {
		return parseModifierStyle(spec)
	}

	return parseKeyWithModifiers(spec, ModNone)
}

// parseVimStyle parses Vim-style notation like "C-s", "A-F4", "CR", "Esc"
func parseVimStyle(inner string) (Stroke, error) {
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return NoStroke, ErrInvalidSpec
	}

	parts := strings.Split(inner, "-")
	if len(parts) == 1 {
		return parseKeyWithModifiers(parts[0], ModNone)
	}

	// Last part is the key, the rest are single-letter modifiers
	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "c":
			mods = mods.With(ModCtrl)
		case "a":
			mods = mods.With(ModAlt)
		case "s":
			mods = mods.With(ModShift)
		case "m", "d":
			mods = mods.With(ModMeta)
		default:
			return NoStroke, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
	}
	return parseKeyWithModifiers(parts[len(parts)-1], mods)
}

// parseModifierStyle parses "Ctrl+S" style notation
func parseModifierStyle(spec string) (Stroke, error) {
	parts := strings.Split(spec, "+")

	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		mod := ModifierFromName(p)
		if mod == ModNone {
			return NoStroke, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(mod)
	}

	return parseKeyWithModifiers(parts[len(parts)-1], mods)
}

// parseKeyWithModifiers parses a key name or character with already-known modifiers
func parseKeyWithModifiers(keyPart string, mods Modifier) (Stroke, error) {
	keyPart = strings.TrimSpace(keyPart)
	if keyPart == "" {
		return NoStroke, fmt.Errorf("%w: missing key", ErrInvalidSpec)
	}

	runes := []rune(keyPart)
	if len(runes) == 1 {
		if !unicode.IsPrint(runes[0]) {
			return NoStroke, fmt.Errorf("%w: unprintable key %q", ErrInvalidSpec, keyPart)
		}
		return NewRuneStroke(runes[0], mods), nil
	}

	lower := strings.ToLower(keyPart)
	if r, ok := runeAliases[lower]; ok {
		return NewRuneStroke(r, mods), nil
	}
	if k := KeyFromName(lower); k != KeyNone {
		return NewKeyStroke(k, mods), nil
	}

	return NoStroke, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, keyPart)
}

// MustParseStroke parses a key specification and panics on error.
// Use only for known-valid specs in initialization code.
func MustParseStroke(spec string) Stroke {
	s, err := ParseStroke(spec)
	if err != nil {
		panic("invalid key specification: " + spec + ": " + err.Error())
	}
	return s
}
