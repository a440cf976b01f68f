package key

import "strings"

// Modifier represents keyboard modifier keys.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModShift indicates the Shift key.
	ModShift Modifier = 1 << iota

	// ModCtrl indicates the Control key.
	ModCtrl

	// ModAlt indicates the Alt key (Option on macOS).
	ModAlt

	// ModMeta indicates the Meta key (Cmd on macOS, Win on Windows).
	ModMeta
)

// chordMods are the modifiers that turn a character into a chord.
const chordMods = ModCtrl | ModAlt | ModMeta

// Has returns true if m contains any of the specified modifiers.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// With returns a new Modifier with the specified modifier added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Without returns a new Modifier with the specified modifier removed.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// IsEmpty returns true if no modifiers are set.
func (m Modifier) IsEmpty() bool {
	return m == ModNone
}

// String returns a readable representation like "Ctrl+Alt".
// The order is fixed so that formatted strokes are canonical.
func (m Modifier) String() string {
	if m == ModNone {
		return ""
	}

	parts := make([]string, 0, 4)
	if m.Has(ModCtrl) {
		parts = append(parts, "Ctrl")
	}
	if m.Has(ModAlt) {
		parts = append(parts, "Alt")
	}
	if m.Has(ModShift) {
		parts = append(parts, "Shift")
	}
	if m.Has(ModMeta) {
		parts = append(parts, "Meta")
	}
	return strings.Join(parts, "+")
}

// modifierNameMap maps modifier names (lowercase) to Modifier values.
var modifierNameMap = map[string]Modifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"c":       ModCtrl,
	"alt":     ModAlt,
	"a":       ModAlt,
	"option":  ModAlt,
	"opt":     ModAlt,
	"shift":   ModShift,
	"s":       ModShift,
	"meta":    ModMeta,
	"m":       ModMeta,
	"cmd":     ModMeta,
	"command": ModMeta,
	"win":     ModMeta,
	"super":   ModMeta,
	"d":       ModMeta, // Vim uses D for command/meta
}

// ModifierFromName returns the Modifier for a given name (case-insensitive).
// Returns ModNone if the name is not recognized.
func ModifierFromName(name string) Modifier {
	return modifierNameMap[strings.ToLower(strings.TrimSpace(name))]
}
