package key

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyString(t *testing.T) {
	tests := []struct {
		key  Key
		want string
	}{
		{KeyNone, "None"},
		{KeyEscape, "Escape"},
		{KeyEnter, "Enter"},
		{KeyPageDown, "PageDown"},
		{KeyF1, "F1"},
		{KeyF12, "F12"},
		{KeyRune, "Rune"},
		{Key(999), "Key(999)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.key.String())
		})
	}
}

func TestKeyClassification(t *testing.T) {
	assert.False(t, KeyNone.IsSpecial())
	assert.False(t, KeyRune.IsSpecial())
	assert.True(t, KeyEscape.IsSpecial())
	assert.True(t, KeyCapsLock.IsSpecial())

	assert.True(t, KeyF5.IsFunctionKey())
	assert.False(t, KeyUp.IsFunctionKey())
	assert.True(t, KeyLeft.IsArrowKey())
	assert.False(t, KeyHome.IsArrowKey())
}

func TestKeyFromName(t *testing.T) {
	assert.Equal(t, KeyEscape, KeyFromName("Esc"))
	assert.Equal(t, KeyEnter, KeyFromName(" return "))
	assert.Equal(t, KeyPageUp, KeyFromName("PGUP"))
	assert.Equal(t, KeyNone, KeyFromName("space"))
	assert.Equal(t, KeyNone, KeyFromName("bogus"))
}

func TestModifier(t *testing.T) {
	m := ModCtrl.With(ModShift)
	assert.True(t, m.Has(ModCtrl))
	assert.True(t, m.Has(ModShift))
	assert.False(t, m.Has(ModAlt))
	assert.Equal(t, "Ctrl+Shift", m.String())
	assert.Equal(t, ModCtrl, m.Without(ModShift))
	assert.True(t, ModNone.IsEmpty())
	assert.Equal(t, "Ctrl+Alt+Shift+Meta", (ModMeta | ModShift | ModAlt | ModCtrl).String())

	assert.Equal(t, ModMeta, ModifierFromName("Cmd"))
	assert.Equal(t, ModAlt, ModifierFromName("option"))
	assert.Equal(t, ModNone, ModifierFromName("hyper"))
}
