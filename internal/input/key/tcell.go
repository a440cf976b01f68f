package key

import (
	"github.com/gdamore/tcell/v2"
)

// tcellKeys maps tcell special keys to Key values.
// Tab, Enter, Backspace and Escape share codes with Ctrl+I, Ctrl+M, Ctrl+H
// and Ctrl+[ in tcell; the named key wins.
var tcellKeys = map[tcell.Key]Key{
	tcell.KeyEscape:     KeyEscape,
	tcell.KeyEnter:      KeyEnter,
	tcell.KeyTab:        KeyTab,
	tcell.KeyBackspace:  KeyBackspace,
	tcell.KeyBackspace2: KeyBackspace,
	tcell.KeyDelete:     KeyDelete,
	tcell.KeyInsert:     KeyInsert,
	tcell.KeyHome:       KeyHome,
	tcell.KeyEnd:        KeyEnd,
	tcell.KeyPgUp:       KeyPageUp,
	tcell.KeyPgDn:       KeyPageDown,
	tcell.KeyUp:         KeyUp,
	tcell.KeyDown:       KeyDown,
	tcell.KeyLeft:       KeyLeft,
	tcell.KeyRight:      KeyRight,
	tcell.KeyF1:         KeyF1,
	tcell.KeyF2:         KeyF2,
	tcell.KeyF3:         KeyF3,
	tcell.KeyF4:         KeyF4,
	tcell.KeyF5:         KeyF5,
	tcell.KeyF6:         KeyF6,
	tcell.KeyF7:         KeyF7,
	tcell.KeyF8:         KeyF8,
	tcell.KeyF9:         KeyF9,
	tcell.KeyF10:        KeyF10,
	tcell.KeyF11:        KeyF11,
	tcell.KeyF12:        KeyF12,
	tcell.KeyPause:      KeyPause,
	tcell.KeyPrint:      KeyPrintScreen,
}

// FromTcell converts a terminal key event into a Stroke.
// The second result is false when the event has no stroke equivalent.
func FromTcell(ev *tcell.EventKey) (Stroke, bool) {
	if ev == nil {
		return NoStroke, false
	}

	mods := fromTcellMod(ev.Modifiers())
	k := ev.Key()

	if k == tcell.KeyRune {
		s := NewRuneStroke(ev.Rune(), mods)
		return s, s.IsValid()
	}

	if special, ok := tcellKeys[k]; ok {
		return NewKeyStroke(special, mods), true
	}

	// Control letters arrive as dedicated key codes
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		r := 'a' + rune(k-tcell.KeyCtrlA)
		return NewRuneStroke(r, mods.With(ModCtrl)), true
	}
	if k == tcell.KeyCtrlSpace {
		return NewRuneStroke(' ', mods.With(ModCtrl)), true
	}

	return NoStroke, false
}

func fromTcellMod(m tcell.ModMask) Modifier {
	var mods Modifier
	if m&tcell.ModShift != 0 {
		mods = mods.With(ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		mods = mods.With(ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		mods = mods.With(ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		mods = mods.With(ModMeta)
	}
	return mods
}
