package canvas

import (
	"tagdraw/internal/interact"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// cursorFor maps a cursor hint to the closest desktop cursor. Fyne has no
// grab or move cursors, so those share the crosshair.
func cursorFor(h interact.CursorHint) desktop.Cursor {
	switch h {
	case interact.CursorPointer:
		return desktop.PointerCursor
	case interact.CursorGrab, interact.CursorGrabbing, interact.CursorMove:
		return desktop.CrosshairCursor
	default:
		return desktop.DefaultCursor
	}
}

// modifierFor returns the modifier bit a key toggles, or 0.
func modifierFor(k fyne.KeyName) interact.Modifier {
	switch k {
	case desktop.KeyShiftLeft, desktop.KeyShiftRight:
		return interact.ModShift
	case desktop.KeyControlLeft, desktop.KeyControlRight:
		return interact.ModControl
	case desktop.KeyAltLeft, desktop.KeyAltRight:
		return interact.ModAlt
	case desktop.KeySuperLeft, desktop.KeySuperRight:
		return interact.ModSuper
	}
	return 0
}

func keyFor(k fyne.KeyName) interact.Key {
	if k == fyne.KeySpace {
		return interact.KeyPan
	}
	return interact.KeyOther
}
