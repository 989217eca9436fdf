// Package interact is the pointer and keyboard state machine of the editor:
// panning, dragging out new boxes, handle dragging and cursor hints.
package interact

import (
	"tagdraw/internal/annotation"
	"tagdraw/internal/scene"
	"tagdraw/pkg/geometry"
)

// State is an interaction mode.
type State int

const (
	// StateIdle waits for input.
	StateIdle State = iota
	// StateGrabReady means the pan key is held; a press starts panning.
	StateGrabReady
	// StatePanning drags the view with the pointer.
	StatePanning
	// StateCreatingBox drags out a preview rectangle.
	StateCreatingBox
	// StateSuppressed is a press that started on an annotation; it creates
	// nothing and ends on release.
	StateSuppressed
	// StateHandleDrag moves one vertex of an annotation.
	StateHandleDrag
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateGrabReady:
		return "grab_ready"
	case StatePanning:
		return "panning"
	case StateCreatingBox:
		return "creating_box"
	case StateSuppressed:
		return "suppressed"
	case StateHandleDrag:
		return "handle_drag"
	default:
		return "unknown"
	}
}

// CursorHint is the cursor the host should show. The machine never touches
// the host toolkit itself.
type CursorHint int

const (
	CursorDefault CursorHint = iota
	CursorPointer
	CursorGrab
	CursorGrabbing
	CursorMove
)

func (c CursorHint) String() string {
	switch c {
	case CursorDefault:
		return "default"
	case CursorPointer:
		return "pointer"
	case CursorGrab:
		return "grab"
	case CursorGrabbing:
		return "grabbing"
	case CursorMove:
		return "move"
	default:
		return "unknown"
	}
}

// Key identifies a keyboard key the machine cares about.
type Key int

const (
	KeyOther Key = iota
	// KeyPan is the pan modifier (space bar).
	KeyPan
)

// Modifier is a bit set of held modifier keys.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModControl
	ModAlt
	ModSuper
)

// DragEvent describes a finished box drag. Points are logical.
type DragEvent struct {
	Start   geometry.Point2D
	Current geometry.Point2D
	End     geometry.Point2D
	// Preview is the rectangle drawn during the drag. It stays on the scene
	// until Clear is called or another drag starts.
	Preview scene.Node
	// Clear removes Preview and ends the session. Extra calls do nothing.
	Clear func()
}

// Rect returns the normalized rectangle spanned by the drag.
func (e DragEvent) Rect() geometry.Rect {
	return geometry.RectFromCorners(e.Start, e.End)
}

// HandleRef identifies the vertex a resize handle controls.
type HandleRef struct {
	Data   *annotation.Annotation
	Vertex int
}
