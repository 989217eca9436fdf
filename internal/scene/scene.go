// Package scene defines the retained-mode drawing capability used by the
// shape renderer and provides Stage, an in-process implementation with hit
// testing and rasterisation.
package scene

import (
	"image"
	"image/color"

	"tagdraw/pkg/geometry"
)

// Shape identifies a primitive type.
type Shape int

const (
	ShapeRect Shape = iota + 1
	ShapePolygon
	ShapeCircle
	ShapeText
	ShapeBitmap
)

// Style describes how a primitive is painted. A nil Fill or Stroke is not
// painted.
type Style struct {
	Fill        color.Color
	Stroke      color.Color
	StrokeWidth float64
}

// Node is a primitive owned by a Scene.
type Node interface {
	Shape() Shape
	// Bounds returns the logical bounding box.
	Bounds() geometry.Rect
}

// EventKind identifies a pointer event.
type EventKind int

const (
	PointerDown EventKind = iota + 1
	PointerMove
	PointerUp
	PointerLeave
)

func (k EventKind) String() string {
	switch k {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	case PointerLeave:
		return "leave"
	default:
		return "unknown"
	}
}

// PointerEvent carries a pointer position in surface coordinates (Raw) and
// in logical scene coordinates (Local).
type PointerEvent struct {
	Kind  EventKind
	Raw   geometry.Point2D
	Local geometry.Point2D
}

// Handlers are per-node pointer callbacks. Nil entries are ignored.
type Handlers struct {
	PointerDown func(PointerEvent)
	Enter       func(PointerEvent)
	Leave       func(PointerEvent)
	Click       func(PointerEvent)
}

// Scene is the rendering capability: primitive construction, a z-ordered
// child list, style updates, event subscription and repaint.
//
// Children are painted in order; later children are on top.
type Scene interface {
	NewRect(r geometry.Rect, style Style) Node
	NewPolygon(points []geometry.Point2D, style Style) Node
	NewCircle(center geometry.Point2D, radius float64, style Style) Node
	// NewText creates a text primitive whose top-left corner is at.
	NewText(s string, at geometry.Point2D, size float64, c color.Color) Node
	NewBitmap(img image.Image) Node
	MeasureText(s string, size float64) (w, h float64)

	Add(n Node)
	AddAt(n Node, index int)
	Remove(n Node) bool
	Contains(n Node) bool
	Children() []Node
	IndexOf(n Node) int

	SetFillColor(n Node, c color.Color)
	SetRect(n Node, r geometry.Rect)
	Listen(n Node, h Handlers)

	SetTransform(scale float64, offset geometry.Point2D)
	// Dispatch delivers a pointer event to the nodes under it. It reports
	// whether a listening node was hit.
	Dispatch(ev PointerEvent) bool
	Repaint()
}
