// Package viewport maps between raw pointer coordinates and logical image
// coordinates, and keeps the pan offset clamped so the image never detaches
// from the visible drawing surface.
package viewport

import (
	"math"

	"tagdraw/pkg/geometry"
)

// Transform is a uniform scale followed by a translation.
// raw = logical*Scale + Pan.
type Transform struct {
	Scale float64
	Pan   geometry.Point2D
}

// Identity is the transform with scale 1 and no pan.
var Identity = Transform{Scale: 1}

// ToLogical converts a raw pointer position into logical image coordinates.
func (t Transform) ToLogical(raw geometry.Point2D) geometry.Point2D {
	return raw.Sub(t.Pan).Scale(1 / t.Scale)
}

// ToRaw converts logical image coordinates into a raw surface position.
func (t Transform) ToRaw(p geometry.Point2D) geometry.Point2D {
	return p.Scale(t.Scale).Add(t.Pan)
}

// ClampAxis clamps a pan offset along one axis:
//
//	pan' = min(0, max(view - image*scale, pan))
//
// When the scaled image is smaller than the view the lower bound is positive
// and the result is pinned to 0.
func ClampAxis(pan, view, image, scale float64) float64 {
	return math.Min(0, math.Max(view-image*scale, pan))
}

// Clamp applies ClampAxis to both axes.
func Clamp(pan geometry.Point2D, view, image geometry.Size, scale float64) geometry.Point2D {
	return geometry.Point2D{
		X: ClampAxis(pan.X, view.Width, image.Width, scale),
		Y: ClampAxis(pan.Y, view.Height, image.Height, scale),
	}
}
