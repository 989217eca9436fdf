// Package annotation holds tag-area records and the ordered store that keeps
// them in lockstep with their drawable sets.
package annotation

import (
	"errors"
	"fmt"

	"tagdraw/pkg/geometry"
)

// Errors returned by geometry constructors and per-index store access.
var (
	ErrInvalidGeometry = errors.New("invalid geometry")
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Kind identifies the shape of a tag area.
type Kind int

const (
	KindRect Kind = iota + 1
	KindPolygon
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindRect:
		return "rect"
	case KindPolygon:
		return "polygon"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Geometry is a rectangle or a closed polygon in logical image coordinates.
//
// A rect stores exactly two points, the normalized top-left and bottom-right
// corners. A polygon stores its vertices in drawing order, at least three.
type Geometry struct {
	Kind   Kind               `json:"kind"`
	Points []geometry.Point2D `json:"points"`
}

// NewRect builds a rect geometry from two opposite corners in any order.
func NewRect(x1, y1, x2, y2 float64) (Geometry, error) {
	a, b := geometry.NewPoint2D(x1, y1), geometry.NewPoint2D(x2, y2)
	if !a.IsFinite() || !b.IsFinite() {
		return Geometry{}, fmt.Errorf("%w: rect corners must be finite", ErrInvalidGeometry)
	}
	r := geometry.RectFromCorners(a, b)
	return Geometry{Kind: KindRect, Points: []geometry.Point2D{r.TopLeft(), r.BottomRight()}}, nil
}

// RectFromValues builds a rect from the flat form [x1, y1, x2, y2].
func RectFromValues(v []float64) (Geometry, error) {
	if len(v) != 4 {
		return Geometry{}, fmt.Errorf("%w: rect needs 4 numbers, got %d", ErrInvalidGeometry, len(v))
	}
	return NewRect(v[0], v[1], v[2], v[3])
}

// NewPolygon builds a polygon geometry. The points are copied.
func NewPolygon(points []geometry.Point2D) (Geometry, error) {
	if len(points) < 3 {
		return Geometry{}, fmt.Errorf("%w: polygon needs at least 3 points, got %d", ErrInvalidGeometry, len(points))
	}
	for i, p := range points {
		if !p.IsFinite() {
			return Geometry{}, fmt.Errorf("%w: polygon point %d is not finite", ErrInvalidGeometry, i)
		}
	}
	pts := make([]geometry.Point2D, len(points))
	copy(pts, points)
	return Geometry{Kind: KindPolygon, Points: pts}, nil
}

// PolygonFromPairs builds a polygon from [x, y] pairs.
func PolygonFromPairs(pairs [][2]float64) (Geometry, error) {
	pts := make([]geometry.Point2D, len(pairs))
	for i, p := range pairs {
		pts[i] = geometry.NewPoint2D(p[0], p[1])
	}
	return NewPolygon(pts)
}

// Validate checks that g is a well-formed rect or polygon.
func (g Geometry) Validate() error {
	switch g.Kind {
	case KindRect:
		if len(g.Points) != 2 {
			return fmt.Errorf("%w: rect needs 2 corners, got %d", ErrInvalidGeometry, len(g.Points))
		}
		for _, p := range g.Points {
			if !p.IsFinite() {
				return fmt.Errorf("%w: rect corners must be finite", ErrInvalidGeometry)
			}
		}
		return nil
	case KindPolygon:
		_, err := NewPolygon(g.Points)
		return err
	default:
		return fmt.Errorf("%w: unknown kind %v", ErrInvalidGeometry, g.Kind)
	}
}

// Normalize returns a validated copy; rect corners are put in min/max order.
func (g Geometry) Normalize() (Geometry, error) {
	if err := g.Validate(); err != nil {
		return Geometry{}, err
	}
	if g.Kind == KindRect {
		return NewRect(g.Points[0].X, g.Points[0].Y, g.Points[1].X, g.Points[1].Y)
	}
	return NewPolygon(g.Points)
}

// Rect returns the normalized rectangle for a rect geometry, or the bounding
// box of a polygon.
func (g Geometry) Rect() geometry.Rect {
	if g.Kind == KindRect && len(g.Points) == 2 {
		return geometry.RectFromCorners(g.Points[0], g.Points[1])
	}
	return geometry.BoundingBox(g.Points)
}

// Bounds returns the axis-aligned bounding box.
func (g Geometry) Bounds() geometry.Rect {
	return g.Rect()
}

// Vertices returns the outline vertices in drawing order: four corners
// clockwise from top-left for a rect, the stored points for a polygon.
func (g Geometry) Vertices() []geometry.Point2D {
	if g.Kind == KindRect {
		c := g.Rect().Corners()
		return c[:]
	}
	out := make([]geometry.Point2D, len(g.Points))
	copy(out, g.Points)
	return out
}

// Clone returns a deep copy.
func (g Geometry) Clone() Geometry {
	pts := make([]geometry.Point2D, len(g.Points))
	copy(pts, g.Points)
	return Geometry{Kind: g.Kind, Points: pts}
}

// MoveVertex returns a copy of g with vertex i (as numbered by Vertices)
// moved to p. For a rect the diagonally opposite corner stays fixed.
func (g Geometry) MoveVertex(i int, p geometry.Point2D) (Geometry, error) {
	verts := g.Vertices()
	if i < 0 || i >= len(verts) {
		return Geometry{}, fmt.Errorf("vertex %d of %d: %w", i, len(verts), ErrIndexOutOfRange)
	}
	if !p.IsFinite() {
		return Geometry{}, fmt.Errorf("%w: vertex must be finite", ErrInvalidGeometry)
	}
	if g.Kind == KindRect {
		opposite := verts[(i+2)%4]
		return NewRect(opposite.X, opposite.Y, p.X, p.Y)
	}
	verts[i] = p
	return Geometry{Kind: KindPolygon, Points: verts}, nil
}
