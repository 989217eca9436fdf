package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// PointInPolygon reports whether p lies inside the closed polygon using the
// even-odd ray casting rule. Works for concave polygons too.
func PointInPolygon(polygon []Point2D, p Point2D) bool {
	n := len(polygon)
	if n < 3 {
		return false
	}

	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := polygon[i], polygon[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			xCross := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < xCross {
				inside = !inside
			}
		}
	}
	return inside
}

// DistanceToSegment returns the distance from p to the segment a-b.
func DistanceToSegment(p, a, b Point2D) float64 {
	ab := r2.Sub(b.Vec(), a.Vec())
	ap := r2.Sub(p.Vec(), a.Vec())

	lenSq := r2.Dot(ab, ab)
	if lenSq == 0 {
		return r2.Norm(ap)
	}

	t := math.Max(0, math.Min(1, r2.Dot(ap, ab)/lenSq))
	closest := r2.Add(a.Vec(), r2.Scale(t, ab))
	return r2.Norm(r2.Sub(p.Vec(), closest))
}

// NearOutline reports whether p is within tolerance of any edge of the closed
// outline through points.
func NearOutline(points []Point2D, p Point2D, tolerance float64) bool {
	n := len(points)
	if n == 0 {
		return false
	}
	if n == 1 {
		return points[0].Distance(p) <= tolerance
	}
	for i := 0; i < n; i++ {
		if DistanceToSegment(p, points[i], points[(i+1)%n]) <= tolerance {
			return true
		}
	}
	return false
}
