package geometry

import (
	"math"
	"testing"
)

func TestRectFromCorners_OrderIndependent(t *testing.T) {
	tests := []struct {
		name string
		a, b Point2D
	}{
		{"tl-br", NewPoint2D(0, 0), NewPoint2D(100, 50)},
		{"br-tl", NewPoint2D(100, 50), NewPoint2D(0, 0)},
		{"tr-bl", NewPoint2D(100, 0), NewPoint2D(0, 50)},
		{"bl-tr", NewPoint2D(0, 50), NewPoint2D(100, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := RectFromCorners(tt.a, tt.b)
			if r.Width < 0 || r.Height < 0 {
				t.Fatalf("negative size %+v", r)
			}
			if r != NewRect(0, 0, 100, 50) {
				t.Fatalf("got %+v", r)
			}
		})
	}
}

func TestRectFromCorners_Degenerate(t *testing.T) {
	r := RectFromCorners(NewPoint2D(5, 5), NewPoint2D(5, 5))
	if r.Width != 0 || r.Height != 0 {
		t.Fatalf("expected zero size, got %+v", r)
	}
}

func TestRectCorners(t *testing.T) {
	c := NewRect(10, 20, 30, 40).Corners()
	want := [4]Point2D{{10, 20}, {40, 20}, {40, 60}, {10, 60}}
	if c != want {
		t.Fatalf("got %v want %v", c, want)
	}
}

func TestMinCorner_NotAVertex(t *testing.T) {
	pts := []Point2D{{20, 20}, {150, 260}, {100, 30}, {10, 90}}
	got := MinCorner(pts)
	if got != (Point2D{10, 20}) {
		t.Fatalf("got %v", got)
	}
}

func TestPointInPolygon(t *testing.T) {
	// Concave "L" shape.
	poly := []Point2D{{0, 0}, {100, 0}, {100, 20}, {20, 20}, {20, 100}, {0, 100}}
	tests := []struct {
		p    Point2D
		want bool
	}{
		{Point2D{10, 10}, true},
		{Point2D{10, 90}, true},
		{Point2D{90, 10}, true},
		{Point2D{50, 50}, false},
		{Point2D{-1, 10}, false},
	}
	for _, tt := range tests {
		if got := PointInPolygon(poly, tt.p); got != tt.want {
			t.Errorf("PointInPolygon(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
	if PointInPolygon(poly[:2], Point2D{1, 1}) {
		t.Error("degenerate polygon must not contain points")
	}
}

func TestDistanceToSegment(t *testing.T) {
	a, b := NewPoint2D(0, 0), NewPoint2D(10, 0)
	if d := DistanceToSegment(NewPoint2D(5, 3), a, b); math.Abs(d-3) > 1e-9 {
		t.Errorf("perpendicular distance = %v", d)
	}
	if d := DistanceToSegment(NewPoint2D(13, 4), a, b); math.Abs(d-5) > 1e-9 {
		t.Errorf("endpoint distance = %v", d)
	}
	if d := DistanceToSegment(NewPoint2D(3, 4), a, a); math.Abs(d-5) > 1e-9 {
		t.Errorf("zero-length segment distance = %v", d)
	}
}

func TestNearOutline(t *testing.T) {
	square := NewRect(0, 0, 10, 10).Corners()
	if !NearOutline(square[:], NewPoint2D(0, 5.5), 1) {
		t.Error("point on left edge should be near")
	}
	if NearOutline(square[:], NewPoint2D(5, 5), 1) {
		t.Error("center should not be near the outline")
	}
}

func TestPointArithmetic(t *testing.T) {
	p := NewPoint2D(3, 4)
	if got := p.Add(NewPoint2D(1, 1)); got != (Point2D{4, 5}) {
		t.Errorf("Add = %v", got)
	}
	if got := p.Sub(NewPoint2D(1, 1)); got != (Point2D{2, 3}) {
		t.Errorf("Sub = %v", got)
	}
	if got := p.Scale(2); got != (Point2D{6, 8}) {
		t.Errorf("Scale = %v", got)
	}
	if got := p.Distance(Point2D{}); got != 5 {
		t.Errorf("Distance = %v", got)
	}
	if (Point2D{X: math.NaN()}).IsFinite() {
		t.Error("NaN point reported finite")
	}
}
