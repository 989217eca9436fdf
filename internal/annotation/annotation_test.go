package annotation

import (
	"errors"
	"math"
	"testing"

	"tagdraw/pkg/colorutil"
	"tagdraw/pkg/geometry"
)

func TestNewRect_Normalizes(t *testing.T) {
	g, err := NewRect(100, 80, 10, 20)
	if err != nil {
		t.Fatal(err)
	}
	want := []geometry.Point2D{{X: 10, Y: 20}, {X: 100, Y: 80}}
	if g.Points[0] != want[0] || g.Points[1] != want[1] {
		t.Fatalf("points = %v, want %v", g.Points, want)
	}
	r := g.Rect()
	if r.Width != 90 || r.Height != 60 {
		t.Errorf("rect = %+v", r)
	}
}

func TestGeometry_Invalid(t *testing.T) {
	tests := []struct {
		name string
		fn   func() (Geometry, error)
	}{
		{"rect 3 values", func() (Geometry, error) { return RectFromValues([]float64{1, 2, 3}) }},
		{"rect NaN", func() (Geometry, error) { return NewRect(math.NaN(), 0, 1, 1) }},
		{"polygon 2 points", func() (Geometry, error) {
			return PolygonFromPairs([][2]float64{{0, 0}, {1, 1}})
		}},
		{"polygon inf", func() (Geometry, error) {
			return PolygonFromPairs([][2]float64{{0, 0}, {1, 1}, {math.Inf(1), 2}})
		}},
		{"unknown kind", func() (Geometry, error) {
			g := Geometry{Kind: 7, Points: []geometry.Point2D{{}, {}}}
			return g, g.Validate()
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.fn(); !errors.Is(err, ErrInvalidGeometry) {
				t.Errorf("err = %v, want ErrInvalidGeometry", err)
			}
		})
	}
}

func TestPolygon_CopiesPoints(t *testing.T) {
	pts := []geometry.Point2D{{X: 20, Y: 20}, {X: 150, Y: 260}, {X: 100, Y: 30}}
	g, err := NewPolygon(pts)
	if err != nil {
		t.Fatal(err)
	}
	pts[0].X = 999
	if g.Points[0].X != 20 {
		t.Error("polygon aliases caller slice")
	}
}

func TestVertices(t *testing.T) {
	g, _ := NewRect(0, 0, 10, 20)
	v := g.Vertices()
	if len(v) != 4 || v[2] != (geometry.Point2D{X: 10, Y: 20}) {
		t.Errorf("rect vertices = %v", v)
	}

	p, _ := PolygonFromPairs([][2]float64{{0, 0}, {5, 5}, {0, 5}, {-1, 2}})
	if len(p.Vertices()) != 4 {
		t.Errorf("polygon vertices = %v", p.Vertices())
	}
}

func TestMoveVertex(t *testing.T) {
	g, _ := NewRect(0, 0, 10, 10)

	// Drag top-left past the bottom-right corner.
	moved, err := g.MoveVertex(0, geometry.Point2D{X: 20, Y: 15})
	if err != nil {
		t.Fatal(err)
	}
	if r := moved.Rect(); r != geometry.NewRect(10, 10, 10, 5) {
		t.Errorf("rect = %+v", r)
	}

	poly, _ := PolygonFromPairs([][2]float64{{0, 0}, {10, 0}, {5, 10}})
	moved, err = poly.MoveVertex(2, geometry.Point2D{X: 5, Y: 20})
	if err != nil {
		t.Fatal(err)
	}
	if moved.Points[2] != (geometry.Point2D{X: 5, Y: 20}) || poly.Points[2].Y != 10 {
		t.Errorf("polygon move = %v (orig %v)", moved.Points, poly.Points)
	}

	if _, err := poly.MoveVertex(3, geometry.Point2D{}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("err = %v", err)
	}
}

func TestNew_Defaults(t *testing.T) {
	g, _ := NewRect(0, 0, 100, 100)
	a, err := New(g, "#ff0000", "")
	if err != nil {
		t.Fatal(err)
	}
	if a.IsFilled || a.Selected || a.LabelVisible {
		t.Errorf("flags not cleared: %+v", a)
	}
	if a.Label != " " {
		t.Errorf("label = %q", a.Label)
	}

	if _, err := New(Geometry{Kind: KindPolygon}, "#fff", "x"); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("err = %v", err)
	}
}

func TestNormalizeLabel(t *testing.T) {
	for in, want := range map[string]string{"": " ", "   ": " ", "\t": " ", "A": "A", " B ": " B "} {
		if got := NormalizeLabel(in); got != want {
			t.Errorf("NormalizeLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func mustRecord(t *testing.T, x float64) *Annotation {
	t.Helper()
	g, err := NewRect(x, 0, x+10, 10)
	if err != nil {
		t.Fatal(err)
	}
	a, err := New(g, "#00ff00", "r")
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestStore_Lockstep(t *testing.T) {
	s := NewStore[string]()
	a0, a1, a2 := mustRecord(t, 0), mustRecord(t, 1), mustRecord(t, 2)
	s.Append(a0, "s0")
	s.Append(a1, "s1")
	if i := s.Append(a2, "s2"); i != 2 {
		t.Fatalf("index = %d", i)
	}

	got, set, err := s.RemoveAt(1)
	if err != nil {
		t.Fatal(err)
	}
	if got != a1 || set != "s1" {
		t.Errorf("removed %v %q", got, set)
	}
	if s.Len() != 2 {
		t.Fatalf("len = %d", s.Len())
	}
	for i, want := range []struct {
		a   *Annotation
		set string
	}{{a0, "s0"}, {a2, "s2"}} {
		a, set, _ := s.At(i)
		if a != want.a || set != want.set {
			t.Errorf("index %d: %v %q", i, a, set)
		}
	}
	if s.IndexOf(a2) != 1 || s.IndexOf(a1) != -1 {
		t.Error("IndexOf mismatch")
	}
}

func TestStore_OutOfRange(t *testing.T) {
	s := NewStore[int]()
	s.Append(mustRecord(t, 0), 1)
	for _, i := range []int{-1, 1, 5} {
		if _, _, err := s.At(i); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("At(%d) err = %v", i, err)
		}
		if _, _, err := s.RemoveAt(i); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("RemoveAt(%d) err = %v", i, err)
		}
		if err := s.SetAt(i, 0); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("SetAt(%d) err = %v", i, err)
		}
	}
	if s.Len() != 1 {
		t.Error("failed removal changed the store")
	}
}

func TestStore_ReplaceAll(t *testing.T) {
	s := NewStore[string]()
	s.Append(mustRecord(t, 0), "old0")
	s.Append(mustRecord(t, 1), "old1")

	bad := []*Annotation{mustRecord(t, 5), {Geometry: Geometry{Kind: KindPolygon}}}
	if _, err := s.ReplaceAll(bad); !errors.Is(err, ErrInvalidGeometry) {
		t.Fatalf("err = %v", err)
	}
	if s.Len() != 2 {
		t.Fatal("failed ReplaceAll changed the store")
	}

	old, err := s.ReplaceAll([]*Annotation{mustRecord(t, 9)})
	if err != nil {
		t.Fatal(err)
	}
	if len(old) != 2 || old[0] != "old0" || old[1] != "old1" {
		t.Errorf("old sets = %v", old)
	}
	_, set, _ := s.At(0)
	if s.Len() != 1 || set != "" {
		t.Errorf("len %d set %q", s.Len(), set)
	}
}

func TestStore_RecordsIsCopy(t *testing.T) {
	s := NewStore[int]()
	s.Append(mustRecord(t, 0), 0)
	r := s.Records()
	r[0] = nil
	if a, _, _ := s.At(0); a == nil {
		t.Error("Records exposes internal slice")
	}
}

func TestStore_ReplaceAllNormalizes(t *testing.T) {
	s := NewStore[int]()
	rec := &Annotation{
		Geometry: Geometry{Kind: KindRect, Points: []geometry.Point2D{{X: 50, Y: 40}, {X: 10, Y: 5}}},
		Color:    "#ff0000",
		Label:    "  ",
	}
	if _, err := s.ReplaceAll([]*Annotation{rec}); err != nil {
		t.Fatal(err)
	}
	want := []geometry.Point2D{{X: 10, Y: 5}, {X: 50, Y: 40}}
	if rec.Geometry.Points[0] != want[0] || rec.Geometry.Points[1] != want[1] {
		t.Errorf("points = %v, want %v", rec.Geometry.Points, want)
	}
	if rec.Label != " " {
		t.Errorf("label = %q", rec.Label)
	}
}

func TestStore_ReplaceAllRejectsColor(t *testing.T) {
	s := NewStore[int]()
	s.Append(mustRecord(t, 0), 1)

	for _, c := range []string{"", "red", "#12345"} {
		blank := mustRecord(t, 1)
		blank.Label = ""
		bad := mustRecord(t, 2)
		bad.Color = c
		if _, err := s.ReplaceAll([]*Annotation{blank, bad}); !errors.Is(err, colorutil.ErrInvalidColor) {
			t.Errorf("color %q: err = %v", c, err)
		}
		if blank.Label != "" {
			t.Errorf("color %q: rejected list was normalized", c)
		}
	}
	if s.Len() != 1 {
		t.Errorf("len = %d", s.Len())
	}
}

func TestNew_RejectsColor(t *testing.T) {
	g, _ := NewRect(0, 0, 1, 1)
	if _, err := New(g, "blue", "x"); !errors.Is(err, colorutil.ErrInvalidColor) {
		t.Errorf("err = %v", err)
	}
}
