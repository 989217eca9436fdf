package scene

import (
	"image/color"
	"testing"

	"tagdraw/pkg/geometry"
)

var (
	red         = color.NRGBA{R: 255, A: 255}
	placeholder = color.NRGBA{A: 2}
)

func pt(x, y float64) geometry.Point2D { return geometry.NewPoint2D(x, y) }

type recorder struct {
	events []string
}

func (r *recorder) handlers(name string) Handlers {
	return Handlers{
		PointerDown: func(PointerEvent) { r.events = append(r.events, name+":down") },
		Enter:       func(PointerEvent) { r.events = append(r.events, name+":enter") },
		Leave:       func(PointerEvent) { r.events = append(r.events, name+":leave") },
		Click:       func(PointerEvent) { r.events = append(r.events, name+":click") },
	}
}

func (r *recorder) take() []string {
	ev := r.events
	r.events = nil
	return ev
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNodeHit(t *testing.T) {
	s := NewStage(StageOptions{HitTolerance: 1})
	outlineOnly := s.NewRect(geometry.NewRect(0, 0, 100, 100), Style{Stroke: red, StrokeWidth: 2})
	placeholderFill := s.NewRect(geometry.NewRect(0, 0, 100, 100), Style{Fill: placeholder, Stroke: red, StrokeWidth: 2})
	poly := s.NewPolygon([]geometry.Point2D{pt(0, 0), pt(100, 0), pt(0, 100)}, Style{Fill: placeholder})
	circle := s.NewCircle(pt(50, 50), 5, Style{Fill: color.White, Stroke: color.Black, StrokeWidth: 2})

	tests := []struct {
		name string
		n    Node
		p    geometry.Point2D
		want bool
	}{
		{"outline interior", outlineOnly, pt(50, 50), false},
		{"outline edge", outlineOnly, pt(100.5, 50), true},
		{"placeholder interior", placeholderFill, pt(50, 50), true},
		{"placeholder outside", placeholderFill, pt(150, 50), false},
		{"polygon inside", poly, pt(10, 10), true},
		{"polygon outside hypotenuse", poly, pt(80, 80), false},
		{"circle center", circle, pt(50, 50), true},
		{"circle outside", circle, pt(60, 50), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.n.(*node).hit(tt.p, 1); got != tt.want {
				t.Errorf("hit(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestAddRemoveOrder(t *testing.T) {
	s := NewStage(StageOptions{})
	a := s.NewRect(geometry.NewRect(0, 0, 1, 1), Style{})
	b := s.NewRect(geometry.NewRect(0, 0, 1, 1), Style{})
	c := s.NewRect(geometry.NewRect(0, 0, 1, 1), Style{})

	s.Add(a)
	s.Add(b)
	s.AddAt(c, 0)
	if s.IndexOf(c) != 0 || s.IndexOf(a) != 1 || s.IndexOf(b) != 2 {
		t.Fatalf("order = %v %v %v", s.IndexOf(a), s.IndexOf(b), s.IndexOf(c))
	}

	// Re-adding moves to the top instead of duplicating.
	s.Add(c)
	if len(s.Children()) != 3 || s.IndexOf(c) != 2 {
		t.Fatalf("re-add: children %d, index %d", len(s.Children()), s.IndexOf(c))
	}

	if !s.Remove(a) || s.Remove(a) {
		t.Error("Remove should succeed once")
	}
	if s.Contains(a) || !s.Contains(b) {
		t.Error("Contains mismatch")
	}
	if s.Remove(nil) {
		t.Error("removing nil succeeded")
	}
}

func TestDispatch_HoverAndClick(t *testing.T) {
	s := NewStage(StageOptions{})
	rec := &recorder{}

	box := s.NewRect(geometry.NewRect(10, 10, 50, 50), Style{Fill: placeholder, Stroke: red, StrokeWidth: 2})
	s.Listen(box, rec.handlers("box"))
	s.Add(box)

	s.Dispatch(PointerEvent{Kind: PointerMove, Raw: pt(0, 0)})
	if ev := rec.take(); len(ev) != 0 {
		t.Fatalf("unexpected events %v", ev)
	}

	s.Dispatch(PointerEvent{Kind: PointerMove, Raw: pt(30, 30)})
	s.Dispatch(PointerEvent{Kind: PointerMove, Raw: pt(31, 30)})
	if ev := rec.take(); !equal(ev, []string{"box:enter"}) {
		t.Fatalf("enter events %v", ev)
	}

	if hit := s.Dispatch(PointerEvent{Kind: PointerDown, Raw: pt(30, 30)}); !hit {
		t.Error("down not reported as hit")
	}
	s.Dispatch(PointerEvent{Kind: PointerUp, Raw: pt(32, 32)})
	if ev := rec.take(); !equal(ev, []string{"box:down", "box:click"}) {
		t.Fatalf("click events %v", ev)
	}

	// Press inside, release outside: no click.
	s.Dispatch(PointerEvent{Kind: PointerDown, Raw: pt(30, 30)})
	s.Dispatch(PointerEvent{Kind: PointerUp, Raw: pt(200, 200)})
	if ev := rec.take(); !equal(ev, []string{"box:down", "box:leave"}) {
		t.Fatalf("drag-out events %v", ev)
	}

	s.Dispatch(PointerEvent{Kind: PointerMove, Raw: pt(30, 30)})
	s.Dispatch(PointerEvent{Kind: PointerLeave, Raw: pt(-1, -1)})
	if ev := rec.take(); !equal(ev, []string{"box:enter", "box:leave"}) {
		t.Fatalf("leave events %v", ev)
	}
}

func TestDispatch_TopmostWins(t *testing.T) {
	s := NewStage(StageOptions{})
	rec := &recorder{}

	under := s.NewRect(geometry.NewRect(0, 0, 100, 100), Style{Fill: placeholder})
	over := s.NewCircle(pt(50, 50), 5, Style{Fill: color.White})
	s.Listen(under, rec.handlers("under"))
	s.Listen(over, rec.handlers("over"))
	s.Add(under)
	s.Add(over)

	s.Dispatch(PointerEvent{Kind: PointerDown, Raw: pt(50, 50)})
	if ev := rec.take(); !equal(ev, []string{"over:enter", "over:down"}) {
		t.Fatalf("events %v", ev)
	}
	s.Dispatch(PointerEvent{Kind: PointerMove, Raw: pt(20, 20)})
	if ev := rec.take(); !equal(ev, []string{"over:leave", "under:enter"}) {
		t.Fatalf("events %v", ev)
	}
}

func TestDispatch_NonListeningIgnored(t *testing.T) {
	s := NewStage(StageOptions{})
	rec := &recorder{}

	shape := s.NewRect(geometry.NewRect(0, 0, 100, 100), Style{Fill: placeholder})
	label := s.NewRect(geometry.NewRect(0, 0, 100, 20), Style{Fill: color.Black})
	s.Listen(shape, rec.handlers("shape"))
	s.Add(shape)
	s.Add(label)

	s.Dispatch(PointerEvent{Kind: PointerMove, Raw: pt(10, 10)})
	if ev := rec.take(); !equal(ev, []string{"shape:enter"}) {
		t.Fatalf("events %v", ev)
	}
}

func TestDispatch_UsesTransform(t *testing.T) {
	s := NewStage(StageOptions{})
	rec := &recorder{}
	box := s.NewRect(geometry.NewRect(10, 10, 10, 10), Style{Fill: placeholder})
	s.Listen(box, rec.handlers("box"))
	s.Add(box)

	s.SetTransform(2, pt(-10, -10))
	// Local (15,15) is raw (20,20).
	s.Dispatch(PointerEvent{Kind: PointerMove, Raw: pt(20, 20)})
	if ev := rec.take(); !equal(ev, []string{"box:enter"}) {
		t.Fatalf("events %v", ev)
	}
	if got := s.ToLocal(pt(20, 20)); got != pt(15, 15) {
		t.Errorf("ToLocal = %v", got)
	}
	if _, ok := s.HitTest(pt(100, 100)); ok {
		t.Error("HitTest outside reported a node")
	}
}

func TestRemove_ClearsHoverSilently(t *testing.T) {
	s := NewStage(StageOptions{})
	rec := &recorder{}
	box := s.NewRect(geometry.NewRect(0, 0, 10, 10), Style{Fill: placeholder})
	s.Listen(box, rec.handlers("box"))
	s.Add(box)

	s.Dispatch(PointerEvent{Kind: PointerMove, Raw: pt(5, 5)})
	rec.take()
	s.Remove(box)
	s.Dispatch(PointerEvent{Kind: PointerMove, Raw: pt(50, 50)})
	if ev := rec.take(); len(ev) != 0 {
		t.Fatalf("events after removal %v", ev)
	}
}

func TestSetFillAndRect(t *testing.T) {
	s := NewStage(StageOptions{})
	r := s.NewRect(geometry.NewRect(0, 0, 1, 1), Style{})
	s.SetFillColor(r, red)
	s.SetRect(r, geometry.NewRect(5, 5, 10, 10))
	n := r.(*node)
	if n.style.Fill != color.Color(red) {
		t.Errorf("fill = %v", n.style.Fill)
	}
	if r.Bounds() != geometry.NewRect(5, 5, 10, 10) {
		t.Errorf("bounds = %v", r.Bounds())
	}
}

func TestRepaintFunc(t *testing.T) {
	s := NewStage(StageOptions{})
	calls := 0
	s.SetRepaintFunc(func() { calls++ })
	s.Repaint()
	s.Repaint()
	if calls != 2 || s.Repaints() != 2 {
		t.Errorf("calls %d repaints %d", calls, s.Repaints())
	}
}

func TestMeasureText(t *testing.T) {
	s := NewStage(StageOptions{})
	w1, h := s.MeasureText("A", 12)
	w4, _ := s.MeasureText("AAAA", 12)
	if w1 <= 0 || h <= 0 {
		t.Fatalf("measure = %v x %v", w1, h)
	}
	if w4 <= w1 {
		t.Errorf("wider text measured %v <= %v", w4, w1)
	}
	if sp, _ := s.MeasureText(" ", 12); sp <= 0 {
		t.Errorf("space width = %v", sp)
	}
}
