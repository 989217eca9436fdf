package scene

import (
	"image"
	"image/color"
	"io"
	"log/slog"
	"math"
	"slices"

	"github.com/gogpu/gg"

	"tagdraw/pkg/geometry"
)

// DefaultHitTolerance is the extra distance, in surface pixels, within which
// a pointer still hits a stroke.
const DefaultHitTolerance = 2.0

// node is the Stage implementation of Node.
type node struct {
	shape  Shape
	rect   geometry.Rect
	points []geometry.Point2D
	center geometry.Point2D
	radius float64

	text     string
	fontSize float64
	img      image.Image
	buf      *gg.ImageBuf

	style    Style
	handlers *Handlers
}

func (n *node) Shape() Shape { return n.shape }

func (n *node) Bounds() geometry.Rect {
	switch n.shape {
	case ShapePolygon:
		return geometry.BoundingBox(n.points)
	case ShapeCircle:
		return geometry.NewRect(n.center.X-n.radius, n.center.Y-n.radius, 2*n.radius, 2*n.radius)
	default:
		return n.rect
	}
}

// outline returns the closed outline of area shapes.
func (n *node) outline() []geometry.Point2D {
	switch n.shape {
	case ShapePolygon:
		return n.points
	case ShapeRect, ShapeText, ShapeBitmap:
		c := n.rect.Corners()
		return c[:]
	}
	return nil
}

// hit reports whether the logical point p lies on the node. Interiors only
// count when the node has a visible fill; strokes count within tol.
func (n *node) hit(p geometry.Point2D, tol float64) bool {
	filled := hasAlpha(n.style.Fill)
	switch n.shape {
	case ShapeCircle:
		d := n.center.Distance(p)
		if filled {
			return d <= n.radius+n.style.StrokeWidth/2+tol
		}
		if n.style.Stroke != nil {
			return math.Abs(d-n.radius) <= n.style.StrokeWidth/2+tol
		}
		return false
	case ShapeText, ShapeBitmap:
		return n.rect.Contains(p)
	}

	pts := n.outline()
	if filled && geometry.PointInPolygon(pts, p) {
		return true
	}
	if n.style.Stroke != nil {
		return geometry.NearOutline(pts, p, n.style.StrokeWidth/2+tol)
	}
	return false
}

func hasAlpha(c color.Color) bool {
	if c == nil {
		return false
	}
	_, _, _, a := c.RGBA()
	return a > 0
}

// StageOptions configures a Stage.
type StageOptions struct {
	// HitTolerance in surface pixels. Zero means DefaultHitTolerance.
	HitTolerance float64
	// Background is painted behind all children. Nil means transparent.
	Background color.Color
	Logger       *slog.Logger
}

// Stage is a retained scene: an ordered child list painted back to front,
// a global scale/offset transform, and pointer dispatch with hover tracking.
//
// Stage is not safe for concurrent use.
type Stage struct {
	children []*node
	scale    float64
	offset   geometry.Point2D

	hovered *node
	pressed *node

	tolerance  float64
	background color.Color
	fonts      *fontCache
	onRepaint  func()
	repaints   int
	logger     *slog.Logger
}

// NewStage creates an empty stage with the identity transform.
func NewStage(opts StageOptions) *Stage {
	s := &Stage{
		scale:      1,
		tolerance:  opts.HitTolerance,
		background: opts.Background,
		fonts:      newFontCache(),
		logger:     opts.Logger,
	}
	if s.tolerance <= 0 {
		s.tolerance = DefaultHitTolerance
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

// SetRepaintFunc registers a function called on every Repaint.
func (s *Stage) SetRepaintFunc(fn func()) {
	s.onRepaint = fn
}

// Repaints returns how many times Repaint has been called.
func (s *Stage) Repaints() int { return s.repaints }

// Repaint asks the host to redraw the stage.
func (s *Stage) Repaint() {
	s.repaints++
	if s.onRepaint != nil {
		s.onRepaint()
	}
}

// NewRect creates a rectangle primitive.
func (s *Stage) NewRect(r geometry.Rect, style Style) Node {
	return &node{shape: ShapeRect, rect: r, style: style}
}

// NewPolygon creates a closed polygon primitive. The points are copied.
func (s *Stage) NewPolygon(points []geometry.Point2D, style Style) Node {
	return &node{shape: ShapePolygon, points: slices.Clone(points), style: style}
}

// NewCircle creates a circle primitive.
func (s *Stage) NewCircle(center geometry.Point2D, radius float64, style Style) Node {
	return &node{shape: ShapeCircle, center: center, radius: radius, style: style}
}

// NewText creates a text primitive with its top-left corner at at.
func (s *Stage) NewText(text string, at geometry.Point2D, size float64, c color.Color) Node {
	w, h := s.MeasureText(text, size)
	return &node{
		shape:    ShapeText,
		rect:     geometry.NewRect(at.X, at.Y, w, h),
		text:     text,
		fontSize: size,
		style:    Style{Fill: c},
	}
}

// NewBitmap creates an image primitive at the logical origin.
func (s *Stage) NewBitmap(img image.Image) Node {
	b := img.Bounds()
	return &node{
		shape: ShapeBitmap,
		rect:  geometry.NewRect(0, 0, float64(b.Dx()), float64(b.Dy())),
		img:   img,
	}
}

// MeasureText returns the advance width and line height of text.
func (s *Stage) MeasureText(text string, size float64) (w, h float64) {
	return s.fonts.measure(text, size)
}

// Add appends n on top of all children. Adding a child already present
// moves it to the top.
func (s *Stage) Add(n Node) {
	s.AddAt(n, len(s.children))
}

// AddAt inserts n at index, clamped to the child range.
func (s *Stage) AddAt(n Node, index int) {
	nn, ok := n.(*node)
	if !ok || nn == nil {
		return
	}
	if i := s.indexOf(nn); i >= 0 {
		s.children = slices.Delete(s.children, i, i+1)
	}
	index = max(0, min(index, len(s.children)))
	s.children = slices.Insert(s.children, index, nn)
}

// Remove detaches n. It reports whether n was attached.
func (s *Stage) Remove(n Node) bool {
	nn, ok := n.(*node)
	if !ok {
		return false
	}
	i := s.indexOf(nn)
	if i < 0 {
		return false
	}
	s.children = slices.Delete(s.children, i, i+1)
	if s.hovered == nn {
		s.hovered = nil
	}
	if s.pressed == nn {
		s.pressed = nil
	}
	return true
}

// Contains reports whether n is attached.
func (s *Stage) Contains(n Node) bool {
	return s.IndexOf(n) >= 0
}

// IndexOf returns the paint index of n, or -1.
func (s *Stage) IndexOf(n Node) int {
	nn, ok := n.(*node)
	if !ok {
		return -1
	}
	return s.indexOf(nn)
}

func (s *Stage) indexOf(n *node) int {
	for i, c := range s.children {
		if c == n {
			return i
		}
	}
	return -1
}

// Children returns the attached nodes in paint order.
func (s *Stage) Children() []Node {
	out := make([]Node, len(s.children))
	for i, c := range s.children {
		out[i] = c
	}
	return out
}

// SetFillColor replaces the fill of n.
func (s *Stage) SetFillColor(n Node, c color.Color) {
	if nn, ok := n.(*node); ok {
		nn.style.Fill = c
	}
}

// SetRect moves and resizes a rectangle primitive.
func (s *Stage) SetRect(n Node, r geometry.Rect) {
	if nn, ok := n.(*node); ok && nn.shape == ShapeRect {
		nn.rect = r
	}
}

// Listen installs pointer handlers on n, replacing earlier ones.
func (s *Stage) Listen(n Node, h Handlers) {
	if nn, ok := n.(*node); ok {
		hc := h
		nn.handlers = &hc
	}
}

// SetTransform sets the global scale and offset: raw = local*scale + offset.
func (s *Stage) SetTransform(scale float64, offset geometry.Point2D) {
	if scale > 0 {
		s.scale = scale
	}
	s.offset = offset
}

// Transform returns the global scale and offset.
func (s *Stage) Transform() (float64, geometry.Point2D) {
	return s.scale, s.offset
}

// ToLocal converts a surface position into scene coordinates.
func (s *Stage) ToLocal(raw geometry.Point2D) geometry.Point2D {
	return raw.Sub(s.offset).Scale(1 / s.scale)
}

// HitTest returns the topmost listening node under the surface position raw.
func (s *Stage) HitTest(raw geometry.Point2D) (Node, bool) {
	n := s.hitTest(s.ToLocal(raw))
	if n == nil {
		return nil, false
	}
	return n, true
}

func (s *Stage) hitTest(p geometry.Point2D) *node {
	tol := s.tolerance / s.scale
	for i := len(s.children) - 1; i >= 0; i-- {
		c := s.children[i]
		if c.handlers == nil {
			continue
		}
		if c.hit(p, tol) {
			return c
		}
	}
	return nil
}

// Dispatch delivers ev to the listening nodes under it: Enter and Leave when
// the hovered node changes, PointerDown on press and Click when press and
// release land on the same node.
func (s *Stage) Dispatch(ev PointerEvent) bool {
	ev.Local = s.ToLocal(ev.Raw)

	if ev.Kind == PointerLeave {
		s.setHovered(nil, ev)
		s.pressed = nil
		return false
	}

	target := s.hitTest(ev.Local)
	s.setHovered(target, ev)

	switch ev.Kind {
	case PointerDown:
		s.pressed = target
		if target != nil && target.handlers.PointerDown != nil {
			target.handlers.PointerDown(ev)
		}
	case PointerUp:
		pressed := s.pressed
		s.pressed = nil
		if target != nil && target == pressed && target.handlers.Click != nil {
			target.handlers.Click(ev)
		}
	}
	return target != nil
}

func (s *Stage) setHovered(target *node, ev PointerEvent) {
	if target == s.hovered {
		return
	}
	prev := s.hovered
	s.hovered = target
	if prev != nil && prev.handlers != nil && prev.handlers.Leave != nil {
		prev.handlers.Leave(ev)
	}
	if target != nil && target.handlers.Enter != nil {
		target.handlers.Enter(ev)
	}
}
