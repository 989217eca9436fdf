package render

import (
	"image/color"

	"tagdraw/internal/annotation"
	"tagdraw/internal/scene"
	"tagdraw/pkg/colorutil"
	"tagdraw/pkg/geometry"
)

// DrawableSet is the bundle of primitives drawn for one annotation.
// The renderer rebuilds a set in place so a (record, set) pair handed out
// earlier stays valid.
type DrawableSet struct {
	Outline         scene.Node
	LabelBackground scene.Node
	LabelText       scene.Node
	Handles         []scene.Node
}

// Nodes returns every primitive in the set.
func (d *DrawableSet) Nodes() []scene.Node {
	if d == nil {
		return nil
	}
	out := make([]scene.Node, 0, 3+len(d.Handles))
	for _, n := range []scene.Node{d.Outline, d.LabelBackground, d.LabelText} {
		if n != nil {
			out = append(out, n)
		}
	}
	return append(out, d.Handles...)
}

// Renderer maps annotations to primitives on a scene.
type Renderer struct {
	sc   scene.Scene
	opts Options
}

// New creates a renderer drawing on sc.
func New(sc scene.Scene, opts Options) *Renderer {
	return &Renderer{sc: sc, opts: opts.withDefaults()}
}

// Options returns the drawing constants in use.
func (r *Renderer) Options() Options { return r.opts }

// SetOptions replaces the drawing constants. Existing primitives keep their
// look until rebuilt.
func (r *Renderer) SetOptions(opts Options) {
	r.opts = opts.withDefaults()
}

// Build creates the outline and label of a. Nothing is attached to the scene.
func (r *Renderer) Build(a *annotation.Annotation) *DrawableSet {
	set := &DrawableSet{}
	r.Rebuild(a, set)
	return set
}

// Rebuild replaces the primitives in set with fresh ones for a, detaching
// the old ones. If the old outline was attached the new one takes its paint
// index, and label and handles follow the record's flags.
func (r *Renderer) Rebuild(a *annotation.Annotation, set *DrawableSet) {
	index := -1
	if set.Outline != nil {
		index = r.sc.IndexOf(set.Outline)
	}
	r.Detach(set)

	set.Outline = r.BuildOutline(a)
	set.LabelBackground, set.LabelText = r.BuildLabel(a.Label, LabelAnchor(a.Geometry, r.opts.LabelHeight))
	set.Handles = nil
	if a.Selected {
		set.Handles = r.BuildHandles(a.Geometry)
	}

	if index < 0 {
		return
	}
	r.sc.AddAt(set.Outline, index)
	if a.LabelVisible {
		r.ShowLabel(set)
	}
	for _, h := range set.Handles {
		r.sc.Add(h)
	}
}

// Attach adds the set's primitives to the scene in paint order: outline,
// label when visible, handles when selected.
func (r *Renderer) Attach(a *annotation.Annotation, set *DrawableSet) {
	if set == nil {
		return
	}
	if set.Outline != nil {
		r.sc.Add(set.Outline)
	}
	if a.LabelVisible {
		r.ShowLabel(set)
	}
	if a.Selected {
		for _, h := range set.Handles {
			r.sc.Add(h)
		}
	}
}

// Detach removes every primitive of set from the scene.
func (r *Renderer) Detach(set *DrawableSet) {
	for _, n := range set.Nodes() {
		r.sc.Remove(n)
	}
}

// BuildOutline creates the closed outline of a. The interior always gets a
// fill so the primitive receives pointer hits: the annotation color at
// FillAlpha when filled, the near-transparent placeholder otherwise.
func (r *Renderer) BuildOutline(a *annotation.Annotation) scene.Node {
	style := scene.Style{
		Fill:        r.fillColor(a),
		Stroke:      colorutil.MustParseHex(a.Color, colorutil.Black),
		StrokeWidth: r.opts.StrokeWidth,
	}
	if a.Geometry.Kind == annotation.KindRect {
		return r.sc.NewRect(a.Geometry.Rect(), style)
	}
	return r.sc.NewPolygon(a.Geometry.Points, style)
}

func (r *Renderer) fillColor(a *annotation.Annotation) color.Color {
	if a.IsFilled {
		return r.filledColor(a.Color)
	}
	return r.placeholder()
}

func (r *Renderer) filledColor(hex string) color.Color {
	s, err := colorutil.WithAlphaSuffix(hex, r.opts.FillAlpha)
	if err != nil {
		return r.placeholder()
	}
	return colorutil.MustParseHex(s, colorutil.Transparent)
}

func (r *Renderer) placeholder() color.Color {
	return colorutil.MustParseHex(r.opts.EmptyAreaColor, color.NRGBA{A: 2})
}

// ApplyFill switches a to the filled look. It reports false without
// changing anything if a is already filled.
func (r *Renderer) ApplyFill(a *annotation.Annotation, set *DrawableSet) bool {
	if a.IsFilled {
		return false
	}
	a.IsFilled = true
	if set != nil && set.Outline != nil {
		r.sc.SetFillColor(set.Outline, r.filledColor(a.Color))
	}
	return true
}

// RemoveFill restores the placeholder fill. It reports false without
// changing anything if a is not filled.
func (r *Renderer) RemoveFill(a *annotation.Annotation, set *DrawableSet) bool {
	if !a.IsFilled {
		return false
	}
	a.IsFilled = false
	if set != nil && set.Outline != nil {
		r.sc.SetFillColor(set.Outline, r.placeholder())
	}
	return true
}

// LabelAnchor returns the top-left corner of the label box: labelHeight
// above the rect's top-left corner, or above the polygon's independent
// minimum X and minimum Y.
func LabelAnchor(g annotation.Geometry, labelHeight float64) geometry.Point2D {
	var corner geometry.Point2D
	if g.Kind == annotation.KindRect {
		corner = g.Rect().TopLeft()
	} else {
		corner = geometry.MinCorner(g.Points)
	}
	return geometry.Point2D{X: corner.X, Y: corner.Y - labelHeight}
}

// BuildLabel creates the label background and text at anchor. Blank text is
// drawn as a single space.
func (r *Renderer) BuildLabel(text string, anchor geometry.Point2D) (bg, txt scene.Node) {
	text = annotation.NormalizeLabel(text)
	pad := r.opts.LabelPadding

	w, _ := r.sc.MeasureText(text, r.opts.LabelFontSize)
	bg = r.sc.NewRect(
		geometry.NewRect(anchor.X, anchor.Y, w+2*pad, r.opts.LabelHeight),
		scene.Style{Fill: r.opts.LabelBackground},
	)
	txt = r.sc.NewText(text, anchor.Add(geometry.Point2D{X: pad, Y: pad}), r.opts.LabelFontSize, r.opts.LabelText)
	return bg, txt
}

// ShowLabel attaches the label primitives on top of the scene.
func (r *Renderer) ShowLabel(set *DrawableSet) {
	if set.LabelBackground != nil {
		r.sc.Add(set.LabelBackground)
	}
	if set.LabelText != nil {
		r.sc.Add(set.LabelText)
	}
}

// HideLabel detaches the label primitives.
func (r *Renderer) HideLabel(set *DrawableSet) {
	if set.LabelBackground != nil {
		r.sc.Remove(set.LabelBackground)
	}
	if set.LabelText != nil {
		r.sc.Remove(set.LabelText)
	}
}

// RelabelSet replaces the label primitives of set with ones showing text,
// keeping them attached if the old ones were.
func (r *Renderer) RelabelSet(a *annotation.Annotation, set *DrawableSet) {
	visible := set.LabelBackground != nil && r.sc.Contains(set.LabelBackground)
	r.HideLabel(set)
	set.LabelBackground, set.LabelText = r.BuildLabel(a.Label, LabelAnchor(a.Geometry, r.opts.LabelHeight))
	if visible {
		r.ShowLabel(set)
	}
}

// BuildHandles creates one circular handle per outline vertex: the four
// corners of a rect (white with a black ring) or each polygon vertex
// (solid black).
func (r *Renderer) BuildHandles(g annotation.Geometry) []scene.Node {
	style := scene.Style{Fill: colorutil.Black}
	if g.Kind == annotation.KindRect {
		style = scene.Style{Fill: colorutil.White, Stroke: colorutil.Black, StrokeWidth: r.opts.StrokeWidth}
	}

	verts := g.Vertices()
	handles := make([]scene.Node, len(verts))
	for i, v := range verts {
		handles[i] = r.sc.NewCircle(v, r.opts.HandleRadius, style)
	}
	return handles
}

// ShowHandles builds and attaches handles for a.
func (r *Renderer) ShowHandles(a *annotation.Annotation, set *DrawableSet) {
	r.HideHandles(set)
	set.Handles = r.BuildHandles(a.Geometry)
	for _, h := range set.Handles {
		r.sc.Add(h)
	}
}

// HideHandles detaches and drops the handles of set.
func (r *Renderer) HideHandles(set *DrawableSet) {
	for _, h := range set.Handles {
		r.sc.Remove(h)
	}
	set.Handles = nil
}

// PreviewRect creates the zero-size rectangle shown while dragging out a new
// box from start.
func (r *Renderer) PreviewRect(start geometry.Point2D) scene.Node {
	return r.sc.NewRect(geometry.NewRect(start.X, start.Y, 0, 0), scene.Style{
		Fill:        r.placeholder(),
		Stroke:      colorutil.MustParseHex(r.opts.DragLineColor, colorutil.White),
		StrokeWidth: r.opts.StrokeWidth,
	})
}

// UpdatePreview resizes a preview rectangle to span start and current.
func (r *Renderer) UpdatePreview(n scene.Node, start, current geometry.Point2D) {
	r.sc.SetRect(n, geometry.RectFromCorners(start, current))
}
