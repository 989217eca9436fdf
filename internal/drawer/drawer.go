// Package drawer is the annotation editor facade: it owns the annotation
// store, the viewport and the interaction machine, and exposes the
// operations and callbacks an integrator uses.
package drawer

import (
	"fmt"
	"image"
	"io"
	"log/slog"

	"tagdraw/internal/annotation"
	"tagdraw/internal/interact"
	"tagdraw/internal/render"
	"tagdraw/internal/scene"
	"tagdraw/internal/viewport"
	"tagdraw/pkg/geometry"
)

// ShapeCallback receives an annotation and its drawable set.
type ShapeCallback func(data *annotation.Annotation, set *render.DrawableSet)

// Options configures a Drawer.
type Options struct {
	Render render.Options
	// ScaleStep is the wheel zoom increment. Zero means viewport.DefaultStep.
	ScaleStep float64
	// MaxScale caps zoom. Zero means viewport.DefaultMaxScale.
	MaxScale float64
	// CursorPointer shows a pointer cursor over annotations.
	CursorPointer bool
	Logger        *slog.Logger
}

// DefaultOptions returns the stock configuration.
func DefaultOptions() Options {
	return Options{
		Render:        render.DefaultOptions(),
		ScaleStep:     viewport.DefaultStep,
		MaxScale:      viewport.DefaultMaxScale,
		CursorPointer: true,
	}
}

// Drawer edits rectangle and polygon annotations drawn over an image.
//
// Drawer is single threaded: call every method from the thread delivering
// input events.
type Drawer struct {
	sc       scene.Scene
	vp       *viewport.Viewport
	renderer *render.Renderer
	machine  *interact.Machine
	store    *annotation.Store[*render.DrawableSet]
	logger   *slog.Logger

	bitmap scene.Node

	hoverShape  *annotation.Annotation
	hoverHandle *annotation.Annotation
	dragAnchor  geometry.Point2D
	lastScale   float64

	onShapeHover    ShapeCallback
	onShapeLeave    ShapeCallback
	onShapeClick    ShapeCallback
	onTagAreaChange ShapeCallback
	onDragEnd       func(interact.DragEvent)
	onScaleChange   func(scale float64)
	onCursorChange  func(interact.CursorHint)
}

// New creates a drawer painting on sc.
func New(sc scene.Scene, opts Options) *Drawer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	d := &Drawer{
		sc:       sc,
		vp:       viewport.New(viewport.Options{MaxScale: opts.MaxScale, Logger: logger}),
		renderer: render.New(sc, opts.Render),
		store:    annotation.NewStore[*render.DrawableSet](),
		logger:   logger,
	}
	d.machine = interact.New(interact.Options{
		Viewport:      d.vp,
		Scene:         sc,
		Renderer:      d.renderer,
		ScaleStep:     opts.ScaleStep,
		CursorPointer: opts.CursorPointer,
		Logger:        logger,
	})
	d.lastScale = d.vp.Scale()

	d.machine.OnDragEnd(d.dragEnded)
	d.machine.OnCursorChange(func(c interact.CursorHint) {
		if d.onCursorChange != nil {
			d.onCursorChange(c)
		}
	})
	d.machine.OnViewChange(d.viewChanged)
	d.machine.OnHandleMove(d.handleMoved)
	d.machine.OnHandleDragEnd(d.handleDragEnded)
	d.machine.SyncView()
	return d
}

// Apply changes drawing constants, zoom limits and the cursor switch, then
// redraws every rendered annotation.
func (d *Drawer) Apply(opts Options) {
	d.renderer.SetOptions(opts.Render)
	d.machine.SetScaleStep(opts.ScaleStep)
	d.vp.SetMaxScale(opts.MaxScale)
	d.machine.SetCursorPointer(opts.CursorPointer)
	if opts.Logger != nil {
		d.logger = opts.Logger
		d.vp.SetLogger(opts.Logger)
	}
	for i, set := range d.store.Sets() {
		if set == nil {
			continue
		}
		if err := d.Redraw(At(i)); err != nil {
			d.logger.Error("redraw failed", "index", i, "error", err)
		}
	}
	d.sc.Repaint()
}

// Scene returns the scene the drawer paints on.
func (d *Drawer) Scene() scene.Scene { return d.sc }

// Viewport returns the viewport state.
func (d *Drawer) Viewport() *viewport.Viewport { return d.vp }

// State returns the interaction mode.
func (d *Drawer) State() interact.State { return d.machine.State() }

// Cursor returns the cursor the host should show.
func (d *Drawer) Cursor() interact.CursorHint { return d.machine.Cursor() }

// OnShapeHover registers the callback fired when the pointer enters an annotation.
func (d *Drawer) OnShapeHover(callback ShapeCallback) { d.onShapeHover = callback }

// OnShapeLeave registers the callback fired when the pointer leaves an annotation.
func (d *Drawer) OnShapeLeave(callback ShapeCallback) { d.onShapeLeave = callback }

// OnShapeClick registers the callback fired when an annotation is clicked.
func (d *Drawer) OnShapeClick(callback ShapeCallback) { d.onShapeClick = callback }

// OnDefaultDraggingEnd registers the callback fired when a box drag on empty
// canvas ends. The callback decides whether to keep the box (AppendData) and
// must call ev.Clear to remove the preview.
func (d *Drawer) OnDefaultDraggingEnd(callback func(ev interact.DragEvent)) { d.onDragEnd = callback }

// OnTagAreaChange registers the callback fired after a resize handle drag
// changed an annotation's geometry.
func (d *Drawer) OnTagAreaChange(callback ShapeCallback) { d.onTagAreaChange = callback }

// OnScaleChange registers the callback fired when the zoom scale changes.
func (d *Drawer) OnScaleChange(callback func(scale float64)) { d.onScaleChange = callback }

// OnCursorChange registers the callback fired when the cursor hint changes.
func (d *Drawer) OnCursorChange(callback func(interact.CursorHint)) { d.onCursorChange = callback }

// SetCursorPointer turns the pointer cursor over annotations on or off.
func (d *Drawer) SetCursorPointer(on bool) { d.machine.SetCursorPointer(on) }

// SetImage shows img as the background at the bottom of the scene and uses
// its size for pan clamping.
func (d *Drawer) SetImage(img image.Image) {
	if d.bitmap != nil {
		d.sc.Remove(d.bitmap)
		d.bitmap = nil
	}
	if img == nil {
		d.vp.SetImageSize(geometry.Size{})
	} else {
		d.bitmap = d.sc.NewBitmap(img)
		d.sc.AddAt(d.bitmap, 0)
		b := img.Bounds()
		d.vp.SetImageSize(geometry.NewSize(float64(b.Dx()), float64(b.Dy())))
	}
	d.syncView()
}

// SetViewportSize records the drawing surface size.
func (d *Drawer) SetViewportSize(width, height float64) {
	d.vp.SetViewportSize(geometry.NewSize(width, height))
	d.syncView()
}

func (d *Drawer) syncView() {
	d.machine.SyncView()
	d.viewChanged()
	d.sc.Repaint()
}

func (d *Drawer) viewChanged() {
	if s := d.vp.Scale(); s != d.lastScale {
		d.lastScale = s
		if d.onScaleChange != nil {
			d.onScaleChange(s)
		}
	}
}

// AppendData validates and adds an annotation, draws its outline and returns
// its index. The label is built but stays hidden until SetLabelVisible.
// Nothing changes if the geometry or color is malformed.
func (d *Drawer) AppendData(g annotation.Geometry, color, label string) (int, error) {
	a, err := annotation.New(g, color, label)
	if err != nil {
		return -1, fmt.Errorf("append: %w", err)
	}

	set := d.renderer.Build(a)
	d.listen(a, set)
	d.renderer.Attach(a, set)
	i := d.store.Append(a, set)

	d.logger.Debug("annotation appended", "index", i, "kind", a.Geometry.Kind.String())
	d.sc.Repaint()
	return i, nil
}

// AppendRect adds a rectangle from two opposite corners.
func (d *Drawer) AppendRect(x1, y1, x2, y2 float64, color, label string) (int, error) {
	g, err := annotation.NewRect(x1, y1, x2, y2)
	if err != nil {
		return -1, fmt.Errorf("append: %w", err)
	}
	return d.AppendData(g, color, label)
}

// AppendPolygon adds a closed polygon.
func (d *Drawer) AppendPolygon(points []geometry.Point2D, color, label string) (int, error) {
	g, err := annotation.NewPolygon(points)
	if err != nil {
		return -1, fmt.Errorf("append: %w", err)
	}
	return d.AppendData(g, color, label)
}

// RemoveDataByIndex deletes annotation i and detaches all of its drawables,
// handles included.
func (d *Drawer) RemoveDataByIndex(i int) error {
	a, set, err := d.store.RemoveAt(i)
	if err != nil {
		return fmt.Errorf("remove: %w", err)
	}
	d.forgetHover(a)
	d.renderer.Detach(set)
	d.logger.Debug("annotation removed", "index", i)
	d.sc.Repaint()
	return nil
}

// DataList returns the annotation records in order. The records are live:
// mutate them only through the drawer.
func (d *Drawer) DataList() []*annotation.Annotation {
	return d.store.Records()
}

// Len returns the number of annotations.
func (d *Drawer) Len() int { return d.store.Len() }

// At returns annotation i and its drawable set. The set is nil for records
// from SetDataList that were not redrawn yet.
func (d *Drawer) At(i int) (*annotation.Annotation, *render.DrawableSet, error) {
	return d.store.At(i)
}

// SetDataList replaces all annotations. The previous drawables are detached
// and the new records are not drawn: call RedrawAll (or Redraw per index)
// afterwards. Until then per-annotation operations fail with ErrNotRendered.
func (d *Drawer) SetDataList(records []*annotation.Annotation) error {
	old, err := d.store.ReplaceAll(records)
	if err != nil {
		return fmt.Errorf("set data list: %w", err)
	}
	for _, set := range old {
		d.renderer.Detach(set)
	}
	d.hoverShape, d.hoverHandle = nil, nil
	d.machine.ResetHover()
	d.sc.Repaint()
	return nil
}

// Redraw rebuilds the drawables of one annotation from its record,
// creating them if the record has none.
func (d *Drawer) Redraw(t Target) error {
	a, set, err := d.lookup(t)
	if err != nil {
		return fmt.Errorf("redraw: %w", err)
	}
	d.forgetHover(a)
	if set == nil {
		set = d.renderer.Build(a)
		if err := d.store.SetAt(t.index, set); err != nil {
			return fmt.Errorf("redraw: %w", err)
		}
		d.renderer.Attach(a, set)
	} else {
		d.renderer.Rebuild(a, set)
	}
	d.listen(a, set)
	d.sc.Repaint()
	return nil
}

// RedrawAll redraws every annotation.
func (d *Drawer) RedrawAll() {
	for i := 0; i < d.store.Len(); i++ {
		if err := d.Redraw(At(i)); err != nil {
			d.logger.Error("redraw failed", "index", i, "error", err)
		}
	}
}

// FillTagArea shows the translucent fill of an annotation. Filling a filled
// annotation changes nothing.
func (d *Drawer) FillTagArea(t Target) error {
	a, set, err := d.resolve(t)
	if err != nil {
		return fmt.Errorf("fill: %w", err)
	}
	if d.renderer.ApplyFill(a, set) {
		d.sc.Repaint()
	}
	return nil
}

// UnfillTagArea hides the fill of an annotation. Unfilling an unfilled
// annotation changes nothing.
func (d *Drawer) UnfillTagArea(t Target) error {
	a, set, err := d.resolve(t)
	if err != nil {
		return fmt.Errorf("unfill: %w", err)
	}
	if d.renderer.RemoveFill(a, set) {
		d.sc.Repaint()
	}
	return nil
}

// SetLabelVisible shows or hides the label of an annotation.
func (d *Drawer) SetLabelVisible(t Target, visible bool) error {
	a, set, err := d.resolve(t)
	if err != nil {
		return fmt.Errorf("label visible: %w", err)
	}
	a.LabelVisible = visible
	if visible {
		d.renderer.ShowLabel(set)
	} else {
		d.renderer.HideLabel(set)
	}
	d.sc.Repaint()
	return nil
}

// SetLabelText changes the label of an annotation. Blank text becomes a
// single space. Visibility is unchanged.
func (d *Drawer) SetLabelText(t Target, label string) error {
	a, set, err := d.resolve(t)
	if err != nil {
		return fmt.Errorf("label text: %w", err)
	}
	a.Label = annotation.NormalizeLabel(label)
	d.renderer.RelabelSet(a, set)
	d.sc.Repaint()
	return nil
}

// SelectTagArea marks an annotation selected, fills it and shows its resize
// handles.
func (d *Drawer) SelectTagArea(t Target) error {
	a, set, err := d.resolve(t)
	if err != nil {
		return fmt.Errorf("select: %w", err)
	}
	a.Selected = true
	d.renderer.ApplyFill(a, set)
	d.forgetHandleHover(a)
	d.renderer.ShowHandles(a, set)
	d.listenHandles(a, set)
	d.sc.Repaint()
	return nil
}

// DeselectTagArea hides the resize handles of an annotation, unfills it and
// clears its selected flag.
func (d *Drawer) DeselectTagArea(t Target) error {
	a, set, err := d.resolve(t)
	if err != nil {
		return fmt.Errorf("deselect: %w", err)
	}
	a.Selected = false
	d.renderer.RemoveFill(a, set)
	d.forgetHandleHover(a)
	d.renderer.HideHandles(set)
	d.sc.Repaint()
	return nil
}

// Scale returns the zoom scale.
func (d *Drawer) Scale() float64 { return d.vp.Scale() }

// ExpandCanvasScale zooms in by step around the pointer. It reports false
// and changes nothing if the result would exceed the maximum scale.
func (d *Drawer) ExpandCanvasScale(step float64) bool {
	return d.machine.Expand(step)
}

// ReduceCanvasScale zooms out by step around the pointer. It reports false
// and changes nothing if the result would fall below step.
func (d *Drawer) ReduceCanvasScale(step float64) bool {
	return d.machine.Reduce(step)
}

// SetCanvasScale jumps to an explicit scale around the pointer.
func (d *Drawer) SetCanvasScale(scale float64) error {
	return d.machine.SetScale(scale)
}

// Update repaints the scene.
func (d *Drawer) Update() {
	d.sc.Repaint()
}
