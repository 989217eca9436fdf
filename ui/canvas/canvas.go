// Package canvas provides the fyne widget that hosts the annotation editor.
package canvas

import (
	"image"
	"sync"

	"tagdraw/internal/drawer"
	"tagdraw/internal/interact"
	"tagdraw/internal/scene"
	"tagdraw/pkg/colorutil"
	"tagdraw/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// AnnotationCanvas shows an image with annotations and feeds pointer, wheel
// and key input into a drawer.
//
// The drawer is not safe for concurrent use; every access goes through the
// canvas lock. Use Do for access from outside the widget's own handlers.
type AnnotationCanvas struct {
	widget.BaseWidget

	mu     sync.Mutex
	stage  *scene.Stage
	drawer *drawer.Drawer
	raster *fynecanvas.Raster

	size    fyne.Size
	last    geometry.Point2D
	mods    interact.Modifier
	pressed bool

	onTypedKey func(*fyne.KeyEvent)
}

// NewAnnotationCanvas creates a canvas with an empty drawer.
func NewAnnotationCanvas(opts drawer.Options) *AnnotationCanvas {
	ac := &AnnotationCanvas{}
	ac.stage = scene.NewStage(scene.StageOptions{
		Background: colorutil.Black,
		Logger:     opts.Logger,
	})
	ac.drawer = drawer.New(ac.stage, opts)

	ac.raster = fynecanvas.NewRaster(ac.draw)
	ac.raster.ScaleMode = fynecanvas.ImageScalePixels
	ac.stage.SetRepaintFunc(ac.raster.Refresh)

	ac.ExtendBaseWidget(ac)
	return ac
}

// Do runs fn with exclusive access to the drawer. Drawer callbacks already
// run under the lock and must use the drawer directly instead of Do.
func (ac *AnnotationCanvas) Do(fn func(d *drawer.Drawer)) {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	fn(ac.drawer)
}

// SetImage replaces the background image.
func (ac *AnnotationCanvas) SetImage(img image.Image) {
	ac.Do(func(d *drawer.Drawer) { d.SetImage(img) })
}

// ZoomIn zooms in one step around the pointer.
func (ac *AnnotationCanvas) ZoomIn() {
	ac.Do(func(d *drawer.Drawer) { d.Wheel(1) })
}

// ZoomOut zooms out one step around the pointer.
func (ac *AnnotationCanvas) ZoomOut() {
	ac.Do(func(d *drawer.Drawer) { d.Wheel(-1) })
}

// Scale returns the zoom scale.
func (ac *AnnotationCanvas) Scale() float64 {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	return ac.drawer.Scale()
}

// draw is the raster drawing function. w and h are device pixels.
func (ac *AnnotationCanvas) draw(w, h int) image.Image {
	ac.mu.Lock()
	defer ac.mu.Unlock()

	deviceScale := 1.0
	if ac.size.Width > 0 {
		deviceScale = float64(w) / float64(ac.size.Width)
	}
	return ac.stage.Render(w, h, deviceScale)
}

// Resize records the drawing surface size.
func (ac *AnnotationCanvas) Resize(size fyne.Size) {
	ac.mu.Lock()
	ac.size = size
	ac.drawer.SetViewportSize(float64(size.Width), float64(size.Height))
	ac.mu.Unlock()
	ac.BaseWidget.Resize(size)
}

func toPoint(pos fyne.Position) geometry.Point2D {
	return geometry.NewPoint2D(float64(pos.X), float64(pos.Y))
}

// MouseDown implements desktop.Mouseable.
func (ac *AnnotationCanvas) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	ac.mu.Lock()
	defer ac.mu.Unlock()
	ac.last = toPoint(ev.Position)
	ac.pressed = true
	ac.drawer.PointerDown(ac.last)
}

// MouseUp implements desktop.Mouseable.
func (ac *AnnotationCanvas) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	ac.mu.Lock()
	defer ac.mu.Unlock()
	ac.release(toPoint(ev.Position))
}

func (ac *AnnotationCanvas) release(p geometry.Point2D) {
	if !ac.pressed {
		return
	}
	ac.pressed = false
	ac.last = p
	ac.drawer.PointerUp(p)
}

// MouseIn implements desktop.Hoverable.
func (ac *AnnotationCanvas) MouseIn(ev *desktop.MouseEvent) {
	ac.MouseMoved(ev)
}

// MouseMoved implements desktop.Hoverable.
func (ac *AnnotationCanvas) MouseMoved(ev *desktop.MouseEvent) {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	ac.last = toPoint(ev.Position)
	ac.drawer.PointerMove(ac.last)
}

// MouseOut implements desktop.Hoverable. A drag in progress ends here.
func (ac *AnnotationCanvas) MouseOut() {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	ac.pressed = false
	ac.drawer.PointerLeave(ac.last)
}

// Dragged implements fyne.Draggable. Fyne reports motion with a button held
// here instead of MouseMoved.
func (ac *AnnotationCanvas) Dragged(ev *fyne.DragEvent) {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	ac.last = toPoint(ev.Position)
	ac.drawer.PointerMove(ac.last)
}

// DragEnd implements fyne.Draggable.
func (ac *AnnotationCanvas) DragEnd() {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	ac.release(ac.last)
}

// Scrolled implements fyne.Scrollable: wheel up zooms in.
func (ac *AnnotationCanvas) Scrolled(ev *fyne.ScrollEvent) {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	ac.last = toPoint(ev.Position)
	ac.drawer.PointerMove(ac.last)
	ac.drawer.Wheel(float64(ev.Scrolled.DY))
}

// Cursor implements desktop.Cursorable.
func (ac *AnnotationCanvas) Cursor() desktop.Cursor {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	return cursorFor(ac.drawer.Cursor())
}

// KeyDown implements desktop.Keyable. Hosts also route window key events
// here so panning works without focus.
func (ac *AnnotationCanvas) KeyDown(ev *fyne.KeyEvent) {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	if m := modifierFor(ev.Name); m != 0 {
		ac.mods |= m
		return
	}
	ac.drawer.KeyDown(keyFor(ev.Name), ac.mods)
}

// KeyUp implements desktop.Keyable.
func (ac *AnnotationCanvas) KeyUp(ev *fyne.KeyEvent) {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	if m := modifierFor(ev.Name); m != 0 {
		ac.mods &^= m
		return
	}
	ac.drawer.KeyUp(keyFor(ev.Name))
}

// FocusGained implements fyne.Focusable.
func (ac *AnnotationCanvas) FocusGained() {}

// FocusLost implements fyne.Focusable.
func (ac *AnnotationCanvas) FocusLost() {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	ac.mods = 0
}

// TypedRune implements fyne.Focusable.
func (ac *AnnotationCanvas) TypedRune(rune) {}

// OnTypedKey registers a handler for keys typed while the canvas has focus.
// It runs without the canvas lock held.
func (ac *AnnotationCanvas) OnTypedKey(fn func(*fyne.KeyEvent)) {
	ac.onTypedKey = fn
}

// TypedKey implements fyne.Focusable.
func (ac *AnnotationCanvas) TypedKey(ev *fyne.KeyEvent) {
	if ac.onTypedKey != nil {
		ac.onTypedKey(ev)
	}
}

// Tapped requests focus so key events reach the canvas.
func (ac *AnnotationCanvas) Tapped(*fyne.PointEvent) {
	if c := fyne.CurrentApp().Driver().CanvasForObject(ac); c != nil {
		c.Focus(ac)
	}
}

// MinSize returns the smallest useful canvas size.
func (ac *AnnotationCanvas) MinSize() fyne.Size {
	return fyne.NewSize(200, 150)
}

// CreateRenderer implements fyne.Widget.
func (ac *AnnotationCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &annotationCanvasRenderer{canvas: ac}
}

type annotationCanvasRenderer struct {
	canvas *AnnotationCanvas
}

func (r *annotationCanvasRenderer) Layout(size fyne.Size) {
	r.canvas.raster.Resize(size)
}

func (r *annotationCanvasRenderer) MinSize() fyne.Size {
	return r.canvas.MinSize()
}

func (r *annotationCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *annotationCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.raster}
}

func (r *annotationCanvasRenderer) Destroy() {}
