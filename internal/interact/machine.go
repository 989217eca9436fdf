package interact

import (
	"io"
	"log/slog"

	"tagdraw/internal/render"
	"tagdraw/internal/scene"
	"tagdraw/internal/viewport"
	"tagdraw/pkg/geometry"
)

// Options wires a Machine to its collaborators.
type Options struct {
	Viewport *viewport.Viewport
	Scene    scene.Scene
	Renderer *render.Renderer
	// ScaleStep is the wheel zoom increment. Zero means viewport.DefaultStep.
	ScaleStep float64
	// CursorPointer shows a pointer cursor over annotations.
	CursorPointer bool
	Logger        *slog.Logger
}

// session is one box drag. It is cleared at most once.
type session struct {
	start, current, end geometry.Point2D
	preview             scene.Node
	cleared             bool
}

// Machine consumes pointer, wheel and key events. All methods must be called
// from the single event thread.
type Machine struct {
	vp       *viewport.Viewport
	sc       scene.Scene
	renderer *render.Renderer
	logger   *slog.Logger

	state         State
	scaleStep     float64
	cursorPointer bool

	panKeyDown bool
	suppressed bool

	// panning
	panStartRaw geometry.Point2D
	panStartPan geometry.Point2D

	session *session
	handle  HandleRef

	lastPointer    geometry.Point2D
	hasPointer     bool
	hoverShapes    int
	hoverHandles   int
	cursor         CursorHint
	onDragEnd      func(DragEvent)
	onCursor       func(CursorHint)
	onViewChange   func()
	onHandleMove   func(HandleRef, geometry.Point2D)
	onHandleFinish func(HandleRef)
}

// New creates an idle machine.
func New(opts Options) *Machine {
	m := &Machine{
		vp:            opts.Viewport,
		sc:            opts.Scene,
		renderer:      opts.Renderer,
		logger:        opts.Logger,
		cursorPointer: opts.CursorPointer,
	}
	if m.logger == nil {
		m.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	m.SetScaleStep(opts.ScaleStep)
	return m
}

// OnDragEnd registers the callback fired when a box drag ends. Without one
// the preview stays until the next drag starts.
func (m *Machine) OnDragEnd(fn func(DragEvent)) { m.onDragEnd = fn }

// OnCursorChange registers the callback fired when the cursor hint changes.
func (m *Machine) OnCursorChange(fn func(CursorHint)) { m.onCursor = fn }

// OnViewChange registers the callback fired after the scale or pan changed.
func (m *Machine) OnViewChange(fn func()) { m.onViewChange = fn }

// OnHandleMove registers the callback fired for each pointer move while a
// handle is dragged. The point is logical.
func (m *Machine) OnHandleMove(fn func(HandleRef, geometry.Point2D)) { m.onHandleMove = fn }

// OnHandleDragEnd registers the callback fired when a handle drag ends.
func (m *Machine) OnHandleDragEnd(fn func(HandleRef)) { m.onHandleFinish = fn }

// SetScaleStep sets the wheel zoom increment. Values <= 0 restore the default.
func (m *Machine) SetScaleStep(step float64) {
	if !(step > 0) {
		step = viewport.DefaultStep
	}
	m.scaleStep = step
}

// ScaleStep returns the wheel zoom increment.
func (m *Machine) ScaleStep() float64 { return m.scaleStep }

// SetCursorPointer turns the pointer cursor over annotations on or off.
func (m *Machine) SetCursorPointer(on bool) {
	m.cursorPointer = on
	m.updateCursor()
}

// State returns the current mode.
func (m *Machine) State() State { return m.state }

// Cursor returns the current cursor hint.
func (m *Machine) Cursor() CursorHint { return m.cursor }

// Preview returns the preview rectangle of the current or last uncleared
// drag, if any.
func (m *Machine) Preview() (scene.Node, bool) {
	if m.session == nil || m.session.preview == nil {
		return nil, false
	}
	return m.session.preview, true
}

func (m *Machine) transition(next State) {
	prev := m.state
	if prev == next {
		return
	}
	m.state = next
	m.logger.Debug("interaction state transition", "from", prev.String(), "to", next.String())
	m.updateCursor()
}

func (m *Machine) updateCursor() {
	next := CursorDefault
	switch {
	case m.state == StatePanning:
		next = CursorGrabbing
	case m.state == StateGrabReady:
		next = CursorGrab
	case m.state == StateHandleDrag || m.hoverHandles > 0:
		next = CursorMove
	case m.hoverShapes > 0 && m.cursorPointer:
		next = CursorPointer
	}
	if next == m.cursor {
		return
	}
	m.cursor = next
	if m.onCursor != nil {
		m.onCursor(next)
	}
}

// KeyDown handles a key press. The pan key only arms panning from Idle with
// no modifiers held; pressing it mid-drag is ignored.
func (m *Machine) KeyDown(k Key, mods Modifier) {
	if k != KeyPan {
		return
	}
	m.panKeyDown = true
	if m.state == StateIdle && mods == 0 {
		m.transition(StateGrabReady)
	}
}

// KeyUp handles a key release. Releasing the pan key ends panning.
func (m *Machine) KeyUp(k Key) {
	if k != KeyPan {
		return
	}
	m.panKeyDown = false
	if m.state == StateGrabReady || m.state == StatePanning {
		m.transition(StateIdle)
	}
}

// MarkSuppressed records that the current press landed on an annotation or
// handle. The press then starts no box; the flag is consumed by the next
// pointer move or release.
func (m *Machine) MarkSuppressed() {
	m.suppressed = true
}

// BeginHandleDrag starts dragging the vertex ref. It is ignored unless the
// machine is idle.
func (m *Machine) BeginHandleDrag(ref HandleRef) {
	if m.state != StateIdle || ref.Data == nil {
		return
	}
	m.handle = ref
	m.transition(StateHandleDrag)
}

// EnterShape records the pointer entering an annotation outline.
func (m *Machine) EnterShape() {
	m.hoverShapes++
	m.updateCursor()
}

// LeaveShape records the pointer leaving an annotation outline.
func (m *Machine) LeaveShape() {
	if m.hoverShapes > 0 {
		m.hoverShapes--
	}
	m.updateCursor()
}

// EnterHandle records the pointer entering a resize handle.
func (m *Machine) EnterHandle() {
	m.hoverHandles++
	m.updateCursor()
}

// LeaveHandle records the pointer leaving a resize handle.
func (m *Machine) LeaveHandle() {
	if m.hoverHandles > 0 {
		m.hoverHandles--
	}
	m.updateCursor()
}

// ResetHover forgets hovered shapes and handles, for when they are removed
// from the scene without a leave event.
func (m *Machine) ResetHover() {
	m.hoverShapes, m.hoverHandles = 0, 0
	m.updateCursor()
}

// PointerDown handles a primary button press at the surface position raw.
func (m *Machine) PointerDown(raw geometry.Point2D) {
	m.track(raw)

	switch m.state {
	case StateGrabReady:
		m.panStartRaw = raw
		m.panStartPan = m.vp.Pan()
		m.transition(StatePanning)
	case StateIdle:
		if m.suppressed {
			m.transition(StateSuppressed)
			return
		}
		m.startBox(m.vp.ToLogical(raw))
	}
}

func (m *Machine) startBox(start geometry.Point2D) {
	if m.session != nil {
		m.clear(m.session)
	}
	s := &session{start: start, current: start}
	s.preview = m.renderer.PreviewRect(start)
	m.sc.Add(s.preview)
	m.session = s
	m.transition(StateCreatingBox)
	m.sc.Repaint()
}

// PointerMove handles pointer motion at the surface position raw.
func (m *Machine) PointerMove(raw geometry.Point2D) {
	m.track(raw)
	m.suppressed = false

	switch m.state {
	case StatePanning:
		m.vp.SetPan(m.panStartPan.Add(raw.Sub(m.panStartRaw)))
		m.viewChanged()
	case StateCreatingBox:
		s := m.session
		s.current = m.vp.ToLogical(raw)
		m.renderer.UpdatePreview(s.preview, s.start, s.current)
		m.sc.Repaint()
	case StateHandleDrag:
		if m.onHandleMove != nil {
			m.onHandleMove(m.handle, m.vp.ToLogical(raw))
		}
	}
}

// PointerUp handles a primary button release. Hosts should forward releases
// that happen outside the surface too.
func (m *Machine) PointerUp(raw geometry.Point2D) {
	m.track(raw)
	m.end(raw)
}

// PointerLeave handles the pointer leaving the surface. Active sessions end
// exactly as on release.
func (m *Machine) PointerLeave(raw geometry.Point2D) {
	m.end(raw)
	m.hasPointer = false
}

func (m *Machine) end(raw geometry.Point2D) {
	m.suppressed = false

	switch m.state {
	case StatePanning:
		if m.panKeyDown {
			m.transition(StateGrabReady)
		} else {
			m.transition(StateIdle)
		}
	case StateCreatingBox:
		m.finishBox(m.vp.ToLogical(raw))
	case StateHandleDrag:
		ref := m.handle
		m.handle = HandleRef{}
		m.transition(StateIdle)
		if m.onHandleFinish != nil {
			m.onHandleFinish(ref)
		}
	case StateSuppressed:
		m.transition(StateIdle)
	}
}

func (m *Machine) finishBox(end geometry.Point2D) {
	s := m.session
	s.end = end
	m.transition(StateIdle)

	ev := DragEvent{
		Start:   s.start,
		Current: s.current,
		End:     s.end,
		Preview: s.preview,
		Clear:   func() { m.clear(s) },
	}
	m.logger.Debug("box drag finished", "start", s.start, "end", s.end)
	if m.onDragEnd != nil {
		m.onDragEnd(ev)
	}
}

// clear removes the preview of s once and forgets s if it is current.
func (m *Machine) clear(s *session) {
	if s.cleared {
		return
	}
	s.cleared = true
	if s.preview != nil {
		m.sc.Remove(s.preview)
	}
	if m.session == s {
		m.session = nil
		if m.state == StateCreatingBox {
			m.transition(StateIdle)
		}
	}
	m.sc.Repaint()
}

// Wheel zooms by one step around the last pointer position. Positive dy
// zooms in. It reports whether the scale changed.
func (m *Machine) Wheel(dy float64) bool {
	switch {
	case dy > 0:
		return m.Expand(m.scaleStep)
	case dy < 0:
		return m.Reduce(m.scaleStep)
	}
	return false
}

// Expand zooms in by step around the pivot.
func (m *Machine) Expand(step float64) bool {
	if !m.vp.Expand(step, m.pivot()) {
		return false
	}
	m.viewChanged()
	return true
}

// Reduce zooms out by step around the pivot.
func (m *Machine) Reduce(step float64) bool {
	if !m.vp.Reduce(step, m.pivot()) {
		return false
	}
	m.viewChanged()
	return true
}

// SetScale jumps to scale around the pivot.
func (m *Machine) SetScale(scale float64) error {
	if err := m.vp.SetScale(scale, m.pivot()); err != nil {
		return err
	}
	m.viewChanged()
	return nil
}

// SyncView copies the viewport transform onto the scene.
func (m *Machine) SyncView() {
	m.sc.SetTransform(m.vp.Scale(), m.vp.Pan())
}

func (m *Machine) viewChanged() {
	m.SyncView()
	if m.onViewChange != nil {
		m.onViewChange()
	}
	m.sc.Repaint()
}

// pivot is the last pointer position on the surface, or its center.
func (m *Machine) pivot() geometry.Point2D {
	if m.hasPointer {
		return m.lastPointer
	}
	return m.vp.Center()
}

func (m *Machine) track(raw geometry.Point2D) {
	m.lastPointer = raw
	m.hasPointer = true
}
