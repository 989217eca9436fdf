package drawer

import (
	"tagdraw/internal/annotation"
	"tagdraw/internal/interact"
	"tagdraw/internal/render"
	"tagdraw/internal/scene"
	"tagdraw/pkg/geometry"
)

// PointerDown forwards a primary button press at the surface position raw.
func (d *Drawer) PointerDown(raw geometry.Point2D) {
	d.sc.Dispatch(scene.PointerEvent{Kind: scene.PointerDown, Raw: raw})
	d.machine.PointerDown(raw)
}

// PointerMove forwards pointer motion.
func (d *Drawer) PointerMove(raw geometry.Point2D) {
	d.sc.Dispatch(scene.PointerEvent{Kind: scene.PointerMove, Raw: raw})
	d.machine.PointerMove(raw)
}

// PointerUp forwards a primary button release.
func (d *Drawer) PointerUp(raw geometry.Point2D) {
	d.sc.Dispatch(scene.PointerEvent{Kind: scene.PointerUp, Raw: raw})
	d.machine.PointerUp(raw)
}

// PointerLeave forwards the pointer leaving the surface. Any drag in
// progress ends as if released at raw.
func (d *Drawer) PointerLeave(raw geometry.Point2D) {
	d.sc.Dispatch(scene.PointerEvent{Kind: scene.PointerLeave, Raw: raw})
	d.machine.PointerLeave(raw)
}

// KeyDown forwards a key press.
func (d *Drawer) KeyDown(k interact.Key, mods interact.Modifier) {
	d.machine.KeyDown(k, mods)
}

// KeyUp forwards a key release.
func (d *Drawer) KeyUp(k interact.Key) {
	d.machine.KeyUp(k)
}

// Wheel zooms one step around the pointer. Positive dy zooms in.
func (d *Drawer) Wheel(dy float64) bool {
	return d.machine.Wheel(dy)
}

// listen installs the pointer handlers of an annotation's outline and
// handles. Rebuilt primitives need it again.
func (d *Drawer) listen(a *annotation.Annotation, set *render.DrawableSet) {
	d.sc.Listen(set.Outline, scene.Handlers{
		PointerDown: func(scene.PointerEvent) {
			d.machine.MarkSuppressed()
		},
		Enter: func(scene.PointerEvent) {
			d.hoverShape = a
			d.machine.EnterShape()
			if d.onShapeHover != nil {
				d.onShapeHover(a, set)
			}
		},
		Leave: func(scene.PointerEvent) {
			if d.hoverShape == a {
				d.hoverShape = nil
			}
			d.machine.LeaveShape()
			if d.onShapeLeave != nil {
				d.onShapeLeave(a, set)
			}
		},
		Click: func(scene.PointerEvent) {
			if d.onShapeClick != nil {
				d.onShapeClick(a, set)
			}
		},
	})
	d.listenHandles(a, set)
}

func (d *Drawer) listenHandles(a *annotation.Annotation, set *render.DrawableSet) {
	for i, h := range set.Handles {
		vertex := i
		d.sc.Listen(h, scene.Handlers{
			PointerDown: func(scene.PointerEvent) {
				d.machine.MarkSuppressed()
				if d.machine.State() != interact.StateIdle {
					return
				}
				verts := a.Geometry.Vertices()
				if a.Geometry.Kind == annotation.KindRect {
					d.dragAnchor = verts[(vertex+2)%len(verts)]
				}
				d.machine.BeginHandleDrag(interact.HandleRef{Data: a, Vertex: vertex})
			},
			Enter: func(scene.PointerEvent) {
				d.hoverHandle = a
				d.machine.EnterHandle()
			},
			Leave: func(scene.PointerEvent) {
				if d.hoverHandle == a {
					d.hoverHandle = nil
				}
				d.machine.LeaveHandle()
			},
		})
	}
}

// forgetHover drops hover state for a before its primitives leave the
// scene, since no Leave event will arrive for them.
func (d *Drawer) forgetHover(a *annotation.Annotation) {
	if d.hoverShape == a {
		d.hoverShape = nil
		d.machine.LeaveShape()
	}
	d.forgetHandleHover(a)
}

func (d *Drawer) forgetHandleHover(a *annotation.Annotation) {
	if d.hoverHandle == a {
		d.hoverHandle = nil
		d.machine.LeaveHandle()
	}
}

func (d *Drawer) dragEnded(ev interact.DragEvent) {
	if d.onDragEnd != nil {
		d.onDragEnd(ev)
	}
}

// handleMoved reshapes the dragged annotation. A rect keeps the corner
// opposite the grabbed handle fixed; a polygon moves only the grabbed vertex.
func (d *Drawer) handleMoved(ref interact.HandleRef, p geometry.Point2D) {
	a := ref.Data
	i := d.store.IndexOf(a)
	if i < 0 {
		return
	}
	_, set, err := d.store.At(i)
	if err != nil || set == nil {
		return
	}

	var g annotation.Geometry
	if a.Geometry.Kind == annotation.KindRect {
		g, err = annotation.NewRect(d.dragAnchor.X, d.dragAnchor.Y, p.X, p.Y)
	} else {
		g, err = a.Geometry.MoveVertex(ref.Vertex, p)
	}
	if err != nil {
		d.logger.Debug("handle move rejected", "index", i, "error", err)
		return
	}

	a.Geometry = g
	d.forgetHover(a)
	d.renderer.Rebuild(a, set)
	d.listen(a, set)
	d.sc.Repaint()
}

func (d *Drawer) handleDragEnded(ref interact.HandleRef) {
	a := ref.Data
	i := d.store.IndexOf(a)
	if i < 0 {
		return
	}
	_, set, err := d.store.At(i)
	if err != nil || set == nil {
		return
	}
	d.logger.Debug("annotation reshaped", "index", i)
	if d.onTagAreaChange != nil {
		d.onTagAreaChange(a, set)
	}
}
