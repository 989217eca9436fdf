package viewport

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"

	"tagdraw/pkg/geometry"
)

const (
	// DefaultStep is the scale increment used by wheel zoom.
	DefaultStep = 0.25
	// DefaultMaxScale is the largest accepted scale.
	DefaultMaxScale = 16.0
)

// ErrInvalidScale is returned by SetScale for values outside (0, max].
var ErrInvalidScale = errors.New("invalid scale")

// Options configures a Viewport.
type Options struct {
	// MaxScale caps the scale. Zero means DefaultMaxScale.
	MaxScale float64
	// Logger receives debug output. Nil discards it.
	Logger *slog.Logger
}

// Viewport owns scale and pan state for one drawing surface.
type Viewport struct {
	t        Transform
	image    geometry.Size
	view     geometry.Size
	maxScale float64
	logger   *slog.Logger
}

// New creates a viewport at scale 1 with no pan.
func New(opts Options) *Viewport {
	v := &Viewport{t: Identity}
	v.SetMaxScale(opts.MaxScale)
	v.SetLogger(opts.Logger)
	return v
}

// SetLogger replaces the logger. Nil discards output.
func (v *Viewport) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	v.logger = l
}

// SetMaxScale changes the upper scale bound. Values <= 0 restore the default.
// The current scale is not changed.
func (v *Viewport) SetMaxScale(maxScale float64) {
	if maxScale <= 0 || math.IsNaN(maxScale) {
		maxScale = DefaultMaxScale
	}
	v.maxScale = maxScale
}

// MaxScale returns the upper scale bound.
func (v *Viewport) MaxScale() float64 { return v.maxScale }

// Scale returns the current scale.
func (v *Viewport) Scale() float64 { return v.t.Scale }

// Pan returns the current pan offset.
func (v *Viewport) Pan() geometry.Point2D { return v.t.Pan }

// Transform returns the current transform.
func (v *Viewport) Transform() Transform { return v.t }

// ImageSize returns the logical image size.
func (v *Viewport) ImageSize() geometry.Size { return v.image }

// ViewportSize returns the drawing surface size.
func (v *Viewport) ViewportSize() geometry.Size { return v.view }

// ToLogical converts a raw position using the current transform.
func (v *Viewport) ToLogical(raw geometry.Point2D) geometry.Point2D {
	return v.t.ToLogical(raw)
}

// ToRaw converts a logical position using the current transform.
func (v *Viewport) ToRaw(p geometry.Point2D) geometry.Point2D {
	return v.t.ToRaw(p)
}

// SetImageSize records the image size and re-clamps the pan.
func (v *Viewport) SetImageSize(s geometry.Size) {
	v.image = s
	v.clamp()
}

// SetViewportSize records the drawing surface size and re-clamps the pan.
func (v *Viewport) SetViewportSize(s geometry.Size) {
	v.view = s
	v.clamp()
}

// SetPan sets the pan offset, clamped.
func (v *Viewport) SetPan(p geometry.Point2D) {
	v.t.Pan = p
	v.clamp()
}

// Center returns the middle of the drawing surface in raw coordinates.
func (v *Viewport) Center() geometry.Point2D {
	return geometry.Point2D{X: v.view.Width / 2, Y: v.view.Height / 2}
}

// Expand increases the scale by step, keeping the logical point under pivot
// fixed. It returns false and changes nothing if step is not positive or the
// result would exceed the maximum scale.
func (v *Viewport) Expand(step float64, pivot geometry.Point2D) bool {
	next := v.t.Scale + step
	if !(step > 0) || next > v.maxScale {
		v.logger.Debug("expand rejected", "scale", v.t.Scale, "step", step)
		return false
	}
	v.zoomTo(next, pivot)
	return true
}

// Reduce decreases the scale by step, keeping the logical point under pivot
// fixed. It returns false and changes nothing if step is not positive or the
// result would fall below step.
func (v *Viewport) Reduce(step float64, pivot geometry.Point2D) bool {
	next := v.t.Scale - step
	if !(step > 0) || next < step {
		v.logger.Debug("reduce rejected", "scale", v.t.Scale, "step", step)
		return false
	}
	v.zoomTo(next, pivot)
	return true
}

// SetScale jumps to an explicit scale around pivot.
func (v *Viewport) SetScale(scale float64, pivot geometry.Point2D) error {
	if !(scale > 0) || scale > v.maxScale || math.IsInf(scale, 0) {
		return fmt.Errorf("set scale %v: %w", scale, ErrInvalidScale)
	}
	v.zoomTo(scale, pivot)
	return nil
}

// Reset returns to scale 1 with no pan.
func (v *Viewport) Reset() {
	v.t = Identity
	v.clamp()
}

func (v *Viewport) zoomTo(scale float64, pivot geometry.Point2D) {
	logical := v.t.ToLogical(pivot)
	v.t.Scale = scale
	v.t.Pan = pivot.Sub(logical.Scale(scale))
	v.clamp()
	v.logger.Debug("scale changed", "scale", scale, "pan_x", v.t.Pan.X, "pan_y", v.t.Pan.Y)
}

func (v *Viewport) clamp() {
	v.t.Pan = Clamp(v.t.Pan, v.view, v.image, v.t.Scale)
}
