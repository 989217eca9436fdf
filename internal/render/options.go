// Package render turns annotation records into scene primitives: outline,
// fill, label and resize handles.
package render

import (
	"image/color"

	"tagdraw/pkg/colorutil"
)

// Options holds the drawing constants.
type Options struct {
	StrokeWidth   float64
	LabelHeight   float64
	LabelFontSize float64
	// LabelPadding is the text inset inside the label box on each side.
	LabelPadding float64
	HandleRadius float64
	// FillAlpha is the two hex digit alpha appended to an annotation color
	// when it is filled.
	FillAlpha string
	// EmptyAreaColor is the near-transparent fill of unfilled outlines.
	EmptyAreaColor string
	// DragLineColor strokes the preview rectangle while drawing a new box.
	DragLineColor string

	LabelBackground color.Color
	LabelText       color.Color
}

// DefaultOptions returns the stock drawing constants.
func DefaultOptions() Options {
	return Options{
		StrokeWidth:     2,
		LabelHeight:     20,
		LabelFontSize:   12,
		LabelPadding:    4,
		HandleRadius:    5,
		FillAlpha:       "20",
		EmptyAreaColor:  colorutil.EmptyArea,
		DragLineColor:   "#ffffff",
		LabelBackground: colorutil.Black,
		LabelText:       colorutil.White,
	}
}

// withDefaults fills zero fields from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.StrokeWidth <= 0 {
		o.StrokeWidth = d.StrokeWidth
	}
	if o.LabelHeight <= 0 {
		o.LabelHeight = d.LabelHeight
	}
	if o.LabelFontSize <= 0 {
		o.LabelFontSize = d.LabelFontSize
	}
	if o.LabelPadding <= 0 {
		o.LabelPadding = d.LabelPadding
	}
	if o.HandleRadius <= 0 {
		o.HandleRadius = d.HandleRadius
	}
	if o.FillAlpha == "" {
		o.FillAlpha = d.FillAlpha
	}
	if o.EmptyAreaColor == "" {
		o.EmptyAreaColor = d.EmptyAreaColor
	}
	if o.DragLineColor == "" {
		o.DragLineColor = d.DragLineColor
	}
	if o.LabelBackground == nil {
		o.LabelBackground = d.LabelBackground
	}
	if o.LabelText == nil {
		o.LabelText = d.LabelText
	}
	return o
}
