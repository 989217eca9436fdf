package scene

import (
	"image"

	"github.com/gogpu/gg"

	"tagdraw/pkg/geometry"
)

// Render rasterises the stage into a width x height image. deviceScale maps
// surface units to pixels on high-density displays.
func (s *Stage) Render(width, height int, deviceScale float64) image.Image {
	if width <= 0 || height <= 0 {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}
	if deviceScale <= 0 {
		deviceScale = 1
	}

	dc := gg.NewContext(width, height)
	defer dc.Close()

	if s.background != nil {
		dc.ClearWithColor(gg.FromColor(s.background))
	}

	p := painter{
		dc:     dc,
		scale:  s.scale * deviceScale,
		offset: s.offset.Scale(deviceScale),
		fonts:  s.fonts,
	}
	for _, c := range s.children {
		if err := p.paint(c); err != nil {
			s.logger.Warn("paint failed", "shape", c.shape, "error", err)
		}
	}

	if err := dc.FlushGPU(); err != nil {
		s.logger.Warn("flush failed", "error", err)
	}
	return dc.Image()
}

// painter draws nodes in pixel space. Geometry is transformed by hand so
// stroke widths and text sizes follow the scene scale.
type painter struct {
	dc     *gg.Context
	scale  float64
	offset geometry.Point2D
	fonts  *fontCache
}

func (p painter) pt(l geometry.Point2D) geometry.Point2D {
	return l.Scale(p.scale).Add(p.offset)
}

func (p painter) paint(n *node) error {
	switch n.shape {
	case ShapeBitmap:
		return p.bitmap(n)
	case ShapeText:
		return p.text(n)
	case ShapeCircle:
		c := p.pt(n.center)
		p.dc.DrawCircle(c.X, c.Y, n.radius*p.scale)
	case ShapeRect:
		tl := p.pt(n.rect.TopLeft())
		p.dc.DrawRectangle(tl.X, tl.Y, n.rect.Width*p.scale, n.rect.Height*p.scale)
	case ShapePolygon:
		if len(n.points) == 0 {
			return nil
		}
		first := p.pt(n.points[0])
		p.dc.MoveTo(first.X, first.Y)
		for _, v := range n.points[1:] {
			q := p.pt(v)
			p.dc.LineTo(q.X, q.Y)
		}
		p.dc.ClosePath()
	}
	return p.fillStroke(n.style)
}

func (p painter) fillStroke(st Style) error {
	stroke := st.Stroke != nil && st.StrokeWidth > 0
	if st.Fill != nil {
		p.dc.SetColor(st.Fill)
		if !stroke {
			return p.dc.Fill()
		}
		if err := p.dc.FillPreserve(); err != nil {
			return err
		}
	}
	if stroke {
		p.dc.SetColor(st.Stroke)
		p.dc.SetLineWidth(st.StrokeWidth * p.scale)
		return p.dc.Stroke()
	}
	p.dc.ClearPath()
	return nil
}

func (p painter) text(n *node) error {
	size := n.fontSize * p.scale
	face := p.fonts.face(size)
	if face == nil || n.style.Fill == nil {
		return nil
	}
	at := p.pt(n.rect.TopLeft())
	p.dc.SetFont(face)
	p.dc.SetColor(n.style.Fill)
	p.dc.DrawString(n.text, at.X, at.Y+p.fonts.ascent(size))
	return nil
}

func (p painter) bitmap(n *node) error {
	if n.img == nil {
		return nil
	}
	if n.buf == nil {
		n.buf = gg.ImageBufFromImage(n.img)
		if n.buf == nil {
			return nil
		}
	}
	at := p.pt(n.rect.TopLeft())
	p.dc.DrawImageEx(n.buf, gg.DrawImageOptions{
		X:             at.X,
		Y:             at.Y,
		DstWidth:      n.rect.Width * p.scale,
		DstHeight:     n.rect.Height * p.scale,
		Interpolation: gg.InterpNearest,
		Opacity:       1,
		BlendMode:     gg.BlendNormal,
	})
	return nil
}
