package scene

import (
	"image"
	"image/color"
	"testing"

	"tagdraw/pkg/geometry"
)

func nrgbaAt(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func TestRender_Size(t *testing.T) {
	s := NewStage(StageOptions{})
	img := s.Render(64, 32, 1)
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 32 {
		t.Fatalf("bounds = %v", b)
	}
	if b := s.Render(0, 10, 1).Bounds(); !b.Empty() {
		t.Errorf("zero-width render bounds = %v", b)
	}
}

func TestRender_FilledRect(t *testing.T) {
	s := NewStage(StageOptions{})
	s.Add(s.NewRect(geometry.NewRect(10, 10, 40, 40), Style{Fill: red}))

	img := s.Render(100, 100, 1)
	if c := nrgbaAt(img, 30, 30); c.R < 250 || c.G > 5 || c.A < 250 {
		t.Errorf("inside pixel = %v", c)
	}
	if c := nrgbaAt(img, 80, 80); c.A != 0 {
		t.Errorf("outside pixel = %v", c)
	}
}

func TestRender_AppliesTransform(t *testing.T) {
	s := NewStage(StageOptions{})
	s.Add(s.NewRect(geometry.NewRect(10, 10, 10, 10), Style{Fill: red}))
	s.SetTransform(2, geometry.NewPoint2D(-10, -10))

	// Local (10..20) maps to raw (10..30).
	img := s.Render(100, 100, 1)
	if c := nrgbaAt(img, 25, 25); c.R < 250 || c.A < 250 {
		t.Errorf("scaled pixel = %v", c)
	}
	if c := nrgbaAt(img, 35, 35); c.A != 0 {
		t.Errorf("pixel past scaled rect = %v", c)
	}
}

func TestRender_Background(t *testing.T) {
	s := NewStage(StageOptions{Background: color.White})
	if c := nrgbaAt(s.Render(8, 8, 1), 4, 4); c != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("background = %v", c)
	}
}

func TestRender_Bitmap(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			src.Set(x, y, color.NRGBA{B: 255, A: 255})
		}
	}
	s := NewStage(StageOptions{})
	bm := s.NewBitmap(src)
	if bm.Bounds() != geometry.NewRect(0, 0, 20, 20) {
		t.Fatalf("bitmap bounds = %v", bm.Bounds())
	}
	s.Add(bm)

	img := s.Render(40, 40, 1)
	if c := nrgbaAt(img, 10, 10); c.B < 250 || c.A < 250 {
		t.Errorf("bitmap pixel = %v", c)
	}
}

func TestRender_TextDoesNotPanic(t *testing.T) {
	s := NewStage(StageOptions{})
	s.Add(s.NewRect(geometry.NewRect(0, 0, 40, 20), Style{Fill: color.Black}))
	s.Add(s.NewText("A", geometry.NewPoint2D(4, 4), 12, color.White))
	s.SetTransform(1.5, geometry.Point2D{})
	if img := s.Render(80, 40, 2); img.Bounds().Dx() != 80 {
		t.Errorf("bounds = %v", img.Bounds())
	}
}
