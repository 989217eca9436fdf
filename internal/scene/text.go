package scene

import (
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	regularOnce   sync.Once
	regularSource *text.FontSource
	regularErr    error
)

// regularFont returns the shared Go Regular font source.
func regularFont() (*text.FontSource, error) {
	regularOnce.Do(func() {
		regularSource, regularErr = text.NewFontSource(goregular.TTF)
	})
	return regularSource, regularErr
}

// fontCache keeps one face per pixel size.
type fontCache struct {
	faces map[float64]text.Face
}

func newFontCache() *fontCache {
	return &fontCache{faces: make(map[float64]text.Face)}
}

// face returns the face for size, or nil if the font could not be loaded.
func (c *fontCache) face(size float64) text.Face {
	if f, ok := c.faces[size]; ok {
		return f
	}
	src, err := regularFont()
	if err != nil {
		return nil
	}
	f := src.Face(size)
	c.faces[size] = f
	return f
}

// measure returns the advance width and line height of s. Without a font it
// falls back to an estimate of 0.6em per rune.
func (c *fontCache) measure(s string, size float64) (w, h float64) {
	if f := c.face(size); f != nil {
		w, h = text.Measure(s, f)
		if h == 0 {
			h = size
		}
		return w, h
	}
	return 0.6 * size * float64(len([]rune(s))), size
}

// ascent returns the distance from the top of a line to its baseline.
func (c *fontCache) ascent(size float64) float64 {
	if f := c.face(size); f != nil {
		return f.Metrics().Ascent
	}
	return 0.8 * size
}
