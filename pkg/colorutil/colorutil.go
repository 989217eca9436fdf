// Package colorutil provides shared color utilities for the annotation editor.
package colorutil

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ErrInvalidColor is returned when a color string cannot be parsed.
var ErrInvalidColor = errors.New("invalid color")

// Common overlay colors used throughout the application.
var (
	Black       = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	White       = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	Transparent = color.NRGBA{}
)

// EmptyArea is the near-transparent fill given to the background so it still
// receives pointer events.
const EmptyArea = "#00000002"

// ParseHex parses "#rgb", "#rrggbb" or "#rrggbbaa" (the leading '#' is
// optional) into a non-premultiplied color.
func ParseHex(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")

	switch len(h) {
	case 3:
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]}) + "ff"
	case 6:
		h += "ff"
	case 8:
	default:
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// MustParseHex is like ParseHex but falls back to fallback on error.
func MustParseHex(s string, fallback color.NRGBA) color.NRGBA {
	c, err := ParseHex(s)
	if err != nil {
		return fallback
	}
	return c
}

// WithAlphaSuffix appends a two-digit hex alpha to a "#rrggbb" color, giving
// "#rrggbbaa". Colors that already carry alpha, or use the short form, are
// expanded first so the suffix always replaces the alpha channel.
func WithAlphaSuffix(hex, alpha string) (string, error) {
	c, err := ParseHex(hex)
	if err != nil {
		return "", err
	}
	if _, err := strconv.ParseUint(alpha, 16, 8); err != nil || len(alpha) != 2 {
		return "", fmt.Errorf("%w: alpha %q", ErrInvalidColor, alpha)
	}
	return fmt.Sprintf("#%02x%02x%02x%s", c.R, c.G, c.B, strings.ToLower(alpha)), nil
}

// ToHex formats a color as "#rrggbbaa".
func ToHex(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}
