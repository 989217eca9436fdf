// Package app holds application-wide UI setup shared by the window and the
// command line entry point.
package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Theme darkens the chrome around the drawing surface so annotation colors
// stand out.
type Theme struct{}

var _ fyne.Theme = (*Theme)(nil)

// Color overrides the primary, selection and background colors.
func (t *Theme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0xE5, G: 0x39, B: 0x35, A: 0xFF}
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0xE5, G: 0x39, B: 0x35, A: 0x40}
	case theme.ColorNameBackground:
		if variant == theme.VariantDark {
			return color.NRGBA{R: 0x1E, G: 0x1E, B: 0x1E, A: 0xFF}
		}
	}
	return theme.DefaultTheme().Color(name, variant)
}

func (t *Theme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *Theme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

// Size tightens padding so the toolbar stays on one row.
func (t *Theme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	}
	return theme.DefaultTheme().Size(name)
}
