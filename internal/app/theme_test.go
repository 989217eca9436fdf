package app

import (
	"image/color"
	"testing"

	"fyne.io/fyne/v2/theme"
)

func TestThemeOverrides(t *testing.T) {
	th := &Theme{}
	want := color.NRGBA{R: 0xE5, G: 0x39, B: 0x35, A: 0xFF}
	if got := th.Color(theme.ColorNamePrimary, theme.VariantDark); got != want {
		t.Errorf("primary = %v", got)
	}
	if got := th.Size(theme.SizeNamePadding); got != 3 {
		t.Errorf("padding = %v", got)
	}
	if got, def := th.Size(theme.SizeNameText), theme.DefaultTheme().Size(theme.SizeNameText); got != def {
		t.Errorf("text size = %v, want default %v", got, def)
	}
}
