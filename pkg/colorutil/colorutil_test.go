package colorutil

import (
	"errors"
	"image/color"
	"testing"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#ff0000", color.NRGBA{R: 255, A: 255}},
		{"00ff00", color.NRGBA{G: 255, A: 255}},
		{"#00f", color.NRGBA{B: 255, A: 255}},
		{"#ff000020", color.NRGBA{R: 255, A: 0x20}},
		{EmptyArea, color.NRGBA{A: 2}},
		{"#FFFFFF", color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
	}
	for _, tt := range tests {
		got, err := ParseHex(tt.in)
		if err != nil {
			t.Errorf("ParseHex(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHex(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseHex_Invalid(t *testing.T) {
	for _, in := range []string{"", "#12", "#12345", "#gggggg", "red"} {
		if _, err := ParseHex(in); !errors.Is(err, ErrInvalidColor) {
			t.Errorf("ParseHex(%q) err = %v, want ErrInvalidColor", in, err)
		}
	}
}

func TestWithAlphaSuffix(t *testing.T) {
	got, err := WithAlphaSuffix("#FF0000", "20")
	if err != nil {
		t.Fatal(err)
	}
	if got != "#ff000020" {
		t.Errorf("got %q", got)
	}

	got, err = WithAlphaSuffix("#0f0", "80")
	if err != nil {
		t.Fatal(err)
	}
	if got != "#00ff0080" {
		t.Errorf("short form: got %q", got)
	}

	if _, err := WithAlphaSuffix("#ff0000", "2"); err == nil {
		t.Error("expected error for one-digit alpha")
	}
}

func TestToHex(t *testing.T) {
	if got := ToHex(color.NRGBA{R: 1, G: 2, B: 3, A: 4}); got != "#01020304" {
		t.Errorf("got %q", got)
	}
}

func TestMustParseHex(t *testing.T) {
	if got := MustParseHex("nope", White); got != White {
		t.Errorf("fallback not used: %v", got)
	}
}
