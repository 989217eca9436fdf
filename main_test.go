package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tagdraw/internal/annotation"
	"tagdraw/internal/config"
	"tagdraw/internal/drawer"
	"tagdraw/internal/project"
)

func writeProject(t *testing.T, dir string, withImage bool) string {
	t.Helper()
	path := filepath.Join(dir, "shapes"+project.Extension)

	rect, _ := annotation.NewRect(10, 30, 60, 80)
	a, err := annotation.New(rect, "#ff0000", "box")
	if err != nil {
		t.Fatal(err)
	}
	a.IsFilled = true

	p := project.New("shapes")
	p.SetAnnotations([]*annotation.Annotation{a})
	if withImage {
		img := image.NewNRGBA(image.Rect(0, 0, 120, 90))
		for i := range img.Pix {
			img.Pix[i] = 0xFF
		}
		imgPath := filepath.Join(dir, "bg.png")
		if err := writePNG(imgPath, img); err != nil {
			t.Fatal(err)
		}
		p.SetImage(path, imgPath)
	}
	if err := p.Save(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func decode(t *testing.T, path string) image.Image {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	return img
}

func TestRenderProject_WithImage(t *testing.T) {
	dir := t.TempDir()
	path := writeProject(t, dir, true)
	out := filepath.Join(dir, "out", "shapes.png")

	if err := renderProject(drawer.DefaultOptions(), path, out, true); err != nil {
		t.Fatal(err)
	}
	img := decode(t, out)
	if b := img.Bounds(); b.Dx() != 120 || b.Dy() != 90 {
		t.Fatalf("size = %v", b)
	}
	// Filled interior is tinted toward the outline color.
	r, g, _, _ := img.At(35, 55).RGBA()
	if r <= g {
		t.Errorf("interior not tinted red: r=%d g=%d", r, g)
	}
	// Outside every shape the white background is untouched.
	if c := color.NRGBAModel.Convert(img.At(110, 5)).(color.NRGBA); c.R != 0xFF || c.G != 0xFF || c.B != 0xFF {
		t.Errorf("background = %v", c)
	}
}

func TestRenderProject_NoImage(t *testing.T) {
	dir := t.TempDir()
	path := writeProject(t, dir, false)
	out := filepath.Join(dir, "shapes.png")

	if err := renderProject(drawer.DefaultOptions(), path, out, false); err != nil {
		t.Fatal(err)
	}
	b := decode(t, out).Bounds()
	if b.Dx() != 60+renderMargin || b.Dy() != 80+renderMargin {
		t.Errorf("size = %v", b)
	}
}

func TestRenderProject_MissingImage(t *testing.T) {
	dir := t.TempDir()
	path := writeProject(t, dir, true)
	if err := os.Remove(filepath.Join(dir, "bg.png")); err != nil {
		t.Fatal(err)
	}
	if err := renderProject(drawer.DefaultOptions(), path, filepath.Join(dir, "x.png"), true); err == nil {
		t.Fatal("rendered without image")
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "config.yaml")
	if err := runConfigInit(path, false); err != nil {
		t.Fatal(err)
	}
	if err := runConfigInit(path, false); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("second init err = %v", err)
	}
	if err := runConfigInit(path, true); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if *cfg != *config.Default() {
		t.Errorf("loaded %+v", cfg)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	flags := globalFlags{
		configPath: filepath.Join(t.TempDir(), "missing.yaml"),
		logLevel:   "debug",
		logFormat:  "json",
	}
	cfg, logger, err := loadConfig(flags)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "debug" || cfg.LogFormat != "json" || logger == nil {
		t.Errorf("cfg = %+v", cfg)
	}

	flags.logFormat = "xml"
	if _, _, err := loadConfig(flags); err == nil {
		t.Error("accepted bad log format")
	}
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCommand()
	if cmd.Version == "" {
		t.Error("no version")
	}
	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	if !names["render"] || !names["config"] {
		t.Errorf("subcommands = %v", names)
	}
}
