package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", prefsFile)

	p := LoadFrom(path)
	if got := p.FloatWithFallback(KeyWindowWidth, 1200); got != 1200 {
		t.Errorf("fallback width = %v", got)
	}
	p.SetFloat(KeyWindowWidth, 800)
	p.SetString(KeyLastImage, "/data/a.png")
	p.SetBool(KeyShowLabels, true)
	if err := p.Save(); err != nil {
		t.Fatal(err)
	}

	q := LoadFrom(path)
	if got := q.FloatWithFallback(KeyWindowWidth, 0); got != 800 {
		t.Errorf("width = %v", got)
	}
	if got := q.String(KeyLastImage); got != "/data/a.png" {
		t.Errorf("last image = %q", got)
	}
	if !q.Bool(KeyShowLabels, false) {
		t.Error("show labels lost")
	}
	if got := q.StringWithFallback(KeyDefaultColor, "#ff0000"); got != "#ff0000" {
		t.Errorf("default color = %q", got)
	}
}

func TestLoadFrom_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), prefsFile)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	p := LoadFrom(path)
	if p.Bool(KeyShowLabels, true) != true {
		t.Error("corrupt file produced values")
	}
	if p.Path() != path {
		t.Errorf("path = %q", p.Path())
	}
}

func TestWrongType(t *testing.T) {
	p := LoadFrom(filepath.Join(t.TempDir(), prefsFile))
	p.SetString(KeyWindowHeight, "tall")
	if got := p.FloatWithFallback(KeyWindowHeight, 600); got != 600 {
		t.Errorf("height = %v", got)
	}
}

func TestTypedAccessors(t *testing.T) {
	path := filepath.Join(t.TempDir(), prefsFile)
	p := LoadFrom(path)

	if w, h := p.WindowSize(); w != DefaultWindowWidth || h != DefaultWindowHeight {
		t.Errorf("default size = %vx%v", w, h)
	}
	if c, l, show := p.DrawDefaults(); c != DefaultColor || l != DefaultLabel || show {
		t.Errorf("default draw = %q %q %v", c, l, show)
	}

	p.SetWindowSize(640, 0)
	p.SetDrawDefaults("#00ff00", "car", true)
	p.RememberFile(KeyLastProject, filepath.Join("/data", "p", "a.tagproj"))
	if err := p.Save(); err != nil {
		t.Fatal(err)
	}

	q := LoadFrom(path)
	if w, h := q.WindowSize(); w != 640 || h != DefaultWindowHeight {
		t.Errorf("size = %vx%v", w, h)
	}
	if c, l, show := q.DrawDefaults(); c != "#00ff00" || l != "car" || !show {
		t.Errorf("draw = %q %q %v", c, l, show)
	}
	if got := q.LastDir(); got != filepath.Join("/data", "p") {
		t.Errorf("last dir = %q", got)
	}
	if got := q.String(KeyLastProject); got != filepath.Join("/data", "p", "a.tagproj") {
		t.Errorf("last project = %q", got)
	}
}

func TestLoadFrom_NullDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), prefsFile)
	if err := os.WriteFile(path, []byte("null"), 0o644); err != nil {
		t.Fatal(err)
	}
	p := LoadFrom(path)
	p.SetBool(KeyShowLabels, true)
	if !p.Bool(KeyShowLabels, false) {
		t.Error("store unusable after null document")
	}
}
