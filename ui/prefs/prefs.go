// Package prefs keeps per-user editor state between runs: window size, the
// last opened files and the defaults given to newly drawn annotations.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

const (
	appDir    = "tagdraw"
	prefsFile = "preferences.json"
)

// Preference keys.
const (
	KeyWindowWidth  = "windowWidth"
	KeyWindowHeight = "windowHeight"
	KeyLastDir      = "lastDirectory"
	KeyLastImage    = "lastImage"
	KeyLastProject  = "lastProject"
	KeyShowLabels   = "showLabels"
	KeyDefaultColor = "defaultColor"
	KeyDefaultLabel = "defaultLabel"
)

// Fallbacks used when a preference is missing or has the wrong type.
const (
	DefaultWindowWidth  = 1200.0
	DefaultWindowHeight = 800.0
	DefaultColor        = "#ff0000"
	DefaultLabel        = "tag"
)

// Prefs is a JSON-backed key/value store. Values decoded from disk keep
// their JSON types, so numbers are always float64.
type Prefs struct {
	mu     sync.RWMutex
	values map[string]any
	path   string
}

// Load opens <user config dir>/tagdraw/preferences.json.
func Load() *Prefs {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return LoadFrom(filepath.Join(dir, appDir, prefsFile))
}

// LoadFrom opens the preferences at path. A missing or corrupt file gives
// an empty store that Save will overwrite.
func LoadFrom(path string) *Prefs {
	p := &Prefs{values: map[string]any{}, path: path}
	if data, err := os.ReadFile(path); err == nil {
		if json.Unmarshal(data, &p.values) != nil || p.values == nil {
			p.values = map[string]any{}
		}
	}
	return p
}

// Path returns the backing file.
func (p *Prefs) Path() string { return p.path }

// Save writes the store, creating the directory if needed.
func (p *Prefs) Save() error {
	p.mu.RLock()
	data, err := json.MarshalIndent(p.values, "", "  ")
	p.mu.RUnlock()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p.path, data, 0o644)
}

// lookup returns the value at key if it has type T.
func lookup[T any](p *Prefs, key string) (T, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.values[key].(T)
	return v, ok
}

func (p *Prefs) set(key string, v any) {
	p.mu.Lock()
	p.values[key] = v
	p.mu.Unlock()
}

// FloatWithFallback returns a number preference, or fallback.
func (p *Prefs) FloatWithFallback(key string, fallback float64) float64 {
	if v, ok := lookup[float64](p, key); ok {
		return v
	}
	return fallback
}

// SetFloat stores a number preference.
func (p *Prefs) SetFloat(key string, v float64) { p.set(key, v) }

// StringWithFallback returns a string preference, or fallback. Empty strings
// count as unset.
func (p *Prefs) StringWithFallback(key, fallback string) string {
	if v, ok := lookup[string](p, key); ok && v != "" {
		return v
	}
	return fallback
}

// String returns a string preference, or "".
func (p *Prefs) String(key string) string { return p.StringWithFallback(key, "") }

// SetString stores a string preference.
func (p *Prefs) SetString(key, v string) { p.set(key, v) }

// Bool returns a bool preference, or fallback.
func (p *Prefs) Bool(key string, fallback bool) bool {
	if v, ok := lookup[bool](p, key); ok {
		return v
	}
	return fallback
}

// SetBool stores a bool preference.
func (p *Prefs) SetBool(key string, v bool) { p.set(key, v) }

// WindowSize returns the saved window size. Non-positive values fall back
// to the defaults.
func (p *Prefs) WindowSize() (w, h float64) {
	w = p.FloatWithFallback(KeyWindowWidth, DefaultWindowWidth)
	h = p.FloatWithFallback(KeyWindowHeight, DefaultWindowHeight)
	if w <= 0 {
		w = DefaultWindowWidth
	}
	if h <= 0 {
		h = DefaultWindowHeight
	}
	return w, h
}

// SetWindowSize records the window size.
func (p *Prefs) SetWindowSize(w, h float64) {
	p.SetFloat(KeyWindowWidth, w)
	p.SetFloat(KeyWindowHeight, h)
}

// DrawDefaults returns the color and label given to new annotations and
// whether labels are shown.
func (p *Prefs) DrawDefaults() (color, label string, showLabels bool) {
	return p.StringWithFallback(KeyDefaultColor, DefaultColor),
		p.StringWithFallback(KeyDefaultLabel, DefaultLabel),
		p.Bool(KeyShowLabels, false)
}

// SetDrawDefaults records the drawing defaults.
func (p *Prefs) SetDrawDefaults(color, label string, showLabels bool) {
	p.SetString(KeyDefaultColor, color)
	p.SetString(KeyDefaultLabel, label)
	p.SetBool(KeyShowLabels, showLabels)
}

// LastDir returns the directory of the last opened or saved file.
func (p *Prefs) LastDir() string { return p.String(KeyLastDir) }

// RememberFile records path as the last image or project, and its directory
// as the last directory.
func (p *Prefs) RememberFile(key, path string) {
	p.SetString(key, path)
	p.SetString(KeyLastDir, filepath.Dir(path))
}
