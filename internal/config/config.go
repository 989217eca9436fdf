// Package config holds the editor's runtime configuration: drawing
// constants, zoom limits and logging. It is read from a YAML or JSON file
// and can be reloaded while the editor runs.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"tagdraw/internal/drawer"
	"tagdraw/internal/render"
	"tagdraw/internal/viewport"
	"tagdraw/pkg/colorutil"
)

// ErrInvalidConfig is returned by Validate for out of range values.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds runtime configuration. Fields may be loaded from a file and
// overridden by command-line flags.
type Config struct {
	// Zoom
	ScaleStep float64 `json:"scale_step" yaml:"scale_step"`
	MaxScale  float64 `json:"max_scale" yaml:"max_scale"`

	// Drawing
	LabelHeight    float64 `json:"label_height" yaml:"label_height"`
	LabelFontSize  float64 `json:"label_font_size" yaml:"label_font_size"`
	LabelPadding   float64 `json:"label_padding" yaml:"label_padding"`
	HandleRadius   float64 `json:"handle_radius" yaml:"handle_radius"`
	StrokeWidth    float64 `json:"stroke_width" yaml:"stroke_width"`
	FillAlpha      string  `json:"fill_alpha" yaml:"fill_alpha"`
	EmptyAreaColor string  `json:"empty_area_color" yaml:"empty_area_color"`
	DragLineColor  string  `json:"drag_line_color" yaml:"drag_line_color"`
	CursorPointer  bool    `json:"cursor_pointer" yaml:"cursor_pointer"`

	// Logging
	LogLevel  string `json:"log_level" yaml:"log_level"`
	LogFormat string `json:"log_format" yaml:"log_format"`
}

// Default returns a Config populated with standard defaults.
func Default() *Config {
	r := render.DefaultOptions()
	return &Config{
		ScaleStep:      viewport.DefaultStep,
		MaxScale:       viewport.DefaultMaxScale,
		LabelHeight:    r.LabelHeight,
		LabelFontSize:  r.LabelFontSize,
		LabelPadding:   r.LabelPadding,
		HandleRadius:   r.HandleRadius,
		StrokeWidth:    r.StrokeWidth,
		FillAlpha:      r.FillAlpha,
		EmptyAreaColor: r.EmptyAreaColor,
		DragLineColor:  r.DragLineColor,
		CursorPointer:  true,
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// Validate reports the first out of range value.
func (c *Config) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"scale_step", c.ScaleStep},
		{"max_scale", c.MaxScale},
		{"label_height", c.LabelHeight},
		{"label_font_size", c.LabelFontSize},
		{"label_padding", c.LabelPadding},
		{"handle_radius", c.HandleRadius},
		{"stroke_width", c.StrokeWidth},
	}
	for _, f := range positive {
		if !(f.v > 0) {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidConfig, f.name, f.v)
		}
	}
	if c.ScaleStep > c.MaxScale {
		return fmt.Errorf("%w: scale_step %v exceeds max_scale %v", ErrInvalidConfig, c.ScaleStep, c.MaxScale)
	}
	if _, err := colorutil.ParseHex("#000000" + c.FillAlpha); err != nil || len(c.FillAlpha) != 2 {
		return fmt.Errorf("%w: fill_alpha %q is not two hex digits", ErrInvalidConfig, c.FillAlpha)
	}
	for name, v := range map[string]string{"empty_area_color": c.EmptyAreaColor, "drag_line_color": c.DragLineColor} {
		if _, err := colorutil.ParseHex(v); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, name, err)
		}
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}

// Load reads the configuration at path. Files ending in .yaml or .yml are
// YAML, anything else JSON. Unset fields keep their defaults. A missing file
// yields Default(); on a decode or validation error the defaults are
// returned with the error.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}

	loaded := Default()
	if isYAML(path) {
		err = yaml.Unmarshal(data, loaded)
	} else {
		err = json.Unmarshal(data, loaded)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := loaded.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return loaded, nil
}

// Save writes the configuration to path in the format its extension names.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// RenderOptions returns the drawing constants.
func (c *Config) RenderOptions() render.Options {
	opts := render.DefaultOptions()
	opts.StrokeWidth = c.StrokeWidth
	opts.LabelHeight = c.LabelHeight
	opts.LabelFontSize = c.LabelFontSize
	opts.LabelPadding = c.LabelPadding
	opts.HandleRadius = c.HandleRadius
	opts.FillAlpha = c.FillAlpha
	opts.EmptyAreaColor = c.EmptyAreaColor
	opts.DragLineColor = c.DragLineColor
	return opts
}

// DrawerOptions returns the editor options, logging to logger.
func (c *Config) DrawerOptions(logger *slog.Logger) drawer.Options {
	return drawer.Options{
		Render:        c.RenderOptions(),
		ScaleStep:     c.ScaleStep,
		MaxScale:      c.MaxScale,
		CursorPointer: c.CursorPointer,
		Logger:        logger,
	}
}
