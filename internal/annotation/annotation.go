package annotation

import (
	"fmt"
	"strings"

	"tagdraw/pkg/colorutil"
)

// Annotation is one tagged region.
type Annotation struct {
	Geometry Geometry `json:"geometry"`
	// Color is a hex color string such as "#ff0000".
	Color string `json:"color"`
	Label string `json:"label"`

	IsFilled     bool `json:"isFilled"`
	Selected     bool `json:"selected"`
	LabelVisible bool `json:"labelVisible"`
}

// New validates g and color and returns a record with all visual flags off.
func New(g Geometry, color, label string) (*Annotation, error) {
	norm, err := g.Normalize()
	if err != nil {
		return nil, err
	}
	if err := checkColor(color); err != nil {
		return nil, err
	}
	return &Annotation{
		Geometry: norm,
		Color:    color,
		Label:    NormalizeLabel(label),
	}, nil
}

// Validate checks the geometry and color of a record built outside New,
// such as one decoded from a file.
func (a *Annotation) Validate() error {
	if err := a.Geometry.Validate(); err != nil {
		return err
	}
	return checkColor(a.Color)
}

// normalize orders rect corners and replaces a blank label. a must be valid.
func (a *Annotation) normalize() {
	if g, err := a.Geometry.Normalize(); err == nil {
		a.Geometry = g
	}
	a.Label = NormalizeLabel(a.Label)
}

func checkColor(s string) error {
	if _, err := colorutil.ParseHex(s); err != nil {
		return fmt.Errorf("color: %w", err)
	}
	return nil
}

// NormalizeLabel replaces an empty or whitespace-only label with a single
// space so a label box always has some width.
func NormalizeLabel(s string) string {
	if strings.TrimSpace(s) == "" {
		return " "
	}
	return s
}

// Clone returns a deep copy.
func (a *Annotation) Clone() *Annotation {
	c := *a
	c.Geometry = a.Geometry.Clone()
	return &c
}
