// Package project provides annotation project files: a background image
// reference plus the annotations drawn over it.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tagdraw/internal/annotation"
)

// Extension is the project file extension.
const Extension = ".tagproj"

// currentVersion is written by Save.
const currentVersion = 1

// File represents a project file.
type File struct {
	Version  int       `json:"version"`
	Name     string    `json:"name"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`

	// Image path (relative to project file)
	ImagePath string `json:"image,omitempty"`

	Annotations []*annotation.Annotation `json:"annotations"`
}

// New creates an empty project.
func New(name string) *File {
	now := time.Now()
	return &File{
		Version:  currentVersion,
		Name:     name,
		Created:  now,
		Modified: now,
	}
}

// Load loads a project and validates every annotation.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var proj File
	if err := json.Unmarshal(data, &proj); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if proj.Version > currentVersion {
		return nil, fmt.Errorf("%s: unsupported project version %d", path, proj.Version)
	}
	for i, a := range proj.Annotations {
		if a == nil {
			return nil, fmt.Errorf("%s: annotation %d: %w: null record", path, i, annotation.ErrInvalidGeometry)
		}
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("%s: annotation %d: %w", path, i, err)
		}
		a.Label = annotation.NormalizeLabel(a.Label)
	}
	return &proj, nil
}

// Save saves the project to a file.
func (p *File) Save(path string) error {
	p.Version = currentVersion
	p.Modified = time.Now()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// SetAnnotations stores deep copies of records.
func (p *File) SetAnnotations(records []*annotation.Annotation) {
	p.Annotations = make([]*annotation.Annotation, len(records))
	for i, a := range records {
		p.Annotations[i] = a.Clone()
	}
	p.Modified = time.Now()
}

// SetImage sets the image path (relative to project).
func (p *File) SetImage(projectPath, imagePath string) {
	rel, err := filepath.Rel(filepath.Dir(projectPath), imagePath)
	if err != nil {
		p.ImagePath = imagePath
	} else {
		p.ImagePath = rel
	}
	p.Modified = time.Now()
}

// ImagePathFor returns the absolute path to the image.
func (p *File) ImagePathFor(projectPath string) string {
	if p.ImagePath == "" {
		return ""
	}
	if filepath.IsAbs(p.ImagePath) {
		return p.ImagePath
	}
	return filepath.Join(filepath.Dir(projectPath), p.ImagePath)
}
