// Package project provides project file handling and persistence.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"cover-studio/internal/layer"
)

// Extension is the project file suffix.
const Extension = ".cvproj"

// Canvas holds the fixed-size design surface configuration.
type Canvas struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Background string  `json:"background"` // hex color
}

// DefaultCanvas returns the canvas used for new projects.
func DefaultCanvas() Canvas {
	return Canvas{Width: 1600, Height: 900, Background: "#ffffff"}
}

// File represents a cover project file (.cvproj).
type File struct {
	Version  int       `json:"version"`
	Name     string    `json:"name"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`

	Canvas Canvas         `json:"canvas"`
	Layers []*layer.Layer `json:"layers"`
}

// New creates a new project file with default settings.
func New(name string) *File {
	now := time.Now()
	return &File{
		Version:  1,
		Name:     name,
		Created:  now,
		Modified: now,
		Canvas:   DefaultCanvas(),
	}
}

// Load loads a project from a .cvproj file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var proj File
	if err := json.Unmarshal(data, &proj); err != nil {
		return nil, fmt.Errorf("parsing project %s: %w", path, err)
	}
	if proj.Canvas.Width <= 0 || proj.Canvas.Height <= 0 {
		proj.Canvas = DefaultCanvas()
	}
	return &proj, nil
}

// Save saves the project to a file.
func (p *File) Save(path string) error {
	p.Modified = time.Now()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SetLayers captures the store's content in paint order.
func (p *File) SetLayers(st *layer.Store) {
	ordered := st.Ordered()
	p.Layers = make([]*layer.Layer, len(ordered))
	for i, l := range ordered {
		p.Layers[i] = l.Clone()
	}
}

// BuildStore reconstructs a layer store from the file's layers, preserving
// saved z-indices and dropping records that fail referential checks.
func (p *File) BuildStore() (*layer.Store, error) {
	st := layer.NewStore()
	for _, rec := range p.Layers {
		if rec == nil || rec.ID == "" {
			continue
		}
		if err := st.Attach(rec.Clone()); err != nil {
			return nil, err
		}
	}

	// Repair dangling references left by hand-edited files.
	for _, rec := range p.Layers {
		l, ok := st.Get(rec.ID)
		if !ok {
			continue
		}
		if l.ParentID != "" {
			if g, ok := st.Get(l.ParentID); !ok || g.Kind != layer.KindGroup {
				l.ParentID = ""
			}
		}
		if l.Kind == layer.KindGroup {
			kept := l.Children[:0]
			for _, cid := range l.Children {
				if st.Has(cid) {
					kept = append(kept, cid)
				}
			}
			l.Children = kept
		}
	}
	return st, nil
}
