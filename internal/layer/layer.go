// Package layer defines the layer model and the ordered layer store that
// holds a project's visual content.
package layer

import (
	"cover-studio/pkg/geometry"

	"github.com/google/uuid"
)

// Kind identifies the type of content a layer carries.
type Kind string

const (
	KindText   Kind = "text"
	KindImage  Kind = "image"
	KindVector Kind = "vector"
	KindGroup  Kind = "group"
)

// Vector shape names.
const (
	ShapeRect    = "rect"
	ShapeEllipse = "ellipse"
	ShapeLine    = "line"
)

// MinDimension is the hard lower bound on layer width and height. The store
// clamps to it on every write so degenerate boxes can never enter the model.
const MinDimension = 1.0

// Layer is a positioned visual element on the canvas.
type Layer struct {
	ID   string `json:"id"`
	Kind Kind   `json:"kind"`

	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"` // degrees, taken mod 360 semantically

	ZIndex       int     `json:"zIndex"`
	Visible      bool    `json:"visible"`
	Locked       bool    `json:"locked"`
	Opacity      float64 `json:"opacity"` // 0..1
	AspectLocked bool    `json:"aspectLocked"`

	// ParentID back-references an enclosing group; it is not an ownership link.
	ParentID string `json:"parentId,omitempty"`

	// Children is the ordered set of member ids, only for KindGroup.
	Children []string `json:"children,omitempty"`

	// Text payload.
	Text     string  `json:"text,omitempty"`
	FontSize float64 `json:"fontSize,omitempty"`
	FontBold bool    `json:"fontBold,omitempty"`
	Color    string  `json:"color,omitempty"` // hex, e.g. "#1a1a2e"

	// Image payload.
	Path string `json:"path,omitempty"` // source file path

	// Vector payload.
	Shape       string  `json:"shape,omitempty"`
	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
}

// NewLayer creates a layer of the given kind with a fresh id and default
// display settings.
func NewLayer(kind Kind) *Layer {
	return &Layer{
		ID:      uuid.NewString(),
		Kind:    kind,
		Visible: true,
		Opacity: 1.0,
	}
}

// Bounds returns the layer's pose.
func (l *Layer) Bounds() geometry.Bounds {
	return geometry.Bounds{X: l.X, Y: l.Y, Width: l.Width, Height: l.Height, Rotation: l.Rotation}
}

// SetBounds writes a new pose, clamping width and height to MinDimension.
func (l *Layer) SetBounds(b geometry.Bounds) {
	if b.Width < MinDimension {
		b.Width = MinDimension
	}
	if b.Height < MinDimension {
		b.Height = MinDimension
	}
	l.X = b.X
	l.Y = b.Y
	l.Width = b.Width
	l.Height = b.Height
	l.Rotation = b.Rotation
}

// Rect returns the layer's axis-aligned box, ignoring rotation.
func (l *Layer) Rect() geometry.Rect {
	return geometry.Rect{X: l.X, Y: l.Y, Width: l.Width, Height: l.Height}
}

// Clone returns a deep copy of the layer, keeping the same id.
func (l *Layer) Clone() *Layer {
	out := *l
	if l.Children != nil {
		out.Children = make([]string, len(l.Children))
		copy(out.Children, l.Children)
	}
	return &out
}

// Equal reports deep structural equality with another layer.
func (l *Layer) Equal(other *Layer) bool {
	if l == nil || other == nil {
		return l == other
	}
	if l.ID != other.ID || l.Kind != other.Kind ||
		l.X != other.X || l.Y != other.Y ||
		l.Width != other.Width || l.Height != other.Height ||
		l.Rotation != other.Rotation ||
		l.ZIndex != other.ZIndex ||
		l.Visible != other.Visible || l.Locked != other.Locked ||
		l.Opacity != other.Opacity || l.AspectLocked != other.AspectLocked ||
		l.ParentID != other.ParentID ||
		l.Text != other.Text || l.FontSize != other.FontSize ||
		l.FontBold != other.FontBold || l.Color != other.Color ||
		l.Path != other.Path ||
		l.Shape != other.Shape || l.Fill != other.Fill ||
		l.Stroke != other.Stroke || l.StrokeWidth != other.StrokeWidth {
		return false
	}
	if len(l.Children) != len(other.Children) {
		return false
	}
	for i := range l.Children {
		if l.Children[i] != other.Children[i] {
			return false
		}
	}
	return true
}
