// Package transform converts raw pointer deltas into new layer bounds and
// propagates group transforms to member layers.
package transform

import (
	"cover-studio/pkg/geometry"
)

// SessionKind identifies the gesture a session performs.
type SessionKind int

const (
	SessionMove SessionKind = iota
	SessionResize
	SessionRotate
)

// Handle names the eight resize handles by compass direction.
type Handle string

const (
	HandleN  Handle = "n"
	HandleNE Handle = "ne"
	HandleE  Handle = "e"
	HandleSE Handle = "se"
	HandleS  Handle = "s"
	HandleSW Handle = "sw"
	HandleW  Handle = "w"
	HandleNW Handle = "nw"
)

// IsCorner reports whether the handle is one of the four corners.
func (h Handle) IsCorner() bool {
	switch h {
	case HandleNE, HandleSE, HandleSW, HandleNW:
		return true
	}
	return false
}

// valid reports whether the handle is one of the eight known tokens. Unknown
// tokens make the whole resize a no-op instead of a crash; handle identity is
// internally generated and should never be invalid, but this guards against
// future handle-set changes.
func (h Handle) valid() bool {
	switch h {
	case HandleN, HandleNE, HandleE, HandleSE, HandleS, HandleSW, HandleW, HandleNW:
		return true
	}
	return false
}

// Session captures the ephemeral state of one pointer-down-to-pointer-up
// gesture. It lives only between pointer-down and pointer-up and is discarded
// on interruption. Sessions are exclusive; opening a new one ends any prior.
type Session struct {
	Kind         SessionKind
	TargetID     string
	StartPointer geometry.Point2D // screen coordinates
	StartBounds  geometry.Bounds  // target pose at gesture start
	Handle       Handle           // resize only
	AspectLocked bool             // target's aspect-lock flag at gesture start
}

// Modifiers are the keyboard modifiers active during a pointer event.
type Modifiers struct {
	SnapAngle bool // round rotation to rotationSnapStep
	KeepRatio bool // force aspect lock on any handle
}

// Viewport maps between screen and canvas coordinates: Origin is the screen
// position of the canvas (0,0) and Zoom is canvas-to-screen scale.
type Viewport struct {
	Origin geometry.Point2D
	Zoom   float64
}

// ScreenDeltaToCanvas converts a screen-space delta to canvas units. Every
// piece of pointer math goes through this one conversion point.
func (v Viewport) ScreenDeltaToCanvas(delta geometry.Point2D) geometry.Point2D {
	zoom := v.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	return geometry.Point2D{X: delta.X / zoom, Y: delta.Y / zoom}
}

// CanvasToScreen converts a canvas-space point to screen coordinates.
func (v Viewport) CanvasToScreen(p geometry.Point2D) geometry.Point2D {
	zoom := v.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	return geometry.Point2D{X: v.Origin.X + p.X*zoom, Y: v.Origin.Y + p.Y*zoom}
}

// ScreenToCanvas converts a screen-space point to canvas coordinates.
func (v Viewport) ScreenToCanvas(p geometry.Point2D) geometry.Point2D {
	zoom := v.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	return geometry.Point2D{X: (p.X - v.Origin.X) / zoom, Y: (p.Y - v.Origin.Y) / zoom}
}
