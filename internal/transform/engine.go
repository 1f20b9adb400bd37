package transform

import (
	"math"

	"cover-studio/pkg/geometry"
)

const (
	// MinSize is the floor applied to width and height during resize and
	// group scaling. It also guards ratio math against division by zero.
	MinSize = 10.0

	// rotateHandleOffset compensates for the rotate handle sitting directly
	// above the layer: with the pointer on the handle, atan2 reads -90 and
	// the layer should be at 0. If the handle's screen placement convention
	// ever changes this offset must be revisited.
	rotateHandleOffset = 90.0

	rotationSnapStep = 15.0
)

// ComputeNextBounds computes the target layer's next pose from an open
// session and the live pointer position. It is a pure function of its
// arguments; the caller applies the result to the store as a preview update.
func ComputeNextBounds(sess *Session, pointerNow geometry.Point2D, mods Modifiers, view Viewport) geometry.Bounds {
	switch sess.Kind {
	case SessionMove:
		return computeMove(sess, pointerNow, view)
	case SessionRotate:
		return computeRotate(sess, pointerNow, mods, view)
	case SessionResize:
		return computeResize(sess, pointerNow, mods, view)
	}
	return sess.StartBounds
}

func computeMove(sess *Session, pointerNow geometry.Point2D, view Viewport) geometry.Bounds {
	delta := view.ScreenDeltaToCanvas(pointerNow.Sub(sess.StartPointer))
	next := sess.StartBounds
	next.X += delta.X
	next.Y += delta.Y
	return next
}

func computeRotate(sess *Session, pointerNow geometry.Point2D, mods Modifiers, view Viewport) geometry.Bounds {
	center := view.CanvasToScreen(sess.StartBounds.Center())
	angle := math.Atan2(pointerNow.Y-center.Y, pointerNow.X-center.X) * 180.0 / math.Pi
	angle += rotateHandleOffset
	if mods.SnapAngle {
		angle = geometry.SnapAngle(angle, rotationSnapStep)
	}
	next := sess.StartBounds
	next.Rotation = angle
	return next
}

func computeResize(sess *Session, pointerNow geometry.Point2D, mods Modifiers, view Viewport) geometry.Bounds {
	start := sess.StartBounds
	handle := sess.Handle
	if !handle.valid() {
		return start
	}

	// Project the pointer delta into the layer's local, unrotated frame.
	// Handles are defined relative to the layer's own orientation, so the
	// delta must be expressed there before mapping it onto edges.
	delta := view.ScreenDeltaToCanvas(pointerNow.Sub(sess.StartPointer))
	local := delta.Rotate(-start.Rotation)

	// Aspect lock applies when the layer's flag is set and a corner is
	// dragged, or when the keep-ratio modifier is held on any handle.
	aspect := mods.KeepRatio || (sess.AspectLocked && handle.IsCorner())
	w := math.Max(start.Width, MinSize)
	h := math.Max(start.Height, MinSize)
	ratio := w / h

	// On corner handles the secondary local delta is recomputed from the
	// primary one; the sw/ne diagonal resizes in mirrored ratio direction.
	if aspect && handle.IsCorner() {
		sign := 1.0
		if handle == HandleSW || handle == HandleNE {
			sign = -1.0
		}
		local.Y = sign * local.X / ratio
	}

	// Map the handle onto moving edges. A handle containing east grows width
	// rightward; west grows width leftward and shifts the local origin;
	// north/south likewise for height.
	var deltaW, deltaH, originX, originY float64
	switch handle {
	case HandleE, HandleNE, HandleSE:
		deltaW = local.X
	case HandleW, HandleNW, HandleSW:
		deltaW = -local.X
	}
	switch handle {
	case HandleS, HandleSE, HandleSW:
		deltaH = local.Y
	case HandleN, HandleNE, HandleNW:
		deltaH = -local.Y
	}

	newW := math.Max(start.Width+deltaW, MinSize)
	newH := math.Max(start.Height+deltaH, MinSize)
	appliedW := newW - start.Width
	appliedH := newH - start.Height

	switch handle {
	case HandleW, HandleNW, HandleSW:
		originX = -appliedW
	}
	switch handle {
	case HandleN, HandleNE, HandleNW:
		originY = -appliedH
	}

	// Keep-ratio on an edge handle derives the secondary dimension from the
	// dragged one and resizes it centered, so only the dragged axis has a
	// fixed opposite edge.
	if aspect && !handle.IsCorner() {
		switch handle {
		case HandleE, HandleW:
			newH = math.Max(newW/ratio, MinSize)
			appliedH = newH - start.Height
			originY = -appliedH / 2
		case HandleN, HandleS:
			newW = math.Max(newH*ratio, MinSize)
			appliedW = newW - start.Width
			originX = -appliedW / 2
		}
	}

	// The local-frame center displacement, rotated back into world space and
	// added to the old center, keeps the opposite edge or corner visually
	// fixed for any rotation.
	localShift := geometry.Point2D{
		X: originX + appliedW/2,
		Y: originY + appliedH/2,
	}
	worldShift := localShift.Rotate(start.Rotation)
	newCenter := start.Center().Add(worldShift)

	return geometry.Bounds{
		X:        newCenter.X - newW/2,
		Y:        newCenter.Y - newH/2,
		Width:    newW,
		Height:   newH,
		Rotation: start.Rotation,
	}
}
