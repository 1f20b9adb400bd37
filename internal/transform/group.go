package transform

import (
	"math"

	"cover-studio/internal/layer"
	"cover-studio/pkg/geometry"
)

// PropagateChildBounds computes a group member's new pose from the group's
// old and new bounds. The member's center relative to the group's old center
// is scaled, rotated by the rotation delta, and re-anchored to the group's
// new center; its size scales and its rotation shifts by the same delta, so
// relative layout inside the group never changes under a single drag.
func PropagateChildBounds(oldG, newG, child geometry.Bounds) geometry.Bounds {
	scaleX := 1.0
	if math.Abs(oldG.Width) > 1e-9 {
		scaleX = newG.Width / oldG.Width
	}
	scaleY := 1.0
	if math.Abs(oldG.Height) > 1e-9 {
		scaleY = newG.Height / oldG.Height
	}
	deltaRot := newG.Rotation - oldG.Rotation

	rel := child.Center().Sub(oldG.Center())
	rel = geometry.Point2D{X: rel.X * scaleX, Y: rel.Y * scaleY}
	rel = rel.Rotate(deltaRot)
	center := newG.Center().Add(rel)

	newW := math.Max(child.Width*scaleX, MinSize)
	newH := math.Max(child.Height*scaleY, MinSize)

	return geometry.Bounds{
		X:        center.X - newW/2,
		Y:        center.Y - newH/2,
		Width:    newW,
		Height:   newH,
		Rotation: child.Rotation + deltaRot,
	}
}

// PropagateGroupTransform applies a group's old-to-new bounds change to every
// member. Member start poses are taken from starts when present (the poses
// captured at gesture open), otherwise from the member's current pose.
func PropagateGroupTransform(st *layer.Store, g *layer.Layer, oldG, newG geometry.Bounds, starts map[string]geometry.Bounds) {
	for _, child := range st.ChildrenOf(g) {
		from := child.Bounds()
		if starts != nil {
			if b, ok := starts[child.ID]; ok {
				from = b
			}
		}
		child.SetBounds(PropagateChildBounds(oldG, newG, from))
	}
}

// GroupBounds returns the tight axis-aligned bounding box of the members'
// (x,y)..(x+width,y+height) extents.
func GroupBounds(st *layer.Store, g *layer.Layer) geometry.Rect {
	children := st.ChildrenOf(g)
	rects := make([]geometry.Rect, len(children))
	for i, c := range children {
		rects[i] = c.Rect()
	}
	return geometry.BoundingRect(rects)
}

// RecomputeGroupBounds re-derives a group's box from its members. Called
// whenever membership changes or a member's bounds change outside a
// group-targeted drag, keeping the group-bounds invariant true after every
// child mutation.
func RecomputeGroupBounds(st *layer.Store, g *layer.Layer) {
	if g == nil || g.Kind != layer.KindGroup || len(g.Children) == 0 {
		return
	}
	bbox := GroupBounds(st, g)
	g.SetBounds(geometry.Bounds{
		X:        bbox.X,
		Y:        bbox.Y,
		Width:    bbox.Width,
		Height:   bbox.Height,
		Rotation: g.Rotation,
	})
}

// MirrorGroupFlags copies the group's non-geometric toggles onto every
// member. These do not go through the scale/rotate math.
func MirrorGroupFlags(st *layer.Store, g *layer.Layer) {
	for _, child := range st.ChildrenOf(g) {
		child.Opacity = g.Opacity
		child.Visible = g.Visible
		child.Locked = g.Locked
	}
}
