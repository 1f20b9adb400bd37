package transform

import (
	"testing"

	"cover-studio/internal/layer"
	"cover-studio/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildGroup(t *testing.T) (*layer.Store, *layer.Layer, *layer.Layer, *layer.Layer) {
	t.Helper()
	st := layer.NewStore()

	c1 := layer.NewLayer(layer.KindVector)
	c1.SetBounds(geometry.Bounds{X: 100, Y: 100, Width: 40, Height: 20})
	c2 := layer.NewLayer(layer.KindText)
	c2.SetBounds(geometry.Bounds{X: 200, Y: 160, Width: 60, Height: 40, Rotation: 15})
	require.NoError(t, st.Add(c1))
	require.NoError(t, st.Add(c2))

	g, err := st.Group([]string{c1.ID, c2.ID})
	require.NoError(t, err)
	return st, g, c1, c2
}

func TestGroupCreationBounds(t *testing.T) {
	_, g, _, _ := buildGroup(t)
	assert.Equal(t, geometry.Rect{X: 100, Y: 100, Width: 160, Height: 100}, g.Rect())
}

func TestPropagateMoveKeepsRelativeLayout(t *testing.T) {
	st, g, c1, c2 := buildGroup(t)
	oldG := g.Bounds()
	newG := oldG
	newG.X += 70
	newG.Y -= 30

	off1 := c1.Bounds().Center().Sub(oldG.Center())
	off2 := c2.Bounds().Center().Sub(oldG.Center())

	PropagateGroupTransform(st, g, oldG, newG, nil)
	g.SetBounds(newG)

	got1 := c1.Bounds().Center().Sub(newG.Center())
	got2 := c2.Bounds().Center().Sub(newG.Center())
	assert.InDelta(t, off1.X, got1.X, 1e-9)
	assert.InDelta(t, off1.Y, got1.Y, 1e-9)
	assert.InDelta(t, off2.X, got2.X, 1e-9)
	assert.InDelta(t, off2.Y, got2.Y, 1e-9)
	assert.InDelta(t, 40, c1.Width, 1e-9)
	assert.InDelta(t, 15, c2.Rotation, 1e-9)
}

func TestPropagateScaleRoundTrip(t *testing.T) {
	st, g, c1, c2 := buildGroup(t)
	orig1 := c1.Bounds()
	orig2 := c2.Bounds()
	oldG := g.Bounds()

	// Scale up, then back down to the original group bounds.
	scaled := oldG
	scaled.Width *= 1.75
	scaled.Height *= 1.3
	scaled.X -= 12
	scaled.Y += 5
	PropagateGroupTransform(st, g, oldG, scaled, nil)
	g.SetBounds(scaled)
	PropagateGroupTransform(st, g, scaled, oldG, nil)
	g.SetBounds(oldG)

	for _, pair := range []struct{ want, got geometry.Bounds }{
		{orig1, c1.Bounds()},
		{orig2, c2.Bounds()},
	} {
		assert.InDelta(t, pair.want.X, pair.got.X, 1e-9)
		assert.InDelta(t, pair.want.Y, pair.got.Y, 1e-9)
		assert.InDelta(t, pair.want.Width, pair.got.Width, 1e-9)
		assert.InDelta(t, pair.want.Height, pair.got.Height, 1e-9)
		assert.InDelta(t, pair.want.Rotation, pair.got.Rotation, 1e-9)
	}
}

func TestPropagateRotateShiftsChildRotation(t *testing.T) {
	st, g, c1, c2 := buildGroup(t)
	oldG := g.Bounds()
	newG := oldG
	newG.Rotation = 90

	PropagateGroupTransform(st, g, oldG, newG, nil)

	assert.InDelta(t, 90, c1.Rotation, 1e-9)
	assert.InDelta(t, 105, c2.Rotation, 1e-9)

	// A child center offset rotates with the group: c1 sat up-left of the
	// group center, after 90 degrees clockwise it sits up-right.
	rel := c1.Bounds().Center().Sub(newG.Center())
	origRel := geometry.Point2D{X: 120 - 180, Y: 110 - 150}
	want := origRel.Rotate(90)
	assert.InDelta(t, want.X, rel.X, 1e-9)
	assert.InDelta(t, want.Y, rel.Y, 1e-9)
}

func TestPropagateScaleFloorsChildSize(t *testing.T) {
	st, g, c1, _ := buildGroup(t)
	oldG := g.Bounds()
	newG := oldG
	newG.Width = 16 // scale factor 0.1
	newG.Height = 10

	PropagateGroupTransform(st, g, oldG, newG, nil)
	assert.GreaterOrEqual(t, c1.Width, MinSize)
	assert.GreaterOrEqual(t, c1.Height, MinSize)
}

func TestPropagateGuardsDegenerateOldBounds(t *testing.T) {
	child := geometry.Bounds{X: 10, Y: 10, Width: 20, Height: 20}
	oldG := geometry.Bounds{X: 0, Y: 0, Width: 0, Height: 0}
	newG := geometry.Bounds{X: 0, Y: 0, Width: 100, Height: 50}

	got := PropagateChildBounds(oldG, newG, child)
	// Scale factors fall back to 1 instead of exploding.
	assert.InDelta(t, 20, got.Width, 1e-9)
	assert.InDelta(t, 20, got.Height, 1e-9)
}

func TestRecomputeGroupBoundsAfterChildDelete(t *testing.T) {
	st := layer.NewStore()
	bounds := []geometry.Bounds{
		{X: 0, Y: 0, Width: 50, Height: 50},
		{X: 100, Y: 20, Width: 30, Height: 30},
		{X: 40, Y: 200, Width: 60, Height: 10},
	}
	ids := make([]string, 3)
	for i, b := range bounds {
		l := layer.NewLayer(layer.KindVector)
		l.SetBounds(b)
		require.NoError(t, st.Add(l))
		ids[i] = l.ID
	}
	g, err := st.Group(ids)
	require.NoError(t, err)

	// Delete the third child and re-derive the box.
	st.Remove(ids[2])
	RecomputeGroupBounds(st, g)

	assert.Equal(t, geometry.Rect{X: 0, Y: 0, Width: 130, Height: 50}, g.Rect())
}

func TestMirrorGroupFlags(t *testing.T) {
	st, g, c1, c2 := buildGroup(t)
	g.Opacity = 0.4
	g.Visible = false
	g.Locked = true

	MirrorGroupFlags(st, g)

	for _, c := range []*layer.Layer{c1, c2} {
		assert.Equal(t, 0.4, c.Opacity)
		assert.False(t, c.Visible)
		assert.True(t, c.Locked)
	}
}
