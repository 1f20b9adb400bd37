package layer

import (
	"testing"

	"cover-studio/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addVector(t *testing.T, st *Store, b geometry.Bounds) *Layer {
	t.Helper()
	l := NewLayer(KindVector)
	l.Shape = ShapeRect
	l.SetBounds(b)
	require.NoError(t, st.Add(l))
	return l
}

func TestAddAssignsTopZIndex(t *testing.T) {
	st := NewStore()
	a := addVector(t, st, geometry.Bounds{Width: 10, Height: 10})
	b := addVector(t, st, geometry.Bounds{Width: 10, Height: 10})

	assert.Equal(t, 0, a.ZIndex)
	assert.Equal(t, 1, b.ZIndex)
	assert.Equal(t, []*Layer{a, b}, st.Ordered())
}

func TestAddRejectsDuplicateID(t *testing.T) {
	st := NewStore()
	l := addVector(t, st, geometry.Bounds{Width: 10, Height: 10})
	assert.Error(t, st.Add(l))
	assert.Error(t, st.Add(&Layer{}))
}

func TestSetBoundsClampsDimensions(t *testing.T) {
	l := NewLayer(KindText)
	l.SetBounds(geometry.Bounds{X: 5, Y: 5, Width: -3, Height: 0.2})
	assert.Equal(t, MinDimension, l.Width)
	assert.Equal(t, MinDimension, l.Height)
}

func TestGroupAndUngroup(t *testing.T) {
	st := NewStore()
	a := addVector(t, st, geometry.Bounds{X: 0, Y: 0, Width: 50, Height: 50})
	b := addVector(t, st, geometry.Bounds{X: 100, Y: 80, Width: 20, Height: 20})

	g, err := st.Group([]string{a.ID, b.ID})
	require.NoError(t, err)
	assert.Equal(t, KindGroup, g.Kind)
	assert.Equal(t, geometry.Rect{X: 0, Y: 0, Width: 120, Height: 100}, g.Rect())
	assert.Equal(t, g.ID, a.ParentID)
	assert.Equal(t, g.ID, b.ParentID)
	assert.Equal(t, []string{a.ID, b.ID}, g.Children)

	children, err := st.Ungroup(g.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, b.ID}, children)
	assert.False(t, st.Has(g.ID))
	assert.Equal(t, "", a.ParentID)
	assert.Equal(t, "", b.ParentID)
}

func TestGroupValidation(t *testing.T) {
	st := NewStore()
	a := addVector(t, st, geometry.Bounds{Width: 10, Height: 10})
	b := addVector(t, st, geometry.Bounds{Width: 10, Height: 10})
	c := addVector(t, st, geometry.Bounds{Width: 10, Height: 10})
	g, err := st.Group([]string{a.ID, b.ID})
	require.NoError(t, err)

	tests := []struct {
		name string
		ids  []string
	}{
		{name: "too few members", ids: []string{c.ID}},
		{name: "unknown id", ids: []string{c.ID, "ghost"}},
		{name: "groups do not nest", ids: []string{c.ID, g.ID}},
		{name: "already grouped member", ids: []string{c.ID, a.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := st.Group(tt.ids)
			assert.Error(t, err)
		})
	}

	t.Run("locked member", func(t *testing.T) {
		d := addVector(t, st, geometry.Bounds{Width: 10, Height: 10})
		d.Locked = true
		_, err := st.Group([]string{c.ID, d.ID})
		assert.Error(t, err)
	})
}

func TestRemoveGroupPromotesChildren(t *testing.T) {
	st := NewStore()
	a := addVector(t, st, geometry.Bounds{Width: 10, Height: 10})
	b := addVector(t, st, geometry.Bounds{Width: 10, Height: 10})
	g, err := st.Group([]string{a.ID, b.ID})
	require.NoError(t, err)

	assert.True(t, st.Remove(g.ID))
	assert.Equal(t, "", a.ParentID)
	assert.Equal(t, "", b.ParentID)
	assert.True(t, st.Has(a.ID))
}

func TestRemoveChildDetachesFromGroup(t *testing.T) {
	st := NewStore()
	a := addVector(t, st, geometry.Bounds{Width: 10, Height: 10})
	b := addVector(t, st, geometry.Bounds{Width: 10, Height: 10})
	g, err := st.Group([]string{a.ID, b.ID})
	require.NoError(t, err)

	assert.True(t, st.Remove(a.ID))
	assert.Equal(t, []string{b.ID}, g.Children)
}

func TestDuplicateLeaf(t *testing.T) {
	st := NewStore()
	a := addVector(t, st, geometry.Bounds{X: 10, Y: 20, Width: 30, Height: 40})
	a.Fill = "#ff0000"

	dup, err := st.Duplicate(a.ID, geometry.Point2D{X: 10, Y: 10})
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, dup.ID)
	assert.Equal(t, 20.0, dup.X)
	assert.Equal(t, 30.0, dup.Y)
	assert.Equal(t, "#ff0000", dup.Fill)
	assert.Equal(t, 2, st.Len())
}

func TestDuplicateGroupCopiesMembers(t *testing.T) {
	st := NewStore()
	a := addVector(t, st, geometry.Bounds{X: 0, Y: 0, Width: 10, Height: 10})
	b := addVector(t, st, geometry.Bounds{X: 20, Y: 0, Width: 10, Height: 10})
	g, err := st.Group([]string{a.ID, b.ID})
	require.NoError(t, err)

	dup, err := st.Duplicate(g.ID, geometry.Point2D{X: 5, Y: 5})
	require.NoError(t, err)
	assert.Equal(t, KindGroup, dup.Kind)
	require.Len(t, dup.Children, 2)
	for _, cid := range dup.Children {
		c, ok := st.Get(cid)
		require.True(t, ok)
		assert.Equal(t, dup.ID, c.ParentID)
		assert.NotEqual(t, a.ID, cid)
		assert.NotEqual(t, b.ID, cid)
	}
	// 2 originals + group + 2 copies + group copy.
	assert.Equal(t, 6, st.Len())
}

func TestZOrderOps(t *testing.T) {
	st := NewStore()
	a := addVector(t, st, geometry.Bounds{Width: 10, Height: 10})
	b := addVector(t, st, geometry.Bounds{Width: 10, Height: 10})
	c := addVector(t, st, geometry.Bounds{Width: 10, Height: 10})

	order := func() []string {
		var ids []string
		for _, l := range st.Ordered() {
			ids = append(ids, l.ID)
		}
		return ids
	}

	st.Raise([]string{a.ID})
	assert.Equal(t, []string{b.ID, a.ID, c.ID}, order())

	st.ToFront([]string{b.ID})
	assert.Equal(t, []string{a.ID, c.ID, b.ID}, order())

	st.Lower([]string{b.ID})
	assert.Equal(t, []string{a.ID, b.ID, c.ID}, order())

	st.ToBack([]string{c.ID})
	assert.Equal(t, []string{c.ID, a.ID, b.ID}, order())

	// Raising the topmost layer is a no-op.
	st.Raise([]string{b.ID})
	assert.Equal(t, []string{c.ID, a.ID, b.ID}, order())

	// A multi-layer raise keeps the block's internal order.
	st.Raise([]string{c.ID, a.ID})
	assert.Equal(t, []string{b.ID, c.ID, a.ID}, order())
}

func TestTopmostAt(t *testing.T) {
	st := NewStore()
	bottom := addVector(t, st, geometry.Bounds{X: 0, Y: 0, Width: 100, Height: 100})
	top := addVector(t, st, geometry.Bounds{X: 25, Y: 25, Width: 50, Height: 50})

	assert.Equal(t, top, st.TopmostAt(geometry.Point2D{X: 50, Y: 50}))
	assert.Equal(t, bottom, st.TopmostAt(geometry.Point2D{X: 10, Y: 10}))
	assert.Nil(t, st.TopmostAt(geometry.Point2D{X: 500, Y: 500}))

	// Hidden and locked layers are transparent to hit tests.
	top.Visible = false
	assert.Equal(t, bottom, st.TopmostAt(geometry.Point2D{X: 50, Y: 50}))
	top.Visible = true
	top.Locked = true
	assert.Equal(t, bottom, st.TopmostAt(geometry.Point2D{X: 50, Y: 50}))
}

func TestTopmostAtRotated(t *testing.T) {
	st := NewStore()
	// A tall thin box rotated 90 degrees lies horizontally.
	l := addVector(t, st, geometry.Bounds{X: 90, Y: 50, Width: 20, Height: 100, Rotation: 90})

	assert.Equal(t, l, st.TopmostAt(geometry.Point2D{X: 55, Y: 100}))
	assert.Nil(t, st.TopmostAt(geometry.Point2D{X: 100, Y: 55}))
}

func TestTopmostAtResolvesGroup(t *testing.T) {
	st := NewStore()
	a := addVector(t, st, geometry.Bounds{X: 0, Y: 0, Width: 10, Height: 10})
	b := addVector(t, st, geometry.Bounds{X: 50, Y: 0, Width: 10, Height: 10})
	g, err := st.Group([]string{a.ID, b.ID})
	require.NoError(t, err)

	assert.Equal(t, g, st.TopmostAt(geometry.Point2D{X: 5, Y: 5}))
}

func TestCloneAndEqual(t *testing.T) {
	st := NewStore()
	a := addVector(t, st, geometry.Bounds{X: 1, Y: 2, Width: 30, Height: 40})
	b := addVector(t, st, geometry.Bounds{X: 5, Y: 6, Width: 70, Height: 80})
	_, err := st.Group([]string{a.ID, b.ID})
	require.NoError(t, err)

	clone := st.Clone()
	assert.True(t, st.Equal(clone))

	// Deep: mutating the clone leaves the original untouched.
	cloned, _ := clone.Get(a.ID)
	cloned.X = 999
	assert.False(t, st.Equal(clone))
	assert.Equal(t, 1.0, a.X)
}
