package layer

import (
	"fmt"
	"sort"

	"cover-studio/pkg/geometry"

	"github.com/google/uuid"
)

// Store is the ordered collection of layers that makes up a project's visual
// content. It is pure data: all mutation goes through the transform engine or
// explicit layer-editing operations, on a single goroutine.
type Store struct {
	layers []*Layer
	index  map[string]*Layer
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{index: make(map[string]*Layer)}
}

// Len returns the number of layers.
func (s *Store) Len() int {
	return len(s.layers)
}

// Get returns the layer with the given id.
func (s *Store) Get(id string) (*Layer, bool) {
	l, ok := s.index[id]
	return l, ok
}

// Has reports whether the id is present.
func (s *Store) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Add inserts a layer at the top of the paint order.
func (s *Store) Add(l *Layer) error {
	if l.ID == "" {
		return fmt.Errorf("layer has no id")
	}
	if _, ok := s.index[l.ID]; ok {
		return fmt.Errorf("layer %s already exists", l.ID)
	}
	l.ZIndex = s.MaxZIndex() + 1
	return s.Attach(l)
}

// Attach inserts a layer keeping its existing z-index. Used when rebuilding a
// store from a saved project or a snapshot.
func (s *Store) Attach(l *Layer) error {
	if l.ID == "" {
		return fmt.Errorf("layer has no id")
	}
	if _, ok := s.index[l.ID]; ok {
		return fmt.Errorf("layer %s already exists", l.ID)
	}
	s.layers = append(s.layers, l)
	s.index[l.ID] = l
	return nil
}

// Remove deletes a layer and repairs references to it. Removing a group
// promotes its children back to top level; removing a group member detaches
// it from the group's child list.
func (s *Store) Remove(id string) bool {
	l, ok := s.index[id]
	if !ok {
		return false
	}

	if l.Kind == KindGroup {
		for _, cid := range l.Children {
			if c, ok := s.index[cid]; ok && c.ParentID == id {
				c.ParentID = ""
			}
		}
	}
	if l.ParentID != "" {
		if g, ok := s.index[l.ParentID]; ok {
			g.Children = removeID(g.Children, id)
		}
	}

	delete(s.index, id)
	for i, cand := range s.layers {
		if cand.ID == id {
			s.layers = append(s.layers[:i], s.layers[i+1:]...)
			break
		}
	}
	return true
}

// Ordered returns the layers sorted by z-index, ties broken by array position.
// The slice is a copy; the layers are not.
func (s *Store) Ordered() []*Layer {
	out := make([]*Layer, len(s.layers))
	copy(out, s.layers)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ZIndex < out[j].ZIndex
	})
	return out
}

// MaxZIndex returns the highest z-index in the store, or -1 when empty.
func (s *Store) MaxZIndex() int {
	max := -1
	for _, l := range s.layers {
		if l.ZIndex > max {
			max = l.ZIndex
		}
	}
	return max
}

// TopmostAt returns the highest visible, unlocked layer whose rotated box
// contains the canvas-space point, or nil. Group members resolve to their
// group so a click targets the whole container.
func (s *Store) TopmostAt(p geometry.Point2D) *Layer {
	ordered := s.Ordered()
	for i := len(ordered) - 1; i >= 0; i-- {
		l := ordered[i]
		if !l.Visible || l.Locked || l.Kind == KindGroup {
			continue
		}
		// Hit test in the layer's local frame.
		local := p.Sub(l.Bounds().Center()).Rotate(-l.Rotation)
		half := geometry.Point2D{X: l.Width / 2, Y: l.Height / 2}
		if local.X < -half.X || local.X > half.X || local.Y < -half.Y || local.Y > half.Y {
			continue
		}
		if l.ParentID != "" {
			if g, ok := s.index[l.ParentID]; ok {
				return g
			}
		}
		return l
	}
	return nil
}

// Duplicate deep-copies a layer under a fresh id, offset so the copy is
// visible next to the original. Duplicating a group copies its members too.
func (s *Store) Duplicate(id string, offset geometry.Point2D) (*Layer, error) {
	src, ok := s.index[id]
	if !ok {
		return nil, fmt.Errorf("layer %s not found", id)
	}

	copyLayer := func(l *Layer) *Layer {
		c := l.Clone()
		c.ID = uuid.NewString()
		c.X += offset.X
		c.Y += offset.Y
		return c
	}

	dup := copyLayer(src)
	if src.Kind == KindGroup {
		dup.Children = nil
		for _, cid := range src.Children {
			child, ok := s.index[cid]
			if !ok {
				continue
			}
			childDup := copyLayer(child)
			childDup.ParentID = dup.ID
			if err := s.Add(childDup); err != nil {
				return nil, err
			}
			dup.Children = append(dup.Children, childDup.ID)
		}
	} else {
		dup.ParentID = ""
	}
	if err := s.Add(dup); err != nil {
		return nil, err
	}
	return dup, nil
}

// Group creates a group layer over the given members. Members must exist, be
// unlocked, not be groups themselves, and not already belong to a group;
// grouping is flat by design.
func (s *Store) Group(ids []string) (*Layer, error) {
	if len(ids) < 2 {
		return nil, fmt.Errorf("grouping requires at least 2 layers, got %d", len(ids))
	}
	members := make([]*Layer, 0, len(ids))
	for _, id := range ids {
		l, ok := s.index[id]
		if !ok {
			return nil, fmt.Errorf("layer %s not found", id)
		}
		if l.Locked {
			return nil, fmt.Errorf("layer %s is locked", id)
		}
		if l.Kind == KindGroup {
			return nil, fmt.Errorf("layer %s is a group; groups do not nest", id)
		}
		if l.ParentID != "" {
			return nil, fmt.Errorf("layer %s already belongs to group %s", id, l.ParentID)
		}
		members = append(members, l)
	}

	g := NewLayer(KindGroup)
	rects := make([]geometry.Rect, len(members))
	for i, m := range members {
		rects[i] = m.Rect()
	}
	bbox := geometry.BoundingRect(rects)
	g.X, g.Y, g.Width, g.Height = bbox.X, bbox.Y, bbox.Width, bbox.Height
	if g.Width < MinDimension {
		g.Width = MinDimension
	}
	if g.Height < MinDimension {
		g.Height = MinDimension
	}

	for _, m := range members {
		m.ParentID = g.ID
		g.Children = append(g.Children, m.ID)
	}
	if err := s.Add(g); err != nil {
		return nil, err
	}
	return g, nil
}

// Ungroup dissolves a group, promoting its members back to top level. The
// member ids are returned so callers can reselect them.
func (s *Store) Ungroup(id string) ([]string, error) {
	g, ok := s.index[id]
	if !ok {
		return nil, fmt.Errorf("layer %s not found", id)
	}
	if g.Kind != KindGroup {
		return nil, fmt.Errorf("layer %s is not a group", id)
	}
	children := make([]string, len(g.Children))
	copy(children, g.Children)
	s.Remove(id) // Remove clears the members' ParentID
	return children, nil
}

// ChildrenOf returns the member layers of a group, skipping dangling ids.
func (s *Store) ChildrenOf(g *Layer) []*Layer {
	out := make([]*Layer, 0, len(g.Children))
	for _, cid := range g.Children {
		if c, ok := s.index[cid]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Raise moves the given layers one step up in the paint order, keeping their
// internal order. Ids not in the store are ignored.
func (s *Store) Raise(ids []string) {
	set := idSet(ids)
	ordered := s.Ordered()
	for i := len(ordered) - 2; i >= 0; i-- {
		if set[ordered[i].ID] && !set[ordered[i+1].ID] {
			ordered[i], ordered[i+1] = ordered[i+1], ordered[i]
		}
	}
	s.renumber(ordered)
}

// Lower moves the given layers one step down in the paint order.
func (s *Store) Lower(ids []string) {
	set := idSet(ids)
	ordered := s.Ordered()
	for i := 1; i < len(ordered); i++ {
		if set[ordered[i].ID] && !set[ordered[i-1].ID] {
			ordered[i], ordered[i-1] = ordered[i-1], ordered[i]
		}
	}
	s.renumber(ordered)
}

// ToFront moves the given layers to the top of the paint order.
func (s *Store) ToFront(ids []string) {
	set := idSet(ids)
	ordered := s.Ordered()
	rest := make([]*Layer, 0, len(ordered))
	moved := make([]*Layer, 0, len(ids))
	for _, l := range ordered {
		if set[l.ID] {
			moved = append(moved, l)
		} else {
			rest = append(rest, l)
		}
	}
	s.renumber(append(rest, moved...))
}

// ToBack moves the given layers to the bottom of the paint order.
func (s *Store) ToBack(ids []string) {
	set := idSet(ids)
	ordered := s.Ordered()
	rest := make([]*Layer, 0, len(ordered))
	moved := make([]*Layer, 0, len(ids))
	for _, l := range ordered {
		if set[l.ID] {
			moved = append(moved, l)
		} else {
			rest = append(rest, l)
		}
	}
	s.renumber(append(moved, rest...))
}

// renumber rewrites z-indices to match the given order and keeps the backing
// slice in paint order.
func (s *Store) renumber(ordered []*Layer) {
	for i, l := range ordered {
		l.ZIndex = i
	}
	s.layers = ordered
}

// Clone returns a deep copy of the store.
func (s *Store) Clone() *Store {
	out := NewStore()
	out.layers = make([]*Layer, len(s.layers))
	for i, l := range s.layers {
		c := l.Clone()
		out.layers[i] = c
		out.index[c.ID] = c
	}
	return out
}

// Equal reports deep structural equality with another store, including order.
func (s *Store) Equal(other *Store) bool {
	if len(s.layers) != len(other.layers) {
		return false
	}
	for i := range s.layers {
		if !s.layers[i].Equal(other.layers[i]) {
			return false
		}
	}
	return true
}

func idSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func removeID(ids []string, id string) []string {
	for i, cand := range ids {
		if cand == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
