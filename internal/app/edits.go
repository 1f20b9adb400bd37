package app

import (
	"fmt"

	"cover-studio/internal/layer"
	"cover-studio/internal/selection"
	"cover-studio/internal/transform"
	"cover-studio/pkg/geometry"
)

const duplicateOffset = 16.0

// AddTextLayer inserts a text layer at the given position and selects it.
func (s *State) AddTextLayer(text string, at geometry.Point2D) *layer.Layer {
	l := layer.NewLayer(layer.KindText)
	l.Text = text
	l.FontSize = 48
	l.Color = "#1a1a1a"
	l.SetBounds(geometry.Bounds{X: at.X, Y: at.Y, Width: 320, Height: 72})
	return s.addLayer(l)
}

// AddImageLayer inserts an image layer referencing the given file.
func (s *State) AddImageLayer(path string, at geometry.Point2D, size geometry.Size) *layer.Layer {
	l := layer.NewLayer(layer.KindImage)
	l.Path = path
	l.AspectLocked = true
	l.SetBounds(geometry.Bounds{X: at.X, Y: at.Y, Width: size.Width, Height: size.Height})
	return s.addLayer(l)
}

// AddVectorLayer inserts a vector shape layer.
func (s *State) AddVectorLayer(shape string, at geometry.Point2D) *layer.Layer {
	l := layer.NewLayer(layer.KindVector)
	l.Shape = shape
	l.Fill = "#4a6fa5"
	l.Stroke = "#1a1a2e"
	l.StrokeWidth = 2
	l.SetBounds(geometry.Bounds{X: at.X, Y: at.Y, Width: 160, Height: 120})
	return s.addLayer(l)
}

func (s *State) addLayer(l *layer.Layer) *layer.Layer {
	if err := s.layers.Add(l); err != nil {
		return nil
	}
	s.sel.Select(l.ID, selection.ModeReplace)
	s.commit()
	s.Emit(EventLayersChanged, nil)
	s.Emit(EventSelectionChanged, l.ID)
	return l
}

// DeleteSelection removes the selected layers. Groups expand to their
// members so the whole subtree goes coherently.
func (s *State) DeleteSelection() {
	ids := selection.ExpandForGroupOps(s.layers, s.sel.SelectedIDs())
	if len(ids) == 0 {
		return
	}
	parents := s.parentsOf(ids)
	for _, id := range ids {
		s.layers.Remove(id)
	}
	s.sel.Prune(s.layers)
	s.refreshGroups(parents)
	s.commit()
	s.Emit(EventLayersChanged, nil)
	s.Emit(EventSelectionChanged, s.sel.ActiveID())
}

// DuplicateSelection deep-copies the selected layers with a small offset.
// Duplicating a group copies its members through the store, so the selection
// is not expanded here.
func (s *State) DuplicateSelection() {
	ids := s.sel.SelectedIDs()
	if len(ids) == 0 {
		return
	}
	var lastID string
	for _, id := range ids {
		l, ok := s.layers.Get(id)
		if !ok || l.ParentID != "" {
			continue // members travel with their group
		}
		dup, err := s.layers.Duplicate(id, geometry.Point2D{X: duplicateOffset, Y: duplicateOffset})
		if err != nil {
			continue
		}
		lastID = dup.ID
	}
	if lastID == "" {
		return
	}
	s.sel.Select(lastID, selection.ModeReplace)
	s.commit()
	s.Emit(EventLayersChanged, nil)
	s.Emit(EventSelectionChanged, lastID)
}

// GroupSelection groups the selected layers and selects the new group.
func (s *State) GroupSelection() error {
	g, err := s.layers.Group(s.sel.SelectedIDs())
	if err != nil {
		return err
	}
	s.sel.Select(g.ID, selection.ModeReplace)
	s.commit()
	s.Emit(EventLayersChanged, nil)
	s.Emit(EventSelectionChanged, g.ID)
	return nil
}

// UngroupActive dissolves the active group and selects its former members.
func (s *State) UngroupActive() error {
	id := s.sel.ActiveID()
	l, ok := s.layers.Get(id)
	if !ok || l.Kind != layer.KindGroup {
		return fmt.Errorf("active layer is not a group")
	}
	children, err := s.layers.Ungroup(id)
	if err != nil {
		return err
	}
	s.sel.Clear()
	for _, cid := range children {
		s.sel.Select(cid, selection.ModeToggle)
	}
	s.commit()
	s.Emit(EventLayersChanged, nil)
	s.Emit(EventSelectionChanged, s.sel.ActiveID())
	return nil
}

// RaiseSelection moves the selection one step up in the paint order.
func (s *State) RaiseSelection() {
	s.reorder(func(ids []string) { s.layers.Raise(ids) })
}

// LowerSelection moves the selection one step down in the paint order.
func (s *State) LowerSelection() {
	s.reorder(func(ids []string) { s.layers.Lower(ids) })
}

// BringToFront moves the selection to the top of the paint order.
func (s *State) BringToFront() {
	s.reorder(func(ids []string) { s.layers.ToFront(ids) })
}

// SendToBack moves the selection to the bottom of the paint order.
func (s *State) SendToBack() {
	s.reorder(func(ids []string) { s.layers.ToBack(ids) })
}

func (s *State) reorder(op func(ids []string)) {
	ids := selection.ExpandForGroupOps(s.layers, s.sel.SelectedIDs())
	if len(ids) == 0 {
		return
	}
	op(ids)
	s.commit()
	s.Emit(EventLayersChanged, nil)
}

// EditLayer applies a direct property edit to one layer as a single
// recordable mutation. Group bounds cascade and group flag mirroring run
// before the commit.
func (s *State) EditLayer(id string, edit func(*layer.Layer)) {
	l, ok := s.layers.Get(id)
	if !ok {
		return
	}
	before := l.Bounds()
	edit(l)

	if l.Kind == layer.KindGroup {
		if after := l.Bounds(); after != before {
			transform.PropagateGroupTransform(s.layers, l, before, after, nil)
			transform.RecomputeGroupBounds(s.layers, l)
		}
		transform.MirrorGroupFlags(s.layers, l)
	}
	if l.ParentID != "" {
		s.refreshGroups([]string{l.ParentID})
	}
	s.commit()
	s.Emit(EventLayersChanged, nil)
}

// SetCanvas updates the canvas configuration as a recordable edit.
func (s *State) SetCanvas(width, height float64, background string) {
	if width < 1 || height < 1 {
		return
	}
	s.Canvas.Width = width
	s.Canvas.Height = height
	if background != "" {
		s.Canvas.Background = background
	}
	s.commit()
	s.Emit(EventLayersChanged, nil)
}

func (s *State) parentsOf(ids []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, id := range ids {
		if l, ok := s.layers.Get(id); ok && l.ParentID != "" && !seen[l.ParentID] {
			seen[l.ParentID] = true
			out = append(out, l.ParentID)
		}
	}
	return out
}

func (s *State) refreshGroups(ids []string) {
	for _, id := range ids {
		g, ok := s.layers.Get(id)
		if !ok {
			continue
		}
		if len(g.Children) == 0 {
			// A group that lost its last member has nothing to bound.
			s.layers.Remove(id)
			s.sel.Prune(s.layers)
			continue
		}
		transform.RecomputeGroupBounds(s.layers, g)
	}
}
