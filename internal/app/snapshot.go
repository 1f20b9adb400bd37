package app

import (
	"cover-studio/internal/history"
	"cover-studio/internal/layer"
	"cover-studio/internal/project"
)

// projectSnapshot is one history entry: an explicit structural deep copy of
// everything undo must restore. No serialization round-trip is involved.
type projectSnapshot struct {
	canvas   project.Canvas
	layers   *layer.Store
	activeID string
	selected []string
}

func (s *State) snapshot() *projectSnapshot {
	return &projectSnapshot{
		canvas:   s.Canvas,
		layers:   s.layers.Clone(),
		activeID: s.sel.ActiveID(),
		selected: s.sel.SelectedIDs(),
	}
}

// CloneSnapshot implements history.Snapshot.
func (p *projectSnapshot) CloneSnapshot() history.Snapshot {
	selected := make([]string, len(p.selected))
	copy(selected, p.selected)
	return &projectSnapshot{
		canvas:   p.canvas,
		layers:   p.layers.Clone(),
		activeID: p.activeID,
		selected: selected,
	}
}

// EqualSnapshot implements history.Snapshot by deep structural comparison.
func (p *projectSnapshot) EqualSnapshot(other history.Snapshot) bool {
	o, ok := other.(*projectSnapshot)
	if !ok {
		return false
	}
	if p.canvas != o.canvas || p.activeID != o.activeID {
		return false
	}
	if len(p.selected) != len(o.selected) {
		return false
	}
	for i := range p.selected {
		if p.selected[i] != o.selected[i] {
			return false
		}
	}
	return p.layers.Equal(o.layers)
}
