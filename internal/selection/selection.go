// Package selection tracks which layers are active and highlighted.
package selection

import (
	"cover-studio/internal/layer"
)

// Mode controls how Select combines a pick with the current selection.
type Mode int

const (
	// ModeReplace clears the set and activates only the picked layer.
	ModeReplace Mode = iota
	// ModeToggle adds or removes the picked layer from the set.
	ModeToggle
)

// Manager holds two selection concepts: the single active layer that drives
// the property inspector, and the ordered set of selected layers that drives
// highlighting and bulk operations.
type Manager struct {
	activeID string
	selected []string // insertion order, most recent last
}

// NewManager creates an empty selection.
func NewManager() *Manager {
	return &Manager{}
}

// ActiveID returns the active layer id, or "" when nothing is active.
func (m *Manager) ActiveID() string {
	return m.activeID
}

// SelectedIDs returns a copy of the selected set in insertion order.
func (m *Manager) SelectedIDs() []string {
	out := make([]string, len(m.selected))
	copy(out, m.selected)
	return out
}

// IsSelected reports whether the id is in the selected set.
func (m *Manager) IsSelected(id string) bool {
	for _, s := range m.selected {
		if s == id {
			return true
		}
	}
	return false
}

// Select applies a pick. An empty id clears both the active id and the set.
// In toggle mode, removing the active id promotes the most recently added
// remaining member.
func (m *Manager) Select(id string, mode Mode) {
	if id == "" {
		m.Clear()
		return
	}

	switch mode {
	case ModeReplace:
		m.selected = []string{id}
		m.activeID = id
	case ModeToggle:
		if m.IsSelected(id) {
			m.selected = removeID(m.selected, id)
			if m.activeID == id {
				if n := len(m.selected); n > 0 {
					m.activeID = m.selected[n-1]
				} else {
					m.activeID = ""
				}
			}
		} else {
			m.selected = append(m.selected, id)
			m.activeID = id
		}
	}
}

// Clear empties the selection.
func (m *Manager) Clear() {
	m.activeID = ""
	m.selected = nil
}

// Prune drops ids that no longer resolve in the store, repairing the active
// id the same way a toggle removal would.
func (m *Manager) Prune(st *layer.Store) {
	kept := m.selected[:0]
	for _, id := range m.selected {
		if st.Has(id) {
			kept = append(kept, id)
		}
	}
	m.selected = kept
	if m.activeID != "" && !st.Has(m.activeID) {
		if n := len(m.selected); n > 0 {
			m.activeID = m.selected[n-1]
		} else {
			m.activeID = ""
		}
	}
}

// Restore replaces the selection state wholesale, used when applying a
// history snapshot.
func (m *Manager) Restore(activeID string, selected []string) {
	m.activeID = activeID
	m.selected = make([]string, len(selected))
	copy(m.selected, selected)
}

// ExpandForGroupOps returns the selection with every group id replaced by its
// member ids, so bulk operations (delete, clone, z-order) act on the whole
// subtree coherently. Groups are flat, so one level of expansion suffices;
// the group ids themselves are kept so the group record travels with its
// members.
func ExpandForGroupOps(st *layer.Store, ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, id := range ids {
		l, ok := st.Get(id)
		if !ok {
			continue
		}
		add(id)
		if l.Kind == layer.KindGroup {
			for _, cid := range l.Children {
				if st.Has(cid) {
					add(cid)
				}
			}
		}
	}
	return out
}

func removeID(ids []string, id string) []string {
	for i, cand := range ids {
		if cand == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
