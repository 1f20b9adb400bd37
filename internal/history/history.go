// Package history maintains a bounded, linear undo/redo stack of project
// snapshots.
//
// The central policy is gesture coalescing: live preview updates during an
// open interaction session never reach Commit; only the single pointer-up
// commit (or a discrete edit) produces an entry. Applying an undo or redo is
// itself a transient write, so the manager never records its own output.
package history

// Snapshot is a full deep copy of project state stored as one history entry.
// Implementations must copy deeply in CloneSnapshot; the manager relies on
// entries being immune to later mutation of the live state.
type Snapshot interface {
	CloneSnapshot() Snapshot
	EqualSnapshot(other Snapshot) bool
}

// DefaultDepth bounds the number of retained entries.
const DefaultDepth = 50

// Manager owns a linear list of snapshots plus a cursor pointing at the
// currently-applied entry. Entries before the cursor are undo targets,
// entries after are redo targets. Single-goroutine, like the rest of the
// editing core.
type Manager struct {
	entries []Snapshot
	cursor  int
	depth   int
}

// NewManager creates a manager bounded to the given depth; depth <= 0 uses
// DefaultDepth.
func NewManager(depth int) *Manager {
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &Manager{depth: depth}
}

// Reset discards all entries and seeds the history with the given state.
// Called on project open and project switch.
func (m *Manager) Reset(state Snapshot) {
	m.entries = []Snapshot{state.CloneSnapshot()}
	m.cursor = 0
}

// Commit records the state as a new entry if it differs from the current one.
// A committed edit truncates any existing redo tail; past the depth bound the
// oldest entry is evicted. Returns true when an entry was created.
func (m *Manager) Commit(state Snapshot) bool {
	if len(m.entries) == 0 {
		m.entries = []Snapshot{state.CloneSnapshot()}
		m.cursor = 0
		return true
	}
	if state.EqualSnapshot(m.entries[m.cursor]) {
		return false
	}

	m.entries = append(m.entries[:m.cursor+1], state.CloneSnapshot())
	m.cursor++

	if len(m.entries) > m.depth {
		over := len(m.entries) - m.depth
		m.entries = m.entries[over:]
		m.cursor -= over
	}
	return true
}

// CanUndo reports whether an undo target exists.
func (m *Manager) CanUndo() bool {
	return m.cursor > 0
}

// CanRedo reports whether a redo target exists.
func (m *Manager) CanRedo() bool {
	return m.cursor < len(m.entries)-1
}

// Undo steps the cursor back and returns a deep copy of that entry as the new
// live state. Returns nil when there is nothing to undo; callers are expected
// to check CanUndo but the manager is defensive regardless.
func (m *Manager) Undo() Snapshot {
	if !m.CanUndo() {
		return nil
	}
	m.cursor--
	return m.entries[m.cursor].CloneSnapshot()
}

// Redo steps the cursor forward and returns a deep copy of that entry.
func (m *Manager) Redo() Snapshot {
	if !m.CanRedo() {
		return nil
	}
	m.cursor++
	return m.entries[m.cursor].CloneSnapshot()
}

// Len returns the number of retained entries.
func (m *Manager) Len() int {
	return len(m.entries)
}

// Cursor returns the index of the currently-applied entry.
func (m *Manager) Cursor() int {
	return m.cursor
}
