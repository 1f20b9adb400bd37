// Package app provides application state, events, and the editing core that
// ties the layer store, selection, transform engine, and history together.
package app

import (
	"fmt"
	"sync"

	"cover-studio/internal/history"
	"cover-studio/internal/layer"
	"cover-studio/internal/project"
	"cover-studio/internal/selection"
	"cover-studio/internal/transform"
	"cover-studio/pkg/geometry"
)

// EventType identifies different application events.
type EventType int

const (
	EventProjectLoaded EventType = iota
	EventProjectSaved
	EventLayersChanged
	EventSelectionChanged
	EventHistoryChanged
	EventModified
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// State holds the application state: the current project, its layer store,
// selection, and undo history. All mutation happens on pointer and keyboard
// event callbacks on one logical goroutine; the mutex only protects reads
// from render callbacks.
type State struct {
	mu sync.RWMutex

	// Project
	ProjectPath string
	Modified    bool
	Name        string
	Canvas      project.Canvas

	layers *layer.Store
	sel    *selection.Manager
	hist   *history.Manager

	// Open interaction session, nil outside a gesture. Sessions are
	// exclusive: opening a new one ends any prior open session.
	sess          *transform.Session
	sessChildren  map[string]geometry.Bounds // group members' poses at gesture open
	sessGroupUsed bool                       // target was a group

	// Guard against history application committing itself.
	applyingHistory bool

	listeners map[EventType][]EventListener
}

// NewState creates application state with an empty default project.
func NewState() *State {
	s := &State{
		Name:      "untitled",
		Canvas:    project.DefaultCanvas(),
		layers:    layer.NewStore(),
		sel:       selection.NewManager(),
		hist:      history.NewManager(history.DefaultDepth),
		listeners: make(map[EventType][]EventListener),
	}
	s.hist.Reset(s.snapshot())
	return s
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified marks the project as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	s.Modified = modified
	s.mu.Unlock()
	s.Emit(EventModified, modified)
}

// Layers returns the layer store. Callers must not mutate it directly;
// mutation goes through the editing operations so history stays coherent.
func (s *State) Layers() *layer.Store {
	return s.layers
}

// OrderedLayers returns the layers in paint order.
func (s *State) OrderedLayers() []*layer.Layer {
	return s.layers.Ordered()
}

// ActiveLayer returns the layer driving the inspector, or nil.
func (s *State) ActiveLayer() *layer.Layer {
	if id := s.sel.ActiveID(); id != "" {
		if l, ok := s.layers.Get(id); ok {
			return l
		}
	}
	return nil
}

// ActiveID returns the active layer id, or "".
func (s *State) ActiveID() string {
	return s.sel.ActiveID()
}

// SelectedIDs returns the highlighted layer ids.
func (s *State) SelectedIDs() []string {
	return s.sel.SelectedIDs()
}

// IsSelected reports whether a layer is in the selected set.
func (s *State) IsSelected(id string) bool {
	return s.sel.IsSelected(id)
}

// SelectLayer applies a selection pick. An empty id deselects everything.
func (s *State) SelectLayer(id string, mode selection.Mode) {
	if id != "" && !s.layers.Has(id) {
		return
	}
	s.sel.Select(id, mode)
	s.Emit(EventSelectionChanged, id)
}

// SelectAt picks the topmost layer at a canvas point, resolving group
// members to their group.
func (s *State) SelectAt(p geometry.Point2D, mode selection.Mode) *layer.Layer {
	l := s.layers.TopmostAt(p)
	if l == nil {
		s.SelectLayer("", selection.ModeReplace)
		return nil
	}
	s.SelectLayer(l.ID, mode)
	return l
}

// CanUndo reports whether an undo target exists.
func (s *State) CanUndo() bool {
	return s.hist.CanUndo()
}

// CanRedo reports whether a redo target exists.
func (s *State) CanRedo() bool {
	return s.hist.CanRedo()
}

// Undo steps the project back one committed entry. Applying the snapshot is
// itself transient so it never re-commits a duplicate entry.
func (s *State) Undo() {
	snap := s.hist.Undo()
	if snap == nil {
		return
	}
	s.applySnapshot(snap.(*projectSnapshot))
}

// Redo steps the project forward one committed entry.
func (s *State) Redo() {
	snap := s.hist.Redo()
	if snap == nil {
		return
	}
	s.applySnapshot(snap.(*projectSnapshot))
}

// commit records the current state as one history entry if it changed.
// Transient preview writes never reach this; gesture ends and discrete edits
// do, exactly once each.
func (s *State) commit() {
	if s.applyingHistory {
		return
	}
	if s.hist.Commit(s.snapshot()) {
		s.SetModified(true)
		s.Emit(EventHistoryChanged, nil)
	}
}

func (s *State) applySnapshot(snap *projectSnapshot) {
	s.applyingHistory = true
	s.Canvas = snap.canvas
	s.layers = snap.layers.Clone()
	s.sel.Restore(snap.activeID, snap.selected)
	s.applyingHistory = false

	s.SetModified(true)
	s.Emit(EventLayersChanged, nil)
	s.Emit(EventSelectionChanged, s.sel.ActiveID())
	s.Emit(EventHistoryChanged, nil)
}

// NewProject resets to an empty default project.
func (s *State) NewProject() {
	s.mu.Lock()
	s.ProjectPath = ""
	s.Name = "untitled"
	s.Canvas = project.DefaultCanvas()
	s.layers = layer.NewStore()
	s.sel.Clear()
	s.mu.Unlock()

	s.sess = nil
	s.hist.Reset(s.snapshot())
	s.Modified = false
	s.Emit(EventProjectLoaded, "")
	s.Emit(EventLayersChanged, nil)
	s.Emit(EventSelectionChanged, "")
	s.Emit(EventHistoryChanged, nil)
}

// LoadProject loads a project from the specified path and resets history.
func (s *State) LoadProject(path string) error {
	proj, err := project.Load(path)
	if err != nil {
		return err
	}
	st, err := proj.BuildStore()
	if err != nil {
		return fmt.Errorf("rebuilding layers from %s: %w", path, err)
	}

	s.mu.Lock()
	s.ProjectPath = path
	s.Name = proj.Name
	s.Canvas = proj.Canvas
	s.layers = st
	s.sel.Clear()
	s.Modified = false
	s.mu.Unlock()

	s.sess = nil
	s.hist.Reset(s.snapshot())
	s.Emit(EventProjectLoaded, path)
	s.Emit(EventLayersChanged, nil)
	s.Emit(EventSelectionChanged, "")
	s.Emit(EventHistoryChanged, nil)
	return nil
}

// SaveProject saves the project to the specified path.
func (s *State) SaveProject(path string) error {
	s.mu.RLock()
	proj := project.New(s.Name)
	proj.Canvas = s.Canvas
	proj.SetLayers(s.layers)
	s.mu.RUnlock()

	if err := proj.Save(path); err != nil {
		return err
	}

	s.mu.Lock()
	s.ProjectPath = path
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventProjectSaved, path)
	return nil
}
