package app

import (
	"cover-studio/internal/layer"
	"cover-studio/internal/transform"
	"cover-studio/pkg/geometry"
)

// BeginMove opens a move session on the target layer.
func (s *State) BeginMove(targetID string, pointer geometry.Point2D) {
	s.beginSession(transform.SessionMove, targetID, pointer, "")
}

// BeginResize opens a resize session for the given handle.
func (s *State) BeginResize(targetID string, pointer geometry.Point2D, handle transform.Handle) {
	s.beginSession(transform.SessionResize, targetID, pointer, handle)
}

// BeginRotate opens a rotate session on the target layer.
func (s *State) BeginRotate(targetID string, pointer geometry.Point2D) {
	s.beginSession(transform.SessionRotate, targetID, pointer, "")
}

func (s *State) beginSession(kind transform.SessionKind, targetID string, pointer geometry.Point2D, handle transform.Handle) {
	// At most one live session: a new pointer-down ends any prior gesture
	// without committing it.
	s.sess = nil
	s.sessChildren = nil
	s.sessGroupUsed = false

	target, ok := s.layers.Get(targetID)
	if !ok || target.Locked {
		return
	}

	s.sess = &transform.Session{
		Kind:         kind,
		TargetID:     targetID,
		StartPointer: pointer,
		StartBounds:  target.Bounds(),
		Handle:       handle,
		AspectLocked: target.AspectLocked,
	}

	if target.Kind == layer.KindGroup {
		s.sessGroupUsed = true
		s.sessChildren = make(map[string]geometry.Bounds, len(target.Children))
		for _, c := range s.layers.ChildrenOf(target) {
			s.sessChildren[c.ID] = c.Bounds()
		}
	}
}

// HasSession reports whether a gesture is in progress.
func (s *State) HasSession() bool {
	return s.sess != nil
}

// PointerMove recomputes the target's bounds from the live pointer and writes
// them to the store as a preview. Previews are transient: they never create
// history entries. A session whose target vanished mid-drag is inert.
func (s *State) PointerMove(pointer geometry.Point2D, mods transform.Modifiers, view transform.Viewport) {
	sess := s.sess
	if sess == nil {
		return
	}
	target, ok := s.layers.Get(sess.TargetID)
	if !ok {
		return
	}

	next := transform.ComputeNextBounds(sess, pointer, mods, view)
	if s.sessGroupUsed {
		// Children always move relative to the gesture-open poses so the
		// propagation math never accumulates drift across frames.
		transform.PropagateGroupTransform(s.layers, target, sess.StartBounds, next, s.sessChildren)
	}
	target.SetBounds(next)

	if target.ParentID != "" {
		if g, ok := s.layers.Get(target.ParentID); ok {
			transform.RecomputeGroupBounds(s.layers, g)
		}
	}

	s.Emit(EventLayersChanged, nil)
}

// PointerUp closes the session and commits the gesture as a single history
// entry. Fifty pointer-moves and one release produce one entry, not fifty.
func (s *State) PointerUp() {
	sess := s.sess
	s.sess = nil
	s.sessChildren = nil
	s.sessGroupUsed = false
	if sess == nil {
		return
	}
	if _, ok := s.layers.Get(sess.TargetID); !ok {
		// Target deleted mid-drag: discard silently.
		return
	}
	s.commit()
}

// CancelGesture discards an open session without committing, e.g. on lost
// pointer capture. The store keeps the last previewed bounds; the window of
// inconsistency resolves on the next commit or undo.
func (s *State) CancelGesture() {
	s.sess = nil
	s.sessChildren = nil
	s.sessGroupUsed = false
}
