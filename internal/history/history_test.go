package history

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeState is a minimal Snapshot: a value plus a mutation counter proving
// that stored entries are clones, not references.
type fakeState struct {
	value string
}

func (f *fakeState) CloneSnapshot() Snapshot {
	c := *f
	return &c
}

func (f *fakeState) EqualSnapshot(other Snapshot) bool {
	o, ok := other.(*fakeState)
	return ok && f.value == o.value
}

func state(v string) *fakeState {
	return &fakeState{value: v}
}

func TestCommitAndUndoRedoRoundTrip(t *testing.T) {
	m := NewManager(0)
	m.Reset(state("s0"))
	require.True(t, m.Commit(state("s1")))
	require.True(t, m.Commit(state("s2")))

	got := m.Undo()
	require.NotNil(t, got)
	assert.Equal(t, "s1", got.(*fakeState).value)

	got = m.Redo()
	require.NotNil(t, got)
	assert.Equal(t, "s2", got.(*fakeState).value)
}

func TestCommitUnchangedStateIsNoOp(t *testing.T) {
	m := NewManager(0)
	m.Reset(state("s0"))
	assert.False(t, m.Commit(state("s0")))
	assert.Equal(t, 1, m.Len())
	assert.False(t, m.CanUndo())
}

// Fifty preview frames followed by one release produce exactly one entry:
// the store applies previews directly and only pointer-up calls Commit.
func TestGestureCoalescing(t *testing.T) {
	m := NewManager(0)
	m.Reset(state("start"))

	live := state("start")
	for i := 0; i < 50; i++ {
		live.value = fmt.Sprintf("preview-%d", i) // transient, not committed
	}
	require.True(t, m.Commit(live))

	assert.Equal(t, 2, m.Len())
	assert.True(t, m.CanUndo())
	assert.False(t, m.CanRedo())
}

func TestRedoTruncation(t *testing.T) {
	m := NewManager(0)
	m.Reset(state("s0"))
	require.True(t, m.Commit(state("s1")))
	require.True(t, m.Commit(state("s2")))

	got := m.Undo()
	require.Equal(t, "s1", got.(*fakeState).value)
	require.True(t, m.Commit(state("s3")))

	// The s2 branch was discarded.
	assert.False(t, m.CanRedo())
	assert.Nil(t, m.Redo())

	got = m.Undo()
	assert.Equal(t, "s1", got.(*fakeState).value)
}

func TestUndoRedoAtBoundariesAreNoOps(t *testing.T) {
	m := NewManager(0)
	m.Reset(state("s0"))

	assert.Nil(t, m.Undo())
	assert.Nil(t, m.Redo())
	assert.False(t, m.CanUndo())
	assert.False(t, m.CanRedo())
}

func TestDepthBoundEvictsOldest(t *testing.T) {
	m := NewManager(50)
	m.Reset(state("s0"))
	for i := 1; i < 60; i++ {
		require.True(t, m.Commit(state(fmt.Sprintf("s%d", i))))
	}

	assert.Equal(t, 50, m.Len())
	assert.Equal(t, 49, m.Cursor())

	// Undo still behaves correctly at the shifted boundary: walking all the
	// way back lands on s10, the oldest surviving entry.
	var last Snapshot
	steps := 0
	for m.CanUndo() {
		last = m.Undo()
		steps++
	}
	assert.Equal(t, 49, steps)
	assert.Equal(t, "s10", last.(*fakeState).value)
}

func TestEntriesAreClones(t *testing.T) {
	m := NewManager(0)
	live := state("first")
	m.Reset(live)

	// Mutating the live state after commit must not corrupt the entry.
	live.value = "mutated"
	require.True(t, m.Commit(live))

	got := m.Undo()
	assert.Equal(t, "first", got.(*fakeState).value)

	// And mutating a returned snapshot must not corrupt the stack.
	got.(*fakeState).value = "scribbled"
	redone := m.Redo()
	assert.Equal(t, "mutated", redone.(*fakeState).value)
}
