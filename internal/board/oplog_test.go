package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seg(user string, n int) Operation {
	return Operation{
		Kind:        KindDraw,
		UserID:      user,
		X0:          float64(n),
		Y0:          float64(n),
		X1:          float64(n + 1),
		Y1:          float64(n + 1),
		Color:       "#ff0000",
		StrokeWidth: 3,
		CreatedAt:   int64(n),
	}
}

func TestUndoTargetsOwnLatestNotGlobalLatest(t *testing.T) {
	l := NewOpLog()
	l.Append(seg("alice", 1))
	l.Append(seg("bob", 2))
	l.Append(seg("carol", 3))

	require.True(t, l.Undo("alice"))

	got := l.Snapshot()
	require.Len(t, got, 2)
	assert.Equal(t, "bob", got[0].UserID)
	assert.Equal(t, "carol", got[1].UserID)
}

func TestRedoRestoresToTail(t *testing.T) {
	l := NewOpLog()
	l.Append(seg("alice", 1))
	l.Append(seg("bob", 2))
	l.Append(seg("carol", 3))
	require.True(t, l.Undo("alice"))

	require.True(t, l.Redo("alice"))

	got := l.Snapshot()
	require.Len(t, got, 3)
	// Alice's segment re-enters as the newest, not at its old position.
	assert.Equal(t, "bob", got[0].UserID)
	assert.Equal(t, "carol", got[1].UserID)
	assert.Equal(t, "alice", got[2].UserID)
}

func TestRepeatedUndoWalksBackwardThroughOwnOps(t *testing.T) {
	l := NewOpLog()
	l.Append(seg("alice", 1))
	l.Append(seg("bob", 2))
	l.Append(seg("alice", 3))

	require.True(t, l.Undo("alice"))
	require.Len(t, l.Snapshot(), 2) // [alice#1, bob]
	require.True(t, l.Undo("alice"))

	got := l.Snapshot()
	require.Len(t, got, 1)
	assert.Equal(t, "bob", got[0].UserID)

	// Redo returns them most-recently-undone first, each at the tail.
	require.True(t, l.Redo("alice"))
	require.True(t, l.Redo("alice"))
	got = l.Snapshot()
	require.Len(t, got, 3)
	assert.Equal(t, "bob", got[0].UserID)
	assert.Equal(t, int64(1), got[1].CreatedAt)
	assert.Equal(t, int64(3), got[2].CreatedAt)
}

func TestAppendClearsOnlyTheAuthorsRedoStack(t *testing.T) {
	l := NewOpLog()
	l.Append(seg("alice", 1))
	require.True(t, l.Undo("alice"))
	require.Equal(t, 1, l.redoDepth("alice"))

	// Bob drawing must not invalidate alice's redo.
	l.Append(seg("bob", 2))
	assert.Equal(t, 1, l.redoDepth("alice"))

	// Alice drawing forfeits her own redo.
	l.Append(seg("alice", 3))
	assert.Equal(t, 0, l.redoDepth("alice"))
	assert.False(t, l.Redo("alice"))
}

func TestUndoWithNothingToUndo(t *testing.T) {
	l := NewOpLog()
	assert.False(t, l.Undo("alice"))

	l.Append(seg("bob", 1))
	assert.False(t, l.Undo("alice"))
	assert.Len(t, l.Snapshot(), 1)
}

func TestRedoWithEmptyStack(t *testing.T) {
	l := NewOpLog()
	l.Append(seg("alice", 1))
	assert.False(t, l.Redo("alice"))
	assert.Len(t, l.Snapshot(), 1)
}

func TestClearDropsHistoryAndEveryRedoStack(t *testing.T) {
	l := NewOpLog()
	l.Append(seg("alice", 1))
	l.Append(seg("bob", 2))
	require.True(t, l.Undo("alice"))
	require.True(t, l.Undo("bob"))

	l.Clear()

	assert.Equal(t, 0, l.Len())
	assert.Empty(t, l.Snapshot())
	assert.False(t, l.Redo("alice"))
	assert.False(t, l.Redo("bob"))
}

func TestReplayIsDeterministic(t *testing.T) {
	replay := func() []Operation {
		l := NewOpLog()
		l.Append(seg("alice", 1))
		l.Append(seg("bob", 2))
		l.Append(seg("alice", 3))
		l.Undo("alice")
		l.Append(seg("carol", 4))
		l.Redo("alice")
		l.Undo("bob")
		return l.Snapshot()
	}
	assert.Equal(t, replay(), replay())
}

func TestSnapshotIsADefensiveCopy(t *testing.T) {
	l := NewOpLog()
	l.Append(seg("alice", 1))

	snap := l.Snapshot()
	snap[0].Color = "#000000"
	snap[0].UserID = "mallory"

	got := l.Snapshot()
	assert.Equal(t, "#ff0000", got[0].Color)
	assert.Equal(t, "alice", got[0].UserID)
}

func TestUndoPreservesRelativeOrderOfSurvivors(t *testing.T) {
	l := NewOpLog()
	for i, u := range []string{"a", "b", "a", "c", "b", "a"} {
		l.Append(seg(u, i))
	}
	require.True(t, l.Undo("b")) // removes index 4

	got := l.Snapshot()
	want := []int64{0, 1, 2, 3, 5}
	require.Len(t, got, len(want))
	for i, at := range want {
		assert.Equal(t, at, got[i].CreatedAt)
	}
}
