package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinAssignsPaletteColors(t *testing.T) {
	r := NewRoom("r1")

	c1 := r.Join("u1", "conn1", "Alice")
	c2 := r.Join("u2", "conn2", "Bob")

	assert.Equal(t, palette[1], c1)
	assert.Equal(t, palette[2], c2)
	assert.NotEqual(t, c1, c2)
}

func TestJoinWrapsAroundThePalette(t *testing.T) {
	r := NewRoom("r1")
	colors := make(map[string]int)
	for i := 0; i < len(palette)+2; i++ {
		c := r.Join(string(rune('a'+i)), "conn", "user")
		colors[c]++
	}
	// Past the palette size collisions are accepted, never a failure.
	assert.GreaterOrEqual(t, len(colors), len(palette))
}

func TestRejoinKeepsColorAndRebindsConnection(t *testing.T) {
	r := NewRoom("r1")
	first := r.Join("u1", "conn1", "Alice")

	again := r.Join("u1", "conn2", "Alice A.")

	assert.Equal(t, first, again)
	users := r.Users()
	require.Len(t, users, 1)
	assert.Equal(t, "conn2", users[0].ConnID)
	assert.Equal(t, "Alice A.", users[0].Name)
}

func TestLeaveRemovesUserAndCursor(t *testing.T) {
	r := NewRoom("r1")
	r.Join("u1", "conn1", "Alice")
	r.UpdateCursor("u1", 10, 20)

	r.Leave("u1")

	assert.True(t, r.Empty())
	assert.Empty(t, r.Cursors())
	assert.False(t, r.HasUser("u1"))
}

func TestLeaveConnIgnoresStaleBinding(t *testing.T) {
	r := NewRoom("r1")
	r.Join("u1", "conn1", "Alice")
	r.Join("u1", "conn2", "Alice") // new tab took over

	// The old tab disconnecting must not evict the live membership.
	assert.False(t, r.LeaveConn("u1", "conn1"))
	assert.True(t, r.HasUser("u1"))

	assert.True(t, r.LeaveConn("u1", "conn2"))
	assert.True(t, r.Empty())
}

func TestUpdateCursorForUnknownUserIsDropped(t *testing.T) {
	r := NewRoom("r1")
	r.UpdateCursor("ghost", 1, 2)
	assert.Empty(t, r.Cursors())
}

func TestCursorOverwritesPreviousPosition(t *testing.T) {
	r := NewRoom("r1")
	r.Join("u1", "conn1", "Alice")
	r.UpdateCursor("u1", 1, 1)
	r.UpdateCursor("u1", 5, 9)

	cursors := r.Cursors()
	require.Len(t, cursors, 1)
	assert.Equal(t, 5.0, cursors[0].X)
	assert.Equal(t, 9.0, cursors[0].Y)
}

func TestUsersViewIsSortedAndDetached(t *testing.T) {
	r := NewRoom("r1")
	r.Join("zed", "c1", "Zed")
	r.Join("amy", "c2", "Amy")

	users := r.Users()
	require.Len(t, users, 2)
	assert.Equal(t, "amy", users[0].UserID)
	assert.Equal(t, "zed", users[1].UserID)

	users[0].Name = "corrupted"
	assert.Equal(t, "Amy", r.Users()[0].Name)
}

func TestAppendDrawStampsTheOperation(t *testing.T) {
	r := NewRoom("r1")
	r.Join("u1", "conn1", "Alice")

	op := r.AppendDraw("u1", 0, 0, 5, 5, "#ff0000", 3)

	assert.Equal(t, KindDraw, op.Kind)
	assert.Positive(t, op.CreatedAt)
	history := r.History()
	require.Len(t, history, 1)
	assert.Equal(t, op, history[0])
}

func TestRoomDelegatesUndoRedoClear(t *testing.T) {
	r := NewRoom("r1")
	r.Join("u1", "conn1", "Alice")
	r.AppendDraw("u1", 0, 0, 5, 5, "#ff0000", 3)

	require.True(t, r.Undo("u1"))
	assert.Empty(t, r.History())
	require.True(t, r.Redo("u1"))
	assert.Len(t, r.History(), 1)

	r.Clear()
	assert.Empty(t, r.History())
	assert.False(t, r.Redo("u1"))
}
