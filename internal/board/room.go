package board

import (
	"sort"
	"sync"
	"time"
)

// palette holds the colors handed out to joining users, in assignment
// order. Collisions past the palette size are accepted: the color only
// labels a user's cursor, it never affects what gets drawn.
var palette = [...]string{
	"#e6194b", "#3cb44b", "#ffe119", "#4363d8", "#f58231",
	"#911eb4", "#46f0f0", "#f032e6", "#bcf60c", "#008080",
}

// User is one connected participant as the room tracks it. ConnID binds
// the membership to a single live connection; a rejoin from a new
// connection rebinds it.
type User struct {
	UserID string `json:"userId"`
	ConnID string `json:"-"`
	Name   string `json:"userName"`
	Color  string `json:"color"`
}

// Cursor is a user's last reported pointer position. Ephemeral:
// overwritten on every move, gone on disconnect.
type Cursor struct {
	UserID string  `json:"userId"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// Room is one isolated collaboration session: its users, their cursors
// and one operation log. A single mutex serializes the room's mutation
// stream, which is what makes "order received by the server" the one
// true order for the room. Different rooms share nothing and run fully
// in parallel.
type Room struct {
	ID string

	mu      sync.Mutex
	users   map[string]User
	cursors map[string]Cursor
	log     *OpLog
}

func NewRoom(id string) *Room {
	return &Room{
		ID:      id,
		users:   make(map[string]User),
		cursors: make(map[string]Cursor),
		log:     NewOpLog(),
	}
}

// Join registers the user and assigns a palette color indexed by the
// user count after insertion. Joining again under the same userID
// rebinds the connection and refreshes the name but keeps the color
// assigned at first join.
func (r *Room) Join(userID, connID, name string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		u.ConnID = connID
		u.Name = name
		r.users[userID] = u
		return u.Color
	}
	color := palette[(len(r.users)+1)%len(palette)]
	r.users[userID] = User{UserID: userID, ConnID: connID, Name: name, Color: color}
	return color
}

// Leave removes the user and their cursor unconditionally. The caller
// decides whether the now-possibly-empty room should be torn down.
func (r *Room) Leave(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, userID)
	delete(r.cursors, userID)
}

// LeaveConn removes the user only if connID still owns the membership.
// A disconnect from a stale connection (the user rejoined from another
// tab) must not evict the live one. Reports whether the user left.
func (r *Room) LeaveConn(userID, connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok || u.ConnID != connID {
		return false
	}
	delete(r.users, userID)
	delete(r.cursors, userID)
	return true
}

func (r *Room) Empty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users) == 0
}

func (r *Room) HasUser(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.users[userID]
	return ok
}

// UpdateCursor overwrites the user's last pointer position. Moves from
// users not in the room are dropped; a cursor without a membership has
// no color to label it with.
func (r *Room) UpdateCursor(userID string, x, y float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[userID]; !ok {
		return
	}
	r.cursors[userID] = Cursor{UserID: userID, X: x, Y: y}
}

// Users returns the membership sorted by userID. The slice is a copy,
// safe to hand straight to a payload builder.
func (r *Room) Users() []User {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

// Cursors returns the last known pointer positions sorted by userID.
func (r *Room) Cursors() []Cursor {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Cursor, 0, len(r.cursors))
	for _, c := range r.cursors {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

// AppendDraw stamps a draw operation with the server clock and appends
// it to the log, returning the stored value for broadcast. Geometry is
// trusted as given; validation happened at the boundary.
func (r *Room) AppendDraw(userID string, x0, y0, x1, y1 float64, color string, width float64) Operation {
	op := Operation{
		Kind:        KindDraw,
		UserID:      userID,
		X0:          x0,
		Y0:          y0,
		X1:          x1,
		Y1:          y1,
		Color:       color,
		StrokeWidth: width,
		CreatedAt:   time.Now().UnixNano(),
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log.Append(op)
	return op
}

// Undo removes the user's most recent surviving operation from the log.
func (r *Room) Undo(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.log.Undo(userID)
}

// Redo restores the user's most recently undone operation at the tail.
func (r *Room) Redo(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.log.Redo(userID)
}

// Clear wipes the room's drawing state for everyone.
func (r *Room) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log.Clear()
}

// History returns a replayable copy of the room's operation sequence.
func (r *Room) History() []Operation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.log.Snapshot()
}
