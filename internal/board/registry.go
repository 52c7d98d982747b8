package board

import "sync"

// Registry is the process-wide roomID → Room table. A room exists from
// its first join until its last leave; Join and GetOrCreate are the
// only ways a room comes into being, so an event naming an unknown room
// can simply be dropped.
//
// Lock order is always registry then room. Join inserts the membership
// while still holding the registry mutex, so a concurrent last-leave
// teardown can never delete the room between fetching it and joining
// it, and the emptiness check in RemoveIfEmpty cannot race a join.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// GetOrCreate returns the room for id, creating it on first join. The
// second return reports whether this call created it. Concurrent calls
// for the same unseen id resolve to a single instance.
func (g *Registry) GetOrCreate(id string) (*Room, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if r, ok := g.rooms[id]; ok {
		return r, false
	}
	r := NewRoom(id)
	g.rooms[id] = r
	return r, true
}

// Join registers the user in roomID's room, creating the room on first
// join. Fetch and membership insert happen as one step under the
// registry mutex; doing them separately would let a last-leave teardown
// delete the room in between and strand the joiner in an orphaned
// instance. Returns the room, the user's assigned color and whether
// this call created the room.
func (g *Registry) Join(roomID, userID, connID, name string) (*Room, string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.rooms[roomID]
	if !ok {
		r = NewRoom(roomID)
		g.rooms[roomID] = r
	}
	color := r.Join(userID, connID, name)
	return r, color, !ok
}

// Get returns the room for id if it exists.
func (g *Registry) Get(id string) (*Room, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.rooms[id]
	return r, ok
}

// RemoveIfEmpty deletes the entry when the room has no users left,
// discarding its entire log. A later join for the same id starts from
// scratch. Reports whether the room was removed.
func (g *Registry) RemoveIfEmpty(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.rooms[id]
	if !ok || !r.Empty() {
		return false
	}
	delete(g.rooms, id)
	return true
}

// Len reports how many rooms are live.
func (g *Registry) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.rooms)
}
