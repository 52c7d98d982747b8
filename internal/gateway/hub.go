// Package gateway binds websocket connections to rooms and serializes
// each room's mutation stream. One hub per process; one session per
// connection.
package gateway

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/krishnasingh-09/Collaborative-Canvas/internal/board"
	"github.com/krishnasingh-09/Collaborative-Canvas/internal/metrics"
	"github.com/krishnasingh-09/Collaborative-Canvas/internal/protocol"
)

// Options tunes per-session transport behavior.
type Options struct {
	SendBuffer      int
	MaxMessageBytes int64
	WriteWait       time.Duration
	PongWait        time.Duration
	PingPeriod      time.Duration
}

func (o Options) withDefaults() Options {
	if o.SendBuffer <= 0 {
		o.SendBuffer = 256
	}
	if o.MaxMessageBytes <= 0 {
		o.MaxMessageBytes = 4096
	}
	if o.WriteWait <= 0 {
		o.WriteWait = 10 * time.Second
	}
	if o.PongWait <= 0 {
		o.PongWait = 60 * time.Second
	}
	if o.PingPeriod <= 0 {
		o.PingPeriod = o.PongWait * 9 / 10
	}
	return o
}

// Hub routes inbound events to their room and fans resulting state out
// to every session attached to that room. Room mutations are serialized
// by each room's own mutex; the hub's lock only guards the session
// index. Different rooms never contend.
type Hub struct {
	registry *board.Registry
	opts     Options
	metrics  *metrics.Metrics
	log      *zap.Logger

	mu    sync.RWMutex
	rooms map[string]map[*Session]struct{}
}

func NewHub(registry *board.Registry, opts Options, m *metrics.Metrics, log *zap.Logger) *Hub {
	return &Hub{
		registry: registry,
		opts:     opts.withDefaults(),
		metrics:  m,
		log:      log,
		rooms:    make(map[string]map[*Session]struct{}),
	}
}

func (h *Hub) attach(roomID string, s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.rooms[roomID]
	if !ok {
		set = make(map[*Session]struct{})
		h.rooms[roomID] = set
	}
	set[s] = struct{}{}
}

// detachAndClose removes the session from the index and closes its send
// channel under the same lock broadcast enqueues under, so a departing
// session can never be enqueued to after close.
func (h *Hub) detachAndClose(roomID string, s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.rooms[roomID]; ok {
		delete(set, s)
		if len(set) == 0 {
			delete(h.rooms, roomID)
		}
	}
	close(s.send)
}

// broadcast fans msg out to every session in the room, skipping except
// when non-nil. Fire and forget: nobody waits on a peer's socket, and a
// session that cannot keep up is cut, not queued behind.
func (h *Hub) broadcast(roomID string, msg []byte, except *Session) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.rooms[roomID] {
		if s != except {
			s.enqueue(msg)
		}
	}
}

// dispatch decodes one inbound frame and applies its event. Anything
// that does not fit the schema or the session's state degrades to a
// no-op: a collaborative surface has to stay live under bad input.
func (h *Hub) dispatch(s *Session, raw []byte) {
	var env protocol.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		s.log.Debug("malformed envelope", zap.Error(err))
		return
	}
	if env.Event == protocol.EventJoinRoom {
		h.handleJoin(s, env.Data)
		return
	}
	if !s.joined() {
		s.log.Debug("event before join dropped", zap.String("event", env.Event))
		return
	}
	switch env.Event {
	case protocol.EventDraw:
		h.handleDraw(s, env.Data)
	case protocol.EventCursorMove:
		h.handleCursor(s, env.Data)
	case protocol.EventRequestUndo:
		h.handleUndoRedo(s, env.Data, false)
	case protocol.EventRequestRedo:
		h.handleUndoRedo(s, env.Data, true)
	case protocol.EventClearCanvas:
		h.handleClear(s, env.Data)
	default:
		s.log.Debug("unknown event dropped", zap.String("event", env.Event))
	}
}

// handleJoin moves the session to Joined, sends the requester the full
// snapshot and tells everyone already there who arrived.
func (h *Hub) handleJoin(s *Session, data json.RawMessage) {
	if s.joined() {
		s.log.Debug("join on already joined session dropped")
		return
	}
	var p protocol.JoinRoom
	if err := protocol.Decode(data, &p); err != nil {
		s.log.Debug("invalid join payload", zap.Error(err))
		return
	}

	room, color, created := h.registry.Join(p.RoomID, p.UserID, s.id, p.UserName)
	s.room = room
	s.userID = p.UserID
	h.attach(room.ID, s)
	if created {
		h.metrics.ActiveRooms.Set(float64(h.registry.Len()))
		h.log.Info("room created", zap.String("room", room.ID))
	}

	users := room.Users()
	if snapshot, err := protocol.Marshal(protocol.EventDrawingHistory, protocol.DrawingHistory{
		Operations: room.History(),
		Users:      users,
	}); err == nil {
		s.enqueue(snapshot)
	}
	if notice, err := protocol.Marshal(protocol.EventUserJoined, protocol.UserJoined{
		UserID:   p.UserID,
		UserName: p.UserName,
		Color:    color,
		Users:    users,
	}); err == nil {
		h.broadcast(room.ID, notice, s)
	}
	s.log.Info("user joined",
		zap.String("room", room.ID),
		zap.String("user", p.UserID),
		zap.String("color", color))
}

// handleDraw appends the segment and broadcasts it incrementally to the
// whole room, sender included. The sender already drew it optimistically;
// re-stroking the same segment is harmless.
func (h *Hub) handleDraw(s *Session, data json.RawMessage) {
	var p protocol.Draw
	if err := protocol.Decode(data, &p); err != nil {
		s.log.Debug("invalid draw payload", zap.Error(err))
		return
	}
	if !s.boundTo(p.RoomID, p.UserID) {
		s.log.Debug("draw outside session binding dropped", zap.String("room", p.RoomID))
		return
	}
	op := s.room.AppendDraw(p.UserID, p.X0, p.Y0, p.X1, p.Y1, p.Color, p.StrokeWidth)
	h.metrics.Operations.WithLabelValues(string(board.KindDraw)).Inc()
	if msg, err := protocol.Marshal(protocol.EventNewDrawOperation, op); err == nil {
		h.broadcast(s.room.ID, msg, nil)
	}
}

// handleCursor fans the updated cursor set out to the room. Cursor
// traffic never touches the log.
func (h *Hub) handleCursor(s *Session, data json.RawMessage) {
	var p protocol.CursorMove
	if err := protocol.Decode(data, &p); err != nil {
		s.log.Debug("invalid cursor payload", zap.Error(err))
		return
	}
	if !s.boundTo(p.RoomID, p.UserID) {
		return
	}
	s.room.UpdateCursor(p.UserID, p.X, p.Y)
	if msg, err := protocol.Marshal(protocol.EventUserCursors, protocol.UserCursors{
		Cursors: s.room.Cursors(),
		Users:   s.room.Users(),
	}); err == nil {
		h.broadcast(s.room.ID, msg, nil)
	}
}

// handleUndoRedo mutates the log and, when anything changed, resyncs the
// whole room from the full history. Removal cannot be expressed as a
// diff; clients replay from scratch.
func (h *Hub) handleUndoRedo(s *Session, data json.RawMessage, redo bool) {
	var p protocol.UndoRedo
	if err := protocol.Decode(data, &p); err != nil {
		s.log.Debug("invalid undo/redo payload", zap.Error(err))
		return
	}
	if !s.boundTo(p.RoomID, p.UserID) {
		return
	}
	var changed bool
	kind := "undo"
	if redo {
		changed = s.room.Redo(p.UserID)
		kind = "redo"
	} else {
		changed = s.room.Undo(p.UserID)
	}
	if !changed {
		s.log.Debug("nothing to "+kind, zap.String("user", p.UserID))
		return
	}
	h.metrics.Operations.WithLabelValues(kind).Inc()
	if msg, err := protocol.Marshal(protocol.EventDrawingHistory, protocol.DrawingHistory{
		Operations: s.room.History(),
		Users:      s.room.Users(),
		IsUndoRedo: true,
	}); err == nil {
		h.broadcast(s.room.ID, msg, nil)
	}
}

// handleClear always succeeds and resyncs everyone with the now-empty
// history. Confirmation, if any, is a UI concern.
func (h *Hub) handleClear(s *Session, data json.RawMessage) {
	var p protocol.ClearCanvas
	if err := protocol.Decode(data, &p); err != nil {
		s.log.Debug("invalid clear payload", zap.Error(err))
		return
	}
	if s.room.ID != p.RoomID {
		s.log.Debug("clear for another room dropped", zap.String("room", p.RoomID))
		return
	}
	s.room.Clear()
	h.metrics.Operations.WithLabelValues("clear").Inc()
	if msg, err := protocol.Marshal(protocol.EventDrawingHistory, protocol.DrawingHistory{
		Operations: s.room.History(),
		Users:      s.room.Users(),
		IsCleared:  true,
	}); err == nil {
		h.broadcast(s.room.ID, msg, nil)
	}
}

// disconnect runs exactly once per session, from the read pump's exit.
// It tears the membership down, destroys the room if nobody is left and
// otherwise tells the remaining members who went away.
func (h *Hub) disconnect(s *Session) {
	h.metrics.ActiveSessions.Dec()
	if !s.joined() {
		close(s.send)
		return
	}
	roomID := s.room.ID
	left := s.room.LeaveConn(s.userID, s.id)
	h.detachAndClose(roomID, s)
	if h.registry.RemoveIfEmpty(roomID) {
		h.metrics.ActiveRooms.Set(float64(h.registry.Len()))
		h.log.Info("room destroyed", zap.String("room", roomID))
		return
	}
	if left {
		if msg, err := protocol.Marshal(protocol.EventUserLeft, protocol.UserLeft{
			UserID: s.userID,
			Users:  s.room.Users(),
		}); err == nil {
			h.broadcast(roomID, msg, nil)
		}
		s.log.Info("user left", zap.String("room", roomID), zap.String("user", s.userID))
	}
}
