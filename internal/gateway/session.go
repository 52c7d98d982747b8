package gateway

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/krishnasingh-09/Collaborative-Canvas/internal/board"
)

// Session is one websocket connection walking the join state machine:
// it starts unjoined and may bind to exactly one (room, user) pair for
// its lifetime. room and userID are written only by the read pump's
// goroutine, so they need no lock of their own.
type Session struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	log  *zap.Logger

	room   *board.Room // nil while unjoined
	userID string
}

func (s *Session) joined() bool { return s.room != nil }

// boundTo reports whether a payload addresses this session's own
// binding. Events naming another room or user are dropped upstream;
// a session never acts across rooms or on someone else's behalf.
func (s *Session) boundTo(roomID, userID string) bool {
	return s.joined() && s.room.ID == roomID && s.userID == userID
}

// enqueue hands a message to the write pump without blocking. A full
// buffer means the client stopped draining; the connection is cut and
// the read pump's exit runs the normal disconnect path.
func (s *Session) enqueue(msg []byte) {
	select {
	case s.send <- msg:
		s.hub.metrics.Broadcasts.Inc()
	default:
		s.hub.metrics.SlowDrops.Inc()
		s.log.Warn("dropping slow session")
		s.conn.Close()
	}
}

func (s *Session) readPump() {
	defer func() {
		s.hub.disconnect(s)
		s.conn.Close()
	}()
	s.conn.SetReadLimit(s.hub.opts.MaxMessageBytes)
	_ = s.conn.SetReadDeadline(time.Now().Add(s.hub.opts.PongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.hub.opts.PongWait))
	})
	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug("read error", zap.Error(err))
			}
			return
		}
		s.hub.dispatch(s, raw)
	}
}

func (s *Session) writePump() {
	ticker := time.NewTicker(s.hub.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(s.hub.opts.WriteWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(s.hub.opts.WriteWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWS upgrades the request and starts the session's pumps.
func ServeWS(hub *Hub, upgrader websocket.Upgrader, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.log.Debug("upgrade failed", zap.Error(err))
		return
	}
	s := &Session{
		id:   uuid.NewString(),
		hub:  hub,
		conn: conn,
		send: make(chan []byte, hub.opts.SendBuffer),
	}
	s.log = hub.log.With(zap.String("session", s.id))
	hub.metrics.ActiveSessions.Inc()
	go s.writePump()
	go s.readPump()
}
