// The agent is a headless canvas client for demos and load generation:
// it joins a room, draws a random walk with cursor chatter, then
// exercises undo/redo and reports everything the server echoes back.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/krishnasingh-09/Collaborative-Canvas/internal/protocol"
)

func main() {
	addr := flag.String("addr", "localhost:8080", "server host:port")
	room := flag.String("room", "demo", "room to join")
	name := flag.String("name", "agent", "display name")
	segments := flag.Int("segments", 20, "line segments to draw")
	interval := flag.Duration("interval", 50*time.Millisecond, "delay between segments")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	userID := uuid.NewString()
	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws"}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		logger.Fatal("dial failed", zap.String("url", u.String()), zap.Error(err))
	}
	defer conn.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var env protocol.Envelope
			if err := json.Unmarshal(raw, &env); err != nil {
				logger.Warn("unreadable frame", zap.Error(err))
				continue
			}
			logEvent(logger, env)
		}
	}()

	send := func(event string, payload any) {
		msg, err := protocol.Marshal(event, payload)
		if err != nil {
			logger.Fatal("marshal failed", zap.Error(err))
		}
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			logger.Fatal("write failed", zap.Error(err))
		}
	}

	send(protocol.EventJoinRoom, protocol.JoinRoom{
		RoomID:   *room,
		UserID:   userID,
		UserName: *name,
	})
	logger.Info("joined", zap.String("room", *room), zap.String("user", userID))

	// Random walk starting mid-canvas. Each step extends the previous
	// segment so the result looks like one continuous scribble.
	x, y := 400.0, 300.0
	color := fmt.Sprintf("#%06x", rand.Intn(0x1000000))
	for i := 0; i < *segments; i++ {
		nx := x + rand.Float64()*40 - 20
		ny := y + rand.Float64()*40 - 20
		send(protocol.EventDraw, protocol.Draw{
			RoomID:      *room,
			UserID:      userID,
			X0:          x,
			Y0:          y,
			X1:          nx,
			Y1:          ny,
			Color:       color,
			StrokeWidth: 3,
		})
		send(protocol.EventCursorMove, protocol.CursorMove{
			RoomID: *room,
			UserID: userID,
			X:      nx,
			Y:      ny,
		})
		x, y = nx, ny
		time.Sleep(*interval)
	}

	send(protocol.EventRequestUndo, protocol.UndoRedo{RoomID: *room, UserID: userID})
	time.Sleep(*interval)
	send(protocol.EventRequestRedo, protocol.UndoRedo{RoomID: *room, UserID: userID})
	time.Sleep(*interval)

	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	select {
	case <-done:
	case <-time.After(time.Second):
	}
	logger.Info("agent finished")
}

func logEvent(logger *zap.Logger, env protocol.Envelope) {
	switch env.Event {
	case protocol.EventDrawingHistory:
		var p protocol.DrawingHistory
		if json.Unmarshal(env.Data, &p) == nil {
			logger.Info("history resync",
				zap.Int("operations", len(p.Operations)),
				zap.Int("users", len(p.Users)),
				zap.Bool("undoRedo", p.IsUndoRedo),
				zap.Bool("cleared", p.IsCleared))
		}
	case protocol.EventNewDrawOperation:
		logger.Debug("segment broadcast")
	case protocol.EventUserCursors:
		logger.Debug("cursor broadcast")
	case protocol.EventUserJoined, protocol.EventUserLeft:
		logger.Info(env.Event)
	default:
		logger.Warn("unexpected event", zap.String("event", env.Event))
	}
}
