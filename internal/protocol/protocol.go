// Package protocol defines the wire contract between the server and its
// drawing clients: a JSON envelope tagging one of a closed set of event
// payloads. Inbound payloads are validated here, at the boundary, so
// nothing malformed ever reaches a room's log.
package protocol

import (
	"encoding/json"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/krishnasingh-09/Collaborative-Canvas/internal/board"
)

// Inbound event names.
const (
	EventJoinRoom    = "join-room"
	EventDraw        = "draw"
	EventCursorMove  = "cursor-move"
	EventRequestUndo = "request-undo"
	EventRequestRedo = "request-redo"
	EventClearCanvas = "clear-canvas"
)

// Outbound event names.
const (
	EventDrawingHistory   = "drawing-history"
	EventNewDrawOperation = "new-draw-operation"
	EventUserCursors      = "user-cursors"
	EventUserJoined       = "user-joined"
	EventUserLeft         = "user-left"
)

// Envelope wraps every message on the wire in either direction.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Marshal builds a wire message for event carrying data.
func Marshal(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}

// JoinRoom binds the connection to a (room, user) pair.
type JoinRoom struct {
	RoomID   string `json:"roomId" validate:"required"`
	UserID   string `json:"userId" validate:"required"`
	UserName string `json:"userName" validate:"required"`
}

// Draw is one line segment. Color is an RGB hex string or the ERASER
// sentinel; zero coordinates are legal, so only color and width carry
// constraints.
type Draw struct {
	RoomID      string  `json:"roomId" validate:"required"`
	UserID      string  `json:"userId" validate:"required"`
	X0          float64 `json:"x0"`
	Y0          float64 `json:"y0"`
	X1          float64 `json:"x1"`
	Y1          float64 `json:"y1"`
	Color       string  `json:"color" validate:"required,strokecolor"`
	StrokeWidth float64 `json:"strokeWidth" validate:"required,gt=0"`
}

// CursorMove reports a pointer position. Never touches the log.
type CursorMove struct {
	RoomID string  `json:"roomId" validate:"required"`
	UserID string  `json:"userId" validate:"required"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// UndoRedo asks to undo or redo the user's own latest stroke.
type UndoRedo struct {
	RoomID string `json:"roomId" validate:"required"`
	UserID string `json:"userId" validate:"required"`
}

// ClearCanvas wipes the room for everyone.
type ClearCanvas struct {
	RoomID string `json:"roomId" validate:"required"`
}

// DrawingHistory is the full-resync payload: the complete operation
// sequence a client replays from scratch, plus the current membership.
type DrawingHistory struct {
	Operations []board.Operation `json:"operations"`
	Users      []board.User      `json:"users"`
	IsUndoRedo bool              `json:"isUndoRedo,omitempty"`
	IsCleared  bool              `json:"isCleared,omitempty"`
}

// UserCursors carries every known cursor with the membership so clients
// can label pointers without extra lookups.
type UserCursors struct {
	Cursors []board.Cursor `json:"cursors"`
	Users   []board.User   `json:"users"`
}

// UserJoined announces an arrival to the rest of the room.
type UserJoined struct {
	UserID   string       `json:"userId"`
	UserName string       `json:"userName"`
	Color    string       `json:"color"`
	Users    []board.User `json:"users"`
}

// UserLeft announces a departure to the remaining members.
type UserLeft struct {
	UserID string       `json:"userId"`
	Users  []board.User `json:"users"`
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Validate checks inbound payloads against their schema tags.
var Validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("strokecolor", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == board.Eraser || hexColor.MatchString(s)
	}); err != nil {
		panic(err)
	}
	return v
}

// Decode unmarshals raw into dst and validates it, returning the first
// error either step produces.
func Decode(raw json.RawMessage, dst any) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return err
	}
	return Validate.Struct(dst)
}
