package board

// Kind classifies an operation. Only line-segment draws exist today;
// the enum stays open for future stroke kinds.
type Kind string

const KindDraw Kind = "draw"

// Eraser is the sentinel a client sends in place of a hex color to
// erase instead of paint. The log stores it verbatim; replay decides
// what it means.
const Eraser = "ERASER"

// Operation is one recorded line segment. Once appended to a log its
// fields never change; undo and redo only move it between containers.
type Operation struct {
	Kind        Kind    `json:"kind"`
	UserID      string  `json:"userId"`
	X0          float64 `json:"x0"`
	Y0          float64 `json:"y0"`
	X1          float64 `json:"x1"`
	Y1          float64 `json:"y1"`
	Color       string  `json:"color"`
	StrokeWidth float64 `json:"strokeWidth"`
	// CreatedAt is a unix-nanosecond stamp used only as a tie-break id.
	// Ordering is log position, never this value.
	CreatedAt int64 `json:"createdAt"`
}
