package board

// OpLog is the append-mostly operation record for one room, plus a redo
// stack per user. It has no locking of its own; the owning Room
// serializes every call through its mutation mutex.
type OpLog struct {
	history []Operation
	redo    map[string][]Operation
}

func NewOpLog() *OpLog {
	return &OpLog{redo: make(map[string][]Operation)}
}

// Append records op as the newest operation and drops the author's redo
// stack. Drawing after an undo forfeits the redo; other users' stacks
// are untouched.
func (l *OpLog) Append(op Operation) {
	l.history = append(l.history, op)
	delete(l.redo, op.UserID)
}

// Undo removes userID's most recent surviving operation, scanning the
// history from the tail so strokes other users drew in between stay in
// place. The removed operation moves to the user's redo stack. Reports
// whether anything was undone; a user with no surviving operations is a
// no-op, never an error.
func (l *OpLog) Undo(userID string) bool {
	for i := len(l.history) - 1; i >= 0; i-- {
		if l.history[i].UserID != userID {
			continue
		}
		op := l.history[i]
		l.history = append(l.history[:i], l.history[i+1:]...)
		l.redo[userID] = append(l.redo[userID], op)
		return true
	}
	return false
}

// Redo pops the user's most recently undone operation and re-appends it
// at the tail, so it re-enters as the newest operation regardless of
// where it originally sat. That keeps replay a single forward pass.
func (l *OpLog) Redo(userID string) bool {
	stack := l.redo[userID]
	if len(stack) == 0 {
		return false
	}
	op := stack[len(stack)-1]
	l.redo[userID] = stack[:len(stack)-1]
	l.history = append(l.history, op)
	return true
}

// Snapshot returns a copy of the history in current order. Mutating the
// returned slice cannot touch the log.
func (l *OpLog) Snapshot() []Operation {
	out := make([]Operation, len(l.history))
	copy(out, l.history)
	return out
}

// Clear empties the history and every user's redo stack.
func (l *OpLog) Clear() {
	l.history = nil
	l.redo = make(map[string][]Operation)
}

func (l *OpLog) Len() int { return len(l.history) }

// redoDepth reports how many undone operations userID can still redo.
func (l *OpLog) redoDepth(userID string) int { return len(l.redo[userID]) }
