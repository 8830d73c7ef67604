package session

import (
	"roomshelves/internal/engine"
	"roomshelves/internal/physics"
)

const maxUndoStack = 50

type undoKind int

const (
	undoAdd undoKind = iota
	undoMove
)

// undoEntry captures enough to revert one placement or move.
type undoEntry struct {
	kind   undoKind
	handle engine.Handle
	before physics.Body
}

func (s *Session) pushUndo(e undoEntry) {
	if len(s.undoStack) >= maxUndoStack {
		s.undoStack = s.undoStack[1:]
	}
	s.undoStack = append(s.undoStack, e)
}

// UndoDepth is how many actions Undo can still revert.
func (s *Session) UndoDepth() int {
	return len(s.undoStack)
}

// Undo reverts the most recent placement or move. It reports false when there
// was nothing left to revert.
func (s *Session) Undo() bool {
	for len(s.undoStack) > 0 {
		e := s.undoStack[len(s.undoStack)-1]
		s.undoStack = s.undoStack[:len(s.undoStack)-1]

		switch e.kind {
		case undoAdd:
			if s.Placement.Remove(e.handle) {
				s.log.Debug("undo place", "handle", e.handle)
				return true
			}
		case undoMove:
			if it, ok := s.Placement.Items.Get(e.handle); ok {
				it.Body = e.before
				s.Placement.Select(e.handle)
				s.log.Debug("undo move", "handle", e.handle)
				return true
			}
		}
	}
	return false
}
