package placement

import (
	"roomshelves/internal/engine"
	"roomshelves/internal/physics"
)

type ActionKind int

const (
	None ActionKind = iota
	Placed
	Picked
	Moved
)

func (k ActionKind) String() string {
	switch k {
	case Placed:
		return "placed"
	case Picked:
		return "picked"
	case Moved:
		return "moved"
	}
	return "none"
}

// Action reports what a gesture changed. Before is the item's body prior to a
// move.
type Action struct {
	Kind   ActionKind
	Handle engine.Handle
	Before physics.Body
}
