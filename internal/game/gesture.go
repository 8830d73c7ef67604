package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	// tapSlop is how far the pointer may wander before a press becomes a drag.
	tapSlop = 8
	// longPressDelay is how long a still press waits before it becomes a
	// long-press, in seconds.
	longPressDelay = 0.5
	// wheelZoomStep is the zoom factor per wheel notch.
	wheelZoomStep = 0.1
)

type GestureKind int

const (
	GestureTap GestureKind = iota
	GestureLongPress
	GestureScroll
	GestureDrag
	GestureZoom
)

func (k GestureKind) String() string {
	switch k {
	case GestureTap:
		return "tap"
	case GestureLongPress:
		return "long-press"
	case GestureScroll:
		return "scroll"
	case GestureDrag:
		return "drag"
	case GestureZoom:
		return "zoom"
	}
	return "gesture(?)"
}

// Gesture is one classified pointer event. X/Y are screen pixels; DX/DY are
// the scroll distance since the previous sample, measured as previous minus
// current; Factor is the zoom scale.
type Gesture struct {
	Kind   GestureKind
	X, Y   float32
	DX, DY float32
	Factor float32
}

// PointerSample is the mouse state for one frame.
type PointerSample struct {
	Position rl.Vector2
	Down     bool
	Wheel    float32
	Time     float64 // seconds
}

// GestureClassifier turns raw mouse samples into taps, long-presses, scrolls,
// drags and zooms. One button only; there are no multi-pointer gestures.
type GestureClassifier struct {
	pressed   bool
	moved     bool
	longFired bool
	start     rl.Vector2
	last      rl.Vector2
	startTime float64
}

// Cancel forgets the current press, e.g. when it started over the toolbar.
func (c *GestureClassifier) Cancel() {
	c.pressed = false
}

// Pressed reports whether a press is being tracked.
func (c *GestureClassifier) Pressed() bool {
	return c.pressed
}

// Feed consumes one sample and appends the gestures it completes to out.
func (c *GestureClassifier) Feed(s PointerSample, out []Gesture) []Gesture {
	if s.Wheel != 0 {
		factor := 1 + s.Wheel*wheelZoomStep
		if factor > 0 {
			out = append(out, Gesture{Kind: GestureZoom, X: s.Position.X, Y: s.Position.Y, Factor: factor})
		}
	}

	switch {
	case s.Down && !c.pressed:
		c.pressed = true
		c.moved = false
		c.longFired = false
		c.start = s.Position
		c.last = s.Position
		c.startTime = s.Time

	case s.Down && c.pressed:
		if !c.moved && rl.Vector2Distance(s.Position, c.start) > tapSlop {
			c.moved = true
		}
		if c.moved {
			if s.Position != c.last {
				out = append(out,
					Gesture{Kind: GestureScroll, X: s.Position.X, Y: s.Position.Y, DX: c.last.X - s.Position.X, DY: c.last.Y - s.Position.Y},
					Gesture{Kind: GestureDrag, X: s.Position.X, Y: s.Position.Y},
				)
			}
			c.last = s.Position
			break
		}
		if !c.longFired && s.Time-c.startTime >= longPressDelay {
			c.longFired = true
			out = append(out, Gesture{Kind: GestureLongPress, X: c.start.X, Y: c.start.Y})
		}

	case !s.Down && c.pressed:
		c.pressed = false
		if !c.moved && !c.longFired {
			out = append(out, Gesture{Kind: GestureTap, X: s.Position.X, Y: s.Position.Y})
		}
	}
	return out
}
