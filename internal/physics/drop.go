package physics

import (
	"math"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"

	"roomshelves/internal/config"
)

// DropState says whether a body rests or is falling toward a target height.
// The zero value is Resting.
type DropState struct {
	falling bool
	target  float32
}

func Resting() DropState {
	return DropState{}
}

func Falling(target float32) DropState {
	return DropState{falling: true, target: target}
}

// Target returns the pending target height, if any.
func (s DropState) Target() (float32, bool) {
	return s.target, s.falling
}

func (s DropState) IsFalling() bool {
	return s.falling
}

func (s DropState) String() string {
	if s.falling {
		return "falling"
	}
	return "resting"
}

// Body is the animated part of a placed item. Only Y is ever integrated;
// X and Z are set directly by placement.
type Body struct {
	Position  rl.Vector3
	VelocityY float32
	State     DropState
}

// Animator moves falling bodies toward their target with a fixed step under
// constant acceleration, clamping at the target so a body never overshoots.
type Animator struct {
	Gravity   float32
	Step      float32
	Tolerance float32
}

func NewAnimator(cfg config.Animator) Animator {
	return Animator{Gravity: cfg.Gravity, Step: cfg.Step, Tolerance: cfg.Tolerance}
}

// Advance runs one step for b and reports whether it landed during this step.
// A body above its target falls; one below it rises. Resting bodies are
// untouched.
func (a Animator) Advance(b *Body) bool {
	target, falling := b.State.Target()
	if !falling {
		return false
	}

	if math32.Abs(b.Position.Y-target) > a.Tolerance {
		b.VelocityY += a.Gravity * a.Step
		if b.Position.Y > target {
			b.Position.Y = max(b.Position.Y-b.VelocityY*a.Step, target)
		} else {
			b.Position.Y = min(b.Position.Y+b.VelocityY*a.Step, target)
		}
	}

	if math32.Abs(b.Position.Y-target) <= a.Tolerance {
		b.Position.Y = target
		b.VelocityY = 0
		b.State = Resting()
		return true
	}
	return false
}

// MaxSteps bounds how many steps a fall from height gap can take before it
// resolves, counting the final snap step.
func (a Animator) MaxSteps(gap float32) int {
	if !(gap > 0) {
		return 1
	}
	// distance covered after n steps is g*dt^2*n(n+1)/2
	unit := float64(a.Gravity * a.Step * a.Step)
	n := (math.Sqrt(1+8*float64(gap)/unit) - 1) / 2
	return int(math.Ceil(n)) + 1
}
