package camera

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"

	"roomshelves/internal/config"
)

// panReferenceDistance is the distance at which one pixel of drag pans by
// PanSensitivity inches.
const panReferenceDistance = 300

// OrbitCamera circles a fixed look-at point. Pan translates eye and target
// together.
type OrbitCamera struct {
	Center   rl.Vector3
	Yaw      float32 // degrees
	Pitch    float32 // degrees
	Distance float32
	PanX     float32
	PanZ     float32

	MinDistance      float32
	MaxDistance      float32
	MaxPitch         float32
	FovY             float32 // degrees
	Near             float32
	Far              float32
	OrbitSensitivity float32
	PanSensitivity   float32

	width  float32
	height float32
}

// State is the mutable part of the camera, used to restore a view.
type State struct {
	Yaw      float32 `json:"yaw"`
	Pitch    float32 `json:"pitch"`
	Distance float32 `json:"distance"`
	PanX     float32 `json:"panX"`
	PanZ     float32 `json:"panZ"`
}

func New(center rl.Vector3, cfg config.Camera) *OrbitCamera {
	return &OrbitCamera{
		Center:           center,
		Yaw:              cfg.Yaw,
		Pitch:            cfg.Pitch,
		Distance:         cfg.Distance,
		MinDistance:      cfg.MinDistance,
		MaxDistance:      cfg.MaxDistance,
		MaxPitch:         cfg.MaxPitch,
		FovY:             cfg.FovY,
		Near:             cfg.Near,
		Far:              cfg.Far,
		OrbitSensitivity: cfg.OrbitSensitivity,
		PanSensitivity:   cfg.PanSensitivity,
		width:            1,
		height:           1,
	}
}

// Orbit turns the camera by a screen drag delta in pixels.
func (c *OrbitCamera) Orbit(dx, dy float32) {
	if !finite(dx) || !finite(dy) {
		return
	}
	c.Yaw -= dx * c.OrbitSensitivity
	c.Pitch = rl.Clamp(c.Pitch-dy*c.OrbitSensitivity, -c.MaxPitch, c.MaxPitch)
}

// Zoom divides the distance by factor, so factor > 1 (pinch out) moves closer.
func (c *OrbitCamera) Zoom(factor float32) {
	if !(factor > 0) || !finite(factor) {
		return
	}
	c.Distance = rl.Clamp(c.Distance/factor, c.MinDistance, c.MaxDistance)
}

// Pan moves against the drag direction, faster when zoomed out.
func (c *OrbitCamera) Pan(dx, dy float32) {
	if !finite(dx) || !finite(dy) {
		return
	}
	s := c.Distance / panReferenceDistance
	c.PanX += -dx * c.PanSensitivity * s
	c.PanZ += dy * c.PanSensitivity * s
}

func (c *OrbitCamera) SetViewport(width, height float32) {
	c.width = width
	c.height = height
}

func (c *OrbitCamera) Viewport() (width, height float32) {
	return c.width, c.height
}

func (c *OrbitCamera) Aspect() float32 {
	if !(c.height > 0) || !(c.width > 0) {
		return 1
	}
	return c.width / c.height
}

// Target is the look-at point including pan.
func (c *OrbitCamera) Target() rl.Vector3 {
	return rl.Vector3{X: c.Center.X + c.PanX, Y: c.Center.Y, Z: c.Center.Z + c.PanZ}
}

func (c *OrbitCamera) Eye() rl.Vector3 {
	yawRad := c.Yaw * rl.Deg2rad
	pitchRad := c.Pitch * rl.Deg2rad

	offset := rl.Vector3{
		X: math32.Cos(yawRad) * math32.Cos(pitchRad),
		Y: math32.Sin(pitchRad),
		Z: math32.Sin(yawRad) * math32.Cos(pitchRad),
	}
	return rl.Vector3Add(c.Target(), rl.Vector3Scale(offset, c.Distance))
}

func (c *OrbitCamera) View() rl.Matrix {
	return rl.MatrixLookAt(c.Eye(), c.Target(), rl.Vector3{X: 0, Y: 1, Z: 0})
}

func (c *OrbitCamera) Projection() rl.Matrix {
	return rl.MatrixPerspective(c.FovY*rl.Deg2rad, c.Aspect(), c.Near, c.Far)
}

// ViewProjection is projection x view, the matrix every consumer uses for the
// current frame.
func (c *OrbitCamera) ViewProjection() rl.Matrix {
	return rl.MatrixMultiply(c.View(), c.Projection())
}

// Camera3D converts to raylib's camera for BeginMode3D. raylib applies its own
// clip planes, so hosts should follow up with rl.SetMatrixProjection(Projection()).
func (c *OrbitCamera) Camera3D() rl.Camera3D {
	return rl.Camera3D{
		Position:   c.Eye(),
		Target:     c.Target(),
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       c.FovY,
		Projection: rl.CameraPerspective,
	}
}

func (c *OrbitCamera) State() State {
	return State{Yaw: c.Yaw, Pitch: c.Pitch, Distance: c.Distance, PanX: c.PanX, PanZ: c.PanZ}
}

// Restore applies s, re-clamping pitch and distance.
func (c *OrbitCamera) Restore(s State) {
	c.Yaw = s.Yaw
	c.Pitch = rl.Clamp(s.Pitch, -c.MaxPitch, c.MaxPitch)
	c.Distance = rl.Clamp(s.Distance, c.MinDistance, c.MaxDistance)
	c.PanX = s.PanX
	c.PanZ = s.PanZ
}

func finite(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}
