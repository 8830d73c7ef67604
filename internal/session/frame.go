package session

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"

	"roomshelves/internal/engine"
	"roomshelves/internal/placement"
	"roomshelves/internal/world"
)

// ItemView is one item as the renderer sees it.
type ItemView struct {
	Handle   engine.Handle
	Position rl.Vector3
	Selected bool
	Visible  bool
	Falling  bool
}

// Frame is everything a host needs to draw one frame.
type Frame struct {
	ViewProjection rl.Matrix
	Projection     rl.Matrix
	Camera         rl.Camera3D
	Eye, Target    rl.Vector3

	Room       rl.Vector3
	Shelves    []world.Shelf
	Labels     []world.Label
	Items      []ItemView
	ItemRadius float32
	ItemHeight float32

	Preview    placement.Slot
	HasPreview bool
	Mode       placement.Mode
	Spacing    float32
	UndoDepth  int
}

// Frame snapshots the scene for drawing.
func (s *Session) Frame() Frame {
	vp := s.Camera.ViewProjection()
	f := Frame{
		ViewProjection: vp,
		Projection:     s.Camera.Projection(),
		Camera:         s.Camera.Camera3D(),
		Eye:            s.Camera.Eye(),
		Target:         s.Camera.Target(),
		Room:           s.World.Size(),
		Shelves:        make([]world.Shelf, 0, s.World.Shelves.Len()),
		Labels:         s.World.Labels,
		Items:          make([]ItemView, 0, s.Placement.Items.Len()),
		ItemRadius:     s.cfg.Item.Radius(),
		ItemHeight:     s.cfg.Item.Height,
		Mode:           s.Placement.Mode(),
		Spacing:        s.World.Spacing(),
		UndoDepth:      len(s.undoStack),
	}
	f.Preview, f.HasPreview = s.Placement.Preview()

	s.World.Shelves.Each(func(_ engine.Handle, sh *world.Shelf) {
		f.Shelves = append(f.Shelves, *sh)
	})

	frustum := world.ExtractFrustum(vp)
	bound := math32.Hypot(f.ItemRadius, f.ItemHeight/2)
	selected, hasSel := s.Placement.Selected()
	s.Placement.Items.Each(func(h engine.Handle, it *placement.Item) {
		f.Items = append(f.Items, ItemView{
			Handle:   h,
			Position: it.Position,
			Selected: hasSel && h == selected,
			Visible:  frustum.ContainsSphere(it.Position, bound),
			Falling:  it.State.IsFalling(),
		})
	})
	return f
}
