package world

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"roomshelves/internal/config"
	"roomshelves/internal/engine"
)

const labelInset = 10

// Label is a wall name anchored in world space. RotationY is in degrees.
type Label struct {
	Text      string
	Position  rl.Vector3
	RotationY float32
}

// World is the static part of the scene: the room box, its shelves and
// wall labels.
type World struct {
	Room       config.Room
	Shelves    *engine.Table[Shelf]
	Labels     []Label
	params     config.Shelves
	itemHeight float32
	spacing    float32
}

func New(cfg config.Config) *World {
	w := &World{
		Room:       cfg.Room,
		Shelves:    engine.NewTable[Shelf](),
		params:     cfg.Shelves,
		itemHeight: cfg.Item.Height,
	}
	w.Labels = buildLabels(cfg.Room)
	w.SetSpacing(cfg.Shelves.Spacing)
	return w
}

// Center is the middle of the room, the camera's orbit point.
func (w *World) Center() rl.Vector3 {
	return rl.Vector3{X: w.Room.Width / 2, Y: w.Room.Height / 2, Z: w.Room.Depth / 2}
}

func (w *World) Size() rl.Vector3 {
	return rl.Vector3{X: w.Room.Width, Y: w.Room.Height, Z: w.Room.Depth}
}

func (w *World) Spacing() float32 {
	return w.spacing
}

// SetSpacing clamps v into the configured range and regenerates every shelf.
// Old shelf handles stop resolving. Returns the spacing applied.
func (w *World) SetSpacing(v float32) float32 {
	if v != v { // NaN
		v = w.spacing
	}
	w.spacing = rl.Clamp(v, w.params.MinSpacing, w.params.MaxSpacing)
	w.Shelves.Replace(BuildShelves(w.Room, w.params, w.itemHeight, w.spacing))
	return w.spacing
}

func (w *World) AdjustSpacing(delta float32) float32 {
	return w.SetSpacing(w.spacing + delta)
}

// NearestShelf returns the shelf whose top rectangle is closest to p.
func (w *World) NearestShelf(p rl.Vector3) (engine.Handle, Shelf, bool) {
	var (
		best     engine.Handle
		bestDist float32
		found    bool
	)
	w.Shelves.Each(func(h engine.Handle, s *Shelf) {
		d := s.Bounds().DistanceToRect(p, s.SurfaceY())
		if !found || d < bestDist {
			best, bestDist, found = h, d, true
		}
	})
	if !found {
		return engine.NoHandle, Shelf{}, false
	}
	s, _ := w.Shelves.Get(best)
	return best, *s, true
}

// ShelfAt finds the shelf on wall at level.
func (w *World) ShelfAt(wall Wall, level int) (engine.Handle, Shelf, bool) {
	for _, h := range w.Shelves.Handles() {
		s, _ := w.Shelves.Get(h)
		if s.Wall == wall && s.Level == level {
			return h, *s, true
		}
	}
	return engine.NoHandle, Shelf{}, false
}

func buildLabels(room config.Room) []Label {
	top := room.Height - labelInset
	return []Label{
		{Text: North.String(), Position: rl.Vector3{X: room.Width / 2, Y: top, Z: labelInset}},
		{Text: South.String(), Position: rl.Vector3{X: room.Width / 2, Y: top, Z: room.Depth - labelInset}},
		{Text: West.String(), Position: rl.Vector3{X: labelInset, Y: top, Z: room.Depth / 2}, RotationY: 90},
		{Text: East.String(), Position: rl.Vector3{X: room.Width - labelInset, Y: top, Z: room.Depth / 2}, RotationY: -90},
	}
}
