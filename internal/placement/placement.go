package placement

import (
	"slices"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"

	"roomshelves/internal/config"
	"roomshelves/internal/engine"
	"roomshelves/internal/physics"
	"roomshelves/internal/world"
)

// gridScale widens the snap cell past one diameter so neighbours never touch.
const (
	gridScale   = 1.1
	marginScale = 1.05
)

// Viewer supplies the camera state rays are cast from.
type Viewer interface {
	ViewProjection() rl.Matrix
	Viewport() (width, height float32)
}

// Engine owns the placed items and turns screen gestures into placements,
// picks and moves on the world's shelves.
type Engine struct {
	World *world.World
	Items *engine.Table[Item]

	viewer   Viewer
	item     config.Item
	mode     Mode
	selected engine.Ref[Item]

	preview    Slot
	hasPreview bool
}

func New(w *world.World, viewer Viewer, item config.Item) *Engine {
	return &Engine{
		World:  w,
		Items:  engine.NewTable[Item](),
		viewer: viewer,
		item:   item,
	}
}

func (e *Engine) Mode() Mode {
	return e.mode
}

// SetMode switches modes and always drops the selection.
func (e *Engine) SetMode(m Mode) {
	e.mode = m
	e.ClearSelection()
}

// Selected resolves the current selection. A selection whose item was removed
// is cleared.
func (e *Engine) Selected() (engine.Handle, bool) {
	if _, ok := e.selected.Get(e.Items); !ok {
		e.selected.Clear()
		return engine.NoHandle, false
	}
	return e.selected.Handle(), true
}

func (e *Engine) Select(h engine.Handle) bool {
	if !e.Items.Has(h) {
		return false
	}
	e.selected.Set(h)
	return true
}

func (e *Engine) ClearSelection() {
	e.selected.Clear()
	e.hasPreview = false
}

// Preview returns the slot the selected item would drop into, as last
// computed by Drag.
func (e *Engine) Preview() (Slot, bool) {
	return e.preview, e.hasPreview
}

// ScreenToRay casts a ray from pixel (sx, sy) through the current view.
func (e *Engine) ScreenToRay(sx, sy float32) (rl.Ray, bool) {
	w, h := e.viewer.Viewport()
	return physics.ScreenToRay(e.viewer.ViewProjection(), sx, sy, w, h)
}

// RaycastShelves intersects ray with every shelf's top plane and returns the
// closest hit that lands inside that shelf's footprint.
func (e *Engine) RaycastShelves(ray rl.Ray) (ShelfHit, bool) {
	var (
		best  ShelfHit
		found bool
	)
	e.World.Shelves.Each(func(h engine.Handle, s *world.Shelf) {
		t, p, ok := physics.RayPlaneY(ray, s.SurfaceY())
		if !ok || !s.Bounds().ContainsXZ(p) {
			return
		}
		if !found || t < best.Distance {
			best = ShelfHit{Shelf: h, Point: p, Distance: t}
			found = true
		}
	})
	return best, found
}

// SnapToShelfGrid quantizes p onto the grid of the nearest shelf and computes
// the stack height there. exclude is left out of the stack count, so an item
// being moved does not land on top of itself; pass engine.NoHandle otherwise.
func (e *Engine) SnapToShelfGrid(p rl.Vector3, exclude engine.Handle) (Slot, bool) {
	return e.snap(p, func(h engine.Handle) bool { return h != exclude })
}

func (e *Engine) snap(p rl.Vector3, counts func(engine.Handle) bool) (Slot, bool) {
	sh, shelf, ok := e.World.NearestShelf(p)
	if !ok {
		return Slot{}, false
	}
	return e.snapOn(sh, shelf, p, counts), true
}

func (e *Engine) snapOn(sh engine.Handle, shelf world.Shelf, p rl.Vector3, counts func(engine.Handle) bool) Slot {
	r := e.item.Radius()
	step := e.item.Diameter() * gridScale
	margin := r * marginScale
	box := shelf.Bounds()

	x := box.Min.X + snapAxis(p.X-box.Min.X, step, margin, box.Max.X-box.Min.X)
	z := box.Min.Z + snapAxis(p.Z-box.Min.Z, step, margin, box.Max.Z-box.Min.Z)

	base := shelf.SurfaceY() + e.item.Height/2
	stack := e.stackCount(x, z, base, step/4, counts)

	return Slot{
		Position: rl.Vector3{X: x, Y: base + float32(stack)*e.item.Height, Z: z},
		Shelf:    sh,
		Stack:    stack,
	}
}

// snapAxis moves local coordinate l to its cell center and keeps it margin
// away from both edges of a surface of the given extent.
func snapAxis(l, step, margin, extent float32) float32 {
	if extent < 2*margin {
		return extent / 2
	}
	g := (math32.Floor(l/step) + 0.5) * step
	return rl.Clamp(g, margin, extent-margin)
}

// stackCount counts the items forming a contiguous column above base in the
// cell at (x, z). Falling items count at their destination, so taps in quick
// succession still stack.
func (e *Engine) stackCount(x, z, base, tol float32, counts func(engine.Handle) bool) int {
	var heights []float32
	e.Items.Each(func(h engine.Handle, it *Item) {
		if !counts(h) {
			return
		}
		y := it.restingY()
		if abs(it.Position.X-x) < tol && abs(it.Position.Z-z) < tol && y >= base-1 {
			heights = append(heights, y)
		}
	})
	slices.Sort(heights)

	n := 0
	for _, y := range heights {
		if y >= base+float32(n)*e.item.Height+e.item.Height/2 {
			break
		}
		n++
	}
	return n
}

// PickAt selects the item whose center passes closest to the ray through
// (sx, sy), within one radius. A miss clears the selection.
func (e *Engine) PickAt(sx, sy float32) (engine.Handle, bool) {
	e.ClearSelection()
	ray, ok := e.ScreenToRay(sx, sy)
	if !ok {
		return engine.NoHandle, false
	}

	r := e.item.Radius()
	best := engine.NoHandle
	var bestDist float32
	e.Items.Each(func(h engine.Handle, it *Item) {
		d := physics.DistanceRayPoint(ray, it.Position)
		if d < r && (best == engine.NoHandle || d < bestDist) {
			best, bestDist = h, d
		}
	})
	if best == engine.NoHandle {
		return engine.NoHandle, false
	}
	e.selected.Set(best)
	return best, true
}

// slotAt runs the full screen to slot pipeline.
func (e *Engine) slotAt(sx, sy float32, exclude engine.Handle) (Slot, bool) {
	ray, ok := e.ScreenToRay(sx, sy)
	if !ok {
		return Slot{}, false
	}
	hit, ok := e.RaycastShelves(ray)
	if !ok {
		return Slot{}, false
	}
	return e.SnapToShelfGrid(hit.Point, exclude)
}

// Place creates an item in the slot under (sx, sy). It spawns above the slot
// and falls into it.
func (e *Engine) Place(sx, sy float32) (engine.Handle, Slot, bool) {
	slot, ok := e.slotAt(sx, sy, engine.NoHandle)
	if !ok {
		return engine.NoHandle, Slot{}, false
	}
	spawn := slot.Position
	spawn.Y += e.item.SpawnHeight
	h := e.Items.Insert(Item{Body: physics.Body{
		Position: spawn,
		State:    physics.Falling(slot.Position.Y),
	}})
	return h, slot, true
}

// DropSelectedAt sends the selected item to the slot under (sx, sy). X and Z
// jump immediately; Y is left for the animator. It returns the body as it was
// before the drop. A miss leaves the item untouched.
func (e *Engine) DropSelectedAt(sx, sy float32) (engine.Handle, physics.Body, bool) {
	h, ok := e.Selected()
	if !ok {
		return engine.NoHandle, physics.Body{}, false
	}
	slot, ok := e.slotAt(sx, sy, h)
	if !ok {
		return engine.NoHandle, physics.Body{}, false
	}

	it, _ := e.Items.Get(h)
	before := it.Body
	it.Position.X = slot.Position.X
	it.Position.Z = slot.Position.Z
	it.VelocityY = 0
	it.State = physics.Falling(slot.Position.Y)
	e.hasPreview = false
	return h, before, true
}

// Tap applies a tap in the current mode.
func (e *Engine) Tap(sx, sy float32) Action {
	switch e.mode {
	case Add:
		if h, _, ok := e.Place(sx, sy); ok {
			return Action{Kind: Placed, Handle: h}
		}
	case Move:
		if _, ok := e.Selected(); ok {
			if h, before, ok := e.DropSelectedAt(sx, sy); ok {
				return Action{Kind: Moved, Handle: h, Before: before}
			}
			return Action{}
		}
		if h, ok := e.PickAt(sx, sy); ok {
			return Action{Kind: Picked, Handle: h}
		}
	}
	return Action{}
}

// LongPress re-picks in Move mode, replacing any current selection.
func (e *Engine) LongPress(sx, sy float32) Action {
	if e.mode != Move {
		return Action{}
	}
	if h, ok := e.PickAt(sx, sy); ok {
		return Action{Kind: Picked, Handle: h}
	}
	return Action{}
}

// Drag tracks the pointer while an item is selected in Move mode. The item
// itself does not move until the drop tap; only the preview follows.
func (e *Engine) Drag(sx, sy float32) {
	h, ok := e.Selected()
	if e.mode != Move || !ok {
		return
	}
	if slot, ok := e.slotAt(sx, sy, h); ok {
		e.preview, e.hasPreview = slot, true
	}
}

// Spawn inserts a resting item at p.
func (e *Engine) Spawn(p rl.Vector3) engine.Handle {
	return e.Items.Insert(Item{Body: physics.Body{Position: p}})
}

// Remove deletes an item; the selection drops with it.
func (e *Engine) Remove(h engine.Handle) bool {
	if e.selected.Handle() == h {
		e.ClearSelection()
	}
	return e.Items.Remove(h)
}

// Reset removes every item.
func (e *Engine) Reset() {
	e.Items.Clear()
	e.ClearSelection()
}

// SetSpacing rebuilds the shelves at spacing v and carries every item along
// with the shelf it stands on. Returns the spacing applied.
func (e *Engine) SetSpacing(v float32) float32 {
	support := e.supports()
	applied := e.World.SetSpacing(v)
	e.resnap(support)
	return applied
}

func (e *Engine) AdjustSpacing(delta float32) float32 {
	return e.SetSpacing(e.World.Spacing() + delta)
}

// Resnap puts every item back on the grid of the shelf it stands on. Items
// are processed from the lowest up and only count those already handled, so
// existing stacks keep their order. Items land directly, without animation.
func (e *Engine) Resnap() {
	e.resnap(e.supports())
}

type shelfKey struct {
	wall  world.Wall
	level int
}

// supports records which shelf each item stands on, keyed by wall and level
// so the answer survives a rebuild.
func (e *Engine) supports() map[engine.Handle]shelfKey {
	out := make(map[engine.Handle]shelfKey, e.Items.Len())
	e.Items.Each(func(h engine.Handle, it *Item) {
		if s, ok := e.supportOf(it.Position.X, it.restingY(), it.Position.Z); ok {
			out[h] = shelfKey{wall: s.Wall, level: s.Level}
		}
	})
	return out
}

// supportOf finds the highest shelf under (x, z) whose slot base is not above
// y. Shelves are compared on horizontal distance first, so an item off every
// footprint still goes to the closest one.
func (e *Engine) supportOf(x, y, z float32) (world.Shelf, bool) {
	var (
		best     world.Shelf
		bestDist float32
		found    bool
	)
	e.World.Shelves.Each(func(_ engine.Handle, s *world.Shelf) {
		if s.SurfaceY()+e.item.Height/2 > y+1 {
			return
		}
		d := s.Bounds().DistanceToRect(rl.Vector3{X: x, Y: s.SurfaceY(), Z: z}, s.SurfaceY())
		switch {
		case !found, d < bestDist-1e-3:
		case abs(d-bestDist) <= 1e-3 && s.Level > best.Level:
		default:
			return
		}
		best, bestDist, found = *s, d, true
	})
	return best, found
}

func (e *Engine) resnap(support map[engine.Handle]shelfKey) {
	handles := e.Items.Handles()
	slices.SortStableFunc(handles, func(a, b engine.Handle) int {
		ia, _ := e.Items.Get(a)
		ib, _ := e.Items.Get(b)
		ya, yb := ia.restingY(), ib.restingY()
		switch {
		case ya < yb:
			return -1
		case ya > yb:
			return 1
		}
		return 0
	})

	done := make(map[engine.Handle]bool, len(handles))
	counts := func(h engine.Handle) bool { return done[h] }
	for _, h := range handles {
		it, _ := e.Items.Get(h)
		probe := it.Position
		probe.Y = it.restingY()

		var (
			slot Slot
			ok   bool
		)
		if key, known := support[h]; known {
			if sh, shelf, found := e.World.ShelfAt(key.wall, key.level); found {
				slot, ok = e.snapOn(sh, shelf, probe, counts), true
			}
		}
		if !ok {
			slot, ok = e.snap(probe, counts)
		}
		if ok {
			it.Position = slot.Position
		}
		it.VelocityY = 0
		it.State = physics.Resting()
		done[h] = true
	}
	e.hasPreview = false
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
