package placement

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomshelves/internal/config"
	"roomshelves/internal/engine"
	"roomshelves/internal/physics"
	"roomshelves/internal/world"
)

const (
	screenW = 800
	screenH = 600
	centerX = screenW / 2
	centerY = screenH / 2
)

// overheadView looks straight down at a point, so the center pixel rays onto
// it. Eye height stays below the next shelf level.
type overheadView struct {
	vp rl.Matrix
}

func (o *overheadView) aim(target rl.Vector3) {
	eye := target
	eye.Y += 20
	view := rl.MatrixLookAt(eye, target, rl.Vector3{Z: -1})
	proj := rl.MatrixPerspective(45*rl.Deg2rad, float32(screenW)/screenH, 1, 200)
	o.vp = rl.MatrixMultiply(view, proj)
}

func (o *overheadView) ViewProjection() rl.Matrix { return o.vp }

func (o *overheadView) Viewport() (float32, float32) { return screenW, screenH }

type fixture struct {
	cfg  config.Config
	view *overheadView
	eng  *Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := config.Default()
	view := &overheadView{}
	view.aim(rl.Vector3{X: 84, Y: 7, Z: 18})
	return &fixture{cfg: cfg, view: view, eng: New(world.New(cfg), view, cfg.Item)}
}

func (f *fixture) tapAt(p rl.Vector3) Action {
	f.view.aim(p)
	return f.eng.Tap(centerX, centerY)
}

// settle lands every item at its target.
func (f *fixture) settle() {
	f.eng.Items.Each(func(_ engine.Handle, it *Item) {
		if target, ok := it.State.Target(); ok {
			it.Position.Y = target
			it.VelocityY = 0
			it.State = physics.Resting()
		}
	})
}

func (f *fixture) item(t *testing.T, h engine.Handle) *Item {
	t.Helper()
	it, ok := f.eng.Items.Get(h)
	require.True(t, ok)
	return it
}

func targetOf(t *testing.T, it *Item) float32 {
	t.Helper()
	target, ok := it.State.Target()
	require.True(t, ok, "item should be falling")
	return target
}

func TestTapInAddModeStacks(t *testing.T) {
	f := newFixture(t)
	f.eng.SetMode(Add)
	step := f.cfg.Item.Diameter() * gridScale

	first := f.eng.Tap(centerX, centerY)
	require.Equal(t, Placed, first.Kind)
	a := f.item(t, first.Handle)
	assert.InDelta(t, 6.5*step, a.Position.X, 1e-3)
	assert.InDelta(t, 1.5*step, a.Position.Z, 1e-3)
	assert.Equal(t, float32(14), targetOf(t, a))
	assert.Equal(t, float32(14+40), a.Position.Y, "spawns above the slot")

	second := f.eng.Tap(centerX, centerY)
	require.Equal(t, Placed, second.Kind)
	b := f.item(t, second.Handle)
	assert.Equal(t, float32(28), targetOf(t, b))
	assert.Equal(t, a.Position.X, b.Position.X)
	assert.Equal(t, a.Position.Z, b.Position.Z)
}

func TestStackingHeightsFollowPlacementOrder(t *testing.T) {
	f := newFixture(t)
	f.eng.SetMode(Add)

	for i := range 6 {
		act := f.eng.Tap(centerX, centerY)
		require.Equal(t, Placed, act.Kind)
		assert.Equal(t, float32(14+14*i), targetOf(t, f.item(t, act.Handle)))
		if i%2 == 1 {
			f.settle()
		}
	}
}

func TestStackIgnoresItemsOnHigherShelves(t *testing.T) {
	f := newFixture(t)
	f.eng.SetMode(Add)

	upper := f.tapAt(rl.Vector3{X: 84, Y: 39, Z: 18})
	require.Equal(t, Placed, upper.Kind)
	assert.Equal(t, float32(46), targetOf(t, f.item(t, upper.Handle)))
	f.settle()

	lower := f.tapAt(rl.Vector3{X: 84, Y: 7, Z: 18})
	require.Equal(t, Placed, lower.Kind)
	assert.Equal(t, float32(14), targetOf(t, f.item(t, lower.Handle)))
}

func TestStackFillsGap(t *testing.T) {
	f := newFixture(t)
	f.eng.SetMode(Add)

	var handles []engine.Handle
	for range 3 {
		handles = append(handles, f.eng.Tap(centerX, centerY).Handle)
	}
	f.settle()
	require.True(t, f.eng.Remove(handles[1]))

	act := f.eng.Tap(centerX, centerY)
	assert.Equal(t, float32(28), targetOf(t, f.item(t, act.Handle)))
}

func TestSnapIsIdempotent(t *testing.T) {
	f := newFixture(t)
	points := []rl.Vector3{
		{X: 84, Y: 7, Z: 18},
		{X: 3, Y: 7, Z: 100},
		{X: 160, Y: 39, Z: 287},
		{X: 100, Y: 103, Z: 280},
		{X: 0, Y: 71, Z: 0},
	}
	for _, p := range points {
		first, ok := f.eng.SnapToShelfGrid(p, engine.NoHandle)
		require.True(t, ok)
		again, ok := f.eng.SnapToShelfGrid(first.Position, engine.NoHandle)
		require.True(t, ok)
		assert.Equal(t, first.Position.X, again.Position.X, "point %v", p)
		assert.Equal(t, first.Position.Z, again.Position.Z, "point %v", p)
		assert.Equal(t, first.Shelf, again.Shelf, "point %v", p)
	}
}

func TestSnapStaysInsideShelfMargin(t *testing.T) {
	f := newFixture(t)
	margin := f.cfg.Item.Radius() * marginScale

	for x := float32(-20); x <= 190; x += 7 {
		for z := float32(-20); z <= 310; z += 11 {
			slot, ok := f.eng.SnapToShelfGrid(rl.Vector3{X: x, Y: 7, Z: z}, engine.NoHandle)
			require.True(t, ok)
			shelf, ok := f.eng.World.Shelves.Get(slot.Shelf)
			require.True(t, ok)
			box := shelf.Bounds()
			assert.GreaterOrEqual(t, slot.Position.X, box.Min.X+margin-1e-3)
			assert.LessOrEqual(t, slot.Position.X, box.Max.X-margin+1e-3)
			assert.GreaterOrEqual(t, slot.Position.Z, box.Min.Z+margin-1e-3)
			assert.LessOrEqual(t, slot.Position.Z, box.Max.Z-margin+1e-3)
			assert.Equal(t, float32(14), slot.Position.Y)
		}
	}
}

func TestRaycastShelvesKeepsNearest(t *testing.T) {
	f := newFixture(t)
	ray := rl.Ray{Position: rl.Vector3{X: 84, Y: 200, Z: 18}, Direction: rl.Vector3{Y: -1}}

	hit, ok := f.eng.RaycastShelves(ray)
	require.True(t, ok)
	shelf, _ := f.eng.World.Shelves.Get(hit.Shelf)
	assert.Equal(t, 3, shelf.Level)
	assert.Equal(t, world.North, shelf.Wall)
	assert.InDelta(t, 200-shelf.SurfaceY(), hit.Distance, 1e-4)

	_, ok = f.eng.RaycastShelves(rl.Ray{Position: rl.Vector3{X: 84, Y: 200, Z: 144}, Direction: rl.Vector3{Y: -1}})
	assert.False(t, ok, "middle of the room has no shelf")

	_, ok = f.eng.RaycastShelves(rl.Ray{Position: rl.Vector3{X: 84, Y: 1, Z: 18}, Direction: rl.Vector3{Y: -1}})
	assert.False(t, ok, "all shelves are behind the ray")
}

func TestTapMissIsNoop(t *testing.T) {
	f := newFixture(t)
	f.eng.SetMode(Add)

	act := f.tapAt(rl.Vector3{X: 84, Y: 7, Z: 144})
	assert.Equal(t, None, act.Kind)
	assert.Zero(t, f.eng.Items.Len())
}

func TestSingularViewIsNoop(t *testing.T) {
	f := newFixture(t)
	f.eng.SetMode(Add)
	f.view.vp = rl.Matrix{}

	assert.Equal(t, None, f.eng.Tap(centerX, centerY).Kind)
	assert.Zero(t, f.eng.Items.Len())

	_, ok := f.eng.PickAt(centerX, centerY)
	assert.False(t, ok)
}

func TestTapIgnoredInViewAndPan(t *testing.T) {
	f := newFixture(t)
	for _, m := range []Mode{View, Pan} {
		f.eng.SetMode(m)
		assert.Equal(t, None, f.eng.Tap(centerX, centerY).Kind)
		assert.Equal(t, None, f.eng.LongPress(centerX, centerY).Kind)
	}
	assert.Zero(t, f.eng.Items.Len())
}

func TestPickAt(t *testing.T) {
	f := newFixture(t)
	a := f.eng.Spawn(rl.Vector3{X: 80, Y: 14, Z: 18})
	b := f.eng.Spawn(rl.Vector3{X: 120, Y: 14, Z: 18})

	f.view.aim(rl.Vector3{X: 120, Y: 14, Z: 18})
	h, ok := f.eng.PickAt(centerX, centerY)
	require.True(t, ok)
	assert.Equal(t, b, h)
	sel, ok := f.eng.Selected()
	assert.True(t, ok)
	assert.Equal(t, b, sel)

	f.view.aim(rl.Vector3{X: 83, Y: 14, Z: 18})
	h, ok = f.eng.PickAt(centerX, centerY)
	require.True(t, ok)
	assert.Equal(t, a, h, "within one radius")

	f.view.aim(rl.Vector3{X: 100, Y: 14, Z: 18})
	_, ok = f.eng.PickAt(centerX, centerY)
	assert.False(t, ok)
	_, ok = f.eng.Selected()
	assert.False(t, ok, "a miss clears the selection")
}

func TestMoveModePickThenDrop(t *testing.T) {
	f := newFixture(t)
	f.eng.SetMode(Add)
	placed := f.eng.Tap(centerX, centerY)
	f.settle()
	start := f.item(t, placed.Handle).Body

	f.eng.SetMode(Move)
	f.view.aim(start.Position)
	picked := f.eng.Tap(centerX, centerY)
	require.Equal(t, Picked, picked.Kind)
	assert.Equal(t, placed.Handle, picked.Handle)

	moved := f.tapAt(rl.Vector3{X: 84, Y: 7, Z: 270})
	require.Equal(t, Moved, moved.Kind)
	assert.Equal(t, start, moved.Before)

	it := f.item(t, placed.Handle)
	assert.InDelta(t, 270, it.Position.Z, f.cfg.Item.Diameter())
	assert.Equal(t, start.Position.Y, it.Position.Y, "height is left to the animator")
	assert.Equal(t, float32(14), targetOf(t, it))

	_, ok := f.eng.Selected()
	assert.True(t, ok, "selection survives a drop")
}

func TestDropOnOwnCellDoesNotStackOnItself(t *testing.T) {
	f := newFixture(t)
	f.eng.SetMode(Add)
	placed := f.eng.Tap(centerX, centerY)
	f.settle()

	f.eng.SetMode(Move)
	require.True(t, f.eng.Select(placed.Handle))
	moved := f.eng.Tap(centerX, centerY)
	require.Equal(t, Moved, moved.Kind)
	assert.Equal(t, float32(14), targetOf(t, f.item(t, placed.Handle)))
}

func TestDropMissKeepsItem(t *testing.T) {
	f := newFixture(t)
	h := f.eng.Spawn(rl.Vector3{X: 80, Y: 14, Z: 18})
	f.eng.SetMode(Move)
	require.True(t, f.eng.Select(h))

	act := f.tapAt(rl.Vector3{X: 84, Y: 7, Z: 144})
	assert.Equal(t, None, act.Kind)
	it := f.item(t, h)
	assert.Equal(t, rl.Vector3{X: 80, Y: 14, Z: 18}, it.Position)
	assert.False(t, it.State.IsFalling())
}

func TestLongPressRepicks(t *testing.T) {
	f := newFixture(t)
	a := f.eng.Spawn(rl.Vector3{X: 80, Y: 14, Z: 18})
	b := f.eng.Spawn(rl.Vector3{X: 120, Y: 14, Z: 18})
	f.eng.SetMode(Move)
	require.True(t, f.eng.Select(a))

	f.view.aim(rl.Vector3{X: 120, Y: 14, Z: 18})
	act := f.eng.LongPress(centerX, centerY)
	assert.Equal(t, Picked, act.Kind)
	assert.Equal(t, b, act.Handle)

	f.eng.SetMode(Add)
	assert.Equal(t, None, f.eng.LongPress(centerX, centerY).Kind)
}

func TestSetModeClearsSelection(t *testing.T) {
	f := newFixture(t)
	h := f.eng.Spawn(rl.Vector3{X: 80, Y: 14, Z: 18})
	f.eng.SetMode(Move)
	require.True(t, f.eng.Select(h))

	f.eng.SetMode(Move)
	_, ok := f.eng.Selected()
	assert.False(t, ok)
	assert.Equal(t, Move, f.eng.Mode())
}

func TestDragOnlyUpdatesPreview(t *testing.T) {
	f := newFixture(t)
	h := f.eng.Spawn(rl.Vector3{X: 80, Y: 14, Z: 18})
	f.eng.SetMode(Move)

	f.view.aim(rl.Vector3{X: 84, Y: 7, Z: 270})
	f.eng.Drag(centerX, centerY)
	_, ok := f.eng.Preview()
	assert.False(t, ok, "no selection, no preview")

	require.True(t, f.eng.Select(h))
	f.eng.Drag(centerX, centerY)
	slot, ok := f.eng.Preview()
	require.True(t, ok)
	assert.InDelta(t, 270, slot.Position.Z, f.cfg.Item.Diameter())
	assert.Equal(t, rl.Vector3{X: 80, Y: 14, Z: 18}, f.item(t, h).Position)

	f.eng.Tap(centerX, centerY)
	_, ok = f.eng.Preview()
	assert.False(t, ok, "drop consumes the preview")
}

func TestRemoveAndStaleSelection(t *testing.T) {
	f := newFixture(t)
	h := f.eng.Spawn(rl.Vector3{X: 80, Y: 14, Z: 18})
	require.True(t, f.eng.Select(h))

	f.eng.Items.Remove(h)
	_, ok := f.eng.Selected()
	assert.False(t, ok)
	assert.False(t, f.eng.Select(h))
}

func TestResnapAfterSpacingChange(t *testing.T) {
	f := newFixture(t)
	f.eng.SetMode(Add)
	for range 2 {
		f.tapAt(rl.Vector3{X: 84, Y: 7, Z: 18})
		f.tapAt(rl.Vector3{X: 84, Y: 39, Z: 18})
	}
	f.settle()

	assert.Equal(t, float32(40), f.eng.SetSpacing(40))

	var heights []float32
	f.eng.Items.Each(func(_ engine.Handle, it *Item) {
		assert.False(t, it.State.IsFalling())
		heights = append(heights, it.Position.Y)
	})
	assert.ElementsMatch(t, []float32{14, 28, 54, 68}, heights)
}

func TestResnapKeepsSettledLayout(t *testing.T) {
	f := newFixture(t)
	f.eng.SetMode(Add)
	for _, p := range []rl.Vector3{{X: 84, Y: 7, Z: 18}, {X: 84, Y: 7, Z: 18}, {X: 20, Y: 71, Z: 150}} {
		f.tapAt(p)
	}
	f.settle()

	before := map[engine.Handle]rl.Vector3{}
	f.eng.Items.Each(func(h engine.Handle, it *Item) { before[h] = it.Position })
	f.eng.Resnap()
	f.eng.Items.Each(func(h engine.Handle, it *Item) {
		assert.Equal(t, before[h], it.Position)
	})
}

func TestSpacingClampsAndCarriesStacks(t *testing.T) {
	f := newFixture(t)
	f.eng.SetMode(Add)
	f.tapAt(rl.Vector3{X: 84, Y: 103, Z: 18})
	f.tapAt(rl.Vector3{X: 84, Y: 103, Z: 18})
	f.settle()

	assert.Equal(t, float32(20), f.eng.AdjustSpacing(-100))
	var heights []float32
	f.eng.Items.Each(func(_ engine.Handle, it *Item) { heights = append(heights, it.Position.Y) })
	assert.ElementsMatch(t, []float32{3*20 + 14, 3*20 + 28}, heights)
}

func TestResnapLandsFallingItems(t *testing.T) {
	f := newFixture(t)
	f.eng.SetMode(Add)
	act := f.eng.Tap(centerX, centerY)

	f.eng.Resnap()
	it := f.item(t, act.Handle)
	assert.False(t, it.State.IsFalling())
	assert.Equal(t, float32(14), it.Position.Y)
}

func TestReset(t *testing.T) {
	f := newFixture(t)
	h := f.eng.Spawn(rl.Vector3{X: 80, Y: 14, Z: 18})
	require.True(t, f.eng.Select(h))

	f.eng.Reset()
	assert.Zero(t, f.eng.Items.Len())
	_, ok := f.eng.Selected()
	assert.False(t, ok)
}
