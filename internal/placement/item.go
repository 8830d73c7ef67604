package placement

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"roomshelves/internal/engine"
	"roomshelves/internal/physics"
)

// Item is a placed can. Radius and height are shared by every item and live
// in the engine's item config.
type Item struct {
	physics.Body
}

// restingY is the height the item occupies for stacking purposes: its
// destination while falling, its position otherwise.
func (it *Item) restingY() float32 {
	if target, ok := it.State.Target(); ok {
		return target
	}
	return it.Position.Y
}

// Slot is a snapped position on a shelf. Position.Y is the target center
// height; Stack is how many items sit below it in the same cell.
type Slot struct {
	Position rl.Vector3
	Shelf    engine.Handle
	Stack    int
}

// ShelfHit is the nearest shelf top surface under a ray.
type ShelfHit struct {
	Shelf    engine.Handle
	Point    rl.Vector3
	Distance float32
}
