package world

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"roomshelves/internal/config"
	"roomshelves/internal/physics"
)

type Wall int

const (
	North Wall = iota // z = 0
	South             // z = depth
	West              // x = 0
	East              // x = width
)

func (w Wall) String() string {
	switch w {
	case North:
		return "North"
	case South:
		return "South"
	case West:
		return "West"
	case East:
		return "East"
	}
	return "Wall(?)"
}

// Shelf is one board of a shelf ring.
type Shelf struct {
	Center rl.Vector3
	Size   rl.Vector3
	Wall   Wall
	Level  int
}

// SurfaceY is the height of the plane items are placed on.
func (s Shelf) SurfaceY() float32 {
	return s.Center.Y
}

func (s Shelf) Bounds() physics.AABB {
	return physics.NewAABBFromCenter(s.Center, s.Size)
}

// BuildShelves lays out levels rings of four boards, one per wall, each flush
// against its wall and running the full wall length. The result depends only
// on its arguments.
func BuildShelves(room config.Room, shelves config.Shelves, itemHeight, spacing float32) []Shelf {
	out := make([]Shelf, 0, 4*shelves.Levels)
	depth := shelves.Depth
	thick := shelves.Thickness

	for level := range shelves.Levels {
		y := float32(level)*spacing + itemHeight/2

		out = append(out,
			Shelf{
				Center: rl.Vector3{X: room.Width / 2, Y: y, Z: depth / 2},
				Size:   rl.Vector3{X: room.Width, Y: thick, Z: depth},
				Wall:   North,
				Level:  level,
			},
			Shelf{
				Center: rl.Vector3{X: room.Width / 2, Y: y, Z: room.Depth - depth/2},
				Size:   rl.Vector3{X: room.Width, Y: thick, Z: depth},
				Wall:   South,
				Level:  level,
			},
			Shelf{
				Center: rl.Vector3{X: depth / 2, Y: y, Z: room.Depth / 2},
				Size:   rl.Vector3{X: depth, Y: thick, Z: room.Depth},
				Wall:   West,
				Level:  level,
			},
			Shelf{
				Center: rl.Vector3{X: room.Width - depth/2, Y: y, Z: room.Depth / 2},
				Size:   rl.Vector3{X: depth, Y: thick, Z: room.Depth},
				Wall:   East,
				Level:  level,
			},
		)
	}
	return out
}
