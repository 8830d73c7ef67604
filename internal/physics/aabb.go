package physics

import rl "github.com/gen2brain/raylib-go/raylib"

type AABB struct {
	Min rl.Vector3
	Max rl.Vector3
}

// NewAABBFromCenter creates an AABB from a center point and full size dimensions.
func NewAABBFromCenter(center, size rl.Vector3) AABB {
	half := rl.Vector3{X: size.X / 2, Y: size.Y / 2, Z: size.Z / 2}
	return AABB{
		Min: rl.Vector3Subtract(center, half),
		Max: rl.Vector3Add(center, half),
	}
}

func (a AABB) Center() rl.Vector3 {
	return rl.Vector3Scale(rl.Vector3Add(a.Min, a.Max), 0.5)
}

func (a AABB) Size() rl.Vector3 {
	return rl.Vector3Subtract(a.Max, a.Min)
}

// ContainsXZ reports whether p lies over the box's horizontal footprint,
// edges included. Y is ignored.
func (a AABB) ContainsXZ(p rl.Vector3) bool {
	return p.X >= a.Min.X && p.X <= a.Max.X &&
		p.Z >= a.Min.Z && p.Z <= a.Max.Z
}

// DistanceToRect is the 3D distance from p to the nearest point of the box's
// horizontal footprint placed at height y.
func (a AABB) DistanceToRect(p rl.Vector3, y float32) float32 {
	nearest := rl.Vector3{
		X: rl.Clamp(p.X, a.Min.X, a.Max.X),
		Y: y,
		Z: rl.Clamp(p.Z, a.Min.Z, a.Max.Z),
	}
	return rl.Vector3Distance(p, nearest)
}
