package world

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Frustum represents the 6 planes of a view frustum for culling
type Frustum struct {
	planes [6]Plane // left, right, bottom, top, near, far
}

// Plane represents a plane in 3D space (ax + by + cz + d = 0)
type Plane struct {
	normal   rl.Vector3
	distance float32
}

// ExtractFrustum extracts frustum planes from a combined view-projection
// matrix (projection x view, as returned by the camera).
// Uses the Gribb/Hartmann method: each plane is row4 plus or minus another row.
func ExtractFrustum(vp rl.Matrix) Frustum {
	rows := [4][4]float32{
		{vp.M0, vp.M4, vp.M8, vp.M12},
		{vp.M1, vp.M5, vp.M9, vp.M13},
		{vp.M2, vp.M6, vp.M10, vp.M14},
		{vp.M3, vp.M7, vp.M11, vp.M15},
	}
	w := rows[3]

	var f Frustum
	for i := range 3 {
		r := rows[i]
		f.planes[2*i] = normalizePlane(Plane{
			normal:   rl.Vector3{X: w[0] + r[0], Y: w[1] + r[1], Z: w[2] + r[2]},
			distance: w[3] + r[3],
		})
		f.planes[2*i+1] = normalizePlane(Plane{
			normal:   rl.Vector3{X: w[0] - r[0], Y: w[1] - r[1], Z: w[2] - r[2]},
			distance: w[3] - r[3],
		})
	}
	return f
}

// normalizePlane normalizes a plane equation
func normalizePlane(p Plane) Plane {
	length := rl.Vector3Length(p.normal)
	if length == 0 {
		return p
	}
	return Plane{
		normal:   rl.Vector3Scale(p.normal, 1.0/length),
		distance: p.distance / length,
	}
}

// ContainsSphere tests if a sphere is inside or intersects the frustum
func (f *Frustum) ContainsSphere(center rl.Vector3, radius float32) bool {
	for i := range f.planes {
		dist := rl.Vector3DotProduct(f.planes[i].normal, center) + f.planes[i].distance
		if dist < -radius {
			return false
		}
	}
	return true
}

// ContainsPoint tests if a point is inside the frustum
func (f *Frustum) ContainsPoint(point rl.Vector3) bool {
	return f.ContainsSphere(point, 0)
}
