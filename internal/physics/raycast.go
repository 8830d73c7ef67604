package physics

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

const epsilon = 1e-6

// ScreenToRay unprojects a pixel through the inverse of viewProj. The ray
// starts on the near plane and its direction is normalized. It reports false
// when the matrix is singular, the viewport is empty, or the unprojected
// points are degenerate.
func ScreenToRay(viewProj rl.Matrix, sx, sy, width, height float32) (rl.Ray, bool) {
	if !(width > 0) || !(height > 0) {
		return rl.Ray{}, false
	}
	nx := 2*sx/width - 1
	ny := 1 - 2*sy/height

	m := toMat4(viewProj)
	det := m.Det()
	if det == 0 || math32.IsNaN(det) || math32.IsInf(det, 0) {
		return rl.Ray{}, false
	}
	inv := m.Inv()

	near, ok := unproject(inv, mgl32.Vec4{nx, ny, -1, 1})
	if !ok {
		return rl.Ray{}, false
	}
	far, ok := unproject(inv, mgl32.Vec4{nx, ny, 1, 1})
	if !ok {
		return rl.Ray{}, false
	}

	dir := rl.Vector3Subtract(far, near)
	length := rl.Vector3Length(dir)
	if !(length > epsilon) || !finiteVec(dir) {
		return rl.Ray{}, false
	}
	return rl.Ray{Position: near, Direction: rl.Vector3Scale(dir, 1/length)}, true
}

func unproject(inv mgl32.Mat4, ndc mgl32.Vec4) (rl.Vector3, bool) {
	p := inv.Mul4x1(ndc)
	w := p.W()
	if math32.Abs(w) < epsilon {
		return rl.Vector3{}, false
	}
	v := rl.Vector3{X: p.X() / w, Y: p.Y() / w, Z: p.Z() / w}
	return v, finiteVec(v)
}

// toMat4 copies a raylib matrix into mathgl's layout. Both are column-major:
// M0..M3 is the first column.
func toMat4(m rl.Matrix) mgl32.Mat4 {
	return mgl32.Mat4{
		m.M0, m.M1, m.M2, m.M3,
		m.M4, m.M5, m.M6, m.M7,
		m.M8, m.M9, m.M10, m.M11,
		m.M12, m.M13, m.M14, m.M15,
	}
}

// RayPlaneY intersects ray with the horizontal plane at height y. Hits behind
// the origin (t <= 0) and rays parallel to the plane are rejected.
func RayPlaneY(ray rl.Ray, y float32) (t float32, point rl.Vector3, ok bool) {
	if math32.Abs(ray.Direction.Y) < epsilon {
		return 0, rl.Vector3{}, false
	}
	t = (y - ray.Position.Y) / ray.Direction.Y
	if !(t > 0) {
		return 0, rl.Vector3{}, false
	}
	point = rl.Vector3{
		X: ray.Position.X + ray.Direction.X*t,
		Y: y,
		Z: ray.Position.Z + ray.Direction.Z*t,
	}
	return t, point, true
}

// DistanceRayPoint is the distance from p to the closest point of the ray's
// forward half. The ray direction must be normalized.
func DistanceRayPoint(ray rl.Ray, p rl.Vector3) float32 {
	v := rl.Vector3Subtract(p, ray.Position)
	t := max(0, rl.Vector3DotProduct(v, ray.Direction))
	closest := rl.Vector3Add(ray.Position, rl.Vector3Scale(ray.Direction, t))
	return rl.Vector3Distance(p, closest)
}

func finiteVec(v rl.Vector3) bool {
	for _, c := range [3]float32{v.X, v.Y, v.Z} {
		if math32.IsNaN(c) || math32.IsInf(c, 0) {
			return false
		}
	}
	return true
}
