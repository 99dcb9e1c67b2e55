// Package scene holds the renderable components shared by every backend and
// the systems that animate and project them.
package scene

import "math"

type Vec3 struct {
	X, Y, Z float64
}

var (
	Zero = Vec3{}
	One  = Vec3{1, 1, 1}
)

func V(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Mul(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Transform places an entity in the scene. Rotation is Euler XYZ in radians.
type Transform struct {
	Position Vec3
	Rotation Vec3
	Scale    Vec3
}

// NewTransform is the identity transform.
func NewTransform() Transform {
	return Transform{Scale: One}
}

func (t Transform) Pos(p Vec3) Transform {
	t.Position = p
	return t
}

func (t Transform) RotEuler(r Vec3) Transform {
	t.Rotation = r
	return t
}

func (t Transform) WithScale(s Vec3) Transform {
	t.Scale = s
	return t
}

// toView expresses p in the frame of t: translated to t's origin, then
// rotated by the inverse of t's yaw (Y) and pitch (X). Roll is ignored.
func (t Transform) toView(p Vec3) Vec3 {
	d := p.Sub(t.Position)

	sy, cy := math.Sincos(-t.Rotation.Y)
	x := d.X*cy + d.Z*sy
	z := -d.X*sy + d.Z*cy

	sp, cp := math.Sincos(-t.Rotation.X)
	y := d.Y*cp - z*sp
	z = d.Y*sp + z*cp

	return Vec3{x, y, z}
}
