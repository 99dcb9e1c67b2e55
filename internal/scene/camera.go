package scene

import "math"

// Camera projects the scene. It looks down +Z of its entity's Transform.
type Camera struct {
	FOV  float64 // vertical, radians
	Near float64
	Far  float64
}

func NewCamera(fov, near, far float64) Camera {
	return Camera{FOV: fov, Near: near, Far: far}
}

// Viewport is the drawable surface in backend units (cells or pixels).
// Aspect corrects for non-square units such as terminal cells.
type Viewport struct {
	Width  int
	Height int
	Aspect float64
}

// Projection is a point mapped onto the viewport.
type Projection struct {
	X, Y  float64
	Depth float64
	// Scale is the on-screen size of one world unit at this depth.
	Scale float64
}

// Project maps p, seen from a camera placed at view, onto vp. It reports
// false for points outside the near/far range.
func (c Camera) Project(view Transform, p Vec3, vp Viewport) (Projection, bool) {
	v := view.toView(p)
	if v.Z < c.Near || v.Z > c.Far || vp.Height <= 0 {
		return Projection{}, false
	}
	aspect := vp.Aspect
	if aspect == 0 {
		aspect = 1
	}
	focal := float64(vp.Height) / 2 / math.Tan(c.FOV/2)
	scale := focal / v.Z
	return Projection{
		X:     float64(vp.Width)/2 + v.X*scale*aspect,
		Y:     float64(vp.Height)/2 - v.Y*scale,
		Depth: v.Z,
		Scale: scale,
	}, true
}
