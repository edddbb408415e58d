package planner

import (
	"math"

	"github.com/paulmach/orb"
)

// Ray is a half-line in world space
type Ray struct {
	Origin    Vec3 `json:"origin"`
	Direction Vec3 `json:"direction"`
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 { return r.Origin.Add(r.Direction.Scale(t)) }

// Camera is a perspective camera orbiting a target
type Camera struct {
	Position Vec3
	Target   Vec3
	Up       Vec3
	FOV      float64 // vertical field of view, degrees
}

// NewCamera creates a camera looking at the origin from above and in front
func NewCamera() *Camera {
	return &Camera{
		Position: Vec3{X: 0, Y: 1000, Z: 1000},
		Target:   Vec3{},
		Up:       Vec3{Y: 1},
		FOV:      45,
	}
}

// basis returns the camera's forward, right and up unit vectors
func (c *Camera) basis() (Vec3, Vec3, Vec3) {
	forward := c.Target.Sub(c.Position).Normalize()
	right := forward.Cross(c.Up).Normalize()
	if right.Len() == 0 {
		// looking straight along Up
		right = Vec3{X: 1}
	}
	up := right.Cross(forward)
	return forward, right, up
}

// RayFromScreen builds the pick ray through pixel (px, py) of a w×h viewport
func (c *Camera) RayFromScreen(px, py, w, h float64) Ray {
	if w <= 0 || h <= 0 {
		return Ray{Origin: c.Position, Direction: c.Target.Sub(c.Position).Normalize()}
	}
	ndcX := 2*px/w - 1
	ndcY := 1 - 2*py/h
	tanHalf := math.Tan(c.FOV * math.Pi / 360)
	aspect := w / h

	forward, right, up := c.basis()
	dir := forward.
		Add(right.Scale(ndcX * tanHalf * aspect)).
		Add(up.Scale(ndcY * tanHalf))
	return Ray{Origin: c.Position, Direction: dir.Normalize()}
}

// Orbit rotates the camera around its target by azimuth and elevation deltas in degrees
func (c *Camera) Orbit(dAzimuth, dElevation float64) {
	offset := c.Position.Sub(c.Target)
	r := offset.Len()
	if r == 0 {
		return
	}
	az := math.Atan2(offset.X, offset.Z) + dAzimuth*math.Pi/180
	el := math.Asin(clamp(offset.Y/r, -1, 1)) + dElevation*math.Pi/180
	// keep away from the poles so the up vector stays valid
	el = clamp(el, -math.Pi/2+0.01, math.Pi/2-0.01)
	c.Position = c.Target.Add(Vec3{
		X: r * math.Cos(el) * math.Sin(az),
		Y: r * math.Sin(el),
		Z: r * math.Cos(el) * math.Cos(az),
	})
}

// Dolly moves the camera toward (factor < 1) or away from (factor > 1) its target
func (c *Camera) Dolly(factor float64) {
	if factor <= 0 {
		return
	}
	c.Position = c.Target.Add(c.Position.Sub(c.Target).Scale(factor))
}

// Frame points the camera at the center of a floorplan bound from a distance that fits it
func (c *Camera) Frame(b orb.Bound) {
	center := b.Center()
	size := math.Max(b.Right()-b.Left(), b.Top()-b.Bottom())
	if size <= 0 {
		size = 1000
	}
	dist := size / (2 * math.Tan(c.FOV*math.Pi/360)) * 1.5
	c.Target = Vec3{X: center[0], Z: center[1]}
	c.Position = c.Target.Add(Vec3{Y: dist * 0.7, Z: dist * 0.7})
}
