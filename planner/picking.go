package planner

import "math"

const rayEpsilon = 1e-9

// intersectPlaneY returns the ray parameter where it crosses the horizontal plane at height y
func intersectPlaneY(r Ray, y float64) (float64, bool) {
	if math.Abs(r.Direction.Y) < rayEpsilon {
		return 0, false
	}
	t := (y - r.Origin.Y) / r.Direction.Y
	return t, t > 0
}

// wallFace is the rendered quad of one half-edge
type wallFace struct {
	edge   *HalfEdge
	a, b   Point // face line in floorplan space
	normal Point
	height float64
}

func newWallFace(h *HalfEdge) wallFace {
	a, b := h.FaceSegment()
	return wallFace{edge: h, a: a, b: b, normal: h.Normal(), height: h.Wall.Height}
}

// intersect tests the ray against the face, counting only hits on its visible side
func (f wallFace) intersect(r Ray) (float64, bool) {
	n := Vec3{X: f.normal.X, Z: f.normal.Y}
	denom := r.Direction.Dot(n)
	if denom > -rayEpsilon {
		return 0, false
	}
	p0 := Vec3{X: f.a.X, Z: f.a.Y}
	t := p0.Sub(r.Origin).Dot(n) / denom
	if t <= 0 {
		return 0, false
	}
	hit := r.At(t)
	if hit.Y < 0 || hit.Y > f.height {
		return 0, false
	}
	d := f.b.Sub(f.a)
	lenSq := d.X*d.X + d.Y*d.Y
	if lenSq == 0 {
		return 0, false
	}
	s := ((hit.X-f.a.X)*d.X + (hit.Z-f.a.Y)*d.Y) / lenSq
	if s < 0 || s > 1 {
		return 0, false
	}
	return t, true
}

// intersectEntity tests the ray against the entity's rotated box
func intersectEntity(r Ray, e *Entity) (float64, bool) {
	size := e.Dimensions().Centimeters()
	half := Vec3{X: size.Width / 2, Y: size.Height / 2, Z: size.Depth / 2}

	rad := e.Rotation() * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	toLocal := func(v Vec3) Vec3 {
		return Vec3{X: v.X*cos + v.Z*sin, Y: v.Y, Z: -v.X*sin + v.Z*cos}
	}
	o := toLocal(r.Origin.Sub(e.Position()))
	d := toLocal(r.Direction)

	tMin, tMax := math.Inf(-1), math.Inf(1)
	for _, axis := range [3][3]float64{{o.X, d.X, half.X}, {o.Y, d.Y, half.Y}, {o.Z, d.Z, half.Z}} {
		origin, dir, h := axis[0], axis[1], axis[2]
		if math.Abs(dir) < rayEpsilon {
			if origin < -h || origin > h {
				return 0, false
			}
			continue
		}
		t1 := (-h - origin) / dir
		t2 := (h - origin) / dir
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	if tMax <= 0 {
		return 0, false
	}
	if tMin > 0 {
		return tMin, true
	}
	return tMax, true
}
