package planner

import "math"

// defaultWallMountHeight is the center height for wall-mounted items placed without an elevation (cm)
const defaultWallMountHeight = 120.0

// PlaceEntity applies the anchoring rules of the entity's type against the floorplan:
// floor types rest on the floor, wall types snap onto the nearest wall and take
// its direction, basic entities are left where they are.
func PlaceEntity(fp *Floorplan, e *Entity) {
	size := e.dimensions.Centimeters()

	if e.Type.WallAnchored() {
		w := e.wall
		if w == nil || !containsWall(fp, w) {
			w = fp.NearestWall(e.position.Floor(), math.Inf(1))
		}
		e.wall = w
		if w != nil {
			anchorToWall(e, w, size)
		}
	}

	switch {
	case e.Type.FloorAnchored():
		e.position.Y = size.Height / 2
	case e.Type.WallAnchored():
		top := DefaultWallHeight
		if e.wall != nil {
			top = e.wall.Height
		}
		y := e.position.Y
		if y == 0 {
			y = defaultWallMountHeight
		}
		e.position.Y = clamp(y, size.Height/2, math.Max(size.Height/2, top-size.Height/2))
	}
}

func anchorToWall(e *Entity, w *Wall, size Dimensions) {
	a, b := w.StartPoint(), w.EndPoint()
	length := w.Length()
	if length == 0 {
		return
	}

	t, p := ProjectOntoSegment(e.position.Floor(), a, b)
	// keep the whole item on the wall when it fits
	if size.Width < length {
		margin := size.Width / 2 / length
		t = clamp(t, margin, 1-margin)
		p = a.Add(b.Sub(a).Scale(t))
	}

	normal := leftNormal(a, b)
	if !e.Type.InWall() {
		side := 1.0
		if e.position.Floor().Sub(p).X*normal.X+e.position.Floor().Sub(p).Y*normal.Y < 0 {
			side = -1
		}
		p = p.Add(normal.Scale(side * (w.Thickness/2 + size.Depth/2)))
	}

	e.position.X, e.position.Z = p.X, p.Y
	e.rotation = normalizeDegrees(angleOf(b.Sub(a)) * 180 / math.Pi)
}

func containsWall(fp *Floorplan, w *Wall) bool {
	_, ok := fp.WallByID(w.ID)
	return ok
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
