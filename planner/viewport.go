package planner

import (
	"math"

	"github.com/paulmach/orb"
)

const (
	minZoom = 0.1
	maxZoom = 10.0
)

// Viewport maps floorplan space to canvas pixels through pan and zoom:
// pixel = floorplan*scale + offset.
type Viewport struct {
	scale  float64
	offset Point
}

// NewViewport creates a viewport with the given pixels-per-centimeter scale
// and the floorplan origin at pixel (originX, originY).
func NewViewport(pixelsPerCm, originX, originY float64) *Viewport {
	if pixelsPerCm <= 0 {
		pixelsPerCm = 1
	}
	return &Viewport{scale: pixelsPerCm, offset: Point{X: originX, Y: originY}}
}

// ToScreen converts a floorplan point to pixel space
func (v *Viewport) ToScreen(p Point) Point { return p.Scale(v.scale).Add(v.offset) }

// ToFloorplan converts a pixel position to floorplan space
func (v *Viewport) ToFloorplan(px, py float64) Point {
	return Point{X: px, Y: py}.Sub(v.offset).Scale(1 / v.scale)
}

// PixelsPerUnit is the current zoom expressed as pixels per floorplan centimeter
func (v *Viewport) PixelsPerUnit() float64 { return v.scale }

// PixelsToUnits converts a pixel distance to a floorplan distance at the current zoom
func (v *Viewport) PixelsToUnits(px float64) float64 { return px / v.scale }

// Pan shifts the view by a pixel delta
func (v *Viewport) Pan(dx, dy float64) {
	v.offset = v.offset.Add(Point{X: dx, Y: dy})
}

// Zoom scales the view by factor around the pixel (px, py), keeping the
// floorplan point under that pixel fixed. The resulting zoom is clamped.
func (v *Viewport) Zoom(factor, px, py float64) {
	if factor <= 0 {
		return
	}
	pivot := v.ToFloorplan(px, py)
	v.scale = clampZoom(v.scale * factor)
	v.offset = Point{X: px, Y: py}.Sub(pivot.Scale(v.scale))
}

// Fit scales and centers the view so the bound fills a width×height pixel
// canvas with a small margin. An empty bound leaves the view unchanged.
func (v *Viewport) Fit(b orb.Bound, width, height float64) {
	bw, bh := b.Right()-b.Left(), b.Top()-b.Bottom()
	if bw <= 0 && bh <= 0 || width <= 0 || height <= 0 {
		return
	}
	const margin = 0.9
	scale := math.Inf(1)
	if bw > 0 {
		scale = width * margin / bw
	}
	if bh > 0 {
		scale = math.Min(scale, height*margin/bh)
	}
	v.scale = clampZoom(scale)
	c := b.Center()
	v.offset = Point{X: width/2 - c[0]*v.scale, Y: height/2 - c[1]*v.scale}
}

func clampZoom(s float64) float64 { return math.Max(minZoom, math.Min(maxZoom, s)) }
