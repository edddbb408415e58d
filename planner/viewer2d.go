package planner

import "log"

const (
	// DefaultHitTolerance gates wall hits in floorplan units. It is
	// deliberately generous; tune it per UI.
	DefaultHitTolerance = 500.0
	// DefaultSnapTolerance gates corner grabs and snaps, in pixels
	DefaultSnapTolerance = 10.0
	// DefaultAxisSnap aligns drawn walls to the previous point's axes, in pixels
	DefaultAxisSnap = 5.0
)

// Viewer2DOptions tunes the 2D controller
type Viewer2DOptions struct {
	HitTolerance  float64 // floorplan units
	SnapTolerance float64 // pixels
	AxisSnap      float64 // pixels, 0 disables
	PixelsPerCm   float64
	OriginX       float64
	OriginY       float64
}

// DefaultViewer2DOptions returns the stock tolerances with a 1px/cm view
func DefaultViewer2DOptions() Viewer2DOptions {
	return Viewer2DOptions{
		HitTolerance:  DefaultHitTolerance,
		SnapTolerance: DefaultSnapTolerance,
		AxisSnap:      DefaultAxisSnap,
		PixelsPerCm:   1,
	}
}

// WallHit is a wall found under the pointer, with the pointer in floorplan space
type WallHit struct {
	Wall  *Wall
	Point Point
}

// Viewer2D interprets pointer input on the 2D canvas according to the active
// Mode and turns it into floorplan mutations.
type Viewer2D struct {
	fp   *Floorplan
	view *Viewport
	opts Viewer2DOptions
	mode Mode

	dragCorner *Corner
	dragWall   *Wall
	lastDrag   Point

	drawing   bool
	drawStart Point
	cursor    Point

	revision int

	ModeChanged       Event[Mode]
	WallDoubleClicked Event[WallHit]
	Redrawn           Event[int]
}

// NewViewer2D creates a controller over fp, starting in Move mode
func NewViewer2D(fp *Floorplan, opts Viewer2DOptions) *Viewer2D {
	if opts.HitTolerance <= 0 {
		opts.HitTolerance = DefaultHitTolerance
	}
	if opts.SnapTolerance <= 0 {
		opts.SnapTolerance = DefaultSnapTolerance
	}
	return &Viewer2D{
		fp:   fp,
		view: NewViewport(opts.PixelsPerCm, opts.OriginX, opts.OriginY),
		opts: opts,
		mode: ModeMove,
	}
}

// Mode returns the active interaction mode
func (v *Viewer2D) Mode() Mode { return v.mode }

// Viewport exposes the pan/zoom transform
func (v *Viewer2D) Viewport() *Viewport { return v.view }

// Floorplan returns the model driven by this controller
func (v *Viewer2D) Floorplan() *Floorplan { return v.fp }

// Revision counts redraws
func (v *Viewer2D) Revision() int { return v.revision }

// Drawing reports whether a draw chain is in progress and where it continues from
func (v *Viewer2D) Drawing() (Point, bool) { return v.drawStart, v.drawing }

// Cursor is the last pointer position in floorplan space
func (v *Viewer2D) Cursor() Point { return v.cursor }

// SetMode switches the interaction mode, ending any drag or draw chain
func (v *Viewer2D) SetMode(m Mode) {
	if m == v.mode {
		return
	}
	v.endGesture()
	v.mode = m
	log.Printf("[PLANNER] 2D mode: %s", m)
	v.ModeChanged.Emit(m)
	v.Redraw()
}

// Done ends the current draw chain
func (v *Viewer2D) Done() {
	if !v.drawing {
		return
	}
	v.drawing = false
	v.Redraw()
}

func (v *Viewer2D) endGesture() {
	if v.dragCorner != nil || v.dragWall != nil {
		v.dragCorner, v.dragWall = nil, nil
		v.fp.Update()
	}
	v.drawing = false
}

func (v *Viewer2D) snapUnits() float64 { return v.view.PixelsToUnits(v.opts.SnapTolerance) }

// PointerDown handles a primary-button press at pixel (px, py)
func (v *Viewer2D) PointerDown(px, py float64) {
	p := v.view.ToFloorplan(px, py)
	v.cursor = p

	switch v.mode {
	case ModeMove:
		if c := v.fp.NearestCorner(p, v.snapUnits()); c != nil {
			v.dragCorner = c
			return
		}
		if w := v.fp.NearestWall(p, v.opts.HitTolerance); w != nil {
			v.dragWall = w
			v.lastDrag = p
		}

	case ModeDraw:
		target := v.drawTarget(p)
		if !v.drawing {
			v.drawing = true
			v.drawStart = target
			v.Redraw()
			return
		}
		if Distance(v.drawStart, target) < pointEpsilon {
			return
		}
		v.fp.AddWall(v.drawStart, target)
		v.drawStart = target
		v.fp.Update()
		v.Redraw()

	case ModeDelete:
		if w := v.fp.NearestWall(p, v.opts.HitTolerance); w != nil {
			v.fp.DeleteWall(w)
			v.fp.Update()
			v.Redraw()
		}
	}
}

// PointerMove handles pointer motion at pixel (px, py)
func (v *Viewer2D) PointerMove(px, py float64) {
	p := v.view.ToFloorplan(px, py)
	v.cursor = p

	switch {
	case v.dragCorner != nil:
		v.fp.MoveCorner(v.dragCorner, p)
		v.Redraw()
	case v.dragWall != nil:
		d := p.Sub(v.lastDrag)
		v.fp.MoveWall(v.dragWall, d.X, d.Y)
		v.lastDrag = p
		v.Redraw()
	case v.drawing:
		v.Redraw()
	}
}

// PointerUp ends a drag and recomputes the floorplan
func (v *Viewer2D) PointerUp(px, py float64) {
	if v.dragCorner == nil && v.dragWall == nil {
		return
	}
	v.PointerMove(px, py)
	v.dragCorner, v.dragWall = nil, nil
	v.fp.Update()
	v.Redraw()
}

// DoubleClick reports the wall under the pointer regardless of mode
func (v *Viewer2D) DoubleClick(px, py float64) (*Wall, bool) {
	p := v.view.ToFloorplan(px, py)
	w := v.fp.NearestWall(p, v.opts.HitTolerance)
	if w == nil {
		return nil, false
	}
	v.WallDoubleClicked.Emit(WallHit{Wall: w, Point: p})
	return w, true
}

// WallAt returns the wall within the hit tolerance of pixel (px, py)
func (v *Viewer2D) WallAt(px, py float64) *Wall {
	return v.fp.NearestWall(v.view.ToFloorplan(px, py), v.opts.HitTolerance)
}

// RoomAt returns the innermost room under pixel (px, py), or nil
func (v *Viewer2D) RoomAt(px, py float64) *Room {
	return v.fp.RoomAt(v.view.ToFloorplan(px, py))
}

func (v *Viewer2D) drawTarget(p Point) Point {
	if c := v.fp.NearestCorner(p, v.snapUnits()); c != nil {
		return c.Position()
	}
	if v.drawing {
		return snapToAxis(p, v.drawStart, v.view.PixelsToUnits(v.opts.AxisSnap))
	}
	return p
}

// Pan shifts the view by a pixel delta
func (v *Viewer2D) Pan(dx, dy float64) {
	v.view.Pan(dx, dy)
	v.Redraw()
}

// Zoom scales the view around pixel (px, py)
func (v *Viewer2D) Zoom(factor, px, py float64) {
	v.view.Zoom(factor, px, py)
	v.Redraw()
}

// Redraw marks the canvas stale and notifies listeners
func (v *Viewer2D) Redraw() {
	v.revision++
	v.Redrawn.Emit(v.revision)
}
