package planner

import (
	"math"
	"slices"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

const (
	DefaultWallThickness = 10.0  // cm
	DefaultWallHeight    = 250.0 // cm
)

// Endpoint selects one end of a wall
type Endpoint int

const (
	EndpointStart Endpoint = iota
	EndpointEnd
)

// Corner is a wall endpoint shared by every wall meeting there
type Corner struct {
	ID       string
	position Point
	walls    []*Wall
}

// Position returns the corner's current floorplan position
func (c *Corner) Position() Point { return c.position }

// Walls returns the walls attached to this corner
func (c *Corner) Walls() []*Wall { return slices.Clone(c.walls) }

func (c *Corner) detach(w *Wall) {
	c.walls = slices.DeleteFunc(c.walls, func(x *Wall) bool { return x == w })
}

// Wall is a straight wall between two corners
type Wall struct {
	ID        string
	Thickness float64
	Height    float64

	start *Corner
	end   *Corner
	front *HalfEdge
	back  *HalfEdge
}

// Start returns the start corner
func (w *Wall) Start() *Corner { return w.start }

// End returns the end corner
func (w *Wall) End() *Corner { return w.end }

// StartPoint returns the live position of the start corner
func (w *Wall) StartPoint() Point { return w.start.position }

// EndPoint returns the live position of the end corner
func (w *Wall) EndPoint() Point { return w.end.position }

// Corner returns the corner at the given endpoint
func (w *Wall) Corner(which Endpoint) *Corner {
	if which == EndpointEnd {
		return w.end
	}
	return w.start
}

// Length is always derived from the live endpoints
func (w *Wall) Length() float64 {
	return Distance(w.start.position, w.end.position)
}

// Front is the half-edge on the left of start->end
func (w *Wall) Front() *HalfEdge { return w.front }

// Back is the half-edge on the right of start->end
func (w *Wall) Back() *HalfEdge { return w.back }

// DistanceTo returns the point-to-segment distance from p to the wall centerline
func (w *Wall) DistanceTo(p Point) float64 {
	return PointToSegmentDistance(p, w.start.position, w.end.position)
}

func (w *Wall) other(c *Corner) *Corner {
	if c == w.start {
		return w.end
	}
	return w.start
}

// HalfEdge is one face of a wall, carrying its own texture
type HalfEdge struct {
	Wall    *Wall
	Front   bool
	Texture Texture
}

// Start is the face's start point: front faces run start->end, back faces end->start
func (h *HalfEdge) Start() Point {
	if h.Front {
		return h.Wall.StartPoint()
	}
	return h.Wall.EndPoint()
}

// End is the face's end point
func (h *HalfEdge) End() Point {
	if h.Front {
		return h.Wall.EndPoint()
	}
	return h.Wall.StartPoint()
}

// Normal is the outward unit normal of the face in floorplan space
func (h *HalfEdge) Normal() Point {
	return leftNormal(h.Wall.StartPoint(), h.Wall.EndPoint()).Scale(h.side())
}

func (h *HalfEdge) side() float64 {
	if h.Front {
		return 1
	}
	return -1
}

// FaceSegment returns the face line, offset from the centerline by half the thickness
func (h *HalfEdge) FaceSegment() (Point, Point) {
	off := leftNormal(h.Wall.StartPoint(), h.Wall.EndPoint()).Scale(h.side() * h.Wall.Thickness / 2)
	return h.Wall.StartPoint().Add(off), h.Wall.EndPoint().Add(off)
}

// Room is a closed polygon derived from connected walls
type Room struct {
	ID      string
	Corners []*Corner
	Floor   Texture
}

// Points returns the room outline in floorplan space
func (r *Room) Points() []Point {
	pts := make([]Point, len(r.Corners))
	for i, c := range r.Corners {
		pts[i] = c.position
	}
	return pts
}

// Ring returns the room outline as a closed orb ring
func (r *Room) Ring() orb.Ring {
	ring := make(orb.Ring, 0, len(r.Corners)+1)
	for _, c := range r.Corners {
		ring = append(ring, toOrb(c.position))
	}
	if len(ring) > 0 {
		ring = append(ring, ring[0])
	}
	return ring
}

// Area in square centimeters
func (r *Room) Area() float64 { return math.Abs(planar.Area(r.Ring())) }

// Contains reports whether p is inside the room outline
func (r *Room) Contains(p Point) bool { return ringContains(r.Ring(), p) }

// Floorplan owns corners and walls and derives rooms from them
type Floorplan struct {
	corners []*Corner
	walls   []*Wall
	rooms   []*Room

	// floor textures survive room recomputation, keyed by corner set
	floorTextures map[string]Texture

	WallThickness float64
	WallHeight    float64

	// Updated fires after Update has recomputed rooms
	Updated Signal
	// WallRemoved fires when a wall is deleted, before the next Update
	WallRemoved Event[*Wall]
}

// NewFloorplan creates an empty floorplan with default wall dimensions
func NewFloorplan() *Floorplan {
	return &Floorplan{
		floorTextures: make(map[string]Texture),
		WallThickness: DefaultWallThickness,
		WallHeight:    DefaultWallHeight,
	}
}

// Corners returns all corners
func (f *Floorplan) Corners() []*Corner { return slices.Clone(f.corners) }

// Walls returns all walls
func (f *Floorplan) Walls() []*Wall { return slices.Clone(f.walls) }

// Rooms returns the rooms computed by the last Update
func (f *Floorplan) Rooms() []*Room { return slices.Clone(f.rooms) }

// NewCorner adds a free corner at p
func (f *Floorplan) NewCorner(p Point) *Corner {
	c := &Corner{ID: uuid.NewString(), position: p}
	f.corners = append(f.corners, c)
	return c
}

// CornerAt returns the corner located at p, if any
func (f *Floorplan) CornerAt(p Point) *Corner {
	for _, c := range f.corners {
		if Distance(c.position, p) < pointEpsilon {
			return c
		}
	}
	return nil
}

// NearestCorner returns the closest corner within tolerance of p
func (f *Floorplan) NearestCorner(p Point, tolerance float64) *Corner {
	var best *Corner
	bestDist := tolerance
	for _, c := range f.corners {
		if d := Distance(c.position, p); d <= bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// NearestWall returns the wall whose centerline is closest to p within tolerance
func (f *Floorplan) NearestWall(p Point, tolerance float64) *Wall {
	var best *Wall
	bestDist := tolerance
	for _, w := range f.walls {
		if d := w.DistanceTo(p); d <= bestDist {
			best, bestDist = w, d
		}
	}
	return best
}

// AddWall creates a wall between p1 and p2, reusing corners already at those points
func (f *Floorplan) AddWall(p1, p2 Point) *Wall {
	c1 := f.CornerAt(p1)
	if c1 == nil {
		c1 = f.NewCorner(p1)
	}
	c2 := f.CornerAt(p2)
	if c2 == nil {
		c2 = f.NewCorner(p2)
	}
	return f.AddWallBetween(c1, c2)
}

// AddWallBetween creates a wall joining two existing corners
func (f *Floorplan) AddWallBetween(c1, c2 *Corner) *Wall {
	w := &Wall{
		ID:        uuid.NewString(),
		Thickness: f.WallThickness,
		Height:    f.WallHeight,
		start:     c1,
		end:       c2,
	}
	w.front = &HalfEdge{Wall: w, Front: true}
	w.back = &HalfEdge{Wall: w, Front: false}
	c1.walls = append(c1.walls, w)
	if c2 != c1 {
		c2.walls = append(c2.walls, w)
	}
	f.walls = append(f.walls, w)
	return w
}

// MoveWallEndpoint moves one endpoint of a wall. Corners are shared, so every
// wall meeting at that corner follows.
func (f *Floorplan) MoveWallEndpoint(w *Wall, which Endpoint, p Point) {
	f.MoveCorner(w.Corner(which), p)
}

// MoveCorner repositions a corner
func (f *Floorplan) MoveCorner(c *Corner, p Point) {
	c.position = p
}

// MoveWall translates both corners of a wall
func (f *Floorplan) MoveWall(w *Wall, dx, dy float64) {
	delta := Point{X: dx, Y: dy}
	w.start.position = w.start.position.Add(delta)
	if w.end != w.start {
		w.end.position = w.end.position.Add(delta)
	}
}

// DeleteWall removes the wall and any corner left without walls
func (f *Floorplan) DeleteWall(w *Wall) {
	idx := slices.Index(f.walls, w)
	if idx < 0 {
		return
	}
	f.walls = slices.Delete(f.walls, idx, idx+1)
	for _, c := range []*Corner{w.start, w.end} {
		c.detach(w)
		if len(c.walls) == 0 {
			f.removeCorner(c)
		}
	}
	f.WallRemoved.Emit(w)
}

func (f *Floorplan) removeCorner(c *Corner) {
	f.corners = slices.DeleteFunc(f.corners, func(x *Corner) bool { return x == c })
}

// WallByID looks a wall up by ID
func (f *Floorplan) WallByID(id string) (*Wall, bool) {
	for _, w := range f.walls {
		if w.ID == id {
			return w, true
		}
	}
	return nil, false
}

// CornerByID looks a corner up by ID
func (f *Floorplan) CornerByID(id string) (*Corner, bool) {
	for _, c := range f.corners {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// RoomByID looks a room up by ID
func (f *Floorplan) RoomByID(id string) (*Room, bool) {
	for _, r := range f.rooms {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}

// RoomAt returns the smallest room containing p
func (f *Floorplan) RoomAt(p Point) *Room {
	var best *Room
	for _, r := range f.rooms {
		if r.Contains(p) && (best == nil || r.Area() < best.Area()) {
			best = r
		}
	}
	return best
}

// SetFloorTexture assigns a floor texture that persists while the room exists
func (f *Floorplan) SetFloorTexture(r *Room, t Texture) {
	r.Floor = t
	f.floorTextures[r.ID] = t
}

// Bounds returns the bounding box of all corners
func (f *Floorplan) Bounds() orb.Bound {
	if len(f.corners) == 0 {
		return orb.Bound{}
	}
	b := orb.Bound{Min: toOrb(f.corners[0].position), Max: toOrb(f.corners[0].position)}
	for _, c := range f.corners[1:] {
		b = b.Extend(toOrb(c.position))
	}
	return b
}

// Update recomputes rooms from the current wall graph and notifies subscribers
func (f *Floorplan) Update() {
	f.rooms = f.findRooms()
	live := make(map[string]bool, len(f.rooms))
	for _, r := range f.rooms {
		live[r.ID] = true
		if t, ok := f.floorTextures[r.ID]; ok {
			r.Floor = t
		}
	}
	for id := range f.floorTextures {
		if !live[id] {
			delete(f.floorTextures, id)
		}
	}
	Fire(&f.Updated)
}

// Clear removes all walls, corners and rooms
func (f *Floorplan) Clear() {
	f.corners = nil
	f.walls = nil
	f.rooms = nil
	f.floorTextures = make(map[string]Texture)
}
