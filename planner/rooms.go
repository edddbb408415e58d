package planner

import (
	"math"
	"slices"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// minRoomArea discards slivers produced by overlapping or open wall chains (cm²)
const minRoomArea = 1.0

type directedEdge struct {
	from, to *Corner
}

// findRooms walks every face of the planar wall graph. At each corner the walk
// continues along the first outgoing edge clockwise from the edge it arrived
// on, which traces bounded faces counter-clockwise and the outer face clockwise.
func (f *Floorplan) findRooms() []*Room {
	visited := make(map[directedEdge]bool, 2*len(f.walls))
	var rooms []*Room
	seen := make(map[string]bool)

	for _, w := range f.walls {
		if w.start == w.end {
			continue
		}
		for _, e := range []directedEdge{{w.start, w.end}, {w.end, w.start}} {
			if visited[e] {
				continue
			}
			face := f.traceFace(e, visited)
			if len(face) < 3 {
				continue
			}
			ring := make(orb.Ring, 0, len(face)+1)
			for _, c := range face {
				ring = append(ring, toOrb(c.position))
			}
			ring = append(ring, ring[0])
			// ring area is signed, so this also drops the clockwise outer face
			if planar.Area(ring) < minRoomArea {
				continue
			}
			id := roomKey(face)
			if seen[id] {
				continue
			}
			seen[id] = true
			rooms = append(rooms, &Room{ID: id, Corners: face})
		}
	}
	return rooms
}

func (f *Floorplan) traceFace(start directedEdge, visited map[directedEdge]bool) []*Corner {
	var face []*Corner
	e := start
	// Each directed edge belongs to exactly one face, so the walk is bounded
	// by the number of directed edges.
	for i := 0; i <= 2*len(f.walls); i++ {
		if visited[e] {
			break
		}
		visited[e] = true
		face = append(face, e.from)
		e = nextEdge(e)
		if e == start {
			return face
		}
	}
	return nil
}

// nextEdge picks the outgoing edge at e.to with the smallest clockwise turn
// from the reversed incoming direction. A dead end turns back along itself.
func nextEdge(e directedEdge) directedEdge {
	v := e.to
	back := angleOf(e.from.position.Sub(v.position))
	best := directedEdge{from: v, to: e.from}
	bestTurn := 2 * math.Pi
	for _, w := range v.walls {
		to := w.other(v)
		if to == v {
			continue
		}
		out := angleOf(to.position.Sub(v.position))
		turn := math.Mod(back-out+2*math.Pi, 2*math.Pi)
		if turn <= 1e-12 {
			// the reverse edge itself, only taken at dead ends
			continue
		}
		if turn < bestTurn {
			best, bestTurn = directedEdge{from: v, to: to}, turn
		}
	}
	return best
}

// roomKey identifies a room by its set of corners, independent of walk start
func roomKey(corners []*Corner) string {
	ids := make([]string, len(corners))
	for i, c := range corners {
		ids[i] = c.ID
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)
	return strings.Join(ids, ":")
}

func ringContains(r orb.Ring, p Point) bool {
	if len(r) < 4 {
		return false
	}
	return planar.RingContains(r, toOrb(p))
}

// polygonCentroid returns the area centroid of a room outline
func polygonCentroid(r *Room) Point {
	ring := r.Ring()
	if len(ring) < 4 {
		return Point{}
	}
	c, _ := planar.CentroidArea(ring)
	return fromOrb(c)
}
