package planner

import (
	"context"
	"math"
	"slices"
)

// PickKind classifies what a 3D click resolved to
type PickKind string

const (
	PickNothing PickKind = "nothing"
	PickWall    PickKind = "wall"
	PickFloor   PickKind = "floor"
	PickEntity  PickKind = "entity"
)

// PickResult describes the nearest hit under a click
type PickResult struct {
	Kind     PickKind
	HalfEdge *HalfEdge
	Room     *Room
	Entity   *Entity
	Point    Vec3
	Distance float64
}

// Viewer3D mirrors the floorplan and entity registry into a pickable scene.
// It never owns entities; it only keeps rendering references to loaded ones.
type Viewer3D struct {
	fp  *Floorplan
	reg *Registry

	Camera *Camera

	faces    []wallFace
	floors   []*Room
	entities []*Entity
	selected *Entity
	revision int

	subs subscriptions

	WallClicked      Event[*HalfEdge]
	FloorClicked     Event[*Room]
	EntitySelected   Event[*Entity]
	EntityUnselected Event[*Entity]
	NothingClicked   Signal
	SceneUpdated     Event[int]
}

// NewViewer3D creates a scene controller subscribed to fp and reg
func NewViewer3D(fp *Floorplan, reg *Registry) *Viewer3D {
	v := &Viewer3D{fp: fp, reg: reg, Camera: NewCamera()}
	v.subs.add(fp.Updated.Subscribe(func(struct{}) { v.rebuild() }))
	v.subs.add(reg.Loaded.Subscribe(v.entityLoaded))
	v.subs.add(reg.LoadFailed.Subscribe(v.entityGone))
	v.subs.add(reg.Removed.Subscribe(v.entityGone))
	v.subs.add(reg.Changed.Subscribe(func(*Entity) { v.touch() }))
	v.rebuild()
	return v
}

// Close detaches the viewer from the model
func (v *Viewer3D) Close() { v.subs.close() }

// EntityLoading exposes the load-started notifications
func (v *Viewer3D) EntityLoading() *Event[*Entity] { return &v.reg.Loading }

// EntityLoaded exposes the load-succeeded notifications
func (v *Viewer3D) EntityLoaded() *Event[*Entity] { return &v.reg.Loaded }

// EntityLoadFailed exposes the load-failed notifications
func (v *Viewer3D) EntityLoadFailed() *Event[*Entity] { return &v.reg.LoadFailed }

// Revision counts scene rebuilds
func (v *Viewer3D) Revision() int { return v.revision }

// Entities returns the entities currently in the scene
func (v *Viewer3D) Entities() []*Entity { return slices.Clone(v.entities) }

// SelectedEntity returns the selected entity or nil
func (v *Viewer3D) SelectedEntity() *Entity { return v.selected }

func (v *Viewer3D) rebuild() {
	v.faces = v.faces[:0]
	for _, w := range v.fp.Walls() {
		v.faces = append(v.faces, newWallFace(w.Front()), newWallFace(w.Back()))
	}
	v.floors = v.fp.Rooms()
	v.touch()
}

func (v *Viewer3D) touch() {
	v.revision++
	v.SceneUpdated.Emit(v.revision)
}

func (v *Viewer3D) entityLoaded(e *Entity) {
	if !slices.Contains(v.entities, e) {
		v.entities = append(v.entities, e)
	}
	v.touch()
}

func (v *Viewer3D) entityGone(e *Entity) {
	if v.selected == e {
		v.Unselect()
	}
	v.entities = slices.DeleteFunc(v.entities, func(x *Entity) bool { return x == e })
	v.touch()
}

// AddEntity places a new entity through the registry
func (v *Viewer3D) AddEntity(ctx context.Context, cmd PlacementCommand) (*Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return v.reg.Add(cmd)
}

// RemoveEntity deletes the entity from the scene and registry, clearing the selection first
func (v *Viewer3D) RemoveEntity(e *Entity) {
	if e == nil {
		return
	}
	if v.selected == e {
		v.Unselect()
	}
	v.reg.Remove(e)
}

// Select makes e the selected entity, unselecting any previous one first
func (v *Viewer3D) Select(e *Entity) {
	if v.selected != nil && v.selected != e {
		v.Unselect()
	}
	v.selected = e
	v.EntitySelected.Emit(e)
}

// Unselect clears the entity selection
func (v *Viewer3D) Unselect() {
	prev := v.selected
	if prev == nil {
		return
	}
	v.selected = nil
	v.EntityUnselected.Emit(prev)
}

// Pick returns the nearest hit along the ray without changing selection
func (v *Viewer3D) Pick(r Ray) PickResult {
	best := PickResult{Kind: PickNothing, Distance: math.Inf(1)}

	for _, e := range v.entities {
		if t, ok := intersectEntity(r, e); ok && t < best.Distance {
			best = PickResult{Kind: PickEntity, Entity: e, Distance: t}
		}
	}
	for _, f := range v.faces {
		if t, ok := f.intersect(r); ok && t < best.Distance {
			best = PickResult{Kind: PickWall, HalfEdge: f.edge, Distance: t}
		}
	}
	if t, ok := intersectPlaneY(r, 0); ok && t < best.Distance {
		hit := r.At(t).Floor()
		var room *Room
		for _, rm := range v.floors {
			if rm.Contains(hit) && (room == nil || rm.Area() < room.Area()) {
				room = rm
			}
		}
		if room != nil {
			best = PickResult{Kind: PickFloor, Room: room, Distance: t}
		}
	}

	if best.Kind != PickNothing {
		best.Point = r.At(best.Distance)
	}
	return best
}

// Click resolves a click at pixel (px, py) of a w×h view
func (v *Viewer3D) Click(px, py, w, h float64) PickResult {
	return v.ClickRay(v.Camera.RayFromScreen(px, py, w, h))
}

// ClickRay resolves the nearest hit and fires exactly one of WallClicked,
// FloorClicked, EntitySelected or NothingClicked. A selection change away
// from an entity fires EntityUnselected before that.
func (v *Viewer3D) ClickRay(r Ray) PickResult {
	res := v.Pick(r)
	switch res.Kind {
	case PickEntity:
		v.Select(res.Entity)
	case PickWall:
		v.Unselect()
		v.WallClicked.Emit(res.HalfEdge)
	case PickFloor:
		v.Unselect()
		v.FloorClicked.Emit(res.Room)
	default:
		v.Unselect()
		Fire(&v.NothingClicked)
	}
	return res
}

// SceneSnapshot summarizes what the 3D scene currently renders
type SceneSnapshot struct {
	Revision int              `json:"revision"`
	Faces    int              `json:"faces"`
	Floors   []string         `json:"floors"`
	Entities []EntitySnapshot `json:"entities"`
	Selected string           `json:"selected,omitempty"`
	Camera   *Camera          `json:"camera"`
}

// Snapshot returns a serializable summary of the scene
func (v *Viewer3D) Snapshot() SceneSnapshot {
	s := SceneSnapshot{
		Revision: v.revision,
		Faces:    len(v.faces),
		Floors:   make([]string, 0, len(v.floors)),
		Entities: make([]EntitySnapshot, 0, len(v.entities)),
		Camera:   v.Camera,
	}
	for _, r := range v.floors {
		s.Floors = append(s.Floors, r.ID)
	}
	for _, e := range v.entities {
		s.Entities = append(s.Entities, e.Snapshot())
	}
	if v.selected != nil {
		s.Selected = v.selected.ID
	}
	return s
}
