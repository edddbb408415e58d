package planner

import "log"

// TextureTarget is the surface the texture picker applies to: a wall face or a room floor
type TextureTarget struct {
	HalfEdge *HalfEdge
	Room     *Room
}

// IsZero reports whether nothing is targeted
func (t TextureTarget) IsZero() bool { return t.HalfEdge == nil && t.Room == nil }

// TextureSelector remembers the last clicked wall face or floor and applies
// materials to it.
type TextureSelector struct {
	fp      *Floorplan
	catalog *Catalog
	target  TextureTarget
	tab     TextureTab
	subs    subscriptions

	// Reset fires when the tab changes
	Reset Signal
	// Applied fires after a texture has been written to the target
	Applied Event[TextureTarget]
}

// NewTextureSelector binds the selector to the viewer's pick events
func NewTextureSelector(fp *Floorplan, v *Viewer3D, catalog *Catalog) *TextureSelector {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	s := &TextureSelector{fp: fp, catalog: catalog, tab: TabWalls}
	s.subs.add(v.WallClicked.Subscribe(func(h *HalfEdge) {
		s.target = TextureTarget{HalfEdge: h}
		s.tab = TabWalls
	}))
	s.subs.add(v.FloorClicked.Subscribe(func(r *Room) {
		s.target = TextureTarget{Room: r}
		s.tab = TabFloors
	}))
	s.subs.add(v.NothingClicked.Subscribe(func(struct{}) { s.Clear() }))
	s.subs.add(v.EntitySelected.Subscribe(func(*Entity) { s.Clear() }))
	// rooms are rebuilt on every update; follow the target by its corner key
	s.subs.add(fp.Updated.Subscribe(func(struct{}) {
		if s.target.Room == nil {
			return
		}
		if r, ok := fp.RoomByID(s.target.Room.ID); ok {
			s.target.Room = r
		} else {
			s.Clear()
		}
	}))
	// a deleted wall can no longer be textured
	s.subs.add(fp.WallRemoved.Subscribe(func(w *Wall) {
		if s.target.HalfEdge != nil && s.target.HalfEdge.Wall == w {
			s.Clear()
		}
	}))
	return s
}

// Close detaches the selector
func (s *TextureSelector) Close() { s.subs.close() }

// Target returns the current surface
func (s *TextureSelector) Target() TextureTarget { return s.target }

// Clear drops the target
func (s *TextureSelector) Clear() { s.target = TextureTarget{} }

// Tab returns the active texture list
func (s *TextureSelector) Tab() TextureTab { return s.tab }

// SetTab switches the texture list and fires Reset
func (s *TextureSelector) SetTab(t TextureTab) {
	if t == s.tab {
		return
	}
	s.tab = t
	Fire(&s.Reset)
}

// Textures lists the catalog materials for the active tab
func (s *TextureSelector) Textures() []CatalogTexture { return s.catalog.Textures(s.tab) }

// Apply writes the texture to the target. It returns false when nothing is targeted.
func (s *TextureSelector) Apply(cmd TextureCommand) bool {
	if s.target.IsZero() || cmd.URL == "" {
		return false
	}
	t := cmd.Texture()
	switch {
	case s.target.HalfEdge != nil:
		s.target.HalfEdge.Texture = t
		log.Printf("[PLANNER] wall %s texture: %s", s.target.HalfEdge.Wall.ID, t.URL)
	case s.target.Room != nil:
		s.fp.SetFloorTexture(s.target.Room, t)
		log.Printf("[PLANNER] room %s floor texture: %s", s.target.Room.ID, t.URL)
	}
	s.Applied.Emit(s.target)
	return true
}
