package planner

// ContextMenuView is what the selection overlay displays. Dimensions are
// shown in centimeters, rounded to one decimal.
type ContextMenuView struct {
	ID        string  `json:"id,omitempty"`
	Name      string  `json:"name"`
	WidthCm   float64 `json:"widthCm"`
	HeightCm  float64 `json:"heightCm"`
	DepthCm   float64 `json:"depthCm"`
	Fixed     bool    `json:"fixed"`
	Resizable bool    `json:"resizable"`
	Enabled   bool    `json:"enabled"`
}

// ContextMenu edits the currently selected entity
type ContextMenu struct {
	viewer *Viewer3D
	entity *Entity
	view   ContextMenuView
	subs   subscriptions

	// Changed fires whenever the displayed view changes
	Changed Event[ContextMenuView]
}

// NewContextMenu attaches a menu to the viewer's selection events
func NewContextMenu(v *Viewer3D) *ContextMenu {
	m := &ContextMenu{viewer: v}
	m.subs.add(v.EntitySelected.Subscribe(m.open))
	m.subs.add(v.EntityUnselected.Subscribe(func(*Entity) { m.close() }))
	m.subs.add(v.reg.Changed.Subscribe(func(e *Entity) {
		if e == m.entity {
			m.refresh()
		}
	}))
	return m
}

// Close detaches the menu
func (m *ContextMenu) Close() { m.subs.close() }

// Entity returns the entity being edited, or nil
func (m *ContextMenu) Entity() *Entity { return m.entity }

// View returns the current overlay contents
func (m *ContextMenu) View() ContextMenuView { return m.view }

func (m *ContextMenu) open(e *Entity) {
	m.entity = e
	m.refresh()
}

func (m *ContextMenu) close() {
	if m.entity == nil {
		return
	}
	m.entity = nil
	m.view = ContextMenuView{}
	m.Changed.Emit(m.view)
}

func (m *ContextMenu) refresh() {
	e := m.entity
	d := e.Dimensions()
	m.view = ContextMenuView{
		ID:        e.ID,
		Name:      e.Name(),
		WidthCm:   MetersToCm(d.Width),
		HeightCm:  MetersToCm(d.Height),
		DepthCm:   MetersToCm(d.Depth),
		Fixed:     e.Fixed(),
		Resizable: e.Resizable(),
		Enabled:   true,
	}
	m.Changed.Emit(m.view)
}

// SetDimensions resizes the selected entity from centimeter inputs
func (m *ContextMenu) SetDimensions(widthCm, heightCm, depthCm float64) error {
	if m.entity == nil {
		return nil
	}
	return m.entity.Resize(CmToMeters(heightCm), CmToMeters(widthCm), CmToMeters(depthCm))
}

// SetFixed pins or releases the selected entity
func (m *ContextMenu) SetFixed(fixed bool) error {
	if m.entity == nil {
		return nil
	}
	if !m.entity.Resizable() {
		return ErrNotResizable
	}
	m.entity.SetFixed(fixed)
	return nil
}

// Delete removes the selected entity from the scene
func (m *ContextMenu) Delete() {
	if m.entity == nil {
		return
	}
	m.viewer.RemoveEntity(m.entity)
}
