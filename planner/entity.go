package planner

import (
	"fmt"
	"math"
)

// defaultEntitySize is used when neither the placement nor the model gives a size (meters)
const defaultEntitySize = 0.5

// EntityState tracks the asynchronous asset load of an entity
type EntityState int

const (
	EntityLoading EntityState = iota
	EntityLoaded
	EntityFailed
)

func (s EntityState) String() string {
	switch s {
	case EntityLoading:
		return "loading"
	case EntityLoaded:
		return "loaded"
	case EntityFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// EntityMetadata carries display information about an entity
type EntityMetadata struct {
	EntityName string `json:"entityName" yaml:"entityName"`
}

// PlacementCommand is the entity placement surface consumed from the UI layer.
// Dimension overrides are in meters.
type PlacementCommand struct {
	Name      string     `json:"name" yaml:"name"`
	Type      EntityType `json:"type" yaml:"type"`
	URL       string     `json:"url" yaml:"url"`
	Resizable bool       `json:"resizable" yaml:"resizable"`
	Width     *float64   `json:"width,omitempty" yaml:"width,omitempty"`
	Depth     *float64   `json:"depth,omitempty" yaml:"depth,omitempty"`
	Height    *float64   `json:"height,omitempty" yaml:"height,omitempty"`
	Scale     *float64   `json:"scale,omitempty" yaml:"scale,omitempty"`
	Position  *Vec3      `json:"position,omitempty" yaml:"position,omitempty"`
	Rotation  float64    `json:"rotation,omitempty" yaml:"rotation,omitempty"`
	Fixed     bool       `json:"fixed,omitempty" yaml:"fixed,omitempty"`
}

// Validate checks the command against the entity vocabulary
func (c PlacementCommand) Validate() error {
	if !c.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownEntityType, c.Type)
	}
	if c.URL == "" {
		return fmt.Errorf("placement %q: url is required", c.Name)
	}
	for _, v := range []*float64{c.Width, c.Depth, c.Height, c.Scale} {
		if v != nil && !positiveFinite(*v) {
			return fmt.Errorf("placement %q: %w", c.Name, ErrInvalidDimensions)
		}
	}
	return nil
}

// dimensions merges overrides over the model size, scaled by Scale
func (c PlacementCommand) dimensions(model *Dimensions) Dimensions {
	d := Dimensions{Width: defaultEntitySize, Height: defaultEntitySize, Depth: defaultEntitySize}
	// flat models keep the default on their empty axis so sizes stay positive
	if model != nil {
		if positiveFinite(model.Width) {
			d.Width = model.Width
		}
		if positiveFinite(model.Height) {
			d.Height = model.Height
		}
		if positiveFinite(model.Depth) {
			d.Depth = model.Depth
		}
	}
	if c.Scale != nil {
		d = Dimensions{Width: d.Width * *c.Scale, Height: d.Height * *c.Scale, Depth: d.Depth * *c.Scale}
	}
	if c.Width != nil {
		d.Width = *c.Width
	}
	if c.Height != nil {
		d.Height = *c.Height
	}
	if c.Depth != nil {
		d.Depth = *c.Depth
	}
	return d
}

// Entity is a placed furniture or fixture item. Entities are owned by a
// Registry; mutate them only from the session's command path.
type Entity struct {
	ID       string
	Type     EntityType
	URL      string
	Metadata EntityMetadata

	position   Vec3
	rotation   float64
	dimensions Dimensions
	fixed      bool
	resizable  bool
	state      EntityState

	// wall the entity is anchored to, for wall-anchored types
	wall *Wall

	owner *Registry
}

func (e *Entity) Name() string           { return e.Metadata.EntityName }
func (e *Entity) Position() Vec3         { return e.position }
func (e *Entity) Rotation() float64      { return e.rotation }
func (e *Entity) Dimensions() Dimensions { return e.dimensions }
func (e *Entity) Fixed() bool            { return e.fixed }
func (e *Entity) Resizable() bool        { return e.resizable }
func (e *Entity) State() EntityState     { return e.state }

// Wall returns the wall a wall-anchored entity is attached to, if any
func (e *Entity) Wall() *Wall { return e.wall }

// Resize sets the entity size in meters. The argument order is height, width, depth.
func (e *Entity) Resize(height, width, depth float64) error {
	if !e.resizable {
		return ErrNotResizable
	}
	if !positiveFinite(height) || !positiveFinite(width) || !positiveFinite(depth) {
		return ErrInvalidDimensions
	}
	e.dimensions = Dimensions{Width: width, Height: height, Depth: depth}
	e.changed()
	return nil
}

// SetFixed pins or releases the entity
func (e *Entity) SetFixed(fixed bool) {
	if e.fixed == fixed {
		return
	}
	e.fixed = fixed
	e.changed()
}

// MoveTo repositions the entity. Fixed entities refuse to move.
func (e *Entity) MoveTo(p Vec3) error {
	if e.fixed {
		return ErrEntityFixed
	}
	e.position = p
	e.changed()
	return nil
}

// Rotate sets the rotation about the vertical axis in degrees
func (e *Entity) Rotate(degrees float64) error {
	if e.fixed {
		return ErrEntityFixed
	}
	e.rotation = normalizeDegrees(degrees)
	e.changed()
	return nil
}

// EntityEdit is a partial entity update. Nil fields keep their current value.
// Sizes are in meters.
type EntityEdit struct {
	Width    *float64
	Height   *float64
	Depth    *float64
	Fixed    *bool
	Position *Vec3
	Rotation *float64
}

// Edit applies every change in u or none of them. Pinning follows the
// resize rule, and moves are checked against the pin state after the edit.
func (e *Entity) Edit(u EntityEdit) error {
	d := e.dimensions
	if u.Width != nil || u.Height != nil || u.Depth != nil {
		if !e.resizable {
			return ErrNotResizable
		}
		if u.Width != nil {
			d.Width = *u.Width
		}
		if u.Height != nil {
			d.Height = *u.Height
		}
		if u.Depth != nil {
			d.Depth = *u.Depth
		}
		if !positiveFinite(d.Width) || !positiveFinite(d.Height) || !positiveFinite(d.Depth) {
			return ErrInvalidDimensions
		}
	}
	fixed := e.fixed
	if u.Fixed != nil {
		if !e.resizable {
			return ErrNotResizable
		}
		fixed = *u.Fixed
	}
	if fixed && (u.Position != nil || u.Rotation != nil) {
		return ErrEntityFixed
	}

	e.dimensions = d
	e.fixed = fixed
	if u.Position != nil {
		e.position = *u.Position
	}
	if u.Rotation != nil {
		e.rotation = normalizeDegrees(*u.Rotation)
	}
	e.changed()
	return nil
}

// Footprint returns the four floorplan corners of the entity's box
func (e *Entity) Footprint() [4]Point {
	d := e.dimensions.Centimeters()
	hw, hd := d.Width/2, d.Depth/2
	rad := e.rotation * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	c := e.position.Floor()
	local := [4]Point{{-hw, -hd}, {hw, -hd}, {hw, hd}, {-hw, hd}}
	var out [4]Point
	for i, p := range local {
		out[i] = Point{X: c.X + p.X*cos - p.Y*sin, Y: c.Y + p.X*sin + p.Y*cos}
	}
	return out
}

func (e *Entity) changed() {
	if e.owner != nil {
		e.owner.Changed.Emit(e)
	}
}

// EntitySnapshot is the serializable view of an entity
type EntitySnapshot struct {
	ID         string         `json:"id"`
	Type       EntityType     `json:"type"`
	URL        string         `json:"url"`
	Position   Vec3           `json:"position"`
	Rotation   float64        `json:"rotation"`
	Dimensions Dimensions     `json:"dimensions"`
	Fixed      bool           `json:"fixed"`
	Resizable  bool           `json:"resizable"`
	State      string         `json:"state"`
	WallID     string         `json:"wallId,omitempty"`
	Metadata   EntityMetadata `json:"metadata"`
}

// Snapshot returns a copy of the entity's state
func (e *Entity) Snapshot() EntitySnapshot {
	s := EntitySnapshot{
		ID:         e.ID,
		Type:       e.Type,
		URL:        e.URL,
		Position:   e.position,
		Rotation:   e.rotation,
		Dimensions: e.dimensions,
		Fixed:      e.fixed,
		Resizable:  e.resizable,
		State:      e.state.String(),
		Metadata:   e.Metadata,
	}
	if e.wall != nil {
		s.WallID = e.wall.ID
	}
	return s
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func normalizeDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}
