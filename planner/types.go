package planner

import (
	"fmt"
	"math"
	"strings"
)

// CentimetersPerMeter converts entity dimensions (meters) to display and floorplan units (cm).
const CentimetersPerMeter = 100.0

// Point represents a 2D floorplan coordinate in centimeters
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Add returns p + q
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p - q
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Scale returns p * s
func (p Point) Scale(s float64) Point { return Point{X: p.X * s, Y: p.Y * s} }

// Len returns the Euclidean length of p taken as a vector
func (p Point) Len() float64 { return math.Hypot(p.X, p.Y) }

func (p Point) String() string { return fmt.Sprintf("(%.1f, %.1f)", p.X, p.Y) }

// Vec3 is a 3D world coordinate. Y is up; world X/Z map to floorplan X/Y.
type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(o Vec3) float64   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Len() float64         { return math.Sqrt(v.Dot(v)) }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Normalize returns the unit vector in the direction of v, or v itself when it is zero.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// Floor projects a world position onto the floorplan.
func (v Vec3) Floor() Point { return Point{X: v.X, Y: v.Z} }

// Dimensions of an entity in meters
type Dimensions struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
	Depth  float64 `json:"depth" yaml:"depth"`
}

// Centimeters returns the dimensions converted to floorplan units
func (d Dimensions) Centimeters() Dimensions {
	return Dimensions{
		Width:  d.Width * CentimetersPerMeter,
		Height: d.Height * CentimetersPerMeter,
		Depth:  d.Depth * CentimetersPerMeter,
	}
}

// TextureRepeat controls how a texture tiles across a surface
type TextureRepeat struct {
	AutoCalculateRepeat bool    `json:"autoCalculateRepeat" yaml:"autoCalculateRepeat"`
	UVScale             float64 `json:"uvScale" yaml:"uvScale"`
}

// Texture is a material applied to a wall face or a room floor
type Texture struct {
	URL    string        `json:"url" yaml:"url"`
	Repeat TextureRepeat `json:"repeat" yaml:"repeat"`
}

// IsZero reports whether no texture has been assigned
func (t Texture) IsZero() bool { return t.URL == "" }

// TextureCommand is the texture-select surface consumed from the UI layer
type TextureCommand struct {
	URL        string  `json:"url" yaml:"url"`
	AutoRepeat bool    `json:"autoRepeat" yaml:"autoRepeat"`
	Scale      float64 `json:"scale" yaml:"scale"`
}

// Texture translates the command into the material configuration applied to surfaces
func (c TextureCommand) Texture() Texture {
	return Texture{
		URL: c.URL,
		Repeat: TextureRepeat{
			AutoCalculateRepeat: c.AutoRepeat,
			UVScale:             c.Scale,
		},
	}
}

// Mode is the 2D interaction mode
type Mode int

const (
	ModeMove Mode = iota
	ModeDraw
	ModeDelete
)

func (m Mode) String() string {
	switch m {
	case ModeMove:
		return "move"
	case ModeDraw:
		return "draw"
	case ModeDelete:
		return "delete"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode converts a mode name to a Mode
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "move":
		return ModeMove, nil
	case "draw":
		return ModeDraw, nil
	case "delete":
		return ModeDelete, nil
	}
	return ModeMove, fmt.Errorf("unknown mode %q", s)
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// EntityType determines how an entity is anchored in the room
type EntityType string

const (
	EntityInWallFloor EntityType = "InWallFloorEntity" // doors
	EntityInWall      EntityType = "InWallEntity"      // windows
	EntityFloor       EntityType = "FloorEntity"
	EntityWall        EntityType = "WallEntity" // shelves, pictures
	EntityBasic       EntityType = "BasicEntity"
)

// Valid reports whether t is part of the entity vocabulary
func (t EntityType) Valid() bool {
	switch t {
	case EntityInWallFloor, EntityInWall, EntityFloor, EntityWall, EntityBasic:
		return true
	}
	return false
}

// WallAnchored reports whether entities of this type attach to a wall
func (t EntityType) WallAnchored() bool {
	return t == EntityInWallFloor || t == EntityInWall || t == EntityWall
}

// FloorAnchored reports whether entities of this type rest on the floor
func (t EntityType) FloorAnchored() bool {
	return t == EntityInWallFloor || t == EntityFloor
}

// InWall reports whether the entity is embedded in the wall thickness
func (t EntityType) InWall() bool {
	return t == EntityInWallFloor || t == EntityInWall
}

// CmToMeters converts a displayed centimeter value to stored meters
func CmToMeters(cm float64) float64 { return cm / CentimetersPerMeter }

// MetersToCm converts stored meters to centimeters rounded to one decimal for display
func MetersToCm(m float64) float64 {
	return math.Round(m*CentimetersPerMeter*10) / 10
}
