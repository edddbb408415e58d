package planner

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// DesignVersion is the current design document format
const DesignVersion = 1

// Design is the serializable form of a floorplan and its entities
type Design struct {
	Version  int            `json:"version"`
	Name     string         `json:"name,omitempty"`
	SavedAt  time.Time      `json:"savedAt"`
	Corners  []DesignCorner `json:"corners"`
	Walls    []DesignWall   `json:"walls"`
	Rooms    []DesignRoom   `json:"rooms"`
	Entities []DesignEntity `json:"entities"`
}

type DesignCorner struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

type DesignWall struct {
	ID           string   `json:"id"`
	Start        string   `json:"start"`
	End          string   `json:"end"`
	Thickness    float64  `json:"thickness"`
	Height       float64  `json:"height"`
	Length       float64  `json:"length"`
	FrontTexture *Texture `json:"frontTexture,omitempty"`
	BackTexture  *Texture `json:"backTexture,omitempty"`
}

type DesignRoom struct {
	ID           string   `json:"id"`
	Corners      []string `json:"corners"`
	Area         float64  `json:"area"`
	FloorTexture *Texture `json:"floorTexture,omitempty"`
}

type DesignEntity struct {
	ID         string         `json:"id"`
	Type       EntityType     `json:"type"`
	URL        string         `json:"url"`
	Metadata   EntityMetadata `json:"metadata"`
	Position   Vec3           `json:"position"`
	Rotation   float64        `json:"rotation"`
	Dimensions Dimensions     `json:"dimensions"`
	Fixed      bool           `json:"fixed"`
	Resizable  bool           `json:"resizable"`
}

func texturePtr(t Texture) *Texture {
	if t.IsZero() {
		return nil
	}
	return &t
}

// ExportDesign captures the floorplan and every entity that has not failed to load
func ExportDesign(fp *Floorplan, reg *Registry) Design {
	d := Design{
		Version:  DesignVersion,
		SavedAt:  time.Now().UTC(),
		Corners:  []DesignCorner{},
		Walls:    []DesignWall{},
		Rooms:    []DesignRoom{},
		Entities: []DesignEntity{},
	}
	for _, c := range fp.Corners() {
		d.Corners = append(d.Corners, DesignCorner{ID: c.ID, X: c.position.X, Y: c.position.Y})
	}
	for _, w := range fp.Walls() {
		d.Walls = append(d.Walls, DesignWall{
			ID:           w.ID,
			Start:        w.start.ID,
			End:          w.end.ID,
			Thickness:    w.Thickness,
			Height:       w.Height,
			Length:       w.Length(),
			FrontTexture: texturePtr(w.front.Texture),
			BackTexture:  texturePtr(w.back.Texture),
		})
	}
	for _, r := range fp.Rooms() {
		ids := make([]string, len(r.Corners))
		for i, c := range r.Corners {
			ids[i] = c.ID
		}
		d.Rooms = append(d.Rooms, DesignRoom{ID: r.ID, Corners: ids, Area: r.Area(), FloorTexture: texturePtr(r.Floor)})
	}
	if reg != nil {
		for _, e := range reg.Entities() {
			if e.State() == EntityFailed {
				continue
			}
			d.Entities = append(d.Entities, DesignEntity{
				ID:         e.ID,
				Type:       e.Type,
				URL:        e.URL,
				Metadata:   e.Metadata,
				Position:   e.Position(),
				Rotation:   e.Rotation(),
				Dimensions: e.Dimensions(),
				Fixed:      e.Fixed(),
				Resizable:  e.Resizable(),
			})
		}
	}
	return d
}

// Validate checks the design references are consistent
func (d Design) Validate() error {
	if d.Version > DesignVersion {
		return fmt.Errorf("design version %d is newer than supported %d", d.Version, DesignVersion)
	}
	corners := make(map[string]bool, len(d.Corners))
	for _, c := range d.Corners {
		if c.ID == "" {
			return fmt.Errorf("design corner without id")
		}
		corners[c.ID] = true
	}
	for _, w := range d.Walls {
		if !corners[w.Start] || !corners[w.End] {
			return fmt.Errorf("design wall %s references unknown corner", w.ID)
		}
	}
	for _, e := range d.Entities {
		if !e.Type.Valid() {
			return fmt.Errorf("design entity %s: %w: %q", e.ID, ErrUnknownEntityType, e.Type)
		}
		if err := e.placement().Validate(); err != nil {
			return fmt.Errorf("design entity %s: %w", e.ID, err)
		}
		dims := e.Dimensions
		if !positiveFinite(dims.Width) || !positiveFinite(dims.Height) || !positiveFinite(dims.Depth) {
			return fmt.Errorf("design entity %s: %w", e.ID, ErrInvalidDimensions)
		}
	}
	return nil
}

func (de DesignEntity) placement() PlacementCommand {
	pos := de.Position
	return PlacementCommand{
		Name:      de.Metadata.EntityName,
		Type:      de.Type,
		URL:       de.URL,
		Resizable: de.Resizable,
		Position:  &pos,
		Rotation:  de.Rotation,
		Fixed:     de.Fixed,
	}
}

// ApplyDesign replaces the floorplan and entities with the design's contents.
// Entities are re-added and load their models again. An invalid design
// leaves both untouched.
func ApplyDesign(fp *Floorplan, reg *Registry, d Design) error {
	if err := d.Validate(); err != nil {
		return err
	}

	if reg != nil {
		reg.Clear()
	}
	fp.Clear()

	corners := make(map[string]*Corner, len(d.Corners))
	for _, dc := range d.Corners {
		c := fp.NewCorner(Point{X: dc.X, Y: dc.Y})
		c.ID = dc.ID
		corners[dc.ID] = c
	}
	for _, dw := range d.Walls {
		w := fp.AddWallBetween(corners[dw.Start], corners[dw.End])
		if dw.ID != "" {
			w.ID = dw.ID
		}
		if dw.Thickness > 0 {
			w.Thickness = dw.Thickness
		}
		if dw.Height > 0 {
			w.Height = dw.Height
		}
		if dw.FrontTexture != nil {
			w.front.Texture = *dw.FrontTexture
		}
		if dw.BackTexture != nil {
			w.back.Texture = *dw.BackTexture
		}
	}
	for _, dr := range d.Rooms {
		if dr.FloorTexture != nil {
			fp.floorTextures[dr.ID] = *dr.FloorTexture
		}
	}
	fp.Update()

	if reg == nil {
		return nil
	}
	for _, de := range d.Entities {
		dims := de.Dimensions
		if _, err := reg.add(de.placement(), de.ID, &dims); err != nil {
			return fmt.Errorf("restore entity %s: %w", de.ID, err)
		}
	}
	return nil
}

// SaveDesign writes the design as JSON
func SaveDesign(path string, d Design) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling design: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing design file: %w", err)
	}
	return nil
}

// LoadDesign reads a JSON design file
func LoadDesign(path string) (Design, error) {
	var d Design
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return d, fmt.Errorf("%w: %s", ErrDesignNotFound, path)
		}
		return d, fmt.Errorf("reading design file: %w", err)
	}
	if err := json.Unmarshal(data, &d); err != nil {
		return d, fmt.Errorf("parsing design JSON: %w", err)
	}
	return d, d.Validate()
}
