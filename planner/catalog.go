package planner

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// TextureTab selects which surface the texture picker lists materials for
type TextureTab string

const (
	TabWalls  TextureTab = "walls"
	TabFloors TextureTab = "floors"
)

// ParseTextureTab validates a tab name
func ParseTextureTab(s string) (TextureTab, error) {
	switch t := TextureTab(strings.ToLower(s)); t {
	case TabWalls, TabFloors:
		return t, nil
	}
	return "", fmt.Errorf("unknown texture tab %q", s)
}

// CatalogItem is a placeable model offered to the user
type CatalogItem struct {
	PlacementCommand `yaml:",inline"`
	Image            string `json:"image,omitempty" yaml:"image,omitempty"`
}

// CatalogTexture is a material offered in the texture picker
type CatalogTexture struct {
	Name       string  `json:"name" yaml:"name"`
	URL        string  `json:"url" yaml:"url"`
	AutoRepeat bool    `json:"autoRepeat" yaml:"autoRepeat"`
	Scale      float64 `json:"scale" yaml:"scale"`
}

// Command converts the catalog entry into a texture command
func (t CatalogTexture) Command() TextureCommand {
	return TextureCommand{URL: t.URL, AutoRepeat: t.AutoRepeat, Scale: t.Scale}
}

// Catalog lists the items and materials available to a session
type Catalog struct {
	Items         []CatalogItem    `json:"items" yaml:"items"`
	WallTextures  []CatalogTexture `json:"wallTextures" yaml:"wallTextures"`
	FloorTextures []CatalogTexture `json:"floorTextures" yaml:"floorTextures"`
}

// LoadCatalog reads a catalog from a YAML file
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a YAML catalog
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks every item is a valid placement and every texture has a URL
func (c *Catalog) Validate() error {
	seen := make(map[string]bool)
	for i, it := range c.Items {
		if it.Name == "" {
			return fmt.Errorf("catalog item %d: name is required", i)
		}
		if seen[it.Name] {
			return fmt.Errorf("catalog item %q: duplicate name", it.Name)
		}
		seen[it.Name] = true
		if err := it.Validate(); err != nil {
			return fmt.Errorf("catalog item %q: %w", it.Name, err)
		}
	}
	for _, t := range slices.Concat(c.WallTextures, c.FloorTextures) {
		if t.URL == "" {
			return fmt.Errorf("catalog texture %q: url is required", t.Name)
		}
	}
	return nil
}

// Item finds an item by name
func (c *Catalog) Item(name string) (CatalogItem, bool) {
	for _, it := range c.Items {
		if it.Name == name {
			return it, true
		}
	}
	return CatalogItem{}, false
}

// Textures lists the materials for a tab
func (c *Catalog) Textures(tab TextureTab) []CatalogTexture {
	if tab == TabFloors {
		return slices.Clone(c.FloorTextures)
	}
	return slices.Clone(c.WallTextures)
}

// DefaultCatalog is the built-in set of models and materials
func DefaultCatalog() *Catalog {
	item := func(name string, t EntityType, url string, resizable bool) CatalogItem {
		return CatalogItem{
			PlacementCommand: PlacementCommand{Name: name, Type: t, URL: url, Resizable: resizable},
			Image:            strings.TrimSuffix(strings.Replace(url, "models/gltf/", "models/thumbnails/", 1), ".glb") + ".png",
		}
	}
	return &Catalog{
		Items: []CatalogItem{
			item("Closed Door", EntityInWallFloor, "models/gltf/closed-door.glb", false),
			item("Open Door", EntityInWallFloor, "models/gltf/open-door.glb", false),
			item("Window", EntityInWall, "models/gltf/window.glb", true),
			item("Chair", EntityFloor, "models/gltf/chair.glb", true),
			item("Red Chair", EntityFloor, "models/gltf/red-chair.glb", true),
			item("Dresser", EntityFloor, "models/gltf/dresser.glb", true),
			item("Bookshelf", EntityFloor, "models/gltf/bookshelf.glb", true),
			item("Queen Bed", EntityFloor, "models/gltf/queen-bed.glb", true),
			item("Coffee Table", EntityFloor, "models/gltf/coffee-table.glb", true),
			item("Sofa", EntityFloor, "models/gltf/sofa.glb", true),
			item("Wall Shelf", EntityWall, "models/gltf/wall-shelf.glb", true),
			item("Painting", EntityWall, "models/gltf/painting.glb", true),
			item("Plant", EntityBasic, "models/gltf/plant.glb", true),
		},
		WallTextures: []CatalogTexture{
			{Name: "Marble Tiles", URL: "rooms/textures/marbletiles.jpg", Scale: 300},
			{Name: "Light Brick", URL: "rooms/textures/light_brick.jpg", Scale: 100},
			{Name: "Wallmap", URL: "rooms/textures/wallmap.png", AutoRepeat: true, Scale: 1},
		},
		FloorTextures: []CatalogTexture{
			{Name: "Fine Wood", URL: "rooms/textures/light_fine_wood.jpg", Scale: 300},
			{Name: "Hardwood", URL: "rooms/textures/hardwood.png", Scale: 400},
			{Name: "Marble Tiles", URL: "rooms/textures/marbletiles.jpg", Scale: 300},
		},
	}
}
