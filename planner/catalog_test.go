package planner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalogYAML = `
items:
  - name: Chair
    type: FloorEntity
    url: models/gltf/chair.glb
    resizable: true
    image: models/thumbnails/chair.png
  - name: Window
    type: InWallEntity
    url: models/gltf/window.glb
    width: 1.2
wallTextures:
  - name: Brick
    url: rooms/textures/light_brick.jpg
    scale: 100
floorTextures:
  - name: Oak
    url: rooms/textures/oak.jpg
    autoRepeat: true
    scale: 1
`

func TestParseCatalog(t *testing.T) {
	c, err := ParseCatalog([]byte(testCatalogYAML))
	require.NoError(t, err)

	require.Len(t, c.Items, 2)
	chair, ok := c.Item("Chair")
	require.True(t, ok)
	assert.Equal(t, EntityFloor, chair.Type)
	assert.True(t, chair.Resizable)
	assert.Equal(t, "models/thumbnails/chair.png", chair.Image)

	window, ok := c.Item("Window")
	require.True(t, ok)
	require.NotNil(t, window.Width)
	assert.Equal(t, 1.2, *window.Width)

	_, ok = c.Item("Piano")
	assert.False(t, ok)

	floors := c.Textures(TabFloors)
	require.Len(t, floors, 1)
	assert.Equal(t, TextureCommand{URL: "rooms/textures/oak.jpg", AutoRepeat: true, Scale: 1}, floors[0].Command())
	assert.Equal(t, "Brick", c.Textures(TabWalls)[0].Name)
}

func TestParseCatalogRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad yaml", "items: [a, b"},
		{"unknown type", "items:\n  - name: X\n    type: Hover\n    url: x.glb\n"},
		{"missing name", "items:\n  - type: BasicEntity\n    url: x.glb\n"},
		{"duplicate", "items:\n  - {name: X, type: BasicEntity, url: x.glb}\n  - {name: X, type: BasicEntity, url: y.glb}\n"},
		{"texture without url", "wallTextures:\n  - name: Blank\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testCatalogYAML), 0644))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Len(t, c.Items, 2)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefaultCatalogIsValid(t *testing.T) {
	c := DefaultCatalog()
	require.NoError(t, c.Validate())
	assert.Len(t, c.Items, 13)

	door, ok := c.Item("Closed Door")
	require.True(t, ok)
	assert.Equal(t, EntityInWallFloor, door.Type)
	assert.False(t, door.Resizable)
	assert.Equal(t, "models/thumbnails/closed-door.png", door.Image)

	assert.Len(t, c.Textures(TabWalls), 3)
	assert.Len(t, c.Textures(TabFloors), 3)
}

func TestParseTextureTab(t *testing.T) {
	tab, err := ParseTextureTab("Floors")
	require.NoError(t, err)
	assert.Equal(t, TabFloors, tab)
	_, err = ParseTextureTab("ceiling")
	assert.Error(t, err)
}
