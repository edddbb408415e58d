package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wallRay() Ray {
	return Ray{Origin: Vec3{X: 150, Y: 100, Z: 200}, Direction: Vec3{Z: -1}}
}

func TestTextureSelectorAppliesToWallFace(t *testing.T) {
	fp, walls, _, v := newScene(t)
	sel := NewTextureSelector(fp, v, nil)
	defer sel.Close()

	var applied []TextureTarget
	sel.Applied.Subscribe(func(tt TextureTarget) { applied = append(applied, tt) })

	v.ClickRay(wallRay())
	require.Same(t, walls[0].Front(), sel.Target().HalfEdge)
	assert.Equal(t, TabWalls, sel.Tab())

	brick := sel.Textures()[1]
	require.Equal(t, "Light Brick", brick.Name)
	assert.True(t, sel.Apply(brick.Command()))

	assert.Equal(t, "rooms/textures/light_brick.jpg", walls[0].Front().Texture.URL)
	assert.Equal(t, 100.0, walls[0].Front().Texture.Repeat.UVScale)
	assert.True(t, walls[0].Back().Texture.IsZero(), "each face carries its own texture")
	assert.Len(t, applied, 1)
}

func TestTextureSelectorAppliesToFloor(t *testing.T) {
	fp, walls, _, v := newScene(t)
	sel := NewTextureSelector(fp, v, nil)
	defer sel.Close()

	v.ClickRay(downRay(150, 200))
	require.NotNil(t, sel.Target().Room)
	assert.Equal(t, TabFloors, sel.Tab())

	wood := sel.Textures()[0]
	require.True(t, sel.Apply(wood.Command()))
	assert.Equal(t, wood.URL, fp.Rooms()[0].Floor.URL)

	// the target follows the room through a rebuild
	fp.MoveCorner(walls[1].End(), Point{320, 420})
	fp.Update()
	require.NotNil(t, sel.Target().Room)
	assert.Same(t, fp.Rooms()[0], sel.Target().Room)
	assert.Equal(t, wood.URL, fp.Rooms()[0].Floor.URL)

	// and is dropped when the room disappears
	fp.DeleteWall(walls[2])
	fp.Update()
	assert.True(t, sel.Target().IsZero())
}

func TestTextureSelectorWithoutTarget(t *testing.T) {
	fp, _, _, v := newScene(t)
	sel := NewTextureSelector(fp, v, nil)
	defer sel.Close()

	assert.False(t, sel.Apply(TextureCommand{URL: "rooms/textures/hardwood.png"}))

	v.ClickRay(downRay(150, 200))
	assert.False(t, sel.Apply(TextureCommand{}), "an empty url is ignored")

	v.ClickRay(downRay(1000, 1000))
	assert.True(t, sel.Target().IsZero())
	assert.False(t, sel.Apply(TextureCommand{URL: "rooms/textures/hardwood.png"}))
}

func TestTextureSelectorClearedByDeletedWall(t *testing.T) {
	fp, walls, _, v := newScene(t)
	sel := NewTextureSelector(fp, v, nil)
	defer sel.Close()

	v.ClickRay(wallRay())
	require.False(t, sel.Target().IsZero())
	fp.DeleteWall(walls[0])
	assert.True(t, sel.Target().IsZero())
}

func TestTextureSelectorSetTab(t *testing.T) {
	fp, _, _, v := newScene(t)
	sel := NewTextureSelector(fp, v, nil)
	defer sel.Close()

	resets := 0
	sel.Reset.Subscribe(func(struct{}) { resets++ })

	sel.SetTab(TabWalls)
	assert.Equal(t, 0, resets)
	sel.SetTab(TabFloors)
	assert.Equal(t, 1, resets)
	assert.Equal(t, "Fine Wood", sel.Textures()[0].Name)
}
