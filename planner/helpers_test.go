package planner

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
)

// mockLoader is a testify mock of AssetLoader
type mockLoader struct {
	mock.Mock
}

func (m *mockLoader) Load(ctx context.Context, ref string) (*Asset, error) {
	args := m.Called(ctx, ref)
	a, _ := args.Get(0).(*Asset)
	return a, args.Error(1)
}

func modelAsset(w, h, d float64) *Asset {
	return &Asset{Kind: AssetModel, Bounds: &Dimensions{Width: w, Height: h, Depth: d}}
}

// stubLoader answers every model reference with a 0.5 m cube, except URLs in fail
type stubLoader struct {
	fail map[string]bool
}

func (l *stubLoader) Load(ctx context.Context, ref string) (*Asset, error) {
	if l.fail[ref] {
		return nil, errors.New("not found")
	}
	return modelAsset(0.5, 0.5, 0.5), nil
}

// gateLoader blocks every load until release is closed or the context ends
type gateLoader struct {
	release chan struct{}
	once    sync.Once
}

func newGateLoader() *gateLoader { return &gateLoader{release: make(chan struct{})} }

func (l *gateLoader) Open() { l.once.Do(func() { close(l.release) }) }

func (l *gateLoader) Load(ctx context.Context, ref string) (*Asset, error) {
	select {
	case <-l.release:
		return modelAsset(1, 1, 1), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// squareRoom builds a closed 300×400 rectangle with corners at
// (0,0), (300,0), (300,400), (0,400)
func squareRoom(t *testing.T) (*Floorplan, []*Wall) {
	t.Helper()
	fp := NewFloorplan()
	pts := []Point{{0, 0}, {300, 0}, {300, 400}, {0, 400}}
	walls := make([]*Wall, 0, 4)
	for i := range pts {
		walls = append(walls, fp.AddWall(pts[i], pts[(i+1)%len(pts)]))
	}
	fp.Update()
	return fp, walls
}

func basicAt(x, z float64) PlacementCommand {
	return PlacementCommand{
		Name:      "box",
		Type:      EntityBasic,
		URL:       "models/gltf/box.glb",
		Resizable: true,
		Position:  &Vec3{X: x, Y: 25, Z: z},
	}
}

func ptr[T any](v T) *T { return &v }

// downRay points straight down onto floorplan point (x, z)
func downRay(x, z float64) Ray {
	return Ray{Origin: Vec3{X: x, Y: 1000, Z: z}, Direction: Vec3{Y: -1}}
}
