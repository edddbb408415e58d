package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
)

// Session is one planner workspace: the floorplan, its entities, both
// controllers and the overlays, wired together. All mutation goes through
// Do so HTTP handlers, MQTT commands and asset load completions never
// interleave.
type Session struct {
	mu sync.Mutex

	Config    *Config
	Catalog   *Catalog
	Floorplan *Floorplan
	Registry  *Registry
	Loading   *LoadCounter
	Viewer2D  *Viewer2D
	Viewer3D  *Viewer3D

	Menu         *ContextMenu
	Textures     *TextureSelector
	LengthEditor *WallLengthEditor

	subs subscriptions

	// Reset fires on mode and texture tab changes and clears transient selection
	Reset Signal
}

// NewSession builds and wires a session. A nil cfg or catalog selects the defaults.
func NewSession(cfg *Config, catalog *Catalog, loader AssetLoader) *Session {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if catalog == nil {
		catalog = DefaultCatalog()
	}

	fp := NewFloorplan()
	fp.WallThickness = cfg.Walls.Thickness
	fp.WallHeight = cfg.Walls.Height

	s := &Session{Config: cfg, Catalog: catalog, Floorplan: fp}

	s.Registry = NewRegistry(loader, cfg.Assets.LoadTimeout)
	s.Registry.SetDispatcher(func(fn func()) {
		s.mu.Lock()
		defer s.mu.Unlock()
		fn()
	})
	s.Registry.SetPlacer(func(e *Entity) { PlaceEntity(fp, e) })
	s.Loading = NewLoadCounter(s.Registry)

	// entities follow the walls they hang on; subscribed before the 3D view so it rebuilds with final positions
	s.subs.add(fp.WallRemoved.Subscribe(func(w *Wall) {
		for _, e := range s.Registry.Entities() {
			if e.wall == w {
				e.wall = nil
			}
		}
	}))
	s.subs.add(fp.Updated.Subscribe(func(struct{}) {
		for _, e := range s.Registry.Entities() {
			PlaceEntity(fp, e)
		}
	}))
	s.subs.add(s.Registry.Changed.Subscribe(func(e *Entity) { PlaceEntity(fp, e) }))

	s.Viewer2D = NewViewer2D(fp, cfg.Viewer2DOptions())
	s.Viewer3D = NewViewer3D(fp, s.Registry)
	s.Menu = NewContextMenu(s.Viewer3D)
	s.Textures = NewTextureSelector(fp, s.Viewer3D, catalog)
	s.LengthEditor = NewWallLengthEditor(s.Viewer2D)

	s.subs.add(s.Viewer2D.ModeChanged.Subscribe(func(Mode) { Fire(&s.Reset) }))
	s.subs.add(s.Textures.Reset.Subscribe(func(struct{}) { Fire(&s.Reset) }))
	s.subs.add(s.Reset.Subscribe(func(struct{}) {
		s.Textures.Clear()
		s.Viewer3D.Unselect()
		s.LengthEditor.Cancel()
	}))

	s.Viewer3D.Camera.Frame(fp.Bounds())
	return s
}

// Do runs fn with exclusive access to the session
func (s *Session) Do(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

// Close cancels in-flight loads and detaches every component. It must not
// be called from inside Do.
func (s *Session) Close() {
	s.Registry.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.LengthEditor.Close()
	s.Textures.Close()
	s.Menu.Close()
	s.Viewer3D.Close()
	s.Loading.Close()
	s.subs.close()
}

// Wait blocks until all in-flight entity loads have completed
func (s *Session) Wait() { s.Registry.Wait() }

// AttachPublisher mirrors floorplan, selection and loading state onto p
func (s *Session) AttachPublisher(p *Publisher) {
	s.subs.add(s.Floorplan.Updated.Subscribe(func(struct{}) {
		logPublishError("floorplan", p.PublishFloorplan(ExportDesign(s.Floorplan, nil)))
	}))
	s.subs.add(s.Menu.Changed.Subscribe(func(v ContextMenuView) {
		var view *ContextMenuView
		if v.Enabled {
			view = &v
		}
		logPublishError("selection", p.PublishSelection(view))
	}))
	s.subs.add(s.Loading.Changed.Subscribe(func(n int) {
		logPublishError("loading", p.PublishLoading(n))
	}))
	// textures change the design without a floorplan update
	s.subs.add(s.Textures.Applied.Subscribe(func(TextureTarget) {
		logPublishError("floorplan", p.PublishFloorplan(ExportDesign(s.Floorplan, nil)))
	}))
}

// PlaceEntity adds an entity from a placement command
func (s *Session) PlaceEntity(ctx context.Context, cmd PlacementCommand) (*Entity, error) {
	var e *Entity
	err := s.Do(func() error {
		var err error
		e, err = s.Viewer3D.AddEntity(ctx, cmd)
		return err
	})
	return e, err
}

// RemoveEntity deletes an entity by ID
func (s *Session) RemoveEntity(id string) error {
	return s.Do(func() error {
		e, ok := s.Registry.Get(id)
		if !ok {
			return fmt.Errorf("%w: %s", ErrEntityNotFound, id)
		}
		s.Viewer3D.RemoveEntity(e)
		return nil
	})
}

// SetMode switches the 2D interaction mode
func (s *Session) SetMode(m Mode) {
	_ = s.Do(func() error {
		s.Viewer2D.SetMode(m)
		return nil
	})
}

// ApplyTexture applies a texture to the current target, reporting whether one was set
func (s *Session) ApplyTexture(cmd TextureCommand) bool {
	var applied bool
	_ = s.Do(func() error {
		applied = s.Textures.Apply(cmd)
		return nil
	})
	return applied
}

// Command is a remote instruction received over MQTT
type Command struct {
	Type    string            `json:"type"`
	Mode    string            `json:"mode,omitempty"`
	Entity  *PlacementCommand `json:"entity,omitempty"`
	ID      string            `json:"id,omitempty"`
	Texture *TextureCommand   `json:"texture,omitempty"`
}

// Execute applies a remote command
func (s *Session) Execute(ctx context.Context, cmd Command) error {
	switch cmd.Type {
	case "mode":
		m, err := ParseMode(cmd.Mode)
		if err != nil {
			return err
		}
		s.SetMode(m)
	case "placeEntity":
		if cmd.Entity == nil {
			return fmt.Errorf("placeEntity: missing entity")
		}
		_, err := s.PlaceEntity(ctx, *cmd.Entity)
		return err
	case "removeEntity":
		return s.RemoveEntity(cmd.ID)
	case "texture":
		if cmd.Texture == nil {
			return fmt.Errorf("texture: missing texture")
		}
		s.ApplyTexture(*cmd.Texture)
	default:
		return fmt.Errorf("unknown command %q", cmd.Type)
	}
	return nil
}

// HandleCommandPayload decodes and executes a JSON command, logging failures
func (s *Session) HandleCommandPayload(payload []byte) {
	var cmd Command
	if err := json.Unmarshal(payload, &cmd); err != nil {
		log.Printf("[MQTT] invalid command payload: %v", err)
		return
	}
	if err := s.Execute(context.Background(), cmd); err != nil {
		log.Printf("[MQTT] command %s failed: %v", cmd.Type, err)
	}
}

// ExportDesign snapshots the session
func (s *Session) ExportDesign() Design {
	var d Design
	_ = s.Do(func() error {
		d = ExportDesign(s.Floorplan, s.Registry)
		return nil
	})
	return d
}

// ApplyDesign replaces the session contents with d
func (s *Session) ApplyDesign(d Design) error {
	return s.Do(func() error {
		Fire(&s.Reset)
		if err := ApplyDesign(s.Floorplan, s.Registry, d); err != nil {
			return err
		}
		s.Viewer3D.Camera.Frame(s.Floorplan.Bounds())
		s.Viewer2D.Redraw()
		return nil
	})
}
