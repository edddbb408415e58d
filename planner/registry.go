package planner

import (
	"context"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry owns every placed entity and drives their asynchronous asset loads.
//
// Each Add fires Loading synchronously, then exactly one of Loaded or
// LoadFailed once the load finishes. Load completions run through the
// dispatcher so they serialize with the session's other commands.
type Registry struct {
	mu       sync.Mutex
	entities []*Entity

	loader      AssetLoader
	loadTimeout time.Duration

	dispatch func(func())
	serial   sync.Mutex
	place    func(*Entity)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	Loading    Event[*Entity]
	Loaded     Event[*Entity]
	LoadFailed Event[*Entity]
	Removed    Event[*Entity]
	Changed    Event[*Entity]
}

// NewRegistry creates a registry that loads entity models through loader
func NewRegistry(loader AssetLoader, loadTimeout time.Duration) *Registry {
	if loadTimeout <= 0 {
		loadTimeout = DefaultLoadTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())
	r := &Registry{
		loader:      loader,
		loadTimeout: loadTimeout,
		ctx:         ctx,
		cancel:      cancel,
	}
	r.dispatch = func(fn func()) {
		r.serial.Lock()
		defer r.serial.Unlock()
		fn()
	}
	return r
}

// SetDispatcher routes load completions through fn, which must run its
// argument exactly once.
func (r *Registry) SetDispatcher(fn func(func())) {
	if fn != nil {
		r.dispatch = fn
	}
}

// SetPlacer installs the placement constraint applied when an entity is added
// and again once its real size is known.
func (r *Registry) SetPlacer(fn func(*Entity)) {
	r.place = fn
}

// Add validates the command, registers a new entity in the loading state and
// starts loading its model.
func (r *Registry) Add(cmd PlacementCommand) (*Entity, error) {
	return r.add(cmd, "", nil)
}

func (r *Registry) add(cmd PlacementCommand, id string, dims *Dimensions) (*Entity, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if id == "" {
		id = uuid.NewString()
	}

	e := &Entity{
		ID:        id,
		Type:      cmd.Type,
		URL:       cmd.URL,
		Metadata:  EntityMetadata{EntityName: cmd.Name},
		rotation:  normalizeDegrees(cmd.Rotation),
		fixed:     cmd.Fixed,
		resizable: cmd.Resizable,
		state:     EntityLoading,
		owner:     r,
	}
	if dims != nil {
		e.dimensions = *dims
	} else {
		e.dimensions = cmd.dimensions(nil)
	}
	if cmd.Position != nil {
		e.position = *cmd.Position
	}

	r.mu.Lock()
	r.entities = append(r.entities, e)
	r.mu.Unlock()

	if r.place != nil {
		r.place(e)
	}
	r.Loading.Emit(e)

	r.wg.Add(1)
	go r.load(e, cmd, dims != nil)
	return e, nil
}

func (r *Registry) load(e *Entity, cmd PlacementCommand, keepDims bool) {
	defer r.wg.Done()

	ctx, cancel := context.WithTimeout(r.ctx, r.loadTimeout)
	asset, err := r.loader.Load(ctx, e.URL)
	cancel()
	if err == nil && asset.Kind != AssetModel {
		err = fmt.Errorf("load entity %s: %s is a %s, not a model", e.ID, e.URL, asset.Kind)
	}

	r.dispatch(func() {
		if err != nil || !r.contains(e) {
			if err == nil {
				err = fmt.Errorf("entity %s removed before load completed", e.ID)
			}
			log.Printf("[ASSETS] entity %s (%s) failed to load: %v", e.ID, e.URL, err)
			e.state = EntityFailed
			r.detach(e)
			r.LoadFailed.Emit(e)
			return
		}

		if !keepDims {
			e.dimensions = cmd.dimensions(asset.Bounds)
		}
		e.state = EntityLoaded
		if r.place != nil {
			r.place(e)
		}
		r.Loaded.Emit(e)
	})
}

func (r *Registry) contains(e *Entity) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Contains(r.entities, e)
}

func (r *Registry) detach(e *Entity) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := slices.Index(r.entities, e)
	if idx < 0 {
		return false
	}
	r.entities = slices.Delete(r.entities, idx, idx+1)
	return true
}

// Remove deletes the entity from the registry. Removing an unknown entity is a no-op.
func (r *Registry) Remove(e *Entity) bool {
	if e == nil || !r.detach(e) {
		return false
	}
	r.Removed.Emit(e)
	return true
}

// Get looks an entity up by ID
func (r *Registry) Get(id string) (*Entity, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entities {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// Entities returns all registered entities in insertion order
func (r *Registry) Entities() []*Entity {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.entities)
}

// Len returns the number of registered entities
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entities)
}

// Clear removes every entity
func (r *Registry) Clear() {
	for _, e := range r.Entities() {
		r.Remove(e)
	}
}

// Wait blocks until all in-flight loads have completed. It must not be
// called from inside the dispatcher.
func (r *Registry) Wait() {
	r.wg.Wait()
}

// Close cancels in-flight loads and waits for them to report failure
func (r *Registry) Close() {
	r.cancel()
	r.wg.Wait()
}
