package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/kwv/roomplanner/planner"
)

// designStore is the subset of the SQLite store the handlers use
type designStore interface {
	Save(ctx context.Context, name string, d planner.Design) error
	Load(ctx context.Context, name string) (planner.Design, error)
	List(ctx context.Context) ([]planner.DesignInfo, error)
	Delete(ctx context.Context, name string) error
}

// newHTTPServer creates an HTTP server with all endpoints
func newHTTPServer(s *planner.Session, store designStore, renderer *planner.Renderer2D, loader planner.AssetLoader) http.Handler {
	h := &handlers{session: s, store: store, renderer: renderer, loader: loader}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("GET /floorplan.svg", h.floorplan(planner.FormatSVG, "image/svg+xml"))
	mux.HandleFunc("GET /floorplan.png", h.floorplan(planner.FormatPNG, "image/png"))

	mux.HandleFunc("GET /api/walls", h.listWalls)
	mux.HandleFunc("POST /api/walls", h.addWall)
	mux.HandleFunc("DELETE /api/walls/{id}", h.deleteWall)
	mux.HandleFunc("POST /api/walls/{id}/length", h.setWallLength)

	mux.HandleFunc("POST /api/pointer", h.pointer)
	mux.HandleFunc("POST /api/mode", h.setMode)
	mux.HandleFunc("POST /api/pick", h.pick)
	mux.HandleFunc("POST /api/view", h.view)
	mux.HandleFunc("GET /api/room", h.roomAt)

	mux.HandleFunc("GET /api/entities", h.listEntities)
	mux.HandleFunc("POST /api/entities", h.placeEntity)
	mux.HandleFunc("PATCH /api/entities/{id}", h.updateEntity)
	mux.HandleFunc("DELETE /api/entities/{id}", h.deleteEntity)

	mux.HandleFunc("GET /api/selection", h.selection)
	mux.HandleFunc("POST /api/texture", h.applyTexture)
	mux.HandleFunc("GET /api/textures/thumbnail", h.thumbnail)
	mux.HandleFunc("GET /api/textures/{tab}", h.listTextures)
	mux.HandleFunc("POST /api/textures/{tab}", h.selectTab)
	mux.HandleFunc("GET /api/loading", h.loading)

	mux.HandleFunc("GET /api/design", h.getDesign)
	mux.HandleFunc("PUT /api/design", h.putDesign)
	mux.HandleFunc("GET /api/design.geojson", h.geojson)
	mux.HandleFunc("GET /api/designs", h.listDesigns)
	mux.HandleFunc("GET /api/designs/{name}", h.loadDesign)
	mux.HandleFunc("PUT /api/designs/{name}", h.saveDesign)
	mux.HandleFunc("DELETE /api/designs/{name}", h.deleteDesign)

	// Wrap mux with logging middleware
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("[HTTP] %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)
		mux.ServeHTTP(w, r)
	})
}

type handlers struct {
	session  *planner.Session
	store    designStore
	renderer *planner.Renderer2D
	loader   planner.AssetLoader
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[HTTP] Error encoding response: %v", err)
	}
}

// writeError maps planner errors onto HTTP statuses
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, planner.ErrEntityNotFound),
		errors.Is(err, planner.ErrWallNotFound),
		errors.Is(err, planner.ErrDesignNotFound),
		errors.Is(err, planner.ErrRoomNotFound),
		errors.Is(err, planner.ErrNoWallNearby):
		status = http.StatusNotFound
	case errors.Is(err, planner.ErrNotResizable),
		errors.Is(err, planner.ErrEntityFixed),
		errors.Is(err, planner.ErrDegenerateWall):
		status = http.StatusConflict
	case errors.Is(err, planner.ErrInvalidLength),
		errors.Is(err, planner.ErrInvalidDimensions),
		errors.Is(err, planner.ErrUnknownEntityType),
		errors.As(err, new(*badRequest)):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

type badRequest struct{ err error }

func (e *badRequest) Error() string { return e.err.Error() }
func (e *badRequest) Unwrap() error { return e.err }

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &badRequest{fmt.Errorf("invalid request body: %w", err)}
	}
	return nil
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	var walls, entities int
	_ = h.session.Do(func() error {
		walls = len(h.session.Floorplan.Walls())
		entities = h.session.Registry.Len()
		return nil
	})
	writeJSON(w, http.StatusOK, struct {
		Status    string    `json:"status"`
		Timestamp time.Time `json:"timestamp"`
		Walls     int       `json:"walls"`
		Entities  int       `json:"entities"`
		Loading   int       `json:"loading"`
	}{
		Status:    "ok",
		Timestamp: time.Now(),
		Walls:     walls,
		Entities:  entities,
		Loading:   h.session.Loading.Count(),
	})
}

func (h *handlers) floorplan(format planner.RenderFormat, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "no-cache")
		err := h.session.Do(func() error {
			return h.renderer.Render(w, format, h.session.Viewer2D, h.session.Registry.Entities())
		})
		if err != nil {
			log.Printf("[HTTP] Error rendering floorplan %s: %v", format, err)
		}
	}
}

// Walls

func (h *handlers) wallList() []planner.DesignWall {
	return planner.ExportDesign(h.session.Floorplan, nil).Walls
}

func (h *handlers) listWalls(w http.ResponseWriter, r *http.Request) {
	var walls []planner.DesignWall
	_ = h.session.Do(func() error {
		walls = h.wallList()
		return nil
	})
	writeJSON(w, http.StatusOK, walls)
}

type wallRequest struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

func (h *handlers) addWall(w http.ResponseWriter, r *http.Request) {
	var req wallRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	start, end := planner.Point{X: req.X1, Y: req.Y1}, planner.Point{X: req.X2, Y: req.Y2}
	if planner.Distance(start, end) == 0 {
		writeError(w, planner.ErrDegenerateWall)
		return
	}

	var id string
	_ = h.session.Do(func() error {
		wall := h.session.Floorplan.AddWall(start, end)
		h.session.Floorplan.Update()
		h.session.Viewer2D.Redraw()
		id = wall.ID
		return nil
	})
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *handlers) deleteWall(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	err := h.session.Do(func() error {
		wall, ok := h.session.Floorplan.WallByID(id)
		if !ok {
			return fmt.Errorf("%w: %s", planner.ErrWallNotFound, id)
		}
		h.session.Floorplan.DeleteWall(wall)
		h.session.Floorplan.Update()
		h.session.Viewer2D.Redraw()
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) setWallLength(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Length json.RawMessage `json:"length"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	// accept both "250" and 250, exactly as typed into the editor
	input := string(req.Length)
	if unquoted, err := strconv.Unquote(input); err == nil {
		input = unquoted
	}

	id := r.PathValue("id")
	var length float64
	err := h.session.Do(func() error {
		wall, ok := h.session.Floorplan.WallByID(id)
		if !ok {
			return fmt.Errorf("%w: %s", planner.ErrWallNotFound, id)
		}
		ed := h.session.LengthEditor
		ed.OpenWall(wall)
		if err := ed.Apply(input); err != nil {
			ed.Cancel()
			return err
		}
		length = wall.Length()
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "length": length})
}

// 2D pointer input

type pointerRequest struct {
	Event string  `json:"event"` // down, move, up, double, done
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

type editorView struct {
	Open  bool   `json:"open"`
	Wall  string `json:"wall,omitempty"`
	Input string `json:"input,omitempty"`
}

func (h *handlers) pointer(w http.ResponseWriter, r *http.Request) {
	var req pointerRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	var resp struct {
		Mode     planner.Mode `json:"mode"`
		Revision int          `json:"revision"`
		Walls    int          `json:"walls"`
		Editor   editorView   `json:"editor"`
	}
	err := h.session.Do(func() error {
		v := h.session.Viewer2D
		switch req.Event {
		case "down":
			v.PointerDown(req.X, req.Y)
		case "move":
			v.PointerMove(req.X, req.Y)
		case "up":
			v.PointerUp(req.X, req.Y)
		case "double":
			v.DoubleClick(req.X, req.Y)
		case "done":
			v.Done()
		default:
			return &badRequest{fmt.Errorf("unknown pointer event %q", req.Event)}
		}
		resp.Mode = v.Mode()
		resp.Revision = v.Revision()
		resp.Walls = len(h.session.Floorplan.Walls())
		if ed := h.session.LengthEditor; ed.IsOpen() {
			resp.Editor = editorView{Open: true, Wall: ed.Wall().ID, Input: ed.Input}
		}
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) setMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode planner.Mode `json:"mode"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	h.session.SetMode(req.Mode)
	writeJSON(w, http.StatusOK, map[string]planner.Mode{"mode": req.Mode})
}

// View navigation

type viewRequest struct {
	Pan *struct {
		DX float64 `json:"dx"`
		DY float64 `json:"dy"`
	} `json:"pan,omitempty"`
	Zoom *struct {
		Factor float64 `json:"factor"`
		X      float64 `json:"x"`
		Y      float64 `json:"y"`
	} `json:"zoom,omitempty"`
	Orbit *struct {
		Azimuth   float64 `json:"azimuth"`
		Elevation float64 `json:"elevation"`
	} `json:"orbit,omitempty"`
	Dolly *float64 `json:"dolly,omitempty"`
}

type viewResponse struct {
	PixelsPerCm float64        `json:"pixelsPerCm"`
	Revision    int            `json:"revision"`
	Camera      planner.Camera `json:"camera"`
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
	var req viewRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Zoom != nil && req.Zoom.Factor <= 0 {
		writeError(w, &badRequest{fmt.Errorf("zoom factor must be greater than 0")})
		return
	}
	if req.Dolly != nil && *req.Dolly <= 0 {
		writeError(w, &badRequest{fmt.Errorf("dolly factor must be greater than 0")})
		return
	}

	var resp viewResponse
	_ = h.session.Do(func() error {
		v2, cam := h.session.Viewer2D, h.session.Viewer3D.Camera
		if req.Pan != nil {
			v2.Pan(req.Pan.DX, req.Pan.DY)
		}
		if req.Zoom != nil {
			v2.Zoom(req.Zoom.Factor, req.Zoom.X, req.Zoom.Y)
		}
		if req.Orbit != nil {
			cam.Orbit(req.Orbit.Azimuth, req.Orbit.Elevation)
		}
		if req.Dolly != nil {
			cam.Dolly(*req.Dolly)
		}
		resp = viewResponse{
			PixelsPerCm: v2.Viewport().PixelsPerUnit(),
			Revision:    v2.Revision(),
			Camera:      *cam,
		}
		return nil
	})
	writeJSON(w, http.StatusOK, resp)
}

type roomView struct {
	ID    string          `json:"id"`
	Area  float64         `json:"areaCm2"`
	Floor planner.Texture `json:"floor"`
}

// roomAt reports the room under a 2D canvas pixel
func (h *handlers) roomAt(w http.ResponseWriter, r *http.Request) {
	x, errX := strconv.ParseFloat(r.URL.Query().Get("x"), 64)
	y, errY := strconv.ParseFloat(r.URL.Query().Get("y"), 64)
	if errX != nil || errY != nil {
		writeError(w, &badRequest{fmt.Errorf("x and y query parameters must be numbers")})
		return
	}

	var resp roomView
	err := h.session.Do(func() error {
		room := h.session.Viewer2D.RoomAt(x, y)
		if room == nil {
			return fmt.Errorf("%w: (%g, %g)", planner.ErrRoomNotFound, x, y)
		}
		resp = roomView{ID: room.ID, Area: room.Area(), Floor: room.Floor}
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// 3D picking

type pickRequest struct {
	X      float64      `json:"x"`
	Y      float64      `json:"y"`
	Width  float64      `json:"width"`
	Height float64      `json:"height"`
	Ray    *planner.Ray `json:"ray,omitempty"`
}

type pickResponse struct {
	Kind     planner.PickKind `json:"kind"`
	WallID   string           `json:"wallId,omitempty"`
	Front    bool             `json:"front,omitempty"`
	RoomID   string           `json:"roomId,omitempty"`
	EntityID string           `json:"entityId,omitempty"`
	Point    *planner.Vec3    `json:"point,omitempty"`
}

func (h *handlers) pick(w http.ResponseWriter, r *http.Request) {
	var req pickRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	var resp pickResponse
	_ = h.session.Do(func() error {
		var res planner.PickResult
		if req.Ray != nil {
			res = h.session.Viewer3D.ClickRay(*req.Ray)
		} else {
			res = h.session.Viewer3D.Click(req.X, req.Y, req.Width, req.Height)
		}
		resp.Kind = res.Kind
		switch res.Kind {
		case planner.PickWall:
			resp.WallID, resp.Front = res.HalfEdge.Wall.ID, res.HalfEdge.Front
		case planner.PickFloor:
			resp.RoomID = res.Room.ID
		case planner.PickEntity:
			resp.EntityID = res.Entity.ID
		}
		if res.Kind != planner.PickNothing {
			resp.Point = &res.Point
		}
		return nil
	})
	writeJSON(w, http.StatusOK, resp)
}

// Entities

func (h *handlers) listEntities(w http.ResponseWriter, r *http.Request) {
	var out []planner.EntitySnapshot
	_ = h.session.Do(func() error {
		out = make([]planner.EntitySnapshot, 0, h.session.Registry.Len())
		for _, e := range h.session.Registry.Entities() {
			out = append(out, e.Snapshot())
		}
		return nil
	})
	writeJSON(w, http.StatusOK, out)
}

func (h *handlers) placeEntity(w http.ResponseWriter, r *http.Request) {
	var cmd planner.PlacementCommand
	if err := decode(r, &cmd); err != nil {
		writeError(w, err)
		return
	}
	// a bare catalog name places the catalog item
	if cmd.URL == "" {
		if item, ok := h.session.Catalog.Item(cmd.Name); ok {
			position, rotation := cmd.Position, cmd.Rotation
			cmd = item.PlacementCommand
			cmd.Position, cmd.Rotation = position, rotation
		}
	}

	e, err := h.session.PlaceEntity(r.Context(), cmd)
	if err != nil {
		writeError(w, err)
		return
	}
	var snap planner.EntitySnapshot
	_ = h.session.Do(func() error {
		snap = e.Snapshot()
		return nil
	})
	writeJSON(w, http.StatusAccepted, snap)
}

type entityUpdate struct {
	WidthCm  *float64      `json:"widthCm,omitempty"`
	HeightCm *float64      `json:"heightCm,omitempty"`
	DepthCm  *float64      `json:"depthCm,omitempty"`
	Fixed    *bool         `json:"fixed,omitempty"`
	Position *planner.Vec3 `json:"position,omitempty"`
	Rotation *float64      `json:"rotation,omitempty"`
}

func meters(cm *float64) *float64 {
	if cm == nil {
		return nil
	}
	m := planner.CmToMeters(*cm)
	return &m
}

func (h *handlers) updateEntity(w http.ResponseWriter, r *http.Request) {
	var req entityUpdate
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	id := r.PathValue("id")
	var view planner.ContextMenuView
	err := h.session.Do(func() error {
		e, ok := h.session.Registry.Get(id)
		if !ok {
			return fmt.Errorf("%w: %s", planner.ErrEntityNotFound, id)
		}
		if h.session.Viewer3D.SelectedEntity() != e {
			h.session.Viewer3D.Select(e)
		}
		edit := planner.EntityEdit{
			Width:    meters(req.WidthCm),
			Height:   meters(req.HeightCm),
			Depth:    meters(req.DepthCm),
			Fixed:    req.Fixed,
			Position: req.Position,
			Rotation: req.Rotation,
		}
		if err := e.Edit(edit); err != nil {
			return err
		}
		view = h.session.Menu.View()
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *handlers) deleteEntity(w http.ResponseWriter, r *http.Request) {
	if err := h.session.RemoveEntity(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Selection and textures

type targetView struct {
	Kind   string `json:"kind"` // wall, floor or empty
	WallID string `json:"wallId,omitempty"`
	Front  bool   `json:"front,omitempty"`
	RoomID string `json:"roomId,omitempty"`
}

func (h *handlers) selection(w http.ResponseWriter, r *http.Request) {
	var resp struct {
		Entity *planner.ContextMenuView `json:"entity"`
		Target targetView               `json:"target"`
		Tab    planner.TextureTab       `json:"tab"`
		Editor editorView               `json:"editor"`
	}
	_ = h.session.Do(func() error {
		if v := h.session.Menu.View(); v.Enabled {
			resp.Entity = &v
		}
		t := h.session.Textures.Target()
		switch {
		case t.HalfEdge != nil:
			resp.Target = targetView{Kind: "wall", WallID: t.HalfEdge.Wall.ID, Front: t.HalfEdge.Front}
		case t.Room != nil:
			resp.Target = targetView{Kind: "floor", RoomID: t.Room.ID}
		}
		resp.Tab = h.session.Textures.Tab()
		if ed := h.session.LengthEditor; ed.IsOpen() {
			resp.Editor = editorView{Open: true, Wall: ed.Wall().ID, Input: ed.Input}
		}
		return nil
	})
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) applyTexture(w http.ResponseWriter, r *http.Request) {
	var cmd planner.TextureCommand
	if err := decode(r, &cmd); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"applied": h.session.ApplyTexture(cmd)})
}

func (h *handlers) listTextures(w http.ResponseWriter, r *http.Request) {
	tab, err := planner.ParseTextureTab(r.PathValue("tab"))
	if err != nil {
		writeError(w, &badRequest{err})
		return
	}
	writeJSON(w, http.StatusOK, h.session.Catalog.Textures(tab))
}

func (h *handlers) selectTab(w http.ResponseWriter, r *http.Request) {
	tab, err := planner.ParseTextureTab(r.PathValue("tab"))
	if err != nil {
		writeError(w, &badRequest{err})
		return
	}
	_ = h.session.Do(func() error {
		h.session.Textures.SetTab(tab)
		return nil
	})
	writeJSON(w, http.StatusOK, map[string]planner.TextureTab{"tab": tab})
}

func (h *handlers) thumbnail(w http.ResponseWriter, r *http.Request) {
	ref := r.URL.Query().Get("url")
	if ref == "" {
		writeError(w, &badRequest{errors.New("url query parameter is required")})
		return
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))

	asset, err := h.loader.Load(r.Context(), ref)
	if err != nil {
		log.Printf("[HTTP] thumbnail %s: %v", ref, err)
		http.Error(w, "texture unavailable", http.StatusBadGateway)
		return
	}
	caption := ""
	for _, t := range append(h.session.Catalog.Textures(planner.TabWalls), h.session.Catalog.Textures(planner.TabFloors)...) {
		if t.URL == ref {
			caption = t.Name
			break
		}
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "max-age=3600")
	if err := planner.RenderThumbnail(w, asset, size, caption); err != nil {
		log.Printf("[HTTP] Error rendering thumbnail %s: %v", ref, err)
	}
}

func (h *handlers) loading(w http.ResponseWriter, r *http.Request) {
	n := h.session.Loading.Count()
	writeJSON(w, http.StatusOK, map[string]any{"loading": n > 0, "count": n})
}

// Designs

func (h *handlers) getDesign(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.session.ExportDesign())
}

func (h *handlers) putDesign(w http.ResponseWriter, r *http.Request) {
	var d planner.Design
	if err := decode(r, &d); err != nil {
		writeError(w, err)
		return
	}
	if err := h.session.ApplyDesign(d); err != nil {
		writeError(w, &badRequest{err})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) geojson(w http.ResponseWriter, r *http.Request) {
	var data []byte
	err := h.session.Do(func() error {
		var err error
		data, err = planner.MarshalFloorplanGeoJSON(h.session.Floorplan, h.session.Registry.Entities())
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	_, _ = w.Write(data)
}

func (h *handlers) requireStore(w http.ResponseWriter) bool {
	if h.store == nil {
		http.Error(w, "design store unavailable", http.StatusServiceUnavailable)
		return false
	}
	return true
}

func (h *handlers) listDesigns(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}
	list, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *handlers) loadDesign(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}
	d, err := h.store.Load(r.Context(), r.PathValue("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.session.ApplyDesign(d); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *handlers) saveDesign(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}
	name := r.PathValue("name")
	d := h.session.ExportDesign()
	if err := h.store.Save(r.Context(), name, d); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"name": name, "walls": len(d.Walls), "entities": len(d.Entities)})
}

func (h *handlers) deleteDesign(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}
	if err := h.store.Delete(r.Context(), r.PathValue("name")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
