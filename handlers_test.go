package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kwv/roomplanner/planner"
)

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

// testLoader answers .glb references with a 0.5 m cube and anything else with
// a small PNG texture. References containing "missing" fail.
type testLoader struct{}

func (testLoader) Load(ctx context.Context, ref string) (*planner.Asset, error) {
	if strings.Contains(ref, "missing") {
		return nil, errors.New("not found")
	}
	if strings.HasSuffix(ref, ".glb") {
		return &planner.Asset{URL: ref, Kind: planner.AssetModel, Bounds: &planner.Dimensions{Width: 0.5, Height: 0.5, Depth: 0.5}}, nil
	}
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return &planner.Asset{URL: ref, Kind: planner.AssetTexture, Width: 8, Height: 8, Data: buf.Bytes()}, nil
}

// memStore is an in-memory designStore
type memStore struct {
	mu      sync.Mutex
	designs map[string]planner.Design
}

func newMemStore() *memStore { return &memStore{designs: make(map[string]planner.Design)} }

func (s *memStore) Save(ctx context.Context, name string, d planner.Design) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.designs[name] = d
	return nil
}

func (s *memStore) Load(ctx context.Context, name string) (planner.Design, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.designs[name]
	if !ok {
		return planner.Design{}, fmt.Errorf("%w: %s", planner.ErrDesignNotFound, name)
	}
	return d, nil
}

func (s *memStore) List(ctx context.Context) ([]planner.DesignInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]planner.DesignInfo, 0, len(s.designs))
	for name, d := range s.designs {
		out = append(out, planner.DesignInfo{Name: name, Walls: len(d.Walls), Entities: len(d.Entities), UpdatedAt: time.Now()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.designs[name]; !ok {
		return fmt.Errorf("%w: %s", planner.ErrDesignNotFound, name)
	}
	delete(s.designs, name)
	return nil
}

// newTestServer starts the API over a fresh session; store may be nil
func newTestServer(t *testing.T, store designStore) (*httptest.Server, *planner.Session) {
	t.Helper()
	session := planner.NewSession(nil, nil, testLoader{})
	t.Cleanup(session.Close)

	server := httptest.NewServer(newHTTPServer(session, store, planner.NewRenderer2D(200, 150), testLoader{}))
	t.Cleanup(server.Close)
	return server, session
}

func doRequest(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("%s %s: status = %d, want %d (body: %s)",
			resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, want, body)
	}
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

// addRoom posts the four walls of a 300x400 room and returns their IDs
func addRoom(t *testing.T, server *httptest.Server) []string {
	t.Helper()
	pts := [][2]float64{{0, 0}, {300, 0}, {300, 400}, {0, 400}}
	ids := make([]string, 0, 4)
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		body := fmt.Sprintf(`{"x1":%g,"y1":%g,"x2":%g,"y2":%g}`, a[0], a[1], b[0], b[1])
		resp := doRequest(t, http.MethodPost, server.URL+"/api/walls", body)
		expectStatus(t, resp, http.StatusCreated)
		var out map[string]string
		decodeBody(t, resp, &out)
		ids = append(ids, out["id"])
	}
	return ids
}

// ---------------------------------------------------------------------------
// health and rendering
// ---------------------------------------------------------------------------

func TestHealth(t *testing.T) {
	server, _ := newTestServer(t, nil)
	addRoom(t, server)

	resp := doRequest(t, http.MethodGet, server.URL+"/health", "")
	expectStatus(t, resp, http.StatusOK)
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %s, want application/json", ct)
	}

	var body struct {
		Status   string `json:"status"`
		Walls    int    `json:"walls"`
		Entities int    `json:"entities"`
		Loading  int    `json:"loading"`
	}
	decodeBody(t, resp, &body)
	if body.Status != "ok" {
		t.Errorf("status = %s, want ok", body.Status)
	}
	if body.Walls != 4 || body.Entities != 0 || body.Loading != 0 {
		t.Errorf("unexpected counts: %+v", body)
	}
}

func TestFloorplanRender(t *testing.T) {
	server, _ := newTestServer(t, nil)
	addRoom(t, server)

	tests := []struct {
		path        string
		contentType string
		prefix      string
	}{
		{"/floorplan.svg", "image/svg+xml", "<svg"},
		{"/floorplan.png", "image/png", "\x89PNG"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := doRequest(t, http.MethodGet, server.URL+tt.path, "")
			expectStatus(t, resp, http.StatusOK)
			if ct := resp.Header.Get("Content-Type"); ct != tt.contentType {
				t.Errorf("Content-Type = %s, want %s", ct, tt.contentType)
			}
			data, _ := io.ReadAll(resp.Body)
			if !bytes.Contains(data[:min(len(data), 256)], []byte(tt.prefix)) {
				t.Errorf("body does not start like %s", tt.contentType)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// walls
// ---------------------------------------------------------------------------

func TestWalls(t *testing.T) {
	server, session := newTestServer(t, nil)
	ids := addRoom(t, server)

	resp := doRequest(t, http.MethodGet, server.URL+"/api/walls", "")
	expectStatus(t, resp, http.StatusOK)
	var walls []planner.DesignWall
	decodeBody(t, resp, &walls)
	if len(walls) != 4 {
		t.Fatalf("expected 4 walls, got %d", len(walls))
	}
	if n := len(session.Floorplan.Rooms()); n != 1 {
		t.Errorf("expected the walls to enclose 1 room, got %d", n)
	}

	resp = doRequest(t, http.MethodDelete, server.URL+"/api/walls/"+ids[0], "")
	expectStatus(t, resp, http.StatusNoContent)
	if n := len(session.Floorplan.Rooms()); n != 0 {
		t.Errorf("expected the room to open, got %d rooms", n)
	}

	resp = doRequest(t, http.MethodDelete, server.URL+"/api/walls/"+ids[0], "")
	expectStatus(t, resp, http.StatusNotFound)
}

func TestAddWall_Invalid(t *testing.T) {
	server, _ := newTestServer(t, nil)

	resp := doRequest(t, http.MethodPost, server.URL+"/api/walls", `{"x1":10,"y1":10,"x2":10,"y2":10}`)
	expectStatus(t, resp, http.StatusConflict)

	resp = doRequest(t, http.MethodPost, server.URL+"/api/walls", `{"x1":`)
	expectStatus(t, resp, http.StatusBadRequest)
	var body map[string]string
	decodeBody(t, resp, &body)
	if !strings.Contains(body["error"], "invalid request body") {
		t.Errorf("error = %q", body["error"])
	}
}

func TestSetWallLength(t *testing.T) {
	server, session := newTestServer(t, nil)
	ids := addRoom(t, server)

	tests := []struct {
		name   string
		body   string
		status int
		length float64
	}{
		{"string input", `{"length":"450"}`, http.StatusOK, 450},
		{"number input", `{"length":320}`, http.StatusOK, 320},
		{"not a number", `{"length":"abc"}`, http.StatusBadRequest, 0},
		{"negative", `{"length":"-5"}`, http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, http.MethodPost, server.URL+"/api/walls/"+ids[0]+"/length", tt.body)
			expectStatus(t, resp, tt.status)
			if tt.status != http.StatusOK {
				return
			}
			var out struct {
				ID     string  `json:"id"`
				Length float64 `json:"length"`
			}
			decodeBody(t, resp, &out)
			if out.ID != ids[0] || out.Length != tt.length {
				t.Errorf("got %+v, want length %g", out, tt.length)
			}
		})
	}

	// a rejected input leaves the editor closed
	_ = session.Do(func() error {
		if session.LengthEditor.IsOpen() {
			t.Error("editor should be closed after a failed apply")
		}
		return nil
	})

	resp := doRequest(t, http.MethodPost, server.URL+"/api/walls/nope/length", `{"length":"100"}`)
	expectStatus(t, resp, http.StatusNotFound)
}

// ---------------------------------------------------------------------------
// 2D pointer input and mode
// ---------------------------------------------------------------------------

type pointerResult struct {
	Mode     string `json:"mode"`
	Revision int    `json:"revision"`
	Walls    int    `json:"walls"`
}

func TestPointerDrawing(t *testing.T) {
	server, _ := newTestServer(t, nil)

	resp := doRequest(t, http.MethodPost, server.URL+"/api/mode", `{"mode":"draw"}`)
	expectStatus(t, resp, http.StatusOK)

	var last pointerResult
	for _, p := range [][2]float64{{0, 0}, {300, 0}, {300, 400}} {
		resp := doRequest(t, http.MethodPost, server.URL+"/api/pointer",
			fmt.Sprintf(`{"event":"down","x":%g,"y":%g}`, p[0], p[1]))
		expectStatus(t, resp, http.StatusOK)
		decodeBody(t, resp, &last)
	}
	if last.Mode != "draw" {
		t.Errorf("mode = %s, want draw", last.Mode)
	}
	if last.Walls != 2 {
		t.Errorf("expected 2 walls, got %d", last.Walls)
	}

	resp = doRequest(t, http.MethodPost, server.URL+"/api/pointer", `{"event":"done"}`)
	expectStatus(t, resp, http.StatusOK)
	var done pointerResult
	decodeBody(t, resp, &done)
	if done.Walls != 2 {
		t.Errorf("done should keep the drawn walls, got %d", done.Walls)
	}
	if done.Revision < last.Revision {
		t.Errorf("revision went backwards: %d < %d", done.Revision, last.Revision)
	}

	resp = doRequest(t, http.MethodPost, server.URL+"/api/pointer", `{"event":"wiggle"}`)
	expectStatus(t, resp, http.StatusBadRequest)
}

func TestView(t *testing.T) {
	server, session := newTestServer(t, nil)

	var start planner.Camera
	_ = session.Do(func() error {
		start = *session.Viewer3D.Camera
		return nil
	})
	startDist := start.Position.Sub(start.Target).Len()

	resp := doRequest(t, http.MethodPost, server.URL+"/api/view",
		`{"pan":{"dx":20,"dy":10},"zoom":{"factor":2,"x":0,"y":0},"orbit":{"azimuth":90,"elevation":0},"dolly":0.5}`)
	expectStatus(t, resp, http.StatusOK)
	var view struct {
		PixelsPerCm float64        `json:"pixelsPerCm"`
		Revision    int            `json:"revision"`
		Camera      planner.Camera `json:"camera"`
	}
	decodeBody(t, resp, &view)
	if math.Abs(view.PixelsPerCm-2) > 1e-9 {
		t.Errorf("pixelsPerCm = %g, want 2", view.PixelsPerCm)
	}
	if view.Revision < 2 {
		t.Errorf("revision = %d, want a redraw per pan and zoom", view.Revision)
	}
	offset := view.Camera.Position.Sub(view.Camera.Target)
	if math.Abs(offset.Len()-startDist/2) > 1e-6 {
		t.Errorf("camera distance = %g, want %g", offset.Len(), startDist/2)
	}
	if offset.X <= 0 || math.Abs(offset.Z) > 1e-6 {
		t.Errorf("camera should orbit a quarter turn onto +X, offset = %+v", offset)
	}

	// floorplan point (10, 5) sits under pixel (60, 30) after pan then zoom
	_ = session.Do(func() error {
		p := session.Viewer2D.Viewport().ToFloorplan(60, 30)
		if math.Abs(p.X-10) > 1e-9 || math.Abs(p.Y-5) > 1e-9 {
			t.Errorf("ToFloorplan(60, 30) = %+v, want (10, 5)", p)
		}
		return nil
	})

	for _, body := range []string{`{"zoom":{"factor":0}}`, `{"dolly":-1}`, `{"pan":`} {
		resp = doRequest(t, http.MethodPost, server.URL+"/api/view", body)
		expectStatus(t, resp, http.StatusBadRequest)
	}
}

func TestRoomAt(t *testing.T) {
	server, _ := newTestServer(t, nil)
	addRoom(t, server)

	resp := doRequest(t, http.MethodGet, server.URL+"/api/room?x=150&y=200", "")
	expectStatus(t, resp, http.StatusOK)
	var room struct {
		ID   string  `json:"id"`
		Area float64 `json:"areaCm2"`
	}
	decodeBody(t, resp, &room)
	if room.ID == "" {
		t.Error("expected a room id")
	}
	if math.Abs(room.Area-120000) > 1e-6 {
		t.Errorf("area = %g, want 120000", room.Area)
	}

	resp = doRequest(t, http.MethodGet, server.URL+"/api/room?x=500&y=200", "")
	expectStatus(t, resp, http.StatusNotFound)
	resp = doRequest(t, http.MethodGet, server.URL+"/api/room?x=abc", "")
	expectStatus(t, resp, http.StatusBadRequest)
}

func TestSetMode_Invalid(t *testing.T) {
	server, session := newTestServer(t, nil)

	resp := doRequest(t, http.MethodPost, server.URL+"/api/mode", `{"mode":"fly"}`)
	expectStatus(t, resp, http.StatusBadRequest)

	_ = session.Do(func() error {
		if m := session.Viewer2D.Mode(); m != planner.ModeMove {
			t.Errorf("mode = %v, want move", m)
		}
		return nil
	})
}

// ---------------------------------------------------------------------------
// picking, selection and textures
// ---------------------------------------------------------------------------

func TestPickAndTexture(t *testing.T) {
	server, session := newTestServer(t, nil)
	addRoom(t, server)

	resp := doRequest(t, http.MethodPost, server.URL+"/api/pick",
		`{"ray":{"origin":{"x":150,"y":1000,"z":200},"direction":{"x":0,"y":-1,"z":0}}}`)
	expectStatus(t, resp, http.StatusOK)
	var pick struct {
		Kind   string        `json:"kind"`
		RoomID string        `json:"roomId"`
		Point  *planner.Vec3 `json:"point"`
	}
	decodeBody(t, resp, &pick)
	if pick.Kind != "floor" || pick.RoomID == "" {
		t.Fatalf("expected a floor pick, got %+v", pick)
	}
	if pick.Point == nil || pick.Point.Y != 0 {
		t.Errorf("expected the hit on the floor plane, got %+v", pick.Point)
	}

	resp = doRequest(t, http.MethodGet, server.URL+"/api/selection", "")
	expectStatus(t, resp, http.StatusOK)
	var sel struct {
		Entity *planner.ContextMenuView `json:"entity"`
		Target struct {
			Kind   string `json:"kind"`
			RoomID string `json:"roomId"`
		} `json:"target"`
		Tab string `json:"tab"`
	}
	decodeBody(t, resp, &sel)
	if sel.Entity != nil {
		t.Errorf("expected no selected entity, got %+v", sel.Entity)
	}
	if sel.Target.Kind != "floor" || sel.Target.RoomID != pick.RoomID {
		t.Errorf("target = %+v, want floor %s", sel.Target, pick.RoomID)
	}
	if sel.Tab != "floors" {
		t.Errorf("tab = %s, want floors", sel.Tab)
	}

	resp = doRequest(t, http.MethodPost, server.URL+"/api/texture",
		`{"url":"rooms/textures/hardwood.png","scale":400}`)
	expectStatus(t, resp, http.StatusOK)
	var applied map[string]bool
	decodeBody(t, resp, &applied)
	if !applied["applied"] {
		t.Error("expected the texture to be applied")
	}
	_ = session.Do(func() error {
		room, ok := session.Floorplan.RoomByID(pick.RoomID)
		if !ok {
			t.Fatal("room disappeared")
		}
		if room.Floor.URL != "rooms/textures/hardwood.png" {
			t.Errorf("floor texture = %q", room.Floor.URL)
		}
		return nil
	})

	// a miss clears the target
	resp = doRequest(t, http.MethodPost, server.URL+"/api/pick",
		`{"ray":{"origin":{"x":1000,"y":1000,"z":1000},"direction":{"x":0,"y":-1,"z":0}}}`)
	expectStatus(t, resp, http.StatusOK)
	var miss struct {
		Kind  string        `json:"kind"`
		Point *planner.Vec3 `json:"point"`
	}
	decodeBody(t, resp, &miss)
	if miss.Kind != "nothing" || miss.Point != nil {
		t.Errorf("expected nothing, got %+v", miss)
	}

	resp = doRequest(t, http.MethodPost, server.URL+"/api/texture", `{"url":"rooms/textures/hardwood.png"}`)
	expectStatus(t, resp, http.StatusOK)
	decodeBody(t, resp, &applied)
	if applied["applied"] {
		t.Error("expected no texture applied without a target")
	}
}

func TestTextures(t *testing.T) {
	server, session := newTestServer(t, nil)

	resp := doRequest(t, http.MethodGet, server.URL+"/api/textures/walls", "")
	expectStatus(t, resp, http.StatusOK)
	var textures []planner.CatalogTexture
	decodeBody(t, resp, &textures)
	if len(textures) != len(session.Catalog.Textures(planner.TabWalls)) || len(textures) == 0 {
		t.Errorf("expected the catalog wall textures, got %d", len(textures))
	}

	resp = doRequest(t, http.MethodGet, server.URL+"/api/textures/ceiling", "")
	expectStatus(t, resp, http.StatusBadRequest)

	resp = doRequest(t, http.MethodPost, server.URL+"/api/textures/floors", "")
	expectStatus(t, resp, http.StatusOK)
	_ = session.Do(func() error {
		if tab := session.Textures.Tab(); tab != planner.TabFloors {
			t.Errorf("tab = %s, want floors", tab)
		}
		return nil
	})
}

func TestThumbnail(t *testing.T) {
	server, _ := newTestServer(t, nil)

	resp := doRequest(t, http.MethodGet, server.URL+"/api/textures/thumbnail?url=rooms/textures/hardwood.png&size=32", "")
	expectStatus(t, resp, http.StatusOK)
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %s, want image/png", ct)
	}
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("thumbnail is not a PNG: %v", err)
	}
	// the catalog name adds a caption strip below the square
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() <= 32 {
		t.Errorf("thumbnail bounds = %v, want 32 wide with a caption", b)
	}

	resp = doRequest(t, http.MethodGet, server.URL+"/api/textures/thumbnail", "")
	expectStatus(t, resp, http.StatusBadRequest)

	resp = doRequest(t, http.MethodGet, server.URL+"/api/textures/thumbnail?url=missing.png", "")
	expectStatus(t, resp, http.StatusBadGateway)
}

// ---------------------------------------------------------------------------
// entities
// ---------------------------------------------------------------------------

func TestEntities(t *testing.T) {
	server, session := newTestServer(t, nil)
	addRoom(t, server)

	resp := doRequest(t, http.MethodPost, server.URL+"/api/entities",
		`{"name":"Chair","position":{"x":150,"y":300,"z":200}}`)
	expectStatus(t, resp, http.StatusAccepted)
	var snap planner.EntitySnapshot
	decodeBody(t, resp, &snap)
	if snap.ID == "" || snap.Type != planner.EntityFloor {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	session.Wait()

	resp = doRequest(t, http.MethodGet, server.URL+"/api/entities", "")
	expectStatus(t, resp, http.StatusOK)
	var list []planner.EntitySnapshot
	decodeBody(t, resp, &list)
	if len(list) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(list))
	}
	if list[0].State != "loaded" {
		t.Errorf("state = %s, want loaded", list[0].State)
	}
	if list[0].Position.Y != 25 {
		t.Errorf("floor item should rest on the floor, Y = %g", list[0].Position.Y)
	}

	resp = doRequest(t, http.MethodPatch, server.URL+"/api/entities/"+snap.ID, `{"widthCm":200}`)
	expectStatus(t, resp, http.StatusOK)
	var view planner.ContextMenuView
	decodeBody(t, resp, &view)
	if view.WidthCm != 200 || view.HeightCm != 50 || view.DepthCm != 50 {
		t.Errorf("dimensions = %g/%g/%g, want 200/50/50", view.WidthCm, view.HeightCm, view.DepthCm)
	}

	resp = doRequest(t, http.MethodPatch, server.URL+"/api/entities/"+snap.ID, `{"widthCm":-1}`)
	expectStatus(t, resp, http.StatusBadRequest)

	resp = doRequest(t, http.MethodPatch, server.URL+"/api/entities/"+snap.ID, `{"fixed":true}`)
	expectStatus(t, resp, http.StatusOK)
	decodeBody(t, resp, &view)
	if !view.Fixed {
		t.Error("expected the entity to be fixed")
	}

	resp = doRequest(t, http.MethodPatch, server.URL+"/api/entities/"+snap.ID, `{"position":{"x":10,"y":0,"z":10}}`)
	expectStatus(t, resp, http.StatusConflict)

	// a rejected move must not keep the resize sent with it
	resp = doRequest(t, http.MethodPatch, server.URL+"/api/entities/"+snap.ID, `{"widthCm":120,"position":{"x":10,"y":0,"z":10}}`)
	expectStatus(t, resp, http.StatusConflict)
	resp = doRequest(t, http.MethodGet, server.URL+"/api/entities", "")
	expectStatus(t, resp, http.StatusOK)
	decodeBody(t, resp, &list)
	if len(list) != 1 || list[0].Dimensions.Width != 2 {
		t.Errorf("width after rejected edit = %+v, want 2m", list)
	}

	resp = doRequest(t, http.MethodGet, server.URL+"/api/selection", "")
	expectStatus(t, resp, http.StatusOK)
	var sel struct {
		Entity *planner.ContextMenuView `json:"entity"`
	}
	decodeBody(t, resp, &sel)
	if sel.Entity == nil || sel.Entity.ID != snap.ID {
		t.Errorf("expected the edited entity to be selected, got %+v", sel.Entity)
	}

	resp = doRequest(t, http.MethodPatch, server.URL+"/api/entities/nope", `{"fixed":false}`)
	expectStatus(t, resp, http.StatusNotFound)

	resp = doRequest(t, http.MethodDelete, server.URL+"/api/entities/"+snap.ID, "")
	expectStatus(t, resp, http.StatusNoContent)
	resp = doRequest(t, http.MethodDelete, server.URL+"/api/entities/"+snap.ID, "")
	expectStatus(t, resp, http.StatusNotFound)
}

func TestPlaceEntity_Invalid(t *testing.T) {
	server, _ := newTestServer(t, nil)

	resp := doRequest(t, http.MethodPost, server.URL+"/api/entities",
		`{"name":"Rocket","type":"SpaceEntity","url":"models/gltf/rocket.glb"}`)
	expectStatus(t, resp, http.StatusBadRequest)
}

func TestLoading(t *testing.T) {
	server, _ := newTestServer(t, nil)

	resp := doRequest(t, http.MethodGet, server.URL+"/api/loading", "")
	expectStatus(t, resp, http.StatusOK)
	var body struct {
		Loading bool `json:"loading"`
		Count   int  `json:"count"`
	}
	decodeBody(t, resp, &body)
	if body.Loading || body.Count != 0 {
		t.Errorf("expected idle indicator, got %+v", body)
	}
}

// ---------------------------------------------------------------------------
// designs
// ---------------------------------------------------------------------------

func TestDesignRoundTrip(t *testing.T) {
	server, session := newTestServer(t, nil)
	addRoom(t, server)

	resp := doRequest(t, http.MethodGet, server.URL+"/api/design", "")
	expectStatus(t, resp, http.StatusOK)
	data, _ := io.ReadAll(resp.Body)
	var d planner.Design
	if err := json.Unmarshal(data, &d); err != nil {
		t.Fatalf("failed to decode design: %v", err)
	}
	if len(d.Walls) != 4 || len(d.Rooms) != 1 {
		t.Fatalf("expected 4 walls and 1 room, got %d/%d", len(d.Walls), len(d.Rooms))
	}

	// clear the floorplan, then restore it from the exported design
	_ = session.Do(func() error {
		session.Floorplan.Clear()
		return nil
	})
	resp = doRequest(t, http.MethodPut, server.URL+"/api/design", string(data))
	expectStatus(t, resp, http.StatusNoContent)
	_ = session.Do(func() error {
		if n := len(session.Floorplan.Walls()); n != 4 {
			t.Errorf("expected 4 restored walls, got %d", n)
		}
		return nil
	})

	resp = doRequest(t, http.MethodPut, server.URL+"/api/design", `{"walls":[{"id":"w","start":"a","end":"b"}]}`)
	expectStatus(t, resp, http.StatusBadRequest)
}

func TestDesignGeoJSON(t *testing.T) {
	server, _ := newTestServer(t, nil)
	addRoom(t, server)

	resp := doRequest(t, http.MethodGet, server.URL+"/api/design.geojson", "")
	expectStatus(t, resp, http.StatusOK)
	if ct := resp.Header.Get("Content-Type"); ct != "application/geo+json" {
		t.Errorf("Content-Type = %s, want application/geo+json", ct)
	}
	var fc struct {
		Type     string            `json:"type"`
		Features []json.RawMessage `json:"features"`
	}
	decodeBody(t, resp, &fc)
	if fc.Type != "FeatureCollection" || len(fc.Features) != 5 {
		t.Errorf("expected 5 features, got %s with %d", fc.Type, len(fc.Features))
	}
}

func TestDesignStore_Unavailable(t *testing.T) {
	server, _ := newTestServer(t, nil)

	for _, req := range []struct{ method, path string }{
		{http.MethodGet, "/api/designs"},
		{http.MethodGet, "/api/designs/home"},
		{http.MethodPut, "/api/designs/home"},
		{http.MethodDelete, "/api/designs/home"},
	} {
		resp := doRequest(t, req.method, server.URL+req.path, "")
		expectStatus(t, resp, http.StatusServiceUnavailable)
	}
}

func TestDesignStore(t *testing.T) {
	store := newMemStore()
	server, session := newTestServer(t, store)
	addRoom(t, server)

	resp := doRequest(t, http.MethodPut, server.URL+"/api/designs/home", "")
	expectStatus(t, resp, http.StatusOK)
	var saved struct {
		Name  string `json:"name"`
		Walls int    `json:"walls"`
	}
	decodeBody(t, resp, &saved)
	if saved.Name != "home" || saved.Walls != 4 {
		t.Errorf("unexpected save response: %+v", saved)
	}

	resp = doRequest(t, http.MethodGet, server.URL+"/api/designs", "")
	expectStatus(t, resp, http.StatusOK)
	var list []planner.DesignInfo
	decodeBody(t, resp, &list)
	if len(list) != 1 || list[0].Name != "home" {
		t.Fatalf("unexpected list: %+v", list)
	}

	_ = session.Do(func() error {
		session.Floorplan.Clear()
		return nil
	})
	resp = doRequest(t, http.MethodGet, server.URL+"/api/designs/home", "")
	expectStatus(t, resp, http.StatusOK)
	_ = session.Do(func() error {
		if n := len(session.Floorplan.Walls()); n != 4 {
			t.Errorf("expected the stored design to be applied, got %d walls", n)
		}
		return nil
	})

	resp = doRequest(t, http.MethodGet, server.URL+"/api/designs/missing", "")
	expectStatus(t, resp, http.StatusNotFound)

	resp = doRequest(t, http.MethodDelete, server.URL+"/api/designs/home", "")
	expectStatus(t, resp, http.StatusNoContent)
	resp = doRequest(t, http.MethodDelete, server.URL+"/api/designs/home", "")
	expectStatus(t, resp, http.StatusNotFound)
}

// ---------------------------------------------------------------------------
// error mapping
// ---------------------------------------------------------------------------

func TestWriteError(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("wrap: %w", planner.ErrEntityNotFound), http.StatusNotFound},
		{planner.ErrWallNotFound, http.StatusNotFound},
		{planner.ErrNoWallNearby, http.StatusNotFound},
		{planner.ErrNotResizable, http.StatusConflict},
		{planner.ErrEntityFixed, http.StatusConflict},
		{planner.ErrDegenerateWall, http.StatusConflict},
		{planner.ErrInvalidLength, http.StatusBadRequest},
		{planner.ErrInvalidDimensions, http.StatusBadRequest},
		{&badRequest{errors.New("bad")}, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		writeError(rec, tt.err)
		if rec.Code != tt.status {
			t.Errorf("writeError(%v) = %d, want %d", tt.err, rec.Code, tt.status)
		}
	}
}
