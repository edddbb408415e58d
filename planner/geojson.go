package planner

import (
	"encoding/json"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/simplify"
)

// collinearTolerance drops room vertices that sit on a straight run (cm)
const collinearTolerance = 0.5

// FloorplanGeoJSON exports walls as LineStrings, rooms as Polygons and entity
// footprints as Polygons. Coordinates are floorplan centimeters.
func FloorplanGeoJSON(fp *Floorplan, entities []*Entity) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, w := range fp.Walls() {
		f := geojson.NewFeature(orb.LineString{toOrb(w.StartPoint()), toOrb(w.EndPoint())})
		f.ID = w.ID
		f.Properties["layer"] = "wall"
		f.Properties["length"] = math.Round(w.Length()*10) / 10
		f.Properties["thickness"] = w.Thickness
		f.Properties["height"] = w.Height
		if !w.front.Texture.IsZero() {
			f.Properties["frontTexture"] = w.front.Texture.URL
		}
		if !w.back.Texture.IsZero() {
			f.Properties["backTexture"] = w.back.Texture.URL
		}
		fc.Append(f)
	}

	for _, r := range fp.Rooms() {
		ring := r.Ring()
		if simplified, ok := simplify.DouglasPeucker(collinearTolerance).Simplify(ring.Clone()).(orb.Ring); ok && len(simplified) >= 4 {
			ring = simplified
		}
		f := geojson.NewFeature(orb.Polygon{ring})
		f.ID = r.ID
		f.Properties["layer"] = "room"
		f.Properties["area"] = math.Round(r.Area()*10) / 10
		c := polygonCentroid(r)
		f.Properties["centroid"] = []float64{c.X, c.Y}
		if !r.Floor.IsZero() {
			f.Properties["floorTexture"] = r.Floor.URL
		}
		fc.Append(f)
	}

	for _, e := range entities {
		ring := make(orb.Ring, 0, 5)
		for _, p := range e.Footprint() {
			ring = append(ring, toOrb(p))
		}
		ring = append(ring, ring[0])
		f := geojson.NewFeature(orb.Polygon{ring})
		f.ID = e.ID
		f.Properties["layer"] = "entity"
		f.Properties["name"] = e.Name()
		f.Properties["type"] = string(e.Type)
		f.Properties["state"] = e.State().String()
		fc.Append(f)
	}
	return fc
}

// MarshalFloorplanGeoJSON encodes the floorplan export
func MarshalFloorplanGeoJSON(fp *Floorplan, entities []*Entity) ([]byte, error) {
	return json.Marshal(FloorplanGeoJSON(fp, entities))
}
