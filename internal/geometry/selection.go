package geometry

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"energyplan/server/internal/models"
)

// Selection is a user drawing reduced to the region it covers. A zero
// Selection, or one made from a point drawing, does not filter anything.
type Selection struct {
	Region orb.MultiPolygon
	Kind   string
}

// NewPolygonSelection builds a selection from an ordered vertex list. The
// ring is closed if the last vertex does not repeat the first. A list that
// encloses no area selects everything.
func NewPolygonSelection(vertices []orb.Point) Selection {
	ring := make(orb.Ring, len(vertices))
	copy(ring, vertices)
	if len(ring) > 0 && !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return polygonSelection(orb.MultiPolygon{orb.Polygon{ring}})
}

// ParseDrawing reads a GeoJSON Feature, FeatureCollection or bare geometry
// as produced by the map's draw control. For a collection the last feature
// wins. Empty input and null mean "no selection".
func ParseDrawing(data []byte) (Selection, error) {
	if len(data) == 0 || string(data) == "null" {
		return Selection{}, nil
	}

	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return Selection{}, fmt.Errorf("failed to parse drawing: %w", err)
	}

	var g orb.Geometry
	switch head.Type {
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return Selection{}, fmt.Errorf("failed to parse drawing feature: %w", err)
		}
		g = f.Geometry
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return Selection{}, fmt.Errorf("failed to parse drawing collection: %w", err)
		}
		if len(fc.Features) == 0 {
			return Selection{}, nil
		}
		g = fc.Features[len(fc.Features)-1].Geometry
	default:
		geom, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return Selection{}, fmt.Errorf("failed to parse drawing geometry: %w", err)
		}
		g = geom.Geometry()
	}

	return FromGeometry(g)
}

// FromGeometry turns an orb geometry into a Selection.
func FromGeometry(g orb.Geometry) (Selection, error) {
	switch v := g.(type) {
	case nil:
		return Selection{}, nil
	case orb.Point, orb.MultiPoint:
		return Selection{Kind: g.GeoJSONType()}, nil
	case orb.Polygon:
		return polygonSelection(orb.MultiPolygon{v}), nil
	case orb.MultiPolygon:
		return polygonSelection(v), nil
	case orb.Ring:
		return polygonSelection(orb.MultiPolygon{orb.Polygon{v}}), nil
	case orb.Bound:
		return polygonSelection(orb.MultiPolygon{v.ToPolygon()}), nil
	default:
		return Selection{}, fmt.Errorf("unsupported drawing type %s", g.GeoJSONType())
	}
}

func polygonSelection(mp orb.MultiPolygon) Selection {
	if collapsed(mp) {
		return Selection{Kind: geojson.TypePoint}
	}
	return Selection{Region: mp, Kind: mp.GeoJSONType()}
}

// collapsed reports a drawing that encloses no area: a single point, a
// segment or a ring of collinear vertices.
func collapsed(mp orb.MultiPolygon) bool {
	return planar.Area(mp) == 0
}

// Filters reports whether the selection restricts the building set.
func (s Selection) Filters() bool {
	return len(s.Region) > 0
}

// Contains reports whether (x, y) lies in the selected region, boundary included.
func (s Selection) Contains(x, y float64) bool {
	if !s.Filters() {
		return true
	}
	return planar.MultiPolygonContains(s.Region, orb.Point{x, y})
}

// Select returns the buildings inside the selection, in input order.
func Select(buildings []models.Building, s Selection) []models.Building {
	if !s.Filters() {
		out := make([]models.Building, len(buildings))
		copy(out, buildings)
		return out
	}

	out := make([]models.Building, 0)
	for _, b := range buildings {
		if s.Contains(b.X, b.Y) {
			out = append(out, b)
		}
	}
	return out
}

// UniqueIDs returns the distinct object ids of buildings, in first-seen order.
func UniqueIDs(buildings []models.Building) []string {
	seen := make(map[string]struct{}, len(buildings))
	ids := make([]string, 0, len(buildings))
	for _, b := range buildings {
		if _, ok := seen[b.ObjectID]; ok {
			continue
		}
		seen[b.ObjectID] = struct{}{}
		ids = append(ids, b.ObjectID)
	}
	return ids
}
