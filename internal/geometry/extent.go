package geometry

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/sirupsen/logrus"

	"energyplan/server/internal/models"
)

// ExtentBuilder produces the outline of the loaded building stock so the
// map client can show where a drawing will find data.
type ExtentBuilder struct {
	logger *logrus.Logger
}

func NewExtentBuilder(logger *logrus.Logger) *ExtentBuilder {
	return &ExtentBuilder{logger: logger}
}

// Extent returns the convex hull of the building points as a GeoJSON
// feature, or nil when fewer than three distinct points exist.
func (eb *ExtentBuilder) Extent(areaID string, buildings []models.Building) *geojson.Feature {
	points := make([]orb.Point, 0, len(buildings))
	seen := make(map[orb.Point]bool)
	for _, b := range buildings {
		p := orb.Point{b.X, b.Y}
		if !seen[p] {
			points = append(points, p)
			seen[p] = true
		}
	}

	hull := generateConvexHull(points)
	if hull == nil {
		eb.logger.Warnf("Not enough points for area %s extent (minimum 3 required)", areaID)
		return nil
	}

	feature := geojson.NewFeature(orb.Polygon{hull})
	feature.Properties = geojson.Properties{
		"area":           areaID,
		"building_count": len(buildings),
		"geometry_type":  "hull",
		"hull_type":      "convex",
	}
	return feature
}

func cross(o, a, b orb.Point) float64 {
	return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
}

// generateConvexHull is Andrew's monotone chain. The returned ring is
// counter-clockwise and closed.
func generateConvexHull(points []orb.Point) orb.Ring {
	if len(points) < 3 {
		return nil
	}

	sorted := make([]orb.Point, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i][0] == sorted[j][0] {
			return sorted[i][1] < sorted[j][1]
		}
		return sorted[i][0] < sorted[j][0]
	})

	hull := make([]orb.Point, 0, 2*len(sorted))
	for _, p := range sorted {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(sorted) - 2; i >= 0; i-- {
		p := sorted[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	// all points collinear
	if len(hull) < 4 {
		return nil
	}
	return orb.Ring(hull)
}

// BuildingFeatures renders buildings as GeoJSON points for the map layer.
func BuildingFeatures(buildings []models.Building) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, b := range buildings {
		f := geojson.NewFeature(orb.Point{b.X, b.Y})
		f.ID = b.ObjectID
		f.Properties = geojson.Properties{
			"objectid":         b.ObjectID,
			"scenario":         b.Scenario,
			"area_id":          b.AreaID,
			"address":          b.Address,
			"building_type":    b.BuildingType,
			"floor_area":       b.FloorArea,
			"measures":         MeasureCode(b),
			"ground_source":    b.GroundSource,
			"district_heating": b.DistrictHeating,
			"solar":            b.Solar,
			"air_to_air":       b.AirToAir,
			"retrofit":         b.Retrofit,
		}
		fc.Append(f)
	}
	return fc
}

// MeasureCode is the marker label of a building: one letter per measure,
// in the order G, F, S, L, O.
func MeasureCode(b models.Building) string {
	code := ""
	if b.GroundSource {
		code += "G"
	}
	if b.DistrictHeating {
		code += "F"
	}
	if b.Solar {
		code += "S"
	}
	if b.AirToAir {
		code += "L"
	}
	if b.Retrofit {
		code += "O"
	}
	return code
}
