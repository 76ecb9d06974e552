package source

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// centroid returns the planar centroid of g. Polygonal geometries are
// weighted by area, lines by length and point sets by count.
func centroid(g orb.Geometry) (orb.Point, error) {
	if g == nil {
		return orb.Point{}, fmt.Errorf("missing geometry")
	}
	if isEmpty(g) {
		return orb.Point{}, fmt.Errorf("empty %s geometry", g.GeoJSONType())
	}
	p, _ := planar.CentroidArea(g)
	if math.IsNaN(p[0]) || math.IsNaN(p[1]) {
		return orb.Point{}, fmt.Errorf("%s geometry has no centroid", g.GeoJSONType())
	}
	return p, nil
}

func isEmpty(g orb.Geometry) bool {
	switch g := g.(type) {
	case orb.Point:
		return false
	case orb.MultiPoint:
		return len(g) == 0
	case orb.LineString:
		return len(g) == 0
	case orb.MultiLineString:
		return len(g) == 0
	case orb.Ring:
		return len(g) == 0
	case orb.Polygon:
		return len(g) == 0 || len(g[0]) == 0
	case orb.MultiPolygon:
		return len(g) == 0
	case orb.Collection:
		return len(g) == 0
	default:
		return false
	}
}
