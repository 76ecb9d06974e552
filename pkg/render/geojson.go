package render

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/matzehuels/hexgrid/pkg/layout"
)

// RenderGeoJSON writes l as a FeatureCollection of hexagonal polygons in
// longitude/latitude space.
//
// Canvas coordinates are mapped linearly from the hexagons' bounding box
// onto the layout extent, with y flipped so north stays up. Each feature
// carries the entity id as its id and the properties x_bin, y_bin and
// color. Rings are closed and counter-clockwise.
func RenderGeoJSON(l layout.Layout, opts ...Option) ([]byte, error) {
	o := newOptions(opts...)
	fc := geojson.NewFeatureCollection()
	if len(l.Cells) == 0 {
		return fc.MarshalJSON()
	}
	if err := l.Extent.Validate(); err != nil {
		return nil, err
	}

	f := NewFrame(l, o.geometry)
	toGeo := inverseTransform(f.Content, l)

	for i, c := range l.Cells {
		ring := make(orb.Ring, len(f.Hexagons[i]))
		for j, p := range f.Hexagons[i] {
			ring[j] = toGeo(p)
		}
		if ring.Orientation() != orb.CCW {
			ring.Reverse()
		}

		color := c.Color
		if color == "" {
			color = o.fill
		}
		feature := geojson.NewFeature(orb.Polygon{ring})
		feature.ID = c.ID
		feature.Properties["x_bin"] = c.X
		feature.Properties["y_bin"] = c.Y
		feature.Properties["color"] = color
		fc.Append(feature)
	}
	return fc.MarshalJSON()
}

// inverseTransform maps canvas points inside content onto the layout extent.
func inverseTransform(content orb.Bound, l layout.Layout) func(orb.Point) orb.Point {
	minX, minY := content.Min[0], content.Min[1]
	cw, ch := content.Max[0]-minX, content.Max[1]-minY
	e := l.Extent
	return func(p orb.Point) orb.Point {
		return orb.Point{
			e.MinLongitude + (p[0]-minX)/cw*e.LongitudeRange(),
			e.MaxLatitude - (p[1]-minY)/ch*e.LatitudeRange(),
		}
	}
}
