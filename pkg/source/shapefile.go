package source

import (
	"fmt"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"

	"github.com/matzehuels/hexgrid/pkg/errors"
)

// ReadShapefile reads records from an ESRI shapefile. Ids, colors and
// optional coordinate columns come from the .dbf attribute table; rows
// without coordinate attributes use the centroid of their shape.
func ReadShapefile(path string, opts Options) ([]Record, error) {
	r, err := shp.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open shapefile %s", path)
	}
	defer r.Close()

	fields := r.Fields()
	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = strings.TrimRight(string(f.Name[:]), "\x00")
	}
	c, err := resolveColumns(header, opts, true)
	if err != nil {
		return nil, err
	}

	var records []Record
	for r.Next() {
		n, shape := r.Shape()
		row := make([]string, len(fields))
		for i := range fields {
			row[i] = strings.Trim(r.ReadAttribute(n, i), " \x00")
		}

		line := n + 1
		rec, err := attributes(row, c, line)
		if err != nil {
			return nil, err
		}
		if c.hasCoordinates() {
			if rec.Longitude, rec.Latitude, err = coordinates(row, c, line); err != nil {
				return nil, err
			}
			records = append(records, rec)
			continue
		}

		g, err := shapeGeometry(shape)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "record %d", line)
		}
		p, err := centroid(g)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "record %d", line)
		}
		rec.Longitude, rec.Latitude = p.Lon(), p.Lat()
		records = append(records, rec)
	}
	if err := r.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read shapefile %s", path)
	}
	return records, nil
}

// shapeGeometry converts a shapefile shape to an orb geometry. Polygon
// parts are grouped into polygons by ring orientation: clockwise rings are
// outer boundaries, counter-clockwise rings are holes of the preceding one.
func shapeGeometry(s shp.Shape) (orb.Geometry, error) {
	switch s := s.(type) {
	case *shp.Point:
		return orb.Point{s.X, s.Y}, nil
	case *shp.PointZ:
		return orb.Point{s.X, s.Y}, nil
	case *shp.PointM:
		return orb.Point{s.X, s.Y}, nil
	case *shp.MultiPoint:
		mp := make(orb.MultiPoint, len(s.Points))
		for i, p := range s.Points {
			mp[i] = orb.Point{p.X, p.Y}
		}
		return mp, nil
	case *shp.PolyLine:
		return lines(s.Parts, s.Points), nil
	case *shp.PolyLineZ:
		return lines(s.Parts, s.Points), nil
	case *shp.Polygon:
		return polygons(s.Parts, s.Points), nil
	case *shp.PolygonZ:
		return polygons(s.Parts, s.Points), nil
	case nil, *shp.Null:
		return nil, fmt.Errorf("null shape")
	default:
		return nil, fmt.Errorf("unsupported shape type %T", s)
	}
}

func splitParts(parts []int32, pts []shp.Point) [][]orb.Point {
	out := make([][]orb.Point, 0, len(parts))
	for i, start := range parts {
		end := int32(len(pts))
		if i+1 < len(parts) {
			end = parts[i+1]
		}
		if start < 0 || start > end || int(end) > len(pts) {
			continue
		}
		part := make([]orb.Point, 0, end-start)
		for _, p := range pts[start:end] {
			part = append(part, orb.Point{p.X, p.Y})
		}
		out = append(out, part)
	}
	return out
}

func lines(parts []int32, pts []shp.Point) orb.MultiLineString {
	split := splitParts(parts, pts)
	mls := make(orb.MultiLineString, len(split))
	for i, part := range split {
		mls[i] = orb.LineString(part)
	}
	return mls
}

func polygons(parts []int32, pts []shp.Point) orb.MultiPolygon {
	var mp orb.MultiPolygon
	for _, part := range splitParts(parts, pts) {
		ring := orb.Ring(part)
		if len(mp) == 0 || ring.Orientation() == orb.CW {
			mp = append(mp, orb.Polygon{ring})
			continue
		}
		last := len(mp) - 1
		mp[last] = append(mp[last], ring)
	}
	return mp
}
