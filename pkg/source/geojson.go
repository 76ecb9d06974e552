package source

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/paulmach/orb/geojson"

	"github.com/matzehuels/hexgrid/pkg/errors"
)

// ReadGeoJSON decodes a GeoJSON FeatureCollection from r.
//
// The id is taken from the configured property, falling back to the
// feature's own "id" member. Coordinates come from longitude/latitude
// properties when both exist, otherwise from the centroid of the feature
// geometry. ReadGeoJSON does not close r.
func ReadGeoJSON(r io.Reader, opts Options) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read geojson: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode feature collection")
	}

	records := make([]Record, 0, len(fc.Features))
	for i, f := range fc.Features {
		rec, err := featureRecord(f, opts, i+1)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func featureRecord(f *geojson.Feature, opts Options, n int) (Record, error) {
	keys := make([]string, 0, len(f.Properties))
	values := make([]string, 0, len(f.Properties))
	for k, v := range f.Properties {
		keys = append(keys, k)
		values = append(values, propertyString(v))
	}
	if f.ID != nil && findKey(keys, "id") < 0 {
		keys = append(keys, "id")
		values = append(values, propertyString(f.ID))
	}

	c, err := resolveColumns(keys, opts, true)
	if err != nil {
		return Record{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "record %d", n)
	}
	rec, err := attributes(values, c, n)
	if err != nil {
		return Record{}, err
	}
	if c.hasCoordinates() {
		rec.Longitude, rec.Latitude, err = coordinates(values, c, n)
		return rec, err
	}

	p, err := centroid(f.Geometry)
	if err != nil {
		return Record{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "record %d: geometry", n)
	}
	rec.Longitude, rec.Latitude = p.Lon(), p.Lat()
	return rec, nil
}

func findKey(keys []string, name string) int {
	for i, k := range keys {
		if strings.EqualFold(k, name) {
			return i
		}
	}
	return -1
}

func propertyString(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
