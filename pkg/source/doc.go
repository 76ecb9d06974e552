// Package source reads located entities from tabular and geographic files.
//
// Supported formats, chosen by file extension:
//
//   - .csv: a header row followed by one record per line
//   - .xlsx: the first worksheet, same layout as CSV
//   - .shp: an ESRI shapefile with its .dbf attribute table
//   - .geojson, .json: a GeoJSON FeatureCollection
//
// Every format yields the same [Record]: an id, a longitude, a latitude and
// an optional fill color. Columns are matched by name, case-insensitively.
// When [Options] leaves a column unset, common aliases are tried ("lon",
// "lng" and "x" for longitude, for example).
//
// Coordinates come from the longitude/latitude columns when both exist.
// Otherwise the reader falls back to geometry: the centroid of a WKT value in
// the geometry column (CSV, XLSX) or of the feature's own shape (shapefile,
// GeoJSON).
//
// Readers fail with pkg/errors codes: INVALID_INPUT for malformed rows,
// missing columns or empty ids, UNSUPPORTED for unknown extensions and
// FILE_NOT_FOUND when the input does not exist. Duplicate ids are left to
// the placement step.
package source
