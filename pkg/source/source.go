package source

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/paulmach/orb/encoding/wkt"

	"github.com/matzehuels/hexgrid/pkg/errors"
	"github.com/matzehuels/hexgrid/pkg/grid"
)

// Record is one located entity read from an input file.
type Record struct {
	ID        string  `json:"id"`
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Color     string  `json:"color,omitempty"`
}

// Options selects the input columns. Empty fields fall back to aliases.
type Options struct {
	IDColumn        string `json:"id_column,omitempty" toml:"id_column"`
	LongitudeColumn string `json:"longitude_column,omitempty" toml:"longitude_column"`
	LatitudeColumn  string `json:"latitude_column,omitempty" toml:"latitude_column"`
	GeometryColumn  string `json:"geometry_column,omitempty" toml:"geometry_column"`
	ColorColumn     string `json:"color_column,omitempty" toml:"color_column"`
}

// Validate checks that explicitly set column names are usable.
func (o Options) Validate() error {
	for _, name := range []string{o.IDColumn, o.LongitudeColumn, o.LatitudeColumn, o.GeometryColumn, o.ColorColumn} {
		if name == "" {
			continue
		}
		if err := errors.ValidateColumnName(name); err != nil {
			return err
		}
	}
	return nil
}

var (
	idAliases        = []string{"id", "name", "abbrev", "code"}
	longitudeAliases = []string{"longitude", "lon", "lng", "long", "x"}
	latitudeAliases  = []string{"latitude", "lat", "y"}
	geometryAliases  = []string{"geometry", "geom", "wkt", "the_geom"}
	colorAliases     = []string{"color", "colour", "fill"}
)

// Supported file extensions.
const (
	FormatCSV     = "csv"
	FormatXLSX    = "xlsx"
	FormatShape   = "shp"
	FormatGeoJSON = "geojson"
)

// FormatOf returns the input format implied by the extension of path.
func FormatOf(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".shp":
		return FormatShape, nil
	case ".geojson", ".json":
		return FormatGeoJSON, nil
	case ".xls":
		return "", errors.New(errors.ErrCodeUnsupported, "legacy .xls workbooks are not supported, save as .xlsx")
	default:
		return "", errors.New(errors.ErrCodeUnsupported, "unsupported input format %q", ext)
	}
}

// Read loads records from the file at path, dispatching on its extension.
func Read(path string, opts Options) ([]Record, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "input %s does not exist", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "stat input")
	}

	switch format {
	case FormatCSV:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		return ReadCSV(f, opts)
	case FormatXLSX:
		return ReadXLSX(path, opts)
	case FormatShape:
		return ReadShapefile(path, opts)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		return ReadGeoJSON(f, opts)
	}
}

// Entities converts records into placement input, preserving order.
func Entities(records []Record) []grid.Entity {
	out := make([]grid.Entity, len(records))
	for i, r := range records {
		out[i] = grid.Entity{ID: r.ID, Longitude: r.Longitude, Latitude: r.Latitude}
	}
	return out
}

// columns holds resolved header positions; -1 means absent.
type columns struct {
	id, lon, lat, geom, color int
}

func (c columns) hasCoordinates() bool { return c.lon >= 0 && c.lat >= 0 }

// resolveColumns locates the configured columns in header. With shapes set
// the input carries its own geometry, so coordinate columns are optional and
// the WKT column is ignored.
func resolveColumns(header []string, opts Options, shapes bool) (columns, error) {
	norm := make([]string, len(header))
	for i, h := range header {
		norm[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}
	find := func(name string, aliases []string) int {
		if name != "" {
			return slices.Index(norm, strings.ToLower(strings.TrimSpace(name)))
		}
		for _, a := range aliases {
			if i := slices.Index(norm, a); i >= 0 {
				return i
			}
		}
		return -1
	}

	c := columns{
		id:    find(opts.IDColumn, idAliases),
		lon:   find(opts.LongitudeColumn, longitudeAliases),
		lat:   find(opts.LatitudeColumn, latitudeAliases),
		geom:  -1,
		color: find(opts.ColorColumn, colorAliases),
	}
	if !shapes {
		c.geom = find(opts.GeometryColumn, geometryAliases)
	}
	if c.color < 0 && opts.ColorColumn != "" {
		return c, errors.New(errors.ErrCodeInvalidInput, "color column %q not found", opts.ColorColumn)
	}

	if c.id < 0 {
		return c, errors.New(errors.ErrCodeInvalidInput, "id column %s not found in %v", describe(opts.IDColumn, idAliases), header)
	}
	if !shapes && !c.hasCoordinates() && c.geom < 0 {
		return c, errors.New(errors.ErrCodeInvalidInput,
			"no coordinates: need %s and %s columns or a WKT %s column",
			describe(opts.LongitudeColumn, longitudeAliases),
			describe(opts.LatitudeColumn, latitudeAliases),
			describe(opts.GeometryColumn, geometryAliases))
	}
	return c, nil
}

func describe(name string, aliases []string) string {
	if name != "" {
		return strconv.Quote(name)
	}
	return strconv.Quote(aliases[0])
}

func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// attributes reads the id and color of one row. line numbers the record in
// error messages.
func attributes(row []string, c columns, line int) (Record, error) {
	rec := Record{ID: cellAt(row, c.id), Color: cellAt(row, c.color)}
	if err := errors.ValidateEntityID(rec.ID); err != nil {
		return Record{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "record %d", line)
	}
	if rec.Color != "" {
		if err := errors.ValidateColor(rec.Color); err != nil {
			return Record{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "record %d", line)
		}
	}
	return rec, nil
}

// coordinates parses the longitude and latitude columns of one row.
func coordinates(row []string, c columns, line int) (lon, lat float64, err error) {
	if lon, err = parseCoordinate(cellAt(row, c.lon)); err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "record %d: longitude", line)
	}
	if lat, err = parseCoordinate(cellAt(row, c.lat)); err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "record %d: latitude", line)
	}
	return lon, lat, nil
}

// recordFromRow builds a record from one table row, taking coordinates from
// the longitude/latitude columns or, when those are absent or blank, from
// the centroid of the WKT geometry column.
func recordFromRow(row []string, c columns, line int) (Record, error) {
	rec, err := attributes(row, c, line)
	if err != nil {
		return Record{}, err
	}

	if c.hasCoordinates() && (cellAt(row, c.lon) != "" || c.geom < 0) {
		rec.Longitude, rec.Latitude, err = coordinates(row, c, line)
		if err != nil {
			return Record{}, err
		}
		return rec, nil
	}

	g, err := wkt.Unmarshal(cellAt(row, c.geom))
	if err != nil {
		return Record{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "record %d: geometry", line)
	}
	p, err := centroid(g)
	if err != nil {
		return Record{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "record %d: geometry", line)
	}
	rec.Longitude, rec.Latitude = p.Lon(), p.Lat()
	return rec, nil
}

func parseCoordinate(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	return strconv.ParseFloat(s, 64)
}

// readTable converts header and rows into records, skipping blank rows.
// firstLine is the 1-based line number of rows[0].
func readTable(header []string, rows [][]string, opts Options, firstLine int) ([]Record, error) {
	c, err := resolveColumns(header, opts, false)
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(rows))
	for i, row := range rows {
		if blank(row) {
			continue
		}
		rec, err := recordFromRow(row, c, firstLine+i)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
