package grid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/matzehuels/hexgrid/pkg/errors"
)

// Entity is a record to be placed on the grid.
type Entity struct {
	ID        string
	Longitude float64
	Latitude  float64
}

// Cell identifies one grid position. X grows eastwards, Y grows southwards.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// String returns the cell as "(x,y)".
func (c Cell) String() string { return fmt.Sprintf("(%d,%d)", c.X, c.Y) }

// Extent is the bounding box of a dataset in degrees.
type Extent struct {
	MinLongitude float64 `json:"min_longitude"`
	MaxLongitude float64 `json:"max_longitude"`
	MinLatitude  float64 `json:"min_latitude"`
	MaxLatitude  float64 `json:"max_latitude"`
}

// ExtentOf returns the bounding box of the given entities.
// An empty slice yields the zero Extent.
func ExtentOf(entities []Entity) Extent {
	if len(entities) == 0 {
		return Extent{}
	}
	lons := make([]float64, len(entities))
	lats := make([]float64, len(entities))
	for i, e := range entities {
		lons[i] = e.Longitude
		lats[i] = e.Latitude
	}
	return Extent{
		MinLongitude: floats.Min(lons),
		MaxLongitude: floats.Max(lons),
		MinLatitude:  floats.Min(lats),
		MaxLatitude:  floats.Max(lats),
	}
}

// LongitudeRange returns MaxLongitude - MinLongitude.
func (e Extent) LongitudeRange() float64 { return e.MaxLongitude - e.MinLongitude }

// LatitudeRange returns MaxLatitude - MinLatitude.
func (e Extent) LatitudeRange() float64 { return e.MaxLatitude - e.MinLatitude }

// Validate fails with ErrCodeDegenerateExtent when either range is zero
// (or not a finite positive number), since such an extent cannot be scaled.
func (e Extent) Validate() error {
	if r := e.LongitudeRange(); !(r > 0) || math.IsInf(r, 0) {
		return errors.New(errors.ErrCodeDegenerateExtent,
			"longitude range is %v: all entities share longitude %v", r, e.MinLongitude)
	}
	if r := e.LatitudeRange(); !(r > 0) || math.IsInf(r, 0) {
		return errors.New(errors.ErrCodeDegenerateExtent,
			"latitude range is %v: all entities share latitude %v", r, e.MinLatitude)
	}
	return nil
}

// Normalizer maps continuous coordinates onto grid cells by linear scaling
// over an extent.
type Normalizer struct {
	extent  Extent
	columns int
	rows    int
}

// NewNormalizer creates a normalizer for a columns × rows grid.
// It fails with ErrCodeDegenerateExtent if the extent has a zero range.
func NewNormalizer(extent Extent, columns, rows int) (*Normalizer, error) {
	if err := extent.Validate(); err != nil {
		return nil, err
	}
	return &Normalizer{extent: extent, columns: columns, rows: rows}, nil
}

// Bin returns the initial cell for a coordinate:
//
//	x = floor(columns * (lon - minLon) / (maxLon - minLon))
//	y = floor(rows * (maxLat - lat) / (maxLat - minLat))
//
// The result is clamped to [0, columns] × [0, rows]; the maximum longitude
// and minimum latitude land on the inclusive upper bounds.
func (n *Normalizer) Bin(lon, lat float64) Cell {
	x := math.Floor(float64(n.columns) * (lon - n.extent.MinLongitude) / n.extent.LongitudeRange())
	y := math.Floor(float64(n.rows) * (n.extent.MaxLatitude - lat) / n.extent.LatitudeRange())
	return Cell{
		X: clampInt(int(x), 0, n.columns),
		Y: clampInt(int(y), 0, n.rows),
	}
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
