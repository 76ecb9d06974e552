package render

import (
	"math"
	"strings"

	"github.com/paulmach/orb"

	"github.com/matzehuels/hexgrid/pkg/errors"
	"github.com/matzehuels/hexgrid/pkg/layout"
)

// Orientation selects how hexagons interlock.
type Orientation string

const (
	OrientationRows    Orientation = "rows"
	OrientationColumns Orientation = "columns"
)

// ParseOrientation accepts "rows" or "columns", case-insensitively.
// An empty string selects rows.
func ParseOrientation(s string) (Orientation, error) {
	switch o := Orientation(strings.ToLower(strings.TrimSpace(s))); o {
	case "":
		return OrientationRows, nil
	case OrientationRows, OrientationColumns:
		return o, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidInput, "orientation must be %q or %q, got %q",
			OrientationRows, OrientationColumns, s)
	}
}

// Default geometry values in SVG user units.
const (
	DefaultCellWidth = 15.0
	DefaultGutter    = 1.0
	DefaultMargin    = 10.0
)

// Geometry describes hexagon size and spacing.
type Geometry struct {
	Orientation Orientation `json:"orientation" toml:"orientation"`
	CellWidth   float64     `json:"cell_width" toml:"cell_width"`
	Gutter      float64     `json:"gutter" toml:"gutter"`
	Margin      float64     `json:"margin" toml:"margin"`
}

// DefaultGeometry returns pointy-top hexagons 15 units wide with a gutter of
// 1 and a margin of 10.
func DefaultGeometry() Geometry {
	return Geometry{
		Orientation: OrientationRows,
		CellWidth:   DefaultCellWidth,
		Gutter:      DefaultGutter,
		Margin:      DefaultMargin,
	}
}

// Validate reports an INVALID_INPUT error for unusable values.
func (g Geometry) Validate() error {
	if _, err := ParseOrientation(string(g.Orientation)); err != nil {
		return err
	}
	if !(g.CellWidth > 0) || math.IsInf(g.CellWidth, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "cell width must be positive, got %v", g.CellWidth)
	}
	if !(g.Gutter >= 0) || math.IsInf(g.Gutter, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "gutter must not be negative, got %v", g.Gutter)
	}
	if !(g.Margin >= 0) || math.IsInf(g.Margin, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "margin must not be negative, got %v", g.Margin)
	}
	return nil
}

// orDefault returns g if it is valid and DefaultGeometry otherwise.
func (g Geometry) orDefault() Geometry {
	if g.Orientation == "" {
		g.Orientation = OrientationRows
	}
	if g.Validate() != nil {
		return DefaultGeometry()
	}
	return g
}

// Hexagon returns the closed ring of cell (x, y) without margins applied.
func (g Geometry) Hexagon(x, y int) orb.Ring {
	w := g.CellWidth
	var px, py float64
	var ring orb.Ring

	if g.Orientation == OrientationColumns {
		ww, hh := w/2, w*math.Sqrt(3)/2
		px = 0.25*w + float64(x)*0.75*(w+g.Gutter)
		py = float64(y) * (hh + g.Gutter)
		if odd(x) {
			py += hh / 2
		}
		ring = orb.Ring{
			{px, py},
			{px + ww, py},
			{px + 1.5*ww, py - hh/2},
			{px + ww, py - hh},
			{px, py - hh},
			{px - ww/2, py - hh/2},
		}
	} else {
		h := w / math.Sqrt(3)
		px = float64(x) * (w + g.Gutter)
		if odd(y) {
			px += w / 2
		}
		py = float64(y) * (1.5*h + g.Gutter)
		ring = orb.Ring{
			{px, py},
			{px + w/2, py - h/2},
			{px + w, py},
			{px + w, py + h},
			{px + w/2, py + 1.5*h},
			{px, py + h},
		}
	}
	return append(ring, ring[0])
}

func odd(v int) bool { return v%2 != 0 }

// Frame holds the hexagons of a layout translated onto a canvas.
type Frame struct {
	Width, Height float64

	// Content is the bounding box of all hexagons on the canvas.
	Content orb.Bound

	// Hexagons and Centers are parallel to the layout's cells.
	Hexagons []orb.Ring
	Centers  []orb.Point
}

// NewFrame lays out the hexagons of l. The top-left hexagon extremes touch
// the margin.
func NewFrame(l layout.Layout, g Geometry) Frame {
	g = g.orDefault()

	f := Frame{
		Hexagons: make([]orb.Ring, len(l.Cells)),
		Centers:  make([]orb.Point, len(l.Cells)),
	}
	if len(l.Cells) == 0 {
		f.Width, f.Height = 2*g.Margin, 2*g.Margin
		f.Content = orb.Bound{Min: orb.Point{g.Margin, g.Margin}, Max: orb.Point{g.Margin, g.Margin}}
		return f
	}

	var raw orb.Bound
	for i, c := range l.Cells {
		ring := g.Hexagon(c.X, c.Y)
		if i == 0 {
			raw = ring.Bound()
		} else {
			raw = raw.Union(ring.Bound())
		}
		f.Hexagons[i] = ring
	}

	dx, dy := g.Margin-raw.Min[0], g.Margin-raw.Min[1]
	for i, ring := range f.Hexagons {
		var cx, cy float64
		for j := range ring {
			ring[j] = orb.Point{ring[j][0] + dx, ring[j][1] + dy}
			if j < len(ring)-1 {
				cx += ring[j][0]
				cy += ring[j][1]
			}
		}
		n := float64(len(ring) - 1)
		f.Centers[i] = orb.Point{cx / n, cy / n}
	}

	f.Content = orb.Bound{
		Min: orb.Point{g.Margin, g.Margin},
		Max: orb.Point{raw.Max[0] + dx, raw.Max[1] + dy},
	}
	f.Width = f.Content.Max[0] + g.Margin
	f.Height = f.Content.Max[1] + g.Margin
	return f
}
