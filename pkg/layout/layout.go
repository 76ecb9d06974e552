// Package layout defines the serialized form of a grid placement.
//
// A [Layout] is what hexgrid writes after placing entities and what the
// renderers read. It is self-contained: besides the grid cell of every
// entity it records the original coordinates, the dataset extent and the
// optional fill color, so a layout can be rendered (or mapped back into
// geographic space) without the input file.
package layout

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/hexgrid/pkg/errors"
	"github.com/matzehuels/hexgrid/pkg/grid"
	"github.com/matzehuels/hexgrid/pkg/source"
)

// FormatVersion is written to every layout document.
const FormatVersion = 1

// Layout is a collision-free placement ready for rendering.
type Layout struct {
	Version int         `json:"version"`
	Columns int         `json:"columns"`
	Rows    int         `json:"rows"`
	Extent  grid.Extent `json:"extent"`
	Cells   []Cell      `json:"cells"`
	Stats   grid.Stats  `json:"stats"`
}

// Cell is one placed entity.
type Cell struct {
	ID        string  `json:"id"`
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Color     string  `json:"color,omitempty"`
}

// New builds a layout from a placement and the records it was computed
// from. Cells follow the input order of the placement.
func New(p *grid.Placement, records []source.Record) Layout {
	byID := make(map[string]source.Record, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}

	l := Layout{
		Version: FormatVersion,
		Columns: p.Columns,
		Rows:    p.Rows,
		Extent:  p.Extent,
		Cells:   make([]Cell, 0, p.Len()),
		Stats:   p.Stats,
	}
	for _, id := range p.IDs {
		c, _ := p.Cell(id)
		r := byID[id]
		l.Cells = append(l.Cells, Cell{
			ID:        id,
			X:         c.X,
			Y:         c.Y,
			Longitude: r.Longitude,
			Latitude:  r.Latitude,
			Color:     r.Color,
		})
	}
	return l
}

// Lookup returns the cell of the entity with the given id.
func (l *Layout) Lookup(id string) (Cell, bool) {
	for _, c := range l.Cells {
		if c.ID == id {
			return c, true
		}
	}
	return Cell{}, false
}

// Validate checks the invariants of a placement: unique ids, every cell
// inside [0, Columns] × [0, Rows] and no two entities in the same cell.
func (l *Layout) Validate() error {
	if l.Columns < 1 || l.Rows < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "layout grid %dx%d is not positive", l.Columns, l.Rows)
	}
	ids := make(map[string]struct{}, len(l.Cells))
	taken := make(map[grid.Cell]string, len(l.Cells))
	for _, c := range l.Cells {
		if c.ID == "" {
			return errors.New(errors.ErrCodeInvalidInput, "layout cell (%d,%d) has no id", c.X, c.Y)
		}
		if _, dup := ids[c.ID]; dup {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate id %q in layout", c.ID)
		}
		ids[c.ID] = struct{}{}

		if c.X < 0 || c.X > l.Columns || c.Y < 0 || c.Y > l.Rows {
			return errors.New(errors.ErrCodeInvalidInput,
				"%s at (%d,%d) lies outside grid %dx%d", c.ID, c.X, c.Y, l.Columns, l.Rows)
		}
		key := grid.Cell{X: c.X, Y: c.Y}
		if other, ok := taken[key]; ok {
			return errors.New(errors.ErrCodeInvalidInput, "%s and %s share cell %v", other, c.ID, key)
		}
		taken[key] = c.ID
	}
	return nil
}

// Marshal serializes a Layout to pretty-printed JSON bytes.
func Marshal(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// Unmarshal deserializes JSON bytes into a Layout and validates it.
func Unmarshal(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal layout")
	}
	if l.Version == 0 {
		l.Version = FormatVersion
	}
	if l.Version > FormatVersion {
		return Layout{}, errors.New(errors.ErrCodeUnsupported,
			"layout version %d is newer than supported version %d", l.Version, FormatVersion)
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// WriteFile writes a Layout to a JSON file.
func WriteFile(l Layout, path string) error {
	data, err := Marshal(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a Layout from a JSON file.
func ReadFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Layout{}, errors.New(errors.ErrCodeFileNotFound, "layout %s does not exist", path)
		}
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
