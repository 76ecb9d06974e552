package grid

import (
	"context"
	"math"

	"github.com/matzehuels/hexgrid/pkg/errors"
)

// DefaultMaxIterations returns the resolver iteration cap used when none is
// configured: 100 iterations per entity, and never fewer than 10000.
func DefaultMaxIterations(n int) int {
	return max(10000, 100*n)
}

// Option configures Place.
type Option func(*placeConfig)

type placeConfig struct {
	maxIterations int
}

// WithMaxIterations caps the number of resolver iterations. Values <= 0
// select DefaultMaxIterations.
func WithMaxIterations(n int) Option {
	return func(c *placeConfig) { c.maxIterations = n }
}

// Placement is the collision-free result of Place.
type Placement struct {
	Columns int
	Rows    int
	Extent  Extent

	// IDs lists entity ids in input order.
	IDs []string

	// Cells maps every entity id to its final cell.
	Cells map[string]Cell

	Stats Stats
}

// Cell returns the cell assigned to id.
func (p *Placement) Cell(id string) (Cell, bool) {
	c, ok := p.Cells[id]
	return c, ok
}

// Len returns the number of placed entities.
func (p *Placement) Len() int { return len(p.IDs) }

// ValidateGrid checks that a columns × rows grid can hold n entities.
// The capacity check is strict: columns*rows must exceed n.
func ValidateGrid(columns, rows, n int) error {
	if columns < 1 || rows < 1 {
		return errors.New(errors.ErrCodeInvalidInput,
			"grid dimensions must be positive, got %dx%d", columns, rows)
	}
	if columns*rows <= n {
		return errors.New(errors.ErrCodeInsufficientGridSize,
			"grid %dx%d (%d cells) cannot hold %d entities; columns*rows must exceed the entity count",
			columns, rows, columns*rows, n)
	}
	return nil
}

// AutoSize returns the smallest square grid whose capacity exceeds n.
func AutoSize(n int) (columns, rows int) {
	s := int(math.Sqrt(float64(max(n, 0)))) + 1
	for s*s <= n {
		s++
	}
	return s, s
}

// Place assigns every entity a distinct cell of a columns × rows grid.
//
// Entities are binned by their coordinates, loaded into an Index in input
// order and resolved until no cell is shared. Entity ids must be unique and
// coordinates finite. An empty input yields an empty placement.
func Place(ctx context.Context, entities []Entity, columns, rows int, opts ...Option) (*Placement, error) {
	cfg := placeConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := ValidateGrid(columns, rows, len(entities)); err != nil {
		return nil, err
	}
	if err := validateEntities(entities); err != nil {
		return nil, err
	}

	p := &Placement{
		Columns: columns,
		Rows:    rows,
		IDs:     make([]string, len(entities)),
		Cells:   make(map[string]Cell, len(entities)),
	}
	for i, e := range entities {
		p.IDs[i] = e.ID
	}
	if len(entities) == 0 {
		return p, nil
	}

	p.Extent = ExtentOf(entities)
	norm, err := NewNormalizer(p.Extent, columns, rows)
	if err != nil {
		return nil, err
	}

	idx := NewIndex(columns, rows)
	for i, e := range entities {
		if err := idx.Insert(i, norm.Bin(e.Longitude, e.Latitude)); err != nil {
			return nil, err
		}
	}

	res := NewResolver(idx, cfg.maxIterations)
	if err := res.Resolve(ctx); err != nil {
		return nil, err
	}
	p.Stats = res.Stats()

	idx.Each(func(e int, c Cell) {
		p.Cells[entities[e].ID] = c
	})
	if len(p.Cells) != len(entities) {
		return nil, errors.New(errors.ErrCodeInvariantViolation,
			"index holds %d entities, expected %d", len(p.Cells), len(entities))
	}
	return p, nil
}

func validateEntities(entities []Entity) error {
	seen := make(map[string]struct{}, len(entities))
	for i, e := range entities {
		if e.ID == "" {
			return errors.New(errors.ErrCodeInvalidInput, "entity %d has an empty id", i)
		}
		if _, dup := seen[e.ID]; dup {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate entity id %q", e.ID)
		}
		seen[e.ID] = struct{}{}
		if !finite(e.Longitude) || !finite(e.Latitude) {
			return errors.New(errors.ErrCodeInvalidInput,
				"entity %q has non-finite coordinates (%v, %v)", e.ID, e.Longitude, e.Latitude)
		}
	}
	return nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
