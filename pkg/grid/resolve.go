package grid

import (
	"context"

	"github.com/matzehuels/hexgrid/pkg/errors"
)

// Direction is one of the four cardinal cascade directions.
type Direction int

// Cascade directions in evaluation order.
const (
	DirPosX Direction = iota // east
	DirNegX                  // west
	DirPosY                  // south
	DirNegY                  // north
)

var directionNames = [...]string{"+x", "-x", "+y", "-y"}

// String returns "+x", "-x", "+y" or "-y".
func (d Direction) String() string {
	if d < DirPosX || d > DirNegY {
		return "?"
	}
	return directionNames[d]
}

func (d Direction) step() (dx, dy int) {
	switch d {
	case DirPosX:
		return 1, 0
	case DirNegX:
		return -1, 0
	case DirPosY:
		return 0, 1
	default:
		return 0, -1
	}
}

// neighborOffsets is the fixed probe order for a direct move.
var neighborOffsets = [8]Cell{
	{1, 0}, {1, 1}, {1, -1},
	{-1, 0}, {-1, 1}, {-1, -1},
	{0, 1}, {0, -1},
}

// Stats summarizes the work done by a Resolver.
type Stats struct {
	Iterations    int `json:"iterations"`
	NeighborMoves int `json:"neighbor_moves"`
	Cascades      int `json:"cascades"`
	CascadeShifts int `json:"cascade_shifts"`
}

// Resolver repeatedly relocates entities out of crowded cells until the
// index is valid.
type Resolver struct {
	idx           *Index
	maxIterations int
	stats         Stats
}

// NewResolver creates a resolver operating on idx. A non-positive
// maxIterations selects DefaultMaxIterations(idx.Len()).
func NewResolver(idx *Index, maxIterations int) *Resolver {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations(idx.Len())
	}
	return &Resolver{idx: idx, maxIterations: maxIterations}
}

// Stats returns the counters accumulated so far.
func (r *Resolver) Stats() Stats { return r.stats }

// Resolve shunts entities until no cell holds more than one of them.
// It is a no-op on an empty or already-valid index. Cancellation of ctx is
// checked between iterations.
func (r *Resolver) Resolve(ctx context.Context) error {
	for !r.idx.Valid() {
		if r.stats.Iterations >= r.maxIterations {
			return errors.New(errors.ErrCodeNotConverged,
				"%d cells still crowded after %d iterations", r.idx.Crowded(), r.stats.Iterations)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.Step(); err != nil {
			return err
		}
		r.stats.Iterations++
	}
	return nil
}

// Step relocates the second occupant of the most crowded cell, either into
// the first empty neighbour or by a cascade toward the sparsest boundary.
func (r *Resolver) Step() error {
	cell, n := r.idx.MostCrowded()
	if n < 2 {
		return nil
	}
	e := r.idx.cells[r.idx.slot(cell)][1]

	for _, off := range neighborOffsets {
		next := r.clamp(Cell{X: cell.X + off.X, Y: cell.Y + off.Y})
		if r.idx.Count(next) == 0 {
			r.stats.NeighborMoves++
			return r.idx.Move(e, cell, next)
		}
	}

	r.stats.Cascades++
	return r.cascade(e, cell, r.sparsestDirection(cell))
}

// cascade shifts every occupant on the line from the boundary back to
// from+1 one step further in direction d, then moves e one step from from.
// The boundary cell absorbs whatever is pushed into it.
func (r *Resolver) cascade(e int, from Cell, d Direction) error {
	dx, dy := d.step()
	for k := r.distance(from, d); k >= 1; k-- {
		p := Cell{X: from.X + k*dx, Y: from.Y + k*dy}
		dest := r.clamp(Cell{X: p.X + dx, Y: p.Y + dy})
		if dest == p {
			continue
		}
		for _, o := range r.idx.Occupants(p) {
			if err := r.idx.Move(o, p, dest); err != nil {
				return err
			}
			r.stats.CascadeShifts++
		}
	}
	return r.idx.Move(e, from, r.clamp(Cell{X: from.X + dx, Y: from.Y + dy}))
}

// sparsestDirection returns the direction with the largest fraction of empty
// cells between c and the boundary. Directions are evaluated in the order
// +x, -x, +y, -y and only a strictly larger fraction replaces the current
// best. Directions already at the boundary are skipped.
func (r *Resolver) sparsestDirection(c Cell) Direction {
	best, bestFrac := DirPosX, -1.0
	for d := DirPosX; d <= DirNegY; d++ {
		// No room: the step would clamp back onto c. Such a direction never
		// wins, not even a tie at zero.
		if r.distance(c, d) == 0 {
			continue
		}
		if f := r.emptyFraction(c, d); f > bestFrac {
			best, bestFrac = d, f
		}
	}
	return best
}

// emptyFraction is the share of empty cells among the cells between c
// (exclusive) and the boundary (inclusive) in direction d. It is 0 when c
// already sits on that boundary.
func (r *Resolver) emptyFraction(c Cell, d Direction) float64 {
	dist := r.distance(c, d)
	if dist == 0 {
		return 0
	}
	dx, dy := d.step()
	empty := 0
	for k := 1; k <= dist; k++ {
		if r.idx.Count(Cell{X: c.X + k*dx, Y: c.Y + k*dy}) == 0 {
			empty++
		}
	}
	return float64(empty) / float64(dist)
}

// distance returns the number of steps from c to the boundary in direction d.
func (r *Resolver) distance(c Cell, d Direction) int {
	switch d {
	case DirPosX:
		return r.idx.columns - c.X
	case DirNegX:
		return c.X
	case DirPosY:
		return r.idx.rows - c.Y
	default:
		return c.Y
	}
}

func (r *Resolver) clamp(c Cell) Cell {
	return Cell{
		X: clampInt(c.X, 0, r.idx.columns),
		Y: clampInt(c.Y, 0, r.idx.rows),
	}
}
