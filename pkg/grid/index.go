package grid

import (
	"slices"

	"github.com/matzehuels/hexgrid/pkg/errors"
)

// Index tracks which entities occupy which cells of a (columns+1) × (rows+1)
// lattice. It keeps three views in sync: cell → occupants, column →
// occupants and row → occupants. Entities are referred to by their position
// in the caller's entity slice.
//
// Occupant lists preserve arrival order. The resolver relies on that order:
// the entity at position 1 of a crowded cell is the one that gets moved.
//
// An Index is not safe for concurrent use.
type Index struct {
	columns int // highest valid x
	rows    int // highest valid y

	cells   [][]int // arena, indexed by y*(columns+1) + x
	byCol   [][]int
	byRow   [][]int
	size    int
	crowded int // number of cells holding more than one entity
}

// NewIndex creates an empty index for cells in [0, columns] × [0, rows].
func NewIndex(columns, rows int) *Index {
	columns = max(columns, 0)
	rows = max(rows, 0)
	return &Index{
		columns: columns,
		rows:    rows,
		cells:   make([][]int, (columns+1)*(rows+1)),
		byCol:   make([][]int, columns+1),
		byRow:   make([][]int, rows+1),
	}
}

// Bounds returns the highest valid x and y.
func (ix *Index) Bounds() (columns, rows int) { return ix.columns, ix.rows }

// Len returns the number of entities in the index.
func (ix *Index) Len() int { return ix.size }

// Contains reports whether c lies inside the lattice.
func (ix *Index) Contains(c Cell) bool {
	return c.X >= 0 && c.X <= ix.columns && c.Y >= 0 && c.Y <= ix.rows
}

func (ix *Index) slot(c Cell) int { return c.Y*(ix.columns+1) + c.X }

// Insert appends entity e to the occupant lists of c, its column and its row.
func (ix *Index) Insert(e int, c Cell) error {
	if !ix.Contains(c) {
		return errors.New(errors.ErrCodeInvariantViolation,
			"insert entity %d: cell %v outside grid [0,%d]x[0,%d]", e, c, ix.columns, ix.rows)
	}
	s := ix.slot(c)
	ix.cells[s] = append(ix.cells[s], e)
	if len(ix.cells[s]) == 2 {
		ix.crowded++
	}
	ix.byCol[c.X] = append(ix.byCol[c.X], e)
	ix.byRow[c.Y] = append(ix.byRow[c.Y], e)
	ix.size++
	return nil
}

// Remove deletes entity e from the occupant lists of c, its column and its
// row. It fails with ErrCodeInvariantViolation if e is not at c.
func (ix *Index) Remove(e int, c Cell) error {
	if !ix.Contains(c) {
		return errors.New(errors.ErrCodeInvariantViolation,
			"remove entity %d: cell %v outside grid", e, c)
	}
	s := ix.slot(c)
	i := slices.Index(ix.cells[s], e)
	if i < 0 {
		return errors.New(errors.ErrCodeInvariantViolation,
			"remove entity %d: not present at %v", e, c)
	}
	ix.cells[s] = slices.Delete(ix.cells[s], i, i+1)
	if len(ix.cells[s]) == 1 {
		ix.crowded--
	}
	ix.byCol[c.X] = deleteValue(ix.byCol[c.X], e)
	ix.byRow[c.Y] = deleteValue(ix.byRow[c.Y], e)
	ix.size--
	return nil
}

// Move relocates entity e from one cell to another. The index is left
// untouched if e is not at from or to lies outside the grid.
func (ix *Index) Move(e int, from, to Cell) error {
	if !ix.Contains(to) {
		return errors.New(errors.ErrCodeInvariantViolation,
			"move entity %d: target %v outside grid", e, to)
	}
	if err := ix.Remove(e, from); err != nil {
		return err
	}
	return ix.Insert(e, to)
}

// Count returns the number of occupants of c. Cells outside the grid count
// as empty.
func (ix *Index) Count(c Cell) int {
	if !ix.Contains(c) {
		return 0
	}
	return len(ix.cells[ix.slot(c)])
}

// Occupants returns a copy of the occupant list of c in arrival order.
func (ix *Index) Occupants(c Cell) []int {
	if !ix.Contains(c) {
		return nil
	}
	return slices.Clone(ix.cells[ix.slot(c)])
}

// Column returns a copy of the occupants of column x in arrival order.
func (ix *Index) Column(x int) []int {
	if x < 0 || x > ix.columns {
		return nil
	}
	return slices.Clone(ix.byCol[x])
}

// Row returns a copy of the occupants of row y in arrival order.
func (ix *Index) Row(y int) []int {
	if y < 0 || y > ix.rows {
		return nil
	}
	return slices.Clone(ix.byRow[y])
}

// Valid reports whether every cell holds at most one entity.
func (ix *Index) Valid() bool { return ix.crowded == 0 }

// Crowded returns the number of cells holding more than one entity.
func (ix *Index) Crowded() int { return ix.crowded }

// MostCrowded returns the cell with the longest occupant list and that
// list's length. Ties go to the lowest x, then the lowest y. On an empty
// index it returns the origin and 0.
func (ix *Index) MostCrowded() (Cell, int) {
	best, bestLen := Cell{}, 0
	for x := 0; x <= ix.columns; x++ {
		for y := 0; y <= ix.rows; y++ {
			c := Cell{X: x, Y: y}
			if n := len(ix.cells[ix.slot(c)]); n > bestLen {
				best, bestLen = c, n
			}
		}
	}
	return best, bestLen
}

// Each calls fn for every entity with its current cell, scanning cells in
// row-major order.
func (ix *Index) Each(fn func(e int, c Cell)) {
	for s, occupants := range ix.cells {
		c := Cell{X: s % (ix.columns + 1), Y: s / (ix.columns + 1)}
		for _, e := range occupants {
			fn(e, c)
		}
	}
}

func deleteValue(list []int, v int) []int {
	if i := slices.Index(list, v); i >= 0 {
		return slices.Delete(list, i, i+1)
	}
	return list
}
