package grid

import (
	"slices"
	"testing"

	"github.com/matzehuels/hexgrid/pkg/errors"
)

func TestIndexInsertRemove(t *testing.T) {
	ix := NewIndex(3, 2)

	if !ix.Valid() {
		t.Error("empty index should be valid")
	}

	mustInsert(t, ix, 0, Cell{1, 1})
	mustInsert(t, ix, 1, Cell{1, 1})
	mustInsert(t, ix, 2, Cell{3, 1})

	if ix.Len() != 3 {
		t.Errorf("Len() = %d, want 3", ix.Len())
	}
	if ix.Valid() {
		t.Error("index with a shared cell should be invalid")
	}
	if ix.Crowded() != 1 {
		t.Errorf("Crowded() = %d, want 1", ix.Crowded())
	}
	if got := ix.Occupants(Cell{1, 1}); !slices.Equal(got, []int{0, 1}) {
		t.Errorf("Occupants(1,1) = %v, want [0 1]", got)
	}
	if got := ix.Column(1); !slices.Equal(got, []int{0, 1}) {
		t.Errorf("Column(1) = %v, want [0 1]", got)
	}
	if got := ix.Row(1); !slices.Equal(got, []int{0, 1, 2}) {
		t.Errorf("Row(1) = %v, want [0 1 2]", got)
	}

	if err := ix.Remove(0, Cell{1, 1}); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if !ix.Valid() {
		t.Error("index should be valid after removing the extra occupant")
	}
	if got := ix.Occupants(Cell{1, 1}); !slices.Equal(got, []int{1}) {
		t.Errorf("Occupants(1,1) = %v, want [1]", got)
	}
	if got := ix.Row(1); !slices.Equal(got, []int{1, 2}) {
		t.Errorf("Row(1) = %v, want [1 2]", got)
	}
}

func TestIndexRemoveMissing(t *testing.T) {
	ix := NewIndex(2, 2)
	mustInsert(t, ix, 0, Cell{0, 0})

	err := ix.Remove(0, Cell{1, 0})
	if !errors.Is(err, errors.ErrCodeInvariantViolation) {
		t.Errorf("Remove() error = %v, want %s", err, errors.ErrCodeInvariantViolation)
	}
	if ix.Count(Cell{0, 0}) != 1 || ix.Len() != 1 {
		t.Error("failed Remove must not modify the index")
	}
}

func TestIndexInsertOutside(t *testing.T) {
	ix := NewIndex(2, 2)
	for _, c := range []Cell{{-1, 0}, {3, 0}, {0, 3}, {0, -1}} {
		if err := ix.Insert(0, c); !errors.Is(err, errors.ErrCodeInvariantViolation) {
			t.Errorf("Insert(%v) error = %v, want %s", c, err, errors.ErrCodeInvariantViolation)
		}
	}
	if ix.Len() != 0 {
		t.Errorf("Len() = %d, want 0", ix.Len())
	}
}

func TestIndexMoveIsAtomic(t *testing.T) {
	ix := NewIndex(2, 2)
	mustInsert(t, ix, 7, Cell{0, 0})

	if err := ix.Move(7, Cell{1, 1}, Cell{2, 2}); err == nil {
		t.Fatal("Move() from the wrong cell should fail")
	}
	if err := ix.Move(7, Cell{0, 0}, Cell{5, 5}); err == nil {
		t.Fatal("Move() outside the grid should fail")
	}
	if ix.Count(Cell{0, 0}) != 1 || ix.Count(Cell{2, 2}) != 0 {
		t.Fatal("failed Move must leave the index untouched")
	}

	if err := ix.Move(7, Cell{0, 0}, Cell{2, 1}); err != nil {
		t.Fatalf("Move() error: %v", err)
	}
	if ix.Count(Cell{0, 0}) != 0 || ix.Count(Cell{2, 1}) != 1 {
		t.Error("Move did not relocate the entity")
	}
	if len(ix.Column(0)) != 0 || !slices.Equal(ix.Column(2), []int{7}) {
		t.Error("Move did not update the column view")
	}
	if len(ix.Row(0)) != 0 || !slices.Equal(ix.Row(1), []int{7}) {
		t.Error("Move did not update the row view")
	}
}

func TestIndexMostCrowded(t *testing.T) {
	ix := NewIndex(4, 4)

	if c, n := ix.MostCrowded(); n != 0 || c != (Cell{}) {
		t.Errorf("MostCrowded() on empty index = %v, %d", c, n)
	}

	mustInsert(t, ix, 0, Cell{2, 0})
	mustInsert(t, ix, 1, Cell{2, 0})
	mustInsert(t, ix, 2, Cell{0, 3})
	mustInsert(t, ix, 3, Cell{0, 3})

	if _, n := ix.MostCrowded(); n != 2 {
		t.Errorf("MostCrowded() count = %d, want 2", n)
	}
}

// Equal-length lists resolve to the lowest x, then the lowest y.
func TestIndexMostCrowdedTieBreak(t *testing.T) {
	ix := NewIndex(4, 4)
	mustInsert(t, ix, 0, Cell{2, 0})
	mustInsert(t, ix, 1, Cell{2, 0})
	mustInsert(t, ix, 2, Cell{0, 3})
	mustInsert(t, ix, 3, Cell{0, 3})
	mustInsert(t, ix, 4, Cell{0, 4})
	mustInsert(t, ix, 5, Cell{0, 4})

	if c, _ := ix.MostCrowded(); c != (Cell{0, 3}) {
		t.Errorf("MostCrowded() = %v, want (0,3)", c)
	}

	// A longer list wins regardless of position.
	mustInsert(t, ix, 6, Cell{2, 0})
	if c, n := ix.MostCrowded(); c != (Cell{2, 0}) || n != 3 {
		t.Errorf("MostCrowded() = %v, %d, want (2,0), 3", c, n)
	}
}

func TestIndexEach(t *testing.T) {
	ix := NewIndex(2, 2)
	mustInsert(t, ix, 0, Cell{2, 2})
	mustInsert(t, ix, 1, Cell{0, 1})

	got := map[int]Cell{}
	ix.Each(func(e int, c Cell) { got[e] = c })

	if len(got) != 2 || got[0] != (Cell{2, 2}) || got[1] != (Cell{0, 1}) {
		t.Errorf("Each visited %v", got)
	}
}

func mustInsert(t *testing.T, ix *Index, e int, c Cell) {
	t.Helper()
	if err := ix.Insert(e, c); err != nil {
		t.Fatalf("Insert(%d, %v) error: %v", e, c, err)
	}
}
