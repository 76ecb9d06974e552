package grid_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/hexgrid/pkg/grid"
)

func ExamplePlace() {
	entities := []grid.Entity{
		{ID: "A", Longitude: 0, Latitude: 0},
		{ID: "B", Longitude: 10, Latitude: 10},
		{ID: "C", Longitude: 4, Latitude: 6},
		{ID: "D", Longitude: 4, Latitude: 6},
	}

	p, err := grid.Place(context.Background(), entities, 3, 3)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, id := range p.IDs {
		c, _ := p.Cell(id)
		fmt.Println(id, c)
	}
	// Output:
	// A (0,3)
	// B (3,0)
	// C (1,1)
	// D (2,1)
}

func ExampleAutoSize() {
	columns, rows := grid.AutoSize(50)
	fmt.Println(columns, rows)
	// Output: 8 8
}
