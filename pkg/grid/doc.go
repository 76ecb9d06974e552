// Package grid assigns geographically located entities to the cells of a
// discrete lattice so that no two entities share a cell.
//
// It is the layout core of hexgrid: the output is a set of integer (x, y)
// bins that a renderer turns into a hexagonal cartogram. The placement keeps
// the relative geography of the input as far as a greedy heuristic allows.
//
// # Algorithm
//
// Placement runs in three steps:
//
//  1. Normalize: every (longitude, latitude) pair is scaled linearly over the
//     dataset's bounding box onto [0, columns] × [0, rows]. Latitude is
//     inverted so y grows southwards, matching screen coordinates.
//  2. Index: initial bins are loaded into an [Index], which tracks the
//     occupants of every cell, column and row in arrival order.
//  3. Resolve: while some cell holds more than one entity, a [Resolver]
//     picks the most crowded cell and relocates its second occupant, either
//     into the first empty neighbour or, when all eight neighbours are
//     taken, by cascading a whole line of occupants one step toward the
//     sparsest grid boundary.
//
// The first occupant of the cell being resolved always stays put; only
// later arrivals and the occupants of a cascade line are moved.
//
// # Tie-breaking
//
// Both tie-breaks are deterministic, so identical input yields identical
// output:
//   - [Index.MostCrowded] returns the crowded cell with the lowest x, then
//     the lowest y, among those with the longest occupant list.
//   - The cascade direction is the one with the largest fraction of empty
//     cells between the occupant and the boundary, evaluated in the order
//     +x, −x, +y, −y; the first maximum wins. Directions with no room left
//     are not candidates.
//
// # Usage
//
//	entities := []grid.Entity{
//	    {ID: "WA", Longitude: -120.5, Latitude: 47.4},
//	    {ID: "OR", Longitude: -120.6, Latitude: 43.9},
//	    {ID: "CA", Longitude: -119.4, Latitude: 36.8},
//	}
//	p, err := grid.Place(ctx, entities, 10, 8)
//	if err != nil {
//	    return err
//	}
//	cell, _ := p.Cell("WA")
//
// # Errors
//
// Place fails with the codes from pkg/errors: DEGENERATE_EXTENT when all
// entities share a longitude or latitude, INSUFFICIENT_GRID_SIZE when
// columns*rows does not exceed the entity count, INVARIANT_VIOLATION on
// index corruption and RESOLUTION_DID_NOT_CONVERGE when the iteration cap
// is hit. No partial placement is returned on failure.
//
// The package is synchronous. An Index is not safe for concurrent use.
package grid
