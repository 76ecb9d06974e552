// Package pkg provides the core libraries for hexgrid, a hexagonal cartogram
// generator.
//
// # Overview
//
// hexgrid turns a table of geographically located entities (states,
// districts, countries) into a grid cartogram: every entity gets one cell of
// a discrete lattice, no two entities share a cell, and the arrangement keeps
// the rough geography of the input. The cells are then drawn as hexagons.
//
// # Architecture
//
// The typical data flow:
//
//	CSV / XLSX / Shapefile / GeoJSON
//	         ↓
//	    [source] package (read records, derive centroids)
//	         ↓
//	    [grid] package (normalize, index, resolve collisions)
//	         ↓
//	    [layout] package (serializable placement)
//	         ↓
//	    [render] package (hexagon geometry → SVG / GeoJSON)
//
// [pipeline] runs these stages with caching and is shared by the CLI and
// the HTTP API. [cache] stores layouts and artifacts on disk or in Redis.
// [observability] exposes hooks for metrics and tracing. [errors] defines
// the error codes every stage reports.
//
// # Quick Start
//
//	records, _ := source.Read("states.csv", source.Options{})
//	p, _ := grid.Place(ctx, source.Entities(records), 12, 8)
//	l := layout.New(p, records)
//	svg := render.RenderSVG(l, render.WithLabels(true))
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/grid/...     # Specific package
//	go test -run Example       # Examples only
//
// [source]: https://pkg.go.dev/github.com/matzehuels/hexgrid/pkg/source
// [grid]: https://pkg.go.dev/github.com/matzehuels/hexgrid/pkg/grid
// [layout]: https://pkg.go.dev/github.com/matzehuels/hexgrid/pkg/layout
// [render]: https://pkg.go.dev/github.com/matzehuels/hexgrid/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/hexgrid/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/hexgrid/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/hexgrid/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/hexgrid/pkg/errors
package pkg
