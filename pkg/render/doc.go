// Package render draws layouts as hexagonal cartograms.
//
// # Geometry
//
// Each layout cell becomes one regular hexagon. Two orientations are
// supported:
//
//   - [OrientationRows]: pointy-top hexagons; odd rows shift right by half a
//     cell so rows interlock.
//   - [OrientationColumns]: flat-top hexagons; odd columns shift down by half
//     a cell so columns interlock.
//
// Cell width, gutter and margin are set through [Geometry]. The canvas is the
// bounding box of all hexagons plus the margin on every side.
//
// # Outputs
//
// [RenderSVG] writes an SVG document with one polygon per entity, filled
// with the entity color or the default fill, and optional centered labels:
//
//	svg := render.RenderSVG(l, render.WithLabels(true), render.WithTitle("States"))
//
// [RenderGeoJSON] writes the same hexagons as a GeoJSON FeatureCollection.
// Vertices are mapped back into longitude/latitude by the inverse of the
// linear transform that binned the entities, so the cartogram overlays the
// original extent:
//
//	data, err := render.RenderGeoJSON(l)
package render
