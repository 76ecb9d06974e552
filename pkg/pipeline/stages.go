package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/hexgrid/pkg/grid"
	"github.com/matzehuels/hexgrid/pkg/layout"
	"github.com/matzehuels/hexgrid/pkg/observability"
	"github.com/matzehuels/hexgrid/pkg/render"
	"github.com/matzehuels/hexgrid/pkg/source"
)

// Load reads the records of opts.Input.
func Load(ctx context.Context, opts Options) ([]source.Record, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, opts.Input)
	start := time.Now()

	records, err := source.Read(opts.Input, opts.Source)
	hooks.OnLoadComplete(ctx, opts.Input, len(records), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("loaded records", "input", opts.Input, "records", len(records))
	return records, nil
}

// Place assigns every record a distinct grid cell and returns the layout
// document. The grid is sized by opts.GridSize.
func Place(ctx context.Context, records []source.Record, opts Options) (layout.Layout, error) {
	if err := opts.ValidateForPlace(); err != nil {
		return layout.Layout{}, err
	}
	columns, rows := opts.GridSize(len(records))

	hooks := observability.Pipeline()
	hooks.OnPlaceStart(ctx, len(records), columns, rows)
	start := time.Now()

	p, err := grid.Place(ctx, source.Entities(records), columns, rows,
		grid.WithMaxIterations(opts.MaxIterations))
	iterations := 0
	if p != nil {
		iterations = p.Stats.Iterations
	}
	hooks.OnPlaceComplete(ctx, iterations, time.Since(start), err)
	if err != nil {
		return layout.Layout{}, err
	}

	opts.Logger.Debug("resolved collisions",
		"columns", columns,
		"rows", rows,
		"iterations", p.Stats.Iterations,
		"neighbor_moves", p.Stats.NeighborMoves,
		"cascades", p.Stats.Cascades)
	return layout.New(p, records), nil
}

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, l layout.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, err := renderFormats(l, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func renderFormats(l layout.Layout, opts Options) (map[string][]byte, error) {
	ropts := opts.RenderOptions()
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = render.RenderSVG(l, ropts...)
		case FormatGeoJSON:
			data, err = render.RenderGeoJSON(l, ropts...)
		case FormatJSON:
			data, err = layout.Marshal(l)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
