package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/hexgrid/pkg/pipeline"
	"github.com/matzehuels/hexgrid/pkg/render"
)

func addSourceFlags(cmd *cobra.Command, opts *pipeline.Options) {
	f := cmd.Flags()
	f.StringVar(&opts.Source.IDColumn, "id-column", "", "entity id column (default: id, name, abbrev or code)")
	f.StringVar(&opts.Source.LongitudeColumn, "lon-column", "", "longitude column (default: longitude, lon, lng, long or x)")
	f.StringVar(&opts.Source.LatitudeColumn, "lat-column", "", "latitude column (default: latitude, lat or y)")
	f.StringVar(&opts.Source.GeometryColumn, "geometry-column", "", "WKT geometry column, used when no coordinate columns exist")
	f.StringVar(&opts.Source.ColorColumn, "color-column", "", "per-entity fill color column (default: color, colour or fill)")
}

func addGridFlags(cmd *cobra.Command, opts *pipeline.Options) {
	f := cmd.Flags()
	f.IntVarP(&opts.Columns, "columns", "c", 0, "grid columns (omit with --rows for an automatic square grid)")
	f.IntVarP(&opts.Rows, "rows", "r", 0, "grid rows")
	f.IntVar(&opts.MaxIterations, "max-iterations", 0, "resolver iteration cap (default: 100 per entity, at least 10000)")
	f.BoolVar(&opts.Refresh, "refresh", false, "recompute even if a cached result exists")
}

// renderFlags holds render flags that need parsing before use.
type renderFlags struct {
	formats     string
	orientation string
}

func addRenderFlags(cmd *cobra.Command, opts *pipeline.Options, rf *renderFlags) {
	opts.Geometry = render.DefaultGeometry()

	f := cmd.Flags()
	f.StringVarP(&rf.formats, "format", "f", "", "output format(s): svg (default), geojson, json (comma-separated)")
	f.StringVar(&rf.orientation, "orientation", "", "hexagon orientation: rows (default), columns")
	f.Float64Var(&opts.Geometry.CellWidth, "cell-width", opts.Geometry.CellWidth, "hexagon width")
	f.Float64Var(&opts.Geometry.Gutter, "gutter", opts.Geometry.Gutter, "gap between hexagons")
	f.Float64Var(&opts.Geometry.Margin, "margin", opts.Geometry.Margin, "space around the grid")
	f.BoolVar(&opts.Labels, "labels", false, "draw entity ids on their hexagons")
	f.StringVar(&opts.Title, "title", "", "document title")
	f.StringVar(&opts.Fill, "fill", "", "fill color for entities without one (default "+render.DefaultFill+")")
	f.StringVar(&opts.Stroke, "stroke", "", "outline color (default "+render.DefaultStroke+")")
	f.Float64Var(&opts.StrokeWidth, "stroke-width", 0, "outline width (0: no outline)")
	f.Float64Var(&opts.FontSize, "font-size", 0, "label font size")
	f.StringVar(&opts.FontColor, "font-color", "", "label color")
}

// apply copies explicitly set flags over opts. It runs after the config
// file has been applied.
func (rf renderFlags) apply(cmd *cobra.Command, opts *pipeline.Options) error {
	if cmd.Flags().Changed("format") {
		opts.Formats = parseFormats(rf.formats)
	}
	if cmd.Flags().Changed("orientation") {
		o, err := render.ParseOrientation(rf.orientation)
		if err != nil {
			return err
		}
		opts.Geometry.Orientation = o
	}
	return nil
}

// configure merges the config file into opts. Explicit flags win.
func (c *CLI) configure(cmd *cobra.Command, opts *pipeline.Options, rf *renderFlags) error {
	c.cfg.Apply(opts, cmd.Flags().Changed)
	opts.Logger = c.Logger
	if rf == nil {
		return nil
	}
	return rf.apply(cmd, opts)
}
