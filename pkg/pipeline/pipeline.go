// Package pipeline provides the cartogram pipeline shared by the hexgrid
// CLI and HTTP API.
//
// The pipeline consists of three stages:
//
//  1. Load: read records from a CSV, XLSX, Shapefile or GeoJSON file
//  2. Place: bin the records onto the grid and resolve collisions
//  3. Render: draw the placement as SVG, GeoJSON or a JSON layout document
//
// Each stage can be run on its own or as part of the complete pipeline.
// Placement and rendering are cached through a [Runner].
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:   "states.csv",
//	    Columns: 12,
//	    Rows:    8,
//	    Formats: []string{"svg", "geojson"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	records, err := runner.Load(ctx, opts)
//	l, err := runner.Place(ctx, records, opts)
//	artifacts, err := runner.Render(ctx, l, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hexgrid/pkg/cache"
	"github.com/matzehuels/hexgrid/pkg/errors"
	"github.com/matzehuels/hexgrid/pkg/grid"
	"github.com/matzehuels/hexgrid/pkg/layout"
	"github.com/matzehuels/hexgrid/pkg/render"
	"github.com/matzehuels/hexgrid/pkg/source"
)

// Format constants for output formats.
const (
	FormatSVG     = "svg"
	FormatGeoJSON = "geojson"
	FormatJSON    = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:     true,
	FormatGeoJSON: true,
	FormatJSON:    true,
}

// FormatExtensions maps each output format to its file extension.
var FormatExtensions = map[string]string{
	FormatSVG:     ".svg",
	FormatGeoJSON: ".geojson",
	FormatJSON:    ".layout.json",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the cartogram pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Input  string         `json:"-"`
	Source source.Options `json:"source,omitempty"`

	// Place options. Columns and Rows both zero selects grid.AutoSize.
	Columns       int  `json:"columns,omitempty"`
	Rows          int  `json:"rows,omitempty"`
	MaxIterations int  `json:"max_iterations,omitempty"`
	Refresh       bool `json:"refresh,omitempty"`

	// Render options
	Formats     []string        `json:"formats,omitempty"`
	Geometry    render.Geometry `json:"geometry,omitempty"`
	Labels      bool            `json:"labels,omitempty"`
	Title       string          `json:"title,omitempty"`
	Fill        string          `json:"fill,omitempty"`
	Stroke      string          `json:"stroke,omitempty"`
	StrokeWidth float64         `json:"stroke_width,omitempty"`
	FontSize    float64         `json:"font_size,omitempty"`
	FontColor   string          `json:"font_color,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Records are the loaded input rows.
	Records []source.Record

	// InputHash is the content hash of Records.
	InputHash string

	// Layout is the collision-free placement.
	Layout layout.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Records    int
	Iterations int
	LoadTime   time.Duration
	PlaceTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	PlaceHit  bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid format: %q (must be one of: svg, geojson, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForPlace(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for loading.
func (o *Options) ValidateForLoad() error {
	if o.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input file is required")
	}
	if err := o.Source.Validate(); err != nil {
		return err
	}
	o.setLogger()
	return nil
}

// SetPlaceDefaults sets default values for placement.
func (o *Options) SetPlaceDefaults() {
	if o.MaxIterations < 0 {
		o.MaxIterations = 0
	}
	o.setLogger()
}

// ValidateForPlace validates and sets defaults for placement.
func (o *Options) ValidateForPlace() error {
	o.SetPlaceDefaults()
	if o.Columns < 0 || o.Rows < 0 {
		return errors.New(errors.ErrCodeInvalidInput,
			"grid dimensions must not be negative, got %dx%d", o.Columns, o.Rows)
	}
	if (o.Columns == 0) != (o.Rows == 0) {
		return errors.New(errors.ErrCodeInvalidInput,
			"set both columns and rows, or neither for an automatic grid")
	}
	return nil
}

// AutoSize reports whether the grid size is derived from the record count.
func (o *Options) AutoSize() bool {
	return o.Columns == 0 && o.Rows == 0
}

// GridSize returns the grid to place n records on.
func (o *Options) GridSize(n int) (columns, rows int) {
	if o.AutoSize() {
		return grid.AutoSize(n)
	}
	return o.Columns, o.Rows
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Geometry == (render.Geometry{}) {
		o.Geometry = render.DefaultGeometry()
	}
	if o.Geometry.Orientation == "" {
		o.Geometry.Orientation = render.OrientationRows
	}
	if o.Geometry.CellWidth == 0 {
		o.Geometry.CellWidth = render.DefaultCellWidth
	}
	if o.Fill == "" {
		o.Fill = render.DefaultFill
	}
	if o.Stroke == "" {
		o.Stroke = render.DefaultStroke
	}
	if o.FontSize == 0 {
		o.FontSize = render.DefaultFontSize
	}
	if o.FontColor == "" {
		o.FontColor = render.DefaultFontColor
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := o.Geometry.Validate(); err != nil {
		return err
	}
	for _, c := range []string{o.Fill, o.Stroke, o.FontColor} {
		if err := errors.ValidateColor(c); err != nil {
			return err
		}
	}
	if o.StrokeWidth < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "stroke width must not be negative, got %v", o.StrokeWidth)
	}
	if o.FontSize < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "font size must not be negative, got %v", o.FontSize)
	}
	return nil
}

// RenderOptions converts the render settings into render package options.
func (o *Options) RenderOptions() []render.Option {
	return []render.Option{
		render.WithGeometry(o.Geometry),
		render.WithLabels(o.Labels),
		render.WithTitle(o.Title),
		render.WithFill(o.Fill),
		render.WithStroke(o.Stroke, o.StrokeWidth),
		render.WithFontSize(o.FontSize),
		render.WithFontColor(o.FontColor),
	}
}

// LayoutKeyOpts returns cache key options for placement.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Columns:       o.Columns,
		Rows:          o.Rows,
		AutoSize:      o.AutoSize(),
		MaxIterations: o.MaxIterations,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:      format,
		Orientation: string(o.Geometry.Orientation),
		CellWidth:   o.Geometry.CellWidth,
		Gutter:      o.Geometry.Gutter,
		Margin:      o.Geometry.Margin,
		Labels:      o.Labels,
		Title:       o.Title,
		Fill:        o.Fill,
		Stroke:      o.Stroke,
		StrokeWidth: o.StrokeWidth,
		FontSize:    o.FontSize,
		FontColor:   o.FontColor,
	}
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
