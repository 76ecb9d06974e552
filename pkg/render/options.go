package render

// Default styling.
const (
	DefaultFill        = "#eeeeee"
	DefaultStroke      = "#ffffff"
	DefaultFontSize    = 10.0
	DefaultFontColor   = "#000000"
	DefaultStrokeWidth = 0.0
)

// Option configures RenderSVG and RenderGeoJSON.
type Option func(*options)

type options struct {
	geometry    Geometry
	fill        string
	stroke      string
	strokeWidth float64
	labels      bool
	fontSize    float64
	fontColor   string
	title       string
}

func WithGeometry(g Geometry) Option { return func(o *options) { o.geometry = g } }
func WithLabels(on bool) Option      { return func(o *options) { o.labels = on } }
func WithTitle(t string) Option      { return func(o *options) { o.title = t } }
func WithFontColor(c string) Option  { return func(o *options) { o.fontColor = c } }

// WithFill sets the color of cells that carry no color of their own.
func WithFill(c string) Option { return func(o *options) { o.fill = c } }

// WithStroke outlines every hexagon. A width of 0 disables the outline.
func WithStroke(c string, width float64) Option {
	return func(o *options) { o.stroke, o.strokeWidth = c, width }
}

// WithFontSize sets the label size in user units.
func WithFontSize(size float64) Option { return func(o *options) { o.fontSize = size } }

func newOptions(opts ...Option) options {
	o := options{
		geometry:    DefaultGeometry(),
		fill:        DefaultFill,
		stroke:      DefaultStroke,
		strokeWidth: DefaultStrokeWidth,
		fontSize:    DefaultFontSize,
		fontColor:   DefaultFontColor,
	}
	for _, opt := range opts {
		opt(&o)
	}
	o.geometry = o.geometry.orDefault()
	if o.fill == "" {
		o.fill = DefaultFill
	}
	if o.fontColor == "" {
		o.fontColor = DefaultFontColor
	}
	if !(o.fontSize > 0) {
		o.fontSize = DefaultFontSize
	}
	if !(o.strokeWidth >= 0) {
		o.strokeWidth = DefaultStrokeWidth
	}
	return o
}
