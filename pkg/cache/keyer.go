package cache

// Keyer derives cache keys from content hashes and options.
type Keyer interface {
	// LayoutKey identifies a placement of the records hashed as inputHash.
	LayoutKey(inputHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendering of the layout hashed as layoutHash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds every option that changes a placement.
type LayoutKeyOpts struct {
	Columns       int  `json:"columns"`
	Rows          int  `json:"rows"`
	AutoSize      bool `json:"auto_size,omitempty"`
	MaxIterations int  `json:"max_iterations,omitempty"`
}

// ArtifactKeyOpts holds every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Orientation string  `json:"orientation,omitempty"`
	CellWidth   float64 `json:"cell_width,omitempty"`
	Gutter      float64 `json:"gutter,omitempty"`
	Margin      float64 `json:"margin,omitempty"`
	Labels      bool    `json:"labels,omitempty"`
	Title       string  `json:"title,omitempty"`
	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"stroke_width,omitempty"`
	FontSize    float64 `json:"font_size,omitempty"`
	FontColor   string  `json:"font_color,omitempty"`
}

// DefaultKeyer produces "layout:<sha256>" and "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) LayoutKey(inputHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", inputHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
