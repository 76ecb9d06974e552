// Package config loads hexgrid settings from a TOML file and the
// environment.
//
// Settings are layered. The config file provides the base, environment
// variables (from the process or a .env file) override it, and explicitly
// set command-line flags override both. The file lives at
// $XDG_CONFIG_HOME/hexgrid/config.toml unless --config names another one:
//
//	[grid]
//	columns = 12
//	rows = 8
//
//	[input]
//	id_column = "abbrev"
//
//	[render]
//	formats = ["svg", "geojson"]
//	labels = true
//	orientation = "columns"
//
//	[cache]
//	redis_url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":8080"
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/hexgrid/pkg/errors"
	"github.com/matzehuels/hexgrid/pkg/pipeline"
	"github.com/matzehuels/hexgrid/pkg/render"
	"github.com/matzehuels/hexgrid/pkg/source"
)

// Environment variables read by Load.
const (
	EnvRedisURL = "HEXGRID_REDIS_URL"
	EnvAddr     = "HEXGRID_ADDR"
	EnvCacheDir = "HEXGRID_CACHE_DIR"
)

// DefaultAddr is the HTTP API listen address.
const DefaultAddr = ":8080"

// Config holds every persistent setting.
type Config struct {
	Grid   GridConfig     `toml:"grid"`
	Input  source.Options `toml:"input"`
	Render RenderConfig   `toml:"render"`
	Cache  CacheConfig    `toml:"cache"`
	Server ServerConfig   `toml:"server"`
}

// GridConfig sets the placement grid. Zero columns and rows select an
// automatic square grid.
type GridConfig struct {
	Columns       int `toml:"columns"`
	Rows          int `toml:"rows"`
	MaxIterations int `toml:"max_iterations"`
}

// RenderConfig sets the rendered output.
type RenderConfig struct {
	Formats     []string `toml:"formats"`
	Orientation string   `toml:"orientation"`
	CellWidth   float64  `toml:"cell_width"`
	Gutter      *float64 `toml:"gutter"`
	Margin      *float64 `toml:"margin"`
	Labels      bool     `toml:"labels"`
	Fill        string   `toml:"fill"`
	Stroke      string   `toml:"stroke"`
	StrokeWidth float64  `toml:"stroke_width"`
	FontSize    float64  `toml:"font_size"`
	FontColor   string   `toml:"font_color"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
	Disabled bool   `toml:"disabled"`
}

// ServerConfig configures "hexgrid serve".
type ServerConfig struct {
	Addr            string        `toml:"addr"`
	RequestTimeout  time.Duration `toml:"request_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
	MaxBodyBytes    int64         `toml:"max_body_bytes"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            DefaultAddr,
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    8 << 20,
		},
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "hexgrid", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "hexgrid", "config.toml"), nil
}

// Load reads the config file at path and applies environment overrides.
// An empty path selects the default location, which may be absent. The
// .env file in the working directory, when present, supplies environment
// values that the process environment has not set.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		if p, err := Path(); err == nil {
			if _, err := os.Stat(p); err == nil {
				path = p
			}
		}
	}
	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg, ".env"); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return errors.New(errors.ErrCodeFileNotFound, "config file %s does not exist", path)
	}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return cfg.Validate()
}

// applyEnv overlays HEXGRID_* variables. A missing dotenv file is ignored.
func applyEnv(cfg *Config, dotenv string) error {
	vars := map[string]string{}
	if _, err := os.Stat(dotenv); err == nil {
		read, err := godotenv.Read(dotenv)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", dotenv)
		}
		vars = read
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := vars[key]
		return v, ok
	}

	if v, ok := lookup(EnvRedisURL); ok {
		cfg.Cache.RedisURL = v
	}
	if v, ok := lookup(EnvAddr); ok && v != "" {
		cfg.Server.Addr = v
	}
	if v, ok := lookup(EnvCacheDir); ok {
		cfg.Cache.Dir = v
	}
	return nil
}

// Validate checks values that would otherwise fail late.
func (c Config) Validate() error {
	if c.Grid.Columns < 0 || c.Grid.Rows < 0 || c.Grid.MaxIterations < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "[grid] values must not be negative")
	}
	if err := c.Input.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[input]")
	}
	if err := pipeline.ValidateFormats(c.Render.Formats); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[render]")
	}
	if c.Render.Orientation != "" {
		if _, err := render.ParseOrientation(c.Render.Orientation); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[render]")
		}
	}
	if c.Server.RequestTimeout < 0 || c.Server.ShutdownTimeout < 0 || c.Server.MaxBodyBytes < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "[server] values must not be negative")
	}
	return nil
}

// Apply copies file and environment settings into opts. changed reports
// whether the command-line flag of that name was set explicitly; such
// flags keep their value. A nil changed treats every flag as unset.
func (c Config) Apply(opts *pipeline.Options, changed func(flag string) bool) {
	if changed == nil {
		changed = func(string) bool { return false }
	}
	setInt := func(flag string, dst *int, v int) {
		if !changed(flag) && v != 0 {
			*dst = v
		}
	}
	setFloat := func(flag string, dst *float64, v float64) {
		if !changed(flag) && v != 0 {
			*dst = v
		}
	}
	setString := func(flag string, dst *string, v string) {
		if !changed(flag) && v != "" {
			*dst = v
		}
	}

	setInt("columns", &opts.Columns, c.Grid.Columns)
	setInt("rows", &opts.Rows, c.Grid.Rows)
	setInt("max-iterations", &opts.MaxIterations, c.Grid.MaxIterations)

	setString("id-column", &opts.Source.IDColumn, c.Input.IDColumn)
	setString("lon-column", &opts.Source.LongitudeColumn, c.Input.LongitudeColumn)
	setString("lat-column", &opts.Source.LatitudeColumn, c.Input.LatitudeColumn)
	setString("geometry-column", &opts.Source.GeometryColumn, c.Input.GeometryColumn)
	setString("color-column", &opts.Source.ColorColumn, c.Input.ColorColumn)

	if !changed("format") && len(c.Render.Formats) > 0 {
		opts.Formats = c.Render.Formats
	}
	orientation := string(opts.Geometry.Orientation)
	setString("orientation", &orientation, c.Render.Orientation)
	opts.Geometry.Orientation = render.Orientation(orientation)
	setFloat("cell-width", &opts.Geometry.CellWidth, c.Render.CellWidth)
	if c.Render.Gutter != nil && !changed("gutter") {
		opts.Geometry.Gutter = *c.Render.Gutter
	}
	if c.Render.Margin != nil && !changed("margin") {
		opts.Geometry.Margin = *c.Render.Margin
	}
	if !changed("labels") && c.Render.Labels {
		opts.Labels = true
	}
	setString("fill", &opts.Fill, c.Render.Fill)
	setString("stroke", &opts.Stroke, c.Render.Stroke)
	setFloat("stroke-width", &opts.StrokeWidth, c.Render.StrokeWidth)
	setFloat("font-size", &opts.FontSize, c.Render.FontSize)
	setString("font-color", &opts.FontColor, c.Render.FontColor)
}
