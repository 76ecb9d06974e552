package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/hexgrid/pkg/errors"
	"github.com/matzehuels/hexgrid/pkg/pipeline"
	"github.com/matzehuels/hexgrid/pkg/render"
)

const sampleConfig = `
[grid]
columns = 12
rows = 8

[input]
id_column = "abbrev"

[render]
formats = ["svg", "geojson"]
orientation = "columns"
gutter = 0.0
labels = true
fill = "#cccccc"

[cache]
redis_url = "redis://localhost:6379/0"

[server]
addr = ":9090"
request_timeout = "5s"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// isolate points every lookup at an empty temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, key := range []string{EnvRedisURL, EnvAddr, EnvCacheDir} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Load(\"\") mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFile(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "custom.toml", sampleConfig)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Grid.Columns != 12 || cfg.Grid.Rows != 8 {
		t.Errorf("Grid = %+v", cfg.Grid)
	}
	if cfg.Input.IDColumn != "abbrev" {
		t.Errorf("Input = %+v", cfg.Input)
	}
	if cfg.Render.Gutter == nil || *cfg.Render.Gutter != 0 {
		t.Errorf("Gutter = %v, want explicit 0", cfg.Render.Gutter)
	}
	if cfg.Server.Addr != ":9090" || cfg.Server.RequestTimeout != 5*time.Second {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Server.ShutdownTimeout != Default().Server.ShutdownTimeout {
		t.Error("unset keys should keep their defaults")
	}
}

func TestLoadDefaultLocation(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, filepath.Join("hexgrid", "config.toml"), "[grid]\ncolumns = 4\nrows = 4\n")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Grid.Columns != 4 {
		t.Errorf("Columns = %d, want 4 from the XDG config", cfg.Grid.Columns)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := isolate(t)

	tests := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"syntax", "[grid\ncolumns = 1", errors.ErrCodeInvalidConfig},
		{"unknown key", "[grid]\ncols = 3\n", errors.ErrCodeInvalidConfig},
		{"negative grid", "[grid]\ncolumns = -1\n", errors.ErrCodeInvalidConfig},
		{"bad format", "[render]\nformats = [\"pdf\"]\n", errors.ErrCodeInvalidConfig},
		{"bad orientation", "[render]\norientation = \"diagonal\"\n", errors.ErrCodeInvalidConfig},
		{"bad column", "[input]\nid_column = \"a\\tb\"\n", errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.name+".toml", tt.content)
			if _, err := Load(path); !errors.Is(err, tt.code) {
				t.Errorf("Load() = %v, want code %s", err, tt.code)
			}
		})
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("explicit missing file = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadEnvironment(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "custom.toml", sampleConfig)
	writeFile(t, dir, ".env", EnvAddr+"=:7070\n"+EnvCacheDir+"=/tmp/hexgrid-dotenv\n")
	t.Setenv(EnvCacheDir, "/tmp/hexgrid-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":7070" {
		t.Errorf("Addr = %q, .env should override the file", cfg.Server.Addr)
	}
	if cfg.Cache.Dir != "/tmp/hexgrid-env" {
		t.Errorf("Cache.Dir = %q, process env should override .env", cfg.Cache.Dir)
	}
	if cfg.Cache.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("RedisURL = %q, should come from the file", cfg.Cache.RedisURL)
	}
}

func TestApply(t *testing.T) {
	dir := isolate(t)
	cfg, err := Load(writeFile(t, dir, "custom.toml", sampleConfig))
	if err != nil {
		t.Fatal(err)
	}

	opts := pipeline.Options{Rows: 3, Geometry: render.DefaultGeometry()}
	changed := map[string]bool{"rows": true}
	cfg.Apply(&opts, func(flag string) bool { return changed[flag] })

	if opts.Columns != 12 {
		t.Errorf("Columns = %d, want 12 from config", opts.Columns)
	}
	if opts.Rows != 3 {
		t.Errorf("Rows = %d, explicit flag should win", opts.Rows)
	}
	if opts.Source.IDColumn != "abbrev" || !opts.Labels || opts.Fill != "#cccccc" {
		t.Errorf("opts = %+v", opts)
	}
	want := render.Geometry{
		Orientation: render.OrientationColumns,
		CellWidth:   render.DefaultCellWidth,
		Gutter:      0,
		Margin:      render.DefaultMargin,
	}
	if opts.Geometry != want {
		t.Errorf("Geometry = %+v, want %+v", opts.Geometry, want)
	}
	if diff := cmp.Diff([]string{"svg", "geojson"}, opts.Formats); diff != "" {
		t.Errorf("Formats (-want +got):\n%s", diff)
	}
}

func TestApplyNilChanged(t *testing.T) {
	cfg := Config{Grid: GridConfig{Columns: 5, Rows: 5}}
	var opts pipeline.Options
	cfg.Apply(&opts, nil)
	if opts.Columns != 5 || opts.Rows != 5 {
		t.Errorf("grid = %dx%d", opts.Columns, opts.Rows)
	}
}
