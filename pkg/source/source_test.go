package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tealeg/xlsx"

	"github.com/matzehuels/hexgrid/pkg/errors"
)

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path string
		want string
		code errors.Code
	}{
		{"states.csv", FormatCSV, ""},
		{"STATES.CSV", FormatCSV, ""},
		{"book.xlsx", FormatXLSX, ""},
		{"counties.shp", FormatShape, ""},
		{"x.geojson", FormatGeoJSON, ""},
		{"x.json", FormatGeoJSON, ""},
		{"old.xls", "", errors.ErrCodeUnsupported},
		{"data.parquet", "", errors.ErrCodeUnsupported},
		{"noext", "", errors.ErrCodeUnsupported},
	}
	for _, tt := range tests {
		got, err := FormatOf(tt.path)
		if got != tt.want || errors.GetCode(err) != tt.code {
			t.Errorf("FormatOf(%q) = %q, %v; want %q, %s", tt.path, got, err, tt.want, tt.code)
		}
	}
}

func TestReadDispatch(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "points.csv")
	if err := os.WriteFile(csvPath, []byte("id,lon,lat\na,1,2\nb,3,4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Read(csvPath, Options{})
	if err != nil {
		t.Fatalf("Read(csv) error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Read(csv) = %d records, want 2", len(got))
	}

	gjPath := filepath.Join(dir, "points.geojson")
	if err := os.WriteFile(gjPath, []byte(featureCollection), 0o644); err != nil {
		t.Fatal(err)
	}
	if got, err = Read(gjPath, Options{}); err != nil || len(got) != 3 {
		t.Errorf("Read(geojson) = %d records, %v", len(got), err)
	}
}

func TestReadErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		path string
		opts Options
		want errors.Code
	}{
		{"missing file", filepath.Join(dir, "nope.csv"), Options{}, errors.ErrCodeFileNotFound},
		{"legacy excel", filepath.Join(dir, "old.xls"), Options{}, errors.ErrCodeUnsupported},
		{"unknown extension", filepath.Join(dir, "data.txt"), Options{}, errors.ErrCodeUnsupported},
		{"empty path", "", Options{}, errors.ErrCodeInvalidPath},
		{"bad column option", filepath.Join(dir, "a.csv"), Options{IDColumn: "a\x01b"}, errors.ErrCodeInvalidColumn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(tt.path, tt.opts)
			if got := errors.GetCode(err); got != tt.want {
				t.Errorf("Read() code = %s, want %s (%v)", got, tt.want, err)
			}
		})
	}
}

func TestReadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "states.xlsx")
	writeWorkbook(t, path, [][]string{
		{"State", "Longitude", "Latitude", "Fill"},
		{"WA", "-120.5", "47.4", "#336699"},
		{"", "", "", ""},
		{"OR", "-120.6", "43.9", ""},
	})

	got, err := Read(path, Options{IDColumn: "state", ColorColumn: "fill"})
	if err != nil {
		t.Fatalf("Read(xlsx) error: %v", err)
	}
	want := []Record{
		{ID: "WA", Longitude: -120.5, Latitude: 47.4, Color: "#336699"},
		{ID: "OR", Longitude: -120.6, Latitude: 43.9},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Read(xlsx) mismatch (-want +got):\n%s", diff)
	}
}

func TestReadXLSXMissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.xlsx")
	writeWorkbook(t, path, [][]string{{"id", "value"}, {"a", "1"}})

	if _, err := Read(path, Options{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Read() error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func writeWorkbook(t *testing.T, path string, rows [][]string) {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sheet1")
	if err != nil {
		t.Fatal(err)
	}
	for _, values := range rows {
		row := sheet.AddRow()
		for _, v := range values {
			row.AddCell().SetString(v)
		}
	}
	if err := f.Save(path); err != nil {
		t.Fatal(err)
	}
}
