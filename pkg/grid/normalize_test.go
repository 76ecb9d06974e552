package grid

import (
	"math"
	"testing"

	"github.com/matzehuels/hexgrid/pkg/errors"
)

func TestExtentOf(t *testing.T) {
	entities := []Entity{
		{ID: "a", Longitude: -3, Latitude: 40},
		{ID: "b", Longitude: 7, Latitude: 52},
		{ID: "c", Longitude: 2, Latitude: 45},
	}

	got := ExtentOf(entities)
	want := Extent{MinLongitude: -3, MaxLongitude: 7, MinLatitude: 40, MaxLatitude: 52}
	if got != want {
		t.Errorf("ExtentOf() = %+v, want %+v", got, want)
	}
	if got.LongitudeRange() != 10 {
		t.Errorf("LongitudeRange() = %v, want 10", got.LongitudeRange())
	}
	if got.LatitudeRange() != 12 {
		t.Errorf("LatitudeRange() = %v, want 12", got.LatitudeRange())
	}

	if (ExtentOf(nil) != Extent{}) {
		t.Error("ExtentOf(nil) should be the zero extent")
	}
}

func TestExtentValidate(t *testing.T) {
	tests := []struct {
		name    string
		extent  Extent
		wantErr bool
	}{
		{"valid", Extent{0, 10, 0, 10}, false},
		{"zero longitude range", Extent{5, 5, 0, 10}, true},
		{"zero latitude range", Extent{0, 10, 3, 3}, true},
		{"inverted", Extent{10, 0, 0, 10}, true},
		{"nan", Extent{0, math.NaN(), 0, 10}, true},
		{"infinite", Extent{0, math.Inf(1), 0, 10}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.extent.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeDegenerateExtent) {
				t.Errorf("Validate() code = %v, want %v", errors.GetCode(err), errors.ErrCodeDegenerateExtent)
			}
		})
	}
}

func TestNormalizerBin(t *testing.T) {
	n, err := NewNormalizer(Extent{0, 10, 0, 10}, 3, 3)
	if err != nil {
		t.Fatalf("NewNormalizer() error: %v", err)
	}

	tests := []struct {
		lon, lat float64
		want     Cell
	}{
		{0, 0, Cell{0, 3}},      // south-west corner: latitude is inverted
		{10, 10, Cell{3, 0}},    // north-east corner lands on the inclusive bound
		{5, 5, Cell{1, 1}},      // floor(1.5)
		{4, 6, Cell{1, 1}},      // floor(1.2), floor(1.2)
		{9.99, 0.01, Cell{2, 2}}, // just inside the upper bins
		{20, -10, Cell{3, 3}},   // outside the extent is clamped
		{-5, 30, Cell{0, 0}},
	}

	for _, tt := range tests {
		if got := n.Bin(tt.lon, tt.lat); got != tt.want {
			t.Errorf("Bin(%v, %v) = %v, want %v", tt.lon, tt.lat, got, tt.want)
		}
	}
}

func TestNewNormalizerDegenerate(t *testing.T) {
	_, err := NewNormalizer(Extent{2, 2, 0, 1}, 4, 4)
	if !errors.Is(err, errors.ErrCodeDegenerateExtent) {
		t.Errorf("NewNormalizer() error = %v, want %s", err, errors.ErrCodeDegenerateExtent)
	}
}

func TestCellString(t *testing.T) {
	if got := (Cell{X: 3, Y: 12}).String(); got != "(3,12)" {
		t.Errorf("String() = %q, want %q", got, "(3,12)")
	}
}
