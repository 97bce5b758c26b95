package astro

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestDimensionFromRefPixel(t *testing.T) {
	tests := []struct {
		name string
		ref  PixelCoordinate
		want ImageDimension
	}{
		{"odd size", PixelCoordinate{X: 3012.5, Y: 2012.5}, ImageDimension{Width: 6025, Height: 4025}},
		{"even size", PixelCoordinate{X: 2000, Y: 1500}, ImageDimension{Width: 4000, Height: 3000}},
		{"rounds", PixelCoordinate{X: 99.74, Y: 50.26}, ImageDimension{Width: 199, Height: 101}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DimensionFromRefPixel(tt.ref)
			if got != tt.want {
				t.Errorf("DimensionFromRefPixel(%v) = %v, want %v", tt.ref, got, tt.want)
			}
		})
	}
}

func TestFormatRA(t *testing.T) {
	tests := []struct {
		ra   float64
		want string
	}{
		{0, "00h00m00.00"},
		{15, "01h00m00.00"},
		{83.822, "05h35m17.28"},
		{359.999, "23h59m59.76"},
		{-15, "23h00m00.00"}, // wraps
	}

	for _, tt := range tests {
		got := FormatRA(tt.ra)
		if got != tt.want {
			t.Errorf("FormatRA(%v) = %q, want %q", tt.ra, got, tt.want)
		}
	}
}

func TestFormatDec(t *testing.T) {
	if got := FormatDec(-5.391111); got != "-5.391" {
		t.Errorf("FormatDec = %q, want -5.391", got)
	}
	if got := FormatDec(41.2692); got != "41.269" {
		t.Errorf("FormatDec = %q, want 41.269", got)
	}
}

func TestCelestialCoordinate_String(t *testing.T) {
	c := CelestialCoordinate{RA: 15, Dec: -2.5}
	want := "RA: 01h00m00.00 Dec: -2.500"
	if got := c.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestAngularSeparation(t *testing.T) {
	tests := []struct {
		name string
		a, b CelestialCoordinate
		want float64
	}{
		{"same point", CelestialCoordinate{RA: 83.8, Dec: -5.4}, CelestialCoordinate{RA: 83.8, Dec: -5.4}, 0},
		{"quarter equator", CelestialCoordinate{RA: 0, Dec: 0}, CelestialCoordinate{RA: 90, Dec: 0}, 90},
		{"pole to equator", CelestialCoordinate{RA: 0, Dec: 90}, CelestialCoordinate{RA: 123, Dec: 0}, 90},
		{"across the pole", CelestialCoordinate{RA: 10, Dec: 89}, CelestialCoordinate{RA: 190, Dec: 89}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AngularSeparation(tt.a, tt.b)
			if !scalar.EqualWithinAbs(got, tt.want, 1e-9) {
				t.Errorf("AngularSeparation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSkyBounds_Contains(t *testing.T) {
	b := SkyBounds{MinRA: 80, MaxRA: 90, MinDec: -10, MaxDec: 0}

	if !b.Contains(CelestialCoordinate{RA: 80, Dec: 0}) {
		t.Error("bounds should be inclusive at the edges")
	}
	if b.Contains(CelestialCoordinate{RA: 90.001, Dec: -5}) {
		t.Error("RA outside bounds should not be contained")
	}
	if b.Contains(CelestialCoordinate{RA: 85, Dec: -10.5}) {
		t.Error("Dec outside bounds should not be contained")
	}
}

func TestFocalLengthFOV(t *testing.T) {
	// 100mm on full frame covers about 20.4 degrees horizontally
	got := FocalLengthToFOV(100)
	if math.Abs(got-20.407) > 0.01 {
		t.Errorf("FocalLengthToFOV(100) = %v, want ~20.407", got)
	}

	for _, lens := range []float64{10, 100, 360} {
		fov := FocalLengthToFOV(lens)
		if back := FOVToFocalLength(fov); !scalar.EqualWithinAbs(back, lens, 1e-3) {
			t.Errorf("roundtrip %vmm -> %v° -> %vmm", lens, fov, back)
		}
	}
}

func TestValidFOV(t *testing.T) {
	for _, fov := range []float64{0.1, 2, 89.9} {
		if !ValidFOV(fov) {
			t.Errorf("ValidFOV(%v) = false, want true", fov)
		}
	}
	for _, fov := range []float64{0, -1, 90, 180} {
		if ValidFOV(fov) {
			t.Errorf("ValidFOV(%v) = true, want false", fov)
		}
	}
}
