package astro

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

// Plate constants of the M42 reference solution (testdata/m42.wcs in the wcs
// package).
var (
	m42RefPixel = PixelCoordinate{X: 3012.5, Y: 2012.5}
	m42RefCel   = CelestialCoordinate{RA: 84.0571141636, Dec: -4.7304591709}
	m42CD       = Transform2D{A: 5.678996349e-4, B: 2.169042003e-4, C: -2.169042003e-4, D: 5.678996349e-4}
)

func newM42Projector(t *testing.T) *Projector {
	t.Helper()
	p, err := NewProjector(m42RefPixel, m42RefCel, DimensionFromRefPixel(m42RefPixel), m42CD)
	if err != nil {
		t.Fatalf("NewProjector: %v", err)
	}
	return p
}

func TestProjector_PixelToCelestial_M42(t *testing.T) {
	p := newM42Projector(t)

	if d := p.Dimension(); d.Width != 6025 || d.Height != 4025 {
		t.Fatalf("Dimension() = %v, want 6025x4025", d)
	}

	tests := []struct {
		name    string
		px      PixelCoordinate
		ra, dec float64
	}{
		{"top left", PixelCoordinate{X: 0, Y: 0}, 82.782, -2.934},
		{"near bottom right", PixelCoordinate{X: 6000, Y: 4000}, 85.330, -6.505},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := p.PixelToCelestial(tt.px)
			if !scalar.EqualWithinAbs(c.RA, tt.ra, 1e-3) {
				t.Errorf("RA = %v, want %v", c.RA, tt.ra)
			}
			if !scalar.EqualWithinAbs(c.Dec, tt.dec, 1e-3) {
				t.Errorf("Dec = %v, want %v", c.Dec, tt.dec)
			}
		})
	}
}

func TestProjector_RefPixelMapsToRefCelestial(t *testing.T) {
	p := newM42Projector(t)
	c := p.PixelToCelestial(m42RefPixel)
	if !scalar.EqualWithinAbs(c.RA, m42RefCel.RA, 1e-9) || !scalar.EqualWithinAbs(c.Dec, m42RefCel.Dec, 1e-9) {
		t.Errorf("PixelToCelestial(ref) = %v, want %v", c, m42RefCel)
	}
}

func TestProjector_RoundTrip(t *testing.T) {
	projectors := []struct {
		name   string
		ref    PixelCoordinate
		refCel CelestialCoordinate
		cd     Transform2D
	}{
		{"m42", m42RefPixel, m42RefCel, m42CD},
		{"mirrored wide field", PixelCoordinate{X: 2000, Y: 1500}, CelestialCoordinate{RA: 279.2, Dec: 38.8},
			Transform2D{A: -5.5e-3, B: 1.2e-4, C: 1.1e-4, D: 5.5e-3}},
		{"southern", PixelCoordinate{X: 640, Y: 480}, CelestialCoordinate{RA: 201.3, Dec: -60.4},
			Transform2D{A: 1e-3, B: -2e-4, C: 2e-4, D: 1e-3}},
		{"near pole", PixelCoordinate{X: 1024, Y: 768}, CelestialCoordinate{RA: 37.95, Dec: 88.5},
			Transform2D{A: 2e-4, B: 3e-5, C: -3e-5, D: 2e-4}},
	}

	for _, pp := range projectors {
		t.Run(pp.name, func(t *testing.T) {
			dim := DimensionFromRefPixel(pp.ref)
			p, err := NewProjector(pp.ref, pp.refCel, dim, pp.cd)
			if err != nil {
				t.Fatalf("NewProjector: %v", err)
			}

			points := []PixelCoordinate{pp.ref, p.Center(), {X: 100, Y: 100}}
			for _, c := range p.Corners() {
				points = append(points, c)
			}

			for _, px := range points {
				back := p.CelestialToPixel(p.PixelToCelestial(px))
				if math.Abs(back.X-px.X) > 1 || math.Abs(back.Y-px.Y) > 1 {
					t.Errorf("roundtrip %v -> %v", px, back)
				}
			}
		})
	}
}

func TestProjector_CelestialToPixel_Orientation(t *testing.T) {
	p := newM42Projector(t)

	// The top-left corner's sky position must map back near (0,0), not to a
	// vertically mirrored position.
	px := p.CelestialToPixel(CelestialCoordinate{RA: 82.782, Dec: -2.934})
	if math.Abs(px.X) > 1 || math.Abs(px.Y) > 1 {
		t.Errorf("CelestialToPixel(top left) = %v, want ~(0,0)", px)
	}

	// M42 itself is inside this field.
	m42 := p.CelestialToPixel(CelestialCoordinate{RA: 83.822, Dec: -5.391})
	if !p.Contains(m42) {
		t.Errorf("M42 projects to %v, outside the image", m42)
	}
}

func TestNewProjector_Errors(t *testing.T) {
	_, err := NewProjector(m42RefPixel, m42RefCel, ImageDimension{Width: 6025, Height: 4025}, Transform2D{A: 1, B: 1, C: 1, D: 1})
	if !errors.Is(err, ErrDegenerateMatrix) {
		t.Errorf("degenerate CD: error = %v, want ErrDegenerateMatrix", err)
	}

	_, err = NewProjector(m42RefPixel, m42RefCel, ImageDimension{Width: 0, Height: 4025}, m42CD)
	if err == nil {
		t.Error("zero width should fail")
	}
}

func TestProjector_Contains(t *testing.T) {
	p := newM42Projector(t)

	tests := []struct {
		px   PixelCoordinate
		want bool
	}{
		{PixelCoordinate{X: 0, Y: 0}, true},
		{PixelCoordinate{X: 6024.9, Y: 4024.9}, true},
		{PixelCoordinate{X: 6025, Y: 10}, false},
		{PixelCoordinate{X: 10, Y: 4025}, false},
		{PixelCoordinate{X: -0.1, Y: 10}, false},
	}
	for _, tt := range tests {
		if got := p.Contains(tt.px); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.px, got, tt.want)
		}
	}
}

func TestProjector_Bounds(t *testing.T) {
	p := newM42Projector(t)
	b := p.Bounds()

	// Corner values of the reference solution.
	if !scalar.EqualWithinAbs(b.MinRA, 81.902, 1e-3) || !scalar.EqualWithinAbs(b.MaxRA, 86.209, 1e-3) {
		t.Errorf("RA bounds = [%v, %v], want [81.902, 86.209]", b.MinRA, b.MaxRA)
	}
	if !scalar.EqualWithinAbs(b.MinDec, -6.525, 1e-3) || !scalar.EqualWithinAbs(b.MaxDec, -2.934, 1e-3) {
		t.Errorf("Dec bounds = [%v, %v], want [-6.525, -2.934]", b.MinDec, b.MaxDec)
	}
	if !b.Contains(m42RefCel) {
		t.Error("bounds should contain the reference point")
	}
}
