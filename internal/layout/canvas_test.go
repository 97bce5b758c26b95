package layout

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/litescript/ls-platesolver/internal/astro"
)

func TestFittedImageSize(t *testing.T) {
	tests := []struct {
		name   string
		image  astro.ImageDimension
		canvas CanvasDimension
		want   CanvasCoordinate
	}{
		{"wide image", astro.ImageDimension{Width: 2000, Height: 1000}, CanvasDimension{Width: 800, Height: 600}, CanvasCoordinate{X: 800, Y: 400}},
		{"tall image", astro.ImageDimension{Width: 1000, Height: 2000}, CanvasDimension{Width: 800, Height: 600}, CanvasCoordinate{X: 300, Y: 600}},
		{"same aspect", astro.ImageDimension{Width: 400, Height: 300}, CanvasDimension{Width: 800, Height: 600}, CanvasCoordinate{X: 800, Y: 600}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FittedImageSize(tt.image, tt.canvas)
			if !scalar.EqualWithinAbs(got.X, tt.want.X, 1e-9) || !scalar.EqualWithinAbs(got.Y, tt.want.Y, 1e-9) {
				t.Errorf("FittedImageSize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPixelToCanvas(t *testing.T) {
	image := astro.ImageDimension{Width: 6025, Height: 4025}
	canvas := CanvasDimension{Width: 800, Height: 600}

	// Bottom-right image corner lands on the fitted area's corner.
	got := PixelToCanvas(astro.PixelCoordinate{X: 6025, Y: 4025}, image, canvas)
	fit := FittedImageSize(image, canvas)
	if !scalar.EqualWithinAbs(got.X, fit.X, 1e-9) || !scalar.EqualWithinAbs(got.Y, fit.Y, 1e-9) {
		t.Errorf("PixelToCanvas(corner) = %v, want %v", got, fit)
	}
	if got.X != 800 {
		t.Errorf("wide image should use the full canvas width, got %v", got.X)
	}

	for _, px := range []astro.PixelCoordinate{{X: 0, Y: 0}, {X: 3040.5, Y: 3165.1}, {X: 6000, Y: 17}} {
		back := CanvasToPixel(PixelToCanvas(px, image, canvas), image, canvas)
		if !scalar.EqualWithinAbs(back.X, px.X, 1e-9) || !scalar.EqualWithinAbs(back.Y, px.Y, 1e-9) {
			t.Errorf("roundtrip %v -> %v", px, back)
		}
	}
}
