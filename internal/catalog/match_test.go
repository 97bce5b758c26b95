package catalog

import (
	"testing"

	"github.com/litescript/ls-platesolver/internal/astro"
)

func newM42Projector(t *testing.T) *astro.Projector {
	t.Helper()
	ref := astro.PixelCoordinate{X: 3012.5, Y: 2012.5}
	p, err := astro.NewProjector(
		ref,
		astro.CelestialCoordinate{RA: 84.0571141636, Dec: -4.7304591709},
		astro.DimensionFromRefPixel(ref),
		astro.Transform2D{A: 5.678996349e-4, B: 2.169042003e-4, C: -2.169042003e-4, D: 5.678996349e-4},
	)
	if err != nil {
		t.Fatalf("NewProjector: %v", err)
	}
	return p
}

func TestMatch_Builtin(t *testing.T) {
	p := newM42Projector(t)
	got := Match(p, Builtin(), 0)

	// Alnilam and Alnitak lie just north of the field.
	want := []string{"Hatysa", "M42", "NGC1981", "NGC1977", "M43"}
	if len(got) != len(want) {
		names := make([]string, len(got))
		for i, o := range got {
			names[i] = o.PrimaryName()
		}
		t.Fatalf("Match() = %v, want %v", names, want)
	}
	for i, o := range got {
		if o.PrimaryName() != want[i] {
			t.Errorf("Match()[%d] = %s, want %s", i, o.PrimaryName(), want[i])
		}
		if !p.Contains(p.CelestialToPixel(o.Cel)) {
			t.Errorf("%s projects outside the image", o.PrimaryName())
		}
	}
}

func TestMatch_Empty(t *testing.T) {
	p := newM42Projector(t)
	c := New([]Object{{Type: "Gxy", Cel: astro.CelestialCoordinate{RA: 200, Dec: 40}, Names: []string{"elsewhere"}}})
	if got := Match(p, c, 0); len(got) != 0 {
		t.Errorf("Match() = %v, want none", got)
	}
}

func TestMatch_FiltersBoxCorners(t *testing.T) {
	p := newM42Projector(t)
	c := New([]Object{
		{Type: "Gxy", Cel: astro.CelestialCoordinate{RA: 82.0, Dec: -6.4}, Mag: 10, Names: []string{"south-west"}},
		{Type: "Gxy", Cel: astro.CelestialCoordinate{RA: 82.0, Dec: -3.0}, Mag: 10, Names: []string{"north-west"}},
		{Type: "Gxy", Cel: astro.CelestialCoordinate{RA: 83.822, Dec: -5.391}, Mag: 12, Names: []string{"center"}},
	})

	// Both corner objects are inside the RA/Dec box but outside the
	// rotated image.
	if n := len(c.FindInRange(p.Bounds(), 0)); n != 3 {
		t.Fatalf("FindInRange = %d hits, want 3", n)
	}
	got := Match(p, c, 0)
	if len(got) != 1 || got[0].PrimaryName() != "center" {
		t.Errorf("Match() = %v, want only center", got)
	}
}
