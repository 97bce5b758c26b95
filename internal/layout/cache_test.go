package layout

import "testing"

func TestCache_Invalidation(t *testing.T) {
	canvas := CanvasDimension{Width: 80, Height: 24}
	c := NewCache(1, canvas)
	c.SetSolution("a")

	computes := 0
	compute := func(scale float64, d CanvasDimension) []Placement {
		computes++
		return []Placement{{Circle: MarkerCircle{Radius: 16 / scale}}}
	}

	if c.Valid() {
		t.Error("new cache should be empty")
	}
	c.Placements(compute)
	c.Placements(compute)
	if computes != 1 {
		t.Fatalf("computes = %d, want 1", computes)
	}

	steps := []struct {
		name    string
		apply   func()
		recalcs bool
	}{
		{"same scale", func() { c.SetScale(1) }, false},
		{"zoom in", func() { c.SetScale(1.25) }, true},
		{"same canvas", func() { c.SetCanvas(canvas) }, false},
		{"resize", func() { c.SetCanvas(CanvasDimension{Width: 100, Height: 30}) }, true},
		{"same solution", func() { c.SetSolution("a") }, false},
		{"other solution", func() { c.SetSolution("b") }, true},
		{"explicit", func() { c.Invalidate() }, true},
	}

	for _, s := range steps {
		before := computes
		s.apply()
		got := c.Placements(compute)
		if recalced := computes != before; recalced != s.recalcs {
			t.Errorf("%s: recomputed = %v, want %v", s.name, recalced, s.recalcs)
		}
		if len(got) != 1 {
			t.Errorf("%s: len(Placements) = %d, want 1", s.name, len(got))
		}
	}

	if c.Scale() != 1.25 {
		t.Errorf("Scale() = %v, want 1.25", c.Scale())
	}
	if got := c.Placements(compute)[0].Circle.Radius; got != 16/1.25 {
		t.Errorf("radius after zoom = %v, want %v", got, 16/1.25)
	}
}
