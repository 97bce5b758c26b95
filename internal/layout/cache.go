package layout

// Cache keeps the placements of one layout pass until an input that
// changes candidate geometry changes. It belongs to a single draw loop and
// is not safe for concurrent use.
type Cache struct {
	solution   string
	scale      float64
	canvas     CanvasDimension
	placements []Placement
	valid      bool
}

// NewCache returns an empty cache for the given zoom scale and canvas.
func NewCache(scale float64, canvas CanvasDimension) *Cache {
	return &Cache{scale: scale, canvas: canvas}
}

// Scale returns the current zoom scale.
func (c *Cache) Scale() float64 { return c.scale }

// Canvas returns the current canvas size.
func (c *Cache) Canvas() CanvasDimension { return c.canvas }

// Valid reports whether cached placements are available.
func (c *Cache) Valid() bool { return c.valid }

// SetSolution switches to another solution, dropping the placements if it
// differs from the current one.
func (c *Cache) SetSolution(id string) {
	if id != c.solution {
		c.solution = id
		c.Invalidate()
	}
}

// SetScale changes the zoom scale. Marker size and candidate distances
// depend on it, so any change drops the placements.
func (c *Cache) SetScale(scale float64) {
	if scale != c.scale {
		c.scale = scale
		c.Invalidate()
	}
}

// SetCanvas changes the canvas size, dropping the placements on change.
func (c *Cache) SetCanvas(d CanvasDimension) {
	if d != c.canvas {
		c.canvas = d
		c.Invalidate()
	}
}

// Invalidate drops the cached placements.
func (c *Cache) Invalidate() {
	c.placements = nil
	c.valid = false
}

// Placements returns the cached placements, computing them first if
// needed. compute receives the current scale and canvas.
func (c *Cache) Placements(compute func(scale float64, canvas CanvasDimension) []Placement) []Placement {
	if !c.valid {
		c.placements = compute(c.scale, c.canvas)
		c.valid = true
	}
	return c.placements
}
