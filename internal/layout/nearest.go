package layout

import "math"

// DefaultPickDistance is how far from a marker, in canvas units, a pick
// still selects it.
const DefaultPickDistance = 20.0

// VisibleCount returns how many of n brightness-ordered objects are shown
// at display fraction f. f is clamped to [0, 1].
func VisibleCount(n int, f float64) int {
	f = math.Max(0, math.Min(1, f))
	return int(math.Ceil(float64(n) * f))
}

// FindNearest returns the index of the marker closest to pt among the first
// visible placements, or -1 if none is strictly within maxDist. maxDist <= 0
// means DefaultPickDistance.
func FindNearest(placements []Placement, pt CanvasCoordinate, maxDist float64, visible int) int {
	if maxDist <= 0 {
		maxDist = DefaultPickDistance
	}
	if visible > len(placements) {
		visible = len(placements)
	}

	best := -1
	bestD2 := maxDist * maxDist
	for i := 0; i < visible; i++ {
		c := placements[i].Circle.Center
		dx, dy := c.X-pt.X, c.Y-pt.Y
		if d2 := dx*dx + dy*dy; d2 < bestD2 {
			best, bestD2 = i, d2
		}
	}
	return best
}
