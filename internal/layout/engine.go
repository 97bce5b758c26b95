package layout

import (
	"math"

	"github.com/litescript/ls-platesolver/internal/astro"
	"github.com/litescript/ls-platesolver/internal/catalog"
)

// Screen-space defaults. The engine divides them by the zoom scale so
// markers and label spacing keep their on-screen size.
const DefaultMarkerRadius = 16.0

var (
	// DefaultDistances are the candidate rings around a marker, nearest
	// first.
	DefaultDistances = []float64{8, 24, 40, 56}
	// DefaultAngles are the candidate directions in degrees, tried in this
	// order on every ring. Canvas Y grows downward, so 60 is below right.
	DefaultAngles = []float64{0, 60, 120, 180, 240, 300}
)

// Item is one label to place.
type Item struct {
	Label  string
	Anchor CanvasCoordinate
}

// Engine places labels with a greedy search: objects are handled in order
// and each takes the first candidate position that overlaps nothing placed
// so far, or else the earliest candidate with the fewest overlaps.
type Engine struct {
	Projector *astro.Projector
	Canvas    CanvasDimension
	Measurer  Measurer
	Scale     float64

	// Screen units; see DefaultMarkerRadius.
	MarkerRadius float64
	Distances    []float64
	Angles       []float64 // degrees
}

// NewEngine returns an engine with the default candidate grid.
func NewEngine(p *astro.Projector, canvas CanvasDimension, m Measurer, scale float64) *Engine {
	return &Engine{
		Projector:    p,
		Canvas:       canvas,
		Measurer:     m,
		Scale:        scale,
		MarkerRadius: DefaultMarkerRadius,
		Distances:    DefaultDistances,
		Angles:       DefaultAngles,
	}
}

// Place lays out labels for objects, which must be brightest first. The
// result has one placement per object, in the same order.
func (e *Engine) Place(objects []catalog.Object) []Placement {
	items := make([]Item, len(objects))
	for i, o := range objects {
		items[i] = Item{
			Label:  o.PrimaryName(),
			Anchor: e.Anchor(o.Cel),
		}
	}
	return e.PlaceItems(items)
}

// Anchor returns the canvas position of a sky coordinate.
func (e *Engine) Anchor(c astro.CelestialCoordinate) CanvasCoordinate {
	return PixelToCanvas(e.Projector.CelestialToPixel(c), e.Projector.Dimension(), e.Canvas)
}

// PlaceItems lays out labels at already projected anchors.
func (e *Engine) PlaceItems(items []Item) []Placement {
	var idx OverlapIndex
	placements := make([]Placement, 0, len(items))
	for _, it := range items {
		placements = append(placements, e.placeOne(&idx, it))
	}
	return placements
}

type candidate struct {
	rect             LabelRect
	leaderX, leaderY float64
}

// placeOne searches the candidate grid for it against idx, then registers
// the winning label and the item's marker in idx.
func (e *Engine) placeOne(idx *OverlapIndex, it Item) Placement {
	size := e.Measurer.Measure(it.Label)
	scale := e.scale()

	var (
		best      candidate
		bestScore = -1
	)
search:
	for _, d := range e.Distances {
		for _, a := range e.Angles {
			c := e.candidateAt(it, size, d/scale, a)
			score := idx.CountOverlaps(c.rect)
			if bestScore < 0 || score < bestScore {
				best, bestScore = c, score
				if score == 0 {
					break search
				}
			}
		}
	}
	if bestScore < 0 {
		// empty grid: label sits on the anchor
		best = e.candidateAt(it, size, 0, 0)
	}

	circle := MarkerCircle{Center: it.Anchor, Radius: e.markerRadius(), Label: it.Label}
	idx.AddRect(best.rect)
	idx.AddCircle(circle)

	return Placement{
		Circle:        circle,
		Rect:          best.rect,
		LeaderOffsetX: best.leaderX,
		LeaderOffsetY: best.leaderY,
	}
}

// candidateAt builds the label box for a point dist away from the anchor at
// angleDeg. A box left of the marker is aligned on its right edge, one
// above the marker on its bottom edge, so the text always extends away
// from the marker.
func (e *Engine) candidateAt(it Item, size TextSize, dist, angleDeg float64) candidate {
	sin, cos := math.Sincos(angleDeg * math.Pi / 180)
	baseX, baseY := dist*cos, dist*sin

	// leader offsets run from Min to the candidate point
	var leaderX, leaderY float64
	if baseX < 0 {
		leaderX = size.W
	}
	if baseY < 0 {
		leaderY = size.H
	}

	minX := it.Anchor.X + baseX - leaderX
	minY := it.Anchor.Y + baseY - leaderY
	return candidate{
		rect: LabelRect{
			Min:   CanvasCoordinate{X: minX, Y: minY},
			Max:   CanvasCoordinate{X: minX + size.W, Y: minY + size.H},
			Label: it.Label,
		},
		leaderX: leaderX,
		leaderY: leaderY,
	}
}

func (e *Engine) scale() float64 {
	if e.Scale <= 0 {
		return 1
	}
	return e.Scale
}

func (e *Engine) markerRadius() float64 {
	r := e.MarkerRadius
	if r <= 0 {
		r = DefaultMarkerRadius
	}
	return r / e.scale()
}
