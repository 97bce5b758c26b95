// Package layout places catalog labels next to their markers on a canvas
// without letting them pile on top of each other.
package layout

import "fmt"

// CanvasCoordinate is a position on the drawing surface. (0,0) is the
// top-left corner of the image area.
type CanvasCoordinate struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CanvasDimension is the size of the drawing surface.
type CanvasDimension struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// TextSize is the extent of a rendered label in canvas units.
type TextSize struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// MarkerCircle marks an object's position.
type MarkerCircle struct {
	Center CanvasCoordinate `json:"center"`
	Radius float64          `json:"radius"`
	Label  string           `json:"label"`
}

// NewMarkerCircle returns a marker, rejecting a non-positive radius.
func NewMarkerCircle(center CanvasCoordinate, radius float64, label string) (MarkerCircle, error) {
	if !(radius > 0) {
		return MarkerCircle{}, fmt.Errorf("marker %q: radius %v must be positive", label, radius)
	}
	return MarkerCircle{Center: center, Radius: radius, Label: label}, nil
}

// Overlaps reports whether r touches the circle. The test is on the circle's
// bounding box: the center must lie in r grown by the radius on every side,
// edges included. Rectangles near the circle's diagonal therefore count as
// overlapping even when the true disc misses them.
func (c MarkerCircle) Overlaps(r LabelRect) bool {
	return c.Center.X >= r.Min.X-c.Radius &&
		c.Center.X <= r.Max.X+c.Radius &&
		c.Center.Y >= r.Min.Y-c.Radius &&
		c.Center.Y <= r.Max.Y+c.Radius
}

// LabelRect is the box a label's text occupies. Min is the top-left corner.
type LabelRect struct {
	Min   CanvasCoordinate `json:"min"`
	Max   CanvasCoordinate `json:"max"`
	Label string           `json:"label"`
}

// NewLabelRect returns a rectangle, rejecting inverted corners.
func NewLabelRect(min, max CanvasCoordinate, label string) (LabelRect, error) {
	if min.X > max.X || min.Y > max.Y {
		return LabelRect{}, fmt.Errorf("label %q: min %v exceeds max %v", label, min, max)
	}
	return LabelRect{Min: min, Max: max, Label: label}, nil
}

// Overlaps reports whether the interiors of r and o intersect. Rectangles
// that only share an edge do not overlap.
func (r LabelRect) Overlaps(o LabelRect) bool {
	return r.Min.X < o.Max.X &&
		r.Max.X > o.Min.X &&
		r.Min.Y < o.Max.Y &&
		r.Max.Y > o.Min.Y
}

// Width returns the horizontal extent.
func (r LabelRect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent.
func (r LabelRect) Height() float64 { return r.Max.Y - r.Min.Y }

// Placement is the layout result for one object.
type Placement struct {
	Circle MarkerCircle `json:"circle"`
	Rect   LabelRect    `json:"rect"`

	// Leader offsets lead from the rectangle's Min corner to the point the
	// label was anchored at; a connecting line runs from there to the
	// marker center.
	LeaderOffsetX float64 `json:"leaderOffsetX"`
	LeaderOffsetY float64 `json:"leaderOffsetY"`
}

// LeaderEnd returns the label end of the leader line.
func (p Placement) LeaderEnd() CanvasCoordinate {
	return CanvasCoordinate{
		X: p.Rect.Min.X + p.LeaderOffsetX,
		Y: p.Rect.Min.Y + p.LeaderOffsetY,
	}
}
