package layout

// OverlapIndex collects the markers and labels placed so far in one layout
// pass. It is append-only and not safe for concurrent use.
type OverlapIndex struct {
	circles []MarkerCircle
	rects   []LabelRect
}

// AddCircle registers a marker as an obstacle.
func (x *OverlapIndex) AddCircle(c MarkerCircle) {
	x.circles = append(x.circles, c)
}

// AddRect registers a label as an obstacle.
func (x *OverlapIndex) AddRect(r LabelRect) {
	x.rects = append(x.rects, r)
}

// CountOverlaps returns how many registered markers and labels overlap r.
// Zero means r is free.
func (x *OverlapIndex) CountOverlaps(r LabelRect) int {
	n := 0
	for _, c := range x.circles {
		if c.Overlaps(r) {
			n++
		}
	}
	for _, o := range x.rects {
		if o.Overlaps(r) {
			n++
		}
	}
	return n
}

// Len returns the number of registered obstacles.
func (x *OverlapIndex) Len() int {
	return len(x.circles) + len(x.rects)
}
