package catalog

import "github.com/litescript/ls-platesolver/internal/astro"

// Match returns the catalog objects that project inside the image
// described by p, brightest first. The catalog is range-queried with the
// image's sky bounds, so at most max candidates are considered (max <= 0
// means MaxHits).
func Match(p *astro.Projector, c *Catalog, max int) []Object {
	hits := c.FindInRange(p.Bounds(), max)

	matched := make([]Object, 0, len(hits))
	for _, o := range hits {
		if p.Contains(p.CelestialToPixel(o.Cel)) {
			matched = append(matched, o)
		}
	}
	SortObjects(matched)
	return matched
}
