package catalog

import (
	"strings"

	"github.com/litescript/ls-platesolver/internal/astro"
)

// MaxHits is the default cap on FindInRange results.
const MaxHits = 100

// Catalog is an immutable, ordered set of objects.
type Catalog struct {
	objects []Object
	byName  map[string]int
	skipped int
}

// New builds a catalog over objs in the given order. objs is copied.
func New(objs []Object) *Catalog {
	c := &Catalog{
		objects: append([]Object(nil), objs...),
		byName:  make(map[string]int),
	}
	for i, o := range c.objects {
		for _, n := range o.Names {
			key := strings.ToLower(n)
			if _, ok := c.byName[key]; !ok {
				c.byName[key] = i
			}
		}
	}
	return c
}

// Len returns the number of objects.
func (c *Catalog) Len() int { return len(c.objects) }

// Objects returns a copy of the objects in catalog order.
func (c *Catalog) Objects() []Object {
	return append([]Object(nil), c.objects...)
}

// Skipped returns the number of malformed rows dropped while parsing.
func (c *Catalog) Skipped() int { return c.skipped }

// Sort returns a new catalog with the objects brightest first.
func (c *Catalog) Sort() *Catalog {
	objs := c.Objects()
	SortObjects(objs)
	sorted := New(objs)
	sorted.skipped = c.skipped
	return sorted
}

// FindByName looks up an object by any of its names, ignoring case. If
// several objects share a name the first in catalog order wins.
func (c *Catalog) FindByName(name string) (Object, bool) {
	i, ok := c.byName[strings.ToLower(name)]
	if !ok {
		return Object{}, false
	}
	return c.objects[i], true
}

// FindInRange returns the objects inside b (inclusive) in catalog order,
// at most max of them. max <= 0 means MaxHits.
func (c *Catalog) FindInRange(b astro.SkyBounds, max int) []Object {
	if max <= 0 {
		max = MaxHits
	}
	var hits []Object
	for _, o := range c.objects {
		if !b.Contains(o.Cel) {
			continue
		}
		hits = append(hits, o)
		if len(hits) >= max {
			break
		}
	}
	return hits
}
