// Package catalog holds the stars and deep-sky objects that can be
// annotated on a solved image.
package catalog

import (
	"sort"
	"strings"

	"github.com/litescript/ls-platesolver/internal/astro"
)

// TypeStar is the object type of stars. Every other type (Gxy, OC, Neb, PN,
// ...) is a deep-sky object.
const TypeStar = "Star"

// UnknownMagnitude is used for entries whose source has no brightness.
const UnknownMagnitude = 99.0

// Object is one catalog entry.
type Object struct {
	Type  string                    `json:"type"`
	Cel   astro.CelestialCoordinate `json:"cel"`
	Mag   float64                   `json:"mag"`
	Names []string                  `json:"names"` // display case, never empty
}

// PrimaryName returns the name used for the label.
func (o Object) PrimaryName() string {
	if len(o.Names) == 0 {
		return ""
	}
	return o.Names[0]
}

// IsStellar reports whether the object is a star.
func (o Object) IsStellar() bool {
	return o.Type == TypeStar
}

// HasName reports whether name is one of the object's names, ignoring case.
func (o Object) HasName(name string) bool {
	for _, n := range o.Names {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

// brighter orders objects by magnitude; on equal magnitude deep-sky objects
// come before stars.
func brighter(a, b Object) bool {
	if a.Mag != b.Mag {
		return a.Mag < b.Mag
	}
	return !a.IsStellar() && b.IsStellar()
}

// SortObjects sorts objs brightest first. The sort is stable.
func SortObjects(objs []Object) {
	sort.SliceStable(objs, func(i, j int) bool {
		return brighter(objs[i], objs[j])
	})
}
