package astro

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats/scalar"
)

// ErrDegenerateMatrix is returned when a plate-constant matrix has no inverse.
var ErrDegenerateMatrix = errors.New("degenerate matrix")

// detTolerance is the smallest determinant accepted by Invert. CD matrix
// entries are degrees per pixel (1e-6 to 1e-2 for real optics), so any real
// plate has a determinant far above this.
const detTolerance = 1e-18

// Vector2 is a 2D column vector.
type Vector2 struct {
	X, Y float64
}

// Transform2D is a 2x2 matrix
//
//	[ A B
//	  C D ]
//
// used as the linear part of the pixel-to-sky mapping (the "CD matrix").
type Transform2D struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	C float64 `json:"c"`
	D float64 `json:"d"`
}

// Multiply returns m·v.
func (m Transform2D) Multiply(v Vector2) Vector2 {
	return Vector2{
		X: m.A*v.X + m.B*v.Y,
		Y: m.C*v.X + m.D*v.Y,
	}
}

// Determinant returns A·D − B·C.
func (m Transform2D) Determinant() float64 {
	return m.A*m.D - m.B*m.C
}

// Invert returns the inverse matrix, or ErrDegenerateMatrix if the
// determinant is zero (within detTolerance).
func (m Transform2D) Invert() (Transform2D, error) {
	det := m.Determinant()
	if scalar.EqualWithinAbs(det, 0, detTolerance) {
		return Transform2D{}, fmt.Errorf("invert %v: determinant %g: %w", m, det, ErrDegenerateMatrix)
	}
	return Transform2D{
		A: m.D / det,
		B: -m.B / det,
		C: -m.C / det,
		D: m.A / det,
	}, nil
}
