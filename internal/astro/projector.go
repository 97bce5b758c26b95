package astro

import (
	"fmt"
	"math"
)

// PixelBinFactor scales pixel offsets before the CD matrix is applied, and
// scales matrix output back to pixels on the way in. It is the
// radian-to-degree factor, used this way by the plate solver whose CD
// matrices we consume; results only line up with its output if the same
// constant is used here.
const PixelBinFactor = 180 / math.Pi

// Projector converts between pixel and celestial coordinates for one solved
// image using a gnomonic (tangent-plane) projection centered on the
// reference point.
//
// A Projector is immutable after construction and safe for concurrent use.
type Projector struct {
	refPixel     PixelCoordinate
	refCelestial CelestialCoordinate
	dim          ImageDimension
	pixelToSky   Transform2D
	skyToPixel   Transform2D
}

// NewProjector builds a projector. It fails if the image dimension is not
// positive or if cd cannot be inverted.
func NewProjector(refPixel PixelCoordinate, refCel CelestialCoordinate, dim ImageDimension, cd Transform2D) (*Projector, error) {
	if dim.Width <= 0 || dim.Height <= 0 {
		return nil, fmt.Errorf("invalid image dimension %dx%d", dim.Width, dim.Height)
	}
	inv, err := cd.Invert()
	if err != nil {
		return nil, fmt.Errorf("new projector: %w", err)
	}
	return &Projector{
		refPixel:     refPixel,
		refCelestial: refCel,
		dim:          dim,
		pixelToSky:   cd,
		skyToPixel:   inv,
	}, nil
}

// RefPixel returns the reference pixel.
func (p *Projector) RefPixel() PixelCoordinate { return p.refPixel }

// RefCelestial returns the celestial coordinate of the reference pixel.
func (p *Projector) RefCelestial() CelestialCoordinate { return p.refCelestial }

// Dimension returns the image size.
func (p *Projector) Dimension() ImageDimension { return p.dim }

// PixelToSky returns the CD matrix.
func (p *Projector) PixelToSky() Transform2D { return p.pixelToSky }

// SkyToPixel returns the inverse CD matrix.
func (p *Projector) SkyToPixel() Transform2D { return p.skyToPixel }

// PixelToCelestial converts an image position to a sky position.
func (p *Projector) PixelToCelestial(px PixelCoordinate) CelestialCoordinate {
	// Image Y grows downward, sky Dec grows upward.
	d := p.pixelToSky.Multiply(Vector2{
		X: (px.X - p.refPixel.X) / PixelBinFactor,
		Y: (float64(p.dim.Height) - px.Y - p.refPixel.Y) / PixelBinFactor,
	})
	dRA, dDec := d.X, d.Y

	ref := p.refCelestial
	delta := cosDeg(ref.Dec) - dDec*sinDeg(ref.Dec)
	gamma := math.Sqrt(dRA*dRA + delta*delta)
	return CelestialCoordinate{
		RA:  ref.RA + radToDeg(math.Atan2(dRA, delta)),
		Dec: radToDeg(math.Atan((sinDeg(ref.Dec) + dDec*cosDeg(ref.Dec)) / gamma)),
	}
}

// CelestialToPixel converts a sky position to an image position. It is the
// inverse of PixelToCelestial. Positions outside the image are returned
// as-is; use Contains to filter them.
func (p *Projector) CelestialToPixel(c CelestialCoordinate) PixelCoordinate {
	ref := p.refCelestial
	dRAdeg := c.RA - ref.RA
	h := sinDeg(c.Dec)*sinDeg(ref.Dec) + cosDeg(c.Dec)*cosDeg(ref.Dec)*cosDeg(dRAdeg)
	dRA := cosDeg(c.Dec) * sinDeg(dRAdeg) / h
	dDec := (sinDeg(c.Dec)*cosDeg(ref.Dec) - cosDeg(c.Dec)*sinDeg(ref.Dec)*cosDeg(dRAdeg)) / h

	v := p.skyToPixel.Multiply(Vector2{X: dRA, Y: dDec})
	return PixelCoordinate{
		X: p.refPixel.X + v.X*PixelBinFactor,
		Y: float64(p.dim.Height) - (v.Y*PixelBinFactor + p.refPixel.Y),
	}
}

// Contains reports whether px lies within the image.
func (p *Projector) Contains(px PixelCoordinate) bool {
	return px.X >= 0 && px.X < float64(p.dim.Width) &&
		px.Y >= 0 && px.Y < float64(p.dim.Height)
}

// Corners returns the four image corners: top-left, top-right, bottom-left,
// bottom-right.
func (p *Projector) Corners() [4]PixelCoordinate {
	w, h := float64(p.dim.Width), float64(p.dim.Height)
	return [4]PixelCoordinate{
		{X: 0, Y: 0},
		{X: w, Y: 0},
		{X: 0, Y: h},
		{X: w, Y: h},
	}
}

// Center returns the geometric center of the image.
func (p *Projector) Center() PixelCoordinate {
	return PixelCoordinate{X: float64(p.dim.Width) / 2, Y: float64(p.dim.Height) / 2}
}

// Bounds returns the RA/Dec box spanned by the image corners. The image may
// be rotated against the sky grid, so the box can contain positions outside
// the image.
func (p *Projector) Bounds() SkyBounds {
	b := SkyBounds{
		MinRA: math.MaxFloat64, MaxRA: -math.MaxFloat64,
		MinDec: math.MaxFloat64, MaxDec: -math.MaxFloat64,
	}
	for _, px := range p.Corners() {
		c := p.PixelToCelestial(px)
		b.MinRA = math.Min(b.MinRA, c.RA)
		b.MaxRA = math.Max(b.MaxRA, c.RA)
		b.MinDec = math.Min(b.MinDec, c.Dec)
		b.MaxDec = math.Max(b.MaxDec, c.Dec)
	}
	return b
}
