// Package astro provides astrometric coordinate transformations for
// plate-solved images: pixel positions, celestial positions and the
// projection that maps one onto the other.
package astro

import (
	"fmt"
	"math"
)

// PixelCoordinate is a position within an image file.
// X is in range [0, width), Y in range [0, height).
// (0, 0) is the upper left corner of the image.
type PixelCoordinate struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CelestialCoordinate is a position on the sky (J2000).
type CelestialCoordinate struct {
	RA  float64 `json:"ra"`  // Right Ascension in degrees (0-360)
	Dec float64 `json:"dec"` // Declination in degrees (-90 to +90)
}

// String renders the coordinate the same way the viewer's status line does.
func (c CelestialCoordinate) String() string {
	return fmt.Sprintf("RA: %s Dec: %s", FormatRA(c.RA), FormatDec(c.Dec))
}

// ImageDimension is the pixel size of an image.
type ImageDimension struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DimensionFromRefPixel derives the image size from the solver's reference
// pixel. The solver always reports the image center as the reference pixel,
// so the size is twice its coordinates.
func DimensionFromRefPixel(ref PixelCoordinate) ImageDimension {
	return ImageDimension{
		Width:  int(math.Round(ref.X * 2)),
		Height: int(math.Round(ref.Y * 2)),
	}
}

// SkyBounds is an RA/Dec box, inclusive on both ends.
type SkyBounds struct {
	MinRA, MaxRA   float64
	MinDec, MaxDec float64
}

// Contains reports whether c lies inside the box.
func (b SkyBounds) Contains(c CelestialCoordinate) bool {
	return c.RA >= b.MinRA && c.RA <= b.MaxRA &&
		c.Dec >= b.MinDec && c.Dec <= b.MaxDec
}

// FormatRA converts an RA value in [0, 360) to an "HHhMMmSS.ss" string.
func FormatRA(ra float64) string {
	ra = normalizeAngle360(ra)
	hour := int(ra / 15)
	remainder := ra - float64(hour)*15 // degrees within the hour
	min := int(remainder * 4)
	sec := (remainder - float64(min)/4) * 240
	return fmt.Sprintf("%02dh%02dm%05.2f", hour, min, sec)
}

// FormatDec renders a declination in degrees with three decimals.
func FormatDec(dec float64) string {
	return fmt.Sprintf("%.3f", dec)
}

// AngularSeparation calculates the angular separation between two points on
// the celestial sphere. Returns separation in degrees.
func AngularSeparation(a, b CelestialCoordinate) float64 {
	ra1 := degToRad(a.RA)
	dec1 := degToRad(a.Dec)
	ra2 := degToRad(b.RA)
	dec2 := degToRad(b.Dec)

	// Haversine formula
	dRA := ra2 - ra1
	dDec := dec2 - dec1
	h := math.Sin(dDec/2)*math.Sin(dDec/2) +
		math.Cos(dec1)*math.Cos(dec2)*math.Sin(dRA/2)*math.Sin(dRA/2)
	if h > 1 {
		h = 1
	}
	return radToDeg(2 * math.Asin(math.Sqrt(h)))
}

// normalizeAngle360 normalizes an angle to 0-360 degrees.
func normalizeAngle360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// degToRad converts degrees to radians.
func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// radToDeg converts radians to degrees.
func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

func sinDeg(deg float64) float64 { return math.Sin(degToRad(deg)) }
func cosDeg(deg float64) float64 { return math.Cos(degToRad(deg)) }
