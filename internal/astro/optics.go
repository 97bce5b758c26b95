package astro

import "math"

// fullFrameWidthMM is the width of a 35mm-equivalent sensor.
const fullFrameWidthMM = 36.0

// FocalLengthToFOV converts a 35mm-equivalent focal length to the horizontal
// field of view of the image, in degrees.
func FocalLengthToFOV(focalMM float64) float64 {
	return radToDeg(2 * math.Atan(fullFrameWidthMM/(2*focalMM)))
}

// FOVToFocalLength is the inverse of FocalLengthToFOV.
func FOVToFocalLength(fovDeg float64) float64 {
	return fullFrameWidthMM / 2 / math.Tan(degToRad(fovDeg)/2)
}

// ValidFOV reports whether fovDeg is a field of view the solver accepts.
func ValidFOV(fovDeg float64) bool {
	return fovDeg > 0 && fovDeg < 90
}
