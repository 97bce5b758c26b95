package layout

import "github.com/litescript/ls-platesolver/internal/astro"

// FittedImageSize returns the bottom-right corner of the area the image
// covers when it is fitted into canvas with its aspect ratio preserved.
func FittedImageSize(image astro.ImageDimension, canvas CanvasDimension) CanvasCoordinate {
	imageAspect := float64(image.Width) / float64(image.Height)
	canvasAspect := float64(canvas.Width) / float64(canvas.Height)

	if imageAspect > canvasAspect {
		// wider than the canvas: full width
		return CanvasCoordinate{X: float64(canvas.Width), Y: float64(canvas.Width) / imageAspect}
	}
	return CanvasCoordinate{X: float64(canvas.Height) * imageAspect, Y: float64(canvas.Height)}
}

// PixelToCanvas maps an image position into the fitted image area. X and Y
// are scaled independently.
func PixelToCanvas(p astro.PixelCoordinate, image astro.ImageDimension, canvas CanvasDimension) CanvasCoordinate {
	fit := FittedImageSize(image, canvas)
	return CanvasCoordinate{
		X: p.X / float64(image.Width) * fit.X,
		Y: p.Y / float64(image.Height) * fit.Y,
	}
}

// CanvasToPixel is the inverse of PixelToCanvas.
func CanvasToPixel(c CanvasCoordinate, image astro.ImageDimension, canvas CanvasDimension) astro.PixelCoordinate {
	fit := FittedImageSize(image, canvas)
	return astro.PixelCoordinate{
		X: c.X / fit.X * float64(image.Width),
		Y: c.Y / fit.Y * float64(image.Height),
	}
}
