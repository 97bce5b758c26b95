package layout

import (
	"fmt"

	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Measurer reports the canvas extent of a label.
type Measurer interface {
	Measure(label string) TextSize
}

// MeasureFunc adapts a function to Measurer.
type MeasureFunc func(label string) TextSize

// Measure calls f.
func (f MeasureFunc) Measure(label string) TextSize { return f(label) }

// CellMeasurer measures text in terminal cells. Labels are drawn at a fixed
// screen size, so at zoom Scale they cover 1/Scale as much canvas.
type CellMeasurer struct {
	Scale float64

	// RowHeight is the height of one text row in canvas units, for canvases
	// whose vertical unit is smaller than a cell. Zero means 1.
	RowHeight float64
}

// Measure implements Measurer.
func (m CellMeasurer) Measure(label string) TextSize {
	s := m.Scale
	if s <= 0 {
		s = 1
	}
	h := m.RowHeight
	if h <= 0 {
		h = 1
	}
	return TextSize{
		W: float64(runewidth.StringWidth(label)) / s,
		H: h / s,
	}
}

// FontMeasurer measures text set in Go Regular, for canvases measured in
// pixels.
type FontMeasurer struct {
	face font.Face
}

// NewFontMeasurer returns a measurer for text of sizePt points drawn at
// zoom scale. The face is sized sizePt/scale so labels keep their screen
// size.
func NewFontMeasurer(sizePt, scale float64) (*FontMeasurer, error) {
	if scale <= 0 {
		scale = 1
	}
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    sizePt / scale,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	return &FontMeasurer{face: face}, nil
}

// Measure implements Measurer. The height is the face's ascent plus
// descent, independent of the label's glyphs.
func (m *FontMeasurer) Measure(label string) TextSize {
	adv := font.MeasureString(m.face, label)
	met := m.face.Metrics()
	return TextSize{
		W: float64(adv) / 64,
		H: float64(met.Ascent+met.Descent) / 64,
	}
}

// Close releases the font face.
func (m *FontMeasurer) Close() error {
	return m.face.Close()
}
