// Package wcs reads the key/value result file written by the plate solver
// next to a solved image.
package wcs

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/litescript/ls-platesolver/internal/astro"
)

// ErrMissingKey is returned by the typed getters when a key is absent or has
// a different type.
var ErrMissingKey = errors.New("missing key")

var (
	numberLine = regexp.MustCompile(`^([A-Z0-9-_]+)\s*=\s*([0-9.+-eETF]+)`)
	stringLine = regexp.MustCompile(`^([A-Z0-9-_]+)\s*=\s*'([^']+)'`)
)

const warningKey = "WARNING"

// UnparsableLine is a line of the file that matched none of the known
// forms. It is kept for diagnostics; parsing continues after it.
type UnparsableLine struct {
	Number int
	Text   string
	Reason string
}

// Header holds the parsed key/value pairs of one result file.
type Header struct {
	floats   map[string]float64
	bools    map[string]bool
	strings  map[string]string
	warnings []string
	invalid  []UnparsableLine
}

// Parse reads a result file. Lines that cannot be understood end up in
// Invalid; only a read failure returns an error.
func Parse(r io.Reader) (*Header, error) {
	h := &Header{
		floats:  make(map[string]float64),
		bools:   make(map[string]bool),
		strings: make(map[string]string),
	}

	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		line := sc.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == "END" || strings.HasPrefix(trimmed, "COMMENT ") {
			continue
		}

		if m := stringLine.FindStringSubmatch(trimmed); m != nil {
			key, val := m[1], strings.TrimSpace(m[2])
			if key == warningKey {
				h.warnings = append(h.warnings, val)
				continue
			}
			if !h.has(key) {
				h.strings[key] = val
			}
			continue
		}

		if m := numberLine.FindStringSubmatch(trimmed); m != nil {
			key, val := m[1], m[2]
			if h.has(key) {
				continue
			}
			switch val {
			case "T":
				h.bools[key] = true
			case "F":
				h.bools[key] = false
			default:
				f, err := strconv.ParseFloat(val, 64)
				if err != nil {
					h.invalid = append(h.invalid, UnparsableLine{Number: n, Text: line, Reason: err.Error()})
					continue
				}
				h.floats[key] = f
			}
			continue
		}

		h.invalid = append(h.invalid, UnparsableLine{Number: n, Text: line, Reason: "not a key/value line"})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read wcs: %w", err)
	}
	return h, nil
}

// ParseFile opens and parses path.
func ParseFile(path string) (*Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return h, nil
}

func (h *Header) has(key string) bool {
	if _, ok := h.floats[key]; ok {
		return true
	}
	if _, ok := h.bools[key]; ok {
		return true
	}
	_, ok := h.strings[key]
	return ok
}

// Float returns a numeric value.
func (h *Header) Float(key string) (float64, error) {
	v, ok := h.floats[key]
	if !ok {
		return 0, fmt.Errorf("%s: %w", key, ErrMissingKey)
	}
	return v, nil
}

// Bool returns a T/F value.
func (h *Header) Bool(key string) (bool, error) {
	v, ok := h.bools[key]
	if !ok {
		return false, fmt.Errorf("%s: %w", key, ErrMissingKey)
	}
	return v, nil
}

// String returns a quoted string value with surrounding blanks removed.
func (h *Header) String(key string) (string, error) {
	v, ok := h.strings[key]
	if !ok {
		return "", fmt.Errorf("%s: %w", key, ErrMissingKey)
	}
	return v, nil
}

// Warnings returns the solver's WARNING entries in file order.
func (h *Header) Warnings() []string { return h.warnings }

// Invalid returns the lines that could not be parsed.
func (h *Header) Invalid() []UnparsableLine { return h.invalid }

// Solved reports whether the solver marked the plate as solved. Files
// without the flag are treated as solved if they carry a CD matrix.
func (h *Header) Solved() bool {
	if v, err := h.Bool("PLTSOLVD"); err == nil {
		return v
	}
	_, err := h.Float("CD1_1")
	return err == nil
}

// Projector builds the coordinate transform described by the header. The
// image size is derived from the reference pixel, which the solver places
// at the image center.
func (h *Header) Projector() (*astro.Projector, error) {
	keys := []string{"CRPIX1", "CRPIX2", "CRVAL1", "CRVAL2", "CD1_1", "CD1_2", "CD2_1", "CD2_2"}
	v := make([]float64, len(keys))
	for i, k := range keys {
		f, err := h.Float(k)
		if err != nil {
			return nil, err
		}
		v[i] = f
	}

	ref := astro.PixelCoordinate{X: v[0], Y: v[1]}
	return astro.NewProjector(
		ref,
		astro.CelestialCoordinate{RA: v[2], Dec: v[3]},
		astro.DimensionFromRefPixel(ref),
		astro.Transform2D{A: v[4], B: v[5], C: v[6], D: v[7]},
	)
}
