package solution

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/litescript/ls-platesolver/internal/astro"
	"github.com/litescript/ls-platesolver/internal/catalog"
	"github.com/litescript/ls-platesolver/internal/wcs"
)

// CurrentVersion is the version written into new solution files. Files
// with another version are rejected so stale layouts are re-solved.
const CurrentVersion = 2

// ErrBadVersion is returned when a solution file has an unsupported version.
var ErrBadVersion = errors.New("unsupported solution version")

// Solution is a solved image together with the catalog objects found in it.
type Solution struct {
	Version          int                       `json:"version"`
	Params           Params                    `json:"params"`
	ImageDimension   astro.ImageDimension      `json:"imageDimension"`
	RefPixel         astro.PixelCoordinate     `json:"refPixel"`
	RefCelestial     astro.CelestialCoordinate `json:"refCelestial"`
	PixelToCelestial astro.Transform2D         `json:"pixelToCelestial"`
	Warnings         []string                  `json:"warnings,omitempty"`
	SolvedAt         time.Time                 `json:"solvedAt"`

	// Matched is brightest first.
	Matched []catalog.Object `json:"matched"`
}

// FromHeader builds a solution from the solver's result file and matches
// cat against the solved field.
func FromHeader(params Params, h *wcs.Header, cat *catalog.Catalog) (*Solution, error) {
	p, err := h.Projector()
	if err != nil {
		return nil, err
	}
	return &Solution{
		Version:          CurrentVersion,
		Params:           params,
		ImageDimension:   p.Dimension(),
		RefPixel:         p.RefPixel(),
		RefCelestial:     p.RefCelestial(),
		PixelToCelestial: p.PixelToSky(),
		Warnings:         h.Warnings(),
		SolvedAt:         time.Now().UTC(),
		Matched:          catalog.Match(p, cat, 0),
	}, nil
}

// Projector builds the coordinate transform of the solution.
func (s *Solution) Projector() (*astro.Projector, error) {
	return astro.NewProjector(s.RefPixel, s.RefCelestial, s.ImageDimension, s.PixelToCelestial)
}

// Validate checks that s can be displayed.
func (s *Solution) Validate() error {
	if s.Version != CurrentVersion {
		return fmt.Errorf("version %d: %w", s.Version, ErrBadVersion)
	}
	_, err := s.Projector()
	return err
}

// FieldOfView returns the angular width of the image in degrees, measured
// across the middle row.
func (s *Solution) FieldOfView() (float64, error) {
	p, err := s.Projector()
	if err != nil {
		return 0, err
	}
	y := float64(s.ImageDimension.Height) / 2
	left := p.PixelToCelestial(astro.PixelCoordinate{X: 0, Y: y})
	right := p.PixelToCelestial(astro.PixelCoordinate{X: float64(s.ImageDimension.Width), Y: y})
	return astro.AngularSeparation(left, right), nil
}

// Read loads and validates a solution file.
func Read(path string) (*Solution, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Solution
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &s, nil
}

// Write stores s at path. The file either appears complete or not at all.
func Write(path string, s *Solution) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode solution: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
