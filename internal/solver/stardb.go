package solver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/litescript/ls-platesolver/internal/astro"
)

// Star databases known to the solver, most detailed first.
const (
	StarDBH18 = "h18"
	StarDBH17 = "h17"
	StarDBV17 = "v17"
	StarDBW08 = "w08"
)

// KnownStarDBs lists the databases in preference order.
var KnownStarDBs = []string{StarDBH18, StarDBH17, StarDBV17, StarDBW08}

// ErrNoStarDB is returned when no star database is installed.
var ErrNoStarDB = errors.New("no star database installed")

// InstalledStarDBs returns the known databases that have files in dir.
func InstalledStarDBs(dir string) ([]string, error) {
	var out []string
	for _, name := range KnownStarDBs {
		m, err := filepath.Glob(filepath.Join(dir, name+"_*"))
		if err != nil {
			return nil, err
		}
		if len(m) > 0 {
			out = append(out, name)
		}
	}
	return out, nil
}

// PickStarDB chooses the database for a field of view. The h databases
// serve fields up to 5 degrees, v17 up to 20 degrees and w08 anything
// wider. When none of those is installed the first installed one is used.
func PickStarDB(installed []string, fovDeg float64) (string, error) {
	have := make(map[string]bool, len(installed))
	for _, n := range installed {
		have[n] = true
	}

	fallback := ""
	for _, n := range KnownStarDBs {
		if !have[n] {
			continue
		}
		if fallback == "" {
			fallback = n
		}
		switch n {
		case StarDBH18, StarDBH17:
			if fovDeg <= 5 {
				return n, nil
			}
		case StarDBV17:
			if fovDeg <= 20 {
				return n, nil
			}
		case StarDBW08:
			if fovDeg > 20 {
				return n, nil
			}
		}
	}
	if fallback == "" {
		return "", ErrNoStarDB
	}
	return fallback, nil
}

// EstimateFOV guesses the horizontal field of view of an image from the
// 35mm equivalent focal length in its EXIF data.
func EstimateFOV(imagePath string) (float64, error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	ex, err := exif.Decode(f)
	if err != nil {
		return 0, fmt.Errorf("exif parsing '%s': %w", imagePath, err)
	}
	tag, err := ex.Get(exif.FocalLengthIn35mmFilm)
	if err != nil {
		return 0, fmt.Errorf("exif focal length '%s': %w", imagePath, err)
	}
	mm, err := tag.Int(0)
	if err != nil {
		return 0, fmt.Errorf("exif focal length '%s': %w", imagePath, err)
	}
	if mm <= 0 {
		return 0, fmt.Errorf("exif focal length '%s': invalid value %d", imagePath, mm)
	}

	fov := astro.FocalLengthToFOV(float64(mm))
	if !astro.ValidFOV(fov) {
		return 0, fmt.Errorf("focal length %dmm gives unusable field of view %.2f", mm, fov)
	}
	return fov, nil
}
