// Package solution stores plate-solving results on disk.
package solution

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"

	"github.com/litescript/ls-platesolver/internal/astro"
)

// Params are the inputs of one solver run.
type Params struct {
	ImagePath string  `json:"imagePath"`
	ImageName string  `json:"imageName"` // for display, e.g. the original file name
	FOVDeg    float64 `json:"fovDeg"`

	// StartSearch is the sky position the solver starts from. nil searches
	// the whole sky.
	StartSearch *astro.CelestialCoordinate `json:"startSearch,omitempty"`

	// DBName is the star database, e.g. "h17" or "v17".
	DBName string `json:"dbName"`
}

// Hash identifies the run. Runs with the same image path, field of view and
// start position share a hash, and therefore a cached solution.
func (p Params) Hash() string {
	h := sha256.New()

	var buf [8]byte
	binary.BigEndian.PutUint32(buf[:4], uint32(len(p.ImagePath)))
	h.Write(buf[:4])
	h.Write([]byte(p.ImagePath))

	writeFloat := func(f float64) {
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(f))
		h.Write(buf[:])
	}
	writeFloat(p.FOVDeg)
	if p.StartSearch != nil {
		h.Write([]byte{1})
		writeFloat(p.StartSearch.RA)
		writeFloat(p.StartSearch.Dec)
	} else {
		h.Write([]byte{0})
	}

	return hex.EncodeToString(h.Sum(nil))
}
