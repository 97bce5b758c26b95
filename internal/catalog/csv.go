package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/litescript/ls-platesolver/internal/astro"
)

// Legacy deep_sky.csv stores RA in units of 1/2400 degree
// ([0, 864000]) and Dec in units of 1/3600 degree ([-324000, 324000]).
const (
	legacyRAScale  = 360.0 / 864000.0
	legacyDecScale = 90.0 / 324000.0
)

// ParseCSV reads the well-known object list. The first line is a header;
// each following row is
//
//	type,ra,dec,mag,name1/name2/...
//
// with RA and Dec in degrees. Malformed rows are skipped and counted. The
// returned catalog is sorted brightest first.
func ParseCSV(r io.Reader) (*Catalog, error) {
	var objs []Object
	skipped, err := readRows(r, 1, func(rec []string) bool {
		if len(rec) != 5 {
			return false
		}
		ra, err1 := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		dec, err2 := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
		mag, err3 := strconv.ParseFloat(strings.TrimSpace(rec[3]), 64)
		names := splitNames(rec[4])
		if err1 != nil || err2 != nil || err3 != nil || len(names) == 0 {
			return false
		}
		objs = append(objs, Object{
			Type:  strings.TrimSpace(rec[0]),
			Cel:   astro.CelestialCoordinate{RA: ra, Dec: dec},
			Mag:   mag,
			Names: names,
		})
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	SortObjects(objs)
	c := New(objs)
	c.skipped = skipped
	return c, nil
}

// ParseLegacyCSV reads the HNSKY deep_sky.csv format: two description
// lines, then rows of ra,dec,names[,extra columns]. The format has no type
// or magnitude, so objects keep file order and get UnknownMagnitude.
func ParseLegacyCSV(r io.Reader) (*Catalog, error) {
	var objs []Object
	skipped, err := readRows(r, 2, func(rec []string) bool {
		if len(rec) < 3 {
			return false
		}
		ra, err1 := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		dec, err2 := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		names := splitNames(rec[2])
		if err1 != nil || err2 != nil || len(names) == 0 {
			return false
		}
		objs = append(objs, Object{
			Cel:   astro.CelestialCoordinate{RA: ra * legacyRAScale, Dec: dec * legacyDecScale},
			Mag:   UnknownMagnitude,
			Names: names,
		})
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("parse legacy catalog: %w", err)
	}

	c := New(objs)
	c.skipped = skipped
	return c, nil
}

// readRows skips header lines and hands every record to fn. It returns the
// number of records fn rejected plus the number of rows the CSV reader
// could not parse.
func readRows(r io.Reader, header int, fn func([]string) bool) (int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	skipped := 0
	for line := 0; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			skipped++
			continue
		}
		if err != nil {
			return 0, err
		}
		if line < header {
			continue
		}
		if !fn(rec) {
			skipped++
		}
	}
	return skipped, nil
}

func splitNames(s string) []string {
	var names []string
	for _, n := range strings.Split(s, "/") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// Load reads a catalog file. An empty path returns the built-in list.
// Files named deep_sky.csv are read in the legacy HNSKY format.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Builtin(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Base(path), "deep_sky.csv") {
		return ParseLegacyCSV(f)
	}
	return ParseCSV(f)
}
