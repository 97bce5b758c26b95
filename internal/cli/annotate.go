package cli

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-platesolver/internal/astro"
	"github.com/litescript/ls-platesolver/internal/catalog"
	"github.com/litescript/ls-platesolver/internal/layout"
	"github.com/litescript/ls-platesolver/internal/report"
	"github.com/litescript/ls-platesolver/internal/solution"
	"github.com/litescript/ls-platesolver/internal/wcs"
)

func newAnnotateCmd(root *Root) *cobra.Command {
	var (
		catalogPath string
		canvasSize  string
		scale       float64
		asJSON      bool
		cells       bool
	)

	cmd := &cobra.Command{
		Use:   "annotate <result.wcs|solution.json>",
		Short: "Place catalog labels on a solved image",
		Long: `Match the catalog against a solved image and lay out a label for every
object found. The input is either the solver's .wcs result or a stored
solution. Positions are reported on a canvas the image is fitted into; by
default the canvas is the image itself.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sol, err := root.loadSolution(args[0], catalogPath)
			if err != nil {
				return err
			}

			var canvas layout.CanvasDimension
			if canvasSize != "" {
				if canvas, err = parseCanvas(canvasSize); err != nil {
					return err
				}
			}

			a, err := root.annotate(sol, canvas, scale, cells)
			if err != nil {
				return err
			}
			if asJSON {
				return a.WriteJSON(cmd.OutOrStdout())
			}
			report.WriteObjectTable(cmd.OutOrStdout(), a)
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "object list CSV, overrides paths.catalog (.wcs input only)")
	cmd.Flags().StringVar(&canvasSize, "canvas", "", "canvas size WxH, default the image size")
	cmd.Flags().Float64Var(&scale, "scale", 1, "zoom scale the labels are laid out for")
	cmd.Flags().BoolVar(&asJSON, "json", false, "write the annotation as JSON")
	cmd.Flags().BoolVar(&cells, "cells", false, "measure labels in terminal cells instead of font pixels")

	return cmd
}

func newCoordsCmd(root *Root) *cobra.Command {
	var inverse bool

	cmd := &cobra.Command{
		Use:   "coords <result.wcs|solution.json> <x> <y>",
		Short: "Convert between image pixels and sky coordinates",
		Long: `Print the sky position of an image pixel. With --inverse the two
numbers are RA and Dec in degrees and the pixel position is printed.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			sol, err := root.loadSolution(args[0], "")
			if err != nil {
				return err
			}
			p, err := sol.Projector()
			if err != nil {
				return err
			}

			a, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid number '%s'", args[1])
			}
			b, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid number '%s'", args[2])
			}

			out := cmd.OutOrStdout()
			if inverse {
				px := p.CelestialToPixel(astro.CelestialCoordinate{RA: a, Dec: b})
				where := "inside"
				if !p.Contains(px) {
					where = "outside"
				}
				fmt.Fprintf(out, "x=%.1f y=%.1f (%s image)\n", px.X, px.Y, where)
				return nil
			}

			c := p.PixelToCelestial(astro.PixelCoordinate{X: a, Y: b})
			fmt.Fprintf(out, "%s (%.6f, %.6f)\n", c, c.RA, c.Dec)
			return nil
		},
	}

	cmd.Flags().BoolVar(&inverse, "inverse", false, "convert RA/Dec to a pixel position")
	return cmd
}

// loadSolution reads a stored solution, or builds one from a solver
// result file and the catalog.
func (r *Root) loadSolution(path, catalogPath string) (*solution.Solution, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return solution.Read(path)
	}

	h, err := wcs.ParseFile(path)
	if err != nil {
		return nil, err
	}
	for _, l := range h.Invalid() {
		r.log.Warn("%s:%d: invalid header line %q", path, l.Number, l.Text)
	}
	if !h.Solved() {
		return nil, fmt.Errorf("%s: plate not solved", path)
	}

	cat, err := r.loadCatalog(catalogPath)
	if err != nil {
		return nil, err
	}
	params := solution.Params{
		ImagePath: path,
		ImageName: filepath.Base(path),
	}
	return solution.FromHeader(params, h, cat)
}

// loadCatalog reads path, or the configured catalog when path is empty.
func (r *Root) loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		path = r.cfg.Paths.Catalog
	}
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if n := cat.Skipped(); n > 0 {
		r.log.Warn("catalog %s: skipped %d malformed rows", path, n)
	}
	return cat, nil
}

// annotate lays out labels for sol on canvas, or on the image itself when
// canvas is zero.
func (r *Root) annotate(sol *solution.Solution, canvas layout.CanvasDimension, scale float64, cells bool) (*report.AnnotationExport, error) {
	p, err := sol.Projector()
	if err != nil {
		return nil, err
	}
	if canvas.Width == 0 || canvas.Height == 0 {
		d := p.Dimension()
		canvas = layout.CanvasDimension{Width: d.Width, Height: d.Height}
	}
	if scale <= 0 {
		return nil, fmt.Errorf("scale must be positive, got %v", scale)
	}

	var m layout.Measurer = layout.CellMeasurer{Scale: scale}
	if !cells {
		fm, err := layout.NewFontMeasurer(r.cfg.Layout.FontSize, scale)
		if err != nil {
			return nil, err
		}
		defer fm.Close()
		m = fm
	}

	e := &layout.Engine{
		Projector:    p,
		Canvas:       canvas,
		Measurer:     m,
		Scale:        scale,
		MarkerRadius: r.cfg.Layout.MarkerRadius,
		Distances:    r.cfg.Layout.Distances,
		Angles:       r.cfg.Layout.Angles,
	}
	start := time.Now()
	placements := e.Place(sol.Matched)
	r.log.Debug("placed %d labels in %v", len(placements), time.Since(start))

	return report.ExportAnnotation(sol, placements, canvas, scale, time.Now())
}

// parseCanvas parses "WxH".
func parseCanvas(s string) (layout.CanvasDimension, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return layout.CanvasDimension{}, fmt.Errorf("invalid canvas size '%s', want WxH", s)
	}
	width, err1 := strconv.Atoi(w)
	height, err2 := strconv.Atoi(h)
	if err1 != nil || err2 != nil || width <= 0 || height <= 0 {
		return layout.CanvasDimension{}, fmt.Errorf("invalid canvas size '%s', want WxH", s)
	}
	return layout.CanvasDimension{Width: width, Height: height}, nil
}
