package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-platesolver/internal/astro"
	"github.com/litescript/ls-platesolver/internal/layout"
	"github.com/litescript/ls-platesolver/internal/report"
	"github.com/litescript/ls-platesolver/internal/solution"
	"github.com/litescript/ls-platesolver/internal/solver"
)

func newSolveCmd(root *Root) *cobra.Command {
	var (
		fov         float64
		ra, dec     float64
		db          string
		catalogPath string
		force       bool
		quiet       bool
	)

	cmd := &cobra.Command{
		Use:   "solve <image>",
		Short: "Plate-solve an image and store the solution",
		Long: `Run the plate solver on an image and store the result. A stored solution
for the same image, field of view and start position is reused unless
--force is given.

Without --fov the field of view is estimated from the 35mm equivalent focal
length in the image's EXIF data. Without --db the star database is picked
from the installed ones to suit the field of view.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if fov == 0 {
				if fov, err = solver.EstimateFOV(img); err != nil {
					return fmt.Errorf("no --fov given: %w", err)
				}
				root.log.Info("estimated field of view %.2f° from EXIF", fov)
			}
			if !astro.ValidFOV(fov) {
				return fmt.Errorf("field of view %v out of range", fov)
			}

			params := solution.Params{
				ImagePath: img,
				ImageName: filepath.Base(img),
				FOVDeg:    fov,
			}
			raSet, decSet := cmd.Flags().Changed("ra"), cmd.Flags().Changed("dec")
			if raSet != decSet {
				return errors.New("--ra and --dec must be given together")
			}
			if raSet {
				params.StartSearch = &astro.CelestialCoordinate{RA: ra, Dec: dec}
			}

			store, err := solution.NewStore(root.cfg.Paths.SolutionDir, root.log)
			if err != nil {
				return err
			}
			if !force {
				if sol, ok := store.Lookup(params); ok {
					fmt.Fprintf(out, "cached %s\n", store.Path(params))
					return root.printSolution(cmd, sol)
				}
			}

			if db == "" {
				installed, err := solver.InstalledStarDBs(root.cfg.Paths.StarDBDir)
				if err != nil {
					return err
				}
				if db, err = solver.PickStarDB(installed, fov); err != nil {
					return fmt.Errorf("%w in %s", err, root.cfg.Paths.StarDBDir)
				}
			}
			params.DBName = db

			cat, err := root.loadCatalog(catalogPath)
			if err != nil {
				return err
			}

			runner := &solver.Runner{
				Binary:    root.cfg.Paths.Solver,
				StarDBDir: root.cfg.Paths.StarDBDir,
				Params:    params,
				Catalog:   cat,
				Store:     store,
				Logger:    root.log,
			}
			if !quiet {
				errOut := cmd.ErrOrStderr()
				runner.OnMessage = func(line string) {
					fmt.Fprintln(errOut, line)
				}
			}

			res, err := runner.Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("solve %s: %w", params.ImageName, err)
			}
			fmt.Fprintf(out, "solved %s\n", res.SolutionPath)
			return root.printSolution(cmd, res.Solution)
		},
	}

	cmd.Flags().Float64Var(&fov, "fov", 0, "field of view across the image width in degrees, default from EXIF")
	cmd.Flags().Float64Var(&ra, "ra", 0, "RA to start the search at, degrees")
	cmd.Flags().Float64Var(&dec, "dec", 0, "Dec to start the search at, degrees")
	cmd.Flags().StringVar(&db, "db", "", "star database (h18|h17|v17|w08), default picked by field of view")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "object list CSV, overrides paths.catalog")
	cmd.Flags().BoolVar(&force, "force", false, "solve again even if a stored solution exists")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not echo solver output")

	return cmd
}

// printSolution writes the object table of sol laid out on the image.
func (r *Root) printSolution(cmd *cobra.Command, sol *solution.Solution) error {
	a, err := r.annotate(sol, layout.CanvasDimension{}, 1, false)
	if err != nil {
		return err
	}
	report.WriteObjectTable(cmd.OutOrStdout(), a)
	return nil
}

func newListCmd(root *Root) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored solutions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := solution.NewStore(root.cfg.Paths.SolutionDir, root.log)
			if err != nil {
				return err
			}
			entries, err := store.Refresh()
			if err != nil {
				return err
			}
			report.WriteSolutionList(cmd.OutOrStdout(), entries)
			return nil
		},
	}
}

func newShowCmd(root *Root) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print the objects of a stored solution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid solution id '%s'", args[0])
			}
			return root.showEntry(cmd, id)
		},
	}
}

// showEntry prints the stored solution with the given ID.
func (r *Root) showEntry(cmd *cobra.Command, id int) error {
	store, err := solution.NewStore(r.cfg.Paths.SolutionDir, r.log)
	if err != nil {
		return err
	}
	entries, err := store.Refresh()
	if err != nil {
		return err
	}
	if id == 0 && len(entries) > 0 {
		id = entries[0].ID
	}
	e, ok := store.FindByID(id)
	if !ok || e.Solution == nil {
		return fmt.Errorf("no solution with id %d", id)
	}
	return r.printSolution(cmd, e.Solution)
}
