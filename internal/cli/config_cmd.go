package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-platesolver/internal/config"
	"github.com/litescript/ls-platesolver/internal/solver"
	"github.com/litescript/ls-platesolver/internal/version"
)

func newConfigCmd(root *Root) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.configShow(cmd)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.configShow(cmd)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			path := root.cfgPath
			if path == "" {
				path = config.DefaultPath()
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "stardbs",
		Short: "List the installed star databases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			installed, err := solver.InstalledStarDBs(root.cfg.Paths.StarDBDir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Star databases in %s:\n", root.cfg.Paths.StarDBDir)
			if len(installed) == 0 {
				fmt.Fprintln(out, "  none")
			}
			for _, name := range installed {
				fmt.Fprintf(out, "  - %s\n", name)
			}
			return nil
		},
	})

	return cmd
}

func (r *Root) configShow(cmd *cobra.Command) error {
	b, err := r.cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(b)
	return err
}

func newVersionCmd(root *Root) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ls-platesolver v%s\n", version.Version)
			fmt.Fprintf(out, "Built with Go %s\n", runtime.Version())
			fmt.Fprintf(out, "Solver: %s\n", root.cfg.Paths.Solver)
		},
	}
}
