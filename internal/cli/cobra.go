// Package cli implements the ls-platesolver command line.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/litescript/ls-platesolver/internal/config"
	"github.com/litescript/ls-platesolver/internal/logging"
)

// Root carries the loaded configuration to the subcommands.
type Root struct {
	cfg config.Config
	log *logging.Logger

	// persistent flags
	cfgPath  string
	logLevel string
	dataDir  string

	logFile    io.Closer
	isTerminal func() bool
}

// NewRoot returns a Root logging to log.
func NewRoot(log *logging.Logger) *Root {
	return &Root{
		log: log,
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdout.Fd()))
		},
	}
}

// NewRootCmd creates the root Cobra command.
func NewRootCmd(log *logging.Logger) *cobra.Command {
	return newRootCmd(NewRoot(log))
}

func newRootCmd(root *Root) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ls-platesolver",
		Short: "Plate-solve astrophotos and label the objects in them",
		Long: `ls-platesolver runs a plate solver on an image, stores the solution and
places catalog labels next to the stars and deep-sky objects in the field.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			root.teardown()
		},
	}

	rootCmd.PersistentFlags().StringVar(&root.cfgPath, "config", "", "config file (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().StringVar(&root.logLevel, "log-level", "", "log level (debug|info|warn|error), overrides the config file")
	rootCmd.PersistentFlags().StringVar(&root.dataDir, "data-dir", "", "data directory, overrides paths.data_dir")

	rootCmd.AddCommand(newAnnotateCmd(root))
	rootCmd.AddCommand(newCoordsCmd(root))
	rootCmd.AddCommand(newSolveCmd(root))
	rootCmd.AddCommand(newListCmd(root))
	rootCmd.AddCommand(newShowCmd(root))
	rootCmd.AddCommand(newWatchCmd(root))
	rootCmd.AddCommand(newViewCmd(root))
	rootCmd.AddCommand(newConfigCmd(root))
	rootCmd.AddCommand(newVersionCmd(root))

	return rootCmd
}

// setup loads the config file and applies the persistent flags.
func (r *Root) setup() error {
	path := r.cfgPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return err
	}

	if r.dataDir != "" {
		old := cfg.Paths.DataDir
		cfg.Paths.DataDir = r.dataDir
		if cfg.Paths.SolutionDir == filepath.Join(old, "solutions") {
			cfg.Paths.SolutionDir = filepath.Join(r.dataDir, "solutions")
		}
		if cfg.Paths.StarDBDir == filepath.Join(old, "stars") {
			cfg.Paths.StarDBDir = filepath.Join(r.dataDir, "stars")
		}
	}
	if r.logLevel != "" {
		cfg.Logging.Level = r.logLevel
	}
	r.cfg = cfg
	r.log.SetLevel(cfg.LogLevel())

	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		r.log.SetOutput(f)
		r.logFile = f
	}
	r.log.Debug("config %s, solutions in %s", path, cfg.Paths.SolutionDir)
	return nil
}

func (r *Root) teardown() {
	if r.logFile != nil {
		r.log.SetOutput(os.Stderr)
		r.logFile.Close()
		r.logFile = nil
	}
}
