// Package config loads the ls-platesolver settings file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/litescript/ls-platesolver/internal/layout"
	"github.com/litescript/ls-platesolver/internal/logging"
)

// Config is the contents of config.yaml.
type Config struct {
	Paths   Paths   `yaml:"paths"`
	Layout  Layout  `yaml:"layout"`
	Logging Logging `yaml:"logging"`
}

// Paths locates the solver and the data files.
type Paths struct {
	// DataDir is the base for the other directories when they are not set.
	DataDir     string `yaml:"data_dir"`
	SolutionDir string `yaml:"solution_dir"`
	StarDBDir   string `yaml:"stardb_dir"`

	// Catalog is an object list in CSV form. Empty uses the built-in list.
	Catalog string `yaml:"catalog"`

	// Solver is the solver executable, looked up in PATH if it has no
	// directory part.
	Solver string `yaml:"solver"`
}

// Layout holds the label placement parameters, in canvas units at scale 1.
type Layout struct {
	MarkerRadius float64   `yaml:"marker_radius"`
	Distances    []float64 `yaml:"distances"`
	Angles       []float64 `yaml:"angles"`

	// FontSize is used when measuring labels for image output, in points.
	FontSize float64 `yaml:"font_size"`
}

type Logging struct {
	Level string `yaml:"level"`
	// File receives log output. Empty means stderr, except in the viewer
	// where logs are discarded.
	File string `yaml:"file"`
}

// DefaultConfig returns the settings used when there is no config file.
// Paths derived from the data directory are filled in by Finalize.
func DefaultConfig() Config {
	return Config{
		Layout: Layout{
			MarkerRadius: layout.DefaultMarkerRadius,
			Distances:    append([]float64(nil), layout.DefaultDistances...),
			Angles:       append([]float64(nil), layout.DefaultAngles...),
			FontSize:     12,
		},
		Logging: Logging{Level: "info"},
	}
}

// DefaultPath returns the config file location, $XDG_CONFIG_HOME or the
// platform equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, "ls-platesolver", "config.yaml")
}

// Load reads a YAML config file over DefaultConfig and finalizes it.
func Load(filename string) (Config, error) {
	contents, err := os.ReadFile(filename)
	if err != nil {
		return DefaultConfig(), fmt.Errorf("read '%s': %w", filename, err)
	}
	return Parse(contents)
}

// Parse decodes YAML over DefaultConfig and finalizes the result.
func Parse(contents []byte) (Config, error) {
	c := DefaultConfig()
	if err := yaml.UnmarshalStrict(contents, &c); err != nil {
		return c, fmt.Errorf("parse config: %w", err)
	}
	return c, c.Finalize()
}

// LoadOrDefault is Load, except that a missing file yields the finalized
// DefaultConfig.
func LoadOrDefault(filename string) (Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		c := DefaultConfig()
		return c, c.Finalize()
	}
	return Load(filename)
}

// Finalize fills derived defaults, expands ~ in paths and checks values.
func (c *Config) Finalize() error {
	if c.Paths.DataDir == "" {
		c.Paths.DataDir = defaultDataDir()
	}
	if c.Paths.SolutionDir == "" {
		c.Paths.SolutionDir = filepath.Join(c.Paths.DataDir, "solutions")
	}
	if c.Paths.StarDBDir == "" {
		c.Paths.StarDBDir = filepath.Join(c.Paths.DataDir, "stars")
	}
	if c.Paths.Solver == "" {
		c.Paths.Solver = "astap_cli"
	}
	for _, p := range []*string{&c.Paths.DataDir, &c.Paths.SolutionDir, &c.Paths.StarDBDir, &c.Paths.Catalog, &c.Paths.Solver, &c.Logging.File} {
		*p = expandHome(*p)
	}

	if c.Layout.MarkerRadius <= 0 {
		return fmt.Errorf("layout.marker_radius must be positive, got %v", c.Layout.MarkerRadius)
	}
	if len(c.Layout.Distances) == 0 || len(c.Layout.Angles) == 0 {
		return fmt.Errorf("layout.distances and layout.angles must not be empty")
	}
	for _, d := range c.Layout.Distances {
		if d < 0 {
			return fmt.Errorf("layout.distances: negative distance %v", d)
		}
	}
	if c.Layout.FontSize <= 0 {
		return fmt.Errorf("layout.font_size must be positive, got %v", c.Layout.FontSize)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unknown level '%s'", c.Logging.Level)
	}
	return nil
}

// LogLevel returns the configured level.
func (c Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Logging.Level)
}

// Marshal returns c as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func defaultDataDir() string {
	if d := os.Getenv("XDG_DATA_HOME"); d != "" {
		return filepath.Join(d, "ls-platesolver")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ls-platesolver"
	}
	return filepath.Join(home, ".local", "share", "ls-platesolver")
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
