// Package projectconfig provides the ProjectConfig struct and loader for
// .ipsbench.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spboyer/ipsbench/internal/utils"
	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file looked up by Load.
const FileName = ".ipsbench.yaml"

// Default values for project configuration. New and config.Defaults both
// read them.
const (
	DefaultSuitesDir  = "benchmarks/"
	DefaultResultsDir = "results/"

	DefaultWarmup     = 2.0
	DefaultTime       = 5.0
	DefaultIterations = 1
	DefaultStats      = "sd"
	DefaultConfidence = 95.0
	DefaultFormat     = "default"
	DefaultSeed       = -1

	DefaultShareURL = "https://benchmark.fyi"
)

// PathsConfig holds directory paths for suite files and exported results.
type PathsConfig struct {
	Suites  string `yaml:"suites,omitempty"`
	Results string `yaml:"results,omitempty"`
}

// DefaultsConfig holds default job options.
type DefaultsConfig struct {
	Warmup     *float64 `yaml:"warmup,omitempty"`
	Time       *float64 `yaml:"time,omitempty"`
	Iterations int      `yaml:"iterations,omitempty"`
	Stats      string   `yaml:"stats,omitempty"`
	Confidence float64  `yaml:"confidence,omitempty"`
	Compare    *bool    `yaml:"compare,omitempty"`
	Quiet      *bool    `yaml:"quiet,omitempty"`
	Format     string   `yaml:"format,omitempty"`
	Seed       *int64   `yaml:"seed,omitempty"`
}

// HoldConfig holds hold-and-resume settings.
type HoldConfig struct {
	Path string `yaml:"path,omitempty"`
}

// ShareConfig holds report upload settings.
type ShareConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	URL     string `yaml:"url,omitempty"`
}

// OutputConfig holds post-run artifact paths.
type OutputConfig struct {
	JSON    string `yaml:"json,omitempty"`
	Metrics string `yaml:"metrics,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .ipsbench.yaml.
type ProjectConfig struct {
	Paths    PathsConfig    `yaml:"paths,omitempty"`
	Defaults DefaultsConfig `yaml:"defaults,omitempty"`
	Hold     HoldConfig     `yaml:"hold,omitempty"`
	Share    ShareConfig    `yaml:"share,omitempty"`
	Output   OutputConfig   `yaml:"output,omitempty"`

	// Source is the file the configuration was read from, or "" when
	// only defaults apply.
	Source string `yaml:"-"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Paths: PathsConfig{
			Suites:  DefaultSuitesDir,
			Results: DefaultResultsDir,
		},
		Defaults: DefaultsConfig{
			Warmup:     float64Ptr(DefaultWarmup),
			Time:       float64Ptr(DefaultTime),
			Iterations: DefaultIterations,
			Stats:      DefaultStats,
			Confidence: DefaultConfidence,
			Compare:    boolPtr(false),
			Quiet:      boolPtr(false),
			Format:     DefaultFormat,
			Seed:       int64Ptr(DefaultSeed),
		},
		Share: ShareConfig{
			Enabled: boolPtr(false),
			URL:     DefaultShareURL,
		},
	}
}

// Load finds .ipsbench.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	path, data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil // no file found → return defaults
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	// Merge file values onto defaults.
	mergeConfig(cfg, &fileCfg)
	cfg.Source = path
	return cfg, nil
}

// Root is the directory holding the configuration file, or "." when only
// defaults apply.
func (c *ProjectConfig) Root() string {
	if c.Source == "" {
		return "."
	}
	return filepath.Dir(c.Source)
}

// Resolve anchors a path from the configuration file at Root.
func (c *ProjectConfig) Resolve(path string) string {
	return utils.ResolvePath(path, c.Root())
}

// Settings flattens the configuration into job option keys, suitable as the
// lowest configuration layer below environment and flags.
func (c *ProjectConfig) Settings() map[string]any {
	s := map[string]any{
		"iterations":   c.Defaults.Iterations,
		"stats":        c.Defaults.Stats,
		"confidence":   c.Defaults.Confidence,
		"format":       c.Defaults.Format,
		"hold_path":    c.Resolve(c.Hold.Path),
		"share_url":    c.Share.URL,
		"json_path":    c.Resolve(c.Output.JSON),
		"metrics_path": c.Resolve(c.Output.Metrics),
	}
	if c.Defaults.Warmup != nil {
		s["warmup"] = *c.Defaults.Warmup
	}
	if c.Defaults.Time != nil {
		s["time"] = *c.Defaults.Time
	}
	if c.Defaults.Compare != nil {
		s["compare"] = *c.Defaults.Compare
	}
	if c.Defaults.Quiet != nil {
		s["quiet"] = *c.Defaults.Quiet
	}
	if c.Defaults.Seed != nil {
		s["seed"] = *c.Defaults.Seed
	}
	if c.Share.Enabled != nil {
		s["share"] = *c.Share.Enabled
	}
	return s
}

// findConfigFile walks up from dir looking for .ipsbench.yaml (max 10 levels).
// Returns os.ErrNotExist if no config file is found. Propagates real I/O
// errors (e.g. permission denied) instead of silently swallowing them.
func findConfigFile(dir string) (string, []byte, error) {
	// Convert to absolute path so filepath.Dir(".") walks correctly.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return p, data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return "", nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	// Paths
	if src.Paths.Suites != "" {
		dst.Paths.Suites = src.Paths.Suites
	}
	if src.Paths.Results != "" {
		dst.Paths.Results = src.Paths.Results
	}

	// Defaults
	if src.Defaults.Warmup != nil {
		dst.Defaults.Warmup = src.Defaults.Warmup
	}
	if src.Defaults.Time != nil {
		dst.Defaults.Time = src.Defaults.Time
	}
	if src.Defaults.Iterations != 0 {
		dst.Defaults.Iterations = src.Defaults.Iterations
	}
	if src.Defaults.Stats != "" {
		dst.Defaults.Stats = src.Defaults.Stats
	}
	if src.Defaults.Confidence != 0 {
		dst.Defaults.Confidence = src.Defaults.Confidence
	}
	if src.Defaults.Compare != nil {
		dst.Defaults.Compare = src.Defaults.Compare
	}
	if src.Defaults.Quiet != nil {
		dst.Defaults.Quiet = src.Defaults.Quiet
	}
	if src.Defaults.Format != "" {
		dst.Defaults.Format = src.Defaults.Format
	}
	if src.Defaults.Seed != nil {
		dst.Defaults.Seed = src.Defaults.Seed
	}

	// Hold
	if src.Hold.Path != "" {
		dst.Hold.Path = src.Hold.Path
	}

	// Share
	if src.Share.Enabled != nil {
		dst.Share.Enabled = src.Share.Enabled
	}
	if src.Share.URL != "" {
		dst.Share.URL = src.Share.URL
	}

	// Output
	if src.Output.JSON != "" {
		dst.Output.JSON = src.Output.JSON
	}
	if src.Output.Metrics != "" {
		dst.Output.Metrics = src.Output.Metrics
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func float64Ptr(f float64) *float64 {
	return &f
}

func int64Ptr(i int64) *int64 {
	return &i
}
