// Package suite loads benchmark suites from YAML files. A suite names a set
// of entries, each a TCL script body or an external command, plus optional
// job options.
package suite

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spboyer/ipsbench/internal/entry"
	"github.com/spboyer/ipsbench/internal/hooks"
	"github.com/spboyer/ipsbench/internal/utils"
	"github.com/spboyer/ipsbench/internal/validation"
	"gopkg.in/yaml.v3"
)

// ErrInvalidSuite is returned when a suite file does not match the schema.
var ErrInvalidSuite = errors.New("invalid suite")

// ValidationError lists the schema violations of one suite file.
type ValidationError struct {
	Path   string
	Issues []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v:\n  %s", e.Path, ErrInvalidSuite, strings.Join(e.Issues, "\n  "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidSuite
}

// EntrySpec describes one benchmark entry.
type EntrySpec struct {
	Label   string   `yaml:"label"`
	Script  string   `yaml:"script,omitempty"`
	Command []string `yaml:"command,omitempty"`
	Dir     string   `yaml:"dir,omitempty"`
}

// Suite is a parsed suite file.
type Suite struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description,omitempty"`
	Options     map[string]any `yaml:"options,omitempty"`
	Entries     []EntrySpec    `yaml:"entries"`
	Hooks       hooks.Config   `yaml:"hooks,omitempty"`

	// Path is the file the suite was loaded from.
	Path string `yaml:"-"`
}

// Load reads, validates and parses the suite at path.
func Load(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading suite: %w", err)
	}
	return Parse(path, data)
}

// Parse validates and parses suite YAML. path is used for error messages
// and to resolve relative command directories.
func Parse(path string, data []byte) (*Suite, error) {
	if issues := validation.ValidateSuiteBytes(data); len(issues) > 0 {
		return nil, &ValidationError{Path: path, Issues: issues}
	}

	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing suite %s: %w", path, err)
	}
	s.Path = path

	seen := make(map[string]bool, len(s.Entries))
	for _, e := range s.Entries {
		if seen[e.Label] {
			return nil, &ValidationError{Path: path, Issues: []string{fmt.Sprintf("duplicate entry label %q", e.Label)}}
		}
		seen[e.Label] = true
	}
	return &s, nil
}

// Dir returns the directory relative paths in the suite resolve against.
func (s *Suite) Dir() string {
	if s.Path == "" {
		return "."
	}
	return filepath.Dir(s.Path)
}

// HookRunner returns a runner that resolves hook directories against the
// suite's directory.
func (s *Suite) HookRunner() *hooks.Runner {
	return &hooks.Runner{BaseDir: s.Dir()}
}

// Build turns every entry spec into a runnable entry, in file order. On
// error, entries built so far are closed.
func (s *Suite) Build() ([]*entry.Entry, error) {
	entries := make([]*entry.Entry, 0, len(s.Entries))
	for _, spec := range s.Entries {
		e, err := s.build(spec)
		if err != nil {
			for _, built := range entries {
				_ = built.Close()
			}
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *Suite) build(spec EntrySpec) (*entry.Entry, error) {
	if len(spec.Command) == 0 {
		return entry.New(spec.Label, spec.Script, nil)
	}
	if spec.Script != "" {
		return nil, fmt.Errorf("entry %q: %w", spec.Label, entry.ErrAmbiguousAction)
	}

	cmd, err := entry.NewCommand(spec.Command, utils.ResolvePath(spec.Dir, s.Dir()))
	if err != nil {
		return nil, fmt.Errorf("entry %q: %w", spec.Label, err)
	}
	return entry.FromAction(spec.Label, cmd)
}
