// Package hooks runs a suite's shell commands before and after a benchmark
// job. Hooks never run while an entry is being timed.
package hooks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
)

// Lifecycle points.
const (
	BeforeRun = "before_run"
	AfterRun  = "after_run"
)

// Hook is one command. Command is split on whitespace; no shell is involved.
type Hook struct {
	Command     string `yaml:"command" json:"command"`
	Dir         string `yaml:"dir,omitempty" json:"dir,omitempty"`
	ExitCodes   []int  `yaml:"exit_codes,omitempty" json:"exit_codes,omitempty"`
	ErrorOnFail bool   `yaml:"error_on_fail,omitempty" json:"error_on_fail,omitempty"`
}

// Config holds the hooks of a suite.
type Config struct {
	BeforeRun []Hook `yaml:"before_run,omitempty" json:"before_run,omitempty"`
	AfterRun  []Hook `yaml:"after_run,omitempty" json:"after_run,omitempty"`
}

// Runner executes hooks. Relative hook directories resolve against BaseDir.
type Runner struct {
	BaseDir string
}

// Execute runs hooks in order for the named lifecycle point. A hook whose
// exit code is not accepted fails the call only when ErrorOnFail is set;
// otherwise it is logged and the next hook runs.
func (r *Runner) Execute(ctx context.Context, name string, hooks []Hook) error {
	for i, h := range hooks {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("hook %s: context canceled: %w", name, err)
		}
		if err := r.run(ctx, name, i, h); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) run(ctx context.Context, name string, index int, h Hook) error {
	parts := strings.Fields(h.Command)
	if len(parts) == 0 {
		return fmt.Errorf("hook %s[%d]: empty command", name, index)
	}

	//nolint:gosec // hook commands come from the user's own suite file
	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	cmd.Dir = r.dir(h.Dir)

	output, err := cmd.CombinedOutput()
	if len(output) > 0 {
		slog.Debug("Hook output", "hook", name, "index", index, "output", strings.TrimSpace(string(output)))
	}

	code := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			if h.ErrorOnFail {
				return fmt.Errorf("hook %s[%d]: %w", name, index, err)
			}
			slog.Warn("Hook failed, continuing", "hook", name, "index", index, "error", err)
			return nil
		}
		code = exitErr.ExitCode()
	}

	if acceptable(code, h.ExitCodes) {
		return nil
	}
	if h.ErrorOnFail {
		return fmt.Errorf("hook %s[%d]: command exited with code %d", name, index, code)
	}
	slog.Warn("Hook exited with unexpected code, continuing", "hook", name, "index", index, "code", code)
	return nil
}

func (r *Runner) dir(d string) string {
	if d == "" {
		return r.BaseDir
	}
	if filepath.IsAbs(d) || r.BaseDir == "" {
		return d
	}
	return filepath.Join(r.BaseDir, d)
}

// acceptable reports whether code is allowed. An empty list allows only 0.
func acceptable(code int, allowed []int) bool {
	if len(allowed) == 0 {
		return code == 0
	}
	return slices.Contains(allowed, code)
}
