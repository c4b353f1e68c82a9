// Package ips measures iterations per second of Go functions and TCL
// snippets, and compares them.
//
//	res, err := ips.Run(ctx, func(x *ips.Job) error {
//		x.Config(map[string]any{"time": 2, "warmup": 1})
//		x.Compare()
//		x.Report("strings.Builder", func() { ... })
//		x.Report("fmt.Sprintf", func() { ... })
//		return nil
//	})
package ips

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spboyer/ipsbench/internal/clock"
	"github.com/spboyer/ipsbench/internal/config"
	"github.com/spboyer/ipsbench/internal/entry"
	"github.com/spboyer/ipsbench/internal/measure"
	"github.com/spboyer/ipsbench/internal/models"
	"github.com/spboyer/ipsbench/internal/orchestration"
)

type (
	// Options are the job settings; see Job.Config for the keys.
	Options = config.Options
	// Result is a finished run.
	Result = orchestration.Result
	// Report is one entry's measurement in one pass.
	Report = models.ReportEntry
	// Record is the flattened export form of a Report.
	Record = models.Record
	// Clock reads monotonic time in microseconds.
	Clock = clock.Clock
)

// ErrHeld is returned when a hold file is configured and one entry was
// measured and stored. Run again to measure the next.
var ErrHeld = orchestration.ErrHeld

// Job collects entries and settings inside a Run setup function.
type Job struct {
	opts    Options
	entries []*entry.Entry
	err     error
}

// Config applies option keys: warmup, time, iterations, stats, confidence,
// quiet, compare, hold_path, json_path, share, share_url, metrics_path, seed
// and format.
func (j *Job) Config(settings map[string]any) error {
	return j.fail(j.opts.Configure(settings))
}

// Compare turns on the comparison printed after measuring.
func (j *Job) Compare() {
	j.opts.Compare = true
}

// Hold stores each measured entry in path and stops after one; see ErrHeld.
func (j *Job) Hold(path string) {
	j.opts.HoldPath = path
}

// JSON exports the results to path after measuring.
func (j *Job) JSON(path string) {
	j.opts.JSONPath = path
}

// Report registers fn under label. fn is a func() called once per
// iteration or a func(n int) that runs n iterations itself.
func (j *Job) Report(label string, fn any) error {
	e, err := entry.New(label, "", fn)
	if err != nil {
		return j.fail(err)
	}
	j.entries = append(j.entries, e)
	return nil
}

// Script registers a TCL snippet under label. The snippet is compiled once
// and evaluated once per iteration.
func (j *Job) Script(label, source string) error {
	e, err := entry.New(label, source, nil)
	if err != nil {
		return j.fail(err)
	}
	j.entries = append(j.entries, e)
	return nil
}

func (j *Job) fail(err error) error {
	if err != nil {
		j.err = errors.Join(j.err, err)
	}
	return err
}

type runConfig struct {
	out     io.Writer
	measure []measure.Option
}

// RunOption configures Run.
type RunOption func(*runConfig)

// WithOutput sets where progress and the comparison are printed.
func WithOutput(w io.Writer) RunOption {
	return func(c *runConfig) {
		c.out = w
	}
}

// WithClock replaces the monotonic clock.
func WithClock(c Clock) RunOption {
	return func(rc *runConfig) {
		rc.measure = append(rc.measure, measure.WithClock(c))
	}
}

// WithQuiesce replaces the garbage collection run before each timing phase.
func WithQuiesce(q func()) RunOption {
	return func(rc *runConfig) {
		rc.measure = append(rc.measure, measure.WithQuiesce(q))
	}
}

// Run calls setup to register entries, then measures them. Errors from
// setup or from any registration are returned before anything is timed.
func Run(ctx context.Context, setup func(*Job) error, opts ...RunOption) (*Result, error) {
	rc := &runConfig{}
	for _, o := range opts {
		o(rc)
	}

	j := &Job{opts: config.Defaults()}
	defer func() {
		for _, e := range j.entries {
			_ = e.Close()
		}
	}()
	err := setup(j)
	if j.err != nil {
		return nil, &orchestration.ConfigError{Err: j.err}
	}
	if err != nil {
		return nil, fmt.Errorf("setting up job: %w", err)
	}

	jobOpts := []orchestration.JobOption{orchestration.WithMeasurer(measure.New(rc.measure...))}
	if rc.out != nil {
		jobOpts = append(jobOpts, orchestration.WithOutput(rc.out))
	}
	job, err := orchestration.NewJob(j.opts, jobOpts...)
	if err != nil {
		return nil, err
	}
	for _, e := range j.entries {
		if err := job.Add(e); err != nil {
			return nil, err
		}
	}
	return job.Run(ctx)
}

// Method is a named function for QuickCompare.
type Method struct {
	Name string
	Fn   func()
}

// QuickCompare measures every method and prints how they compare.
// settings accepts the same keys as Job.Config and may be nil.
func QuickCompare(ctx context.Context, settings map[string]any, methods []Method, opts ...RunOption) (*Result, error) {
	return Run(ctx, func(x *Job) error {
		if settings != nil {
			if err := x.Config(settings); err != nil {
				return err
			}
		}
		x.Compare()
		for _, m := range methods {
			if err := x.Report(m.Name, m.Fn); err != nil {
				return err
			}
		}
		return nil
	}, opts...)
}
