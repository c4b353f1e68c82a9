package orchestration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/spboyer/ipsbench/internal/compare"
	"github.com/spboyer/ipsbench/internal/config"
	"github.com/spboyer/ipsbench/internal/entry"
	"github.com/spboyer/ipsbench/internal/hold"
	"github.com/spboyer/ipsbench/internal/measure"
	"github.com/spboyer/ipsbench/internal/models"
	"github.com/spboyer/ipsbench/internal/reporting"
	"github.com/spboyer/ipsbench/internal/statistics"
	"github.com/spboyer/ipsbench/internal/utils"
)

var (
	// ErrHeld is returned after one entry was measured and persisted to the
	// hold file while others remain. Running the same job again resumes.
	ErrHeld = errors.New("result held; run again to measure the next entry")

	// ErrDuplicateLabel is returned when two entries share a label.
	ErrDuplicateLabel = errors.New("duplicate entry label")
)

// ConfigError marks an error that stopped the job before any timing loop.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func configErr(err error) error {
	if err == nil {
		return nil
	}
	return &ConfigError{Err: err}
}

// ProgressListener receives progress updates
type ProgressListener func(event ProgressEvent)

// EventType represents the type of progress event
type EventType string

// EventType constants
const (
	EventJobStart        EventType = "job_start"
	EventJobComplete     EventType = "job_complete"
	EventJobHeld         EventType = "job_held"
	EventPassStart       EventType = "pass_start"
	EventEntryHeld       EventType = "entry_held"
	EventEntryCalibrated EventType = "entry_calibrated"
	EventEntryMeasured   EventType = "entry_measured"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	EventType   EventType
	Label       string
	Pass        int
	TotalPasses int
	Details     map[string]any
}

// Job measures a list of entries, optionally several passes over, and
// delivers the results to reporters and sinks.
type Job struct {
	opts    config.Options
	mode    statistics.Mode
	entries []*entry.Entry
	labels  map[string]bool

	out       io.Writer
	measurer  *measure.Measurer
	reporters []reporting.Reporter
	sinks     []reporting.Sink
	store     *hold.Store
	filters   []string

	progressMu sync.Mutex
	listeners  []ProgressListener
}

// JobOption configures a Job.
type JobOption func(*Job)

// WithOutput sets where progress, the comparison and share links are
// printed. Defaults to os.Stdout.
func WithOutput(w io.Writer) JobOption {
	return func(j *Job) {
		j.out = w
	}
}

// WithMeasurer replaces the default measurer, typically to inject a fake
// clock or quiesce hook.
func WithMeasurer(m *measure.Measurer) JobOption {
	return func(j *Job) {
		j.measurer = m
	}
}

// WithReporter adds a reporter next to the stream reporter.
func WithReporter(r reporting.Reporter) JobOption {
	return func(j *Job) {
		j.reporters = append(j.reporters, r)
	}
}

// WithSinks adds post-run sinks next to the ones the options configure.
func WithSinks(sinks ...reporting.Sink) JobOption {
	return func(j *Job) {
		j.sinks = append(j.sinks, sinks...)
	}
}

// WithHoldStore uses an already opened hold store instead of opening
// the options' hold_path.
func WithHoldStore(s *hold.Store) JobOption {
	return func(j *Job) {
		j.store = s
	}
}

// WithEntryFilters restricts the run to entries whose label matches one of
// the glob patterns.
func WithEntryFilters(patterns ...string) JobOption {
	return func(j *Job) {
		j.filters = patterns
	}
}

// NewJob validates opts and creates an empty job. Invalid options are
// returned as a *ConfigError.
func NewJob(opts config.Options, options ...JobOption) (*Job, error) {
	if err := opts.Validate(); err != nil {
		return nil, configErr(err)
	}
	mode, err := opts.StatsMode()
	if err != nil {
		return nil, configErr(err)
	}
	if err := statistics.Check(mode); err != nil {
		return nil, configErr(err)
	}

	j := &Job{
		opts:   opts,
		mode:   mode,
		labels: make(map[string]bool),
		out:    os.Stdout,
	}
	for _, o := range options {
		o(j)
	}
	if j.measurer == nil {
		j.measurer = measure.New()
	}
	return j, nil
}

// Options returns the job's validated options.
func (j *Job) Options() config.Options {
	return j.opts
}

// Item registers an entry built from a script source or a function. See
// entry.New for the accepted forms.
func (j *Job) Item(label, source string, fn any) error {
	e, err := entry.New(label, source, fn)
	if err != nil {
		return configErr(err)
	}
	return j.Add(e)
}

// Add registers an already built entry. Labels must be unique.
func (j *Job) Add(e *entry.Entry) error {
	if j.labels[e.Label()] {
		return configErr(fmt.Errorf("%w: %q", ErrDuplicateLabel, e.Label()))
	}
	j.labels[e.Label()] = true
	j.entries = append(j.entries, e)
	return nil
}

// Entries returns the registered entries in registration order.
func (j *Job) Entries() []*entry.Entry {
	return slices.Clone(j.entries)
}

// OnProgress registers a progress listener
func (j *Job) OnProgress(listener ProgressListener) {
	j.progressMu.Lock()
	defer j.progressMu.Unlock()
	j.listeners = append(j.listeners, listener)
}

func (j *Job) notifyProgress(event ProgressEvent) {
	j.progressMu.Lock()
	listeners := make([]ProgressListener, len(j.listeners))
	copy(listeners, j.listeners)
	j.progressMu.Unlock()

	for _, listener := range listeners {
		listener(event)
	}
}

// Result is everything a finished (or held) job produced.
type Result struct {
	// Entries holds one report per entry per pass, pass by pass in
	// registration order. Held results appear where they would have been
	// measured.
	Entries []models.ReportEntry

	// Comparison is set when the compare option is on.
	Comparison compare.Outcome

	// Suggestion is a stricter configuration proposed when some result was
	// indistinguishable from the best.
	Suggestion *compare.Suggestion

	// fitted holds the model behind each report measured by this run.
	fitted map[hold.Key]statistics.Model
}

// Final returns the last pass's report for every label, in registration
// order. This is what the comparison and the sinks see.
func (r *Result) Final() []models.ReportEntry {
	last := make(map[string]int)
	var order []string
	for i, e := range r.Entries {
		if _, ok := last[e.Label]; !ok {
			order = append(order, e.Label)
		}
		last[e.Label] = i
	}
	out := make([]models.ReportEntry, 0, len(order))
	for _, label := range order {
		out = append(out, r.Entries[last[label]])
	}
	return out
}

// Records returns the export records of Final.
func (r *Result) Records() []models.Record {
	return models.ToRecords(r.Final())
}

// Run measures every entry. Calibration and measurement are never
// interrupted; ctx is checked before each of them. When a hold store is in
// use, Run measures a single pending entry, persists it and returns the
// partial result with ErrHeld until every entry of every pass is held.
func (j *Job) Run(ctx context.Context) (*Result, error) {
	entries, err := FilterEntries(j.entries, j.filters)
	if err != nil {
		return nil, configErr(err)
	}

	store, err := j.holdStore()
	if err != nil {
		return nil, err
	}

	reporter := j.reporter()
	passes := j.opts.Iterations
	res := &Result{fitted: make(map[hold.Key]statistics.Model)}

	j.notifyProgress(ProgressEvent{
		EventType:   EventJobStart,
		TotalPasses: passes,
		Details:     map[string]any{"entries": len(entries), "stats": string(j.mode)},
	})

	measured := 0
	for pass := 0; pass < passes; pass++ {
		j.notifyProgress(ProgressEvent{EventType: EventPassStart, Pass: pass, TotalPasses: passes})

		reports := make([]*models.ReportEntry, len(entries))
		var todo []int
		for i, e := range entries {
			if held, ok := store.Get(e.Label(), pass); ok {
				reports[i] = &held
				j.notifyProgress(ProgressEvent{EventType: EventEntryHeld, Label: e.Label(), Pass: pass, TotalPasses: passes})
				continue
			}
			todo = append(todo, i)
		}
		if store.Enabled() && len(todo) > 1 {
			todo = todo[:1]
		}

		if err := j.runPass(ctx, reporter, store, entries, todo, pass, reports, res.fitted); err != nil {
			return res, err
		}
		measured += len(todo)

		for _, r := range reports {
			if r != nil {
				res.Entries = append(res.Entries, *r)
			}
		}

		if store.Enabled() && measured > 0 && !complete(store, entries, passes) {
			reporter.Footer()
			j.notifyProgress(ProgressEvent{EventType: EventJobHeld, Pass: pass, TotalPasses: passes})
			slog.Debug("Holding results", "path", store.Path(), "held", store.Len())
			return res, ErrHeld
		}
	}

	reporter.Footer()

	if j.opts.Compare {
		if err := j.runComparison(res); err != nil {
			return res, err
		}
	}

	if err := j.runSinks(ctx, res.Records()); err != nil {
		return res, err
	}

	if store.Enabled() {
		if err := store.Clear(); err != nil {
			slog.Warn("Could not remove hold file", "path", store.Path(), "error", err)
		}
	}

	j.notifyProgress(ProgressEvent{
		EventType:   EventJobComplete,
		TotalPasses: passes,
		Details:     map[string]any{"reports": len(res.Entries)},
	})
	return res, nil
}

// runPass calibrates every pending entry, then measures them in the same
// order. reports is filled in place.
func (j *Job) runPass(ctx context.Context, reporter reporting.Reporter, store *hold.Store,
	entries []*entry.Entry, todo []int, pass int, reports []*models.ReportEntry,
	fitted map[hold.Key]statistics.Model) error {
	if len(todo) == 0 {
		return nil
	}

	warmup := j.opts.WarmupDuration()
	duration := j.opts.TimeDuration()

	cycles := make(map[int]int, len(todo))
	reporter.StartWarming()
	for _, i := range todo {
		e := entries[i]
		if err := ctx.Err(); err != nil {
			return err
		}
		reporter.Warming(e.Label(), warmup)
		cal, err := j.measurer.Calibrate(e, warmup)
		if err != nil {
			return err
		}
		cycles[i] = cal.CyclesPerBatch
		reporter.WarmupStats(cal.WarmupMicroseconds, cal.CyclesPerBatch)
		j.notifyProgress(ProgressEvent{
			EventType: EventEntryCalibrated,
			Label:     e.Label(),
			Pass:      pass,
			Details:   map[string]any{"cycles_per_batch": cal.CyclesPerBatch},
		})
	}

	reporter.StartRunning()
	for _, i := range todo {
		e := entries[i]
		if err := ctx.Err(); err != nil {
			return err
		}
		reporter.Running(e.Label(), duration)
		m, err := j.measurer.Measure(e, cycles[i], duration)
		if err != nil {
			return err
		}

		rep, model, err := j.report(e.Label(), pass, cycles[i], m)
		if err != nil {
			return err
		}
		reports[i] = &rep
		fitted[hold.Key{Label: rep.Label, Pass: pass}] = model
		reporter.AddReport(rep)

		if err := store.Put(rep); err != nil {
			return fmt.Errorf("holding %q: %w", e.Label(), err)
		}
		j.notifyProgress(ProgressEvent{
			EventType: EventEntryMeasured,
			Label:     e.Label(),
			Pass:      pass,
			Details:   map[string]any{"ips": rep.IPS(), "skewed": rep.TimingSkewed},
		})
	}
	return nil
}

func (j *Job) report(label string, pass, cycles int, m measure.Measurement) (models.ReportEntry, statistics.Model, error) {
	samples := m.Throughputs()
	model, err := j.model(samples)
	if err != nil {
		return models.ReportEntry{}, nil, fmt.Errorf("summarizing %q: %w", label, err)
	}
	return models.ReportEntry{
		Label:             label,
		Pass:              pass,
		TotalMicroseconds: m.TotalMicroseconds,
		TotalIterations:   m.TotalIterations,
		CyclesPerBatch:    cycles,
		Stats: models.StatsResult{
			CentralTendency: model.CentralTendency(),
			Error:           utils.Ptr(model.Error()),
			Footer:          model.Footer(),
		},
		TimingSkewed: m.Skewed,
		Samples:      samples,
	}, model, nil
}

func (j *Job) model(samples []float64) (statistics.Model, error) {
	return statistics.New(j.mode, samples,
		statistics.WithConfidence(j.opts.Confidence),
		statistics.WithSeed(j.opts.Seed))
}

// modelOf returns the model behind a report. Reports measured by this run
// reuse the model they were summarized with; held reports are rebuilt from
// their samples, or from their stored summary when they have none.
func (j *Job) modelOf(res *Result, e models.ReportEntry) (statistics.Model, error) {
	if m, ok := res.fitted[hold.Key{Label: e.Label, Pass: e.Pass}]; ok {
		return m, nil
	}
	if len(e.Samples) == 0 {
		return statistics.NewSDSummary(e.IPS(), e.Stats.ErrorOrZero()), nil
	}
	return j.model(e.Samples)
}

func (j *Job) runComparison(res *Result) error {
	final := res.Final()
	results := make([]compare.Result, 0, len(final))
	for _, e := range final {
		m, err := j.modelOf(res, e)
		if err != nil {
			return fmt.Errorf("comparing %q: %w", e.Label, err)
		}
		results = append(results, compare.Result{Label: e.Label, Model: m})
	}

	res.Comparison = compare.Compare(results)
	if res.Comparison.Empty() {
		return nil
	}
	if err := res.Comparison.Format(j.out); err != nil {
		return fmt.Errorf("printing comparison: %w", err)
	}

	if s, ok := compare.Suggest(res.Comparison, j.opts.TimeDuration(), compare.BatchDuration); ok {
		res.Suggestion = &s
		if _, err := fmt.Fprintln(j.out, s.String()); err != nil {
			return fmt.Errorf("printing suggestion: %w", err)
		}
	}
	return nil
}

// runSinks delivers records to every sink concurrently. Timing has
// finished by the time this runs.
func (j *Job) runSinks(ctx context.Context, records []models.Record) error {
	sinks := j.configuredSinks()
	if len(sinks) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range sinks {
		g.Go(func() error {
			return s.PostRun(gctx, records)
		})
	}
	return g.Wait()
}

func (j *Job) configuredSinks() []reporting.Sink {
	var sinks []reporting.Sink
	if j.opts.JSONPath != "" {
		sinks = append(sinks, reporting.JSONSink{Path: j.opts.JSONPath})
	}
	if j.opts.Share {
		sinks = append(sinks, reporting.NewShareSink(j.opts.ShareURL, j.opts.Compare, j.out))
	}
	if j.opts.MetricsPath != "" {
		sinks = append(sinks, reporting.MetricsSink{Path: j.opts.MetricsPath})
	}
	return append(sinks, j.sinks...)
}

func (j *Job) reporter() reporting.Reporter {
	var rs reporting.Multi
	if !j.opts.Quiet {
		rs = append(rs, reporting.NewStream(j.out, reporting.WithHumanFormat(j.opts.Human())))
	}
	rs = append(rs, j.reporters...)
	return rs
}

func (j *Job) holdStore() (*hold.Store, error) {
	if j.store != nil {
		return j.store, nil
	}
	s, err := hold.Open(j.opts.HoldPath)
	if err != nil {
		return nil, configErr(err)
	}
	j.store = s
	return s, nil
}

// complete reports whether every entry has a held result for every pass.
func complete(store *hold.Store, entries []*entry.Entry, passes int) bool {
	for pass := 0; pass < passes; pass++ {
		for _, e := range entries {
			if _, ok := store.Get(e.Label(), pass); !ok {
				return false
			}
		}
	}
	return true
}
