package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spboyer/ipsbench/internal/config"
	"github.com/spboyer/ipsbench/internal/entry"
	"github.com/spboyer/ipsbench/internal/hooks"
	"github.com/spboyer/ipsbench/internal/orchestration"
	"github.com/spboyer/ipsbench/internal/projectconfig"
	"github.com/spboyer/ipsbench/internal/suite"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// Progress modes for --progress.
const (
	progressAuto   = "auto"
	progressAlways = "always"
	progressNever  = "never"
)

// flagKeys maps run flags to the option keys they override.
var flagKeys = map[string]string{
	"warmup":     "warmup",
	"time":       "time",
	"iterations": "iterations",
	"stats":      "stats",
	"confidence": "confidence",
	"quiet":      "quiet",
	"compare":    "compare",
	"hold":       "hold_path",
	"json":       "json_path",
	"share":      "share",
	"share-url":  "share_url",
	"metrics":    "metrics_path",
	"seed":       "seed",
	"format":     "format",
}

type runFlags struct {
	progress string
	filters  []string
}

func newRunCommand() *cobra.Command {
	rf := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run <suite.yaml>",
		Short: "Run a benchmark suite",
		Long: `Run a benchmark suite from a YAML file.

Options are layered: command-line flags override IPSBENCH_* environment
variables, which override the suite's options block, which overrides
.ipsbench.yaml, which overrides built-in defaults.

With --hold, each invocation measures a single entry and stores it; run
the same command again until every entry is measured.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuite(cmd, args[0], rf)
		},
	}

	f := cmd.Flags()
	f.Float64("warmup", projectconfig.DefaultWarmup, "Warmup seconds per entry (0 skips calibration)")
	f.Float64("time", projectconfig.DefaultTime, "Measurement seconds per entry")
	f.Int("iterations", projectconfig.DefaultIterations, "Number of full passes over all entries")
	f.String("stats", projectconfig.DefaultStats, "Statistics model: sd or bootstrap")
	f.Float64("confidence", projectconfig.DefaultConfidence, "Bootstrap confidence level in percent")
	f.BoolP("quiet", "q", false, "Suppress progress output")
	f.BoolP("compare", "c", false, "Compare entries after measuring")
	f.String("hold", "", "Hold file; measure one entry per invocation")
	f.StringP("json", "o", "", "Export results as JSON (.gz compresses)")
	f.Bool("share", false, "Upload results and print a link")
	f.String("share-url", projectconfig.DefaultShareURL, "Share server base URL")
	f.String("metrics", "", "Write a Prometheus textfile")
	f.Int64("seed", projectconfig.DefaultSeed, "Bootstrap random seed (negative is random)")
	f.String("format", projectconfig.DefaultFormat, "Number format: default or human")
	f.StringVar(&rf.progress, "progress", progressAuto, "Progress output: auto, always or never")
	f.StringArrayVar(&rf.filters, "filter", nil, "Run only entries whose label matches the glob (can be repeated)")

	return cmd
}

func runSuite(cmd *cobra.Command, suitePath string, rf *runFlags) error {
	out := cmd.OutOrStdout()

	s, err := suite.Load(suitePath)
	if err != nil {
		return err
	}

	opts, err := resolveOptions(cmd.Flags(), s)
	if err != nil {
		return err
	}
	if opts.Quiet, err = resolveQuiet(rf.progress, opts.Quiet, out); err != nil {
		return err
	}

	entries, err := s.Build()
	if err != nil {
		return err
	}
	defer closeEntries(entries)

	job, err := orchestration.NewJob(opts,
		orchestration.WithOutput(out),
		orchestration.WithEntryFilters(rf.filters...))
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := job.Add(e); err != nil {
			return err
		}
	}
	job.OnProgress(logProgress)

	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt)
	defer stop()

	hookRunner := s.HookRunner()
	if err := hookRunner.Execute(ctx, hooks.BeforeRun, s.Hooks.BeforeRun); err != nil {
		return err
	}
	defer func() {
		// after_run hooks clean up even when the run was interrupted.
		if err := hookRunner.Execute(context.WithoutCancel(ctx), hooks.AfterRun, s.Hooks.AfterRun); err != nil {
			slog.Warn("after_run hook failed", "error", err)
		}
	}()

	res, err := job.Run(ctx)
	if errors.Is(err, orchestration.ErrHeld) {
		_, werr := fmt.Fprintf(out, "Held %d result(s) in %s; run again to measure the next entry.\n",
			len(res.Entries), opts.HoldPath)
		return werr
	}
	return err
}

// resolveOptions layers flags over env over suite options over the project
// file over defaults.
func resolveOptions(flags *pflag.FlagSet, s *suite.Suite) (config.Options, error) {
	project, err := projectconfig.Load(s.Dir())
	if err != nil {
		return config.Options{}, err
	}
	if project.Source != "" {
		slog.Debug("Loaded project config", "path", project.Source)
	}

	v := config.NewViper(project.Settings())
	for k, val := range s.Options {
		v.SetDefault(k, val)
	}
	if err := bindFlags(v, flags); err != nil {
		return config.Options{}, err
	}
	return config.FromViper(v)
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return nil
}

// resolveQuiet applies --progress. In auto mode progress is printed only
// when out is a terminal.
func resolveQuiet(progress string, quiet bool, out io.Writer) (bool, error) {
	switch progress {
	case progressAlways:
		return false, nil
	case progressNever:
		return true, nil
	case progressAuto, "":
		return quiet || !isTerminal(out), nil
	default:
		return quiet, fmt.Errorf("%w: --progress must be auto, always or never, got %q", config.ErrInvalidOption, progress)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func closeEntries(entries []*entry.Entry) {
	for _, e := range entries {
		if err := e.Close(); err != nil {
			slog.Warn("Closing entry", "label", e.Label(), "error", err)
		}
	}
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func logProgress(ev orchestration.ProgressEvent) {
	slog.Debug("Job progress",
		"event", string(ev.EventType),
		"label", ev.Label,
		"pass", ev.Pass,
		"passes", ev.TotalPasses,
		"details", ev.Details)
}
