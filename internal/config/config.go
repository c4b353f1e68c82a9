// Package config holds the options of a benchmark job and decodes them from
// option maps and layered CLI configuration.
package config

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spboyer/ipsbench/internal/projectconfig"
	"github.com/spboyer/ipsbench/internal/statistics"
)

// ErrInvalidOption is returned for option values a job cannot run with.
var ErrInvalidOption = errors.New("invalid option")

// Format selects how the stream reporter prints numbers.
type Format string

// Format constants
const (
	FormatDefault Format = "default"
	FormatHuman   Format = "human"
)

// Options configures a benchmark job. Durations are in seconds.
type Options struct {
	Warmup      float64 `mapstructure:"warmup" json:"warmup"`
	Time        float64 `mapstructure:"time" json:"time"`
	Iterations  int     `mapstructure:"iterations" json:"iterations"`
	Stats       string  `mapstructure:"stats" json:"stats"`
	Confidence  float64 `mapstructure:"confidence" json:"confidence"`
	Quiet       bool    `mapstructure:"quiet" json:"quiet"`
	Compare     bool    `mapstructure:"compare" json:"compare"`
	HoldPath    string  `mapstructure:"hold_path" json:"hold_path,omitempty"`
	JSONPath    string  `mapstructure:"json_path" json:"json_path,omitempty"`
	Share       bool    `mapstructure:"share" json:"share"`
	ShareURL    string  `mapstructure:"share_url" json:"share_url,omitempty"`
	MetricsPath string  `mapstructure:"metrics_path" json:"metrics_path,omitempty"`
	Seed        int64   `mapstructure:"seed" json:"seed"`
	Format      Format  `mapstructure:"format" json:"format"`
}

// Keys lists every option key in declaration order.
var Keys = []string{
	"warmup", "time", "iterations", "stats", "confidence", "quiet", "compare",
	"hold_path", "json_path", "share", "share_url", "metrics_path", "seed", "format",
}

// Defaults returns the options a job runs with when nothing is configured.
func Defaults() Options {
	return Options{
		Warmup:     projectconfig.DefaultWarmup,
		Time:       projectconfig.DefaultTime,
		Iterations: projectconfig.DefaultIterations,
		Stats:      projectconfig.DefaultStats,
		Confidence: projectconfig.DefaultConfidence,
		ShareURL:   projectconfig.DefaultShareURL,
		Seed:       projectconfig.DefaultSeed,
		Format:     FormatDefault,
	}
}

// Decode overlays the values in m onto base. Keys are the option names
// above; values may be strings, as they arrive from the environment.
// Unknown keys are rejected.
func Decode(m map[string]any, base Options) (Options, error) {
	out := base
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return base, fmt.Errorf("building option decoder: %w", err)
	}
	if err := dec.Decode(m); err != nil {
		return base, fmt.Errorf("%w: %w", ErrInvalidOption, err)
	}
	return out, nil
}

// Configure applies m onto o and validates the result.
func (o *Options) Configure(m map[string]any) error {
	next, err := Decode(m, *o)
	if err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*o = next
	return nil
}

// Validate reports the first option a job cannot run with.
func (o Options) Validate() error {
	if o.Warmup < 0 || math.IsNaN(o.Warmup) || math.IsInf(o.Warmup, 0) {
		return fmt.Errorf("%w: warmup must be a non-negative number of seconds, got %v", ErrInvalidOption, o.Warmup)
	}
	if o.Time < 0 || math.IsNaN(o.Time) || math.IsInf(o.Time, 0) {
		return fmt.Errorf("%w: time must be a non-negative number of seconds, got %v", ErrInvalidOption, o.Time)
	}
	if o.Iterations < 1 {
		return fmt.Errorf("%w: iterations must be at least 1, got %d", ErrInvalidOption, o.Iterations)
	}
	mode, err := o.StatsMode()
	if err != nil {
		return err
	}
	if mode == statistics.ModeBootstrap && (o.Confidence <= 0 || o.Confidence >= 100) {
		return fmt.Errorf("%w: confidence must be between 0 and 100, got %v", ErrInvalidOption, o.Confidence)
	}
	switch o.Format {
	case FormatDefault, FormatHuman, "":
	default:
		return fmt.Errorf("%w: format must be default or human, got %q", ErrInvalidOption, o.Format)
	}
	if o.Share {
		u, err := url.Parse(o.ShareURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: share_url %q is not an absolute URL", ErrInvalidOption, o.ShareURL)
		}
	}
	return nil
}

// StatsMode parses the stats option.
func (o Options) StatsMode() (statistics.Mode, error) {
	return statistics.ParseMode(o.Stats)
}

// WarmupDuration returns the warmup time.
func (o Options) WarmupDuration() time.Duration {
	return seconds(o.Warmup)
}

// TimeDuration returns the measurement time per entry.
func (o Options) TimeDuration() time.Duration {
	return seconds(o.Time)
}

// Human reports whether numbers should be scaled with unit suffixes.
func (o Options) Human() bool {
	return strings.EqualFold(string(o.Format), string(FormatHuman))
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
