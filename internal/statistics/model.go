// Package statistics reduces per-batch throughput samples to a central
// tendency and an error bound. Two interchangeable models are provided: SD
// (mean and population standard deviation) and Bootstrap (resampled median
// and confidence interval).
package statistics

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownMode is returned for a stats mode other than sd or bootstrap.
	ErrUnknownMode = errors.New("unknown stats mode")

	// ErrNoSamples is returned when a model is built from no samples.
	ErrNoSamples = errors.New("no samples to summarize")
)

// Model summarizes one entry's throughput samples.
type Model interface {
	// CentralTendency is the representative iterations-per-second value.
	CentralTendency() float64

	// Error is the uncertainty around CentralTendency, in the same unit.
	Error() float64

	// Slowdown reports how many times slower this model is than baseline,
	// with an optional error on that factor.
	Slowdown(baseline Model) (factor float64, err *float64)

	// Overlaps reports whether this model's upper bound reaches past the
	// lower bound of other.
	Overlaps(other Model) bool

	// Footer describes the confidence method, or "" when there is nothing
	// to disclose.
	Footer() string
}

// Mode selects a Model implementation.
type Mode string

// Mode constants
const (
	ModeSD        Mode = "sd"
	ModeBootstrap Mode = "bootstrap"
)

// DefaultConfidence is the bootstrap confidence level, in percent.
const DefaultConfidence = 95

// ParseMode converts a configuration value into a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeSD, ModeBootstrap:
		return m, nil
	case "":
		return ModeSD, nil
	default:
		return "", fmt.Errorf("%w %q: must be sd or bootstrap", ErrUnknownMode, s)
	}
}

// Check reports whether models of the given mode can be built in this
// binary. It is meant to run before any measurement starts.
func Check(mode Mode) error {
	switch mode {
	case ModeSD:
		return nil
	case ModeBootstrap:
		if engine == nil {
			return ErrBootstrapUnavailable
		}
		return nil
	default:
		return fmt.Errorf("%w %q: must be sd or bootstrap", ErrUnknownMode, mode)
	}
}

type options struct {
	confidence float64
	seed       int64
}

// Option configures model construction.
type Option func(*options)

// WithConfidence sets the bootstrap confidence level in percent, e.g. 95.
func WithConfidence(percent float64) Option {
	return func(o *options) {
		o.confidence = percent
	}
}

// WithSeed fixes the bootstrap random source. A negative seed uses a
// non-deterministic source.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// New builds the model selected by mode from throughput samples.
func New(mode Mode, samples []float64, opts ...Option) (Model, error) {
	o := options{confidence: DefaultConfidence, seed: -1}
	for _, opt := range opts {
		opt(&o)
	}

	if err := Check(mode); err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}

	if mode == ModeBootstrap {
		return NewBootstrap(samples, o.confidence, o.seed)
	}
	return NewSD(samples)
}

// overlaps is the one-sided interval test shared by both models: does a's
// upper bound exceed b's lower bound.
func overlaps(a, b Model) bool {
	return a.CentralTendency()+a.Error() > b.CentralTendency()-b.Error()
}
