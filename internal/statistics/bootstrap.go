package statistics

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrBootstrapUnavailable is returned when the binary was built without the
// resampling engine (the nobootstrap build tag).
var ErrBootstrapUnavailable = errors.New(
	"the bootstrap stats mode needs the resampling engine, which this binary was built without; " +
		"rebuild without -tags nobootstrap or use --stats sd")

// DefaultBootstrapIterations is the number of bootstrap resamples.
const DefaultBootstrapIterations = 10000

// ConfidenceInterval holds the result of a bootstrap confidence interval computation.
type ConfidenceInterval struct {
	Lower           float64 `json:"lower"`
	Median          float64 `json:"median"`
	Upper           float64 `json:"upper"`
	ConfidenceLevel float64 `json:"confidence_level"`
	NumBootstraps   int     `json:"num_bootstraps"`
}

// HalfWidth returns half the distance between the interval bounds.
func (ci ConfidenceInterval) HalfWidth() float64 {
	return (ci.Upper - ci.Lower) / 2
}

// resampler is the numeric backend the bootstrap model depends on.
type resampler interface {
	mean(xs []float64) float64
	// quantiles returns the q-quantiles of xs in the order requested.
	// xs may be reordered.
	quantiles(xs []float64, qs ...float64) []float64
}

// Bootstrap summarizes samples by the median of the bootstrap distribution of
// their mean, with the half-width of a percentile confidence interval as the
// error.
type Bootstrap struct {
	samples    []float64
	iterations int
	confidence float64 // percent
	seed       int64
	interval   ConfidenceInterval
}

// NewBootstrap resamples samples DefaultBootstrapIterations times at the given
// confidence level (in percent). A negative seed uses a non-deterministic
// source.
func NewBootstrap(samples []float64, confidence float64, seed int64) (*Bootstrap, error) {
	if engine == nil {
		return nil, ErrBootstrapUnavailable
	}
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	if confidence <= 0 || confidence >= 100 {
		return nil, fmt.Errorf("confidence %v%% must be between 0 and 100", confidence)
	}

	b := &Bootstrap{
		samples:    append([]float64(nil), samples...),
		iterations: DefaultBootstrapIterations,
		confidence: confidence,
		seed:       seed,
	}
	b.interval = BootstrapCIWithSeed(b.samples, confidence/100, seed)
	return b, nil
}

// Interval returns the computed confidence interval.
func (b *Bootstrap) Interval() ConfidenceInterval {
	return b.interval
}

// CentralTendency implements Model.
func (b *Bootstrap) CentralTendency() float64 {
	return b.interval.Median
}

// Error implements Model.
func (b *Bootstrap) Error() float64 {
	return b.interval.HalfWidth()
}

// Slowdown implements Model. Against another Bootstrap model it computes the
// bootstrap distribution of mean(baseline)/mean(b) and returns its median with
// the mean of the lower and upper distances as a symmetric error. Against any
// other model it falls back to the plain ratio.
func (b *Bootstrap) Slowdown(baseline Model) (float64, *float64) {
	base, ok := baseline.(*Bootstrap)
	if !ok {
		return baseline.CentralTendency() / b.CentralTendency(), nil
	}
	q := QuotientWithSeed(base.samples, b.samples, b.confidence/100, b.seed)
	e := ((q.Median - q.Lower) + (q.Upper - q.Median)) / 2
	return q.Median, &e
}

// Overlaps implements Model.
func (b *Bootstrap) Overlaps(other Model) bool {
	return overlaps(b, other)
}

// Footer implements Model.
func (b *Bootstrap) Footer() string {
	return fmt.Sprintf("with %.1f%% confidence", b.confidence)
}

// BootstrapCI computes a bootstrap confidence interval for the mean of
// samples using the percentile method. confidenceLevel should be in (0, 1).
func BootstrapCI(samples []float64, confidenceLevel float64) ConfidenceInterval {
	return BootstrapCIWithSeed(samples, confidenceLevel, -1)
}

// BootstrapCIWithSeed is like BootstrapCI but accepts a seed for reproducibility.
// A negative seed uses a non-deterministic source.
func BootstrapCIWithSeed(samples []float64, confidenceLevel float64, seed int64) ConfidenceInterval {
	n := len(samples)
	if n < 2 || engine == nil {
		m := 0.0
		if n > 0 && engine != nil {
			m = engine.mean(samples)
		}
		return ConfidenceInterval{Lower: m, Median: m, Upper: m, ConfidenceLevel: confidenceLevel}
	}

	rng := newRand(seed)
	iters := DefaultBootstrapIterations

	bootMeans := make([]float64, iters)
	sample := make([]float64, n)
	for i := 0; i < iters; i++ {
		for j := 0; j < n; j++ {
			sample[j] = samples[rng.Intn(n)]
		}
		bootMeans[i] = engine.mean(sample)
	}

	return percentileInterval(bootMeans, confidenceLevel)
}

// QuotientWithSeed computes the bootstrap distribution of
// mean(numerator resample) / mean(denominator resample) and returns its
// median and percentile bounds.
func QuotientWithSeed(numerator, denominator []float64, confidenceLevel float64, seed int64) ConfidenceInterval {
	if engine == nil || len(numerator) == 0 || len(denominator) == 0 {
		return ConfidenceInterval{ConfidenceLevel: confidenceLevel}
	}

	rng := newRand(seed)
	iters := DefaultBootstrapIterations

	ratios := make([]float64, iters)
	num := make([]float64, len(numerator))
	den := make([]float64, len(denominator))
	for i := 0; i < iters; i++ {
		for j := range num {
			num[j] = numerator[rng.Intn(len(numerator))]
		}
		for j := range den {
			den[j] = denominator[rng.Intn(len(denominator))]
		}
		ratios[i] = engine.mean(num) / engine.mean(den)
	}

	return percentileInterval(ratios, confidenceLevel)
}

func percentileInterval(dist []float64, confidenceLevel float64) ConfidenceInterval {
	alpha := 1.0 - confidenceLevel
	q := engine.quantiles(dist, alpha/2, 0.5, 1-alpha/2)
	return ConfidenceInterval{
		Lower:           q[0],
		Median:          q[1],
		Upper:           q[2],
		ConfidenceLevel: confidenceLevel,
		NumBootstraps:   len(dist),
	}
}

func newRand(seed int64) *rand.Rand {
	if seed >= 0 {
		return rand.New(rand.NewSource(seed))
	}
	return rand.New(rand.NewSource(rand.Int63()))
}
