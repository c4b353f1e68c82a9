package statistics

import (
	"math"

	"github.com/spboyer/ipsbench/internal/metrics"
)

// SD summarizes samples by their mean and population standard deviation.
type SD struct {
	mean  float64
	error float64
}

// NewSD computes the mean and the population standard deviation of samples,
// the latter rounded to the nearest whole iteration per second.
func NewSD(samples []float64) (*SD, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	m := metrics.Mean(samples)
	sd := math.Sqrt(metrics.VarianceAround(samples, m))
	return &SD{mean: m, error: math.Round(sd)}, nil
}

// NewSDSummary rebuilds an SD model from an already-computed mean and
// standard deviation, e.g. from an exported report.
func NewSDSummary(mean, stddev float64) *SD {
	return &SD{mean: mean, error: stddev}
}

// CentralTendency implements Model.
func (s *SD) CentralTendency() float64 {
	return s.mean
}

// Error implements Model.
func (s *SD) Error() float64 {
	return s.error
}

// Slowdown implements Model. The factor is exact and carries no error term.
func (s *SD) Slowdown(baseline Model) (float64, *float64) {
	return baseline.CentralTendency() / s.mean, nil
}

// Overlaps implements Model.
func (s *SD) Overlaps(other Model) bool {
	return overlaps(s, other)
}

// Footer implements Model.
func (s *SD) Footer() string {
	return ""
}
