//go:build !nobootstrap

package statistics

import "github.com/aclements/go-moremath/stats"

// engine is the go-moremath backed resampler compiled into default builds.
var engine resampler = moremathEngine{}

type moremathEngine struct{}

func (moremathEngine) mean(xs []float64) float64 {
	return stats.Mean(xs)
}

func (moremathEngine) quantiles(xs []float64, qs ...float64) []float64 {
	sample := stats.Sample{Xs: xs}
	sample.Sort()
	out := make([]float64, len(qs))
	for i, q := range qs {
		out[i] = sample.Quantile(q)
	}
	return out
}
