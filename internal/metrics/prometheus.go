package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spboyer/ipsbench/internal/clock"
	"github.com/spboyer/ipsbench/internal/models"
)

// Collector holds per-entry benchmark gauges in a private registry.
type Collector struct {
	registry *prometheus.Registry

	IterationsPerSecond *prometheus.GaugeVec
	Stddev              *prometheus.GaugeVec
	Iterations          *prometheus.GaugeVec
	MeasuredSeconds     *prometheus.GaugeVec
	CyclesPerBatch      *prometheus.GaugeVec
	TimingSkewed        *prometheus.GaugeVec
}

// NewCollector creates and registers the benchmark gauges.
func NewCollector() *Collector {
	c := &Collector{registry: prometheus.NewRegistry()}

	c.IterationsPerSecond = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ipsbench_iterations_per_second",
			Help: "Central iterations per second of a benchmark entry",
		},
		[]string{"label"},
	)

	c.Stddev = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ipsbench_iterations_per_second_error",
			Help: "Error bound around the iterations per second",
		},
		[]string{"label"},
	)

	c.Iterations = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ipsbench_iterations",
			Help: "Iterations completed during measurement",
		},
		[]string{"label"},
	)

	c.MeasuredSeconds = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ipsbench_measured_seconds",
			Help: "Time spent inside measured batches",
		},
		[]string{"label"},
	)

	c.CyclesPerBatch = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ipsbench_cycles_per_batch",
			Help: "Calibrated iterations per 100ms batch",
		},
		[]string{"label"},
	)

	c.TimingSkewed = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ipsbench_timing_skewed",
			Help: "1 when the measurement overran its requested time by more than 5%",
		},
		[]string{"label"},
	)

	c.registry.MustRegister(
		c.IterationsPerSecond,
		c.Stddev,
		c.Iterations,
		c.MeasuredSeconds,
		c.CyclesPerBatch,
		c.TimingSkewed,
	)
	return c
}

// Registry exposes the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Observe sets every gauge from records. A later record with the same
// label overwrites an earlier one.
func (c *Collector) Observe(records []models.Record) {
	for _, r := range records {
		c.IterationsPerSecond.WithLabelValues(r.Name).Set(r.IPS)
		c.Stddev.WithLabelValues(r.Name).Set(r.Stddev)
		c.Iterations.WithLabelValues(r.Name).Set(float64(r.Iterations))
		c.MeasuredSeconds.WithLabelValues(r.Name).Set(clock.Seconds(r.Microseconds))
		c.CyclesPerBatch.WithLabelValues(r.Name).Set(float64(r.Cycles))
		skewed := 0.0
		if r.Skewed {
			skewed = 1
		}
		c.TimingSkewed.WithLabelValues(r.Name).Set(skewed)
	}
}

// WriteTextfile writes the registry in the text exposition format,
// atomically replacing path.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
